package dae

import (
	"fmt"
	"strings"
)

// Identifiable is embedded by every entity that can be stored in a Library.
type Identifiable struct {
	ID   string
	Name string
}

// Identifier returns the entity's id.
func (ident Identifiable) Identifier() string {
	return ident.ID
}

func newIdentifiable(entity, id, name string) (Identifiable, error) {
	if id == "" {
		return Identifiable{}, missingField(entity, "id")
	}
	return Identifiable{ID: id, Name: name}, nil
}

// Library is an ordered collection of entities keyed by id. Ids are unique within a Library.
type Library[T interface{ Identifier() string }] struct {
	items []T
	byID  map[string]T
}

// NewLibrary returns an empty Library.
func NewLibrary[T interface{ Identifier() string }]() *Library[T] {
	return &Library[T]{byID: map[string]T{}}
}

// Add adds the item to the library. Adding an item whose id is already present returns ErrDuplicateID,
// leaving the library unchanged.
func (lib *Library[T]) Add(item T) error {
	id := item.Identifier()
	if id == "" {
		return missingField("library item", "id")
	}
	if _, exists := lib.byID[id]; exists {
		return fmt.Errorf("%w %q", ErrDuplicateID, id)
	}
	lib.byID[id] = item
	lib.items = append(lib.items, item)
	return nil
}

// Get returns the item with the given id.
func (lib *Library[T]) Get(id string) (T, bool) {
	item, ok := lib.byID[id]
	return item, ok
}

// Len returns the number of items in the library.
func (lib *Library[T]) Len() int {
	return len(lib.items)
}

// All returns the library's items in document order.
func (lib *Library[T]) All() []T {
	return append([]T(nil), lib.items...)
}

// fragment returns the id a local URL ("#id") points to.
func fragment(kind, url string) (string, error) {
	if !strings.HasPrefix(url, "#") || len(url) < 2 {
		return "", &ReferenceError{Kind: kind, Ref: url}
	}
	return url[1:], nil
}

func lookup[T interface{ Identifier() string }](lib *Library[T], kind, url string) (T, error) {
	var zero T
	id, err := fragment(kind, url)
	if err != nil {
		return zero, err
	}
	item, ok := lib.Get(id)
	if !ok {
		return zero, &ReferenceError{Kind: kind, Ref: url}
	}
	return item, nil
}

//---------------//

// Asset holds the document-wide settings of <asset>.
type Asset struct {
	UpAxis    string  // "Y_UP" (the default), "Z_UP" or "X_UP"
	UnitMeter float32 // Size of one unit in meters; 1 by default
	UnitName  string
}

// Document is the in-memory model of a whole COLLADA file.
type Document struct {
	Version      string
	Asset        Asset
	Images       *Library[*Image]
	Materials    *Library[*Material]
	Effects      *Library[*Effect]
	Geometries   *Library[*Geometry]
	Lights       *Library[*Light]
	Cameras      *Library[*Camera]
	VisualScenes *Library[*VisualScene]
	Animations   *Library[*Animation]
	Scene        *Scene
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{
		Asset:        Asset{UpAxis: "Y_UP", UnitMeter: 1},
		Images:       NewLibrary[*Image](),
		Materials:    NewLibrary[*Material](),
		Effects:      NewLibrary[*Effect](),
		Geometries:   NewLibrary[*Geometry](),
		Lights:       NewLibrary[*Light](),
		Cameras:      NewLibrary[*Camera](),
		VisualScenes: NewLibrary[*VisualScene](),
		Animations:   NewLibrary[*Animation](),
	}
}

// Image is an entry of <library_images>.
type Image struct {
	Identifiable
	InitFrom string // URI or filename of the image data
}

// NewImage returns a new Image.
func NewImage(id, name, initFrom string) (*Image, error) {
	ident, err := newIdentifiable("Image", id, name)
	if err != nil {
		return nil, err
	}
	return &Image{Identifiable: ident, InitFrom: initFrom}, nil
}

// Material is an entry of <library_materials>; its look is described by the Effect it instantiates.
type Material struct {
	Identifiable
	EffectURL string
	Effect    *Effect // Resolved from EffectURL once the effect library has been read
}

// NewMaterial returns a new Material.
func NewMaterial(id, name string) (*Material, error) {
	ident, err := newIdentifiable("Material", id, name)
	if err != nil {
		return nil, err
	}
	return &Material{Identifiable: ident}, nil
}

//---------------//

// ShaderModel identifies the profile_COMMON shading model of a Technique.
type ShaderModel int

const (
	ShaderPhong ShaderModel = iota
	ShaderBlinn
	ShaderLambert
)

func (model ShaderModel) String() string {
	switch model {
	case ShaderPhong:
		return "phong"
	case ShaderBlinn:
		return "blinn"
	case ShaderLambert:
		return "lambert"
	}
	return fmt.Sprintf("ShaderModel(%d)", int(model))
}

// Effect is an entry of <library_effects>.
type Effect struct {
	Identifiable
	Profiles []*CommonProfile
}

// NewEffect returns a new Effect.
func NewEffect(id, name string) (*Effect, error) {
	ident, err := newIdentifiable("Effect", id, name)
	if err != nil {
		return nil, err
	}
	return &Effect{Identifiable: ident}, nil
}

// Shading returns the shading of the effect's first common technique, or nil if it has none.
func (effect *Effect) Shading() *Shading {
	for _, profile := range effect.Profiles {
		for _, technique := range profile.Techniques {
			if technique.Shader != nil {
				return technique.Shader
			}
		}
	}
	return nil
}

// CommonProfile is a <profile_COMMON> block.
type CommonProfile struct {
	Params     map[string]*NewParam
	Techniques []*Technique
}

func newCommonProfile() *CommonProfile {
	return &CommonProfile{Params: map[string]*NewParam{}}
}

// NewParam is a profile-scoped <newparam>, holding either a surface or a sampler.
type NewParam struct {
	SID     string
	Surface *Surface
	Sampler *Sampler2D
}

// Surface is a <surface>; InitFrom names an Image.
type Surface struct {
	InitFrom string
}

// Sampler2D is a <sampler2D>; Source names the sid of a surface NewParam.
type Sampler2D struct {
	Source string
}

// Technique is a <technique> inside a profile.
type Technique struct {
	SID    string
	Shader *Shading
}

// Shading holds the channels of a phong, blinn or lambert shader. Every channel is optional.
type Shading struct {
	Model       ShaderModel
	Emission    *ColorOrTexture
	Ambient     *ColorOrTexture
	Diffuse     *ColorOrTexture
	Specular    *ColorOrTexture
	Reflective  *ColorOrTexture
	Transparent *ColorOrTexture

	Shininess         *float32
	Reflectivity      *float32
	Transparency      *float32
	IndexOfRefraction *float32
}

// TextureRef is the texture half of a ColorOrTexture.
type TextureRef struct {
	Texture  string // sid of a sampler param, or an image id
	TexCoord string // texture coordinate set symbol
	Image    *Image // Resolved at the end of the read
}

// ColorOrTexture holds exactly one of an RGBA color or a texture reference.
type ColorOrTexture struct {
	color   [4]float32
	texture *TextureRef
}

// NewColorValue returns a ColorOrTexture holding a color.
func NewColorValue(r, g, b, a float32) *ColorOrTexture {
	cot := &ColorOrTexture{}
	cot.SetColor(r, g, b, a)
	return cot
}

// NewTextureValue returns a ColorOrTexture holding a texture reference.
func NewTextureValue(texture, texCoord string) (*ColorOrTexture, error) {
	cot := &ColorOrTexture{}
	if err := cot.SetTexture(texture, texCoord); err != nil {
		return nil, err
	}
	return cot, nil
}

// SetColor makes the value a color, dropping any texture reference.
func (cot *ColorOrTexture) SetColor(r, g, b, a float32) {
	cot.color = [4]float32{r, g, b, a}
	cot.texture = nil
}

// SetTexture makes the value a texture reference, dropping any color.
func (cot *ColorOrTexture) SetTexture(texture, texCoord string) error {
	if texture == "" {
		return missingField("texture", "texture")
	}
	cot.texture = &TextureRef{Texture: texture, TexCoord: texCoord}
	cot.color = [4]float32{}
	return nil
}

// IsColor returns true if the value holds a color.
func (cot *ColorOrTexture) IsColor() bool {
	return cot.texture == nil
}

// IsTexture returns true if the value holds a texture reference.
func (cot *ColorOrTexture) IsTexture() bool {
	return cot.texture != nil
}

// Color returns the held color; it's zero when the value is a texture.
func (cot *ColorOrTexture) Color() [4]float32 {
	return cot.color
}

// Texture returns the held texture reference, or nil when the value is a color.
func (cot *ColorOrTexture) Texture() *TextureRef {
	return cot.texture
}

//---------------//

// Accessor describes how to read a DataSource's array (<technique_common><accessor>).
type Accessor struct {
	Source string
	Count  int
	Stride int
	Offset int
	Params []string
}

// NewAccessor returns a new Accessor. A stride below 1 is treated as 1.
func NewAccessor(source string, count, stride int) (*Accessor, error) {
	if source == "" {
		return nil, missingField("Accessor", "source")
	}
	if stride < 1 {
		stride = 1
	}
	return &Accessor{Source: source, Count: count, Stride: stride}, nil
}

// FloatArray is a <float_array>.
type FloatArray struct {
	ID     string
	Count  int
	Values []float32
}

// NameArray is a <Name_array> or <IDREF_array>.
type NameArray struct {
	ID     string
	Count  int
	Values []string
}

// DataSource is a <source>: a flat buffer of floats or names plus how to read it.
type DataSource struct {
	Identifiable
	Floats   *FloatArray
	Names    *NameArray
	Accessor *Accessor
}

// NewDataSource returns a new DataSource.
func NewDataSource(id, name string) (*DataSource, error) {
	ident, err := newIdentifiable("DataSource", id, name)
	if err != nil {
		return nil, err
	}
	return &DataSource{Identifiable: ident}, nil
}

// Stride returns the number of values per element of the source.
func (source *DataSource) Stride() int {
	if source.Accessor != nil {
		return source.Accessor.Stride
	}
	return 1
}

// Float returns component of element index, honoring the accessor's offset and stride.
func (source *DataSource) Float(index, component int) (float32, bool) {
	if source.Floats == nil {
		return 0, false
	}
	offset := 0
	if source.Accessor != nil {
		offset = source.Accessor.Offset
	}
	i := offset + index*source.Stride() + component
	if index < 0 || i < 0 || i >= len(source.Floats.Values) {
		return 0, false
	}
	return source.Floats.Values[i], true
}

// Input binds a semantic to a source. Inputs in <vertices> and <sampler> are unshared and have no offset.
type Input struct {
	Semantic string
	Source   string
	Offset   int
	Set      int // -1 when absent

	DataSource *DataSource // nil for the VERTEX semantic, which points at the mesh's Vertices
}

// NewInput returns a new Input.
func NewInput(semantic, source string, offset, set int) (*Input, error) {
	if semantic == "" {
		return nil, missingField("Input", "semantic")
	}
	if source == "" {
		return nil, missingField("Input", "source")
	}
	return &Input{Semantic: semantic, Source: source, Offset: offset, Set: set}, nil
}

// Vertices is a mesh's <vertices> element, binding POSITION (and possibly other semantics) to sources.
type Vertices struct {
	ID     string
	Inputs []*Input
}

// Input returns the input with the given semantic, or nil.
func (vertices *Vertices) Input(semantic string) *Input {
	for _, input := range vertices.Inputs {
		if input.Semantic == semantic {
			return input
		}
	}
	return nil
}

// PrimitiveKind is the kind of a PrimitiveGroup.
type PrimitiveKind int

const (
	PrimitivePolygons PrimitiveKind = iota
	PrimitiveTriangles
	PrimitivePolyList
)

func (kind PrimitiveKind) String() string {
	switch kind {
	case PrimitivePolygons:
		return "polygons"
	case PrimitiveTriangles:
		return "triangles"
	case PrimitivePolyList:
		return "polylist"
	}
	return fmt.Sprintf("PrimitiveKind(%d)", int(kind))
}

// PrimitiveGroup is one <polygons>, <triangles> or <polylist> block of a mesh.
// Indices holds one slice per <p>; triangles and polylist use a single <p>.
type PrimitiveGroup struct {
	Kind     PrimitiveKind
	Material string
	Count    int
	Inputs   []*Input
	VCount   []int
	Indices  [][]int
}

// Stride returns the size of one index block, the number of distinct input offsets.
func (group *PrimitiveGroup) Stride() int {
	offsets := map[int]bool{}
	for _, input := range group.Inputs {
		offsets[input.Offset] = true
	}
	return len(offsets)
}

// Input returns the first input with the given semantic, or nil.
func (group *PrimitiveGroup) Input(semantic string) *Input {
	for _, input := range group.Inputs {
		if input.Semantic == semantic {
			return input
		}
	}
	return nil
}

// Polygons returns the vertex count of every polygon in the group, in order.
func (group *PrimitiveGroup) Polygons() []int {
	stride := group.Stride()
	if stride == 0 {
		return nil
	}
	switch group.Kind {
	case PrimitiveTriangles:
		total := 0
		for _, p := range group.Indices {
			total += len(p)
		}
		counts := make([]int, total/(stride*3))
		for i := range counts {
			counts[i] = 3
		}
		return counts
	case PrimitivePolyList:
		return append([]int(nil), group.VCount...)
	default:
		counts := make([]int, len(group.Indices))
		for i, p := range group.Indices {
			counts[i] = len(p) / stride
		}
		return counts
	}
}

// Mesh is a <mesh>.
type Mesh struct {
	Sources    *Library[*DataSource]
	Vertices   *Vertices
	Primitives []*PrimitiveGroup
}

func newMesh() *Mesh {
	return &Mesh{Sources: NewLibrary[*DataSource]()}
}

// Geometry is an entry of <library_geometries>.
type Geometry struct {
	Identifiable
	Mesh *Mesh
}

// NewGeometry returns a new Geometry.
func NewGeometry(id, name string) (*Geometry, error) {
	ident, err := newIdentifiable("Geometry", id, name)
	if err != nil {
		return nil, err
	}
	return &Geometry{Identifiable: ident}, nil
}

//---------------//

// LightKind is the kind of a Light.
type LightKind int

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
	LightSpot
)

func (kind LightKind) String() string {
	switch kind {
	case LightAmbient:
		return "ambient"
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	}
	return fmt.Sprintf("LightKind(%d)", int(kind))
}

// Light is an entry of <library_lights>.
type Light struct {
	Identifiable
	Kind  LightKind
	Color [3]float32

	ConstantAttenuation  *float32
	LinearAttenuation    *float32
	QuadraticAttenuation *float32
	FalloffAngle         *float32 // Spot lights only, in degrees
	FalloffExponent      *float32 // Spot lights only
}

// NewLight returns a new Light. The color defaults to white.
func NewLight(id, name string, kind LightKind) (*Light, error) {
	ident, err := newIdentifiable("Light", id, name)
	if err != nil {
		return nil, err
	}
	return &Light{Identifiable: ident, Kind: kind, Color: [3]float32{1, 1, 1}}, nil
}

// Perspective is the perspective optic of a Camera. Field of view values are in degrees.
type Perspective struct {
	XFov        *float32
	YFov        *float32
	AspectRatio *float32
	ZNear       float32
	ZFar        float32
}

// Camera is an entry of <library_cameras>.
type Camera struct {
	Identifiable
	Optic *Perspective
}

// NewCamera returns a new Camera.
func NewCamera(id, name string) (*Camera, error) {
	ident, err := newIdentifiable("Camera", id, name)
	if err != nil {
		return nil, err
	}
	return &Camera{Identifiable: ident}, nil
}

//---------------//

// TransformKind identifies a node transformation element.
type TransformKind int

const (
	TransformTranslate TransformKind = iota
	TransformRotate
	TransformScale
	TransformMatrix
)

func (kind TransformKind) String() string {
	switch kind {
	case TransformTranslate:
		return "translate"
	case TransformRotate:
		return "rotate"
	case TransformScale:
		return "scale"
	case TransformMatrix:
		return "matrix"
	}
	return fmt.Sprintf("TransformKind(%d)", int(kind))
}

// Arity returns how many numbers a transformation of this kind holds.
func (kind TransformKind) Arity() int {
	switch kind {
	case TransformRotate:
		return 4
	case TransformMatrix:
		return 16
	}
	return 3
}

// Transformation is one <translate>, <rotate>, <scale> or <matrix> of a node, with its values as written.
// Rotate values are axis x, y, z and then the angle in degrees. Matrix values are in the order written.
type Transformation struct {
	SID    string
	Kind   TransformKind
	Values []float32
}

// InstanceMaterial binds a material symbol used by a geometry to a material of the document.
type InstanceMaterial struct {
	Symbol   string
	Target   string
	Material *Material
}

// InstanceGeometry is an <instance_geometry>.
type InstanceGeometry struct {
	URL      string
	Geometry *Geometry
	Bindings []*InstanceMaterial
}

// MaterialFor returns the material bound to the given symbol, or nil.
func (instance *InstanceGeometry) MaterialFor(symbol string) *Material {
	for _, binding := range instance.Bindings {
		if binding.Symbol == symbol {
			return binding.Material
		}
	}
	return nil
}

// InstanceLight is an <instance_light>.
type InstanceLight struct {
	URL   string
	Light *Light
}

// InstanceCamera is an <instance_camera>.
type InstanceCamera struct {
	URL    string
	Camera *Camera
}

// Node is a <node> of a visual scene. Its id is optional.
type Node struct {
	ID              string
	Name            string
	SID             string
	Type            string // "NODE" or "JOINT"
	Transformations []*Transformation
	Children        []*Node
	Geometries      []*InstanceGeometry
	Lights          []*InstanceLight
	Cameras         []*InstanceCamera
}

// NewNode returns a new Node.
func NewNode(id, name string) *Node {
	return &Node{ID: id, Name: name, Type: "NODE"}
}

// Walk calls f for the node and all of its descendants, depth first.
func (node *Node) Walk(f func(node *Node)) {
	f(node)
	for _, child := range node.Children {
		child.Walk(f)
	}
}

// VisualScene is an entry of <library_visual_scenes>.
// DefaultLight and DefaultCamera are set when the scene was read without lights or cameras.
type VisualScene struct {
	Identifiable
	Nodes         []*Node
	DefaultLight  *Light
	DefaultCamera *Node
}

// NewVisualScene returns a new VisualScene.
func NewVisualScene(id, name string) (*VisualScene, error) {
	ident, err := newIdentifiable("VisualScene", id, name)
	if err != nil {
		return nil, err
	}
	return &VisualScene{Identifiable: ident}, nil
}

// Walk calls f for every node of the scene, depth first, excluding the default camera.
func (scene *VisualScene) Walk(f func(node *Node)) {
	for _, node := range scene.Nodes {
		node.Walk(f)
	}
}

// FindNode returns the node with the given id, or nil.
func (scene *VisualScene) FindNode(id string) *Node {
	var found *Node
	scene.Walk(func(node *Node) {
		if found == nil && node.ID == id {
			found = node
		}
	})
	return found
}

// Scene is the document's <scene>.
type Scene struct {
	InstanceVisualSceneURL string
	VisualScene            *VisualScene
}

//---------------//

// Sampler is an animation <sampler>; its inputs are INPUT (times), OUTPUT (values) and INTERPOLATION.
type Sampler struct {
	Identifiable
	Inputs []*Input
}

// Input returns the sampler's input with the given semantic, or nil.
func (sampler *Sampler) Input(semantic string) *Input {
	for _, input := range sampler.Inputs {
		if input.Semantic == semantic {
			return input
		}
	}
	return nil
}

// Channel is an animation <channel>: it applies Sampler to the transformation named by Target
// ("nodeID/sid", optionally followed by ".X", ".ANGLE", "(3)" and similar member selectors).
type Channel struct {
	Source  string
	Target  string
	Sampler *Sampler
}

// Animation is an entry of <library_animations>. Animations can nest.
type Animation struct {
	Identifiable
	Sources  *Library[*DataSource]
	Samplers *Library[*Sampler]
	Channels []*Channel
	Children []*Animation
}

// NewAnimation returns a new Animation.
func NewAnimation(id, name string) (*Animation, error) {
	ident, err := newIdentifiable("Animation", id, name)
	if err != nil {
		return nil, err
	}
	return &Animation{
		Identifiable: ident,
		Sources:      NewLibrary[*DataSource](),
		Samplers:     NewLibrary[*Sampler](),
	}, nil
}

// AllChannels returns the channels of the animation and all nested animations.
func (animation *Animation) AllChannels() []*Channel {
	channels := append([]*Channel(nil), animation.Channels...)
	for _, child := range animation.Children {
		channels = append(channels, child.AllChannels()...)
	}
	return channels
}
