package tetradae

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/solarlune/tetradae/dae"
)

// upAxisStepSID names the rotate step that CorrectYUp puts first on each top-level node of a Z-up document.
const upAxisStepSID = "up-axis"

// DaeLoadOptions configures how a COLLADA document turns into a Library.
type DaeLoadOptions struct {
	// Whether to rotate Z-up documents (like Blender's) so +Y is up. Each top-level node of the document gets an
	// extra first transform step rotating it; the scene root and the default light and camera stay unrotated.
	CorrectYUp     bool
	InjectDefaults bool // Whether scenes without lights or cameras get a default light and camera.
}

// DefaultDaeLoadOptions returns a default instance of DaeLoadOptions.
func DefaultDaeLoadOptions() *DaeLoadOptions {
	return &DaeLoadOptions{
		CorrectYUp:     true,
		InjectDefaults: true,
	}
}

// LoadDAEFile takes a filepath to a .dae model file, and returns a *Library populated with the .dae file's scenes,
// meshes, materials, lights, cameras, and animations. If the call couldn't complete for any reason, like due to a
// malformed DAE file, it will return an error and no Library.
func LoadDAEFile(path string, options *DaeLoadOptions) (*Library, error) {

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadDAE(file, options)

}

// LoadDAEData is LoadDAEFile for a document that's already in memory.
func LoadDAEData(data []byte, options *DaeLoadOptions) (*Library, error) {
	return LoadDAE(bytes.NewReader(data), options)
}

// LoadDAE reads a COLLADA document from r and converts it into a Library. It doesn't close r.
func LoadDAE(r io.Reader, options *DaeLoadOptions) (*Library, error) {

	if options == nil {
		options = DefaultDaeLoadOptions()
	}

	doc, err := dae.Read(r, &dae.Options{InjectDefaults: options.InjectDefaults})
	if err != nil {
		return nil, err
	}

	return ConvertDocument(doc, options)

}

// ConvertDocument turns a parsed COLLADA document into a Library.
func ConvertDocument(doc *dae.Document, options *DaeLoadOptions) (*Library, error) {

	if options == nil {
		options = DefaultDaeLoadOptions()
	}

	conv := &daeConverter{doc: doc, options: options, lib: NewLibrary()}
	conv.lib.UpAxis = doc.Asset.UpAxis

	for _, image := range doc.Images.All() {
		conv.lib.Images[image.ID] = image.InitFrom
	}

	for _, material := range doc.Materials.All() {
		mat, err := conv.material(material)
		if err != nil {
			return nil, err
		}
		conv.lib.Materials[material.ID] = mat
	}

	for _, geometry := range doc.Geometries.All() {
		if geometry.Mesh == nil {
			Logger().Debug("skipping geometry without mesh", "geometry", geometry.ID)
			continue
		}
		mesh, err := conv.mesh(geometry)
		if err != nil {
			return nil, fmt.Errorf("geometry %q: %w", geometry.ID, err)
		}
		conv.lib.Meshes[geometry.ID] = mesh
		Logger().Debug("loaded geometry", "geometry", geometry.ID, "vertices", len(mesh.Positions), "triangles", mesh.TriangleCount())
	}

	for _, light := range doc.Lights.All() {
		conv.lib.Lights[light.ID] = convertLight(light)
	}

	for _, camera := range doc.Cameras.All() {
		conv.lib.Cameras[camera.ID] = convertCamera(camera)
	}

	for _, animation := range doc.Animations.All() {
		conv.lib.Animations[animation.ID] = convertAnimation(animation)
	}

	for _, visualScene := range doc.VisualScenes.All() {
		scene, err := conv.scene(visualScene)
		if err != nil {
			return nil, err
		}
		if doc.Scene != nil && doc.Scene.VisualScene == visualScene {
			conv.lib.ExportedScene = scene
		}
	}

	return conv.lib, nil

}

type daeConverter struct {
	doc     *dae.Document
	options *DaeLoadOptions
	lib     *Library
}

func displayName(id, name string) string {
	if name != "" {
		return name
	}
	return id
}

func textureName(ref *dae.TextureRef) string {
	if ref.Image != nil {
		if ref.Image.InitFrom != "" {
			return ref.Image.InitFrom
		}
		return ref.Image.ID
	}
	return ref.Texture
}

func (conv *daeConverter) material(material *dae.Material) (*Material, error) {

	builder := NewMaterialBuilder().SetID(material.ID).SetName(displayName(material.ID, material.Name))

	var shading *dae.Shading
	if material.Effect != nil {
		shading = material.Effect.Shading()
	}

	if shading != nil {

		builder.SetShader(shading.Model)

		channels := [channelCount]*dae.ColorOrTexture{
			ChannelEmission:    shading.Emission,
			ChannelAmbient:     shading.Ambient,
			ChannelDiffuse:     shading.Diffuse,
			ChannelSpecular:    shading.Specular,
			ChannelReflective:  shading.Reflective,
			ChannelTransparent: shading.Transparent,
		}

		for channel, value := range channels {
			if value == nil {
				continue
			}
			if value.IsTexture() {
				builder.SetTexture(MaterialChannel(channel), textureName(value.Texture()))
				// Textured channels draw the texture as is.
				builder.SetColor(MaterialChannel(channel), NewColor(1, 1, 1, 1))
			} else {
				builder.SetColor(MaterialChannel(channel), NewColorFromArray(value.Color()))
			}
		}

		if shading.Shininess != nil {
			builder.SetShininess(*shading.Shininess)
		}
		if shading.Reflectivity != nil {
			builder.SetReflectivity(*shading.Reflectivity)
		}
		if shading.Transparency != nil {
			builder.SetTransparency(*shading.Transparency)
		}
		if shading.IndexOfRefraction != nil {
			builder.SetIndexOfRefraction(*shading.IndexOfRefraction)
		}

	}

	return builder.Build()

}

// elementCount returns the number of elements a source holds.
func elementCount(source *dae.DataSource) int {
	if source.Accessor != nil && source.Accessor.Count > 0 {
		return source.Accessor.Count
	}
	stride := source.Stride()
	switch {
	case source.Floats != nil:
		return len(source.Floats.Values) / stride
	case source.Names != nil:
		return len(source.Names.Values) / stride
	}
	return 0
}

// meshSources adds the elements of data sources to a MeshBuilder on first use, and remembers where they start.
type meshSources struct {
	bases map[*dae.DataSource]int
}

func (sources *meshSources) base(source *dae.DataSource, add func(source *dae.DataSource, i int) int) int {
	if base, ok := sources.bases[source]; ok {
		return base
	}
	base := -1
	for i := 0; i < elementCount(source); i++ {
		index := add(source, i)
		if base < 0 {
			base = index
		}
	}
	sources.bases[source] = base
	return base
}

func component(source *dae.DataSource, i, c int) float32 {
	v, _ := source.Float(i, c)
	return v
}

func (conv *daeConverter) mesh(geometry *dae.Geometry) (*Mesh, error) {

	daeMesh := geometry.Mesh
	builder := NewMeshBuilder()

	addPosition := func(source *dae.DataSource, i int) int {
		return builder.AddVertex(component(source, i, 0), component(source, i, 1), component(source, i, 2))
	}
	addNormal := func(source *dae.DataSource, i int) int {
		return builder.AddNormal(component(source, i, 0), component(source, i, 1), component(source, i, 2))
	}
	addTexCoord := func(source *dae.DataSource, i int) int {
		return builder.AddTexCoord(component(source, i, 0), component(source, i, 1))
	}

	positions := &meshSources{bases: map[*dae.DataSource]int{}}
	normals := &meshSources{bases: map[*dae.DataSource]int{}}
	texCoords := &meshSources{bases: map[*dae.DataSource]int{}}

	positionSource := daeMesh.Vertices.Input("POSITION").DataSource
	positionBase := positions.base(positionSource, addPosition)

	// Normals and texture coordinates may be bound in <vertices>, in which case they share the position index.
	var vertexNormals, vertexTexCoords *dae.DataSource
	if input := daeMesh.Vertices.Input("NORMAL"); input != nil && input.DataSource != nil {
		vertexNormals = input.DataSource
	}
	if input := daeMesh.Vertices.Input("TEXCOORD"); input != nil && input.DataSource != nil {
		vertexTexCoords = input.DataSource
	}

	for _, group := range daeMesh.Primitives {

		vertexInput := group.Input("VERTEX")
		normalInput := group.Input("NORMAL")
		texInput := firstTexCoord(group)

		normalSource, texSource := vertexNormals, vertexTexCoords
		if normalInput != nil && normalInput.DataSource != nil {
			normalSource = normalInput.DataSource
		}
		if texInput != nil && texInput.DataSource != nil {
			texSource = texInput.DataSource
		}

		normalBase, texBase := 0, 0
		if normalSource != nil {
			normalBase = normals.base(normalSource, addNormal)
		}
		if texSource != nil {
			texBase = texCoords.base(texSource, addTexCoord)
		}

		builder.UseNormals(normalSource != nil)
		builder.UseTexCoords(texSource != nil)
		builder.SetMaterial(group.Material)

		stride := group.Stride()
		var flat []int
		for _, p := range group.Indices {
			flat = append(flat, p...)
		}

		cursor := 0
		var tuple []int

		for _, count := range group.Polygons() {

			if (cursor+count)*stride > len(flat) {
				return nil, fmt.Errorf("%w: %s indices end early", ErrBadElement, group.Kind)
			}

			tuple = tuple[:0]

			for corner := 0; corner < count; corner++ {

				block := flat[(cursor+corner)*stride : (cursor+corner+1)*stride]
				position := block[vertexInput.Offset]
				tuple = append(tuple, positionBase+position)

				if normalSource != nil {
					if normalInput != nil && normalInput.DataSource == normalSource {
						tuple = append(tuple, normalBase+block[normalInput.Offset])
					} else {
						tuple = append(tuple, normalBase+position)
					}
				}

				if texSource != nil {
					if texInput != nil && texInput.DataSource == texSource {
						tuple = append(tuple, texBase+block[texInput.Offset])
					} else {
						tuple = append(tuple, texBase+position)
					}
				}

			}

			if err := builder.AddElement(count, tuple...); err != nil {
				return nil, err
			}

			cursor += count

		}

	}

	return builder.Build(displayName(geometry.ID, geometry.Name))

}

// firstTexCoord returns the group's TEXCOORD input with the lowest set.
func firstTexCoord(group *dae.PrimitiveGroup) *dae.Input {
	var best *dae.Input
	for _, input := range group.Inputs {
		if input.Semantic != "TEXCOORD" {
			continue
		}
		if best == nil || (input.Set >= 0 && (best.Set < 0 || input.Set < best.Set)) {
			best = input
		}
	}
	return best
}

func convertLight(light *dae.Light) *Light {

	out := NewLight(displayName(light.ID, light.Name), light.Kind, NewColor(light.Color[0], light.Color[1], light.Color[2], 1))

	if light.ConstantAttenuation != nil {
		out.ConstantAttenuation = *light.ConstantAttenuation
	}
	if light.LinearAttenuation != nil {
		out.LinearAttenuation = *light.LinearAttenuation
	}
	if light.QuadraticAttenuation != nil {
		out.QuadraticAttenuation = *light.QuadraticAttenuation
	}
	if light.FalloffAngle != nil {
		out.FalloffAngle = *light.FalloffAngle
	}
	if light.FalloffExponent != nil {
		out.FalloffExponent = *light.FalloffExponent
	}

	return out

}

func convertCamera(camera *dae.Camera) *Camera {

	out := &Camera{Name: displayName(camera.ID, camera.Name), Near: 0.1, Far: 1000}

	if optic := camera.Optic; optic != nil {
		if optic.XFov != nil {
			out.XFov = *optic.XFov
		}
		if optic.YFov != nil {
			out.YFov = *optic.YFov
		}
		if optic.AspectRatio != nil {
			out.AspectRatio = *optic.AspectRatio
		}
		out.Near = optic.ZNear
		out.Far = optic.ZFar
	}

	return out

}

func convertAnimation(animation *dae.Animation) *Animation {

	out := NewAnimation(displayName(animation.ID, animation.Name))

	for _, channel := range animation.AllChannels() {

		input := channel.Sampler.Input("INPUT").DataSource
		output := channel.Sampler.Input("OUTPUT").DataSource
		var interpolation *dae.DataSource
		if in := channel.Sampler.Input("INTERPOLATION"); in != nil {
			interpolation = in.DataSource
		}

		converted := NewAnimationChannel(channel.Target)
		stride := output.Stride()
		values := make([]float32, stride)

		for i := 0; i < elementCount(input); i++ {

			time, _ := input.Float(i, 0)
			for c := range values {
				values[c] = component(output, i, c)
			}

			mode := InterpolationLinear
			if interpolation != nil && interpolation.Names != nil {
				offset := 0
				if interpolation.Accessor != nil {
					offset = interpolation.Accessor.Offset
				}
				if index := offset + i*interpolation.Stride(); index < len(interpolation.Names.Values) {
					mode = ParseInterpolation(interpolation.Names.Values[index])
				}
			}

			converted.AddKeyframe(time, mode, values...)

		}

		out.AddChannel(converted)

	}

	return out

}

func (conv *daeConverter) scene(visualScene *dae.VisualScene) (*Scene, error) {

	scene := conv.lib.AddScene(displayName(visualScene.ID, visualScene.Name))
	root := scene.Root

	// Only the document's own nodes are corrected; the defaults synthesized below are already Y-up.
	var correction []TransformStep
	if conv.options.CorrectYUp && conv.doc.Asset.UpAxis == "Z_UP" {
		// Tetra's +Y is Blender's +Z
		correction = append(correction, NewTransformStep(upAxisStepSID, dae.TransformRotate, 1, 0, 0, -90))
	}

	for _, daeNode := range visualScene.Nodes {
		node, err := conv.node(daeNode)
		if err != nil {
			return nil, err
		}
		if correction != nil {
			node.SetTransformSteps(append(append([]TransformStep{}, correction...), node.TransformSteps()...)...)
		}
		if err := root.AppendChild(node); err != nil {
			return nil, err
		}
	}

	if visualScene.DefaultLight != nil {
		root.AddLight(convertLight(visualScene.DefaultLight))
		Logger().Debug("added default light", "scene", scene.Name)
	}

	if visualScene.DefaultCamera != nil {
		node, err := conv.node(visualScene.DefaultCamera)
		if err != nil {
			return nil, err
		}
		if err := root.AppendChild(node); err != nil {
			return nil, err
		}
		Logger().Debug("added default camera", "scene", scene.Name)
	}

	return scene, nil

}

func (conv *daeConverter) node(daeNode *dae.Node) (*Node, error) {

	node := NewNode(displayName(daeNode.ID, daeNode.Name))

	if daeNode.ID != "" {
		node.Properties().Set("dae.id", daeNode.ID)
	}
	if daeNode.SID != "" {
		node.Properties().Set("dae.sid", daeNode.SID)
	}
	node.Properties().Set("dae.type", daeNode.Type)

	steps := make([]TransformStep, 0, len(daeNode.Transformations))
	for _, t := range daeNode.Transformations {
		steps = append(steps, NewTransformStep(t.SID, t.Kind, t.Values...))
	}
	node.SetTransformSteps(steps...)

	for _, instance := range daeNode.Geometries {
		mesh := conv.lib.Meshes[instance.Geometry.ID]
		if mesh == nil {
			continue
		}
		meshInstance := NewMeshInstance(mesh)
		for _, binding := range instance.Bindings {
			if binding.Material != nil {
				meshInstance.Bind(binding.Symbol, conv.lib.Materials[binding.Material.ID])
			}
		}
		node.AddMesh(meshInstance)
	}

	for _, instance := range daeNode.Lights {
		if light, ok := conv.lib.Lights[instance.Light.ID]; ok {
			node.AddLight(light)
		} else {
			node.AddLight(convertLight(instance.Light))
		}
	}

	for _, instance := range daeNode.Cameras {
		if camera, ok := conv.lib.Cameras[instance.Camera.ID]; ok {
			node.AddCamera(camera)
		} else {
			node.AddCamera(convertCamera(instance.Camera))
		}
	}

	for _, child := range daeNode.Children {
		childNode, err := conv.node(child)
		if err != nil {
			return nil, err
		}
		if err := node.AppendChild(childNode); err != nil {
			return nil, fmt.Errorf("node %q: %w", daeNode.ID, err)
		}
	}

	return node, nil

}
