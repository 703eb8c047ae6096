// Package gltfexport writes tetradae scenes out as glTF 2.0 documents, so scenes loaded from COLLADA files can be
// handed to tools that read glTF. Lights are written with the KHR_lights_punctual extension.
package gltfexport

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
	"github.com/qmuntal/gltf/modeler"
	"github.com/solarlune/tetradae"
)

// ErrNoScene is returned when there's nothing to export.
var ErrNoScene = errors.New("gltfexport: no scene")

type meshKey struct {
	mesh      *tetradae.Mesh
	materials string
}

type exporter struct {
	doc       *gltf.Document
	meshes    map[meshKey]int
	materials map[*tetradae.Material]int
	textures  map[string]int
	cameras   map[*tetradae.Camera]int
	lights    map[*tetradae.Light]int
	lightList lightspunctual.Lights
}

// Export builds a glTF document holding the scene's tree, meshes, materials, cameras, and lights.
// The scene's root becomes the document's single root node, so its transform (like the Y-up correction of Z-up
// COLLADA files) is kept.
func Export(scene *tetradae.Scene) (*gltf.Document, error) {

	if scene == nil || scene.Root == nil {
		return nil, ErrNoScene
	}

	exp := &exporter{
		doc:       gltf.NewDocument(),
		meshes:    map[meshKey]int{},
		materials: map[*tetradae.Material]int{},
		textures:  map[string]int{},
		cameras:   map[*tetradae.Camera]int{},
		lights:    map[*tetradae.Light]int{},
	}

	exp.doc.Asset.Generator = "tetradae"
	if len(exp.doc.Buffers) == 0 {
		exp.doc.Buffers = append(exp.doc.Buffers, &gltf.Buffer{})
	}

	if len(exp.doc.Scenes) == 0 {
		exp.doc.Scenes = append(exp.doc.Scenes, &gltf.Scene{})
		exp.doc.Scene = gltf.Index(0)
	}

	root, err := exp.node(scene.Root)
	if err != nil {
		return nil, err
	}

	exp.doc.Scenes[0].Name = scene.Name
	exp.doc.Scenes[0].Nodes = append(exp.doc.Scenes[0].Nodes, root)

	if len(exp.lightList) > 0 {
		if exp.doc.Extensions == nil {
			exp.doc.Extensions = gltf.Extensions{}
		}
		exp.doc.Extensions[lightspunctual.ExtensionName] = exp.lightList
		exp.doc.ExtensionsUsed = append(exp.doc.ExtensionsUsed, lightspunctual.ExtensionName)
	}

	tetradae.Logger().Debug("exported scene to glTF", "scene", scene.Name, "nodes", len(exp.doc.Nodes), "meshes", len(exp.doc.Meshes))

	return exp.doc, nil

}

// Write exports the scene and encodes it to w, as a binary .glb if binary is set and as JSON with embedded
// buffers otherwise.
func Write(w io.Writer, scene *tetradae.Scene, binary bool) error {

	doc, err := Export(scene)
	if err != nil {
		return err
	}

	if !binary {
		for _, buffer := range doc.Buffers {
			if buffer.URI == "" {
				buffer.EmbeddedResource()
			}
		}
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = binary
	return encoder.Encode(doc)

}

// Save exports the scene to the named file. Files ending in .glb are written in binary form.
func Save(path string, scene *tetradae.Scene) error {

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	binary := strings.EqualFold(filepath.Ext(path), ".glb")
	if err := Write(file, scene, binary); err != nil {
		file.Close()
		return fmt.Errorf("gltfexport: writing %s: %w", path, err)
	}

	return file.Close()

}

// node adds the tetradae Node and its subtree to the document and returns its index. glTF nodes hold a single
// mesh, camera, and light, so further ones go on child nodes of their own.
func (exp *exporter) node(node *tetradae.Node) (int, error) {

	index := len(exp.doc.Nodes)
	out := &gltf.Node{Name: node.Name()}
	exp.doc.Nodes = append(exp.doc.Nodes, out)

	if local := node.LocalTransform(); !local.IsIdentity() {
		setTransform(out, local)
	}

	attach := func(name string, fill func(target *gltf.Node)) {
		if out.Mesh == nil && out.Camera == nil && out.Extensions == nil {
			fill(out)
			return
		}
		extra := &gltf.Node{Name: name}
		fill(extra)
		out.Children = append(out.Children, len(exp.doc.Nodes))
		exp.doc.Nodes = append(exp.doc.Nodes, extra)
	}

	for i, instance := range node.Meshes() {
		mesh, err := exp.mesh(instance)
		if err != nil {
			return 0, err
		}
		attach(fmt.Sprintf("%s.mesh%d", node.Name(), i), func(target *gltf.Node) { target.Mesh = gltf.Index(mesh) })
	}

	for i, camera := range node.Cameras() {
		cameraIndex := exp.camera(camera)
		attach(fmt.Sprintf("%s.camera%d", node.Name(), i), func(target *gltf.Node) { target.Camera = gltf.Index(cameraIndex) })
	}

	for i, light := range node.Lights() {
		lightIndex, ok := exp.light(light)
		if !ok {
			continue
		}
		attach(fmt.Sprintf("%s.light%d", node.Name(), i), func(target *gltf.Node) {
			target.Extensions = gltf.Extensions{lightspunctual.ExtensionName: lightspunctual.LightIndex(lightIndex)}
		})
	}

	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		childIndex, err := exp.node(child)
		if err != nil {
			return 0, err
		}
		out.Children = append(out.Children, childIndex)
	}

	return index, nil

}

func (exp *exporter) mesh(instance *tetradae.MeshInstance) (int, error) {

	materials := instance.PartMaterials()

	ids := make([]string, len(materials))
	for i, material := range materials {
		if material != nil {
			ids[i] = material.ID
		}
	}
	key := meshKey{mesh: instance.Mesh, materials: strings.Join(ids, "\x00")}

	if index, ok := exp.meshes[key]; ok {
		return index, nil
	}

	mesh := instance.Mesh
	out := &gltf.Mesh{Name: mesh.Name}

	for partIndex, part := range mesh.Parts {

		if len(part.Triangles) == 0 {
			continue
		}

		// glTF vertices carry every attribute, so each distinct corner becomes a vertex.
		corners := map[tetradae.Corner]uint32{}
		var positions, normals [][3]float32
		var texCoords [][2]float32
		indices := make([]uint32, 0, len(part.Triangles)*3)

		for _, tri := range part.Triangles {
			for _, corner := range tri {
				vertexIndex, ok := corners[corner]
				if !ok {
					vertexIndex = uint32(len(positions))
					corners[corner] = vertexIndex
					vertex := mesh.Vertex(corner)
					positions = append(positions, [3]float32{vertex.Position.X, vertex.Position.Y, vertex.Position.Z})
					normals = append(normals, [3]float32{vertex.Normal.X, vertex.Normal.Y, vertex.Normal.Z})
					// glTF's V runs down the image.
					texCoords = append(texCoords, [2]float32{vertex.TexCoord.U, 1 - vertex.TexCoord.V})
				}
				indices = append(indices, vertexIndex)
			}
		}

		attributes := map[string]int{
			gltf.POSITION: modeler.WritePosition(exp.doc, positions),
		}
		if mesh.HasNormals() {
			attributes[gltf.NORMAL] = modeler.WriteNormal(exp.doc, normals)
		}
		if mesh.HasTexCoords() {
			attributes[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(exp.doc, texCoords)
		}

		primitive := &gltf.Primitive{
			Attributes: attributes,
			Indices:    gltf.Index(modeler.WriteIndices(exp.doc, indices)),
		}

		if partIndex < len(materials) && materials[partIndex] != nil {
			primitive.Material = gltf.Index(exp.material(materials[partIndex]))
		}

		out.Primitives = append(out.Primitives, primitive)

	}

	if len(out.Primitives) == 0 {
		return 0, fmt.Errorf("gltfexport: mesh %q has no triangles", mesh.Name)
	}

	index := len(exp.doc.Meshes)
	exp.doc.Meshes = append(exp.doc.Meshes, out)
	exp.meshes[key] = index
	return index, nil

}

func (exp *exporter) material(material *tetradae.Material) int {

	if index, ok := exp.materials[material]; ok {
		return index
	}

	diffuse := material.Diffuse()
	base := [4]float64{float64(diffuse.R), float64(diffuse.G), float64(diffuse.B), float64(diffuse.A * material.Transparency)}
	emission := material.Color(tetradae.ChannelEmission)
	metallic := 0.0
	roughness := 1.0
	if material.Shader != tetradae.ShaderLambert && material.Shininess > 0 {
		// Shininess is a Phong exponent; map it roughly onto roughness.
		roughness = 1 / (1 + float64(material.Shininess)/10)
	}

	out := &gltf.Material{
		Name:           material.Name,
		DoubleSided:    !material.BackfaceCulling,
		EmissiveFactor: [3]float64{float64(emission.R), float64(emission.G), float64(emission.B)},
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
	}

	if material.TransparencyMode == tetradae.TransparencyModeTransparent {
		out.AlphaMode = gltf.AlphaBlend
	}

	if texture := material.DiffuseTexture(); texture != "" {
		out.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: exp.texture(texture)}
	}

	index := len(exp.doc.Materials)
	exp.doc.Materials = append(exp.doc.Materials, out)
	exp.materials[material] = index
	return index

}

func (exp *exporter) texture(name string) int {

	if index, ok := exp.textures[name]; ok {
		return index
	}

	exp.doc.Images = append(exp.doc.Images, &gltf.Image{Name: name, URI: name})
	index := len(exp.doc.Textures)
	exp.doc.Textures = append(exp.doc.Textures, &gltf.Texture{Source: gltf.Index(len(exp.doc.Images) - 1)})
	exp.textures[name] = index
	return index

}

func (exp *exporter) camera(camera *tetradae.Camera) int {

	if index, ok := exp.cameras[camera]; ok {
		return index
	}

	far := float64(camera.Far)
	perspective := &gltf.Perspective{
		Yfov:  float64(tetradae.ToRadians(camera.FieldOfView(0))),
		Znear: float64(camera.Near),
		Zfar:  &far,
	}
	if camera.AspectRatio > 0 || (camera.XFov > 0 && camera.YFov > 0) {
		aspect := float64(camera.Aspect(0))
		perspective.AspectRatio = &aspect
	}

	index := len(exp.doc.Cameras)
	exp.doc.Cameras = append(exp.doc.Cameras, &gltf.Camera{Name: camera.Name, Perspective: perspective})
	exp.cameras[camera] = index
	return index

}

// light adds the light to the KHR_lights_punctual list; ok is false for lights the extension can't express.
func (exp *exporter) light(light *tetradae.Light) (index int, ok bool) {

	if index, ok := exp.lights[light]; ok {
		return index, true
	}

	out := &lightspunctual.Light{Name: light.Name}

	switch light.Kind {
	case tetradae.LightDirectional:
		out.Type = lightspunctual.TypeDirectional
	case tetradae.LightPoint:
		out.Type = lightspunctual.TypePoint
	case tetradae.LightSpot:
		out.Type = lightspunctual.TypeSpot
		outer := float64(tetradae.ToRadians(light.FalloffAngle / 2))
		out.Spot = &lightspunctual.Spot{OuterConeAngle: &outer}
	default:
		tetradae.Logger().Debug("skipping light glTF can't express", "light", light.Name, "kind", light.Kind)
		return 0, false
	}

	// glTF colors stay within 0-1; brighter COLLADA colors move their brightness into the intensity.
	color := [3]float64{float64(light.Color.R), float64(light.Color.G), float64(light.Color.B)}
	intensity := float64(light.Energy)
	if peak := max(color[0], color[1], color[2]); peak > 1 {
		for i := range color {
			color[i] /= peak
		}
		intensity *= peak
	}
	out.Color = &color
	out.Intensity = &intensity

	index = len(exp.lightList)
	exp.lightList = append(exp.lightList, out)
	exp.lights[light] = index
	return index, true

}

// setTransform writes the transform as translation, rotation, and scale when it splits cleanly into them, and as a
// matrix when it doesn't (shears and mirroring).
func setTransform(out *gltf.Node, local tetradae.Matrix4) {

	position, scale, rotation := local.Decompose()
	quat := tetradae.NewQuaternionFromMatrix(rotation)

	recomposed := tetradae.NewMatrix4Scale(scale.X, scale.Y, scale.Z).Mult(quat.Matrix()).Mult(tetradae.NewMatrix4Translate(position.X, position.Y, position.Z))
	if !recomposed.Equals(local) {
		out.Matrix = local.ColumnMajor()
		return
	}

	out.Translation = [3]float64{float64(position.X), float64(position.Y), float64(position.Z)}
	out.Rotation = [4]float64{float64(quat.X), float64(quat.Y), float64(quat.Z), float64(quat.W)}
	out.Scale = [3]float64{float64(scale.X), float64(scale.Y), float64(scale.Z)}

}
