package dae

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleGeometry = `
<library_geometries>
  <geometry id="tri">
    <mesh>
      <source id="tri-pos">
        <float_array id="tri-pos-array" count="9">0 0 0 1 0 0 0 1 0</float_array>
        <technique_common><accessor source="#tri-pos-array" count="3" stride="3"/></technique_common>
      </source>
      <vertices id="tri-verts"><input semantic="POSITION" source="#tri-pos"/></vertices>
      <triangles count="1">
        <input semantic="VERTEX" source="#tri-verts" offset="0"/>
        <p>0 1 2</p>
      </triangles>
    </mesh>
  </geometry>
</library_geometries>`

const plainScene = `
<library_visual_scenes>
  <visual_scene id="scene">
    <node id="tri-node"><instance_geometry url="#tri"/></node>
  </visual_scene>
</library_visual_scenes>`

func document(libraries ...string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">` +
		strings.Join(libraries, "\n") +
		`<scene><instance_visual_scene url="#scene"/></scene>
</COLLADA>`
}

func read(t *testing.T, text string) (*Document, error) {
	t.Helper()
	return Read(strings.NewReader(text), nil)
}

func TestReadCube(t *testing.T) {

	doc, err := ReadFile("testdata/cube.dae", nil)
	require.NoError(t, err)

	assert.Equal(t, "1.4.1", doc.Version)
	assert.Equal(t, "Z_UP", doc.Asset.UpAxis)
	assert.Equal(t, float32(1), doc.Asset.UnitMeter)

	// library_materials precedes library_effects in the file.
	material, ok := doc.Materials.Get("Material-material")
	require.True(t, ok)
	require.NotNil(t, material.Effect)
	assert.Equal(t, "Material-effect", material.Effect.ID)

	shading := material.Effect.Shading()
	require.NotNil(t, shading)
	assert.Equal(t, ShaderLambert, shading.Model)
	require.NotNil(t, shading.Emission)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, shading.Emission.Color())
	require.NotNil(t, shading.IndexOfRefraction)
	assert.InDelta(t, 1.45, *shading.IndexOfRefraction, 1e-6)
	assert.Nil(t, shading.Specular)

	// The diffuse texture goes through the sampler and surface params to an image declared after the effect.
	require.NotNil(t, shading.Diffuse)
	require.True(t, shading.Diffuse.IsTexture())
	texture := shading.Diffuse.Texture()
	assert.Equal(t, "UVMap", texture.TexCoord)
	require.NotNil(t, texture.Image)
	assert.Equal(t, "checker.png", texture.Image.InitFrom)

	geometry, ok := doc.Geometries.Get("Cube-mesh")
	require.True(t, ok)
	mesh := geometry.Mesh
	assert.Equal(t, 3, mesh.Sources.Len())
	assert.Equal(t, "Cube-mesh-vertices", mesh.Vertices.ID)
	require.Len(t, mesh.Primitives, 1)

	polylist := mesh.Primitives[0]
	assert.Equal(t, PrimitivePolyList, polylist.Kind)
	assert.Equal(t, "Material-material", polylist.Material)
	assert.Equal(t, 3, polylist.Stride())
	assert.Equal(t, []int{4, 4, 4, 4, 4, 4}, polylist.VCount)
	require.Len(t, polylist.Indices, 1)
	assert.Len(t, polylist.Indices[0], 72)
	assert.Equal(t, 0, polylist.Input("TEXCOORD").Set)
	assert.Equal(t, "Cube-mesh-map-0", polylist.Input("TEXCOORD").DataSource.ID)

	positions := mesh.Vertices.Input("POSITION").DataSource
	assert.Equal(t, 3, positions.Stride())
	assert.Equal(t, []string{"X", "Y", "Z"}, positions.Accessor.Params)

	light, ok := doc.Lights.Get("Light-light")
	require.True(t, ok)
	assert.Equal(t, LightPoint, light.Kind)
	assert.Equal(t, [3]float32{1000, 1000, 1000}, light.Color)
	require.NotNil(t, light.QuadraticAttenuation)
	assert.InDelta(t, 0.00111109, *light.QuadraticAttenuation, 1e-9)

	camera, ok := doc.Cameras.Get("Camera-camera")
	require.True(t, ok)
	require.NotNil(t, camera.Optic.XFov)
	assert.InDelta(t, 39.59775, *camera.Optic.XFov, 1e-4)
	assert.Nil(t, camera.Optic.YFov)
	assert.InDelta(t, 0.1, camera.Optic.ZNear, 1e-6)
	assert.Equal(t, float32(100), camera.Optic.ZFar)

	require.NotNil(t, doc.Scene.VisualScene)
	scene := doc.Scene.VisualScene
	assert.Equal(t, "Scene", scene.ID)
	require.Len(t, scene.Nodes, 3)

	cameraNode := scene.Nodes[0]
	require.Len(t, cameraNode.Transformations, 1)
	assert.Equal(t, TransformMatrix, cameraNode.Transformations[0].Kind)
	assert.Equal(t, float32(7), cameraNode.Transformations[0].Values[3])
	assert.Same(t, camera, cameraNode.Cameras[0].Camera)

	cube := scene.FindNode("Cube")
	require.NotNil(t, cube)
	require.Len(t, cube.Transformations, 3)
	assert.Equal(t, TransformRotate, cube.Transformations[1].Kind)
	assert.Equal(t, []float32{0, 0, 1, 90}, cube.Transformations[1].Values)
	assert.Equal(t, "rotationZ", cube.Transformations[1].SID)
	require.Len(t, cube.Geometries, 1)
	assert.Same(t, geometry, cube.Geometries[0].Geometry)
	assert.Same(t, material, cube.Geometries[0].MaterialFor("Material-material"))
	require.Len(t, cube.Children, 1)
	assert.Equal(t, "Child", cube.Children[0].Name)

	// The scene has its own light and camera.
	assert.Nil(t, scene.DefaultLight)
	assert.Nil(t, scene.DefaultCamera)

	require.Equal(t, 1, doc.Animations.Len())
	channels := doc.Animations.All()[0].AllChannels()
	require.Len(t, channels, 1)
	assert.Equal(t, "Cube/location.X", channels[0].Target)
	assert.Equal(t, "Cube_location_X-sampler", channels[0].Sampler.ID)
	assert.Equal(t, []string{"LINEAR", "LINEAR"}, channels[0].Sampler.Input("INTERPOLATION").DataSource.Names.Values)

}

func TestDefaultInjection(t *testing.T) {

	doc, err := read(t, document(triangleGeometry, plainScene))
	require.NoError(t, err)

	scene := doc.Scene.VisualScene
	require.NotNil(t, scene.DefaultLight)
	assert.Equal(t, DefaultLightID, scene.DefaultLight.ID)
	assert.Equal(t, LightDirectional, scene.DefaultLight.Kind)
	assert.Equal(t, [3]float32{1, 1, 1}, scene.DefaultLight.Color)

	require.NotNil(t, scene.DefaultCamera)
	assert.Equal(t, DefaultCameraID, scene.DefaultCamera.ID)
	require.Len(t, scene.DefaultCamera.Transformations, 1)
	assert.Equal(t, []float32{0, 0, 10}, scene.DefaultCamera.Transformations[0].Values)
	require.Len(t, scene.DefaultCamera.Cameras, 1)
	optic := scene.DefaultCamera.Cameras[0].Camera.Optic
	require.NotNil(t, optic.YFov)
	assert.Equal(t, float32(45), *optic.YFov)

	// Synthesized objects don't enter the libraries.
	assert.Equal(t, 0, doc.Lights.Len())
	assert.Equal(t, 0, doc.Cameras.Len())
	assert.Len(t, scene.Nodes, 1)

	doc, err = Read(strings.NewReader(document(triangleGeometry, plainScene)), &Options{InjectDefaults: false})
	require.NoError(t, err)
	assert.Nil(t, doc.Scene.VisualScene.DefaultLight)
	assert.Nil(t, doc.Scene.VisualScene.DefaultCamera)

}

func TestDefaultLightOnlyWhenMissing(t *testing.T) {

	lights := `
<library_lights>
  <light id="sun"><technique_common><directional><color>1 0.9 0.8</color></directional></technique_common></light>
</library_lights>`

	scene := `
<library_visual_scenes>
  <visual_scene id="scene">
    <node id="root">
      <node id="lamp"><instance_light url="#sun"/></node>
    </node>
  </visual_scene>
</library_visual_scenes>`

	doc, err := read(t, document(lights, scene))
	require.NoError(t, err)
	assert.Nil(t, doc.Scene.VisualScene.DefaultLight)
	assert.NotNil(t, doc.Scene.VisualScene.DefaultCamera)

	sun, _ := doc.Lights.Get("sun")
	assert.Equal(t, LightDirectional, sun.Kind)
	assert.Equal(t, [3]float32{1, 0.9, 0.8}, sun.Color)

}

func TestColorAlphaDefault(t *testing.T) {

	effects := `
<library_effects>
  <effect id="fx">
    <profile_COMMON>
      <technique sid="common">
        <phong>
          <diffuse><color>0.5 0.25 1</color></diffuse>
          <specular><color>1 1 1 0.5</color></specular>
          <shininess><float>50</float></shininess>
        </phong>
      </technique>
    </profile_COMMON>
  </effect>
</library_effects>`

	doc, err := read(t, document(effects, triangleGeometry, plainScene))
	require.NoError(t, err)

	effect, _ := doc.Effects.Get("fx")
	shading := effect.Shading()
	assert.Equal(t, ShaderPhong, shading.Model)
	assert.Equal(t, [4]float32{0.5, 0.25, 1, 1}, shading.Diffuse.Color())
	assert.Equal(t, [4]float32{1, 1, 1, 0.5}, shading.Specular.Color())
	assert.Equal(t, float32(50), *shading.Shininess)

}

func TestUnsupportedConstructs(t *testing.T) {

	tests := map[string]string{
		"convex_mesh": `<library_geometries><geometry id="g"><convex_mesh convex_hull_of="#x"/></geometry></library_geometries>`,
		"tristrips": `<library_geometries><geometry id="g"><mesh>
			<source id="s"><float_array id="a" count="0"></float_array></source>
			<vertices id="v"><input semantic="POSITION" source="#s"/></vertices>
			<tristrips count="0"/></mesh></geometry></library_geometries>`,
		"constant":     `<library_effects><effect id="fx"><profile_COMMON><technique sid="t"><constant/></technique></profile_COMMON></effect></library_effects>`,
		"orthographic": `<library_cameras><camera id="c"><optics><technique_common><orthographic><xmag>1</xmag></orthographic></technique_common></optics></camera></library_cameras>`,
	}

	for element, library := range tests {
		t.Run(element, func(t *testing.T) {
			_, err := read(t, document(library))
			require.ErrorIs(t, err, ErrUnsupported)

			var unsupportedErr *UnsupportedError
			require.ErrorAs(t, err, &unsupportedErr)
			assert.Equal(t, element, unsupportedErr.Element)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, element, parseErr.Element)
			assert.Greater(t, parseErr.Line, 1)
		})
	}

}

func TestUnresolvedReferences(t *testing.T) {

	missingGeometry := `
<library_visual_scenes>
  <visual_scene id="scene"><node id="n"><instance_geometry url="#nothing"/></node></visual_scene>
</library_visual_scenes>`

	_, err := read(t, document(missingGeometry))
	require.ErrorIs(t, err, ErrUnresolvedReference)
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "#nothing", refErr.Ref)

	// Geometries have to be read before the scene that instances them.
	_, err = read(t, document(plainScene, triangleGeometry))
	assert.ErrorIs(t, err, ErrUnresolvedReference)

	missingEffect := `<library_materials><material id="m"><instance_effect url="#nope"/></material></library_materials>`
	_, err = read(t, document(missingEffect, triangleGeometry, plainScene))
	assert.ErrorIs(t, err, ErrUnresolvedReference)

	missingImage := `
<library_effects>
  <effect id="fx"><profile_COMMON><technique sid="t"><blinn>
    <diffuse><texture texture="no-such-image" texcoord="UV"/></diffuse>
  </blinn></technique></profile_COMMON></effect>
</library_effects>`
	_, err = read(t, document(missingImage, triangleGeometry, plainScene))
	assert.ErrorIs(t, err, ErrUnresolvedReference)

	_, err = read(t, document(triangleGeometry, strings.Replace(plainScene, `id="scene"`, `id="other"`, 1)))
	assert.ErrorIs(t, err, ErrUnresolvedReference)

}

func TestDuplicateIDs(t *testing.T) {
	materials := `
<library_effects><effect id="fx"><profile_COMMON/></effect></library_effects>
<library_materials>
  <material id="m"><instance_effect url="#fx"/></material>
  <material id="m"><instance_effect url="#fx"/></material>
</library_materials>`
	_, err := read(t, document(materials, triangleGeometry, plainScene))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestMalformedNumbers(t *testing.T) {

	bad := strings.Replace(triangleGeometry, "0 0 0 1 0 0 0 1 0", "0 0 0 1 0 zero 0 1 0", 1)
	_, err := read(t, document(bad, plainScene))
	require.ErrorIs(t, err, ErrMalformedNumber)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "zero", formatErr.Token)

	short := strings.Replace(plainScene, `<node id="tri-node">`, `<node id="tri-node"><rotate>0 0 1</rotate>`, 1)
	_, err = read(t, document(triangleGeometry, short))
	assert.ErrorIs(t, err, ErrMalformedNumber)

}

func TestInconsistentInputs(t *testing.T) {

	gap := strings.Replace(triangleGeometry, `<p>0 1 2</p>`, `<input semantic="NORMAL" source="#tri-pos" offset="2"/><p>0 0 1 1 2 2</p>`, 1)
	_, err := read(t, document(gap, plainScene))
	assert.ErrorIs(t, err, ErrInconsistentInputs)

	partial := strings.Replace(triangleGeometry, `<p>0 1 2</p>`, `<p>0 1 2 0</p>`, 1)
	_, err = read(t, document(partial, plainScene))
	assert.ErrorIs(t, err, ErrInconsistentInputs)

	polylist := strings.NewReplacer(
		`<triangles count="1">`, `<polylist count="1">`,
		`</triangles>`, `</polylist>`,
		`<p>0 1 2</p>`, `<vcount>4</vcount><p>0 1 2</p>`,
	).Replace(triangleGeometry)
	_, err = read(t, document(polylist, plainScene))
	assert.ErrorIs(t, err, ErrInconsistentInputs)

}

func TestDocumentStructure(t *testing.T) {

	_, err := read(t, `<?xml version="1.0"?><COLLADA version="1.4.1">`+triangleGeometry+plainScene+`</COLLADA>`)
	assert.ErrorIs(t, err, ErrStructure)

	_, err = read(t, `<?xml version="1.0"?><scene/>`)
	assert.ErrorIs(t, err, ErrStructure)

	twoScenes := strings.Replace(document(triangleGeometry, plainScene), "</COLLADA>", `<scene><instance_visual_scene url="#scene"/></scene></COLLADA>`, 1)
	_, err = read(t, twoScenes)
	assert.ErrorIs(t, err, ErrStructure)

	_, err = read(t, "")
	assert.ErrorIs(t, err, ErrStructure)

	// Not well-formed.
	_, err = read(t, `<?xml version="1.0"?><COLLADA><library_geometries></COLLADA>`)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)

}

func TestContextDispatch(t *testing.T) {

	// Elements named like the ones the parser handles are skipped inside subtrees it doesn't model.
	scene := `
<library_visual_scenes>
  <visual_scene id="scene">
    <node id="outer">
      <translate>1 2 3</translate>
      <extra>
        <technique profile="custom">
          <node id="not-a-node"><translate>9 9 9</translate></node>
          <color>not numbers at all</color>
        </technique>
      </extra>
      <node id="inner" sid="joint0" type="JOINT">
        <node id="innermost"/>
      </node>
      <instance_geometry url="#tri"/>
    </node>
  </visual_scene>
</library_visual_scenes>`

	doc, err := read(t, document(triangleGeometry, scene))
	require.NoError(t, err)

	visualScene := doc.Scene.VisualScene
	require.Len(t, visualScene.Nodes, 1)
	outer := visualScene.Nodes[0]
	require.Len(t, outer.Transformations, 1)
	assert.Equal(t, []float32{1, 2, 3}, outer.Transformations[0].Values)
	require.Len(t, outer.Children, 1)
	assert.Equal(t, "JOINT", outer.Children[0].Type)
	assert.Equal(t, "joint0", outer.Children[0].SID)
	assert.Equal(t, "innermost", outer.Children[0].Children[0].ID)
	assert.Nil(t, visualScene.FindNode("not-a-node"))
	assert.Len(t, outer.Geometries, 1)

}

func TestHandlerChunkedCharacters(t *testing.T) {

	parser := NewParser(nil)

	start := func(name string, attrs ...string) {
		xmlAttrs := []xml.Attr{}
		for i := 0; i+1 < len(attrs); i += 2 {
			xmlAttrs = append(xmlAttrs, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
		}
		require.NoError(t, parser.StartElement(name, xmlAttrs))
	}
	chars := func(text string) { require.NoError(t, parser.Characters([]byte(text))) }
	end := func(name string) { require.NoError(t, parser.EndElement(name)) }

	start("COLLADA", "version", "1.4.1")
	start("library_geometries")
	start("geometry", "id", "tri")
	start("mesh")
	start("source", "id", "tri-pos")
	start("float_array", "id", "tri-pos-array", "count", "9")
	assert.Equal(t, stateFloatArray, parser.State())
	assert.Equal(t, 6, parser.Depth())
	for _, chunk := range []string{"0 0", " 0 1", ".", "5 0 0 0 1", "0 0"} {
		chars(chunk)
	}
	end("float_array")
	end("source")
	start("vertices", "id", "tri-verts")
	start("input", "semantic", "POSITION", "source", "#tri-pos")
	end("input")
	end("vertices")
	start("triangles", "count", "1")
	start("input", "semantic", "VERTEX", "source", "#tri-verts", "offset", "0")
	end("input")
	start("p")
	chars("0 ")
	chars("1 2")
	end("p")
	end("triangles")
	end("mesh")
	end("geometry")
	end("library_geometries")
	start("library_visual_scenes")
	start("visual_scene", "id", "scene")
	end("visual_scene")
	end("library_visual_scenes")
	start("scene")
	start("instance_visual_scene", "url", "#scene")
	end("instance_visual_scene")
	end("scene")

	_, err := parser.Document()
	assert.ErrorIs(t, err, ErrStructure)

	end("COLLADA")
	assert.Equal(t, 0, parser.Depth())

	doc, err := parser.Document()
	require.NoError(t, err)
	geometry, _ := doc.Geometries.Get("tri")
	positions, _ := geometry.Mesh.Sources.Get("tri-pos")
	assert.Equal(t, []float32{0, 0, 0, 1.5, 0, 0, 0, 10, 0}, positions.Floats.Values)
	assert.Equal(t, [][]int{{0, 1, 2}}, geometry.Mesh.Primitives[0].Indices)

	assert.ErrorIs(t, parser.EndElement("COLLADA"), ErrInternalState)

}

func TestMismatchedEndElement(t *testing.T) {
	parser := NewParser(nil)
	require.NoError(t, parser.StartElement("COLLADA", nil))
	require.NoError(t, parser.StartElement("asset", nil))
	assert.ErrorIs(t, parser.EndElement("COLLADA"), ErrInternalState)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Node", stateNode.String())
	assert.Equal(t, "State(9999)", State(9999).String())
}
