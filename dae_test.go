package tetradae

import (
	"errors"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/solarlune/tetradae/dae"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDAECube(t *testing.T) {

	lib, err := LoadDAEFile("dae/testdata/cube.dae", nil)
	require.NoError(t, err)

	require.Len(t, lib.Scenes, 1)
	scene := lib.ExportedScene
	require.NotNil(t, scene)
	assert.Equal(t, "Scene", scene.Name)
	assert.Same(t, scene, lib.FindScene("Scene"))
	assert.Same(t, lib, scene.Library())
	assert.Equal(t, "Z_UP", lib.UpAxis)

	assert.True(t, scene.Root.LocalTransform().IsIdentity())

	// Mesh
	mesh := lib.Meshes["Cube-mesh"]
	require.NotNil(t, mesh)
	assert.Equal(t, "Cube", mesh.Name)
	assert.Len(t, mesh.Positions, 8)
	assert.Equal(t, 12, mesh.TriangleCount())
	assert.True(t, mesh.HasNormals())
	assert.True(t, mesh.HasTexCoords())
	require.Len(t, mesh.Parts, 1)
	assert.Equal(t, "Material-material", mesh.Parts[0].Material)
	assert.Equal(t, float32(2), mesh.Dimensions.Width())

	first := mesh.Parts[0].Vertices(mesh)[0]
	assert.Equal(t, NewVector3(1, 1, 1), first.Position)
	assert.Equal(t, NewVector3(0, 0, 1), first.Normal)
	assert.Equal(t, TexCoord{U: 0, V: 0}, first.TexCoord)

	// Material
	material := lib.Materials["Material-material"]
	require.NotNil(t, material)
	assert.Equal(t, "Material", material.Name)
	assert.Equal(t, ShaderLambert, material.Shader)
	assert.Equal(t, "checker.png", material.DiffuseTexture())
	assert.Equal(t, NewColor(1, 1, 1, 1), material.Diffuse())
	assert.InDelta(t, 1.45, material.IndexOfRefraction, 1e-6)
	assert.Equal(t, "checker.png", lib.Images["checker_png"])

	// Light and camera
	light := lib.Lights["Light-light"]
	require.NotNil(t, light)
	assert.Equal(t, LightPoint, light.Kind)
	assert.Equal(t, float32(1000), light.Color.R)
	assert.InDelta(t, 0.00111109, light.QuadraticAttenuation, 1e-9)

	camera := lib.Cameras["Camera-camera"]
	require.NotNil(t, camera)
	assert.InDelta(t, 39.59775, camera.XFov, 1e-4)
	assert.InDelta(t, 1.777778, camera.AspectRatio, 1e-6)
	assert.InDelta(t, 0.1, camera.Near, 1e-6)
	assert.Equal(t, float32(100), camera.Far)

	// Nodes
	root := scene.Root
	assert.Equal(t, 3, root.ChildCount())
	assert.Empty(t, root.Lights(), "the scene has its own light")
	assert.Nil(t, root.Get("default-camera"))

	cameraNode := root.Get("Camera")
	require.NotNil(t, cameraNode)
	assert.Same(t, camera, cameraNode.Cameras()[0])
	found, foundNode := FindCamera(root)
	assert.Same(t, camera, found)
	assert.Same(t, cameraNode, foundNode)

	// The camera's <matrix> puts it at (7, -6, 5) Z-up, which is (7, 5, 6) once Y is up.
	assert.True(t, cameraNode.WorldPosition().Equals(NewVector3(7, 5, 6)), "got %s", cameraNode.WorldPosition())

	lightNode := root.Get("Light")
	require.NotNil(t, lightNode)
	assert.Same(t, light, lightNode.Lights()[0])

	cube := root.Get("Cube")
	require.NotNil(t, cube)
	id, ok := cube.Properties().Get("dae.id").AsString()
	assert.True(t, ok)
	assert.Equal(t, "Cube", id)
	kind, _ := cube.Properties().Get("dae.type").AsString()
	assert.Equal(t, "NODE", kind)
	// The Z-up correction comes first, ahead of the document's own steps.
	require.Len(t, cube.TransformSteps(), 4)
	assert.True(t, cube.TransformSteps()[0].Matrix().Equals(NewMatrix4Rotate(1, 0, 0, -math32.Pi/2)))
	assert.Equal(t, "rotationZ", cube.TransformSteps()[2].SID)

	require.Len(t, cube.Meshes(), 1)
	assert.Same(t, mesh, cube.Meshes()[0].Mesh)
	assert.Equal(t, []*Material{material}, cube.Meshes()[0].PartMaterials())

	child := root.Get("Cube/Child")
	require.NotNil(t, child)
	assert.Equal(t, "Child", child.Name())
	assert.True(t, child.WorldPosition().Equals(NewVector3(0, 2, 0)), "got %s", child.WorldPosition())

	// Animation
	animation := lib.Animations["action_container-Cube"]
	require.NotNil(t, animation)
	require.Len(t, animation.Channels, 1)
	assert.Equal(t, "Cube/location.X", animation.Channels[0].Target)
	assert.Equal(t, float32(1), animation.Length)

	root.AnimationPlayer().Play(animation)
	scene.Update(0.5)
	scene.Update(0)

	assert.True(t, cube.WorldPosition().Equals(NewVector3(2, 0, 0)), "got %s", cube.WorldPosition())
	assert.True(t, child.WorldPosition().Equals(NewVector3(2, 2, 0)), "got %s", child.WorldPosition())

	assert.Same(t, cube, lib.FindNode("Cube"))

}

const triangleDocument = `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">
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
</library_geometries>
<library_visual_scenes>
  <visual_scene id="scene">
    <node id="tri-node"><instance_geometry url="#%GEOMETRY%"/></node>
  </visual_scene>
</library_visual_scenes>
<scene><instance_visual_scene url="#scene"/></scene>
</COLLADA>`

func TestLoadDAEDefaults(t *testing.T) {

	data := []byte(strings.ReplaceAll(triangleDocument, "%GEOMETRY%", "tri"))

	lib, err := LoadDAEData(data, nil)
	require.NoError(t, err)

	root := lib.ExportedScene.Root
	require.Len(t, root.Lights(), 1)
	assert.Equal(t, LightDirectional, root.Lights()[0].Kind)
	assert.Empty(t, lib.Lights, "synthesized lights stay out of the library")

	cameraNode := root.Get(dae.DefaultCameraID)
	require.NotNil(t, cameraNode)
	require.Len(t, cameraNode.Cameras(), 1)
	assert.Equal(t, float32(45), cameraNode.Cameras()[0].FieldOfView(1))
	assert.True(t, cameraNode.WorldPosition().Equals(NewVector3(0, 0, 10)))

	node := root.Get("tri-node")
	require.NotNil(t, node)
	require.Len(t, node.Meshes(), 1)
	assert.Equal(t, 1, node.Meshes()[0].Mesh.TriangleCount())

	lib, err = LoadDAEData(data, &DaeLoadOptions{CorrectYUp: true, InjectDefaults: false})
	require.NoError(t, err)
	assert.Empty(t, lib.ExportedScene.Root.Lights())
	assert.Equal(t, 1, lib.ExportedScene.Root.ChildCount())

}

func TestLoadDAEDefaultsZUp(t *testing.T) {

	data := strings.ReplaceAll(triangleDocument, "%GEOMETRY%", "tri")
	data = strings.Replace(data, `version="1.4.1">`, `version="1.4.1"><asset><up_axis>Z_UP</up_axis></asset>`, 1)

	for _, correct := range []bool{true, false} {

		lib, err := LoadDAEData([]byte(data), &DaeLoadOptions{CorrectYUp: correct, InjectDefaults: true})
		require.NoError(t, err)
		assert.Equal(t, "Z_UP", lib.UpAxis)

		root := lib.ExportedScene.Root
		assert.True(t, root.LocalTransform().IsIdentity())

		// The synthesized camera and light aren't part of the document, so they're never rotated.
		cameraNode := root.Get(dae.DefaultCameraID)
		require.NotNil(t, cameraNode)
		assert.True(t, cameraNode.WorldPosition().Equals(NewVector3(0, 0, 10)), "got %s", cameraNode.WorldPosition())
		assert.True(t, cameraNode.SceneTransform().Equals(NewMatrix4Translate(0, 0, 10)))
		require.Len(t, root.Lights(), 1)
		assert.Equal(t, LightDirectional, root.Lights()[0].Kind)

		node := root.Get("tri-node")
		require.NotNil(t, node)
		if correct {
			require.Len(t, node.TransformSteps(), 1)
			assert.True(t, node.SceneTransform().Equals(NewMatrix4Rotate(1, 0, 0, -math32.Pi/2)))
		} else {
			assert.Empty(t, node.TransformSteps())
			assert.True(t, node.SceneTransform().IsIdentity())
		}

	}

}

func TestLoadDAEErrors(t *testing.T) {

	_, err := LoadDAEData([]byte(strings.ReplaceAll(triangleDocument, "%GEOMETRY%", "missing")), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, dae.ErrUnresolvedReference)

	var parseErr *dae.ParseError
	assert.True(t, errors.As(err, &parseErr))

	_, err = LoadDAEData([]byte("<COLLADA><library_geometries>"), nil)
	assert.Error(t, err)

	_, err = LoadDAEFile("dae/testdata/missing.dae", nil)
	assert.Error(t, err)

}
