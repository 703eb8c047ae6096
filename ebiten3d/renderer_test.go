package ebiten3d

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/solarlune/tetradae"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleMesh(t *testing.T) *tetradae.Mesh {
	t.Helper()
	builder := tetradae.NewMeshBuilder()
	builder.AddVertex(-1, -1, 0)
	builder.AddVertex(1, -1, 0)
	builder.AddVertex(0, 1, 0)
	require.NoError(t, builder.AddElement(3, 0, 1, 2))
	mesh, err := builder.Build("tri")
	require.NoError(t, err)
	return mesh
}

func headlessRenderer() *Renderer {
	renderer := NewRenderer(nil, nil)
	renderer.Width, renderer.Height = 100, 100
	view := tetradae.NewMatrix4Translate(0, 0, -10)
	renderer.BeginFrame(view, tetradae.NewProjectionPerspective(45, 0.1, 100, 1))
	return renderer
}

func TestRendererProjectsAndCulls(t *testing.T) {

	renderer := headlessRenderer()
	renderer.Ambient = tetradae.NewColor(1, 1, 1, 1)
	mesh := triangleMesh(t)

	renderer.DrawMesh(tetradae.NewMatrix4(), mesh, []*tetradae.Material{nil})
	require.Equal(t, 1, renderer.Triangles())

	top := renderer.triangles[0].vertices[2]
	assert.InDelta(t, 50, top.DstX, 1e-3)
	assert.Less(t, top.DstY, float32(50), "+Y is up the screen")
	assert.Equal(t, float32(1), top.ColorR)

	// Turned around, the triangle faces away from the camera.
	renderer.DrawMesh(tetradae.NewMatrix4Rotate(0, 1, 0, math32.Pi), mesh, []*tetradae.Material{nil})
	assert.Equal(t, 1, renderer.Triangles())

	// Behind the camera.
	renderer.DrawMesh(tetradae.NewMatrix4Translate(0, 0, 20), mesh, nil)
	assert.Equal(t, 1, renderer.Triangles())

	assert.Equal(t, 3, renderer.DebugInfo.TotalTris)
	assert.Equal(t, 1, renderer.DebugInfo.DrawnTris)

	renderer.EndFrame()
	assert.Equal(t, 1, renderer.DebugInfo.DrawCalls)

}

func TestRendererSortsBackToFront(t *testing.T) {

	renderer := headlessRenderer()
	mesh := triangleMesh(t)

	renderer.DrawMesh(tetradae.NewMatrix4Translate(0, 0, 2), mesh, nil)
	renderer.DrawMesh(tetradae.NewMatrix4Translate(0, 0, -5), mesh, nil)
	require.Equal(t, 2, renderer.Triangles())

	renderer.EndFrame()
	assert.Greater(t, renderer.triangles[0].depth, renderer.triangles[1].depth)

}

func TestRendererLighting(t *testing.T) {

	renderer := headlessRenderer()
	up := tetradae.NewVector3(0, 0, 1)

	assert.Equal(t, tetradae.NewColor(0, 0, 0, 1), renderer.light(tetradae.Vector3{}, up))

	sun := tetradae.NewLight("sun", tetradae.LightDirectional, tetradae.NewColor(1, 0.5, 0, 1))
	renderer.EnableLight(2, sun, tetradae.NewMatrix4())
	// Directional lights shine down -Z, so a surface facing +Z is lit fully.
	assert.Equal(t, tetradae.NewColor(1, 0.5, 0, 1), renderer.light(tetradae.Vector3{}, up))
	assert.Equal(t, tetradae.NewColor(0, 0, 0, 1), renderer.light(tetradae.Vector3{}, up.Invert()))

	renderer.DisableLight(2)
	lamp := tetradae.NewLight("lamp", tetradae.LightPoint, tetradae.NewColor(1, 1, 1, 1))
	lamp.QuadraticAttenuation = 1
	renderer.EnableLight(0, lamp, tetradae.NewMatrix4Translate(0, 0, 1))
	assert.InDelta(t, 0.5, renderer.light(tetradae.Vector3{}, up).R, 1e-5)

	lamp.On = false
	assert.Equal(t, float32(0), renderer.light(tetradae.Vector3{}, up).R)

	assert.Equal(t, 2, renderer.DebugInfo.LightCount)

}

func TestRendererWithScene(t *testing.T) {

	lib, err := tetradae.LoadDAEFile("../dae/testdata/cube.dae", nil)
	require.NoError(t, err)

	renderer := NewRenderer(nil, NewTextureCacheDir("../dae/testdata"))
	renderer.Width, renderer.Height = 320, 180
	require.NoError(t, lib.ExportedScene.Render(&tetradae.RenderContext{Sink: renderer, Aspect: 16.0 / 9}))

	// The cube's front faces are drawn; its texture file doesn't exist, so it's drawn untextured.
	assert.Equal(t, 12, renderer.DebugInfo.TotalTris)
	assert.Greater(t, renderer.DebugInfo.DrawnTris, 0)
	assert.Less(t, renderer.DebugInfo.DrawnTris, 12)
	assert.Equal(t, 1, renderer.DebugInfo.LightCount)
	assert.Equal(t, 1, renderer.DebugInfo.DrawCalls)

}
