package tetradae

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleBuilder() *MeshBuilder {
	builder := NewMeshBuilder()
	builder.AddVertex(0, 0, 0)
	builder.AddVertex(1, 0, 0)
	builder.AddVertex(0, 1, 0)
	builder.SetMaterial("mat")
	if err := builder.AddElement(3, 0, 1, 2); err != nil {
		panic(err)
	}
	return builder
}

func TestMeshBuilderFanTriangulation(t *testing.T) {

	builder := NewMeshBuilder()
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, builder.AddVertex(float32(i), 0, 0))
	}

	require.NoError(t, builder.AddElement(5, 0, 1, 2, 3, 4))

	mesh, err := builder.Build("pentagon")
	require.NoError(t, err)

	require.Len(t, mesh.Parts, 1)
	tris := mesh.Parts[0].Triangles
	require.Len(t, tris, 3)

	positions := func(tri Triangle) [3]int {
		return [3]int{tri[0].Position, tri[1].Position, tri[2].Position}
	}
	assert.Equal(t, [3]int{0, 1, 2}, positions(tris[0]))
	assert.Equal(t, [3]int{0, 2, 3}, positions(tris[1]))
	assert.Equal(t, [3]int{0, 3, 4}, positions(tris[2]))

	for _, tri := range tris {
		for _, corner := range tri {
			assert.Equal(t, -1, corner.Normal)
			assert.Equal(t, -1, corner.TexCoord)
		}
	}

}

func TestMeshBuilderAttributes(t *testing.T) {

	builder := NewMeshBuilder()
	builder.AddVertex(0, 0, 0)
	builder.AddVertex(1, 0, 0)
	builder.AddVertex(1, 1, 0)
	assert.Equal(t, 0, builder.AddNormal(0, 0, 1))
	assert.Equal(t, 0, builder.AddTexCoord(0, 0))
	assert.Equal(t, 1, builder.AddTexCoord(1, 0))
	assert.Equal(t, 2, builder.AddTexCoord(1, 1))

	builder.UseNormals(true)
	builder.UseTexCoords(true)
	builder.SetMaterial("red")
	require.NoError(t, builder.AddElement(3, 0, 0, 0, 1, 0, 1, 2, 0, 2))

	builder.UseNormals(false)
	builder.SetMaterial("blue")
	require.NoError(t, builder.AddElement(3, 2, 2, 1, 1, 0, 0))

	builder.SetMaterial("red")
	builder.UseTexCoords(false)
	require.NoError(t, builder.AddElement(3, 0, 1, 2))

	mesh, err := builder.Build("mesh")
	require.NoError(t, err)

	require.Len(t, mesh.Parts, 2)
	assert.Equal(t, "red", mesh.Parts[0].Material)
	assert.Len(t, mesh.Parts[0].Triangles, 2)
	assert.Equal(t, "blue", mesh.Parts[1].Material)
	assert.Equal(t, 3, mesh.TriangleCount())
	assert.True(t, mesh.HasNormals())
	assert.True(t, mesh.HasTexCoords())

	vertices := mesh.Parts[0].Vertices(mesh)
	require.Len(t, vertices, 6)
	assert.Equal(t, NewVector3(1, 1, 0), vertices[2].Position)
	assert.Equal(t, NewVector3(0, 0, 1), vertices[2].Normal)
	assert.Equal(t, TexCoord{U: 1, V: 1}, vertices[2].TexCoord)

	blue := mesh.Parts[1].Triangles[0]
	assert.Equal(t, Corner{Position: 2, Normal: -1, TexCoord: 2}, blue[0])

	assert.Equal(t, Dimensions{NewVector3(0, 0, 0), NewVector3(1, 1, 0)}, mesh.Dimensions)
	assert.Equal(t, float32(1), mesh.Dimensions.Width())

}

func TestMeshBuilderErrors(t *testing.T) {

	_, err := NewMeshBuilder().Build("empty")
	assert.ErrorIs(t, err, ErrNoVertexData)

	builder := triangleBuilder()
	assert.ErrorIs(t, builder.AddElement(2, 0, 1), ErrBadElement)
	assert.ErrorIs(t, builder.AddElement(3, 0, 1), ErrBadElement)
	assert.ErrorIs(t, builder.AddElement(3, 0, 1, 3), ErrBadElement)

	builder.UseNormals(true)
	assert.ErrorIs(t, builder.AddElement(3, 0, 0, 1, 0, 2, 0), ErrBadElement)

	// Failed elements leave the mesh as it was.
	mesh, err := builder.Build("tri")
	require.NoError(t, err)
	assert.Equal(t, 1, mesh.TriangleCount())

}

func TestMeshInstanceBindings(t *testing.T) {

	mesh, err := triangleBuilder().Build("tri")
	require.NoError(t, err)

	instance := NewMeshInstance(mesh)
	assert.Equal(t, []*Material{nil}, instance.PartMaterials())

	material, err := NewMaterialBuilder().SetID("m").Build()
	require.NoError(t, err)
	instance.Bind("mat", material)
	assert.Equal(t, []*Material{material}, instance.PartMaterials())

}

func TestMaterialBuilder(t *testing.T) {

	_, err := NewMaterialBuilder().SetDiffuse(NewColor(1, 0, 0, 1)).Build()
	assert.ErrorIs(t, err, ErrMaterialNoID)

	material, err := NewMaterialBuilder().
		SetID("red").
		SetName("Red").
		SetShader(ShaderLambert).
		SetDiffuse(NewColor(1, 0, 0, 1)).
		SetDiffuseTexture("red.png").
		SetShininess(20).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "red", material.ID)
	assert.Equal(t, ShaderLambert, material.Shader)
	assert.Equal(t, NewColor(1, 0, 0, 1), material.Diffuse())
	assert.Equal(t, "red.png", material.DiffuseTexture())
	assert.Equal(t, float32(20), material.Shininess)

	// Channels that weren't set are black, scalars are zero, and the material is opaque.
	assert.Equal(t, NewColor(0, 0, 0, 1), material.Color(ChannelSpecular))
	assert.Equal(t, "", material.Texture(ChannelEmission))
	assert.Equal(t, float32(0), material.Reflectivity)
	assert.Equal(t, float32(1), material.Transparency)
	assert.Equal(t, TransparencyModeOpaque, material.TransparencyMode)

	glass, err := NewMaterialBuilder().SetID("glass").SetTransparency(0.25).Build()
	require.NoError(t, err)
	assert.Equal(t, TransparencyModeTransparent, glass.TransparencyMode)

	assert.Equal(t, "diffuse", ChannelDiffuse.String())

}
