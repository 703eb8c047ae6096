package tetradae

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Dimensions represents the minimum and maximum spatial dimensions of a Mesh arranged in a 2-space Vector slice.
type Dimensions [2]Vector3

// Width returns the total difference between the minimum and maximum X-axis extents.
func (dim Dimensions) Width() float32 {
	return dim[1].X - dim[0].X
}

// Height returns the total difference between the minimum and maximum Y-axis extents.
func (dim Dimensions) Height() float32 {
	return dim[1].Y - dim[0].Y
}

// Depth returns the total difference between the minimum and maximum Z-axis extents.
func (dim Dimensions) Depth() float32 {
	return dim[1].Z - dim[0].Z
}

// Center returns the center point inbetween the two corners of the dimension set.
func (dim Dimensions) Center() Vector3 {
	return dim[0].Add(dim[1]).Scale(0.5)
}

// MaxSpan returns the maximum span between the corners of the dimension set.
func (dim Dimensions) MaxSpan() float32 {
	return dim[1].Sub(dim[0]).Magnitude()
}

// TexCoord is a texture coordinate.
type TexCoord struct {
	U, V float32
}

// Corner is a triangle corner, made of indices into a Mesh's Positions, Normals, and TexCoords.
// Normal and TexCoord are -1 when the corner has none.
type Corner struct {
	Position int
	Normal   int
	TexCoord int
}

// Triangle is three corners in counter-clockwise order.
type Triangle [3]Corner

// Vertex is a triangle corner with its data looked up.
type Vertex struct {
	Position Vector3
	Normal   Vector3
	TexCoord TexCoord
}

// MeshPart is the set of a Mesh's triangles drawn with one material. Material is the symbol the mesh's instances
// bind to an actual Material.
type MeshPart struct {
	Material  string
	Triangles []Triangle
}

// Mesh is renderable geometry: shared vertex data and triangles grouped into parts by material.
// Meshes are built with a MeshBuilder.
type Mesh struct {
	Name       string
	Positions  []Vector3
	Normals    []Vector3
	TexCoords  []TexCoord
	Parts      []*MeshPart
	Dimensions Dimensions
}

// Vertex returns the data of a triangle corner.
func (mesh *Mesh) Vertex(corner Corner) Vertex {
	vertex := Vertex{Position: mesh.Positions[corner.Position]}
	if corner.Normal >= 0 {
		vertex.Normal = mesh.Normals[corner.Normal]
	}
	if corner.TexCoord >= 0 {
		vertex.TexCoord = mesh.TexCoords[corner.TexCoord]
	}
	return vertex
}

// TriangleCount returns the number of triangles in all of the Mesh's parts.
func (mesh *Mesh) TriangleCount() int {
	count := 0
	for _, part := range mesh.Parts {
		count += len(part.Triangles)
	}
	return count
}

// HasNormals returns true if the Mesh carries normals.
func (mesh *Mesh) HasNormals() bool {
	return len(mesh.Normals) > 0
}

// HasTexCoords returns true if the Mesh carries texture coordinates.
func (mesh *Mesh) HasTexCoords() bool {
	return len(mesh.TexCoords) > 0
}

// Vertices returns the part's triangles unrolled into three vertices each, the way GPUs want them.
func (part *MeshPart) Vertices(mesh *Mesh) []Vertex {
	vertices := make([]Vertex, 0, len(part.Triangles)*3)
	for _, tri := range part.Triangles {
		for _, corner := range tri {
			vertices = append(vertices, mesh.Vertex(corner))
		}
	}
	return vertices
}

// UpdateDimensions recalculates the Mesh's Dimensions out of its positions.
func (mesh *Mesh) UpdateDimensions() {

	if len(mesh.Positions) == 0 {
		mesh.Dimensions = Dimensions{}
		return
	}

	min := mesh.Positions[0]
	max := mesh.Positions[0]

	for _, p := range mesh.Positions[1:] {
		min = Vector3{X: math32.Min(min.X, p.X), Y: math32.Min(min.Y, p.Y), Z: math32.Min(min.Z, p.Z)}
		max = Vector3{X: math32.Max(max.X, p.X), Y: math32.Max(max.Y, p.Y), Z: math32.Max(max.Z, p.Z)}
	}

	mesh.Dimensions = Dimensions{min, max}

}

//---------------//

// MeshInstance is a Mesh placed on a Node, with the Materials its material symbols are bound to.
type MeshInstance struct {
	Mesh      *Mesh
	Materials map[string]*Material
}

// NewMeshInstance returns a new MeshInstance of the Mesh without material bindings.
func NewMeshInstance(mesh *Mesh) *MeshInstance {
	return &MeshInstance{Mesh: mesh, Materials: map[string]*Material{}}
}

// Bind binds the material symbol to the Material.
func (instance *MeshInstance) Bind(symbol string, material *Material) {
	instance.Materials[symbol] = material
}

// PartMaterials returns the bound Material for each of the Mesh's parts, in order; unbound parts get nil.
func (instance *MeshInstance) PartMaterials() []*Material {
	materials := make([]*Material, len(instance.Mesh.Parts))
	for i, part := range instance.Mesh.Parts {
		materials[i] = instance.Materials[part.Material]
	}
	return materials
}

//---------------//

// MeshBuilder builds a Mesh out of vertex data and polygons. Polygons are added with AddElement as tuples of
// indices, one tuple per corner: the position index, followed by the normal index if UseNormals is on, followed by
// the texture coordinate index if UseTexCoords is on. Polygons are triangulated as fans around their first corner.
type MeshBuilder struct {
	positions    []Vector3
	normals      []Vector3
	texCoords    []TexCoord
	useNormals   bool
	useTexCoords bool
	material     string
	parts        []*MeshPart
}

// NewMeshBuilder returns a new, empty MeshBuilder.
func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{}
}

// AddVertex adds a position and returns its index.
func (builder *MeshBuilder) AddVertex(x, y, z float32) int {
	builder.positions = append(builder.positions, Vector3{X: x, Y: y, Z: z})
	return len(builder.positions) - 1
}

// AddNormal adds a normal and returns its index.
func (builder *MeshBuilder) AddNormal(x, y, z float32) int {
	builder.normals = append(builder.normals, Vector3{X: x, Y: y, Z: z})
	return len(builder.normals) - 1
}

// AddTexCoord adds a texture coordinate and returns its index.
func (builder *MeshBuilder) AddTexCoord(u, v float32) int {
	builder.texCoords = append(builder.texCoords, TexCoord{U: u, V: v})
	return len(builder.texCoords) - 1
}

// UseNormals sets whether the corner tuples of the following elements include a normal index.
func (builder *MeshBuilder) UseNormals(use bool) {
	builder.useNormals = use
}

// UseTexCoords sets whether the corner tuples of the following elements include a texture coordinate index.
func (builder *MeshBuilder) UseTexCoords(use bool) {
	builder.useTexCoords = use
}

// SetMaterial sets the material symbol of the following elements.
func (builder *MeshBuilder) SetMaterial(symbol string) {
	builder.material = symbol
}

func (builder *MeshBuilder) currentPart() *MeshPart {
	for _, part := range builder.parts {
		if part.Material == builder.material {
			return part
		}
	}
	part := &MeshPart{Material: builder.material}
	builder.parts = append(builder.parts, part)
	return part
}

// AddElement adds a polygon of vertexCount corners. It returns an error wrapping ErrBadElement if the polygon has
// fewer than 3 corners, if the number of indices doesn't match, or if an index is out of range.
func (builder *MeshBuilder) AddElement(vertexCount int, indices ...int) error {

	if vertexCount < 3 {
		return fmt.Errorf("%w: polygon with %d corners", ErrBadElement, vertexCount)
	}

	tuple := 1
	normalOffset, texOffset := -1, -1
	if builder.useNormals {
		normalOffset = tuple
		tuple++
	}
	if builder.useTexCoords {
		texOffset = tuple
		tuple++
	}

	if len(indices) != vertexCount*tuple {
		return fmt.Errorf("%w: %d corners need %d indices, got %d", ErrBadElement, vertexCount, vertexCount*tuple, len(indices))
	}

	corners := make([]Corner, vertexCount)

	for i := range corners {

		base := indices[i*tuple : (i+1)*tuple]
		corner := Corner{Position: base[0], Normal: -1, TexCoord: -1}

		if corner.Position < 0 || corner.Position >= len(builder.positions) {
			return fmt.Errorf("%w: position index %d out of range", ErrBadElement, corner.Position)
		}
		if normalOffset >= 0 {
			corner.Normal = base[normalOffset]
			if corner.Normal < 0 || corner.Normal >= len(builder.normals) {
				return fmt.Errorf("%w: normal index %d out of range", ErrBadElement, corner.Normal)
			}
		}
		if texOffset >= 0 {
			corner.TexCoord = base[texOffset]
			if corner.TexCoord < 0 || corner.TexCoord >= len(builder.texCoords) {
				return fmt.Errorf("%w: texture coordinate index %d out of range", ErrBadElement, corner.TexCoord)
			}
		}

		corners[i] = corner

	}

	part := builder.currentPart()
	for i := 1; i < vertexCount-1; i++ {
		part.Triangles = append(part.Triangles, Triangle{corners[0], corners[i], corners[i+1]})
	}

	return nil

}

// Build returns the Mesh built so far under the given name. It returns ErrNoVertexData if no vertex was added.
func (builder *MeshBuilder) Build(name string) (*Mesh, error) {

	if len(builder.positions) == 0 {
		return nil, ErrNoVertexData
	}

	mesh := &Mesh{
		Name:      name,
		Positions: append([]Vector3(nil), builder.positions...),
		Normals:   append([]Vector3(nil), builder.normals...),
		TexCoords: append([]TexCoord(nil), builder.texCoords...),
	}

	for _, part := range builder.parts {
		mesh.Parts = append(mesh.Parts, &MeshPart{
			Material:  part.Material,
			Triangles: append([]Triangle(nil), part.Triangles...),
		})
	}

	mesh.UpdateDimensions()

	return mesh, nil

}
