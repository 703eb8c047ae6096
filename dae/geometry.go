package dae

import (
	"encoding/xml"
	"fmt"
)

func (p *Parser) enterGeometry(attrs []xml.Attr) error {
	geometry, err := NewGeometry(attr(attrs, "id"), attr(attrs, "name"))
	if err != nil {
		return err
	}
	if err := p.doc.Geometries.Add(geometry); err != nil {
		return err
	}
	p.geometry = geometry
	return nil
}

func (p *Parser) leaveGeometry() error {
	geometry := p.geometry
	p.geometry = nil
	if geometry.Mesh == nil {
		return missingField("Geometry", "mesh")
	}
	return nil
}

func (p *Parser) enterMesh(_ []xml.Attr) error {
	if p.geometry.Mesh != nil {
		return fmt.Errorf("%w: geometry %q has more than one mesh", ErrStructure, p.geometry.ID)
	}
	p.mesh = newMesh()
	p.geometry.Mesh = p.mesh
	return nil
}

func (p *Parser) leaveMesh() error {
	mesh := p.mesh
	p.mesh = nil
	if mesh.Vertices == nil {
		return missingField("Mesh", "vertices")
	}
	return nil
}

// sources returns the library that <source> elements are added to in the current context.
func (p *Parser) sources() *Library[*DataSource] {
	if p.mesh != nil {
		return p.mesh.Sources
	}
	return p.animations[len(p.animations)-1].Sources
}

func (p *Parser) enterSource(attrs []xml.Attr) error {
	source, err := NewDataSource(attr(attrs, "id"), attr(attrs, "name"))
	if err != nil {
		return err
	}
	if err := p.sources().Add(source); err != nil {
		return err
	}
	p.source = source
	return nil
}

func (p *Parser) leaveSource() error {

	source := p.source
	p.source = nil

	if source.Floats == nil && source.Names == nil {
		return missingField("DataSource", "array")
	}

	if source.Accessor != nil {
		id, err := fragment("array", source.Accessor.Source)
		if err != nil {
			return err
		}
		if (source.Floats == nil || source.Floats.ID != id) && (source.Names == nil || source.Names.ID != id) {
			return &ReferenceError{Kind: "array", Ref: source.Accessor.Source}
		}
	}

	return nil

}

func (p *Parser) enterFloatArray(attrs []xml.Attr) error {
	count, err := intAttr(attrs, "count", 0)
	if err != nil {
		return err
	}
	array := &FloatArray{ID: attr(attrs, "id"), Count: count, Values: make([]float32, 0, count)}
	p.source.Floats = array
	p.reader = NewFloatReader(func(value float32) { array.Values = append(array.Values, value) })
	return nil
}

func (p *Parser) leaveFloatArray() error {
	if err := p.finishReader(); err != nil {
		return err
	}
	array := p.source.Floats
	if len(array.Values) != array.Count {
		return fmt.Errorf("%w: float_array %q has %d values, count says %d", ErrMalformedNumber, array.ID, len(array.Values), array.Count)
	}
	return nil
}

func (p *Parser) enterNameArray(attrs []xml.Attr) error {
	count, err := intAttr(attrs, "count", 0)
	if err != nil {
		return err
	}
	array := &NameArray{ID: attr(attrs, "id"), Count: count, Values: make([]string, 0, count)}
	p.source.Names = array
	p.reader = NewNameReader(func(name string) { array.Values = append(array.Values, name) })
	return nil
}

func (p *Parser) leaveNameArray() error {
	if err := p.finishReader(); err != nil {
		return err
	}
	array := p.source.Names
	if len(array.Values) != array.Count {
		return fmt.Errorf("%w: name array %q has %d values, count says %d", ErrStructure, array.ID, len(array.Values), array.Count)
	}
	return nil
}

func (p *Parser) enterAccessor(attrs []xml.Attr) error {
	count, err := intAttr(attrs, "count", 0)
	if err != nil {
		return err
	}
	stride, err := intAttr(attrs, "stride", 1)
	if err != nil {
		return err
	}
	offset, err := intAttr(attrs, "offset", 0)
	if err != nil {
		return err
	}
	accessor, err := NewAccessor(attr(attrs, "source"), count, stride)
	if err != nil {
		return err
	}
	accessor.Offset = offset
	p.source.Accessor = accessor
	return nil
}

func (p *Parser) enterAccessorParam(attrs []xml.Attr) error {
	p.source.Accessor.Params = append(p.source.Accessor.Params, attr(attrs, "name"))
	return nil
}

//---------------//

func (p *Parser) enterVertices(attrs []xml.Attr) error {
	id, err := requireAttr(attrs, "Vertices", "id")
	if err != nil {
		return err
	}
	if p.mesh.Vertices != nil {
		return fmt.Errorf("%w: mesh has more than one <vertices>", ErrStructure)
	}
	p.vertices = &Vertices{ID: id}
	p.mesh.Vertices = p.vertices
	return nil
}

func (p *Parser) enterVerticesInput(attrs []xml.Attr) error {
	input, err := NewInput(attr(attrs, "semantic"), attr(attrs, "source"), 0, -1)
	if err != nil {
		return err
	}
	if input.DataSource, err = lookup(p.mesh.Sources, "source", input.Source); err != nil {
		return err
	}
	p.vertices.Inputs = append(p.vertices.Inputs, input)
	return nil
}

func (p *Parser) leaveVertices() error {
	vertices := p.vertices
	p.vertices = nil
	if vertices.Input("POSITION") == nil {
		return missingField("Vertices", "POSITION input")
	}
	return nil
}

func primitiveEnter(kind PrimitiveKind) func(p *Parser, attrs []xml.Attr) error {
	return func(p *Parser, attrs []xml.Attr) error {
		count, err := intAttr(attrs, "count", 0)
		if err != nil {
			return err
		}
		p.primitive = &PrimitiveGroup{Kind: kind, Material: attr(attrs, "material"), Count: count}
		p.mesh.Primitives = append(p.mesh.Primitives, p.primitive)
		return nil
	}
}

func (p *Parser) enterPrimitiveInput(attrs []xml.Attr) error {

	offset, err := intAttr(attrs, "offset", -1)
	if err != nil {
		return err
	}
	if offset < 0 {
		return missingField("Input", "offset")
	}
	set, err := intAttr(attrs, "set", -1)
	if err != nil {
		return err
	}

	input, err := NewInput(attr(attrs, "semantic"), attr(attrs, "source"), offset, set)
	if err != nil {
		return err
	}

	if input.Semantic == "VERTEX" {
		id, err := fragment("vertices", input.Source)
		if err != nil {
			return err
		}
		if p.mesh.Vertices == nil || p.mesh.Vertices.ID != id {
			return &ReferenceError{Kind: "vertices", Ref: input.Source}
		}
	} else if input.DataSource, err = lookup(p.mesh.Sources, "source", input.Source); err != nil {
		return err
	}

	p.primitive.Inputs = append(p.primitive.Inputs, input)
	return nil

}

func (p *Parser) enterP(_ []xml.Attr) error {
	if p.primitive.Kind != PrimitivePolygons && len(p.primitive.Indices) > 0 {
		return fmt.Errorf("%w: <%s> has more than one <p>", ErrStructure, p.primitive.Kind)
	}
	p.indices = nil
	p.reader = NewIntReader(func(value int) { p.indices = append(p.indices, value) })
	return nil
}

func (p *Parser) leaveP() error {
	if err := p.finishReader(); err != nil {
		return err
	}
	p.primitive.Indices = append(p.primitive.Indices, p.indices)
	p.indices = nil
	return nil
}

func (p *Parser) enterVCount(_ []xml.Attr) error {
	if p.primitive.Kind != PrimitivePolyList {
		return &UnsupportedError{Element: "vcount", Context: p.primitive.Kind.String()}
	}
	p.primitive.VCount = p.primitive.VCount[:0]
	p.reader = NewIntReader(func(value int) { p.primitive.VCount = append(p.primitive.VCount, value) })
	return nil
}

// leavePrimitive checks that the group's inputs and index data agree on the size of an index block.
func (p *Parser) leavePrimitive() error {

	group := p.primitive
	p.primitive = nil

	if len(group.Inputs) == 0 {
		return fmt.Errorf("%w: <%s> has no inputs", ErrInconsistentInputs, group.Kind)
	}
	if group.Input("VERTEX") == nil {
		return missingField(group.Kind.String(), "VERTEX input")
	}

	stride := group.Stride()
	for _, input := range group.Inputs {
		if input.Offset >= stride {
			return fmt.Errorf("%w: input %s has offset %d but the block size is %d", ErrInconsistentInputs, input.Semantic, input.Offset, stride)
		}
	}

	for _, indices := range group.Indices {
		if len(indices)%stride != 0 {
			return fmt.Errorf("%w: %d indices is not a multiple of the block size %d", ErrInconsistentInputs, len(indices), stride)
		}
	}

	switch group.Kind {

	case PrimitiveTriangles:
		if len(group.Indices) == 1 && len(group.Indices[0])%(stride*3) != 0 {
			return fmt.Errorf("%w: %d triangle indices with block size %d", ErrInconsistentInputs, len(group.Indices[0]), stride)
		}

	case PrimitivePolyList:
		total := 0
		for _, n := range group.VCount {
			if n < 3 {
				return fmt.Errorf("%w: polygon with %d vertices", ErrInconsistentInputs, n)
			}
			total += n
		}
		indexCount := 0
		if len(group.Indices) == 1 {
			indexCount = len(group.Indices[0])
		}
		if total*stride != indexCount {
			return fmt.Errorf("%w: vcount sums to %d vertices but <p> holds %d blocks", ErrInconsistentInputs, total, indexCount/stride)
		}

	case PrimitivePolygons:
		for _, indices := range group.Indices {
			if len(indices)/stride < 3 {
				return fmt.Errorf("%w: polygon with %d vertices", ErrInconsistentInputs, len(indices)/stride)
			}
		}

	}

	return nil

}
