package tetradae

import "errors"

var (
	// ErrNilNode is returned by tree operations given a nil Node.
	ErrNilNode = errors.New("tetradae: nil node")
	// ErrSelfParent is returned when a Node would become its own child.
	ErrSelfParent = errors.New("tetradae: node can't be its own child")
	// ErrNotChild is returned when a reference or removed Node is not a child of the Node the operation is called on.
	ErrNotChild = errors.New("tetradae: node is not a child")
	// ErrCycle is returned when a Node would become a child of one of its own descendants.
	ErrCycle = errors.New("tetradae: node can't be a child of its own descendant")

	// ErrNoSink is returned by Render when there's no RenderContext or it has no RenderSink.
	ErrNoSink = errors.New("tetradae: render context has no sink")

	// ErrNoVertexData is returned by MeshBuilder.Build when no vertex has been added.
	ErrNoVertexData = errors.New("tetradae: mesh has no vertex data")
	// ErrMaterialNoID is returned by MaterialBuilder.Build when the material's id was never set.
	ErrMaterialNoID = errors.New("tetradae: material has no id")
	// ErrBadElement is returned by MeshBuilder.AddElement for polygons it can't use.
	ErrBadElement = errors.New("tetradae: bad mesh element")
)
