package tetradae

// RenderSink receives what a Render traversal finds in a tree. Renderers implement it.
type RenderSink interface {
	BeginFrame(view, projection Matrix4)
	EnableLight(slot int, light *Light, world Matrix4)
	DisableLight(slot int)
	// DrawMesh draws a mesh with the world transform given; materials holds the material for each of the mesh's
	// parts, nil for parts without one.
	DrawMesh(world Matrix4, mesh *Mesh, materials []*Material)
	EndFrame()
}

// RenderContext carries the state of a Render traversal.
type RenderContext struct {
	Sink   RenderSink
	Lights *LightAllocator
	// Camera is the camera to render with, and CameraNode the node carrying it. If Camera is nil, the first camera
	// found in the tree is used.
	Camera     *Camera
	CameraNode *Node
	// Aspect is the width over the height of the view.
	Aspect float32
}

// FindCamera returns the first camera in the tree rooted at root, depth first, and the node carrying it.
func FindCamera(root *Node) (*Camera, *Node) {
	if cameras := root.Cameras(); len(cameras) > 0 {
		return cameras[0], root
	}
	if node := root.Search().ByKind(NodeKindCamera).First(); node != nil {
		return node.cameras[0], node
	}
	return nil, nil
}

// Render walks the tree rooted at root and hands it to the context's sink. Invisible nodes are skipped along with
// their subtrees. A node's lights are enabled for its subtree and disabled afterwards; lights that don't fit in
// the allocator's free slots are dropped with a warning.
func Render(ctx *RenderContext, root *Node) error {

	if ctx == nil || ctx.Sink == nil {
		return ErrNoSink
	}

	if root == nil {
		return ErrNilNode
	}

	camera, cameraNode := ctx.Camera, ctx.CameraNode
	if camera == nil {
		camera, cameraNode = FindCamera(root)
	}

	view := NewMatrix4()
	projection := NewMatrix4()
	if camera != nil {
		if cameraNode != nil {
			view = ViewMatrix(cameraNode.SceneTransform())
		}
		projection = camera.Projection(ctx.Aspect)
	}

	lights := ctx.Lights
	if lights == nil {
		lights = NewLightAllocator(8)
	}

	ctx.Sink.BeginFrame(view, projection)
	renderNode(ctx.Sink, lights, root)
	ctx.Sink.EndFrame()

	return nil

}

func renderNode(sink RenderSink, lights *LightAllocator, node *Node) {

	if !node.Visible() {
		return
	}

	world := node.SceneTransform()

	var slots []int
	for _, light := range node.Lights() {
		if !light.On {
			continue
		}
		slot, ok := lights.Acquire()
		if !ok {
			Logger().Warn("no free light slot", "light", light.Name, "node", node.Name(), "max", lights.Max())
			continue
		}
		sink.EnableLight(slot, light, world)
		slots = append(slots, slot)
	}

	for _, instance := range node.Meshes() {
		sink.DrawMesh(world, instance.Mesh, instance.PartMaterials())
	}

	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		renderNode(sink, lights, child)
	}

	for _, slot := range slots {
		sink.DisableLight(slot)
		lights.Release(slot)
	}

}
