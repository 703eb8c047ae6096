package tetradae

// Scene is a tree of Nodes under a Root node.
type Scene struct {
	Name    string
	Root    *Node
	library *Library
}

// NewScene returns a new Scene with an empty Root node.
func NewScene(name string) *Scene {
	return &Scene{
		Name: name,
		Root: NewNode("Root"),
	}
}

// Library returns the Library the Scene was loaded into, or nil if it was created through code.
func (scene *Scene) Library() *Library {
	return scene.library
}

// Update advances the Scene by dt seconds; see Node.Update.
func (scene *Scene) Update(dt float32) bool {
	return scene.Root.Update(dt)
}

// Render renders the Scene's tree through the context.
func (scene *Scene) Render(ctx *RenderContext) error {
	return Render(ctx, scene.Root)
}
