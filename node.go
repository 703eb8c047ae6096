package tetradae

import (
	"strconv"
	"strings"
)

// Node is a node in a scene tree. A Node has a local transform relative to its parent, and its scene (world)
// transform is the local transform followed by the parent's scene transform. Nodes carry lights, mesh instances,
// and cameras, and own their children; a Node is either a root or appears exactly once in its parent's children.
//
// Children are kept as an intrusive doubly linked list, so attaching, detaching, and reordering are constant time.
type Node struct {
	name string

	parent      *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node
	childCount  int

	local      Matrix4
	world      Matrix4
	worldValid bool
	changed    bool

	steps []TransformStep

	visible   bool
	lights    []*Light
	meshes    []*MeshInstance
	cameras   []*Camera
	props     *Properties
	animation *AnimationPlayer

	Callbacks NodeCallbacks
}

// NewNode returns a new, visible Node with an identity transform.
func NewNode(name string) *Node {
	node := &Node{
		name:    name,
		local:   NewMatrix4(),
		visible: true,
		props:   NewProperties(),
		changed: true,
	}
	node.animation = NewAnimationPlayer(node)
	return node
}

// Name returns the Node's name.
func (node *Node) Name() string {
	return node.name
}

// SetName sets the Node's name.
func (node *Node) SetName(name string) {
	node.name = name
}

// Parent returns the Node's parent, or nil for a root.
func (node *Node) Parent() *Node {
	return node.parent
}

// FirstChild returns the Node's first child, or nil.
func (node *Node) FirstChild() *Node {
	return node.firstChild
}

// LastChild returns the Node's last child, or nil.
func (node *Node) LastChild() *Node {
	return node.lastChild
}

// NextSibling returns the child of the Node's parent following the Node, or nil.
func (node *Node) NextSibling() *Node {
	return node.nextSibling
}

// PrevSibling returns the child of the Node's parent preceding the Node, or nil.
func (node *Node) PrevSibling() *Node {
	return node.prevSibling
}

// ChildCount returns the number of direct children.
func (node *Node) ChildCount() int {
	return node.childCount
}

// Children returns the Node's direct children, in order.
func (node *Node) Children() []*Node {
	children := make([]*Node, 0, node.childCount)
	for child := node.firstChild; child != nil; child = child.nextSibling {
		children = append(children, child)
	}
	return children
}

// ChildrenRecursive returns all of the Node's descendants, depth first.
func (node *Node) ChildrenRecursive() []*Node {
	out := []*Node{}
	var walk func(*Node)
	walk = func(n *Node) {
		for child := n.firstChild; child != nil; child = child.nextSibling {
			out = append(out, child)
			walk(child)
		}
	}
	walk(node)
	return out
}

// Root returns the topmost ancestor of the Node; a Node without a parent is its own root.
func (node *Node) Root() *Node {
	root := node
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// isAncestorOf returns true if node is other or one of other's ancestors.
func (node *Node) isAncestorOf(other *Node) bool {
	for n := other; n != nil; n = n.parent {
		if n == node {
			return true
		}
	}
	return false
}

// checkAttach validates that child may become a child of node.
func (node *Node) checkAttach(child *Node) error {
	if child == nil {
		return ErrNilNode
	}
	if child == node {
		return ErrSelfParent
	}
	if child.isAncestorOf(node) {
		return ErrCycle
	}
	return nil
}

// unlink removes the Node from its parent's child list and clears its sibling and parent pointers.
func (node *Node) unlink() {

	parent := node.parent
	if parent == nil {
		return
	}

	if node.prevSibling != nil {
		node.prevSibling.nextSibling = node.nextSibling
	} else {
		parent.firstChild = node.nextSibling
	}

	if node.nextSibling != nil {
		node.nextSibling.prevSibling = node.prevSibling
	} else {
		parent.lastChild = node.prevSibling
	}

	parent.childCount--
	node.parent = nil
	node.prevSibling = nil
	node.nextSibling = nil

}

// link inserts the unattached child into node's child list before reference, or at the end if reference is nil.
func (node *Node) link(child, reference *Node) {

	child.parent = node

	if reference == nil {
		child.prevSibling = node.lastChild
		if node.lastChild != nil {
			node.lastChild.nextSibling = child
		} else {
			node.firstChild = child
		}
		node.lastChild = child
	} else {
		child.prevSibling = reference.prevSibling
		child.nextSibling = reference
		if reference.prevSibling != nil {
			reference.prevSibling.nextSibling = child
		} else {
			node.firstChild = child
		}
		reference.prevSibling = child
	}

	node.childCount++

}

// AppendChild adds child as the Node's last child, detaching it from any previous parent first.
func (node *Node) AppendChild(child *Node) error {

	if err := node.checkAttach(child); err != nil {
		return err
	}

	oldParent := child.parent
	child.unlink()
	node.link(child, nil)
	child.invalidate()
	child.reparented(oldParent, node)
	return nil

}

// InsertBefore adds child to the Node's children directly before reference, which must already be a child of
// the Node. child is detached from any previous parent first; it may already be one of the Node's children, in
// which case it's moved.
func (node *Node) InsertBefore(child, reference *Node) error {

	if child == nil || reference == nil {
		return ErrNilNode
	}
	if reference.parent != node || child == reference {
		return ErrNotChild
	}
	if err := node.checkAttach(child); err != nil {
		return err
	}

	oldParent := child.parent
	child.unlink()
	node.link(child, reference)
	child.invalidate()
	child.reparented(oldParent, node)
	return nil

}

// RemoveChild detaches child from the Node, making it the root of its own tree.
func (node *Node) RemoveChild(child *Node) error {

	if child == nil {
		return ErrNilNode
	}
	if child.parent != node {
		return ErrNotChild
	}

	child.unlink()
	child.invalidate()
	child.reparented(node, nil)
	return nil

}

// ReplaceChild puts newChild in oldChild's place among the Node's children and detaches oldChild.
// Replacing a child with itself does nothing.
func (node *Node) ReplaceChild(oldChild, newChild *Node) error {

	if oldChild == nil || newChild == nil {
		return ErrNilNode
	}
	if oldChild.parent != node {
		return ErrNotChild
	}
	if oldChild == newChild {
		return nil
	}
	if err := node.checkAttach(newChild); err != nil {
		return err
	}

	oldParent := newChild.parent
	newChild.unlink()
	node.link(newChild, oldChild)
	oldChild.unlink()

	newChild.invalidate()
	oldChild.invalidate()
	newChild.reparented(oldParent, node)
	oldChild.reparented(node, nil)
	return nil

}

// invalidate clears the cached scene transform of the Node and all of its descendants.
func (node *Node) invalidate() {
	node.worldValid = false
	node.changed = true
	for child := node.firstChild; child != nil; child = child.nextSibling {
		child.invalidate()
	}
}

// LocalTransform returns the Node's transform relative to its parent.
func (node *Node) LocalTransform() Matrix4 {
	return node.local
}

// SetLocalTransform sets the Node's transform relative to its parent, dropping any transform steps.
// Cached scene transforms are refreshed on the next Update.
func (node *Node) SetLocalTransform(transform Matrix4) {
	node.local = transform
	node.steps = nil
	node.changed = true
}

// SetTransformSteps sets the Node's local transform to the composition of the steps given; the steps are kept
// so animations can change them.
func (node *Node) SetTransformSteps(steps ...TransformStep) {
	node.steps = append(node.steps[:0], steps...)
	node.local = ComposeTransformSteps(node.steps)
	node.changed = true
}

// TransformSteps returns the Node's transform steps; it's empty when the local transform was set directly.
func (node *Node) TransformSteps() []TransformStep {
	return node.steps
}

// setStepValue changes a value of the indexed step and recomposes the local transform.
// An index of -1 replaces all of the step's values.
func (node *Node) setStepValue(stepIndex, index int, values []float32) {
	step := &node.steps[stepIndex]
	if index < 0 {
		copy(step.Values, values)
	} else if len(values) > 0 && index < len(step.Values) {
		step.Values[index] = values[0]
	}
	node.local = ComposeTransformSteps(node.steps)
	node.changed = true
}

// SceneTransform returns the Node's world transform. It's computed through the parent chain and cached until the
// next Update, or until the Node is moved to another place in a tree.
func (node *Node) SceneTransform() Matrix4 {

	if node.worldValid {
		return node.world
	}

	node.world = node.local
	if node.parent != nil {
		node.world = node.local.Mult(node.parent.SceneTransform())
	}
	node.worldValid = true
	return node.world

}

// WorldPosition returns the translation of the Node's scene transform.
func (node *Node) WorldPosition() Vector3 {
	return node.SceneTransform().Translation()
}

// Update advances the Node and its descendants by dt seconds: it clears their cached scene transforms and updates
// their animation players. It returns true if anything in the subtree changed since the last Update.
func (node *Node) Update(dt float32) bool {

	node.worldValid = false

	changed := node.changed
	node.changed = false

	if node.animation.Update(dt) {
		changed = true
	}

	for child := node.firstChild; child != nil; child = child.nextSibling {
		if child.Update(dt) {
			changed = true
		}
	}

	return changed

}

// Visible returns whether the Node and its subtree are drawn.
func (node *Node) Visible() bool {
	return node.visible
}

// SetVisible sets whether the Node and its subtree are drawn.
func (node *Node) SetVisible(visible bool) {
	if node.visible != visible {
		node.changed = true
	}
	node.visible = visible
}

// Lights returns the lights attached to the Node.
func (node *Node) Lights() []*Light {
	return node.lights
}

// AddLight attaches a light to the Node; it lights the Node's subtree.
func (node *Node) AddLight(light *Light) {
	node.lights = append(node.lights, light)
}

// Meshes returns the mesh instances attached to the Node.
func (node *Node) Meshes() []*MeshInstance {
	return node.meshes
}

// AddMesh attaches a mesh instance to the Node.
func (node *Node) AddMesh(instance *MeshInstance) {
	node.meshes = append(node.meshes, instance)
}

// Cameras returns the cameras attached to the Node.
func (node *Node) Cameras() []*Camera {
	return node.cameras
}

// AddCamera attaches a camera to the Node; the camera looks down the Node's -Z axis.
func (node *Node) AddCamera(camera *Camera) {
	node.cameras = append(node.cameras, camera)
}

// Properties returns the Node's Properties.
func (node *Node) Properties() *Properties {
	return node.props
}

// AnimationPlayer returns the Node's animation player; every Node has one.
func (node *Node) AnimationPlayer() *AnimationPlayer {
	return node.animation
}

// Get searches the Node's hierarchy for a node by a path of names separated by forward slashes, relative to the
// Node. As an example, if a cup was parented to a desk in a room, room.Get("Desk/Cup") would return the cup.
// ".." goes up one level, so cup.Get("..") is the desk. Get returns nil if nothing is found.
func (node *Node) Get(path string) *Node {

	current := node

	for _, part := range strings.Split(path, "/") {

		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if part == ".." {
			current = current.parent
		} else {
			var found *Node
			for child := current.firstChild; child != nil; child = child.nextSibling {
				if child.name == part {
					found = child
					break
				}
			}
			current = found
		}

		if current == nil {
			return nil
		}

	}

	return current

}

// Path returns the path to get to the Node from its root through Get. The root's own name isn't included.
func (node *Node) Path() string {

	if node.parent == nil {
		return ""
	}

	path := node.name
	for parent := node.parent; parent != nil && parent.parent != nil; parent = parent.parent {
		path = parent.name + "/" + path
	}
	return path

}

// HierarchyAsString returns a string displaying the hierarchy of this Node and all of its descendants, which is
// useful to debug the layout of a tree. Every Node but the first shows what it carries by means of a prefix
// ("MESH" for a Node with mesh instances, for example), and all of them show their world positions, truncated to
// the first 2 decimals.
func (node *Node) HierarchyAsString() string {

	var builder strings.Builder

	var printNode func(n *Node, level int)

	printNode = func(n *Node, level int) {

		prefix := "NODE"
		switch {
		case level == 0:
			prefix = "ROOT"
		case len(n.meshes) > 0:
			prefix = "MESH"
		case len(n.cameras) > 0:
			prefix = "CAM"
		case len(n.lights) > 0:
			prefix = "LIGHT"
		}

		if level > 0 {
			builder.WriteString(strings.Repeat("    |", level))
			builder.WriteString("\n")
			builder.WriteString(strings.Repeat("    |", level))
			builder.WriteString("-")
		}

		wp := n.WorldPosition()
		builder.WriteString(" [" + prefix + "] " + n.name + " : [" +
			strconv.FormatFloat(float64(wp.X), 'f', 2, 32) + ", " +
			strconv.FormatFloat(float64(wp.Y), 'f', 2, 32) + ", " +
			strconv.FormatFloat(float64(wp.Z), 'f', 2, 32) + "]\n")

		for child := n.firstChild; child != nil; child = child.nextSibling {
			printNode(child, level+1)
		}

	}

	printNode(node, 0)

	return builder.String()

}
