package tetradae

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkTree verifies the links of every node under (and including) root.
func checkTree(t *testing.T, root *Node) {

	t.Helper()

	if root.Parent() == nil {
		assert.Nil(t, root.PrevSibling(), root.Name())
		assert.Nil(t, root.NextSibling(), root.Name())
	}

	count := 0
	var prev *Node
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		assert.Same(t, root, child.Parent(), child.Name())
		assert.Same(t, prev, child.PrevSibling(), child.Name())
		prev = child
		count++
		checkTree(t, child)
	}

	assert.Same(t, prev, root.LastChild(), root.Name())
	assert.Equal(t, count, root.ChildCount(), root.Name())

}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func TestAppendChild(t *testing.T) {

	parent := NewNode("parent")
	a := NewNode("a")
	b := NewNode("b")

	require.NoError(t, parent.AppendChild(a))
	require.NoError(t, parent.AppendChild(b))

	assert.Equal(t, []string{"a", "b"}, names(parent.Children()))
	assert.Same(t, a, parent.FirstChild())
	assert.Same(t, b, parent.LastChild())
	checkTree(t, parent)

	assert.ErrorIs(t, parent.AppendChild(nil), ErrNilNode)
	assert.ErrorIs(t, parent.AppendChild(parent), ErrSelfParent)
	assert.ErrorIs(t, a.AppendChild(parent), ErrCycle)
	checkTree(t, parent)

}

func TestAppendChildReparents(t *testing.T) {

	oldParent := NewNode("old")
	newParent := NewNode("new")
	child := NewNode("child")
	sibling := NewNode("sibling")

	require.NoError(t, oldParent.AppendChild(child))
	require.NoError(t, oldParent.AppendChild(sibling))

	var events [][2]*Node
	child.Callbacks.OnReparent = func(node, from, to *Node) {
		events = append(events, [2]*Node{from, to})
	}

	require.NoError(t, newParent.AppendChild(child))

	assert.Equal(t, 1, oldParent.ChildCount())
	assert.Equal(t, 1, newParent.ChildCount())
	assert.Same(t, child, newParent.FirstChild())
	assert.Same(t, newParent, child.Parent())
	assert.Equal(t, [][2]*Node{{oldParent, newParent}}, events)

	checkTree(t, oldParent)
	checkTree(t, newParent)

}

func TestInsertBefore(t *testing.T) {

	parent := NewNode("parent")
	child1 := NewNode("child1")
	child2 := NewNode("child2")
	first := NewNode("first")

	require.NoError(t, parent.AppendChild(child1))
	require.NoError(t, parent.AppendChild(child2))

	require.NoError(t, parent.InsertBefore(first, child1))
	assert.Same(t, first, parent.FirstChild())
	assert.Equal(t, []string{"first", "child1", "child2"}, names(parent.Children()))
	checkTree(t, parent)

	require.NoError(t, parent.RemoveChild(first))

	// Moving the last child in front of the first one.
	require.NoError(t, parent.InsertBefore(child2, child1))
	assert.Equal(t, []string{"child2", "child1"}, names(parent.Children()))
	assert.Same(t, child1, parent.LastChild())
	checkTree(t, parent)

}

func TestInsertBeforeErrors(t *testing.T) {

	parent := NewNode("parent")
	child := NewNode("child")
	stranger := NewNode("stranger")
	require.NoError(t, parent.AppendChild(child))

	assert.ErrorIs(t, parent.InsertBefore(nil, child), ErrNilNode)
	assert.ErrorIs(t, parent.InsertBefore(stranger, nil), ErrNilNode)
	assert.ErrorIs(t, parent.InsertBefore(stranger, stranger), ErrNotChild)
	assert.ErrorIs(t, parent.InsertBefore(child, child), ErrNotChild)
	assert.ErrorIs(t, parent.InsertBefore(parent, child), ErrSelfParent)

	grandchild := NewNode("grandchild")
	require.NoError(t, child.AppendChild(grandchild))
	assert.ErrorIs(t, grandchild.InsertBefore(parent, NewNode("x")), ErrNotChild)

	assert.Equal(t, []string{"child"}, names(parent.Children()))
	assert.Nil(t, stranger.Parent())
	checkTree(t, parent)

}

func TestRemoveChild(t *testing.T) {

	parent := NewNode("parent")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	for _, n := range []*Node{a, b, c} {
		require.NoError(t, parent.AppendChild(n))
	}

	require.NoError(t, parent.RemoveChild(b))

	assert.Nil(t, b.Parent())
	assert.Nil(t, b.PrevSibling())
	assert.Nil(t, b.NextSibling())
	assert.Same(t, c, a.NextSibling())
	assert.Same(t, a, c.PrevSibling())
	checkTree(t, parent)

	assert.ErrorIs(t, parent.RemoveChild(nil), ErrNilNode)
	assert.ErrorIs(t, parent.RemoveChild(b), ErrNotChild)

	require.NoError(t, parent.RemoveChild(a))
	require.NoError(t, parent.RemoveChild(c))
	assert.Nil(t, parent.FirstChild())
	assert.Nil(t, parent.LastChild())
	assert.Equal(t, 0, parent.ChildCount())

}

func TestReplaceChild(t *testing.T) {

	parent := NewNode("parent")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	for _, n := range []*Node{a, b, c} {
		require.NoError(t, parent.AppendChild(n))
	}

	require.NoError(t, parent.ReplaceChild(b, b))
	assert.Equal(t, []string{"a", "b", "c"}, names(parent.Children()))
	checkTree(t, parent)

	replacement := NewNode("replacement")
	require.NoError(t, parent.ReplaceChild(b, replacement))
	assert.Equal(t, []string{"a", "replacement", "c"}, names(parent.Children()))
	assert.Nil(t, b.Parent())
	checkTree(t, parent)

	// Replacing with a sibling moves the sibling.
	require.NoError(t, parent.ReplaceChild(a, c))
	assert.Equal(t, []string{"c", "replacement"}, names(parent.Children()))
	checkTree(t, parent)

	assert.ErrorIs(t, parent.ReplaceChild(nil, a), ErrNilNode)
	assert.ErrorIs(t, parent.ReplaceChild(c, nil), ErrNilNode)
	assert.ErrorIs(t, parent.ReplaceChild(a, b), ErrNotChild)
	assert.ErrorIs(t, parent.ReplaceChild(c, parent), ErrSelfParent)
	assert.Equal(t, []string{"c", "replacement"}, names(parent.Children()))

}

func TestTreeInvariantUnderMixedMutations(t *testing.T) {

	root := NewNode("root")
	nodes := []*Node{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		nodes = append(nodes, NewNode(name))
	}

	require.NoError(t, root.AppendChild(nodes[0]))
	require.NoError(t, root.AppendChild(nodes[1]))
	require.NoError(t, nodes[0].AppendChild(nodes[2]))
	require.NoError(t, nodes[0].InsertBefore(nodes[3], nodes[2]))
	require.NoError(t, root.InsertBefore(nodes[4], nodes[0]))
	require.NoError(t, nodes[1].AppendChild(nodes[2]))
	require.NoError(t, root.ReplaceChild(nodes[4], nodes[5]))
	require.NoError(t, nodes[5].AppendChild(nodes[4]))
	require.NoError(t, nodes[0].RemoveChild(nodes[3]))
	assert.ErrorIs(t, nodes[2].AppendChild(root), ErrCycle)

	checkTree(t, root)
	checkTree(t, nodes[3])
	assert.Equal(t, []string{"f", "e", "a", "b", "c"}, names(root.ChildrenRecursive()))
	assert.Same(t, root, nodes[2].Root())
	assert.Same(t, nodes[3], nodes[3].Root())

}

func TestSceneTransformChain(t *testing.T) {

	a := NewNode("A")
	b := NewNode("B")
	c := NewNode("C")
	require.NoError(t, a.AppendChild(b))
	require.NoError(t, b.AppendChild(c))

	a.SetLocalTransform(NewMatrix4Translate(1, 0, 0))
	b.SetLocalTransform(NewMatrix4Translate(0, 2, 0))
	c.SetLocalTransform(NewMatrix4Translate(0, 0, 3))

	want := c.LocalTransform().Mult(b.LocalTransform()).Mult(a.LocalTransform())
	assert.True(t, c.SceneTransform().Equals(want))
	assert.Equal(t, NewVector3(1, 2, 3), c.WorldPosition())

	a.Update(1.0 / 60)

	b.SetLocalTransform(NewMatrix4Translate(0, 5, 0))
	assert.Equal(t, NewVector3(1, 5, 3), c.WorldPosition())

}

func TestSceneTransformRefreshesOnTick(t *testing.T) {

	parent := NewNode("parent")
	child := NewNode("child")
	require.NoError(t, parent.AppendChild(child))

	assert.Equal(t, Vector3{}, child.WorldPosition())

	// Local setters take effect at the next tick.
	parent.SetLocalTransform(NewMatrix4Translate(4, 0, 0))
	assert.Equal(t, Vector3{}, child.WorldPosition())

	assert.True(t, parent.Update(0))
	assert.Equal(t, NewVector3(4, 0, 0), child.WorldPosition())
	assert.False(t, parent.Update(0))

}

func TestSceneTransformAfterReparent(t *testing.T) {

	left := NewNode("left")
	right := NewNode("right")
	child := NewNode("child")

	left.SetLocalTransform(NewMatrix4Translate(-1, 0, 0))
	right.SetLocalTransform(NewMatrix4Translate(1, 0, 0))

	require.NoError(t, left.AppendChild(child))
	assert.Equal(t, NewVector3(-1, 0, 0), child.WorldPosition())

	require.NoError(t, right.AppendChild(child))
	assert.Equal(t, NewVector3(1, 0, 0), child.WorldPosition())

	require.NoError(t, right.RemoveChild(child))
	assert.Equal(t, Vector3{}, child.WorldPosition())

}

func TestNodeGetAndPath(t *testing.T) {

	room := NewNode("Room")
	desk := NewNode("Desk")
	cup := NewNode("Cup")
	require.NoError(t, room.AppendChild(desk))
	require.NoError(t, desk.AppendChild(cup))

	assert.Same(t, cup, room.Get("Desk/Cup"))
	assert.Same(t, desk, cup.Get(".."))
	assert.Same(t, room, cup.Get("../.."))
	assert.Nil(t, room.Get("Desk/Plate"))
	assert.Nil(t, room.Get("../Desk"))
	assert.Equal(t, "Desk/Cup", cup.Path())
	assert.Same(t, cup, room.Get(cup.Path()))

}

func TestNodeVisibilityAndAttachments(t *testing.T) {

	node := NewNode("node")
	assert.True(t, node.Visible())
	node.SetVisible(false)
	assert.False(t, node.Visible())

	node.AddLight(NewLight("sun", LightDirectional, NewColor(1, 1, 1, 1)))
	node.AddCamera(NewCamera("cam", 45, 0.1, 100))
	assert.Len(t, node.Lights(), 1)
	assert.Len(t, node.Cameras(), 1)
	assert.NotNil(t, node.AnimationPlayer())

	node.Properties().Set("dae.id", "node-id")
	id, ok := node.Properties().Get("dae.id").AsString()
	assert.True(t, ok)
	assert.Equal(t, "node-id", id)

}

func TestHierarchyAsString(t *testing.T) {

	root := NewNode("Root")
	cube := NewNode("Cube")
	cube.SetLocalTransform(NewMatrix4Translate(1, 2, 3))
	mesh, err := triangleBuilder().Build("tri")
	require.NoError(t, err)
	cube.AddMesh(NewMeshInstance(mesh))
	require.NoError(t, root.AppendChild(cube))

	out := root.HierarchyAsString()
	assert.Contains(t, out, "[ROOT] Root : [0.00, 0.00, 0.00]")
	assert.Contains(t, out, "[MESH] Cube : [1.00, 2.00, 3.00]")

}

func BenchmarkSceneTransform(b *testing.B) {

	b.ReportAllocs()

	root := NewNode("root")
	parent := root
	for i := 0; i < 32; i++ {
		child := NewNode("child")
		child.SetLocalTransform(NewMatrix4Translate(1, 0, 0))
		if err := parent.AppendChild(child); err != nil {
			b.Fatal(err)
		}
		parent = child
	}

	for i := 0; i < b.N; i++ {
		root.Update(0)
		parent.SceneTransform()
	}

}
