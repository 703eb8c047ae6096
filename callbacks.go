package tetradae

// NodeCallbacks represents a set of callbacks to be called when a Node's place in a tree changes.
type NodeCallbacks struct {
	// OnReparent is called after a Node is attached to, moved to, or detached from a parent. oldParent or newParent is
	// nil when the Node had no parent or no longer has one.
	OnReparent func(node, oldParent, newParent *Node)
}

func (node *Node) reparented(oldParent, newParent *Node) {
	if oldParent != newParent && node.Callbacks.OnReparent != nil {
		node.Callbacks.OnReparent(node, oldParent, newParent)
	}
}
