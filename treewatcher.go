package tetradae

// TreeWatcher watches the hierarchy underneath a Node for nodes being added or removed. Nodes are told apart by
// their paths, so a tree reloaded from the same document counts as unchanged even though its Nodes are new.
type TreeWatcher struct {
	rootNode *Node
	known    Set[string]
	// WatchFilter, when set, narrows down which nodes are watched; if it returns true, the Node is watched.
	WatchFilter func(node *Node) bool
	// OnChange is called for every watched node path that appears in or disappears from the tree.
	OnChange func(path string, added bool)
}

// NewTreeWatcher creates a new TreeWatcher watching the tree underneath rootNode. Nodes present at the first Update
// are reported as added.
func NewTreeWatcher(rootNode *Node, onChange func(path string, added bool)) *TreeWatcher {
	return &TreeWatcher{
		rootNode: rootNode,
		known:    Set[string]{},
		OnChange: onChange,
	}
}

// Update compares the tree against the previous Update and reports the differences through OnChange, additions
// first, each in tree order. It returns the number of changes.
func (watch *TreeWatcher) Update() int {

	current := Set[string]{}
	changes := 0

	if watch.rootNode != nil {
		filter := watch.rootNode.Search()
		if watch.WatchFilter != nil {
			filter = filter.ByFunc(watch.WatchFilter)
		}
		filter.ForEach(func(node *Node) bool {
			path := node.Path()
			current.Add(path)
			if !watch.known.Contains(path) {
				changes++
				if watch.OnChange != nil {
					watch.OnChange(path, true)
				}
			}
			return true
		})
	}

	for _, path := range Sorted(watch.known) {
		if !current.Contains(path) {
			changes++
			if watch.OnChange != nil {
				watch.OnChange(path, false)
			}
		}
	}

	watch.known = current
	return changes

}

// SetRoot sets the root Node to be watched. The next Update compares the new tree against the old one.
func (watch *TreeWatcher) SetRoot(rootNode *Node) {
	watch.rootNode = rootNode
}
