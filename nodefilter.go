package tetradae

import (
	"regexp"
	"sort"
)

// NodeKind is a bitmask of what a Node carries.
type NodeKind int

const (
	NodeKindMesh NodeKind = 1 << iota
	NodeKindLight
	NodeKindCamera
)

// Kind returns what the Node carries; an empty Node returns 0.
func (node *Node) Kind() NodeKind {
	var kind NodeKind
	if len(node.meshes) > 0 {
		kind |= NodeKindMesh
	}
	if len(node.lights) > 0 {
		kind |= NodeKindLight
	}
	if len(node.cameras) > 0 {
		kind |= NodeKindCamera
	}
	return kind
}

// NodeFilter represents a chain of filters, run in sequence over a Node's hierarchy to collect the desired nodes.
// The starting Node itself is never part of the results. Filters are added by value, so a NodeFilter can be
// branched:
//
//	lamps := scene.Root.Search().ByKind(NodeKindLight)
//	red := lamps.ByName("Red")
type NodeFilter struct {
	Filters  []func(*Node) bool // The filters currently active on the NodeFilter.
	Start    *Node              // The start (root) of the filter.
	MaxDepth int                // How deep to search below Start; less than zero searches the entire tree.

	stopOnFiltered bool
	sortTo         *Vector3
}

// Search returns a NodeFilter over the Node's descendants.
func (node *Node) Search() NodeFilter {
	return NodeFilter{Start: node, MaxDepth: -1}
}

func (nf NodeFilter) with(filter func(*Node) bool) NodeFilter {
	filters := make([]func(*Node) bool, len(nf.Filters), len(nf.Filters)+1)
	copy(filters, nf.Filters)
	nf.Filters = append(filters, filter)
	return nf
}

// ByFunc filters the nodes by a custom function.
func (nf NodeFilter) ByFunc(filterFunc func(node *Node) bool) NodeFilter {
	return nf.with(filterFunc)
}

// ByName keeps the nodes whose names are equal to name.
func (nf NodeFilter) ByName(name string) NodeFilter {
	return nf.with(func(node *Node) bool { return node.name == name })
}

// ByRegex keeps the nodes whose names match the regular expression. An invalid expression matches nothing.
func (nf NodeFilter) ByRegex(expr string) NodeFilter {
	re, err := regexp.Compile(expr)
	if err != nil {
		Logger().Warn("invalid node filter expression", "expr", expr, "err", err)
		return nf.with(func(*Node) bool { return false })
	}
	return nf.with(func(node *Node) bool { return re.MatchString(node.name) })
}

// ByProps keeps the nodes that have properties by all of the given names.
func (nf NodeFilter) ByProps(propNames ...string) NodeFilter {
	return nf.with(func(node *Node) bool { return node.props.Has(propNames...) })
}

// ByProp keeps the nodes having a property by the given name, set to the given value.
func (nf NodeFilter) ByProp(propName string, value any) NodeFilter {
	return nf.with(func(node *Node) bool {
		return node.props.Has(propName) && node.props.Get(propName).Value == value
	})
}

// ByKind keeps the nodes that carry everything in kind.
func (nf NodeFilter) ByKind(kind NodeKind) NodeFilter {
	return nf.with(func(node *Node) bool { return node.Kind()&kind == kind })
}

// Visible keeps the nodes that are visible themselves; a parent being hidden doesn't count.
func (nf NodeFilter) Visible() NodeFilter {
	return nf.with(func(node *Node) bool { return node.visible })
}

// StopOnFiltered makes the search skip the children of nodes that didn't pass the filters.
func (nf NodeFilter) StopOnFiltered() NodeFilter {
	nf.stopOnFiltered = true
	return nf
}

// SetMaxDepth sets the maximum search depth; 0 searches only Start's direct children.
func (nf NodeFilter) SetMaxDepth(depth int) NodeFilter {
	nf.MaxDepth = depth
	return nf
}

// SortByDistance sorts the results of Nodes by their world distance to the given point, nearest first.
func (nf NodeFilter) SortByDistance(to Vector3) NodeFilter {
	nf.sortTo = &to
	return nf
}

func (nf NodeFilter) passes(node *Node) bool {
	for _, filter := range nf.Filters {
		if !filter(node) {
			return false
		}
	}
	return true
}

// walk runs each on the nodes passing the filters, depth first, stopping once it returns false.
func (nf NodeFilter) walk(node *Node, depth int, each func(*Node) bool) bool {

	if nf.MaxDepth >= 0 && depth > nf.MaxDepth {
		return true
	}

	for child := node.firstChild; child != nil; child = child.nextSibling {

		passed := nf.passes(child)
		if passed && !each(child) {
			return false
		}

		if !nf.stopOnFiltered || passed {
			if !nf.walk(child, depth+1, each) {
				return false
			}
		}

	}

	return true

}

// ForEach runs the callback on each Node passing the filters. Returning false from the callback stops the search.
// ForEach doesn't sort.
func (nf NodeFilter) ForEach(callback func(node *Node) bool) {
	if nf.Start == nil {
		return
	}
	nf.walk(nf.Start, 0, callback)
}

// Nodes returns the Nodes passing the filters.
func (nf NodeFilter) Nodes() []*Node {

	out := []*Node{}
	nf.ForEach(func(node *Node) bool {
		out = append(out, node)
		return true
	})

	if nf.sortTo != nil {
		to := *nf.sortTo
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].WorldPosition().Sub(to).Magnitude() < out[j].WorldPosition().Sub(to).Magnitude()
		})
	}

	return out

}

// First returns the first Node passing the filters, or nil. With a distance sort set, that's the nearest one.
func (nf NodeFilter) First() *Node {

	if nf.sortTo != nil {
		if nodes := nf.Nodes(); len(nodes) > 0 {
			return nodes[0]
		}
		return nil
	}

	var result *Node
	nf.ForEach(func(node *Node) bool {
		result = node
		return false
	})
	return result

}

// Count returns the number of Nodes passing the filters.
func (nf NodeFilter) Count() int {
	count := 0
	nf.ForEach(func(*Node) bool { count++; return true })
	return count
}

// IsEmpty returns true if no Node passes the filters.
func (nf NodeFilter) IsEmpty() bool {
	return nf.First() == nil
}

// Lights returns the lights carried by the Nodes passing the filters.
func (nf NodeFilter) Lights() []*Light {
	lights := []*Light{}
	nf.ForEach(func(node *Node) bool {
		lights = append(lights, node.lights...)
		return true
	})
	return lights
}

// Meshes returns the mesh instances carried by the Nodes passing the filters.
func (nf NodeFilter) Meshes() []*MeshInstance {
	meshes := []*MeshInstance{}
	nf.ForEach(func(node *Node) bool {
		meshes = append(meshes, node.meshes...)
		return true
	})
	return meshes
}
