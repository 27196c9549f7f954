package timeline

import "strconv"

// Node is a tree entry stored in the Tree arena. Parent is -1 for roots.
type Node struct {
	Descriptor
	Parent   int
	Children []int
}

// Tree is an index-based arena: nodes reference each other by position in
// Nodes, so building never splices slices.
type Tree struct {
	Nodes []Node
	Roots []int
}

type stackEntry struct {
	depth int
	node  int
}

// BuildTree reconstructs the hierarchy of a flat line sequence. Each line
// becomes a child of the nearest preceding line with a smaller depth. A line
// with no such predecessor, including a first line deeper than 0, becomes an
// additional root.
func BuildTree(lines []Descriptor) Tree {
	t := Tree{Nodes: make([]Node, 0, len(lines))}
	stack := make([]stackEntry, 0, 8)

	for _, d := range lines {
		for len(stack) > 0 && stack[len(stack)-1].depth >= d.Depth {
			stack = stack[:len(stack)-1]
		}
		idx := len(t.Nodes)
		parent := -1
		if len(stack) > 0 {
			parent = stack[len(stack)-1].node
			t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
		} else {
			t.Roots = append(t.Roots, idx)
		}
		t.Nodes = append(t.Nodes, Node{Descriptor: d, Parent: parent})
		stack = append(stack, stackEntry{depth: d.Depth, node: idx})
	}
	return t
}

// FindSectionBaseDepth is the smallest depth among the given roots, used to
// re-baseline indentation when a section is rendered on its own.
func (t Tree) FindSectionBaseDepth(roots []int) int {
	if len(roots) == 0 {
		return 0
	}
	base := t.Nodes[roots[0]].Depth
	for _, r := range roots[1:] {
		if d := t.Nodes[r].Depth; d < base {
			base = d
		}
	}
	return base
}

// Item is a flattened tree entry ready for rendering.
type Item struct {
	Node   int
	Indent int
	Key    string
	Descriptor
}

// CollectItems walks the given roots in pre-order. Indent is the node's
// depth relative to baseDepth (never negative); Key is the node's path, e.g.
// "0.1.2".
func (t Tree) CollectItems(roots []int, baseDepth int) []Item {
	items := make([]Item, 0, len(t.Nodes))
	var walk func(idx int, key string)
	walk = func(idx int, key string) {
		n := t.Nodes[idx]
		items = append(items, Item{
			Node:       idx,
			Indent:     max(n.Depth-baseDepth, 0),
			Key:        key,
			Descriptor: n.Descriptor,
		})
		for i, child := range n.Children {
			walk(child, key+"."+strconv.Itoa(i))
		}
	}
	for i, r := range roots {
		walk(r, strconv.Itoa(i))
	}
	return items
}

// Items flattens the whole tree against its own base depth.
func (t Tree) Items() []Item {
	return t.CollectItems(t.Roots, t.FindSectionBaseDepth(t.Roots))
}
