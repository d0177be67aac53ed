package shape

// Traverse calls visit for every leaf of tree, children in up-left,
// up-right, down-left, down-right order. Quads are never passed to visit.
func Traverse(tree Node, visit func(*Leaf)) {
	switch n := tree.(type) {
	case *Leaf:
		visit(n)
	case *Quad:
		for _, child := range n.Children {
			Traverse(child, visit)
		}
	}
}

// Free releases the tree held by *tree children first and leaves *tree nil.
// The tree must not be used afterwards.
func Free(tree *Node) {
	if tree == nil || *tree == nil {
		return
	}
	if q, ok := (*tree).(*Quad); ok {
		for i := range q.Children {
			Free(&q.Children[i])
		}
	}
	*tree = nil
}

// Leaves returns the leaves of tree in traversal order.
func Leaves(tree Node) []*Leaf {
	var out []*Leaf
	Traverse(tree, func(l *Leaf) {
		out = append(out, l)
	})
	return out
}

// OpaqueRects returns the non-empty opaque leaf rects in traversal order.
func OpaqueRects(tree Node) []Rect {
	var out []Rect
	Traverse(tree, func(l *Leaf) {
		if l.Class == Opaque && !l.Rect.Empty() {
			out = append(out, l.Rect)
		}
	})
	return out
}

// TreeStats summarises a tree.
type TreeStats struct {
	Leaves      int `json:"leaves"`
	Quads       int `json:"quads"`
	Depth       int `json:"depth"`
	OpaqueArea  int `json:"opaque_area"`
	OpaqueRects int `json:"opaque_rects"`
}

// Stats walks tree and counts its nodes.
func Stats(tree Node) TreeStats {
	var st TreeStats
	var walk func(n Node, depth int)
	walk = func(n Node, depth int) {
		if depth > st.Depth {
			st.Depth = depth
		}
		switch n := n.(type) {
		case *Leaf:
			st.Leaves++
			if n.Class == Opaque && !n.Rect.Empty() {
				st.OpaqueArea += n.Rect.Area()
				st.OpaqueRects++
			}
		case *Quad:
			st.Quads++
			for _, child := range n.Children {
				walk(child, depth+1)
			}
		}
	}
	if tree != nil {
		walk(tree, 0)
	}
	return st
}
