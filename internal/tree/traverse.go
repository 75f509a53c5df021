package tree

// PreOrder returns all ids in pre-order; the result must not be modified.
func (t *Tree) PreOrder() []NodeID { return t.preorder }

// PostOrder returns all ids in post-order; the result must not be modified.
func (t *Tree) PostOrder() []NodeID { return t.postorder }

// BreadthFirst returns all ids level by level, left to right.
func (t *Tree) BreadthFirst() []NodeID {
	out := make([]NodeID, 0, len(t.nodes))
	out = append(out, t.root)
	for i := 0; i < len(out); i++ {
		out = append(out, t.nodes[out[i]-1].Children...)
	}
	return out
}

// Descendants returns the proper descendants of id in pre-order.
// Subtrees occupy a contiguous range of PreOrder.
func (t *Tree) Descendants(id NodeID) []NodeID {
	nd := t.node(id)
	if nd == nil {
		return nil
	}
	return t.preorder[nd.pre+1 : nd.pre+nd.size]
}

// Subtree returns id followed by its descendants in pre-order.
func (t *Tree) Subtree(id NodeID) []NodeID {
	nd := t.node(id)
	if nd == nil {
		return nil
	}
	return t.preorder[nd.pre : nd.pre+nd.size]
}

// IsAncestor reports whether a is a proper ancestor of d.
func (t *Tree) IsAncestor(a, d NodeID) bool {
	an, dn := t.node(a), t.node(d)
	if an == nil || dn == nil || a == d {
		return false
	}
	return dn.pre > an.pre && dn.pre < an.pre+an.size
}

// Ancestors returns the chain from id's parent up to the root.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

// Walk visits the subtree of id in pre-order; returning false skips a node's children.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if t.node(id) == nil {
		return
	}
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		kids := t.nodes[cur-1].Children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
}
