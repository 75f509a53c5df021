package tree

// Isomorphic reports whether the subtree a of t and the subtree b of other
// have identical types, labels and ordered shape.
func (t *Tree) Isomorphic(a NodeID, other *Tree, b NodeID) bool {
	if other == nil {
		return false
	}
	an, bn := t.node(a), other.node(b)
	if an == nil || bn == nil {
		return false
	}
	if an.hash != bn.hash || an.size != bn.size || an.height != bn.height {
		return false
	}
	// хэш может совпасть случайно — сверяем поэлементно
	sa, sb := t.Subtree(a), other.Subtree(b)
	for i := range sa {
		x, y := t.node(sa[i]), other.node(sb[i])
		if x.Type != y.Type || x.Label != y.Label || len(x.Children) != len(y.Children) {
			return false
		}
	}
	return true
}

// Equal is structural equality of whole trees. Spans and ids are ignored.
func Equal(a, b *Tree) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() {
		return false
	}
	return a.Isomorphic(a.root, b, b.root)
}
