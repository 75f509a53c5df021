package tree

import "fmt"

// Validate re-checks the structural invariants of a tree: parent/child
// consistency, a single root and full reachability.
func (t *Tree) Validate() error {
	if t == nil || t.root == NoNode || len(t.preorder) == 0 {
		return fmt.Errorf("%w: nil or unfinished tree", ErrInvalidTree)
	}
	if t.node(t.root).Parent != NoNode {
		return fmt.Errorf("%w: root has a parent", ErrInvalidTree)
	}
	seen := make([]bool, len(t.nodes)+1)
	for _, id := range t.preorder {
		if seen[id] {
			return fmt.Errorf("%w: node %d reached twice", ErrInvalidTree, id)
		}
		seen[id] = true
		for _, c := range t.nodes[id-1].Children {
			cn := t.node(c)
			if cn == nil {
				return fmt.Errorf("%w: node %d has unknown child %d", ErrInvalidTree, id, c)
			}
			if cn.Parent != id {
				return fmt.Errorf("%w: child %d of %d points to parent %d", ErrInvalidTree, c, id, cn.Parent)
			}
		}
	}
	if len(t.preorder) != len(t.nodes) {
		return fmt.Errorf("%w: unreachable nodes", ErrInvalidTree)
	}
	return nil
}

// Check is Validate for possibly nil trees, used at package boundaries.
func Check(t *Tree) error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidTree)
	}
	return t.Validate()
}
