package testkit

import (
	"fmt"

	"mend/internal/source"
	"mend/internal/tree"
)

// CheckTree runs a minimal set of invariants on a generated tree:
// 1) the tree is structurally valid (single root, parent/child consistency)
// 2) every span belongs to u and lies within its content
// 3) a child span is contained in its parent span (empty spans are skipped)
// 4) height and size agree with the children
func CheckTree(t *tree.Tree, u *source.Unit) error {
	if t == nil || u == nil {
		return fmt.Errorf("nil tree or unit")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	for _, id := range t.PreOrder() {
		sp := t.Span(id)
		if sp.Unit != u.ID {
			return fmt.Errorf("node %d (%s) span points to unit %d, want %d", id, t.Type(id), sp.Unit, u.ID)
		}
		if sp.End < sp.Start || sp.End > u.Len() {
			return fmt.Errorf("node %d (%s) span %v is outside unit of length %d", id, t.Type(id), sp, u.Len())
		}

		height, size := 1, 1
		for _, c := range t.Children(id) {
			cs := t.Span(c)
			if !sp.Empty() && !cs.Empty() && !sp.Contains(cs) {
				return fmt.Errorf("child %d (%s) span %v is outside parent %d (%s) span %v", c, t.Type(c), cs, id, t.Type(id), sp)
			}
			if h := t.Height(c) + 1; h > height {
				height = h
			}
			size += t.Size(c)
		}
		if t.Height(id) != height || t.Size(id) != size {
			return fmt.Errorf("node %d metrics height=%d size=%d, want %d %d", id, t.Height(id), t.Size(id), height, size)
		}
	}
	return nil
}

// CheckShape compares two trees ignoring spans and ids and explains the first difference.
func CheckShape(want, got *tree.Tree) error {
	if tree.Equal(want, got) {
		return nil
	}
	if want == nil || got == nil {
		return fmt.Errorf("tree mismatch: want %v, got %v", want, got)
	}
	return fmt.Errorf("tree mismatch:\nwant %s\ngot  %s", want.String(), got.String())
}
