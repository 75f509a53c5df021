package diff

import (
	"fmt"
	"slices"

	"mend/internal/source"
	"mend/internal/tree"
)

// wnode — узел изменяемой рабочей копии; индекс 0 — супер-корень.
type wnode struct {
	typ      string
	label    string
	span     source.Span
	parent   tree.NodeID
	children []tree.NodeID
	alive    bool
}

// working is a mutable copy of a tree that edit actions are replayed on.
type working struct {
	nodes []wnode
}

func newWorking(t *tree.Tree) *working {
	w := &working{nodes: make([]wnode, t.Len()+1)}
	w.nodes[0] = wnode{alive: true, children: []tree.NodeID{t.Root()}}
	for _, id := range t.PreOrder() {
		kids := t.Children(id)
		w.nodes[id] = wnode{
			typ:      t.Type(id),
			label:    t.Label(id),
			span:     t.Span(id),
			parent:   t.Parent(id),
			children: slices.Clone(kids),
			alive:    true,
		}
	}
	return w
}

func (w *working) valid(id tree.NodeID) bool {
	return int(id) < len(w.nodes) && w.nodes[id].alive
}

func (w *working) nextID() tree.NodeID { return tree.NodeID(len(w.nodes)) }

func (w *working) index(id tree.NodeID) int {
	return slices.Index(w.nodes[w.nodes[id].parent].children, id)
}

// isAncestorOrSelf walks parents from d up to the super-root.
func (w *working) isAncestorOrSelf(a, d tree.NodeID) bool {
	for cur := d; ; cur = w.nodes[cur].parent {
		if cur == a {
			return true
		}
		if cur == tree.NoNode {
			return false
		}
	}
}

func (w *working) detach(id tree.NodeID) {
	p := &w.nodes[w.nodes[id].parent]
	if i := slices.Index(p.children, id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
}

func (w *working) attach(id, parent tree.NodeID, pos int) {
	p := &w.nodes[parent]
	p.children = slices.Insert(p.children, pos, id)
	w.nodes[id].parent = parent
}

// apply validates and performs one action.
func (w *working) apply(a Action) error {
	switch a.Op {
	case OpInsert:
		if a.Node != w.nextID() {
			return fmt.Errorf("%w: insert allocates #%d, want #%d", ErrInvalidScript, a.Node, w.nextID())
		}
		if !w.valid(a.Parent) {
			return fmt.Errorf("%w: insert into unknown parent #%d", ErrInvalidScript, a.Parent)
		}
		if a.Position < 0 || a.Position > len(w.nodes[a.Parent].children) {
			return fmt.Errorf("%w: insert position %d out of range", ErrInvalidScript, a.Position)
		}
		w.nodes = append(w.nodes, wnode{typ: a.Type, label: a.Label, alive: true})
		w.attach(a.Node, a.Parent, a.Position)
	case OpDelete:
		if a.Node == tree.NoNode || !w.valid(a.Node) {
			return fmt.Errorf("%w: delete of unknown node #%d", ErrInvalidScript, a.Node)
		}
		if len(w.nodes[a.Node].children) > 0 {
			return fmt.Errorf("%w: delete of non-leaf #%d", ErrInvalidScript, a.Node)
		}
		w.detach(a.Node)
		w.nodes[a.Node].alive = false
	case OpUpdate:
		if a.Node == tree.NoNode || !w.valid(a.Node) {
			return fmt.Errorf("%w: update of unknown node #%d", ErrInvalidScript, a.Node)
		}
		w.nodes[a.Node].label = a.Label
	case OpMove:
		if a.Node == tree.NoNode || !w.valid(a.Node) || !w.valid(a.Parent) {
			return fmt.Errorf("%w: move #%d into #%d references unknown node", ErrInvalidScript, a.Node, a.Parent)
		}
		if w.isAncestorOrSelf(a.Node, a.Parent) {
			return fmt.Errorf("%w: move #%d into its own subtree", ErrInvalidScript, a.Node)
		}
		w.detach(a.Node)
		if a.Position < 0 || a.Position > len(w.nodes[a.Parent].children) {
			return fmt.Errorf("%w: move position %d out of range", ErrInvalidScript, a.Position)
		}
		w.attach(a.Node, a.Parent, a.Position)
	default:
		return fmt.Errorf("%w: unknown op %d", ErrInvalidScript, a.Op)
	}
	return nil
}

// postOrder lists live nodes below the super-root, children first.
func (w *working) postOrder() []tree.NodeID {
	var out []tree.NodeID
	var visit func(id tree.NodeID)
	visit = func(id tree.NodeID) {
		for _, c := range w.nodes[id].children {
			visit(c)
		}
		if id != tree.NoNode {
			out = append(out, id)
		}
	}
	visit(tree.NoNode)
	return out
}

// build converts the working copy back into an immutable Tree.
func (w *working) build() (*tree.Tree, error) {
	roots := w.nodes[0].children
	if len(roots) != 1 {
		return nil, fmt.Errorf("%w: script leaves %d roots", ErrInvalidScript, len(roots))
	}
	b := tree.NewBuilder(uint(len(w.nodes)))
	ids := make(map[tree.NodeID]tree.NodeID, len(w.nodes))
	for _, id := range w.postOrder() {
		n := w.nodes[id]
		kids := make([]tree.NodeID, len(n.children))
		for i, c := range n.children {
			kids[i] = ids[c]
		}
		ids[id] = b.Add(n.typ, n.label, n.span, kids...)
	}
	return b.Finish(ids[roots[0]])
}
