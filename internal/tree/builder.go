package tree

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"mend/internal/source"
)

// Builder assembles a Tree bottom-up: children are added before their parent.
// A Builder is single-use; Finish seals it.
type Builder struct {
	nodes    []Node // nodes[id-1]
	source   Ref
	err      error
	finished bool
}

func NewBuilder(capHint uint) *Builder {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Builder{nodes: make([]Node, 0, capHint)}
}

func (b *Builder) node(id NodeID) *Node {
	if id == NoNode || int(id) > len(b.nodes) {
		return nil
	}
	return &b.nodes[id-1]
}

// SetSource records the unit the tree is built from.
func (b *Builder) SetSource(ref Ref) { b.source = ref }

// Add appends a node adopting the given children in order.
// Structural mistakes (unknown child, child with two parents) are recorded
// and reported by Finish.
func (b *Builder) Add(typ, label string, span source.Span, children ...NodeID) NodeID {
	if b.finished {
		panic("tree: Add after Finish")
	}
	n, err := safecast.Conv[uint32](len(b.nodes) + 1)
	if err != nil {
		panic(fmt.Errorf("tree: too many nodes: %w", err))
	}
	id := NodeID(n)
	b.nodes = append(b.nodes, Node{Type: typ, Label: label, Span: span})
	if len(children) > 0 {
		kids := slices.Clone(children)
		b.node(id).Children = kids
		for _, c := range kids {
			cn := b.node(c)
			switch {
			case cn == nil || c >= id:
				b.fail(fmt.Errorf("%w: node %d references unknown child %d", ErrInvalidTree, id, c))
			case cn.Parent != NoNode:
				b.fail(fmt.Errorf("%w: node %d has two parents (%d, %d)", ErrInvalidTree, c, cn.Parent, id))
			default:
				cn.Parent = id
			}
		}
	}
	return id
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Type returns the type of an already added node.
func (b *Builder) Type(id NodeID) string {
	if nd := b.node(id); nd != nil {
		return nd.Type
	}
	return ""
}

// Len returns the number of nodes added so far.
func (b *Builder) Len() int { return len(b.nodes) }

// Finish seals the builder and computes derived metrics. Every node must be
// reachable from root.
func (b *Builder) Finish(root NodeID) (*Tree, error) {
	if b.finished {
		return nil, fmt.Errorf("%w: builder already finished", ErrInvalidTree)
	}
	b.finished = true
	if b.err != nil {
		return nil, b.err
	}
	rn := b.node(root)
	if rn == nil {
		return nil, fmt.Errorf("%w: unknown root %d", ErrInvalidTree, root)
	}
	if rn.Parent != NoNode {
		return nil, fmt.Errorf("%w: root %d has parent %d", ErrInvalidTree, root, rn.Parent)
	}
	t := &Tree{
		nodes:  b.nodes,
		root:   root,
		Source: b.source,
	}
	t.index()
	if len(t.preorder) != len(t.nodes) {
		return nil, fmt.Errorf("%w: %d of %d nodes unreachable from root", ErrInvalidTree, len(t.nodes)-len(t.preorder), len(t.nodes))
	}
	return t, nil
}
