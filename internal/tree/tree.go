package tree

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"mend/internal/source"
)

// Tree is an immutable ordered labelled tree. The zero value is not usable;
// trees come from Builder.Finish.
type Tree struct {
	nodes  []Node
	root   NodeID
	Source Ref

	preorder  []NodeID
	postorder []NodeID
}

// index fills pre/post order positions, depth, height, size and hash.
func (t *Tree) index() {
	n := len(t.nodes)
	t.preorder = make([]NodeID, 0, n)
	t.postorder = make([]NodeID, 0, n)

	type frame struct {
		id   NodeID
		next int
	}
	stack := []frame{{id: t.root}}
	t.nodes[t.root-1].depth = 0
	t.nodes[t.root-1].pre = 0
	t.preorder = append(t.preorder, t.root)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		nd := &t.nodes[top.id-1]
		if top.next < len(nd.Children) {
			c := nd.Children[top.next]
			top.next++
			cn := &t.nodes[c-1]
			cn.depth = nd.depth + 1
			cn.pre = len(t.preorder)
			t.preorder = append(t.preorder, c)
			stack = append(stack, frame{id: c})
			continue
		}
		// все дети обработаны
		nd.height, nd.size = 1, 1
		h := xxhash.New()
		_, _ = h.WriteString(nd.Type)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(nd.Label)
		var buf [8]byte
		for _, c := range nd.Children {
			cn := &t.nodes[c-1]
			if cn.height+1 > nd.height {
				nd.height = cn.height + 1
			}
			nd.size += cn.size
			binary.LittleEndian.PutUint64(buf[:], cn.hash)
			_, _ = h.Write(buf[:])
		}
		nd.hash = h.Sum64()
		nd.post = len(t.postorder)
		t.postorder = append(t.postorder, top.id)
		stack = stack[:len(stack)-1]
	}
}

func (t *Tree) node(id NodeID) *Node {
	if id == NoNode || int(id) > len(t.nodes) {
		return nil
	}
	return &t.nodes[id-1]
}

// Root returns the root id.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Has reports whether id belongs to this tree.
func (t *Tree) Has(id NodeID) bool { return t.node(id) != nil }

// Node returns a copy of the node; the Children slice must not be modified.
func (t *Tree) Node(id NodeID) (Node, bool) {
	nd := t.node(id)
	if nd == nil {
		return Node{}, false
	}
	return *nd, true
}

func (t *Tree) Type(id NodeID) string {
	if nd := t.node(id); nd != nil {
		return nd.Type
	}
	return ""
}

func (t *Tree) Label(id NodeID) string {
	if nd := t.node(id); nd != nil {
		return nd.Label
	}
	return ""
}

func (t *Tree) Span(id NodeID) source.Span {
	if nd := t.node(id); nd != nil {
		return nd.Span
	}
	return source.Span{}
}

func (t *Tree) Parent(id NodeID) NodeID {
	if nd := t.node(id); nd != nil {
		return nd.Parent
	}
	return NoNode
}

// Children returns the ordered children; the result must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	if nd := t.node(id); nd != nil {
		return nd.Children
	}
	return nil
}

func (t *Tree) IsLeaf(id NodeID) bool { return len(t.Children(id)) == 0 }

// Height is 1 for leaves.
func (t *Tree) Height(id NodeID) int {
	if nd := t.node(id); nd != nil {
		return nd.height
	}
	return 0
}

// Size counts the node and all its descendants.
func (t *Tree) Size(id NodeID) int {
	if nd := t.node(id); nd != nil {
		return nd.size
	}
	return 0
}

// Depth is 0 for the root.
func (t *Tree) Depth(id NodeID) int {
	if nd := t.node(id); nd != nil {
		return nd.depth
	}
	return 0
}

// Hash is a structural hash over type, label and ordered child hashes.
func (t *Tree) Hash(id NodeID) uint64 {
	if nd := t.node(id); nd != nil {
		return nd.hash
	}
	return 0
}

// PreIndex returns the position of id in PreOrder, -1 if unknown.
func (t *Tree) PreIndex(id NodeID) int {
	if nd := t.node(id); nd != nil {
		return nd.pre
	}
	return -1
}

// PostIndex returns the position of id in PostOrder, -1 if unknown.
func (t *Tree) PostIndex(id NodeID) int {
	if nd := t.node(id); nd != nil {
		return nd.post
	}
	return -1
}

// ChildIndex returns the position of id among its siblings, -1 for the root.
func (t *Tree) ChildIndex(id NodeID) int {
	p := t.Parent(id)
	if p == NoNode {
		return -1
	}
	for i, c := range t.nodes[p-1].Children {
		if c == id {
			return i
		}
	}
	return -1
}
