package diff

import (
	"sort"

	"mend/internal/tree"
)

// Pair is one mapped (source, destination) node pair.
type Pair struct {
	Src tree.NodeID
	Dst tree.NodeID
}

// Mapping is a one-to-one partial map between the nodes of two trees.
// Only nodes of equal type are ever paired.
type Mapping struct {
	src, dst *tree.Tree
	s2d      []tree.NodeID
	d2s      []tree.NodeID
	n        int
}

func newMapping(src, dst *tree.Tree) *Mapping {
	return &Mapping{
		src: src,
		dst: dst,
		s2d: make([]tree.NodeID, src.Len()+1),
		d2s: make([]tree.NodeID, dst.Len()+1),
	}
}

func (m *Mapping) add(s, d tree.NodeID) {
	m.s2d[s] = d
	m.d2s[d] = s
	m.n++
}

// addSubtree pairs isomorphic subtrees node by node in pre-order.
func (m *Mapping) addSubtree(s, d tree.NodeID) {
	ss, ds := m.src.Subtree(s), m.dst.Subtree(d)
	for i := range ss {
		if m.s2d[ss[i]] == tree.NoNode && m.d2s[ds[i]] == tree.NoNode {
			m.add(ss[i], ds[i])
		}
	}
}

// Dst returns the partner of a source node, NoNode if unmapped.
func (m *Mapping) Dst(s tree.NodeID) tree.NodeID {
	if int(s) >= len(m.s2d) {
		return tree.NoNode
	}
	return m.s2d[s]
}

// Src returns the partner of a destination node, NoNode if unmapped.
func (m *Mapping) Src(d tree.NodeID) tree.NodeID {
	if int(d) >= len(m.d2s) {
		return tree.NoNode
	}
	return m.d2s[d]
}

func (m *Mapping) HasSrc(s tree.NodeID) bool { return m.Dst(s) != tree.NoNode }
func (m *Mapping) HasDst(d tree.NodeID) bool { return m.Src(d) != tree.NoNode }

// Len returns the number of pairs.
func (m *Mapping) Len() int { return m.n }

// Pairs lists the pairs in source pre-order.
func (m *Mapping) Pairs() []Pair {
	out := make([]Pair, 0, m.n)
	for _, s := range m.src.PreOrder() {
		if d := m.s2d[s]; d != tree.NoNode {
			out = append(out, Pair{Src: s, Dst: d})
		}
	}
	return out
}

// unmappedSubtree reports whether no node of the source subtree is mapped.
func (m *Mapping) unmappedSrcSubtree(s tree.NodeID) bool {
	for _, id := range m.src.Subtree(s) {
		if m.s2d[id] != tree.NoNode {
			return false
		}
	}
	return true
}

func (m *Mapping) unmappedDstSubtree(d tree.NodeID) bool {
	for _, id := range m.dst.Subtree(d) {
		if m.d2s[id] != tree.NoNode {
			return false
		}
	}
	return true
}

// sortPairs orders candidate pairs deterministically by source then destination pre-order.
func sortPairs(src, dst *tree.Tree, ps []Pair) {
	sort.SliceStable(ps, func(i, j int) bool {
		si, sj := src.PreIndex(ps[i].Src), src.PreIndex(ps[j].Src)
		if si != sj {
			return si < sj
		}
		return dst.PreIndex(ps[i].Dst) < dst.PreIndex(ps[j].Dst)
	})
}
