package diff

import (
	"mend/internal/tree"
)

// generator derives an edit script from a mapping (Chawathe et al. 1996).
// The working copy is mutated as actions are emitted so positions always
// refer to the current state.
type generator struct {
	dst *tree.Tree
	w   *working
	w2d []tree.NodeID // working id -> dst id
	d2w []tree.NodeID // dst id -> working id

	wInOrder []bool
	dInOrder []bool
	out      Script
}

func generate(src, dst *tree.Tree, m *Mapping) Script {
	g := &generator{
		dst:      dst,
		w:        newWorking(src),
		w2d:      make([]tree.NodeID, src.Len()+1, src.Len()+dst.Len()+1),
		d2w:      make([]tree.NodeID, dst.Len()+1),
		wInOrder: make([]bool, src.Len()+1, src.Len()+dst.Len()+1),
		dInOrder: make([]bool, dst.Len()+1),
	}
	for _, p := range m.Pairs() {
		g.w2d[p.Src] = p.Dst
		g.d2w[p.Dst] = p.Src
	}
	// супер-корни сопоставлены друг с другом (индекс 0 с обеих сторон)
	g.wInOrder[0], g.dInOrder[0] = true, true
	g.alignChildren(tree.NoNode, tree.NoNode)

	for _, x := range dst.BreadthFirst() {
		y := dst.Parent(x)
		z := g.d2w[y]
		w := g.d2w[x]
		if w == tree.NoNode {
			k := g.findPos(x)
			w = g.w.nextID()
			g.emit(Action{Op: OpInsert, Node: w, Parent: z, Position: k, Type: dst.Type(x), Label: dst.Label(x), Dst: x})
			g.w2d = append(g.w2d, x)
			g.wInOrder = append(g.wInOrder, false)
			g.d2w[x] = w
		} else {
			if g.w.nodes[w].label != dst.Label(x) {
				g.emit(Action{Op: OpUpdate, Node: w, Label: dst.Label(x), OldLabel: g.w.nodes[w].label, Dst: x})
			}
			if v := g.w.nodes[w].parent; v != z {
				g.move(w, z, g.findPos(x), x)
			}
		}
		g.wInOrder[w], g.dInOrder[x] = true, true
		g.alignChildren(w, x)
	}

	for _, w := range g.w.postOrder() {
		if g.w2d[w] == tree.NoNode {
			g.emit(Action{Op: OpDelete, Node: w})
		}
	}
	return g.out
}

func (g *generator) emit(a Action) {
	if err := g.w.apply(a); err != nil {
		// генератор строит только корректные действия
		panic(err)
	}
	g.out = append(g.out, a)
}

// move converts the pre-detach target index k into a final position.
func (g *generator) move(w, z tree.NodeID, k int, x tree.NodeID) {
	if g.w.nodes[w].parent == z {
		if i := g.w.index(w); i < k {
			k--
		}
	}
	g.emit(Action{Op: OpMove, Node: w, Parent: z, Position: k, Dst: x})
}

func (g *generator) dstChildren(x tree.NodeID) []tree.NodeID {
	if x == tree.NoNode {
		return []tree.NodeID{g.dst.Root()}
	}
	return g.dst.Children(x)
}

// alignChildren reorders the paired children of w to follow x, keeping the
// longest common subsequence in place.
func (g *generator) alignChildren(w, x tree.NodeID) {
	for _, c := range g.w.nodes[w].children {
		g.wInOrder[c] = false
	}
	dkids := g.dstChildren(x)
	for _, c := range dkids {
		g.dInOrder[c] = false
	}

	var s1, s2 []tree.NodeID
	for _, a := range g.w.nodes[w].children {
		if p := g.w2d[a]; p != tree.NoNode && g.dst.Parent(p) == x {
			s1 = append(s1, a)
		}
	}
	for _, b := range dkids {
		if p := g.d2w[b]; p != tree.NoNode && g.w.nodes[p].parent == w {
			s2 = append(s2, b)
		}
	}

	lcs := g.lcs(s1, s2)
	inLCS := make(map[tree.NodeID]bool, len(lcs))
	for _, p := range lcs {
		g.wInOrder[p.Src], g.dInOrder[p.Dst] = true, true
		inLCS[p.Src] = true
	}
	for _, b := range s2 {
		a := g.d2w[b]
		if inLCS[a] {
			continue
		}
		g.move(a, w, g.findPos(b), b)
		g.wInOrder[a], g.dInOrder[b] = true, true
	}
}

func (g *generator) lcs(s1, s2 []tree.NodeID) []Pair {
	n, m := len(s1), len(s2)
	if n == 0 || m == 0 {
		return nil
	}
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if g.w2d[s1[i]] == s2[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else {
				dp[i][j] = max(dp[i+1][j], dp[i][j+1])
			}
		}
	}
	var out []Pair
	for i, j := 0, 0; i < n && j < m; {
		switch {
		case g.w2d[s1[i]] == s2[j]:
			out = append(out, Pair{Src: s1[i], Dst: s2[j]})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return out
}

// findPos returns the index in the working parent right after the partner
// of x's rightmost in-order left sibling.
func (g *generator) findPos(x tree.NodeID) int {
	siblings := g.dstChildren(g.dst.Parent(x))
	for _, c := range siblings {
		if g.dInOrder[c] {
			if c == x {
				return 0
			}
			break
		}
	}
	v := tree.NoNode
	for _, c := range siblings {
		if c == x {
			break
		}
		if g.dInOrder[c] {
			v = c
		}
	}
	if v == tree.NoNode {
		return 0
	}
	u := g.d2w[v]
	return g.w.index(u) + 1
}
