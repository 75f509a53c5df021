package diff

import (
	"sort"

	"mend/internal/tree"
)

type matcher struct {
	src, dst *tree.Tree
	opts     Options
	m        *Mapping
}

// Match computes the node mapping between src and dst.
func Match(src, dst *tree.Tree, opts Options) (*Mapping, error) {
	if err := checkTrees(src, dst); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	mt := &matcher{src: src, dst: dst, opts: opts, m: newMapping(src, dst)}
	if src.Isomorphic(src.Root(), dst, dst.Root()) {
		mt.m.addSubtree(src.Root(), dst.Root())
		return mt.m, nil
	}
	mt.topDown()
	mt.bottomUp()
	return mt.m, nil
}

func checkTrees(src, dst *tree.Tree) error {
	if err := tree.Check(src); err != nil {
		return err
	}
	return tree.Check(dst)
}

// heightList — очередь корней поддеревьев, сгруппированных по высоте.
type heightList struct {
	t       *tree.Tree
	buckets [][]tree.NodeID
	max     int
}

func newHeightList(t *tree.Tree) *heightList {
	l := &heightList{t: t, buckets: make([][]tree.NodeID, t.Height(t.Root())+1)}
	l.push(t.Root())
	return l
}

func (l *heightList) push(id tree.NodeID) {
	h := l.t.Height(id)
	l.buckets[h] = append(l.buckets[h], id)
	if h > l.max {
		l.max = h
	}
}

func (l *heightList) peekMax() int {
	for l.max > 0 && len(l.buckets[l.max]) == 0 {
		l.max--
	}
	return l.max
}

func (l *heightList) pop() []tree.NodeID {
	h := l.peekMax()
	out := l.buckets[h]
	l.buckets[h] = nil
	return out
}

func (l *heightList) open(id tree.NodeID) {
	for _, c := range l.t.Children(id) {
		l.push(c)
	}
}

// topDown pairs the greatest isomorphic subtrees of height ≥ MinHeight.
func (mt *matcher) topDown() {
	ls, ld := newHeightList(mt.src), newHeightList(mt.dst)
	var ambiguous []Pair

	for {
		hs, hd := ls.peekMax(), ld.peekMax()
		if min(hs, hd) < mt.opts.MinHeight {
			break
		}
		if hs != hd {
			if hs > hd {
				for _, s := range ls.pop() {
					ls.open(s)
				}
			} else {
				for _, d := range ld.pop() {
					ld.open(d)
				}
			}
			continue
		}

		h1, h2 := ls.pop(), ld.pop()
		matchedS := make(map[tree.NodeID]bool)
		matchedD := make(map[tree.NodeID]bool)
		for _, s := range h1 {
			for _, d := range h2 {
				if mt.src.Type(s) != mt.dst.Type(d) || !mt.src.Isomorphic(s, mt.dst, d) {
					continue
				}
				if mt.isoElsewhere(s, d, h1, h2) {
					ambiguous = append(ambiguous, Pair{Src: s, Dst: d})
				} else {
					mt.m.addSubtree(s, d)
				}
				matchedS[s], matchedD[d] = true, true
			}
		}
		for _, s := range h1 {
			if !matchedS[s] {
				ls.open(s)
			}
		}
		for _, d := range h2 {
			if !matchedD[d] {
				ld.open(d)
			}
		}
	}
	mt.resolveAmbiguous(ambiguous)
}

// isoElsewhere — есть ли другой изоморфный кандидат у s или d.
func (mt *matcher) isoElsewhere(s, d tree.NodeID, h1, h2 []tree.NodeID) bool {
	for _, o := range h2 {
		if o != d && mt.src.Isomorphic(s, mt.dst, o) {
			return true
		}
	}
	for _, o := range h1 {
		if o != s && mt.src.Isomorphic(o, mt.dst, d) {
			return true
		}
	}
	return false
}

// resolveAmbiguous maps candidates by parent similarity, then by pre-order distance.
func (mt *matcher) resolveAmbiguous(cands []Pair) {
	if len(cands) == 0 {
		return
	}
	type scored struct {
		Pair
		dice float64
		dist int
	}
	ss := make([]scored, len(cands))
	for i, c := range cands {
		ss[i] = scored{
			Pair: c,
			dice: mt.dice(mt.src.Parent(c.Src), mt.dst.Parent(c.Dst)),
			dist: abs(mt.src.PreIndex(c.Src) - mt.dst.PreIndex(c.Dst)),
		}
	}
	sort.SliceStable(ss, func(i, j int) bool {
		if ss[i].dice != ss[j].dice {
			return ss[i].dice > ss[j].dice
		}
		if ss[i].dist != ss[j].dist {
			return ss[i].dist < ss[j].dist
		}
		if a, b := mt.src.PreIndex(ss[i].Src), mt.src.PreIndex(ss[j].Src); a != b {
			return a < b
		}
		return mt.dst.PreIndex(ss[i].Dst) < mt.dst.PreIndex(ss[j].Dst)
	})
	for _, c := range ss {
		if mt.m.unmappedSrcSubtree(c.Src) && mt.m.unmappedDstSubtree(c.Dst) {
			mt.m.addSubtree(c.Src, c.Dst)
		}
	}
}

// bottomUp pairs inner nodes whose descendants are already largely paired.
func (mt *matcher) bottomUp() {
	srcRoot, dstRoot := mt.src.Root(), mt.dst.Root()
	for _, s := range mt.src.PostOrder() {
		if s == srcRoot {
			if !mt.m.HasSrc(s) && !mt.m.HasDst(dstRoot) && mt.src.Type(s) == mt.dst.Type(dstRoot) {
				mt.m.add(s, dstRoot)
				mt.recover(s, dstRoot)
			}
			break
		}
		if mt.m.HasSrc(s) || mt.src.IsLeaf(s) {
			continue
		}
		cands := mt.candidates(s)
		best, bestSim := tree.NoNode, 0.0
		for _, d := range cands {
			sim := mt.dice(s, d)
			if sim < mt.opts.SimThreshold {
				continue
			}
			if best == tree.NoNode || sim > bestSim ||
				(sim == bestSim && mt.closer(s, d, best)) {
				best, bestSim = d, sim
			}
		}
		if best != tree.NoNode {
			mt.m.add(s, best)
			mt.recover(s, best)
		}
	}
}

// closer — d ближе к s по pre-order, чем cur; при равенстве раньше в dst.
func (mt *matcher) closer(s, d, cur tree.NodeID) bool {
	ps := mt.src.PreIndex(s)
	a, b := abs(ps-mt.dst.PreIndex(d)), abs(ps-mt.dst.PreIndex(cur))
	if a != b {
		return a < b
	}
	return mt.dst.PreIndex(d) < mt.dst.PreIndex(cur)
}

// candidates — unmapped dst nodes of the same type that are ancestors of
// partners of s's descendants. The result is in dst pre-order.
func (mt *matcher) candidates(s tree.NodeID) []tree.NodeID {
	typ := mt.src.Type(s)
	seen := make(map[tree.NodeID]bool)
	var out []tree.NodeID
	for _, x := range mt.src.Descendants(s) {
		p := mt.m.s2d[x]
		if p == tree.NoNode {
			continue
		}
		for _, a := range mt.dst.Ancestors(p) {
			if seen[a] {
				// выше уже просмотрено
				break
			}
			seen[a] = true
			if !mt.m.HasDst(a) && mt.dst.Type(a) == typ {
				out = append(out, a)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return mt.dst.PreIndex(out[i]) < mt.dst.PreIndex(out[j]) })
	return out
}
