package diff

import (
	"sort"

	"mend/internal/tree"
)

// recover maps leftovers below a freshly paired (s, d):
//  1. isomorphic subtrees that occur exactly once on each side;
//  2. per children level, types occurring exactly once on each side;
//  3. the most similar same-type children scoring at least ChildThreshold.
//
// Levels 2 and 3 descend into every paired child pair.
func (mt *matcher) recover(s, d tree.NodeID) {
	if mt.src.Size(s) > mt.opts.MaxRecoverySize && mt.dst.Size(d) > mt.opts.MaxRecoverySize {
		return
	}
	mt.recoverIsomorphic(s, d)
	mt.recoverChildren(s, d)
}

func (mt *matcher) recoverIsomorphic(s, d tree.NodeID) {
	srcBy := make(map[uint64][]tree.NodeID)
	for _, x := range mt.src.Descendants(s) {
		if mt.m.unmappedSrcSubtree(x) {
			srcBy[mt.src.Hash(x)] = append(srcBy[mt.src.Hash(x)], x)
		}
	}
	dstBy := make(map[uint64][]tree.NodeID)
	for _, y := range mt.dst.Descendants(d) {
		if mt.m.unmappedDstSubtree(y) {
			dstBy[mt.dst.Hash(y)] = append(dstBy[mt.dst.Hash(y)], y)
		}
	}

	var pairs []Pair
	for h, xs := range srcBy {
		ys := dstBy[h]
		if len(xs) != 1 || len(ys) != 1 {
			continue
		}
		if mt.src.Isomorphic(xs[0], mt.dst, ys[0]) {
			pairs = append(pairs, Pair{Src: xs[0], Dst: ys[0]})
		}
	}
	// крупные поддеревья первыми, иначе их части займут места
	sort.SliceStable(pairs, func(i, j int) bool {
		hi, hj := mt.src.Height(pairs[i].Src), mt.src.Height(pairs[j].Src)
		if hi != hj {
			return hi > hj
		}
		return mt.src.PreIndex(pairs[i].Src) < mt.src.PreIndex(pairs[j].Src)
	})
	for _, p := range pairs {
		if mt.m.unmappedSrcSubtree(p.Src) && mt.m.unmappedDstSubtree(p.Dst) {
			mt.m.addSubtree(p.Src, p.Dst)
		}
	}
}

func (mt *matcher) recoverChildren(s, d tree.NodeID) {
	var sc, dc []tree.NodeID
	for _, c := range mt.src.Children(s) {
		if !mt.m.HasSrc(c) {
			sc = append(sc, c)
		}
	}
	for _, c := range mt.dst.Children(d) {
		if !mt.m.HasDst(c) {
			dc = append(dc, c)
		}
	}

	if len(sc) > 0 && len(dc) > 0 {
		countS := make(map[string]int)
		countD := make(map[string]int)
		for _, c := range sc {
			countS[mt.src.Type(c)]++
		}
		byType := make(map[string]tree.NodeID)
		for _, c := range dc {
			countD[mt.dst.Type(c)]++
			byType[mt.dst.Type(c)] = c
		}
		for _, c := range sc {
			typ := mt.src.Type(c)
			if countS[typ] == 1 && countD[typ] == 1 {
				mt.m.add(c, byType[typ])
			}
		}

		for _, c := range sc {
			if mt.m.HasSrc(c) {
				continue
			}
			best, bestSim := tree.NoNode, 0.0
			for _, y := range dc {
				if mt.m.HasDst(y) || mt.dst.Type(y) != mt.src.Type(c) {
					continue
				}
				if sim := mt.childSim(c, y); sim >= mt.opts.ChildThreshold && sim > bestSim {
					best, bestSim = y, sim
				}
			}
			if best != tree.NoNode {
				mt.m.add(c, best)
			}
		}
	}

	// вниз по всем парам детей, в т.ч. найденным раньше
	for _, c := range mt.src.Children(s) {
		p := mt.m.s2d[c]
		if p == tree.NoNode || mt.dst.Parent(p) != d || mt.src.IsLeaf(c) {
			continue
		}
		mt.recoverChildren(c, p)
	}
}
