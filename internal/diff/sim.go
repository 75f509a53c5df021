package diff

import (
	"mend/internal/tree"
)

// dice = 2·common / (|desc(s)| + |desc(d)|), where common counts descendants
// of s mapped into descendants of d.
func (mt *matcher) dice(s, d tree.NodeID) float64 {
	if s == tree.NoNode || d == tree.NoNode {
		return 0
	}
	ds, dd := mt.src.Size(s)-1, mt.dst.Size(d)-1
	if ds+dd == 0 {
		return 0
	}
	return 2 * float64(mt.common(s, d)) / float64(ds+dd)
}

func (mt *matcher) common(s, d tree.NodeID) int {
	n := 0
	for _, x := range mt.src.Descendants(s) {
		if p := mt.m.s2d[x]; p != tree.NoNode && mt.dst.IsAncestor(d, p) {
			n++
		}
	}
	return n
}

// labelSim is the dice coefficient over character bigrams.
func labelSim(a, b string) float64 {
	if a == b {
		return 1
	}
	ba, bb := bigrams(a), bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}
	common := 0
	for g, n := range ba {
		if k := bb[g]; k > 0 {
			common += min(n, k)
		}
	}
	total := 0
	for _, n := range ba {
		total += n
	}
	for _, n := range bb {
		total += n
	}
	return 2 * float64(common) / float64(total)
}

func bigrams(s string) map[string]int {
	r := []rune(s)
	if len(r) < 2 {
		return nil
	}
	out := make(map[string]int, len(r)-1)
	for i := 0; i+1 < len(r); i++ {
		out[string(r[i:i+2])]++
	}
	return out
}

// childSim scores two same-type nodes during recovery.
func (mt *matcher) childSim(s, d tree.NodeID) float64 {
	if mt.src.IsLeaf(s) && mt.dst.IsLeaf(d) {
		return labelSim(mt.src.Label(s), mt.dst.Label(d))
	}
	return mt.dice(s, d)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
