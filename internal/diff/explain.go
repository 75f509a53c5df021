package diff

import (
	"fmt"
	"strconv"

	"mend/internal/source"
	"mend/internal/tree"
)

// Explanation renders one action for humans. Unit/Line/Column point at the
// destination node for Insert, Update and Move and at the source node for Delete.
type Explanation struct {
	Action Action `json:"action"`
	Text   string `json:"text"`
	Unit   string `json:"unit,omitempty"`
	Line   uint32 `json:"line,omitempty"`
	Column uint32 `json:"column,omitempty"`
}

func (e Explanation) String() string {
	if e.Line == 0 {
		return e.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Unit, e.Line, e.Column, e.Text)
}

// Explain describes s as applied to src. srcUnit and dstUnit resolve
// positions; either may be nil, positions are then left empty.
func Explain(s Script, src, dst *tree.Tree, srcUnit, dstUnit *source.Unit) ([]Explanation, error) {
	if err := checkTrees(src, dst); err != nil {
		return nil, err
	}
	w := newWorking(src)
	out := make([]Explanation, 0, len(s))
	for i, a := range s {
		e := Explanation{Action: a}
		// описание берём до применения: Delete и Update меняют узел
		switch a.Op {
		case OpInsert:
			e.Text = fmt.Sprintf("insert %s into %s at %d", nodeText(a.Type, a.Label), w.describe(a.Parent), a.Position)
		case OpDelete:
			e.Text = "delete " + w.describe(a.Node)
		case OpUpdate:
			e.Text = fmt.Sprintf("update %s to %s", w.describe(a.Node), strconv.Quote(a.Label))
		case OpMove:
			e.Text = fmt.Sprintf("move %s into %s at %d", w.describe(a.Node), w.describe(a.Parent), a.Position)
		}
		if a.Op == OpDelete {
			if w.valid(a.Node) && int(a.Node) <= src.Len() {
				locate(&e, srcUnit, src.Span(a.Node))
			}
		} else if dst.Has(a.Dst) {
			locate(&e, dstUnit, dst.Span(a.Dst))
		}
		if err := w.apply(a); err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, a, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func locate(e *Explanation, u *source.Unit, sp source.Span) {
	if u == nil {
		return
	}
	pos := u.Position(sp.Start)
	e.Unit, e.Line, e.Column = u.QualifiedName, pos.Line, pos.Col
}

func (w *working) describe(id tree.NodeID) string {
	if id == tree.NoNode {
		return "<root>"
	}
	if !w.valid(id) {
		return "#" + strconv.FormatUint(uint64(id), 10)
	}
	n := w.nodes[id]
	return nodeText(n.typ, n.label)
}
