package diff

import (
	"fmt"
	"strconv"
	"strings"

	"mend/internal/tree"
)

type Op uint8

const (
	OpInsert Op = iota + 1
	OpDelete
	OpUpdate
	OpMove
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpUpdate:
		return "update"
	case OpMove:
		return "move"
	default:
		return "op(" + strconv.Itoa(int(o)) + ")"
	}
}

func (o Op) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Op) UnmarshalText(b []byte) error {
	switch string(b) {
	case "insert":
		*o = OpInsert
	case "delete":
		*o = OpDelete
	case "update":
		*o = OpUpdate
	case "move":
		*o = OpMove
	default:
		return fmt.Errorf("diff: unknown op %q", b)
	}
	return nil
}

// Action is one edit. Node and Parent are working ids; Parent NoNode is the
// super-root. Position is the final index of Node among Parent's children.
//
//	Insert  Node (next free id), Parent, Position, Type, Label
//	Delete  Node (must be a leaf at that point)
//	Update  Node, Label (OldLabel is informational)
//	Move    Node, Parent, Position
//
// Dst names the destination node an Insert, Update or Move reproduces.
type Action struct {
	Op       Op          `json:"op"`
	Node     tree.NodeID `json:"node"`
	Parent   tree.NodeID `json:"parent,omitempty"`
	Position int         `json:"position,omitempty"`
	Type     string      `json:"type,omitempty"`
	Label    string      `json:"label,omitempty"`
	OldLabel string      `json:"old_label,omitempty"`
	Dst      tree.NodeID `json:"dst,omitempty"`
}

func (a Action) String() string {
	switch a.Op {
	case OpInsert:
		return fmt.Sprintf("insert #%d %s into #%d at %d", a.Node, nodeText(a.Type, a.Label), a.Parent, a.Position)
	case OpDelete:
		return fmt.Sprintf("delete #%d", a.Node)
	case OpUpdate:
		return fmt.Sprintf("update #%d %q -> %q", a.Node, a.OldLabel, a.Label)
	case OpMove:
		return fmt.Sprintf("move #%d into #%d at %d", a.Node, a.Parent, a.Position)
	default:
		return a.Op.String()
	}
}

func nodeText(typ, label string) string {
	if label == "" {
		return typ
	}
	return typ + " " + strconv.Quote(label)
}

// Script is an ordered edit script; applying it to the source tree yields a
// tree structurally equal to the destination.
type Script []Action

func (s Script) String() string {
	var sb strings.Builder
	for _, a := range s {
		sb.WriteString(a.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary counts actions per op.
type Summary struct {
	Insert int `json:"insert"`
	Delete int `json:"delete"`
	Update int `json:"update"`
	Move   int `json:"move"`
}

func (s Script) Summary() Summary {
	var out Summary
	for _, a := range s {
		switch a.Op {
		case OpInsert:
			out.Insert++
		case OpDelete:
			out.Delete++
		case OpUpdate:
			out.Update++
		case OpMove:
			out.Move++
		}
	}
	return out
}

func (s Summary) Total() int { return s.Insert + s.Delete + s.Update + s.Move }

func (s Summary) String() string {
	return fmt.Sprintf("%d insert, %d delete, %d update, %d move", s.Insert, s.Delete, s.Update, s.Move)
}
