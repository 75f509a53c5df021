package tree

import (
	"strconv"
	"strings"
)

// String renders the tree as an s-expression: (Type "label" children...).
func (t *Tree) String() string {
	if t == nil || t.root == NoNode {
		return "()"
	}
	var sb strings.Builder
	t.writeNode(&sb, t.root)
	return sb.String()
}

// SubtreeString renders only the subtree of id.
func (t *Tree) SubtreeString(id NodeID) string {
	if t.node(id) == nil {
		return "()"
	}
	var sb strings.Builder
	t.writeNode(&sb, id)
	return sb.String()
}

func (t *Tree) writeNode(sb *strings.Builder, id NodeID) {
	nd := t.node(id)
	sb.WriteByte('(')
	sb.WriteString(nd.Type)
	if nd.Label != "" {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(nd.Label))
	}
	for _, c := range nd.Children {
		sb.WriteByte(' ')
		t.writeNode(sb, c)
	}
	sb.WriteByte(')')
}

// Dump renders one node per line, indented by depth, with ids and spans.
func (t *Tree) Dump() string {
	var sb strings.Builder
	for _, id := range t.preorder {
		nd := t.node(id)
		sb.WriteString(strings.Repeat("  ", nd.depth))
		sb.WriteString(nd.Type)
		if nd.Label != "" {
			sb.WriteString(": ")
			sb.WriteString(nd.Label)
		}
		sb.WriteString(" [")
		sb.WriteString(strconv.FormatUint(uint64(nd.Span.Start), 10))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatUint(uint64(nd.Span.End), 10))
		sb.WriteString("] #")
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
		sb.WriteByte('\n')
	}
	return sb.String()
}
