//go:build cgo

package sittergen

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"mend/internal/gen"
	"mend/internal/source"
	"mend/internal/tree"
)

func init() {
	if err := gen.Register(Registration()); err != nil {
		panic(err)
	}
}

// Registration describes the tree-sitter generator.
func Registration() gen.Registration {
	return gen.Registration{
		ID:       ID,
		Pattern:  gen.MustRegexp(`\.java$`),
		Priority: gen.Low,
		Factory:  func() gen.Generator { return New() },
	}
}

// Generator wraps a tree-sitter parser with the Java grammar.
// Only named nodes are kept; leaves are labelled with their source text.
type Generator struct {
	parser *sitter.Parser
}

func New() *Generator {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &Generator{parser: p}
}

func (g *Generator) Generate(u *source.Unit) (*tree.Tree, error) {
	src := u.View()
	st, err := g.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter: %w", err)
	}

	root := st.RootNode()
	if root.HasError() {
		return nil, parseError(u, root)
	}

	b := tree.NewBuilder(uint(root.NamedChildCount()) * 8)
	b.SetSource(tree.RefOf(u))
	id := convert(b, u.ID, src, root)
	return b.Finish(id)
}

func convert(b *tree.Builder, unit source.UnitID, src []byte, n *sitter.Node) tree.NodeID {
	count := int(n.NamedChildCount())
	kids := make([]tree.NodeID, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil {
			continue
		}
		kids = append(kids, convert(b, unit, src, c))
	}
	label := ""
	if len(kids) == 0 {
		label = n.Content(src)
	}
	span := source.Span{Unit: unit, Start: n.StartByte(), End: n.EndByte()}
	return b.Add(n.Type(), label, span, kids...)
}

// parseError locates the first ERROR or MISSING node in document order.
func parseError(u *source.Unit, root *sitter.Node) *gen.ParseError {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	msg := "syntax error near " + fmt.Sprintf("%q", truncate(bad.Content(u.View())))
	if bad.IsMissing() {
		msg = "missing " + bad.Type()
	}
	pos := u.Position(bad.StartByte())
	return &gen.ParseError{
		Unit:    u.QualifiedName,
		Line:    pos.Line,
		Column:  pos.Col,
		Message: msg,
	}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil {
			if e := firstError(c); e != nil {
				return e
			}
		}
	}
	return nil
}

func truncate(s string) string {
	const max = 24
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
