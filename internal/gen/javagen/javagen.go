// Package javagen registers the native Java-subset parser as the
// "java-mend" tree generator.
package javagen

import (
	"mend/internal/diag"
	"mend/internal/gen"
	"mend/internal/parser"
	"mend/internal/source"
	"mend/internal/tree"
)

const ID = "java-mend"

func init() {
	if err := gen.Register(Registration()); err != nil {
		panic(err)
	}
}

// Registration describes the generator; exposed so tests can fill private registries.
func Registration() gen.Registration {
	return gen.Registration{
		ID:       ID,
		Pattern:  gen.MustRegexp(`\.java$`),
		Priority: gen.Maximum,
		Factory:  func() gen.Generator { return &Generator{} },
	}
}

// Generator parses units with internal/parser.
type Generator struct {
	// MaxErrors bounds the diagnostics collected per unit; 0 — без лимита.
	MaxErrors uint
}

func (g *Generator) Generate(u *source.Unit) (*tree.Tree, error) {
	bag := diag.NewBag(0)
	res := parser.Parse(u, parser.Options{
		MaxErrors: g.MaxErrors,
		Reporter:  diag.Dedup(diag.BagReporter{Bag: bag}),
	})
	if res.Tree != nil {
		return res.Tree, nil
	}
	diags := make([]diag.Diagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		diags = append(diags, d.Resolve(u))
	}
	return nil, gen.NewParseError(u.QualifiedName, diags)
}
