package main

import (
	"fmt"
	"io"
	"strconv"

	"mend/internal/diag"
	"mend/internal/lexer"
	"mend/internal/source"
	"mend/internal/token"
)

type tokenJSON struct {
	Kind    string   `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Line    uint32   `json:"line"`
	Column  uint32   `json:"column"`
	Leading []string `json:"leading,omitempty"`
}

// lexUnit returns the significant tokens of u (EOF excluded) and the
// lexical diagnostics, resolved against u.
func lexUnit(u *source.Unit) ([]token.Token, []diag.Diagnostic) {
	bag := diag.NewBag(0)
	lx := lexer.New(u, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	toks := lx.All()
	toks = toks[:len(toks)-1]
	diags := bag.Snapshot()
	for i := range diags {
		diags[i] = diags[i].Resolve(u)
	}
	return toks, diags
}

func tokenRows(u *source.Unit, toks []token.Token) []tokenJSON {
	rows := make([]tokenJSON, 0, len(toks))
	for _, tok := range toks {
		pos := u.Position(tok.Span.Start)
		row := tokenJSON{Kind: tok.Kind.String(), Text: tok.Text, Line: pos.Line, Column: pos.Col}
		for _, tr := range tok.Leading {
			if tr.Kind.IsComment() {
				row.Leading = append(row.Leading, tr.Kind.String())
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// printTokens пишет по токену на строку: позиция, вид, текст.
func printTokens(w io.Writer, rows []tokenJSON) error {
	for _, r := range rows {
		text := ""
		if r.Text != "" && r.Text != r.Kind {
			text = " " + strconv.Quote(r.Text)
		}
		lead := ""
		for _, k := range r.Leading {
			lead += " +" + k
		}
		if _, err := fmt.Fprintf(w, "%d:%d\t%s%s%s\n", r.Line, r.Column, r.Kind, text, lead); err != nil {
			return err
		}
	}
	return nil
}
