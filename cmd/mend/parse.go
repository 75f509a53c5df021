package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"mend/internal/diag"
	"mend/internal/diagfmt"
	"mend/internal/gen"
)

type parsePayload struct {
	Unit      string      `json:"unit"`
	Generator string      `json:"generator,omitempty"`
	Nodes     int         `json:"nodes,omitempty"`
	Tree      string      `json:"tree,omitempty"`
	Tokens    []tokenJSON `json:"tokens,omitempty"`
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.java>...",
		Short: "Print the syntax tree of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().Bool("sexpr", false, "print s-expressions instead of the indented dump")
	cmd.Flags().Bool("tokens", false, "print the token stream instead of the tree")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	sexpr, _ := cmd.Flags().GetBool("sexpr")
	tokens, _ := cmd.Flags().GetBool("tokens")

	failed := false
	payloads := []parsePayload{}
	for _, path := range args {
		id, err := a.submitFile(path)
		if err != nil {
			return err
		}
		u, _ := a.eng.Unit(id)
		if tokens {
			toks, diags := lexUnit(u)
			if len(diags) > 0 {
				failed = failed || slices.ContainsFunc(diags, diag.Diagnostic.IsError)
				if err := diagfmt.Pretty(a.errOut, diags, diagfmt.UnitList{u}, a.prettyOpts()); err != nil {
					return err
				}
			}
			rows := tokenRows(u, toks)
			if a.json {
				payloads = append(payloads, parsePayload{Unit: u.QualifiedName, Tokens: rows})
				continue
			}
			if len(args) > 1 {
				fmt.Fprintf(a.out, "== %s\n", u.QualifiedName)
			}
			if err := printTokens(a.out, rows); err != nil {
				return err
			}
			continue
		}
		t, err := a.eng.Tree(id)
		if err != nil {
			var pe *gen.ParseError
			if !errors.As(err, &pe) {
				return err
			}
			failed = true
			if err := diagfmt.Pretty(a.errOut, pe.Diagnostics, diagfmt.UnitList{u}, a.prettyOpts()); err != nil {
				return err
			}
			continue
		}
		_, reg, _ := gen.Default().Select(u.Path())
		if a.json {
			payloads = append(payloads, parsePayload{Unit: u.QualifiedName, Generator: reg.ID, Nodes: t.Len(), Tree: t.String()})
			continue
		}
		if len(args) > 1 {
			fmt.Fprintf(a.out, "== %s (%s)\n", u.QualifiedName, reg.ID)
		}
		if sexpr {
			fmt.Fprintln(a.out, t.String())
		} else {
			fmt.Fprint(a.out, t.Dump())
		}
	}
	if a.json {
		if err := encodeJSON(a.out, payloads); err != nil {
			return err
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func (a *app) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     a.color,
		Context:   1,
		ShowNotes: true,
		Max:       a.cfg.Compile.MaxDiagnostics,
	}
}
