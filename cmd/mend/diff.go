package main

import (
	"github.com/spf13/cobra"

	"mend/internal/diagfmt"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [flags] <before.java> <after.java>",
		Short: "Print the edit script turning one file into another",
		Args:  cobra.ExactArgs(2),
		RunE:  runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	before, err := a.submitFile(args[0])
	if err != nil {
		return err
	}
	after, err := a.submitFile(args[1])
	if err != nil {
		return err
	}
	ex, err := a.eng.Explain(before, after)
	if err != nil {
		return err
	}
	if a.json {
		return diagfmt.JSONScript(a.out, ex, diagfmt.JSONOpts{Indent: true})
	}
	return diagfmt.PrettyScript(a.out, ex, a.prettyOpts())
}
