package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mend/internal/diagfmt"
)

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile [flags] <file.java>...",
		Short: "Compile files in memory as one candidate and report diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCompile,
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	id, err := a.submitFiles(args)
	if err != nil {
		return err
	}
	res, err := a.eng.RequestCompile(cmd.Context(), id)
	if err != nil {
		return err
	}
	if a.json {
		if err := diagfmt.JSON(a.out, res, diagfmt.JSONOpts{Max: a.cfg.Compile.MaxDiagnostics, IncludeNotes: true, Indent: true}); err != nil {
			return err
		}
	} else {
		units, _ := a.eng.Units(id)
		if err := diagfmt.Pretty(a.errOut, res.Diagnostics, diagfmt.UnitList(units), a.prettyOpts()); err != nil {
			return err
		}
		if res.Success {
			for _, name := range res.Classes() {
				fmt.Fprintf(a.out, "%s %d bytes\n", name, len(res.Artifacts[name]))
			}
		}
	}
	if !res.Success {
		return errFailed
	}
	return nil
}
