package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mend/internal/diagfmt"
)

type entryPayload struct {
	Class  string   `json:"class"`
	Method string   `json:"method"`
	Params []string `json:"params"`
	Result string   `json:"result"`
	Static bool     `json:"static"`
}

func newEntriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entries [flags] <file.java>...",
		Short: "List the invocable methods of a loaded candidate",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEntries,
	}
}

func runEntries(cmd *cobra.Command, args []string) error {
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
	if !res.Success {
		units, _ := a.eng.Units(id)
		if err := diagfmt.Pretty(a.errOut, res.Diagnostics, diagfmt.UnitList(units), a.prettyOpts()); err != nil {
			return err
		}
		return errFailed
	}
	vc, err := a.eng.RequestLoad(cmd.Context(), id)
	if err != nil {
		return err
	}
	defer vc.Close()

	eps := vc.EntryPoints()
	if a.json {
		out := make([]entryPayload, len(eps))
		for i, ep := range eps {
			out[i] = entryPayload{Class: ep.Class, Method: ep.Method, Params: ep.Params, Result: ep.Result, Static: ep.Static}
		}
		return encodeJSON(a.out, out)
	}
	for _, ep := range eps {
		fmt.Fprintln(a.out, ep)
	}
	return nil
}
