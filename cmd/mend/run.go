package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mend/internal/diagfmt"
	"mend/internal/engine"
	"mend/internal/ui"
	"mend/internal/vm"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] <candidate.java>...",
		Short: "Compile, load and invoke each candidate in its own load context",
		Long: `Each file is a separate candidate. Every candidate is compiled in memory,
loaded into an isolated context and its entry method invoked with --arg values.
With --baseline, every candidate is also diffed against the baseline file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCandidates,
	}
	cmd.Flags().String("entry", "", "entry method as Class.method (required)")
	cmd.Flags().StringArray("arg", nil, "argument for the entry method (repeatable)")
	cmd.Flags().String("expect", "", "expected result; a different result fails the candidate")
	cmd.Flags().String("baseline", "", "baseline file diffed against every candidate")
	cmd.Flags().String("ui", "auto", "live progress view (auto|on|off)")
	_ = cmd.MarkFlagRequired("entry")
	return cmd
}

// runResult is a report plus what the entry method returned.
type runResult struct {
	diagfmt.ReportJSON
	File   string `json:"file"`
	Result string `json:"result,omitempty"`
}

func runCandidates(cmd *cobra.Command, args []string) error {
	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	jsonOut, _ := cmd.Root().PersistentFlags().GetBool("json")
	useUI := !jsonOut && shouldUseTUI(mode, cmd.ErrOrStderr())

	var events chan engine.Event
	var opts []engine.Option
	if useUI {
		events = make(chan engine.Event, 256)
		opts = append(opts, engine.WithProgress(engine.ChannelSink{Ch: events}))
	}
	a, err := newApp(cmd, opts...)
	if err != nil {
		return err
	}
	entry, _ := cmd.Flags().GetString("entry")
	class, method, err := splitEntry(entry)
	if err != nil {
		return err
	}
	rawArgs, _ := cmd.Flags().GetStringArray("arg")
	values, err := parseValues(rawArgs)
	if err != nil {
		return err
	}
	var expect *vm.Value
	if cmd.Flags().Changed("expect") {
		s, _ := cmd.Flags().GetString("expect")
		v, err := parseValue(s)
		if err != nil {
			return err
		}
		expect = &v
	}

	files := args
	if base, _ := cmd.Flags().GetString("baseline"); base != "" {
		files = append([]string{base}, args...)
	}
	ids := make([]engine.CandidateID, len(files))
	index := make(map[engine.CandidateID]int, len(files))
	for i, f := range files {
		id, err := a.submitFile(f)
		if err != nil {
			return err
		}
		ids[i] = id
		index[id] = i
	}
	if len(files) > len(args) {
		if err := a.eng.Baseline(ids[0]); err != nil {
			return err
		}
	}

	// каждый кандидат пишет только в свой элемент
	results := make([]vm.Value, len(ids))
	ran := make([]bool, len(ids))
	eval := func(ctx context.Context, id engine.CandidateID, vc *vm.Context) error {
		v, err := vc.Invoke(ctx, class, method, values...)
		if err != nil {
			return err
		}
		results[index[id]], ran[index[id]] = v, true
		if expect != nil && !vm.Equal(v, *expect) {
			return fmt.Errorf("%s.%s returned %s, want %s", class, method, v, *expect)
		}
		return nil
	}
	var reports []engine.Report
	if useUI {
		rows := make([]ui.Candidate, len(ids))
		for i, id := range ids {
			rows[i] = ui.Candidate{ID: id, Name: files[i]}
		}
		reports, err = evaluateWithUI(cmd.Context(), a.errOut, "evaluating "+entry, rows, events, func() []engine.Report {
			return a.eng.Evaluate(cmd.Context(), ids, eval)
		})
		if err != nil {
			a.log.Warn().Err(err).Msg("progress view failed")
		}
	} else {
		reports = a.eng.Evaluate(cmd.Context(), ids, eval)
	}

	out := make([]runResult, len(reports))
	failed := false
	for i, r := range reports {
		out[i] = runResult{ReportJSON: diagfmt.BuildReport(r, diagfmt.JSONOpts{Max: a.cfg.Compile.MaxDiagnostics}), File: files[i]}
		if ran[i] {
			out[i].Result = results[i].String()
		}
		failed = failed || r.Failed()
	}

	if a.json {
		if err := encodeJSON(a.out, out); err != nil {
			return err
		}
	} else if err := a.printReports(reports, out); err != nil {
		return err
	}
	if failed {
		return errFailed
	}
	return nil
}

func (a *app) printReports(reports []engine.Report, out []runResult) error {
	for i, r := range reports {
		status := "ok"
		if r.Failed() {
			status = "FAIL at " + r.Stage.String()
		}
		line := fmt.Sprintf("%s: %s", out[i].File, status)
		if out[i].Result != "" {
			line += " result=" + out[i].Result
		}
		if len(r.Script) > 0 {
			line += fmt.Sprintf(" edits=%d", len(r.Script))
		}
		if _, err := fmt.Fprintln(a.out, line); err != nil {
			return err
		}
		if r.Result != nil && !r.Result.Success {
			units, _ := a.eng.Units(r.ID)
			if err := diagfmt.Pretty(a.errOut, r.Result.Diagnostics, diagfmt.UnitList(units), a.prettyOpts()); err != nil {
				return err
			}
		} else if r.Err != nil {
			var msg string
			if ve, ok := vmError(r.Err); ok {
				msg = ve.Format()
			} else {
				msg = r.Err.Error() + "\n"
			}
			fmt.Fprintf(a.errOut, "  %s", msg)
		}
		if a.timings {
			for _, st := range r.Timing.Stages {
				fmt.Fprintf(a.errOut, "  %s %.1f ms\n", st.Name, st.DurationMS)
			}
		}
	}
	return nil
}

func vmError(err error) (*vm.VMError, bool) {
	var ve *vm.VMError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
