package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	_ "mend/internal/gen/javagen"
	_ "mend/internal/gen/sittergen"
	"mend/internal/version"
)

// errFailed signals a failure already reported to the user.
var errFailed = errors.New("failed")

// newRootCmd builds the command tree with its persistent flags.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mend",
		Short:         "Compile, run and diff candidate patches",
		Long:          `mend parses Java candidates into syntax trees, diffs them, compiles them in memory and runs them in isolated load contexts`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			stopProf, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			stopTrace, err := setupTracing(cmd)
			if err != nil {
				stopProf()
				return err
			}
			cleanup = func() {
				stopTrace()
				stopProf()
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			runCleanup()
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("config", "", "path to mend.toml or mend.yaml (default: discovered from the working directory)")
	pf.String("log-level", "", "log level (trace|debug|info|warn|error|disabled)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("json", false, "emit JSON instead of text")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = config value)")
	pf.Int("jobs", 0, "parallel candidates (0 = config value)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval (0 = off)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(newParseCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newCompileCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newEntriesCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// cleanup stops tracing and profiling; PersistentPostRun is skipped when
// RunE fails, so main calls it too.
var cleanup func()

func runCleanup() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

// main executes the root command. Failures already rendered as
// diagnostics exit with status 1 without another message.
func main() {
	root := newRootCmd()
	err := root.Execute()
	runCleanup()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "mend:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
