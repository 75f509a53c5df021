package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mend/internal/trace"
)

type traceFlags struct {
	output    string
	level     string
	mode      string
	ringSize  int
	heartbeat time.Duration
}

func readTraceFlags(pf *pflag.FlagSet) (traceFlags, error) {
	var f traceFlags
	var err error
	get := func(name string, read func() error) {
		if err == nil {
			if e := read(); e != nil {
				err = fmt.Errorf("--%s: %w", name, e)
			}
		}
	}
	get("trace", func() (e error) { f.output, e = pf.GetString("trace"); return })
	get("trace-level", func() (e error) { f.level, e = pf.GetString("trace-level"); return })
	get("trace-mode", func() (e error) { f.mode, e = pf.GetString("trace-mode"); return })
	get("trace-ring-size", func() (e error) { f.ringSize, e = pf.GetInt("trace-ring-size"); return })
	get("trace-heartbeat", func() (e error) { f.heartbeat, e = pf.GetDuration("trace-heartbeat"); return })
	return f, err
}

func (f traceFlags) config() (trace.Config, error) {
	level, err := trace.ParseLevel(f.level)
	if err != nil {
		return trace.Config{}, err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && f.output != "" {
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(f.mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Mode: mode, OutputPath: f.output, RingSize: f.ringSize}, nil
}

// setupTracing installs the tracer selected by the persistent flags into
// the command context. The returned func flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags, err := readTraceFlags(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	cfg, err := flags.config()
	if err != nil {
		return nil, err
	}
	if cfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	var hb *trace.Heartbeat
	if flags.heartbeat > 0 {
		hb = trace.StartHeartbeat(tracer, flags.heartbeat)
	}
	return func() {
		hb.Stop()
		shutdownTracer(tracer, cmd.ErrOrStderr())
	}, nil
}

// shutdownTracer dumps a ring buffer to w, then flushes and closes.
func shutdownTracer(t trace.Tracer, w io.Writer) {
	report := func(what string, err error) {
		if err != nil {
			fmt.Fprintf(w, "trace: %s: %v\n", what, err)
		}
	}
	if ring, ok := t.(*trace.RingTracer); ok {
		report("dump", ring.Dump(w, trace.FormatText))
	}
	report("flush", t.Flush())
	report("close", t.Close())
}
