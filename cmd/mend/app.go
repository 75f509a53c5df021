package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mend/internal/config"
	"mend/internal/engine"
	"mend/internal/trace"
)

// app is the state shared by every subcommand after flag processing.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	eng     *engine.Engine
	color   bool
	json    bool
	timings bool
	out     io.Writer
	errOut  io.Writer
}

// newApp resolves the configuration, overlays flags on it and builds the
// engine. The classpath is read here.
func newApp(cmd *cobra.Command, opts ...engine.Option) (*app, error) {
	pf := cmd.Root().PersistentFlags()

	cfgPath, _ := pf.GetString("config")
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if lvl, _ := pf.GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if n, _ := pf.GetInt("max-diagnostics"); n > 0 {
		cfg.Compile.MaxDiagnostics = n
	}
	if n, _ := pf.GetInt("jobs"); n > 0 {
		cfg.Engine.Jobs = n
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	colorMode, _ := pf.GetString("color")
	useColor, err := colorEnabled(colorMode, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	jsonOut, _ := pf.GetBool("json")
	timings, _ := pf.GetBool("timings")

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		NoColor:    !useColor,
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()

	opts = append([]engine.Option{
		engine.WithLogger(log),
		engine.WithTracer(trace.FromContext(cmd.Context())),
	}, opts...)
	eng, err := engine.New(cmd.Context(), cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		log:     log,
		eng:     eng,
		color:   useColor,
		json:    jsonOut,
		timings: timings,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}, nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	return config.Discover(wd)
}

var packageDecl = regexp.MustCompile(`(?m)^\s*package\s+([A-Za-z_][\w.]*)\s*;`)

// unitName derives the qualified name of a source file: the declared
// package, if any, followed by the file name without extension.
func unitName(path, text string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if m := packageDecl.FindStringSubmatch(text); m != nil {
		return m[1] + "." + base
	}
	return base
}

// submitFile reads path and submits it as a new candidate.
func (a *app) submitFile(path string) (engine.CandidateID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := string(data)
	return a.eng.SubmitCandidate(unitName(path, text), text)
}

// submitFiles submits the first path as a candidate and adds the rest to
// it as further units.
func (a *app) submitFiles(paths []string) (engine.CandidateID, error) {
	id, err := a.submitFile(paths[0])
	if err != nil {
		return "", err
	}
	for _, p := range paths[1:] {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		text := string(data)
		if err := a.eng.AddUnit(id, unitName(p, text), text); err != nil {
			return "", err
		}
	}
	return id, nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
