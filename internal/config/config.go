// Package config loads the engine configuration from mend.toml or
// mend.yaml.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"mend/internal/compiler"
	"mend/internal/diff"
	"mend/internal/vm"
)

// Config is the full configuration surface of the engine.
type Config struct {
	Diff    Diff    `toml:"diff" yaml:"diff"`
	Compile Compile `toml:"compile" yaml:"compile"`
	VM      VM      `toml:"vm" yaml:"vm"`
	Engine  Engine  `toml:"engine" yaml:"engine"`
	Log     Log     `toml:"log" yaml:"log"`

	// Root is the directory relative paths are resolved against: the
	// directory of the loaded file, or "" for the working directory.
	Root string `toml:"-" yaml:"-"`
}

// Diff holds the matcher thresholds.
type Diff struct {
	MinHeight       int     `toml:"min_height" yaml:"min_height"`
	SimThreshold    float64 `toml:"sim_threshold" yaml:"sim_threshold"`
	ChildThreshold  float64 `toml:"child_threshold" yaml:"child_threshold"`
	MaxRecoverySize int     `toml:"max_recovery_size" yaml:"max_recovery_size"`
}

// Compile configures compilation sessions and the library classpath.
type Compile struct {
	ClassPath         []string `toml:"classpath" yaml:"classpath"` // directories of library sources
	Pattern           string   `toml:"pattern" yaml:"pattern"`     // doublestar pattern inside each directory
	MaxDiagnostics    int      `toml:"max_diagnostics" yaml:"max_diagnostics"`
	CompressArtifacts bool     `toml:"compress_artifacts" yaml:"compress_artifacts"`
}

// VM bounds every invocation on a load context. 0 = default, <0 = off.
type VM struct {
	MaxSteps   int64 `toml:"max_steps" yaml:"max_steps"`
	MaxDepth   int   `toml:"max_depth" yaml:"max_depth"`
	MaxObjects int64 `toml:"max_objects" yaml:"max_objects"`
}

// Engine configures candidate evaluation.
type Engine struct {
	Jobs int `toml:"jobs" yaml:"jobs"` // 0 = GOMAXPROCS
}

// Log configures the engine logger.
type Log struct {
	Level string `toml:"level" yaml:"level"`
}

// DefaultPattern selects library sources inside a classpath directory.
const DefaultPattern = "**/*.java"

// Default returns the configuration used when no file is present.
func Default() Config {
	d := diff.DefaultOptions()
	return Config{
		Diff: Diff{
			MinHeight:       d.MinHeight,
			SimThreshold:    d.SimThreshold,
			ChildThreshold:  d.ChildThreshold,
			MaxRecoverySize: d.MaxRecoverySize,
		},
		Compile: Compile{
			Pattern:        DefaultPattern,
			MaxDiagnostics: 100,
		},
		VM: VM{
			MaxSteps:   vm.DefaultMaxSteps,
			MaxDepth:   vm.DefaultMaxDepth,
			MaxObjects: vm.DefaultMaxObjects,
		},
		Log: Log{Level: "info"},
	}
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := c.DiffOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Compile.MaxDiagnostics < 0 {
		return fmt.Errorf("%w: compile.max_diagnostics %d is negative", ErrInvalid, c.Compile.MaxDiagnostics)
	}
	if c.Engine.Jobs < 0 {
		return fmt.Errorf("%w: engine.jobs %d is negative", ErrInvalid, c.Engine.Jobs)
	}
	for _, dir := range c.Compile.ClassPath {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("%w: empty compile.classpath entry", ErrInvalid)
		}
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// DiffOptions converts the [diff] section.
func (c Config) DiffOptions() diff.Options {
	return diff.Options{
		MinHeight:       c.Diff.MinHeight,
		SimThreshold:    c.Diff.SimThreshold,
		ChildThreshold:  c.Diff.ChildThreshold,
		MaxRecoverySize: c.Diff.MaxRecoverySize,
	}
}

// CompileOptions converts the [compile] section.
func (c Config) CompileOptions() compiler.Options {
	return compiler.Options{
		MaxDiagnostics: c.Compile.MaxDiagnostics,
		Compress:       c.Compile.CompressArtifacts,
	}
}

// VMOptions converts the [vm] section.
func (c Config) VMOptions() vm.Options {
	return vm.Options{
		MaxSteps:   c.VM.MaxSteps,
		MaxDepth:   c.VM.MaxDepth,
		MaxObjects: c.VM.MaxObjects,
	}
}

// LogLevel parses log.level; empty means info.
func (c Config) LogLevel() (zerolog.Level, error) {
	if c.Log.Level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// ClassPathDirs returns the classpath directories resolved against Root.
func (c Config) ClassPathDirs() []string {
	out := make([]string, 0, len(c.Compile.ClassPath))
	for _, dir := range c.Compile.ClassPath {
		dir = filepath.FromSlash(strings.TrimSpace(dir))
		if !filepath.IsAbs(dir) && c.Root != "" {
			dir = filepath.Join(c.Root, dir)
		}
		out = append(out, filepath.Clean(dir))
	}
	return out
}
