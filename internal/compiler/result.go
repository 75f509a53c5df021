package compiler

import (
	"fmt"
	"slices"
	"sort"

	"mend/internal/diag"
	"mend/internal/trace"
)

// Options configure one compilation session.
type Options struct {
	MaxDiagnostics int          // 0 = unbounded; errors are always kept
	Tracer         trace.Tracer // nil = tracer from context
	Compress       bool         // zstd-compress artifacts
}

// Result — итог одной сессии. Artifacts is non-empty iff Success iff no
// ERROR diagnostic was reported.
type Result struct {
	Success     bool
	Diagnostics []diag.Diagnostic
	Artifacts   map[string][]byte // qualified class name -> encoded class
}

// Classes returns artifact names in sorted order.
func (r *Result) Classes() []string {
	names := make([]string, 0, len(r.Artifacts))
	for name := range r.Artifacts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Errors returns only the ERROR diagnostics.
func (r *Result) Errors() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range r.Diagnostics {
		if d.IsError() {
			out = append(out, d)
		}
	}
	return out
}

// Err returns a *CompilationError when the session failed.
func (r *Result) Err() error {
	if r == nil || r.Success {
		return nil
	}
	errs := r.Errors()
	if len(errs) == 0 {
		return &CompilationError{}
	}
	return &CompilationError{First: errs[0], Count: len(errs)}
}

// CompilationError summarizes a failed session by its first error.
type CompilationError struct {
	First diag.Diagnostic
	Count int
}

func (e *CompilationError) Error() string {
	switch e.Count {
	case 0:
		return "compilation failed"
	case 1:
		return e.First.String()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.First, e.Count-1)
}

// sortDiagnostics orders by unit name, position, then code.
func sortDiagnostics(ds []diag.Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Code < b.Code
	})
}
