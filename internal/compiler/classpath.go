package compiler

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"mend/internal/bytecode"
	"mend/internal/source"
)

// ClassPath is a read-only set of precompiled library classes visible to
// every session. It is immutable after construction and safe to share
// between goroutines; a nil *ClassPath is an empty one.
type ClassPath struct {
	bySimple    map[string]*bytecode.Class
	byQualified map[string]*bytecode.Class
	names       []string // qualified, sorted
}

// NewClassPath verifies classes and indexes them by simple and qualified name.
func NewClassPath(classes ...*bytecode.Class) (*ClassPath, error) {
	cp := &ClassPath{
		bySimple:    make(map[string]*bytecode.Class, len(classes)),
		byQualified: make(map[string]*bytecode.Class, len(classes)),
	}
	for _, c := range classes {
		if err := bytecode.Verify(c); err != nil {
			return nil, fmt.Errorf("classpath: %w", err)
		}
		if _, dup := cp.bySimple[c.Name]; dup {
			return nil, fmt.Errorf("classpath: duplicate class %s", c.Name)
		}
		if isBuiltinClass(c.Name) {
			return nil, fmt.Errorf("classpath: class %s shadows a builtin", c.Name)
		}
		cp.bySimple[c.Name] = c
		cp.byQualified[c.QualifiedName()] = c
		cp.names = append(cp.names, c.QualifiedName())
	}
	slices.Sort(cp.names)
	return cp, nil
}

// BuildClassPath compiles library sources once. A library that fails to
// compile is returned as *CompilationError.
func BuildClassPath(ctx context.Context, units []*source.Unit, opts Options) (*ClassPath, error) {
	res, classes, err := compile(ctx, units, nil, opts)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, res.Err()
	}
	return NewClassPath(classes...)
}

// Lookup finds a class by simple or qualified name.
func (cp *ClassPath) Lookup(name string) (*bytecode.Class, bool) {
	if cp == nil {
		return nil, false
	}
	if c, ok := cp.byQualified[name]; ok {
		return c, true
	}
	c, ok := cp.bySimple[name]
	return c, ok
}

// Classes returns the classes ordered by qualified name.
func (cp *ClassPath) Classes() []*bytecode.Class {
	if cp == nil {
		return nil
	}
	out := make([]*bytecode.Class, len(cp.names))
	for i, n := range cp.names {
		out[i] = cp.byQualified[n]
	}
	return out
}

// Len returns the number of classes.
func (cp *ClassPath) Len() int {
	if cp == nil {
		return 0
	}
	return len(cp.names)
}

// ReadSources loads every file of fsys matching the doublestar pattern
// (e.g. "**/*.java") as a source unit. The qualified name is the slash path
// without extension, with '/' replaced by '.'.
func ReadSources(fsys fs.FS, pattern string) ([]*source.Unit, error) {
	paths, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("classpath pattern %q: %w", pattern, err)
	}
	slices.Sort(paths)
	units := make([]*source.Unit, 0, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("classpath: %w", err)
		}
		name := p
		if i := strings.LastIndexByte(name, '.'); i > strings.LastIndexByte(name, '/') {
			name = name[:i]
		}
		units = append(units, source.NewUnit(strings.ReplaceAll(name, "/", "."), source.KindSource, data))
	}
	return units, nil
}

func isBuiltinClass(name string) bool {
	return name == "Math" || name == "String"
}
