package javagen_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/diag"
	"mend/internal/gen"
	"mend/internal/gen/javagen"
	"mend/internal/source"
)

func TestDefaultRegistryParsesJava(t *testing.T) {
	u := source.NewSource("p.A", "class A { int f() { return 1; } }")
	tr, err := gen.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "CompilationUnit", tr.Type(tr.Root()))

	_, reg, err := gen.Select(u.Path())
	require.NoError(t, err)
	assert.Equal(t, javagen.ID, reg.ID)
	assert.Equal(t, gen.Maximum, reg.Priority)
}

func TestParseErrorPosition(t *testing.T) {
	u := source.NewSource("p.A", "class A {\n  void f() {\n    int x = 1;\n  }\n  }\n}\n")
	_, err := gen.Parse(u)
	var pe *gen.ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, "p.A", pe.Unit)
	assert.Equal(t, uint32(6), pe.Line)
	assert.Equal(t, uint32(1), pe.Column)
	require.NotEmpty(t, pe.Diagnostics)
	assert.Equal(t, diag.SynUnmatchedBrace, pe.Diagnostics[0].Code)
}

func TestInjectedCharacter(t *testing.T) {
	u := source.NewSource("p.A", "class A {\n  int f() { return 1 #; }\n}")
	_, err := gen.Parse(u)
	var pe *gen.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, uint32(2), pe.Line)
}
