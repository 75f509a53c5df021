//go:build cgo

package sittergen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/gen"
	"mend/internal/gen/sittergen"
	"mend/internal/source"
	"mend/internal/testkit"
)

func TestGenerate(t *testing.T) {
	store := source.NewStore()
	u := store.AddSource("p.A", "class A { int f() { return 1; } }")
	tr, err := sittergen.New().Generate(u)
	require.NoError(t, err)
	require.NoError(t, testkit.CheckTree(tr, u))
	assert.Equal(t, "program", tr.Type(tr.Root()))
	assert.Contains(t, tr.String(), `(decimal_integer_literal "1")`)
}

func TestGenerate_Error(t *testing.T) {
	u := source.NewSource("p.A", "class A {\n  int f() { return 1 }\n")
	_, err := sittergen.New().Generate(u)
	var pe *gen.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Positive(t, pe.Line)
}

func TestRegisteredBelowNative(t *testing.T) {
	r := gen.NewRegistry()
	require.NoError(t, r.Register(sittergen.Registration()))
	_, reg, err := r.Select("memo:///p/A.java")
	require.NoError(t, err)
	assert.Equal(t, sittergen.ID, reg.ID)
	assert.Equal(t, gen.Low, reg.Priority)
}
