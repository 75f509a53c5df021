package observ_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/observ"
)

func TestTimer(t *testing.T) {
	tm := observ.NewTimer()
	c := tm.Begin("compile")
	tm.End(c, "3 classes")
	tm.End(c, "ignored")
	require.Error(t, tm.Time("load", func() error { return errors.New("boom") }))
	open := tm.Begin("invoke")
	_ = open

	stages := tm.Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, "3 classes", stages[0].Note)

	r := tm.Report()
	require.Len(t, r.Stages, 2, "unfinished stages are not reported")
	load, ok := r.Stage("load")
	require.True(t, ok)
	assert.Equal(t, "failed", load.Note)
	_, ok = r.Stage("invoke")
	assert.False(t, ok)
	assert.GreaterOrEqual(t, r.TotalMS, 0.0)

	sum := tm.Summary()
	assert.True(t, strings.HasPrefix(sum, "timings:\n"))
	assert.Contains(t, sum, "// 3 classes")
	assert.Contains(t, sum, "total")
}

func TestNilTimer(t *testing.T) {
	var tm *observ.Timer
	idx := tm.Begin("x")
	tm.End(idx, "")
	assert.NoError(t, tm.Time("y", func() error { return nil }))
	assert.Nil(t, tm.Stages())
	assert.Equal(t, observ.Report{}, tm.Report())
}
