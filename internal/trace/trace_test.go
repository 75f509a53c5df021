package trace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/trace"
)

func TestRingTracerNesting(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)

	outer, ctx := trace.StartSpan(ctx, trace.ScopeEngine, "compile")
	inner, _ := trace.StartSpan(ctx, trace.ScopeUnit, "unit:demo.A")
	method, _ := trace.StartSpan(ctx, trace.ScopeMethod, "method:A.f") // ниже уровня
	method.End("")
	inner.WithExtra("classes", "1").End("")
	outer.End("ok")

	events := ring.Snapshot()
	require.Len(t, events, 4)
	assert.Equal(t, trace.KindSpanBegin, events[0].Kind)
	assert.Equal(t, "compile", events[0].Name)
	assert.Equal(t, events[0].SpanID, events[1].ParentID)
	assert.Equal(t, "1", events[2].Extra["classes"])
	assert.Equal(t, "ok", events[3].Detail)
	assert.Zero(t, method.ID())
}

func TestRingWraps(t *testing.T) {
	ring := trace.NewRingTracer(2, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	for _, name := range []string{"a", "b", "c"} {
		trace.Point(ctx, trace.ScopeEngine, name, "")
	}
	events := ring.Snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].Name)
	assert.Equal(t, "c", events[1].Name)
}

func TestStreamFormats(t *testing.T) {
	var text, js bytes.Buffer
	multi := trace.NewMultiTracer(trace.LevelPhase,
		trace.NewStreamTracer(&text, trace.LevelPhase, trace.FormatText),
		trace.NewStreamTracer(&js, trace.LevelPhase, trace.FormatNDJSON),
	)
	trace.Begin(multi, trace.ScopePhase, "parse", 0).WithExtra("units", "2").End("done")

	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "→ parse")
	assert.Contains(t, lines[1], "← parse (done) {units=2}")

	dec := json.NewDecoder(&js)
	var first map[string]any
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "begin", first["kind"])
	assert.Equal(t, "phase", first["scope"])
}

func TestNopIsFree(t *testing.T) {
	sp := trace.Begin(trace.Nop, trace.ScopeEngine, "x", 0)
	assert.Zero(t, sp.End(""))
	_, ctx := trace.StartSpan(context.Background(), trace.ScopeEngine, "y")
	assert.Equal(t, trace.SpanContext{}, trace.CurrentSpan(ctx))
}

func TestParse(t *testing.T) {
	lvl, err := trace.ParseLevel("Detail")
	require.NoError(t, err)
	assert.Equal(t, trace.LevelDetail, lvl)
	_, err = trace.ParseLevel("loud")
	assert.Error(t, err)

	f, err := trace.ParseFormat("ndjson")
	require.NoError(t, err)
	assert.Equal(t, trace.FormatNDJSON, f)
}

func TestCandidateAttribution(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	root, rctx := trace.StartSpan(ctx, trace.ScopeEngine, "evaluate")
	cctx := trace.WithCandidate(rctx, "c1")
	sp, sctx := trace.StartSpan(cctx, trace.ScopePhase, "check")
	trace.Point(sctx, trace.ScopeUnit, "unit", "demo.A")
	sp.End("")
	root.End("")

	events := ring.Snapshot()
	require.Len(t, events, 5)
	assert.Empty(t, events[0].Candidate)
	for _, ev := range events[1:4] {
		assert.Equal(t, "c1", ev.Candidate, ev.Name)
	}
	assert.Equal(t, root.ID(), events[1].ParentID)
	assert.Equal(t, sp.ID(), events[2].ParentID)
	assert.Equal(t, trace.SpanContext{SpanID: sp.ID(), Candidate: "c1"}, trace.CurrentSpan(sctx))
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].Seq, events[i-1].Seq)
	}

	var text, js bytes.Buffer
	require.NoError(t, ring.Dump(&text, trace.FormatText))
	assert.Contains(t, text.String(), "[c1]")
	require.NoError(t, ring.Dump(&js, trace.FormatNDJSON))
	var first, second map[string]any
	dec := json.NewDecoder(&js)
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.NotContains(t, first, "candidate")
	assert.Equal(t, "c1", second["candidate"])
}

func TestSpanEndsOnce(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	sp := trace.Begin(ring, trace.ScopeEngine, "load", 0)
	sp.End("")
	assert.Zero(t, sp.End("again"))
	assert.Len(t, ring.Snapshot(), 2)
}

func TestLevels(t *testing.T) {
	cases := []struct {
		level trace.Level
		scope trace.Scope
		want  bool
	}{
		{trace.LevelOff, trace.ScopeEngine, false},
		{trace.LevelError, trace.ScopeEngine, false},
		{trace.LevelPhase, trace.ScopePhase, true},
		{trace.LevelPhase, trace.ScopeUnit, false},
		{trace.LevelDetail, trace.ScopeUnit, true},
		{trace.LevelDetail, trace.ScopeMethod, false},
		{trace.LevelDebug, trace.ScopeMethod, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.level.ShouldEmit(c.scope), "%s/%s", c.level, c.scope)
	}
	assert.Equal(t, "detail", trace.LevelDetail.String())
}

func TestHeartbeat(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelError)
	hb := trace.StartHeartbeat(ring, time.Millisecond)
	require.NotNil(t, hb)
	require.Eventually(t, func() bool { return len(ring.Snapshot()) >= 2 }, time.Second, time.Millisecond)
	hb.Stop()
	hb.Stop()

	events := ring.Snapshot()
	assert.Equal(t, trace.KindHeartbeat, events[0].Kind)
	assert.Equal(t, "#1", events[0].Detail)
	assert.NotEmpty(t, events[0].Extra["goroutines"])

	assert.Nil(t, trace.StartHeartbeat(trace.Nop, time.Millisecond))
	var none *trace.Heartbeat
	none.Stop()
}

func TestNew(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelOff})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())

	tr, err = trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeRing, RingSize: 4})
	require.NoError(t, err)
	assert.IsType(t, &trace.RingTracer{}, tr)

	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err = trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeBoth, OutputPath: path})
	require.NoError(t, err)
	assert.IsType(t, &trace.MultiTracer{}, tr)
	trace.Begin(tr, trace.ScopeEngine, "compile", 0).End("")
	require.NoError(t, tr.Close())

	var ev map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bytes.SplitN(data, []byte("\n"), 2)[0], &ev))
	assert.Equal(t, "compile", ev["name"])

	_, err = trace.New(trace.Config{Level: trace.LevelPhase})
	assert.Error(t, err)
	_, err = trace.ParseMode("disk")
	assert.Error(t, err)
	m, err := trace.ParseMode("Both")
	require.NoError(t, err)
	assert.Equal(t, "both", m.String())
}
