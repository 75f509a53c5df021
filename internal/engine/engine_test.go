package engine_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/compiler"
	"mend/internal/config"
	"mend/internal/diag"
	"mend/internal/diff"
	"mend/internal/engine"
	"mend/internal/gen"
	"mend/internal/trace"
	"mend/internal/vm"
)

const original = `package demo;

public class Calc {
    static int calls;

    public static int add(int a, int b) {
        calls++;
        return a + b;
    }

    public static int count() { return calls; }
}
`

func newEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	e, err := engine.New(context.Background(), config.Default(), opts...)
	require.NoError(t, err)
	return e
}

func submit(t *testing.T, e *engine.Engine, src string) engine.CandidateID {
	t.Helper()
	id, err := e.SubmitCandidate("demo.Calc", src)
	require.NoError(t, err)
	return id
}

func TestSubmitCandidate(t *testing.T) {
	e := newEngine(t)
	a := submit(t, e, original)
	b := submit(t, e, original)
	assert.NotEqual(t, a, b)
	assert.ElementsMatch(t, []engine.CandidateID{a, b}, e.Candidates())

	u, err := e.Unit(a)
	require.NoError(t, err)
	assert.Equal(t, "demo.Calc", u.QualifiedName)
	assert.Equal(t, original, u.String())
	assert.Equal(t, "memo:///demo/Calc.java", u.Path())

	require.NoError(t, e.AddUnit(a, "demo.Util", "package demo;\nclass Util {}\n"))
	units, err := e.Units(a)
	require.NoError(t, err)
	require.Len(t, units, 2)
	_, err = e.Units("nope")
	assert.ErrorIs(t, err, engine.ErrUnknownCandidate)

	for _, bad := range []string{"", ".A", "a..B", "A."} {
		_, err := e.SubmitCandidate(bad, original)
		assert.Error(t, err, bad)
	}
}

func TestRequestDiff(t *testing.T) {
	e := newEngine(t)
	a := submit(t, e, original)
	same := submit(t, e, strings.ReplaceAll(original, "    ", "  "))
	b := submit(t, e, strings.Replace(original, "return a + b;", "return a - b;", 1))

	s, err := e.RequestDiff(a, same)
	require.NoError(t, err)
	assert.Empty(t, s, "layout changes are not edits")

	s, err = e.RequestDiff(a, b)
	require.NoError(t, err)
	require.Len(t, s, 1, "script:\n%s", s)
	assert.Equal(t, diff.OpUpdate, s[0].Op)
	assert.Equal(t, "+", s[0].OldLabel)
	assert.Equal(t, "-", s[0].Label)

	ex, err := e.Explain(a, b)
	require.NoError(t, err)
	require.Len(t, ex, 1)
	assert.Equal(t, "demo.Calc", ex[0].Unit)
	assert.Equal(t, uint32(8), ex[0].Line)

	src, err := e.Tree(a)
	require.NoError(t, err)
	again, err := e.Tree(a)
	require.NoError(t, err)
	assert.Same(t, src, again, "trees are cached per unit version")
}

func TestRequestDiffErrors(t *testing.T) {
	e := newEngine(t)
	good := submit(t, e, original)
	broken := submit(t, e, "class A { int f( { }")

	_, err := e.RequestDiff(good, broken)
	var pe *gen.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "demo.Calc", pe.Unit)
	assert.NotZero(t, pe.Line)

	_, err = e.RequestDiff(good, "nope")
	assert.ErrorIs(t, err, engine.ErrUnknownCandidate)

	empty := gen.NewRegistry()
	e2 := newEngine(t, engine.WithRegistry(empty))
	id := submit(t, e2, original)
	_, err = e2.RequestDiff(id, id)
	var nf *gen.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.ErrorIs(t, err, gen.ErrNotFound)
}

func TestRequestCompile(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	id := submit(t, e, original)

	res, err := e.RequestCompile(ctx, id)
	require.NoError(t, err)
	require.True(t, res.Success, diag.FormatShort(res.Diagnostics))
	assert.Equal(t, []string{"demo.Calc"}, res.Classes())

	again, err := e.RequestCompile(ctx, id)
	require.NoError(t, err)
	assert.Same(t, res, again)

	require.NoError(t, e.AddUnit(id, "demo.Helper", "package demo;\nclass Helper { static int one() { return 1; } }\n"))
	res2, err := e.RequestCompile(ctx, id)
	require.NoError(t, err)
	assert.NotSame(t, res, res2)
	assert.Equal(t, []string{"demo.Calc", "demo.Helper"}, res2.Classes())

	bad := submit(t, e, strings.Replace(original, "return a + b;", "return a + c;", 1))
	res, err = e.RequestCompile(ctx, bad)
	require.NoError(t, err, "compile errors are reported in the result")
	require.False(t, res.Success)
	assert.Empty(t, res.Artifacts)
	errs := res.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, diag.SemaUnresolvedSymbol, errs[0].Code)
	assert.Equal(t, uint32(8), errs[0].Line)
	assert.Equal(t, uint32(20), errs[0].Column)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	fresh := submit(t, e, original)
	_, err = e.RequestCompile(canceled, fresh)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestLoad(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	id := submit(t, e, original)

	first, err := e.RequestLoad(ctx, id)
	require.NoError(t, err)
	defer first.Close()
	second, err := e.RequestLoad(ctx, id)
	require.NoError(t, err)
	defer second.Close()

	v, err := first.Invoke(ctx, "Calc", "add", vm.Int(2), vm.Int(3))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.I)
	_, err = first.Invoke(ctx, "Calc", "add", vm.Int(1), vm.Int(1))
	require.NoError(t, err)

	n, err := first.Invoke(ctx, "demo.Calc", "count")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n.I)
	n, err = second.Invoke(ctx, "demo.Calc", "count")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n.I, "statics are per load context")

	bad := submit(t, e, "package demo;\nclass Calc { int f() { } }\n")
	_, err = e.RequestLoad(ctx, bad)
	var le *vm.LoadError
	require.ErrorAs(t, err, &le)
	var ce *compiler.CompilationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, diag.SemaMissingReturn, ce.First.Code)
}

func TestClassPathFromConfig(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib", "util")
	require.NoError(t, os.MkdirAll(lib, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(lib, "Twice.java"),
		[]byte("package util;\npublic class Twice { public static int of(int x) { return x * 2; } }\n"), 0o644))

	cfg := config.Default()
	cfg.Root = dir
	cfg.Compile.ClassPath = []string{"lib"}
	e, err := engine.New(ctx, cfg)
	require.NoError(t, err)
	require.Equal(t, 1, e.ClassPath().Len())

	id, err := e.SubmitCandidate("demo.Use", "package demo;\nimport util.Twice;\nclass Use { static int f() { return Twice.of(21); } }\n")
	require.NoError(t, err)
	vc, err := e.RequestLoad(ctx, id)
	require.NoError(t, err)
	defer vc.Close()
	v, err := vc.Invoke(ctx, "Use", "f")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.I)

	require.NoError(t, os.WriteFile(filepath.Join(lib, "Bad.java"), []byte("class Bad { int f() { return x; } }"), 0o644))
	_, err = engine.New(ctx, cfg)
	var ce *compiler.CompilationError
	require.ErrorAs(t, err, &ce)

	cfg.Diff.SimThreshold = 2
	_, err = engine.New(ctx, cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Engine.Jobs = 2
	e, err := engine.New(ctx, cfg)
	require.NoError(t, err)

	base := submit(t, e, original)
	require.NoError(t, e.Baseline(base))
	fixed := submit(t, e, strings.Replace(original, "return a + b;", "return b + a;", 1))
	wrong := submit(t, e, strings.Replace(original, "return a + b;", "return a * b;", 1))
	broken := submit(t, e, strings.Replace(original, "return a + b;", "return a + ;", 1))

	errWrong := errors.New("add(2, 3) != 5")
	check := func(ctx context.Context, id engine.CandidateID, vc *vm.Context) error {
		v, err := vc.Invoke(ctx, "Calc", "add", vm.Int(2), vm.Int(3))
		if err != nil {
			return err
		}
		if v.I != 5 {
			return errWrong
		}
		return nil
	}

	ids := []engine.CandidateID{base, fixed, wrong, broken, "missing"}
	reports := e.Evaluate(ctx, ids, check)
	require.Len(t, reports, len(ids))
	for i, r := range reports {
		assert.Equal(t, ids[i], r.ID)
	}

	assert.Equal(t, engine.StageDone, reports[0].Stage)
	assert.NoError(t, reports[0].Err)
	assert.Nil(t, reports[0].Script, "the baseline is not diffed against itself")

	assert.Equal(t, engine.StageDone, reports[1].Stage)
	require.NoError(t, reports[1].Err)
	assert.NotEmpty(t, reports[1].Script)
	_, ok := reports[1].Timing.Stage("compile")
	assert.True(t, ok)
	_, ok = reports[1].Timing.Stage("diff")
	assert.True(t, ok)

	assert.Equal(t, engine.StageRun, reports[2].Stage)
	assert.ErrorIs(t, reports[2].Err, errWrong)

	assert.Equal(t, engine.StageCompile, reports[3].Stage)
	var ce *compiler.CompilationError
	require.ErrorAs(t, reports[3].Err, &ce)
	assert.Equal(t, diag.SynExpectExpression, ce.First.Code)
	require.NotNil(t, reports[3].Result)
	assert.False(t, reports[3].Result.Success)

	assert.ErrorIs(t, reports[4].Err, engine.ErrUnknownCandidate)
	for _, r := range reports {
		assert.False(t, r.Defect())
	}
}

func TestEvaluateRuntimePanic(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	id := submit(t, e, "package demo;\nclass Calc { static int div(int a, int b) { return a / b; } }\n")
	reports := e.Evaluate(ctx, []engine.CandidateID{id}, func(ctx context.Context, _ engine.CandidateID, vc *vm.Context) error {
		_, err := vc.Invoke(ctx, "Calc", "div", vm.Int(1), vm.Int(0))
		return err
	})
	require.Len(t, reports, 1)
	var vmErr *vm.VMError
	require.ErrorAs(t, reports[0].Err, &vmErr)
	assert.Equal(t, vm.PanicDivisionByZero, vmErr.Code)
	assert.Equal(t, engine.StageRun, reports[0].Stage)
	assert.True(t, reports[0].Failed())

	assert.Empty(t, e.Evaluate(ctx, nil, nil))
}

func TestEvaluateConcurrentRequests(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	ids := make([]engine.CandidateID, 16)
	for i := range ids {
		ids[i] = submit(t, e, original)
	}
	var wg sync.WaitGroup
	for range 4 {
		wg.Go(func() {
			for _, r := range e.Evaluate(ctx, ids, nil) {
				assert.NoError(t, r.Err)
			}
		})
	}
	wg.Wait()
}

func TestBaselineAndRelease(t *testing.T) {
	e := newEngine(t)
	_, err := e.BaselineID()
	assert.ErrorIs(t, err, engine.ErrNoBaseline)

	id := submit(t, e, original)
	assert.ErrorIs(t, e.Baseline("nope"), engine.ErrUnknownCandidate)
	require.NoError(t, e.Baseline(id))
	got, err := e.BaselineID()
	require.NoError(t, err)
	assert.Equal(t, id, got)

	vc, err := e.RequestLoad(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, e.Release(id))
	assert.ErrorIs(t, e.Release(id), engine.ErrUnknownCandidate)
	_, err = e.RequestCompile(context.Background(), id)
	assert.ErrorIs(t, err, engine.ErrUnknownCandidate)
	_, err = e.BaselineID()
	assert.ErrorIs(t, err, engine.ErrNoBaseline)

	_, err = vc.Invoke(context.Background(), "Calc", "count")
	assert.NoError(t, err, "released candidates keep their load contexts")
	require.NoError(t, vc.Close())
}

func TestLoggingAndTracing(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ring := trace.NewRingTracer(256, trace.LevelPhase)
	e := newEngine(t, engine.WithLogger(log), engine.WithTracer(ring))

	id := submit(t, e, original)
	_, err := e.RequestLoad(context.Background(), id)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"candidate":"`+string(id)+`"`)
	assert.Contains(t, out, `"unit":"demo.Calc"`)
	assert.Contains(t, out, `"message":"compiled"`)

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
			if strings.HasSuffix(ev.Name, ":"+string(id)) || ev.Name == "check" {
				assert.Equal(t, string(id), ev.Candidate, ev.Name)
			}
		}
	}
	assert.Contains(t, names, "compile:"+string(id))
	assert.Contains(t, names, "load:"+string(id))
	assert.Contains(t, names, "check")
}

type recordingSink struct {
	mu     sync.Mutex
	events []engine.Event
}

func (s *recordingSink) OnEvent(ev engine.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) of(id engine.CandidateID) []engine.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []engine.Event
	for _, ev := range s.events {
		if ev.ID == id {
			out = append(out, ev)
		}
	}
	return out
}

func TestEvaluateProgress(t *testing.T) {
	sink := &recordingSink{}
	e := newEngine(t, engine.WithProgress(sink))
	ok := submit(t, e, original)
	bad := submit(t, e, strings.Replace(original, "return a + b;", "return a + c;", 1))

	e.Evaluate(context.Background(), []engine.CandidateID{ok, bad}, nil)

	var got []string
	for _, ev := range sink.of(ok) {
		got = append(got, ev.Stage.String()+"/"+string(ev.Status))
	}
	assert.Equal(t, []string{"compile/queued", "compile/working", "load/working", "run/working", "diff/working", "done/done"}, got)

	evs := sink.of(bad)
	require.Len(t, evs, 3)
	last := evs[len(evs)-1]
	assert.Equal(t, engine.StatusError, last.Status)
	assert.Equal(t, engine.StageCompile, last.Stage)
	assert.Error(t, last.Err)
	assert.Greater(t, last.Elapsed, time.Duration(0))
}

func TestChannelSink(t *testing.T) {
	ch := make(chan engine.Event, 1)
	engine.ChannelSink{Ch: ch}.OnEvent(engine.Event{ID: "x"})
	assert.Equal(t, engine.CandidateID("x"), (<-ch).ID)
	engine.ChannelSink{}.OnEvent(engine.Event{})
}
