package engine

import (
	"context"
	"errors"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"mend/internal/compiler"
	"mend/internal/diff"
	"mend/internal/observ"
	"mend/internal/trace"
	"mend/internal/vm"
)

// Stage is the last step a candidate reached in Evaluate.
type Stage uint8

const (
	StageCompile Stage = iota + 1
	StageLoad
	StageRun
	StageDiff
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageCompile:
		return "compile"
	case StageLoad:
		return "load"
	case StageRun:
		return "run"
	case StageDiff:
		return "diff"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// EvalFunc exercises a loaded candidate, e.g. runs its tests. The context
// is closed by Evaluate after fn returns.
type EvalFunc func(ctx context.Context, id CandidateID, vc *vm.Context) error

// Report is the outcome of one candidate. Err is nil only when Stage is
// StageDone; otherwise it is the failure of Stage.
type Report struct {
	ID     CandidateID
	Stage  Stage
	Result *compiler.Result
	Script diff.Script // against the baseline; nil without one
	Err    error
	Timing observ.Report
}

// Failed reports whether the candidate stopped early.
func (r Report) Failed() bool { return r.Err != nil }

// Defect reports whether the failure is an internal fault rather than a
// property of the candidate.
func (r Report) Defect() bool { return errors.Is(r.Err, diff.ErrInvalidTree) }

// Evaluate runs compile, load, fn and diff-against-baseline for every id
// with at most cfg.Engine.Jobs candidates in flight. A failing candidate
// never stops the others; each failure lands in its own Report. Reports
// are in ids order. fn may be nil.
func (e *Engine) Evaluate(ctx context.Context, ids []CandidateID, fn EvalFunc) []Report {
	reports := make([]Report, len(ids))
	if len(ids) == 0 {
		return reports
	}
	ctx = e.context(ctx)
	baseline, _ := e.BaselineID()

	jobs := e.cfg.Engine.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, id := range ids {
		e.emit(Event{ID: id, Stage: StageCompile, Status: StatusQueued})
	}
	var g errgroup.Group
	g.SetLimit(min(jobs, len(ids)))
	for i, id := range ids {
		g.Go(func() error {
			// индекс i уникален для горутины, мьютекс не нужен
			reports[i] = e.evaluate(ctx, id, baseline, fn)
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

func (e *Engine) evaluate(ctx context.Context, id, baseline CandidateID, fn EvalFunc) (r Report) {
	r = Report{ID: id, Stage: StageCompile}
	ctx = trace.WithCandidate(ctx, string(id))
	timer := observ.NewTimer()
	start := time.Now()
	defer func() {
		r.Timing = timer.Report()
		ev := Event{ID: id, Stage: r.Stage, Status: StatusDone, Err: r.Err, Elapsed: time.Since(start)}
		if r.Err != nil {
			ev.Status = StatusError
		}
		e.emit(ev)
	}()
	enter := func(s Stage) {
		r.Stage = s
		e.emit(Event{ID: id, Stage: s, Status: StatusWorking})
	}

	c, err := e.get(id)
	if err != nil {
		r.Err = err
		return r
	}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}

	enter(StageCompile)
	err = timer.Time("compile", func() error {
		res, err := e.compile(ctx, c)
		r.Result = res
		if err == nil && !res.Success {
			err = res.Err()
		}
		return err
	})
	if err != nil {
		r.Err = err
		return r
	}

	enter(StageLoad)
	var vc *vm.Context
	err = timer.Time("load", func() error {
		vc, err = e.load(ctx, c, r.Result)
		return err
	})
	if err != nil {
		r.Err = err
		return r
	}

	enter(StageRun)
	if fn != nil {
		err = timer.Time("run", func() error { return fn(ctx, id, vc) })
	}
	_ = vc.Close()
	if err != nil {
		c.log.Info().Err(err).Msg("evaluation failed")
		r.Err = err
		return r
	}

	enter(StageDiff)
	if baseline != "" && baseline != id {
		err = timer.Time("diff", func() error {
			r.Script, err = e.RequestDiff(baseline, id)
			return err
		})
		if err != nil {
			if errors.Is(err, diff.ErrInvalidTree) {
				c.log.Error().Err(err).Msg("generator produced an invalid tree")
			}
			r.Err = err
			return r
		}
	}

	r.Stage = StageDone
	c.log.Debug().Int("actions", len(r.Script)).Msg("evaluated")
	return r
}
