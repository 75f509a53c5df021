// Package engine is the boundary of the compile-and-compare core: it owns
// submitted candidates and answers diff, compile and load requests for
// them. An Engine is safe for concurrent use.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"mend/internal/compiler"
	"mend/internal/config"
	"mend/internal/gen"
	_ "mend/internal/gen/javagen" // registers java-mend
	"mend/internal/source"
	"mend/internal/trace"
	"mend/internal/tree"
)

// CandidateID identifies a submitted candidate.
type CandidateID string

var (
	// ErrUnknownCandidate is returned for ids that were never submitted or
	// were released.
	ErrUnknownCandidate = errors.New("unknown candidate")
	// ErrNoBaseline is returned by BaselineID before Baseline was called.
	ErrNoBaseline = errors.New("no baseline candidate")
)

// Engine holds candidates and the shared classpath.
type Engine struct {
	cfg      config.Config
	reg      *gen.Registry
	cp       *compiler.ClassPath
	log      zerolog.Logger
	tracer   trace.Tracer
	progress ProgressSink
	cpSet    bool

	mu         sync.RWMutex
	candidates map[CandidateID]*candidate
	baseline   CandidateID
}

// Option configures New.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithRegistry replaces the process-wide generator registry.
func WithRegistry(r *gen.Registry) Option { return func(e *Engine) { e.reg = r } }

// WithTracer attaches t to every request context.
func WithTracer(t trace.Tracer) Option { return func(e *Engine) { e.tracer = t } }

// WithClassPath uses cp instead of compiling cfg.Compile.ClassPath.
func WithClassPath(cp *compiler.ClassPath) Option {
	return func(e *Engine) { e.cp, e.cpSet = cp, true }
}

// New validates cfg and compiles the classpath once.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:        cfg,
		reg:        gen.Default(),
		log:        zerolog.Nop(),
		candidates: make(map[CandidateID]*candidate),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.cpSet {
		cp, err := e.buildClassPath(ctx)
		if err != nil {
			return nil, err
		}
		e.cp = cp
	}
	e.log.Debug().Int("classes", e.cp.Len()).Msg("engine ready")
	return e, nil
}

// buildClassPath reads every classpath directory in parallel and compiles
// them as one library session.
func (e *Engine) buildClassPath(ctx context.Context) (*compiler.ClassPath, error) {
	dirs := e.cfg.ClassPathDirs()
	if len(dirs) == 0 {
		return nil, nil
	}
	ctx = e.context(ctx)
	span, ctx := trace.StartSpan(ctx, trace.ScopeEngine, "classpath")
	defer span.End("")

	units := make([][]*source.Unit, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			us, err := compiler.ReadSources(os.DirFS(dir), e.cfg.Compile.Pattern)
			if err != nil {
				return fmt.Errorf("classpath %s: %w", dir, err)
			}
			units[i] = us
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var all []*source.Unit
	for _, us := range units {
		all = append(all, us...)
	}
	if len(all) == 0 {
		e.log.Warn().Strs("dirs", dirs).Msg("classpath has no sources")
		return nil, nil
	}
	opts := e.cfg.CompileOptions()
	opts.Compress = false
	cp, err := compiler.BuildClassPath(ctx, all, opts)
	if err != nil {
		return nil, fmt.Errorf("classpath: %w", err)
	}
	return cp, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// ClassPath returns the shared library classes; nil when there are none.
func (e *Engine) ClassPath() *compiler.ClassPath { return e.cp }

// candidate is one submitted program variant: its own store plus cached
// compile result and trees.
type candidate struct {
	id      CandidateID
	primary string // qualified name of the submitted unit
	store   *source.Store
	log     zerolog.Logger

	mu     sync.Mutex
	result *compiler.Result
	trees  map[source.UnitID]*tree.Tree
}

// SubmitCandidate stores sourceText as unit qualifiedName of a new
// candidate and returns its id.
func (e *Engine) SubmitCandidate(qualifiedName, sourceText string) (CandidateID, error) {
	if err := checkName(qualifiedName); err != nil {
		return "", err
	}
	id := CandidateID(uuid.NewString())
	c := &candidate{
		id:      id,
		primary: qualifiedName,
		store:   source.NewStore(),
		log:     e.log.With().Str("candidate", string(id)).Str("unit", qualifiedName).Logger(),
		trees:   make(map[source.UnitID]*tree.Tree),
	}
	u := c.store.AddSource(qualifiedName, sourceText)

	e.mu.Lock()
	e.candidates[id] = c
	e.mu.Unlock()
	c.log.Debug().Uint32("bytes", u.Len()).Msg("candidate submitted")
	return id, nil
}

// AddUnit adds another unit to candidate id, or a new version of an
// existing one. Cached results are dropped.
func (e *Engine) AddUnit(id CandidateID, qualifiedName, sourceText string) error {
	if err := checkName(qualifiedName); err != nil {
		return err
	}
	c, err := e.get(id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.AddSource(qualifiedName, sourceText)
	c.result = nil
	c.log.Debug().Str("added", qualifiedName).Int("versions", c.store.Len()).Msg("unit added")
	return nil
}

// Unit returns the latest version of the candidate's submitted unit.
func (e *Engine) Unit(id CandidateID) (*source.Unit, error) {
	c, err := e.get(id)
	if err != nil {
		return nil, err
	}
	u, _ := c.store.Lookup(c.primary)
	return u, nil
}

// Units returns the latest version of every unit of candidate id.
func (e *Engine) Units(id CandidateID) ([]*source.Unit, error) {
	c, err := e.get(id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Latest(), nil
}

// Candidates lists the ids currently held, in no particular order.
func (e *Engine) Candidates() []CandidateID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]CandidateID, 0, len(e.candidates))
	for id := range e.candidates {
		out = append(out, id)
	}
	return out
}

// Baseline marks id as the candidate every Evaluate report is diffed against.
func (e *Engine) Baseline(id CandidateID) error {
	if _, err := e.get(id); err != nil {
		return err
	}
	e.mu.Lock()
	e.baseline = id
	e.mu.Unlock()
	return nil
}

// BaselineID returns the current baseline.
func (e *Engine) BaselineID() (CandidateID, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.baseline == "" {
		return "", ErrNoBaseline
	}
	return e.baseline, nil
}

// Release drops a candidate. Load contexts already handed out stay usable.
func (e *Engine) Release(id CandidateID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.candidates[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCandidate, id)
	}
	delete(e.candidates, id)
	if e.baseline == id {
		e.baseline = ""
	}
	c.log.Debug().Msg("candidate released")
	return nil
}

func (e *Engine) get(id CandidateID) (*candidate, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.candidates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCandidate, id)
	}
	return c, nil
}

func (e *Engine) context(ctx context.Context) context.Context {
	if e.tracer != nil {
		return trace.WithTracer(ctx, e.tracer)
	}
	return ctx
}

func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") || strings.Contains(name, "..") {
		return fmt.Errorf("engine: invalid qualified name %q", name)
	}
	return nil
}
