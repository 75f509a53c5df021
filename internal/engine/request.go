package engine

import (
	"context"
	"strconv"

	"mend/internal/compiler"
	"mend/internal/diff"
	"mend/internal/source"
	"mend/internal/trace"
	"mend/internal/tree"
	"mend/internal/vm"
)

// RequestDiff parses the submitted units of a and b with the registered
// generators and returns the edit script turning a into b. Parse failures
// are *gen.ParseError, a missing generator is *gen.NotFoundError.
func (e *Engine) RequestDiff(a, b CandidateID) (diff.Script, error) {
	src, _, err := e.tree(a)
	if err != nil {
		return nil, err
	}
	dst, _, err := e.tree(b)
	if err != nil {
		return nil, err
	}
	return diff.Diff(src, dst, e.cfg.DiffOptions())
}

// Explain is RequestDiff with every action described against the units.
func (e *Engine) Explain(a, b CandidateID) ([]diff.Explanation, error) {
	src, su, err := e.tree(a)
	if err != nil {
		return nil, err
	}
	dst, du, err := e.tree(b)
	if err != nil {
		return nil, err
	}
	s, err := diff.Diff(src, dst, e.cfg.DiffOptions())
	if err != nil {
		return nil, err
	}
	return diff.Explain(s, src, dst, su, du)
}

// Tree parses the candidate's submitted unit; the tree is cached per
// unit version.
func (e *Engine) Tree(id CandidateID) (*tree.Tree, error) {
	t, _, err := e.tree(id)
	return t, err
}

func (e *Engine) tree(id CandidateID) (*tree.Tree, *source.Unit, error) {
	c, err := e.get(id)
	if err != nil {
		return nil, nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	u, _ := c.store.Lookup(c.primary)
	if t, ok := c.trees[u.ID]; ok {
		return t, u, nil
	}
	t, err := e.reg.Parse(u)
	if err != nil {
		c.log.Debug().Err(err).Msg("parse failed")
		return nil, u, err
	}
	c.trees[u.ID] = t
	return t, u, nil
}

// RequestCompile compiles every unit of the candidate against the shared
// classpath. The result is cached until the candidate changes. The error
// return is reserved for cancellation and unknown ids; compile errors are
// in the Result.
func (e *Engine) RequestCompile(ctx context.Context, id CandidateID) (*compiler.Result, error) {
	c, err := e.get(id)
	if err != nil {
		return nil, err
	}
	return e.compile(e.context(ctx), c)
}

func (e *Engine) compile(ctx context.Context, c *candidate) (*compiler.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result != nil {
		return c.result, nil
	}
	ctx = trace.WithCandidate(ctx, string(c.id))
	span, ctx := trace.StartSpan(ctx, trace.ScopeEngine, "compile:"+string(c.id))
	res, err := compiler.Compile(ctx, c.store.Latest(), e.cp, e.cfg.CompileOptions())
	if err != nil {
		span.End("error")
		return nil, err
	}
	span.WithExtra("diagnostics", strconv.Itoa(len(res.Diagnostics))).End("")
	c.result = res

	ev := c.log.Debug()
	if !res.Success {
		ev = c.log.Info()
	}
	ev.Bool("success", res.Success).Int("diagnostics", len(res.Diagnostics)).Int("classes", len(res.Artifacts)).Msg("compiled")
	return res, nil
}

// RequestLoad compiles the candidate if needed and loads its artifacts in a
// fresh isolated context. Every call returns a new context; the caller
// closes it. A failed compilation is a *vm.LoadError wrapping the
// *compiler.CompilationError.
func (e *Engine) RequestLoad(ctx context.Context, id CandidateID) (*vm.Context, error) {
	c, err := e.get(id)
	if err != nil {
		return nil, err
	}
	ctx = e.context(ctx)
	res, err := e.compile(ctx, c)
	if err != nil {
		return nil, err
	}
	return e.load(ctx, c, res)
}

func (e *Engine) load(ctx context.Context, c *candidate, res *compiler.Result) (*vm.Context, error) {
	span, _ := trace.StartSpan(trace.WithCandidate(ctx, string(c.id)), trace.ScopeEngine, "load:"+string(c.id))
	opts := e.cfg.VMOptions()
	opts.Tracer = e.tracer
	vc, err := vm.Load(res, e.cp, opts)
	if err != nil {
		span.End("error")
		c.log.Info().Err(err).Msg("load failed")
		return nil, err
	}
	span.End("")
	c.log.Debug().Int("classes", vc.Stats().Classes).Msg("loaded")
	return vc, nil
}
