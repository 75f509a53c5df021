package compiler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mend/internal/bytecode"
	"mend/internal/diag"
	"mend/internal/parser"
	"mend/internal/source"
	"mend/internal/trace"
	"mend/internal/tree"
)

// ErrNoUnits is returned when Compile is called without sources.
var ErrNoUnits = errors.New("compiler: no source units")

// Compile runs one in-memory compilation session over units. Compile
// errors are reported in the Result; the error return is reserved for
// cancellation and precondition faults.
func Compile(ctx context.Context, units []*source.Unit, cp *ClassPath, opts Options) (*Result, error) {
	res, _, err := compile(ctx, units, cp, opts)
	return res, err
}

type session struct {
	ctx     context.Context
	opts    Options
	cp      *ClassPath
	bag     *diag.Bag
	inputs  []*source.Unit
	units   []*unitInfo
	classes map[string]*classInfo // simple name
	order   []*classInfo
}

type unitInfo struct {
	unit    *source.Unit
	tree    *tree.Tree
	pkg     string
	imports []string
}

type classInfo struct {
	name  string
	unit  *unitInfo
	node  tree.NodeID
	class *bytecode.Class

	fields  []*fieldInfo
	methods []*methodInfo
}

type fieldInfo struct {
	name   string
	typ    Type
	static bool
	init   tree.NodeID // NoNode when absent
	span   source.Span
}

type methodInfo struct {
	index  int // in classInfo.class.Methods
	name   string
	params []paramInfo
	result Type
	static bool
	node   tree.NodeID
	body   tree.NodeID
}

type paramInfo struct {
	name string
	typ  Type
	span source.Span
}

func compile(ctx context.Context, units []*source.Unit, cp *ClassPath, opts Options) (*Result, []*bytecode.Class, error) {
	if len(units) == 0 {
		return nil, nil, ErrNoUnits
	}
	for i, u := range units {
		if u == nil {
			return nil, nil, fmt.Errorf("compiler: unit %d is nil", i)
		}
	}
	if opts.Tracer != nil {
		ctx = trace.WithTracer(ctx, opts.Tracer)
	}
	s := &session{
		ctx:     ctx,
		opts:    opts,
		cp:      cp,
		bag:     diag.NewBag(opts.MaxDiagnostics),
		inputs:  units,
		classes: make(map[string]*classInfo),
	}

	span, ctx := trace.StartSpan(ctx, trace.ScopePhase, "compile")
	s.ctx = ctx
	defer span.End("")

	phases := []struct {
		name string
		run  func() error
	}{
		{"parse", s.parse},
		{"declare", s.declare},
		{"check", s.check},
	}
	for _, ph := range phases {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		sp, _ := trace.StartSpan(ctx, trace.ScopePhase, ph.name)
		err := ph.run()
		sp.WithExtra("diagnostics", strconv.Itoa(s.bag.Len())).End("")
		if err != nil {
			return nil, nil, err
		}
		// синтаксические ошибки останавливают сессию, как у javac
		if ph.name == "parse" && s.bag.HasErrors() {
			break
		}
	}

	res := &Result{Diagnostics: s.bag.Snapshot()}
	sortDiagnostics(res.Diagnostics)
	if s.bag.HasErrors() {
		span.WithExtra("success", "false")
		return res, nil, nil
	}

	sp, _ := trace.StartSpan(ctx, trace.ScopePhase, "encode")
	defer sp.End("")
	res.Artifacts = make(map[string][]byte, len(s.order))
	classes := make([]*bytecode.Class, 0, len(s.order))
	for _, ci := range s.order {
		if err := bytecode.Verify(ci.class); err != nil {
			// генератор выдал неверный код: это ошибка компилятора, не кандидата
			return nil, nil, fmt.Errorf("compiler: internal error: %w", err)
		}
		data, err := bytecode.Encode(ci.class, bytecode.EncodeOptions{Compress: opts.Compress})
		if err != nil {
			return nil, nil, err
		}
		res.Artifacts[ci.class.QualifiedName()] = data
		classes = append(classes, ci.class)
	}
	res.Success = true
	span.WithExtra("success", "true")
	return res, classes, nil
}

func (s *session) parse() error {
	for _, u := range s.inputs {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		sp, _ := trace.StartSpan(s.ctx, trace.ScopeUnit, "unit:"+u.QualifiedName)
		bag := diag.NewBag(0)
		res := parser.Parse(u, parser.Options{Reporter: diag.Dedup(diag.BagReporter{Bag: bag})})
		for _, d := range bag.Items() {
			s.bag.Add(d.Resolve(u))
		}
		sp.End("")
		s.units = append(s.units, &unitInfo{unit: u, tree: res.Tree})
	}
	return nil
}
