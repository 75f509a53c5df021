package compiler

import (
	"mend/internal/bytecode"
	"mend/internal/diag"
	"mend/internal/source"
	"mend/internal/trace"
	"mend/internal/tree"
)

// fn — состояние проверки и генерации одного тела метода.
type fn struct {
	s      *session
	ci     *classInfo
	u      *unitInfo
	t      *tree.Tree
	name   string
	static bool
	result Type
	e      emitter

	scopes []map[string]*local
	locals []*local // by slot
	// definite assignment: assigned[slot]; reachable == false means the
	// current point cannot be reached and every local counts as assigned.
	assigned  []bool
	reachable bool
	loops     []*loop
}

type local struct {
	name string
	typ  Type
	slot int
}

type loop struct {
	breaks    []int
	continues []int
	broke     bool
}

func (s *session) check() error {
	for _, ci := range s.order {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		sp, ctx := trace.StartSpan(s.ctx, trace.ScopeUnit, "class:"+ci.name)
		s.checkInitializers(ci, false)
		s.checkInitializers(ci, true)
		for _, mi := range ci.methods {
			msp, _ := trace.StartSpan(ctx, trace.ScopeMethod, "method:"+ci.name+"."+mi.name)
			s.checkMethod(ci, mi)
			msp.End("")
		}
		sp.End("")
	}
	return nil
}

func (s *session) newFn(ci *classInfo, name string, static bool, result Type) *fn {
	f := &fn{
		s:         s,
		ci:        ci,
		u:         ci.unit,
		t:         ci.unit.tree,
		name:      name,
		static:    static,
		result:    result,
		e:         emitter{unit: ci.unit.unit},
		reachable: true,
	}
	f.push()
	if !static {
		f.declare("this", Type(ci.name), true)
	}
	return f
}

// checkInitializers builds <init> or <clinit> from field initializers in
// declaration order.
func (s *session) checkInitializers(ci *classInfo, static bool) {
	name := bytecode.InitMethod
	if static {
		name = bytecode.ClinitMethod
	}
	m := ci.class.Method(name)
	if m == nil {
		return
	}
	f := s.newFn(ci, name, static, Void)
	declSpan := f.t.Span(ci.node)
	for _, fi := range ci.fields {
		if fi.static != static || fi.init == tree.NoNode {
			continue
		}
		if !static {
			f.e.emit(bytecode.OpLoad, 0, fi.span)
		}
		vt := f.value(fi.init)
		f.checkAssignable(fi.typ, vt, f.t.Span(fi.init))
		if static {
			f.e.emit(bytecode.OpPutStatic, f.fieldRef(ci.name, fi.name, fi.typ), fi.span)
		} else {
			f.e.emit(bytecode.OpPutField, f.str(fi.name), fi.span)
		}
	}
	f.e.emit(bytecode.OpReturn, 0, source.Span{Unit: declSpan.Unit, Start: declSpan.End, End: declSpan.End})
	f.finish(m, declSpan)
}

func (s *session) checkMethod(ci *classInfo, mi *methodInfo) {
	f := s.newFn(ci, mi.name, mi.static, mi.result)
	for _, p := range mi.params {
		f.declare(p.name, p.typ, true)
	}
	f.block(mi.body, false)

	bodySpan := f.t.Span(mi.body)
	closing := source.Span{Unit: bodySpan.Unit, Start: bodySpan.End - 1, End: bodySpan.End}
	if f.reachable {
		if mi.result == Void {
			f.e.emit(bytecode.OpReturn, 0, closing)
		} else {
			if mi.result != Invalid {
				f.errorf(diag.SemaMissingReturn, closing, "missing return statement")
			}
			f.e.emit(bytecode.OpNull, 0, closing)
			f.e.emit(bytecode.OpReturnValue, 0, closing)
		}
	}
	f.finish(&ci.class.Methods[mi.index], f.t.Span(mi.node))
}

func (f *fn) finish(m *bytecode.Method, sp source.Span) {
	if len(f.e.code) > maxCodeLen {
		f.errorf(diag.GenCodeTooLarge, sp, "code too large for method %s", f.name)
	}
	m.Code = f.e.code
	m.MaxLocals = len(f.locals)
}

func (f *fn) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	f.s.errorf(f.u, code, sp, format, args...)
}

func (f *fn) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	f.s.warnf(f.u, code, sp, format, args...)
}

func (f *fn) str(s string) int64 { return f.ci.class.Pool.Intern(s) }

func (f *fn) fieldRef(class, name string, typ Type) int64 {
	return f.ci.class.Pool.InternRef(bytecode.Ref{Class: class, Name: name, Result: string(typ), Field: true})
}

func (f *fn) methodRef(class string, m *bytecode.Method) int64 {
	return f.ci.class.Pool.InternRef(bytecode.Ref{Class: class, Name: m.Name, Params: m.Params, Result: m.Result})
}

// --- scopes ---

func (f *fn) push() { f.scopes = append(f.scopes, make(map[string]*local)) }
func (f *fn) pop()  { f.scopes = f.scopes[:len(f.scopes)-1] }

func (f *fn) declare(name string, typ Type, assigned bool) *local {
	l := &local{name: name, typ: typ, slot: len(f.locals)}
	f.locals = append(f.locals, l)
	f.assigned = append(f.assigned, assigned)
	f.scopes[len(f.scopes)-1][name] = l
	return l
}

// temp allocates an unnamed slot.
func (f *fn) temp(typ Type) int64 {
	l := &local{typ: typ, slot: len(f.locals)}
	f.locals = append(f.locals, l)
	f.assigned = append(f.assigned, true)
	return int64(l.slot)
}

func (f *fn) lookupLocal(name string) *local {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if l, ok := f.scopes[i][name]; ok {
			return l
		}
	}
	return nil
}

func (f *fn) isAssigned(l *local) bool {
	return !f.reachable || f.assigned[l.slot]
}

func (f *fn) markAssigned(l *local) {
	f.assigned[l.slot] = true
}

// flow state saved across branches
type flow struct {
	assigned  []bool
	reachable bool
}

func (f *fn) save() flow {
	return flow{assigned: append([]bool(nil), f.assigned...), reachable: f.reachable}
}

func (f *fn) restore(st flow) {
	n := len(f.assigned)
	f.assigned = append(f.assigned[:0], st.assigned...)
	// слоты, объявленные после save, остались вне области видимости
	for len(f.assigned) < n {
		f.assigned = append(f.assigned, true)
	}
	f.reachable = st.reachable
}

// merge joins two flow states: a location is assigned after the join only
// if it is assigned on every reachable incoming path.
func merge(a, b flow) flow {
	switch {
	case !a.reachable && !b.reachable:
		return flow{assigned: a.assigned, reachable: false}
	case !a.reachable:
		return b
	case !b.reachable:
		return a
	}
	n := min(len(a.assigned), len(b.assigned))
	out := make([]bool, n)
	for i := range out {
		out[i] = a.assigned[i] && b.assigned[i]
	}
	return flow{assigned: out, reachable: true}
}
