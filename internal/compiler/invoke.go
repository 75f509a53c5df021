package compiler

import (
	"strings"

	"mend/internal/bytecode"
	"mend/internal/diag"
	"mend/internal/source"
	"mend/internal/tree"
)

func (f *fn) invoke(id tree.NodeID) Type {
	kids := f.t.Children(id)
	recv := tree.NoNode
	if len(kids) == 3 {
		recv, kids = kids[0], kids[1:]
	}
	nameID, argsID := kids[0], kids[1]
	name := f.t.Label(nameID)
	sp := f.t.Span(nameID)
	args := f.t.Children(argsID)

	if recv == tree.NoNode {
		m := f.lookupMethod(f.ci.name, name, sp)
		if m == nil {
			return f.abandon(args, sp)
		}
		if !m.Static {
			if f.static {
				f.errorf(diag.SemaStaticContext, sp, "non-static method %s(%s) cannot be referenced from a static context", name, strings.Join(m.Params, ","))
				return f.abandon(args, sp)
			}
			f.e.emit(bytecode.OpLoad, 0, sp)
		}
		return f.call(f.ci.name, m, args, argsID)
	}

	if class, ok := f.classRef(recv); ok {
		if isBuiltinClass(class) {
			return f.builtinStatic(class, name, args, argsID, sp)
		}
		m := f.lookupMethod(class, name, sp)
		if m == nil {
			return f.abandon(args, sp)
		}
		if !m.Static {
			f.errorf(diag.SemaStaticContext, sp, "non-static method %s(%s) cannot be referenced from a static context", name, strings.Join(m.Params, ","))
			return f.abandon(args, sp)
		}
		return f.call(class, m, args, argsID)
	}

	rt := f.value(recv)
	switch {
	case rt == Invalid:
		f.e.emit(bytecode.OpPop, 0, sp)
		return f.abandon(args, sp)
	case rt == String:
		return f.builtinString(name, args, argsID, sp)
	case !rt.IsClass():
		f.errorf(diag.SemaInvalidOperand, sp, "%s cannot be dereferenced", rt)
		f.e.emit(bytecode.OpPop, 0, sp)
		return f.abandon(args, sp)
	}
	m := f.lookupMethod(string(rt), name, sp)
	if m == nil {
		f.e.emit(bytecode.OpPop, 0, sp)
		return f.abandon(args, sp)
	}
	if m.Static {
		f.e.emit(bytecode.OpPop, 0, sp)
	}
	return f.call(string(rt), m, args, argsID)
}

func (f *fn) lookupMethod(class, name string, sp source.Span) *bytecode.Method {
	c, ok := f.s.lookupClass(class)
	var m *bytecode.Method
	if ok && name != bytecode.InitMethod && name != bytecode.ClinitMethod {
		m = c.Method(name)
	}
	if m == nil {
		f.errorf(diag.SemaUnresolvedSymbol, sp, "cannot find symbol: method %s in class %s", name, class)
	}
	return m
}

// abandon evaluates the arguments of a failed call for their diagnostics.
func (f *fn) abandon(args []tree.NodeID, sp source.Span) Type {
	for _, a := range args {
		f.discard(a)
	}
	return f.invalid(sp)
}

// call checks arguments against m and emits the invoke. The receiver, if
// any, is already on the stack.
func (f *fn) call(class string, m *bytecode.Method, args []tree.NodeID, argsID tree.NodeID) Type {
	f.args(class, m.Name, m.Params, args, argsID)
	op := bytecode.OpInvokeVirtual
	if m.Static {
		op = bytecode.OpInvokeStatic
	}
	f.e.emit(op, f.methodRef(class, m), f.t.Span(argsID))
	return Type(m.Result)
}

func (f *fn) args(class, name string, params []string, args []tree.NodeID, argsID tree.NodeID) {
	if len(params) != len(args) {
		f.errorf(diag.SemaArgumentCount, f.t.Span(argsID),
			"method %s in class %s cannot be applied to given types: expected %d arguments, found %d",
			name, class, len(params), len(args))
	}
	for i, a := range args {
		at := f.value(a)
		if i < len(params) {
			f.checkAssignable(Type(params[i]), at, f.t.Span(a))
		}
	}
}

func (f *fn) builtinStatic(class, name string, args []tree.NodeID, argsID tree.NodeID, sp source.Span) Type {
	b, ok := bytecode.LookupBuiltin(class, name)
	if !ok || class != "Math" {
		f.errorf(diag.SemaUnresolvedSymbol, sp, "cannot find symbol: method %s in class %s", name, class)
		return f.abandon(args, sp)
	}
	if len(args) != b.Arity() {
		f.errorf(diag.SemaArgumentCount, f.t.Span(argsID),
			"method %s in class %s cannot be applied to given types: expected %d arguments, found %d",
			name, class, b.Arity(), len(args))
		return f.abandon(args, sp)
	}
	result := Int
	for _, a := range args {
		at := f.value(a)
		switch {
		case at.IsNumeric():
			result = promote(result, at)
		case at != Invalid:
			f.errorf(diag.SemaTypeMismatch, f.t.Span(a), "incompatible types: %s cannot be converted to int", at)
		}
	}
	f.e.emit(bytecode.OpBuiltin, int64(b), sp)
	if b == bytecode.BuiltinMathAbs && result == Int {
		// Math.abs(Integer.MIN_VALUE) остаётся отрицательным
		f.e.emit(bytecode.OpConst, 0, sp)
		f.e.emit(bytecode.OpAdd, width(Int), sp)
	}
	return result
}

// builtinString handles methods on a String receiver already on the stack.
func (f *fn) builtinString(name string, args []tree.NodeID, argsID tree.NodeID, sp source.Span) Type {
	b, ok := bytecode.LookupBuiltin("String", name)
	if !ok {
		f.errorf(diag.SemaUnresolvedSymbol, sp, "cannot find symbol: method %s in class String", name)
		f.e.emit(bytecode.OpPop, 0, sp)
		return f.abandon(args, sp)
	}
	if len(args) != b.Arity()-1 {
		f.errorf(diag.SemaArgumentCount, f.t.Span(argsID),
			"method %s in class String cannot be applied to given types: expected %d arguments, found %d",
			name, b.Arity()-1, len(args))
		f.e.emit(bytecode.OpPop, 0, sp)
		return f.abandon(args, sp)
	}
	for _, a := range args {
		if at := f.value(a); at.IsPrimitive() {
			f.errorf(diag.SemaTypeMismatch, f.t.Span(a), "incompatible types: %s cannot be converted to Object", at)
		}
	}
	f.e.emit(bytecode.OpBuiltin, int64(b), sp)
	return Type(b.Result())
}
