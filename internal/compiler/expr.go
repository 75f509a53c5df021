package compiler

import (
	"golang.org/x/text/unicode/norm"

	"mend/internal/bytecode"
	"mend/internal/diag"
	"mend/internal/lexer"
	"mend/internal/parser"
	"mend/internal/source"
	"mend/internal/tree"
)

// value checks an expression whose result is used.
func (f *fn) value(id tree.NodeID) Type {
	typ := f.expr(id)
	if typ == Void {
		f.errorf(diag.SemaVoidValue, f.t.Span(id), "'void' type not allowed here")
		f.e.emit(bytecode.OpNull, 0, f.t.Span(id)) // держим стек сбалансированным
		return Invalid
	}
	return typ
}

func (f *fn) checkAssignable(to, from Type, sp source.Span) {
	if !assignable(to, from) {
		f.errorf(diag.SemaTypeMismatch, sp, "incompatible types: %s cannot be converted to %s", from, to)
	}
}

// expr checks id, emits code leaving its value (none for void) and returns its type.
func (f *fn) expr(id tree.NodeID) Type {
	t := f.t
	sp := t.Span(id)
	kids := t.Children(id)
	switch t.Type(id) {
	case parser.NumberLiteral:
		return f.number(id, false)
	case parser.StringLiteral:
		f.e.emit(bytecode.OpStr, f.str(norm.NFC.String(lexer.Unquote(t.Label(id)))), sp) // строки храним в NFC
		return String
	case parser.BooleanLiteral:
		if t.Label(id) == "true" {
			f.e.emit(bytecode.OpTrue, 0, sp)
		} else {
			f.e.emit(bytecode.OpFalse, 0, sp)
		}
		return Boolean
	case parser.NullLiteral:
		f.e.emit(bytecode.OpNull, 0, sp)
		return Null
	case parser.ThisExpression:
		if f.static {
			f.errorf(diag.SemaStaticContext, sp, "non-static variable this cannot be referenced from a static context")
			f.e.emit(bytecode.OpNull, 0, sp)
			return Invalid
		}
		f.e.emit(bytecode.OpLoad, 0, sp)
		return Type(f.ci.name)
	case parser.ParenthesizedExpression:
		return f.expr(kids[0])
	case parser.SimpleName:
		return f.nameExpr(id)
	case parser.FieldAccess:
		return f.fieldAccess(id)
	case parser.MethodInvocation:
		return f.invoke(id)
	case parser.ClassInstanceCreation:
		return f.newInstance(id)
	case parser.Assignment:
		return f.assign(id, true)
	case parser.PrefixExpression:
		return f.prefix(id)
	case parser.PostfixExpression:
		return f.incDec(id, true)
	case parser.InfixExpression:
		return f.infix(id)
	case parser.ConditionalExpression:
		return f.conditional(id)
	}
	f.errorf(diag.SemaError, sp, "unsupported expression %s", t.Type(id))
	f.e.emit(bytecode.OpNull, 0, sp)
	return Invalid
}

func (f *fn) number(id tree.NodeID, neg bool) Type {
	sp := f.t.Span(id)
	v, typ, ok := parseIntLiteral(f.t.Label(id), neg)
	if !ok {
		f.errorf(diag.SemaError, sp, "integer number too large: %s", f.t.Label(id))
	}
	f.e.emit(bytecode.OpConst, v, sp)
	return typ
}

// nameExpr resolves a SimpleName used as a value: local, then field of the
// current class.
func (f *fn) nameExpr(id tree.NodeID) Type {
	sp := f.t.Span(id)
	name := f.t.Label(id)
	if l := f.lookupLocal(name); l != nil {
		if !f.isAssigned(l) {
			f.errorf(diag.SemaUninitialized, sp, "variable %s might not have been initialized", name)
			f.markAssigned(l) // одна ошибка на переменную
		}
		f.e.emit(bytecode.OpLoad, int64(l.slot), sp)
		return l.typ
	}
	if fd := f.ci.class.Field(name); fd != nil {
		return f.getField(f.ci.name, fd, sp, true)
	}
	f.errorf(diag.SemaUnresolvedSymbol, sp, "cannot find symbol: variable %s", name)
	f.e.emit(bytecode.OpNull, 0, sp)
	return Invalid
}

// getField emits a read of fd. implicitThis loads the receiver itself.
func (f *fn) getField(class string, fd *bytecode.Field, sp source.Span, implicitThis bool) Type {
	if fd.Static {
		f.e.emit(bytecode.OpGetStatic, f.fieldRef(class, fd.Name, Type(fd.Type)), sp)
		return Type(fd.Type)
	}
	if implicitThis {
		if f.static {
			f.errorf(diag.SemaStaticContext, sp, "non-static variable %s cannot be referenced from a static context", fd.Name)
			f.e.emit(bytecode.OpNull, 0, sp)
			return Invalid
		}
		f.e.emit(bytecode.OpLoad, 0, sp)
	}
	f.e.emit(bytecode.OpGetField, f.str(fd.Name), sp)
	return Type(fd.Type)
}

// classRef reports whether id is a bare class name (not shadowed by a
// local or field) and which class it names.
func (f *fn) classRef(id tree.NodeID) (string, bool) {
	if f.t.Type(id) != parser.SimpleName {
		return "", false
	}
	name := f.t.Label(id)
	if f.lookupLocal(name) != nil || f.ci.class.Field(name) != nil {
		return "", false
	}
	if isBuiltinClass(name) {
		return name, true
	}
	if _, ok := f.s.lookupClass(name); ok {
		return name, true
	}
	return "", false
}

func (f *fn) fieldAccess(id tree.NodeID) Type {
	kids := f.t.Children(id)
	recv, nameID := kids[0], kids[1]
	sp := f.t.Span(nameID)
	name := f.t.Label(nameID)

	if class, ok := f.classRef(recv); ok {
		fd := f.lookupField(class, name, sp)
		if fd == nil {
			return f.invalid(sp)
		}
		if !fd.Static {
			f.errorf(diag.SemaStaticContext, sp, "non-static variable %s cannot be referenced from a static context", name)
			return f.invalid(sp)
		}
		return f.getField(class, fd, sp, false)
	}

	rt := f.value(recv)
	if rt == Invalid {
		f.e.emit(bytecode.OpPop, 0, sp)
		return f.invalid(sp)
	}
	if !rt.IsClass() {
		f.errorf(diag.SemaInvalidOperand, sp, "%s cannot be dereferenced", rt)
		f.e.emit(bytecode.OpPop, 0, sp)
		return f.invalid(sp)
	}
	fd := f.lookupField(string(rt), name, sp)
	if fd == nil {
		f.e.emit(bytecode.OpPop, 0, sp)
		return f.invalid(sp)
	}
	if fd.Static {
		f.e.emit(bytecode.OpPop, 0, sp)
	}
	return f.getField(string(rt), fd, sp, false)
}

func (f *fn) lookupField(class, name string, sp source.Span) *bytecode.Field {
	c, ok := f.s.lookupClass(class)
	if !ok {
		f.errorf(diag.SemaUnresolvedSymbol, sp, "cannot find symbol: variable %s", name)
		return nil
	}
	fd := c.Field(name)
	if fd == nil {
		f.errorf(diag.SemaUnresolvedSymbol, sp, "cannot find symbol: variable %s in class %s", name, class)
	}
	return fd
}

func (f *fn) invalid(sp source.Span) Type {
	f.e.emit(bytecode.OpNull, 0, sp)
	return Invalid
}

func (f *fn) newInstance(id tree.NodeID) Type {
	kids := f.t.Children(id)
	typeID, args := kids[0], f.t.Children(kids[1])
	sp := f.t.Span(id)
	typ := f.s.resolveType(f.u, typeID)
	for _, a := range args {
		f.discard(a)
	}
	switch {
	case typ == Invalid:
		return f.invalid(sp)
	case !typ.IsClass():
		f.errorf(diag.SemaInvalidOperand, f.t.Span(typeID), "cannot instantiate %s", typ)
		return f.invalid(sp)
	case len(args) > 0:
		f.errorf(diag.SemaArgumentCount, f.t.Span(kids[1]), "constructor %s in class %s cannot be applied to given types: expected no arguments, found %d", typ, typ, len(args))
	}
	init := bytecode.Ref{Class: string(typ), Name: bytecode.InitMethod, Result: string(Void)}
	f.e.emit(bytecode.OpNew, f.str(string(typ)), sp)
	f.e.emit(bytecode.OpDup, 0, sp)
	f.e.emit(bytecode.OpInvokeSpecial, f.ci.class.Pool.InternRef(init), sp)
	return typ
}
