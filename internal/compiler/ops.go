package compiler

import (
	"mend/internal/bytecode"
	"mend/internal/diag"
	"mend/internal/parser"
	"mend/internal/source"
	"mend/internal/tree"
)

var arith = map[string]bytecode.Op{
	"+": bytecode.OpAdd,
	"-": bytecode.OpSub,
	"*": bytecode.OpMul,
	"/": bytecode.OpDiv,
	"%": bytecode.OpRem,
}

var compare = map[string]bytecode.Op{
	"<":  bytecode.OpLt,
	"<=": bytecode.OpLe,
	">":  bytecode.OpGt,
	">=": bytecode.OpGe,
	"==": bytecode.OpEq,
	"!=": bytecode.OpNe,
}

func (f *fn) prefix(id tree.NodeID) Type {
	op := f.t.Label(id)
	operand := f.t.Children(id)[0]
	sp := f.t.Span(id)
	switch op {
	case "++", "--":
		return f.incDec(id, true)
	case "-":
		if f.t.Type(operand) == parser.NumberLiteral {
			return f.number(operand, true)
		}
		typ := f.value(operand)
		if !typ.IsNumeric() {
			return f.badUnary(op, typ, sp)
		}
		f.e.emit(bytecode.OpNeg, width(typ), sp)
		return typ
	case "+":
		typ := f.value(operand)
		if !typ.IsNumeric() {
			return f.badUnary(op, typ, sp)
		}
		return typ
	case "!":
		typ := f.value(operand)
		if typ != Boolean {
			return f.badUnary(op, typ, sp)
		}
		f.e.emit(bytecode.OpNot, 0, sp)
		return Boolean
	}
	f.errorf(diag.SemaInvalidOperand, sp, "unknown operator '%s'", op)
	return f.invalid(sp)
}

func (f *fn) badUnary(op string, typ Type, sp source.Span) Type {
	if typ != Invalid {
		f.errorf(diag.SemaInvalidOperand, sp, "bad operand type %s for unary operator '%s'", typ, op)
	}
	f.e.emit(bytecode.OpPop, 0, sp)
	return f.invalid(sp)
}

func (f *fn) infix(id tree.NodeID) Type {
	op := f.t.Label(id)
	kids := f.t.Children(id)
	l, r := kids[0], kids[1]
	sp := f.t.Span(id)

	if op == "&&" || op == "||" {
		f.logical(op, l, r)
		return Boolean
	}

	lt := f.value(l)
	rt := f.value(r)
	if lt == Invalid || rt == Invalid {
		return f.drop2(sp)
	}

	switch op {
	case "+", "-", "*", "/", "%":
		if op == "+" && (lt == String || rt == String) {
			f.e.emit(bytecode.OpConcat, 0, sp)
			return String
		}
		if !lt.IsNumeric() || !rt.IsNumeric() {
			return f.badBinary(op, lt, rt, sp)
		}
		if (op == "/" || op == "%") && f.isZeroLiteral(r) {
			f.warnf(diag.SemaDivisionByZero, f.t.Span(r), "division by zero")
		}
		typ := promote(lt, rt)
		f.e.emit(arith[op], width(typ), sp)
		return typ
	case "<", "<=", ">", ">=":
		if !lt.IsNumeric() || !rt.IsNumeric() {
			return f.badBinary(op, lt, rt, sp)
		}
		f.e.emit(compare[op], 0, sp)
		return Boolean
	case "==", "!=":
		ok := (lt.IsNumeric() && rt.IsNumeric()) ||
			(lt == Boolean && rt == Boolean) ||
			(lt.IsRef() && rt.IsRef() && (assignable(lt, rt) || assignable(rt, lt)))
		if !ok {
			f.errorf(diag.SemaInvalidOperand, sp, "incomparable types: %s and %s", lt, rt)
			return f.drop2(sp)
		}
		f.e.emit(compare[op], 0, sp)
		return Boolean
	}
	f.errorf(diag.SemaInvalidOperand, sp, "unknown operator '%s'", op)
	return f.drop2(sp)
}

func (f *fn) badBinary(op string, lt, rt Type, sp source.Span) Type {
	f.errorf(diag.SemaInvalidOperand, sp, "bad operand types for binary operator '%s': %s and %s", op, lt, rt)
	return f.drop2(sp)
}

func (f *fn) drop2(sp source.Span) Type {
	f.e.emit(bytecode.OpPop, 0, sp)
	f.e.emit(bytecode.OpPop, 0, sp)
	return f.invalid(sp)
}

func (f *fn) isZeroLiteral(id tree.NodeID) bool {
	if f.t.Type(id) != parser.NumberLiteral {
		return false
	}
	v, _, ok := parseIntLiteral(f.t.Label(id), false)
	return ok && v == 0
}

// logical emits short-circuit && and ||: the left value stays on the
// stack when it decides the result.
func (f *fn) logical(op string, l, r tree.NodeID) {
	sp := f.t.Span(l)
	f.cond(l)
	f.e.emit(bytecode.OpDup, 0, sp)
	jop := bytecode.OpJumpFalse
	if op == "||" {
		jop = bytecode.OpJumpTrue
	}
	j := f.e.emit(jop, 0, sp)
	f.e.emit(bytecode.OpPop, 0, sp)
	// присваивания в правой части не обязательно выполняются
	st := f.save()
	f.cond(r)
	f.restore(merge(st, f.save()))
	f.e.patch(j)
}

func (f *fn) conditional(id tree.NodeID) Type {
	kids := f.t.Children(id)
	sp := f.t.Span(id)
	f.cond(kids[0])
	jElse := f.e.emit(bytecode.OpJumpFalse, 0, f.t.Span(kids[0]))
	before := f.save()
	tt := f.value(kids[1])
	jEnd := f.e.emit(bytecode.OpJump, 0, f.t.Span(kids[1]))
	afterThen := f.save()
	f.e.patch(jElse)
	f.restore(before)
	et := f.value(kids[2])
	f.e.patch(jEnd)
	f.restore(merge(afterThen, f.save()))

	switch {
	case tt == Invalid || et == Invalid:
		return Invalid
	case tt == et:
		return tt
	case tt.IsNumeric() && et.IsNumeric():
		return promote(tt, et)
	case tt == Null && et.IsRef():
		return et
	case et == Null && tt.IsRef():
		return tt
	}
	f.errorf(diag.SemaTypeMismatch, sp, "incompatible types in conditional expression: %s and %s", tt, et)
	return Invalid
}

// lvalue describes an assignment target. For instance fields the receiver
// is already on the stack.
type lvalue struct {
	kind  lvalueKind
	typ   Type
	local *local
	ref   int64 // static field ref
	name  int64 // instance field name
}

type lvalueKind uint8

const (
	lvInvalid lvalueKind = iota
	lvLocal
	lvStatic
	lvField
)

func (f *fn) lvalue(id tree.NodeID) lvalue {
	t := f.t
	sp := t.Span(id)
	switch t.Type(id) {
	case parser.SimpleName:
		name := t.Label(id)
		if l := f.lookupLocal(name); l != nil {
			return lvalue{kind: lvLocal, typ: l.typ, local: l}
		}
		if fd := f.ci.class.Field(name); fd != nil {
			return f.fieldLvalue(f.ci.name, fd, sp, true)
		}
		f.errorf(diag.SemaUnresolvedSymbol, sp, "cannot find symbol: variable %s", name)
	case parser.FieldAccess:
		kids := t.Children(id)
		recv, nameID := kids[0], kids[1]
		nsp := t.Span(nameID)
		name := t.Label(nameID)
		if class, ok := f.classRef(recv); ok {
			fd := f.lookupField(class, name, nsp)
			if fd == nil {
				break
			}
			if !fd.Static {
				f.errorf(diag.SemaStaticContext, nsp, "non-static variable %s cannot be referenced from a static context", name)
				break
			}
			return f.fieldLvalue(class, fd, nsp, false)
		}
		rt := f.value(recv)
		switch {
		case rt == Invalid:
		case !rt.IsClass():
			f.errorf(diag.SemaInvalidOperand, nsp, "%s cannot be dereferenced", rt)
		default:
			fd := f.lookupField(string(rt), name, nsp)
			if fd == nil {
				break
			}
			if fd.Static {
				f.e.emit(bytecode.OpPop, 0, nsp)
			}
			return f.fieldLvalue(string(rt), fd, nsp, false)
		}
		f.e.emit(bytecode.OpPop, 0, nsp)
	default:
		f.errorf(diag.SemaInvalidOperand, sp, "unexpected assignment target")
	}
	return lvalue{kind: lvInvalid, typ: Invalid}
}

func (f *fn) fieldLvalue(class string, fd *bytecode.Field, sp source.Span, implicitThis bool) lvalue {
	typ := Type(fd.Type)
	if fd.Static {
		return lvalue{kind: lvStatic, typ: typ, ref: f.fieldRef(class, fd.Name, typ)}
	}
	if implicitThis {
		if f.static {
			f.errorf(diag.SemaStaticContext, sp, "non-static variable %s cannot be referenced from a static context", fd.Name)
			return lvalue{kind: lvInvalid, typ: Invalid}
		}
		f.e.emit(bytecode.OpLoad, 0, sp)
	}
	return lvalue{kind: lvField, typ: typ, name: f.str(fd.Name)}
}

// load pushes the current value of lv, keeping any receiver below it.
func (f *fn) load(lv lvalue, sp source.Span) {
	switch lv.kind {
	case lvLocal:
		if !f.isAssigned(lv.local) {
			f.errorf(diag.SemaUninitialized, sp, "variable %s might not have been initialized", lv.local.name)
			f.markAssigned(lv.local)
		}
		f.e.emit(bytecode.OpLoad, int64(lv.local.slot), sp)
	case lvStatic:
		f.e.emit(bytecode.OpGetStatic, lv.ref, sp)
	case lvField:
		f.e.emit(bytecode.OpDup, 0, sp)
		f.e.emit(bytecode.OpGetField, lv.name, sp)
	default:
		f.e.emit(bytecode.OpNull, 0, sp)
	}
}

// store pops the value on top of the stack into lv; keep leaves a copy.
func (f *fn) store(lv lvalue, keep bool, sp source.Span) {
	switch lv.kind {
	case lvLocal:
		if keep {
			f.e.emit(bytecode.OpDup, 0, sp)
		}
		f.e.emit(bytecode.OpStore, int64(lv.local.slot), sp)
		f.markAssigned(lv.local)
	case lvStatic:
		if keep {
			f.e.emit(bytecode.OpDup, 0, sp)
		}
		f.e.emit(bytecode.OpPutStatic, lv.ref, sp)
	case lvField:
		if !keep {
			f.e.emit(bytecode.OpPutField, lv.name, sp)
			return
		}
		tmp := f.temp(lv.typ)
		f.e.emit(bytecode.OpStore, tmp, sp)
		f.e.emit(bytecode.OpLoad, tmp, sp)
		f.e.emit(bytecode.OpPutField, lv.name, sp)
		f.e.emit(bytecode.OpLoad, tmp, sp)
	default:
		if !keep {
			f.e.emit(bytecode.OpPop, 0, sp)
		}
	}
}

func (f *fn) assign(id tree.NodeID, keep bool) Type {
	op := f.t.Label(id)
	kids := f.t.Children(id)
	sp := f.t.Span(id)
	lv := f.lvalue(kids[0])

	if op == "=" {
		vt := f.value(kids[1])
		f.checkAssignable(lv.typ, vt, f.t.Span(kids[1]))
		f.store(lv, keep, sp)
		return lv.typ
	}

	bin := op[:len(op)-1]
	f.load(lv, f.t.Span(kids[0]))
	vt := f.value(kids[1])
	switch {
	case lv.typ == Invalid || vt == Invalid:
	case bin == "+" && lv.typ == String:
		f.e.emit(bytecode.OpConcat, 0, sp)
	case lv.typ.IsNumeric() && vt.IsNumeric():
		if (bin == "/" || bin == "%") && f.isZeroLiteral(kids[1]) {
			f.warnf(diag.SemaDivisionByZero, f.t.Span(kids[1]), "division by zero")
		}
		// составное присваивание неявно приводит к типу левой части
		f.e.emit(arith[bin], width(lv.typ), sp)
	default:
		f.errorf(diag.SemaInvalidOperand, sp, "bad operand types for binary operator '%s': %s and %s", bin, lv.typ, vt)
	}
	f.store(lv, keep, sp)
	return lv.typ
}

// incDec handles prefix and postfix ++/--; keep leaves the expression value.
func (f *fn) incDec(id tree.NodeID, keep bool) Type {
	op := f.t.Label(id)
	target := f.t.Children(id)[0]
	sp := f.t.Span(id)
	postfix := f.t.Type(id) == parser.PostfixExpression
	lv := f.lvalue(target)
	if lv.typ != Invalid && !lv.typ.IsNumeric() {
		f.errorf(diag.SemaInvalidOperand, sp, "bad operand type %s for unary operator '%s'", lv.typ, op)
		lv.typ = Invalid
	}
	aop := bytecode.OpAdd
	if op == "--" {
		aop = bytecode.OpSub
	}

	if !postfix || !keep {
		f.load(lv, sp)
		f.e.emit(bytecode.OpConst, 1, sp)
		f.e.emit(aop, width(lv.typ), sp)
		f.store(lv, keep, sp)
		return lv.typ
	}

	// postfix с результатом: старое значение во временном слоте
	tmp := f.temp(lv.typ)
	f.load(lv, sp)
	f.e.emit(bytecode.OpStore, tmp, sp)
	f.e.emit(bytecode.OpLoad, tmp, sp)
	f.e.emit(bytecode.OpConst, 1, sp)
	f.e.emit(aop, width(lv.typ), sp)
	f.store(lv, false, sp)
	f.e.emit(bytecode.OpLoad, tmp, sp)
	return lv.typ
}
