package compiler

import (
	"mend/internal/bytecode"
	"mend/internal/diag"
	"mend/internal/parser"
	"mend/internal/tree"
)

// block checks a Block; scoped opens a new local scope (method bodies
// share the parameter scope).
func (f *fn) block(id tree.NodeID, scoped bool) {
	if scoped {
		f.push()
		defer f.pop()
	}
	reported := false
	for _, st := range f.t.Children(id) {
		if !f.reachable && !reported {
			f.errorf(diag.SemaUnreachableCode, f.t.Span(st), "unreachable statement")
			reported = true
			f.reachable = true
		}
		f.stmt(st)
	}
}

func (f *fn) stmt(id tree.NodeID) {
	t := f.t
	kids := t.Children(id)
	switch t.Type(id) {
	case parser.Block:
		f.block(id, true)
	case parser.EmptyStatement:
	case parser.VariableDeclarationStmt:
		f.localDecl(id)
	case parser.ExpressionStatement:
		f.exprStmt(kids[0])
	case parser.IfStatement:
		f.ifStmt(kids)
	case parser.WhileStatement:
		f.whileStmt(kids[0], kids[1])
	case parser.DoStatement:
		f.doStmt(kids[0], kids[1])
	case parser.ForStatement:
		f.forStmt(kids)
	case parser.ReturnStatement:
		f.returnStmt(id, kids)
	case parser.BreakStatement, parser.ContinueStatement:
		f.jumpStmt(id)
	default:
		f.errorf(diag.SemaNotAStatement, t.Span(id), "not a statement: %s", t.Type(id))
	}
}

func (f *fn) localDecl(id tree.NodeID) {
	t := f.t
	_, rest := splitModifiers(t, t.Children(id))
	typ := f.s.resolveType(f.u, rest[0])
	if typ == Void {
		f.errorf(diag.SemaVoidValue, t.Span(rest[0]), "'void' type not allowed here")
		typ = Invalid
	}
	for _, frag := range rest[1:] {
		fk := t.Children(frag)
		name := t.Label(fk[0])
		if f.lookupLocal(name) != nil {
			f.errorf(diag.SemaDuplicateSymbol, t.Span(fk[0]), "variable %s is already defined in method %s", name, f.name)
		}
		if len(fk) == 1 {
			f.declare(name, typ, false)
			continue
		}
		// инициализатор проверяется до объявления: int x = x; — ошибка
		vt := f.value(fk[1])
		f.checkAssignable(typ, vt, t.Span(fk[1]))
		l := f.declare(name, typ, true)
		f.e.emit(bytecode.OpStore, int64(l.slot), t.Span(fk[0]))
	}
}

func (f *fn) exprStmt(id tree.NodeID) {
	t := f.t
	switch t.Type(id) {
	case parser.Assignment:
		f.assign(id, false)
	case parser.PrefixExpression, parser.PostfixExpression:
		if op := t.Label(id); op == "++" || op == "--" {
			f.incDec(id, false)
			return
		}
		f.errorf(diag.SemaNotAStatement, t.Span(id), "not a statement")
		f.discard(id)
	case parser.MethodInvocation, parser.ClassInstanceCreation:
		if typ := f.expr(id); typ != Void {
			f.e.emit(bytecode.OpPop, 0, t.Span(id))
		}
	default:
		f.errorf(diag.SemaNotAStatement, t.Span(id), "not a statement")
		f.discard(id)
	}
}

// discard evaluates id for its diagnostics and drops the value.
func (f *fn) discard(id tree.NodeID) {
	if typ := f.expr(id); typ != Void {
		f.e.emit(bytecode.OpPop, 0, f.t.Span(id))
	}
}

func (f *fn) cond(id tree.NodeID) {
	typ := f.value(id)
	if typ != Boolean && typ != Invalid {
		f.errorf(diag.SemaTypeMismatch, f.t.Span(id), "incompatible types: %s cannot be converted to boolean", typ)
	}
}

// isConstTrue recognizes the literal true, possibly parenthesized.
func (f *fn) isConstTrue(id tree.NodeID) bool {
	for f.t.Type(id) == parser.ParenthesizedExpression {
		id = f.t.Children(id)[0]
	}
	return f.t.Type(id) == parser.BooleanLiteral && f.t.Label(id) == "true"
}

func (f *fn) ifStmt(kids []tree.NodeID) {
	f.cond(kids[0])
	jElse := f.e.emit(bytecode.OpJumpFalse, 0, f.t.Span(kids[0]))
	before := f.save()

	f.stmt(kids[1])
	if len(kids) == 2 {
		f.e.patch(jElse)
		f.restore(merge(f.save(), before))
		return
	}
	afterThen := f.save()
	jEnd := -1
	if afterThen.reachable {
		jEnd = f.e.emit(bytecode.OpJump, 0, f.t.Span(kids[1]))
	}

	f.e.patch(jElse)
	f.restore(before)
	f.stmt(kids[2])
	if jEnd >= 0 {
		f.e.patch(jEnd)
	}
	f.restore(merge(afterThen, f.save()))
}

func (f *fn) enterLoop() *loop {
	l := &loop{}
	f.loops = append(f.loops, l)
	return l
}

func (f *fn) leaveLoop(l *loop, continueTarget, breakTarget int) {
	for _, at := range l.continues {
		f.e.patchTo(at, continueTarget)
	}
	for _, at := range l.breaks {
		f.e.patchTo(at, breakTarget)
	}
	f.loops = f.loops[:len(f.loops)-1]
}

func (f *fn) whileStmt(cond, body tree.NodeID) {
	top := f.e.pc()
	// while (true) has no exit test: the only way out is break
	infinite := f.isConstTrue(cond)
	jExit := -1
	if !infinite {
		f.cond(cond)
		jExit = f.e.emit(bytecode.OpJumpFalse, 0, f.t.Span(cond))
	}
	before := f.save()

	l := f.enterLoop()
	f.stmt(body)
	f.e.emit(bytecode.OpJump, int64(top), f.t.Span(body))
	if jExit >= 0 {
		f.e.patch(jExit)
	}
	f.leaveLoop(l, top, f.e.pc())

	f.restore(before)
	f.reachable = !infinite || l.broke
}

func (f *fn) doStmt(body, cond tree.NodeID) {
	top := f.e.pc()
	before := f.save()
	l := f.enterLoop()
	f.stmt(body)
	condPC := f.e.pc()
	bodyDone := f.save()
	f.reachable = true
	infinite := f.isConstTrue(cond)
	f.cond(cond)
	f.e.emit(bytecode.OpJumpTrue, int64(top), f.t.Span(cond))
	f.leaveLoop(l, condPC, f.e.pc())

	after := bodyDone
	if !bodyDone.reachable {
		after = before
	}
	f.restore(after)
	f.reachable = (bodyDone.reachable || len(l.continues) > 0) && !infinite || l.broke
}

func (f *fn) forStmt(kids []tree.NodeID) {
	t := f.t
	f.push()
	defer f.pop()

	init, rest := kids[0], kids[1:]
	for _, c := range t.Children(init) {
		if t.Type(c) == parser.VariableDeclarationStmt {
			f.localDecl(c)
		} else {
			f.exprStmt(c)
		}
	}
	var cond tree.NodeID
	if t.Type(rest[0]) != parser.ForUpdate {
		cond, rest = rest[0], rest[1:]
	}
	update, body := rest[0], rest[1]

	top := f.e.pc()
	infinite := cond == tree.NoNode || f.isConstTrue(cond)
	jExit := -1
	if !infinite {
		f.cond(cond)
		jExit = f.e.emit(bytecode.OpJumpFalse, 0, t.Span(cond))
	}
	before := f.save()

	l := f.enterLoop()
	f.stmt(body)
	updPC := f.e.pc()
	f.reachable = true
	for _, c := range t.Children(update) {
		f.exprStmt(c)
	}
	f.e.emit(bytecode.OpJump, int64(top), t.Span(update))
	if jExit >= 0 {
		f.e.patch(jExit)
	}
	f.leaveLoop(l, updPC, f.e.pc())

	f.restore(before)
	f.reachable = !infinite || l.broke
}

func (f *fn) returnStmt(id tree.NodeID, kids []tree.NodeID) {
	sp := f.t.Span(id)
	if len(kids) == 0 {
		if f.result != Void && f.result != Invalid {
			f.errorf(diag.SemaTypeMismatch, sp, "incompatible types: missing return value")
			f.e.emit(bytecode.OpNull, 0, sp)
			f.e.emit(bytecode.OpReturnValue, 0, sp)
		} else {
			f.e.emit(bytecode.OpReturn, 0, sp)
		}
		f.reachable = false
		return
	}
	if f.result == Void {
		f.errorf(diag.SemaTypeMismatch, f.t.Span(kids[0]), "incompatible types: unexpected return value")
		f.discard(kids[0])
		f.e.emit(bytecode.OpReturn, 0, sp)
		f.reachable = false
		return
	}
	vt := f.value(kids[0])
	f.checkAssignable(f.result, vt, f.t.Span(kids[0]))
	f.e.emit(bytecode.OpReturnValue, 0, sp)
	f.reachable = false
}

func (f *fn) jumpStmt(id tree.NodeID) {
	sp := f.t.Span(id)
	isBreak := f.t.Type(id) == parser.BreakStatement
	if len(f.loops) == 0 {
		word := "continue"
		if isBreak {
			word = "break"
		}
		f.errorf(diag.SemaJumpOutsideLoop, sp, "%s outside of loop", word)
		return
	}
	l := f.loops[len(f.loops)-1]
	at := f.e.emit(bytecode.OpJump, 0, sp)
	if isBreak {
		l.breaks = append(l.breaks, at)
		l.broke = true
	} else {
		l.continues = append(l.continues, at)
	}
	f.reachable = false
}
