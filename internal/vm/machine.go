package vm

import (
	"context"

	"golang.org/x/text/unicode/norm"

	"mend/internal/bytecode"
)

// pollEvery is how many steps run between checks of the caller context.
const pollEvery = 1024

// machine runs one invocation on a Context.
type machine struct {
	c      *Context
	ctx    context.Context
	stack  []Frame
	steps  int64
	result Value
	halted bool

	eb *errorBuilder
}

func newMachine(c *Context, ctx context.Context) *machine {
	m := &machine{c: c, ctx: ctx, stack: make([]Frame, 0, 16)}
	m.eb = &errorBuilder{m: m}
	return m
}

// Run steps until the entry frame returns.
func (m *machine) Run() (Value, *VMError) {
	for !m.halted && len(m.stack) > 0 {
		if vmErr := m.Step(); vmErr != nil {
			return Null, vmErr
		}
	}
	return m.result, nil
}

// Step executes exactly one instruction.
func (m *machine) Step() (vmErr *VMError) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*VMError); ok {
				vmErr = e
				return
			}
			panic(r)
		}
	}()

	if m.halted || len(m.stack) == 0 {
		return nil
	}

	m.steps++
	if limit := m.c.opts.MaxSteps; limit > 0 && m.steps > limit {
		return m.eb.stepLimit(limit)
	}
	if m.steps%pollEvery == 0 {
		if err := m.ctx.Err(); err != nil {
			return m.eb.canceled(err)
		}
	}

	fr := &m.stack[len(m.stack)-1]
	if fr.IP < 0 || fr.IP >= len(fr.Method.Code) {
		return m.eb.unimplemented("instruction pointer out of range")
	}
	fr.PC = fr.IP
	in := fr.Method.Code[fr.IP]
	pool := &fr.Class.def.Pool

	switch in.Op {
	case bytecode.OpNop:
	case bytecode.OpConst:
		fr.push(Int(in.A))
	case bytecode.OpStr:
		fr.push(Str(pool.Strings[in.A]))
	case bytecode.OpTrue:
		fr.push(Bool(true))
	case bytecode.OpFalse:
		fr.push(Bool(false))
	case bytecode.OpNull:
		fr.push(Null)
	case bytecode.OpLoad:
		fr.push(fr.Locals[in.A])
	case bytecode.OpStore:
		fr.Locals[in.A] = fr.pop()
	case bytecode.OpPop:
		fr.pop()
	case bytecode.OpDup:
		fr.push(fr.peek())

	case bytecode.OpGetField:
		name := pool.Strings[in.A]
		obj := m.object(fr.pop(), "read field "+name)
		v, ok := obj.Fields[name]
		if !ok {
			return m.eb.badCall("class %s has no field %s", obj.Class, name)
		}
		fr.push(v)
	case bytecode.OpPutField:
		name := pool.Strings[in.A]
		v := fr.pop()
		obj := m.object(fr.pop(), "write field "+name)
		if _, ok := obj.Fields[name]; !ok {
			return m.eb.badCall("class %s has no field %s", obj.Class, name)
		}
		obj.Fields[name] = v
	case bytecode.OpGetStatic, bytecode.OpPutStatic:
		ref := pool.Refs[in.A]
		target := m.class(ref.Class)
		if m.needsInit(target) {
			return nil
		}
		if in.Op == bytecode.OpGetStatic {
			fr.push(target.statics[ref.Name])
		} else {
			target.statics[ref.Name] = fr.pop()
		}
	case bytecode.OpNew:
		target := m.class(pool.Strings[in.A])
		if m.needsInit(target) {
			return nil
		}
		obj, ok := m.c.heap.alloc(target)
		if !ok {
			return m.eb.heapLimit(m.c.heap.max)
		}
		fr.push(objectValue(obj))

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpRem:
		b := m.asInt(fr.pop())
		a := m.asInt(fr.pop())
		fr.push(Int(m.arith(in, a, b)))
	case bytecode.OpNeg:
		a := -m.asInt(fr.pop())
		if in.A == 1 {
			a = wrap32(a)
		}
		fr.push(Int(a))
	case bytecode.OpNot:
		fr.push(Bool(!m.asBool(fr.pop())))
	case bytecode.OpConcat:
		b := fr.pop()
		a := fr.pop()
		fr.push(Str(norm.NFC.String(a.String() + b.String())))

	case bytecode.OpEq:
		b := fr.pop()
		fr.push(Bool(Equal(fr.pop(), b)))
	case bytecode.OpNe:
		b := fr.pop()
		fr.push(Bool(!Equal(fr.pop(), b)))
	case bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
		b := m.asInt(fr.pop())
		a := m.asInt(fr.pop())
		fr.push(Bool(compare(in.Op, a, b)))

	case bytecode.OpJump:
		fr.IP = int(in.A)
		return nil
	case bytecode.OpJumpFalse, bytecode.OpJumpTrue:
		if m.asBool(fr.pop()) == (in.Op == bytecode.OpJumpTrue) {
			fr.IP = int(in.A)
			return nil
		}

	case bytecode.OpInvokeStatic, bytecode.OpInvokeVirtual, bytecode.OpInvokeSpecial:
		m.invoke(fr, in)
		return nil
	case bytecode.OpBuiltin:
		m.builtin(fr, bytecode.Builtin(in.A))

	case bytecode.OpReturn:
		m.ret(Null, false)
		return nil
	case bytecode.OpReturnValue:
		m.ret(fr.pop(), true)
		return nil

	default:
		return m.eb.unimplemented(in.Op.String())
	}
	fr.IP++
	return nil
}

func (m *machine) arith(in bytecode.Instr, a, b int64) int64 {
	var r int64
	switch in.Op {
	case bytecode.OpAdd:
		r = a + b
	case bytecode.OpSub:
		r = a - b
	case bytecode.OpMul:
		r = a * b
	case bytecode.OpDiv:
		if b == 0 {
			panic(m.eb.divisionByZero())
		}
		r = a / b
	case bytecode.OpRem:
		if b == 0 {
			panic(m.eb.divisionByZero())
		}
		r = a % b
	}
	if in.A == 1 {
		r = wrap32(r)
	}
	return r
}

func compare(op bytecode.Op, a, b int64) bool {
	switch op {
	case bytecode.OpLt:
		return a < b
	case bytecode.OpLe:
		return a <= b
	case bytecode.OpGt:
		return a > b
	default:
		return a >= b
	}
}

func (m *machine) asInt(v Value) int64 {
	if v.Kind != VKInt {
		panic(m.eb.typeMismatch("int", v))
	}
	return v.I
}

func (m *machine) asBool(v Value) bool {
	if v.Kind != VKBool {
		panic(m.eb.typeMismatch("boolean", v))
	}
	return v.B
}

func (m *machine) object(v Value, what string) *Object {
	switch v.Kind {
	case VKObject:
		return v.O
	case VKNull:
		panic(m.eb.nullDereference(what))
	default:
		panic(m.eb.typeMismatch("object", v))
	}
}

func (m *machine) class(name string) *class {
	c, ok := m.c.classes[name]
	if !ok {
		panic(m.eb.badCall("class %s is not loaded", name))
	}
	return c
}

// needsInit starts lazy initialization of c. When it returns true a
// <clinit> frame was pushed and the current instruction runs again after
// it returns. A class being initialized is usable, as in Java.
func (m *machine) needsInit(c *class) bool {
	switch c.state {
	case initialized, initializing:
		return false
	case initFailed:
		panic(m.eb.badCall("class %s failed to initialize", c.def.Name))
	}
	c.state = initializing
	clinit := c.methods[bytecode.ClinitMethod]
	if clinit == nil {
		c.state = initialized
		return false
	}
	m.pushFrame(newFrame(c, clinit))
	return true
}

// failInit marks classes caught mid-initialization by a panic.
func (m *machine) failInit() {
	for _, c := range m.c.classes {
		if c.state == initializing {
			c.state = initFailed
		}
	}
}

func (m *machine) pushFrame(f Frame) {
	if limit := m.c.opts.MaxDepth; limit > 0 && len(m.stack) >= limit {
		panic(m.eb.stackOverflow(limit))
	}
	m.stack = append(m.stack, f)
}

func (m *machine) invoke(fr *Frame, in bytecode.Instr) {
	ref := fr.Class.def.Pool.Refs[in.A]
	target := m.class(ref.Class)
	if in.Op == bytecode.OpInvokeStatic && m.needsInit(target) {
		return
	}
	args := fr.popArgs(ref.Argc())
	var recv Value
	if in.Op != bytecode.OpInvokeStatic {
		recv = fr.pop()
		obj := m.object(recv, "invoke "+ref.Name+"()")
		if in.Op == bytecode.OpInvokeVirtual {
			target = m.class(obj.Class)
		}
	}
	fr.IP++

	callee := target.methods[ref.Name]
	if callee == nil {
		if in.Op == bytecode.OpInvokeSpecial && ref.Name == bytecode.InitMethod {
			return
		}
		panic(m.eb.badCall("class %s has no method %s", target.def.Name, ref.Name))
	}
	nf := newFrame(target, callee)
	slot := 0
	if !callee.Static {
		nf.Locals[0] = recv
		slot = 1
	}
	copy(nf.Locals[slot:], args)
	m.pushFrame(nf)
}

func (m *machine) ret(v Value, hasValue bool) {
	top := &m.stack[len(m.stack)-1]
	if top.Method.Name == bytecode.ClinitMethod && top.Class.state == initializing {
		top.Class.state = initialized
	}
	m.stack = m.stack[:len(m.stack)-1]
	if len(m.stack) == 0 {
		m.result = v
		m.halted = true
		return
	}
	if hasValue {
		m.stack[len(m.stack)-1].push(v)
	}
}

func (m *machine) builtin(fr *Frame, b bytecode.Builtin) {
	switch b {
	case bytecode.BuiltinMathMax:
		y := m.asInt(fr.pop())
		x := m.asInt(fr.pop())
		fr.push(Int(max(x, y)))
	case bytecode.BuiltinMathMin:
		y := m.asInt(fr.pop())
		x := m.asInt(fr.pop())
		fr.push(Int(min(x, y)))
	case bytecode.BuiltinMathAbs:
		x := m.asInt(fr.pop())
		if x < 0 {
			x = -x
		}
		fr.push(Int(x))
	case bytecode.BuiltinStringLength:
		s := m.asString(fr.pop(), "call length()")
		fr.push(Int(stringLength(s)))
	case bytecode.BuiltinStringEquals:
		other := fr.pop()
		s := m.asString(fr.pop(), "call equals()")
		fr.push(Bool(other.Kind == VKString && other.S == s))
	default:
		panic(m.eb.unimplemented(b.String()))
	}
}

func (m *machine) asString(v Value, what string) string {
	switch v.Kind {
	case VKString:
		return v.S
	case VKNull:
		panic(m.eb.nullDereference(what))
	default:
		panic(m.eb.typeMismatch("String", v))
	}
}
