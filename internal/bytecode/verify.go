package bytecode

import (
	"fmt"
)

// VerifyError reports why a class was rejected.
type VerifyError struct {
	Class  string
	Method string
	PC     int
	Msg    string
}

func (e *VerifyError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("verify %s: %s", e.Class, e.Msg)
	}
	return fmt.Sprintf("verify %s.%s@%d: %s", e.Class, e.Method, e.PC, e.Msg)
}

// Verify checks every method of c: operands point into the pool and the
// code, the operand stack never underflows, stack heights agree where
// control flow merges, and no path runs off the end of the code.
func Verify(c *Class) error {
	if c == nil || c.Name == "" {
		return &VerifyError{Msg: "class without name"}
	}
	seen := make(map[string]bool, len(c.Methods))
	for i := range c.Methods {
		m := &c.Methods[i]
		if seen[m.Name] {
			return &VerifyError{Class: c.Name, Msg: "duplicate method " + m.Name}
		}
		seen[m.Name] = true
		if err := verifyMethod(c, m); err != nil {
			return err
		}
	}
	fields := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if fields[f.Name] {
			return &VerifyError{Class: c.Name, Msg: "duplicate field " + f.Name}
		}
		fields[f.Name] = true
	}
	return nil
}

func verifyMethod(c *Class, m *Method) error {
	fail := func(pc int, format string, args ...any) error {
		return &VerifyError{Class: c.Name, Method: m.Name, PC: pc, Msg: fmt.Sprintf(format, args...)}
	}
	n := len(m.Code)
	if n == 0 {
		return fail(0, "empty code")
	}
	minLocals := m.Argc()
	if !m.Static {
		minLocals++
	}
	if m.MaxLocals < minLocals {
		return fail(0, "max locals %d below %d parameters", m.MaxLocals, minLocals)
	}

	effects := make([][2]int, n)
	for pc, in := range m.Code {
		pop, push, err := checkOperand(c, m, in)
		if err != nil {
			return fail(pc, "%s: %v", in.Op, err)
		}
		effects[pc] = [2]int{pop, push}
	}

	heights := make([]int, n)
	for i := range heights {
		heights[i] = -1
	}
	work := []int{0}
	heights[0] = 0
	for len(work) > 0 {
		pc := work[len(work)-1]
		work = work[:len(work)-1]
		in := m.Code[pc]
		h := heights[pc]
		if h < effects[pc][0] {
			return fail(pc, "%s: stack underflow (height %d, needs %d)", in.Op, h, effects[pc][0])
		}
		next := h - effects[pc][0] + effects[pc][1]

		var succ []int
		switch {
		case in.Op == OpReturn || in.Op == OpReturnValue:
		case in.Op == OpJump:
			succ = append(succ, int(in.A))
		case in.Op.IsJump():
			succ = append(succ, int(in.A), pc+1)
		default:
			succ = append(succ, pc+1)
		}
		for _, s := range succ {
			if s >= n {
				return fail(pc, "falls off the end of the code")
			}
			switch heights[s] {
			case -1:
				heights[s] = next
				work = append(work, s)
			case next:
			default:
				return fail(s, "inconsistent stack height %d vs %d", heights[s], next)
			}
		}
	}
	return nil
}

// checkOperand validates in.A and returns the stack effect of in.
func checkOperand(c *Class, m *Method, in Instr) (pop, push int, err error) {
	if !in.Op.Valid() {
		return 0, 0, fmt.Errorf("unknown opcode %d", uint8(in.Op))
	}
	info := opTable[in.Op]
	pop, push = info.pop, info.push
	switch info.operand {
	case operandSlot:
		if in.A < 0 || in.A >= int64(m.MaxLocals) {
			return 0, 0, fmt.Errorf("slot %d out of range", in.A)
		}
	case operandString:
		if _, ok := c.Pool.LookupString(in.A); !ok {
			return 0, 0, fmt.Errorf("string index %d out of range", in.A)
		}
	case operandTarget:
		if in.A < 0 || in.A >= int64(len(m.Code)) {
			return 0, 0, fmt.Errorf("jump target %d out of range", in.A)
		}
	case operandBuiltin:
		b := Builtin(in.A)
		if in.A < 0 || in.A > 255 || !b.Valid() {
			return 0, 0, fmt.Errorf("unknown builtin %d", in.A)
		}
		pop = b.Arity()
	case operandRef:
		r, ok := c.Pool.LookupRef(in.A)
		if !ok {
			return 0, 0, fmt.Errorf("ref index %d out of range", in.A)
		}
		if r.Field != (in.Op == OpGetStatic || in.Op == OpPutStatic) {
			return 0, 0, fmt.Errorf("ref %s has wrong kind", r)
		}
		if in.Op.IsInvoke() {
			pop = r.Argc()
			if in.Op != OpInvokeStatic {
				pop++
			}
			push = 1
			if r.Void() {
				push = 0
			}
		}
	}
	switch in.Op {
	case OpReturn:
		if !m.Void() {
			return 0, 0, fmt.Errorf("missing value in %s method", m.Result)
		}
	case OpReturnValue:
		if m.Void() {
			return 0, 0, fmt.Errorf("value returned from void method")
		}
	}
	return pop, push, nil
}
