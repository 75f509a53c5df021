package vm

import "mend/internal/bytecode"

// Frame represents a method activation record on the call stack.
type Frame struct {
	Class  *class
	Method *bytecode.Method
	IP     int     // next instruction
	PC     int     // instruction being executed
	Locals []Value // receiver first for instance methods
	Stack  []Value // operand stack
}

func newFrame(c *class, m *bytecode.Method) Frame {
	return Frame{
		Class:  c,
		Method: m,
		Locals: make([]Value, m.MaxLocals),
		Stack:  make([]Value, 0, 8),
	}
}

// Line returns the source line of the instruction being executed.
func (f *Frame) Line() uint32 {
	if f.PC < 0 || f.PC >= len(f.Method.Code) {
		return f.Method.Line
	}
	if l := f.Method.Code[f.PC].Line; l > 0 {
		return l
	}
	return f.Method.Line
}

func (f *Frame) push(v Value) { f.Stack = append(f.Stack, v) }

func (f *Frame) pop() Value {
	n := len(f.Stack) - 1
	v := f.Stack[n]
	f.Stack = f.Stack[:n]
	return v
}

func (f *Frame) peek() Value { return f.Stack[len(f.Stack)-1] }

// popArgs pops n values, preserving their order.
func (f *Frame) popArgs(n int) []Value {
	args := make([]Value, n)
	copy(args, f.Stack[len(f.Stack)-n:])
	f.Stack = f.Stack[:len(f.Stack)-n]
	return args
}
