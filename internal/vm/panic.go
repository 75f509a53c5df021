package vm

import (
	"fmt"
	"strings"
)

// PanicCode identifies the type of VM panic.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicDivisionByZero  PanicCode = 1001 // VM1001: integer division by zero
	PanicNullDereference PanicCode = 1002 // VM1002: null receiver
	PanicTypeMismatch    PanicCode = 1003 // VM1003: operand of the wrong kind
	PanicStepLimit       PanicCode = 1004 // VM1004: step budget exhausted
	PanicStackOverflow   PanicCode = 1005 // VM1005: call depth limit
	PanicHeapLimit       PanicCode = 1006 // VM1006: allocation budget exhausted
	PanicBadCall         PanicCode = 1007 // VM1007: unresolved method or field at run time
	PanicCanceled        PanicCode = 1008 // VM1008: caller context done
	PanicUnimplemented   PanicCode = 1999 // VM1999: unimplemented opcode
)

// String returns the code as "VM1001" format.
func (c PanicCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

// BacktraceFrame represents one frame in the panic backtrace.
type BacktraceFrame struct {
	Class  string
	Method string
	Unit   string // qualified name of the source unit
	Line   uint32
}

func (f BacktraceFrame) String() string {
	loc := f.Unit
	if loc == "" {
		loc = "<unknown>"
	}
	if f.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, f.Line)
	}
	return fmt.Sprintf("%s.%s(%s)", f.Class, f.Method, loc)
}

// VMError represents a runtime panic in the VM.
type VMError struct {
	Code      PanicCode
	Message   string
	Backtrace []BacktraceFrame // top to bottom
	Steps     int64            // steps executed before the panic

	cause error
}

// Error implements the error interface.
func (p *VMError) Error() string {
	return fmt.Sprintf("panic %s: %s", p.Code, p.Message)
}

// Unwrap exposes the context error of a canceled run.
func (p *VMError) Unwrap() error { return p.cause }

// Format renders the panic with its backtrace.
func (p *VMError) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "panic %s: %s\n", p.Code, p.Message)
	if len(p.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range p.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s\n", i, frame)
		}
	}
	return sb.String()
}

// errorBuilder helps construct VMError values.
type errorBuilder struct {
	m *machine
}

func (eb *errorBuilder) makeError(code PanicCode, msg string) *VMError {
	e := &VMError{
		Code:    code,
		Message: msg,
		Steps:   eb.m.steps,
	}

	stack := eb.m.stack
	e.Backtrace = make([]BacktraceFrame, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		fr := &stack[i]
		e.Backtrace[len(stack)-1-i] = BacktraceFrame{
			Class:  fr.Class.def.Name,
			Method: fr.Method.Name,
			Unit:   fr.Class.def.Unit,
			Line:   fr.Line(),
		}
	}
	return e
}

func (eb *errorBuilder) divisionByZero() *VMError {
	return eb.makeError(PanicDivisionByZero, "/ by zero")
}

func (eb *errorBuilder) nullDereference(what string) *VMError {
	return eb.makeError(PanicNullDereference, fmt.Sprintf("cannot %s: receiver is null", what))
}

func (eb *errorBuilder) typeMismatch(expected string, got Value) *VMError {
	return eb.makeError(PanicTypeMismatch, fmt.Sprintf("expected %s, got %s", expected, got.Kind))
}

func (eb *errorBuilder) stepLimit(max int64) *VMError {
	return eb.makeError(PanicStepLimit, fmt.Sprintf("step limit of %d exceeded", max))
}

func (eb *errorBuilder) stackOverflow(depth int) *VMError {
	return eb.makeError(PanicStackOverflow, fmt.Sprintf("call depth limit of %d exceeded", depth))
}

func (eb *errorBuilder) heapLimit(max int64) *VMError {
	return eb.makeError(PanicHeapLimit, fmt.Sprintf("allocation limit of %d objects exceeded", max))
}

func (eb *errorBuilder) badCall(format string, args ...any) *VMError {
	return eb.makeError(PanicBadCall, fmt.Sprintf(format, args...))
}

func (eb *errorBuilder) canceled(err error) *VMError {
	e := eb.makeError(PanicCanceled, "execution canceled: "+err.Error())
	e.cause = err
	return e
}

func (eb *errorBuilder) unimplemented(what string) *VMError {
	return eb.makeError(PanicUnimplemented, fmt.Sprintf("unimplemented: %s", what))
}
