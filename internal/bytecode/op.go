package bytecode

import "fmt"

// Op is a single instruction opcode.
type Op uint8

const (
	OpNop Op = iota

	OpConst // A: int64 immediate
	OpStr   // A: string pool index
	OpTrue
	OpFalse
	OpNull

	OpLoad  // A: local slot
	OpStore // A: local slot
	OpPop
	OpDup

	OpGetField  // A: string pool index (field name), pops receiver
	OpPutField  // A: string pool index, pops receiver and value
	OpGetStatic // A: ref index
	OpPutStatic // A: ref index
	OpNew       // A: string pool index (class name)

	// Arithmetic: A=1 wraps the result to 32 bits, A=0 keeps 64.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpNeg
	OpNot
	OpConcat

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpJump      // A: target pc
	OpJumpFalse // A: target pc
	OpJumpTrue  // A: target pc

	OpInvokeStatic  // A: ref index
	OpInvokeVirtual // A: ref index, receiver below the arguments
	OpInvokeSpecial // A: ref index, receiver below the arguments, no dispatch
	OpBuiltin       // A: Builtin

	OpReturn
	OpReturnValue

	opCount
)

type operand uint8

const (
	operandNone operand = iota
	operandInt
	operandString
	operandSlot
	operandRef
	operandTarget
	operandBuiltin
)

type opInfo struct {
	name    string
	operand operand
	pop     int // -1: зависит от операнда (invoke/builtin)
	push    int
}

var opTable = [opCount]opInfo{
	OpNop:           {"nop", operandNone, 0, 0},
	OpConst:         {"const", operandInt, 0, 1},
	OpStr:           {"str", operandString, 0, 1},
	OpTrue:          {"true", operandNone, 0, 1},
	OpFalse:         {"false", operandNone, 0, 1},
	OpNull:          {"null", operandNone, 0, 1},
	OpLoad:          {"load", operandSlot, 0, 1},
	OpStore:         {"store", operandSlot, 1, 0},
	OpPop:           {"pop", operandNone, 1, 0},
	OpDup:           {"dup", operandNone, 1, 2},
	OpGetField:      {"getfield", operandString, 1, 1},
	OpPutField:      {"putfield", operandString, 2, 0},
	OpGetStatic:     {"getstatic", operandRef, 0, 1},
	OpPutStatic:     {"putstatic", operandRef, 1, 0},
	OpNew:           {"new", operandString, 0, 1},
	OpAdd:           {"add", operandNone, 2, 1},
	OpSub:           {"sub", operandNone, 2, 1},
	OpMul:           {"mul", operandNone, 2, 1},
	OpDiv:           {"div", operandNone, 2, 1},
	OpRem:           {"rem", operandNone, 2, 1},
	OpNeg:           {"neg", operandNone, 1, 1},
	OpNot:           {"not", operandNone, 1, 1},
	OpConcat:        {"concat", operandNone, 2, 1},
	OpEq:            {"eq", operandNone, 2, 1},
	OpNe:            {"ne", operandNone, 2, 1},
	OpLt:            {"lt", operandNone, 2, 1},
	OpLe:            {"le", operandNone, 2, 1},
	OpGt:            {"gt", operandNone, 2, 1},
	OpGe:            {"ge", operandNone, 2, 1},
	OpJump:          {"jump", operandTarget, 0, 0},
	OpJumpFalse:     {"jumpfalse", operandTarget, 1, 0},
	OpJumpTrue:      {"jumptrue", operandTarget, 1, 0},
	OpInvokeStatic:  {"invokestatic", operandRef, -1, -1},
	OpInvokeVirtual: {"invokevirtual", operandRef, -1, -1},
	OpInvokeSpecial: {"invokespecial", operandRef, -1, -1},
	OpBuiltin:       {"builtin", operandBuiltin, -1, 1},
	OpReturn:        {"return", operandNone, 0, 0},
	OpReturnValue:   {"returnvalue", operandNone, 1, 0},
}

func (op Op) String() string {
	if op < opCount {
		return opTable[op].name
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Valid reports whether op is a known opcode.
func (op Op) Valid() bool { return op < opCount }

// IsJump reports whether A is a jump target.
func (op Op) IsJump() bool {
	return op == OpJump || op == OpJumpFalse || op == OpJumpTrue
}

// IsInvoke reports whether A is a method ref.
func (op Op) IsInvoke() bool {
	return op == OpInvokeStatic || op == OpInvokeVirtual || op == OpInvokeSpecial
}

// Terminates reports whether control never falls through to pc+1.
func (op Op) Terminates() bool {
	return op == OpJump || op == OpReturn || op == OpReturnValue
}

// Instr is one instruction. Line is the 1-based source line it was generated from.
type Instr struct {
	Op   Op     `msgpack:"o"`
	A    int64  `msgpack:"a,omitempty"`
	Line uint32 `msgpack:"l,omitempty"`
}

func (in Instr) String() string {
	if opTable[in.Op%opCount].operand == operandNone {
		return in.Op.String()
	}
	return fmt.Sprintf("%s %d", in.Op, in.A)
}
