package bytecode

import "fmt"

// Builtin identifies a library routine implemented by the vm itself.
type Builtin uint8

const (
	BuiltinInvalid Builtin = iota
	BuiltinMathMax
	BuiltinMathMin
	BuiltinMathAbs
	BuiltinStringLength
	BuiltinStringEquals
	builtinCount
)

type builtinInfo struct {
	class, name string
	arity       int // включая получатель для методов String
	result      string
}

var builtinTable = [builtinCount]builtinInfo{
	BuiltinMathMax:      {"Math", "max", 2, "int"},
	BuiltinMathMin:      {"Math", "min", 2, "int"},
	BuiltinMathAbs:      {"Math", "abs", 1, "int"},
	BuiltinStringLength: {"String", "length", 1, "int"},
	BuiltinStringEquals: {"String", "equals", 2, "boolean"},
}

// Valid reports whether b names a known builtin.
func (b Builtin) Valid() bool { return b > BuiltinInvalid && b < builtinCount }

// Arity is the number of stack operands the builtin consumes.
func (b Builtin) Arity() int {
	if !b.Valid() {
		return 0
	}
	return builtinTable[b].arity
}

// Result is the type name of the value left on the stack.
func (b Builtin) Result() string {
	if !b.Valid() {
		return ""
	}
	return builtinTable[b].result
}

func (b Builtin) String() string {
	if !b.Valid() {
		return fmt.Sprintf("builtin(%d)", uint8(b))
	}
	return builtinTable[b].class + "." + builtinTable[b].name
}

// LookupBuiltin finds the builtin for class.name, e.g. Math.max.
func LookupBuiltin(class, name string) (Builtin, bool) {
	for b := BuiltinMathMax; b < builtinCount; b++ {
		if builtinTable[b].class == class && builtinTable[b].name == name {
			return b, true
		}
	}
	return BuiltinInvalid, false
}
