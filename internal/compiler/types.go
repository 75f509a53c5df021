package compiler

// Type is a source-level type name: a primitive, String, or a class name.
// It matches the type strings stored in bytecode signatures.
type Type string

const (
	Invalid Type = "" // after a reported error; assignable everywhere to stop cascades
	Int     Type = "int"
	Long    Type = "long"
	Boolean Type = "boolean"
	Void    Type = "void"
	String  Type = "String"
	Null    Type = "null" // type of the null literal
)

func (t Type) IsNumeric() bool { return t == Int || t == Long }

func (t Type) IsPrimitive() bool {
	return t == Int || t == Long || t == Boolean || t == Void
}

// IsRef reports whether values of t are references (String, classes, null).
func (t Type) IsRef() bool {
	return t != Invalid && !t.IsPrimitive()
}

// IsClass reports whether t names a user or classpath class.
func (t Type) IsClass() bool {
	return t.IsRef() && t != String && t != Null
}

func (t Type) String() string {
	if t == Invalid {
		return "<invalid>"
	}
	return string(t)
}

// assignable reports whether a value of type from may be stored into to.
func assignable(to, from Type) bool {
	switch {
	case to == Invalid || from == Invalid:
		return true
	case to == from:
		return to != Void
	case to == Long && from == Int:
		return true
	case to.IsRef() && to != Null && from == Null:
		return true
	}
	return false
}

// promote is binary numeric promotion.
func promote(a, b Type) Type {
	if a == Long || b == Long {
		return Long
	}
	return Int
}

// width is the operand of arithmetic instructions: 1 wraps to 32 bits.
func width(t Type) int64 {
	if t == Int {
		return 1
	}
	return 0
}
