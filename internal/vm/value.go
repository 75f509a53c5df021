package vm

import (
	"fmt"
	"strconv"
	"unicode/utf16"
)

// ValueKind identifies the runtime type of a Value.
type ValueKind uint8

const (
	// VKNull is the null reference; the zero Value is null.
	VKNull ValueKind = iota
	// VKInt is a signed integer (int and long share it).
	VKInt
	// VKBool is a boolean.
	VKBool
	// VKString is an immutable string.
	VKString
	// VKObject is a reference to a heap object.
	VKObject
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case VKNull:
		return "null"
	case VKInt:
		return "int"
	case VKBool:
		return "boolean"
	case VKString:
		return "String"
	case VKObject:
		return "object"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Value is one runtime value. Values are small and passed by copy.
type Value struct {
	Kind ValueKind
	I    int64
	B    bool
	S    string
	O    *Object
}

// Null is the null reference.
var Null = Value{}

// Int makes an integer value.
func Int(v int64) Value { return Value{Kind: VKInt, I: v} }

// Bool makes a boolean value.
func Bool(b bool) Value { return Value{Kind: VKBool, B: b} }

// Str makes a string value.
func Str(s string) Value { return Value{Kind: VKString, S: s} }

func objectValue(o *Object) Value { return Value{Kind: VKObject, O: o} }

// IsNull reports whether v is the null reference.
func (v Value) IsNull() bool { return v.Kind == VKNull }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.I, v.Kind == VKInt }

// AsBool returns the boolean payload.
func (v Value) AsBool() (value, ok bool) { return v.B, v.Kind == VKBool }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.S, v.Kind == VKString }

// String renders v the way string concatenation does.
func (v Value) String() string {
	switch v.Kind {
	case VKInt:
		return strconv.FormatInt(v.I, 10)
	case VKBool:
		return strconv.FormatBool(v.B)
	case VKString:
		return v.S
	case VKObject:
		return fmt.Sprintf("%s@%x", v.O.Class, uint32(v.O.ID))
	default:
		return "null"
	}
}

// Equal is == on values: primitives and strings by value, objects by
// identity.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case VKInt:
		return a.I == b.I
	case VKBool:
		return a.B == b.B
	case VKString:
		return a.S == b.S
	case VKObject:
		return a.O == b.O
	default:
		return true
	}
}

// stringLength counts UTF-16 code units.
func stringLength(s string) int64 {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return int64(n)
}

func wrap32(v int64) int64 { return int64(int32(v)) }
