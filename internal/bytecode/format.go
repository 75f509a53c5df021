package bytecode

import (
	"fmt"
	"strings"
)

// Dump renders c as a readable listing.
func (c *Class) Dump() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "class %s", c.Name)
	if c.Unit != "" {
		fmt.Fprintf(&sb, " // %s", c.Unit)
	}
	sb.WriteString("\n")
	for _, f := range c.Fields {
		static := ""
		if f.Static {
			static = "static "
		}
		fmt.Fprintf(&sb, "  field %s%s %s\n", static, f.Type, f.Name)
	}
	for i := range c.Methods {
		m := &c.Methods[i]
		static := ""
		if m.Static {
			static = "static "
		}
		fmt.Fprintf(&sb, "  method %s%s %s(%s) locals=%d\n", static, m.Result, m.Name, strings.Join(m.Params, ", "), m.MaxLocals)
		for pc, in := range m.Code {
			fmt.Fprintf(&sb, "    %4d  %-28s", pc, in.String())
			if note := c.operandNote(in); note != "" {
				sb.WriteString(" ; " + note)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (c *Class) operandNote(in Instr) string {
	if !in.Op.Valid() {
		return ""
	}
	switch opTable[in.Op].operand {
	case operandString:
		s, _ := c.Pool.LookupString(in.A)
		return fmt.Sprintf("%q", s)
	case operandRef:
		r, _ := c.Pool.LookupRef(in.A)
		return r.String()
	case operandBuiltin:
		return Builtin(in.A).String()
	}
	return ""
}
