package bytecode

import "slices"

// Names of the synthetic methods emitted for field initializers.
const (
	InitMethod   = "<init>"
	ClinitMethod = "<clinit>"
)

// Class is one compiled class. Classes are plain data: the vm links them
// into its own tables, so one decoded Class may back many contexts.
type Class struct {
	Name    string   `msgpack:"name"`
	Package string   `msgpack:"package,omitempty"`
	Unit    string   `msgpack:"unit,omitempty"` // qualified name of the source unit
	Imports []string `msgpack:"imports,omitempty"`
	Fields  []Field  `msgpack:"fields,omitempty"`
	Methods []Method `msgpack:"methods,omitempty"`
	Pool    Pool     `msgpack:"pool"`
}

type Field struct {
	Name   string `msgpack:"name"`
	Type   string `msgpack:"type"`
	Static bool   `msgpack:"static,omitempty"`
}

type Method struct {
	Name      string   `msgpack:"name"`
	Params    []string `msgpack:"params,omitempty"`
	Result    string   `msgpack:"result"`
	Static    bool     `msgpack:"static,omitempty"`
	Public    bool     `msgpack:"public,omitempty"`
	MaxLocals int      `msgpack:"locals"`
	Line      uint32   `msgpack:"line,omitempty"`
	Code      []Instr  `msgpack:"code"`
}

// Void reports whether the method leaves no value.
func (m *Method) Void() bool { return m.Result == "void" }

// Argc counts the parameters, excluding the receiver.
func (m *Method) Argc() int { return len(m.Params) }

// QualifiedName is Package.Name, or Name in the default package.
func (c *Class) QualifiedName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

// Method returns the method with the given name, or nil.
func (c *Class) Method(name string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

// Field returns the field with the given name, or nil.
func (c *Class) Field(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Class) Clone() *Class {
	out := *c
	out.Imports = slices.Clone(c.Imports)
	out.Fields = slices.Clone(c.Fields)
	out.Methods = make([]Method, len(c.Methods))
	for i, m := range c.Methods {
		m.Params = slices.Clone(m.Params)
		m.Code = slices.Clone(m.Code)
		out.Methods[i] = m
	}
	out.Pool = c.Pool.clone()
	return &out
}
