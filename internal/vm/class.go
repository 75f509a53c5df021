package vm

import (
	"errors"
	"fmt"
	"slices"

	"mend/internal/bytecode"
)

// ErrUnresolved is wrapped by a LoadError whose artifact refers to a class,
// method or field the context cannot provide.
var ErrUnresolved = errors.New("unresolved reference")

type initState uint8

const (
	uninitialized initState = iota
	initializing
	initialized
	initFailed
)

// class is a bytecode.Class linked into one Context. The definition is
// shared and read-only; statics and init state belong to the context.
type class struct {
	def     *bytecode.Class
	methods map[string]*bytecode.Method
	statics map[string]Value
	state   initState
	library bool // came from the classpath
}

func newClass(def *bytecode.Class, library bool) *class {
	c := &class{
		def:     def,
		methods: make(map[string]*bytecode.Method, len(def.Methods)),
		statics: make(map[string]Value),
		library: library,
	}
	for i := range def.Methods {
		c.methods[def.Methods[i].Name] = &def.Methods[i]
	}
	for _, f := range def.Fields {
		if f.Static {
			c.statics[f.Name] = zeroValue(f.Type)
		}
	}
	return c
}

// zeroValue is the default of a field of type t.
func zeroValue(t string) Value {
	switch t {
	case "int", "long":
		return Int(0)
	case "boolean":
		return Bool(false)
	default:
		return Null
	}
}

func isSynthetic(name string) bool {
	return name == bytecode.InitMethod || name == bytecode.ClinitMethod
}

// link checks every symbolic reference of every class against the table.
func link(classes map[string]*class) error {
	names := make([]string, 0, len(classes))
	for n := range classes {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		c := classes[n]
		for i := range c.def.Methods {
			m := &c.def.Methods[i]
			for pc, in := range m.Code {
				if err := linkInstr(classes, c.def, in); err != nil {
					return &LoadError{
						Class:  c.def.QualifiedName(),
						Reason: fmt.Sprintf("link %s at pc %d", m.Name, pc),
						Err:    err,
					}
				}
			}
		}
	}
	return nil
}

func linkInstr(classes map[string]*class, owner *bytecode.Class, in bytecode.Instr) error {
	switch in.Op {
	case bytecode.OpNew:
		name, _ := owner.Pool.LookupString(in.A)
		if _, ok := classes[name]; !ok {
			return fmt.Errorf("%w: class %s", ErrUnresolved, name)
		}
	case bytecode.OpGetStatic, bytecode.OpPutStatic:
		ref, _ := owner.Pool.LookupRef(in.A)
		target, ok := classes[ref.Class]
		if !ok {
			return fmt.Errorf("%w: class %s", ErrUnresolved, ref.Class)
		}
		f := target.def.Field(ref.Name)
		if f == nil || !f.Static || f.Type != ref.Result {
			return fmt.Errorf("%w: static field %s %s", ErrUnresolved, ref.Result, ref)
		}
	case bytecode.OpInvokeStatic, bytecode.OpInvokeVirtual, bytecode.OpInvokeSpecial:
		ref, _ := owner.Pool.LookupRef(in.A)
		target, ok := classes[ref.Class]
		if !ok {
			return fmt.Errorf("%w: class %s", ErrUnresolved, ref.Class)
		}
		m := target.def.Method(ref.Name)
		if m == nil {
			if in.Op == bytecode.OpInvokeSpecial && ref.Name == bytecode.InitMethod {
				return nil
			}
			return fmt.Errorf("%w: method %s", ErrUnresolved, ref)
		}
		if m.Static != (in.Op == bytecode.OpInvokeStatic) || m.Result != ref.Result || !slices.Equal(m.Params, ref.Params) {
			return fmt.Errorf("%w: method %s has an incompatible signature", ErrUnresolved, ref)
		}
	}
	return nil
}
