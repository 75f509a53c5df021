package vm

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"mend/internal/bytecode"
	"mend/internal/compiler"
	"mend/internal/trace"
)

// Defaults applied to zero Options fields.
const (
	DefaultMaxSteps   int64 = 10_000_000
	DefaultMaxDepth         = 1024
	DefaultMaxObjects int64 = 1 << 20
)

// Options bound every invocation on a Context. Zero fields take the
// defaults; negative fields disable the guard.
type Options struct {
	MaxSteps   int64
	MaxDepth   int
	MaxObjects int64
	Tracer     trace.Tracer // nil = tracer from the invocation context
}

func (o Options) withDefaults() Options {
	if o.MaxSteps == 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxObjects == 0 {
		o.MaxObjects = DefaultMaxObjects
	}
	return o
}

// Context is an isolated load context: the loaded classes of one
// candidate, their statics and their heap. Invocations on one Context are
// serialized; distinct Contexts share nothing mutable.
type Context struct {
	mu      sync.Mutex
	opts    Options
	classes map[string]*class // by simple name
	heap    Heap
	stats   Stats
	closed  bool
}

// Stats counts the work done by a Context.
type Stats struct {
	Classes     int
	Invocations int64
	Steps       int64
	Objects     int64
}

// EntryPoint describes an invocable method of a loaded candidate class.
type EntryPoint struct {
	Class  string
	Method string
	Params []string
	Result string
	Static bool
	Public bool
}

func (e EntryPoint) String() string {
	var sb strings.Builder
	if e.Public {
		sb.WriteString("public ")
	}
	if e.Static {
		sb.WriteString("static ")
	}
	fmt.Fprintf(&sb, "%s %s.%s(%s)", e.Result, e.Class, e.Method, strings.Join(e.Params, ", "))
	return sb.String()
}

// Load links the artifacts of a successful compilation together with the
// classpath into a fresh Context. Candidate classes shadow classpath
// classes of the same simple name.
func Load(res *compiler.Result, cp *compiler.ClassPath, opts Options) (*Context, error) {
	if res == nil {
		return nil, &LoadError{Reason: "no compilation result"}
	}
	if !res.Success {
		return nil, &LoadError{Reason: "compilation failed", Err: res.Err()}
	}
	if len(res.Artifacts) == 0 {
		return nil, &LoadError{Reason: "no artifacts"}
	}

	opts = opts.withDefaults()
	c := &Context{
		opts:    opts,
		classes: make(map[string]*class, len(res.Artifacts)+cp.Len()),
	}
	c.heap.max = max(opts.MaxObjects, 0)
	for _, def := range cp.Classes() {
		c.classes[def.Name] = newClass(def, true)
	}
	for _, name := range res.Classes() {
		def, err := bytecode.Decode(res.Artifacts[name])
		if err != nil {
			return nil, &LoadError{Class: name, Reason: "decode", Err: err}
		}
		if def.QualifiedName() != name {
			return nil, &LoadError{Class: name, Reason: "artifact holds class " + def.QualifiedName()}
		}
		if err := bytecode.Verify(def); err != nil {
			return nil, &LoadError{Class: name, Reason: "verify", Err: err}
		}
		if prev, dup := c.classes[def.Name]; dup && !prev.library {
			return nil, &LoadError{Class: name, Reason: "duplicate class " + def.Name}
		}
		c.classes[def.Name] = newClass(def, false)
	}
	if err := link(c.classes); err != nil {
		return nil, err
	}
	c.stats.Classes = len(c.classes)
	return c, nil
}

// EntryPoints lists the non-synthetic methods of the candidate classes,
// ordered by class then method.
func (c *Context) EntryPoints() []EntryPoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []EntryPoint
	for _, cl := range c.classes {
		if cl.library {
			continue
		}
		for _, m := range cl.def.Methods {
			if isSynthetic(m.Name) {
				continue
			}
			out = append(out, EntryPoint{
				Class:  cl.def.QualifiedName(),
				Method: m.Name,
				Params: slices.Clone(m.Params),
				Result: m.Result,
				Static: m.Static,
				Public: m.Public,
			})
		}
	}
	slices.SortFunc(out, func(a, b EntryPoint) int {
		if r := strings.Compare(a.Class, b.Class); r != 0 {
			return r
		}
		return strings.Compare(a.Method, b.Method)
	})
	return out
}

// Stats returns the counters accumulated so far.
func (c *Context) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Objects = c.heap.Allocated()
	return s
}

// Close releases the class table. Further calls return ErrClosed.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.classes = nil
	return nil
}

// Invoke runs class.method with args. class is a simple or qualified
// name. A static method is called directly; an instance method runs on a
// fresh instance created as by new C(). Void methods return Null.
// Runtime faults are *VMError.
func (c *Context) Invoke(ctx context.Context, className, method string, args ...Value) (Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Null, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Null, err
	}
	cl := c.lookup(className)
	if cl == nil {
		return Null, fmt.Errorf("%w: %s", ErrNoSuchClass, className)
	}
	m := cl.methods[method]
	if m == nil || isSynthetic(method) {
		return Null, fmt.Errorf("%w: %s.%s", ErrNoSuchMethod, cl.def.Name, method)
	}
	if err := checkArgs(cl.def.Name, m, args); err != nil {
		return Null, err
	}

	if c.opts.Tracer != nil {
		ctx = trace.WithTracer(ctx, c.opts.Tracer)
	}
	span, ctx := trace.StartSpan(ctx, trace.ScopeMethod, "invoke:"+cl.def.Name+"."+method)

	mc := newMachine(c, ctx)
	v, vmErr := mc.start(cl, m, args)
	if vmErr == nil {
		v, vmErr = mc.Run()
	}
	c.stats.Invocations++
	c.stats.Steps += mc.steps
	span.End("steps=" + strconv.FormatInt(mc.steps, 10))
	if vmErr != nil {
		mc.failInit()
		return Null, vmErr
	}
	return v, nil
}

func (c *Context) lookup(name string) *class {
	if cl, ok := c.classes[name]; ok {
		return cl
	}
	for _, cl := range c.classes {
		if cl.def.QualifiedName() == name {
			return cl
		}
	}
	return nil
}

// start pushes the entry frame, then the constructor of a fresh receiver
// and the class initializer above it, so they run first.
func (m *machine) start(cl *class, method *bytecode.Method, args []Value) (_ Value, vmErr *VMError) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*VMError); ok {
				vmErr = e
				return
			}
			panic(r)
		}
	}()

	entry := newFrame(cl, method)
	slot := 0
	if !method.Static {
		obj, ok := m.c.heap.alloc(cl)
		if !ok {
			return Null, m.eb.heapLimit(m.c.heap.max)
		}
		entry.Locals[0] = objectValue(obj)
		slot = 1
	}
	copy(entry.Locals[slot:], args)
	m.pushFrame(entry)
	if !method.Static {
		if init := cl.methods[bytecode.InitMethod]; init != nil {
			f := newFrame(cl, init)
			f.Locals[0] = entry.Locals[0]
			m.pushFrame(f)
		}
	}
	m.needsInit(cl)
	return Null, nil
}

func checkArgs(class string, m *bytecode.Method, args []Value) error {
	if len(args) != len(m.Params) {
		return fmt.Errorf("%w: %s.%s expects %d arguments, got %d", ErrBadArguments, class, m.Name, len(m.Params), len(args))
	}
	for i, p := range m.Params {
		if !fits(p, args[i]) {
			return fmt.Errorf("%w: argument %d of %s.%s: %s does not fit %s", ErrBadArguments, i+1, class, m.Name, args[i].Kind, p)
		}
	}
	return nil
}

func fits(param string, v Value) bool {
	switch param {
	case "int":
		return v.Kind == VKInt && v.I >= math.MinInt32 && v.I <= math.MaxInt32
	case "long":
		return v.Kind == VKInt
	case "boolean":
		return v.Kind == VKBool
	case "String":
		return v.Kind == VKString || v.Kind == VKNull
	default:
		return v.Kind == VKNull || (v.Kind == VKObject && v.O.Class == param)
	}
}
