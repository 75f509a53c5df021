package vm

// Handle is a stable, monotonically increasing object id.
// Handle(0) is always invalid.
type Handle uint32

// Object is an instance of a candidate or classpath class.
type Object struct {
	ID     Handle
	Class  string
	Fields map[string]Value
}

// Heap counts the objects of one Context. Objects themselves are owned
// by the Go collector; the heap only hands out ids and enforces the
// allocation budget.
type Heap struct {
	next  Handle
	count int64
	max   int64 // 0 = unbounded
}

func (h *Heap) alloc(c *class) (*Object, bool) {
	if h.max > 0 && h.count >= h.max {
		return nil, false
	}
	h.next++
	h.count++
	obj := &Object{
		ID:     h.next,
		Class:  c.def.Name,
		Fields: make(map[string]Value, len(c.def.Fields)),
	}
	for _, f := range c.def.Fields {
		if !f.Static {
			obj.Fields[f.Name] = zeroValue(f.Type)
		}
	}
	return obj, true
}

// Allocated returns the number of objects allocated so far.
func (h *Heap) Allocated() int64 { return h.count }
