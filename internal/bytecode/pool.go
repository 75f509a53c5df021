package bytecode

import "slices"

// Ref names a method or field of some class. Result is the field type or
// the method return type ("void" for none).
type Ref struct {
	Class  string   `msgpack:"class"`
	Name   string   `msgpack:"name"`
	Params []string `msgpack:"params,omitempty"`
	Result string   `msgpack:"result"`
	Field  bool     `msgpack:"field,omitempty"`
}

// Argc counts the parameters of a method ref.
func (r Ref) Argc() int { return len(r.Params) }

// Void reports whether invoking r leaves no value.
func (r Ref) Void() bool { return r.Result == "void" }

func (r Ref) String() string {
	return r.Class + "." + r.Name
}

func refKey(r Ref) string {
	key := r.Class + "." + r.Name + ":" + r.Result
	if r.Field {
		return "F" + key
	}
	for _, p := range r.Params {
		key += "," + p
	}
	return "M" + key
}

// Pool is the per-class constant pool. Строки и ссылки интернируются:
// повторный запрос возвращает тот же индекс.
type Pool struct {
	Strings []string `msgpack:"strings,omitempty"`
	Refs    []Ref    `msgpack:"refs,omitempty"`

	strIndex map[string]int
	refIndex map[string]int
}

// Intern interns s and returns its index.
func (p *Pool) Intern(s string) int64 {
	if p.strIndex == nil {
		p.strIndex = make(map[string]int, len(p.Strings))
		for i, v := range p.Strings {
			p.strIndex[v] = i
		}
	}
	if i, ok := p.strIndex[s]; ok {
		return int64(i)
	}
	p.Strings = append(p.Strings, s)
	p.strIndex[s] = len(p.Strings) - 1
	return int64(len(p.Strings) - 1)
}

// InternRef interns r and returns its index.
func (p *Pool) InternRef(r Ref) int64 {
	if p.refIndex == nil {
		p.refIndex = make(map[string]int, len(p.Refs))
		for i, v := range p.Refs {
			p.refIndex[refKey(v)] = i
		}
	}
	key := refKey(r)
	if i, ok := p.refIndex[key]; ok {
		return int64(i)
	}
	r.Params = slices.Clone(r.Params)
	p.Refs = append(p.Refs, r)
	p.refIndex[key] = len(p.Refs) - 1
	return int64(len(p.Refs) - 1)
}

// LookupString returns the string at index i.
func (p *Pool) LookupString(i int64) (string, bool) {
	if i < 0 || i >= int64(len(p.Strings)) {
		return "", false
	}
	return p.Strings[i], true
}

// LookupRef returns the ref at index i.
func (p *Pool) LookupRef(i int64) (Ref, bool) {
	if i < 0 || i >= int64(len(p.Refs)) {
		return Ref{}, false
	}
	return p.Refs[i], true
}

func (p *Pool) clone() Pool {
	out := Pool{Strings: slices.Clone(p.Strings), Refs: make([]Ref, len(p.Refs))}
	for i, r := range p.Refs {
		r.Params = slices.Clone(r.Params)
		out.Refs[i] = r
	}
	return out
}
