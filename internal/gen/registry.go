package gen

import (
	"fmt"
	"sync"

	"mend/internal/source"
	"mend/internal/tree"
)

// Generator turns one unit into a syntax tree. Failures are *ParseError.
// A Generator value is used by one goroutine; Factory makes a new one per Select.
type Generator interface {
	Generate(u *source.Unit) (*tree.Tree, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(u *source.Unit) (*tree.Tree, error)

func (f GeneratorFunc) Generate(u *source.Unit) (*tree.Tree, error) { return f(u) }

type Priority int

const (
	Minimum Priority = 0
	Low     Priority = 25
	Medium  Priority = 50
	High    Priority = 75
	Maximum Priority = 100
)

func (p Priority) String() string {
	switch p {
	case Minimum:
		return "minimum"
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Maximum:
		return "maximum"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

type Registration struct {
	ID       string
	Pattern  Pattern
	Priority Priority
	Factory  func() Generator
}

// Registry is safe for concurrent use. Registrations are never removed.
type Registry struct {
	mu   sync.RWMutex
	regs []Registration
	ids  map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]struct{})}
}

// Register appends a registration; ids are unique.
func (r *Registry) Register(reg Registration) error {
	switch {
	case reg.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidRegistration)
	case reg.Pattern == nil:
		return fmt.Errorf("%w: %s: nil pattern", ErrInvalidRegistration, reg.ID)
	case reg.Factory == nil:
		return fmt.Errorf("%w: %s: nil factory", ErrInvalidRegistration, reg.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ids[reg.ID]; dup {
		return fmt.Errorf("%w: duplicate id %q", ErrInvalidRegistration, reg.ID)
	}
	r.ids[reg.ID] = struct{}{}
	r.regs = append(r.regs, reg)
	return nil
}

// Lookup finds the winning registration for a unit name without creating a generator.
func (r *Registry) Lookup(name string) (Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	best := -1
	for i, reg := range r.regs {
		if !reg.Pattern.Matches(name) {
			continue
		}
		// строго больше: при равенстве остаётся более ранняя
		if best < 0 || reg.Priority > r.regs[best].Priority {
			best = i
		}
	}
	if best < 0 {
		return Registration{}, &NotFoundError{Name: name}
	}
	return r.regs[best], nil
}

// Select returns a fresh generator for the winning registration.
func (r *Registry) Select(name string) (Generator, Registration, error) {
	reg, err := r.Lookup(name)
	if err != nil {
		return nil, Registration{}, err
	}
	return reg.Factory(), reg, nil
}

// Parse selects by the unit's synthetic path and runs the generator.
func (r *Registry) Parse(u *source.Unit) (*tree.Tree, error) {
	if u == nil {
		return nil, fmt.Errorf("gen: nil unit")
	}
	g, _, err := r.Select(u.Path())
	if err != nil {
		return nil, err
	}
	return g.Generate(u)
}

// Registrations returns a snapshot in registration order.
func (r *Registry) Registrations() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Registration, len(r.regs))
	copy(out, r.regs)
	return out
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry populated by generator packages.
func Default() *Registry { return defaultRegistry }

func Register(reg Registration) error { return defaultRegistry.Register(reg) }

func Select(name string) (Generator, Registration, error) { return defaultRegistry.Select(name) }

func Parse(u *source.Unit) (*tree.Tree, error) { return defaultRegistry.Parse(u) }
