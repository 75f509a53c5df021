package source

import (
	"fmt"
	"sort"
	"sync"

	"fortio.org/safecast"
)

// Store holds the units of one candidate (or one compilation session) in memory.
// Adding a name that already exists creates a new version; the index always
// points at the latest one and older versions stay readable by ID.
type Store struct {
	mu    sync.RWMutex
	units []*Unit
	index map[string]UnitID // qualified name -> latest id
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		units: make([]*Unit, 0, 4),
		index: make(map[string]UnitID),
	}
}

// Add binds u to the store and returns the bound copy carrying its UnitID.
func (s *Store) Add(u *Unit) *Unit {
	if u == nil {
		panic("source: nil unit")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := safecast.Conv[uint32](len(s.units))
	if err != nil {
		panic(fmt.Errorf("len units overflow: %w", err))
	}
	bound := u.withID(UnitID(n))
	s.units = append(s.units, bound)
	s.index[u.QualifiedName] = bound.ID
	return bound
}

// AddSource creates and binds a KindSource unit in one step.
func (s *Store) AddSource(qualifiedName, text string) *Unit {
	return s.Add(NewSource(qualifiedName, text))
}

// Get returns the unit for id, or nil when id is unknown.
func (s *Store) Get(id UnitID) *Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(id) >= len(s.units) {
		return nil
	}
	return s.units[id]
}

// Lookup returns the latest unit with the given qualified name.
func (s *Store) Lookup(qualifiedName string) (*Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.index[qualifiedName]
	if !ok {
		return nil, false
	}
	return s.units[id], true
}

// Latest returns the latest version of every unit, sorted by qualified name.
func (s *Store) Latest() []*Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Unit, 0, len(s.index))
	for _, id := range s.index {
		out = append(out, s.units[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QualifiedName < out[j].QualifiedName })
	return out
}

// Len returns the number of stored versions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.units)
}

// Resolve converts a span into line and column positions.
func (s *Store) Resolve(span Span) (start, end LineCol) {
	u := s.Get(span.Unit)
	if u == nil {
		return LineCol{}, LineCol{}
	}
	return u.Resolve(span)
}
