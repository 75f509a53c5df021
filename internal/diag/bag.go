package diag

import (
	"cmp"
	"slices"

	"mend/internal/source"
)

// Bag collects the diagnostics of one parse or compilation.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag that keeps at most limit diagnostics; limit <= 0 means unbounded.
func NewBag(limit int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, 16), max: limit}
}

// Add добавляет диагностику с учётом лимита; false — отброшена.
// The first error is kept even past the limit, so a full bag never hides a failure.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max && (!d.IsError() || b.HasErrors()) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, Diagnostic.IsError)
}

func (b *Bag) ErrorCount() int {
	n := 0
	for _, d := range b.items {
		if d.IsError() {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// Snapshot returns a copy that is safe to hand to other goroutines.
func (b *Bag) Snapshot() []Diagnostic { return slices.Clone(b.items) }

// Resolve fills unit names and positions from the store the spans belong to.
func (b *Bag) Resolve(store *source.Store) {
	for i, d := range b.items {
		b.items[i] = d.Resolve(store.Get(d.Primary.Unit))
	}
}

// Sort orders by unit, start, end, then severity (errors first), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.Unit, y.Primary.Unit),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
