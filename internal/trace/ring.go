package trace

import (
	"io"
	"slices"
	"sync"
)

const defaultRingSize = 4096

// RingTracer keeps the most recent events in memory. Dump writes them out,
// typically after a candidate crashed.
type RingTracer struct {
	gate
	mu   sync.Mutex
	buf  []Event
	next int // slot to overwrite once buf is at capacity
}

// NewRingTracer returns a ring holding up to capacity events (4096 if <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{gate: gate{level}, buf: make([]Event, 0, capacity)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.pass(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stamp(&stored)
	if len(t.buf) < cap(t.buf) {
		t.buf = append(t.buf, stored)
		return
	}
	t.buf[t.next] = stored
	t.next = (t.next + 1) % len(t.buf)
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append(slices.Clone(t.buf[t.next:]), t.buf[:t.next]...)
}

// Dump writes the snapshot to w in format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
