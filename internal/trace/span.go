package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// stamp gives ev a sequence number unless an upstream sink already did.
func stamp(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = seqCounter.Add(1)
	}
}

// Span is an open span; End emits its closing event. A zero Span records nothing.
type Span struct {
	tracer  Tracer
	open    Event
	started time.Time
	extra   map[string]string
}

// Begin starts a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, SpanContext{SpanID: parent})
}

func begin(t Tracer, scope Scope, name string, parent SpanContext) *Span {
	if !admits(t, scope) {
		return &Span{}
	}
	now := time.Now()
	sp := &Span{
		tracer:  t,
		started: now,
		open: Event{
			Time:      now,
			Kind:      KindSpanBegin,
			Scope:     scope,
			SpanID:    spanCounter.Add(1),
			ParentID:  parent.SpanID,
			Candidate: parent.Candidate,
			Name:      name,
		},
	}
	ev := sp.open
	t.Emit(&ev)
	return sp
}

// End emits the end event with detail and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	dur := time.Since(s.started)
	ev := s.open
	ev.Time = s.started.Add(dur)
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Extra = s.extra
	s.tracer.Emit(&ev)
	s.tracer = nil
	return dur
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for spans that record nothing.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.open.SpanID
}
