package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx; nil attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// SpanContext is the span and candidate propagated to child events.
type SpanContext struct {
	SpanID    uint64
	Candidate string
}

// CurrentSpan returns the span context carried by ctx (zero if none).
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	sc, _ := ctx.Value(spanKey{}).(SpanContext)
	return sc
}

// WithSpanContext attaches sc to ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanKey{}, sc)
}

// WithCandidate tags every event started under ctx with candidate id.
// Concurrent evaluations interleave in one stream; the tag tells them apart.
func WithCandidate(ctx context.Context, id string) context.Context {
	sc := CurrentSpan(ctx)
	if sc.Candidate == id {
		return ctx
	}
	sc.Candidate = id
	return WithSpanContext(ctx, sc)
}

// StartSpan begins a span under the one carried by ctx and returns a
// context carrying the new span.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	parent := CurrentSpan(ctx)
	sp := begin(FromContext(ctx), scope, name, parent)
	if sp.ID() == 0 {
		return sp, ctx
	}
	return sp, WithSpanContext(ctx, SpanContext{SpanID: sp.ID(), Candidate: parent.Candidate})
}
