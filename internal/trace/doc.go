// Package trace records spans for the phases of a compile-and-compare run.
//
// # Usage
//
//	tr, _ := trace.New(trace.Config{Level: trace.LevelDetail, Mode: trace.ModeStream, OutputPath: "-"})
//	ctx = trace.WithTracer(ctx, tr)
//
//	ctx = trace.WithCandidate(ctx, string(id))
//	span, ctx := trace.StartSpan(ctx, trace.ScopePhase, "check")
//	defer span.End("")
//
// Events started under WithCandidate carry the candidate id, so the
// interleaved output of a parallel Evaluate can be split per candidate.
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory for dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits engine and phase spans, LevelDetail adds per-unit spans,
// LevelDebug adds per-method spans.
package trace
