package trace

// gate is the level filter shared by the sinks.
type gate struct{ level Level }

func (g gate) Level() Level  { return g.level }
func (g gate) Enabled() bool { return g.level > LevelOff }

// pass reports whether a sink at this level stores ev.
// Heartbeats pass every enabled level.
func (g gate) pass(ev *Event) bool {
	if ev.Kind == KindHeartbeat {
		return g.Enabled()
	}
	return g.level.ShouldEmit(ev.Scope)
}

type nopTracer struct{ gate }

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }

// Nop discards everything. It is what FromContext returns when no tracer is set.
var Nop Tracer = nopTracer{}
