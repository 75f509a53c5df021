package trace

import (
	"context"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; coarser scopes are smaller.
type Scope uint8

const (
	ScopeEngine Scope = iota + 1 // candidate stages: compile, load, diff
	ScopePhase                   // compiler phases: parse, declare, check, encode
	ScopeUnit                    // per source unit
	ScopeMethod                  // per method body or invocation
)

var scopeNames = [...]string{
	ScopeEngine: "engine",
	ScopePhase:  "phase",
	ScopeUnit:   "unit",
	ScopeMethod: "method",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is a single trace record.
type Event struct {
	Time      time.Time
	Seq       uint64 // assigned by the sink that stores the event
	Kind      Kind
	Scope     Scope
	SpanID    uint64
	ParentID  uint64 // 0 for roots
	Candidate string // candidate the work belongs to, "" outside a candidate
	Name      string // e.g. "compile", "check", "unit:demo.Calc"
	Detail    string
	Extra     map[string]string
}

// Point emits an instant event under the span and candidate carried by ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !admits(t, scope) {
		return
	}
	sc := CurrentSpan(ctx)
	t.Emit(&Event{
		Time:      time.Now(),
		Kind:      KindPoint,
		Scope:     scope,
		ParentID:  sc.SpanID,
		Candidate: sc.Candidate,
		Name:      name,
		Detail:    detail,
	})
}

func admits(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}
