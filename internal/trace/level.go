package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // heartbeats only; the ring is dumped on failure
	LevelPhase        // engine stages and compiler phases
	LevelDetail       // plus per-unit spans
	LevelDebug        // plus per-method spans and VM invocations
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// deepest scope emitted at each level
var levelScope = [...]Scope{LevelPhase: ScopePhase, LevelDetail: ScopeUnit, LevelDebug: ScopeMethod}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel parses a level name case-insensitively; "" is off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(s)
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether spans and points of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelScope) && scope <= levelScope[l]
}
