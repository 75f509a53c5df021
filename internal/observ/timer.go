// Package observ measures engine stages per candidate.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Stage is one measured step of a candidate's evaluation.
type Stage struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	done  bool
}

// Timer records stages in start order. It is safe for concurrent use; a
// nil *Timer records nothing.
type Timer struct {
	mu     sync.Mutex
	now    func() time.Time
	stages []Stage
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer { return &Timer{now: time.Now, stages: make([]Stage, 0, 4)} }

// Begin starts a stage and returns its handle for End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages = append(t.stages, Stage{Name: name, Start: t.now()})
	return len(t.stages) - 1
}

// End finishes stage idx. Ending an unknown or finished stage is a no-op.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.stages) || t.stages[idx].done {
		return
	}
	s := &t.stages[idx]
	s.Dur = t.now().Sub(s.Start)
	s.Note = note
	s.done = true
}

// Time runs fn as stage name and returns its error.
func (t *Timer) Time(name string, fn func() error) error {
	idx := t.Begin(name)
	err := fn()
	note := ""
	if err != nil {
		note = "failed"
	}
	t.End(idx, note)
	return err
}

// Stages returns a copy of the recorded stages.
func (t *Timer) Stages() []Stage {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Stage(nil), t.stages...)
}

// Summary renders the stages as an aligned table.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, s := range r.Stages {
		fmt.Fprintf(&sb, "  %-12s %9.3f ms", s.Name, s.DurationMS)
		if s.Note != "" {
			sb.WriteString("  // " + s.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-12s %9.3f ms\n", "total", r.TotalMS)
	return sb.String()
}

// StageReport is the serialized form of a Stage.
type StageReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report — итог таймера для логов и JSON-вывода.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages,omitempty"`
}

// Stage returns the report of the first stage called name.
func (r Report) Stage(name string) (StageReport, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageReport{}, false
}

// Report summarizes finished stages; unfinished ones are skipped.
func (t *Timer) Report() Report {
	var r Report
	var total time.Duration
	for _, s := range t.Stages() {
		if !s.done {
			continue
		}
		total += s.Dur
		r.Stages = append(r.Stages, StageReport{Name: s.Name, DurationMS: millis(s.Dur), Note: s.Note})
	}
	r.TotalMS = millis(total)
	return r
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
