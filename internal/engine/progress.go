package engine

import "time"

// Status is where a candidate is within its current stage.
type Status string

const (
	// StatusQueued indicates the candidate is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the candidate is in Stage.
	StatusWorking Status = "working"
	// StatusDone indicates the candidate passed every stage.
	StatusDone Status = "done"
	// StatusError indicates the candidate failed at Stage.
	StatusError Status = "error"
)

// Event reports progress of one candidate during Evaluate.
type Event struct {
	ID      CandidateID
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration // set on done and error
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// WithProgress reports Evaluate progress to sink.
func WithProgress(sink ProgressSink) Option { return func(e *Engine) { e.progress = sink } }

func (e *Engine) emit(ev Event) {
	if e.progress != nil {
		e.progress.OnEvent(ev)
	}
}
