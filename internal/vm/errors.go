package vm

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by a Context after Close.
	ErrClosed = errors.New("vm: context closed")
	// ErrNoSuchClass is returned by Invoke for an unknown class.
	ErrNoSuchClass = errors.New("vm: no such class")
	// ErrNoSuchMethod is returned by Invoke for an unknown or synthetic method.
	ErrNoSuchMethod = errors.New("vm: no such method")
	// ErrBadArguments is returned by Invoke when the arguments do not fit the
	// parameter types.
	ErrBadArguments = errors.New("vm: bad arguments")
)

// LoadError reports why a compilation result could not be loaded.
type LoadError struct {
	Class  string // offending class, empty for whole-result failures
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "load: "
	if e.Class != "" {
		msg += e.Class + ": "
	}
	msg += e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }
