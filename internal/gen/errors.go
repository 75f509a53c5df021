package gen

import (
	"errors"
	"fmt"

	"mend/internal/diag"
)

var (
	// ErrNotFound reports that no registration accepts a unit name.
	ErrNotFound = errors.New("no tree generator accepts unit")
	// ErrInvalidRegistration reports a rejected Register call.
	ErrInvalidRegistration = errors.New("invalid generator registration")
)

// NotFoundError carries the unit name that no generator accepted.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNotFound.Error(), e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ParseError is returned by generators when a unit is syntactically invalid.
// Line and Column locate the first error; Diagnostics holds all of them.
type ParseError struct {
	Unit        string
	Line        uint32
	Column      uint32
	Message     string
	Diagnostics []diag.Diagnostic
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Unit, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Unit, e.Line, e.Column, e.Message)
}

// NewParseError builds a ParseError from resolved diagnostics. The first
// error diagnostic, in source order, becomes the headline.
func NewParseError(unit string, diags []diag.Diagnostic) *ParseError {
	pe := &ParseError{Unit: unit, Diagnostics: diags, Message: "syntax error"}
	var first *diag.Diagnostic
	for i := range diags {
		d := &diags[i]
		if !d.IsError() {
			continue
		}
		if first == nil || d.Line < first.Line || (d.Line == first.Line && d.Column < first.Column) {
			first = d
		}
	}
	if first != nil {
		pe.Line, pe.Column, pe.Message = first.Line, first.Column, first.Message
	}
	return pe
}
