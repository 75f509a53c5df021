package diag

import (
	"fmt"
	"slices"

	"mend/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is an immutable finding produced by a parse attempt or a compilation session.
// Unit, Line and Column are filled by Resolve once the owning unit is known.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note

	Unit   string // qualified name of the unit
	Line   uint32 // 1-based, 0 when unresolved
	Column uint32 // 1-based, 0 when unresolved
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// WithNote returns a copy with a note appended.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(slices.Clip(d.Notes), Note{Span: sp, Msg: msg})
	return d
}

// Resolve returns a copy with unit name and line/column derived from u.
func (d Diagnostic) Resolve(u *source.Unit) Diagnostic {
	if u == nil {
		return d
	}
	pos := u.Position(d.Primary.Start)
	d.Unit = u.QualifiedName
	d.Line = pos.Line
	d.Column = pos.Col
	return d
}

// IsError reports whether the diagnostic blocks compilation.
func (d Diagnostic) IsError() bool {
	return d.Severity >= SevError
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code.ID(), d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s %s: %s", d.Unit, d.Line, d.Column, d.Severity, d.Code.ID(), d.Message)
}
