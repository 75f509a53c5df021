package compiler

import (
	"fmt"

	"mend/internal/diag"
	"mend/internal/source"
)

func (s *session) report(u *unitInfo, sev diag.Severity, code diag.Code, sp source.Span, msg string) {
	d := diag.New(sev, code, sp, msg)
	if u != nil {
		d = d.Resolve(u.unit)
	}
	s.bag.Add(d)
}

func (s *session) errorf(u *unitInfo, code diag.Code, sp source.Span, format string, args ...any) {
	s.report(u, diag.SevError, code, sp, fmt.Sprintf(format, args...))
}

func (s *session) warnf(u *unitInfo, code diag.Code, sp source.Span, format string, args ...any) {
	s.report(u, diag.SevWarning, code, sp, fmt.Sprintf(format, args...))
}
