package diag

import "mend/internal/source"

// Reporter принимает диагностики от лексера и парсера.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(code Code, sev Severity, primary source.Span, msg string, notes []Note)

func (f ReporterFunc) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	f(code, sev, primary, msg, notes)
}

// BagReporter stores reports in Bag; a nil Bag drops them.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag != nil {
		r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
	}
}

// Dedup forwards to next only the first report for each code, span and
// message. Parser recovery tends to hit the same token more than once.
// The returned Reporter is not safe for concurrent use.
func Dedup(next Reporter) Reporter {
	type key struct {
		code Code
		sp   source.Span
		msg  string
	}
	seen := make(map[key]struct{})
	return ReporterFunc(func(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
		k := key{code, primary, msg}
		if _, dup := seen[k]; dup || next == nil {
			return
		}
		seen[k] = struct{}{}
		next.Report(code, sev, primary, msg, notes)
	})
}
