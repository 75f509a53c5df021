package diagfmt

import (
	"encoding/json"
	"io"

	"mend/internal/compiler"
	"mend/internal/diag"
	"mend/internal/diff"
	"mend/internal/engine"
	"mend/internal/observ"
)

// LocationJSON представляет местоположение в юните для JSON
type LocationJSON struct {
	Unit      string `json:"unit,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Line      uint32 `json:"line,omitempty"`
	Column    uint32 `json:"column,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message   string `json:"message"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of diagnostics output.
type DiagnosticsOutput struct {
	Success     bool             `json:"success"`
	Classes     []string         `json:"classes,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildDiagnostic converts one diagnostic.
func BuildDiagnostic(d diag.Diagnostic, includeNotes bool) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: LocationJSON{
			Unit:      d.Unit,
			StartByte: d.Primary.Start,
			EndByte:   d.Primary.End,
			Line:      d.Line,
			Column:    d.Column,
		},
	}
	if includeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, StartByte: n.Span.Start, EndByte: n.Span.End})
		}
	}
	return out
}

// BuildCompileOutput формирует структуру JSON-вывода без сериализации.
// Count is the total number of diagnostics even when Max trims the list.
func BuildCompileOutput(res *compiler.Result, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{
		Success:     res.Success,
		Classes:     res.Classes(),
		Diagnostics: make([]DiagnosticJSON, 0, len(res.Diagnostics)),
		Count:       len(res.Diagnostics),
	}
	for i, d := range res.Diagnostics {
		if opts.Max > 0 && i >= opts.Max {
			break
		}
		out.Diagnostics = append(out.Diagnostics, BuildDiagnostic(d, opts.IncludeNotes))
	}
	return out
}

// JSON writes a compilation result.
func JSON(w io.Writer, res *compiler.Result, opts JSONOpts) error {
	return encode(w, BuildCompileOutput(res, opts), opts)
}

// ScriptOutput is the root of edit-script output.
type ScriptOutput struct {
	Actions []diff.Explanation `json:"actions"`
	Count   int                `json:"count"`
}

// JSONScript writes explained actions.
func JSONScript(w io.Writer, ex []diff.Explanation, opts JSONOpts) error {
	out := ScriptOutput{Actions: ex, Count: len(ex)}
	if out.Actions == nil {
		out.Actions = []diff.Explanation{}
	}
	if opts.Max > 0 && len(out.Actions) > opts.Max {
		out.Actions = out.Actions[:opts.Max]
	}
	return encode(w, out, opts)
}

// ReportJSON is the serialized engine.Report.
type ReportJSON struct {
	ID          string           `json:"id"`
	Stage       string           `json:"stage"`
	Error       string           `json:"error,omitempty"`
	Defect      bool             `json:"defect,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
	Actions     []diff.Action    `json:"actions,omitempty"`
	Timing      observ.Report    `json:"timing"`
}

// BuildReport converts an engine report.
func BuildReport(r engine.Report, opts JSONOpts) ReportJSON {
	out := ReportJSON{
		ID:      string(r.ID),
		Stage:   r.Stage.String(),
		Defect:  r.Defect(),
		Actions: r.Script,
		Timing:  r.Timing,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	if r.Result != nil {
		out.Diagnostics = BuildCompileOutput(r.Result, opts).Diagnostics
	}
	return out
}

// JSONReports writes engine reports as an array.
func JSONReports(w io.Writer, reports []engine.Report, opts JSONOpts) error {
	out := make([]ReportJSON, len(reports))
	for i, r := range reports {
		out[i] = BuildReport(r, opts)
	}
	return encode(w, out, opts)
}

func encode(w io.Writer, v any, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
