package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mend/internal/diag"
	"mend/internal/diff"
	"mend/internal/source"
)

type palette struct {
	err, warn, note, loc, gutter, caret, code *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		note:   color.New(color.FgCyan),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		code:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.note, p.loc, p.gutter, p.caret, p.code} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.note
	}
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	demo.Calc:8:20: error SEM3005: cannot find symbol: variable c
//	 8 |         return a + c;
//	   |                    ^
//
// Diagnostics are printed in the given order. Units may be nil; source
// excerpts are then omitted.
func Pretty(w io.Writer, diags []diag.Diagnostic, units Units, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	ew := &errWriter{w: w}
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	for _, d := range diags[:n] {
		var u *source.Unit
		if units != nil && d.Unit != "" {
			u, _ = units.Lookup(d.Unit)
		}
		sev := p.severity(d.Severity)
		loc := d.Unit
		if d.Line > 0 {
			loc = fmt.Sprintf("%s:%d:%d", d.Unit, d.Line, d.Column)
		}
		if loc != "" {
			ew.printf("%s: ", p.loc.Sprint(loc))
		}
		ew.printf("%s %s: %s\n", sev.Sprint(strings.ToLower(d.Severity.String())), p.code.Sprint(d.Code.ID()), d.Message)
		if u != nil && d.Line > 0 {
			excerpt(ew, p, u, d.Primary, d.Line, opts)
		}
		if opts.ShowNotes {
			for _, note := range d.Notes {
				ew.printf("  %s: %s", p.note.Sprint("note"), note.Msg)
				if u != nil && note.Span.Unit == u.ID && !note.Span.Empty() {
					pos := u.Position(note.Span.Start)
					ew.printf(" (%s:%d:%d)", u.QualifiedName, pos.Line, pos.Col)
				}
				ew.printf("\n")
			}
		}
	}
	if n < len(diags) {
		ew.printf("... and %d more\n", len(diags)-n)
	}
	return ew.err
}

// excerpt prints context lines, the primary line and a caret underline
// aligned by display width.
func excerpt(ew *errWriter, p palette, u *source.Unit, sp source.Span, line uint32, opts PrettyOpts) {
	first := line
	if opts.Context > 0 {
		first = uint32(max(1, int(line)-opts.Context))
	}
	gw := len(strconv.Itoa(int(line)))
	for l := first; l <= line; l++ {
		ew.printf("%s %s\n", p.gutter.Sprintf(" %*d |", gw, l), expandTabs(u.Line(l), opts.tabWidth()))
	}

	text := u.Line(line)
	start, end := u.Resolve(sp)
	col := int(start.Col) - 1
	col = min(max(col, 0), len(text))
	stop := len(text)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(text))
	}
	pad := runewidth.StringWidth(expandTabs(text[:col], opts.tabWidth()))
	width := runewidth.StringWidth(expandTabs(text[col:stop], opts.tabWidth()))
	mark := "^"
	if width > 1 {
		mark += strings.Repeat("~", width-1)
	}
	ew.printf("%s %s%s\n", p.gutter.Sprintf(" %*s |", gw, ""), strings.Repeat(" ", pad), p.caret.Sprint(mark))
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// PrettyScript prints one explained action per line, numbered.
func PrettyScript(w io.Writer, ex []diff.Explanation, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	ew := &errWriter{w: w}
	if len(ex) == 0 {
		ew.printf("no changes\n")
		return ew.err
	}
	gw := len(strconv.Itoa(len(ex)))
	for i, e := range ex {
		var c *color.Color
		switch e.Action.Op {
		case diff.OpInsert:
			c = p.caret
		case diff.OpDelete:
			c = p.err
		case diff.OpUpdate:
			c = p.warn
		default:
			c = p.note
		}
		ew.printf("%*d. ", gw, i+1)
		if e.Line > 0 {
			ew.printf("%s: ", p.loc.Sprintf("%s:%d:%d", e.Unit, e.Line, e.Column))
		}
		ew.printf("%s\n", c.Sprint(e.Text))
	}
	return ew.err
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
