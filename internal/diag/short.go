package diag

import (
	"sort"
	"strconv"
	"strings"
)

// FormatShort renders resolved diagnostics one per line in a stable order:
//
//	error SYN2001 A:3:5 unexpected token '}'
//
// Multi-line messages are folded onto one line. Returns "" for no diagnostics.
func FormatShort(diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i], sorted[j]
		if di.Unit != dj.Unit {
			return di.Unit < dj.Unit
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		return di.Code < dj.Code
	})

	var sb strings.Builder
	for i, d := range sorted {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.ToLower(d.Severity.String()))
		sb.WriteByte(' ')
		sb.WriteString(d.Code.ID())
		sb.WriteByte(' ')
		sb.WriteString(d.Unit)
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(uint64(d.Line), 10))
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(uint64(d.Column), 10))
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(strings.Fields(d.Message), " "))
	}
	return sb.String()
}
