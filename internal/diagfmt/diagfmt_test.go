package diagfmt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/compiler"
	"mend/internal/diag"
	"mend/internal/diagfmt"
	"mend/internal/diff"
	"mend/internal/engine"
	"mend/internal/observ"
	"mend/internal/source"
)

const calc = "package demo;\nclass Calc {\n  static int f(int a) {\n    return a + c;\n  }\n}\n"

func failed(t *testing.T, units ...*source.Unit) *compiler.Result {
	t.Helper()
	res, err := compiler.Compile(context.Background(), units, nil, compiler.Options{})
	require.NoError(t, err)
	require.False(t, res.Success)
	return res
}

func TestPretty(t *testing.T) {
	store := source.NewStore()
	u := store.AddSource("demo.Calc", calc)
	res := failed(t, u)

	var buf bytes.Buffer
	require.NoError(t, diagfmt.Pretty(&buf, res.Diagnostics, store, diagfmt.PrettyOpts{}))
	want := "demo.Calc:4:16: error SEM3005: cannot find symbol: variable c\n" +
		" 4 |     return a + c;\n" +
		"   | " + strings.Repeat(" ", 15) + "^\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("pretty output (-want +got):\n%s", diff)
	}
}

func TestPrettyContextAndWidth(t *testing.T) {
	u := source.NewSource("A", "class A {\n\tint x = \"日本\" + zz;\n}\n")
	d := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaUnresolvedSymbol,
		Message:  "cannot find symbol: variable zz",
		Primary:  source.Span{Unit: u.ID, Start: 30, End: 32},
	}.Resolve(u)
	require.Equal(t, uint32(2), d.Line)
	require.Equal(t, uint32(21), d.Column)

	var buf bytes.Buffer
	require.NoError(t, diagfmt.Pretty(&buf, []diag.Diagnostic{d}, diagfmt.UnitList{u}, diagfmt.PrettyOpts{Context: 1, TabWidth: 2}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4, buf.String())
	assert.Equal(t, "A:2:21: error SEM3005: cannot find symbol: variable zz", lines[0])
	assert.Equal(t, " 1 | class A {", lines[1])
	assert.Equal(t, " 2 |   int x = \"日本\" + zz;", lines[2])
	// 日本 занимает четыре колонки
	assert.Equal(t, "   | "+strings.Repeat(" ", 19)+"^~", lines[3])
}

func TestPrettyWithoutUnitsAndMax(t *testing.T) {
	diags := []diag.Diagnostic{
		{Severity: diag.SevWarning, Code: diag.SemaDivisionByZero, Message: "division by zero", Unit: "A", Line: 1, Column: 2},
		{Severity: diag.SevError, Code: diag.SemaError, Message: "second"},
		{Severity: diag.SevNote, Code: diag.SemaInfo, Message: "third"},
	}
	var buf bytes.Buffer
	require.NoError(t, diagfmt.Pretty(&buf, diags, nil, diagfmt.PrettyOpts{Max: 2}))
	assert.Equal(t, "A:1:2: warning SEM3020: division by zero\nerror SEM3001: second\n... and 1 more\n", buf.String())

	buf.Reset()
	require.NoError(t, diagfmt.Pretty(&buf, diags[:1], nil, diagfmt.PrettyOpts{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrettyWriteError(t *testing.T) {
	diags := []diag.Diagnostic{{Severity: diag.SevError, Code: diag.SemaError, Message: "x"}}
	assert.EqualError(t, diagfmt.Pretty(failWriter{}, diags, nil, diagfmt.PrettyOpts{}), "disk full")
}

func TestPrettyScript(t *testing.T) {
	ex := []diff.Explanation{
		{Action: diff.Action{Op: diff.OpUpdate}, Text: `update NumberLiteral "1" to "2"`, Unit: "p.A", Line: 3, Column: 12},
		{Action: diff.Action{Op: diff.OpDelete}, Text: "delete SimpleName x"},
	}
	var buf bytes.Buffer
	require.NoError(t, diagfmt.PrettyScript(&buf, ex, diagfmt.PrettyOpts{}))
	assert.Equal(t, "1. p.A:3:12: update NumberLiteral \"1\" to \"2\"\n2. delete SimpleName x\n", buf.String())

	buf.Reset()
	require.NoError(t, diagfmt.PrettyScript(&buf, nil, diagfmt.PrettyOpts{}))
	assert.Equal(t, "no changes\n", buf.String())
}

func TestJSON(t *testing.T) {
	res := failed(t, source.NewSource("demo.Calc", calc))
	var buf bytes.Buffer
	require.NoError(t, diagfmt.JSON(&buf, res, diagfmt.JSONOpts{}))

	var out diagfmt.DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.False(t, out.Success)
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Diagnostics, 1)
	d := out.Diagnostics[0]
	assert.Equal(t, "ERROR", d.Severity)
	assert.Equal(t, "SEM3005", d.Code)
	assert.Equal(t, diagfmt.LocationJSON{Unit: "demo.Calc", StartByte: 66, EndByte: 67, Line: 4, Column: 16}, d.Location)
}

func TestJSONScriptAndReports(t *testing.T) {
	ex := []diff.Explanation{{Action: diff.Action{Op: diff.OpMove, Node: 4, Parent: 1, Position: 2}, Text: "move"}}
	var buf bytes.Buffer
	require.NoError(t, diagfmt.JSONScript(&buf, ex, diagfmt.JSONOpts{}))
	assert.JSONEq(t, `{"actions":[{"action":{"op":"move","node":4,"parent":1,"position":2},"text":"move"}],"count":1}`, buf.String())

	buf.Reset()
	require.NoError(t, diagfmt.JSONScript(&buf, nil, diagfmt.JSONOpts{}))
	assert.JSONEq(t, `{"actions":[],"count":0}`, buf.String())

	reports := []engine.Report{
		{ID: "a", Stage: engine.StageDone, Script: diff.Script{{Op: diff.OpUpdate, Node: 3, Label: "2"}},
			Timing: observ.Report{TotalMS: 1.5, Stages: []observ.StageReport{{Name: "compile", DurationMS: 1.5}}}},
		{ID: "b", Stage: engine.StageDiff, Err: diff.ErrInvalidTree},
	}
	buf.Reset()
	require.NoError(t, diagfmt.JSONReports(&buf, reports, diagfmt.JSONOpts{Indent: true}))
	assert.Contains(t, buf.String(), "\n  {")
	var got []diagfmt.ReportJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "done", got[0].Stage)
	assert.Equal(t, "2", got[0].Actions[0].Label)
	assert.Equal(t, 1.5, got[0].Timing.TotalMS)
	assert.True(t, got[1].Defect)
	assert.Equal(t, "diff", got[1].Stage)
	assert.NotEmpty(t, got[1].Error)
}
