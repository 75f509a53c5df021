package compiler_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/bytecode"
	"mend/internal/compiler"
	"mend/internal/diag"
	"mend/internal/source"
	"mend/internal/trace"
)

func compile(t *testing.T, units ...*source.Unit) *compiler.Result {
	t.Helper()
	res, err := compiler.Compile(context.Background(), units, nil, compiler.Options{})
	require.NoError(t, err)
	return res
}

// at returns the 1-based position of the n-th (from 1) occurrence of needle.
func at(src, needle string, n int) (line, col uint32) {
	off := -1
	for range n {
		i := strings.Index(src[off+1:], needle)
		if i < 0 {
			panic("needle not found: " + needle)
		}
		off += i + 1
	}
	line = uint32(strings.Count(src[:off], "\n") + 1)
	col = uint32(off - strings.LastIndexByte(src[:off], '\n'))
	return line, col
}

func TestCompileSuccess(t *testing.T) {
	src := `package demo;

public class Calc {
    static int calls;
    int total = 1;

    public static int add(int a, int b) { calls++; return a + b; }
    int scaled(int k) { return total * k; }
}
`
	res := compile(t, source.NewSource("demo.Calc", src))
	require.True(t, res.Success, diag.FormatShort(res.Diagnostics))
	assert.Empty(t, res.Diagnostics)
	assert.NoError(t, res.Err())
	assert.Equal(t, []string{"demo.Calc"}, res.Classes())

	c, err := bytecode.Decode(res.Artifacts["demo.Calc"])
	require.NoError(t, err)
	require.NoError(t, bytecode.Verify(c))
	assert.Equal(t, "demo", c.Package)
	assert.Equal(t, "demo.Calc", c.Unit)

	var names []string
	for _, m := range c.Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"add", "scaled", "<init>"}, names)
	add := c.Method("add")
	require.NotNil(t, add)
	assert.Equal(t, []string{"int", "int"}, add.Params)
	assert.True(t, add.Static)
	assert.True(t, add.Public)
	assert.Equal(t, uint32(7), add.Line)
	assert.Equal(t, 2, add.MaxLocals)
	assert.Len(t, c.Fields, 2)
}

func TestCompileMultipleUnits(t *testing.T) {
	a := source.NewSource("demo.A", "package demo;\nclass A { static int f() { return B.g() + 1; } }\n")
	b := source.NewSource("demo.B", "package demo;\nclass B { static int g() { return 41; } }\n")
	res := compile(t, a, b)
	require.True(t, res.Success, diag.FormatShort(res.Diagnostics))
	assert.Equal(t, []string{"demo.A", "demo.B"}, res.Classes())
}

func TestCompileCompressed(t *testing.T) {
	src := "class A { static int f() { return 1; } }"
	plain := compile(t, source.NewSource("A", src))
	packed, err := compiler.Compile(context.Background(), []*source.Unit{source.NewSource("A", src)}, nil, compiler.Options{Compress: true})
	require.NoError(t, err)
	require.True(t, packed.Success)

	a, err := bytecode.Decode(plain.Artifacts["A"])
	require.NoError(t, err)
	b, err := bytecode.Decode(packed.Artifacts["A"])
	require.NoError(t, err)
	assert.Equal(t, a.Dump(), b.Dump())
}

func TestCompileDiagnostics(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		code   diag.Code
		needle string
		nth    int
	}{
		{"unresolved variable", "class A {\n  int f() { return y; }\n}", diag.SemaUnresolvedSymbol, "y;", 1},
		{"type mismatch", "class A {\n  void f() {\n    int x = true;\n  }\n}", diag.SemaTypeMismatch, "true", 1},
		{"missing return", "class A {\n  int f(boolean c) {\n    if (c) return 1;\n  }\n}", diag.SemaMissingReturn, "}", 1},
		{"unreachable", "class A {\n  int f() {\n    return 1;\n    f();\n  }\n}", diag.SemaUnreachableCode, "f();", 1},
		{"uninitialized", "class A {\n  int f() {\n    int x;\n    return x;\n  }\n}", diag.SemaUninitialized, "x;", 2},
		{"uninitialized on one path", "class A {\n  int f(boolean c) {\n    int x;\n    if (c) x = 1;\n    return x;\n  }\n}", diag.SemaUninitialized, "x;", 2},
		{"static context", "class A {\n  int g() { return 1; }\n  static int f() { return g(); }\n}", diag.SemaStaticContext, "g()", 2},
		{"argument count", "class A {\n  static int g(int a) { return a; }\n  static int f() { return g(1, 2); }\n}", diag.SemaArgumentCount, "(1, 2)", 1},
		{"break outside loop", "class A {\n  void f() {\n    break;\n  }\n}", diag.SemaJumpOutsideLoop, "break", 1},
		{"not a statement", "class A {\n  void f(int x) {\n    x + 1;\n  }\n}", diag.SemaNotAStatement, "x + 1", 1},
		{"unknown type", "class A {\n  Foo f;\n}", diag.SemaUnknownType, "Foo", 1},
		{"void value", "class A {\n  static void v() { }\n  static int f() { int x = v(); return x; }\n}", diag.SemaVoidValue, "v();", 1},
		{"bad operand", "class A {\n  static int f() { return true + 1; }\n}", diag.SemaInvalidOperand, "true + 1", 1},
		{"incomparable", "class A {\n  static boolean f() { return 1 == true; }\n}", diag.SemaInvalidOperand, "1 == true", 1},
		{"unresolved import", "import a.b.Missing;\nclass A { }", diag.SemaUnresolvedImport, "import", 1},
		{"unresolved method", "class A {\n  static int f() { return nope(); }\n}", diag.SemaUnresolvedSymbol, "nope", 1},
		{"duplicate method", "class A {\n  void f() { }\n  void f() { }\n}", diag.SemaDuplicateSymbol, "f()", 2},
		{"duplicate local", "class A {\n  void f() {\n    int x = 1;\n    int x = 2;\n  }\n}", diag.SemaDuplicateSymbol, "x = 2", 1},
		{"literal too large", "class A {\n  int x = 3000000000;\n}", diag.SemaError, "3000000000", 1},
		{"instance from static", "class A {\n  int n;\n  static int f() { return n; }\n}", diag.SemaStaticContext, "n;", 2},
		{"missing body", "abstract class A {\n  abstract int f();\n}", diag.SemaError, "f", 1},
		{"no class", "package p;\n", diag.SemaError, "package", 1},
		{"clashes with builtin", "class Math { }", diag.SemaDuplicateClass, "Math", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compile(t, source.NewSource("p.A", tt.src))
			require.False(t, res.Success)
			assert.Empty(t, res.Artifacts)

			errs := res.Errors()
			require.NotEmpty(t, errs, diag.FormatShort(res.Diagnostics))
			first := errs[0]
			line, col := at(tt.src, tt.needle, tt.nth)
			assert.Equal(t, tt.code, first.Code, first.String())
			assert.Equal(t, "p.A", first.Unit)
			assert.Equal(t, line, first.Line, first.String())
			assert.Equal(t, col, first.Column, first.String())
		})
	}
}

func TestMissingReturnAtClosingBrace(t *testing.T) {
	src := "class A {\n  int f(boolean c) {\n    if (c) return 1;\n  }\n}"
	res := compile(t, source.NewSource("A", src))
	errs := res.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, uint32(4), errs[0].Line)
	assert.Equal(t, uint32(3), errs[0].Column)
}

func TestDuplicateClassAcrossUnits(t *testing.T) {
	a := source.NewSource("p.A", "package p;\nclass A { }\n")
	b := source.NewSource("p.B", "package p;\n\nclass A { }\n")
	res := compile(t, a, b)
	require.False(t, res.Success)
	errs := res.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, diag.SemaDuplicateClass, errs[0].Code)
	assert.Equal(t, "p.B", errs[0].Unit)
	assert.Equal(t, uint32(3), errs[0].Line)
	assert.Equal(t, uint32(7), errs[0].Column)
}

func TestNoClassInEveryUnit(t *testing.T) {
	c := source.NewSource("p.C", "package p;\nclass C { static int f() { return 1; } }\n")
	d := source.NewSource("p.D", "package p;\n")
	res := compile(t, c, d)
	require.False(t, res.Success)
	assert.Empty(t, res.Artifacts)
	errs := res.Errors()
	require.Len(t, errs, 1, diag.FormatShort(res.Diagnostics))
	assert.Equal(t, diag.SemaError, errs[0].Code)
	assert.Equal(t, "p.D", errs[0].Unit)
	assert.Contains(t, errs[0].Message, "no class declared")
}

func TestRejectedClassIsNotMissing(t *testing.T) {
	res := compile(t, source.NewSource("p.A", "class Math { }"))
	errs := res.Errors()
	require.Len(t, errs, 1, diag.FormatShort(res.Diagnostics))
	assert.Equal(t, diag.SemaDuplicateClass, errs[0].Code)
}

func TestParseErrorsStopSession(t *testing.T) {
	res := compile(t, source.NewSource("A", "class A {\n  int x = ;\n  Foo y;\n}"))
	require.False(t, res.Success)
	for _, d := range res.Diagnostics {
		assert.NotEqual(t, diag.SemaUnknownType, d.Code, "semantic phase must not run after a parse error")
	}
	assert.Equal(t, diag.SynExpectExpression, res.Errors()[0].Code)
}

func TestWarningKeepsSuccess(t *testing.T) {
	src := "class A {\n  static int f(int x) { return x / 0; }\n}"
	res := compile(t, source.NewSource("A", src))
	require.True(t, res.Success)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diag.SevWarning, d.Severity)
	assert.Equal(t, diag.SemaDivisionByZero, d.Code)
	line, col := at(src, "0;", 1)
	assert.Equal(t, []uint32{line, col}, []uint32{d.Line, d.Column})
	assert.NotEmpty(t, res.Artifacts)
}

func TestIntegerLiterals(t *testing.T) {
	ok := []string{"2147483647", "-2147483648", "0x7fff_ffff", "0xFFFFFFFF", "0b101", "1_000", "-0x1"}
	for _, lit := range ok {
		src := "class A { static int f() { return " + lit + "; } }"
		res := compile(t, source.NewSource("A", src))
		assert.True(t, res.Success, "%s: %s", lit, diag.FormatShort(res.Diagnostics))
	}
	okLong := []string{"9223372036854775807L", "-9223372036854775808L", "2147483648L"}
	for _, lit := range okLong {
		src := "class A { static long f() { return " + lit + "; } }"
		res := compile(t, source.NewSource("A", src))
		assert.True(t, res.Success, "%s: %s", lit, diag.FormatShort(res.Diagnostics))
	}
	bad := []string{"2147483648", "0x1FFFFFFFF", "9223372036854775808L"}
	for _, lit := range bad {
		src := "class A { static long f() { return " + lit + "; } }"
		res := compile(t, source.NewSource("A", src))
		assert.False(t, res.Success, lit)
	}
}

func TestResultErr(t *testing.T) {
	src := "class A {\n  int f() { return a; }\n  int g() { return b; }\n}"
	res := compile(t, source.NewSource("p.A", src))
	err := res.Err()
	var ce *compiler.CompilationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2, ce.Count)
	assert.Equal(t, uint32(2), ce.First.Line)
	assert.Contains(t, err.Error(), "p.A:2:")
	assert.Contains(t, err.Error(), "and 1 more errors")
}

func TestDiagnosticsSorted(t *testing.T) {
	a := source.NewSource("p.B", "class B {\n  int g() { return z; }\n  int f() { return y; }\n}")
	b := source.NewSource("p.A", "class A { int f() { return q; } }")
	res := compile(t, a, b)
	var got []string
	for _, d := range res.Diagnostics {
		got = append(got, d.Unit)
	}
	if diff := cmp.Diff([]string{"p.A", "p.B", "p.B"}, got); diff != "" {
		t.Errorf("diagnostic order (-want +got):\n%s", diff)
	}
	assert.Less(t, res.Diagnostics[1].Line, res.Diagnostics[2].Line)
}

func TestMaxDiagnostics(t *testing.T) {
	src := "class A { int a = x1; int b = x2; int c = x3; int d = x4; int e = x5; }"
	res, err := compiler.Compile(context.Background(), []*source.Unit{source.NewSource("A", src)}, nil, compiler.Options{MaxDiagnostics: 2})
	require.NoError(t, err)
	require.False(t, res.Success)
	assert.Len(t, res.Diagnostics, 2)
}

func TestCompilePreconditions(t *testing.T) {
	_, err := compiler.Compile(context.Background(), nil, nil, compiler.Options{})
	assert.ErrorIs(t, err, compiler.ErrNoUnits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = compiler.Compile(ctx, []*source.Unit{source.NewSource("A", "class A { }")}, nil, compiler.Options{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = compiler.Compile(context.Background(), []*source.Unit{nil}, nil, compiler.Options{})
	assert.Error(t, err)
}

func TestCompileTrace(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	res, err := compiler.Compile(context.Background(), []*source.Unit{source.NewSource("A", "class A { }")}, nil, compiler.Options{Tracer: ring})
	require.NoError(t, err)
	require.True(t, res.Success)

	var begun []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			begun = append(begun, ev.Name)
		}
	}
	assert.Equal(t, []string{"compile", "parse", "declare", "check", "encode"}, begun)
}

func TestClassPath(t *testing.T) {
	ctx := context.Background()
	fsys := fstest.MapFS{
		"lib/util/Strings.java": {Data: []byte("package lib.util;\npublic class Strings { public static int twice(int x) { return x * 2; } }\n")},
		"lib/Box.java":          {Data: []byte("package lib;\npublic class Box { int v; int get() { return v; } }\n")},
		"lib/README.md":         {Data: []byte("not java")},
	}
	units, err := compiler.ReadSources(fsys, "**/*.java")
	require.NoError(t, err)
	var names []string
	for _, u := range units {
		names = append(names, u.QualifiedName)
	}
	assert.Equal(t, []string{"lib.Box", "lib.util.Strings"}, names)

	cp, err := compiler.BuildClassPath(ctx, units, compiler.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, cp.Len())
	c, ok := cp.Lookup("lib.util.Strings")
	require.True(t, ok)
	assert.Equal(t, "Strings", c.Name)
	_, ok = cp.Lookup("Box")
	assert.True(t, ok)

	src := "package demo;\nimport lib.util.Strings;\nclass Use { static int f(Box b) { return Strings.twice(b.get()); } }\n"
	res, err := compiler.Compile(ctx, []*source.Unit{source.NewSource("demo.Use", src)}, cp, compiler.Options{})
	require.NoError(t, err)
	require.True(t, res.Success, diag.FormatShort(res.Diagnostics))
	assert.Equal(t, []string{"demo.Use"}, res.Classes(), "classpath classes are not artifacts")

	// without the classpath the same source fails
	res = compile(t, source.NewSource("demo.Use", src))
	assert.False(t, res.Success)
}

func TestBuildClassPathFailure(t *testing.T) {
	_, err := compiler.BuildClassPath(context.Background(), []*source.Unit{source.NewSource("lib.Bad", "class Bad { int f() { } }")}, compiler.Options{})
	var ce *compiler.CompilationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, diag.SemaMissingReturn, ce.First.Code)

	_, err = compiler.NewClassPath(&bytecode.Class{Name: "Math", Methods: []bytecode.Method{{Name: "f", Result: "void", Static: true, Code: []bytecode.Instr{{Op: bytecode.OpReturn}}}}})
	assert.Error(t, err)

	var nilCP *compiler.ClassPath
	_, ok := nilCP.Lookup("A")
	assert.False(t, ok)
	assert.Zero(t, nilCP.Len())
}
