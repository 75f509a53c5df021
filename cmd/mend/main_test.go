package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/vm"
)

const calcSrc = `package demo;

class Calc {
    static int add(int a, int b) {
        return a + b;
    }
}
`

// fixture writes files under a temp dir next to a quiet config and
// returns their paths.
func fixture(t *testing.T, files map[string]string) (cfg string, paths map[string]string) {
	t.Helper()
	dir := t.TempDir()
	cfg = filepath.Join(dir, "mend.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[log]\nlevel = \"disabled\"\n"), 0o644))
	paths = make(map[string]string, len(files))
	for name, src := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
		paths[name] = p
	}
	return cfg, paths
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	runCleanup()
	return out.String(), errOut.String(), err
}

func TestUnitName(t *testing.T) {
	assert.Equal(t, "demo.Calc", unitName("/x/Calc.java", calcSrc))
	assert.Equal(t, "Calc", unitName("Calc.java", "class Calc {}"))
	assert.Equal(t, "a.b.C", unitName("src/C.java", "// header\n  package a.b ;\nclass C {}"))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want vm.Value
	}{
		{"42", vm.Int(42)},
		{"-7", vm.Int(-7)},
		{"true", vm.Bool(true)},
		{"false", vm.Bool(false)},
		{"null", vm.Null},
		{`"a b"`, vm.Str("a b")},
		{"hello", vm.Str("hello")},
		{"1.5", vm.Str("1.5")},
	}
	for _, tt := range tests {
		got, err := parseValue(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, vm.Equal(tt.want, got), "%s: got %s", tt.in, got)
	}
	for _, bad := range []string{"4294967296", `"unterminated`} {
		_, err := parseValue(bad)
		assert.Error(t, err, bad)
	}
}

func TestSplitEntry(t *testing.T) {
	c, m, err := splitEntry("demo.Calc.add")
	require.NoError(t, err)
	assert.Equal(t, "demo.Calc", c)
	assert.Equal(t, "add", m)
	for _, bad := range []string{"add", ".add", "Calc."} {
		_, _, err := splitEntry(bad)
		assert.Error(t, err, bad)
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	on, err := colorEnabled("on", &buf)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = colorEnabled("auto", &buf)
	require.NoError(t, err)
	assert.False(t, on)
	_, err = colorEnabled("sometimes", &buf)
	assert.Error(t, err)
}

func TestCompileCommand(t *testing.T) {
	cfg, p := fixture(t, map[string]string{
		"Calc.java": calcSrc,
		"Bad.java":  "class Bad {\n  int f() { return c; }\n}\n",
	})

	out, _, err := execute(t, "--config", cfg, "compile", p["Calc.java"])
	require.NoError(t, err)
	assert.Contains(t, out, "demo.Calc ")

	_, stderr, err := execute(t, "--config", cfg, "--color", "off", "compile", p["Bad.java"])
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, stderr, "Bad:2:20: error SEM3005: cannot find symbol: variable c")
	assert.Contains(t, stderr, " 2 |   int f() { return c; }")

	out, _, err = execute(t, "--config", cfg, "--json", "compile", p["Bad.java"])
	assert.ErrorIs(t, err, errFailed)
	var payload struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.False(t, payload.Success)
	assert.Equal(t, 1, payload.Count)
}

func TestDiffCommand(t *testing.T) {
	cfg, p := fixture(t, map[string]string{
		"a/Calc.java": calcSrc,
		"b/Calc.java": calcSrc[:len(calcSrc)-len("        return a + b;\n    }\n}\n")] + "        return a - b;\n    }\n}\n",
	})
	out, _, err := execute(t, "--config", cfg, "diff", p["a/Calc.java"], p["b/Calc.java"])
	require.NoError(t, err)
	assert.Contains(t, out, "1. demo.Calc:5:")
	assert.Contains(t, out, "update")

	out, _, err = execute(t, "--config", cfg, "diff", p["a/Calc.java"], p["a/Calc.java"])
	require.NoError(t, err)
	assert.Equal(t, "no changes\n", out)
}

func TestRunCommand(t *testing.T) {
	cfg, p := fixture(t, map[string]string{
		"base/Calc.java":  calcSrc,
		"wrong/Calc.java": calcSrc[:len(calcSrc)-len("        return a + b;\n    }\n}\n")] + "        return a * b;\n    }\n}\n",
		"div/Calc.java":   calcSrc[:len(calcSrc)-len("        return a + b;\n    }\n}\n")] + "        return a / (b - b);\n    }\n}\n",
	})
	out, _, err := execute(t, "--config", cfg, "--json", "run",
		"--entry", "Calc.add", "--arg", "2", "--arg", "3", "--expect", "5",
		"--baseline", p["base/Calc.java"], p["wrong/Calc.java"], p["div/Calc.java"])
	assert.ErrorIs(t, err, errFailed)

	var got []runResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)

	assert.Equal(t, "done", got[0].Stage)
	assert.Equal(t, "5", got[0].Result)
	assert.Empty(t, got[0].Error)

	assert.Equal(t, "run", got[1].Stage)
	assert.Equal(t, "6", got[1].Result)
	assert.Contains(t, got[1].Error, "want 5")

	assert.Equal(t, "run", got[2].Stage)
	assert.Empty(t, got[2].Result)
	assert.Contains(t, got[2].Error, "panic")

	out, _, err = execute(t, "--config", cfg, "run", "--entry", "Calc.add", "--arg", "1", "--arg", "1", p["base/Calc.java"])
	require.NoError(t, err)
	assert.Contains(t, out, "Calc.java: ok result=2")
}

func TestRunCommandRequiresEntry(t *testing.T) {
	cfg, p := fixture(t, map[string]string{"Calc.java": calcSrc})
	_, _, err := execute(t, "--config", cfg, "run", p["Calc.java"])
	assert.Error(t, err)
}

func TestEntriesCommand(t *testing.T) {
	cfg, p := fixture(t, map[string]string{"Calc.java": calcSrc})
	out, _, err := execute(t, "--config", cfg, "entries", p["Calc.java"])
	require.NoError(t, err)
	assert.Contains(t, out, "static int demo.Calc.add(int, int)")
}

func TestParseCommand(t *testing.T) {
	cfg, p := fixture(t, map[string]string{
		"Calc.java":   calcSrc,
		"Broken.java": "class Broken {\n  int f( {\n}\n",
	})
	out, _, err := execute(t, "--config", cfg, "parse", "--sexpr", p["Calc.java"])
	require.NoError(t, err)
	assert.Contains(t, out, "(CompilationUnit")

	_, stderr, err := execute(t, "--config", cfg, "parse", p["Broken.java"])
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, stderr, "error SYN")

	out, _, err = execute(t, "--config", cfg, "parse", "--tokens", p["Calc.java"])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "1:1\tpackage", lines[0])
	assert.Contains(t, lines, "3:7\tidentifier \"Calc\"")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mend 0.1.0-dev\n", out)

	out, _, err = execute(t, "--json", "version", "--full")
	require.NoError(t, err)
	var p versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "mend", p.Tool)
	assert.Equal(t, "unknown", p.GitCommit)
}

func TestProfileFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	_, _, err := execute(t, "--cpu-profile", cpu, "--mem-profile", mem, "version")
	require.NoError(t, err)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := readUIMode("maybe")
	assert.Error(t, err)

	var buf bytes.Buffer
	assert.True(t, shouldUseTUI(uiModeOn, &buf))
	assert.False(t, shouldUseTUI(uiModeAuto, &buf))
}
