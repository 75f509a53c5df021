package bytecode_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/bytecode"
)

// sample: static int add(int a, int b) { return a + b; } plus a greeting.
func sample() *bytecode.Class {
	c := &bytecode.Class{Name: "Calc", Unit: "demo.Calc"}
	hello := c.Pool.Intern("hello")
	length := bytecode.BuiltinStringLength
	c.Fields = []bytecode.Field{{Name: "count", Type: "int", Static: true}}
	count := c.Pool.InternRef(bytecode.Ref{Class: "Calc", Name: "count", Result: "int", Field: true})
	c.Methods = []bytecode.Method{
		{
			Name: "add", Params: []string{"int", "int"}, Result: "int", Static: true, MaxLocals: 2,
			Code: []bytecode.Instr{
				{Op: bytecode.OpLoad, A: 0, Line: 2},
				{Op: bytecode.OpLoad, A: 1, Line: 2},
				{Op: bytecode.OpAdd, Line: 2},
				{Op: bytecode.OpReturnValue, Line: 2},
			},
		},
		{
			Name: "greet", Result: "int", Static: true, MaxLocals: 0,
			Code: []bytecode.Instr{
				{Op: bytecode.OpStr, A: hello},
				{Op: bytecode.OpBuiltin, A: int64(length)},
				{Op: bytecode.OpDup},
				{Op: bytecode.OpPutStatic, A: count},
				{Op: bytecode.OpReturnValue},
			},
		},
	}
	return c
}

func TestEncodeDecode(t *testing.T) {
	for _, compress := range []bool{false, true} {
		c := sample()
		data, err := bytecode.Encode(c, bytecode.EncodeOptions{Compress: compress})
		require.NoError(t, err)

		got, err := bytecode.Decode(data)
		require.NoError(t, err)
		if diff := cmp.Diff(c, got, cmpopts.IgnoreUnexported(bytecode.Pool{})); diff != "" {
			t.Fatalf("compress=%v mismatch (-want +got):\n%s", compress, diff)
		}
		require.NoError(t, bytecode.Verify(got))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	data, err := bytecode.Encode(sample(), bytecode.EncodeOptions{})
	require.NoError(t, err)

	cases := map[string][]byte{
		"empty":     nil,
		"magic":     []byte("XYZ\x01\x00"),
		"version":   append([]byte("MBC\x09\x00"), data[5:]...),
		"flags":     append([]byte("MBC\x01\x80"), data[5:]...),
		"truncated": data[:len(data)/2],
		"zstd":      append([]byte("MBC\x01\x01"), data[5:]...),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := bytecode.Decode(in)
			assert.True(t, errors.Is(err, bytecode.ErrBadArtifact), "got %v", err)
		})
	}
}

func TestPoolInterning(t *testing.T) {
	var p bytecode.Pool
	a := p.Intern("x")
	b := p.Intern("y")
	assert.Equal(t, a, p.Intern("x"))
	assert.NotEqual(t, a, b)

	r1 := p.InternRef(bytecode.Ref{Class: "A", Name: "m", Params: []string{"int"}, Result: "void"})
	r2 := p.InternRef(bytecode.Ref{Class: "A", Name: "m", Params: []string{"int"}, Result: "void"})
	r3 := p.InternRef(bytecode.Ref{Class: "A", Name: "m", Result: "int", Field: true})
	assert.Equal(t, r1, r2)
	assert.NotEqual(t, r1, r3)
	assert.Len(t, p.Refs, 2)
}

func TestVerifyRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *bytecode.Class)
		want   string
	}{
		{"underflow", func(c *bytecode.Class) {
			c.Methods[0].Code = []bytecode.Instr{{Op: bytecode.OpAdd}, {Op: bytecode.OpReturnValue}}
		}, "underflow"},
		{"slot", func(c *bytecode.Class) {
			c.Methods[0].Code[0].A = 7
		}, "slot 7"},
		{"target", func(c *bytecode.Class) {
			c.Methods[0].Code[2] = bytecode.Instr{Op: bytecode.OpJump, A: 99}
		}, "jump target"},
		{"fall off", func(c *bytecode.Class) {
			c.Methods[0].Code = c.Methods[0].Code[:3]
		}, "falls off"},
		{"void return", func(c *bytecode.Class) {
			c.Methods[0].Code[3] = bytecode.Instr{Op: bytecode.OpReturn}
		}, "missing value"},
		{"merge", func(c *bytecode.Class) {
			// 0: true 1: jumpfalse 3 2: const 3: const 4: add 5: returnvalue
			c.Methods[0].Code = []bytecode.Instr{
				{Op: bytecode.OpTrue},
				{Op: bytecode.OpJumpFalse, A: 3},
				{Op: bytecode.OpConst, A: 1},
				{Op: bytecode.OpConst, A: 2},
				{Op: bytecode.OpAdd},
				{Op: bytecode.OpReturnValue},
			}
		}, "inconsistent"},
		{"locals", func(c *bytecode.Class) {
			c.Methods[0].MaxLocals = 1
		}, "max locals"},
		{"ref kind", func(c *bytecode.Class) {
			c.Methods[1].Code[3].Op = bytecode.OpInvokeStatic
		}, "wrong kind"},
		{"duplicate", func(c *bytecode.Class) {
			c.Methods[1].Name = "add"
		}, "duplicate method"},
		{"opcode", func(c *bytecode.Class) {
			c.Methods[0].Code[2].Op = 200
		}, "unknown opcode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := sample()
			tc.mutate(c)
			err := bytecode.Verify(c)
			var verr *bytecode.VerifyError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
	require.NoError(t, bytecode.Verify(sample()))
}

func TestLookupBuiltin(t *testing.T) {
	b, ok := bytecode.LookupBuiltin("Math", "max")
	require.True(t, ok)
	assert.Equal(t, 2, b.Arity())
	assert.Equal(t, "Math.max", b.String())

	_, ok = bytecode.LookupBuiltin("Math", "pow")
	assert.False(t, ok)
}

func TestDump(t *testing.T) {
	out := sample().Dump()
	assert.True(t, strings.HasPrefix(out, "class Calc // demo.Calc\n"))
	assert.Contains(t, out, "method static int add(int, int) locals=2")
	assert.Contains(t, out, `str 0`)
	assert.Contains(t, out, `; "hello"`)
	assert.Contains(t, out, "; Calc.count")
}
