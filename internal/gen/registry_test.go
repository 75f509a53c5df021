package gen_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/gen"
	"mend/internal/source"
	"mend/internal/tree"
)

func stub(label string) func() gen.Generator {
	return func() gen.Generator {
		return gen.GeneratorFunc(func(u *source.Unit) (*tree.Tree, error) {
			b := tree.NewBuilder(1)
			return b.Finish(b.Add("Stub", label, source.Span{Unit: u.ID}))
		})
	}
}

func TestSelect_PriorityAndTies(t *testing.T) {
	r := gen.NewRegistry()
	require.NoError(t, r.Register(gen.Registration{ID: "low", Pattern: gen.MustRegexp(`\.java$`), Priority: gen.Low, Factory: stub("low")}))
	require.NoError(t, r.Register(gen.Registration{ID: "max-1", Pattern: gen.MustRegexp(`\.java$`), Priority: gen.Maximum, Factory: stub("max-1")}))
	require.NoError(t, r.Register(gen.Registration{ID: "max-2", Pattern: gen.MustRegexp(`\.java$`), Priority: gen.Maximum, Factory: stub("max-2")}))
	require.NoError(t, r.Register(gen.Registration{ID: "kt", Pattern: gen.MustRegexp(`\.kt$`), Priority: 1000, Factory: stub("kt")}))

	_, reg, err := r.Select("memo:///p/A.java")
	require.NoError(t, err)
	assert.Equal(t, "max-1", reg.ID, "ties go to the earliest registration")

	tr, err := r.Parse(source.NewSource("p.A", "class A {}"))
	require.NoError(t, err)
	assert.Equal(t, "max-1", tr.Label(tr.Root()))

	_, reg, err = r.Select("memo:///p/B.kt")
	require.NoError(t, err)
	assert.Equal(t, "kt", reg.ID)
}

func TestSelect_NotFound(t *testing.T) {
	r := gen.NewRegistry()
	require.NoError(t, r.Register(gen.Registration{ID: "java", Pattern: gen.MustRegexp(`\.java$`), Factory: stub("j")}))
	_, _, err := r.Select("memo:///p/A.py")
	assert.True(t, errors.Is(err, gen.ErrNotFound))
	var nf *gen.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "memo:///p/A.py", nf.Name)
}

func TestRegister_Rejects(t *testing.T) {
	r := gen.NewRegistry()
	ok := gen.Registration{ID: "a", Pattern: gen.MustRegexp(`x`), Factory: stub("a")}
	require.NoError(t, r.Register(ok))
	for name, reg := range map[string]gen.Registration{
		"duplicate": ok,
		"empty id":  {Pattern: ok.Pattern, Factory: ok.Factory},
		"nil pat":   {ID: "b", Factory: ok.Factory},
		"nil fact":  {ID: "c", Pattern: ok.Pattern},
	} {
		assert.ErrorIs(t, r.Register(reg), gen.ErrInvalidRegistration, name)
	}
	_, err := gen.Regexp("(")
	assert.ErrorIs(t, err, gen.ErrInvalidRegistration)
	assert.Len(t, r.Registrations(), 1)
}

func TestGlobPattern(t *testing.T) {
	p, err := gen.Glob("**/*.java")
	require.NoError(t, err)
	assert.True(t, p.Matches("memo:///a/b/C.java"))
	assert.True(t, p.Matches("C.java"))
	assert.False(t, p.Matches("memo:///a/b/C.class"))

	_, err = gen.Glob("[")
	assert.ErrorIs(t, err, gen.ErrInvalidRegistration)
}

func TestSelect_Concurrent(t *testing.T) {
	r := gen.NewRegistry()
	require.NoError(t, r.Register(gen.Registration{ID: "java", Pattern: gen.MustRegexp(`\.java$`), Priority: gen.Medium, Factory: stub("j")}))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, reg, err := r.Select("memo:///p/A.java")
				if err != nil || reg.ID != "java" {
					t.Errorf("select: %v %q", err, reg.ID)
					return
				}
			}
		}()
	}
	wg.Wait()
}
