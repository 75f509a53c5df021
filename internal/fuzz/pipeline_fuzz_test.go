package fuzztests

import (
	"context"
	"testing"
	"time"

	"mend/internal/compiler"
	"mend/internal/diag"
	"mend/internal/diff"
	"mend/internal/gen/javagen"
	"mend/internal/lexer"
	"mend/internal/source"
	"mend/internal/testkit"
	"mend/internal/token"
	"mend/internal/tree"
)

// parseTimeout is the maximum time allowed for one input. Longer means a
// likely infinite loop in error recovery.
const parseTimeout = 5 * time.Second

func unit(input []byte) *source.Unit {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return source.NewUnit("fuzz.A", source.KindSource, append([]byte(nil), input...))
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		u := unit(input)
		bag := diag.NewBag(64)
		lx := lexer.New(u, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
		// каждый токен продвигает курсор, так что их не больше len+1
		for i := 0; ; i++ {
			if i > int(u.Len())+1 {
				t.Fatalf("lexer does not terminate on %q", input)
			}
			if lx.Next().Kind == token.EOF {
				break
			}
		}
	})
}

func FuzzGenerateTree(f *testing.F) {
	addCorpusSeeds(f)
	g := &javagen.Generator{MaxErrors: 128}
	f.Fuzz(func(t *testing.T, input []byte) {
		u := unit(input)
		done := make(chan *tree.Tree, 1)
		go func() {
			tr, _ := g.Generate(u)
			done <- tr
		}()
		select {
		case tr := <-done:
			if tr == nil {
				return
			}
			if err := testkit.CheckTree(tr, u); err != nil {
				t.Fatalf("invalid tree for %q: %v", input, err)
			}
		case <-time.After(parseTimeout):
			t.Fatalf("generator hangs on %q", input)
		}
	})
}

func FuzzCompile(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()
		res, err := compiler.Compile(ctx, []*source.Unit{unit(input)}, nil, compiler.Options{MaxDiagnostics: 64})
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("compile hangs on %q", input)
			}
			return
		}
		if res.Success != (len(res.Errors()) == 0) {
			t.Fatalf("success=%v with %d errors", res.Success, len(res.Errors()))
		}
	})
}

// FuzzDiffApply checks that applying the script of any two parseable
// inputs reproduces the destination shape.
func FuzzDiffApply(f *testing.F) {
	for i := range languageSeeds {
		for j := range languageSeeds {
			if i != j {
				f.Add([]byte(languageSeeds[i]), []byte(languageSeeds[j]))
			}
		}
	}
	g := &javagen.Generator{}
	f.Fuzz(func(t *testing.T, a, b []byte) {
		src, err := g.Generate(unit(a))
		if err != nil {
			return
		}
		dst, err := g.Generate(unit(b))
		if err != nil {
			return
		}
		s, err := diff.Diff(src, dst, diff.DefaultOptions())
		if err != nil {
			t.Fatalf("diff: %v", err)
		}
		got, err := diff.Apply(src, s)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if err := testkit.CheckShape(dst, got); err != nil {
			t.Fatalf("script does not reproduce destination: %v", err)
		}
	})
}
