package token_test

import (
	"testing"

	"mend/internal/source"
	"mend/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNull}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwClass, token.Plus, token.LParen}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	for _, word := range []string{"class", "return", "boolean", "null"} {
		k, ok := token.LookupKeyword(word)
		if !ok {
			t.Fatalf("%q must be a keyword", word)
		}
		if k.String() != word {
			t.Errorf("Kind(%q).String() = %q", word, k.String())
		}
		if !tok(k).IsKeyword() {
			t.Errorf("%q: IsKeyword = false", word)
		}
	}
	for _, word := range []string{"String", "Class", "fn", "var"} {
		if _, ok := token.LookupKeyword(word); ok {
			t.Errorf("%q must not be a keyword", word)
		}
	}
}

func TestKindStringCoversAll(t *testing.T) {
	for k := token.Invalid; k <= token.At; k++ {
		if k.String() == "" || k.String() == "unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
}

func TestTriviaKind(t *testing.T) {
	if got := token.TriviaDocBlock.String(); got != "doc" {
		t.Errorf("doc block: got %q", got)
	}
	if got := token.TriviaKind(200).String(); got != "unknown" {
		t.Errorf("out of range: got %q", got)
	}
	if token.TriviaNewline.IsComment() {
		t.Error("newline is not a comment")
	}
	for _, k := range []token.TriviaKind{token.TriviaLineComment, token.TriviaBlockComment, token.TriviaDocBlock} {
		if !k.IsComment() {
			t.Errorf("%s must be a comment", k)
		}
	}
}
