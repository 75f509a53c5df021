package token

import "mend/internal/source"

// TriviaKind classifies text between significant tokens.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocBlock
	triviaCount
)

var triviaNames = [triviaCount]string{"space", "newline", "line-comment", "block-comment", "doc"}

func (k TriviaKind) String() string {
	if k < triviaCount {
		return triviaNames[k]
	}
	return "unknown"
}

// IsComment reports whether the trivia is any form of comment.
func (k TriviaKind) IsComment() bool { return k >= TriviaLineComment && k < triviaCount }

// Trivia is whitespace or a comment attached to the next token.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
