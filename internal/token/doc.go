// Package token defines lexical token kinds and trivia for the Java subset.
// Invariants:
//   - Token.Text is a slice of the original unit content.
//   - Token.Span matches Text exactly (Start..End).
//   - Comments and whitespace are leading Trivia and never appear in the main
//     token stream.
//   - String is a class name, not a keyword; the type checker recognizes it.
package token
