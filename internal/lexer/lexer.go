package lexer

import (
	"mend/internal/diag"
	"mend/internal/source"
	"mend/internal/token"
)

type Lexer struct {
	unit   *source.Unit
	cur    cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
	errors int
}

func New(u *source.Unit, opts Options) *Lexer {
	return &Lexer{
		unit: u,
		cur:  newCursor(u),
		opts: opts,
	}
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	// Leading из hold не приклеиваем к EOF
	if lx.cur.done() {
		lx.hold = nil
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
		}
	}

	ch := lx.cur.peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	if lx.opts.MaxTokenLen > 0 && tok.Span.Len() > lx.opts.MaxTokenLen {
		lx.errLex(diag.LexTokenTooLong, tok.Span, "token exceeds maximum length")
		tok.Kind = token.Invalid
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns a zero-length span at the current offset.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{Unit: lx.unit.ID, Start: lx.cur.off, End: lx.cur.off}
}

// Unit returns the unit being scanned.
func (lx *Lexer) Unit() *source.Unit { return lx.unit }

// ErrorCount reports how many lexical errors were emitted so far.
func (lx *Lexer) ErrorCount() int { return lx.errors }

// All scans the rest of the input, EOF included.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, lx.unit.Len()/4+1)
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}
