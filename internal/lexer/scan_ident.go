package lexer

import (
	"mend/internal/diag"
	"mend/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cur.mark()

	r, sz := lx.cur.peekRune()
	if sz == 0 {
		sp := lx.cur.spanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	if r < utf8RuneSelf {
		lx.cur.next()
		for isIdentContinueByte(lx.cur.peek()) {
			lx.cur.next()
		}
	} else {
		if !isIdentStartRune(r) {
			lx.skipRune()
			sp := lx.cur.spanFrom(start)
			lx.errLex(diag.LexUnknownChar, sp, "unknown character")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cur.text(sp)}
		}
		lx.skipRune()
	}
	for {
		b := lx.cur.peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cur.next()
			continue
		}
		r2, sz2 := lx.cur.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.skipRune()
	}

	sp := lx.cur.spanFrom(start)
	text := lx.cur.text(sp)
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
