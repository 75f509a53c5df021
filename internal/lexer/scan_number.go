package lexer

import (
	"mend/internal/diag"
	"mend/internal/token"
)

// Поддержка: 0, 123, 1_000, 0x1F, 0b101, суффикс L/l.
// Дробных чисел в подмножестве нет: "1.5" репортится как BadNumber.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cur.mark()

	digits := isDec
	if lx.cur.peek() == '0' {
		if _, b1, ok := lx.cur.peek2(); ok {
			switch b1 {
			case 'x', 'X':
				digits = isHex
				lx.cur.next()
				lx.cur.next()
			case 'b', 'B':
				digits = isBin
				lx.cur.next()
				lx.cur.next()
			}
		}
	}

	count := 0
	for digits(lx.cur.peek()) || lx.cur.peek() == '_' {
		if lx.cur.peek() != '_' {
			count++
		}
		lx.cur.next()
	}
	if lx.cur.peek() == 'L' || lx.cur.peek() == 'l' {
		lx.cur.next()
	}

	bad := count == 0
	// хвост вида "1.5" или "12abc" — невалидно, съедаем целиком
	if isIdentContinueByte(lx.cur.peek()) || lx.isNumberAfterDot() {
		bad = true
		for b := lx.cur.peek(); b == '.' || isIdentContinueByte(b); b = lx.cur.peek() {
			lx.cur.next()
		}
	}

	sp := lx.cur.spanFrom(start)
	if bad {
		lx.errLex(diag.LexBadNumber, sp, "malformed integer literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cur.text(sp)}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: lx.cur.text(sp)}
}
