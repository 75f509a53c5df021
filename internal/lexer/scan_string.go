package lexer

import (
	"mend/internal/diag"
	"mend/internal/token"
)

// "..." с escape \" \\ \n \t \r \0; перевод строки внутри литерала — ошибка.
// Token.Text хранит литерал вместе с кавычками, декодирование — в Unquote.
func (lx *Lexer) scanString() token.Token {
	start := lx.cur.mark()
	lx.cur.next() // opening '"'
	for !lx.cur.done() {
		b := lx.cur.peek()
		if b == '"' {
			lx.cur.next()
			sp := lx.cur.spanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.cur.text(sp)}
		}
		if b == '\\' {
			lx.cur.next()
			if lx.cur.done() {
				break
			}
			lx.cur.next()
			continue
		}
		if b == '\n' {
			sp := lx.cur.spanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cur.text(sp)}
		}
		lx.cur.next()
	}
	sp := lx.cur.spanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cur.text(sp)}
}

// Unquote decodes a StringLit token text. Unknown escapes keep the escaped byte.
func Unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			out = append(out, c)
			continue
		}
		i++
		switch text[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '0':
			out = append(out, 0)
		default:
			out = append(out, text[i])
		}
	}
	return string(out)
}
