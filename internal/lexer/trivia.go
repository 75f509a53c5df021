package lexer

import (
	"mend/internal/diag"
	"mend/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t' и '\f' коалесцируются в один TriviaSpace
// - последовательные '\n' коалесцируются в один TriviaNewline
// - //... до \n -> TriviaLineComment
// - /* ... */ -> TriviaBlockComment (без вложенности; если не закрыт — репорт и обрезаем на EOF)
// - /** ... */ -> TriviaDocBlock
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = nil
	for !lx.cur.done() {
		start := lx.cur.mark()
		b := lx.cur.peek()

		if isSpace(b) {
			for isSpace(lx.cur.peek()) {
				lx.cur.next()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if b == '\n' {
			for lx.cur.peek() == '\n' {
				lx.cur.next()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanCommentIntoHold() {
			continue
		}

		// нет больше trivia
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start uint32) {
	sp := lx.cur.spanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: lx.cur.text(sp),
	})
}

// //... , /*...*/ , /**...*/
func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cur.mark()
	b0, b1, ok := lx.cur.peek2()
	if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
		// это не комментарий — пусть сканируется как оператор '/'
		return false
	}
	lx.cur.next()
	lx.cur.next()

	if b1 == '/' {
		for !lx.cur.done() && lx.cur.peek() != '\n' {
			lx.cur.next()
		}
		lx.pushTrivia(token.TriviaLineComment, start)
		return true
	}

	kind := token.TriviaBlockComment
	// "/**/" — пустой обычный комментарий, не doc
	if c0, c1, ok := lx.cur.peek2(); ok && c0 == '*' && c1 != '/' {
		kind = token.TriviaDocBlock
	}
	closed := false
	for !lx.cur.done() {
		if c0, c1, ok := lx.cur.peek2(); ok && c0 == '*' && c1 == '/' {
			lx.cur.next()
			lx.cur.next()
			closed = true
			break
		}
		lx.cur.next()
	}
	if !closed {
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cur.spanFrom(start), "unterminated block comment")
	}
	lx.pushTrivia(kind, start)
	return true
}
