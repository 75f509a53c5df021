package lexer

import (
	"fmt"
	"unicode"

	"fortio.org/safecast"
)

// skipRune consumes the rune at the cursor, however many bytes it takes.
func (lx *Lexer) skipRune() {
	_, sz := lx.cur.peekRune()
	n, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	lx.cur.off += n
}

// '$' допустим в Java-идентификаторах.
// ASCII fast path; non-ASCII goes through the rune variants.
func isIdentStartByte(b byte) bool {
	return b == '_' || b == '$' || 'a' <= b|0x20 && b|0x20 <= 'z'
}

func isIdentContinueByte(b byte) bool { return isIdentStartByte(b) || isDec(b) }

func isIdentStartRune(r rune) bool { return r == '_' || r == '$' || unicode.IsLetter(r) }

func isIdentContinueRune(r rune) bool { return isIdentStartRune(r) || unicode.IsDigit(r) }

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\f' }

func isDec(b byte) bool { return '0' <= b && b <= '9' }

// ".5" after a number: a dot followed by a digit.
func (lx *Lexer) isNumberAfterDot() bool {
	return lx.cur.peek() == '.' && isDec(lx.cur.at(1))
}

func isBin(b byte) bool { return b == '0' || b == '1' }

func isHex(b byte) bool { return isDec(b) || 'a' <= b|0x20 && b|0x20 <= 'f' }
