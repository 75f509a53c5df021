package lexer

import (
	"unicode/utf8"

	"mend/internal/source"
)

// cursor is a byte offset into one unit. All reads past the end yield 0.
type cursor struct {
	unit source.UnitID
	src  []byte // ровно u.Len() байт
	off  uint32
}

func newCursor(u *source.Unit) cursor {
	return cursor{unit: u.ID, src: u.View()[:u.Len()]}
}

func (c *cursor) done() bool { return int(c.off) >= len(c.src) }

func (c *cursor) peek() byte { return c.at(0) }

// peek2 returns the next two bytes; ok is false when fewer remain.
func (c *cursor) peek2() (b0, b1 byte, ok bool) {
	if int(c.off)+1 >= len(c.src) {
		return 0, 0, false
	}
	return c.src[c.off], c.src[c.off+1], true
}

func (c *cursor) at(n uint32) byte {
	if i := int(c.off + n); i < len(c.src) {
		return c.src[i]
	}
	return 0
}

// next consumes one byte and returns it.
func (c *cursor) next() byte {
	b := c.peek()
	if !c.done() {
		c.off++
	}
	return b
}

// peekRune decodes the rune at the cursor without consuming it; size is 0 at EOF.
func (c *cursor) peekRune() (rune, int) {
	if c.done() {
		return utf8.RuneError, 0
	}
	if b := c.src[c.off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.src[c.off:])
}

func (c *cursor) mark() uint32 { return c.off }

func (c *cursor) spanFrom(start uint32) source.Span {
	return source.Span{Unit: c.unit, Start: start, End: c.off}
}

func (c *cursor) text(sp source.Span) string { return string(c.src[sp.Start:sp.End]) }
