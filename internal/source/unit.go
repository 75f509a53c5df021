package source

import (
	"crypto/sha256"
	"fmt"

	"fortio.org/safecast"
)

// Unit is one named, immutable piece of program text or artifact bytes held in memory.
// The content is copied on construction; callers create a new Unit for every new version.
type Unit struct {
	ID            UnitID
	QualifiedName string
	Kind          Kind
	Flags         Flags

	content []byte
	lineIdx []uint32
	hash    [32]byte
}

// NewUnit copies content, strips a BOM and folds CRLF for source units.
func NewUnit(qualifiedName string, kind Kind, content []byte) *Unit {
	buf := make([]byte, len(content))
	copy(buf, content)

	var flags Flags
	if kind == KindSource {
		var hadBOM, hadCRLF bool
		buf, hadBOM = removeBOM(buf)
		buf, hadCRLF = normalizeCRLF(buf)
		if hadBOM {
			flags |= UnitHadBOM
		}
		if hadCRLF {
			flags |= UnitNormalizedCRLF
		}
	}
	if _, err := safecast.Conv[uint32](len(buf)); err != nil {
		panic(fmt.Errorf("unit %q content overflow: %w", qualifiedName, err))
	}
	return &Unit{
		QualifiedName: qualifiedName,
		Kind:          kind,
		Flags:         flags,
		content:       buf,
		lineIdx:       buildLineIndex(buf),
		hash:          sha256.Sum256(buf),
	}
}

// NewSource is shorthand for a KindSource unit built from text.
func NewSource(qualifiedName, text string) *Unit {
	return NewUnit(qualifiedName, KindSource, []byte(text))
}

// withID returns a shallow copy bound to a store slot. Content is shared; it is never written.
func (u *Unit) withID(id UnitID) *Unit {
	cp := *u
	cp.ID = id
	return &cp
}

// Bytes returns a copy of the unit content.
func (u *Unit) Bytes() []byte {
	out := make([]byte, len(u.content))
	copy(out, u.content)
	return out
}

// String returns the content as text.
func (u *Unit) String() string {
	return string(u.content)
}

// View exposes the content for read-only scanning by the lexer.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (u *Unit) View() []byte {
	return u.content
}

// Len returns the content length in bytes.
func (u *Unit) Len() uint32 {
	return uint32(len(u.content)) // checked in NewUnit
}

// Hash returns the SHA-256 of the normalized content.
func (u *Unit) Hash() [32]byte {
	return u.hash
}

// Path returns the synthetic memo:/// URI used for generator selection and display.
func (u *Unit) Path() string {
	return unitPath(u.QualifiedName, u.Kind)
}

// SimpleName returns the last dotted segment of the qualified name.
func (u *Unit) SimpleName() string {
	for i := len(u.QualifiedName) - 1; i >= 0; i-- {
		if u.QualifiedName[i] == '.' {
			return u.QualifiedName[i+1:]
		}
	}
	return u.QualifiedName
}

// Position converts a byte offset into a 1-based line and column.
func (u *Unit) Position(off uint32) LineCol {
	if off > u.Len() {
		off = u.Len()
	}
	return toLineCol(u.lineIdx, off)
}

// Resolve converts a span into start and end positions.
func (u *Unit) Resolve(span Span) (start, end LineCol) {
	return u.Position(span.Start), u.Position(span.End)
}

// LineCount returns the number of lines, counting a trailing partial line.
func (u *Unit) LineCount() int {
	n := len(u.lineIdx)
	if len(u.content) > 0 && (n == 0 || u.lineIdx[n-1] != u.Len()-1) {
		n++
	}
	return n
}

// Line returns the text of the 1-based line without its newline.
// Если строка не существует, возвращает пустую строку.
func (u *Unit) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	var start uint32
	if lineNum > 1 {
		if int(lineNum-2) >= len(u.lineIdx) {
			return ""
		}
		start = u.lineIdx[lineNum-2] + 1
	}
	end := u.Len()
	if int(lineNum-1) < len(u.lineIdx) {
		end = u.lineIdx[lineNum-1]
	}
	if start > end {
		return ""
	}
	return string(u.content[start:end])
}
