package source

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
)

var (
	bom  = []byte{0xEF, 0xBB, 0xBF}
	crlf = []byte("\r\n")
)

// normalizeCRLF заменяет \r\n на \n; одиночный \r остаётся.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, crlf) {
		return content, false
	}
	return bytes.ReplaceAll(content, crlf, []byte{'\n'}), true
}

func removeBOM(content []byte) ([]byte, bool) {
	return bytes.CutPrefix(content, bom)
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, len(content)/32+1)
	for off := 0; ; off++ {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return idx
		}
		off += i
		u, err := safecast.Conv[uint32](off)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		idx = append(idx, u)
	}
}

// toLineCol maps a byte offset to a 1-based position. A '\n' belongs to the
// line it ends.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// число переводов строки строго левее off
	line, _ := slices.BinarySearch(lineIdx, off)
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1}
}

// unitPath builds the synthetic memo:/// URI of a qualified name.
func unitPath(qualifiedName string, kind Kind) string {
	return "memo:///" + strings.ReplaceAll(qualifiedName, ".", "/") + kind.Extension()
}
