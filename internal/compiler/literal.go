package compiler

import (
	"math"
	"strconv"
	"strings"
)

// parseIntLiteral decodes a NumberLiteral label: decimal, 0x, 0b, '_'
// separators and an optional L suffix. neg reports a directly negated
// literal, which lets -2147483648 and -9223372036854775808L through.
func parseIntLiteral(label string, neg bool) (v int64, typ Type, ok bool) {
	text := strings.ReplaceAll(label, "_", "")
	typ = Int
	if strings.HasSuffix(text, "L") || strings.HasSuffix(text, "l") {
		typ = Long
		text = text[:len(text)-1]
	}
	base := 10
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		base, text = 16, text[2:]
	case strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B"):
		base, text = 2, text[2:]
	}
	u, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return 0, typ, false
	}

	bits := 64
	if typ == Int {
		bits = 32
	}
	if base != 10 {
		// hex/binary literals may fill the sign bit: 0xFFFFFFFF == -1
		if bits == 32 {
			if u > math.MaxUint32 {
				return 0, typ, false
			}
			v = int64(int32(uint32(u)))
			if neg {
				v = int64(int32(-v))
			}
			return v, typ, true
		}
		if neg {
			return int64(-u), typ, true
		}
		return int64(u), typ, true
	}
	limit := uint64(math.MaxInt64)
	if bits == 32 {
		limit = math.MaxInt32
	}
	if neg {
		limit++
	}
	if u > limit {
		return 0, typ, false
	}
	if neg {
		return int64(-u), typ, true // -u wraps to MinInt64 for 1<<63
	}
	return int64(u), typ, true
}
