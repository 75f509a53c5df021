package source

import "strconv"

// Span is a half-open byte range [Start, End) inside one unit.
type Span struct {
	Unit  UnitID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

// String renders unit:start-end.
func (s Span) String() string {
	b := strconv.AppendUint(nil, uint64(s.Unit), 10)
	b = append(b, ':')
	b = strconv.AppendUint(b, uint64(s.Start), 10)
	b = append(b, '-')
	return string(strconv.AppendUint(b, uint64(s.End), 10))
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.Unit == other.Unit && s.Start <= other.Start && other.End <= s.End
}

// Cover returns the smallest span holding both; spans of another unit are ignored.
func (s Span) Cover(other Span) Span {
	if s.Unit == other.Unit {
		s.Start = min(s.Start, other.Start)
		s.End = max(s.End, other.End)
	}
	return s
}
