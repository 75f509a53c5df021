package diagfmt

import "mend/internal/source"

// Units resolves a qualified name to its unit; *source.Store satisfies it.
type Units interface {
	Lookup(qualifiedName string) (*source.Unit, bool)
}

// UnitList is a Units over a fixed set of units.
type UnitList []*source.Unit

func (l UnitList) Lookup(name string) (*source.Unit, bool) {
	for _, u := range l {
		if u != nil && u.QualifiedName == name {
			return u, true
		}
	}
	return nil, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int  // lines printed above the primary line
	TabWidth  int  // 0 = 4
	ShowNotes bool // notes under each diagnostic
	Max       int  // 0 = all
}

func (o PrettyOpts) tabWidth() int {
	if o.TabWidth <= 0 {
		return 4
	}
	return o.TabWidth
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	Max          int // обрезка вывода; 0 = all
	IncludeNotes bool
	Indent       bool
}
