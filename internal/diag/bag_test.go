package diag_test

import (
	"testing"

	"mend/internal/diag"
	"mend/internal/source"
)

func TestBagLimitKeepsFirstError(t *testing.T) {
	bag := diag.NewBag(2)
	r := diag.BagReporter{Bag: bag}
	r.Report(diag.SemaUnusedLocal, diag.SevWarning, source.Span{Start: 1, End: 2}, "unused a", nil)
	r.Report(diag.SemaUnusedLocal, diag.SevWarning, source.Span{Start: 3, End: 4}, "unused b", nil)
	r.Report(diag.SemaTypeMismatch, diag.SevError, source.Span{Start: 5, End: 6}, "bad", nil)
	r.Report(diag.SemaTypeMismatch, diag.SevError, source.Span{Start: 7, End: 8}, "bad again", nil)

	if bag.Len() != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", bag.Len())
	}
	if !bag.HasErrors() || bag.ErrorCount() != 1 {
		t.Fatalf("expected exactly one error kept, got %d", bag.ErrorCount())
	}
}

func TestBagSortAndResolve(t *testing.T) {
	store := source.NewStore()
	u := store.AddSource("p.A", "class A {\n  int x\n}")

	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, diag.SynExpectSemicolon, source.Span{Unit: u.ID, Start: 17, End: 17}, "expected ';'"))
	bag.Add(diag.New(diag.SevWarning, diag.SemaUnusedLocal, source.Span{Unit: u.ID, Start: 0, End: 5}, "w"))
	bag.Sort()
	bag.Resolve(store)

	items := bag.Items()
	if items[0].Code != diag.SemaUnusedLocal {
		t.Fatalf("expected warning first after sort, got %s", items[0].Code.ID())
	}
	got := items[1]
	if got.Unit != "p.A" || got.Line != 2 || got.Column != 8 {
		t.Fatalf("unexpected resolved position %s:%d:%d", got.Unit, got.Line, got.Column)
	}
	short := diag.FormatShort(items)
	if short != "warning SEM3019 p.A:1:1 w\nerror SYN2012 p.A:2:8 expected ';'" {
		t.Fatalf("unexpected short format:\n%s", short)
	}
}

func TestDedup(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.Dedup(diag.BagReporter{Bag: bag})
	sp := source.Span{Start: 4, End: 5}
	r.Report(diag.LexUnknownChar, diag.SevError, sp, "unknown character", nil)
	r.Report(diag.LexUnknownChar, diag.SevError, sp, "unknown character", nil)
	r.Report(diag.LexUnknownChar, diag.SevError, source.Span{Start: 5, End: 6}, "unknown character", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected duplicates to be dropped, got %d", bag.Len())
	}
	diag.Dedup(nil).Report(diag.LexUnknownChar, diag.SevError, sp, "x", nil)
}

func TestWithNoteCopies(t *testing.T) {
	base := diag.New(diag.SevError, diag.SemaTypeMismatch, source.Span{}, "bad").WithNote(source.Span{}, "first")
	a := base.WithNote(source.Span{Start: 1}, "a")
	b := base.WithNote(source.Span{Start: 2}, "b")
	if len(base.Notes) != 1 || a.Notes[1].Msg != "a" || b.Notes[1].Msg != "b" {
		t.Fatalf("notes alias: %+v %+v %+v", base.Notes, a.Notes, b.Notes)
	}
	if diag.Severity(9).String() != "UNKNOWN" || diag.SevWarning.String() != "WARNING" {
		t.Fatal("severity names")
	}
}

func TestCodeID(t *testing.T) {
	tests := map[diag.Code]string{
		diag.LexUnknownChar:    "LEX1001",
		diag.SynUnmatchedBrace: "SYN2002",
		diag.SemaMissingReturn: "SEM3011",
		diag.GenCodeTooLarge:   "GEN4001",
		diag.UnknownCode:       "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("ID(%d) = %s, want %s", code, got, want)
		}
	}
}
