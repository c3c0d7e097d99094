package diag

import (
	"testing"

	"tidal/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	sp := source.Span{File: 0, Start: 0, End: 1}
	if !b.Add(NewError(SynUnexpectedToken, sp, "one")) {
		t.Error("first Add should succeed")
	}
	if !b.Add(NewError(SynUnexpectedToken, sp, "two")) {
		t.Error("second Add should succeed")
	}
	if b.Add(NewError(SynUnexpectedToken, sp, "three")) {
		t.Error("third Add should be dropped at the limit")
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(SynExpectColon, source.Span{File: 1, Start: 5, End: 6}, "later file"))
	b.Add(NewError(SynUnexpectedToken, source.Span{File: 0, Start: 9, End: 10}, "later offset"))
	b.Add(New(SevWarning, LexBadIndent, source.Span{File: 0, Start: 2, End: 3}, "warning"))
	b.Add(NewError(LexUnknownChar, source.Span{File: 0, Start: 2, End: 3}, "error same span"))
	b.Sort()

	items := b.Items()
	if items[0].Code != LexUnknownChar {
		t.Errorf("expected error before warning at same span, got %v", items[0].Code)
	}
	if items[1].Code != LexBadIndent {
		t.Errorf("expected warning second, got %v", items[1].Code)
	}
	if items[2].Primary.Start != 9 {
		t.Errorf("expected offset ordering within file, got start %d", items[2].Primary.Start)
	}
	if items[3].Primary.File != 1 {
		t.Errorf("expected file ordering last, got file %d", items[3].Primary.File)
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBag(4)
	b.Add(New(SevWarning, LexInfo, source.Span{}, "w"))
	if b.HasErrors() {
		t.Error("warning-only bag must not report errors")
	}
	b.Add(NewError(TrSliceStep, source.Span{}, "slice step not supported"))
	if !b.HasErrors() {
		t.Error("expected HasErrors after adding an error")
	}
	if d, ok := b.FirstError(); !ok || d.Code != TrSliceStep {
		t.Errorf("FirstError = %v, %v", d.Code, ok)
	}
}

func TestCodeID(t *testing.T) {
	cases := []struct {
		code Code
		id   string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynUnexpectedToken, "SYN2001"},
		{TrSliceStep, "TRA3003"},
		{IOLoadFileError, "IO4000"},
		{UnknownCode, "E0000"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.id {
			t.Errorf("ID(%d) = %q, want %q", tc.code, got, tc.id)
		}
	}
}
