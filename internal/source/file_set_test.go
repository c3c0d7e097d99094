package source

import (
	"testing"
)

func TestFileSetAddAndGet(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.AddVirtual("widgets.td", []byte("def f():\n    pass\n"))
	if id1 != 0 {
		t.Errorf("expected first FileID to be 0, got %d", id1)
	}

	latest, ok := fs.GetLatest("widgets.td")
	if !ok {
		t.Fatal("expected file to exist after AddVirtual")
	}
	if latest != id1 {
		t.Errorf("expected latest ID %d, got %d", id1, latest)
	}

	id2 := fs.AddVirtual("widgets.td", []byte("def g():\n    pass\n"))
	if id2 == id1 {
		t.Error("expected a fresh FileID for re-added path")
	}
	latest, _ = fs.GetLatest("widgets.td")
	if latest != id2 {
		t.Errorf("expected latest ID %d after second add, got %d", id2, latest)
	}

	if got := string(fs.Get(id1).Content); got != "def f():\n    pass\n" {
		t.Errorf("first version content changed: %q", got)
	}
}

func TestNormalizeContent(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.td", []byte("\xEF\xBB\xBFa = 1\r\nb = 2\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "a = 1\nb = 2\n" {
		t.Errorf("normalization failed: %q", string(f.Content))
	}
	if f.Flags&FileHadBOM == 0 {
		t.Error("expected FileHadBOM flag")
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("expected FileNormalizedCRLF flag")
	}
	if f.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nxyz")
	idx := buildLineIndex(content)

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},  // 'a'
		{1, 1, 2},  // 'b'
		{2, 1, 3},  // newline belongs to line 1
		{3, 2, 1},  // 'c'
		{6, 3, 1},  // empty line
		{7, 4, 1},  // 'x'
		{9, 4, 3},  // 'z'
	}
	for _, tc := range cases {
		got := toLineCol(idx, tc.off)
		if got.Line != tc.line || got.Col != tc.col {
			t.Errorf("off %d: got %d:%d, want %d:%d", tc.off, got.Line, got.Col, tc.line, tc.col)
		}
	}
}

func TestLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.td", []byte("first\nsecond\nthird"))
	if got := fs.Line(id, 2); got != "second" {
		t.Errorf("Line(2) = %q, want \"second\"", got)
	}
	if got := fs.Line(id, 3); got != "third" {
		t.Errorf("Line(3) = %q, want \"third\"", got)
	}
	if got := fs.Line(id, 1); got != "first" {
		t.Errorf("Line(1) = %q, want \"first\"", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 0, Start: 4, End: 8}
	b := Span{File: 0, Start: 2, End: 6}
	c := a.Cover(b)
	if c.Start != 2 || c.End != 8 {
		t.Errorf("Cover = %v, want 0:2-8", c)
	}
	other := Span{File: 1, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files must be a no-op, got %v", got)
	}
}
