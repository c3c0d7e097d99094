package diagfmt

import (
	"strings"
	"testing"

	"tidal/internal/diag"
	"tidal/internal/source"
)

func TestPrettyPlain(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("app.td", []byte("x = ys[::2]\n"))

	bag := diag.NewBag(10)
	sp := source.Span{File: id, Start: 4, End: 11}
	bag.Add(diag.NewError(diag.TrSliceStep, sp, "slice step not supported"))

	var b strings.Builder
	Pretty(&b, bag, fs, PrettyOpts{})

	want := "app.td:1:5: ERROR TRA3003: slice step not supported\n" +
		"  x = ys[::2]\n" +
		"      ^~~~~~~\n"
	if got := b.String(); got != want {
		t.Errorf("output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContextAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("app.td", []byte("def f(a):\n    return a[::2]\n"))

	bag := diag.NewBag(10)
	sp := source.Span{File: id, Start: 21, End: 27}
	d := diag.NewError(diag.TrSliceStep, sp, "slice step not supported").
		WithNote(source.Span{File: id, Start: 0, End: 3}, "inside this function")
	bag.Add(d)

	var b strings.Builder
	Pretty(&b, bag, fs, PrettyOpts{Context: 1, ShowNotes: true})
	got := b.String()

	for _, want := range []string{
		"app.td:2:12: ERROR TRA3003: slice step not supported",
		"  def f(a):",            // context line
		"app.td:1:1: note: inside this function",
		"  ^~~",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestUnderlineClampsToLine(t *testing.T) {
	got := underline("short", 3, 50, false)
	want := "  ^~~"
	if got != want {
		t.Errorf("underline = %q, want %q", got, want)
	}
}

func TestUnderlineMinimumWidth(t *testing.T) {
	// Span at end of line still gets one caret.
	got := underline("ab", 3, 0, false)
	want := "  ^"
	if got != want {
		t.Errorf("underline = %q, want %q", got, want)
	}
}

func TestPrettyBasenamePath(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("deep/nested/app.td", []byte("x\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.TrUnresolvedCall, source.Span{File: id, Start: 0, End: 1}, "boom"))

	var b strings.Builder
	Pretty(&b, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if got := b.String(); !strings.HasPrefix(got, "app.td:1:1:") {
		t.Errorf("want basename prefix, got:\n%s", got)
	}
}
