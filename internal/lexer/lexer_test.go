package lexer

import (
	"testing"

	"tidal/internal/diag"
	"tidal/internal/source"
	"tidal/internal/token"
)

func scanSource(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.td", []byte(src))
	bag := diag.NewBag(16)
	toks := Scan(fs.Get(id), diag.BagReporter{Bag: bag})
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		out = append(out, tk.Kind)
	}
	return out
}

func expectKinds(t *testing.T, got []token.Token, want ...token.Kind) {
	t.Helper()
	gk := kinds(got)
	if len(gk) != len(want) {
		t.Fatalf("token count = %d, want %d: %v", len(gk), len(want), gk)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, gk[i], want[i])
		}
	}
}

func TestScanSimpleDef(t *testing.T) {
	toks, bag := scanSource(t, "def add(a, b):\n    return a + b\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	expectKinds(t, toks,
		token.KwDef, token.Ident, token.LParen, token.Ident, token.Comma,
		token.Ident, token.RParen, token.Colon, token.Newline,
		token.Indent, token.KwReturn, token.Ident, token.Plus, token.Ident,
		token.Newline, token.Dedent, token.EOF,
	)
	if toks[1].Text != "add" {
		t.Errorf("def name = %q", toks[1].Text)
	}
}

func TestScanNestedDedents(t *testing.T) {
	src := "def f():\n    if x:\n        y = 1\n    return y\n"
	toks, bag := scanSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	var indents, dedents int
	for _, tk := range toks {
		switch tk.Kind {
		case token.Indent:
			indents++
		case token.Dedent:
			dedents++
		}
	}
	if indents != 2 || dedents != 2 {
		t.Errorf("indents=%d dedents=%d, want 2/2", indents, dedents)
	}
}

func TestNewlineSuppressedInBrackets(t *testing.T) {
	toks, bag := scanSource(t, "x = [1,\n     2,\n     3]\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	newlines := 0
	for _, tk := range toks {
		if tk.Kind == token.Newline {
			newlines++
		}
	}
	if newlines != 1 {
		t.Errorf("newlines = %d, want 1 (suppressed inside brackets)", newlines)
	}
}

func TestBlankAndCommentLinesIgnored(t *testing.T) {
	src := "def f():\n    # a comment\n\n    return 1\n"
	toks, bag := scanSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	for _, tk := range toks {
		if tk.Kind == token.Invalid {
			t.Fatalf("invalid token: %v", tk)
		}
	}
	expectKinds(t, toks,
		token.KwDef, token.Ident, token.LParen, token.RParen, token.Colon,
		token.Newline, token.Indent, token.KwReturn, token.IntLit,
		token.Newline, token.Dedent, token.EOF,
	)
}

func TestBadDedentReported(t *testing.T) {
	_, bag := scanSource(t, "def f():\n        x = 1\n    y = 2\n")
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LexBadIndent {
			found = true
		}
	}
	if !found {
		t.Error("expected LexBadIndent for unindent to a level that was never opened")
	}
}

func TestOperators(t *testing.T) {
	toks, bag := scanSource(t, "a **= b // c != d <= e <<= f\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	expectKinds(t, toks,
		token.Ident, token.StarStarAssign, token.Ident, token.SlashSlash,
		token.Ident, token.BangEq, token.Ident, token.LtEq, token.Ident,
		token.ShlAssign, token.Ident, token.Newline, token.EOF,
	)
}

func TestFloorDivAssign(t *testing.T) {
	toks, _ := scanSource(t, "n //= 2\n")
	expectKinds(t, toks, token.Ident, token.SlashSlashAssign, token.IntLit, token.Newline, token.EOF)
}

func TestStringCooking(t *testing.T) {
	toks, bag := scanSource(t, `s = "a\nb\"c"` + "\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if toks[2].Kind != token.StringLit {
		t.Fatalf("expected string literal, got %v", toks[2].Kind)
	}
	if toks[2].Text != "a\nb\"c" {
		t.Errorf("cooked string = %q", toks[2].Text)
	}
}

func TestFStringRawText(t *testing.T) {
	toks, bag := scanSource(t, `s = f"n={n:.2f}!"`+"\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if toks[2].Kind != token.FStringLit {
		t.Fatalf("expected f-string literal, got %v", toks[2].Kind)
	}
	if toks[2].Text != "n={n:.2f}!" {
		t.Errorf("raw f-string text = %q", toks[2].Text)
	}
}

func TestNumbers(t *testing.T) {
	toks, bag := scanSource(t, "a = 1_000 + 0xFF + 2.5e3 + 0b101\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if toks[2].Kind != token.IntLit || toks[2].Text != "1000" {
		t.Errorf("underscored int = %v %q", toks[2].Kind, toks[2].Text)
	}
	if toks[4].Kind != token.IntLit || toks[4].Text != "0xFF" {
		t.Errorf("hex int = %v %q", toks[4].Kind, toks[4].Text)
	}
	if toks[6].Kind != token.FloatLit || toks[6].Text != "2.5e3" {
		t.Errorf("float = %v %q", toks[6].Kind, toks[6].Text)
	}
	if toks[8].Kind != token.IntLit || toks[8].Text != "0b101" {
		t.Errorf("binary int = %v %q", toks[8].Kind, toks[8].Text)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, bag := scanSource(t, "s = \"oops\n")
	if !bag.HasErrors() {
		t.Fatal("expected an error for unterminated string")
	}
	if d, _ := bag.FirstError(); d.Code != diag.LexUnterminatedString {
		t.Errorf("code = %v, want LexUnterminatedString", d.Code)
	}
}
