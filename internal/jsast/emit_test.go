package jsast

import (
	"strings"
	"testing"
)

func num(s string) *Num      { return &Num{Text: s} }
func id(s string) *Ident     { return &Ident{Name: s} }
func bin(op string, l, r Expr) *Binary {
	return &Binary{Op: op, L: l, R: r}
}

func TestExponentRightAssociative(t *testing.T) {
	// a ** b ** c parses right-associatively, so the natural tree needs
	// no parentheses at all
	x := bin("**", id("a"), bin("**", id("b"), id("c")))
	if got := RenderExpr(x); got != "a ** b ** c" {
		t.Errorf("got %q", got)
	}
	// the left-leaning tree must keep its grouping
	x = bin("**", bin("**", id("a"), id("b")), id("c"))
	if got := RenderExpr(x); got != "(a ** b) ** c" {
		t.Errorf("got %q", got)
	}
}

func TestExponentUnaryBase(t *testing.T) {
	x := bin("**", &Unary{Op: "-", X: id("x")}, num("2"))
	if got := RenderExpr(x); got != "(-x) ** 2" {
		t.Errorf("got %q", got)
	}
}

func TestAdditiveLeftAssociative(t *testing.T) {
	x := bin("-", bin("-", id("a"), id("b")), id("c"))
	if got := RenderExpr(x); got != "a - b - c" {
		t.Errorf("got %q", got)
	}
	x = bin("-", id("a"), bin("-", id("b"), id("c")))
	if got := RenderExpr(x); got != "a - (b - c)" {
		t.Errorf("got %q", got)
	}
}

func TestMixedPrecedence(t *testing.T) {
	x := bin("*", bin("+", id("a"), id("b")), id("c"))
	if got := RenderExpr(x); got != "(a + b) * c" {
		t.Errorf("got %q", got)
	}
	x = bin("+", id("a"), bin("*", id("b"), id("c")))
	if got := RenderExpr(x); got != "a + b * c" {
		t.Errorf("got %q", got)
	}
}

func TestConditionalAsOperand(t *testing.T) {
	x := bin("+", id("x"), &Cond{Test: id("a"), Then: id("b"), Else: id("c")})
	if got := RenderExpr(x); got != "x + (a ? b : c)" {
		t.Errorf("got %q", got)
	}
}

func TestConditionalNesting(t *testing.T) {
	// nested in the else branch: right-associative, no parens
	x := &Cond{Test: id("a"), Then: id("b"),
		Else: &Cond{Test: id("c"), Then: id("d"), Else: id("e")}}
	if got := RenderExpr(x); got != "a ? b : c ? d : e" {
		t.Errorf("got %q", got)
	}
	// nested in the test: parens required
	x = &Cond{Test: &Cond{Test: id("a"), Then: id("b"), Else: id("c")},
		Then: id("d"), Else: id("e")}
	if got := RenderExpr(x); got != "(a ? b : c) ? d : e" {
		t.Errorf("got %q", got)
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	x := bin("&&", bin("||", id("a"), id("b")), id("c"))
	if got := RenderExpr(x); got != "(a || b) && c" {
		t.Errorf("got %q", got)
	}
	x = bin("||", id("a"), bin("&&", id("b"), id("c")))
	if got := RenderExpr(x); got != "a || b && c" {
		t.Errorf("got %q", got)
	}
}

func TestCompoundReceiverParenthesized(t *testing.T) {
	x := &Member{X: bin("+", id("a"), id("b")), Name: "length"}
	if got := RenderExpr(x); got != "(a + b).length" {
		t.Errorf("got %q", got)
	}
	// a call result receiver needs no parens
	x2 := &Member{X: &Call{Fn: id("f"), Args: []Expr{id("x")}}, Name: "y"}
	if got := RenderExpr(x2); got != "f(x).y" {
		t.Errorf("got %q", got)
	}
}

func TestIntegerLiteralReceiver(t *testing.T) {
	x := &Call{Fn: &Member{X: num("5"), Name: "toFixed"}, Args: []Expr{num("2")}}
	if got := RenderExpr(x); got != "(5).toFixed(2)" {
		t.Errorf("got %q", got)
	}
	x = &Call{Fn: &Member{X: num("2.5"), Name: "toFixed"}, Args: []Expr{num("1")}}
	if got := RenderExpr(x); got != "2.5.toFixed(1)" {
		t.Errorf("got %q", got)
	}
}

func TestNestedUnary(t *testing.T) {
	x := &Unary{Op: "-", X: &Unary{Op: "-", X: id("x")}}
	if got := RenderExpr(x); got != "-(-x)" {
		t.Errorf("got %q", got)
	}
	x2 := &Unary{Op: "!", X: bin("&&", id("a"), id("b"))}
	if got := RenderExpr(x2); got != "!(a && b)" {
		t.Errorf("got %q", got)
	}
}

func TestArrowAndIIFE(t *testing.T) {
	arrow := &Arrow{Params: []string{"x"}, Expr: bin("*", id("x"), num("2"))}
	call := &Call{Fn: &Member{X: id("xs"), Name: "map"}, Args: []Expr{arrow}}
	if got := RenderExpr(call); got != "xs.map((x) => x * 2)" {
		t.Errorf("got %q", got)
	}
	iife := &Call{Fn: &Arrow{Params: []string{"v"}, Body: []Stmt{&Return{X: id("v")}}}, Args: []Expr{num("1")}}
	got := RenderExpr(iife)
	if !strings.HasPrefix(got, "((v) => {") || !strings.HasSuffix(got, "})(1)") {
		t.Errorf("got %q", got)
	}
}

func TestSpreadAndNew(t *testing.T) {
	x := &Call{Fn: &Member{X: id("xs"), Name: "push"}, Args: []Expr{&Spread{X: id("more")}}}
	if got := RenderExpr(x); got != "xs.push(...more)" {
		t.Errorf("got %q", got)
	}
	n := &New{Fn: id("Map"), Args: []Expr{id("pairs")}}
	if got := RenderExpr(n); got != "new Map(pairs)" {
		t.Errorf("got %q", got)
	}
	m := &Member{X: n, Name: "size"}
	if got := RenderExpr(m); got != "new Map(pairs).size" {
		t.Errorf("got %q", got)
	}
}

func TestStringQuoting(t *testing.T) {
	x := &Str{Value: "he said \"hi\"\n"}
	if got := RenderExpr(x); got != `"he said \"hi\"\n"` {
		t.Errorf("got %q", got)
	}
}

func TestTemplate(t *testing.T) {
	x := &Template{Parts: []TemplatePart{
		{Text: "n = "},
		{Expr: id("n")},
		{Text: "; raw `${}` done"},
	}}
	got := RenderExpr(x)
	want := "`n = ${n}; raw \\`\\${}\\` done`"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderFunction(t *testing.T) {
	body := []Stmt{
		&VarDecl{Kind: "const", Bind: Binding{Names: []string{"y"}}, Init: bin("+", id("a"), id("b"))},
		&Return{X: id("y")},
	}
	got := RenderFunction([]string{"a", "b"}, body, false)
	want := "function(a, b) {\n    const y = a + b;\n    return y;\n}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !strings.HasPrefix(RenderFunction(nil, nil, true), "async function() {") {
		t.Error("async variant must be async-qualified")
	}
}

func TestForOfDestructuring(t *testing.T) {
	s := &ForOf{
		Bind: Binding{Names: []string{"i", "x"}},
		Iter: id("pairs"),
		Body: []Stmt{&ExprStmt{X: &Call{Fn: id("use"), Args: []Expr{id("i"), id("x")}}}},
	}
	got := RenderStmts([]Stmt{s})
	want := "for (const [i, x] of pairs) {\n    use(i, x);\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSwitchRendering(t *testing.T) {
	sw := &Switch{
		Subject: id("v"),
		Cases: []SwitchCase{
			{Values: []Expr{num("1"), num("2")}, Body: []Stmt{&ExprStmt{X: &Call{Fn: id("f"), Args: nil}}, &Break{}}},
			{Values: nil, Body: []Stmt{&ExprStmt{X: &Call{Fn: id("g"), Args: nil}}}},
		},
	}
	got := RenderStmts([]Stmt{sw})
	want := "switch (v) {\n" +
		"    case 1:\n" +
		"    case 2: {\n" +
		"        f();\n" +
		"        break;\n" +
		"    }\n" +
		"    default: {\n" +
		"        g();\n" +
		"    }\n" +
		"}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestIfElseChain(t *testing.T) {
	s := &If{
		Test: id("a"),
		Then: []Stmt{&Return{X: num("1")}},
		Else: []Stmt{&If{
			Test: id("b"),
			Then: []Stmt{&Return{X: num("2")}},
			Else: []Stmt{&Return{X: num("3")}},
		}},
	}
	got := RenderStmts([]Stmt{s})
	want := "if (a) {\n    return 1;\n} else if (b) {\n    return 2;\n} else {\n    return 3;\n}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFingerprintDeterminism(t *testing.T) {
	a := Fingerprint("function() {}")
	b := Fingerprint("function() {}")
	if a != b {
		t.Error("same text must produce the same fingerprint")
	}
	if len(a) != FingerprintSize {
		t.Errorf("fingerprint length = %d, want %d", len(a), FingerprintSize)
	}
	if a == Fingerprint("function() { }") {
		t.Error("different text should not collide in practice")
	}
}
