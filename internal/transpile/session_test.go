package transpile

import (
	"strings"
	"testing"

	"tidal/internal/ast"
	"tidal/internal/diag"
	"tidal/internal/parser"
	"tidal/internal/source"
)

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.AddVirtual("test.td", []byte(src))
	bag := diag.NewBag(50)
	mod := parser.Parse(fs.Get(fid), diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("parse failed:\n%s", bag.String())
	}
	return mod
}

func parseFn(t *testing.T, src string) *ast.FuncDef {
	t.Helper()
	mod := parseModule(t, src)
	if len(mod.Funcs) == 0 {
		t.Fatal("no function parsed")
	}
	return mod.Funcs[0]
}

func noResolve(string) Resolution { return Resolution{} }

func mustCompile(t *testing.T, src string) *CompilationUnit {
	t.Helper()
	u, err := NewSession().Compile(parseFn(t, src), noResolve)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return u
}

func wantFatal(t *testing.T, src string, resolve Resolver, code diag.Code) *Error {
	t.Helper()
	s := NewSession()
	_, err := s.Compile(parseFn(t, src), resolve)
	if err == nil {
		t.Fatal("compile succeeded, want fatal error")
	}
	ce, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if ce.Code != code {
		t.Fatalf("error code = %v, want %v (msg %q)", ce.Code, code, ce.Msg)
	}
	if len(s.funcs) != 0 {
		t.Fatalf("function cache holds %d entries after failure, want 0", len(s.funcs))
	}
	return ce
}

func TestCacheIdentity(t *testing.T) {
	fn := parseFn(t, "def f(a):\n    return a\n")
	s := NewSession()
	u1, err := s.Compile(fn, noResolve)
	if err != nil {
		t.Fatal(err)
	}
	u2, err := s.Compile(fn, noResolve)
	if err != nil {
		t.Fatal(err)
	}
	if u1 != u2 {
		t.Fatal("compiling the same definition twice returned distinct units")
	}
}

func TestDeterminismAcrossParses(t *testing.T) {
	src := "def f(a, b):\n    return a * b + len(a)\n"
	u1 := mustCompile(t, src)
	u2 := mustCompile(t, src)
	if u1.Code() != u2.Code() {
		t.Fatalf("generated text differs:\n%s\n--\n%s", u1.Code(), u2.Code())
	}
	if u1.Fingerprint() != u2.Fingerprint() {
		t.Fatalf("fingerprint differs: %s vs %s", u1.Fingerprint(), u2.Fingerprint())
	}
	if len(u1.Fingerprint()) != 64 {
		t.Fatalf("fingerprint length = %d, want 64", len(u1.Fingerprint()))
	}
}

func TestParamCount(t *testing.T) {
	u := mustCompile(t, "def f(a, b, c):\n    return a\n")
	if got := u.ParamCount(); got != 3 {
		t.Fatalf("ParamCount = %d, want 3", got)
	}
}

func TestImportDedupMerge(t *testing.T) {
	s := NewSession()
	d1 := s.internImport(ImportSpec{Name: "Foo", Source: "mod", Kind: ImportNamed, TypeOnly: true})
	d2 := s.internImport(ImportSpec{Name: "Foo", Source: "mod", Kind: ImportNamed})
	if d1 != d2 {
		t.Fatal("same dedup key produced two descriptors")
	}
	if d1.TypeOnly {
		t.Fatal("regular request did not upgrade type-only import")
	}
	if d2.LocalID != d1.LocalID || d1.LocalID == "" {
		t.Fatalf("identifier changed on merge: %q vs %q", d1.LocalID, d2.LocalID)
	}
	// Upgrading is permanent: a later type-only request is a no-op.
	d3 := s.internImport(ImportSpec{Name: "Foo", Source: "mod", Kind: ImportNamed, TypeOnly: true})
	if d3 != d1 || d3.TypeOnly {
		t.Fatal("type-only request downgraded a regular import")
	}
}

func TestDefaultImportDedupesBySource(t *testing.T) {
	s := NewSession()
	d1 := s.internImport(ImportSpec{Name: "React", Source: "react", Kind: ImportDefault})
	d2 := s.internImport(ImportSpec{Name: "R", Source: "react", Kind: ImportDefault})
	if d1 != d2 {
		t.Fatal("default imports of one module did not merge")
	}
	if d1.Name != "React" || d1.LocalID != "React" {
		t.Fatalf("merge did not keep the first identifier: %q/%q", d1.Name, d1.LocalID)
	}
}

func TestImportOrderingConstraintsUnion(t *testing.T) {
	s := NewSession()
	s.internImport(ImportSpec{Name: "Foo", Source: "mod", Kind: ImportNamed, Before: []string{"polyfill"}})
	d := s.internImport(ImportSpec{Name: "Foo", Source: "mod", Kind: ImportNamed, Before: []string{"runtime"}})
	if len(d.Before) != 2 {
		t.Fatalf("Before = %v, want union of both constraints", d.Before)
	}
}

func TestImportDependencySharing(t *testing.T) {
	src := `def a(x):
    return helper(x)

def b(y):
    return helper(y)
`
	mod := parseModule(t, src)
	resolve := func(name string) Resolution {
		if name == "helper" {
			return Resolution{Kind: ResolveImport, Imp: ImportSpec{Name: "helper", Source: "./util", Kind: ImportNamed}}
		}
		return Resolution{}
	}
	s := NewSession()
	ua, err := s.Compile(mod.Funcs[0], resolve)
	if err != nil {
		t.Fatal(err)
	}
	ub, err := s.Compile(mod.Funcs[1], resolve)
	if err != nil {
		t.Fatal(err)
	}
	if ua.Deps["helper"].Imp != ub.Deps["helper"].Imp {
		t.Fatal("two units referencing one import hold distinct descriptors")
	}
}

func TestConstantStructuralDedup(t *testing.T) {
	src := `def a(x):
    return x + LIMIT

def b(y):
    return y - LIMIT
`
	mod := parseModule(t, src)
	resolve := func(name string) Resolution {
		if name == "LIMIT" {
			return Resolution{Kind: ResolveConstant, Const: ConstValue{Kind: ConstInt, Text: "100"}}
		}
		return Resolution{}
	}
	s := NewSession()
	ua, err := s.Compile(mod.Funcs[0], resolve)
	if err != nil {
		t.Fatal(err)
	}
	ub, err := s.Compile(mod.Funcs[1], resolve)
	if err != nil {
		t.Fatal(err)
	}
	ca, cb := ua.Deps["LIMIT"].Const, ub.Deps["LIMIT"].Const
	if ca != cb {
		t.Fatal("structurally equal constants were not shared")
	}
	if !strings.Contains(ua.Code(), ca.LocalID) {
		t.Fatalf("generated code does not reference constant %q:\n%s", ca.LocalID, ua.Code())
	}
}

func TestConstantListKey(t *testing.T) {
	s := NewSession()
	list := ConstValue{Kind: ConstList, List: []ConstValue{
		{Kind: ConstInt, Text: "1"},
		{Kind: ConstString, Text: "a"},
	}}
	c1 := s.internConst(list)
	c2 := s.internConst(ConstValue{Kind: ConstList, List: []ConstValue{
		{Kind: ConstInt, Text: "1"},
		{Kind: ConstString, Text: "a"},
	}})
	if c1 != c2 {
		t.Fatal("structurally equal list constants were not shared")
	}
	c3 := s.internConst(ConstValue{Kind: ConstList, List: []ConstValue{
		{Kind: ConstInt, Text: "1"},
	}})
	if c3 == c1 {
		t.Fatal("different list constants were merged")
	}
}

func TestMutualRecursion(t *testing.T) {
	src := `def even(n):
    if n == 0:
        return True
    return odd(n - 1)

def odd(n):
    if n == 0:
        return False
    return even(n - 1)
`
	mod := parseModule(t, src)
	byName := map[string]*ast.FuncDef{}
	for _, fn := range mod.Funcs {
		byName[fn.Name] = fn
	}
	resolve := func(name string) Resolution {
		if fn, ok := byName[name]; ok {
			return Resolution{Kind: ResolveFunction, Func: fn}
		}
		return Resolution{}
	}
	s := NewSession()
	even, err := s.Compile(byName["even"], resolve)
	if err != nil {
		t.Fatal(err)
	}
	odd := even.Deps["odd"].Fn
	if odd == nil {
		t.Fatal("even has no FunctionRef on odd")
	}
	if back := odd.Deps["even"].Fn; back != even {
		t.Fatalf("odd's back reference is %p, want %p", back, even)
	}
	if !strings.Contains(even.Code(), "odd(n - 1)") {
		t.Fatalf("even does not call odd by its identifier:\n%s", even.Code())
	}
}

func TestSelfRecursion(t *testing.T) {
	src := "def fact(n):\n    if n <= 1:\n        return 1\n    return n * fact(n - 1)\n"
	fn := parseFn(t, src)
	resolve := func(name string) Resolution {
		if name == "fact" {
			return Resolution{Kind: ResolveFunction, Func: fn}
		}
		return Resolution{}
	}
	u, err := NewSession().Compile(fn, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if u.Deps["fact"].Fn != u {
		t.Fatal("self reference does not point at the unit itself")
	}
}

func TestEnclosingCaptureFatal(t *testing.T) {
	fn := parseFn(t, "def inner(x):\n    return x + outer_total\n")
	fn.EnclosingLocals = map[string]bool{"outer_total": true}
	s := NewSession()
	_, err := s.Compile(fn, noResolve)
	ce, ok := err.(*Error)
	if !ok || ce.Code != diag.TrEnclosingCapture {
		t.Fatalf("err = %v, want enclosing-capture fatal", err)
	}
}

func TestCallableNotFunctionFatal(t *testing.T) {
	resolve := func(name string) Resolution {
		if name == "Widget" {
			return Resolution{Kind: ResolveCallable}
		}
		return Resolution{}
	}
	src := "def f(x):\n    return Widget(x)\n"
	s := NewSession()
	_, err := s.Compile(parseFn(t, src), resolve)
	ce, ok := err.(*Error)
	if !ok || ce.Code != diag.TrCallableNotFunc {
		t.Fatalf("err = %v, want callable-not-function fatal", err)
	}
}

func TestUnresolvedCallFatal(t *testing.T) {
	wantFatal(t, "def f(x):\n    return mystery(x)\n", noResolve, diag.TrUnresolvedCall)
}

func TestUnresolvedNonCallIsNotFatal(t *testing.T) {
	// A bare unknown name is assumed to resolve at the call site.
	u := mustCompile(t, "def f(x):\n    return x + config\n")
	if !strings.Contains(u.Code(), "x + config") {
		t.Fatalf("code = %s", u.Code())
	}
	if len(u.Deps) != 0 {
		t.Fatalf("deps = %v, want none", u.Deps)
	}
}

func TestNothingCachedOnFailure(t *testing.T) {
	src := `def outer(x):
    return broken(x)

def broken(y):
    y //= 2
    return y
`
	mod := parseModule(t, src)
	byName := map[string]*ast.FuncDef{}
	for _, fn := range mod.Funcs {
		byName[fn.Name] = fn
	}
	resolve := func(name string) Resolution {
		if fn, ok := byName[name]; ok {
			return Resolution{Kind: ResolveFunction, Func: fn}
		}
		return Resolution{}
	}
	s := NewSession()
	_, err := s.Compile(byName["outer"], resolve)
	ce, ok := err.(*Error)
	if !ok || ce.Code != diag.TrAugAssignOp {
		t.Fatalf("err = %v, want aug-assign fatal from the transitive compile", err)
	}
	if len(s.funcs) != 0 {
		t.Fatalf("cache holds %d units after transitive failure, want 0", len(s.funcs))
	}
}

func TestSliceStepFatal(t *testing.T) {
	wantFatal(t, "def f(xs):\n    return xs[1:5:2]\n", noResolve, diag.TrSliceStep)
}

func TestAugFloorDivFatal(t *testing.T) {
	ce := wantFatal(t, "def f(x):\n    x //= 2\n    return x\n", noResolve, diag.TrAugAssignOp)
	if !strings.Contains(ce.Msg, "//=") {
		t.Fatalf("message %q does not cite the operator", ce.Msg)
	}
}

func TestMatchGuardFatal(t *testing.T) {
	src := `def f(v, big):
    match v:
        case 1 if big:
            return "one"
        case _:
            return "other"
`
	wantFatal(t, src, noResolve, diag.TrMatchGuard)
}

func TestFormatNonConstFatal(t *testing.T) {
	wantFatal(t, "def f(v, w):\n    return f\"{v:{w}f}\"\n", noResolve, diag.TrFormatNonConst)
}

func TestFormatGroupingFatal(t *testing.T) {
	wantFatal(t, "def f(v):\n    return f\"{v:,d}\"\n", noResolve, diag.TrFormatGrouping)
}

func TestFormatUnknownTypeFatal(t *testing.T) {
	wantFatal(t, "def f(v):\n    return f\"{v:z}\"\n", noResolve, diag.TrFormatType)
}

func TestFormatEqualsAlignFatal(t *testing.T) {
	wantFatal(t, "def f(v):\n    return f\"{v:=8s}\"\n", noResolve, diag.TrFormatEqualsAlign)
}

func TestResetClearsRegistries(t *testing.T) {
	s := NewSession()
	s.internImport(ImportSpec{Name: "Foo", Source: "mod", Kind: ImportNamed})
	s.internConst(ConstValue{Kind: ConstInt, Text: "1"})
	if _, err := s.Compile(parseFn(t, "def f(a):\n    return a\n"), noResolve); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	if len(s.funcs)+len(s.imports)+len(s.consts) != 0 {
		t.Fatal("Reset left registry entries behind")
	}
	// Identifier space resets too: the same name is available again.
	d := s.internImport(ImportSpec{Name: "Foo", Source: "mod", Kind: ImportNamed})
	if d.LocalID != "Foo" {
		t.Fatalf("LocalID after reset = %q, want %q", d.LocalID, "Foo")
	}
}
