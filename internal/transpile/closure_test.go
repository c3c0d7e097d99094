package transpile

import (
	"testing"

	"tidal/internal/ast"
)

func TestClosureOrdersDependenciesFirst(t *testing.T) {
	src := `def outer(x):
    return inner(x) + 1

def inner(y):
    return y * 2
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
	outer, err := s.Compile(byName["outer"], resolve)
	if err != nil {
		t.Fatal(err)
	}
	cl := NewClosure(outer)
	if len(cl.Units) != 2 {
		t.Fatalf("closure holds %d units, want 2", len(cl.Units))
	}
	if cl.Units[0].Name != "inner" || cl.Units[1].Name != "outer" {
		t.Fatalf("unit order = [%s, %s], want dependencies first", cl.Units[0].Name, cl.Units[1].Name)
	}
}

func TestClosureSurvivesRecursionCycle(t *testing.T) {
	src := `def ping(n):
    return pong(n)

def pong(n):
    return ping(n)
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
	ping, err := s.Compile(byName["ping"], resolve)
	if err != nil {
		t.Fatal(err)
	}
	cl := NewClosure(ping)
	if len(cl.Units) != 2 {
		t.Fatalf("closure holds %d units, want 2", len(cl.Units))
	}
}

func TestClosureCollectsAllKinds(t *testing.T) {
	src := `def render(x):
    console.log(LIMIT)
    return Widget(x)
`
	resolve := func(name string) Resolution {
		switch name {
		case "Widget":
			return Resolution{Kind: ResolveImport, Imp: ImportSpec{Name: "Widget", Source: "./widget", Kind: ImportNamed}}
		case "LIMIT":
			return Resolution{Kind: ResolveConstant, Const: ConstValue{Kind: ConstInt, Text: "10"}}
		}
		return Resolution{}
	}
	s := NewSession()
	u, err := s.Compile(parseFn(t, src), resolve)
	if err != nil {
		t.Fatal(err)
	}
	cl := NewClosure(u)
	if len(cl.Imports) != 1 || cl.Imports[0].Source != "./widget" {
		t.Fatalf("imports = %v", cl.Imports)
	}
	if len(cl.Consts) != 1 || cl.Consts[0].Value.Text != "10" {
		t.Fatalf("consts = %v", cl.Consts)
	}
	if len(cl.Builtins) != 1 || cl.Builtins[0] != "console" {
		t.Fatalf("builtins = %v", cl.Builtins)
	}
}

func TestImportMustEmitBeforeOrdering(t *testing.T) {
	s := NewSession()
	widget := s.internImport(ImportSpec{
		Name: "Widget", Source: "./widget", Kind: ImportNamed,
		Before: []string{"./polyfill"},
	})
	polyfill := s.internImport(ImportSpec{Source: "./polyfill", Kind: ImportSideEffect})

	got := orderImports([]*ImportDescriptor{widget, polyfill})
	if got[0] != polyfill || got[1] != widget {
		t.Fatalf("order = [%s, %s], want the side-effect import first", got[0].Source, got[1].Source)
	}
}

func TestImportOrderWithoutConstraintsIsRegistration(t *testing.T) {
	s := NewSession()
	a := s.internImport(ImportSpec{Name: "A", Source: "./a", Kind: ImportNamed})
	b := s.internImport(ImportSpec{Name: "B", Source: "./b", Kind: ImportNamed})
	got := orderImports([]*ImportDescriptor{b, a})
	if got[0] != a || got[1] != b {
		t.Fatal("unconstrained imports should emit in registration order")
	}
}
