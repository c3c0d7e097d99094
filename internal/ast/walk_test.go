package ast

import (
	"testing"

	"tidal/internal/source"
)

func name(id string) *Name { return &Name{ID: id} }

func TestInspectVisitsNestedFunctions(t *testing.T) {
	inner := NewFuncDef("inner", []string{"y"}, []Stmt{
		&ReturnStmt{Value: &BinaryExpr{Op: "+", L: name("y"), R: name("captured")}},
	}, false, source.Span{})
	outer := NewFuncDef("outer", []string{"x"}, []Stmt{
		&FuncDefStmt{Def: inner},
		&ReturnStmt{Value: &CallExpr{Fn: name("inner"), Args: []Expr{name("x")}}},
	}, false, source.Span{})

	var got []string
	Inspect(outer, func(n Node) bool {
		if v, ok := n.(*Name); ok {
			got = append(got, v.ID)
		}
		return true
	})

	want := []string{"y", "captured", "inner", "x"}
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInspectPruneSkipsChildren(t *testing.T) {
	fn := NewFuncDef("f", nil, []Stmt{
		&IfStmt{
			Cond: name("c"),
			Then: []Stmt{&ExprStmt{X: name("hidden")}},
		},
		&ExprStmt{X: name("after")},
	}, false, source.Span{})

	var got []string
	Inspect(fn, func(n Node) bool {
		switch v := n.(type) {
		case *IfStmt:
			return false
		case *Name:
			got = append(got, v.ID)
		}
		return true
	})

	if len(got) != 1 || got[0] != "after" {
		t.Errorf("names = %v, want [after]", got)
	}
}
