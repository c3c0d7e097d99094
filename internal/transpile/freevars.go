package transpile

import (
	"tidal/internal/ast"
	"tidal/internal/source"
)

// freeRef is one distinct free name of a compiled unit, in first-reference
// order. callPos is set when any occurrence is the callee of a call.
type freeRef struct {
	name    string
	span    source.Span
	callPos bool
}

// freeReferences collects every name referenced anywhere in fn (including
// nested function and lambda literals) that no scope inside fn binds.
// Nested scopes resolve against their enclosing scopes first, so a nested
// literal capturing one of fn's own locals is internal and not reported.
func freeReferences(fn *ast.FuncDef) []freeRef {
	c := &freeCollector{index: make(map[string]int)}
	c.scope(fn.Params, fn.Body, nil, nil)
	return c.refs
}

type freeCollector struct {
	refs  []freeRef
	index map[string]int
}

func (c *freeCollector) add(name string, sp source.Span, call bool) {
	if i, ok := c.index[name]; ok {
		if call {
			c.refs[i].callPos = true
		}
		return
	}
	c.index[name] = len(c.refs)
	c.refs = append(c.refs, freeRef{name: name, span: sp, callPos: call})
}

// scope walks one function-like scope. outer is the chain of enclosing
// bound-name sets inside the unit, innermost last.
func (c *freeCollector) scope(params []string, body []ast.Stmt, expr ast.Expr, outer []map[string]bool) {
	bound := make(map[string]bool, len(params))
	for _, p := range params {
		bound[p] = true
	}
	collectBound(body, bound)

	w := &scopeWalker{c: c, chain: pushScope(outer, bound)}
	for _, s := range body {
		w.stmt(s)
	}
	if expr != nil {
		w.expr(expr, false)
	}
}

// collectBound records the names a statement list binds in its own scope:
// assignment targets, loop targets, and nested definition names. It does
// not descend into nested function literals.
func collectBound(body []ast.Stmt, bound map[string]bool) {
	for _, s := range body {
		switch s := s.(type) {
		case *ast.AssignStmt:
			if n, ok := s.Target.(*ast.Name); ok {
				bound[n.ID] = true
			}
		case *ast.AugAssignStmt:
			if n, ok := s.Target.(*ast.Name); ok {
				bound[n.ID] = true
			}
		case *ast.ForStmt:
			for _, t := range s.Targets {
				bound[t] = true
			}
			collectBound(s.Body, bound)
		case *ast.IfStmt:
			collectBound(s.Then, bound)
			collectBound(s.Else, bound)
		case *ast.WhileStmt:
			collectBound(s.Body, bound)
		case *ast.MatchStmt:
			for _, cs := range s.Cases {
				collectBound(cs.Body, bound)
			}
		case *ast.FuncDefStmt:
			bound[s.Def.Name] = true
		}
	}
}

type scopeWalker struct {
	c     *freeCollector
	chain []map[string]bool
}

func pushScope(chain []map[string]bool, m map[string]bool) []map[string]bool {
	out := make([]map[string]bool, len(chain)+1)
	copy(out, chain)
	out[len(chain)] = m
	return out
}

func (w *scopeWalker) resolvedInternally(name string) bool {
	for _, m := range w.chain {
		if m[name] {
			return true
		}
	}
	return false
}

func (w *scopeWalker) ref(n *ast.Name, call bool) {
	if w.resolvedInternally(n.ID) {
		return
	}
	w.c.add(n.ID, n.Span(), call)
}

func (w *scopeWalker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.AssignStmt:
		switch t := s.Target.(type) {
		case *ast.Name:
			// binding, not a reference
		case *ast.AttrExpr:
			w.expr(t.X, false)
		case *ast.IndexExpr:
			w.expr(t.X, false)
			w.expr(t.Index, false)
		}
		w.expr(s.Value, false)
	case *ast.AugAssignStmt:
		switch t := s.Target.(type) {
		case *ast.Name:
		case *ast.AttrExpr:
			w.expr(t.X, false)
		case *ast.IndexExpr:
			w.expr(t.X, false)
			w.expr(t.Index, false)
		}
		w.expr(s.Value, false)
	case *ast.ExprStmt:
		w.expr(s.X, false)
	case *ast.ReturnStmt:
		if s.Value != nil {
			w.expr(s.Value, false)
		}
	case *ast.IfStmt:
		w.expr(s.Cond, false)
		w.stmts(s.Then)
		w.stmts(s.Else)
	case *ast.WhileStmt:
		w.expr(s.Cond, false)
		w.stmts(s.Body)
	case *ast.ForStmt:
		w.expr(s.Iter, false)
		w.stmts(s.Body)
	case *ast.MatchStmt:
		w.expr(s.Subject, false)
		for _, cs := range s.Cases {
			for _, p := range cs.Patterns {
				w.expr(p, false)
			}
			if cs.Guard != nil {
				w.expr(cs.Guard, false)
			}
			w.stmts(cs.Body)
		}
	case *ast.RaiseStmt:
		w.expr(s.X, false)
	case *ast.FuncDefStmt:
		w.c.scope(s.Def.Params, s.Def.Body, nil, w.chain)
	}
}

func (w *scopeWalker) stmts(body []ast.Stmt) {
	for _, s := range body {
		w.stmt(s)
	}
}

func (w *scopeWalker) expr(e ast.Expr, call bool) {
	switch e := e.(type) {
	case *ast.Name:
		w.ref(e, call)
	case *ast.UnaryExpr:
		w.expr(e.X, false)
	case *ast.BinaryExpr:
		w.expr(e.L, false)
		w.expr(e.R, false)
	case *ast.CompareExpr:
		w.expr(e.First, false)
		for _, r := range e.Rest {
			w.expr(r, false)
		}
	case *ast.CondExpr:
		w.expr(e.Cond, false)
		w.expr(e.Then, false)
		w.expr(e.Else, false)
	case *ast.CallExpr:
		w.expr(e.Fn, true)
		for _, a := range e.Args {
			w.expr(a, false)
		}
		for _, k := range e.Keywords {
			w.expr(k.Value, false)
		}
	case *ast.StarExpr:
		w.expr(e.X, false)
	case *ast.AttrExpr:
		w.expr(e.X, false)
	case *ast.IndexExpr:
		w.expr(e.X, false)
		w.expr(e.Index, false)
	case *ast.SliceExpr:
		w.expr(e.X, false)
		for _, part := range []ast.Expr{e.Lo, e.Hi, e.Step} {
			if part != nil {
				w.expr(part, false)
			}
		}
	case *ast.ListExpr:
		w.exprs(e.Elems)
	case *ast.TupleExpr:
		w.exprs(e.Elems)
	case *ast.DictExpr:
		w.exprs(e.Keys)
		w.exprs(e.Values)
	case *ast.SetExpr:
		w.exprs(e.Elems)
	case *ast.CompExpr:
		// The iterable evaluates in the current scope; the element and
		// condition see the comprehension variables.
		w.expr(e.Iter, false)
		inner := make(map[string]bool, len(e.Vars))
		for _, v := range e.Vars {
			inner[v] = true
		}
		nested := &scopeWalker{c: w.c, chain: pushScope(w.chain, inner)}
		nested.expr(e.Elt, false)
		if e.Cond != nil {
			nested.expr(e.Cond, false)
		}
	case *ast.LambdaExpr:
		w.c.scope(e.Params, nil, e.Body, w.chain)
	case *ast.AwaitExpr:
		w.expr(e.X, false)
	case *ast.FString:
		for _, p := range e.Parts {
			if p.Expr != nil {
				w.expr(p.Expr, false)
			}
		}
	}
}

func (w *scopeWalker) exprs(list []ast.Expr) {
	for _, e := range list {
		w.expr(e, false)
	}
}
