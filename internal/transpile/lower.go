package transpile

import (
	"tidal/internal/ast"
	"tidal/internal/diag"
	"tidal/internal/jsast"
)

// lowerer rewrites one function body into IR. It tracks the local scope
// chain (for name resolution against the unit's dependency map) and the
// declaration plan for the function's own variables.
type lowerer struct {
	u      *CompilationUnit
	scopes []map[string]bool

	// plan describes how each function-scoped variable is declared.
	plan     map[string]declPlan
	declared map[string]bool
	depth    int
}

type declPlan uint8

const (
	// declInline emits `let x = v;` (or const) at the first assignment.
	declInline declPlan = iota
	declInlineConst
	// declHoist emits `let x;` at the top of the function; every
	// assignment is then plain. Used when the first write is nested in a
	// block, is augmented, or is a loop target that outlives its loop.
	declHoist
)

func lowerInto(u *CompilationUnit, fn *ast.FuncDef) {
	l := &lowerer{
		u:        u,
		plan:     make(map[string]declPlan),
		declared: make(map[string]bool),
	}

	top := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		top[p] = true
	}
	collectBound(fn.Body, top)
	l.scopes = []map[string]bool{top}

	params := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		params[p] = true
		l.declared[p] = true
	}
	hoist := planDecls(fn.Body, params, l.plan)

	var body []jsast.Stmt
	for _, name := range hoist {
		body = append(body, &jsast.VarDecl{Kind: "let", Bind: jsast.Binding{Names: []string{name}}})
		l.declared[name] = true
	}
	body = append(body, l.stmts(fn.Body)...)
	u.body = body
}

// planDecls decides, for every variable the body assigns, whether it can
// be declared inline at its first assignment or must be hoisted. A write
// reached first inside a nested block would make an inline let invisible
// to the rest of the function, so those hoist; a name written exactly once
// by a plain top-level assignment becomes a const.
func planDecls(body []ast.Stmt, params map[string]bool, plan map[string]declPlan) []string {
	type state struct {
		first  declPlan
		writes int
	}
	seen := make(map[string]*state)
	var order []string

	var record func(name string, p declPlan)
	record = func(name string, p declPlan) {
		if params[name] {
			return
		}
		st := seen[name]
		if st == nil {
			st = &state{first: p}
			seen[name] = st
			order = append(order, name)
		}
		st.writes++
		if p == declHoist && st.writes == 1 {
			st.first = declHoist
		}
		if st.writes > 1 && st.first != declHoist {
			st.first = declInline
		}
	}

	var walk func(list []ast.Stmt, depth int)
	walk = func(list []ast.Stmt, depth int) {
		for _, s := range list {
			switch s := s.(type) {
			case *ast.AssignStmt:
				if n, ok := s.Target.(*ast.Name); ok {
					if depth == 0 {
						record(n.ID, declInlineConst)
					} else {
						record(n.ID, declHoist)
					}
				}
			case *ast.AugAssignStmt:
				if n, ok := s.Target.(*ast.Name); ok {
					record(n.ID, declHoist)
				}
			case *ast.ForStmt:
				walk(s.Body, depth+1)
			case *ast.IfStmt:
				walk(s.Then, depth+1)
				walk(s.Else, depth+1)
			case *ast.WhileStmt:
				walk(s.Body, depth+1)
			case *ast.MatchStmt:
				for _, c := range s.Cases {
					walk(c.Body, depth+1)
				}
			}
		}
	}
	walk(body, 0)

	// Loop targets that outlive their loop lose the per-iteration const
	// binding and hoist instead: ones written elsewhere in the function,
	// and ones read outside the loop's own body (the source language
	// leaks the final iteration value).
	total := make(map[string]int)
	countReads(body, total)

	hoistTarget := func(name string) {
		st := seen[name]
		if st == nil {
			st = &state{first: declHoist, writes: 1}
			seen[name] = st
			order = append(order, name)
		}
		st.first = declHoist
	}

	var loops func(list []ast.Stmt)
	loops = func(list []ast.Stmt) {
		for _, s := range list {
			switch s := s.(type) {
			case *ast.ForStmt:
				inner := make(map[string]int)
				countReads(s.Body, inner)
				for _, t := range s.Targets {
					if params[t] {
						// Reassign the parameter itself instead of
						// shadowing it with a loop-scoped const.
						plan[t] = declHoist
						continue
					}
					if seen[t] != nil || total[t] > inner[t] {
						hoistTarget(t)
					}
				}
				loops(s.Body)
			case *ast.IfStmt:
				loops(s.Then)
				loops(s.Else)
			case *ast.WhileStmt:
				loops(s.Body)
			case *ast.MatchStmt:
				for _, c := range s.Cases {
					loops(c.Body)
				}
			}
		}
	}
	loops(body)

	var hoist []string
	for _, name := range order {
		st := seen[name]
		plan[name] = st.first
		if st.first == declHoist {
			hoist = append(hoist, name)
		}
	}
	return hoist
}

// countReads tallies how many times each name is read under list. Plain
// assignment targets are writes, not reads; attribute and index targets
// still read their base expression.
func countReads(list []ast.Stmt, counts map[string]int) {
	writes := make(map[*ast.Name]bool)
	for _, s := range list {
		ast.Inspect(s, func(n ast.Node) bool {
			switch v := n.(type) {
			case *ast.AssignStmt:
				if t, ok := v.Target.(*ast.Name); ok {
					writes[t] = true
				}
			case *ast.Name:
				if !writes[v] {
					counts[v.ID]++
				}
			}
			return true
		})
	}
}

func (l *lowerer) isLocal(name string) bool {
	for _, s := range l.scopes {
		if s[name] {
			return true
		}
	}
	return false
}

func (l *lowerer) pushScope(names []string) {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	l.scopes = append(l.scopes, m)
}

func (l *lowerer) popScope() {
	l.scopes = l.scopes[:len(l.scopes)-1]
}

func (l *lowerer) stmts(list []ast.Stmt) []jsast.Stmt {
	var out []jsast.Stmt
	for _, s := range list {
		out = append(out, l.stmt(s)...)
	}
	return out
}

func (l *lowerer) block(list []ast.Stmt) []jsast.Stmt {
	l.depth++
	out := l.stmts(list)
	l.depth--
	return out
}

func (l *lowerer) stmt(s ast.Stmt) []jsast.Stmt {
	switch s := s.(type) {
	case *ast.AssignStmt:
		return []jsast.Stmt{l.assign(s)}
	case *ast.AugAssignStmt:
		return []jsast.Stmt{l.augAssign(s)}
	case *ast.ExprStmt:
		return []jsast.Stmt{&jsast.ExprStmt{X: l.expr(s.X)}}
	case *ast.ReturnStmt:
		var x jsast.Expr
		if s.Value != nil {
			x = l.expr(s.Value)
		}
		return []jsast.Stmt{&jsast.Return{X: x}}
	case *ast.IfStmt:
		out := &jsast.If{Test: l.expr(s.Cond), Then: l.block(s.Then)}
		if len(s.Else) > 0 {
			out.Else = l.block(s.Else)
		}
		return []jsast.Stmt{out}
	case *ast.WhileStmt:
		if b, ok := s.Cond.(*ast.BoolLit); ok && b.Value {
			return []jsast.Stmt{&jsast.Forever{Body: l.block(s.Body)}}
		}
		return []jsast.Stmt{&jsast.While{Test: l.expr(s.Cond), Body: l.block(s.Body)}}
	case *ast.ForStmt:
		return []jsast.Stmt{l.forStmt(s)}
	case *ast.MatchStmt:
		return []jsast.Stmt{l.matchStmt(s)}
	case *ast.BreakStmt:
		return []jsast.Stmt{&jsast.Break{}}
	case *ast.ContinueStmt:
		return []jsast.Stmt{&jsast.Continue{}}
	case *ast.PassStmt:
		return nil
	case *ast.RaiseStmt:
		return []jsast.Stmt{&jsast.Throw{X: l.expr(s.X)}}
	case *ast.FuncDefStmt:
		return []jsast.Stmt{l.nestedDef(s.Def)}
	}
	fail(diag.TrUnsupported, s.Span(), "unsupported statement")
	return nil
}

func (l *lowerer) assign(s *ast.AssignStmt) jsast.Stmt {
	value := l.expr(s.Value)
	if n, ok := s.Target.(*ast.Name); ok {
		if !l.declared[n.ID] && l.depth == 0 {
			l.declared[n.ID] = true
			kind := "let"
			if l.plan[n.ID] == declInlineConst {
				kind = "const"
			}
			return &jsast.VarDecl{Kind: kind, Bind: jsast.Binding{Names: []string{n.ID}}, Init: value}
		}
		return &jsast.Assign{Target: &jsast.Ident{Name: n.ID}, Op: "=", Value: value}
	}
	return &jsast.Assign{Target: l.assignTarget(s.Target), Op: "=", Value: value}
}

// augOps are the augmented assignment operators with a direct JavaScript
// equivalent. Floor division has none.
var augOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
	"&": true, "|": true, "^": true, "<<": true, ">>": true,
}

func (l *lowerer) augAssign(s *ast.AugAssignStmt) jsast.Stmt {
	if !augOps[s.Op] {
		fail(diag.TrAugAssignOp, s.Span(), "augmented assignment operator %s= is not supported", s.Op)
	}
	return &jsast.Assign{
		Target: l.assignTarget(s.Target),
		Op:     s.Op + "=",
		Value:  l.expr(s.Value),
	}
}

func (l *lowerer) assignTarget(t ast.Expr) jsast.Expr {
	switch t := t.(type) {
	case *ast.Name:
		return &jsast.Ident{Name: t.ID}
	case *ast.AttrExpr:
		return &jsast.Member{X: l.expr(t.X), Name: t.Name}
	case *ast.IndexExpr:
		return &jsast.Index{X: l.expr(t.X), Index: l.expr(t.Index)}
	}
	fail(diag.TrUnsupported, t.Span(), "unsupported assignment target")
	return nil
}

func (l *lowerer) forStmt(s *ast.ForStmt) jsast.Stmt {
	iter := l.expr(s.Iter)
	noDecl := false
	for _, t := range s.Targets {
		if l.plan[t] == declHoist {
			noDecl = true
		}
	}
	return &jsast.ForOf{
		Bind:   jsast.Binding{Names: s.Targets},
		Iter:   iter,
		Body:   l.block(s.Body),
		NoDecl: noDecl,
	}
}

func (l *lowerer) matchStmt(s *ast.MatchStmt) jsast.Stmt {
	out := &jsast.Switch{Subject: l.expr(s.Subject)}
	for _, c := range s.Cases {
		if c.Guard != nil {
			fail(diag.TrMatchGuard, c.Guard.Span(), "guard clauses are not supported")
		}
		sc := jsast.SwitchCase{}
		if !c.Wildcard {
			for _, p := range c.Patterns {
				sc.Values = append(sc.Values, l.expr(p))
			}
		}
		sc.Body = l.block(c.Body)
		if !terminal(sc.Body) {
			sc.Body = append(sc.Body, &jsast.Break{})
		}
		out.Cases = append(out.Cases, sc)
	}
	return out
}

// terminal reports whether a lowered body already leaves the switch.
func terminal(body []jsast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	switch body[len(body)-1].(type) {
	case *jsast.Return, *jsast.Throw, *jsast.Break, *jsast.Continue:
		return true
	}
	return false
}

func (l *lowerer) nestedDef(fn *ast.FuncDef) jsast.Stmt {
	arrow := l.functionLiteral(fn.Params, fn.Body, fn.Async)
	return &jsast.VarDecl{
		Kind: "const",
		Bind: jsast.Binding{Names: []string{fn.Name}},
		Init: arrow,
	}
}

// functionLiteral lowers a nested def or lambda body in its own scope.
func (l *lowerer) functionLiteral(params []string, body []ast.Stmt, async bool) *jsast.Arrow {
	scope := make(map[string]bool, len(params))
	for _, p := range params {
		scope[p] = true
	}
	collectBound(body, scope)
	l.scopes = append(l.scopes, scope)
	defer l.popScope()

	inner := &lowerer{
		u:        l.u,
		scopes:   l.scopes,
		plan:     make(map[string]declPlan),
		declared: make(map[string]bool),
	}
	pset := make(map[string]bool, len(params))
	for _, p := range params {
		pset[p] = true
		inner.declared[p] = true
	}
	hoist := planDecls(body, pset, inner.plan)

	var stmts []jsast.Stmt
	for _, name := range hoist {
		stmts = append(stmts, &jsast.VarDecl{Kind: "let", Bind: jsast.Binding{Names: []string{name}}})
		inner.declared[name] = true
	}
	stmts = append(stmts, inner.stmts(body)...)
	return &jsast.Arrow{Params: params, Body: stmts, Async: async}
}
