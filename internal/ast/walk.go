package ast

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// every node. If f returns false for a node its children are skipped.
// Nested FuncDefs are entered, matching how the free-variable scan must see
// every statically nested function literal.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch v := n.(type) {
	case *FuncDef:
		inspectStmts(v.Body, f)
	case *Module:
		for _, fd := range v.Funcs {
			Inspect(fd, f)
		}

	case *AssignStmt:
		Inspect(v.Target, f)
		Inspect(v.Value, f)
	case *AugAssignStmt:
		Inspect(v.Target, f)
		Inspect(v.Value, f)
	case *ExprStmt:
		Inspect(v.X, f)
	case *ReturnStmt:
		if v.Value != nil {
			Inspect(v.Value, f)
		}
	case *IfStmt:
		Inspect(v.Cond, f)
		inspectStmts(v.Then, f)
		inspectStmts(v.Else, f)
	case *WhileStmt:
		Inspect(v.Cond, f)
		inspectStmts(v.Body, f)
	case *ForStmt:
		Inspect(v.Iter, f)
		inspectStmts(v.Body, f)
	case *MatchStmt:
		Inspect(v.Subject, f)
		for i := range v.Cases {
			c := &v.Cases[i]
			for _, p := range c.Patterns {
				Inspect(p, f)
			}
			if c.Guard != nil {
				Inspect(c.Guard, f)
			}
			inspectStmts(c.Body, f)
		}
	case *RaiseStmt:
		Inspect(v.X, f)
	case *FuncDefStmt:
		Inspect(v.Def, f)
	case *BreakStmt, *ContinueStmt, *PassStmt:

	case *FString:
		for i := range v.Parts {
			if v.Parts[i].Expr != nil {
				Inspect(v.Parts[i].Expr, f)
			}
		}
	case *UnaryExpr:
		Inspect(v.X, f)
	case *BinaryExpr:
		Inspect(v.L, f)
		Inspect(v.R, f)
	case *CompareExpr:
		Inspect(v.First, f)
		for _, r := range v.Rest {
			Inspect(r, f)
		}
	case *CondExpr:
		Inspect(v.Cond, f)
		Inspect(v.Then, f)
		Inspect(v.Else, f)
	case *CallExpr:
		Inspect(v.Fn, f)
		for _, a := range v.Args {
			Inspect(a, f)
		}
		for _, kw := range v.Keywords {
			Inspect(kw.Value, f)
		}
	case *StarExpr:
		Inspect(v.X, f)
	case *AttrExpr:
		Inspect(v.X, f)
	case *IndexExpr:
		Inspect(v.X, f)
		Inspect(v.Index, f)
	case *SliceExpr:
		Inspect(v.X, f)
		for _, e := range []Expr{v.Lo, v.Hi, v.Step} {
			if e != nil {
				Inspect(e, f)
			}
		}
	case *ListExpr:
		for _, e := range v.Elems {
			Inspect(e, f)
		}
	case *TupleExpr:
		for _, e := range v.Elems {
			Inspect(e, f)
		}
	case *DictExpr:
		for i := range v.Keys {
			Inspect(v.Keys[i], f)
			Inspect(v.Values[i], f)
		}
	case *SetExpr:
		for _, e := range v.Elems {
			Inspect(e, f)
		}
	case *CompExpr:
		Inspect(v.Iter, f)
		if v.Cond != nil {
			Inspect(v.Cond, f)
		}
		Inspect(v.Elt, f)
	case *LambdaExpr:
		Inspect(v.Body, f)
	case *AwaitExpr:
		Inspect(v.X, f)
	}
}

func inspectStmts(stmts []Stmt, f func(Node) bool) {
	for _, s := range stmts {
		Inspect(s, f)
	}
}
