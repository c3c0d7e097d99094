package transpile

import (
	"tidal/internal/ast"
	"tidal/internal/diag"
	"tidal/internal/jsast"
)

// binOps maps source binary operators to their JavaScript spelling.
// Equality and identity both lower to strict comparison. Floor division
// and membership have structural lowerings handled apart.
var binOps = map[string]string{
	"+": "+", "-": "-", "*": "*", "/": "/", "%": "%", "**": "**",
	"&": "&", "|": "|", "^": "^", "<<": "<<", ">>": ">>",
	"<": "<", "<=": "<=", ">": ">", ">=": ">=",
	"==": "===", "!=": "!==", "is": "===", "is not": "!==",
	"and": "&&", "or": "||",
}

func (l *lowerer) expr(e ast.Expr) jsast.Expr {
	switch e := e.(type) {
	case *ast.IntLit:
		return &jsast.Num{Text: e.Value}
	case *ast.FloatLit:
		return &jsast.Num{Text: e.Value}
	case *ast.StringLit:
		return &jsast.Str{Value: e.Value}
	case *ast.BoolLit:
		return &jsast.Bool{Value: e.Value}
	case *ast.NoneLit:
		return &jsast.Null{}
	case *ast.Name:
		return l.nameRef(e)
	case *ast.UnaryExpr:
		return l.unary(e)
	case *ast.BinaryExpr:
		return l.binary(e)
	case *ast.CompareExpr:
		return l.compare(e)
	case *ast.CondExpr:
		return &jsast.Cond{Test: l.expr(e.Cond), Then: l.expr(e.Then), Else: l.expr(e.Else)}
	case *ast.CallExpr:
		return l.call(e)
	case *ast.StarExpr:
		return &jsast.Spread{X: l.expr(e.X)}
	case *ast.AttrExpr:
		return &jsast.Member{X: l.expr(e.X), Name: e.Name}
	case *ast.IndexExpr:
		return l.index(e)
	case *ast.SliceExpr:
		return l.slice(e)
	case *ast.ListExpr:
		return &jsast.Array{Elems: l.exprs(e.Elems)}
	case *ast.TupleExpr:
		return &jsast.Array{Elems: l.exprs(e.Elems)}
	case *ast.DictExpr:
		return l.dict(e)
	case *ast.SetExpr:
		return &jsast.New{Fn: &jsast.Ident{Name: "Set"}, Args: []jsast.Expr{&jsast.Array{Elems: l.exprs(e.Elems)}}}
	case *ast.CompExpr:
		return l.comprehension(e)
	case *ast.LambdaExpr:
		return l.lambda(e)
	case *ast.AwaitExpr:
		return &jsast.Await{X: l.expr(e.X)}
	case *ast.FString:
		return l.fstring(e)
	}
	fail(diag.TrUnsupported, e.Span(), "unsupported expression")
	return nil
}

func (l *lowerer) exprs(list []ast.Expr) []jsast.Expr {
	out := make([]jsast.Expr, len(list))
	for i, e := range list {
		out[i] = l.expr(e)
	}
	return out
}

func (l *lowerer) nameRef(n *ast.Name) jsast.Expr {
	if l.isLocal(n.ID) {
		return &jsast.Ident{Name: n.ID}
	}
	if d := l.u.Deps[n.ID]; d != nil {
		return &jsast.Ident{Name: d.localID()}
	}
	if loweredBuiltins[n.ID] {
		fail(diag.TrUnresolvedCall, n.Span(), "builtin %q can only be used in a call", n.ID)
	}
	// Call-site-resolved name: emitted verbatim.
	return &jsast.Ident{Name: n.ID}
}

func (l *lowerer) unary(e *ast.UnaryExpr) jsast.Expr {
	op := e.Op
	if op == "not" {
		op = "!"
	}
	return &jsast.Unary{Op: op, X: l.expr(e.X)}
}

func (l *lowerer) binary(e *ast.BinaryExpr) jsast.Expr {
	switch e.Op {
	case "//":
		return floorDiv(l.expr(e.L), l.expr(e.R))
	case "in":
		return membership(l.expr(e.L), l.expr(e.R))
	case "not in":
		return &jsast.Unary{Op: "!", X: membership(l.expr(e.L), l.expr(e.R))}
	}
	op, ok := binOps[e.Op]
	if !ok {
		fail(diag.TrUnsupported, e.Span(), "unsupported operator %q", e.Op)
	}
	return &jsast.Binary{Op: op, L: l.expr(e.L), R: l.expr(e.R)}
}

// floorDiv is `Math.floor(a / b)`.
func floorDiv(a, b jsast.Expr) jsast.Expr {
	return &jsast.Call{
		Fn:   &jsast.Member{X: &jsast.Ident{Name: "Math"}, Name: "floor"},
		Args: []jsast.Expr{&jsast.Binary{Op: "/", L: a, R: b}},
	}
}

// compare flattens a chained comparison into a conjunction of pairwise
// comparisons; `0 < x < 10` becomes `0 < x && x < 10`. Middle operands are
// re-emitted, not bound, so each pair reads like hand-written output.
func (l *lowerer) compare(e *ast.CompareExpr) jsast.Expr {
	left := l.expr(e.First)
	var out jsast.Expr
	for i, op := range e.Ops {
		right := l.expr(e.Rest[i])
		pair := l.comparePair(op, left, right, e)
		if out == nil {
			out = pair
		} else {
			out = &jsast.Binary{Op: "&&", L: out, R: pair}
		}
		left = l.expr(e.Rest[i])
	}
	return out
}

func (l *lowerer) comparePair(op string, left, right jsast.Expr, at *ast.CompareExpr) jsast.Expr {
	switch op {
	case "in":
		return membership(left, right)
	case "not in":
		return &jsast.Unary{Op: "!", X: membership(left, right)}
	}
	js, ok := binOps[op]
	if !ok {
		fail(diag.TrUnsupported, at.Span(), "unsupported comparison operator %q", op)
	}
	return &jsast.Binary{Op: js, L: left, R: right}
}

func (l *lowerer) index(e *ast.IndexExpr) jsast.Expr {
	x := l.expr(e.X)
	// A literal negative subscript counts from the end.
	if u, ok := e.Index.(*ast.UnaryExpr); ok && u.Op == "-" {
		if _, lit := u.X.(*ast.IntLit); lit {
			return &jsast.Call{
				Fn:   &jsast.Member{X: x, Name: "at"},
				Args: []jsast.Expr{l.expr(e.Index)},
			}
		}
	}
	return &jsast.Index{X: x, Index: l.expr(e.Index)}
}

func (l *lowerer) slice(e *ast.SliceExpr) jsast.Expr {
	x := l.expr(e.X)
	if e.Step != nil {
		if isNegOne(e.Step) && e.Lo == nil && e.Hi == nil {
			return reverseCopy(x)
		}
		fail(diag.TrSliceStep, e.Step.Span(), "slice step not supported")
	}
	sliceFn := &jsast.Member{X: x, Name: "slice"}
	switch {
	case e.Lo == nil && e.Hi == nil:
		return &jsast.Call{Fn: sliceFn}
	case e.Hi == nil:
		return &jsast.Call{Fn: sliceFn, Args: []jsast.Expr{l.expr(e.Lo)}}
	case e.Lo == nil:
		return &jsast.Call{Fn: sliceFn, Args: []jsast.Expr{&jsast.Num{Text: "0"}, l.expr(e.Hi)}}
	default:
		return &jsast.Call{Fn: sliceFn, Args: []jsast.Expr{l.expr(e.Lo), l.expr(e.Hi)}}
	}
}

func isNegOne(e ast.Expr) bool {
	u, ok := e.(*ast.UnaryExpr)
	if !ok || u.Op != "-" {
		return false
	}
	n, ok := u.X.(*ast.IntLit)
	return ok && n.Value == "1"
}

// reverseCopy is `x.slice().reverse()`.
func reverseCopy(x jsast.Expr) jsast.Expr {
	return &jsast.Call{
		Fn: &jsast.Member{
			X:    &jsast.Call{Fn: &jsast.Member{X: x, Name: "slice"}},
			Name: "reverse",
		},
	}
}

// dict lowers to a Map so entry count, membership, and removal keep the
// source semantics under runtime dispatch.
func (l *lowerer) dict(e *ast.DictExpr) jsast.Expr {
	pairs := make([]jsast.Expr, len(e.Keys))
	for i := range e.Keys {
		pairs[i] = &jsast.Array{Elems: []jsast.Expr{l.expr(e.Keys[i]), l.expr(e.Values[i])}}
	}
	var args []jsast.Expr
	if len(pairs) > 0 {
		args = []jsast.Expr{&jsast.Array{Elems: pairs}}
	}
	return &jsast.New{Fn: &jsast.Ident{Name: "Map"}, Args: args}
}

// comprehension lowers `[e for x in xs]` to `xs.map((x) => e)`, with a
// filter stage ahead of the map when a condition is present. Generator
// form lowers identically; consumers that need a different chain (any,
// all) build it themselves.
func (l *lowerer) comprehension(e *ast.CompExpr) jsast.Expr {
	iter := l.expr(e.Iter)
	param := compParam(e.Vars)

	l.pushScope(e.Vars)
	defer l.popScope()

	if e.Cond != nil {
		iter = &jsast.Call{
			Fn:   &jsast.Member{X: iter, Name: "filter"},
			Args: []jsast.Expr{&jsast.Arrow{Params: []string{param}, Expr: l.expr(e.Cond)}},
		}
	}
	return &jsast.Call{
		Fn:   &jsast.Member{X: iter, Name: "map"},
		Args: []jsast.Expr{&jsast.Arrow{Params: []string{param}, Expr: l.expr(e.Elt)}},
	}
}

func compParam(vars []string) string {
	if len(vars) == 1 {
		return vars[0]
	}
	out := "["
	for i, v := range vars {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out + "]"
}

func (l *lowerer) lambda(e *ast.LambdaExpr) jsast.Expr {
	l.pushScope(e.Params)
	defer l.popScope()
	return &jsast.Arrow{Params: e.Params, Expr: l.expr(e.Body)}
}
