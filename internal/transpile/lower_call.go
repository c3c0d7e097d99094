package transpile

import (
	"tidal/internal/ast"
	"tidal/internal/diag"
	"tidal/internal/jsast"
)

func id(name string) *jsast.Ident { return &jsast.Ident{Name: name} }

func member(x jsast.Expr, name string) *jsast.Member {
	return &jsast.Member{X: x, Name: name}
}

func call(fn jsast.Expr, args ...jsast.Expr) *jsast.Call {
	return &jsast.Call{Fn: fn, Args: args}
}

func method(x jsast.Expr, name string, args ...jsast.Expr) *jsast.Call {
	return call(member(x, name), args...)
}

func num(text string) *jsast.Num { return &jsast.Num{Text: text} }

func str(s string) *jsast.Str { return &jsast.Str{Value: s} }

func arrow(params []string, expr jsast.Expr) *jsast.Arrow {
	return &jsast.Arrow{Params: params, Expr: expr}
}

func (l *lowerer) call(e *ast.CallExpr) jsast.Expr {
	if n, ok := e.Fn.(*ast.Name); ok {
		if !l.isLocal(n.ID) && l.u.Deps[n.ID] == nil && loweredBuiltins[n.ID] {
			return l.builtinCall(n, e)
		}
	}
	if attr, ok := e.Fn.(*ast.AttrExpr); ok {
		return l.methodCall(attr, e)
	}
	l.noKeywords(e)
	return &jsast.Call{Fn: l.expr(e.Fn), Args: l.exprs(e.Args)}
}

func (l *lowerer) noKeywords(e *ast.CallExpr) {
	if len(e.Keywords) > 0 {
		fail(diag.TrUnsupported, e.Span(), "keyword argument %q is not supported here", e.Keywords[0].Name)
	}
}

// keyword pulls one recognized keyword argument off the call, failing on
// any other keyword name.
func (l *lowerer) keyword(e *ast.CallExpr, name string) ast.Expr {
	var found ast.Expr
	for _, k := range e.Keywords {
		if k.Name != name {
			fail(diag.TrUnsupported, e.Span(), "keyword argument %q is not supported here", k.Name)
		}
		found = k.Value
	}
	return found
}

func (l *lowerer) arity(e *ast.CallExpr, name string, min, max int) {
	if len(e.Args) < min || len(e.Args) > max {
		fail(diag.TrUnsupported, e.Span(), "%s() does not accept %d arguments", name, len(e.Args))
	}
}

func (l *lowerer) builtinCall(n *ast.Name, e *ast.CallExpr) jsast.Expr {
	name := n.ID
	if path, ok := builtinRenames[name]; ok {
		l.noKeywords(e)
		var fn jsast.Expr = id(path[0])
		for _, p := range path[1:] {
			fn = member(fn, p)
		}
		return &jsast.Call{Fn: fn, Args: l.exprs(e.Args)}
	}

	switch name {
	case "len":
		l.noKeywords(e)
		l.arity(e, "len", 1, 1)
		return lenDispatch(l.expr(e.Args[0]))

	case "map", "filter":
		l.noKeywords(e)
		l.arity(e, name, 2, 2)
		return method(l.expr(e.Args[1]), name, l.expr(e.Args[0]))

	case "reduce":
		l.noKeywords(e)
		l.arity(e, "reduce", 2, 3)
		args := []jsast.Expr{l.expr(e.Args[0])}
		if len(e.Args) == 3 {
			args = append(args, l.expr(e.Args[2]))
		}
		return call(member(l.expr(e.Args[1]), "reduce"), args...)

	case "sum":
		l.noKeywords(e)
		l.arity(e, "sum", 1, 1)
		return method(l.expr(e.Args[0]), "reduce",
			arrow([]string{"a", "b"}, &jsast.Binary{Op: "+", L: id("a"), R: id("b")}),
			num("0"))

	case "any":
		return l.anyAll(e, "some")
	case "all":
		return l.anyAll(e, "every")

	case "zip":
		return l.zip(e)
	case "enumerate":
		return l.enumerate(e)
	case "range":
		return l.rangeCall(e)

	case "reversed":
		l.noKeywords(e)
		l.arity(e, "reversed", 1, 1)
		return reverseCopy(l.expr(e.Args[0]))

	case "sorted":
		return l.sorted(e)
	}

	fail(diag.TrUnresolvedCall, n.Span(), "call to unresolved name %q", name)
	return nil
}

// anyAll lowers any()/all(). A predicate-over-generator argument fuses
// into .some/.every directly; a plain iterable tests element truthiness.
func (l *lowerer) anyAll(e *ast.CallExpr, op string) jsast.Expr {
	l.noKeywords(e)
	l.arity(e, e.Fn.(*ast.Name).ID, 1, 1)
	if c, ok := e.Args[0].(*ast.CompExpr); ok {
		iter := l.expr(c.Iter)
		param := compParam(c.Vars)
		l.pushScope(c.Vars)
		defer l.popScope()
		if c.Cond != nil {
			iter = method(iter, "filter", arrow([]string{param}, l.expr(c.Cond)))
		}
		return method(iter, op, arrow([]string{param}, l.expr(c.Elt)))
	}
	return method(l.expr(e.Args[0]), op, id("Boolean"))
}

func (l *lowerer) zip(e *ast.CallExpr) jsast.Expr {
	strict := false
	if kw := l.keyword(e, "strict"); kw != nil {
		b, ok := kw.(*ast.BoolLit)
		if !ok {
			fail(diag.TrUnsupported, kw.Span(), "strict= must be a literal True or False")
		}
		strict = b.Value
	}
	l.arity(e, "zip", 2, 2)
	a, b := l.expr(e.Args[0]), l.expr(e.Args[1])
	if strict {
		return zipStrict(a, b)
	}
	// a.slice(0, Math.min(a.length, b.length)).map((x, i) => [x, b[i]])
	limit := call(member(id("Math"), "min"), member(a, "length"), member(b, "length"))
	head := method(a, "slice", num("0"), limit)
	pair := &jsast.Array{Elems: []jsast.Expr{id("x"), &jsast.Index{X: b, Index: id("i")}}}
	return method(head, "map", arrow([]string{"x", "i"}, pair))
}

// zipStrict wraps the pairing in an immediately-invoked arrow so the
// length check runs once against the evaluated operands.
func zipStrict(a, b jsast.Expr) jsast.Expr {
	check := &jsast.If{
		Test: &jsast.Binary{Op: "!==", L: member(id("p"), "length"), R: member(id("q"), "length")},
		Then: []jsast.Stmt{&jsast.Throw{
			X: &jsast.New{Fn: id("Error"), Args: []jsast.Expr{str("zip() lengths differ")}},
		}},
	}
	pair := &jsast.Array{Elems: []jsast.Expr{id("x"), &jsast.Index{X: id("q"), Index: id("i")}}}
	ret := &jsast.Return{X: method(id("p"), "map", arrow([]string{"x", "i"}, pair))}
	fn := &jsast.Arrow{Params: []string{"p", "q"}, Body: []jsast.Stmt{check, ret}}
	return call(fn, a, b)
}

func (l *lowerer) enumerate(e *ast.CallExpr) jsast.Expr {
	start := l.keyword(e, "start")
	l.arity(e, "enumerate", 1, 2)
	if len(e.Args) == 2 {
		if start != nil {
			fail(diag.TrUnsupported, e.Span(), "enumerate() start given twice")
		}
		start = e.Args[1]
	}
	var index jsast.Expr = id("i")
	if start != nil {
		index = &jsast.Binary{Op: "+", L: id("i"), R: l.expr(start)}
	}
	pair := &jsast.Array{Elems: []jsast.Expr{index, id("x")}}
	return method(l.expr(e.Args[0]), "map", arrow([]string{"x", "i"}, pair))
}

func (l *lowerer) rangeCall(e *ast.CallExpr) jsast.Expr {
	l.noKeywords(e)
	l.arity(e, "range", 1, 3)
	from := func(length, elt jsast.Expr) jsast.Expr {
		shape := &jsast.Object{Props: []jsast.Prop{{Key: str("length"), Value: length}}}
		return call(member(id("Array"), "from"), shape, arrow([]string{"_", "i"}, elt))
	}
	switch len(e.Args) {
	case 1:
		return from(l.expr(e.Args[0]), id("i"))
	case 2:
		a, b := l.expr(e.Args[0]), l.expr(e.Args[1])
		return from(&jsast.Binary{Op: "-", L: b, R: a},
			&jsast.Binary{Op: "+", L: l.expr(e.Args[0]), R: id("i")})
	default:
		a, b, s := l.expr(e.Args[0]), l.expr(e.Args[1]), l.expr(e.Args[2])
		span := &jsast.Binary{Op: "-", L: b, R: a}
		steps := call(member(id("Math"), "ceil"), &jsast.Binary{Op: "/", L: span, R: s})
		length := call(member(id("Math"), "max"), num("0"), steps)
		elt := &jsast.Binary{
			Op: "+",
			L:  l.expr(e.Args[0]),
			R:  &jsast.Binary{Op: "*", L: id("i"), R: l.expr(e.Args[2])},
		}
		return from(length, elt)
	}
}

func (l *lowerer) sorted(e *ast.CallExpr) jsast.Expr {
	key := l.keyword(e, "key")
	l.arity(e, "sorted", 1, 1)
	base := method(l.expr(e.Args[0]), "slice")
	if key == nil {
		// (a, b) => (a > b) - (a < b)
		cmp := &jsast.Binary{
			Op: "-",
			L:  &jsast.Binary{Op: ">", L: id("a"), R: id("b")},
			R:  &jsast.Binary{Op: "<", L: id("a"), R: id("b")},
		}
		return method(base, "sort", arrow([]string{"a", "b"}, cmp))
	}
	f := l.expr(key)
	body := []jsast.Stmt{
		&jsast.VarDecl{Kind: "const", Bind: jsast.Binding{Names: []string{"ka"}}, Init: call(f, id("a"))},
		&jsast.VarDecl{Kind: "const", Bind: jsast.Binding{Names: []string{"kb"}}, Init: call(f, id("b"))},
		&jsast.Return{X: &jsast.Binary{
			Op: "-",
			L:  &jsast.Binary{Op: ">", L: id("ka"), R: id("kb")},
			R:  &jsast.Binary{Op: "<", L: id("ka"), R: id("kb")},
		}},
	}
	return method(base, "sort", &jsast.Arrow{Params: []string{"a", "b"}, Body: body})
}

func (l *lowerer) methodCall(attr *ast.AttrExpr, e *ast.CallExpr) jsast.Expr {
	l.noKeywords(e)
	recv := l.expr(attr.X)
	args := l.exprs(e.Args)

	switch attr.Name {
	case "copy":
		if len(args) == 0 {
			return copyDispatch(recv)
		}
	case "pop":
		if len(args) == 1 {
			return popDispatch(recv, args[0])
		}
		if len(args) == 2 {
			return popDefaultDispatch(recv, args[0], args[1])
		}
	case "join":
		// Separator receiver swaps with the joined sequence.
		if len(args) == 1 {
			return method(args[0], "join", recv)
		}
	}
	name := attr.Name
	if js, ok := methodRenames[name]; ok {
		name = js
	}
	return call(member(recv, name), args...)
}

// Runtime dispatch. Each template inspects the receiver's shape in a
// fixed order (array, then string/Map/Set, then forward the original
// operation) so existing generated output stays byte-compatible.

func isArray(v jsast.Expr) jsast.Expr {
	return call(member(id("Array"), "isArray"), v)
}

func isString(v jsast.Expr) jsast.Expr {
	return &jsast.Binary{Op: "===", L: &jsast.Unary{Op: "typeof", X: v}, R: str("string")}
}

func instanceOf(v jsast.Expr, class string) jsast.Expr {
	return &jsast.Binary{Op: "instanceof", L: v, R: id(class)}
}

func mapOrSet(v jsast.Expr) jsast.Expr {
	return &jsast.Binary{Op: "||", L: instanceOf(v, "Map"), R: instanceOf(v, "Set")}
}

// lenDispatch: Array.isArray(v) || typeof v === "string" ? v.length :
// v instanceof Map || v instanceof Set ? v.size : v.length
func lenDispatch(v jsast.Expr) jsast.Expr {
	return &jsast.Cond{
		Test: &jsast.Binary{Op: "||", L: isArray(v), R: isString(v)},
		Then: member(v, "length"),
		Else: &jsast.Cond{
			Test: mapOrSet(v),
			Then: member(v, "size"),
			Else: member(v, "length"),
		},
	}
}

// membership: Array.isArray(v) || typeof v === "string" ? v.includes(x) :
// v instanceof Map || v instanceof Set ? v.has(x) : x in v
func membership(x, v jsast.Expr) jsast.Expr {
	return &jsast.Cond{
		Test: &jsast.Binary{Op: "||", L: isArray(v), R: isString(v)},
		Then: method(v, "includes", x),
		Else: &jsast.Cond{
			Test: mapOrSet(v),
			Then: method(v, "has", x),
			Else: &jsast.Binary{Op: "in", L: x, R: v},
		},
	}
}

// copyDispatch: Array.isArray(v) ? v.slice() : v instanceof Map ?
// new Map(v) : v instanceof Set ? new Set(v) : v.copy()
func copyDispatch(v jsast.Expr) jsast.Expr {
	return &jsast.Cond{
		Test: isArray(v),
		Then: method(v, "slice"),
		Else: &jsast.Cond{
			Test: instanceOf(v, "Map"),
			Then: &jsast.New{Fn: id("Map"), Args: []jsast.Expr{v}},
			Else: &jsast.Cond{
				Test: instanceOf(v, "Set"),
				Then: &jsast.New{Fn: id("Set"), Args: []jsast.Expr{v}},
				Else: method(v, "copy"),
			},
		},
	}
}

// popDispatch: v instanceof Map ? ((m) => { const r = m.get(k);
// m.delete(k); return r; })(v) : Array.isArray(v) ? v.splice(k, 1)[0] :
// v.pop(k)
func popDispatch(v, k jsast.Expr) jsast.Expr {
	body := []jsast.Stmt{
		&jsast.VarDecl{Kind: "const", Bind: jsast.Binding{Names: []string{"r"}}, Init: method(id("m"), "get", k)},
		&jsast.ExprStmt{X: method(id("m"), "delete", k)},
		&jsast.Return{X: id("r")},
	}
	take := call(&jsast.Arrow{Params: []string{"m"}, Body: body}, v)
	return &jsast.Cond{
		Test: instanceOf(v, "Map"),
		Then: take,
		Else: &jsast.Cond{
			Test: isArray(v),
			Then: &jsast.Index{X: method(v, "splice", k, num("1")), Index: num("0")},
			Else: method(v, "pop", k),
		},
	}
}

// popDefaultDispatch: the Map branch becomes
// ((m) => m.has(k) ? ((r) => { m.delete(k); return r; })(m.get(k)) : d)(v)
func popDefaultDispatch(v, k, d jsast.Expr) jsast.Expr {
	inner := call(&jsast.Arrow{
		Params: []string{"r"},
		Body: []jsast.Stmt{
			&jsast.ExprStmt{X: method(id("m"), "delete", k)},
			&jsast.Return{X: id("r")},
		},
	}, method(id("m"), "get", k))
	take := call(arrow([]string{"m"}, &jsast.Cond{
		Test: method(id("m"), "has", k),
		Then: inner,
		Else: d,
	}), v)
	return &jsast.Cond{
		Test: instanceOf(v, "Map"),
		Then: take,
		Else: &jsast.Cond{
			Test: isArray(v),
			Then: &jsast.Index{X: method(v, "splice", k, num("1")), Index: num("0")},
			Else: method(v, "pop", k, d),
		},
	}
}
