package parser

import (
	"tidal/internal/ast"
	"tidal/internal/diag"
	"tidal/internal/token"
)

// parseExpr parses a full expression including the ternary form
// `then if cond else else` and lambda.
func (p *Parser) parseExpr() ast.Expr {
	if p.at(token.KwLambda) {
		return p.parseLambda()
	}
	x := p.parseOr()
	if p.at(token.KwIf) {
		start := x.Span()
		p.next()
		cond := p.parseOr()
		p.expect(token.KwElse, diag.SynUnexpectedToken, "expected 'else' in conditional expression")
		els := p.parseExpr()
		return &ast.CondExpr{Base: ast.At(start.Cover(els.Span())), Cond: cond, Then: x, Else: els}
	}
	return x
}

func (p *Parser) parseLambda() ast.Expr {
	start := p.cur().Span
	p.next()
	var params []string
	for p.at(token.Ident) {
		params = append(params, p.cur().Text)
		p.next()
		if p.at(token.Comma) {
			p.next()
		}
	}
	p.expect(token.Colon, diag.SynExpectColon, "expected ':' after lambda parameters")
	body := p.parseExpr()
	return &ast.LambdaExpr{Base: ast.At(start.Cover(body.Span())), Params: params, Body: body}
}

func (p *Parser) parseOr() ast.Expr {
	x := p.parseAnd()
	for p.at(token.KwOr) {
		p.next()
		r := p.parseAnd()
		x = &ast.BinaryExpr{Base: ast.At(x.Span().Cover(r.Span())), Op: "or", L: x, R: r}
	}
	return x
}

func (p *Parser) parseAnd() ast.Expr {
	x := p.parseNot()
	for p.at(token.KwAnd) {
		p.next()
		r := p.parseNot()
		x = &ast.BinaryExpr{Base: ast.At(x.Span().Cover(r.Span())), Op: "and", L: x, R: r}
	}
	return x
}

func (p *Parser) parseNot() ast.Expr {
	if p.at(token.KwNot) {
		start := p.cur().Span
		p.next()
		x := p.parseNot()
		return &ast.UnaryExpr{Base: ast.At(start.Cover(x.Span())), Op: "not", X: x}
	}
	return p.parseComparison()
}

// parseComparison parses chained comparisons into a single CompareExpr so
// lowering can flatten them into pairwise conjunctions.
func (p *Parser) parseComparison() ast.Expr {
	x := p.parseBitOr()
	var ops []string
	var rest []ast.Expr
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		r := p.parseBitOr()
		ops = append(ops, op)
		rest = append(rest, r)
	}
	if len(ops) == 0 {
		return x
	}
	if len(ops) == 1 {
		return &ast.BinaryExpr{Base: ast.At(x.Span().Cover(rest[0].Span())), Op: ops[0], L: x, R: rest[0]}
	}
	sp := x.Span().Cover(rest[len(rest)-1].Span())
	return &ast.CompareExpr{Base: ast.At(sp), First: x, Ops: ops, Rest: rest}
}

// compareOp consumes one comparison operator, including the two-word forms
// `not in` and `is not`.
func (p *Parser) compareOp() (string, bool) {
	switch p.cur().Kind {
	case token.Lt:
		p.next()
		return "<", true
	case token.LtEq:
		p.next()
		return "<=", true
	case token.Gt:
		p.next()
		return ">", true
	case token.GtEq:
		p.next()
		return ">=", true
	case token.EqEq:
		p.next()
		return "==", true
	case token.BangEq:
		p.next()
		return "!=", true
	case token.KwIn:
		p.next()
		return "in", true
	case token.KwNot:
		if p.peek().Kind == token.KwIn {
			p.next()
			p.next()
			return "not in", true
		}
		return "", false
	case token.KwIs:
		p.next()
		if p.at(token.KwNot) {
			p.next()
			return "is not", true
		}
		return "is", true
	default:
		return "", false
	}
}

func (p *Parser) parseBitOr() ast.Expr {
	x := p.parseBitXor()
	for p.at(token.Pipe) {
		p.next()
		r := p.parseBitXor()
		x = &ast.BinaryExpr{Base: ast.At(x.Span().Cover(r.Span())), Op: "|", L: x, R: r}
	}
	return x
}

func (p *Parser) parseBitXor() ast.Expr {
	x := p.parseBitAnd()
	for p.at(token.Caret) {
		p.next()
		r := p.parseBitAnd()
		x = &ast.BinaryExpr{Base: ast.At(x.Span().Cover(r.Span())), Op: "^", L: x, R: r}
	}
	return x
}

func (p *Parser) parseBitAnd() ast.Expr {
	x := p.parseShift()
	for p.at(token.Amp) {
		p.next()
		r := p.parseShift()
		x = &ast.BinaryExpr{Base: ast.At(x.Span().Cover(r.Span())), Op: "&", L: x, R: r}
	}
	return x
}

func (p *Parser) parseShift() ast.Expr {
	x := p.parseArith()
	for p.at(token.Shl) || p.at(token.Shr) {
		op := p.cur().Kind.String()
		p.next()
		r := p.parseArith()
		x = &ast.BinaryExpr{Base: ast.At(x.Span().Cover(r.Span())), Op: op, L: x, R: r}
	}
	return x
}

func (p *Parser) parseArith() ast.Expr {
	x := p.parseTerm()
	for p.at(token.Plus) || p.at(token.Minus) {
		op := p.cur().Kind.String()
		p.next()
		r := p.parseTerm()
		x = &ast.BinaryExpr{Base: ast.At(x.Span().Cover(r.Span())), Op: op, L: x, R: r}
	}
	return x
}

func (p *Parser) parseTerm() ast.Expr {
	x := p.parseFactor()
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.SlashSlash) || p.at(token.Percent) {
		op := p.cur().Kind.String()
		p.next()
		r := p.parseFactor()
		x = &ast.BinaryExpr{Base: ast.At(x.Span().Cover(r.Span())), Op: op, L: x, R: r}
	}
	return x
}

func (p *Parser) parseFactor() ast.Expr {
	switch p.cur().Kind {
	case token.Minus, token.Plus, token.Tilde:
		start := p.cur().Span
		op := p.cur().Kind.String()
		p.next()
		x := p.parseFactor()
		return &ast.UnaryExpr{Base: ast.At(start.Cover(x.Span())), Op: op, X: x}
	}
	return p.parsePower()
}

// parsePower parses `base ** exp` with a right-associative exponent.
func (p *Parser) parsePower() ast.Expr {
	x := p.parsePostfix()
	if p.at(token.StarStar) {
		p.next()
		r := p.parseFactor()
		return &ast.BinaryExpr{Base: ast.At(x.Span().Cover(r.Span())), Op: "**", L: x, R: r}
	}
	return x
}

func (p *Parser) parsePostfix() ast.Expr {
	if p.at(token.KwAwait) {
		start := p.cur().Span
		p.next()
		x := p.parsePostfix()
		return &ast.AwaitExpr{Base: ast.At(start.Cover(x.Span())), X: x}
	}
	x := p.parseAtom()
	for {
		switch p.cur().Kind {
		case token.LParen:
			x = p.parseCallTrailer(x)
		case token.LBracket:
			x = p.parseSubscriptTrailer(x)
		case token.Dot:
			p.next()
			if !p.at(token.Ident) {
				p.errHere(diag.SynExpectIdentifier, "expected attribute name after '.'")
				return x
			}
			name := p.cur().Text
			sp := x.Span().Cover(p.cur().Span)
			p.next()
			x = &ast.AttrExpr{Base: ast.At(sp), X: x, Name: name}
		default:
			return x
		}
	}
}

func (p *Parser) parseCallTrailer(fn ast.Expr) ast.Expr {
	start := fn.Span()
	p.next() // (
	var args []ast.Expr
	var kws []ast.Keyword
	for !p.at(token.RParen) && !p.at(token.EOF) {
		switch {
		case p.at(token.Star):
			sp := p.cur().Span
			p.next()
			x := p.parseExpr()
			args = append(args, &ast.StarExpr{Base: ast.At(sp.Cover(x.Span())), X: x})
		case p.at(token.Ident) && p.peek().Kind == token.Assign:
			name := p.cur().Text
			p.next()
			p.next()
			kws = append(kws, ast.Keyword{Name: name, Value: p.parseExpr()})
		default:
			x := p.parseExprOrGenerator()
			args = append(args, x)
		}
		if p.at(token.Comma) {
			p.next()
		} else {
			break
		}
	}
	end := p.cur().Span
	p.expect(token.RParen, diag.SynUnclosedBracket, "expected ')'")
	return &ast.CallExpr{Base: ast.At(start.Cover(end)), Fn: fn, Args: args, Keywords: kws}
}

// parseExprOrGenerator handles a bare generator expression in call position:
// `any(p for x in xs)`.
func (p *Parser) parseExprOrGenerator() ast.Expr {
	x := p.parseExpr()
	if !p.at(token.KwFor) {
		return x
	}
	return p.parseCompTail(x, true)
}

// parseCompTail parses `for vars in iter [if cond]` after the element
// expression of a comprehension or generator.
func (p *Parser) parseCompTail(elt ast.Expr, generator bool) ast.Expr {
	start := elt.Span()
	p.next() // for
	vars := p.parseForTargets()
	p.expect(token.KwIn, diag.SynExpectIn, "expected 'in' in comprehension")
	iter := p.parseOr()
	var cond ast.Expr
	if p.at(token.KwIf) {
		p.next()
		cond = p.parseOr()
	}
	sp := start.Cover(iter.Span())
	if cond != nil {
		sp = sp.Cover(cond.Span())
	}
	return &ast.CompExpr{Base: ast.At(sp), Elt: elt, Vars: vars, Iter: iter, Cond: cond, Generator: generator}
}

func (p *Parser) parseSubscriptTrailer(x ast.Expr) ast.Expr {
	start := x.Span()
	p.next() // [
	var lo, hi, step ast.Expr
	isSlice := false

	if !p.at(token.Colon) {
		lo = p.parseExpr()
	}
	if p.at(token.Colon) {
		isSlice = true
		p.next()
		if !p.at(token.Colon) && !p.at(token.RBracket) {
			hi = p.parseExpr()
		}
		if p.at(token.Colon) {
			p.next()
			if !p.at(token.RBracket) {
				step = p.parseExpr()
			}
		}
	}
	end := p.cur().Span
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	sp := start.Cover(end)
	if isSlice {
		return &ast.SliceExpr{Base: ast.At(sp), X: x, Lo: lo, Hi: hi, Step: step}
	}
	if lo == nil {
		p.report(diag.SynExpectExpr, sp, "expected subscript expression")
		lo = &ast.NoneLit{Base: ast.At(sp)}
	}
	return &ast.IndexExpr{Base: ast.At(sp), X: x, Index: lo}
}

func (p *Parser) parseAtom() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.IntLit:
		p.next()
		return &ast.IntLit{Base: ast.At(tok.Span), Value: tok.Text}
	case token.FloatLit:
		p.next()
		return &ast.FloatLit{Base: ast.At(tok.Span), Value: tok.Text}
	case token.StringLit:
		p.next()
		return &ast.StringLit{Base: ast.At(tok.Span), Value: tok.Text}
	case token.FStringLit:
		p.next()
		return p.parseFString(tok)
	case token.KwTrue:
		p.next()
		return &ast.BoolLit{Base: ast.At(tok.Span), Value: true}
	case token.KwFalse:
		p.next()
		return &ast.BoolLit{Base: ast.At(tok.Span), Value: false}
	case token.KwNone:
		p.next()
		return &ast.NoneLit{Base: ast.At(tok.Span)}
	case token.Ident:
		p.next()
		return &ast.Name{Base: ast.At(tok.Span), ID: tok.Text}
	case token.Underscore:
		p.next()
		return &ast.Name{Base: ast.At(tok.Span), ID: "_"}
	case token.KwLambda:
		return p.parseLambda()
	case token.LParen:
		return p.parseParenAtom()
	case token.LBracket:
		return p.parseListAtom()
	case token.LBrace:
		return p.parseBraceAtom()
	default:
		p.errHere(diag.SynExpectExpr, "expected expression")
		p.next()
		return &ast.NoneLit{Base: ast.At(tok.Span)}
	}
}

// parseParenAtom parses a parenthesized expression, a tuple display, or a
// parenthesized generator expression.
func (p *Parser) parseParenAtom() ast.Expr {
	start := p.cur().Span
	p.next() // (
	if p.at(token.RParen) {
		end := p.cur().Span
		p.next()
		return &ast.TupleExpr{Base: ast.At(start.Cover(end))}
	}
	first := p.parseExpr()
	if p.at(token.KwFor) {
		x := p.parseCompTail(first, true)
		p.expect(token.RParen, diag.SynUnclosedBracket, "expected ')'")
		return x
	}
	if p.at(token.Comma) {
		elems := []ast.Expr{first}
		for p.at(token.Comma) {
			p.next()
			if p.at(token.RParen) {
				break
			}
			elems = append(elems, p.parseExpr())
		}
		end := p.cur().Span
		p.expect(token.RParen, diag.SynUnclosedBracket, "expected ')'")
		return &ast.TupleExpr{Base: ast.At(start.Cover(end)), Elems: elems}
	}
	p.expect(token.RParen, diag.SynUnclosedBracket, "expected ')'")
	return first
}

// parseListAtom parses a list display or a list comprehension.
func (p *Parser) parseListAtom() ast.Expr {
	start := p.cur().Span
	p.next() // [
	if p.at(token.RBracket) {
		end := p.cur().Span
		p.next()
		return &ast.ListExpr{Base: ast.At(start.Cover(end))}
	}
	var first ast.Expr
	if p.at(token.Star) {
		sp := p.cur().Span
		p.next()
		x := p.parseExpr()
		first = &ast.StarExpr{Base: ast.At(sp.Cover(x.Span())), X: x}
	} else {
		first = p.parseExpr()
	}
	if p.at(token.KwFor) {
		x := p.parseCompTail(first, false)
		p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
		return x
	}
	elems := []ast.Expr{first}
	for p.at(token.Comma) {
		p.next()
		if p.at(token.RBracket) {
			break
		}
		if p.at(token.Star) {
			sp := p.cur().Span
			p.next()
			x := p.parseExpr()
			elems = append(elems, &ast.StarExpr{Base: ast.At(sp.Cover(x.Span())), X: x})
			continue
		}
		elems = append(elems, p.parseExpr())
	}
	end := p.cur().Span
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	return &ast.ListExpr{Base: ast.At(start.Cover(end)), Elems: elems}
}

// parseBraceAtom parses a dict or set display.
func (p *Parser) parseBraceAtom() ast.Expr {
	start := p.cur().Span
	p.next() // {
	if p.at(token.RBrace) {
		end := p.cur().Span
		p.next()
		return &ast.DictExpr{Base: ast.At(start.Cover(end))}
	}
	first := p.parseExpr()
	if p.at(token.Colon) {
		p.next()
		keys := []ast.Expr{first}
		values := []ast.Expr{p.parseExpr()}
		for p.at(token.Comma) {
			p.next()
			if p.at(token.RBrace) {
				break
			}
			keys = append(keys, p.parseExpr())
			p.expect(token.Colon, diag.SynExpectColon, "expected ':' in dict display")
			values = append(values, p.parseExpr())
		}
		end := p.cur().Span
		p.expect(token.RBrace, diag.SynUnclosedBracket, "expected '}'")
		return &ast.DictExpr{Base: ast.At(start.Cover(end)), Keys: keys, Values: values}
	}
	elems := []ast.Expr{first}
	for p.at(token.Comma) {
		p.next()
		if p.at(token.RBrace) {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	end := p.cur().Span
	p.expect(token.RBrace, diag.SynUnclosedBracket, "expected '}'")
	return &ast.SetExpr{Base: ast.At(start.Cover(end)), Elems: elems}
}
