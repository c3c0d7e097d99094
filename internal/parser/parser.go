// Package parser builds the ast for the restricted source subset from the
// lexer's token stream. Anything outside the subset is a syntax error; the
// parser never guesses a meaning.
package parser

import (
	"fmt"

	"tidal/internal/ast"
	"tidal/internal/diag"
	"tidal/internal/lexer"
	"tidal/internal/source"
	"tidal/internal/token"
)

type Parser struct {
	toks     []token.Token
	pos      int
	reporter diag.Reporter
	fileID   source.FileID
}

// Parse tokenizes and parses one file into a Module holding its top-level
// function definitions.
func Parse(file *source.File, reporter diag.Reporter) *ast.Module {
	toks := lexer.Scan(file, reporter)
	p := &Parser{toks: toks, reporter: reporter, fileID: file.ID}
	return p.parseModule(file.Path)
}

func (p *Parser) parseModule(path string) *ast.Module {
	mod := &ast.Module{Path: path}
	for !p.at(token.EOF) {
		switch {
		case p.at(token.Newline):
			p.next()
		case p.at(token.KwDef), p.at(token.KwAsync):
			if fd := p.parseFuncDef(); fd != nil {
				mod.Funcs = append(mod.Funcs, fd)
			}
		default:
			p.errHere(diag.SynUnexpectedToken,
				fmt.Sprintf("expected a function definition, found %q", p.cur().Kind))
			p.recoverToLine()
		}
	}
	if len(mod.Funcs) > 0 {
		mod.Sp = mod.Funcs[0].Span()
		for _, fd := range mod.Funcs[1:] {
			mod.Sp = mod.Sp.Cover(fd.Span())
		}
	}
	return mod
}

// parseFuncDef parses `[async] def name(params): block`.
func (p *Parser) parseFuncDef() *ast.FuncDef {
	start := p.cur().Span
	async := false
	if p.at(token.KwAsync) {
		async = true
		p.next()
	}
	if !p.expect(token.KwDef, diag.SynUnexpectedToken, "expected 'def'") {
		p.recoverToLine()
		return nil
	}
	name := "<anonymous>"
	if p.at(token.Ident) {
		name = p.cur().Text
		p.next()
	} else {
		p.errHere(diag.SynExpectIdentifier, "expected function name after 'def'")
	}
	params := p.parseParamList()
	p.expect(token.Colon, diag.SynExpectColon, "expected ':' after function signature")
	body := p.parseBlock()
	sp := start
	if len(body) > 0 {
		sp = sp.Cover(body[len(body)-1].Span())
	}
	return ast.NewFuncDef(name, params, body, async, sp)
}

func (p *Parser) parseParamList() []string {
	var params []string
	if !p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name") {
		return params
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if p.at(token.Ident) {
			params = append(params, p.cur().Text)
			p.next()
		} else {
			p.errHere(diag.SynExpectIdentifier, "expected parameter name")
			p.next()
		}
		if p.at(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RParen, diag.SynUnclosedBracket, "expected ')'")
	return params
}

// parseBlock parses `NEWLINE INDENT stmt+ DEDENT`.
func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(token.Newline, diag.SynExpectNewline, "expected end of line before block")
	if !p.at(token.Indent) {
		p.errHere(diag.SynExpectIndent, "expected an indented block")
		return nil
	}
	p.next()
	var stmts []ast.Stmt
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		if p.at(token.Newline) {
			p.next()
			continue
		}
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}
	if p.at(token.Dedent) {
		p.next()
	}
	return stmts
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwMatch:
		return p.parseMatch()
	case token.KwDef, token.KwAsync:
		start := p.cur().Span
		fd := p.parseFuncDef()
		if fd == nil {
			return nil
		}
		return &ast.FuncDefStmt{Base: ast.At(start.Cover(fd.Span())), Def: fd}
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseSimpleStmt() ast.Stmt {
	start := p.cur().Span
	var s ast.Stmt
	switch p.cur().Kind {
	case token.KwPass:
		p.next()
		s = &ast.PassStmt{Base: ast.At(start)}
	case token.KwBreak:
		p.next()
		s = &ast.BreakStmt{Base: ast.At(start)}
	case token.KwContinue:
		p.next()
		s = &ast.ContinueStmt{Base: ast.At(start)}
	case token.KwReturn:
		p.next()
		var val ast.Expr
		if !p.at(token.Newline) && !p.at(token.EOF) {
			val = p.parseExpr()
		}
		s = &ast.ReturnStmt{Base: ast.At(start), Value: val}
	case token.KwRaise:
		p.next()
		x := p.parseExpr()
		s = &ast.RaiseStmt{Base: ast.At(start), X: x}
	default:
		s = p.parseExprOrAssign()
	}
	p.endOfLine()
	return s
}

// parseExprOrAssign parses `expr`, `target = value`, or `target <op>= value`.
func (p *Parser) parseExprOrAssign() ast.Stmt {
	start := p.cur().Span
	x := p.parseExpr()
	switch {
	case p.at(token.Assign):
		p.next()
		val := p.parseExpr()
		p.checkAssignTarget(x)
		return &ast.AssignStmt{Base: ast.At(start.Cover(val.Span())), Target: x, Value: val}
	case p.cur().IsAugAssign():
		op := augOpSpelling(p.cur().Kind)
		p.next()
		val := p.parseExpr()
		p.checkAssignTarget(x)
		return &ast.AugAssignStmt{Base: ast.At(start.Cover(val.Span())), Target: x, Op: op, Value: val}
	default:
		return &ast.ExprStmt{Base: ast.At(x.Span()), X: x}
	}
}

func augOpSpelling(k token.Kind) string {
	// StarStarAssign spells "**=", drop the "="
	s := k.String()
	return s[:len(s)-1]
}

func (p *Parser) checkAssignTarget(x ast.Expr) {
	switch x.(type) {
	case *ast.Name, *ast.AttrExpr, *ast.IndexExpr:
	default:
		p.report(diag.SynBadAssignTarget, x.Span(), "cannot assign to this expression")
	}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.cur().Span
	p.next() // if / elif
	cond := p.parseExpr()
	p.expect(token.Colon, diag.SynExpectColon, "expected ':' after condition")
	then := p.parseBlock()
	var els []ast.Stmt
	switch p.cur().Kind {
	case token.KwElif:
		els = []ast.Stmt{p.parseIf()}
	case token.KwElse:
		p.next()
		p.expect(token.Colon, diag.SynExpectColon, "expected ':' after 'else'")
		els = p.parseBlock()
	}
	return &ast.IfStmt{Base: ast.At(start), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.cur().Span
	p.next()
	cond := p.parseExpr()
	p.expect(token.Colon, diag.SynExpectColon, "expected ':' after 'while' condition")
	body := p.parseBlock()
	return &ast.WhileStmt{Base: ast.At(start), Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.cur().Span
	p.next()
	targets := p.parseForTargets()
	p.expect(token.KwIn, diag.SynExpectIn, "expected 'in' after loop targets")
	iter := p.parseExpr()
	p.expect(token.Colon, diag.SynExpectColon, "expected ':' after 'for' header")
	body := p.parseBlock()
	return &ast.ForStmt{Base: ast.At(start), Targets: targets, Iter: iter, Body: body}
}

// parseForTargets accepts `a`, `a, b`, and the parenthesized `(a, b)` form.
func (p *Parser) parseForTargets() []string {
	var targets []string
	paren := false
	if p.at(token.LParen) {
		paren = true
		p.next()
	}
	for {
		if p.at(token.Ident) {
			targets = append(targets, p.cur().Text)
			p.next()
		} else if p.at(token.Underscore) {
			targets = append(targets, "_")
			p.next()
		} else {
			p.errHere(diag.SynExpectIdentifier, "expected loop variable name")
			break
		}
		if p.at(token.Comma) {
			p.next()
			continue
		}
		break
	}
	if paren {
		p.expect(token.RParen, diag.SynUnclosedBracket, "expected ')'")
	}
	return targets
}

func (p *Parser) parseMatch() ast.Stmt {
	start := p.cur().Span
	p.next()
	subject := p.parseExpr()
	p.expect(token.Colon, diag.SynExpectColon, "expected ':' after 'match' subject")
	p.expect(token.Newline, diag.SynExpectNewline, "expected end of line before cases")
	if !p.expect(token.Indent, diag.SynExpectIndent, "expected indented case block") {
		return &ast.MatchStmt{Base: ast.At(start), Subject: subject}
	}
	var cases []ast.MatchCase
	for p.at(token.KwCase) {
		cases = append(cases, p.parseCase())
		for p.at(token.Newline) {
			p.next()
		}
	}
	if !p.at(token.Dedent) && !p.at(token.EOF) {
		p.errHere(diag.SynUnexpectedToken, "expected 'case' clause")
		p.recoverToLine()
	}
	if p.at(token.Dedent) {
		p.next()
	}
	return &ast.MatchStmt{Base: ast.At(start), Subject: subject, Cases: cases}
}

// parseCase parses `case pattern [| pattern]... [if guard]: block`. Only
// literal patterns and the `_` wildcard belong to the subset; a guard parses
// cleanly so lowering can reject it with a dedicated error.
func (p *Parser) parseCase() ast.MatchCase {
	start := p.cur().Span
	p.next() // case
	c := ast.MatchCase{Base: ast.At(start)}
	if p.at(token.Underscore) {
		c.Wildcard = true
		p.next()
	} else {
		for {
			if pat := p.parseCasePattern(); pat != nil {
				c.Patterns = append(c.Patterns, pat)
			}
			if p.at(token.Pipe) {
				p.next()
				continue
			}
			break
		}
	}
	if p.at(token.KwIf) {
		p.next()
		c.Guard = p.parseExpr()
	}
	p.expect(token.Colon, diag.SynExpectColon, "expected ':' after case pattern")
	c.Body = p.parseBlock()
	return c
}

func (p *Parser) parseCasePattern() ast.Expr {
	start := p.cur().Span
	neg := false
	if p.at(token.Minus) {
		neg = true
		p.next()
	}
	tok := p.cur()
	var lit ast.Expr
	switch tok.Kind {
	case token.IntLit:
		lit = &ast.IntLit{Base: ast.At(tok.Span), Value: tok.Text}
	case token.FloatLit:
		lit = &ast.FloatLit{Base: ast.At(tok.Span), Value: tok.Text}
	case token.StringLit:
		lit = &ast.StringLit{Base: ast.At(tok.Span), Value: tok.Text}
	case token.KwTrue:
		lit = &ast.BoolLit{Base: ast.At(tok.Span), Value: true}
	case token.KwFalse:
		lit = &ast.BoolLit{Base: ast.At(tok.Span), Value: false}
	case token.KwNone:
		lit = &ast.NoneLit{Base: ast.At(tok.Span)}
	default:
		p.errHere(diag.SynBadPattern,
			"only literal patterns and '_' are supported in case clauses")
		p.next()
		return nil
	}
	p.next()
	if neg {
		return &ast.UnaryExpr{Base: ast.At(start.Cover(lit.Span())), Op: "-", X: lit}
	}
	return lit
}

// endOfLine consumes the statement-terminating newline.
func (p *Parser) endOfLine() {
	switch p.cur().Kind {
	case token.Newline:
		p.next()
	case token.EOF, token.Dedent:
	default:
		p.errHere(diag.SynExpectNewline,
			fmt.Sprintf("expected end of statement, found %q", p.cur().Kind))
		p.recoverToLine()
	}
}

// recoverToLine skips to the start of the next logical line.
func (p *Parser) recoverToLine() {
	for !p.at(token.EOF) && !p.at(token.Newline) {
		p.next()
	}
	if p.at(token.Newline) {
		p.next()
	}
}

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) next() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) bool {
	if p.at(k) {
		p.next()
		return true
	}
	p.errHere(code, msg)
	return false
}

func (p *Parser) errHere(code diag.Code, msg string) {
	p.report(code, p.cur().Span, msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	if p.reporter != nil {
		p.reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
