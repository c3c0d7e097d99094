package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"tidal/internal/ast"
)

// FormatASTPretty writes an indented tree dump of a parsed module.
func FormatASTPretty(w io.Writer, mod *ast.Module) error {
	p := &astPrinter{w: w}
	fmt.Fprintf(w, "module %s\n", mod.Path)
	for _, fn := range mod.Funcs {
		p.funcDef(fn, 1)
	}
	return p.err
}

type astPrinter struct {
	w   io.Writer
	err error
}

func (p *astPrinter) line(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (p *astPrinter) funcDef(fn *ast.FuncDef, depth int) {
	kind := "def"
	if fn.Async {
		kind = "async def"
	}
	p.line(depth, "%s %s(%s)", kind, fn.Name, strings.Join(fn.Params, ", "))
	p.stmts(fn.Body, depth+1)
}

func (p *astPrinter) stmts(body []ast.Stmt, depth int) {
	for _, s := range body {
		p.stmt(s, depth)
	}
}

func (p *astPrinter) stmt(s ast.Stmt, depth int) {
	switch v := s.(type) {
	case *ast.AssignStmt:
		p.line(depth, "assign %s = %s", exprString(v.Target), exprString(v.Value))
	case *ast.AugAssignStmt:
		p.line(depth, "assign %s %s= %s", exprString(v.Target), v.Op, exprString(v.Value))
	case *ast.ExprStmt:
		p.line(depth, "expr %s", exprString(v.X))
	case *ast.ReturnStmt:
		if v.Value == nil {
			p.line(depth, "return")
		} else {
			p.line(depth, "return %s", exprString(v.Value))
		}
	case *ast.IfStmt:
		p.line(depth, "if %s", exprString(v.Cond))
		p.stmts(v.Then, depth+1)
		if len(v.Else) > 0 {
			p.line(depth, "else")
			p.stmts(v.Else, depth+1)
		}
	case *ast.WhileStmt:
		p.line(depth, "while %s", exprString(v.Cond))
		p.stmts(v.Body, depth+1)
	case *ast.ForStmt:
		p.line(depth, "for %s in %s", strings.Join(v.Targets, ", "), exprString(v.Iter))
		p.stmts(v.Body, depth+1)
	case *ast.MatchStmt:
		p.line(depth, "match %s", exprString(v.Subject))
		for _, c := range v.Cases {
			if c.Wildcard {
				p.line(depth+1, "case _")
			} else {
				pats := make([]string, len(c.Patterns))
				for i, pat := range c.Patterns {
					pats[i] = exprString(pat)
				}
				p.line(depth+1, "case %s", strings.Join(pats, " | "))
			}
			p.stmts(c.Body, depth+2)
		}
	case *ast.BreakStmt:
		p.line(depth, "break")
	case *ast.ContinueStmt:
		p.line(depth, "continue")
	case *ast.PassStmt:
		p.line(depth, "pass")
	case *ast.RaiseStmt:
		p.line(depth, "raise %s", exprString(v.X))
	case *ast.FuncDefStmt:
		p.funcDef(v.Def, depth)
	default:
		p.line(depth, "stmt %T", s)
	}
}

// exprString renders an expression in rough source shape, enough for dump
// output; it makes no parenthesization promises.
func exprString(x ast.Expr) string {
	switch v := x.(type) {
	case *ast.IntLit:
		return v.Value
	case *ast.FloatLit:
		return v.Value
	case *ast.StringLit:
		return fmt.Sprintf("%q", v.Value)
	case *ast.BoolLit:
		if v.Value {
			return "True"
		}
		return "False"
	case *ast.NoneLit:
		return "None"
	case *ast.FString:
		var b strings.Builder
		b.WriteString("f\"")
		for _, part := range v.Parts {
			if part.Expr == nil {
				b.WriteString(part.Text)
				continue
			}
			b.WriteByte('{')
			b.WriteString(exprString(part.Expr))
			if part.Spec != "" {
				b.WriteByte(':')
				b.WriteString(part.Spec)
			}
			b.WriteByte('}')
		}
		b.WriteString("\"")
		return b.String()
	case *ast.Name:
		return v.ID
	case *ast.UnaryExpr:
		if v.Op == "not" {
			return fmt.Sprintf("(not %s)", exprString(v.X))
		}
		return fmt.Sprintf("(%s%s)", v.Op, exprString(v.X))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", exprString(v.L), v.Op, exprString(v.R))
	case *ast.CompareExpr:
		var b strings.Builder
		b.WriteByte('(')
		b.WriteString(exprString(v.First))
		for i, op := range v.Ops {
			b.WriteString(" " + op + " " + exprString(v.Rest[i]))
		}
		b.WriteByte(')')
		return b.String()
	case *ast.CondExpr:
		return fmt.Sprintf("(%s if %s else %s)", exprString(v.Then), exprString(v.Cond), exprString(v.Else))
	case *ast.CallExpr:
		args := make([]string, 0, len(v.Args)+len(v.Keywords))
		for _, a := range v.Args {
			args = append(args, exprString(a))
		}
		for _, k := range v.Keywords {
			args = append(args, k.Name+"="+exprString(k.Value))
		}
		return fmt.Sprintf("%s(%s)", exprString(v.Fn), strings.Join(args, ", "))
	case *ast.StarExpr:
		return "*" + exprString(v.X)
	case *ast.AttrExpr:
		return exprString(v.X) + "." + v.Name
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", exprString(v.X), exprString(v.Index))
	case *ast.SliceExpr:
		part := func(e ast.Expr) string {
			if e == nil {
				return ""
			}
			return exprString(e)
		}
		s := fmt.Sprintf("%s[%s:%s", exprString(v.X), part(v.Lo), part(v.Hi))
		if v.Step != nil {
			s += ":" + part(v.Step)
		}
		return s + "]"
	case *ast.ListExpr:
		return "[" + exprList(v.Elems) + "]"
	case *ast.TupleExpr:
		return "(" + exprList(v.Elems) + ")"
	case *ast.DictExpr:
		pairs := make([]string, len(v.Keys))
		for i := range v.Keys {
			pairs[i] = exprString(v.Keys[i]) + ": " + exprString(v.Values[i])
		}
		return "{" + strings.Join(pairs, ", ") + "}"
	case *ast.SetExpr:
		return "{" + exprList(v.Elems) + "}"
	case *ast.CompExpr:
		s := fmt.Sprintf("%s for %s in %s", exprString(v.Elt), strings.Join(v.Vars, ", "), exprString(v.Iter))
		if v.Cond != nil {
			s += " if " + exprString(v.Cond)
		}
		if v.Generator {
			return s
		}
		return "[" + s + "]"
	case *ast.LambdaExpr:
		return fmt.Sprintf("(lambda %s: %s)", strings.Join(v.Params, ", "), exprString(v.Body))
	case *ast.AwaitExpr:
		return "(await " + exprString(v.X) + ")"
	}
	return fmt.Sprintf("<%T>", x)
}

func exprList(elems []ast.Expr) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}
