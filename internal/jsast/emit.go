package jsast

import (
	"fmt"
	"strings"
)

// RenderFunction renders a complete function expression of the form
// `function(<params>) { <body> }`, async-qualified when async is set.
// Output is deterministic: identical trees render to identical text.
func RenderFunction(params []string, body []Stmt, async bool) string {
	e := &emitter{}
	if async {
		e.b.WriteString("async ")
	}
	e.b.WriteString("function(")
	e.b.WriteString(strings.Join(params, ", "))
	e.b.WriteString(") {")
	if len(body) == 0 {
		e.b.WriteString("}")
		return e.b.String()
	}
	e.b.WriteString("\n")
	e.depth++
	e.stmts(body)
	e.depth--
	e.b.WriteString("}")
	return e.b.String()
}

// RenderExpr renders a single expression at statement level.
func RenderExpr(x Expr) string {
	e := &emitter{}
	e.expr(x, PrecLowest)
	return e.b.String()
}

// RenderStmts renders a statement list without a wrapping function.
func RenderStmts(stmts []Stmt) string {
	e := &emitter{}
	e.stmts(stmts)
	return e.b.String()
}

type emitter struct {
	b     strings.Builder
	depth int
}

const indentUnit = "    "

func (e *emitter) line() {
	for i := 0; i < e.depth; i++ {
		e.b.WriteString(indentUnit)
	}
}

func (e *emitter) stmts(list []Stmt) {
	for _, s := range list {
		e.stmt(s)
	}
}

func (e *emitter) stmt(s Stmt) {
	switch v := s.(type) {
	case *VarDecl:
		e.line()
		e.b.WriteString(v.Kind)
		e.b.WriteString(" ")
		e.binding(v.Bind)
		if v.Init != nil {
			e.b.WriteString(" = ")
			e.expr(v.Init, PrecAssign)
		}
		e.b.WriteString(";\n")
	case *ExprStmt:
		e.line()
		// an expression statement starting with ( or function would parse
		// as something else; none of our lowerings produce those shapes
		e.expr(v.X, PrecLowest)
		e.b.WriteString(";\n")
	case *Assign:
		e.line()
		e.expr(v.Target, PrecCall)
		e.b.WriteString(" ")
		e.b.WriteString(v.Op)
		e.b.WriteString(" ")
		e.expr(v.Value, PrecAssign)
		e.b.WriteString(";\n")
	case *Return:
		e.line()
		if v.X == nil {
			e.b.WriteString("return;\n")
		} else {
			e.b.WriteString("return ")
			e.expr(v.X, PrecLowest)
			e.b.WriteString(";\n")
		}
	case *If:
		e.line()
		e.ifChain(v)
	case *While:
		e.line()
		e.b.WriteString("while (")
		e.expr(v.Test, PrecLowest)
		e.b.WriteString(") ")
		e.block(v.Body)
		e.b.WriteString("\n")
	case *Forever:
		e.line()
		e.b.WriteString("for (;;) ")
		e.block(v.Body)
		e.b.WriteString("\n")
	case *ForOf:
		e.line()
		e.b.WriteString("for (")
		if !v.NoDecl {
			e.b.WriteString("const ")
		}
		e.binding(v.Bind)
		e.b.WriteString(" of ")
		e.expr(v.Iter, PrecLowest)
		e.b.WriteString(") ")
		e.block(v.Body)
		e.b.WriteString("\n")
	case *Switch:
		e.switchStmt(v)
	case *Break:
		e.line()
		e.b.WriteString("break;\n")
	case *Continue:
		e.line()
		e.b.WriteString("continue;\n")
	case *Throw:
		e.line()
		e.b.WriteString("throw ")
		e.expr(v.X, PrecLowest)
		e.b.WriteString(";\n")
	default:
		panic(fmt.Sprintf("jsast: unhandled statement %T", s))
	}
}

// ifChain renders else-if ladders flat instead of nesting blocks.
func (e *emitter) ifChain(v *If) {
	e.b.WriteString("if (")
	e.expr(v.Test, PrecLowest)
	e.b.WriteString(") ")
	e.block(v.Then)
	for len(v.Else) > 0 {
		if next, ok := soleIf(v.Else); ok {
			e.b.WriteString(" else if (")
			e.expr(next.Test, PrecLowest)
			e.b.WriteString(") ")
			e.block(next.Then)
			v = next
			continue
		}
		e.b.WriteString(" else ")
		e.block(v.Else)
		break
	}
	e.b.WriteString("\n")
}

func soleIf(stmts []Stmt) (*If, bool) {
	if len(stmts) == 1 {
		if n, ok := stmts[0].(*If); ok {
			return n, true
		}
	}
	return nil, false
}

func (e *emitter) block(body []Stmt) {
	if len(body) == 0 {
		e.b.WriteString("{}")
		return
	}
	e.b.WriteString("{\n")
	e.depth++
	e.stmts(body)
	e.depth--
	e.line()
	e.b.WriteString("}")
}

func (e *emitter) switchStmt(v *Switch) {
	e.line()
	e.b.WriteString("switch (")
	e.expr(v.Subject, PrecLowest)
	e.b.WriteString(") {\n")
	e.depth++
	for _, c := range v.Cases {
		if len(c.Values) == 0 {
			e.line()
			e.b.WriteString("default: ")
		} else {
			for i, val := range c.Values {
				e.line()
				e.b.WriteString("case ")
				e.expr(val, PrecLowest)
				if i < len(c.Values)-1 {
					e.b.WriteString(":\n")
				} else {
					e.b.WriteString(": ")
				}
			}
		}
		e.block(c.Body)
		e.b.WriteString("\n")
	}
	e.depth--
	e.line()
	e.b.WriteString("}\n")
}

func (e *emitter) binding(b Binding) {
	if len(b.Names) == 1 {
		e.b.WriteString(b.Names[0])
		return
	}
	e.b.WriteString("[")
	e.b.WriteString(strings.Join(b.Names, ", "))
	e.b.WriteString("]")
}

// expr renders x in a slot requiring at least the given precedence. The
// minimal-parenthesization contract: a child is wrapped if and only if its
// precedence is strictly lower than the slot's requirement, or equal with
// conflicting associativity (which callers encode by passing prec+1).
func (e *emitter) expr(x Expr, level Prec) {
	if x.Prec() < level {
		e.b.WriteString("(")
		e.exprRaw(x)
		e.b.WriteString(")")
		return
	}
	e.exprRaw(x)
}

func (e *emitter) exprRaw(x Expr) {
	switch v := x.(type) {
	case *Num:
		e.b.WriteString(v.Text)
	case *Str:
		e.b.WriteString(quoteJS(v.Value))
	case *Bool:
		if v.Value {
			e.b.WriteString("true")
		} else {
			e.b.WriteString("false")
		}
	case *Null:
		e.b.WriteString("null")
	case *Undefined:
		e.b.WriteString("undefined")
	case *Ident:
		e.b.WriteString(v.Name)
	case *Template:
		e.template(v)
	case *Unary:
		e.unary(v)
	case *Binary:
		e.binary(v)
	case *Cond:
		e.expr(v.Test, PrecConditional+1)
		e.b.WriteString(" ? ")
		e.expr(v.Then, PrecAssign)
		e.b.WriteString(" : ")
		e.expr(v.Else, PrecAssign)
	case *Call:
		e.receiver(v.Fn)
		e.args(v.Args)
	case *New:
		e.b.WriteString("new ")
		e.expr(v.Fn, PrecMember)
		e.args(v.Args)
	case *Member:
		e.receiver(v.X)
		e.b.WriteString(".")
		e.b.WriteString(v.Name)
	case *Index:
		e.receiver(v.X)
		e.b.WriteString("[")
		e.expr(v.Index, PrecLowest)
		e.b.WriteString("]")
	case *Array:
		e.b.WriteString("[")
		for i, el := range v.Elems {
			if i > 0 {
				e.b.WriteString(", ")
			}
			e.expr(el, PrecSpread)
		}
		e.b.WriteString("]")
	case *Object:
		e.object(v)
	case *Spread:
		e.b.WriteString("...")
		e.expr(v.X, PrecSpread+1)
	case *Arrow:
		e.arrow(v)
	case *Await:
		e.b.WriteString("await ")
		e.expr(v.X, PrecPrefix)
	default:
		panic(fmt.Sprintf("jsast: unhandled expression %T", x))
	}
}

// receiver renders the target of a member, index, or call access. A
// compound receiver (anything binding weaker than a call) is parenthesized;
// a bare integer literal also is, since `1.toFixed` does not parse.
func (e *emitter) receiver(x Expr) {
	if n, ok := x.(*Num); ok && !strings.ContainsAny(n.Text, ".eExXbBoO") {
		e.b.WriteString("(")
		e.b.WriteString(n.Text)
		e.b.WriteString(")")
		return
	}
	e.expr(x, PrecCall)
}

func (e *emitter) args(list []Expr) {
	e.b.WriteString("(")
	for i, a := range list {
		if i > 0 {
			e.b.WriteString(", ")
		}
		e.expr(a, PrecSpread)
	}
	e.b.WriteString(")")
}

func (e *emitter) unary(v *Unary) {
	e.b.WriteString(v.Op)
	if isWordOp(v.Op) {
		e.b.WriteString(" ")
	}
	// -(-x) needs the parens: `--x` lexes as a decrement
	if inner, ok := v.X.(*Unary); ok && !isWordOp(v.Op) && inner.Op[0] == v.Op[0] {
		e.b.WriteString("(")
		e.exprRaw(inner)
		e.b.WriteString(")")
		return
	}
	e.expr(v.X, PrecPrefix)
}

func isWordOp(op string) bool {
	return op == "typeof" || op == "void" || op == "delete"
}

func (e *emitter) binary(v *Binary) {
	info := OpPrec(v.Op)
	leftLevel, rightLevel := info.Prec, info.Prec+1
	if info.RightAssoc {
		leftLevel, rightLevel = info.Prec+1, info.Prec
	}
	// a unary-prefixed base of ** must be parenthesized regardless of
	// precedence: `-x ** 2` is a syntax error in JavaScript
	if v.Op == "**" {
		if _, ok := v.L.(*Unary); ok {
			e.b.WriteString("(")
			e.exprRaw(v.L)
			e.b.WriteString(")")
		} else {
			e.expr(v.L, leftLevel)
		}
	} else {
		e.expr(v.L, leftLevel)
	}
	e.b.WriteString(" ")
	e.b.WriteString(v.Op)
	e.b.WriteString(" ")
	e.expr(v.R, rightLevel)
}

func (e *emitter) object(v *Object) {
	if len(v.Props) == 0 {
		e.b.WriteString("{}")
		return
	}
	e.b.WriteString("{ ")
	for i, p := range v.Props {
		if i > 0 {
			e.b.WriteString(", ")
		}
		if p.Computed {
			e.b.WriteString("[")
			e.expr(p.Key, PrecLowest)
			e.b.WriteString("]")
		} else if key, ok := p.Key.(*Str); ok && isIdentName(key.Value) {
			e.b.WriteString(key.Value)
		} else {
			e.expr(p.Key, PrecLowest)
		}
		e.b.WriteString(": ")
		e.expr(p.Value, PrecSpread)
	}
	e.b.WriteString(" }")
}

func (e *emitter) arrow(v *Arrow) {
	if v.Async {
		e.b.WriteString("async ")
	}
	e.b.WriteString("(")
	e.b.WriteString(strings.Join(v.Params, ", "))
	e.b.WriteString(") => ")
	if v.Expr != nil {
		// an object-literal body would parse as a block
		if _, ok := v.Expr.(*Object); ok {
			e.b.WriteString("(")
			e.exprRaw(v.Expr)
			e.b.WriteString(")")
			return
		}
		e.expr(v.Expr, PrecAssign)
		return
	}
	e.block(v.Body)
}

func (e *emitter) template(v *Template) {
	e.b.WriteString("`")
	for _, p := range v.Parts {
		if p.Expr != nil {
			e.b.WriteString("${")
			e.expr(p.Expr, PrecLowest)
			e.b.WriteString("}")
			continue
		}
		e.b.WriteString(escapeTemplateText(p.Text))
	}
	e.b.WriteString("`")
}

func escapeTemplateText(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '`':
			b.WriteString("\\`")
		case '\\':
			b.WriteString("\\\\")
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteString("\\$")
			} else {
				b.WriteByte(c)
			}
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// quoteJS quotes a string with double quotes using JavaScript escapes.
func quoteJS(s string) string {
	var b strings.Builder
	b.WriteString("\"")
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		case 0:
			b.WriteString("\\0")
		default:
			if r < 0x20 {
				b.WriteString(fmt.Sprintf("\\u%04x", r))
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteString("\"")
	return b.String()
}

func isIdentName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
