package transpile

import (
	"strconv"

	"tidal/internal/ast"
	"tidal/internal/diag"
	"tidal/internal/jsast"
	"tidal/internal/source"
)

func (l *lowerer) fstring(e *ast.FString) jsast.Expr {
	t := &jsast.Template{}
	for _, p := range e.Parts {
		if p.Expr == nil {
			t.Parts = append(t.Parts, jsast.TemplatePart{Text: p.Text})
			continue
		}
		v := l.expr(p.Expr)
		if p.Spec != "" || !p.SpecConst {
			v = l.formatted(v, p, e.Span())
		}
		t.Parts = append(t.Parts, jsast.TemplatePart{Expr: v})
	}
	return t
}

// formatSpec is a parsed format directive: [[fill]align][sign][0][width]
// [.precision][type]. Digit grouping is rejected during parsing.
type formatSpec struct {
	fill  byte
	align byte
	sign  byte
	zero  bool
	width int
	prec  int
	// hasWidth/hasPrec distinguish 0 from absent.
	hasWidth bool
	hasPrec  bool
	typ      byte
}

func (l *lowerer) formatted(v jsast.Expr, p ast.FStringPart, sp source.Span) jsast.Expr {
	// The directive resolves entirely at compile time, so a spec built
	// from runtime values has no lowering.
	if !p.SpecConst {
		fail(diag.TrFormatNonConst, sp, "format specification must be a compile-time constant")
	}
	fs := parseFormatSpec(p.Spec, sp)

	numeric := false
	switch fs.typ {
	case 'f':
		prec := 0
		if fs.hasPrec {
			prec = fs.prec
		}
		v = method(v, "toFixed", num(strconv.Itoa(prec)))
		numeric = true
	case 'd':
		v = call(id("String"), v)
		numeric = true
	case 'x', 'X', 'b', 'o':
		radix := map[byte]string{'x': "16", 'X': "16", 'b': "2", 'o': "8"}[fs.typ]
		v = method(v, "toString", num(radix))
		if fs.typ == 'X' {
			v = method(v, "toUpperCase")
		}
		numeric = true
	case 's', 0:
		if fs.hasPrec {
			fail(diag.TrFormatType, sp, "unsupported format type %q", p.Spec)
		}
	default:
		fail(diag.TrFormatType, sp, "unsupported format type %q", string(fs.typ))
	}

	if fs.align == '=' && !numeric {
		fail(diag.TrFormatEqualsAlign, sp, "'=' alignment requires a numeric format type")
	}

	if fs.sign == '+' {
		// (v < 0 ? "" : "+") + <rendered>
		signed := &jsast.Cond{
			Test: &jsast.Binary{Op: "<", L: v, R: num("0")},
			Then: str(""),
			Else: str("+"),
		}
		v = &jsast.Binary{Op: "+", L: signed, R: v}
	}

	if fs.hasWidth {
		v = padded(v, fs, numeric)
	}
	return v
}

func padded(v jsast.Expr, fs formatSpec, numeric bool) jsast.Expr {
	fill := " "
	if fs.fill != 0 {
		fill = string(fs.fill)
	}
	if fs.zero || fs.align == '=' {
		if fs.fill == 0 {
			fill = "0"
		}
	}
	// Pad methods need a string operand; numeric renderings above already
	// produced one.
	s := v
	if !numeric {
		s = call(id("String"), v)
	}
	width := num(strconv.Itoa(fs.width))
	switch fs.align {
	case '<':
		return method(s, "padEnd", width, str(fill))
	case '^':
		return centered(s, fs.width, fill)
	default: // '>', '=', or the numeric default
		return method(s, "padStart", width, str(fill))
	}
}

// centered: ((s) => s.padStart(s.length + Math.floor((N - s.length) / 2),
// f).padEnd(N, f))(String(v))
func centered(v jsast.Expr, width int, fill string) jsast.Expr {
	n := num(strconv.Itoa(width))
	half := call(member(id("Math"), "floor"), &jsast.Binary{
		Op: "/",
		L:  &jsast.Binary{Op: "-", L: n, R: member(id("s"), "length")},
		R:  num("2"),
	})
	left := method(id("s"), "padStart",
		&jsast.Binary{Op: "+", L: member(id("s"), "length"), R: half},
		str(fill))
	both := method(left, "padEnd", n, str(fill))
	return call(arrow([]string{"s"}, both), call(id("String"), v))
}

func parseFormatSpec(spec string, sp source.Span) formatSpec {
	var fs formatSpec
	i := 0
	isAlign := func(c byte) bool { return c == '<' || c == '>' || c == '^' || c == '=' }

	if len(spec) >= 2 && isAlign(spec[1]) {
		fs.fill, fs.align = spec[0], spec[1]
		i = 2
	} else if len(spec) >= 1 && isAlign(spec[0]) {
		fs.align = spec[0]
		i = 1
	}
	if i < len(spec) && (spec[i] == '+' || spec[i] == '-' || spec[i] == ' ') {
		fs.sign = spec[i]
		i++
	}
	if i < len(spec) && spec[i] == '0' {
		fs.zero = true
		i++
	}
	start := i
	for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
		i++
	}
	if i > start {
		fs.width, _ = strconv.Atoi(spec[start:i])
		fs.hasWidth = true
	} else if fs.zero {
		// A lone 0 flag with no further digits is a width of 0 in the
		// source language; normalize to an explicit zero-fill width.
		fs.hasWidth = true
	}
	if i < len(spec) && (spec[i] == ',' || spec[i] == '_') {
		fail(diag.TrFormatGrouping, sp, "digit grouping is not supported")
	}
	if i < len(spec) && spec[i] == '.' {
		i++
		start = i
		for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
			i++
		}
		if i == start {
			fail(diag.TrFormatType, sp, "unsupported format type %q", spec)
		}
		fs.prec, _ = strconv.Atoi(spec[start:i])
		fs.hasPrec = true
	}
	if i < len(spec) && (spec[i] == ',' || spec[i] == '_') {
		fail(diag.TrFormatGrouping, sp, "digit grouping is not supported")
	}
	if i < len(spec) {
		fs.typ = spec[i]
		i++
	}
	if i != len(spec) {
		fail(diag.TrFormatType, sp, "unsupported format type %q", spec)
	}
	return fs
}
