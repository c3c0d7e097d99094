package parser

import (
	"strings"

	"tidal/internal/ast"
	"tidal/internal/diag"
	"tidal/internal/lexer"
	"tidal/internal/source"
	"tidal/internal/token"
)

// parseFString splits the raw inner text of an f-string into literal and
// interpolation parts. Embedded expressions are re-lexed and parsed in
// place; the format spec is kept as raw text for lowering, which resolves
// it at compile time (or rejects a non-constant one).
func (p *Parser) parseFString(tok token.Token) ast.Expr {
	raw := tok.Text
	// byte offset of raw[0] in the file: after the f prefix and the quote
	innerBase := tok.Span.Start + 2

	fstr := &ast.FString{Base: ast.At(tok.Span)}
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			fstr.Parts = append(fstr.Parts, ast.FStringPart{Text: cookEscapes(text.String())})
			text.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '{' && i+1 < len(raw) && raw[i+1] == '{':
			text.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(raw) && raw[i+1] == '}':
			text.WriteByte('}')
			i += 2
		case c == '}':
			p.report(diag.SynUnexpectedToken, tok.Span, "single '}' is not allowed in f-string")
			i++
		case c == '{':
			end, colon, ok := scanField(raw, i+1)
			if !ok {
				p.report(diag.SynUnclosedBracket, tok.Span, "unterminated interpolation in f-string")
				return fstr
			}
			flush()
			exprEnd := end
			spec := ""
			if colon >= 0 {
				exprEnd = colon
				spec = raw[colon+1 : end]
			}
			x := p.parseEmbeddedExpr(raw[i+1:exprEnd], innerBase+uint32(i+1))
			fstr.Parts = append(fstr.Parts, ast.FStringPart{
				Expr:      x,
				Spec:      spec,
				SpecConst: !strings.ContainsRune(spec, '{'),
			})
			i = end + 1
		default:
			text.WriteByte(c)
			i++
		}
	}
	flush()
	return fstr
}

// scanField finds the closing brace of an interpolation field starting at
// from, and the first top-level ':' separating the format spec. Brackets
// nest; a ':' inside them stays part of the expression.
func scanField(raw string, from int) (end, colon int, ok bool) {
	depth := 0
	colon = -1
	for j := from; j < len(raw); j++ {
		switch raw[j] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return j, colon, true
			}
			depth--
		case ':':
			if depth == 0 && colon < 0 {
				colon = j
			}
		}
	}
	return 0, -1, false
}

// parseEmbeddedExpr parses one interpolation expression. The source is
// padded so token spans land on the real file offsets.
func (p *Parser) parseEmbeddedExpr(src string, offset uint32) ast.Expr {
	padded := strings.Repeat(" ", int(offset)) + src
	vf := &source.File{ID: p.fileID, Content: []byte(padded)}
	toks := lexer.Scan(vf, p.reporter)
	sub := &Parser{toks: toks, reporter: p.reporter, fileID: p.fileID}
	// padding lexes as indentation; skip the layout tokens
	for sub.at(token.Indent) || sub.at(token.Newline) {
		sub.next()
	}
	x := sub.parseExpr()
	switch sub.cur().Kind {
	case token.Newline, token.Dedent, token.EOF:
	default:
		sub.errHere(diag.SynUnexpectedToken, "unexpected token in f-string expression")
	}
	return x
}

func cookEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
