package lexer

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"tidal/internal/diag"
	"tidal/internal/token"
)

// scanIdentOrKeyword consumes an identifier, a keyword, or an f-string
// prefix. Identifiers are normalized to NFKC so that visually identical
// names compare equal, matching the source language's identifier rules.
func (lx *Lexer) scanIdentOrKeyword() {
	start := lx.pos
	for !lx.eof() && isIdentContinue(lx.peek()) {
		lx.pos++
	}
	text := string(lx.file.Content[start:lx.pos])

	if (text == "f" || text == "F") && !lx.eof() && (lx.peek() == '"' || lx.peek() == '\'') {
		lx.pos = start
		lx.scanString(true)
		return
	}

	if kind, ok := token.LookupKeyword(text); ok {
		lx.emitAt(kind, start, lx.pos, text)
		return
	}
	if text == "_" {
		lx.emitAt(token.Underscore, start, lx.pos, text)
		return
	}
	if !isASCII(text) {
		text = norm.NFKC.String(text)
	}
	lx.emitAt(token.Ident, start, lx.pos, text)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// scanNumber consumes an integer or float literal, including 0x/0o/0b
// prefixes and exponents. The token text keeps the literal spelling.
func (lx *Lexer) scanNumber() {
	start := lx.pos
	isFloat := false

	if lx.peek() == '0' {
		if b, ok := lx.peekAt(1); ok && (b == 'x' || b == 'X' || b == 'o' || b == 'O' || b == 'b' || b == 'B') {
			lx.pos += 2
			digits := 0
			for !lx.eof() && (isHexDigit(lx.peek()) || lx.peek() == '_') {
				if lx.peek() != '_' {
					digits++
				}
				lx.pos++
			}
			if digits == 0 {
				lx.report(diag.LexBadNumber, start, lx.pos, "radix literal has no digits")
			}
			lx.emitAt(token.IntLit, start, lx.pos, stripUnderscores(string(lx.file.Content[start:lx.pos])))
			return
		}
	}

	for !lx.eof() && (isDigit(lx.peek()) || lx.peek() == '_') {
		lx.pos++
	}
	if !lx.eof() && lx.peek() == '.' {
		if b, ok := lx.peekAt(1); ok && isDigit(b) {
			isFloat = true
			lx.pos++
			for !lx.eof() && (isDigit(lx.peek()) || lx.peek() == '_') {
				lx.pos++
			}
		}
	}
	if !lx.eof() && (lx.peek() == 'e' || lx.peek() == 'E') {
		save := lx.pos
		lx.pos++
		if !lx.eof() && (lx.peek() == '+' || lx.peek() == '-') {
			lx.pos++
		}
		if !lx.eof() && isDigit(lx.peek()) {
			isFloat = true
			for !lx.eof() && isDigit(lx.peek()) {
				lx.pos++
			}
		} else {
			lx.pos = save
		}
	}

	text := stripUnderscores(string(lx.file.Content[start:lx.pos]))
	kind := token.IntLit
	if isFloat {
		kind = token.FloatLit
	}
	lx.emitAt(kind, start, lx.pos, text)
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func stripUnderscores(s string) string {
	if !strings.ContainsRune(s, '_') {
		return s
	}
	return strings.ReplaceAll(s, "_", "")
}

// scanString consumes a quoted string. Plain strings cook their escape
// sequences into Text; f-strings keep the raw inner text for the parser,
// which splits the interpolation fields itself.
func (lx *Lexer) scanString(fstring bool) {
	start := lx.pos
	if fstring {
		lx.pos++ // the f prefix
	}
	quote := lx.peek()
	lx.pos++

	var cooked strings.Builder
	innerStart := lx.pos
	for {
		if lx.eof() || lx.peek() == '\n' {
			code := diag.LexUnterminatedString
			msg := "unterminated string literal"
			if fstring {
				code = diag.LexUnterminatedFString
				msg = "unterminated f-string"
			}
			lx.report(code, start, lx.pos, msg)
			break
		}
		ch := lx.peek()
		if ch == quote {
			break
		}
		if ch == '\\' && !fstring {
			if esc, ok := lx.peekAt(1); ok {
				cooked.WriteByte(unescape(esc))
				lx.pos += 2
				continue
			}
		}
		if ch == '\\' && fstring {
			// keep raw; the parser cooks literal segments
			if _, ok := lx.peekAt(1); ok {
				lx.pos += 2
				continue
			}
		}
		if !fstring {
			cooked.WriteByte(ch)
		}
		lx.pos++
	}

	innerEnd := lx.pos
	if !lx.eof() && lx.peek() == quote {
		lx.pos++
	}
	if fstring {
		lx.emitAt(token.FStringLit, start, lx.pos, string(lx.file.Content[innerStart:innerEnd]))
		return
	}
	lx.emitAt(token.StringLit, start, lx.pos, cooked.String())
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return ch
	}
}

// scanOperatorOrPunct consumes one operator or punctuation token, longest
// match first, and tracks bracket depth for newline suppression.
func (lx *Lexer) scanOperatorOrPunct() {
	start := lx.pos
	ch := lx.peek()
	b1, has1 := lx.peekAt(1)
	b2, has2 := lx.peekAt(2)

	emit := func(kind token.Kind, n uint32) {
		lx.pos += n
		lx.emitAt(kind, start, lx.pos, string(lx.file.Content[start:lx.pos]))
	}

	switch ch {
	case '(':
		lx.depth++
		emit(token.LParen, 1)
	case ')':
		lx.depth--
		emit(token.RParen, 1)
	case '[':
		lx.depth++
		emit(token.LBracket, 1)
	case ']':
		lx.depth--
		emit(token.RBracket, 1)
	case '{':
		lx.depth++
		emit(token.LBrace, 1)
	case '}':
		lx.depth--
		emit(token.RBrace, 1)
	case ',':
		emit(token.Comma, 1)
	case ':':
		emit(token.Colon, 1)
	case '.':
		emit(token.Dot, 1)
	case '~':
		emit(token.Tilde, 1)
	case '+':
		if has1 && b1 == '=' {
			emit(token.PlusAssign, 2)
		} else {
			emit(token.Plus, 1)
		}
	case '-':
		switch {
		case has1 && b1 == '=':
			emit(token.MinusAssign, 2)
		case has1 && b1 == '>':
			emit(token.Arrow, 2)
		default:
			emit(token.Minus, 1)
		}
	case '*':
		switch {
		case has1 && b1 == '*' && has2 && b2 == '=':
			emit(token.StarStarAssign, 3)
		case has1 && b1 == '*':
			emit(token.StarStar, 2)
		case has1 && b1 == '=':
			emit(token.StarAssign, 2)
		default:
			emit(token.Star, 1)
		}
	case '/':
		switch {
		case has1 && b1 == '/' && has2 && b2 == '=':
			emit(token.SlashSlashAssign, 3)
		case has1 && b1 == '/':
			emit(token.SlashSlash, 2)
		case has1 && b1 == '=':
			emit(token.SlashAssign, 2)
		default:
			emit(token.Slash, 1)
		}
	case '%':
		if has1 && b1 == '=' {
			emit(token.PercentAssign, 2)
		} else {
			emit(token.Percent, 1)
		}
	case '&':
		if has1 && b1 == '=' {
			emit(token.AmpAssign, 2)
		} else {
			emit(token.Amp, 1)
		}
	case '|':
		if has1 && b1 == '=' {
			emit(token.PipeAssign, 2)
		} else {
			emit(token.Pipe, 1)
		}
	case '^':
		if has1 && b1 == '=' {
			emit(token.CaretAssign, 2)
		} else {
			emit(token.Caret, 1)
		}
	case '<':
		switch {
		case has1 && b1 == '<' && has2 && b2 == '=':
			emit(token.ShlAssign, 3)
		case has1 && b1 == '<':
			emit(token.Shl, 2)
		case has1 && b1 == '=':
			emit(token.LtEq, 2)
		default:
			emit(token.Lt, 1)
		}
	case '>':
		switch {
		case has1 && b1 == '>' && has2 && b2 == '=':
			emit(token.ShrAssign, 3)
		case has1 && b1 == '>':
			emit(token.Shr, 2)
		case has1 && b1 == '=':
			emit(token.GtEq, 2)
		default:
			emit(token.Gt, 1)
		}
	case '=':
		if has1 && b1 == '=' {
			emit(token.EqEq, 2)
		} else {
			emit(token.Assign, 1)
		}
	case '!':
		if has1 && b1 == '=' {
			emit(token.BangEq, 2)
		} else {
			lx.report(diag.LexUnknownChar, start, start+1, "unexpected character '!'")
			emit(token.Invalid, 1)
		}
	default:
		lx.report(diag.LexUnknownChar, start, start+1, "unknown character")
		emit(token.Invalid, 1)
	}
}
