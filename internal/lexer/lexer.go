package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"tidal/internal/diag"
	"tidal/internal/source"
	"tidal/internal/token"
)

// Lexer tokenizes one source file. The token stream is line-oriented:
// logical lines end with Newline, and indentation changes produce
// Indent/Dedent pairs the way the parser expects for block structure.
// Newlines and indentation are suppressed inside brackets.
type Lexer struct {
	file     *source.File
	reporter diag.Reporter
	pos      uint32
	indents  []uint32
	depth    int // open bracket depth
	atLine   bool
	out      []token.Token
}

// New creates a lexer for file, reporting through reporter.
func New(file *source.File, reporter diag.Reporter) *Lexer {
	return &Lexer{
		file:     file,
		reporter: reporter,
		indents:  []uint32{0},
		atLine:   true,
	}
}

// Scan tokenizes the whole file.
func Scan(file *source.File, reporter diag.Reporter) []token.Token {
	return New(file, reporter).ScanAll()
}

// ScanAll tokenizes the remaining input and returns the full token slice,
// always terminated by EOF.
func (lx *Lexer) ScanAll() []token.Token {
	for lx.step() {
	}
	return lx.out
}

// step processes one token (or one layout event) and reports whether more
// input remains.
func (lx *Lexer) step() bool {
	if lx.atLine && lx.depth == 0 {
		if !lx.handleLineStart() {
			return lx.finish()
		}
	}

	lx.skipInlineSpace()
	if lx.eof() {
		return lx.finish()
	}

	ch := lx.peek()
	switch {
	case ch == '#':
		lx.skipComment()
		return true
	case ch == '\n':
		lx.pos++
		if lx.depth == 0 {
			lx.emitAt(token.Newline, lx.pos-1, lx.pos, "")
			lx.atLine = true
		}
		return true
	case isIdentStart(ch):
		lx.scanIdentOrKeyword()
	case isDigit(ch) || (ch == '.' && lx.digitAfterDot()):
		lx.scanNumber()
	case ch == '"' || ch == '\'':
		lx.scanString(false)
	default:
		lx.scanOperatorOrPunct()
	}
	return true
}

// handleLineStart measures indentation and emits Indent/Dedent events.
// Returns false at EOF.
func (lx *Lexer) handleLineStart() bool {
	for {
		lineStart := lx.pos
		width := uint32(0)
		mixed := false
		for !lx.eof() {
			switch lx.peek() {
			case ' ':
				width++
			case '\t':
				mixed = true
				width++
			default:
				goto measured
			}
			lx.pos++
		}
	measured:
		if lx.eof() {
			return false
		}
		// blank and comment-only lines never affect indentation
		if lx.peek() == '\n' {
			lx.pos++
			continue
		}
		if lx.peek() == '#' {
			lx.skipComment()
			continue
		}
		if mixed {
			lx.report(diag.LexMixedIndent, lineStart, lx.pos, "tabs mixed with spaces in indentation")
		}
		lx.applyIndent(width, lineStart)
		lx.atLine = false
		return true
	}
}

func (lx *Lexer) applyIndent(width, lineStart uint32) {
	top := lx.indents[len(lx.indents)-1]
	switch {
	case width > top:
		lx.indents = append(lx.indents, width)
		lx.emitAt(token.Indent, lineStart, lx.pos, "")
	case width < top:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1] > width {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emitAt(token.Dedent, lineStart, lx.pos, "")
		}
		if lx.indents[len(lx.indents)-1] != width {
			lx.report(diag.LexBadIndent, lineStart, lx.pos,
				fmt.Sprintf("unindent to column %d does not match any outer block", width+1))
		}
	}
}

// finish closes the final line and all open indentation levels.
func (lx *Lexer) finish() bool {
	end := uint32(len(lx.file.Content))
	if len(lx.out) > 0 {
		last := lx.out[len(lx.out)-1].Kind
		if last != token.Newline && last != token.Dedent && last != token.Indent {
			lx.emitAt(token.Newline, end, end, "")
		}
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emitAt(token.Dedent, end, end, "")
	}
	lx.emitAt(token.EOF, end, end, "")
	return false
}

func (lx *Lexer) skipInlineSpace() {
	for !lx.eof() {
		ch := lx.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			lx.pos++
			continue
		}
		// a backslash-newline joins physical lines
		if ch == '\\' && lx.pos+1 < lx.size() && lx.file.Content[lx.pos+1] == '\n' {
			lx.pos += 2
			continue
		}
		// inside brackets a newline is plain whitespace
		if ch == '\n' && lx.depth > 0 {
			lx.pos++
			continue
		}
		return
	}
}

func (lx *Lexer) skipComment() {
	for !lx.eof() && lx.peek() != '\n' {
		lx.pos++
	}
}

func (lx *Lexer) eof() bool { return lx.pos >= lx.size() }

func (lx *Lexer) size() uint32 {
	n, err := safecast.Conv[uint32](len(lx.file.Content))
	if err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	return n
}

func (lx *Lexer) peek() byte { return lx.file.Content[lx.pos] }

func (lx *Lexer) peekAt(off uint32) (byte, bool) {
	if lx.pos+off >= lx.size() {
		return 0, false
	}
	return lx.file.Content[lx.pos+off], true
}

func (lx *Lexer) digitAfterDot() bool {
	b, ok := lx.peekAt(1)
	return ok && isDigit(b)
}

func (lx *Lexer) emitAt(kind token.Kind, start, end uint32, text string) {
	lx.out = append(lx.out, token.Token{
		Kind: kind,
		Span: source.Span{File: lx.file.ID, Start: start, End: end},
		Text: text,
	})
}

func (lx *Lexer) report(code diag.Code, start, end uint32, msg string) {
	if lx.reporter == nil {
		return
	}
	sp := source.Span{File: lx.file.ID, Start: start, End: end}
	lx.reporter.Report(code, diag.SevError, sp, msg, nil)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
