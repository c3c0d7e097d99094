package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tidal/internal/diag"
	"tidal/internal/source"
)

// Pretty renders diagnostics for humans. For each diagnostic it prints
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline covering the span,
// then notes in the same shape when enabled. Call bag.Sort() first for
// deterministic order.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printHeader(w, fs, d, opts)
		printContext(w, fs, d.Primary, opts)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				path, lc := fs.Position(n.Span)
				fmt.Fprintf(w, "%s:%d:%d: note: %s\n", displayPath(path, opts), lc.Line, lc.Col, n.Msg)
				printContext(w, fs, n.Span, opts)
			}
		}
	}
}

func printHeader(w io.Writer, fs *source.FileSet, d diag.Diagnostic, opts PrettyOpts) {
	path, lc := fs.Position(d.Primary)
	sev := severityColor(d.Severity, opts.Color)
	code := color.New(color.Bold)
	setColor(code, opts.Color)

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		displayPath(path, opts), lc.Line, lc.Col,
		sev.Sprint(d.Severity.String()),
		code.Sprint(d.Code.ID()),
		d.Message)
}

func printContext(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	_, lc := fs.Position(sp)
	first := int(lc.Line) - opts.Context
	if first < 1 {
		first = 1
	}
	for line := first; line < int(lc.Line); line++ {
		if text := fs.Line(sp.File, uint32(line)); text != "" {
			fmt.Fprintf(w, "  %s\n", text)
		}
	}
	text := fs.Line(sp.File, lc.Line)
	fmt.Fprintf(w, "  %s\n", text)
	fmt.Fprintf(w, "  %s\n", underline(text, int(lc.Col), int(sp.Len()), opts.Color))
}

// underline builds the ^~~~ marker. Width accounting is in display cells
// so wide runes in the prefix keep the caret aligned.
func underline(line string, col, spanLen int, colored bool) string {
	if col < 1 {
		col = 1
	}
	prefix := line
	if col-1 < len(line) {
		prefix = line[:col-1]
	}
	pad := runewidth.StringWidth(prefix)

	width := spanLen
	if rest := len(line) - (col - 1); width > rest {
		width = rest
	}
	if width < 1 {
		width = 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	c := color.New(color.FgGreen, color.Bold)
	setColor(c, colored)
	return strings.Repeat(" ", pad) + c.Sprint(marker)
}

func severityColor(sev diag.Severity, colored bool) *color.Color {
	var c *color.Color
	switch sev {
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	setColor(c, colored)
	return c
}

// setColor pins the per-instance color state so output does not depend on
// the process-global NoColor detection.
func setColor(c *color.Color, on bool) {
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

func displayPath(path string, opts PrettyOpts) string {
	if opts.PathMode == PathModeBasename {
		return filepath.Base(path)
	}
	return path
}
