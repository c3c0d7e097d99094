package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"tidal/internal/source"
	"tidal/internal/token"
)

// FormatTokensPretty writes one token per line: position, kind, and the
// cooked text when the token carries one.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for _, t := range tokens {
		_, lc := fs.Position(t.Span)
		if t.Text != "" {
			if _, err := fmt.Fprintf(w, "%4d:%-3d %-12s %q\n", lc.Line, lc.Col, t.Kind, t.Text); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%4d:%-3d %s\n", lc.Line, lc.Col, t.Kind); err != nil {
			return err
		}
	}
	return nil
}

type tokenJSON struct {
	Kind  string `json:"kind"`
	Text  string `json:"text,omitempty"`
	Line  uint32 `json:"line"`
	Col   uint32 `json:"col"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// FormatTokensJSON writes the token stream as a JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	out := make([]tokenJSON, len(tokens))
	for i, t := range tokens {
		_, lc := fs.Position(t.Span)
		out[i] = tokenJSON{
			Kind:  t.Kind.String(),
			Text:  t.Text,
			Line:  lc.Line,
			Col:   lc.Col,
			Start: t.Span.Start,
			End:   t.Span.End,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
