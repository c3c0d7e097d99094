package transpile

import (
	"fmt"

	"tidal/internal/diag"
	"tidal/internal/source"
)

// Error is a fatal compilation error. Every unsupported construct is
// reported through one of these rather than silently emitting wrong code.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Msg)
}

// Diagnostic converts the error into a reportable diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Msg)
}

func errf(code diag.Code, sp source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)}
}

// bailout wraps an *Error for the panic-based abort path inside lowering.
// Compile recovers it at the top; anything else re-panics.
type bailout struct{ err *Error }

func fail(code diag.Code, sp source.Span, format string, args ...any) {
	panic(bailout{errf(code, sp, format, args...)})
}
