package token

import (
	"tidal/internal/source"
)

// Token represents a single source token with its location.
// Text carries the cooked payload for identifiers and literals: the
// normalized identifier, the unquoted string value, or the literal digits.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, string, or None
// literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, FStringLit, KwTrue, KwFalse, KwNone:
		return true
	default:
		return false
	}
}

// IsAugAssign reports whether the token is an augmented assignment operator.
func (t Token) IsAugAssign() bool {
	switch t.Kind {
	case PlusAssign, MinusAssign, StarAssign, StarStarAssign, SlashAssign,
		SlashSlashAssign, PercentAssign, AmpAssign, PipeAssign, CaretAssign,
		ShlAssign, ShrAssign:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwDef, KwLambda, KwReturn, KwIf, KwElif, KwElse, KwWhile, KwFor,
		KwIn, KwBreak, KwContinue, KwPass, KwMatch, KwCase, KwRaise, KwNot,
		KwAnd, KwOr, KwIs, KwAsync, KwAwait, KwTrue, KwFalse, KwNone:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
