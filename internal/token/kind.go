package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Newline ends a logical line. Suppressed inside brackets.
	Newline
	// Indent opens an indented block.
	Indent
	// Dedent closes an indented block. One Dedent per closed level.
	Dedent

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a floating-point literal.
	FloatLit
	// StringLit represents a plain string literal (value already unquoted).
	StringLit
	// FStringLit represents an interpolated string literal (raw inner text).
	FStringLit

	// KwDef represents the 'def' keyword.
	KwDef // def
	// KwLambda represents the 'lambda' keyword.
	KwLambda // lambda
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElif represents the 'elif' keyword.
	KwElif // elif
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwPass represents the 'pass' keyword.
	KwPass // pass
	// KwMatch represents the 'match' soft keyword.
	KwMatch // match
	// KwCase represents the 'case' soft keyword.
	KwCase // case
	// KwRaise represents the 'raise' keyword.
	KwRaise // raise
	// KwNot represents the 'not' keyword.
	KwNot // not
	// KwAnd represents the 'and' keyword.
	KwAnd // and
	// KwOr represents the 'or' keyword.
	KwOr // or
	// KwIs represents the 'is' keyword.
	KwIs // is
	// KwAsync represents the 'async' keyword.
	KwAsync // async
	// KwAwait represents the 'await' keyword.
	KwAwait // await
	// KwTrue represents the 'True' literal keyword.
	KwTrue // True
	// KwFalse represents the 'False' literal keyword.
	KwFalse // False
	// KwNone represents the 'None' literal keyword.
	KwNone // None

	// Operators and punctuation.
	Plus          // +
	Minus         // -
	Star          // *
	StarStar      // **
	Slash         // /
	SlashSlash    // //
	Percent       // %
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	Shl           // <<
	Shr           // >>
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	StarStarAssign // **=
	SlashAssign   // /=
	SlashSlashAssign // //=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	EqEq          // ==
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	LParen        // (
	RParen        // )
	LBracket      // [
	RBracket      // ]
	LBrace        // {
	RBrace        // }
	Comma         // ,
	Colon         // :
	Dot           // .
	Arrow         // ->
	Underscore    // _
)

var kindNames = map[Kind]string{
	Invalid:          "invalid",
	EOF:              "eof",
	Newline:          "newline",
	Indent:           "indent",
	Dedent:           "dedent",
	Ident:            "ident",
	IntLit:           "int",
	FloatLit:         "float",
	StringLit:        "string",
	FStringLit:       "fstring",
	KwDef:            "def",
	KwLambda:         "lambda",
	KwReturn:         "return",
	KwIf:             "if",
	KwElif:           "elif",
	KwElse:           "else",
	KwWhile:          "while",
	KwFor:            "for",
	KwIn:             "in",
	KwBreak:          "break",
	KwContinue:       "continue",
	KwPass:           "pass",
	KwMatch:          "match",
	KwCase:           "case",
	KwRaise:          "raise",
	KwNot:            "not",
	KwAnd:            "and",
	KwOr:             "or",
	KwIs:             "is",
	KwAsync:          "async",
	KwAwait:          "await",
	KwTrue:           "True",
	KwFalse:          "False",
	KwNone:           "None",
	Plus:             "+",
	Minus:            "-",
	Star:             "*",
	StarStar:         "**",
	Slash:            "/",
	SlashSlash:       "//",
	Percent:          "%",
	Amp:              "&",
	Pipe:             "|",
	Caret:            "^",
	Tilde:            "~",
	Shl:              "<<",
	Shr:              ">>",
	Assign:           "=",
	PlusAssign:       "+=",
	MinusAssign:      "-=",
	StarAssign:       "*=",
	StarStarAssign:   "**=",
	SlashAssign:      "/=",
	SlashSlashAssign: "//=",
	PercentAssign:    "%=",
	AmpAssign:        "&=",
	PipeAssign:       "|=",
	CaretAssign:      "^=",
	ShlAssign:        "<<=",
	ShrAssign:        ">>=",
	EqEq:             "==",
	BangEq:           "!=",
	Lt:               "<",
	LtEq:             "<=",
	Gt:               ">",
	GtEq:             ">=",
	LParen:           "(",
	RParen:           ")",
	LBracket:         "[",
	RBracket:         "]",
	LBrace:           "{",
	RBrace:           "}",
	Comma:            ",",
	Colon:            ":",
	Dot:              ".",
	Arrow:            "->",
	Underscore:       "_",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
