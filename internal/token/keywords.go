package token

var keywords = map[string]Kind{
	"def":      KwDef,
	"lambda":   KwLambda,
	"return":   KwReturn,
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"break":    KwBreak,
	"continue": KwContinue,
	"pass":     KwPass,
	"match":    KwMatch,
	"case":     KwCase,
	"raise":    KwRaise,
	"not":      KwNot,
	"and":      KwAnd,
	"or":       KwOr,
	"is":       KwIs,
	"async":    KwAsync,
	"await":    KwAwait,
	"True":     KwTrue,
	"False":    KwFalse,
	"None":     KwNone,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
// Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
