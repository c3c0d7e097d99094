package jsast

// Prec is a JavaScript operator precedence level. Higher binds tighter.
// The level set mirrors the ECMAScript grammar's expression hierarchy.
type Prec uint8

const (
	PrecLowest Prec = iota
	PrecComma
	PrecSpread
	PrecAssign
	PrecConditional
	PrecNullish
	PrecLogicalOr
	PrecLogicalAnd
	PrecBitOr
	PrecBitXor
	PrecBitAnd
	PrecEquals
	PrecCompare
	PrecShift
	PrecAdd
	PrecMultiply
	PrecExponent
	PrecPrefix
	PrecPostfix
	PrecNew
	PrecCall
	PrecMember
)

type opInfo struct {
	Prec       Prec
	RightAssoc bool
}

// binaryOps maps every binary operator the IR can carry to its precedence
// and associativity. Exponentiation is the single right-associative entry.
var binaryOps = map[string]opInfo{
	"**": {PrecExponent, true},

	"*": {PrecMultiply, false},
	"/": {PrecMultiply, false},
	"%": {PrecMultiply, false},

	"+": {PrecAdd, false},
	"-": {PrecAdd, false},

	"<<":  {PrecShift, false},
	">>":  {PrecShift, false},
	">>>": {PrecShift, false},

	"<":          {PrecCompare, false},
	"<=":         {PrecCompare, false},
	">":          {PrecCompare, false},
	">=":         {PrecCompare, false},
	"in":         {PrecCompare, false},
	"instanceof": {PrecCompare, false},

	"==":  {PrecEquals, false},
	"!=":  {PrecEquals, false},
	"===": {PrecEquals, false},
	"!==": {PrecEquals, false},

	"&": {PrecBitAnd, false},
	"^": {PrecBitXor, false},
	"|": {PrecBitOr, false},

	"&&": {PrecLogicalAnd, false},
	"||": {PrecLogicalOr, false},
	"??": {PrecNullish, false},
}

// OpPrec returns the precedence entry for a binary operator. Unknown
// operators get the weakest binding so they are always parenthesized,
// which keeps a bad table entry loud instead of silently wrong.
func OpPrec(op string) opInfo {
	if info, ok := binaryOps[op]; ok {
		return info
	}
	return opInfo{PrecLowest, false}
}
