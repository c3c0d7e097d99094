package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                Code = 1000
	LexUnknownChar         Code = 1001
	LexUnterminatedString  Code = 1002
	LexBadNumber           Code = 1003
	LexBadIndent           Code = 1004
	LexMixedIndent         Code = 1005
	LexUnterminatedFString Code = 1006

	// Syntactic
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectIdentifier Code = 2002
	SynExpectColon      Code = 2003
	SynExpectIndent     Code = 2004
	SynExpectExpr       Code = 2005
	SynBadAssignTarget  Code = 2006
	SynExpectIn         Code = 2007
	SynExpectNewline    Code = 2008
	SynBadPattern       Code = 2009
	SynUnclosedBracket  Code = 2010

	// Transpiler fatals. Each code identifies one unsupported construct;
	// the generated module must never silently take a wrong meaning.
	TrInfo              Code = 3000
	TrEnclosingCapture  Code = 3001
	TrAugAssignOp       Code = 3002
	TrSliceStep         Code = 3003
	TrFormatNonConst    Code = 3004
	TrFormatType        Code = 3005
	TrFormatGrouping    Code = 3006
	TrFormatEqualsAlign Code = 3007
	TrMatchGuard        Code = 3008
	TrCallableNotFunc   Code = 3009
	TrUnresolvedCall    Code = 3010
	TrUnsupported       Code = 3011

	// Host-side IO/config
	IOLoadFileError  Code = 4000
	ConfBadManifest  Code = 4001
	ConfBadBinding   Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                "Lexical information",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedString:  "Unterminated string literal",
	LexBadNumber:           "Malformed numeric literal",
	LexBadIndent:           "Inconsistent indentation",
	LexMixedIndent:         "Tabs mixed with spaces in indentation",
	LexUnterminatedFString: "Unterminated f-string",

	SynInfo:             "Syntactic information",
	SynUnexpectedToken:  "Unexpected token",
	SynExpectIdentifier: "Expected identifier",
	SynExpectColon:      "Expected ':'",
	SynExpectIndent:     "Expected indented block",
	SynExpectExpr:       "Expected expression",
	SynBadAssignTarget:  "Invalid assignment target",
	SynExpectIn:         "Expected 'in'",
	SynExpectNewline:    "Expected end of statement",
	SynBadPattern:       "Invalid case pattern",
	SynUnclosedBracket:  "Unclosed bracket",

	TrInfo:              "Transpiler information",
	TrEnclosingCapture:  "Captures variables from an enclosing scope",
	TrAugAssignOp:       "Unsupported augmented assignment operator",
	TrSliceStep:         "Slice step not supported",
	TrFormatNonConst:    "Format specification must be a compile-time constant",
	TrFormatType:        "Unsupported format type",
	TrFormatGrouping:    "Digit grouping is not supported",
	TrFormatEqualsAlign: "'=' alignment requires a numeric format type",
	TrMatchGuard:        "Guard clauses are not supported",
	TrCallableNotFunc:   "Only plain functions are supported as references",
	TrUnresolvedCall:    "Unresolved reference",
	TrUnsupported:       "Unsupported construct",

	IOLoadFileError: "I/O load file error",
	ConfBadManifest: "Malformed manifest",
	ConfBadBinding:  "Invalid binding declaration",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TRA%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
