// Package ast defines the syntax tree for the restricted source subset.
//
// The tree deliberately models only the constructs the transpiler accepts;
// anything the parser cannot express here fails at parse time instead of
// reaching lowering. Nodes are immutable values owned by the tree that
// contains them. A *FuncDef is the unit of compilation and its pointer
// identity keys the function cache.
package ast

import (
	"tidal/internal/source"
)

// Node is implemented by every syntax node.
type Node interface {
	Span() source.Span
}

type Base struct {
	Sp source.Span
}

func (b Base) Span() source.Span { return b.Sp }

// FuncDef is a function-like compilation unit: ordered parameters, a
// statement body, and the set of names that are true locals of a lexically
// enclosing function. Referencing one of those names is a fatal compile
// error, so each compiled unit stays self-contained.
type FuncDef struct {
	Base
	Name   string
	Params []string
	Body   []Stmt
	Async  bool

	// EnclosingLocals names the locals of any lexically enclosing function.
	// The parser leaves it nil: top-level defs have no enclosing scope, and
	// nested defs are lowered inline rather than compiled as units. A host
	// embedding the compiler fills it in when handing over a function that
	// was defined inside an already-running scope, so that a free reference
	// to one of these names fails instead of silently resolving elsewhere.
	EnclosingLocals map[string]bool
}

// NewFuncDef builds a FuncDef with its span.
func NewFuncDef(name string, params []string, body []Stmt, async bool, sp source.Span) *FuncDef {
	return &FuncDef{
		Base:   Base{Sp: sp},
		Name:   name,
		Params: params,
		Body:   body,
		Async:  async,
	}
}

// Module is one parsed source file: its top-level function definitions in
// declaration order.
type Module struct {
	Base
	Path  string
	Funcs []*FuncDef
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

type (
	// AssignStmt is `target = value`. Target is a Name, AttrExpr, or
	// IndexExpr.
	AssignStmt struct {
		Base
		Target Expr
		Value  Expr
	}

	// AugAssignStmt is `target <op>= value`. Op is the bare operator
	// spelling ("+", "//", "<<", ...).
	AugAssignStmt struct {
		Base
		Target Expr
		Op     string
		Value  Expr
	}

	// ExprStmt evaluates an expression for its effect.
	ExprStmt struct {
		Base
		X Expr
	}

	// ReturnStmt returns Value, or nothing when Value is nil.
	ReturnStmt struct {
		Base
		Value Expr
	}

	// IfStmt covers if/elif/else; elif chains nest in Else.
	IfStmt struct {
		Base
		Cond Expr
		Then []Stmt
		Else []Stmt
	}

	// WhileStmt is a conditional loop. A literal-true condition is the
	// infinite-loop form.
	WhileStmt struct {
		Base
		Cond Expr
		Body []Stmt
	}

	// ForStmt iterates an iterable. Multiple targets destructure each
	// element.
	ForStmt struct {
		Base
		Targets []string
		Iter    Expr
		Body    []Stmt
	}

	// MatchCase is one alternative of a MatchStmt. Patterns holds the
	// literal alternatives of a `|` group; Wildcard marks `_`. Guard is
	// carried so lowering can reject it with a precise error.
	MatchCase struct {
		Base
		Patterns []Expr
		Guard    Expr
		Wildcard bool
		Body     []Stmt
	}

	// MatchStmt dispatches Subject over literal alternatives.
	MatchStmt struct {
		Base
		Subject Expr
		Cases   []MatchCase
	}

	// BreakStmt exits the innermost loop.
	BreakStmt struct{ Base }

	// ContinueStmt resumes the innermost loop.
	ContinueStmt struct{ Base }

	// PassStmt does nothing.
	PassStmt struct{ Base }

	// RaiseStmt raises X.
	RaiseStmt struct {
		Base
		X Expr
	}

	// FuncDefStmt is a nested function definition.
	FuncDefStmt struct {
		Base
		Def *FuncDef
	}
)

func (*AssignStmt) stmtNode()    {}
func (*AugAssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()    {}
func (*IfStmt) stmtNode()        {}
func (*WhileStmt) stmtNode()     {}
func (*ForStmt) stmtNode()       {}
func (*MatchStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()     {}
func (*ContinueStmt) stmtNode()  {}
func (*PassStmt) stmtNode()      {}
func (*RaiseStmt) stmtNode()     {}
func (*FuncDefStmt) stmtNode()   {}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

type (
	// IntLit keeps the literal spelling (possibly 0x/0o/0b prefixed).
	IntLit struct {
		Base
		Value string
	}

	// FloatLit keeps the literal spelling.
	FloatLit struct {
		Base
		Value string
	}

	// StringLit holds the cooked string value.
	StringLit struct {
		Base
		Value string
	}

	// BoolLit is True or False.
	BoolLit struct {
		Base
		Value bool
	}

	// NoneLit is None.
	NoneLit struct{ Base }

	// FStringPart is one segment of an f-string: literal text when Expr is
	// nil, otherwise an interpolation with an optional format spec.
	// SpecConst is false when the spec itself contains interpolation.
	FStringPart struct {
		Text      string
		Expr      Expr
		Spec      string
		SpecConst bool
	}

	// FString is an interpolated string literal.
	FString struct {
		Base
		Parts []FStringPart
	}

	// Name is an identifier reference.
	Name struct {
		Base
		ID string
	}

	// UnaryExpr is `-x`, `+x`, `~x`, or `not x`.
	UnaryExpr struct {
		Base
		Op string
		X  Expr
	}

	// BinaryExpr covers arithmetic, bitwise, logical, and the single
	// (non-chained) membership/identity operators.
	BinaryExpr struct {
		Base
		Op string
		L  Expr
		R  Expr
	}

	// CompareExpr is a chained comparison: First Ops[0] Rest[0] Ops[1] ...
	CompareExpr struct {
		Base
		First Expr
		Ops   []string
		Rest  []Expr
	}

	// CondExpr is `Then if Cond else Else`.
	CondExpr struct {
		Base
		Cond Expr
		Then Expr
		Else Expr
	}

	// Keyword is a keyword argument in a call.
	Keyword struct {
		Name  string
		Value Expr
	}

	// CallExpr is a call with positional and keyword arguments.
	CallExpr struct {
		Base
		Fn       Expr
		Args     []Expr
		Keywords []Keyword
	}

	// StarExpr is `*x` in call or display position.
	StarExpr struct {
		Base
		X Expr
	}

	// AttrExpr is `x.name`.
	AttrExpr struct {
		Base
		X    Expr
		Name string
	}

	// IndexExpr is `x[index]`.
	IndexExpr struct {
		Base
		X     Expr
		Index Expr
	}

	// SliceExpr is `x[lo:hi:step]`; nil fields were omitted.
	SliceExpr struct {
		Base
		X    Expr
		Lo   Expr
		Hi   Expr
		Step Expr
	}

	// ListExpr is `[a, b, c]`.
	ListExpr struct {
		Base
		Elems []Expr
	}

	// TupleExpr is `(a, b, c)`.
	TupleExpr struct {
		Base
		Elems []Expr
	}

	// DictExpr is `{k: v, ...}` with parallel key/value slices.
	DictExpr struct {
		Base
		Keys   []Expr
		Values []Expr
	}

	// SetExpr is `{a, b, c}`.
	SetExpr struct {
		Base
		Elems []Expr
	}

	// CompExpr is a single-clause comprehension `[Elt for Vars in Iter if
	// Cond]`; Generator marks the parenthesis-free form used in call
	// position.
	CompExpr struct {
		Base
		Elt       Expr
		Vars      []string
		Iter      Expr
		Cond      Expr
		Generator bool
	}

	// LambdaExpr is `lambda params: body`.
	LambdaExpr struct {
		Base
		Params []string
		Body   Expr
	}

	// AwaitExpr is `await x`, valid only inside async functions.
	AwaitExpr struct {
		Base
		X Expr
	}
)

func (*IntLit) exprNode()      {}
func (*FloatLit) exprNode()    {}
func (*StringLit) exprNode()   {}
func (*BoolLit) exprNode()     {}
func (*NoneLit) exprNode()     {}
func (*FString) exprNode()     {}
func (*Name) exprNode()        {}
func (*UnaryExpr) exprNode()   {}
func (*BinaryExpr) exprNode()  {}
func (*CompareExpr) exprNode() {}
func (*CondExpr) exprNode()    {}
func (*CallExpr) exprNode()    {}
func (*StarExpr) exprNode()    {}
func (*AttrExpr) exprNode()    {}
func (*IndexExpr) exprNode()   {}
func (*SliceExpr) exprNode()   {}
func (*ListExpr) exprNode()    {}
func (*TupleExpr) exprNode()   {}
func (*DictExpr) exprNode()    {}
func (*SetExpr) exprNode()     {}
func (*CompExpr) exprNode()    {}
func (*LambdaExpr) exprNode()  {}
func (*AwaitExpr) exprNode()   {}

// At attaches a span to a node constructed in place.
func At(sp source.Span) Base { return Base{Sp: sp} }
