// Package jsast is the transpiler's intermediate representation: a closed
// set of JavaScript expression and statement nodes, plus the emitter that
// renders them to minimally-parenthesized, deterministic source text.
//
// Nodes are immutable values owned by the tree that contains them. The
// emitter switches exhaustively over the node set, so adding or removing a
// variant is a compile-time-checked change everywhere it is handled.
package jsast

// Expr is a JavaScript expression node.
type Expr interface {
	exprNode()
	// Prec is the precedence of the expression itself, used by the
	// emitter's minimal-parenthesization rule.
	Prec() Prec
}

// Stmt is a JavaScript statement node.
type Stmt interface {
	stmtNode()
}

type (
	// Num is a numeric literal carrying its exact spelling.
	Num struct {
		Text string
	}

	// Str is a string literal; the emitter applies quoting.
	Str struct {
		Value string
	}

	// Bool is true or false.
	Bool struct {
		Value bool
	}

	// Null is the null literal.
	Null struct{}

	// Undefined is the undefined literal.
	Undefined struct{}

	// Ident is an identifier reference.
	Ident struct {
		Name string
	}

	// TemplatePart is one segment of a template literal: raw text when
	// Expr is nil, otherwise a ${...} substitution.
	TemplatePart struct {
		Text string
		Expr Expr
	}

	// Template is a backtick template literal.
	Template struct {
		Parts []TemplatePart
	}

	// Unary is a prefix operator application.
	Unary struct {
		Op string
		X  Expr
	}

	// Binary is a binary operator application.
	Binary struct {
		Op string
		L  Expr
		R  Expr
	}

	// Cond is the ternary conditional.
	Cond struct {
		Test Expr
		Then Expr
		Else Expr
	}

	// Call is a function invocation.
	Call struct {
		Fn   Expr
		Args []Expr
	}

	// New is a constructor invocation.
	New struct {
		Fn   Expr
		Args []Expr
	}

	// Member is dotted property access.
	Member struct {
		X    Expr
		Name string
	}

	// Index is computed property access.
	Index struct {
		X     Expr
		Index Expr
	}

	// Array is an array literal.
	Array struct {
		Elems []Expr
	}

	// Prop is one property of an object literal. Computed selects
	// [Key]: value syntax.
	Prop struct {
		Key      Expr
		Value    Expr
		Computed bool
	}

	// Object is an object literal.
	Object struct {
		Props []Prop
	}

	// Spread is ...x in call or array position.
	Spread struct {
		X Expr
	}

	// Arrow is an arrow function. When Expr is non-nil the body is the
	// single-expression form; otherwise Body renders as a block.
	Arrow struct {
		Params []string
		Expr   Expr
		Body   []Stmt
		Async  bool
	}

	// Await is an await expression.
	Await struct {
		X Expr
	}
)

func (*Num) exprNode()       {}
func (*Str) exprNode()       {}
func (*Bool) exprNode()      {}
func (*Null) exprNode()      {}
func (*Undefined) exprNode() {}
func (*Ident) exprNode()     {}
func (*Template) exprNode()  {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Cond) exprNode()      {}
func (*Call) exprNode()      {}
func (*New) exprNode()       {}
func (*Member) exprNode()    {}
func (*Index) exprNode()     {}
func (*Array) exprNode()     {}
func (*Object) exprNode()    {}
func (*Spread) exprNode()    {}
func (*Arrow) exprNode()     {}
func (*Await) exprNode()     {}

func (*Num) Prec() Prec       { return PrecMember }
func (*Str) Prec() Prec       { return PrecMember }
func (*Bool) Prec() Prec      { return PrecMember }
func (*Null) Prec() Prec      { return PrecMember }
func (*Undefined) Prec() Prec { return PrecMember }
func (*Ident) Prec() Prec     { return PrecMember }
func (*Template) Prec() Prec  { return PrecMember }
func (*Array) Prec() Prec     { return PrecMember }
func (*Object) Prec() Prec    { return PrecMember }

func (b *Binary) Prec() Prec { return OpPrec(b.Op).Prec }
func (*Unary) Prec() Prec    { return PrecPrefix }
func (*Cond) Prec() Prec     { return PrecConditional }
func (*Call) Prec() Prec     { return PrecCall }
func (*New) Prec() Prec      { return PrecCall }
func (*Member) Prec() Prec   { return PrecMember }
func (*Index) Prec() Prec    { return PrecMember }
func (*Spread) Prec() Prec   { return PrecSpread }
func (*Arrow) Prec() Prec    { return PrecAssign }
func (*Await) Prec() Prec    { return PrecPrefix }

// Binding is a loop or declaration target: one name, or a destructuring
// pattern over several.
type Binding struct {
	Names []string
}

type (
	// VarDecl declares one binding. Kind is "const" or "let"; a nil Init
	// renders without an initializer.
	VarDecl struct {
		Kind string
		Bind Binding
		Init Expr
	}

	// ExprStmt evaluates an expression for its effect.
	ExprStmt struct {
		X Expr
	}

	// Assign is a plain or compound assignment statement; Op includes the
	// "=" ("=", "+=", "**=", ...).
	Assign struct {
		Target Expr
		Op     string
		Value  Expr
	}

	// Return returns X, or nothing when X is nil.
	Return struct {
		X Expr
	}

	// If is a conditional with an optional else branch.
	If struct {
		Test Expr
		Then []Stmt
		Else []Stmt
	}

	// While is a conditional loop.
	While struct {
		Test Expr
		Body []Stmt
	}

	// Forever is the infinite loop `for (;;)`.
	Forever struct {
		Body []Stmt
	}

	// ForOf is `for (const <bind> of <iter>)`. NoDecl drops the const for
	// targets declared outside the loop.
	ForOf struct {
		Bind   Binding
		Iter   Expr
		Body   []Stmt
		NoDecl bool
	}

	// SwitchCase is one case group. An empty Values slice is the default
	// branch. Bodies are rendered as-is; lowering appends break where
	// fallthrough must stop.
	SwitchCase struct {
		Values []Expr
		Body   []Stmt
	}

	// Switch is a multi-way dispatch statement.
	Switch struct {
		Subject Expr
		Cases   []SwitchCase
	}

	// Break exits the innermost loop or switch.
	Break struct{}

	// Continue resumes the innermost loop.
	Continue struct{}

	// Throw raises X.
	Throw struct {
		X Expr
	}
)

func (*VarDecl) stmtNode()  {}
func (*ExprStmt) stmtNode() {}
func (*Assign) stmtNode()   {}
func (*Return) stmtNode()   {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*Forever) stmtNode()  {}
func (*ForOf) stmtNode()    {}
func (*Switch) stmtNode()   {}
func (*Break) stmtNode()    {}
func (*Continue) stmtNode() {}
func (*Throw) stmtNode()    {}
