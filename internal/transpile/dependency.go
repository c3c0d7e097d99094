package transpile

import (
	"tidal/internal/jsast"
)

// DepKind tags the variants of Dependency.
type DepKind uint8

const (
	DepFunction DepKind = iota
	DepImport
	DepConstant
	DepBuiltin
)

// Dependency records what one free name of a compiled unit resolved to.
// Exactly one of the payload fields is set, matching Kind.
type Dependency struct {
	Kind    DepKind
	Fn      *CompilationUnit  // DepFunction
	Imp     *ImportDescriptor // DepImport
	Const   *Constant         // DepConstant
	Builtin string            // DepBuiltin: the global's own name
}

// localID is the identifier the generated code uses for this dependency.
func (d *Dependency) localID() string {
	switch d.Kind {
	case DepFunction:
		return d.Fn.LocalID
	case DepImport:
		return d.Imp.LocalID
	case DepConstant:
		return d.Const.LocalID
	case DepBuiltin:
		return d.Builtin
	}
	return ""
}

// ImportDescriptor is an interned import binding. Descriptors are shared:
// every unit that requests the same (name, source, kind) triple receives
// the same descriptor, and merge requests union the ordering constraints.
type ImportDescriptor struct {
	Name     string
	Source   string
	Kind     ImportKind
	TypeOnly bool
	// Before holds module specifiers that must be emitted before this
	// import. Unioned across merge requests.
	Before map[string]struct{}
	// LocalID is the registry-generated identifier the emitted code binds
	// the import to. Empty for side-effect imports.
	LocalID string

	seq int // registration order, ties broken by it during emission
}

// importKey is the dedup identity of an import. Default imports of one
// module are the same binding whatever the requested name, so the name is
// dropped from their key.
type importKey struct {
	name   string
	source string
	kind   ImportKind
}

func keyOf(spec ImportSpec) importKey {
	k := importKey{name: spec.Name, source: spec.Source, kind: spec.Kind}
	if spec.Kind == ImportDefault || spec.Kind == ImportSideEffect {
		k.name = ""
	}
	return k
}

// Constant is an interned shared constant: its value, the expression the
// module emits for it, and the identifier units reference it by.
type Constant struct {
	Value   ConstValue
	Node    jsast.Expr
	LocalID string

	seq int
}

// render builds the literal expression for a constant value.
func (v ConstValue) render() jsast.Expr {
	switch v.Kind {
	case ConstInt, ConstFloat:
		return &jsast.Num{Text: v.Text}
	case ConstString:
		return &jsast.Str{Value: v.Text}
	case ConstBool:
		return &jsast.Bool{Value: v.Bool}
	case ConstNull:
		return &jsast.Null{}
	case ConstList:
		elems := make([]jsast.Expr, len(v.List))
		for i, e := range v.List {
			elems[i] = e.render()
		}
		return &jsast.Array{Elems: elems}
	}
	return &jsast.Undefined{}
}
