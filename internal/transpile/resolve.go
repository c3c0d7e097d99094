package transpile

import (
	"fmt"
	"strings"

	"tidal/internal/ast"
)

// ResolutionKind tells what a free name in a function body refers to.
type ResolutionKind uint8

const (
	// ResolveNone means the host knows nothing about the name. It may still
	// be a JavaScript global; otherwise referencing it in call position is
	// fatal.
	ResolveNone ResolutionKind = iota
	// ResolveFunction is another function definition known to the host.
	ResolveFunction
	// ResolveCallable is a callable the host knows about that is not a plain
	// function definition (a bound method, a class). Always fatal.
	ResolveCallable
	// ResolveImport is a binding provided by a module import.
	ResolveImport
	// ResolveConstant is a compile-time literal constant.
	ResolveConstant
)

// Resolution is the host's answer for one free name.
type Resolution struct {
	Kind  ResolutionKind
	Func  *ast.FuncDef // ResolveFunction
	Imp   ImportSpec   // ResolveImport
	Const ConstValue   // ResolveConstant
}

// Resolver maps a free name to its resolution. The same resolver is used
// for every function reached from one Compile call, including functions
// discovered transitively.
type Resolver func(name string) Resolution

// ImportKind distinguishes the binding shapes a module import can take.
type ImportKind uint8

const (
	ImportNamed ImportKind = iota
	ImportDefault
	ImportNamespace
	ImportSideEffect
)

func (k ImportKind) String() string {
	switch k {
	case ImportNamed:
		return "named"
	case ImportDefault:
		return "default"
	case ImportNamespace:
		return "namespace"
	case ImportSideEffect:
		return "side-effect"
	}
	return fmt.Sprintf("ImportKind(%d)", uint8(k))
}

// ImportSpec describes one requested module binding.
//
// Before lists module specifiers whose imports must be emitted before this
// one (a polyfill or side-effect module a component depends on).
type ImportSpec struct {
	Name     string
	Source   string
	Kind     ImportKind
	TypeOnly bool
	Before   []string
}

// ConstKind enumerates the value shapes a shared constant can take.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstBool
	ConstNull
	ConstList
)

// ConstValue is a literal constant supplied by the host. Lists hold
// homogeneous element values; nesting is allowed.
type ConstValue struct {
	Kind ConstKind
	Text string // numeric spelling, or the string payload
	Bool bool
	List []ConstValue
}

// key renders a canonical structural key. Two values with the same key are
// the same constant and share one emitted binding.
func (v ConstValue) key() string {
	var b strings.Builder
	v.writeKey(&b)
	return b.String()
}

func (v ConstValue) writeKey(b *strings.Builder) {
	switch v.Kind {
	case ConstInt:
		b.WriteString("i:")
		b.WriteString(v.Text)
	case ConstFloat:
		b.WriteString("f:")
		b.WriteString(v.Text)
	case ConstString:
		fmt.Fprintf(b, "s:%q", v.Text)
	case ConstBool:
		if v.Bool {
			b.WriteString("b:1")
		} else {
			b.WriteString("b:0")
		}
	case ConstNull:
		b.WriteString("n")
	case ConstList:
		b.WriteString("l:[")
		for i, e := range v.List {
			if i > 0 {
				b.WriteByte(',')
			}
			e.writeKey(b)
		}
		b.WriteByte(']')
	}
}
