package transpile

import (
	"fmt"
	"strconv"
	"strings"

	"tidal/internal/ast"
	"tidal/internal/diag"
)

// Session owns the registries shared by every compilation it performs:
// the function cache, the constant cache and the import registry. A
// Session is not safe for concurrent use.
type Session struct {
	funcs   map[*ast.FuncDef]*CompilationUnit
	consts  map[string]*Constant
	imports map[importKey]*ImportDescriptor

	taken     map[string]bool
	funcSeq   int
	constSeq  int
	importSeq int
}

func NewSession() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// Reset drops every registry, returning the session to its initial state.
func (s *Session) Reset() {
	s.funcs = make(map[*ast.FuncDef]*CompilationUnit)
	s.consts = make(map[string]*Constant)
	s.imports = make(map[importKey]*ImportDescriptor)
	s.taken = make(map[string]bool)
	s.funcSeq = 0
	s.constSeq = 0
	s.importSeq = 0
}

// Compile compiles fn and everything it transitively references, reusing
// cached units where they exist. The cache key is the definition node
// itself: compiling the same *ast.FuncDef twice returns the same unit,
// while a re-parse of identical text compiles fresh.
//
// On error nothing is cached: neither fn's unit nor the unit of any
// function reached through it that had not already completed.
func (s *Session) Compile(fn *ast.FuncDef, resolve Resolver) (u *CompilationUnit, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			u, err = nil, b.err
		}
	}()
	return s.compile(fn, resolve), nil
}

func (s *Session) compile(fn *ast.FuncDef, resolve Resolver) *CompilationUnit {
	if u := s.funcs[fn]; u != nil {
		return u
	}

	u := &CompilationUnit{
		Name:    fn.Name,
		LocalID: s.uniqueName(fn.Name),
		Params:  append([]string(nil), fn.Params...),
		Async:   fn.Async,
		Deps:    make(map[string]*Dependency),
		seq:     s.funcSeq,
	}
	s.funcSeq++
	// The placeholder goes in before the body compiles so that recursive
	// and mutually recursive references find it instead of looping.
	s.funcs[fn] = u
	defer func() {
		if !u.done {
			delete(s.funcs, fn)
		}
	}()

	for _, ref := range freeReferences(fn) {
		if fn.EnclosingLocals[ref.name] {
			fail(diag.TrEnclosingCapture, ref.span,
				"%q is a local of an enclosing function; closures over enclosing scopes cannot be compiled", ref.name)
		}
		res := resolve(ref.name)
		switch res.Kind {
		case ResolveFunction:
			dep := s.compile(res.Func, resolve)
			u.Deps[ref.name] = &Dependency{Kind: DepFunction, Fn: dep}
		case ResolveCallable:
			fail(diag.TrCallableNotFunc, ref.span,
				"%q is callable but not a plain function definition", ref.name)
		case ResolveImport:
			u.Deps[ref.name] = &Dependency{Kind: DepImport, Imp: s.internImport(res.Imp)}
		case ResolveConstant:
			u.Deps[ref.name] = &Dependency{Kind: DepConstant, Const: s.internConst(res.Const)}
		case ResolveNone:
			if jsGlobals[ref.name] {
				u.Deps[ref.name] = &Dependency{Kind: DepBuiltin, Builtin: ref.name}
				continue
			}
			if loweredBuiltins[ref.name] {
				// Consumed by a lowering template at its call site.
				continue
			}
			if ref.callPos {
				fail(diag.TrUnresolvedCall, ref.span, "call to unresolved name %q", ref.name)
			}
			// Not called, not known: assumed resolved at the call site.
			// Referencing it produces no dependency.
		}
	}

	lowerInto(u, fn)
	u.done = true
	return u
}

// RequireImport registers an import that no free name asks for, such as a
// side-effect module the host wants loaded. It goes through the same
// dedup and merge rules as resolver-supplied imports.
func (s *Session) RequireImport(spec ImportSpec) *ImportDescriptor {
	return s.internImport(spec)
}

func (s *Session) internImport(spec ImportSpec) *ImportDescriptor {
	k := keyOf(spec)
	d := s.imports[k]
	if d == nil {
		d = &ImportDescriptor{
			Name:     spec.Name,
			Source:   spec.Source,
			Kind:     spec.Kind,
			TypeOnly: spec.TypeOnly,
			Before:   make(map[string]struct{}),
			seq:      s.importSeq,
		}
		s.importSeq++
		if spec.Kind != ImportSideEffect {
			d.LocalID = s.uniqueName(spec.Name)
		}
		s.imports[k] = d
	} else if !spec.TypeOnly {
		// A regular request upgrades a type-only import for good; the
		// reverse merge changes nothing.
		d.TypeOnly = false
	}
	for _, b := range spec.Before {
		d.Before[b] = struct{}{}
	}
	return d
}

func (s *Session) internConst(v ConstValue) *Constant {
	k := v.key()
	if c := s.consts[k]; c != nil {
		return c
	}
	c := &Constant{
		Value:   v,
		Node:    v.render(),
		LocalID: fmt.Sprintf("$c%d", s.constSeq),
		seq:     s.constSeq,
	}
	s.constSeq++
	s.consts[k] = c
	return c
}

// uniqueName sanitizes base into a JavaScript identifier and disambiguates
// it against every identifier the session has handed out.
func (s *Session) uniqueName(base string) string {
	id := sanitizeIdent(base)
	name := id
	for n := 1; s.taken[name]; n++ {
		name = id + "$" + strconv.Itoa(n)
	}
	s.taken[name] = true
	return name
}

func sanitizeIdent(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		ok := r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if ok {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
