package transpile

import (
	"sort"
)

// Closure is the transitive dependency set of one or more root units,
// ordered for one-shot emission with no duplicate declarations.
type Closure struct {
	// Units lists every reachable compiled function, dependencies before
	// dependents; recursion cycles break at the first repeated unit.
	Units []*CompilationUnit
	// Imports is deduplicated and ordered: registration order, adjusted so
	// every "must emit before" constraint is satisfied.
	Imports []*ImportDescriptor
	// Consts in registration order.
	Consts []*Constant
	// Builtins are the referenced global names, sorted. Emission needs no
	// declaration for them; they are reported for completeness.
	Builtins []string
}

// NewClosure walks the dependency graphs of the given roots.
func NewClosure(roots ...*CompilationUnit) *Closure {
	c := &Closure{}
	seenUnit := make(map[*CompilationUnit]bool)
	seenImp := make(map[*ImportDescriptor]bool)
	seenConst := make(map[*Constant]bool)
	seenBuiltin := make(map[string]bool)

	var visit func(u *CompilationUnit)
	visit = func(u *CompilationUnit) {
		if seenUnit[u] {
			return
		}
		seenUnit[u] = true
		for _, name := range sortedDepNames(u.Deps) {
			switch d := u.Deps[name]; d.Kind {
			case DepFunction:
				visit(d.Fn)
			case DepImport:
				if !seenImp[d.Imp] {
					seenImp[d.Imp] = true
					c.Imports = append(c.Imports, d.Imp)
				}
			case DepConstant:
				if !seenConst[d.Const] {
					seenConst[d.Const] = true
					c.Consts = append(c.Consts, d.Const)
				}
			case DepBuiltin:
				if !seenBuiltin[d.Builtin] {
					seenBuiltin[d.Builtin] = true
					c.Builtins = append(c.Builtins, d.Builtin)
				}
			}
		}
		c.Units = append(c.Units, u)
	}
	for _, r := range roots {
		visit(r)
	}

	sort.Slice(c.Consts, func(i, j int) bool { return c.Consts[i].seq < c.Consts[j].seq })
	sort.Strings(c.Builtins)
	c.Imports = orderImports(c.Imports)
	return c
}

// Include merges host-forced imports (side-effect modules, typically)
// into the closure and reorders the import list.
func (c *Closure) Include(imports ...*ImportDescriptor) {
	seen := make(map[*ImportDescriptor]bool, len(c.Imports))
	for _, d := range c.Imports {
		seen[d] = true
	}
	for _, d := range imports {
		if !seen[d] {
			seen[d] = true
			c.Imports = append(c.Imports, d)
		}
	}
	c.Imports = orderImports(c.Imports)
}

func sortedDepNames(deps map[string]*Dependency) []string {
	names := make([]string, 0, len(deps))
	for n := range deps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// orderImports produces registration order adjusted for ordering
// constraints: an import naming a module specifier in its Before set is
// held back until every import of that specifier has been placed.
func orderImports(imports []*ImportDescriptor) []*ImportDescriptor {
	sort.Slice(imports, func(i, j int) bool { return imports[i].seq < imports[j].seq })

	bySource := make(map[string][]*ImportDescriptor)
	for _, d := range imports {
		bySource[d.Source] = append(bySource[d.Source], d)
	}
	placed := make(map[*ImportDescriptor]bool)
	out := make([]*ImportDescriptor, 0, len(imports))

	ready := func(d *ImportDescriptor) bool {
		for src := range d.Before {
			for _, pre := range bySource[src] {
				if pre != d && !placed[pre] {
					return false
				}
			}
		}
		return true
	}

	for len(out) < len(imports) {
		advanced := false
		for _, d := range imports {
			if placed[d] || !ready(d) {
				continue
			}
			placed[d] = true
			out = append(out, d)
			advanced = true
		}
		// A constraint cycle would stall; emit the remainder in
		// registration order rather than dropping anything.
		if !advanced {
			for _, d := range imports {
				if !placed[d] {
					placed[d] = true
					out = append(out, d)
				}
			}
		}
	}
	return out
}
