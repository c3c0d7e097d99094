package driver

import (
	"fmt"
	"strings"

	"tidal/internal/jsast"
	"tidal/internal/transpile"
)

// WriteModule renders the final JavaScript module text: imports first,
// then shared constants, then one exported const per function. roots are
// the unit local IDs that get an export keyword; transitively pulled-in
// helpers stay module-private.
func WriteModule(c *transpile.Closure, roots map[string]bool) string {
	var b strings.Builder

	for _, imp := range c.Imports {
		b.WriteString(importLine(imp))
		b.WriteByte('\n')
	}
	if len(c.Imports) > 0 && (len(c.Consts) > 0 || len(c.Units) > 0) {
		b.WriteByte('\n')
	}

	for _, cst := range c.Consts {
		fmt.Fprintf(&b, "const %s = %s;\n", cst.LocalID, jsast.RenderExpr(cst.Node))
	}
	if len(c.Consts) > 0 && len(c.Units) > 0 {
		b.WriteByte('\n')
	}

	for i, u := range c.Units {
		if i > 0 {
			b.WriteByte('\n')
		}
		if roots[u.LocalID] {
			b.WriteString("export ")
		}
		fmt.Fprintf(&b, "const %s = %s;\n", u.LocalID, u.Code())
	}

	return b.String()
}

// importLine renders one import declaration. The binding clause spells
// "exported as local" only when the two differ.
func importLine(d *transpile.ImportDescriptor) string {
	var b strings.Builder
	b.WriteString("import ")
	if d.TypeOnly {
		b.WriteString("type ")
	}
	switch d.Kind {
	case transpile.ImportNamed:
		if d.LocalID == d.Name {
			fmt.Fprintf(&b, "{ %s } from ", d.Name)
		} else {
			fmt.Fprintf(&b, "{ %s as %s } from ", d.Name, d.LocalID)
		}
	case transpile.ImportDefault:
		fmt.Fprintf(&b, "%s from ", d.LocalID)
	case transpile.ImportNamespace:
		fmt.Fprintf(&b, "* as %s from ", d.LocalID)
	case transpile.ImportSideEffect:
		// bare specifier only
	}
	fmt.Fprintf(&b, "%q;", d.Source)
	return b.String()
}
