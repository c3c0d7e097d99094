package transpile

import (
	"tidal/internal/jsast"
)

// CompilationUnit is one compiled function. Units are created as
// placeholders before their body lowers, which is what lets recursive
// reference chains terminate; Deps and the lazily rendered text are only
// meaningful once compilation has completed.
type CompilationUnit struct {
	// Name is the source-level function name.
	Name string
	// LocalID is the identifier the emitted module binds this unit to.
	LocalID string
	Params  []string
	Async   bool
	// Deps maps each free name of the body to what it resolved to.
	Deps map[string]*Dependency

	body     []jsast.Stmt
	code     string
	fp       string
	rendered bool
	done     bool
	seq      int
}

func (u *CompilationUnit) ParamCount() int { return len(u.Params) }

// Code returns the generated function expression. Text generation is
// deferred to the first call and cached; repeated calls are free and
// bit-identical.
func (u *CompilationUnit) Code() string {
	u.render()
	return u.code
}

// Fingerprint returns the hex SHA-256 digest of the generated text.
func (u *CompilationUnit) Fingerprint() string {
	u.render()
	return u.fp
}

func (u *CompilationUnit) render() {
	if u.rendered || !u.done {
		return
	}
	u.code = jsast.RenderFunction(u.Params, u.body, u.Async)
	u.fp = jsast.Fingerprint(u.code)
	u.rendered = true
}
