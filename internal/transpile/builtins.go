package transpile

// jsGlobals are names every browser runtime provides. An unresolved free
// name in this set becomes a Builtin dependency marker and is emitted
// verbatim.
var jsGlobals = map[string]bool{
	"Array":           true,
	"BigInt":          true,
	"Boolean":         true,
	"Date":            true,
	"Error":           true,
	"Infinity":        true,
	"JSON":            true,
	"Map":             true,
	"Math":            true,
	"NaN":             true,
	"Number":          true,
	"Object":          true,
	"Promise":         true,
	"RangeError":      true,
	"RegExp":          true,
	"Set":             true,
	"String":          true,
	"Symbol":          true,
	"TypeError":       true,
	"console":         true,
	"document":        true,
	"fetch":           true,
	"globalThis":      true,
	"isFinite":        true,
	"isNaN":           true,
	"parseFloat":      true,
	"parseInt":        true,
	"structuredClone": true,
	"undefined":       true,
	"window":          true,
}

// loweredBuiltins are source-level builtin names consumed by call-site
// lowering templates. They never appear as dependencies; a reference that
// is not a recognized call shape is fatal.
var loweredBuiltins = map[string]bool{
	"abs":       true,
	"all":       true,
	"any":       true,
	"bool":      true,
	"enumerate": true,
	"filter":    true,
	"float":     true,
	"int":       true,
	"len":       true,
	"map":       true,
	"max":       true,
	"min":       true,
	"print":     true,
	"range":     true,
	"reduce":    true,
	"reversed":  true,
	"round":     true,
	"sorted":    true,
	"str":       true,
	"sum":       true,
	"zip":       true,
}

// builtinRenames maps source builtins lowered by a plain call rename.
// Each entry is the emitted callee split at member dots.
var builtinRenames = map[string][]string{
	"print": {"console", "log"},
	"str":   {"String"},
	"float": {"Number"},
	"bool":  {"Boolean"},
	"int":   {"Math", "trunc"},
	"abs":   {"Math", "abs"},
	"min":   {"Math", "min"},
	"max":   {"Math", "max"},
	"round": {"Math", "round"},
}

// methodRenames maps source method names to their JavaScript spellings.
// Receiver-swapping join and the dispatch operations are handled apart.
var methodRenames = map[string]string{
	"append":     "push",
	"startswith": "startsWith",
	"endswith":   "endsWith",
	"upper":      "toUpperCase",
	"lower":      "toLowerCase",
	"strip":      "trim",
}
