// Package transpile compiles function definitions of the restricted source
// subset into JavaScript function expressions.
//
// A Session owns the process-wide registries: the function cache (keyed by
// *ast.FuncDef identity), the constant cache (keyed by structural value
// equality), and the import registry (keyed by each import's dedup key).
// Sessions carry no locking; callers either serialize access or use one
// Session per isolated compilation (tests do the latter).
//
// Compilation is deterministic: given identical inputs and registry state,
// the generated text and its fingerprint are bit-identical. Every
// unsupported construct fails with a fatal *Error; nothing is cached on
// failure.
package transpile
