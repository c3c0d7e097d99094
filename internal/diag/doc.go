// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostic is the central record: a Severity, a compact numeric Code with a
// stable string form, a short human-oriented Message, the primary source.Span,
// and optional Notes adding secondary context.
//
// Phases emit through a Reporter so that producers stay decoupled from
// storage; BagReporter aggregates into a Bag, which supports deterministic
// sorting for stable output. Rendering lives in internal/diagfmt; this
// package performs no formatting or IO.
//
// Transpiler fatals (the Tr* codes) additionally surface as transpile.Error
// values so that compilation can abort on the first unsupported construct.
package diag
