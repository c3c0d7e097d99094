package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeFull shows the path exactly as the file set recorded it.
	PathModeFull PathMode = iota
	// PathModeBasename shows only the file name.
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Context is the number of source lines shown before the diagnostic
	// line. The diagnostic line itself always prints.
	Context  int
	PathMode PathMode
	// ShowNotes prints attached notes beneath the primary message.
	ShowNotes bool
}
