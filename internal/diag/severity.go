package diag

// Severity ranks how serious a diagnostic is. Only SevError makes a
// compile fail; the lower levels are advisory.
type Severity uint8

const (
	// SevInfo marks notes attached to another diagnostic.
	SevInfo Severity = iota
	// SevWarning marks suspect source that still compiles.
	SevWarning
	// SevError marks source that cannot be compiled.
	SevError
)

// String returns the upper-case label printed in diagnostic output.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
