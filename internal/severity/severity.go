// Package severity provides severity level constants for issues reported
// by the parser and generator packages.
//
// The levels are ordered from least to most severe:
// Info < Warning < Error < Critical.
package severity

// Severity indicates the severity level of an issue found while parsing a
// specification or generating client artifacts.
type Severity int

const (
	// SeverityError indicates a structural problem that makes part of the
	// document unusable.
	SeverityError Severity = iota

	// SeverityWarning indicates degraded output, such as a declaration that
	// fell back to an untyped alias, or a skipped untagged operation.
	SeverityWarning

	// SeverityInfo indicates informational messages about generation choices.
	SeverityInfo

	// SeverityCritical indicates conditions that abort the entire run.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
