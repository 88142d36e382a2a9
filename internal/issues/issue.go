// Package issues provides a unified issue type for problems found while
// parsing specifications or generating client artifacts.
package issues

import (
	"fmt"

	"github.com/studiographene/SGSchemaSync/internal/severity"
)

// Issue represents a single problem found during parsing or generation.
type Issue struct {
	// Path is the JSON path to the problematic field (e.g., "paths./pets.get.responses")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Operation identifies the API operation the issue belongs to, when
	// applicable (e.g., "GET /pets/{id}")
	Operation string
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	path := i.Path
	if i.Operation != "" {
		path = fmt.Sprintf("%s [%s]", i.Path, i.Operation)
	}
	return fmt.Sprintf("%s %s: %s", symbol, path, i.Message)
}
