// Package diagnose checks merged configurations for mistakes:
// conflicting or misspelled properties, hardcoded secrets and insecure
// settings, and style problems.
package diagnose

import (
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityWarning  Severity = "warning"
	SeverityHigh     Severity = "high"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Issue is one finding from a diagnostic pass.
type Issue struct {
	Severity   Severity
	Path       string
	Type       string
	Message    string
	Suggestion string
}

func (i Issue) String() string {
	s := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(i.Severity)), i.Path, i.Message)
	if i.Suggestion != "" {
		s += fmt.Sprintf(" (%s)", i.Suggestion)
	}

	return s
}
