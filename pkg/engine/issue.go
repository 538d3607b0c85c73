package engine

import "github.com/hazyhaar/tagsmith/pkg/tags"

// Severity classifies a validation issue. Warnings and info never block a
// tag set; errors make the overall status invalid.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Statuses reported in Result.OverallStatus.
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
)

// Issue is one finding about a tag set. Findings are data, not errors: the
// engine reports them alongside its best-effort output instead of aborting.
type Issue struct {
	Key          string     `json:"key,omitempty"`
	Value        string     `json:"value,omitempty"`
	Severity     Severity   `json:"severity"`
	Message      string     `json:"message"`
	SuggestedFix []tags.Tag `json:"suggested_fix,omitempty"`
}

func hasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

func statusFor(issues []Issue) string {
	if hasErrors(issues) {
		return StatusInvalid
	}
	return StatusValid
}
