package types

// Severity values for structural issues
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Violation represents a single structural problem found in a résumé.
// Violations with SeverityError would block parsing by an applicant tracking system.
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`
	Section  string `json:"section,omitempty"`
	Line     string `json:"line,omitempty"`
}

// Blocking reports whether the violation would prevent automated parsing
func (v Violation) Blocking() bool {
	return v.Severity == SeverityError
}
