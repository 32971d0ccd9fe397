package analysis

import (
	"fmt"
	"time"
)

// Pipeline step names
const (
	StepInitialize      = "initialize"
	StepParse           = "parse"
	StepContentAnalysis = "content-analysis"
	StepATSCheck        = "ats-check"
	StepScoring         = "scoring"
	StepRecommendations = "recommendations"
	StepFinalize        = "finalize"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name              string
	Description       string
	Weight            int
	EstimatedDuration time.Duration
}

// DefaultSteps returns the ordered pipeline. Weights sum to 100.
func DefaultSteps() []StepDefinition {
	return []StepDefinition{
		{Name: StepInitialize, Description: "Preparing analysis", Weight: 5, EstimatedDuration: 200 * time.Millisecond},
		{Name: StepParse, Description: "Parsing résumé and job description", Weight: 15, EstimatedDuration: 500 * time.Millisecond},
		{Name: StepContentAnalysis, Description: "Analyzing content", Weight: 25, EstimatedDuration: 800 * time.Millisecond},
		{Name: StepATSCheck, Description: "Checking ATS compatibility", Weight: 15, EstimatedDuration: 500 * time.Millisecond},
		{Name: StepScoring, Description: "Calculating scores", Weight: 15, EstimatedDuration: 300 * time.Millisecond},
		{Name: StepRecommendations, Description: "Generating recommendations", Weight: 15, EstimatedDuration: 500 * time.Millisecond},
		{Name: StepFinalize, Description: "Finalizing results", Weight: 10, EstimatedDuration: 200 * time.Millisecond},
	}
}

// StepError reports an invalid step table
type StepError struct {
	Step    string
	Message string
}

func (e *StepError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("invalid steps: %s", e.Message)
	}
	return fmt.Sprintf("invalid step %q: %s", e.Step, e.Message)
}

// ValidateSteps checks that names are unique, weights are positive and sum
// to 100, and durations are non-negative.
func ValidateSteps(steps []StepDefinition) error {
	if len(steps) == 0 {
		return &StepError{Message: "no steps defined"}
	}
	seen := make(map[string]bool, len(steps))
	total := 0
	for _, s := range steps {
		if s.Name == "" {
			return &StepError{Message: "step name is empty"}
		}
		if seen[s.Name] {
			return &StepError{Step: s.Name, Message: "duplicate step"}
		}
		seen[s.Name] = true
		if s.Weight <= 0 {
			return &StepError{Step: s.Name, Message: "weight must be positive"}
		}
		if s.EstimatedDuration < 0 {
			return &StepError{Step: s.Name, Message: "estimated duration must not be negative"}
		}
		total += s.Weight
	}
	if total != 100 {
		return &StepError{Message: fmt.Sprintf("weights sum to %d, want 100", total)}
	}
	return nil
}

// remainingDuration sums the estimated durations of steps[from:]
func remainingDuration(steps []StepDefinition, from int) time.Duration {
	var d time.Duration
	for i := max(from, 0); i < len(steps); i++ {
		d += steps[i].EstimatedDuration
	}
	return d
}
