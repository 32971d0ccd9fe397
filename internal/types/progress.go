package types

import "time"

// StepState describes one pipeline step and whether it has completed
type StepState struct {
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	Weight            int           `json:"weight"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
	Completed         bool          `json:"completed"`
}

// ProgressState tracks one in-flight analysis run
type ProgressState struct {
	AnalysisID              string         `json:"analysis_id"`
	Attempt                 int            `json:"attempt"`
	Status                  AnalysisStatus `json:"status"`
	CurrentStepIndex        int            `json:"current_step_index"`
	Steps                   []StepState    `json:"steps"`
	Message                 string         `json:"message,omitempty"`
	StartTime               time.Time      `json:"start_time"`
	EstimatedCompletionTime time.Time      `json:"estimated_completion_time"`
	ActualCompletionTime    *time.Time     `json:"actual_completion_time,omitempty"`
	Error                   string         `json:"error,omitempty"`
}

// Percentage is the cumulative weight of completed steps
func (p *ProgressState) Percentage() int {
	if p.Status == StatusCompleted {
		return 100
	}
	total := 0
	for _, step := range p.Steps {
		if step.Completed {
			total += step.Weight
		}
	}
	return total
}

// CurrentStepName returns the name of the step in progress, or "" once all steps are done
func (p *ProgressState) CurrentStepName() string {
	if p.CurrentStepIndex < 0 || p.CurrentStepIndex >= len(p.Steps) {
		return ""
	}
	return p.Steps[p.CurrentStepIndex].Name
}

// Clone returns a deep copy
func (p *ProgressState) Clone() *ProgressState {
	out := *p
	out.Steps = append([]StepState(nil), p.Steps...)
	if p.ActualCompletionTime != nil {
		t := *p.ActualCompletionTime
		out.ActualCompletionTime = &t
	}
	return &out
}

// ProgressSnapshot is the read-only view of a run exposed to callers
type ProgressSnapshot struct {
	AnalysisID              string         `json:"analysis_id"`
	Attempt                 int            `json:"attempt"`
	Status                  AnalysisStatus `json:"status"`
	CurrentStepIndex        int            `json:"current_step_index"`
	CurrentStep             string         `json:"current_step,omitempty"`
	Percentage              int            `json:"percentage"`
	Message                 string         `json:"message,omitempty"`
	StartTime               time.Time      `json:"start_time"`
	EstimatedCompletionTime time.Time      `json:"estimated_completion_time"`
	ActualCompletionTime    *time.Time     `json:"actual_completion_time,omitempty"`
	Elapsed                 time.Duration  `json:"elapsed"`
	Error                   string         `json:"error,omitempty"`
}

// ProgressEvent is published on every status or step transition
type ProgressEvent struct {
	AnalysisID              string         `json:"analysis_id"`
	Attempt                 int            `json:"attempt"`
	Status                  AnalysisStatus `json:"status"`
	StepIndex               int            `json:"step_index"`
	StepName                string         `json:"step_name"`
	Percentage              int            `json:"percentage"`
	EstimatedCompletionTime time.Time      `json:"estimated_completion_time"`
	Message                 string         `json:"message,omitempty"`
	Error                   string         `json:"error,omitempty"`
	Timestamp               time.Time      `json:"timestamp"`
}
