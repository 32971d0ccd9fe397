package types

import "time"

// AnalysisStatus is the lifecycle state of an analysis
type AnalysisStatus string

// Analysis statuses. Completed and failed are terminal until an explicit retry.
const (
	StatusPending    AnalysisStatus = "pending"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// Terminal reports whether the status ends a run
func (s AnalysisStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Category names one dimension of CategoryScores
type Category string

// Score categories
const (
	CategoryContent    Category = "content"
	CategoryStructure  Category = "structure"
	CategoryKeywords   Category = "keywords"
	CategoryExperience Category = "experience"
	CategorySkills     Category = "skills"
)

// Categories lists every category in aggregation order
var Categories = []Category{
	CategoryContent,
	CategoryStructure,
	CategoryKeywords,
	CategoryExperience,
	CategorySkills,
}

// CategoryScores is the five-dimensional score vector. Every field is in [0,100].
type CategoryScores struct {
	Content    int `json:"content"`
	Structure  int `json:"structure"`
	Keywords   int `json:"keywords"`
	Experience int `json:"experience"`
	Skills     int `json:"skills"`
}

// Get returns the score for a category
func (c CategoryScores) Get(cat Category) int {
	switch cat {
	case CategoryContent:
		return c.Content
	case CategoryStructure:
		return c.Structure
	case CategoryKeywords:
		return c.Keywords
	case CategoryExperience:
		return c.Experience
	case CategorySkills:
		return c.Skills
	}
	return 0
}

// Priority ranks a recommendation
type Priority string

// Recommendation priorities
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities from most to least urgent
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Examples shows an optional offending excerpt and a suggested rewrite
type Examples struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after"`
}

// Recommendation is a single prioritized improvement suggestion
type Recommendation struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Examples    Examples `json:"examples"`
	Impact      string   `json:"impact"`
}

// AnalysisResult is the outcome of one analysis run.
// It is created pending and mutated only by the orchestrator.
type AnalysisResult struct {
	ID               string           `json:"id"`
	ResumeID         string           `json:"resume_id"`
	JobDescriptionID string           `json:"job_description_id,omitempty"`
	Attempt          int              `json:"attempt"`
	OverallScore     int              `json:"overall_score"`
	CategoryScores   CategoryScores   `json:"category_scores"`
	Recommendations  []Recommendation `json:"recommendations"`
	Strengths        []string         `json:"strengths"`
	ImprovementAreas []string         `json:"improvement_areas"`
	Details          *AnalysisDetails `json:"details,omitempty"`
	Status           AnalysisStatus   `json:"status"`
	Error            string           `json:"error,omitempty"`
	AnalyzedAt       *time.Time       `json:"analyzed_at,omitempty"`
}

// Clone returns a deep copy safe to hand to callers
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r
	if r.Recommendations != nil {
		out.Recommendations = append(make([]Recommendation, 0, len(r.Recommendations)), r.Recommendations...)
	}
	out.Strengths = cloneStrings(r.Strengths)
	out.ImprovementAreas = cloneStrings(r.ImprovementAreas)
	if r.AnalyzedAt != nil {
		t := *r.AnalyzedAt
		out.AnalyzedAt = &t
	}
	// Details is built once at finalize and never mutated, so sharing is safe.
	return &out
}

// ResetScores clears every scored field, leaving identity and status intact
func (r *AnalysisResult) ResetScores() {
	r.OverallScore = 0
	r.CategoryScores = CategoryScores{}
	r.Recommendations = []Recommendation{}
	r.Strengths = []string{}
	r.ImprovementAreas = []string{}
	r.Details = nil
	r.AnalyzedAt = nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}
