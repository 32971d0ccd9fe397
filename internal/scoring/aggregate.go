package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Default category weights. They sum to 1.25 over five categories.
const (
	DefaultCategoryWeight = 0.25

	// contentVerbWeight and contentClarityWeight blend the content category
	contentVerbWeight    = 0.5
	contentClarityWeight = 0.5

	// requiredCoverageWeight and preferredCoverageWeight blend the skills category
	requiredCoverageWeight  = 0.75
	preferredCoverageWeight = 0.25
)

// Weights are the per-category multipliers of the overall score
type Weights struct {
	Content    float64 `json:"content" yaml:"content" validate:"gte=0,lte=1"`
	Structure  float64 `json:"structure" yaml:"structure" validate:"gte=0,lte=1"`
	Keywords   float64 `json:"keywords" yaml:"keywords" validate:"gte=0,lte=1"`
	Experience float64 `json:"experience" yaml:"experience" validate:"gte=0,lte=1"`
	Skills     float64 `json:"skills" yaml:"skills" validate:"gte=0,lte=1"`
}

// DefaultWeights returns 0.25 for every category
func DefaultWeights() Weights {
	return Weights{
		Content:    DefaultCategoryWeight,
		Structure:  DefaultCategoryWeight,
		Keywords:   DefaultCategoryWeight,
		Experience: DefaultCategoryWeight,
		Skills:     DefaultCategoryWeight,
	}
}

// Validate rejects negative weights
func (w Weights) Validate() error {
	for _, f := range []float64{w.Content, w.Structure, w.Keywords, w.Experience, w.Skills} {
		if f < 0 || math.IsNaN(f) {
			return fmt.Errorf("category weight must be non-negative, got %v", f)
		}
	}
	return nil
}

// Aggregator maps analyzer results to category scores and an overall score
type Aggregator struct {
	weights Weights
}

// NewAggregator creates an aggregator with the given weights
func NewAggregator(w Weights) *Aggregator {
	return &Aggregator{weights: w}
}

// Weights returns the configured weights
func (a *Aggregator) Weights() Weights {
	return a.weights
}

// Categories derives the five category scores. A category whose analyzer
// failed receives NeutralScore.
func (a *Aggregator) Categories(in Input, details *types.AnalysisDetails) types.CategoryScores {
	if details == nil {
		details = &types.AnalysisDetails{}
	}
	verbs, clarity := NeutralScore, NeutralScore
	if details.ActionVerbs != nil {
		verbs = details.ActionVerbs.Score
	}
	if details.Clarity != nil {
		clarity = details.Clarity.Score
	}

	scores := types.CategoryScores{
		Content:    clampFloat(contentVerbWeight*float64(verbs) + contentClarityWeight*float64(clarity)),
		Structure:  NeutralScore,
		Keywords:   keywordsCategory(in, details.KeywordMatching),
		Experience: NeutralScore,
		Skills:     skillsCategory(in, details.KeywordMatching),
	}
	if details.ATS != nil {
		scores.Structure = clamp(details.ATS.Score)
	}
	if details.Quantification != nil {
		scores.Experience = clamp(details.Quantification.Score)
	}
	return scores
}

// Overall computes round(Σ weight·category), rounding once at the end
func (a *Aggregator) Overall(scores types.CategoryScores) int {
	w := a.weights
	sum := w.Content*float64(scores.Content) +
		w.Structure*float64(scores.Structure) +
		w.Keywords*float64(scores.Keywords) +
		w.Experience*float64(scores.Experience) +
		w.Skills*float64(scores.Skills)
	return int(math.Round(sum))
}

func keywordsCategory(in Input, km *types.KeywordMatchResult) int {
	if in.Requirements == nil {
		return 0
	}
	if km == nil {
		return NeutralScore
	}
	return clamp(km.Score)
}

// skillsCategory blends required and preferred coverage against a job,
// or rewards a listed skills section when there is no job.
func skillsCategory(in Input, km *types.KeywordMatchResult) int {
	if in.Requirements == nil {
		if in.Resume != nil && len(in.Resume.Sections.Skills) > 0 {
			return NeutralScore
		}
		return 0
	}
	if km == nil {
		return NeutralScore
	}
	switch {
	case km.RequiredTotal == 0 && km.PreferredTotal == 0:
		return 0
	case km.PreferredTotal == 0:
		return percent(km.RequiredMatched, km.RequiredTotal)
	case km.RequiredTotal == 0:
		return percent(km.PreferredMatched, km.PreferredTotal)
	}
	req := float64(km.RequiredMatched) / float64(km.RequiredTotal)
	pref := float64(km.PreferredMatched) / float64(km.PreferredTotal)
	return clampFloat(100 * (requiredCoverageWeight*req + preferredCoverageWeight*pref))
}
