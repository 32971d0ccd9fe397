package recommend

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Category thresholds for strengths and improvement areas
const (
	StrengthAtLeast  = 75
	ImprovementBelow = 60
)

var categoryLabels = map[types.Category]string{
	types.CategoryContent:    "Content quality",
	types.CategoryStructure:  "ATS compatibility",
	types.CategoryKeywords:   "Keyword alignment",
	types.CategoryExperience: "Quantified experience",
	types.CategorySkills:     "Skills coverage",
}

// Summarize lists strengths and improvement areas. Keywords are not judged
// when there is no job description.
func Summarize(in scoring.Input, details *types.AnalysisDetails, scores types.CategoryScores) (strengths, improvements []string) {
	strengths, improvements = []string{}, []string{}
	for _, cat := range types.Categories {
		if cat == types.CategoryKeywords && in.Requirements == nil {
			continue
		}
		score := scores.Get(cat)
		switch {
		case score >= StrengthAtLeast:
			strengths = append(strengths, fmt.Sprintf("%s is strong (%d/100)", categoryLabels[cat], score))
		case score < ImprovementBelow:
			improvements = append(improvements, fmt.Sprintf("%s needs work (%d/100)", categoryLabels[cat], score))
		}
	}
	if details == nil {
		return strengths, improvements
	}

	if av := details.ActionVerbs; av != nil && len(av.StrongVerbs) >= 3 {
		strengths = append(strengths, "Uses strong action verbs such as "+strings.Join(av.StrongVerbs[:3], ", "))
	}
	if q := details.Quantification; q != nil && q.TotalAchievements > 0 {
		line := fmt.Sprintf("Quantifies %d of %d achievements", q.QuantifiedCount, q.TotalAchievements)
		if q.Score >= HighPriorityBelow {
			strengths = append(strengths, line)
		} else {
			improvements = append(improvements, line)
		}
	}
	if km := details.KeywordMatching; km != nil && in.Requirements != nil && km.TotalJobKeywords > 0 {
		line := fmt.Sprintf("Matches %d of %d job keywords", len(km.MatchedKeywords), km.TotalJobKeywords)
		if km.MatchPercentage >= StrengthAtLeast {
			strengths = append(strengths, line)
		} else if km.MatchPercentage < ImprovementBelow {
			improvements = append(improvements, line)
		}
	}
	return strengths, improvements
}
