package scoring

import (
	"regexp"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// quantifiedRe matches numbers, percentages, currency and multiplier words
var quantifiedRe = regexp.MustCompile(`(?i)\d|%|[$€£¥]|\b(?:doubled|tripled|quadrupled|halved|tenfold)\b`)

// IsQuantified reports whether an achievement carries a measurable result
func IsQuantified(achievement string) bool {
	return quantifiedRe.MatchString(achievement)
}

// AnalyzeQuantification counts achievements that state a measurable result,
// grouped by "{company} - {position}".
func AnalyzeQuantification(resume *types.ResumeContent) *types.QuantificationResult {
	result := &types.QuantificationResult{
		QuantifiedAchievements: map[string][]string{},
		MissingQuantification:  []string{},
	}
	if resume == nil {
		return result
	}

	for _, entry := range resume.Sections.Experience {
		key := entry.Key()
		matched := 0
		for _, achievement := range entry.Achievements {
			result.TotalAchievements++
			if IsQuantified(achievement) {
				matched++
				result.QuantifiedAchievements[key] = append(result.QuantifiedAchievements[key], achievement)
			}
		}
		if matched == 0 && len(entry.Achievements) > 0 {
			result.MissingQuantification = append(result.MissingQuantification, key)
		}
		result.QuantifiedCount += matched
	}

	result.Score = percent(result.QuantifiedCount, result.TotalAchievements)
	return result
}
