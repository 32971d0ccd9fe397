package scoring

import (
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// AnalyzeKeywords measures how many job skills appear in the résumé text.
// Without requirements the score is 0 and every list is empty.
func AnalyzeKeywords(resume *types.ResumeContent, reqs *types.JobRequirements) *types.KeywordMatchResult {
	result := &types.KeywordMatchResult{
		MatchedKeywords: []string{},
		MissingKeywords: []string{},
	}
	if resume == nil || reqs == nil {
		return result
	}

	text := strings.ToLower(resume.RawText)
	required := dedupeKeywords(reqs.RequiredSkills, nil)
	preferred := dedupeKeywords(reqs.PreferredSkills, required)

	for _, kw := range required {
		result.RequiredTotal++
		if strings.Contains(text, strings.ToLower(kw)) {
			result.RequiredMatched++
			result.MatchedKeywords = append(result.MatchedKeywords, kw)
		} else {
			result.MissingKeywords = append(result.MissingKeywords, kw)
		}
	}
	for _, kw := range preferred {
		result.PreferredTotal++
		if strings.Contains(text, strings.ToLower(kw)) {
			result.PreferredMatched++
			result.MatchedKeywords = append(result.MatchedKeywords, kw)
		} else {
			result.MissingKeywords = append(result.MissingKeywords, kw)
		}
	}

	result.TotalJobKeywords = len(required) + len(preferred)
	result.MatchPercentage = percent(len(result.MatchedKeywords), result.TotalJobKeywords)
	result.Score = result.MatchPercentage
	return result
}

// dedupeKeywords drops blanks and case-insensitive duplicates, including
// any term already present in exclude.
func dedupeKeywords(terms, exclude []string) []string {
	seen := make(map[string]bool, len(terms)+len(exclude))
	for _, t := range exclude {
		seen[strings.ToLower(t)] = true
	}
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
