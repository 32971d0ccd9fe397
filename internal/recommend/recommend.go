// Package recommend turns analyzer evidence into prioritized recommendations,
// strengths and improvement areas.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Priority thresholds on the owning category score
const (
	HighPriorityBelow   = 50
	MediumPriorityBelow = 75
)

// idNamespace scopes deterministic recommendation ids
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("resume-analyzer/recommendation"))

var categoryImpact = map[types.Category]string{
	types.CategoryContent:    "Strong, concise statements make each achievement read as a result instead of a duty.",
	types.CategoryStructure:  "Applicant tracking systems can parse the résumé reliably, so it reaches a human reviewer.",
	types.CategoryKeywords:   "Matching the job's vocabulary raises the résumé in keyword-based screening.",
	types.CategoryExperience: "Numbers let reviewers judge the scale of your work at a glance.",
	types.CategorySkills:     "Listing the skills the role requires shows a direct fit for the position.",
}

// PriorityFor maps a category score to a priority. Blocking issues are always high.
func PriorityFor(score int, blocking bool) types.Priority {
	switch {
	case blocking || score < HighPriorityBelow:
		return types.PriorityHigh
	case score < MediumPriorityBelow:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

// Generator builds recommendations from analysis details
type Generator struct {
	maxPerCategory int
}

// NewGenerator creates a generator. maxPerCategory <= 0 means no limit.
func NewGenerator(maxPerCategory int) *Generator {
	return &Generator{maxPerCategory: maxPerCategory}
}

// Generate emits recommendations for every weak signal in details, ordered
// high, medium, low and stable within a priority. Titles are unique within
// a category.
func (g *Generator) Generate(in scoring.Input, details *types.AnalysisDetails, scores types.CategoryScores) []types.Recommendation {
	b := &builder{
		scores:  scores,
		seen:    map[string]bool{},
		counts:  map[types.Category]int{},
		limit:   g.maxPerCategory,
		results: []types.Recommendation{},
	}
	if details == nil {
		return b.results
	}

	b.actionVerbs(details.ActionVerbs)
	b.clarity(details.Clarity)
	b.quantification(in.Resume, details.Quantification)
	if in.Requirements != nil {
		b.keywords(details.KeywordMatching)
		b.skills(in.Requirements, details.KeywordMatching)
	}
	b.ats(details.ATS)

	sort.SliceStable(b.results, func(i, j int) bool {
		return b.results[i].Priority.Rank() < b.results[j].Priority.Rank()
	})
	return b.results
}

type builder struct {
	scores  types.CategoryScores
	seen    map[string]bool
	counts  map[types.Category]int
	limit   int
	results []types.Recommendation
}

// add appends a recommendation unless its title already exists in the category
func (b *builder) add(cat types.Category, priority types.Priority, title, description string, ex types.Examples) {
	key := string(cat) + "\x00" + strings.ToLower(title)
	if b.seen[key] {
		return
	}
	if b.limit > 0 && b.counts[cat] >= b.limit {
		return
	}
	b.seen[key] = true
	b.counts[cat]++
	b.results = append(b.results, types.Recommendation{
		ID:          RecommendationID(cat, title),
		Category:    cat,
		Priority:    priority,
		Title:       title,
		Description: description,
		Examples:    ex,
		Impact:      categoryImpact[cat],
	})
}

func (b *builder) priority(cat types.Category) types.Priority {
	return PriorityFor(b.scores.Get(cat), false)
}

func (b *builder) actionVerbs(r *types.ActionVerbResult) {
	if r == nil {
		return
	}
	for _, s := range r.Suggestions {
		b.add(types.CategoryContent, b.priority(types.CategoryContent),
			fmt.Sprintf("Replace the weak verb %q", s.WeakVerb),
			fmt.Sprintf("Statements starting with %q describe activity rather than results. Try %s.",
				s.WeakVerb, strings.Join(s.Suggestions, ", ")),
			types.Examples{Before: s.Original, After: s.Example})
	}
}

func (b *builder) clarity(r *types.ClarityResult) {
	if r == nil || r.SentenceCount == 0 {
		return
	}
	if len(r.LongSentences) > 0 {
		b.add(types.CategoryContent, b.priority(types.CategoryContent),
			"Shorten long sentences",
			fmt.Sprintf("%d sentence(s) are hard to scan. Keep each statement to a single idea.", len(r.LongSentences)),
			types.Examples{
				Before: r.LongSentences[0],
				After:  "Split the sentence into two statements that each open with an action verb.",
			})
	}
	if r.ImpactScore < HighPriorityBelow {
		b.add(types.CategoryContent, b.priority(types.CategoryContent),
			"Use results-oriented language",
			"Few statements use outcome words such as increased, reduced or improved.",
			types.Examples{After: "Reduced page load time by 35% by introducing response caching."})
	}
	if r.ToneScore < HighPriorityBelow {
		b.add(types.CategoryContent, PriorityFor(r.ToneScore, false),
			"Replace passive phrasing",
			`Phrases like "responsible for" or "worked on" understate your role.`,
			types.Examples{Before: "Responsible for the deployment pipeline.", After: "Owned the deployment pipeline used by 40 engineers."})
	}
}

func (b *builder) quantification(resume *types.ResumeContent, r *types.QuantificationResult) {
	if r == nil || resume == nil {
		return
	}
	if r.TotalAchievements == 0 && len(resume.Sections.Experience) > 0 {
		b.add(types.CategoryExperience, types.PriorityHigh,
			"Add achievement bullet points",
			"Experience entries list no achievements. Add two to four bullet points per role.",
			types.Examples{After: "Cut infrastructure costs by $120K per year by consolidating clusters."})
		return
	}
	firstAchievement := map[string]string{}
	for _, e := range resume.Sections.Experience {
		if len(e.Achievements) > 0 {
			if _, ok := firstAchievement[e.Key()]; !ok {
				firstAchievement[e.Key()] = e.Achievements[0]
			}
		}
	}
	for _, key := range r.MissingQuantification {
		b.add(types.CategoryExperience, b.priority(types.CategoryExperience),
			fmt.Sprintf("Quantify achievements at %s", key),
			"None of the achievements for this role include a number, percentage or amount.",
			types.Examples{
				Before: firstAchievement[key],
				After:  "Improved checkout conversion by 12% across 3 markets.",
			})
	}
}

func (b *builder) keywords(r *types.KeywordMatchResult) {
	if r == nil || len(r.MissingKeywords) == 0 {
		return
	}
	b.add(types.CategoryKeywords, b.priority(types.CategoryKeywords),
		"Add missing job keywords",
		fmt.Sprintf("The job description mentions %s, which the résumé does not.", strings.Join(r.MissingKeywords, ", ")),
		types.Examples{After: fmt.Sprintf("Built services with %s in production.", r.MissingKeywords[0])})
}

func (b *builder) skills(reqs *types.JobRequirements, r *types.KeywordMatchResult) {
	if r == nil {
		return
	}
	missing := map[string]bool{}
	for _, kw := range r.MissingKeywords {
		missing[strings.ToLower(kw)] = true
	}
	for _, skill := range reqs.RequiredSkills {
		if !missing[strings.ToLower(skill)] {
			continue
		}
		b.add(types.CategorySkills, b.priority(types.CategorySkills),
			fmt.Sprintf("Show experience with %s", skill),
			fmt.Sprintf("%s is a required skill for this role. If you have used it, name it in your skills and experience.", skill),
			types.Examples{After: fmt.Sprintf("Skills: %s", skill)})
	}
}

func (b *builder) ats(r *types.ATSResult) {
	if r == nil {
		return
	}
	score := b.scores.Get(types.CategoryStructure)
	for i, issue := range r.Issues {
		title := issue.Details
		if i < len(r.Suggestions) {
			title = r.Suggestions[i]
		}
		b.add(types.CategoryStructure, PriorityFor(score, issue.Blocking()),
			title, issue.Details, types.Examples{Before: issue.Line, After: title})
	}
	for _, advice := range r.Suggestions[min(len(r.Issues), len(r.Suggestions)):] {
		b.add(types.CategoryStructure, types.PriorityLow, advice, advice, types.Examples{After: advice})
	}
}

// RecommendationID derives a stable id from the category and title
func RecommendationID(cat types.Category, title string) string {
	return uuid.NewSHA1(idNamespace, []byte(string(cat)+":"+strings.ToLower(title))).String()
}
