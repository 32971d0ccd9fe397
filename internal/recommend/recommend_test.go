package recommend

import (
	"testing"

	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, in scoring.Input) (*types.AnalysisDetails, types.CategoryScores) {
	t.Helper()
	v, err := vocab.Default()
	require.NoError(t, err)
	details := scoring.NewEngine(v, scoring.Options{}).Analyze(in)
	return details, scoring.NewAggregator(scoring.DefaultWeights()).Categories(in, details)
}

func weakResume() *types.ResumeContent {
	r := types.NewResumeContent("Did various programming tasks\nWorked on the billing system")
	r.Sections.Experience = []types.ExperienceEntry{{
		Company:      "Globex",
		Position:     "Engineer",
		Achievements: []string{"Did various programming tasks", "Worked on the billing system"},
	}}
	return r
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		score    int
		blocking bool
		want     types.Priority
	}{
		{10, false, types.PriorityHigh},
		{49, false, types.PriorityHigh},
		{50, false, types.PriorityMedium},
		{74, false, types.PriorityMedium},
		{75, false, types.PriorityLow},
		{95, true, types.PriorityHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriorityFor(tt.score, tt.blocking), "score %d blocking %v", tt.score, tt.blocking)
	}
}

func TestGenerate_WeakVerbs(t *testing.T) {
	in := scoring.Input{Resume: weakResume()}
	details, scores := analyze(t, in)

	recs := NewGenerator(0).Generate(in, details, scores)

	var verbRec *types.Recommendation
	for i := range recs {
		if recs[i].Title == `Replace the weak verb "did"` {
			verbRec = &recs[i]
		}
	}
	require.NotNil(t, verbRec)
	assert.Equal(t, types.CategoryContent, verbRec.Category)
	assert.Equal(t, "Did various programming tasks", verbRec.Examples.Before)
	assert.Equal(t, "Executed various programming tasks", verbRec.Examples.After)
	assert.NotEmpty(t, verbRec.Impact)
	assert.NotEmpty(t, verbRec.ID)
}

func TestGenerate_OrderedByPriority(t *testing.T) {
	in := scoring.Input{
		Resume:       weakResume(),
		Requirements: &types.JobRequirements{RequiredSkills: []string{"Kafka"}, PreferredSkills: []string{"Go"}},
	}
	details, scores := analyze(t, in)

	recs := NewGenerator(0).Generate(in, details, scores)

	require.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority.Rank(), recs[i].Priority.Rank())
	}
}

func TestGenerate_UniqueTitlesWithinCategory(t *testing.T) {
	in := scoring.Input{
		Resume:       weakResume(),
		Requirements: &types.JobRequirements{RequiredSkills: []string{"Kafka", "kafka"}},
	}
	details, scores := analyze(t, in)

	recs := NewGenerator(0).Generate(in, details, scores)

	seen := map[string]bool{}
	for _, r := range recs {
		key := string(r.Category) + "|" + r.Title
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
	}
}

func TestGenerate_SameTitleAcrossCategoriesKept(t *testing.T) {
	b := &builder{seen: map[string]bool{}, counts: map[types.Category]int{}}
	b.add(types.CategoryContent, types.PriorityLow, "Tighten wording", "", types.Examples{})
	b.add(types.CategoryContent, types.PriorityHigh, "tighten wording", "", types.Examples{})
	b.add(types.CategoryStructure, types.PriorityLow, "Tighten wording", "", types.Examples{})

	require.Len(t, b.results, 2)
	assert.NotEqual(t, b.results[0].ID, b.results[1].ID)
}

func TestGenerate_BlockingATSIssueIsHigh(t *testing.T) {
	details := &types.AnalysisDetails{ATS: &types.ATSResult{
		Score:       85,
		Issues:      []types.Violation{{Type: scoring.IssueTableLayout, Severity: types.SeverityError, Details: "table"}},
		Suggestions: []string{"Replace tables", "Add a summary"},
	}}
	recs := NewGenerator(0).Generate(scoring.Input{}, details, types.CategoryScores{Structure: 85})

	require.Len(t, recs, 2)
	assert.Equal(t, "Replace tables", recs[0].Title)
	assert.Equal(t, types.PriorityHigh, recs[0].Priority)
	assert.Equal(t, "Add a summary", recs[1].Title)
	assert.Equal(t, types.PriorityLow, recs[1].Priority)
}

func TestGenerate_ATSExampleQuotesOffendingLine(t *testing.T) {
	details := &types.AnalysisDetails{ATS: &types.ATSResult{
		Score: 85,
		Issues: []types.Violation{{
			Type:     scoring.IssueTableLayout,
			Severity: types.SeverityError,
			Details:  "Found 1 line(s) that look like a table or column layout",
			Line:     "| Skill | Years | Level |",
		}},
		Suggestions: []string{"Replace tables and columns with a single-column layout"},
	}}
	recs := NewGenerator(0).Generate(scoring.Input{}, details, types.CategoryScores{Structure: 85})

	require.Len(t, recs, 1)
	assert.Equal(t, "| Skill | Years | Level |", recs[0].Examples.Before)
	assert.Equal(t, "Replace tables and columns with a single-column layout", recs[0].Examples.After)
}

func TestGenerate_NoJobSkipsKeywordAdvice(t *testing.T) {
	in := scoring.Input{Resume: weakResume()}
	details, scores := analyze(t, in)

	for _, r := range NewGenerator(0).Generate(in, details, scores) {
		assert.NotEqual(t, types.CategoryKeywords, r.Category)
		assert.NotEqual(t, types.CategorySkills, r.Category)
	}
}

func TestGenerate_LimitPerCategory(t *testing.T) {
	in := scoring.Input{Resume: weakResume()}
	details, scores := analyze(t, in)

	counts := map[types.Category]int{}
	for _, r := range NewGenerator(1).Generate(in, details, scores) {
		counts[r.Category]++
	}
	for cat, n := range counts {
		assert.Equal(t, 1, n, "category %s", cat)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	in := scoring.Input{Resume: weakResume(), Requirements: &types.JobRequirements{RequiredSkills: []string{"Go"}}}
	details, scores := analyze(t, in)
	g := NewGenerator(0)
	assert.Equal(t, g.Generate(in, details, scores), g.Generate(in, details, scores))
}

func TestGenerate_NilDetails(t *testing.T) {
	recs := NewGenerator(0).Generate(scoring.Input{}, nil, types.CategoryScores{})
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommendationID_Stable(t *testing.T) {
	a := RecommendationID(types.CategoryContent, "Shorten long sentences")
	assert.Equal(t, a, RecommendationID(types.CategoryContent, "shorten long sentences"))
	assert.NotEqual(t, a, RecommendationID(types.CategoryStructure, "Shorten long sentences"))
}
