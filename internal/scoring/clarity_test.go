package scoring

import (
	"strings"
	"testing"

	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeClarity_LongSentence(t *testing.T) {
	v := testVocab(t)
	r := types.NewResumeContent("")
	r.Sections.Summary = strings.TrimSpace(strings.Repeat("engineer with deep experience ", 8)) + "."

	result := AnalyzeClarity(v, r, DefaultLongSentenceWords)

	require.Len(t, result.ReadabilityIssues, 1)
	assert.Contains(t, result.ReadabilityIssues[0], "too long")
	assert.Contains(t, result.ReadabilityIssues[0], "32 words")
	assert.Len(t, result.LongSentences, 1)
	assert.Equal(t, 32, result.WordCount)
	assert.Equal(t, 1, result.SentenceCount)
	assert.Equal(t, 0, result.ClarityScore)
}

func TestAnalyzeClarity_ImpactAndTone(t *testing.T) {
	v := testVocab(t)
	result := AnalyzeClarity(v, resumeWith("Increased revenue by 20%", "Reduced costs by 10%"), DefaultLongSentenceWords)

	assert.Equal(t, []string{"increased", "reduced"}, result.ImpactWords)
	assert.Empty(t, result.ReadabilityIssues)
	assert.Equal(t, 2, result.SentenceCount)
	assert.Equal(t, 8, result.WordCount)
	assert.InDelta(t, 4.0, result.AverageSentenceLength, 0.001)
	assert.Equal(t, 100, result.ClarityScore)
	assert.Equal(t, 100, result.ImpactScore)
	assert.Equal(t, 50, result.ToneScore)
	assert.Equal(t, 90, result.Score)
}

func TestAnalyzeClarity_NegativePhrasesLowerTone(t *testing.T) {
	v := testVocab(t)
	result := AnalyzeClarity(v, resumeWith("Responsible for various things"), DefaultLongSentenceWords)

	assert.Less(t, result.ToneScore, 50)
	assert.Empty(t, result.ImpactWords)
	assert.Equal(t, 0, result.ImpactScore)
}

func TestAnalyzeClarity_ThresholdIsConfigurable(t *testing.T) {
	v := testVocab(t)
	r := resumeWith("Built and shipped a scheduling service for clinics")

	assert.Empty(t, AnalyzeClarity(v, r, 25).ReadabilityIssues)
	assert.Len(t, AnalyzeClarity(v, r, 5).ReadabilityIssues, 1)
}

func TestAnalyzeClarity_Empty(t *testing.T) {
	v := testVocab(t)
	result := AnalyzeClarity(v, types.NewResumeContent(""), DefaultLongSentenceWords)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.WordCount)
	assert.NotNil(t, result.ReadabilityIssues)
	assert.NotNil(t, result.ImpactWords)
}

func TestAnalyzeClarity_ScoresBounded(t *testing.T) {
	v := testVocab(t)
	r := resumeWith(
		"Successfully increased record growth with award winning innovative leadership",
		"Recognized for excellence and promoted twice",
	)
	result := AnalyzeClarity(v, r, DefaultLongSentenceWords)
	for _, s := range []int{result.Score, result.ClarityScore, result.ImpactScore, result.ToneScore} {
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
	}
}
