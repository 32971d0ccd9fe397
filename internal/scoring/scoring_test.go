package scoring

import (
	"testing"

	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVocab(t *testing.T) *vocab.Vocabulary {
	t.Helper()
	v, err := vocab.Default()
	require.NoError(t, err)
	return v
}

func resumeWith(achievements ...string) *types.ResumeContent {
	r := types.NewResumeContent("")
	r.Sections.Experience = []types.ExperienceEntry{{
		Company:      "Acme Corp",
		Position:     "Software Engineer",
		Achievements: achievements,
	}}
	for _, a := range achievements {
		r.RawText += a + "\n"
	}
	return r
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(3, 0))
	assert.Equal(t, 67, percent(4, 6))
	assert.Equal(t, 50, percent(1, 2))
	assert.Equal(t, 100, percent(5, 5))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-12))
	assert.Equal(t, 100, clamp(140))
	assert.Equal(t, 42, clamp(42))
	assert.Equal(t, 43, clampFloat(42.5))
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Built APIs in Node.js. Shipped weekly!  Why not? ")
	assert.Equal(t, []string{"Built APIs in Node.js", "Shipped weekly", "Why not"}, got)
	assert.Empty(t, splitSentences("   "))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"Built", "C++", "services", "in", "Node.js"}, words("Built C++ services, in Node.js."))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "abc...", excerpt("abcdef", 3))
}
