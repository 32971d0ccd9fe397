package vocab

import (
	"sync"
	"testing"

	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllFilesParse(t *testing.T) {
	v, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, v.SkillTerms())
	assert.NotEmpty(t, v.ImpactWords())
	assert.NotEmpty(t, v.EducationTerms())
	assert.NotEmpty(t, v.CertificationTerms())
	assert.NotEmpty(t, v.LevelKeywords())
	assert.NotEmpty(t, v.NegativePhrases())
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b := MustDefault()
	assert.Same(t, a, b)
}

func TestStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Managed", "manag"},
		{"managing", "manag"},
		{"manages", "manag"},
		{"manage", "manag"},
		{"increased", "increas"},
		{"led", "led"},
		{"leads", "lead"},
		{"did", "did"},
		{"process", "process"},
		{"was", "was"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Stem(tt.in))
		})
	}
}

func TestIsStrongVerb(t *testing.T) {
	v := MustDefault()
	for _, verb := range []string{"Increased", "led", "Leading", "managed", "spearheads", "built"} {
		assert.True(t, v.IsStrongVerb(verb), verb)
	}
	for _, verb := range []string{"did", "worked", "helped", "was"} {
		assert.False(t, v.IsStrongVerb(verb), verb)
	}
}

func TestVerbSuggestions(t *testing.T) {
	v := MustDefault()

	t.Run("curated", func(t *testing.T) {
		got := v.VerbSuggestions("Did", 3)
		assert.Equal(t, []string{"Executed", "Delivered", "Completed"}, got)
	})

	t.Run("inflection shares suggestions", func(t *testing.T) {
		assert.Equal(t, v.VerbSuggestions("worked", 3), v.VerbSuggestions("working", 3))
	})

	t.Run("fallback for unknown verb", func(t *testing.T) {
		got := v.VerbSuggestions("pondered", 2)
		assert.Len(t, got, 2)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		got := v.VerbSuggestions("did", 3)
		got[0] = "mutated"
		assert.Equal(t, "Executed", v.VerbSuggestions("did", 3)[0])
	})
}

func TestHeadingSection(t *testing.T) {
	v := MustDefault()
	tests := []struct {
		line string
		want Section
		ok   bool
	}{
		{"EXPERIENCE", SectionExperience, true},
		{"Work Experience:", SectionExperience, true},
		{"## Education", SectionEducation, true},
		{"Technical Skills", SectionSkills, true},
		{"Licenses & Certifications", SectionCertifications, true},
		{"Professional Summary", SectionSummary, true},
		{"Projects", SectionOther, true},
		{"Built a distributed cache", SectionNone, false},
		{"", SectionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := v.HeadingSection(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalSkill(t *testing.T) {
	v := MustDefault()
	got, ok := v.CanonicalSkill("nodejs")
	assert.True(t, ok)
	assert.Equal(t, "Node.js", got)

	got, ok = v.CanonicalSkill("javascript")
	assert.True(t, ok)
	assert.Equal(t, "JavaScript", got)

	_, ok = v.CanonicalSkill("basket weaving")
	assert.False(t, ok)
}

func TestLevelKeywords_Order(t *testing.T) {
	levels := MustDefault().LevelKeywords()
	require.NotEmpty(t, levels)
	assert.Equal(t, types.LevelExecutive, levels[0].Level)
}

func TestVocabulary_ConcurrentReads(t *testing.T) {
	v := MustDefault()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = v.IsStrongVerb("delivered")
			_ = v.SkillTerms()
			_, _ = v.HeadingSection("skills")
		}()
	}
	wg.Wait()
}
