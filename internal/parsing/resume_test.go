package parsing

import (
	"errors"
	"testing"

	"github.com/jonathan/resume-analyzer/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane.doe@example.com | (555) 123-4567
San Francisco, CA

SUMMARY
Backend engineer with eight years of experience building payment systems.

EXPERIENCE
Senior Software Engineer at Acme Corp
Jan 2020 - Present
- Increased application performance by 40%
- Led a team of 5 developers
• Mentored junior engineers

Software Engineer | Globex | 2016 - 2019
Worked on internal tooling for the data platform team.
1. Did various programming tasks

EDUCATION
B.S. Computer Science, State University, 2016
- Graduated magna cum laude

SKILLS
Languages: Go, Python, javascript
AWS; Docker | Kubernetes

CERTIFICATIONS
- AWS Certified Solutions Architect

PROJECTS
- Side project that should not become an achievement
`

func newParser() *ResumeParser {
	return NewResumeParser(vocab.MustDefault())
}

func TestParse_FullResume(t *testing.T) {
	content := newParser().Parse(sampleResume)
	sections := content.Sections

	assert.Equal(t, sampleResume, content.RawText)
	assert.Equal(t, "Jane Doe", sections.ContactInfo.Name)
	assert.Equal(t, "jane.doe@example.com", sections.ContactInfo.Email)
	assert.Equal(t, "(555) 123-4567", sections.ContactInfo.Phone)
	assert.Equal(t, "Backend engineer with eight years of experience building payment systems.", sections.Summary)

	require.Len(t, sections.Experience, 2)
	first := sections.Experience[0]
	assert.Equal(t, "Senior Software Engineer", first.Position)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "Jan 2020", first.StartDate)
	assert.Equal(t, "Present", first.EndDate)
	assert.Equal(t, []string{
		"Increased application performance by 40%",
		"Led a team of 5 developers",
		"Mentored junior engineers",
	}, first.Achievements)

	second := sections.Experience[1]
	assert.Equal(t, "Software Engineer", second.Position)
	assert.Equal(t, "Globex", second.Company)
	assert.Equal(t, "2016", second.StartDate)
	assert.Equal(t, "2019", second.EndDate)
	assert.Equal(t, "Worked on internal tooling for the data platform team.", second.Description)
	assert.Equal(t, []string{"Did various programming tasks"}, second.Achievements)

	require.Len(t, sections.Education, 1)
	assert.Equal(t, "B.S. Computer Science", sections.Education[0].Degree)
	assert.Equal(t, "State University", sections.Education[0].Institution)
	assert.Equal(t, "2016", sections.Education[0].EndDate)
	assert.Equal(t, []string{"Graduated magna cum laude"}, sections.Education[0].Qualifications)

	assert.Equal(t, []string{"Go", "Python", "JavaScript", "AWS", "Docker", "Kubernetes"}, sections.Skills)
	assert.Equal(t, []string{"AWS Certified Solutions Architect"}, sections.Certifications)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t\n  "} {
		content := newParser().Parse(input)

		assert.Equal(t, input, content.RawText)
		assert.Empty(t, content.Sections.Experience)
		assert.Empty(t, content.Sections.Education)
		assert.Empty(t, content.Sections.Skills)
		assert.Empty(t, content.Sections.Certifications)
		assert.NotNil(t, content.Sections.Experience)
		assert.NotNil(t, content.Sections.Skills)
		assert.Empty(t, content.Sections.Summary)
		assert.Empty(t, content.Sections.ContactInfo)
	}
}

func TestParse_NoHeadings(t *testing.T) {
	text := "John Smith\njohn@smith.dev\nI am a product designer who loves building delightful consumer experiences."
	content := newParser().Parse(text)

	assert.Equal(t, "John Smith", content.Sections.ContactInfo.Name)
	assert.Equal(t, "john@smith.dev", content.Sections.ContactInfo.Email)
	assert.Empty(t, content.Sections.ContactInfo.Phone)
	assert.Contains(t, content.Sections.Summary, "product designer")
	assert.Empty(t, content.Sections.Experience)
}

func TestParse_FirstContactMatchWins(t *testing.T) {
	text := "Ada Lovelace\nada@first.org\nalt@second.org\n+1 555 000 1111\n555-222-3333\n\nSkills\nMath"
	contact := newParser().Parse(text).Sections.ContactInfo

	assert.Equal(t, "Ada Lovelace", contact.Name)
	assert.Equal(t, "ada@first.org", contact.Email)
	assert.Equal(t, "+1 555 000 1111", contact.Phone)
}

func TestParse_BulletsBeforeAnyHeader(t *testing.T) {
	text := "Experience\n- Shipped the billing rewrite\n- Cut costs by $2M"
	content := newParser().Parse(text)

	require.Len(t, content.Sections.Experience, 1)
	entry := content.Sections.Experience[0]
	assert.Empty(t, entry.Company)
	assert.Empty(t, entry.Position)
	assert.Len(t, entry.Achievements, 2)
}

func TestParse_TwoLineHeader(t *testing.T) {
	text := "Work Experience:\nStaff Engineer\nInitech, Inc\nAustin, TX\n03/2018 - 06/2021\n- Built the thing"
	content := newParser().Parse(text)

	require.Len(t, content.Sections.Experience, 1)
	entry := content.Sections.Experience[0]
	assert.Equal(t, "Staff Engineer", entry.Position)
	assert.Equal(t, "Initech, Inc", entry.Company)
	assert.Equal(t, "03/2018", entry.StartDate)
	assert.Equal(t, "06/2021", entry.EndDate)
	assert.Equal(t, []string{"Built the thing"}, entry.Achievements)
}

func TestParse_Deterministic(t *testing.T) {
	a := newParser().Parse(sampleResume)
	b := newParser().Parse(sampleResume)
	assert.Equal(t, a, b)
}

func TestParseBytes(t *testing.T) {
	p := newParser()

	t.Run("nil is an input error", func(t *testing.T) {
		_, err := p.ParseBytes(nil)
		var inputErr *InputError
		require.True(t, errors.As(err, &inputErr))
		assert.Equal(t, "resume_text", inputErr.Field)
	})

	t.Run("invalid utf-8 is an input error", func(t *testing.T) {
		_, err := p.ParseBytes([]byte{0xff, 0xfe, 0xfd})
		var inputErr *InputError
		assert.True(t, errors.As(err, &inputErr))
	})

	t.Run("empty bytes parse", func(t *testing.T) {
		content, err := p.ParseBytes([]byte{})
		require.NoError(t, err)
		assert.Empty(t, content.Sections.Experience)
	})
}

func TestInputError_Message(t *testing.T) {
	err := &InputError{Field: "resume_text", Message: "is required", Cause: errors.New("boom")}
	assert.Equal(t, "invalid input: resume_text: is required: boom", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "boom")
	assert.Equal(t, "invalid input: missing", (&InputError{Message: "missing"}).Error())
}

func TestExtractDates(t *testing.T) {
	tests := []struct {
		line  string
		start string
		end   string
		rest  string
	}{
		{"Jan 2020 - Present", "Jan 2020", "Present", ""},
		{"Engineer | Acme | March 2019 – Dec 2021", "March 2019", "Dec 2021", "Engineer | Acme"},
		{"Acme (2015 to 2017)", "2015", "2017", "Acme"},
		{"State University, 2016", "2016", "", "State University"},
		{"Grew revenue in 2021 by 30%", "", "", "Grew revenue in 2021 by 30%"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			start, end, rest := extractDates(tt.line)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
			assert.Equal(t, tt.rest, rest)
		})
	}
}
