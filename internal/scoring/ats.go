package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// ATS deductions, in points from a perfect 100
const (
	deductMissingEmail      = 15
	deductMissingPhone      = 5
	deductMissingName       = 5
	deductMissingExperience = 25
	deductMissingEducation  = 10
	deductMissingSkills     = 15
	deductTables            = 15
	deductDecorative        = 5
	deductShortContent      = 10
	deductInconsistentDates = 10
	deductMissingDates      = 5

	minimumWordCount = 150
)

// Violation types reported by the ATS analyzer
const (
	IssueMissingContact    = "missing_contact"
	IssueMissingSection    = "missing_section"
	IssueTableLayout       = "table_layout"
	IssueDecorativeSymbols = "decorative_symbols"
	IssueShortContent      = "short_content"
	IssueInconsistentDates = "inconsistent_dates"
	IssueMissingDates      = "missing_dates"
)

const suggestionAddSummary = "Add a short professional summary at the top of the résumé"


var (
	monthYearRe = regexp.MustCompile(`(?i)^[a-z]{3,9}\.?\s+\d{4}$`)
	numericRe   = regexp.MustCompile(`^\d{1,2}/\d{4}$`)
	isoRe       = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearRe      = regexp.MustCompile(`^\d{4}$`)
	presentRe   = regexp.MustCompile(`(?i)^(?:present|current|now|today)$`)
	tableRuleRe = regexp.MustCompile(`^\|?\s*:?-{3,}:?\s*\|`)
)

type atsCheck struct {
	issue      types.Violation
	deduction  int
	suggestion string
}

// AnalyzeATS checks the résumé for structures that automated applicant
// tracking systems fail to parse. The score starts at 100 and loses a fixed
// deduction per issue. Suggestions[i] addresses Issues[i]; any trailing
// suggestions are advisory and carry no deduction.
func AnalyzeATS(resume *types.ResumeContent) *types.ATSResult {
	result := &types.ATSResult{
		Issues:      []types.Violation{},
		Suggestions: []string{},
	}
	if resume == nil {
		return result
	}

	var checks []atsCheck
	checks = append(checks, contactChecks(resume)...)
	checks = append(checks, sectionChecks(resume)...)
	checks = append(checks, layoutChecks(resume.RawText)...)
	checks = append(checks, dateChecks(resume)...)

	score := 100
	for _, c := range checks {
		score -= c.deduction
		result.Issues = append(result.Issues, c.issue)
		if c.suggestion != "" {
			result.Suggestions = append(result.Suggestions, c.suggestion)
		}
	}
	if strings.TrimSpace(resume.Sections.Summary) == "" {
		result.Suggestions = append(result.Suggestions, suggestionAddSummary)
	}
	result.Score = clamp(score)
	return result
}

func contactChecks(resume *types.ResumeContent) []atsCheck {
	info := resume.Sections.ContactInfo
	var out []atsCheck
	if info.Email == "" {
		out = append(out, atsCheck{
			issue:      types.Violation{Type: IssueMissingContact, Severity: types.SeverityError, Details: "No email address found", Section: "contact"},
			deduction:  deductMissingEmail,
			suggestion: "Add a professional email address to the header",
		})
	}
	if info.Phone == "" {
		out = append(out, atsCheck{
			issue:      types.Violation{Type: IssueMissingContact, Severity: types.SeverityWarning, Details: "No phone number found", Section: "contact"},
			deduction:  deductMissingPhone,
			suggestion: "Add a phone number to the header",
		})
	}
	if info.Name == "" {
		out = append(out, atsCheck{
			issue:      types.Violation{Type: IssueMissingContact, Severity: types.SeverityWarning, Details: "No candidate name found", Section: "contact"},
			deduction:  deductMissingName,
			suggestion: "Put your full name on the first line",
		})
	}
	return out
}

func sectionChecks(resume *types.ResumeContent) []atsCheck {
	s := resume.Sections
	var out []atsCheck
	if len(s.Experience) == 0 {
		out = append(out, atsCheck{
			issue:      types.Violation{Type: IssueMissingSection, Severity: types.SeverityError, Details: "Experience section not found", Section: "experience"},
			deduction:  deductMissingExperience,
			suggestion: `Add an "Experience" section with a standard heading`,
		})
	}
	if len(s.Education) == 0 {
		out = append(out, atsCheck{
			issue:      types.Violation{Type: IssueMissingSection, Severity: types.SeverityWarning, Details: "Education section not found", Section: "education"},
			deduction:  deductMissingEducation,
			suggestion: `Add an "Education" section with a standard heading`,
		})
	}
	if len(s.Skills) == 0 {
		out = append(out, atsCheck{
			issue:      types.Violation{Type: IssueMissingSection, Severity: types.SeverityWarning, Details: "Skills section not found", Section: "skills"},
			deduction:  deductMissingSkills,
			suggestion: `Add a "Skills" section listing your technical skills`,
		})
	}
	return out
}

func layoutChecks(raw string) []atsCheck {
	var out []atsCheck
	tableLines, decorative := 0, 0
	var firstTable, firstDecorative string
	wordCount := 0
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.Count(line, "|") >= 3 || strings.Count(line, "\t") >= 2 || tableRuleRe.MatchString(trimmed) {
			if tableLines == 0 {
				firstTable = trimmed
			}
			tableLines++
		}
		for _, r := range line {
			if isDecorativeRune(r) {
				if decorative == 0 {
					firstDecorative = trimmed
				}
				decorative++
			}
		}
		wordCount += len(words(line))
	}
	if tableLines > 0 {
		out = append(out, atsCheck{
			issue: types.Violation{
				Type:     IssueTableLayout,
				Severity: types.SeverityError,
				Details:  fmt.Sprintf("Found %d line(s) that look like a table or column layout", tableLines),
				Line:     firstTable,
			},
			deduction:  deductTables,
			suggestion: "Replace tables and columns with a single-column layout",
		})
	}
	if decorative > 0 {
		out = append(out, atsCheck{
			issue: types.Violation{
				Type:     IssueDecorativeSymbols,
				Severity: types.SeverityWarning,
				Details:  fmt.Sprintf("Found %d decorative symbol(s) or emoji", decorative),
				Line:     firstDecorative,
			},
			deduction:  deductDecorative,
			suggestion: "Remove icons, emoji and decorative symbols",
		})
	}
	if wordCount < minimumWordCount {
		out = append(out, atsCheck{
			issue: types.Violation{
				Type:     IssueShortContent,
				Severity: types.SeverityWarning,
				Details:  fmt.Sprintf("Résumé has only %d words", wordCount),
			},
			deduction:  deductShortContent,
			suggestion: "Expand your experience with concrete achievements",
		})
	}
	return out
}

// isDecorativeRune reports emoji and dingbats. Common bullet glyphs are allowed.
func isDecorativeRune(r rune) bool {
	if r == '➢' {
		return false
	}
	return r >= 0x1F000 || (r >= 0x2600 && r <= 0x27BF)
}

func dateChecks(resume *types.ResumeContent) []atsCheck {
	formats := map[string]bool{}
	var order []string
	note := func(date string) {
		f := dateFormat(date)
		if f == "" || formats[f] {
			return
		}
		formats[f] = true
		order = append(order, f)
	}

	undated := 0
	for _, e := range resume.Sections.Experience {
		if e.StartDate == "" && e.EndDate == "" {
			undated++
		}
		note(e.StartDate)
		note(e.EndDate)
	}
	for _, e := range resume.Sections.Education {
		note(e.StartDate)
		note(e.EndDate)
	}

	var out []atsCheck
	if len(order) > 1 {
		out = append(out, atsCheck{
			issue: types.Violation{
				Type:     IssueInconsistentDates,
				Severity: types.SeverityWarning,
				Details:  "Mixed date formats: " + strings.Join(order, ", "),
			},
			deduction:  deductInconsistentDates,
			suggestion: `Use one date format throughout, for example "Jan 2020"`,
		})
	}
	if undated > 0 {
		out = append(out, atsCheck{
			issue: types.Violation{
				Type:     IssueMissingDates,
				Severity: types.SeverityWarning,
				Details:  fmt.Sprintf("%d experience entr(ies) have no dates", undated),
				Section:  "experience",
			},
			deduction:  deductMissingDates,
			suggestion: "Add start and end dates to every position",
		})
	}
	return out
}

// dateFormat classifies a date string, returning "" for present-tense
// markers and unrecognized values.
func dateFormat(date string) string {
	date = strings.TrimSpace(date)
	switch {
	case date == "", presentRe.MatchString(date):
		return ""
	case monthYearRe.MatchString(date):
		return "month year"
	case numericRe.MatchString(date):
		return "MM/YYYY"
	case isoRe.MatchString(date):
		return "YYYY-MM"
	case yearRe.MatchString(date):
		return "YYYY"
	default:
		return ""
	}
}
