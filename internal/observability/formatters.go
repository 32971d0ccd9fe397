// Package observability provides formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of a score bar
	barWidth = 20
)

var categoryLabels = map[types.Category]string{
	types.CategoryContent:    "Content",
	types.CategoryStructure:  "Structure",
	types.CategoryKeywords:   "Keywords",
	types.CategoryExperience: "Experience",
	types.CategorySkills:     "Skills",
}

// Printer writes human-readable reports
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, ending in "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

func scoreBar(score int) string {
	filled := min(max(score, 0), 100) * barWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// PrintResume outputs a summary of the parsed résumé sections
func (p *Printer) PrintResume(resume *types.ResumeContent) {
	if resume == nil {
		return
	}
	s := resume.Sections

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", s.ContactInfo.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", s.ContactInfo.Email))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", s.ContactInfo.Phone))
	sb.WriteString("\n")

	positions := make([]string, 0, len(s.Experience))
	for _, e := range s.Experience {
		line := e.Key()
		if e.StartDate != "" || e.EndDate != "" {
			line += fmt.Sprintf(" (%s - %s)", e.StartDate, e.EndDate)
		}
		positions = append(positions, line)
	}
	writeList(&sb, "Experience", positions, maxItemsToShow)

	schools := make([]string, 0, len(s.Education))
	for _, e := range s.Education {
		schools = append(schools, strings.TrimSpace(e.Degree+", "+e.Institution))
	}
	writeList(&sb, "Education", schools, 3)
	writeList(&sb, "Skills", s.Skills, maxItemsToShow)
	writeList(&sb, "Certifications", s.Certifications, 3)

	p.printBox("PARSED RÉSUMÉ", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintJobRequirements outputs the extracted job requirements
func (p *Printer) PrintJobRequirements(reqs *types.JobRequirements) {
	if reqs == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Level:    %s\n\n", reqs.ExperienceLevel))
	writeList(&sb, "Required", reqs.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred", reqs.PreferredSkills, 3)
	writeList(&sb, "Education", reqs.Education, 3)
	writeList(&sb, "Certifications", reqs.Certifications, 3)
	if len(reqs.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords: %d extracted\n", len(reqs.Keywords)))
	}

	p.printBox("JOB REQUIREMENTS", strings.TrimRight(sb.String(), "\n"))
}

// PrintScores outputs the overall score and one bar per category
func (p *Printer) PrintScores(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:   %s (attempt %d)\n", result.Status, result.Attempt))
	if result.Error != "" {
		sb.WriteString(fmt.Sprintf("Error:    %s\n", result.Error))
	}
	sb.WriteString(fmt.Sprintf("Overall:  %d\n\n", result.OverallScore))
	for _, c := range types.Categories {
		score := result.CategoryScores.Get(c)
		sb.WriteString(fmt.Sprintf("%-11s %s %3d\n", categoryLabels[c], scoreBar(score), score))
	}
	if result.Details != nil && len(result.Details.Failures) > 0 {
		sb.WriteString(fmt.Sprintf("\n%d analyzer(s) failed; neutral scores used", len(result.Details.Failures)))
	}

	p.printBox("ANALYSIS SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the top recommendations in priority order
func (p *Printer) PrintRecommendations(recs []types.Recommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d recommendations:\n\n", len(recs)))

	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := recs[i]
		sb.WriteString(fmt.Sprintf("[%s] %s\n", strings.ToUpper(string(r.Priority)), r.Title))
		if r.Examples.Before != "" {
			sb.WriteString(fmt.Sprintf("  before: %s\n", r.Examples.Before))
		}
		if r.Examples.After != "" {
			sb.WriteString(fmt.Sprintf("  after:  %s\n", r.Examples.After))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(recs)-maxItemsToShow))
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs strengths and improvement areas
func (p *Printer) PrintSummary(result *types.AnalysisResult) {
	if result == nil || (len(result.Strengths) == 0 && len(result.ImprovementAreas) == 0) {
		return
	}

	var sb strings.Builder
	writeList(&sb, "Strengths", result.Strengths, maxItemsToShow)
	writeList(&sb, "Improve", result.ImprovementAreas, maxItemsToShow)
	p.printBox("SUMMARY", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintATSIssues outputs structural issues found by the ATS check
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintATSIssues(ats *types.ATSResult) {
	if ats == nil {
		return
	}
	if len(ats.Issues) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO ATS ISSUES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d issues:\n\n", len(ats.Issues)))
	for i, v := range ats.Issues {
		marker := "⚠"
		if v.Blocking() {
			marker = "✖"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, v.Type))
		sb.WriteString(fmt.Sprintf("  %s\n", v.Details))
		if i < len(ats.Issues)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("ATS ISSUES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs the full report for a result
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}
	p.PrintScores(result)
	if result.Details != nil {
		p.PrintATSIssues(result.Details.ATS)
	}
	p.PrintRecommendations(result.Recommendations)
	p.PrintSummary(result)
}

// PrintProgress writes one line per progress event
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event types.ProgressEvent) {
	line := fmt.Sprintf("[%3d%%] %-10s %s", event.Percentage, event.Status, event.Message)
	if event.Error != "" {
		line += ": " + event.Error
	}
	fmt.Fprintln(p.out, line)
}
