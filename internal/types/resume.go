// Package types provides type definitions for structured data used throughout the resume-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeContent is the structured form of a résumé produced by the section parser.
// It is created once per analysis and treated as read-only afterwards.
type ResumeContent struct {
	RawText  string         `json:"raw_text"`
	Sections ResumeSections `json:"sections"`
}

// ResumeSections holds the recognized résumé sections
type ResumeSections struct {
	ContactInfo    ContactInfo       `json:"contact_info"`
	Summary        string            `json:"summary,omitempty"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Skills         []string          `json:"skills"`
	Certifications []string          `json:"certifications"`
}

// ContactInfo holds contact fields found before the first section heading.
// Fields that could not be matched are left empty.
type ContactInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ExperienceEntry represents a single position in the experience section
type ExperienceEntry struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// Key returns the grouping key used by the achievement analyzers ("{company} - {position}").
func (e ExperienceEntry) Key() string {
	return e.Company + " - " + e.Position
}

// EducationEntry represents a single education item
type EducationEntry struct {
	Institution    string   `json:"institution"`
	Degree         string   `json:"degree"`
	StartDate      string   `json:"start_date,omitempty"`
	EndDate        string   `json:"end_date,omitempty"`
	Qualifications []string `json:"qualifications,omitempty"`
}

// NewResumeContent returns an empty ResumeContent with non-nil section lists
func NewResumeContent(rawText string) *ResumeContent {
	return &ResumeContent{
		RawText: rawText,
		Sections: ResumeSections{
			Experience:     []ExperienceEntry{},
			Education:      []EducationEntry{},
			Skills:         []string{},
			Certifications: []string{},
		},
	}
}
