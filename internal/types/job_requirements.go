package types

// ExperienceLevel is the seniority bucket inferred from a job description
type ExperienceLevel string

// Experience levels
const (
	LevelEntry        ExperienceLevel = "entry-level"
	LevelMid          ExperienceLevel = "mid-level"
	LevelSenior       ExperienceLevel = "senior-level"
	LevelManagement   ExperienceLevel = "management"
	LevelExecutive    ExperienceLevel = "executive"
	LevelNotSpecified ExperienceLevel = "not-specified"
)

// MaxJobKeywords caps the number of keywords extracted from a job description
const MaxJobKeywords = 50

// JobRequirements is the structured form of a job description.
// It is created once per job description and may be reused across analyses.
type JobRequirements struct {
	RequiredSkills  []string        `json:"required_skills"`
	PreferredSkills []string        `json:"preferred_skills"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	Education       []string        `json:"education"`
	Certifications  []string        `json:"certifications"`
	Keywords        []string        `json:"keywords"`
}
