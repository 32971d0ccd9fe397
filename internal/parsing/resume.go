package parsing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/vocab"
)

const (
	monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	datePattern  = `(?:` + monthPattern + `\s+\d{4}|\d{1,2}/\d{4}|\d{4}-\d{2}|\d{4})`
	endPattern   = `(?:` + datePattern + `|present|current|now|today)`
)

var (
	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe     = regexp.MustCompile(`(?:\+?\d{1,3}[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
	nameRe      = regexp.MustCompile(`\b([A-Z][a-z]+(?:[-'][A-Z][a-z]+)?)\s+([A-Z][a-z]+(?:[-'][A-Z][a-z]+)?)\b`)
	dateRangeRe = regexp.MustCompile(`(?i)\b(` + datePattern + `)\s*(?:-|–|—|to|until)\s*(` + endPattern + `)\b`)
	singleDate  = regexp.MustCompile(`(?i)\b(` + datePattern + `)\b`)
	emptyParens = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
	capsHeading = regexp.MustCompile(`^[A-Z]{2,}(?:\s+(?:&|AND|OF|[A-Z]{2,}))+$`)
	skillSplit  = regexp.MustCompile(`[,;|•·]`)
	locationRe  = regexp.MustCompile(`^(?:(?i:remote|hybrid|on-?site)|[A-Z][A-Za-z .'-]+,\s*(?:[A-Z]{2}|[A-Z][a-z]+))$`)
)

// headerSeparators split "Position at Company" style lines, in priority order
var headerSeparators = []string{" at ", " @ ", " | ", " – ", " — ", " - ", ", "}

// entryTrim is stripped from the ends of header fragments after dates are removed
const entryTrim = " \t|,-–—:()"

// ResumeParser turns raw résumé text into ResumeContent
type ResumeParser struct {
	vocab *vocab.Vocabulary
}

// NewResumeParser creates a parser backed by the given vocabulary
func NewResumeParser(v *vocab.Vocabulary) *ResumeParser {
	return &ResumeParser{vocab: v}
}

// ParseBytes parses raw résumé bytes. Nil or non-UTF-8 input is an InputError;
// every decodable input, including an empty one, parses without error.
func (p *ResumeParser) ParseBytes(data []byte) (*types.ResumeContent, error) {
	if data == nil {
		return nil, &InputError{Field: "resume_text", Message: "résumé text is required"}
	}
	if !utf8.Valid(data) {
		return nil, &InputError{Field: "resume_text", Message: "résumé text is not valid UTF-8"}
	}
	return p.Parse(string(data)), nil
}

// Parse extracts sections from résumé text. It never fails: text that does not
// match the expected structure yields partially filled or empty sections, and
// RawText always holds the input unchanged.
func (p *ResumeParser) Parse(text string) *types.ResumeContent {
	content := types.NewResumeContent(text)
	state := &parseState{parser: p, content: content}

	for _, rawLine := range strings.Split(ingestion.CleanText(text), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if section, ok := p.headingFor(line, state); ok {
			state.switchSection(section)
			continue
		}
		state.consume(line)
	}
	state.finish()
	return content
}

func (p *ResumeParser) headingFor(line string, state *parseState) (vocab.Section, bool) {
	if ingestion.IsBulletLine(line) {
		return vocab.SectionNone, false
	}
	if section, ok := p.vocab.HeadingSection(line); ok {
		return section, true
	}
	// Unrecognized all-caps headings end the previous section once the header is over.
	if state.sawHeading && (state.section == vocab.SectionSummary || state.section == vocab.SectionCertifications || state.section == vocab.SectionOther) &&
		capsHeading.MatchString(line) {
		return vocab.SectionOther, true
	}
	return vocab.SectionNone, false
}

type parseState struct {
	parser      *ResumeParser
	content     *types.ResumeContent
	section     vocab.Section
	sawHeading  bool
	headerLines []string
	summary     []string
	experience  *types.ExperienceEntry
	education   *types.EducationEntry
}

func (s *parseState) switchSection(section vocab.Section) {
	s.flushEntries()
	s.section = section
	s.sawHeading = true
}

func (s *parseState) consume(line string) {
	switch s.section {
	case vocab.SectionNone:
		s.headerLines = append(s.headerLines, line)
	case vocab.SectionSummary:
		item, _ := ingestion.StripBullet(line)
		s.summary = append(s.summary, item)
	case vocab.SectionExperience:
		s.consumeExperience(line)
	case vocab.SectionEducation:
		s.consumeEducation(line)
	case vocab.SectionSkills:
		s.consumeSkills(line)
	case vocab.SectionCertifications:
		if item, _ := ingestion.StripBullet(line); item != "" {
			s.content.Sections.Certifications = append(s.content.Sections.Certifications, item)
		}
	}
}

func (s *parseState) consumeExperience(line string) {
	if item, isBullet := ingestion.StripBullet(line); isBullet {
		if s.experience == nil {
			s.experience = &types.ExperienceEntry{Achievements: []string{}}
		}
		if item != "" {
			s.experience.Achievements = append(s.experience.Achievements, item)
		}
		return
	}

	cur := s.experience
	if cur != nil && cur.Position != "" && isProse(line) && !dateRangeRe.MatchString(line) {
		cur.Description = strings.TrimSpace(cur.Description + " " + line)
		return
	}

	start, end, rest := extractDates(line)
	if rest == "" {
		if cur != nil && cur.StartDate == "" && len(cur.Achievements) == 0 {
			cur.StartDate, cur.EndDate = start, end
			return
		}
		s.newExperience(&types.ExperienceEntry{StartDate: start, EndDate: end})
		return
	}

	canMerge := cur != nil && len(cur.Achievements) == 0 && cur.Description == ""
	switch {
	case canMerge && cur.Position != "" && cur.Company != "" && start == "" && locationRe.MatchString(rest):
		return
	case canMerge && cur.Position == "":
		cur.Position, cur.Company = splitHeader(rest)
	case canMerge && cur.Company == "" && !hasStrongSeparator(rest):
		cur.Company = rest
	default:
		position, company := splitHeader(rest)
		s.newExperience(&types.ExperienceEntry{Position: position, Company: company})
	}
	if start != "" && s.experience.StartDate == "" {
		s.experience.StartDate, s.experience.EndDate = start, end
	}
}

func (s *parseState) newExperience(entry *types.ExperienceEntry) {
	s.flushEntries()
	if entry.Achievements == nil {
		entry.Achievements = []string{}
	}
	s.experience = entry
}

func (s *parseState) consumeEducation(line string) {
	if item, isBullet := ingestion.StripBullet(line); isBullet {
		if s.education == nil {
			s.education = &types.EducationEntry{}
		}
		if item != "" {
			s.education.Qualifications = append(s.education.Qualifications, item)
		}
		return
	}

	start, end, rest := extractDates(line)
	degree, institution := s.splitEducation(rest)
	cur := s.education

	switch {
	case cur != nil && len(cur.Qualifications) == 0 && rest == "":
	case cur != nil && len(cur.Qualifications) == 0 && degree != "" && institution == "" && cur.Degree == "":
		cur.Degree = degree
	case cur != nil && len(cur.Qualifications) == 0 && institution != "" && degree == "" && cur.Institution == "":
		cur.Institution = institution
	default:
		s.flushEntries()
		s.education = &types.EducationEntry{Degree: degree, Institution: institution}
	}

	if start != "" && s.education.EndDate == "" {
		if end == "" {
			s.education.EndDate = start
		} else {
			s.education.StartDate, s.education.EndDate = start, end
		}
	}
}

func (s *parseState) splitEducation(rest string) (degree, institution string) {
	if rest == "" {
		return "", ""
	}
	isDegree := func(part string) bool {
		lower := strings.ToLower(part)
		for _, term := range s.parser.vocab.EducationTerms() {
			if strings.Contains(lower, strings.ToLower(term)) {
				return true
			}
		}
		return false
	}
	for _, sep := range []string{" | ", " – ", " — ", " - ", ", ", " at "} {
		if idx := strings.Index(rest, sep); idx > 0 {
			left := strings.Trim(rest[:idx], entryTrim)
			right := strings.Trim(rest[idx+len(sep):], entryTrim)
			switch {
			case isDegree(left):
				return left, right
			case isDegree(right):
				return right, left
			}
		}
	}
	if isDegree(rest) {
		return rest, ""
	}
	return "", rest
}

func (s *parseState) consumeSkills(line string) {
	item, _ := ingestion.StripBullet(line)
	// "Languages: Go, Python" drops the category label
	if idx := strings.Index(item, ":"); idx > 0 && len(strings.Fields(item[:idx])) <= 3 {
		item = item[idx+1:]
	}
	for _, part := range skillSplit.Split(item, -1) {
		skill := strings.Trim(strings.TrimSpace(part), ".")
		if skill == "" || len(skill) > 60 {
			continue
		}
		s.content.Sections.Skills = append(s.content.Sections.Skills, NormalizeSkillName(s.parser.vocab, skill))
	}
}

func (s *parseState) flushEntries() {
	if s.experience != nil {
		s.content.Sections.Experience = append(s.content.Sections.Experience, *s.experience)
		s.experience = nil
	}
	if s.education != nil {
		s.content.Sections.Education = append(s.content.Sections.Education, *s.education)
		s.education = nil
	}
}

func (s *parseState) finish() {
	s.flushEntries()
	sections := &s.content.Sections
	sections.Skills = dedupeFold(sections.Skills)
	sections.Certifications = dedupeFold(sections.Certifications)
	sections.Summary = strings.Join(s.summary, " ")
	s.scanHeader()
}

// scanHeader fills contact fields from text before the first heading.
// The first match of each pattern wins; long prose lines become the summary
// when the résumé has no summary section.
func (s *parseState) scanHeader() {
	contact := &s.content.Sections.ContactInfo
	var prose []string
	for _, line := range s.headerLines {
		claimed := false
		if contact.Email == "" {
			if m := emailRe.FindString(line); m != "" {
				contact.Email = m
				claimed = true
			}
		}
		if contact.Phone == "" {
			if m := phoneRe.FindString(line); m != "" {
				contact.Phone = strings.TrimSpace(m)
				claimed = true
			}
		}
		if contact.Name == "" {
			if m := nameRe.FindString(line); m != "" {
				contact.Name = m
				claimed = true
			}
		}
		if !claimed && len(strings.Fields(line)) >= 6 {
			prose = append(prose, line)
		}
	}
	if s.content.Sections.Summary == "" && len(prose) > 0 {
		s.content.Sections.Summary = strings.Join(prose, " ")
	}
}

// extractDates pulls a date range or single date out of a line and returns the remainder
func extractDates(line string) (start, end, rest string) {
	if loc := dateRangeRe.FindStringSubmatchIndex(line); loc != nil {
		start = line[loc[2]:loc[3]]
		end = line[loc[4]:loc[5]]
		rest = line[:loc[0]] + " " + line[loc[1]:]
	} else if loc := singleDate.FindStringSubmatchIndex(line); loc != nil && looksLikeDateOnly(line, loc) {
		start = line[loc[2]:loc[3]]
		rest = line[:loc[0]] + " " + line[loc[1]:]
	} else {
		rest = line
	}
	rest = emptyParens.ReplaceAllString(rest, "")
	rest = strings.Trim(strings.Join(strings.Fields(rest), " "), entryTrim)
	return start, end, rest
}

// looksLikeDateOnly guards single years from being stripped out of prose
// ("Grew revenue in 2021 by 30%") by requiring the date to sit at a line edge
// or next to a separator.
func looksLikeDateOnly(line string, loc []int) bool {
	before := strings.TrimSpace(line[:loc[0]])
	after := strings.TrimSpace(line[loc[1]:])
	if before == "" || after == "" {
		return true
	}
	for _, sep := range []string{"|", ",", "–", "—", "-", "("} {
		if strings.HasSuffix(before, sep) {
			return true
		}
	}
	for _, sep := range []string{"|", ",", "–", "—", "-", ")"} {
		if strings.HasPrefix(after, sep) {
			return true
		}
	}
	return false
}

func splitHeader(rest string) (position, company string) {
	for _, sep := range headerSeparators {
		idx := strings.Index(rest, sep)
		if sep == " at " {
			idx = strings.Index(strings.ToLower(rest), sep)
		}
		if idx > 0 {
			position = strings.Trim(rest[:idx], entryTrim)
			company = strings.Trim(rest[idx+len(sep):], entryTrim)
			if sep != ", " {
				// "Engineer | Acme | Remote" keeps only the first two fields
				if j := strings.Index(company, sep); j > 0 {
					company = strings.Trim(company[:j], entryTrim)
				}
			}
			return position, company
		}
	}
	return rest, ""
}

func hasStrongSeparator(line string) bool {
	lower := strings.ToLower(line)
	for _, sep := range headerSeparators {
		if sep != ", " && strings.Contains(lower, sep) {
			return true
		}
	}
	return false
}

// isProse reports whether a non-bullet line reads as a sentence rather than a job header
func isProse(line string) bool {
	words := strings.Fields(line)
	if strings.HasSuffix(line, ".") && len(words) >= 4 {
		return true
	}
	lowerStarts := 0
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsLower(r) {
			lowerStarts++
		}
	}
	return len(words) >= 5 && lowerStarts*2 > len(words)
}
