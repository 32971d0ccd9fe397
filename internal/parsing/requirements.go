package parsing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/vocab"
)

type skillBucket int

const (
	bucketNone skillBucket = iota
	bucketRequired
	bucketPreferred
)

var (
	requiredHeadingRe = regexp.MustCompile(`(?i)^#*\s*(?:minimum |basic |key |core )?(?:requirements|required(?: skills| qualifications| experience)?|qualifications|must[- ]haves?|what you(?:'|’)ll need|what we(?:'|’)re looking for|who you are|skills(?: and | & )experience)\s*:?$`)
	preferredHeadingRe = regexp.MustCompile(`(?i)^#*\s*(?:preferred(?: skills| qualifications| experience)?|nice[- ]to[- ]haves?|bonus(?: points)?|pluses|desired(?: skills| qualifications)?|additional qualifications|good to have)\s*:?$`)

	requiredInlineRe  = regexp.MustCompile(`(?i)\b(?:required|must[- ]have|must be|mandatory|essential)\b`)
	preferredInlineRe = regexp.MustCompile(`(?i)\b(?:preferred|nice[- ]to[- ]have|bonus|a plus|desired|desirable|ideally)\b`)

	yearsRangeRe  = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:-|–|—|to)\s*(\d{1,2})\+?\s*(?:years?|yrs?)\b`)
	yearsSingleRe = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)\b`)

	keywordTokenRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+#.'/\-]*`)
	abbreviationRe = regexp.MustCompile(`^[a-z]\.[a-z]`)
)

type levelMatcher struct {
	re    *regexp.Regexp
	level types.ExperienceLevel
}

// RequirementExtractor turns job-description text into JobRequirements.
// Output depends only on the input text and the vocabulary.
type RequirementExtractor struct {
	vocab  *vocab.Vocabulary
	skills []vocab.SkillTerm
	levels []levelMatcher
}

// NewRequirementExtractor creates an extractor backed by the given vocabulary
func NewRequirementExtractor(v *vocab.Vocabulary) *RequirementExtractor {
	e := &RequirementExtractor{vocab: v, skills: v.SkillTerms()}
	for _, kw := range v.LevelKeywords() {
		pattern := `(?:^|[^a-z0-9])` + regexp.QuoteMeta(strings.ToLower(kw.Keyword)) + `(?:$|[^a-z0-9])`
		e.levels = append(e.levels, levelMatcher{re: regexp.MustCompile(pattern), level: kw.Level})
	}
	return e
}

// Extract parses a job description. HTML input is flattened to text first.
func (e *RequirementExtractor) Extract(text string) *types.JobRequirements {
	text = ingestion.NormalizeJobText(text)
	lower := strings.ToLower(text)

	required, preferred := e.classifySkills(text)
	return &types.JobRequirements{
		RequiredSkills:  required,
		PreferredSkills: preferred,
		ExperienceLevel: e.experienceLevel(lower),
		Education:       matchTerms(lower, e.vocab.EducationTerms()),
		Certifications:  matchTerms(lower, e.vocab.CertificationTerms()),
		Keywords:        e.keywords(text),
	}
}

func (e *RequirementExtractor) classifySkills(text string) (required, preferred []string) {
	required, preferred = []string{}, []string{}
	seen := map[skillBucket]map[string]bool{
		bucketRequired:  {},
		bucketPreferred: {},
	}
	state := bucketNone

	for _, rawLine := range strings.Split(text, "\n") {
		line, isBullet := ingestion.StripBullet(rawLine)
		if line == "" {
			continue
		}
		if !isBullet {
			if heading, ok := headingBucket(line); ok {
				state = heading
				continue
			}
		}

		matches := e.findSkills(strings.ToLower(line))
		if len(matches) == 0 {
			continue
		}

		bucket := lineBucket(line, state)
		for _, skill := range matches {
			if seen[bucket][skill] {
				continue
			}
			seen[bucket][skill] = true
			if bucket == bucketPreferred {
				preferred = append(preferred, skill)
			} else {
				required = append(required, skill)
			}
		}
	}
	return required, preferred
}

// headingBucket recognizes section headings. Short lines ending in a colon or
// starting with "#" that are not requirement headings reset the section.
func headingBucket(line string) (skillBucket, bool) {
	switch {
	case requiredHeadingRe.MatchString(line):
		return bucketRequired, true
	case preferredHeadingRe.MatchString(line):
		return bucketPreferred, true
	}
	if len(strings.Fields(line)) <= 6 && (strings.HasSuffix(line, ":") || strings.HasPrefix(line, "#")) {
		return bucketNone, true
	}
	return bucketNone, false
}

// lineBucket applies classification priority: an inline indicator beats the
// section state, and lines with neither default to required. When a line
// carries both indicators, required wins.
func lineBucket(line string, state skillBucket) skillBucket {
	switch {
	case requiredInlineRe.MatchString(line):
		return bucketRequired
	case preferredInlineRe.MatchString(line):
		return bucketPreferred
	case state == bucketPreferred:
		return bucketPreferred
	default:
		return bucketRequired
	}
}

type skillMatch struct {
	index int
	order int
	name  string
}

// findSkills returns canonical skill names found in a lowercase line, ordered by position
func (e *RequirementExtractor) findSkills(lowerLine string) []string {
	var found []skillMatch
	for i, term := range e.skills {
		if idx := indexTerm(lowerLine, term.Match); idx >= 0 {
			found = append(found, skillMatch{index: idx, order: i, name: term.Canonical})
		}
	}
	sort.SliceStable(found, func(a, b int) bool {
		if found[a].index != found[b].index {
			return found[a].index < found[b].index
		}
		return found[a].order < found[b].order
	})

	names := make([]string, 0, len(found))
	for _, m := range found {
		names = append(names, m.name)
	}
	return dedupeFold(names)
}

func (e *RequirementExtractor) experienceLevel(lower string) types.ExperienceLevel {
	if m := yearsRangeRe.FindStringSubmatch(lower); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return levelForYears((lo + hi) / 2)
	}
	if m := yearsSingleRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return levelForYears(n)
	}
	for _, matcher := range e.levels {
		if matcher.re.MatchString(lower) {
			return matcher.level
		}
	}
	return types.LevelNotSpecified
}

func levelForYears(years int) types.ExperienceLevel {
	switch {
	case years <= 2:
		return types.LevelEntry
	case years < 5:
		return types.LevelMid
	default:
		return types.LevelSenior
	}
}

func matchTerms(lower string, terms []string) []string {
	out := []string{}
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			out = append(out, term)
		}
	}
	return dedupeFold(out)
}

// keywords extracts candidate keyword tokens in first-occurrence order.
// Hyphenated and slashed compounds are split into their parts.
func (e *RequirementExtractor) keywords(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(token string) bool {
		token = strings.Trim(strings.ToLower(token), ".'+-/")
		token = strings.TrimSuffix(token, "'s")
		if !e.acceptKeyword(token) || seen[token] {
			return len(out) < types.MaxJobKeywords
		}
		seen[token] = true
		out = append(out, token)
		return len(out) < types.MaxJobKeywords
	}

	for _, token := range keywordTokenRe.FindAllString(text, -1) {
		parts := []string{token}
		if strings.ContainsAny(token, "-/") {
			parts = strings.FieldsFunc(token, func(r rune) bool { return r == '-' || r == '/' })
		}
		for _, part := range parts {
			if !add(part) {
				return out
			}
		}
	}
	return out
}

func (e *RequirementExtractor) acceptKeyword(token string) bool {
	if len(token) < 3 {
		return false
	}
	if c := token[0]; c < 'a' || c > 'z' {
		return false
	}
	if abbreviationRe.MatchString(token) || e.vocab.IsStopword(token) {
		return false
	}
	// Adverbs are neither noun- nor verb-like
	if len(token) > 4 && strings.HasSuffix(token, "ly") {
		return false
	}
	return true
}
