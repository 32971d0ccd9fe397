// Package vocab provides the read-only dictionaries shared by the parser, the
// requirement extractor and the scoring analyzers. Dictionaries are stored as
// JSON files and embedded at compile time.
package vocab

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jonathan/resume-analyzer/internal/types"
)

//go:embed data/*.json
var dataFiles embed.FS

// Section identifies a résumé section recognized from a heading line
type Section string

// Résumé sections. SectionOther covers headings that are recognized but not analyzed.
const (
	SectionNone           Section = ""
	SectionSummary        Section = "summary"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionCertifications Section = "certifications"
	SectionOther          Section = "other"
)

// SkillTerm maps a lowercase match form to its canonical display name
type SkillTerm struct {
	Match     string
	Canonical string
}

// LevelKeyword maps a seniority keyword to an experience level
type LevelKeyword struct {
	Keyword string                `json:"keyword"`
	Level   types.ExperienceLevel `json:"level"`
}

// Vocabulary is an immutable set of dictionaries. All accessors return copies
// or read-only lookups, so one instance may be shared across goroutines.
type Vocabulary struct {
	skillTerms         []SkillTerm
	strongStems        map[string]struct{}
	suggestions        map[string][]string
	fallback           []string
	skipWords          map[string]struct{}
	stopwords          map[string]struct{}
	impactWords        []string
	impactSet          map[string]struct{}
	positiveWords      map[string]struct{}
	negativePhrases    []string
	educationTerms     []string
	certificationTerms []string
	levels             []LevelKeyword
	headings           map[string]Section
}

type skillsFile struct {
	Skills  []string          `json:"skills"`
	Aliases map[string]string `json:"aliases"`
}

type verbsFile struct {
	Strong      []string            `json:"strong"`
	Suggestions map[string][]string `json:"suggestions"`
	Fallback    []string            `json:"fallback"`
	SkipWords   []string            `json:"skip_words"`
}

type lexiconFile struct {
	Stopwords          []string `json:"stopwords"`
	ImpactWords        []string `json:"impact_words"`
	PositiveWords      []string `json:"positive_words"`
	NegativePhrases    []string `json:"negative_phrases"`
	EducationTerms     []string `json:"education_terms"`
	CertificationTerms []string `json:"certification_terms"`
}

type levelsFile struct {
	Levels []LevelKeyword `json:"levels"`
}

var loadDefault = sync.OnceValues(Load)

// Default returns the embedded vocabulary, parsing it on first use
func Default() (*Vocabulary, error) {
	return loadDefault()
}

// MustDefault returns the embedded vocabulary, panicking if it cannot be parsed.
// Use this at initialization time only.
func MustDefault() *Vocabulary {
	v, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load vocabulary: %v", err))
	}
	return v
}

// Load parses the embedded dictionaries into a new Vocabulary
func Load() (*Vocabulary, error) {
	var skills skillsFile
	if err := readFile("skills.json", &skills); err != nil {
		return nil, err
	}
	var verbs verbsFile
	if err := readFile("verbs.json", &verbs); err != nil {
		return nil, err
	}
	var lexicon lexiconFile
	if err := readFile("lexicon.json", &lexicon); err != nil {
		return nil, err
	}
	var levels levelsFile
	if err := readFile("levels.json", &levels); err != nil {
		return nil, err
	}
	var headings map[Section][]string
	if err := readFile("headings.json", &headings); err != nil {
		return nil, err
	}

	v := &Vocabulary{
		strongStems:        make(map[string]struct{}, len(verbs.Strong)),
		suggestions:        make(map[string][]string, len(verbs.Suggestions)),
		fallback:           verbs.Fallback,
		skipWords:          toSet(verbs.SkipWords),
		stopwords:          toSet(lexicon.Stopwords),
		impactWords:        lowerAll(lexicon.ImpactWords),
		positiveWords:      toSet(lexicon.PositiveWords),
		negativePhrases:    lowerAll(lexicon.NegativePhrases),
		educationTerms:     lexicon.EducationTerms,
		certificationTerms: lexicon.CertificationTerms,
		levels:             levels.Levels,
		headings:           make(map[string]Section),
	}
	v.impactSet = toSet(v.impactWords)

	for _, skill := range skills.Skills {
		v.skillTerms = append(v.skillTerms, SkillTerm{Match: strings.ToLower(skill), Canonical: skill})
	}
	// Aliases are appended in sorted order so lookups stay deterministic.
	aliasKeys := make([]string, 0, len(skills.Aliases))
	for alias := range skills.Aliases {
		aliasKeys = append(aliasKeys, alias)
	}
	slices.Sort(aliasKeys)
	for _, alias := range aliasKeys {
		v.skillTerms = append(v.skillTerms, SkillTerm{Match: strings.ToLower(alias), Canonical: skills.Aliases[alias]})
	}

	for _, verb := range verbs.Strong {
		v.strongStems[Stem(verb)] = struct{}{}
	}
	for weak, replacements := range verbs.Suggestions {
		v.suggestions[Stem(weak)] = replacements
	}

	for section, synonyms := range headings {
		for _, synonym := range synonyms {
			v.headings[normalizeHeading(synonym)] = section
		}
	}

	if len(v.skillTerms) == 0 || len(v.strongStems) == 0 || len(v.headings) == 0 {
		return nil, fmt.Errorf("vocabulary is incomplete")
	}
	return v, nil
}

func readFile(name string, out any) error {
	data, err := dataFiles.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("failed to read vocabulary file %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse vocabulary file %s: %w", name, err)
	}
	return nil
}

// SkillTerms returns every skill match form, canonical names first and aliases after
func (v *Vocabulary) SkillTerms() []SkillTerm {
	return slices.Clone(v.skillTerms)
}

// CanonicalSkill returns the display name for a skill or alias, if known
func (v *Vocabulary) CanonicalSkill(name string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, term := range v.skillTerms {
		if term.Match == lower {
			return term.Canonical, true
		}
	}
	return "", false
}

// IsStrongVerb reports whether word, after stemming, is in the strong-verb lexicon
func (v *Vocabulary) IsStrongVerb(word string) bool {
	_, ok := v.strongStems[Stem(word)]
	return ok
}

// VerbSuggestions returns up to limit replacements for a weak verb,
// falling back to generic strong verbs when none are curated.
func (v *Vocabulary) VerbSuggestions(word string, limit int) []string {
	suggestions, ok := v.suggestions[Stem(word)]
	if !ok {
		suggestions = v.fallback
	}
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return slices.Clone(suggestions)
}

// IsSkipWord reports whether word precedes the leading verb of a statement (pronouns, fillers)
func (v *Vocabulary) IsSkipWord(word string) bool {
	_, ok := v.skipWords[strings.ToLower(word)]
	return ok
}

// IsStopword reports whether word is excluded from keyword extraction
func (v *Vocabulary) IsStopword(word string) bool {
	_, ok := v.stopwords[strings.ToLower(word)]
	return ok
}

// ImpactWords returns the impact-word list in its fixed order
func (v *Vocabulary) ImpactWords() []string {
	return slices.Clone(v.impactWords)
}

// IsImpactWord reports whether word is an impact word
func (v *Vocabulary) IsImpactWord(word string) bool {
	_, ok := v.impactSet[strings.ToLower(word)]
	return ok
}

// IsPositiveWord reports whether word carries positive tone
func (v *Vocabulary) IsPositiveWord(word string) bool {
	_, ok := v.positiveWords[strings.ToLower(word)]
	return ok
}

// NegativePhrases returns lowercase phrases that weaken tone
func (v *Vocabulary) NegativePhrases() []string {
	return slices.Clone(v.negativePhrases)
}

// EducationTerms returns the education keyword set
func (v *Vocabulary) EducationTerms() []string {
	return slices.Clone(v.educationTerms)
}

// CertificationTerms returns the certification keyword set
func (v *Vocabulary) CertificationTerms() []string {
	return slices.Clone(v.certificationTerms)
}

// LevelKeywords returns the seniority lookup table in match order
func (v *Vocabulary) LevelKeywords() []LevelKeyword {
	return slices.Clone(v.levels)
}

// HeadingSection reports which section a heading line introduces
func (v *Vocabulary) HeadingSection(line string) (Section, bool) {
	normalized := normalizeHeading(line)
	if normalized == "" || len(normalized) > 48 {
		return SectionNone, false
	}
	section, ok := v.headings[normalized]
	return section, ok
}

// Stem lowercases a word and strips one trailing -ing, -ed or -s suffix,
// then a trailing "e", keeping at least three letters. Base and inflected
// forms of regular verbs share a stem ("manage", "managed", "managing").
func Stem(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	switch {
	case strings.HasSuffix(w, "ing") && len(w)-3 >= 3:
		w = w[:len(w)-3]
	case strings.HasSuffix(w, "ed") && len(w)-2 >= 3:
		w = w[:len(w)-2]
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w)-1 >= 3:
		w = w[:len(w)-1]
	}
	if strings.HasSuffix(w, "e") && len(w)-1 >= 3 {
		w = w[:len(w)-1]
	}
	return w
}

func normalizeHeading(line string) string {
	s := strings.ToLower(strings.TrimSpace(line))
	s = strings.TrimLeft(s, "#*=_ ")
	s = strings.TrimRight(s, ":*=_ ")
	s = strings.ReplaceAll(s, "&", "and")
	return strings.Join(strings.Fields(s), " ")
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
