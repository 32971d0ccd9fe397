package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/vocab"
)

// determiners open noun phrases, so a statement starting with one has no verb
var determiners = map[string]bool{
	"a": true, "an": true, "the": true, "this": true, "that": true,
	"these": true, "those": true, "my": true, "our": true, "their": true,
}

// verbStatement is a sentence together with its leading verb
type verbStatement struct {
	verb     string
	sentence string
}

// AnalyzeActionVerbs classifies the leading verb of every achievement and
// description sentence as strong or weak. The score is the strong share of
// all verbs, so it grows monotonically with the strong-to-total ratio.
func AnalyzeActionVerbs(v *vocab.Vocabulary, resume *types.ResumeContent, maxSuggestions int) *types.ActionVerbResult {
	result := &types.ActionVerbResult{
		StrongVerbs: []string{},
		WeakVerbs:   []string{},
		Suggestions: []types.VerbSuggestion{},
	}
	if resume == nil {
		return result
	}

	statements := collectVerbStatements(v, resume)
	strongSeen := map[string]bool{}
	weakFirst := map[string]string{}
	strong := 0

	for _, st := range statements {
		if v.IsStrongVerb(st.verb) {
			strong++
			if !strongSeen[st.verb] {
				strongSeen[st.verb] = true
				result.StrongVerbs = append(result.StrongVerbs, st.verb)
			}
			continue
		}
		if _, ok := weakFirst[st.verb]; !ok {
			weakFirst[st.verb] = st.sentence
			result.WeakVerbs = append(result.WeakVerbs, st.verb)
		}
	}

	result.TotalVerbs = len(statements)
	result.Score = percent(strong, len(statements))

	for _, weak := range result.WeakVerbs {
		suggestions := v.VerbSuggestions(weak, maxSuggestions)
		example := ""
		if len(suggestions) > 0 {
			example = rewriteLeadingVerb(weakFirst[weak], weak, suggestions[0])
		}
		result.Suggestions = append(result.Suggestions, types.VerbSuggestion{
			WeakVerb:    weak,
			Suggestions: suggestions,
			Example:     example,
			Original:    weakFirst[weak],
		})
	}
	return result
}

func collectVerbStatements(v *vocab.Vocabulary, resume *types.ResumeContent) []verbStatement {
	var out []verbStatement
	add := func(sentence string) {
		if verb := leadingVerb(v, sentence); verb != "" {
			out = append(out, verbStatement{verb: verb, sentence: sentence})
		}
	}
	for _, entry := range resume.Sections.Experience {
		for _, sentence := range splitSentences(entry.Description) {
			add(sentence)
		}
		for _, achievement := range entry.Achievements {
			if sentences := splitSentences(achievement); len(sentences) > 0 {
				add(sentences[0])
			}
		}
	}
	return out
}

// leadingVerb returns the lowercase first word of a statement after pronouns
// and fillers. Statements opening with an article or a non-word have no verb.
func leadingVerb(v *vocab.Vocabulary, sentence string) string {
	for _, tok := range words(sentence) {
		lower := strings.ToLower(tok)
		if v.IsSkipWord(lower) {
			continue
		}
		if !isAlphaWord(lower) || determiners[lower] {
			return ""
		}
		return lower
	}
	return ""
}

func isAlphaWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// rewriteLeadingVerb replaces the first occurrence of verb in sentence,
// matching the capitalization of the original word.
func rewriteLeadingVerb(sentence, verb, replacement string) string {
	idx := strings.Index(strings.ToLower(sentence), verb)
	if idx < 0 {
		return replacement + " " + sentence
	}
	original := sentence[idx : idx+len(verb)]
	r, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(r) {
		replacement = capitalize(replacement)
	} else {
		replacement = strings.ToLower(replacement)
	}
	return sentence[:idx] + replacement + sentence[idx+len(verb):]
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
