package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/vocab"
)

// Clarity sub-score weights
const (
	clarityWeight = 0.4
	impactWeight  = 0.4
	toneWeight    = 0.2
)

const (
	// averageLengthTarget is the mean sentence length above which clarity is penalized
	averageLengthTarget  = 20.0
	averageLengthPenalty = 3.0
	// impactPerSentence is the impact word density that earns a full impact score
	impactPerSentence = 0.5
	toneBaseline      = 50
	toneStep          = 10
)

// AnalyzeClarity rates readability, impact vocabulary and tone over the
// summary, experience descriptions and achievements.
func AnalyzeClarity(v *vocab.Vocabulary, resume *types.ResumeContent, longSentenceWords int) *types.ClarityResult {
	result := &types.ClarityResult{
		ReadabilityIssues: []string{},
		LongSentences:     []string{},
		ImpactWords:       []string{},
	}
	if resume == nil {
		return result
	}
	if longSentenceWords <= 0 {
		longSentenceWords = DefaultLongSentenceWords
	}

	sentences := claritySentences(resume)
	if len(sentences) == 0 {
		return result
	}

	impactSeen := map[string]bool{}
	impactHits, positive := 0, 0
	var corpus strings.Builder

	for _, sentence := range sentences {
		corpus.WriteString(strings.ToLower(sentence))
		corpus.WriteByte(' ')

		toks := words(sentence)
		result.WordCount += len(toks)
		if len(toks) > longSentenceWords {
			result.LongSentences = append(result.LongSentences, sentence)
			result.ReadabilityIssues = append(result.ReadabilityIssues, fmt.Sprintf(
				"Sentence is too long (%d words, maximum %d): %q", len(toks), longSentenceWords, excerpt(sentence, 60)))
		}
		for _, tok := range toks {
			lower := strings.ToLower(tok)
			if v.IsImpactWord(lower) {
				impactHits++
				if !impactSeen[lower] {
					impactSeen[lower] = true
					result.ImpactWords = append(result.ImpactWords, lower)
				}
			}
			if v.IsPositiveWord(lower) {
				positive++
			}
		}
	}

	negative := 0
	text := corpus.String()
	for _, phrase := range v.NegativePhrases() {
		negative += strings.Count(text, strings.ToLower(phrase))
	}

	result.SentenceCount = len(sentences)
	avg := float64(result.WordCount) / float64(result.SentenceCount)
	result.AverageSentenceLength = math.Round(avg*10) / 10

	clarity := 100 * (1 - float64(len(result.LongSentences))/float64(result.SentenceCount))
	if avg > averageLengthTarget {
		clarity -= (avg - averageLengthTarget) * averageLengthPenalty
	}
	result.ClarityScore = clampFloat(clarity)

	density := float64(impactHits) / float64(result.SentenceCount)
	result.ImpactScore = clampFloat(density / impactPerSentence * 100)

	result.ToneScore = clamp(toneBaseline + toneStep*(positive-negative))

	result.Score = clampFloat(clarityWeight*float64(result.ClarityScore) +
		impactWeight*float64(result.ImpactScore) +
		toneWeight*float64(result.ToneScore))
	return result
}

// claritySentences gathers the prose of the résumé. Each achievement counts
// as one sentence.
func claritySentences(resume *types.ResumeContent) []string {
	var out []string
	out = append(out, splitSentences(resume.Sections.Summary)...)
	for _, entry := range resume.Sections.Experience {
		out = append(out, splitSentences(entry.Description)...)
		for _, achievement := range entry.Achievements {
			if a := strings.TrimSpace(achievement); a != "" {
				out = append(out, a)
			}
		}
	}
	return out
}
