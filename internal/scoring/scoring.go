// Package scoring provides the résumé analyzers and the score aggregator.
//
// Every analyzer is pure, bounded to [0,100] and degrades to a zero result
// when its inputs are missing. The Engine isolates analyzer failures so one
// panicking analyzer never prevents the others from running.
package scoring

import (
	"math"
	"regexp"
	"strings"
)

// NeutralScore substitutes for a category whose analyzer failed
const NeutralScore = 50

// Default tuning values
const (
	DefaultLongSentenceWords  = 25
	DefaultMaxVerbSuggestions = 3
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	wordRe          = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'’+#.\-]*`)
)

// percent returns round(part/total*100), or 0 when total is 0
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

func clampFloat(score float64) int {
	return clamp(int(math.Round(score)))
}

// splitSentences splits prose on terminal punctuation followed by whitespace
func splitSentences(text string) []string {
	var out []string
	for _, part := range sentenceSplitRe.Split(text, -1) {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// words returns the word tokens of text with trailing punctuation removed
func words(text string) []string {
	tokens := wordRe.FindAllString(text, -1)
	for i, tok := range tokens {
		tokens[i] = strings.TrimRight(tok, ".-'’")
	}
	return tokens
}

// excerpt shortens text to at most n runes for messages
func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
