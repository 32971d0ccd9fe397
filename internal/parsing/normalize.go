package parsing

import (
	"strings"

	"github.com/jonathan/resume-analyzer/internal/vocab"
)

// NormalizeSkillName normalizes a skill name to its canonical vocabulary form.
// Unknown skills keep their casing, except all-lowercase single words which are capitalized.
func NormalizeSkillName(v *vocab.Vocabulary, skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	if v != nil {
		if canonical, ok := v.CanonicalSkill(normalized); ok {
			return canonical
		}
	}

	if normalized == strings.ToLower(normalized) && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}
	return normalized
}

// dedupeFold removes case-insensitive duplicates, keeping the first spelling and order
func dedupeFold(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// indexTerm returns the offset of lowerTerm in lowerText where no letter or
// digit sits directly before or after it, so "java" does not match inside
// "javascript". It returns -1 when there is no such match.
func indexTerm(lowerText, lowerTerm string) int {
	if lowerTerm == "" {
		return -1
	}
	offset := 0
	for {
		idx := strings.Index(lowerText[offset:], lowerTerm)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(lowerTerm)
		if !isWordByte(lowerText, start-1) && !isWordByte(lowerText, end) {
			return start
		}
		offset = start + 1
	}
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
