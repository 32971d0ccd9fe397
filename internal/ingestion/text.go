// Package ingestion turns résumé and job-description sources into clean plain text.
package ingestion

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	multiSpaceRe   = regexp.MustCompile(`[ \t\f\v]+`)
	blankRunRe     = regexp.MustCompile(`\n\n\n+`)
	numberedItemRe = regexp.MustCompile(`^\d{1,2}[.)]\s+`)
)

// bulletGlyphs are list markers recognized at the start of a line
var bulletGlyphs = []string{"- ", "* ", "• ", "· ", "▪ ", "◦ ", "‣ ", "– ", "— ", "○ ", "● ", "■ ", "➢ ", "► "}

// CleanText normalizes line endings and whitespace while preserving line structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, " ", " ")
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "")
	}

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankRunRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	// Headings and bullets keep their marker; inner runs of spaces collapse.
	return multiSpaceRe.ReplaceAllString(trimmed, " ")
}

// IsBulletLine reports whether a line is a list item (bullet glyph or "N." prefix)
func IsBulletLine(line string) bool {
	_, ok := StripBullet(line)
	return ok
}

// StripBullet removes a leading list marker and reports whether one was present
func StripBullet(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, glyph := range bulletGlyphs {
		if strings.HasPrefix(trimmed, glyph) {
			return strings.TrimSpace(trimmed[len(glyph):]), true
		}
	}
	// Bare glyph directly followed by text ("•Led a team")
	for _, glyph := range []string{"•", "·", "▪", "◦", "‣", "●", "■", "➢", "►"} {
		if strings.HasPrefix(trimmed, glyph) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, glyph)), true
		}
	}
	if loc := numberedItemRe.FindStringIndex(trimmed); loc != nil {
		return strings.TrimSpace(trimmed[loc[1]:]), true
	}
	return trimmed, false
}
