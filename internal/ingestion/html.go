package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTagRe = regexp.MustCompile(`(?i)<(html|body|div|p|ul|ol|li|br|h[1-6]|span|strong|section)[\s>/]`)

// blockSelectors become line breaks when HTML is flattened to text
const blockSelectors = "p, div, li, br, h1, h2, h3, h4, h5, h6, tr, section, article, header"

// LooksLikeHTML reports whether text appears to be an HTML fragment or document
func LooksLikeHTML(text string) bool {
	return htmlTagRe.MatchString(text)
}

// HTMLToText flattens an HTML job posting into line-structured plain text.
// Scripts and styles are dropped, list items become "- " bullets and block
// elements end their line.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer, iframe").Remove()
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return CleanText(doc.Text()), nil
}

// NormalizeJobText returns job-description text ready for extraction,
// converting HTML input to text first.
func NormalizeJobText(text string) string {
	if LooksLikeHTML(text) {
		if converted, err := HTMLToText(text); err == nil {
			return converted
		}
	}
	return CleanText(text)
}
