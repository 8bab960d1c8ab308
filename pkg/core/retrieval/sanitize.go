package retrieval

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// SanitizeSnippet flattens document content to plain text before it is placed
// in a context block. Filing-derived snippets frequently arrive as HTML
// fragments with styling noise; plain text passes through untouched apart
// from whitespace normalization.
func SanitizeSnippet(content string) string {
	if strings.Contains(content, "<") && strings.Contains(content, ">") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err == nil {
			doc.Find("script, style, img").Remove()
			content = doc.Text()
		}
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(content, " "))
}
