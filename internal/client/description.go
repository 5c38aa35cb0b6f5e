package client

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SanitizeDescription strips script and style nodes from the rendered
// description sub-page and returns the body markup. On any parse problem the
// input is returned unchanged; the description is best-effort content.
func SanitizeDescription(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	doc.Find("script, style").Remove()

	body, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(body) == "" {
		return html
	}
	return strings.TrimSpace(body)
}
