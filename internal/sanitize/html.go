package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strictPolicy removes all HTML tags and attributes.
	strictPolicy = bluemonday.StrictPolicy()

	// articlePolicy allows the formatting an admin editor produces:
	// paragraphs, headings, emphasis, lists, links, images and tables.
	// Off-site links open in a new tab with rel="nofollow noopener".
	articlePolicy = bluemonday.UGCPolicy().
			AddTargetBlankToFullyQualifiedLinks(true).
			RequireNoFollowOnFullyQualifiedLinks(true)
)

// FormValue turns a public form submission value into plain text: tags are
// dropped, entities decoded and surrounding space trimmed. The result is
// meant to be escaped again by html/template when it is rendered.
func FormValue(input string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(input)))
}

// FormValues applies FormValue to each element and drops the ones that end
// up empty.
func FormValues(inputs []string) []string {
	if inputs == nil {
		return nil
	}
	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if v := FormValue(input); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ArticleContent sanitizes the HTML body of a media article.
func ArticleContent(input string) string {
	return strings.TrimSpace(articlePolicy.Sanitize(input))
}
