package media

import (
	"regexp"
	"strings"
)

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL slug for an article title: lower-cased, every run
// of characters outside [a-z0-9] collapsed to one hyphen, no hyphen at
// either end. Titles without ASCII letters or digits give "".
func Slugify(title string) string {
	slug := slugSeparator.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
