package media

import "strings"

type Category string

const (
	CategoryNewsArticle   Category = "News Article"
	CategoryPressRelease  Category = "Press Release"
	CategoryBlogPost      Category = "Blog Post"
	CategoryEventCoverage Category = "Event Coverage"
	CategorySuccessStory  Category = "Success Story"

	DefaultCategory = CategoryNewsArticle
)

var Categories = []Category{
	CategoryNewsArticle,
	CategoryPressRelease,
	CategoryBlogPost,
	CategoryEventCoverage,
	CategorySuccessStory,
}

// ParseCategory matches an exact category name. An empty value is the
// default category.
func ParseCategory(value string) (Category, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultCategory, true
	}
	for _, c := range Categories {
		if string(c) == value {
			return c, true
		}
	}
	return "", false
}

func categoryList() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
