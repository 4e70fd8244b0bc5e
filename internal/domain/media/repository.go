package media

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("article not found")
	// ErrSlugTaken is returned by the store when the unique slug index rejects a write.
	ErrSlugTaken = errors.New("slug already exists")
)

const (
	DefaultAuthor        = "Pankho Ki Udaan Team"
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
)

type Article struct {
	ID            string
	Title         string
	Slug          string
	Category      Category
	Description   string
	Content       string
	ImageURL      string
	Author        string
	PublishedDate time.Time
	ExternalLink  string
	IsPublished   bool
	Views         int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateParams struct {
	ID            string
	Title         string
	Slug          string
	Category      Category
	Description   string
	Content       string
	ImageURL      string
	Author        string
	PublishedDate time.Time
	ExternalLink  string
}

// UpdateParams carries a partial update. Nil fields are left untouched.
// Slug is set together with Title.
type UpdateParams struct {
	Title         *string
	Slug          *string
	Category      *Category
	Description   *string
	Content       *string
	ImageURL      *string
	Author        *string
	PublishedDate *time.Time
	ExternalLink  *string
	IsPublished   *bool
}

func (p UpdateParams) Empty() bool {
	return p.Title == nil && p.Slug == nil && p.Category == nil && p.Description == nil &&
		p.Content == nil && p.ImageURL == nil && p.Author == nil && p.PublishedDate == nil &&
		p.ExternalLink == nil && p.IsPublished == nil
}

type ListFilter struct {
	Category *Category
	Limit    int
	Offset   int
}

type ListResult struct {
	Articles []Article
	Total    int
}

type Repository interface {
	// ListPublished returns one page of published articles, newest first,
	// with Content left empty.
	ListPublished(ctx context.Context, filter ListFilter) (ListResult, error)
	// ListAll returns every article, newest first, including unpublished ones.
	ListAll(ctx context.Context) ([]Article, error)
	// ViewPublishedBySlug increments the view counter of a published article
	// and returns it in a single atomic step.
	ViewPublishedBySlug(ctx context.Context, slug string) (*Article, error)
	GetByID(ctx context.Context, id string) (*Article, error)
	// SlugExists reports whether another article uses slug. excludeID may be
	// empty.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, params CreateParams) (*Article, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Article, error)
	SoftDelete(ctx context.Context, id string) error
}
