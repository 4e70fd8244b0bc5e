package media

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/pankhokiudaan/server/internal/apperr"
	"github.com/pankhokiudaan/server/internal/domain/dates"
	"github.com/pankhokiudaan/server/internal/domain/ids"
	"github.com/pankhokiudaan/server/internal/sanitize"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100

	msgNotFound  = "Article not found"
	msgDuplicate = "An article with this title already exists"
)

// ViewObserver is told about every counted article read.
type ViewObserver interface {
	ObserveArticleView()
}

type Service struct {
	repo     Repository
	observer ViewObserver
	now      func() time.Time
	logger   zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("component", "media").Logger(),
	}
}

func (s *Service) WithViewObserver(observer ViewObserver) *Service {
	s.observer = observer
	return s
}

type ListQuery struct {
	Category string
	Page     int
	Limit    int
}

// ParseListQuery reads category, page and limit. Missing, non-numeric or
// non-positive page and limit fall back to their defaults; limit is capped.
func ParseListQuery(values url.Values) ListQuery {
	return ListQuery{
		Category: strings.TrimSpace(values.Get("category")),
		Page:     positiveInt(values.Get("page"), DefaultPage),
		Limit:    min(positiveInt(values.Get("limit"), DefaultLimit), MaxLimit),
	}
}

// listOffset returns (page-1)*limit, saturating at math.MaxInt so a huge page
// reads past the end instead of wrapping to a negative OFFSET.
func listOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

type Pagination struct {
	Page  int
	Limit int
	Total int
	Pages int
}

type Page struct {
	Articles   []Article
	Pagination Pagination
}

func (s *Service) ListPublished(ctx context.Context, query ListQuery) (Page, error) {
	if query.Page < 1 {
		query.Page = DefaultPage
	}
	if query.Limit < 1 {
		query.Limit = DefaultLimit
	}
	query.Limit = min(query.Limit, MaxLimit)

	filter := ListFilter{Limit: query.Limit, Offset: listOffset(query.Page, query.Limit)}
	if query.Category != "" {
		category := Category(query.Category)
		filter.Category = &category
	}

	result, err := s.repo.ListPublished(ctx, filter)
	if err != nil {
		return Page{}, apperr.Internal("Failed to fetch articles", err)
	}
	return Page{
		Articles: result.Articles,
		Pagination: Pagination{
			Page:  query.Page,
			Limit: query.Limit,
			Total: result.Total,
			Pages: (result.Total + query.Limit - 1) / query.Limit,
		},
	}, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Article, error) {
	articles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch articles", err)
	}
	return articles, nil
}

// View returns a published article by slug and counts the read.
func (s *Service) View(ctx context.Context, slug string) (*Article, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, apperr.NotFound(msgNotFound)
	}
	article, err := s.repo.ViewPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, apperr.Internal("Failed to fetch article", err)
	}
	if s.observer != nil {
		s.observer.ObserveArticleView()
	}
	return article, nil
}

type CreateInput struct {
	Title         string
	Category      string
	Description   string
	Content       string
	ImageURL      string
	Author        string
	PublishedDate string
	ExternalLink  string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Article, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	content := strings.TrimSpace(input.Content)
	if title == "" || description == "" || content == "" {
		return nil, apperr.Validation("Title, description, and content are required")
	}
	if err := validateLengths(&title, &description); err != nil {
		return nil, err
	}
	content = sanitize.ArticleContent(content)
	if content == "" {
		return nil, apperr.Validation("Content is required")
	}

	slug, err := slugFor(title)
	if err != nil {
		return nil, err
	}
	category, ok := ParseCategory(input.Category)
	if !ok {
		return nil, invalidCategory()
	}

	published := s.now().UTC()
	if raw := strings.TrimSpace(input.PublishedDate); raw != "" {
		published, err = dates.Parse(raw)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, "Invalid published date", err)
		}
	}

	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = DefaultAuthor
	}

	taken, err := s.repo.SlugExists(ctx, slug, "")
	if err != nil {
		return nil, apperr.Internal("Failed to create article", err)
	}
	if taken {
		return nil, apperr.Conflict(msgDuplicate)
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, apperr.Internal("Failed to create article", err)
	}

	article, err := s.repo.Create(ctx, CreateParams{
		ID:            id,
		Title:         title,
		Slug:          slug,
		Category:      category,
		Description:   description,
		Content:       content,
		ImageURL:      strings.TrimSpace(input.ImageURL),
		Author:        author,
		PublishedDate: published,
		ExternalLink:  strings.TrimSpace(input.ExternalLink),
	})
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			return nil, apperr.Conflict(msgDuplicate)
		}
		return nil, apperr.Internal("Failed to create article", err)
	}
	s.logger.Info().Str("article_id", article.ID).Str("slug", article.Slug).Msg("article created")
	return article, nil
}

// UpdateInput is a partial edit. A nil field is left as is.
type UpdateInput struct {
	Title         *string
	Category      *string
	Description   *string
	Content       *string
	ImageURL      *string
	Author        *string
	PublishedDate *string
	ExternalLink  *string
	IsPublished   *bool
}

// Update edits an article whatever its publish state. A new title
// regenerates the slug, which must not collide with any other article.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Article, error) {
	id, err := ids.NormalizeULID(id)
	if err != nil {
		return nil, apperr.NotFound(msgNotFound)
	}

	var params UpdateParams
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperr.Validation("Article title is required")
		}
		if utf8.RuneCountInString(title) > MaxTitleLength {
			return nil, apperr.Validation("Title cannot exceed 200 characters")
		}
		slug, err := slugFor(title)
		if err != nil {
			return nil, err
		}
		params.Title = &title
		params.Slug = &slug
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, apperr.Validation("Category is required")
		}
		category, ok := ParseCategory(*input.Category)
		if !ok {
			return nil, invalidCategory()
		}
		params.Category = &category
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperr.Validation("Description is required")
		}
		if utf8.RuneCountInString(description) > MaxDescriptionLength {
			return nil, apperr.Validation("Description cannot exceed 500 characters")
		}
		params.Description = &description
	}
	if input.Content != nil {
		content := sanitize.ArticleContent(strings.TrimSpace(*input.Content))
		if content == "" {
			return nil, apperr.Validation("Content is required")
		}
		params.Content = &content
	}
	if input.PublishedDate != nil {
		raw := strings.TrimSpace(*input.PublishedDate)
		if raw == "" {
			return nil, apperr.Validation("Published date cannot be empty")
		}
		published, err := dates.Parse(raw)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, "Invalid published date", err)
		}
		params.PublishedDate = &published
	}
	params.ImageURL = trimmed(input.ImageURL)
	params.Author = trimmed(input.Author)
	params.ExternalLink = trimmed(input.ExternalLink)
	params.IsPublished = input.IsPublished

	if params.Empty() {
		return s.getByID(ctx, id, "Failed to update article")
	}

	if params.Slug != nil {
		taken, err := s.repo.SlugExists(ctx, *params.Slug, id)
		if err != nil {
			return nil, apperr.Internal("Failed to update article", err)
		}
		if taken {
			return nil, apperr.Conflict(msgDuplicate)
		}
	}

	article, err := s.repo.Update(ctx, id, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, apperr.NotFound(msgNotFound)
		case errors.Is(err, ErrSlugTaken):
			return nil, apperr.Conflict(msgDuplicate)
		default:
			return nil, apperr.Internal("Failed to update article", err)
		}
	}
	s.logger.Info().Str("article_id", article.ID).Msg("article updated")
	return article, nil
}

// Delete unpublishes an article. The record and its slug are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := ids.NormalizeULID(id)
	if err != nil {
		return apperr.NotFound(msgNotFound)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return apperr.Internal("Failed to delete article", err)
	}
	s.logger.Info().Str("article_id", id).Msg("article unpublished")
	return nil
}

func (s *Service) getByID(ctx context.Context, id, failure string) (*Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, apperr.Internal(failure, err)
	}
	return article, nil
}

func validateLengths(title, description *string) error {
	if utf8.RuneCountInString(*title) > MaxTitleLength {
		return apperr.Validation("Title cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return apperr.Validation("Description cannot exceed 500 characters")
	}
	return nil
}

func slugFor(title string) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		return "", apperr.Validation("Title must contain at least one letter or digit")
	}
	return slug, nil
}

func invalidCategory() error {
	return apperr.Validation("Category must be one of: " + categoryList())
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
