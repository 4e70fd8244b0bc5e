package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pankhokiudaan/server/internal/domain/media"
)

var _ media.Repository = (*MediaRepository)(nil)

type MediaRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

const (
	mediaSlugConstraint = "media_slug_key"

	mediaColumns = `id, title, slug, category, description, content, image_url, author,
       published_date, external_link, is_published, views, created_at, updated_at`
	// mediaSummaryColumns leaves content out of listings.
	mediaSummaryColumns = `id, title, slug, category, description, '' AS content, image_url, author,
       published_date, external_link, is_published, views, created_at, updated_at`
)

func (r *MediaRepository) ListPublished(ctx context.Context, filter media.ListFilter) (media.ListResult, error) {
	q := pick(r.pool, r.tx)

	var category *string
	if filter.Category != nil {
		value := string(*filter.Category)
		category = &value
	}

	var total int
	if err := q.QueryRow(ctx, `
SELECT count(*)
  FROM media
 WHERE is_published
   AND ($1::text IS NULL OR category = $1::text)`, category).Scan(&total); err != nil {
		return media.ListResult{}, fmt.Errorf("count articles: %w", err)
	}

	rows, err := q.Query(ctx, `
SELECT `+mediaSummaryColumns+`
  FROM media
 WHERE is_published
   AND ($1::text IS NULL OR category = $1::text)
 ORDER BY published_date DESC, id DESC
 LIMIT $2 OFFSET $3`, category, filter.Limit, filter.Offset)
	if err != nil {
		return media.ListResult{}, fmt.Errorf("list articles: %w", err)
	}
	articles, err := collectArticles(rows)
	if err != nil {
		return media.ListResult{}, err
	}
	return media.ListResult{Articles: articles, Total: total}, nil
}

func (r *MediaRepository) ListAll(ctx context.Context) ([]media.Article, error) {
	rows, err := pick(r.pool, r.tx).Query(ctx, `
SELECT `+mediaColumns+`
  FROM media
 ORDER BY published_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all articles: %w", err)
	}
	return collectArticles(rows)
}

func (r *MediaRepository) ViewPublishedBySlug(ctx context.Context, slug string) (*media.Article, error) {
	row := pick(r.pool, r.tx).QueryRow(ctx, `
UPDATE media
   SET views = views + 1
 WHERE slug = $1 AND is_published
RETURNING `+mediaColumns, slug)
	return scanArticle(row)
}

func (r *MediaRepository) GetByID(ctx context.Context, id string) (*media.Article, error) {
	row := pick(r.pool, r.tx).QueryRow(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id)
	return scanArticle(row)
}

func (r *MediaRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := pick(r.pool, r.tx).QueryRow(ctx, `
SELECT EXISTS (
  SELECT 1 FROM media WHERE slug = $1 AND ($2::text = '' OR id <> $2::text)
)`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

func (r *MediaRepository) Create(ctx context.Context, params media.CreateParams) (*media.Article, error) {
	row := pick(r.pool, r.tx).QueryRow(ctx, `
INSERT INTO media (id, title, slug, category, description, content, image_url, author, published_date, external_link)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+mediaColumns,
		params.ID,
		params.Title,
		params.Slug,
		string(params.Category),
		params.Description,
		params.Content,
		params.ImageURL,
		params.Author,
		params.PublishedDate,
		params.ExternalLink,
	)
	article, err := scanArticle(row)
	if err != nil {
		if uniqueViolationOn(err, mediaSlugConstraint) {
			return nil, media.ErrSlugTaken
		}
		return nil, fmt.Errorf("create article: %w", err)
	}
	return article, nil
}

func (r *MediaRepository) Update(ctx context.Context, id string, params media.UpdateParams) (*media.Article, error) {
	var category *string
	if params.Category != nil {
		value := string(*params.Category)
		category = &value
	}

	row := pick(r.pool, r.tx).QueryRow(ctx, `
UPDATE media
   SET title          = COALESCE($2::text, title),
       slug           = COALESCE($3::text, slug),
       category       = COALESCE($4::text, category),
       description    = COALESCE($5::text, description),
       content        = COALESCE($6::text, content),
       image_url      = COALESCE($7::text, image_url),
       author         = COALESCE($8::text, author),
       published_date = COALESCE($9::timestamptz, published_date),
       external_link  = COALESCE($10::text, external_link),
       is_published   = COALESCE($11::boolean, is_published),
       updated_at     = now()
 WHERE id = $1
RETURNING `+mediaColumns,
		id,
		params.Title,
		params.Slug,
		category,
		params.Description,
		params.Content,
		params.ImageURL,
		params.Author,
		params.PublishedDate,
		params.ExternalLink,
		params.IsPublished,
	)
	article, err := scanArticle(row)
	if err != nil {
		if uniqueViolationOn(err, mediaSlugConstraint) {
			return nil, media.ErrSlugTaken
		}
		return nil, err
	}
	return article, nil
}

func (r *MediaRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := pick(r.pool, r.tx).Exec(ctx,
		`UPDATE media SET is_published = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return media.ErrNotFound
	}
	return nil
}

func collectArticles(rows pgx.Rows) ([]media.Article, error) {
	defer rows.Close()
	articles := make([]media.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}

func scanArticle(row pgx.Row) (*media.Article, error) {
	var (
		article  media.Article
		category string
	)
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Slug,
		&category,
		&article.Description,
		&article.Content,
		&article.ImageURL,
		&article.Author,
		&article.PublishedDate,
		&article.ExternalLink,
		&article.IsPublished,
		&article.Views,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, media.ErrNotFound
		}
		return nil, fmt.Errorf("scan article: %w", err)
	}
	article.Category = media.Category(category)
	article.PublishedDate = article.PublishedDate.UTC()
	return &article, nil
}
