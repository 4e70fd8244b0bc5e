package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankhokiudaan/server/internal/domain/ids"
	"github.com/pankhokiudaan/server/internal/domain/media"
)

func createArticle(t *testing.T, repo *MediaRepository, slug string, category media.Category, published time.Time) *media.Article {
	t.Helper()
	id, err := ids.NewULID()
	require.NoError(t, err)
	article, err := repo.Create(context.Background(), media.CreateParams{
		ID:            id,
		Title:         slug,
		Slug:          slug,
		Category:      category,
		Description:   "summary of " + slug,
		Content:       "<p>" + slug + "</p>",
		Author:        media.DefaultAuthor,
		PublishedDate: published,
	})
	require.NoError(t, err)
	return article
}

func TestMediaRepositoryListPublishedPagination(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t).Media()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	created := make([]*media.Article, 12)
	for i := range created {
		created[i] = createArticle(t, repo, fmt.Sprintf("article-%02d", i), media.CategoryNewsArticle, base.AddDate(0, 0, i))
	}

	result, err := repo.ListPublished(ctx, media.ListFilter{Limit: 5, Offset: 5})
	require.NoError(t, err)
	require.Equal(t, 12, result.Total)
	require.Len(t, result.Articles, 5)
	for i, article := range result.Articles {
		require.Equal(t, created[6-i].ID, article.ID)
		require.Empty(t, article.Content)
	}
}

func TestMediaRepositoryListPublishedFilters(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t).Media()
	now := time.Now().UTC()

	createArticle(t, repo, "news", media.CategoryNewsArticle, now)
	story := createArticle(t, repo, "story", media.CategorySuccessStory, now)
	hidden := createArticle(t, repo, "hidden-story", media.CategorySuccessStory, now)
	require.NoError(t, repo.SoftDelete(ctx, hidden.ID))

	category := media.CategorySuccessStory
	result, err := repo.ListPublished(ctx, media.ListFilter{Category: &category, Limit: 12})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	require.Equal(t, story.ID, result.Articles[0].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, article := range all {
		require.NotEmpty(t, article.Content)
	}
}

func TestMediaRepositoryViewIncrementsAtomically(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t).Media()
	article := createArticle(t, repo, "popular", media.CategoryBlogPost, time.Now())

	const readers = 20
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ViewPublishedBySlug(ctx, "popular")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, article.ID)
	require.NoError(t, err)
	require.EqualValues(t, readers, got.Views)

	require.NoError(t, repo.SoftDelete(ctx, article.ID))
	_, err = repo.ViewPublishedBySlug(ctx, "popular")
	require.ErrorIs(t, err, media.ErrNotFound)
}

func TestMediaRepositorySlugUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t).Media()
	first := createArticle(t, repo, "hello-world", media.CategoryNewsArticle, time.Now())
	second := createArticle(t, repo, "second", media.CategoryNewsArticle, time.Now())

	exists, err := repo.SlugExists(ctx, "hello-world", "")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.SlugExists(ctx, "hello-world", first.ID)
	require.NoError(t, err)
	require.False(t, exists)

	id, err := ids.NewULID()
	require.NoError(t, err)
	_, err = repo.Create(ctx, media.CreateParams{
		ID: id, Title: "Hello World", Slug: "hello-world", Category: media.CategoryNewsArticle,
		Description: "d", Content: "c", Author: media.DefaultAuthor, PublishedDate: time.Now(),
	})
	require.ErrorIs(t, err, media.ErrSlugTaken)

	slug := "hello-world"
	_, err = repo.Update(ctx, second.ID, media.UpdateParams{Slug: &slug})
	require.ErrorIs(t, err, media.ErrSlugTaken)
}

func TestMediaRepositoryUpdatePartial(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t).Media()
	article := createArticle(t, repo, "draft", media.CategoryNewsArticle, time.Now())

	title := "Final"
	slug := "final"
	category := media.CategoryPressRelease
	published := false
	updated, err := repo.Update(ctx, article.ID, media.UpdateParams{
		Title:       &title,
		Slug:        &slug,
		Category:    &category,
		IsPublished: &published,
	})
	require.NoError(t, err)
	require.Equal(t, "Final", updated.Title)
	require.Equal(t, "final", updated.Slug)
	require.Equal(t, media.CategoryPressRelease, updated.Category)
	require.False(t, updated.IsPublished)
	require.Equal(t, article.Description, updated.Description)

	_, err = repo.Update(ctx, "01HYX3KQW7ERTV9XNBM2P8QJZF", media.UpdateParams{Title: &title})
	require.ErrorIs(t, err, media.ErrNotFound)
}
