package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pankhokiudaan/server/internal/domain/events"
	"github.com/pankhokiudaan/server/internal/domain/ids"
)

func createEvent(t *testing.T, repo *EventRepository, title string, date time.Time) *events.Event {
	t.Helper()
	id, err := ids.NewULID()
	require.NoError(t, err)
	event, err := repo.Create(context.Background(), events.CreateParams{
		ID:          id,
		Title:       title,
		Description: title + " description",
		Date:        date,
		Location:    "TBA",
	})
	require.NoError(t, err)
	return event
}

func TestEventRepositoryListActiveOrdersByDate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t).Events()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	third := createEvent(t, repo, "Third", base.Add(48*time.Hour))
	first := createEvent(t, repo, "First", base)
	hidden := createEvent(t, repo, "Hidden", base.Add(24*time.Hour))
	require.NoError(t, repo.SoftDelete(ctx, hidden.ID))

	items, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, first.ID, items[0].ID)
	require.Equal(t, third.ID, items[1].ID)
	require.True(t, base.Equal(items[0].Date))
}

func TestEventRepositoryGetAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t).Events()
	event := createEvent(t, repo, "Workshop", time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))

	location := "Community Hall"
	empty := ""
	inactive := false
	updated, err := repo.Update(ctx, event.ID, events.UpdateParams{
		Location:         &location,
		RegistrationLink: &empty,
		IsActive:         &inactive,
	})
	require.NoError(t, err)
	require.Equal(t, "Workshop", updated.Title)
	require.Equal(t, "Community Hall", updated.Location)
	require.Empty(t, updated.RegistrationLink)
	require.False(t, updated.IsActive)
	require.False(t, updated.UpdatedAt.Before(event.UpdatedAt))

	got, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	_, err = repo.Update(ctx, "01HYX3KQW7ERTV9XNBM2P8QJZF", events.UpdateParams{Location: &location})
	require.ErrorIs(t, err, events.ErrNotFound)
	_, err = repo.GetByID(ctx, "01HYX3KQW7ERTV9XNBM2P8QJZF")
	require.ErrorIs(t, err, events.ErrNotFound)
	require.ErrorIs(t, repo.SoftDelete(ctx, "01HYX3KQW7ERTV9XNBM2P8QJZF"), events.ErrNotFound)
}

func TestEventRepositoryRejectsLongTitle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t).Events()
	id, err := ids.NewULID()
	require.NoError(t, err)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	_, err = repo.Create(ctx, events.CreateParams{ID: id, Title: string(long), Description: "d", Date: time.Now(), Location: "TBA"})
	require.Error(t, err)
}
