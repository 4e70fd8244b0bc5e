package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pankhokiudaan/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

const eventColumns = `id, title, description, date, location, image_url, registration_link, is_active, created_at, updated_at`

func (r *EventRepository) ListActive(ctx context.Context) ([]events.Event, error) {
	rows, err := pick(r.pool, r.tx).Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE is_active
 ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := make([]events.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	row := pick(r.pool, r.tx).QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	row := pick(r.pool, r.tx).QueryRow(ctx, `
INSERT INTO events (id, title, description, date, location, image_url, registration_link)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+eventColumns,
		params.ID,
		params.Title,
		params.Description,
		params.Date,
		params.Location,
		params.ImageURL,
		params.RegistrationLink,
	)
	event, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	row := pick(r.pool, r.tx).QueryRow(ctx, `
UPDATE events
   SET title             = COALESCE($2::text, title),
       description       = COALESCE($3::text, description),
       date              = COALESCE($4::timestamptz, date),
       location          = COALESCE($5::text, location),
       image_url         = COALESCE($6::text, image_url),
       registration_link = COALESCE($7::text, registration_link),
       is_active         = COALESCE($8::boolean, is_active),
       updated_at        = now()
 WHERE id = $1
RETURNING `+eventColumns,
		id,
		params.Title,
		params.Description,
		params.Date,
		params.Location,
		params.ImageURL,
		params.RegistrationLink,
		params.IsActive,
	)
	return scanEvent(row)
}

func (r *EventRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := pick(r.pool, r.tx).Exec(ctx,
		`UPDATE events SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.ImageURL,
		&event.RegistrationLink,
		&event.IsActive,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	event.Date = event.Date.UTC()
	return &event, nil
}
