package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

const (
	DefaultLocation = "TBA"
	MaxTitleLength  = 200
)

type Event struct {
	ID               string
	Title            string
	Description      string
	Date             time.Time
	Location         string
	ImageURL         string
	RegistrationLink string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateParams struct {
	ID               string
	Title            string
	Description      string
	Date             time.Time
	Location         string
	ImageURL         string
	RegistrationLink string
}

// UpdateParams carries a partial update. Nil fields are left untouched.
type UpdateParams struct {
	Title            *string
	Description      *string
	Date             *time.Time
	Location         *string
	ImageURL         *string
	RegistrationLink *string
	IsActive         *bool
}

func (p UpdateParams) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Location == nil &&
		p.ImageURL == nil && p.RegistrationLink == nil && p.IsActive == nil
}

type Repository interface {
	// ListActive returns active events ordered by date ascending.
	ListActive(ctx context.Context) ([]Event, error)
	// GetByID returns the event whatever its active state.
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, params CreateParams) (*Event, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Event, error)
	SoftDelete(ctx context.Context, id string) error
}
