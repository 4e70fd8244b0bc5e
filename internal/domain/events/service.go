package events

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/pankhokiudaan/server/internal/apperr"
	"github.com/pankhokiudaan/server/internal/domain/dates"
	"github.com/pankhokiudaan/server/internal/domain/ids"
)

const msgNotFound = "Event not found"

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch events", err)
	}
	return items, nil
}

// Get returns an active event. Inactive events and malformed ids are
// reported as not found.
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	id, err := ids.NormalizeULID(id)
	if err != nil {
		return nil, apperr.NotFound(msgNotFound)
	}
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, apperr.Internal("Failed to fetch event", err)
	}
	if !event.IsActive {
		return nil, apperr.NotFound(msgNotFound)
	}
	return event, nil
}

type CreateInput struct {
	Title            string
	Description      string
	Date             string
	Location         string
	ImageURL         string
	RegistrationLink string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Event, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	rawDate := strings.TrimSpace(input.Date)
	if title == "" || description == "" || rawDate == "" {
		return nil, apperr.Validation("Title, description, and date are required")
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	date, err := dates.Parse(rawDate)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "Invalid event date", err)
	}

	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = DefaultLocation
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, apperr.Internal("Failed to create event", err)
	}

	event, err := s.repo.Create(ctx, CreateParams{
		ID:               id,
		Title:            title,
		Description:      description,
		Date:             date,
		Location:         location,
		ImageURL:         strings.TrimSpace(input.ImageURL),
		RegistrationLink: strings.TrimSpace(input.RegistrationLink),
	})
	if err != nil {
		return nil, apperr.Internal("Failed to create event", err)
	}
	s.logger.Info().Str("event_id", event.ID).Msg("event created")
	return event, nil
}

// UpdateInput is a partial edit. A nil field is left as is; a present
// optional field may be cleared with "".
type UpdateInput struct {
	Title            *string
	Description      *string
	Date             *string
	Location         *string
	ImageURL         *string
	RegistrationLink *string
	IsActive         *bool
}

// Update edits an event whatever its active state, so a soft-deleted event
// can be corrected and restored with IsActive.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Event, error) {
	id, err := ids.NormalizeULID(id)
	if err != nil {
		return nil, apperr.NotFound(msgNotFound)
	}

	var params UpdateParams
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperr.Validation("Event title is required")
		}
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		params.Title = &title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperr.Validation("Event description is required")
		}
		params.Description = &description
	}
	if input.Date != nil {
		raw := strings.TrimSpace(*input.Date)
		if raw == "" {
			return nil, apperr.Validation("Event date is required")
		}
		date, err := dates.Parse(raw)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, "Invalid event date", err)
		}
		params.Date = &date
	}
	params.Location = trimmed(input.Location)
	params.ImageURL = trimmed(input.ImageURL)
	params.RegistrationLink = trimmed(input.RegistrationLink)
	params.IsActive = input.IsActive

	if params.Empty() {
		event, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, apperr.NotFound(msgNotFound)
			}
			return nil, apperr.Internal("Failed to update event", err)
		}
		return event, nil
	}

	event, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, apperr.Internal("Failed to update event", err)
	}
	s.logger.Info().Str("event_id", event.ID).Msg("event updated")
	return event, nil
}

// Delete hides an event from public listings. The record is kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := ids.NormalizeULID(id)
	if err != nil {
		return apperr.NotFound(msgNotFound)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return apperr.Internal("Failed to delete event", err)
	}
	s.logger.Info().Str("event_id", id).Msg("event deactivated")
	return nil
}

func validateTitle(title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return apperr.Validation("Title cannot exceed 200 characters")
	}
	return nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
