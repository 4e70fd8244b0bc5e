package handlers

import (
	"time"

	"github.com/pankhokiudaan/server/internal/domain/admins"
	"github.com/pankhokiudaan/server/internal/domain/events"
	"github.com/pankhokiudaan/server/internal/domain/media"
)

// Records carry both "id" and the "_id" key the site's frontend was built
// against.

type adminJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func toAdminJSON(a admins.Summary) adminJSON {
	return adminJSON{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role}
}

type eventJSON struct {
	ID               string    `json:"id"`
	LegacyID         string    `json:"_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	Location         string    `json:"location"`
	ImageURL         string    `json:"imageUrl"`
	RegistrationLink string    `json:"registrationLink"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toEventJSON(e events.Event) eventJSON {
	return eventJSON{
		ID:               e.ID,
		LegacyID:         e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Date:             e.Date.UTC(),
		Location:         e.Location,
		ImageURL:         e.ImageURL,
		RegistrationLink: e.RegistrationLink,
		IsActive:         e.IsActive,
		CreatedAt:        e.CreatedAt.UTC(),
		UpdatedAt:        e.UpdatedAt.UTC(),
	}
}

func toEventsJSON(list []events.Event) []eventJSON {
	out := make([]eventJSON, 0, len(list))
	for _, e := range list {
		out = append(out, toEventJSON(e))
	}
	return out
}

type articleJSON struct {
	ID            string    `json:"id"`
	LegacyID      string    `json:"_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Content       *string   `json:"content,omitempty"`
	ImageURL      string    `json:"imageUrl"`
	Author        string    `json:"author"`
	PublishedDate time.Time `json:"publishedDate"`
	ExternalLink  string    `json:"externalLink"`
	IsPublished   bool      `json:"isPublished"`
	Views         int64     `json:"views"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// toArticleJSON renders an article; listings pass withContent=false so the
// body is left out rather than sent empty.
func toArticleJSON(a media.Article, withContent bool) articleJSON {
	out := articleJSON{
		ID:            a.ID,
		LegacyID:      a.ID,
		Title:         a.Title,
		Slug:          a.Slug,
		Category:      string(a.Category),
		Description:   a.Description,
		ImageURL:      a.ImageURL,
		Author:        a.Author,
		PublishedDate: a.PublishedDate.UTC(),
		ExternalLink:  a.ExternalLink,
		IsPublished:   a.IsPublished,
		Views:         a.Views,
		CreatedAt:     a.CreatedAt.UTC(),
		UpdatedAt:     a.UpdatedAt.UTC(),
	}
	if withContent {
		content := a.Content
		out.Content = &content
	}
	return out
}

func toArticlesJSON(list []media.Article, withContent bool) []articleJSON {
	out := make([]articleJSON, 0, len(list))
	for _, a := range list {
		out = append(out, toArticleJSON(a, withContent))
	}
	return out
}
