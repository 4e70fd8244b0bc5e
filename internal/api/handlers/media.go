package handlers

import (
	"context"
	"net/http"

	"github.com/pankhokiudaan/server/internal/api/respond"
	"github.com/pankhokiudaan/server/internal/audit"
	"github.com/pankhokiudaan/server/internal/domain/media"
)

type MediaService interface {
	ListPublished(ctx context.Context, query media.ListQuery) (media.Page, error)
	ListAll(ctx context.Context) ([]media.Article, error)
	View(ctx context.Context, slug string) (*media.Article, error)
	Create(ctx context.Context, input media.CreateInput) (*media.Article, error)
	Update(ctx context.Context, id string, input media.UpdateInput) (*media.Article, error)
	Delete(ctx context.Context, id string) error
}

type MediaHandler struct {
	service   MediaService
	responder respond.Responder
	audit     *audit.Logger
}

func NewMediaHandler(service MediaService, responder respond.Responder, auditLog *audit.Logger) *MediaHandler {
	return &MediaHandler{service: service, responder: responder, audit: auditLog}
}

// MediaPathKey is the wildcard shared by the slug lookup and the id based
// edits under /api/media/.
const MediaPathKey = "key"

type paginationJSON struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type articleEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Article articleJSON `json:"article"`
}

// List serves the public listing. Bodies are omitted; readers fetch them by
// slug.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListPublished(r.Context(), media.ParseListQuery(r.URL.Query()))
	if err != nil {
		h.responder.Error(w, r, err, "Failed to fetch articles")
		return
	}
	respond.JSON(w, http.StatusOK, struct {
		Success    bool           `json:"success"`
		Articles   []articleJSON  `json:"articles"`
		Pagination paginationJSON `json:"pagination"`
	}{
		Success:  true,
		Articles: toArticlesJSON(page.Articles, false),
		Pagination: paginationJSON{
			Page:  page.Pagination.Page,
			Limit: page.Pagination.Limit,
			Total: page.Pagination.Total,
			Pages: page.Pagination.Pages,
		},
	})
}

func (h *MediaHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAll(r.Context())
	if err != nil {
		h.responder.Error(w, r, err, "Failed to fetch articles")
		return
	}
	respond.JSON(w, http.StatusOK, struct {
		Success  bool          `json:"success"`
		Articles []articleJSON `json:"articles"`
	}{Success: true, Articles: toArticlesJSON(list, true)})
}

func (h *MediaHandler) View(w http.ResponseWriter, r *http.Request) {
	article, err := h.service.View(r.Context(), r.PathValue(MediaPathKey))
	if err != nil {
		h.responder.Error(w, r, err, "Failed to fetch article")
		return
	}
	respond.JSON(w, http.StatusOK, articleEnvelope{Success: true, Article: toArticleJSON(*article, true)})
}

type createArticleRequest struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Content       string `json:"content"`
	ImageURL      string `json:"imageUrl"`
	Author        string `json:"author"`
	PublishedDate string `json:"publishedDate"`
	ExternalLink  string `json:"externalLink"`
}

func (h *MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, err, "")
		return
	}
	article, err := h.service.Create(r.Context(), media.CreateInput(req))
	if err != nil {
		h.audit.Record(r, "media.create", "media", "", err)
		h.responder.Error(w, r, err, "Failed to create article")
		return
	}
	h.audit.Record(r, "media.create", "media", article.ID, nil)
	respond.JSON(w, http.StatusCreated, articleEnvelope{
		Success: true,
		Message: "Article created successfully",
		Article: toArticleJSON(*article, true),
	})
}

type updateArticleRequest struct {
	Title         *string `json:"title"`
	Category      *string `json:"category"`
	Description   *string `json:"description"`
	Content       *string `json:"content"`
	ImageURL      *string `json:"imageUrl"`
	Author        *string `json:"author"`
	PublishedDate *string `json:"publishedDate"`
	ExternalLink  *string `json:"externalLink"`
	IsPublished   *bool   `json:"isPublished"`
}

func (h *MediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateArticleRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, err, "")
		return
	}
	id := r.PathValue(MediaPathKey)
	article, err := h.service.Update(r.Context(), id, media.UpdateInput(req))
	h.audit.Record(r, "media.update", "media", id, err)
	if err != nil {
		h.responder.Error(w, r, err, "Failed to update article")
		return
	}
	respond.JSON(w, http.StatusOK, articleEnvelope{
		Success: true,
		Message: "Article updated successfully",
		Article: toArticleJSON(*article, true),
	})
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue(MediaPathKey)
	err := h.service.Delete(r.Context(), id)
	h.audit.Record(r, "media.delete", "media", id, err)
	if err != nil {
		h.responder.Error(w, r, err, "Failed to delete article")
		return
	}
	respond.Message(w, http.StatusOK, "Article deleted successfully")
}
