package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pankhokiudaan/server/internal/api/respond"
	"github.com/rs/zerolog"
)

var errNoDatabase = errors.New("database pool not configured")

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	version string
	timeout time.Duration
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version, timeout: 2 * time.Second}
}

type healthResponse struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Health reports liveness only; it never touches the database.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, healthResponse{
		Success:   true,
		Status:    "ok",
		Message:   "Server is running",
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready pings the database with a short timeout.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Success:   true,
		Status:    "ready",
		Message:   "Database reachable",
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	err := errNoDatabase
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		err = h.db.Ping(ctx)
		cancel()
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
		resp.Success = false
		resp.Status = "unavailable"
		resp.Message = "Database unavailable"
		respond.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}
