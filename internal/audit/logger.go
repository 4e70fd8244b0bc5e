// Package audit records who changed what through the admin API.
package audit

import (
	"net"
	"net/http"
	"strings"

	"github.com/pankhokiudaan/server/internal/api/middleware"
	"github.com/pankhokiudaan/server/internal/apperr"
	"github.com/rs/zerolog"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Entry is one audited action.
type Entry struct {
	Action       string
	Admin        string
	ResourceType string
	ResourceID   string
	IPAddress    string
	Status       string
	Reason       string
}

// Logger writes audit entries as structured log lines tagged
// component=audit. A nil *Logger discards everything.
type Logger struct {
	logger zerolog.Logger
}

func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger.With().Str("component", "audit").Logger()}
}

func (l *Logger) Log(entry Entry) {
	if l == nil {
		return
	}
	event := l.logger.Info()
	if entry.Status == StatusFailure {
		event = l.logger.Warn()
	}
	event = event.
		Str("action", entry.Action).
		Str("admin", entry.Admin).
		Str("status", entry.Status).
		Str("ip_address", entry.IPAddress)
	if entry.ResourceType != "" {
		event = event.Str("resource_type", entry.ResourceType)
	}
	if entry.ResourceID != "" {
		event = event.Str("resource_id", entry.ResourceID)
	}
	if entry.Reason != "" {
		event = event.Str("reason", entry.Reason)
	}
	event.Msg("audit")
}

// Record logs action for the admin attached to r. A nil err is a success;
// otherwise the client-facing message becomes the reason.
func (l *Logger) Record(r *http.Request, action, resourceType, resourceID string, err error) {
	if l == nil {
		return
	}
	admin := "anonymous"
	if a, ok := middleware.AdminFromContext(r.Context()); ok {
		admin = a.Username
	}
	entry := Entry{
		Action:       action,
		Admin:        admin,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    clientIP(r),
		Status:       StatusSuccess,
	}
	if err != nil {
		entry.Status = StatusFailure
		entry.Reason = apperr.MessageOf(err, "internal error")
	}
	l.Log(entry)
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection address without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
