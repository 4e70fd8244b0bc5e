package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/pankhokiudaan/server/internal/api/handlers"
	"github.com/pankhokiudaan/server/internal/api/middleware"
	"github.com/pankhokiudaan/server/internal/api/respond"
	"github.com/pankhokiudaan/server/internal/audit"
	"github.com/pankhokiudaan/server/internal/config"
	"github.com/pankhokiudaan/server/internal/metrics"
	"github.com/rs/zerolog"
)

// Deps are the services the HTTP layer is built on. serve wires the real
// ones; tests pass stubs.
type Deps struct {
	Config  config.Config
	Logger  zerolog.Logger
	Version string

	Auth   handlers.AuthService
	Events handlers.EventService
	Media  handlers.MediaService
	Forms  handlers.FormRelay
	DB     handlers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	responder := respond.NewResponder(cfg.Environment)

	auditLog := audit.NewLogger(deps.Logger)

	authHandler := handlers.NewAuthHandler(deps.Auth, responder, auditLog)
	eventsHandler := handlers.NewEventsHandler(deps.Events, responder, auditLog)
	mediaHandler := handlers.NewMediaHandler(deps.Media, responder, auditLog)
	formsHandler := handlers.NewFormsHandler(deps.Forms, responder)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Version)

	requireAdmin := middleware.RequireAdmin(deps.Auth, responder)
	publicBody := middleware.RequestSize(middleware.PublicMaxBodySize)
	adminBody := middleware.RequestSize(middleware.AdminMaxBodySize)

	public := func(h http.HandlerFunc) http.Handler { return publicBody(h) }
	admin := func(h http.HandlerFunc) http.Handler { return requireAdmin(adminBody(h)) }

	register := admin(authHandler.Register)
	if cfg.Auth.OpenRegistration {
		register = middleware.OptionalAdmin(deps.Auth)(publicBody(http.HandlerFunc(authHandler.Register)))
	}

	mux := http.NewServeMux()

	mux.Handle("/api/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: public(authHandler.Login),
	}))
	mux.Handle("/api/auth/verify", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(authHandler.Verify),
	}))
	mux.Handle("/api/auth/register", methodMux(map[string]http.Handler{
		http.MethodPost: register,
	}))

	mux.Handle("/api/events", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(eventsHandler.List),
		http.MethodPost: admin(eventsHandler.Create),
	}))
	mux.Handle("/api/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(eventsHandler.Get),
		http.MethodPut:    admin(eventsHandler.Update),
		http.MethodDelete: admin(eventsHandler.Delete),
	}))

	// /api/media/{key} is a slug for GET and an id for PUT and DELETE.
	mux.Handle("/api/media", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(mediaHandler.List),
		http.MethodPost: admin(mediaHandler.Create),
	}))
	mux.Handle("/api/media/admin/all", methodMux(map[string]http.Handler{
		http.MethodGet: admin(mediaHandler.ListAll),
	}))
	mux.Handle("/api/media/{"+handlers.MediaPathKey+"}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(mediaHandler.View),
		http.MethodPut:    admin(mediaHandler.Update),
		http.MethodDelete: admin(mediaHandler.Delete),
	}))

	mux.Handle("/api/contact", methodMux(map[string]http.Handler{
		http.MethodPost: public(formsHandler.Contact),
	}))
	mux.Handle("/api/podcast-guest", methodMux(map[string]http.Handler{
		http.MethodPost: public(formsHandler.PodcastGuest),
	}))
	mux.Handle("/api/disability-inclusion", methodMux(map[string]http.Handler{
		http.MethodPost: public(formsHandler.DisabilityInclusion),
	}))
	mux.Handle("/api/udaan-talk", methodMux(map[string]http.Handler{
		http.MethodPost: public(formsHandler.UdaanTalk),
	}))

	mux.Handle("/api/health", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(healthHandler.Health),
	}))
	mux.Handle("/api/ready", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(healthHandler.Ready),
	}))
	mux.Handle("/metrics", methodMux(map[string]http.Handler{
		http.MethodGet: metrics.Handler(),
	}))

	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder.Fail(w, r, http.StatusNotFound, "Route not found")
	}))

	var handler http.Handler = middleware.SpanRoute(mux)
	handler = middleware.CORS(cfg.CORS, deps.Logger)(handler)
	handler = middleware.SecurityHeaders(cfg.Environment == "production")(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(handler)
	handler = middleware.CorrelationID(deps.Logger)(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.Recover(responder, deps.Logger)(handler)
	return handler
}

// methodMux dispatches on the request method and answers anything else with
// a 405 envelope listing the allowed methods.
func methodMux(handlers map[string]http.Handler) http.Handler {
	allow := allowedMethods(handlers)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allow)
		respond.JSON(w, http.StatusMethodNotAllowed, respond.Failure{
			Success: false,
			Message: "Method not allowed",
		})
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
