package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/pankhokiudaan/server/internal/api/respond"
	"github.com/rs/zerolog"
)

// Recover turns a panicking handler into a 500 envelope.
func Recover(responder respond.Responder, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("path", r.URL.Path).
					Msg("recovered from panic")
				responder.Panic(w, r, rec)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
