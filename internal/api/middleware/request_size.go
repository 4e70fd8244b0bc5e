package middleware

import "net/http"

const (
	// PublicMaxBodySize caps form submissions and logins.
	PublicMaxBodySize int64 = 1 << 20

	// AdminMaxBodySize caps content edits, which carry article HTML.
	AdminMaxBodySize int64 = 5 << 20
)

// RequestSize limits request bodies to maxBytes. Reads past the limit fail
// with *http.MaxBytesError, which the response layer reports as 413.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
