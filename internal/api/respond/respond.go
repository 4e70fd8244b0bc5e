// Package respond writes the JSON envelope every API response shares:
// {"success": bool, "message"?: string, ...payload} on success and
// {"success": false, "message": string, "error"?: string} on failure.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pankhokiudaan/server/internal/apperr"
	"github.com/rs/zerolog"
)

const contentType = "application/json; charset=utf-8"

// Failure is the error envelope.
type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Status maps an error kind onto its HTTP status code.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Message writes a success envelope that carries only a message.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{Success: true, Message: message})
}

// Responder turns errors into failure envelopes. Causes are exposed only in
// development and test.
type Responder struct {
	exposeErrors bool
}

func NewResponder(environment string) Responder {
	return Responder{exposeErrors: environment == "development" || environment == "test"}
}

// Error writes the envelope for err. fallback is the message used when err
// carries none.
func (rs Responder) Error(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		rs.write(w, r, http.StatusRequestEntityTooLarge, "Request body too large", err)
		return
	}

	status := Status(apperr.KindOf(err))
	message := apperr.MessageOf(err, fallback)
	if message == "" {
		message = http.StatusText(status)
	}
	rs.write(w, r, status, message, causeOf(err))
}

// causeOf returns what went wrong underneath a classified error, or err
// itself when it was never classified.
func causeOf(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Err
	}
	return err
}

// Fail writes a failure envelope with an explicit status.
func (rs Responder) Fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	rs.write(w, r, status, message, nil)
}

func (rs Responder) write(w http.ResponseWriter, r *http.Request, status int, message string, cause error) {
	body := Failure{Success: false, Message: message}
	if cause != nil && rs.exposeErrors {
		body.Error = cause.Error()
	}

	logger := zerolog.Ctx(r.Context())
	switch {
	case status >= 500:
		logger.Error().Err(cause).Int("status", status).Str("path", r.URL.Path).Str("method", r.Method).Msg(message)
	case cause != nil:
		logger.Warn().Err(cause).Int("status", status).Str("path", r.URL.Path).Str("method", r.Method).Msg(message)
	}

	JSON(w, status, body)
}

// DecodeJSON reads a JSON request body into dst. Malformed bodies become a
// validation error; an oversized body keeps its *http.MaxBytesError.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("Request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required")
		default:
			return apperr.Wrap(apperr.KindValidation, "Invalid JSON body", err)
		}
	}
	if dec.More() {
		return apperr.Validation("Invalid JSON body")
	}
	return nil
}

// Panic reports a recovered panic as a 500.
func (rs Responder) Panic(w http.ResponseWriter, r *http.Request, recovered any) {
	rs.write(w, r, http.StatusInternalServerError, "Something went wrong!", fmt.Errorf("panic: %v", recovered))
}
