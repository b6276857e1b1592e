// Package response writes the JSON envelope shared by every API endpoint.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"beyondnp-backend/internal/apperr"
)

const internalMessage = "Internal server error"

// Envelope is the body of every API response.
type Envelope struct {
	Success              bool   `json:"success"`
	Message              string `json:"message,omitempty"`
	RequiresVerification bool   `json:"requiresVerification,omitempty"`
	Data                 any    `json:"data,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// OK writes a successful envelope. msg may be empty.
func OK(w http.ResponseWriter, status int, data any, msg string) {
	JSON(w, status, Envelope{Success: true, Message: msg, Data: data})
}

// Fail writes a failed envelope carrying msg.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Envelope{Success: false, Message: msg})
}

// Status maps an error kind to its HTTP status. Errors of no known kind are
// internal.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a failed envelope. Unexpected errors are logged and
// their details hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	msg := apperr.Message(err, internalMessage)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		if !errors.Is(err, apperr.ErrInternal) {
			msg = internalMessage
		}
	}
	Fail(w, status, msg)
}
