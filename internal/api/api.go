// Package api defines the error taxonomy shared by all handlers and the
// JSON response writers. Errors carry the HTTP status they map to and a
// human-readable detail string rendered as {"detail": "..."}.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is a handler-visible failure with a fixed HTTP status.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// Validation reports malformed or out-of-range input.
func Validation(detail string) *Error {
	return &Error{Status: http.StatusBadRequest, Detail: detail}
}

// NotFound reports a missing row or an empty result set.
func NotFound(detail string) *Error {
	return &Error{Status: http.StatusNotFound, Detail: detail}
}

// Conflict reports a duplicate resource. The original API answered
// duplicates with 400 rather than 409; that mapping is kept.
func Conflict(detail string) *Error {
	return &Error{Status: http.StatusBadRequest, Detail: detail}
}

// Unauthorized reports bad credentials.
func Unauthorized(detail string) *Error {
	return &Error{Status: http.StatusUnauthorized, Detail: detail}
}

// Internal reports a store or encoding failure the client cannot act on.
func Internal(detail string) *Error {
	return &Error{Status: http.StatusInternalServerError, Detail: detail}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError renders err as a {"detail": ...} body. Errors outside the
// taxonomy are surfaced as a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = Internal("internal server error")
	}
	WriteJSON(w, apiErr.Status, map[string]string{"detail": apiErr.Detail})
}

// Success is the {"status":"success","message":...} body returned by every
// mutating endpoint.
func Success(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}
