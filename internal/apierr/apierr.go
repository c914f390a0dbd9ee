// Package apierr defines the error taxonomy surfaced by the HTTP API.
//
// Services return *Error values as ordinary Go errors; the HTTP boundary
// unwraps them with From and renders the uniform error envelope. Anything
// that is not an *Error renders as a 500.
package apierr

import (
	"errors"
	"net/http"
)

// Error is an API error carrying the HTTP status it should render as.
type Error struct {
	Status  int      `json:"statusCode"`
	Message string   `json:"message"`
	Details []string `json:"errors"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with an explicit status code.
func New(status int, message string, details ...string) *Error {
	if details == nil {
		details = []string{}
	}
	return &Error{Status: status, Message: message, Details: details}
}

// BadRequest signals missing or malformed input.
func BadRequest(message string, details ...string) *Error {
	return New(http.StatusBadRequest, message, details...)
}

// Unauthorized signals bad credentials or a bad token.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// NotFound signals a missing entity or token.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict signals a duplicate unique field.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Internal signals an unexpected failure.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// From maps an arbitrary error onto the taxonomy. Unknown errors become a
// generic 500 so internal details never leak into the envelope.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("Something went wrong")
}
