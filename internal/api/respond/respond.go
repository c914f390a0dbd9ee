// Package respond renders the JSON envelopes shared by every endpoint.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shopnest/shopnest-be/internal/apierr"
)

// Response is the success envelope.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// Error maps err onto the error taxonomy and writes the error envelope.
func Error(w http.ResponseWriter, err error) {
	apiErr := apierr.From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	details := apiErr.Details
	if details == nil {
		details = []string{}
	}
	if encErr := json.NewEncoder(w).Encode(ErrorResponse{
		StatusCode: apiErr.Status,
		Message:    apiErr.Message,
		Success:    false,
		Errors:     details,
	}); encErr != nil {
		log.Error().Err(encErr).Msg("Failed to encode error response")
	}
}
