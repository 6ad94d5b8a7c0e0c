package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/mastermind-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeBody reads a JSON request body into dst, writing an error response on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return false
	}
	return true
}
