package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/mastermind-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidName        = "INVALID_NAME"
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeRosterFull         = "ROSTER_FULL"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeNoPlayerSelected   = "NO_PLAYER_SELECTED"
	CodeNoActiveSession    = "NO_ACTIVE_SESSION"
	CodeSessionInProgress  = "SESSION_IN_PROGRESS"
	CodeInvalidGuess       = "INVALID_GUESS"
	CodeIncompleteGuess    = "INCOMPLETE_GUESS"
	CodeNoHelpLeft         = "NO_HELP_LEFT"
	CodeRestartAlreadyUsed = "RESTART_ALREADY_USED"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidName, "Player name must be 1-15 characters"}}
	case errors.Is(err, model.ErrDuplicateName):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateName, "A player with that name already exists"}}
	case errors.Is(err, model.ErrRosterFull):
		return &httpError{http.StatusConflict, APIError{CodeRosterFull, "The roster is full"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrNoPlayerSelected):
		return &httpError{http.StatusBadRequest, APIError{CodeNoPlayerSelected, "No player selected"}}
	case errors.Is(err, model.ErrNoActiveSession):
		return &httpError{http.StatusNotFound, APIError{CodeNoActiveSession, "No round in progress"}}
	case errors.Is(err, model.ErrSessionInProgress):
		return &httpError{http.StatusConflict, APIError{CodeSessionInProgress, "A round is already in progress"}}
	case errors.Is(err, model.ErrInvalidGuess):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGuess, "Guess must be exactly 4 digits"}}
	case errors.Is(err, model.ErrIncompleteGuess):
		return &httpError{http.StatusBadRequest, APIError{CodeIncompleteGuess, "Enter all 4 digits before asking for help"}}
	case errors.Is(err, model.ErrNoHelpLeft):
		return &httpError{http.StatusConflict, APIError{CodeNoHelpLeft, "No help left this round"}}
	case errors.Is(err, model.ErrRestartAlreadyUsed):
		return &httpError{http.StatusConflict, APIError{CodeRestartAlreadyUsed, "This round has already been restarted"}}
	case errors.Is(err, model.ErrPersistenceFailure):
		return &httpError{http.StatusServiceUnavailable, APIError{CodePersistenceFailure, "Could not save game data"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
