package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/services/identity"
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
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotCreator        = "NOT_CREATOR"
	CodeNotAuthorizedVote = "NOT_AUTHORIZED_TO_VOTE"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodeEntryNotFound     = "ENTRY_NOT_FOUND"
	CodeVoteNotFound      = "VOTE_NOT_FOUND"
	CodeTokenNotFound     = "TOKEN_NOT_FOUND"
	CodeAssetNotFound     = "ASSET_NOT_FOUND"
	CodeInvalidTransition = "INVALID_STATE_TRANSITION"
	CodeGameNotEditable   = "GAME_NOT_EDITABLE"
	CodeMissingTitle      = "MISSING_TITLE"
	CodeMissingHandle     = "MISSING_HANDLE"
	CodeInvalidVoteScore  = "INVALID_VOTE_SCORE"
	CodeTokenInactive     = "TOKEN_INACTIVE"
	CodeTokenClaimed      = "TOKEN_CLAIMED"
	CodeInternalError     = "INTERNAL_ERROR"
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
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrEntryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEntryNotFound, "Entry not found"}}
	case errors.Is(err, model.ErrVoteNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeVoteNotFound, "Vote not found"}}
	case errors.Is(err, model.ErrTokenNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTokenNotFound, "Vote token not found"}}
	case errors.Is(err, model.ErrAssetNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAssetNotFound, "Asset not found"}}
	case errors.Is(err, model.ErrNotCreator):
		return &httpError{http.StatusForbidden, APIError{CodeNotCreator, "Only the game creator can perform this action"}}
	case errors.Is(err, model.ErrNotAuthorizedToVote):
		return &httpError{http.StatusForbidden, APIError{CodeNotAuthorizedVote, "Not authorized to vote on this game"}}
	case errors.Is(err, model.ErrInvalidStateTransition):
		return &httpError{http.StatusConflict, APIError{CodeInvalidTransition, "Game is not in a valid state for this action"}}
	case errors.Is(err, model.ErrGameNotEditable):
		return &httpError{http.StatusConflict, APIError{CodeGameNotEditable, "Game can no longer be edited"}}
	case errors.Is(err, model.ErrMissingTitle):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingTitle, "Title is required"}}
	case errors.Is(err, model.ErrMissingHandle):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingHandle, "Handle is required"}}
	case errors.Is(err, model.ErrInvalidVoteScore):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidVoteScore, "Vote score must be between 1 and 10"}}
	case errors.Is(err, model.ErrTokenInactive):
		return &httpError{http.StatusConflict, APIError{CodeTokenInactive, "Vote token has been deactivated"}}
	case errors.Is(err, model.ErrTokenClaimed):
		return &httpError{http.StatusConflict, APIError{CodeTokenClaimed, "Vote token has already been claimed"}}

	// Map identity errors
	case errors.Is(err, identity.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, identity.ErrMissingProfile):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Provider id and username are required"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
