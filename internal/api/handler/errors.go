package handler

import (
	"net/http"

	"github.com/codeblind/codeblind-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest    = apierr.CodeInvalidRequest
	CodeUnauthorized      = apierr.CodeUnauthorized
	CodeNotCreator        = apierr.CodeNotCreator
	CodeNotAuthorizedVote = apierr.CodeNotAuthorizedVote
	CodeUserNotFound      = apierr.CodeUserNotFound
	CodeGameNotFound      = apierr.CodeGameNotFound
	CodePlayerNotFound    = apierr.CodePlayerNotFound
	CodeEntryNotFound     = apierr.CodeEntryNotFound
	CodeVoteNotFound      = apierr.CodeVoteNotFound
	CodeTokenNotFound     = apierr.CodeTokenNotFound
	CodeAssetNotFound     = apierr.CodeAssetNotFound
	CodeInvalidTransition = apierr.CodeInvalidTransition
	CodeGameNotEditable   = apierr.CodeGameNotEditable
	CodeMissingTitle      = apierr.CodeMissingTitle
	CodeMissingHandle     = apierr.CodeMissingHandle
	CodeInvalidVoteScore  = apierr.CodeInvalidVoteScore
	CodeTokenInactive     = apierr.CodeTokenInactive
	CodeTokenClaimed      = apierr.CodeTokenClaimed
	CodeInternalError     = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
