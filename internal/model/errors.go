package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Game errors
	ErrGameNotFound           = errors.New("game not found")
	ErrNotCreator             = errors.New("only the game creator can perform this action")
	ErrInvalidStateTransition = errors.New("invalid game state transition")
	ErrGameNotEditable        = errors.New("game can only be edited in draft or lobby")
	ErrMissingTitle           = errors.New("game title is required")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrMissingHandle  = errors.New("player handle is required")

	// Entry errors
	ErrEntryNotFound = errors.New("entry not found")

	// Vote errors
	ErrVoteNotFound        = errors.New("vote not found")
	ErrNotAuthorizedToVote = errors.New("not authorized to vote on this game")
	ErrInvalidVoteScore    = errors.New("vote score must be between 1 and 10")

	// Vote token errors
	ErrTokenNotFound = errors.New("vote token not found")
	ErrTokenInactive = errors.New("vote token is no longer active")
	ErrTokenClaimed  = errors.New("vote token has already been claimed by another user")

	// Asset errors
	ErrAssetNotFound = errors.New("asset not found")
)
