package model

import "time"

// TokenID uniquely identifies a vote token
type TokenID string

// VoteToken is a capability granting an external judge voting rights on one
// game, independent of how they authenticated. Once claimed, UsedBy never
// changes to a different user.
type VoteToken struct {
	ID        TokenID
	GameID    GameID
	Token     string // Random shareable token string, unique
	Label     string // Optional, e.g. "Judge 1"
	CreatedAt time.Time
	UsedBy    *UserID // Set at most once, on first claim
	IsActive  bool
}

// IsClaimed reports whether the token has been claimed by a user
func (t *VoteToken) IsClaimed() bool {
	return t.UsedBy != nil
}

// TokenInfo is the public view of a token for the voting page
type TokenInfo struct {
	GameID     GameID
	GameTitle  string
	GameStatus GameStatus
	Label      string
	IsClaimed  bool
}
