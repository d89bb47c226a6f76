package model

import "time"

// PlayerID uniquely identifies a player within a game
type PlayerID string

// Player is a participant in exactly one game. A player without a UserID is
// a guest; guests rely on the client holding onto the returned player id to
// reconnect as the same participant.
type Player struct {
	ID       PlayerID
	GameID   GameID
	UserID   *UserID // Nil for guest players
	Handle   string  // Display name in the game; not updated on rejoin
	JoinedAt time.Time
	IsActive bool
}

// IsGuest reports whether the player has no linked user account
func (p *Player) IsGuest() bool {
	return p.UserID == nil
}
