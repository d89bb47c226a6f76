package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the current phase of a game's lifecycle
type GameStatus string

const (
	GameStatusDraft    GameStatus = "draft"    // Being configured by the creator
	GameStatusLobby    GameStatus = "lobby"    // Open for players to join
	GameStatusActive   GameStatus = "active"   // Players are coding
	GameStatusVoting   GameStatus = "voting"   // Judges are scoring entries
	GameStatusFinished GameStatus = "finished" // Results are final
)

// ColorSwatch is a named hex color in a game's palette
type ColorSwatch struct {
	Name string `json:"name"` // e.g. "Background", "Primary Text"
	Hex  string `json:"hex"`  // e.g. "#FF5733"
}

// DefaultDurationMinutes is the coding-phase duration applied when a game
// is created without one.
const DefaultDurationMinutes = 15

// Game is the root aggregate: one competition instance owned by its creator.
type Game struct {
	ID                GameID
	CreatorID         UserID // Immutable owner
	Title             string
	Description       string
	ShortCode         string // Unique join code, immutable after creation
	ReferenceImageURL string // The target image players recreate
	Colors            []ColorSwatch
	Requirements      string
	DurationMinutes   int
	Status            GameStatus

	StartedAt *time.Time
	EndedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEditable reports whether game fields may still be updated
func (g *Game) IsEditable() bool {
	return g.Status == GameStatusDraft || g.Status == GameStatusLobby
}

// Duration returns the configured coding-phase duration
func (g *Game) Duration() time.Duration {
	return time.Duration(g.DurationMinutes) * time.Minute
}

// TimeRemaining returns how much coding time is left at the given instant.
// Zero or negative means the deadline has passed; expiry is detected lazily
// by whichever caller polls, so a late EndGame is still valid.
func (g *Game) TimeRemaining(now time.Time) time.Duration {
	if g.StartedAt == nil {
		return g.Duration()
	}
	return g.Duration() - now.Sub(*g.StartedAt)
}

// GamePatch is a partial update to a game's editable fields.
// Nil fields are left untouched; a pointer to a zero value clears the field.
type GamePatch struct {
	Title             *string
	Description       *string
	ReferenceImageURL *string
	Colors            *[]ColorSwatch
	Requirements      *string
	DurationMinutes   *int
}

// Apply writes the provided fields onto the game
func (p GamePatch) Apply(g *Game) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.ReferenceImageURL != nil {
		g.ReferenceImageURL = *p.ReferenceImageURL
	}
	if p.Colors != nil {
		g.Colors = *p.Colors
	}
	if p.Requirements != nil {
		g.Requirements = *p.Requirements
	}
	if p.DurationMinutes != nil {
		g.DurationMinutes = *p.DurationMinutes
	}
}
