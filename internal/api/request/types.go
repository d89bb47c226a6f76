package request

// ColorSwatch is a named hex color in request bodies
type ColorSwatch struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// LoginRequest is the request body for exchanging an OAuth profile for a session
type LoginRequest struct {
	ProviderID string `json:"provider_id"`
	Username   string `json:"username"`
	Name       string `json:"name,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	Email      string `json:"email,omitempty"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Title             string        `json:"title"`
	Description       string        `json:"description,omitempty"`
	ReferenceImageURL string        `json:"reference_image_url,omitempty"`
	Colors            []ColorSwatch `json:"colors,omitempty"`
	Requirements      string        `json:"requirements,omitempty"`
	DurationMinutes   int           `json:"duration_minutes,omitempty"`
}

// UpdateGameRequest is the request body for patching a game.
// Absent fields are left untouched.
type UpdateGameRequest struct {
	Title             *string        `json:"title,omitempty"`
	Description       *string        `json:"description,omitempty"`
	ReferenceImageURL *string        `json:"reference_image_url,omitempty"`
	Colors            *[]ColorSwatch `json:"colors,omitempty"`
	Requirements      *string        `json:"requirements,omitempty"`
	DurationMinutes   *int           `json:"duration_minutes,omitempty"`
}

// JoinGameRequest is the request body for joining a game
type JoinGameRequest struct {
	Handle string `json:"handle"`
}

// UpdateEntryRequest is the request body for recording typing progress
type UpdateEntryRequest struct {
	HTML           string `json:"html"`
	Streak         int    `json:"streak"`
	KeystrokeCount int    `json:"keystroke_count"`
}

// SnapshotRequest is the request body for appending a progress snapshot
type SnapshotRequest struct {
	HTML           string `json:"html"`
	Streak         int    `json:"streak"`
	PowerMode      bool   `json:"power_mode"`
	KeystrokeCount int    `json:"keystroke_count"`
	TimestampMs    int64  `json:"timestamp_ms"`
}

// SubmitEntryRequest is the request body for submitting a finished entry
type SubmitEntryRequest struct {
	HTML            string `json:"html"`
	TotalScore      int    `json:"total_score"`
	MaxStreak       int    `json:"max_streak"`
	TotalKeystrokes int    `json:"total_keystrokes"`
}

// CastVoteRequest is the request body for scoring an entry
type CastVoteRequest struct {
	EntryID string `json:"entry_id"`
	Score   int    `json:"score"`
}

// SelectWinnerRequest is the request body for picking a winner
type SelectWinnerRequest struct {
	EntryID string `json:"entry_id"`
}

// CreateTokenRequest is the request body for issuing a vote token
type CreateTokenRequest struct {
	Label string `json:"label,omitempty"`
}

// AddAssetRequest is the request body for attaching an asset to a game
type AddAssetRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// UpdateAssetRequest is the request body for patching an asset
type UpdateAssetRequest struct {
	Name *string `json:"name,omitempty"`
	URL  *string `json:"url,omitempty"`
}
