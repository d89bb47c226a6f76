package response

import (
	"time"

	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/services/roster"
	"github.com/codeblind/codeblind-go/internal/services/scoring"
)

// User represents a user profile in API responses
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:        string(u.ID),
		Username:  u.Username,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

// AuthResponse is the response for the login endpoint
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// ColorSwatch is a named hex color in API responses
type ColorSwatch struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Game represents a game in API responses
type Game struct {
	ID                string        `json:"id"`
	CreatorID         string        `json:"creator_id"`
	Title             string        `json:"title"`
	Description       string        `json:"description,omitempty"`
	ShortCode         string        `json:"short_code"`
	ReferenceImageURL string        `json:"reference_image_url,omitempty"`
	Colors            []ColorSwatch `json:"colors,omitempty"`
	Requirements      string        `json:"requirements,omitempty"`
	DurationMinutes   int           `json:"duration_minutes"`
	Status            string        `json:"status"`
	StartedAt         *time.Time    `json:"started_at,omitempty"`
	EndedAt           *time.Time    `json:"ended_at,omitempty"`
	TimeRemainingMs   *int64        `json:"time_remaining_ms,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// GameFromModel converts a model.Game to a response Game. For active games
// the remaining coding time at the given instant is included so clients can
// drive their countdown without trusting their own clocks.
func GameFromModel(g *model.Game, now time.Time) Game {
	colors := make([]ColorSwatch, 0, len(g.Colors))
	for _, c := range g.Colors {
		colors = append(colors, ColorSwatch{Name: c.Name, Hex: c.Hex})
	}

	resp := Game{
		ID:                string(g.ID),
		CreatorID:         string(g.CreatorID),
		Title:             g.Title,
		Description:       g.Description,
		ShortCode:         g.ShortCode,
		ReferenceImageURL: g.ReferenceImageURL,
		Colors:            colors,
		Requirements:      g.Requirements,
		DurationMinutes:   g.DurationMinutes,
		Status:            string(g.Status),
		StartedAt:         g.StartedAt,
		EndedAt:           g.EndedAt,
		CreatedAt:         g.CreatedAt,
	}
	if g.Status == model.GameStatusActive {
		remaining := g.TimeRemaining(now).Milliseconds()
		if remaining < 0 {
			remaining = 0
		}
		resp.TimeRemainingMs = &remaining
	}
	return resp
}

// GamesFromModels converts a slice of games
func GamesFromModels(games []*model.Game, now time.Time) []Game {
	result := make([]Game, 0, len(games))
	for _, g := range games {
		result = append(result, GameFromModel(g, now))
	}
	return result
}

// DeletedGame is the response for deleting a game
type DeletedGame struct {
	OrphanedAssetURLs []string `json:"orphaned_asset_urls"`
}

// Player represents a game participant in API responses
type Player struct {
	ID       string    `json:"id"`
	Handle   string    `json:"handle"`
	IsGuest  bool      `json:"is_guest"`
	IsActive bool      `json:"is_active"`
	JoinedAt time.Time `json:"joined_at"`
	User     *User     `json:"user,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:       string(p.ID),
		Handle:   p.Handle,
		IsGuest:  p.IsGuest(),
		IsActive: p.IsActive,
		JoinedAt: p.JoinedAt,
	}
}

// PlayerWithUserFromModel converts a roster join row
func PlayerWithUserFromModel(pw roster.PlayerWithUser) Player {
	resp := PlayerFromModel(pw.Player)
	if pw.User != nil {
		u := UserFromModel(pw.User)
		resp.User = &u
	}
	return resp
}

// JoinedGame is the response for joining a game
type JoinedGame struct {
	PlayerID string `json:"player_id"`
}

// Entry represents a player's entry in API responses. The working HTML is
// only included once the entry is submitted.
type Entry struct {
	ID              string     `json:"id"`
	GameID          string     `json:"game_id"`
	PlayerID        string     `json:"player_id"`
	HTML            string     `json:"html,omitempty"`
	IsSubmitted     bool       `json:"is_submitted"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	TotalScore      int        `json:"total_score"`
	MaxStreak       int        `json:"max_streak"`
	TotalKeystrokes int        `json:"total_keystrokes"`
	Player          *Player    `json:"player,omitempty"`
}

// EntryFromModel converts a model.Entry to a response Entry
func EntryFromModel(e *model.Entry) Entry {
	resp := Entry{
		ID:              string(e.ID),
		GameID:          string(e.GameID),
		PlayerID:        string(e.PlayerID),
		IsSubmitted:     e.IsSubmitted,
		SubmittedAt:     e.SubmittedAt,
		TotalScore:      e.TotalScore,
		MaxStreak:       e.MaxStreak,
		TotalKeystrokes: e.TotalKeystrokes,
	}
	if e.IsSubmitted {
		resp.HTML = e.HTML
	}
	return resp
}

// EntryWithPlayerFromModel converts a scoring join row
func EntryWithPlayerFromModel(ep scoring.EntryWithPlayer) Entry {
	resp := EntryFromModel(ep.Entry)
	if ep.Player != nil {
		p := PlayerFromModel(ep.Player)
		resp.Player = &p
	}
	return resp
}

// EntriesFromModels converts a slice of scoring join rows
func EntriesFromModels(entries []scoring.EntryWithPlayer) []Entry {
	result := make([]Entry, 0, len(entries))
	for _, ep := range entries {
		result = append(result, EntryWithPlayerFromModel(ep))
	}
	return result
}

// Snapshot represents a progress snapshot in API responses
type Snapshot struct {
	HTML           string `json:"html"`
	Streak         int    `json:"streak"`
	PowerMode      bool   `json:"power_mode"`
	KeystrokeCount int    `json:"keystroke_count"`
	TimestampMs    int64  `json:"timestamp_ms"`
}

// SnapshotsFromModels converts a slice of snapshots
func SnapshotsFromModels(snapshots []*model.ProgressSnapshot) []Snapshot {
	result := make([]Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		result = append(result, Snapshot{
			HTML:           s.HTML,
			Streak:         s.Streak,
			PowerMode:      s.PowerMode,
			KeystrokeCount: s.KeystrokeCount,
			TimestampMs:    s.TimestampMs,
		})
	}
	return result
}

// Vote represents a judge's vote in API responses
type Vote struct {
	ID       string `json:"id"`
	EntryID  string `json:"entry_id"`
	JudgeID  string `json:"judge_id"`
	Score    int    `json:"score"`
	IsWinner bool   `json:"is_winner"`
}

// VoteFromModel converts a model.Vote to a response Vote
func VoteFromModel(v *model.Vote) Vote {
	return Vote{
		ID:       string(v.ID),
		EntryID:  string(v.EntryID),
		JudgeID:  string(v.JudgeID),
		Score:    v.Score,
		IsWinner: v.IsWinner,
	}
}

// VotesFromModels converts a slice of votes
func VotesFromModels(votes []*model.Vote) []Vote {
	result := make([]Vote, 0, len(votes))
	for _, v := range votes {
		result = append(result, VoteFromModel(v))
	}
	return result
}

// LeaderboardRow represents one entry's standing in API responses
type LeaderboardRow struct {
	Entry          Entry  `json:"entry"`
	Votes          []Vote `json:"votes"`
	TotalVoteScore int    `json:"total_vote_score"`
	IsWinner       bool   `json:"is_winner"`
	CombinedScore  int    `json:"combined_score"`
}

// LeaderboardFromModel converts leaderboard rows
func LeaderboardFromModel(rows []model.LeaderboardRow) []LeaderboardRow {
	result := make([]LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		entry := EntryFromModel(row.Entry)
		if row.Player != nil {
			p := PlayerFromModel(row.Player)
			entry.Player = &p
		}
		result = append(result, LeaderboardRow{
			Entry:          entry,
			Votes:          VotesFromModels(row.Votes),
			TotalVoteScore: row.TotalVoteScore,
			IsWinner:       row.IsWinner,
			CombinedScore:  row.CombinedScore,
		})
	}
	return result
}

// WinnerPick represents one judge's winner selection in API responses
type WinnerPick struct {
	Vote  Vote  `json:"vote"`
	Entry Entry `json:"entry"`
}

// WinnersFromModel converts winner picks
func WinnersFromModel(picks []model.WinnerPick) []WinnerPick {
	result := make([]WinnerPick, 0, len(picks))
	for _, pick := range picks {
		entry := EntryFromModel(pick.Entry)
		if pick.Player != nil {
			p := PlayerFromModel(pick.Player)
			entry.Player = &p
		}
		result = append(result, WinnerPick{
			Vote:  VoteFromModel(pick.Vote),
			Entry: entry,
		})
	}
	return result
}

// VoteToken represents a vote token in API responses.
// This is the creator's view and includes the shareable token string.
type VoteToken struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Label     string    `json:"label,omitempty"`
	IsActive  bool      `json:"is_active"`
	IsClaimed bool      `json:"is_claimed"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteTokenFromModel converts a model.VoteToken to a response VoteToken
func VoteTokenFromModel(t *model.VoteToken) VoteToken {
	return VoteToken{
		ID:        string(t.ID),
		Token:     t.Token,
		Label:     t.Label,
		IsActive:  t.IsActive,
		IsClaimed: t.IsClaimed(),
		CreatedAt: t.CreatedAt,
	}
}

// VoteTokensFromModels converts a slice of vote tokens
func VoteTokensFromModels(tokens []*model.VoteToken) []VoteToken {
	result := make([]VoteToken, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, VoteTokenFromModel(t))
	}
	return result
}

// TokenInfo is the public view of a token for the voting page
type TokenInfo struct {
	GameID     string `json:"game_id"`
	GameTitle  string `json:"game_title"`
	GameStatus string `json:"game_status"`
	Label      string `json:"label,omitempty"`
	IsClaimed  bool   `json:"is_claimed"`
}

// TokenInfoFromModel converts a model.TokenInfo
func TokenInfoFromModel(info *model.TokenInfo) TokenInfo {
	return TokenInfo{
		GameID:     string(info.GameID),
		GameTitle:  info.GameTitle,
		GameStatus: string(info.GameStatus),
		Label:      info.Label,
		IsClaimed:  info.IsClaimed,
	}
}

// ClaimedToken is the response for claiming a vote token
type ClaimedToken struct {
	GameID string `json:"game_id"`
	Label  string `json:"label,omitempty"`
}

// CanVote is the response for the vote eligibility check
type CanVote struct {
	CanVote bool `json:"can_vote"`
}

// Asset represents a supporting file in API responses
type Asset struct {
	ID        string `json:"id"`
	GameID    string `json:"game_id"`
	ShortCode string `json:"short_code"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Type      string `json:"type"`
}

// AssetFromModel converts a model.Asset to a response Asset
func AssetFromModel(a *model.Asset) Asset {
	return Asset{
		ID:        string(a.ID),
		GameID:    string(a.GameID),
		ShortCode: a.ShortCode,
		Name:      a.Name,
		URL:       a.URL,
		Type:      string(a.Type),
	}
}

// AssetsFromModels converts a slice of assets
func AssetsFromModels(assets []*model.Asset) []Asset {
	result := make([]Asset, 0, len(assets))
	for _, a := range assets {
		result = append(result, AssetFromModel(a))
	}
	return result
}
