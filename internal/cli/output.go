package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case []Game:
		o.printGames(v)
	case []Player:
		o.printPlayers(v)
	case Entry:
		o.printEntry(v)
	case []Entry:
		o.printEntries(v)
	case []LeaderboardRow:
		o.printLeaderboard(v)
	case []WinnerPick:
		o.printWinners(v)
	case VoteToken:
		o.printVoteToken(v)
	case []VoteToken:
		o.printVoteTokens(v)
	case TokenInfo:
		o.printTokenInfo(v)
	case []Asset:
		o.printAssets(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// Game response type
type Game struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	ShortCode       string     `json:"short_code"`
	Status          string     `json:"status"`
	DurationMinutes int        `json:"duration_minutes"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	TimeRemainingMs *int64     `json:"time_remaining_ms,omitempty"`
}

// Player response type
type Player struct {
	ID       string `json:"id"`
	Handle   string `json:"handle"`
	IsGuest  bool   `json:"is_guest"`
	IsActive bool   `json:"is_active"`
}

// Entry response type
type Entry struct {
	ID              string  `json:"id"`
	PlayerID        string  `json:"player_id"`
	IsSubmitted     bool    `json:"is_submitted"`
	TotalScore      int     `json:"total_score"`
	MaxStreak       int     `json:"max_streak"`
	TotalKeystrokes int     `json:"total_keystrokes"`
	Player          *Player `json:"player,omitempty"`
}

// Vote response type
type Vote struct {
	ID       string `json:"id"`
	EntryID  string `json:"entry_id"`
	Score    int    `json:"score"`
	IsWinner bool   `json:"is_winner"`
}

// LeaderboardRow response type
type LeaderboardRow struct {
	Entry          Entry  `json:"entry"`
	Votes          []Vote `json:"votes"`
	TotalVoteScore int    `json:"total_vote_score"`
	IsWinner       bool   `json:"is_winner"`
	CombinedScore  int    `json:"combined_score"`
}

// WinnerPick response type
type WinnerPick struct {
	Vote  Vote  `json:"vote"`
	Entry Entry `json:"entry"`
}

// VoteToken response type
type VoteToken struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	Label     string `json:"label,omitempty"`
	IsActive  bool   `json:"is_active"`
	IsClaimed bool   `json:"is_claimed"`
}

// TokenInfo response type
type TokenInfo struct {
	GameID     string `json:"game_id"`
	GameTitle  string `json:"game_title"`
	GameStatus string `json:"game_status"`
	Label      string `json:"label,omitempty"`
	IsClaimed  bool   `json:"is_claimed"`
}

// Asset response type
type Asset struct {
	ID        string `json:"id"`
	ShortCode string `json:"short_code"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Type      string `json:"type"`
}

// DeletedGame response type
type DeletedGame struct {
	OrphanedAssetURLs []string `json:"orphaned_asset_urls"`
}

// JoinResult response type
type JoinResult struct {
	PlayerID string `json:"player_id"`
}

// CanVoteResult response type
type CanVoteResult struct {
	CanVote bool `json:"can_vote"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Username, u.ID)
	if u.Name != "" {
		fmt.Printf("Name: %s\n", u.Name)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.Title, g.ID)
	fmt.Printf("Code: %s\n", g.ShortCode)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Duration: %d minutes\n", g.DurationMinutes)
	if g.TimeRemainingMs != nil {
		remaining := time.Duration(*g.TimeRemainingMs) * time.Millisecond
		fmt.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	}
}

func (o *Output) printGames(games []Game) {
	if len(games) == 0 {
		fmt.Println("No games")
		return
	}
	for _, g := range games {
		fmt.Printf("%s  %-8s  %-10s  %s\n", g.ID, g.ShortCode, g.Status, g.Title)
	}
}

func (o *Output) printPlayers(players []Player) {
	fmt.Printf("Players (%d):\n", len(players))
	for _, p := range players {
		tags := []string{}
		if p.IsGuest {
			tags = append(tags, "guest")
		}
		if !p.IsActive {
			tags = append(tags, "left")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Printf("  - %s (%s)%s\n", p.Handle, p.ID, suffix)
	}
}

func (o *Output) printEntry(e Entry) {
	fmt.Printf("Entry: %s\n", e.ID)
	fmt.Printf("Submitted: %v\n", e.IsSubmitted)
	fmt.Printf("Score: %d (streak %d, %d keystrokes)\n", e.TotalScore, e.MaxStreak, e.TotalKeystrokes)
}

func (o *Output) printEntries(entries []Entry) {
	if len(entries) == 0 {
		fmt.Println("No entries")
		return
	}
	for _, e := range entries {
		handle := e.PlayerID
		if e.Player != nil {
			handle = e.Player.Handle
		}
		status := "in progress"
		if e.IsSubmitted {
			status = "submitted"
		}
		fmt.Printf("  %s  %-12s  %6d pts  (%s)\n", e.ID, handle, e.TotalScore, status)
	}
}

func (o *Output) printLeaderboard(rows []LeaderboardRow) {
	if len(rows) == 0 {
		fmt.Println("No entries on the leaderboard")
		return
	}
	fmt.Println("Leaderboard:")
	for i, row := range rows {
		handle := row.Entry.PlayerID
		if row.Entry.Player != nil {
			handle = row.Entry.Player.Handle
		}
		winner := ""
		if row.IsWinner {
			winner = " *winner*"
		}
		fmt.Printf("  %d. %-12s  %6d combined (%d typing + %d votes)%s\n",
			i+1, handle, row.CombinedScore, row.Entry.TotalScore, row.TotalVoteScore, winner)
	}
}

func (o *Output) printWinners(picks []WinnerPick) {
	if len(picks) == 0 {
		fmt.Println("No winners selected")
		return
	}
	fmt.Println("Winner picks:")
	for _, pick := range picks {
		handle := pick.Entry.PlayerID
		if pick.Entry.Player != nil {
			handle = pick.Entry.Player.Handle
		}
		fmt.Printf("  - %s (entry %s)\n", handle, pick.Entry.ID)
	}
}

func (o *Output) printVoteToken(t VoteToken) {
	fmt.Printf("Token: %s\n", t.Token)
	if t.Label != "" {
		fmt.Printf("Label: %s\n", t.Label)
	}
	fmt.Printf("Active: %v\n", t.IsActive)
	fmt.Printf("Claimed: %v\n", t.IsClaimed)
}

func (o *Output) printVoteTokens(tokens []VoteToken) {
	if len(tokens) == 0 {
		fmt.Println("No tokens")
		return
	}
	for _, t := range tokens {
		state := "unclaimed"
		if t.IsClaimed {
			state = "claimed"
		}
		if !t.IsActive {
			state = "inactive"
		}
		label := t.Label
		if label == "" {
			label = "-"
		}
		fmt.Printf("  %s  %-12s  %s\n", t.Token, label, state)
	}
}

func (o *Output) printTokenInfo(info TokenInfo) {
	fmt.Printf("Game: %s (%s)\n", info.GameTitle, info.GameID)
	fmt.Printf("Status: %s\n", info.GameStatus)
	if info.Label != "" {
		fmt.Printf("Label: %s\n", info.Label)
	}
	fmt.Printf("Claimed: %v\n", info.IsClaimed)
}

func (o *Output) printAssets(assets []Asset) {
	if len(assets) == 0 {
		fmt.Println("No assets")
		return
	}
	for _, a := range assets {
		fmt.Printf("  %s  %-8s  %-6s  %s -> %s\n", a.ID, a.ShortCode, a.Type, a.Name, a.URL)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
