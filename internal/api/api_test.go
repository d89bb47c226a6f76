package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeblind/codeblind-go/internal/api"
	"github.com/codeblind/codeblind-go/internal/api/response"
	"github.com/codeblind/codeblind-go/internal/factory"
	"github.com/codeblind/codeblind-go/internal/services/identity"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{
		IdentityConfig: identity.Config{Secret: "test-secret"},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		Clock:            app.Clock,
		IdentityService:  app.IdentityService,
		GameController:   app.GameController,
		RosterController: app.RosterController,
		ScoringService:   app.ScoringService,
		VotingController: app.VotingController,
		VoteTokenService: app.VoteTokenService,
		AssetService:     app.AssetService,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{
		"provider_id": "github|1001",
		"username":    "alice",
		"name":        "Alice Smith",
	}
	rr := ts.request(http.MethodPost, "/api/v1/auth/login", body, "")

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.User.ID)
	assert.NotEmpty(t, resp.SessionToken)

	// Logging in again with the same provider ID returns the same user
	rr = ts.request(http.MethodPost, "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var again response.AuthResponse
	err = json.Unmarshal(rr.Body.Bytes(), &again)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)
}

func TestLoginRequiresProviderID(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"username": "alice"}
	rr := ts.request(http.MethodPost, "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)

	token := signIn(t, ts, "github|1002", "bob")

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.User
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Username)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games", map[string]string{"title": "X"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/auth/me", nil, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateAndGetGame(t *testing.T) {
	ts := newTestServer(t)

	token := signIn(t, ts, "github|2001", "carol")

	body := map[string]any{
		"title":            "Landing page",
		"duration_minutes": 20,
		"colors": []map[string]string{
			{"name": "primary", "hex": "#336699"},
		},
	}
	rr := ts.request(http.MethodPost, "/api/v1/games", body, token)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var created response.Game
	err := json.Unmarshal(rr.Body.Bytes(), &created)
	require.NoError(t, err)

	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, "Landing page", created.Title)
	assert.Equal(t, 20, created.DurationMinutes)
	assert.NotEmpty(t, created.ShortCode)
	require.Len(t, created.Colors, 1)
	assert.Equal(t, "#336699", created.Colors[0].Hex)

	// Games are publicly viewable
	rr = ts.request(http.MethodGet, "/api/v1/games/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	// Short code lookup
	rr = ts.request(http.MethodGet, "/api/v1/games/code/"+created.ShortCode, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var byCode response.Game
	err = json.Unmarshal(rr.Body.Bytes(), &byCode)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)
}

func TestCreateGameRequiresTitle(t *testing.T) {
	ts := newTestServer(t)

	token := signIn(t, ts, "github|2002", "dave")

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "MISSING_TITLE")
}

func TestUpdateGame(t *testing.T) {
	ts := newTestServer(t)

	token := signIn(t, ts, "github|2003", "erin")
	g := createGame(t, ts, token, "Draft title")

	body := map[string]any{"title": "Final title", "duration_minutes": 30}
	rr := ts.request(http.MethodPatch, "/api/v1/games/"+g.ID, body, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var updated response.Game
	err := json.Unmarshal(rr.Body.Bytes(), &updated)
	require.NoError(t, err)
	assert.Equal(t, "Final title", updated.Title)
	assert.Equal(t, 30, updated.DurationMinutes)

	// Other users cannot edit
	otherToken := signIn(t, ts, "github|2004", "frank")
	rr = ts.request(http.MethodPatch, "/api/v1/games/"+g.ID, body, otherToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_CREATOR")
}

func TestGameLifecycle(t *testing.T) {
	ts := newTestServer(t)

	token := signIn(t, ts, "github|3001", "grace")
	g := createGame(t, ts, token, "Lifecycle game")

	// Cannot start from draft
	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/start", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_STATE_TRANSITION")

	// Open lobby
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/open", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var opened response.Game
	err := json.Unmarshal(rr.Body.Bytes(), &opened)
	require.NoError(t, err)
	assert.Equal(t, "lobby", opened.Status)

	// Start
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/start", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var started response.Game
	err = json.Unmarshal(rr.Body.Bytes(), &started)
	require.NoError(t, err)
	assert.Equal(t, "active", started.Status)
	require.NotNil(t, started.StartedAt)
	require.NotNil(t, started.TimeRemainingMs)
	assert.Positive(t, *started.TimeRemainingMs)

	// End and finish
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/end", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/finish", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var finished response.Game
	err = json.Unmarshal(rr.Body.Bytes(), &finished)
	require.NoError(t, err)
	assert.Equal(t, "finished", finished.Status)
}

func TestJoinAndPlay(t *testing.T) {
	ts := newTestServer(t)

	host := signIn(t, ts, "github|4001", "holly")
	g := createGame(t, ts, host, "Typing game")

	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/open", nil, host)
	require.Equal(t, http.StatusOK, rr.Code)

	// A guest joins without any token
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/players", map[string]string{"handle": "speedy"}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var joined struct {
		PlayerID string `json:"player_id"`
	}
	err := json.Unmarshal(rr.Body.Bytes(), &joined)
	require.NoError(t, err)
	require.NotEmpty(t, joined.PlayerID)

	// Handle is required
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/players", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "MISSING_HANDLE")

	// Roster is public
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/players", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var players []response.Player
	err = json.Unmarshal(rr.Body.Bytes(), &players)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "speedy", players[0].Handle)
	assert.True(t, players[0].IsGuest)

	// Start the game and play
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/start", nil, host)
	require.Equal(t, http.StatusOK, rr.Code)

	entry := playerEntry(t, ts, joined.PlayerID)

	rr = ts.request(http.MethodPut, "/api/v1/entries/"+entry.ID, map[string]any{
		"html":            "<h1>hi</h1>",
		"streak":          42,
		"keystroke_count": 100,
	}, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/entries/"+entry.ID+"/snapshots", map[string]any{
		"html":            "<h1>hi</h1>",
		"streak":          42,
		"power_mode":      false,
		"keystroke_count": 100,
		"timestamp_ms":    15000,
	}, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/entries/"+entry.ID+"/submit", map[string]any{
		"html":             "<h1>done</h1>",
		"total_score":      620,
		"max_streak":       210,
		"total_keystrokes": 400,
	}, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var submitted response.Entry
	err = json.Unmarshal(rr.Body.Bytes(), &submitted)
	require.NoError(t, err)
	assert.True(t, submitted.IsSubmitted)
	assert.Equal(t, 620, submitted.TotalScore)
	assert.Equal(t, "<h1>done</h1>", submitted.HTML)

	// Submitted entries listing includes it
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/entries/submitted", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var entries []response.Entry
	err = json.Unmarshal(rr.Body.Bytes(), &entries)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Player)
	assert.Equal(t, "speedy", entries[0].Player.Handle)
}

func TestVotingFlow(t *testing.T) {
	ts := newTestServer(t)

	host := signIn(t, ts, "github|5001", "ivy")
	judge := signIn(t, ts, "github|5002", "judge-jan")

	g := createGame(t, ts, host, "Judged game")

	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/open", nil, host)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/players", map[string]string{"handle": "one"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var joined struct {
		PlayerID string `json:"player_id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &joined))

	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/start", nil, host)
	require.Equal(t, http.StatusOK, rr.Code)

	entry := playerEntry(t, ts, joined.PlayerID)
	rr = ts.request(http.MethodPost, "/api/v1/entries/"+entry.ID+"/submit", map[string]any{
		"html":             "<p>entry</p>",
		"total_score":      300,
		"max_streak":       50,
		"total_keystrokes": 200,
	}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/end", nil, host)
	require.Equal(t, http.StatusOK, rr.Code)

	// The judge is not yet eligible
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/votes/eligibility", nil, judge)
	assert.Equal(t, http.StatusOK, rr.Code)
	var eligibility response.CanVote
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &eligibility))
	assert.False(t, eligibility.CanVote)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/votes", map[string]any{
		"entry_id": entry.ID,
		"score":    7,
	}, judge)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_AUTHORIZED_TO_VOTE")

	// Host issues a vote token and the judge claims it
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/tokens", map[string]string{"label": "Judge 1"}, host)
	assert.Equal(t, http.StatusCreated, rr.Code)
	var voteToken response.VoteToken
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &voteToken))
	require.NotEmpty(t, voteToken.Token)

	// Token info is public
	rr = ts.request(http.MethodGet, "/api/v1/tokens/"+voteToken.Token, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	var info response.TokenInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, g.ID, info.GameID)
	assert.Equal(t, "Judged game", info.GameTitle)

	rr = ts.request(http.MethodPost, "/api/v1/tokens/"+voteToken.Token+"/claim", nil, judge)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Now the judge can vote
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/votes/eligibility", nil, judge)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &eligibility))
	assert.True(t, eligibility.CanVote)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/votes", map[string]any{
		"entry_id": entry.ID,
		"score":    7,
	}, judge)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// Out of range scores are rejected
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/votes", map[string]any{
		"entry_id": entry.ID,
		"score":    11,
	}, judge)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_VOTE_SCORE")

	// Winner selection
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/winner", map[string]any{
		"entry_id": entry.ID,
	}, judge)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Leaderboard is public and reflects the weighted vote
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/leaderboard", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var rows []response.LeaderboardRow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 300, rows[0].Entry.TotalScore)
	assert.Equal(t, 7, rows[0].TotalVoteScore)
	assert.Equal(t, 300+7*10, rows[0].CombinedScore)
	assert.True(t, rows[0].IsWinner)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/winners", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var winners []response.WinnerPick
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &winners))
	require.Len(t, winners, 1)
	assert.Equal(t, entry.ID, winners[0].Entry.ID)
}

func TestTokenManagement(t *testing.T) {
	ts := newTestServer(t)

	host := signIn(t, ts, "github|6001", "kim")
	other := signIn(t, ts, "github|6002", "liam")

	g := createGame(t, ts, host, "Token game")

	// Only the creator can mint tokens
	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/tokens", map[string]string{}, other)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/tokens", map[string]string{"label": "A"}, host)
	require.Equal(t, http.StatusCreated, rr.Code)
	var tokenA response.VoteToken
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tokenA))

	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/tokens", nil, host)
	assert.Equal(t, http.StatusOK, rr.Code)
	var tokens []response.VoteToken
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tokens))
	assert.Len(t, tokens, 1)

	// Deactivated tokens cannot be claimed
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/tokens/"+tokenA.ID+"/deactivate", nil, host)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/tokens/"+tokenA.Token+"/claim", nil, other)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "TOKEN_INACTIVE")

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+g.ID+"/tokens/"+tokenA.ID, nil, host)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/tokens/"+tokenA.Token, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAssetManagement(t *testing.T) {
	ts := newTestServer(t)

	host := signIn(t, ts, "github|7001", "mona")
	g := createGame(t, ts, host, "Asset game")

	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/assets", map[string]string{
		"name": "logo",
		"url":  "https://assets.example.com/logo.png",
		"type": "image",
	}, host)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var created response.Asset
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ShortCode)
	assert.Equal(t, "image", created.Type)

	// Public lookup by short code
	rr = ts.request(http.MethodGet, "/api/v1/assets/code/"+created.ShortCode, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	// Patch the name
	rr = ts.request(http.MethodPatch, "/api/v1/games/"+g.ID+"/assets/"+created.ID, map[string]string{
		"name": "main logo",
	}, host)
	assert.Equal(t, http.StatusOK, rr.Code)

	var updated response.Asset
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "main logo", updated.Name)
	assert.Equal(t, created.URL, updated.URL)

	// Deleting the game reports the asset URL as orphaned
	rr = ts.request(http.MethodDelete, "/api/v1/games/"+g.ID, nil, host)
	assert.Equal(t, http.StatusOK, rr.Code)

	var deleted struct {
		OrphanedAssetURLs []string `json:"orphaned_asset_urls"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &deleted))
	assert.Contains(t, deleted.OrphanedAssetURLs, "https://assets.example.com/logo.png")
}

// Helper functions

func signIn(t *testing.T, ts *testServer, providerID, username string) string {
	t.Helper()

	body := map[string]string{
		"provider_id": providerID,
		"username":    username,
	}
	rr := ts.request(http.MethodPost, "/api/v1/auth/login", body, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.SessionToken
}

func createGame(t *testing.T, ts *testServer, token, title string) response.Game {
	t.Helper()

	body := map[string]any{"title": title}
	rr := ts.request(http.MethodPost, "/api/v1/games", body, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Game
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp
}

func playerEntry(t *testing.T, ts *testServer, playerID string) response.Entry {
	t.Helper()

	rr := ts.request(http.MethodGet, "/api/v1/players/"+playerID+"/entry", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Entry
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp
}
