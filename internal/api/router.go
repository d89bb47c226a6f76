package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codeblind/codeblind-go/internal/api/handler"
	"github.com/codeblind/codeblind-go/internal/api/middleware"
	"github.com/codeblind/codeblind-go/internal/dependencies/clock"
	"github.com/codeblind/codeblind-go/internal/services/asset"
	"github.com/codeblind/codeblind-go/internal/services/game"
	"github.com/codeblind/codeblind-go/internal/services/identity"
	"github.com/codeblind/codeblind-go/internal/services/roster"
	"github.com/codeblind/codeblind-go/internal/services/scoring"
	"github.com/codeblind/codeblind-go/internal/services/votetoken"
	"github.com/codeblind/codeblind-go/internal/services/voting"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	Clock            clock.Clock
	IdentityService  *identity.Service
	GameController   *game.Controller
	RosterController *roster.Controller
	ScoringService   *scoring.Service
	VotingController *voting.Controller
	VoteTokenService *votetoken.Service
	AssetService     *asset.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.IdentityService)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.Clock)
	rosterHandler := handler.NewRosterHandler(cfg.RosterController)
	entryHandler := handler.NewEntryHandler(cfg.ScoringService)
	voteHandler := handler.NewVoteHandler(cfg.VotingController)
	tokenHandler := handler.NewTokenHandler(cfg.VoteTokenService)
	assetHandler := handler.NewAssetHandler(cfg.AssetService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.IdentityService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.IdentityService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)

	// Public game lookups. Viewing a game, its roster, submitted entries and
	// the leaderboard needs no account so spectators and judges can browse.
	public := api.PathPrefix("/games").Subrouter()
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/active", gameHandler.ListActive).Methods(http.MethodGet)
	public.HandleFunc("/code/{code}", gameHandler.GetByShortCode).Methods(http.MethodGet)
	public.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	public.HandleFunc("/{id}/players", rosterHandler.List).Methods(http.MethodGet)
	public.HandleFunc("/{id}/players", rosterHandler.Join).Methods(http.MethodPost)
	public.HandleFunc("/{id}/entries", entryHandler.GameEntries).Methods(http.MethodGet)
	public.HandleFunc("/{id}/entries/submitted", entryHandler.SubmittedEntries).Methods(http.MethodGet)
	public.HandleFunc("/{id}/leaderboard", voteHandler.Leaderboard).Methods(http.MethodGet)
	public.HandleFunc("/{id}/winners", voteHandler.Winners).Methods(http.MethodGet)
	public.HandleFunc("/{id}/votes", voteHandler.GameVotes).Methods(http.MethodGet)
	public.HandleFunc("/{id}/assets", assetHandler.List).Methods(http.MethodGet)

	// Game management routes (require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("", gameHandler.ListMine).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Update).Methods(http.MethodPatch)
	games.HandleFunc("/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/open", gameHandler.OpenLobby).Methods(http.MethodPost)
	games.HandleFunc("/{id}/start", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{id}/end", gameHandler.End).Methods(http.MethodPost)
	games.HandleFunc("/{id}/finish", gameHandler.Finish).Methods(http.MethodPost)
	games.HandleFunc("/{id}/reset", gameHandler.Reset).Methods(http.MethodPost)

	// Voting routes (require auth)
	games.HandleFunc("/{id}/votes", voteHandler.Cast).Methods(http.MethodPost)
	games.HandleFunc("/{id}/votes/eligibility", voteHandler.CanVote).Methods(http.MethodGet)
	games.HandleFunc("/{id}/votes/mine", voteHandler.MyVotes).Methods(http.MethodGet)
	games.HandleFunc("/{id}/winner", voteHandler.SelectWinner).Methods(http.MethodPost)

	// Vote token management routes (require auth, creator checked in service)
	games.HandleFunc("/{id}/tokens", tokenHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}/tokens", tokenHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{id}/tokens/{tokenId}", tokenHandler.Delete).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/tokens/{tokenId}/deactivate", tokenHandler.Deactivate).Methods(http.MethodPost)

	// Asset management routes (require auth)
	games.HandleFunc("/{id}/assets", assetHandler.Add).Methods(http.MethodPost)
	games.HandleFunc("/{id}/assets/{assetId}", assetHandler.Update).Methods(http.MethodPatch)
	games.HandleFunc("/{id}/assets/{assetId}", assetHandler.Remove).Methods(http.MethodDelete)

	// Asset lookup by short code (public)
	api.HandleFunc("/assets/code/{code}", assetHandler.GetByShortCode).Methods(http.MethodGet)

	// Token info is public; claiming requires a signed-in judge
	api.HandleFunc("/tokens/{token}", tokenHandler.Info).Methods(http.MethodGet)
	tokens := api.PathPrefix("/tokens").Subrouter()
	tokens.Use(authMiddleware)
	tokens.HandleFunc("/{token}/claim", tokenHandler.Claim).Methods(http.MethodPost)

	// Entry routes. Entries are keyed by unguessable IDs handed out on join,
	// which is the player's credential whether or not they have an account.
	entries := api.PathPrefix("/entries").Subrouter()
	entries.Use(optionalAuthMiddleware)
	entries.HandleFunc("/{id}", entryHandler.Get).Methods(http.MethodGet)
	entries.HandleFunc("/{id}", entryHandler.Update).Methods(http.MethodPut)
	entries.HandleFunc("/{id}/snapshots", entryHandler.Snapshot).Methods(http.MethodPost)
	entries.HandleFunc("/{id}/snapshots", entryHandler.Snapshots).Methods(http.MethodGet)
	entries.HandleFunc("/{id}/submit", entryHandler.Submit).Methods(http.MethodPost)

	// Player routes
	players := api.PathPrefix("/players").Subrouter()
	players.Use(optionalAuthMiddleware)
	players.HandleFunc("/{playerId}", rosterHandler.Leave).Methods(http.MethodDelete)
	players.HandleFunc("/{playerId}/entry", entryHandler.PlayerEntry).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
