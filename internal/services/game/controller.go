package game

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/codeblind/codeblind-go/internal/dependencies/clock"
	"github.com/codeblind/codeblind-go/internal/dependencies/random"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage"
)

const (
	// ShortCodeLength is the length of generated game join codes
	ShortCodeLength = 6
	// ShortCodeAlphabet is the characters used in join codes
	ShortCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// CreateParams holds the creator-supplied fields for a new game
type CreateParams struct {
	Title             string
	Description       string
	ReferenceImageURL string
	Colors            []model.ColorSwatch
	Requirements      string
	DurationMinutes   int
}

// Controller owns the Game aggregate and its lifecycle state machine.
// Every mutating operation is authorized against the game's creator.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new game Controller
func NewController(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateGame creates a game in draft status with a unique short code
func (c *Controller) CreateGame(ctx context.Context, creatorID model.UserID, params CreateParams) (*model.Game, error) {
	if params.Title == "" {
		return nil, model.ErrMissingTitle
	}

	duration := params.DurationMinutes
	if duration <= 0 {
		duration = model.DefaultDurationMinutes
	}

	// Generate unique short code
	var shortCode string
	for {
		shortCode = c.random.String(ShortCodeLength, ShortCodeAlphabet)
		exists, err := c.storage.ShortCodeExists(ctx, shortCode)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:                model.GameID(uuid.NewString()),
		CreatorID:         creatorID,
		Title:             params.Title,
		Description:       params.Description,
		ShortCode:         shortCode,
		ReferenceImageURL: params.ReferenceImageURL,
		Colors:            params.Colors,
		Requirements:      params.Requirements,
		DurationMinutes:   duration,
		Status:            model.GameStatusDraft,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("short_code", shortCode),
		slog.String("creator_id", string(creatorID)),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GetGameByShortCode retrieves a game by join code
func (c *Controller) GetGameByShortCode(ctx context.Context, shortCode string) (*model.Game, error) {
	return c.storage.GetGameByShortCode(ctx, shortCode)
}

// GetGamesByCreator retrieves all games created by a user
func (c *Controller) GetGamesByCreator(ctx context.Context, creatorID model.UserID) ([]*model.Game, error) {
	return c.storage.GetGamesByCreator(ctx, creatorID)
}

// GetActiveGames retrieves all games currently in the active phase
func (c *Controller) GetActiveGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.GetGamesByStatus(ctx, model.GameStatusActive)
}

// getOwnedGame fetches a game and verifies the caller is its creator
func (c *Controller) getOwnedGame(ctx context.Context, gameID model.GameID, callerID model.UserID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.CreatorID != callerID {
		return nil, model.ErrNotCreator
	}
	return game, nil
}

// OpenLobby moves a game from draft to lobby
func (c *Controller) OpenLobby(ctx context.Context, gameID model.GameID, callerID model.UserID) error {
	game, err := c.getOwnedGame(ctx, gameID, callerID)
	if err != nil {
		return err
	}
	if game.Status != model.GameStatusDraft {
		return model.ErrInvalidStateTransition
	}

	game.Status = model.GameStatusLobby
	game.UpdatedAt = c.clock.Now()
	return c.storage.SaveGame(ctx, game)
}

// StartGame moves a game from lobby to active and stamps the start time
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID, callerID model.UserID) error {
	game, err := c.getOwnedGame(ctx, gameID, callerID)
	if err != nil {
		return err
	}
	if game.Status != model.GameStatusLobby {
		return model.ErrInvalidStateTransition
	}

	now := c.clock.Now()
	game.Status = model.GameStatusActive
	game.StartedAt = &now
	game.UpdatedAt = now

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return err
	}

	c.logger.Info("game started",
		slog.String("game_id", string(gameID)),
		slog.Int("duration_minutes", game.DurationMinutes),
	)
	return nil
}

// EndGame moves a game from active to voting, stamps the end time, and
// force-submits every entry that was never explicitly submitted. The
// deadline is checked lazily by callers, so calling this well after the
// nominal deadline is valid; re-running a partially applied end is safe
// because each force-submit is idempotent.
func (c *Controller) EndGame(ctx context.Context, gameID model.GameID, callerID model.UserID) error {
	game, err := c.getOwnedGame(ctx, gameID, callerID)
	if err != nil {
		return err
	}
	if game.Status != model.GameStatusActive {
		return model.ErrInvalidStateTransition
	}

	now := c.clock.Now()

	// Auto-submit safety net for players who never submitted
	entries, err := c.storage.GetEntriesForGame(ctx, gameID)
	if err != nil {
		return err
	}
	forced := 0
	for _, entry := range entries {
		if entry.IsSubmitted {
			continue
		}
		// Only the submitted flag and timestamp change; the entry keeps
		// whatever score it last recorded, zero if it never submitted.
		submittedAt := now
		entry.IsSubmitted = true
		entry.SubmittedAt = &submittedAt
		if err := c.storage.SaveEntry(ctx, entry); err != nil {
			return err
		}
		forced++
	}

	game.Status = model.GameStatusVoting
	game.EndedAt = &now
	game.UpdatedAt = now

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return err
	}

	c.logger.Info("game ended",
		slog.String("game_id", string(gameID)),
		slog.Int("entries", len(entries)),
		slog.Int("force_submitted", forced),
	)
	return nil
}

// FinishGame moves a game from voting to finished
func (c *Controller) FinishGame(ctx context.Context, gameID model.GameID, callerID model.UserID) error {
	game, err := c.getOwnedGame(ctx, gameID, callerID)
	if err != nil {
		return err
	}
	if game.Status != model.GameStatusVoting {
		return model.ErrInvalidStateTransition
	}

	game.Status = model.GameStatusFinished
	game.UpdatedAt = c.clock.Now()
	return c.storage.SaveGame(ctx, game)
}

// ResetGame returns a started game to the lobby, deleting all participant
// data (players, entries, snapshots, votes) while keeping the game's
// configuration and assets.
func (c *Controller) ResetGame(ctx context.Context, gameID model.GameID, callerID model.UserID) error {
	game, err := c.getOwnedGame(ctx, gameID, callerID)
	if err != nil {
		return err
	}
	switch game.Status {
	case model.GameStatusActive, model.GameStatusVoting, model.GameStatusFinished:
	default:
		return model.ErrInvalidStateTransition
	}

	if err := c.deleteParticipantData(ctx, gameID); err != nil {
		return err
	}

	game.Status = model.GameStatusLobby
	game.StartedAt = nil
	game.EndedAt = nil
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return err
	}

	c.logger.Info("game reset", slog.String("game_id", string(gameID)))
	return nil
}

// DeleteGame removes a game and cascades deletion of all its data. It
// returns the externally hosted asset URLs (including the reference image)
// that are now orphaned; purging them from blob storage is the caller's
// responsibility. Every delete step is idempotent, so a retry after a
// partial failure completes cleanly.
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID, callerID model.UserID) ([]string, error) {
	game, err := c.getOwnedGame(ctx, gameID, callerID)
	if err != nil {
		return nil, err
	}

	assets, err := c.storage.GetAssetsForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var assetURLs []string
	for _, asset := range assets {
		assetURLs = append(assetURLs, asset.URL)
		if err := c.storage.DeleteAsset(ctx, asset.ID); err != nil {
			return nil, err
		}
	}
	if game.ReferenceImageURL != "" {
		assetURLs = append(assetURLs, game.ReferenceImageURL)
	}

	if err := c.deleteParticipantData(ctx, gameID); err != nil {
		return nil, err
	}

	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return nil, err
	}

	c.logger.Info("game deleted",
		slog.String("game_id", string(gameID)),
		slog.Int("orphaned_urls", len(assetURLs)),
	)
	return assetURLs, nil
}

// deleteParticipantData removes all players, entries, snapshots and votes
// for a game. Shared by reset and delete; every step is a no-op when the
// row is already gone.
func (c *Controller) deleteParticipantData(ctx context.Context, gameID model.GameID) error {
	entries, err := c.storage.GetEntriesForGame(ctx, gameID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := c.storage.DeleteSnapshotsForEntry(ctx, entry.ID); err != nil {
			return err
		}
		if err := c.storage.DeleteEntry(ctx, entry.ID); err != nil {
			return err
		}
	}

	votes, err := c.storage.GetVotesForGame(ctx, gameID)
	if err != nil {
		return err
	}
	for _, vote := range votes {
		if err := c.storage.DeleteVote(ctx, vote.ID); err != nil {
			return err
		}
	}

	players, err := c.storage.GetPlayersForGame(ctx, gameID)
	if err != nil {
		return err
	}
	for _, player := range players {
		if err := c.storage.DeletePlayer(ctx, player.ID); err != nil {
			return err
		}
	}

	return nil
}

// UpdateGame applies a partial update to a game's editable fields.
// Only valid while the game is in draft or lobby.
func (c *Controller) UpdateGame(ctx context.Context, gameID model.GameID, callerID model.UserID, patch model.GamePatch) (*model.Game, error) {
	game, err := c.getOwnedGame(ctx, gameID, callerID)
	if err != nil {
		return nil, err
	}
	if !game.IsEditable() {
		return nil, model.ErrGameNotEditable
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, model.ErrMissingTitle
	}

	patch.Apply(game)
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, creatorID model.UserID, params CreateParams) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GetGameByShortCode(ctx context.Context, shortCode string) (*model.Game, error)
	GetGamesByCreator(ctx context.Context, creatorID model.UserID) ([]*model.Game, error)
	GetActiveGames(ctx context.Context) ([]*model.Game, error)
	OpenLobby(ctx context.Context, gameID model.GameID, callerID model.UserID) error
	StartGame(ctx context.Context, gameID model.GameID, callerID model.UserID) error
	EndGame(ctx context.Context, gameID model.GameID, callerID model.UserID) error
	FinishGame(ctx context.Context, gameID model.GameID, callerID model.UserID) error
	ResetGame(ctx context.Context, gameID model.GameID, callerID model.UserID) error
	DeleteGame(ctx context.Context, gameID model.GameID, callerID model.UserID) ([]string, error)
	UpdateGame(ctx context.Context, gameID model.GameID, callerID model.UserID, patch model.GamePatch) (*model.Game, error)
}

var _ ControllerInterface = (*Controller)(nil)
