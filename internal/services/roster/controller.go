package roster

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/codeblind/codeblind-go/internal/dependencies/clock"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage"
)

// PlayerWithUser is a player joined with its linked user profile, if any
type PlayerWithUser struct {
	Player *model.Player
	User   *model.User // Nil for guests
}

// Controller admits players into games and tracks membership
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new roster Controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// JoinGame admits a participant. A registered user rejoining the same game
// gets their existing player back (reactivated, original handle kept).
// Guests always create a new player; the caller must hold onto the returned
// id to reconnect as the same participant. New players get an empty entry.
func (c *Controller) JoinGame(ctx context.Context, gameID model.GameID, userID *model.UserID, handle string) (model.PlayerID, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return "", err
	}

	if userID != nil {
		existing, err := c.storage.GetPlayerByUserAndGame(ctx, *userID, gameID)
		if err == nil {
			if !existing.IsActive {
				existing.IsActive = true
				if err := c.storage.SavePlayer(ctx, existing); err != nil {
					return "", err
				}
			}
			return existing.ID, nil
		}
		if !errors.Is(err, model.ErrPlayerNotFound) {
			return "", err
		}
	}

	if handle == "" {
		return "", model.ErrMissingHandle
	}

	now := c.clock.Now()
	player := &model.Player{
		ID:       model.PlayerID(uuid.NewString()),
		GameID:   gameID,
		UserID:   userID,
		Handle:   handle,
		JoinedAt: now,
		IsActive: true,
	}
	// The entry goes in first. If the player write then fails, the
	// orphaned entry is unreachable; a player without an entry would
	// break the play flow.
	entry := &model.Entry{
		ID:        model.EntryID(uuid.NewString()),
		GameID:    gameID,
		PlayerID:  player.ID,
		HTML:      "",
		CreatedAt: now,
	}
	if err := c.storage.SaveEntry(ctx, entry); err != nil {
		return "", err
	}
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return "", err
	}

	c.logger.Info("player joined",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(player.ID)),
		slog.Bool("guest", userID == nil),
	)
	return player.ID, nil
}

// LeaveGame marks a player inactive. Their entry and its data are kept.
func (c *Controller) LeaveGame(ctx context.Context, playerID model.PlayerID) error {
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if !player.IsActive {
		return nil
	}
	player.IsActive = false
	return c.storage.SavePlayer(ctx, player)
}

// GetPlayer retrieves a player by ID
func (c *Controller) GetPlayer(ctx context.Context, playerID model.PlayerID) (*model.Player, error) {
	return c.storage.GetPlayer(ctx, playerID)
}

// GetPlayerByUserAndGame retrieves a registered user's player in a game
func (c *Controller) GetPlayerByUserAndGame(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.Player, error) {
	return c.storage.GetPlayerByUserAndGame(ctx, userID, gameID)
}

// GetGamePlayers lists a game's players joined with their user profiles
func (c *Controller) GetGamePlayers(ctx context.Context, gameID model.GameID) ([]PlayerWithUser, error) {
	players, err := c.storage.GetPlayersForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	result := make([]PlayerWithUser, 0, len(players))
	for _, player := range players {
		pw := PlayerWithUser{Player: player}
		if player.UserID != nil {
			user, err := c.storage.GetUser(ctx, *player.UserID)
			if err != nil && !errors.Is(err, model.ErrUserNotFound) {
				return nil, err
			}
			pw.User = user
		}
		result = append(result, pw)
	}
	return result, nil
}

// ActivePlayerCount returns the number of active players in a game.
// Submission does not decrement it; only leaving does.
func (c *Controller) ActivePlayerCount(ctx context.Context, gameID model.GameID) (int, error) {
	players, err := c.storage.GetPlayersForGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, player := range players {
		if player.IsActive {
			count++
		}
	}
	return count, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	JoinGame(ctx context.Context, gameID model.GameID, userID *model.UserID, handle string) (model.PlayerID, error)
	LeaveGame(ctx context.Context, playerID model.PlayerID) error
	GetPlayer(ctx context.Context, playerID model.PlayerID) (*model.Player, error)
	GetPlayerByUserAndGame(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.Player, error)
	GetGamePlayers(ctx context.Context, gameID model.GameID) ([]PlayerWithUser, error)
	ActivePlayerCount(ctx context.Context, gameID model.GameID) (int, error)
}

var _ ControllerInterface = (*Controller)(nil)
