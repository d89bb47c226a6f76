package storage

import (
	"context"

	"github.com/codeblind/codeblind-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByProviderID(ctx context.Context, providerID string) (*model.User, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGameByShortCode(ctx context.Context, shortCode string) (*model.Game, error)
	GetGamesByCreator(ctx context.Context, creatorID model.UserID) ([]*model.Game, error)
	GetGamesByStatus(ctx context.Context, status model.GameStatus) ([]*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByUserAndGame(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.Player, error)
	GetPlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Entry operations
	SaveEntry(ctx context.Context, entry *model.Entry) error
	GetEntry(ctx context.Context, id model.EntryID) (*model.Entry, error)
	GetEntryForPlayer(ctx context.Context, playerID model.PlayerID) (*model.Entry, error)
	GetEntriesForGame(ctx context.Context, gameID model.GameID) ([]*model.Entry, error)
	DeleteEntry(ctx context.Context, id model.EntryID) error

	// Progress snapshot operations (append-only)
	AppendSnapshot(ctx context.Context, snapshot *model.ProgressSnapshot) error
	GetSnapshotsForEntry(ctx context.Context, entryID model.EntryID) ([]*model.ProgressSnapshot, error)
	DeleteSnapshotsForEntry(ctx context.Context, entryID model.EntryID) error

	// Vote operations
	SaveVote(ctx context.Context, vote *model.Vote) error
	GetVotesForGame(ctx context.Context, gameID model.GameID) ([]*model.Vote, error)
	GetVotesForEntry(ctx context.Context, entryID model.EntryID) ([]*model.Vote, error)
	GetVotesByJudgeAndGame(ctx context.Context, judgeID model.UserID, gameID model.GameID) ([]*model.Vote, error)
	DeleteVote(ctx context.Context, id model.VoteID) error

	// Vote token operations
	SaveVoteToken(ctx context.Context, token *model.VoteToken) error
	GetVoteToken(ctx context.Context, id model.TokenID) (*model.VoteToken, error)
	GetVoteTokenByToken(ctx context.Context, token string) (*model.VoteToken, error)
	GetVoteTokensForGame(ctx context.Context, gameID model.GameID) ([]*model.VoteToken, error)
	DeleteVoteToken(ctx context.Context, id model.TokenID) error

	// Asset operations
	SaveAsset(ctx context.Context, asset *model.Asset) error
	GetAsset(ctx context.Context, id model.AssetID) (*model.Asset, error)
	GetAssetByShortCode(ctx context.Context, shortCode string) (*model.Asset, error)
	GetAssetsForGame(ctx context.Context, gameID model.GameID) ([]*model.Asset, error)
	DeleteAsset(ctx context.Context, id model.AssetID) error
}
