package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// getJSON fetches and unmarshals a single entity, mapping a missing key to
// the provided not-found error.
func getJSON[T any](ctx context.Context, client *redis.Client, key string, notFound error) (*T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}

	var entity T
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// collectSet fetches each entity referenced by a SET index, skipping members
// whose record has since been deleted.
func collectSet[T any](ctx context.Context, client *redis.Client, setKey string, entityKey func(string) string) ([]*T, error) {
	ids, err := client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, err
	}

	var entities []*T
	for _, id := range ids {
		data, err := client.Get(ctx, entityKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		var entity T
		if err := json.Unmarshal(data, &entity); err != nil {
			return nil, err
		}
		entities = append(entities, &entity)
	}
	return entities, nil
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, providerIndexKey(user.ProviderID), string(user.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return getJSON[model.User](ctx, s.client, userKey(id), model.ErrUserNotFound)
}

func (s *Storage) GetUserByProviderID(ctx context.Context, providerID string) (*model.User, error) {
	id, err := s.client.Get(ctx, providerIndexKey(providerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(id))
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	// Fetch the previous record so the status index can be moved
	prev, err := getJSON[model.Game](ctx, s.client, gameKey(game.ID), model.ErrGameNotFound)
	if err != nil && !errors.Is(err, model.ErrGameNotFound) {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.Set(ctx, shortCodeIndexKey(game.ShortCode), string(game.ID), 0)
	pipe.SAdd(ctx, gamesByCreatorKey(game.CreatorID), string(game.ID))
	if prev != nil && prev.Status != game.Status {
		pipe.SRem(ctx, gamesByStatusKey(prev.Status), string(game.ID))
	}
	pipe.SAdd(ctx, gamesByStatusKey(game.Status), string(game.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getJSON[model.Game](ctx, s.client, gameKey(id), model.ErrGameNotFound)
}

func (s *Storage) GetGameByShortCode(ctx context.Context, shortCode string) (*model.Game, error) {
	id, err := s.client.Get(ctx, shortCodeIndexKey(shortCode)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return s.GetGame(ctx, model.GameID(id))
}

func (s *Storage) GetGamesByCreator(ctx context.Context, creatorID model.UserID) ([]*model.Game, error) {
	return collectSet[model.Game](ctx, s.client, gamesByCreatorKey(creatorID), func(id string) string {
		return gameKey(model.GameID(id))
	})
}

func (s *Storage) GetGamesByStatus(ctx context.Context, status model.GameStatus) ([]*model.Game, error) {
	return collectSet[model.Game](ctx, s.client, gamesByStatusKey(status), func(id string) string {
		return gameKey(model.GameID(id))
	})
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return nil // Already deleted
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.Del(ctx, shortCodeIndexKey(game.ShortCode))
	pipe.SRem(ctx, gamesByCreatorKey(game.CreatorID), string(id))
	pipe.SRem(ctx, gamesByStatusKey(game.Status), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	count, err := s.client.Exists(ctx, shortCodeIndexKey(shortCode)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.SAdd(ctx, playersForGameKey(player.GameID), string(player.ID))
	if player.UserID != nil {
		pipe.Set(ctx, userGameIndexKey(*player.UserID, player.GameID), string(player.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return getJSON[model.Player](ctx, s.client, playerKey(id), model.ErrPlayerNotFound)
}

func (s *Storage) GetPlayerByUserAndGame(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.Player, error) {
	id, err := s.client.Get(ctx, userGameIndexKey(userID, gameID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}

func (s *Storage) GetPlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	return collectSet[model.Player](ctx, s.client, playersForGameKey(gameID), func(id string) string {
		return playerKey(model.PlayerID(id))
	})
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.SRem(ctx, playersForGameKey(player.GameID), string(id))
	if player.UserID != nil {
		pipe.Del(ctx, userGameIndexKey(*player.UserID, player.GameID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Entry operations

func (s *Storage) SaveEntry(ctx context.Context, entry *model.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, entryKey(entry.ID), data, 0)
	pipe.SAdd(ctx, entriesForGameKey(entry.GameID), string(entry.ID))
	pipe.Set(ctx, entryForPlayerKey(entry.PlayerID), string(entry.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetEntry(ctx context.Context, id model.EntryID) (*model.Entry, error) {
	return getJSON[model.Entry](ctx, s.client, entryKey(id), model.ErrEntryNotFound)
}

func (s *Storage) GetEntryForPlayer(ctx context.Context, playerID model.PlayerID) (*model.Entry, error) {
	id, err := s.client.Get(ctx, entryForPlayerKey(playerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEntryNotFound
		}
		return nil, err
	}
	return s.GetEntry(ctx, model.EntryID(id))
}

func (s *Storage) GetEntriesForGame(ctx context.Context, gameID model.GameID) ([]*model.Entry, error) {
	return collectSet[model.Entry](ctx, s.client, entriesForGameKey(gameID), func(id string) string {
		return entryKey(model.EntryID(id))
	})
}

func (s *Storage) DeleteEntry(ctx context.Context, id model.EntryID) error {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, entryKey(id))
	pipe.SRem(ctx, entriesForGameKey(entry.GameID), string(id))
	pipe.Del(ctx, entryForPlayerKey(entry.PlayerID))
	_, err = pipe.Exec(ctx)
	return err
}

// Progress snapshot operations

func (s *Storage) AppendSnapshot(ctx context.Context, snapshot *model.ProgressSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, snapshotsKey(snapshot.EntryID), data).Err()
}

func (s *Storage) GetSnapshotsForEntry(ctx context.Context, entryID model.EntryID) ([]*model.ProgressSnapshot, error) {
	items, err := s.client.LRange(ctx, snapshotsKey(entryID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var snapshots []*model.ProgressSnapshot
	for _, item := range items {
		var snapshot model.ProgressSnapshot
		if err := json.Unmarshal([]byte(item), &snapshot); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &snapshot)
	}
	return snapshots, nil
}

func (s *Storage) DeleteSnapshotsForEntry(ctx context.Context, entryID model.EntryID) error {
	return s.client.Del(ctx, snapshotsKey(entryID)).Err()
}

// Vote operations

func (s *Storage) SaveVote(ctx context.Context, vote *model.Vote) error {
	data, err := json.Marshal(vote)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, voteKey(vote.ID), data, 0)
	pipe.SAdd(ctx, votesForGameKey(vote.GameID), string(vote.ID))
	pipe.SAdd(ctx, votesForEntryKey(vote.EntryID), string(vote.ID))
	pipe.SAdd(ctx, votesByJudgeKey(vote.JudgeID, vote.GameID), string(vote.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetVotesForGame(ctx context.Context, gameID model.GameID) ([]*model.Vote, error) {
	return collectSet[model.Vote](ctx, s.client, votesForGameKey(gameID), func(id string) string {
		return voteKey(model.VoteID(id))
	})
}

func (s *Storage) GetVotesForEntry(ctx context.Context, entryID model.EntryID) ([]*model.Vote, error) {
	return collectSet[model.Vote](ctx, s.client, votesForEntryKey(entryID), func(id string) string {
		return voteKey(model.VoteID(id))
	})
}

func (s *Storage) GetVotesByJudgeAndGame(ctx context.Context, judgeID model.UserID, gameID model.GameID) ([]*model.Vote, error) {
	return collectSet[model.Vote](ctx, s.client, votesByJudgeKey(judgeID, gameID), func(id string) string {
		return voteKey(model.VoteID(id))
	})
}

func (s *Storage) DeleteVote(ctx context.Context, id model.VoteID) error {
	vote, err := getJSON[model.Vote](ctx, s.client, voteKey(id), model.ErrVoteNotFound)
	if err != nil {
		if errors.Is(err, model.ErrVoteNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, voteKey(id))
	pipe.SRem(ctx, votesForGameKey(vote.GameID), string(id))
	pipe.SRem(ctx, votesForEntryKey(vote.EntryID), string(id))
	pipe.SRem(ctx, votesByJudgeKey(vote.JudgeID, vote.GameID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Vote token operations

func (s *Storage) SaveVoteToken(ctx context.Context, token *model.VoteToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, voteTokenKey(token.ID), data, 0)
	pipe.SAdd(ctx, tokensForGameKey(token.GameID), string(token.ID))
	pipe.Set(ctx, tokenIndexKey(token.Token), string(token.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetVoteToken(ctx context.Context, id model.TokenID) (*model.VoteToken, error) {
	return getJSON[model.VoteToken](ctx, s.client, voteTokenKey(id), model.ErrTokenNotFound)
}

func (s *Storage) GetVoteTokenByToken(ctx context.Context, tokenStr string) (*model.VoteToken, error) {
	id, err := s.client.Get(ctx, tokenIndexKey(tokenStr)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTokenNotFound
		}
		return nil, err
	}
	return s.GetVoteToken(ctx, model.TokenID(id))
}

func (s *Storage) GetVoteTokensForGame(ctx context.Context, gameID model.GameID) ([]*model.VoteToken, error) {
	return collectSet[model.VoteToken](ctx, s.client, tokensForGameKey(gameID), func(id string) string {
		return voteTokenKey(model.TokenID(id))
	})
}

func (s *Storage) DeleteVoteToken(ctx context.Context, id model.TokenID) error {
	token, err := s.GetVoteToken(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, voteTokenKey(id))
	pipe.SRem(ctx, tokensForGameKey(token.GameID), string(id))
	pipe.Del(ctx, tokenIndexKey(token.Token))
	_, err = pipe.Exec(ctx)
	return err
}

// Asset operations

func (s *Storage) SaveAsset(ctx context.Context, asset *model.Asset) error {
	data, err := json.Marshal(asset)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, assetKey(asset.ID), data, 0)
	pipe.SAdd(ctx, assetsForGameKey(asset.GameID), string(asset.ID))
	pipe.Set(ctx, assetCodeIndexKey(asset.ShortCode), string(asset.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAsset(ctx context.Context, id model.AssetID) (*model.Asset, error) {
	return getJSON[model.Asset](ctx, s.client, assetKey(id), model.ErrAssetNotFound)
}

func (s *Storage) GetAssetByShortCode(ctx context.Context, shortCode string) (*model.Asset, error) {
	id, err := s.client.Get(ctx, assetCodeIndexKey(shortCode)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAssetNotFound
		}
		return nil, err
	}
	return s.GetAsset(ctx, model.AssetID(id))
}

func (s *Storage) GetAssetsForGame(ctx context.Context, gameID model.GameID) ([]*model.Asset, error) {
	return collectSet[model.Asset](ctx, s.client, assetsForGameKey(gameID), func(id string) string {
		return assetKey(model.AssetID(id))
	})
}

func (s *Storage) DeleteAsset(ctx context.Context, id model.AssetID) error {
	asset, err := s.GetAsset(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrAssetNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, assetKey(id))
	pipe.SRem(ctx, assetsForGameKey(asset.GameID), string(id))
	pipe.Del(ctx, assetCodeIndexKey(asset.ShortCode))
	_, err = pipe.Exec(ctx)
	return err
}
