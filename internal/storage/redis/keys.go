package redis

import (
	"fmt"

	"github.com/codeblind/codeblind-go/internal/model"
)

// Key prefix for all competition data
const keyPrefix = "codeblind"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// providerIndexKey returns the Redis key for the provider_id -> user_id index
func providerIndexKey(providerID string) string {
	return fmt.Sprintf("%s:idx:provider:%s", keyPrefix, providerID)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// shortCodeIndexKey returns the Redis key for the short_code -> game_id index
func shortCodeIndexKey(shortCode string) string {
	return fmt.Sprintf("%s:idx:short_code:%s", keyPrefix, shortCode)
}

// gamesByCreatorKey returns the Redis key for the SET of a creator's games
func gamesByCreatorKey(creatorID model.UserID) string {
	return fmt.Sprintf("%s:idx:games_by_creator:%s", keyPrefix, creatorID)
}

// gamesByStatusKey returns the Redis key for the SET of games in a status
func gamesByStatusKey(status model.GameStatus) string {
	return fmt.Sprintf("%s:idx:games_by_status:%s", keyPrefix, status)
}

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersForGameKey returns the Redis key for the SET of players in a game
func playersForGameKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:players_for_game:%s", keyPrefix, gameID)
}

// userGameIndexKey returns the Redis key for the (user, game) -> player_id index
func userGameIndexKey(userID model.UserID, gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:user_game:%s:%s", keyPrefix, userID, gameID)
}

// entryKey returns the Redis key for an Entry
func entryKey(id model.EntryID) string {
	return fmt.Sprintf("%s:entry:%s", keyPrefix, id)
}

// entriesForGameKey returns the Redis key for the SET of entries in a game
func entriesForGameKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:entries_for_game:%s", keyPrefix, gameID)
}

// entryForPlayerKey returns the Redis key for the player_id -> entry_id index
func entryForPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:entry_for_player:%s", keyPrefix, playerID)
}

// snapshotsKey returns the Redis key for the LIST of an entry's snapshots
func snapshotsKey(entryID model.EntryID) string {
	return fmt.Sprintf("%s:snapshots:%s", keyPrefix, entryID)
}

// voteKey returns the Redis key for a Vote
func voteKey(id model.VoteID) string {
	return fmt.Sprintf("%s:vote:%s", keyPrefix, id)
}

// votesForGameKey returns the Redis key for the SET of votes in a game
func votesForGameKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:votes_for_game:%s", keyPrefix, gameID)
}

// votesForEntryKey returns the Redis key for the SET of votes for an entry
func votesForEntryKey(entryID model.EntryID) string {
	return fmt.Sprintf("%s:idx:votes_for_entry:%s", keyPrefix, entryID)
}

// votesByJudgeKey returns the Redis key for the SET of a judge's votes in a game
func votesByJudgeKey(judgeID model.UserID, gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:votes_by_judge:%s:%s", keyPrefix, judgeID, gameID)
}

// voteTokenKey returns the Redis key for a VoteToken
func voteTokenKey(id model.TokenID) string {
	return fmt.Sprintf("%s:vote_token:%s", keyPrefix, id)
}

// tokensForGameKey returns the Redis key for the SET of tokens in a game
func tokensForGameKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:tokens_for_game:%s", keyPrefix, gameID)
}

// tokenIndexKey returns the Redis key for the token string -> token_id index
func tokenIndexKey(token string) string {
	return fmt.Sprintf("%s:idx:token:%s", keyPrefix, token)
}

// assetKey returns the Redis key for an Asset
func assetKey(id model.AssetID) string {
	return fmt.Sprintf("%s:asset:%s", keyPrefix, id)
}

// assetsForGameKey returns the Redis key for the SET of assets in a game
func assetsForGameKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:assets_for_game:%s", keyPrefix, gameID)
}

// assetCodeIndexKey returns the Redis key for the asset short_code index
func assetCodeIndexKey(shortCode string) string {
	return fmt.Sprintf("%s:idx:asset_code:%s", keyPrefix, shortCode)
}
