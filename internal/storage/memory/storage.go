package memory

import (
	"context"
	"sync"

	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	providerIndex map[string]model.UserID

	games          map[model.GameID]*model.Game
	gameOrder      []model.GameID
	shortCodeIndex map[string]model.GameID

	players       map[model.PlayerID]*model.Player
	playersByGame map[model.GameID][]model.PlayerID
	userGameIndex map[userGameKey]model.PlayerID

	entries       map[model.EntryID]*model.Entry
	entriesByGame map[model.GameID][]model.EntryID
	entryByPlayer map[model.PlayerID]model.EntryID

	snapshots map[model.EntryID][]*model.ProgressSnapshot

	votes     map[model.VoteID]*model.Vote
	voteOrder []model.VoteID

	tokens       map[model.TokenID]*model.VoteToken
	tokensByGame map[model.GameID][]model.TokenID
	tokenIndex   map[string]model.TokenID

	assets         map[model.AssetID]*model.Asset
	assetsByGame   map[model.GameID][]model.AssetID
	assetCodeIndex map[string]model.AssetID
}

type userGameKey struct {
	userID model.UserID
	gameID model.GameID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:          make(map[model.UserID]*model.User),
		providerIndex:  make(map[string]model.UserID),
		games:          make(map[model.GameID]*model.Game),
		shortCodeIndex: make(map[string]model.GameID),
		players:        make(map[model.PlayerID]*model.Player),
		playersByGame:  make(map[model.GameID][]model.PlayerID),
		userGameIndex:  make(map[userGameKey]model.PlayerID),
		entries:        make(map[model.EntryID]*model.Entry),
		entriesByGame:  make(map[model.GameID][]model.EntryID),
		entryByPlayer:  make(map[model.PlayerID]model.EntryID),
		snapshots:      make(map[model.EntryID][]*model.ProgressSnapshot),
		votes:          make(map[model.VoteID]*model.Vote),
		tokens:         make(map[model.TokenID]*model.VoteToken),
		tokensByGame:   make(map[model.GameID][]model.TokenID),
		tokenIndex:     make(map[string]model.TokenID),
		assets:         make(map[model.AssetID]*model.Asset),
		assetsByGame:   make(map[model.GameID][]model.AssetID),
		assetCodeIndex: make(map[string]model.AssetID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.providerIndex[user.ProviderID] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByProviderID(ctx context.Context, providerID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.providerIndex[providerID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[game.ID]; !exists {
		s.gameOrder = append(s.gameOrder, game.ID)
	}
	s.games[game.ID] = game
	s.shortCodeIndex[game.ShortCode] = game.ID
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Storage) GetGameByShortCode(ctx context.Context, shortCode string) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.shortCodeIndex[shortCode]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Storage) GetGamesByCreator(ctx context.Context, creatorID model.UserID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, id := range s.gameOrder {
		if game, ok := s.games[id]; ok && game.CreatorID == creatorID {
			games = append(games, game)
		}
	}
	return games, nil
}

func (s *Storage) GetGamesByStatus(ctx context.Context, status model.GameStatus) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, id := range s.gameOrder {
		if game, ok := s.games[id]; ok && game.Status == status {
			games = append(games, game)
		}
	}
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return nil
	}
	delete(s.shortCodeIndex, game.ShortCode)
	delete(s.games, id)
	return nil
}

func (s *Storage) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.shortCodeIndex[shortCode]
	return ok, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.players[player.ID]; !exists {
		s.playersByGame[player.GameID] = append(s.playersByGame[player.GameID], player.ID)
	}
	s.players[player.ID] = player
	if player.UserID != nil {
		s.userGameIndex[userGameKey{*player.UserID, player.GameID}] = player.ID
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) GetPlayerByUserAndGame(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userGameIndex[userGameKey{userID, gameID}]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) GetPlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var players []*model.Player
	for _, id := range s.playersByGame[gameID] {
		if player, ok := s.players[id]; ok {
			players = append(players, player)
		}
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return nil
	}
	if player.UserID != nil {
		delete(s.userGameIndex, userGameKey{*player.UserID, player.GameID})
	}
	s.playersByGame[player.GameID] = removeID(s.playersByGame[player.GameID], id)
	delete(s.players, id)
	return nil
}

// Entry operations

func (s *Storage) SaveEntry(ctx context.Context, entry *model.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.ID]; !exists {
		s.entriesByGame[entry.GameID] = append(s.entriesByGame[entry.GameID], entry.ID)
	}
	s.entries[entry.ID] = entry
	s.entryByPlayer[entry.PlayerID] = entry.ID
	return nil
}

func (s *Storage) GetEntry(ctx context.Context, id model.EntryID) (*model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	return entry, nil
}

func (s *Storage) GetEntryForPlayer(ctx context.Context, playerID model.PlayerID) (*model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.entryByPlayer[playerID]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	entry, ok := s.entries[id]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	return entry, nil
}

func (s *Storage) GetEntriesForGame(ctx context.Context, gameID model.GameID) ([]*model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []*model.Entry
	for _, id := range s.entriesByGame[gameID] {
		if entry, ok := s.entries[id]; ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *Storage) DeleteEntry(ctx context.Context, id model.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil
	}
	delete(s.entryByPlayer, entry.PlayerID)
	s.entriesByGame[entry.GameID] = removeID(s.entriesByGame[entry.GameID], id)
	delete(s.entries, id)
	return nil
}

// Progress snapshot operations

func (s *Storage) AppendSnapshot(ctx context.Context, snapshot *model.ProgressSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.EntryID] = append(s.snapshots[snapshot.EntryID], snapshot)
	return nil
}

func (s *Storage) GetSnapshotsForEntry(ctx context.Context, entryID model.EntryID) ([]*model.ProgressSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshots := make([]*model.ProgressSnapshot, len(s.snapshots[entryID]))
	copy(snapshots, s.snapshots[entryID])
	return snapshots, nil
}

func (s *Storage) DeleteSnapshotsForEntry(ctx context.Context, entryID model.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, entryID)
	return nil
}

// Vote operations

func (s *Storage) SaveVote(ctx context.Context, vote *model.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.votes[vote.ID]; !exists {
		s.voteOrder = append(s.voteOrder, vote.ID)
	}
	s.votes[vote.ID] = vote
	return nil
}

func (s *Storage) GetVotesForGame(ctx context.Context, gameID model.GameID) ([]*model.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterVotes(func(v *model.Vote) bool {
		return v.GameID == gameID
	}), nil
}

func (s *Storage) GetVotesForEntry(ctx context.Context, entryID model.EntryID) ([]*model.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterVotes(func(v *model.Vote) bool {
		return v.EntryID == entryID
	}), nil
}

func (s *Storage) GetVotesByJudgeAndGame(ctx context.Context, judgeID model.UserID, gameID model.GameID) ([]*model.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterVotes(func(v *model.Vote) bool {
		return v.JudgeID == judgeID && v.GameID == gameID
	}), nil
}

func (s *Storage) DeleteVote(ctx context.Context, id model.VoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.votes[id]; !ok {
		return nil
	}
	s.voteOrder = removeID(s.voteOrder, id)
	delete(s.votes, id)
	return nil
}

// filterVotes returns votes matching the predicate in insertion order.
// Caller must hold the lock.
func (s *Storage) filterVotes(match func(*model.Vote) bool) []*model.Vote {
	var votes []*model.Vote
	for _, id := range s.voteOrder {
		if vote, ok := s.votes[id]; ok && match(vote) {
			votes = append(votes, vote)
		}
	}
	return votes
}

// Vote token operations

func (s *Storage) SaveVoteToken(ctx context.Context, token *model.VoteToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tokens[token.ID]; !exists {
		s.tokensByGame[token.GameID] = append(s.tokensByGame[token.GameID], token.ID)
	}
	s.tokens[token.ID] = token
	s.tokenIndex[token.Token] = token.ID
	return nil
}

func (s *Storage) GetVoteToken(ctx context.Context, id model.TokenID) (*model.VoteToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[id]
	if !ok {
		return nil, model.ErrTokenNotFound
	}
	return token, nil
}

func (s *Storage) GetVoteTokenByToken(ctx context.Context, tokenStr string) (*model.VoteToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokenIndex[tokenStr]
	if !ok {
		return nil, model.ErrTokenNotFound
	}
	token, ok := s.tokens[id]
	if !ok {
		return nil, model.ErrTokenNotFound
	}
	return token, nil
}

func (s *Storage) GetVoteTokensForGame(ctx context.Context, gameID model.GameID) ([]*model.VoteToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var tokens []*model.VoteToken
	for _, id := range s.tokensByGame[gameID] {
		if token, ok := s.tokens[id]; ok {
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}

func (s *Storage) DeleteVoteToken(ctx context.Context, id model.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[id]
	if !ok {
		return nil
	}
	delete(s.tokenIndex, token.Token)
	s.tokensByGame[token.GameID] = removeID(s.tokensByGame[token.GameID], id)
	delete(s.tokens, id)
	return nil
}

// Asset operations

func (s *Storage) SaveAsset(ctx context.Context, asset *model.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assets[asset.ID]; !exists {
		s.assetsByGame[asset.GameID] = append(s.assetsByGame[asset.GameID], asset.ID)
	}
	s.assets[asset.ID] = asset
	s.assetCodeIndex[asset.ShortCode] = asset.ID
	return nil
}

func (s *Storage) GetAsset(ctx context.Context, id model.AssetID) (*model.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[id]
	if !ok {
		return nil, model.ErrAssetNotFound
	}
	return asset, nil
}

func (s *Storage) GetAssetByShortCode(ctx context.Context, shortCode string) (*model.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.assetCodeIndex[shortCode]
	if !ok {
		return nil, model.ErrAssetNotFound
	}
	asset, ok := s.assets[id]
	if !ok {
		return nil, model.ErrAssetNotFound
	}
	return asset, nil
}

func (s *Storage) GetAssetsForGame(ctx context.Context, gameID model.GameID) ([]*model.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var assets []*model.Asset
	for _, id := range s.assetsByGame[gameID] {
		if asset, ok := s.assets[id]; ok {
			assets = append(assets, asset)
		}
	}
	return assets, nil
}

func (s *Storage) DeleteAsset(ctx context.Context, id model.AssetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	asset, ok := s.assets[id]
	if !ok {
		return nil
	}
	delete(s.assetCodeIndex, asset.ShortCode)
	s.assetsByGame[asset.GameID] = removeID(s.assetsByGame[asset.GameID], id)
	delete(s.assets, id)
	return nil
}

// removeID removes the first occurrence of id from ids
func removeID[T comparable](ids []T, id T) []T {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
