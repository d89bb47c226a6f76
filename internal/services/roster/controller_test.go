package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/codeblind/codeblind-go/internal/dependencies/mocks"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage/memory"
	"github.com/codeblind/codeblind-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	controller *Controller
	ctx        context.Context
	gameID     model.GameID
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.controller = NewController(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	s.gameID = "game-1"
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{
		ID:        s.gameID,
		CreatorID: "user-1",
		Title:     "Landing page",
		ShortCode: "abc123",
		Status:    model.GameStatusLobby,
	}))
}

var errEntrySave = errors.New("entry write failed")

// entrySaveFailStorage fails every entry write
type entrySaveFailStorage struct {
	*memory.Storage
}

func (f *entrySaveFailStorage) SaveEntry(ctx context.Context, entry *model.Entry) error {
	return errEntrySave
}

// JoinGame tests

func (s *ControllerSuite) TestJoinGameAsGuest() {
	playerID, err := s.controller.JoinGame(s.ctx, s.gameID, nil, "mystery guest")
	s.Require().NoError(err)

	player, err := s.controller.GetPlayer(s.ctx, playerID)
	s.Require().NoError(err)
	s.True(player.IsGuest())
	s.True(player.IsActive)
	s.Equal("mystery guest", player.Handle)
	s.Equal(s.clock.Now(), player.JoinedAt)
}

func (s *ControllerSuite) TestJoinGameCreatesEmptyEntry() {
	playerID, err := s.controller.JoinGame(s.ctx, s.gameID, nil, "guest")
	s.Require().NoError(err)

	entry, err := s.storage.GetEntryForPlayer(s.ctx, playerID)
	s.Require().NoError(err)
	s.Equal(s.gameID, entry.GameID)
	s.Empty(entry.HTML)
	s.False(entry.IsSubmitted)
	s.Zero(entry.TotalScore)
}

func (s *ControllerSuite) TestJoinGameRequiresHandle() {
	_, err := s.controller.JoinGame(s.ctx, s.gameID, nil, "")
	s.ErrorIs(err, model.ErrMissingHandle)
}

func (s *ControllerSuite) TestJoinGameUnknownGameFails() {
	_, err := s.controller.JoinGame(s.ctx, "nope", nil, "guest")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestJoinGameStoresNoPlayerWhenEntryWriteFails() {
	failing := &entrySaveFailStorage{Storage: s.storage}
	controller := NewController(failing, s.clock, testutil.NopLogger())

	_, err := controller.JoinGame(s.ctx, s.gameID, nil, "mystery guest")
	s.Require().ErrorIs(err, errEntrySave)

	players, err := s.storage.GetPlayersForGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *ControllerSuite) TestRegisteredRejoinIsIdempotent() {
	userID := model.UserID("user-7")

	first, err := s.controller.JoinGame(s.ctx, s.gameID, &userID, "alice")
	s.Require().NoError(err)
	second, err := s.controller.JoinGame(s.ctx, s.gameID, &userID, "alice again")
	s.Require().NoError(err)

	s.Equal(first, second)

	player, err := s.controller.GetPlayer(s.ctx, first)
	s.Require().NoError(err)
	s.Equal("alice", player.Handle)

	players, err := s.storage.GetPlayersForGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Len(players, 1)
}

func (s *ControllerSuite) TestRejoinAfterLeavingReactivates() {
	userID := model.UserID("user-7")

	playerID, err := s.controller.JoinGame(s.ctx, s.gameID, &userID, "alice")
	s.Require().NoError(err)
	s.Require().NoError(s.controller.LeaveGame(s.ctx, playerID))

	rejoined, err := s.controller.JoinGame(s.ctx, s.gameID, &userID, "alice")
	s.Require().NoError(err)
	s.Equal(playerID, rejoined)

	player, err := s.controller.GetPlayer(s.ctx, playerID)
	s.Require().NoError(err)
	s.True(player.IsActive)
}

func (s *ControllerSuite) TestGuestsAlwaysGetNewPlayers() {
	first, err := s.controller.JoinGame(s.ctx, s.gameID, nil, "guest one")
	s.Require().NoError(err)
	second, err := s.controller.JoinGame(s.ctx, s.gameID, nil, "guest two")
	s.Require().NoError(err)

	s.NotEqual(first, second)
}

// LeaveGame tests

func (s *ControllerSuite) TestLeaveGameKeepsEntry() {
	playerID, err := s.controller.JoinGame(s.ctx, s.gameID, nil, "guest")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.LeaveGame(s.ctx, playerID))

	player, err := s.controller.GetPlayer(s.ctx, playerID)
	s.Require().NoError(err)
	s.False(player.IsActive)

	_, err = s.storage.GetEntryForPlayer(s.ctx, playerID)
	s.NoError(err)
}

func (s *ControllerSuite) TestLeaveGameTwiceIsANoOp() {
	playerID, err := s.controller.JoinGame(s.ctx, s.gameID, nil, "guest")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.LeaveGame(s.ctx, playerID))
	s.NoError(s.controller.LeaveGame(s.ctx, playerID))
}

func (s *ControllerSuite) TestLeaveGameUnknownPlayerFails() {
	err := s.controller.LeaveGame(s.ctx, "nope")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Query tests

func (s *ControllerSuite) TestGetGamePlayersJoinsUsers() {
	userID := model.UserID("user-7")
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{
		ID:       userID,
		Username: "alice",
	}))

	_, err := s.controller.JoinGame(s.ctx, s.gameID, &userID, "alice")
	s.Require().NoError(err)
	_, err = s.controller.JoinGame(s.ctx, s.gameID, nil, "guest")
	s.Require().NoError(err)

	players, err := s.controller.GetGamePlayers(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Require().Len(players, 2)

	s.Require().NotNil(players[0].User)
	s.Equal("alice", players[0].User.Username)
	s.Nil(players[1].User)
}

func (s *ControllerSuite) TestActivePlayerCountIgnoresLeavers() {
	first, err := s.controller.JoinGame(s.ctx, s.gameID, nil, "guest one")
	s.Require().NoError(err)
	_, err = s.controller.JoinGame(s.ctx, s.gameID, nil, "guest two")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.LeaveGame(s.ctx, first))

	count, err := s.controller.ActivePlayerCount(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Equal(1, count)
}
