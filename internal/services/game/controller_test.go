package game

import (
	"context"
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
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

const creatorID = model.UserID("user-1")

func (s *ControllerSuite) createGame(code string) *model.Game {
	s.random.QueueString(code)
	game, err := s.controller.CreateGame(s.ctx, creatorID, CreateParams{
		Title:             "Landing page",
		ReferenceImageURL: "https://assets.example.com/ref.png",
	})
	s.Require().NoError(err)
	return game
}

func (s *ControllerSuite) advanceTo(game *model.Game, status model.GameStatus) {
	if status == model.GameStatusDraft {
		return
	}
	s.Require().NoError(s.controller.OpenLobby(s.ctx, game.ID, creatorID))
	if status == model.GameStatusLobby {
		return
	}
	s.Require().NoError(s.controller.StartGame(s.ctx, game.ID, creatorID))
	if status == model.GameStatusActive {
		return
	}
	s.Require().NoError(s.controller.EndGame(s.ctx, game.ID, creatorID))
	if status == model.GameStatusVoting {
		return
	}
	s.Require().NoError(s.controller.FinishGame(s.ctx, game.ID, creatorID))
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameSucceeds() {
	game := s.createGame("abc123")

	s.Equal(model.GameStatusDraft, game.Status)
	s.Equal("abc123", game.ShortCode)
	s.Equal(creatorID, game.CreatorID)
	s.Equal(model.DefaultDurationMinutes, game.DurationMinutes)
	s.Nil(game.StartedAt)
	s.Equal(s.clock.Now(), game.CreatedAt)
}

func (s *ControllerSuite) TestCreateGameRequiresTitle() {
	_, err := s.controller.CreateGame(s.ctx, creatorID, CreateParams{})
	s.ErrorIs(err, model.ErrMissingTitle)
}

func (s *ControllerSuite) TestCreateGameRetriesOnShortCodeCollision() {
	s.createGame("abc123")

	s.random.QueueString("abc123", "xyz789")
	game, err := s.controller.CreateGame(s.ctx, creatorID, CreateParams{Title: "Second"})
	s.Require().NoError(err)
	s.Equal("xyz789", game.ShortCode)
}

func (s *ControllerSuite) TestCreateGameIsRetrievableByShortCode() {
	game := s.createGame("abc123")

	retrieved, err := s.controller.GetGameByShortCode(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
}

// Lifecycle tests

func (s *ControllerSuite) TestLifecycleHappyPath() {
	game := s.createGame("abc123")

	s.Require().NoError(s.controller.OpenLobby(s.ctx, game.ID, creatorID))
	s.Require().NoError(s.controller.StartGame(s.ctx, game.ID, creatorID))

	active, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusActive, active.Status)
	s.Require().NotNil(active.StartedAt)
	s.Equal(s.clock.Now(), *active.StartedAt)

	s.Require().NoError(s.controller.EndGame(s.ctx, game.ID, creatorID))
	s.Require().NoError(s.controller.FinishGame(s.ctx, game.ID, creatorID))

	finished, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusFinished, finished.Status)
	s.NotNil(finished.EndedAt)
}

func (s *ControllerSuite) TestStartGameFromDraftFails() {
	game := s.createGame("abc123")

	err := s.controller.StartGame(s.ctx, game.ID, creatorID)
	s.ErrorIs(err, model.ErrInvalidStateTransition)

	unchanged, getErr := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(getErr)
	s.Equal(model.GameStatusDraft, unchanged.Status)
	s.Nil(unchanged.StartedAt)
}

func (s *ControllerSuite) TestEndGameFromLobbyFails() {
	game := s.createGame("abc123")
	s.advanceTo(game, model.GameStatusLobby)

	err := s.controller.EndGame(s.ctx, game.ID, creatorID)
	s.ErrorIs(err, model.ErrInvalidStateTransition)
}

func (s *ControllerSuite) TestLifecycleRejectsNonCreator() {
	game := s.createGame("abc123")

	err := s.controller.OpenLobby(s.ctx, game.ID, model.UserID("someone-else"))
	s.ErrorIs(err, model.ErrNotCreator)
}

func (s *ControllerSuite) TestEndGameForceSubmitsUnsubmittedEntries() {
	game := s.createGame("abc123")
	s.advanceTo(game, model.GameStatusActive)

	entry := &model.Entry{
		ID:              "entry-1",
		GameID:          game.ID,
		PlayerID:        "player-1",
		MaxStreak:       80,
		TotalKeystrokes: 300,
		CreatedAt:       s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveEntry(s.ctx, entry))

	s.Require().NoError(s.controller.EndGame(s.ctx, game.ID, creatorID))

	forced, err := s.storage.GetEntry(s.ctx, entry.ID)
	s.Require().NoError(err)
	s.True(forced.IsSubmitted)
	s.Require().NotNil(forced.SubmittedAt)
	s.Equal(0, forced.TotalScore)
	s.Equal(300, forced.TotalKeystrokes)
}

func (s *ControllerSuite) TestEndGameLeavesSubmittedEntriesAlone() {
	game := s.createGame("abc123")
	s.advanceTo(game, model.GameStatusActive)

	submittedAt := s.clock.Now()
	entry := &model.Entry{
		ID:          "entry-1",
		GameID:      game.ID,
		PlayerID:    "player-1",
		IsSubmitted: true,
		SubmittedAt: &submittedAt,
		TotalScore:  975,
	}
	s.Require().NoError(s.storage.SaveEntry(s.ctx, entry))

	s.clock.Advance(time.Minute)
	s.Require().NoError(s.controller.EndGame(s.ctx, game.ID, creatorID))

	kept, err := s.storage.GetEntry(s.ctx, entry.ID)
	s.Require().NoError(err)
	s.Equal(975, kept.TotalScore)
	s.Equal(submittedAt, *kept.SubmittedAt)
}

func (s *ControllerSuite) TestTimeRemainingCountsDownFromStart() {
	game := s.createGame("abc123")
	s.advanceTo(game, model.GameStatusActive)

	game, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)

	s.clock.Advance(5 * time.Minute)
	s.Equal(10*time.Minute, game.TimeRemaining(s.clock.Now()))

	s.clock.Advance(11 * time.Minute)
	s.Negative(int64(game.TimeRemaining(s.clock.Now())))
}

// ResetGame tests

func (s *ControllerSuite) TestResetGameReturnsToLobby() {
	game := s.createGame("abc123")
	s.advanceTo(game, model.GameStatusFinished)

	s.Require().NoError(s.controller.ResetGame(s.ctx, game.ID, creatorID))

	reset, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusLobby, reset.Status)
	s.Nil(reset.StartedAt)
	s.Nil(reset.EndedAt)
}

func (s *ControllerSuite) TestResetGameDeletesParticipantData() {
	game := s.createGame("abc123")
	s.advanceTo(game, model.GameStatusActive)

	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "player-1", GameID: game.ID, Handle: "alice", IsActive: true,
	}))
	s.Require().NoError(s.storage.SaveEntry(s.ctx, &model.Entry{
		ID: "entry-1", GameID: game.ID, PlayerID: "player-1",
	}))
	s.Require().NoError(s.storage.AppendSnapshot(s.ctx, &model.ProgressSnapshot{
		ID: "snap-1", EntryID: "entry-1",
	}))
	s.Require().NoError(s.storage.SaveVote(s.ctx, &model.Vote{
		ID: "vote-1", GameID: game.ID, EntryID: "entry-1", JudgeID: creatorID, Score: 5,
	}))

	s.Require().NoError(s.controller.ResetGame(s.ctx, game.ID, creatorID))

	_, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetEntry(s.ctx, "entry-1")
	s.ErrorIs(err, model.ErrEntryNotFound)
	snapshots, err := s.storage.GetSnapshotsForEntry(s.ctx, "entry-1")
	s.Require().NoError(err)
	s.Empty(snapshots)
	votes, err := s.storage.GetVotesForGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Empty(votes)
}

func (s *ControllerSuite) TestResetGameFromDraftFails() {
	game := s.createGame("abc123")

	err := s.controller.ResetGame(s.ctx, game.ID, creatorID)
	s.ErrorIs(err, model.ErrInvalidStateTransition)
}

// DeleteGame tests

func (s *ControllerSuite) TestDeleteGameReturnsOrphanedURLs() {
	game := s.createGame("abc123")
	s.Require().NoError(s.storage.SaveAsset(s.ctx, &model.Asset{
		ID: "asset-1", GameID: game.ID, ShortCode: "a1b2",
		URL: "https://assets.example.com/logo.svg", Type: model.AssetTypeImage,
	}))

	urls, err := s.controller.DeleteGame(s.ctx, game.ID, creatorID)
	s.Require().NoError(err)
	s.ElementsMatch([]string{
		"https://assets.example.com/logo.svg",
		"https://assets.example.com/ref.png",
	}, urls)

	_, err = s.controller.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.controller.GetGameByShortCode(s.ctx, "abc123")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestDeleteGameRejectsNonCreator() {
	game := s.createGame("abc123")

	_, err := s.controller.DeleteGame(s.ctx, game.ID, model.UserID("someone-else"))
	s.ErrorIs(err, model.ErrNotCreator)
}

// UpdateGame tests

func (s *ControllerSuite) TestUpdateGameAppliesPatch() {
	game := s.createGame("abc123")

	title := "New title"
	duration := 30
	updated, err := s.controller.UpdateGame(s.ctx, game.ID, creatorID, model.GamePatch{
		Title:           &title,
		DurationMinutes: &duration,
	})
	s.Require().NoError(err)
	s.Equal("New title", updated.Title)
	s.Equal(30, updated.DurationMinutes)
	s.Equal("https://assets.example.com/ref.png", updated.ReferenceImageURL)
}

func (s *ControllerSuite) TestUpdateGameRejectsEmptyTitle() {
	game := s.createGame("abc123")

	title := ""
	_, err := s.controller.UpdateGame(s.ctx, game.ID, creatorID, model.GamePatch{Title: &title})
	s.ErrorIs(err, model.ErrMissingTitle)
}

func (s *ControllerSuite) TestUpdateGameRejectedOnceActive() {
	game := s.createGame("abc123")
	s.advanceTo(game, model.GameStatusActive)

	title := "Too late"
	_, err := s.controller.UpdateGame(s.ctx, game.ID, creatorID, model.GamePatch{Title: &title})
	s.ErrorIs(err, model.ErrGameNotEditable)
}

// Query tests

func (s *ControllerSuite) TestGetGamesByCreator() {
	s.createGame("abc123")
	s.createGame("def456")
	s.random.QueueString("ghi789")
	_, err := s.controller.CreateGame(s.ctx, model.UserID("user-2"), CreateParams{Title: "Other"})
	s.Require().NoError(err)

	games, err := s.controller.GetGamesByCreator(s.ctx, creatorID)
	s.Require().NoError(err)
	s.Len(games, 2)
}

func (s *ControllerSuite) TestGetActiveGames() {
	first := s.createGame("abc123")
	s.advanceTo(first, model.GameStatusActive)
	s.createGame("def456")

	active, err := s.controller.GetActiveGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(first.ID, active[0].ID)
}
