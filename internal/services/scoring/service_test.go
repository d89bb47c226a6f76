package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/codeblind/codeblind-go/internal/dependencies/mocks"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage/memory"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name             string
		keystrokes       int
		maxStreak        int
		powerModeSeconds int
		want             int
	}{
		{"zero metrics", 0, 0, 0, 0},
		{"keystrokes only", 100, 0, 0, 100},
		{"streak bonus floors", 0, 5, 0, 7},
		{"power mode seconds", 100, 0, 30, 160},
		{"all components", 500, 250, 10, 895},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.keystrokes, tt.maxStreak, tt.powerModeSeconds)
			if got != tt.want {
				t.Errorf("Score(%d, %d, %d) = %d, want %d",
					tt.keystrokes, tt.maxStreak, tt.powerModeSeconds, got, tt.want)
			}
		})
	}
}

func TestSubmitScore(t *testing.T) {
	tests := []struct {
		name       string
		keystrokes int
		maxStreak  int
		want       int
	}{
		{"no power bonus below threshold", 500, 199, 500 + 298},
		{"flat bonus at threshold", 500, 200, 500 + 300 + 100},
		{"flat bonus above threshold", 500, 250, 975},
		{"bonus is flat not scaling", 500, 1000, 500 + 1500 + 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubmitScore(tt.keystrokes, tt.maxStreak); got != tt.want {
				t.Errorf("SubmitScore(%d, %d) = %d, want %d",
					tt.keystrokes, tt.maxStreak, got, tt.want)
			}
		})
	}
}

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
	entryID model.EntryID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock)
	s.ctx = context.Background()

	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "player-1", GameID: "game-1", Handle: "alice", IsActive: true,
	}))
	s.entryID = "entry-1"
	s.Require().NoError(s.storage.SaveEntry(s.ctx, &model.Entry{
		ID:        s.entryID,
		GameID:    "game-1",
		PlayerID:  "player-1",
		CreatedAt: s.clock.Now(),
	}))
}

// UpdateEntry tests

func (s *ServiceSuite) TestUpdateEntryStoresProgress() {
	s.Require().NoError(s.service.UpdateEntry(s.ctx, s.entryID, "<div>wip</div>", 40, 120))

	entry, err := s.service.GetEntry(s.ctx, s.entryID)
	s.Require().NoError(err)
	s.Equal("<div>wip</div>", entry.HTML)
	s.Equal(40, entry.MaxStreak)
	s.Equal(120, entry.TotalKeystrokes)
	s.False(entry.IsSubmitted)
}

func (s *ServiceSuite) TestMaxStreakOnlyRatchetsUp() {
	s.Require().NoError(s.service.UpdateEntry(s.ctx, s.entryID, "a", 80, 100))
	s.Require().NoError(s.service.UpdateEntry(s.ctx, s.entryID, "ab", 20, 150))

	entry, err := s.service.GetEntry(s.ctx, s.entryID)
	s.Require().NoError(err)
	s.Equal(80, entry.MaxStreak)
	s.Equal(150, entry.TotalKeystrokes)
}

func (s *ServiceSuite) TestUpdateEntryUnknownEntryFails() {
	err := s.service.UpdateEntry(s.ctx, "nope", "x", 1, 1)
	s.ErrorIs(err, model.ErrEntryNotFound)
}

// SubmitEntry tests

func (s *ServiceSuite) TestSubmitEntryFinalizesMetrics() {
	s.Require().NoError(s.service.SubmitEntry(s.ctx, s.entryID, "<div>done</div>", 975, 250, 500))

	entry, err := s.service.GetEntry(s.ctx, s.entryID)
	s.Require().NoError(err)
	s.True(entry.IsSubmitted)
	s.Require().NotNil(entry.SubmittedAt)
	s.Equal(s.clock.Now(), *entry.SubmittedAt)
	s.Equal(975, entry.TotalScore)
	s.Equal(250, entry.MaxStreak)
}

func (s *ServiceSuite) TestRepeatSubmitKeepsOriginalTimestamp() {
	s.Require().NoError(s.service.SubmitEntry(s.ctx, s.entryID, "v1", 100, 10, 50))
	firstSubmit := s.clock.Now()

	s.clock.Advance(time.Minute)
	s.Require().NoError(s.service.SubmitEntry(s.ctx, s.entryID, "v2", 200, 20, 80))

	entry, err := s.service.GetEntry(s.ctx, s.entryID)
	s.Require().NoError(err)
	s.True(entry.IsSubmitted)
	s.Equal(firstSubmit, *entry.SubmittedAt)
	s.Equal(200, entry.TotalScore)
}

// Snapshot tests

func (s *ServiceSuite) TestSnapshotsAreAppendedAndSorted() {
	s.Require().NoError(s.service.SaveProgressSnapshot(s.ctx, s.entryID, "late", 10, false, 40, 30000))
	s.Require().NoError(s.service.SaveProgressSnapshot(s.ctx, s.entryID, "early", 5, false, 20, 15000))
	s.Require().NoError(s.service.SaveProgressSnapshot(s.ctx, s.entryID, "power", 210, true, 300, 45000))

	snapshots, err := s.service.GetProgressSnapshots(s.ctx, s.entryID)
	s.Require().NoError(err)
	s.Require().Len(snapshots, 3)
	s.Equal("early", snapshots[0].HTML)
	s.Equal("late", snapshots[1].HTML)
	s.Equal("power", snapshots[2].HTML)
	s.True(snapshots[2].PowerMode)
}

func (s *ServiceSuite) TestDuplicateSnapshotsAreKept() {
	s.Require().NoError(s.service.SaveProgressSnapshot(s.ctx, s.entryID, "same", 10, false, 40, 15000))
	s.Require().NoError(s.service.SaveProgressSnapshot(s.ctx, s.entryID, "same", 10, false, 40, 15000))

	snapshots, err := s.service.GetProgressSnapshots(s.ctx, s.entryID)
	s.Require().NoError(err)
	s.Len(snapshots, 2)
}

func (s *ServiceSuite) TestSnapshotRequiresEntry() {
	err := s.service.SaveProgressSnapshot(s.ctx, "nope", "x", 1, false, 1, 0)
	s.ErrorIs(err, model.ErrEntryNotFound)
}

// Query tests

func (s *ServiceSuite) TestGetSubmittedEntriesSortsByScore() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "player-2", GameID: "game-1", Handle: "bob", IsActive: true,
	}))
	s.Require().NoError(s.storage.SaveEntry(s.ctx, &model.Entry{
		ID: "entry-2", GameID: "game-1", PlayerID: "player-2",
	}))

	s.Require().NoError(s.service.SubmitEntry(s.ctx, "entry-2", "b", 600, 100, 400))
	s.Require().NoError(s.service.SubmitEntry(s.ctx, s.entryID, "a", 975, 250, 500))

	// A third entry that never submits stays out of the list
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "player-3", GameID: "game-1", Handle: "carol", IsActive: true,
	}))
	s.Require().NoError(s.storage.SaveEntry(s.ctx, &model.Entry{
		ID: "entry-3", GameID: "game-1", PlayerID: "player-3",
	}))

	entries, err := s.service.GetSubmittedEntries(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.EntryID("entry-1"), entries[0].Entry.ID)
	s.Equal("alice", entries[0].Player.Handle)
	s.Equal(model.EntryID("entry-2"), entries[1].Entry.ID)
}

func (s *ServiceSuite) TestGetPlayerEntry() {
	entry, err := s.service.GetPlayerEntry(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(s.entryID, entry.ID)
}
