package scoring

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/codeblind/codeblind-go/internal/dependencies/clock"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage"
)

// Typing-session scoring constants
const (
	// PowerModeThreshold is the continuous streak at which power mode activates
	PowerModeThreshold = 200
	// PowerModeFlatBonus is the submit-time bonus for having reached power mode
	PowerModeFlatBonus = 100
	// StreakTimeout is how long without an edit before the streak resets
	StreakTimeout = 10 * time.Second
	// SnapshotInterval is how often clients capture a progress snapshot
	SnapshotInterval = 15 * time.Second
)

// Score computes the typing-performance score from raw session metrics,
// with the power bonus accumulated per second spent in power mode.
func Score(keystrokeCount, maxStreak, powerModeSeconds int) int {
	return keystrokeCount + maxStreak*3/2 + powerModeSeconds*2
}

// SubmitScore computes the score used at submit time: the power bonus is a
// flat amount awarded once the max streak reached the activation threshold.
func SubmitScore(keystrokeCount, maxStreak int) int {
	bonus := 0
	if maxStreak >= PowerModeThreshold {
		bonus = PowerModeFlatBonus
	}
	return keystrokeCount + maxStreak*3/2 + bonus
}

// EntryWithPlayer is an entry joined with its player
type EntryWithPlayer struct {
	Entry  *model.Entry
	Player *model.Player
}

// Service records typing-performance metrics and replay snapshots for
// entries during the active phase. It does not re-check the game's status;
// callers gate on the phase.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new scoring Service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// UpdateEntry overwrites an entry's working HTML and keystroke count.
// MaxStreak only ever ratchets upward.
func (s *Service) UpdateEntry(ctx context.Context, entryID model.EntryID, html string, streak, keystrokeCount int) error {
	entry, err := s.storage.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	entry.HTML = html
	entry.TotalKeystrokes = keystrokeCount
	if streak > entry.MaxStreak {
		entry.MaxStreak = streak
	}

	return s.storage.SaveEntry(ctx, entry)
}

// SaveProgressSnapshot appends a point-in-time capture of an entry's state
// for replay. Snapshots are never deduplicated or reordered at write time.
func (s *Service) SaveProgressSnapshot(ctx context.Context, entryID model.EntryID, html string, streak int, powerMode bool, keystrokeCount int, timestampMs int64) error {
	if _, err := s.storage.GetEntry(ctx, entryID); err != nil {
		return err
	}

	return s.storage.AppendSnapshot(ctx, &model.ProgressSnapshot{
		ID:             model.SnapshotID(uuid.NewString()),
		EntryID:        entryID,
		HTML:           html,
		Streak:         streak,
		PowerMode:      powerMode,
		KeystrokeCount: keystrokeCount,
		TimestampMs:    timestampMs,
	})
}

// SubmitEntry finalizes an entry with the caller-supplied metrics. The
// submitted flag only ever transitions false to true; a repeat submit
// updates the metrics but never clears it.
func (s *Service) SubmitEntry(ctx context.Context, entryID model.EntryID, html string, totalScore, maxStreak, totalKeystrokes int) error {
	entry, err := s.storage.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	entry.HTML = html
	entry.TotalScore = totalScore
	entry.MaxStreak = maxStreak
	entry.TotalKeystrokes = totalKeystrokes
	if !entry.IsSubmitted {
		now := s.clock.Now()
		entry.IsSubmitted = true
		entry.SubmittedAt = &now
	}

	return s.storage.SaveEntry(ctx, entry)
}

// GetEntry retrieves an entry by ID
func (s *Service) GetEntry(ctx context.Context, entryID model.EntryID) (*model.Entry, error) {
	return s.storage.GetEntry(ctx, entryID)
}

// GetPlayerEntry retrieves a player's entry
func (s *Service) GetPlayerEntry(ctx context.Context, playerID model.PlayerID) (*model.Entry, error) {
	return s.storage.GetEntryForPlayer(ctx, playerID)
}

// GetGameEntries lists all entries for a game joined with their players
func (s *Service) GetGameEntries(ctx context.Context, gameID model.GameID) ([]EntryWithPlayer, error) {
	entries, err := s.storage.GetEntriesForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return s.withPlayers(ctx, entries)
}

// GetSubmittedEntries lists a game's submitted entries, highest score first
func (s *Service) GetSubmittedEntries(ctx context.Context, gameID model.GameID) ([]EntryWithPlayer, error) {
	entries, err := s.storage.GetEntriesForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	submitted := entries[:0:0]
	for _, entry := range entries {
		if entry.IsSubmitted {
			submitted = append(submitted, entry)
		}
	}
	sort.SliceStable(submitted, func(i, j int) bool {
		return submitted[i].TotalScore > submitted[j].TotalScore
	})

	return s.withPlayers(ctx, submitted)
}

// GetProgressSnapshots returns an entry's snapshots ordered by timestamp
func (s *Service) GetProgressSnapshots(ctx context.Context, entryID model.EntryID) ([]*model.ProgressSnapshot, error) {
	snapshots, err := s.storage.GetSnapshotsForEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].TimestampMs < snapshots[j].TimestampMs
	})
	return snapshots, nil
}

func (s *Service) withPlayers(ctx context.Context, entries []*model.Entry) ([]EntryWithPlayer, error) {
	result := make([]EntryWithPlayer, 0, len(entries))
	for _, entry := range entries {
		player, err := s.storage.GetPlayer(ctx, entry.PlayerID)
		if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
			return nil, err
		}
		result = append(result, EntryWithPlayer{Entry: entry, Player: player})
	}
	return result, nil
}
