package voting

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage"
)

// Leaderboard weighting: each judge point is worth this many typing points
const voteScoreWeight = 10

// Controller authorizes judges, records votes and winner picks, and
// aggregates them into the combined leaderboard.
type Controller struct {
	storage storage.Storage
	logger  *slog.Logger

	// mu serializes vote writes: both the upsert in CastVote and the
	// clear-then-set in SelectWinner read a judge's votes and write them
	// back, and interleaving those sequences can leave a judge with a
	// duplicate vote or more than one winner.
	mu sync.Mutex
}

// NewController creates a new voting Controller
func NewController(storage storage.Storage, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		logger:  logger,
	}
}

// CanVote reports whether a user may vote on a game: the creator always
// can; anyone else needs an active vote token claimed by them. Every
// voting mutation re-checks this server side.
func (c *Controller) CanVote(ctx context.Context, gameID model.GameID, userID model.UserID) (bool, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return false, nil
		}
		return false, err
	}

	if game.CreatorID == userID {
		return true, nil
	}

	tokens, err := c.storage.GetVoteTokensForGame(ctx, gameID)
	if err != nil {
		return false, err
	}
	for _, token := range tokens {
		if token.IsActive && token.UsedBy != nil && *token.UsedBy == userID {
			return true, nil
		}
	}
	return false, nil
}

// CastVote records or updates a judge's score for an entry
func (c *Controller) CastVote(ctx context.Context, gameID model.GameID, entryID model.EntryID, judgeID model.UserID, score int) (*model.Vote, error) {
	if score < model.MinVoteScore || score > model.MaxVoteScore {
		return nil, model.ErrInvalidVoteScore
	}

	canVote, err := c.CanVote(ctx, gameID, judgeID)
	if err != nil {
		return nil, err
	}
	if !canVote {
		return nil, model.ErrNotAuthorizedToVote
	}

	if _, err := c.storage.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Update in place if this judge already voted for this entry
	existing, err := c.findJudgeVote(ctx, judgeID, gameID, entryID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Score = score
		if err := c.storage.SaveVote(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	vote := &model.Vote{
		ID:      model.VoteID(uuid.NewString()),
		GameID:  gameID,
		EntryID: entryID,
		JudgeID: judgeID,
		Score:   score,
	}
	if err := c.storage.SaveVote(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

// SelectWinner marks an entry as a judge's winner pick. Any prior pick by
// the same judge is cleared first, so a judge never has more than one
// winner at a time; the clear and the set run as one locked sequence. A
// pick for an entry the judge never scored creates a vote at the maximum
// score.
func (c *Controller) SelectWinner(ctx context.Context, gameID model.GameID, entryID model.EntryID, judgeID model.UserID) (*model.Vote, error) {
	canVote, err := c.CanVote(ctx, gameID, judgeID)
	if err != nil {
		return nil, err
	}
	if !canVote {
		return nil, model.ErrNotAuthorizedToVote
	}

	if _, err := c.storage.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	judgeVotes, err := c.storage.GetVotesByJudgeAndGame(ctx, judgeID, gameID)
	if err != nil {
		return nil, err
	}
	for _, vote := range judgeVotes {
		if vote.IsWinner && vote.EntryID != entryID {
			vote.IsWinner = false
			if err := c.storage.SaveVote(ctx, vote); err != nil {
				return nil, err
			}
		}
	}

	for _, vote := range judgeVotes {
		if vote.EntryID == entryID {
			vote.IsWinner = true
			if err := c.storage.SaveVote(ctx, vote); err != nil {
				return nil, err
			}
			return vote, nil
		}
	}

	vote := &model.Vote{
		ID:       model.VoteID(uuid.NewString()),
		GameID:   gameID,
		EntryID:  entryID,
		JudgeID:  judgeID,
		Score:    model.MaxVoteScore,
		IsWinner: true,
	}
	if err := c.storage.SaveVote(ctx, vote); err != nil {
		return nil, err
	}

	c.logger.Info("winner selected",
		slog.String("game_id", string(gameID)),
		slog.String("entry_id", string(entryID)),
		slog.String("judge_id", string(judgeID)),
	)
	return vote, nil
}

// GetGameVotes lists every vote for a game
func (c *Controller) GetGameVotes(ctx context.Context, gameID model.GameID) ([]*model.Vote, error) {
	return c.storage.GetVotesForGame(ctx, gameID)
}

// GetEntryVotes lists every vote for an entry
func (c *Controller) GetEntryVotes(ctx context.Context, entryID model.EntryID) ([]*model.Vote, error) {
	return c.storage.GetVotesForEntry(ctx, entryID)
}

// GetJudgeVotes lists one judge's votes for a game
func (c *Controller) GetJudgeVotes(ctx context.Context, judgeID model.UserID, gameID model.GameID) ([]*model.Vote, error) {
	return c.storage.GetVotesByJudgeAndGame(ctx, judgeID, gameID)
}

// GetLeaderboard aggregates every entry (submitted or not) into a ranking
// by combined score. Ties break by entry creation time, then entry ID, so
// the order is deterministic.
func (c *Controller) GetLeaderboard(ctx context.Context, gameID model.GameID) ([]model.LeaderboardRow, error) {
	entries, err := c.storage.GetEntriesForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	rows := make([]model.LeaderboardRow, 0, len(entries))
	for _, entry := range entries {
		player, err := c.storage.GetPlayer(ctx, entry.PlayerID)
		if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
			return nil, err
		}

		votes, err := c.storage.GetVotesForEntry(ctx, entry.ID)
		if err != nil {
			return nil, err
		}

		totalVoteScore := 0
		isWinner := false
		for _, vote := range votes {
			totalVoteScore += vote.Score
			if vote.IsWinner {
				isWinner = true
			}
		}

		rows = append(rows, model.LeaderboardRow{
			Entry:          entry,
			Player:         player,
			Votes:          votes,
			TotalVoteScore: totalVoteScore,
			IsWinner:       isWinner,
			CombinedScore:  entry.TotalScore + totalVoteScore*voteScoreWeight,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CombinedScore != rows[j].CombinedScore {
			return rows[i].CombinedScore > rows[j].CombinedScore
		}
		if !rows[i].Entry.CreatedAt.Equal(rows[j].Entry.CreatedAt) {
			return rows[i].Entry.CreatedAt.Before(rows[j].Entry.CreatedAt)
		}
		return rows[i].Entry.ID < rows[j].Entry.ID
	})

	return rows, nil
}

// GetWinners returns every judge's winner pick joined with its entry and
// player. This is the multi-winner view, distinct from the top of the
// leaderboard.
func (c *Controller) GetWinners(ctx context.Context, gameID model.GameID) ([]model.WinnerPick, error) {
	votes, err := c.storage.GetVotesForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var winners []model.WinnerPick
	for _, vote := range votes {
		if !vote.IsWinner {
			continue
		}
		entry, err := c.storage.GetEntry(ctx, vote.EntryID)
		if err != nil {
			if errors.Is(err, model.ErrEntryNotFound) {
				continue
			}
			return nil, err
		}
		player, err := c.storage.GetPlayer(ctx, entry.PlayerID)
		if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
			return nil, err
		}
		winners = append(winners, model.WinnerPick{Vote: vote, Entry: entry, Player: player})
	}
	return winners, nil
}

// findJudgeVote returns a judge's existing vote for an entry, or nil
func (c *Controller) findJudgeVote(ctx context.Context, judgeID model.UserID, gameID model.GameID, entryID model.EntryID) (*model.Vote, error) {
	votes, err := c.storage.GetVotesByJudgeAndGame(ctx, judgeID, gameID)
	if err != nil {
		return nil, err
	}
	for _, vote := range votes {
		if vote.EntryID == entryID {
			return vote, nil
		}
	}
	return nil, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CanVote(ctx context.Context, gameID model.GameID, userID model.UserID) (bool, error)
	CastVote(ctx context.Context, gameID model.GameID, entryID model.EntryID, judgeID model.UserID, score int) (*model.Vote, error)
	SelectWinner(ctx context.Context, gameID model.GameID, entryID model.EntryID, judgeID model.UserID) (*model.Vote, error)
	GetGameVotes(ctx context.Context, gameID model.GameID) ([]*model.Vote, error)
	GetEntryVotes(ctx context.Context, entryID model.EntryID) ([]*model.Vote, error)
	GetJudgeVotes(ctx context.Context, judgeID model.UserID, gameID model.GameID) ([]*model.Vote, error)
	GetLeaderboard(ctx context.Context, gameID model.GameID) ([]model.LeaderboardRow, error)
	GetWinners(ctx context.Context, gameID model.GameID) ([]model.WinnerPick, error)
}

var _ ControllerInterface = (*Controller)(nil)
