package model

// VoteID uniquely identifies a vote
type VoteID string

// Vote score bounds
const (
	MinVoteScore = 1
	MaxVoteScore = 10
)

// Vote is a single judge's score for a single entry. At most one exists per
// (judge, game, entry), and within a judge's votes for a game at most one
// may have IsWinner set.
type Vote struct {
	ID       VoteID
	GameID   GameID
	EntryID  EntryID
	JudgeID  UserID
	Score    int // 1-10
	IsWinner bool
}

// LeaderboardRow is one entry's aggregated standing: typing score plus a
// weighted sum of judge votes.
type LeaderboardRow struct {
	Entry          *Entry
	Player         *Player
	Votes          []*Vote
	TotalVoteScore int
	IsWinner       bool
	CombinedScore  int
}

// WinnerPick is one judge's winner selection joined with its entry and player
type WinnerPick struct {
	Vote   *Vote
	Entry  *Entry
	Player *Player
}
