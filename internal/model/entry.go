package model

import "time"

// EntryID uniquely identifies an entry
type EntryID string

// Entry is a single player's submission artifact and its scoring state.
// Exactly one exists per player, created when the player joins.
type Entry struct {
	ID       EntryID
	GameID   GameID
	PlayerID PlayerID

	HTML            string
	IsSubmitted     bool
	SubmittedAt     *time.Time
	TotalScore      int
	MaxStreak       int
	TotalKeystrokes int

	CreatedAt time.Time
}

// SnapshotID uniquely identifies a progress snapshot
type SnapshotID string

// ProgressSnapshot is an immutable point-in-time capture of an entry's
// editing state, used only for replay. Snapshots are append-only and
// consumers sort by TimestampMs.
type ProgressSnapshot struct {
	ID             SnapshotID
	EntryID        EntryID
	HTML           string
	Streak         int
	PowerMode      bool
	KeystrokeCount int
	TimestampMs    int64 // Relative to game start
}
