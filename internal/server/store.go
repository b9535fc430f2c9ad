package server

import (
	"context"
	"time"

	"github.com/snapguess/photoquiz/internal/game"
)

// Store is the persistence boundary for sessions, rounds, the image
// catalog, and the leaderboard. The SQLite implementation is the default;
// any implementation must keep rounds write-once and leaderboard entries
// unique per session under concurrent access.
type Store interface {
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Catalog.
	ListImages(ctx context.Context) ([]game.Image, error)
	GetImage(ctx context.Context, id string) (game.Image, error)
	InsertImage(ctx context.Context, img game.Image) error
	CountImages(ctx context.Context) (int, error)

	// Sessions and rounds.
	CreateSession(ctx context.Context, imageOrder []string, roundLimit int) (game.Session, error)
	GetSession(ctx context.Context, id string) (game.Session, error)
	SessionRounds(ctx context.Context, sessionID string) ([]game.Round, error)
	// AppendRound persists a scored round and folds it into the session
	// totals in one transaction. It fails with game.ErrRoundAlreadyScored
	// when the round number is already taken, and never re-scores.
	AppendRound(ctx context.Context, r game.Round) (game.Session, error)
	DeleteExpiredSessions(ctx context.Context, olderThan time.Duration) (int64, error)

	// Guess analytics.
	RecordGuess(ctx context.Context, g game.GuessLog) error

	// Leaderboard.
	AddLeaderboardEntry(ctx context.Context, sessionID, name string) error
	ListLeaderboard(ctx context.Context, limit int) ([]game.LeaderboardEntry, error)
	Placement(ctx context.Context, score int) (int, error)
}
