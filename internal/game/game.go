// Package game defines the core domain types and rules of the
// photo-guessing game. It knows nothing about HTTP or storage.
package game

import (
	"errors"
	"time"

	"github.com/snapguess/photoquiz/internal/geo"
)

var (
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrImageNotFound is returned for an unknown image id.
	ErrImageNotFound = errors.New("image not found")
	// ErrSessionFinished rejects guesses against a completed session.
	ErrSessionFinished = errors.New("session finished")
	// ErrRoundAlreadyScored rejects a second guess for a round that has
	// one. Rounds are write-once; duplicate submissions must fail rather
	// than re-score.
	ErrRoundAlreadyScored = errors.New("round already scored")
	// ErrSessionNotFinished rejects leaderboard entries for sessions that
	// still have rounds to play.
	ErrSessionNotFinished = errors.New("session not finished")
	// ErrAlreadySubmitted marks a duplicate leaderboard submission for the
	// same session. Callers treat it as an idempotent no-op.
	ErrAlreadySubmitted = errors.New("leaderboard entry already submitted")
	// ErrCatalogExhausted means the image catalog has fewer distinct
	// images than a session needs.
	ErrCatalogExhausted = errors.New("image catalog exhausted")
)

// Image is a catalog entry: a published photo with its true location.
// Immutable once published.
type Image struct {
	ID          string
	RelativeURL string
	Title       string
	Subtitle    string
	IGLink      string
	Location    geo.Coordinate
}

// Session is one play-through of up to RoundLimit rounds.
type Session struct {
	ID           string
	ImageOrder   []string
	RoundLimit   int
	RoundsPlayed int
	TotalScore   int
	BonusTotal   int
	Finished     bool
	CreatedAt    time.Time
}

// CurrentImageID returns the image id of the pending round, or "" when the
// session is finished.
func (s Session) CurrentImageID() string {
	if s.Finished || s.RoundsPlayed >= len(s.ImageOrder) {
		return ""
	}
	return s.ImageOrder[s.RoundsPlayed]
}

// Round is a single scored guess inside a session. A round is created when
// the guess is scored; the pending round only exists as the session's
// current position in ImageOrder.
type Round struct {
	SessionID      string
	RoundNumber    int
	ImageID        string
	Guess          geo.Coordinate
	DistanceMeters float64
	Score          int
	Bonus          int
	CreatedAt      time.Time
}

// LeaderboardEntry is an immutable record of a finished session's score.
// The score is copied at submission time and never recomputed.
type LeaderboardEntry struct {
	Rank      int
	SessionID string
	Name      string
	Score     int
	CreatedAt time.Time
}

// GuessLog is an analytics record of a single guess, kept independently of
// round state.
type GuessLog struct {
	SessionID      string
	ImageID        string
	Guess          geo.Coordinate
	DistanceMeters float64
}
