package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snapguess/photoquiz/internal/game"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) ListImages(ctx context.Context) ([]game.Image, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, relative_url, COALESCE(title, ''), COALESCE(subtitle, ''), COALESCE(ig_link, ''), lat, lng
		FROM images
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []game.Image
	for rows.Next() {
		var img game.Image
		if err := rows.Scan(&img.ID, &img.RelativeURL, &img.Title, &img.Subtitle, &img.IGLink, &img.Location.Lat, &img.Location.Lng); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *SQLiteStore) GetImage(ctx context.Context, id string) (game.Image, error) {
	var img game.Image
	err := s.db.QueryRowContext(ctx, `
		SELECT id, relative_url, COALESCE(title, ''), COALESCE(subtitle, ''), COALESCE(ig_link, ''), lat, lng
		FROM images WHERE id = ?
	`, id).Scan(&img.ID, &img.RelativeURL, &img.Title, &img.Subtitle, &img.IGLink, &img.Location.Lat, &img.Location.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return img, game.ErrImageNotFound
	}
	return img, err
}

func (s *SQLiteStore) InsertImage(ctx context.Context, img game.Image) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (id, relative_url, title, subtitle, ig_link, lat, lng)
		VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, ?)
	`, img.ID, img.RelativeURL, img.Title, img.Subtitle, img.IGLink, img.Location.Lat, img.Location.Lng)
	return err
}

func (s *SQLiteStore) CountImages(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) CreateSession(ctx context.Context, imageOrder []string, roundLimit int) (game.Session, error) {
	sess := game.Session{
		ImageOrder: imageOrder,
		RoundLimit: roundLimit,
	}
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sessions (id, image_order, round_limit)
		VALUES (lower(hex(randomblob(16))), ?, ?)
		RETURNING id, created_at
	`, strings.Join(imageOrder, ","), roundLimit).Scan(&sess.ID, &createdAt)
	if err != nil {
		return game.Session{}, err
	}
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return game.Session{}, err
	}
	return sess, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (game.Session, error) {
	var sess game.Session
	var order, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, image_order, round_limit, total_score, bonus_total, finished, created_at,
			(SELECT COUNT(*) FROM rounds WHERE session_id = sessions.id)
		FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &order, &sess.RoundLimit, &sess.TotalScore, &sess.BonusTotal,
		&sess.Finished, &createdAt, &sess.RoundsPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, game.ErrSessionNotFound
	}
	if err != nil {
		return sess, err
	}
	sess.ImageOrder = splitOrder(order)
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return game.Session{}, err
	}
	return sess, nil
}

func (s *SQLiteStore) SessionRounds(ctx context.Context, sessionID string) ([]game.Round, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, round_number, image_id, guess_lat, guess_lng, distance_meters, score, bonus, created_at
		FROM rounds
		WHERE session_id = ?
		ORDER BY round_number
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []game.Round
	for rows.Next() {
		var r game.Round
		var createdAt string
		if err := rows.Scan(&r.SessionID, &r.RoundNumber, &r.ImageID, &r.Guess.Lat, &r.Guess.Lng,
			&r.DistanceMeters, &r.Score, &r.Bonus, &createdAt); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// AppendRound inserts a scored round and folds it into the session totals
// atomically. The rounds primary key rejects a duplicate round number, so
// of two racing submissions exactly one commits; the loser sees
// game.ErrRoundAlreadyScored.
func (s *SQLiteStore) AppendRound(ctx context.Context, r game.Round) (game.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return game.Session{}, err
	}
	defer tx.Rollback()

	var roundLimit int
	var finished bool
	err = tx.QueryRowContext(ctx, `
		SELECT round_limit, finished FROM sessions WHERE id = ?
	`, r.SessionID).Scan(&roundLimit, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Session{}, game.ErrSessionNotFound
	}
	if err != nil {
		return game.Session{}, err
	}
	if finished || r.RoundNumber > roundLimit {
		return game.Session{}, game.ErrSessionFinished
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rounds (session_id, round_number, image_id, guess_lat, guess_lng, distance_meters, score, bonus)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.SessionID, r.RoundNumber, r.ImageID, r.Guess.Lat, r.Guess.Lng, r.DistanceMeters, r.Score, r.Bonus)
	if isUniqueViolation(err) {
		return game.Session{}, game.ErrRoundAlreadyScored
	}
	if err != nil {
		return game.Session{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sessions
		SET total_score = total_score + ?,
			bonus_total = bonus_total + ?,
			finished = CASE WHEN ? >= round_limit THEN 1 ELSE finished END
		WHERE id = ?
	`, r.Score, r.Bonus, r.RoundNumber, r.SessionID)
	if err != nil {
		return game.Session{}, err
	}

	var sess game.Session
	var order, createdAt string
	err = tx.QueryRowContext(ctx, `
		SELECT id, image_order, round_limit, total_score, bonus_total, finished, created_at,
			(SELECT COUNT(*) FROM rounds WHERE session_id = sessions.id)
		FROM sessions WHERE id = ?
	`, r.SessionID).Scan(&sess.ID, &order, &sess.RoundLimit, &sess.TotalScore, &sess.BonusTotal,
		&sess.Finished, &createdAt, &sess.RoundsPlayed)
	if err != nil {
		return game.Session{}, err
	}
	sess.ImageOrder = splitOrder(order)
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return game.Session{}, err
	}

	if err := tx.Commit(); err != nil {
		return game.Session{}, err
	}
	return sess, nil
}

func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	modifier := fmt.Sprintf("-%d seconds", int64(olderThan.Seconds()))
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE created_at < strftime('%Y-%m-%dT%H:%M:%fZ', 'now', ?)
	`, modifier)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *SQLiteStore) RecordGuess(ctx context.Context, g game.GuessLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guess_logs (session_id, image_id, guess_lat, guess_lng, distance_meters)
		VALUES (NULLIF(?, ''), ?, ?, ?, ?)
	`, g.SessionID, g.ImageID, g.Guess.Lat, g.Guess.Lng, g.DistanceMeters)
	return err
}

func (s *SQLiteStore) AddLeaderboardEntry(ctx context.Context, sessionID, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var score int
	var finished bool
	err = tx.QueryRowContext(ctx, `
		SELECT total_score, finished FROM sessions WHERE id = ?
	`, sessionID).Scan(&score, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return game.ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if !finished {
		return game.ErrSessionNotFinished
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO leaderboard_entries (session_id, name, score)
		VALUES (?, ?, ?)
	`, sessionID, name, score)
	if isUniqueViolation(err) {
		return game.ErrAlreadySubmitted
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListLeaderboard(ctx context.Context, limit int) ([]game.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, name, score, created_at
		FROM leaderboard_entries
		ORDER BY score DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []game.LeaderboardEntry{}
	for rows.Next() {
		var e game.LeaderboardEntry
		var createdAt string
		if err := rows.Scan(&e.SessionID, &e.Name, &e.Score, &createdAt); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Placement(ctx context.Context, score int) (int, error) {
	var rank int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) + 1 FROM leaderboard_entries WHERE score > ?
	`, score).Scan(&rank)
	return rank, err
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The libsql driver surfaces constraint errors as plain strings,
// so this matches on the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

func splitOrder(order string) []string {
	var ids []string
	for _, id := range strings.Split(order, ",") {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
