// ABOUTME: Score history storage operations for SQLite
// ABOUTME: Includes the legacy per-day recommendation write-through field
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/tracewell/tracewell/internal/models"
)

// ScoreStore handles score history persistence
type ScoreStore struct {
	db *DB
}

// NewScoreStore creates a new ScoreStore
func NewScoreStore(db *DB) *ScoreStore {
	return &ScoreStore{db: db}
}

// Save inserts or updates a score row
func (s *ScoreStore) Save(row *models.ScoreRow) error {
	_, err := s.db.Exec(`
		INSERT INTO score_history (user_id, date, score, recommendation)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			score = excluded.score,
			recommendation = excluded.recommendation
	`, row.UserID, row.Date, row.Score, row.Recommendation)
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

// ListRecent returns a user's most recent score rows, newest first
func (s *ScoreStore) ListRecent(userID string, limit int) ([]models.ScoreRow, error) {
	rows, err := s.db.Query(`
		SELECT user_id, date, score, COALESCE(recommendation, '')
		FROM score_history
		WHERE user_id = ?
		ORDER BY date DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scores []models.ScoreRow
	for rows.Next() {
		var row models.ScoreRow
		if err := rows.Scan(&row.UserID, &row.Date, &row.Score, &row.Recommendation); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, row)
	}
	return scores, rows.Err()
}

// GetForDate returns the score row for one date, or nil if none exists
func (s *ScoreStore) GetForDate(userID, date string) (*models.ScoreRow, error) {
	var row models.ScoreRow
	err := s.db.QueryRow(`
		SELECT user_id, date, score, COALESCE(recommendation, '')
		FROM score_history
		WHERE user_id = ? AND date = ?
	`, userID, date).Scan(&row.UserID, &row.Date, &row.Score, &row.Recommendation)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	return &row, nil
}

// SetRecommendation updates only the legacy recommendation text for one date.
// Returns an error if no score row exists for that date.
func (s *ScoreStore) SetRecommendation(userID, date, text string) error {
	res, err := s.db.Exec(`
		UPDATE score_history SET recommendation = ?
		WHERE user_id = ? AND date = ?
	`, text, userID, date)
	if err != nil {
		return fmt.Errorf("failed to set recommendation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check recommendation update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no score row for user %s on %s", userID, date)
	}
	return nil
}
