// ABOUTME: Correlation storage operations for SQLite
// ABOUTME: Implements transactional per-user replace so readers never see a partial set
package sqlite

import (
	"fmt"

	"github.com/tracewell/tracewell/internal/models"
)

// CorrelationStore handles correlation record persistence
type CorrelationStore struct {
	db *DB
}

// NewCorrelationStore creates a new CorrelationStore
func NewCorrelationStore(db *DB) *CorrelationStore {
	return &CorrelationStore{db: db}
}

// ReplaceForUser atomically replaces all of a user's correlation records.
// Delete-all plus insert-all inside one transaction.
func (s *CorrelationStore) ReplaceForUser(userID string, records []models.CorrelationRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM correlations WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete correlations: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO correlations
			(id, user_id, factor, symptom, direction, confidence, effect_size_pct,
			 occurrences, total_opportunities, lag_days, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range records {
		r := &records[i]
		if _, err := stmt.Exec(r.ID, r.UserID, r.Factor, r.Symptom, r.Direction,
			r.Confidence, r.EffectSizePct, r.Occurrences, r.TotalOpportunities,
			r.LagDays, r.ComputedAt); err != nil {
			return fmt.Errorf("failed to insert correlation %s/%s: %w", r.Factor, r.Symptom, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit correlation replace: %w", err)
	}
	return nil
}

// ListByUser returns a user's correlations ordered by absolute effect size,
// strongest first. limit > 0 caps the result.
func (s *CorrelationStore) ListByUser(userID string, limit int) ([]models.CorrelationRecord, error) {
	query := `
		SELECT id, user_id, factor, symptom, direction, confidence, effect_size_pct,
		       occurrences, total_opportunities, lag_days, computed_at
		FROM correlations
		WHERE user_id = ?
		ORDER BY ABS(effect_size_pct) DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query correlations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.CorrelationRecord
	for rows.Next() {
		var r models.CorrelationRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Factor, &r.Symptom, &r.Direction,
			&r.Confidence, &r.EffectSizePct, &r.Occurrences, &r.TotalOpportunities,
			&r.LagDays, &r.ComputedAt); err != nil {
			return nil, fmt.Errorf("failed to scan correlation: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
