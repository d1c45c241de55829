// ABOUTME: Cycle/bleeding event storage operations for SQLite
// ABOUTME: Read by the context aggregator and the day-vector builder
package sqlite

import (
	"fmt"

	"github.com/tracewell/tracewell/internal/models"
)

// CycleStore handles cycle event persistence
type CycleStore struct {
	db *DB
}

// NewCycleStore creates a new CycleStore
func NewCycleStore(db *DB) *CycleStore {
	return &CycleStore{db: db}
}

// Save inserts or updates a cycle event
func (s *CycleStore) Save(event *models.CycleEventRow) error {
	_, err := s.db.Exec(`
		INSERT INTO cycle_events (id, user_id, date, kind, stage)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			kind = excluded.kind,
			stage = excluded.stage
	`, event.ID, event.UserID, event.Date, event.Kind, event.Stage)
	if err != nil {
		return fmt.Errorf("failed to save cycle event: %w", err)
	}
	return nil
}

// ListByUser returns a user's cycle events on or after since, oldest first
func (s *CycleStore) ListByUser(userID, since string) ([]models.CycleEventRow, error) {
	query := `
		SELECT id, user_id, date, kind, COALESCE(stage, '')
		FROM cycle_events
		WHERE user_id = ?`
	args := []interface{}{userID}
	if since != "" {
		query += ` AND date >= ?`
		args = append(args, since)
	}
	query += ` ORDER BY date ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycle events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []models.CycleEventRow
	for rows.Next() {
		var e models.CycleEventRow
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Kind, &e.Stage); err != nil {
			return nil, fmt.Errorf("failed to scan cycle event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
