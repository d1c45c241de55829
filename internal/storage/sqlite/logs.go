// ABOUTME: Daily log storage operations for SQLite
// ABOUTME: Tags and symptom severities are serialized as JSON text columns
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tracewell/tracewell/internal/models"
)

// LogStore handles daily log persistence
type LogStore struct {
	db *DB
}

// NewLogStore creates a new LogStore
func NewLogStore(db *DB) *LogStore {
	return &LogStore{db: db}
}

// Save inserts or updates a daily log row
func (s *LogStore) Save(row *models.DailyLogRow) error {
	tagsJSON, err := json.Marshal(row.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	symptomsJSON, err := json.Marshal(row.Symptoms)
	if err != nil {
		return fmt.Errorf("failed to marshal symptoms: %w", err)
	}

	loggedAt := row.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}

	_, err = s.db.Exec(`
		INSERT INTO daily_logs (id, user_id, date, logged_at, sleep_hours, mood, tags, symptoms, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			logged_at = excluded.logged_at,
			sleep_hours = excluded.sleep_hours,
			mood = excluded.mood,
			tags = excluded.tags,
			symptoms = excluded.symptoms,
			notes = excluded.notes
	`, row.ID, row.UserID, row.Date, loggedAt, row.SleepHours, row.Mood,
		string(tagsJSON), string(symptomsJSON), row.Notes)
	if err != nil {
		return fmt.Errorf("failed to save daily log: %w", err)
	}
	return nil
}

// ListByUser returns a user's logs ordered oldest first. A non-empty since
// date bounds the range and limit > 0 caps the number of most recent rows.
func (s *LogStore) ListByUser(userID string, since string, limit int) ([]models.DailyLogRow, error) {
	query := `
		SELECT id, user_id, date, logged_at, sleep_hours, mood, tags, symptoms, notes
		FROM daily_logs
		WHERE user_id = ?`
	args := []interface{}{userID}

	if since != "" {
		query += ` AND date >= ?`
		args = append(args, since)
	}
	// Limit applies to the most recent rows, so order descending and reverse after scan
	query += ` ORDER BY date DESC, logged_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	logs, err := scanLogRows(rows)
	if err != nil {
		return nil, err
	}

	// Reverse to oldest-first order
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

// ListByDate returns all of a user's log rows for one calendar date
func (s *LogStore) ListByDate(userID, date string) ([]models.DailyLogRow, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, date, logged_at, sleep_hours, mood, tags, symptoms, notes
		FROM daily_logs
		WHERE user_id = ? AND date = ?
		ORDER BY logged_at ASC
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs for date: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanLogRows(rows)
}

// CountDistinctDates returns the number of distinct calendar dates with logs
func (s *LogStore) CountDistinctDates(userID string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(DISTINCT date) FROM daily_logs WHERE user_id = ?
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count log dates: %w", err)
	}
	return count, nil
}

// ListUsersWithMinDates returns user IDs that have at least minDates distinct log dates
func (s *LogStore) ListUsersWithMinDates(minDates int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT user_id FROM daily_logs
		GROUP BY user_id
		HAVING COUNT(DISTINCT date) >= ?
		ORDER BY user_id
	`, minDates)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user ID: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

func scanLogRows(rows *sql.Rows) ([]models.DailyLogRow, error) {
	var logs []models.DailyLogRow
	for rows.Next() {
		var (
			row          models.DailyLogRow
			sleepHours   sql.NullFloat64
			mood         sql.NullInt64
			tagsJSON     sql.NullString
			symptomsJSON sql.NullString
			notes        sql.NullString
		)
		if err := rows.Scan(&row.ID, &row.UserID, &row.Date, &row.LoggedAt,
			&sleepHours, &mood, &tagsJSON, &symptomsJSON, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}

		if sleepHours.Valid {
			v := sleepHours.Float64
			row.SleepHours = &v
		}
		if mood.Valid {
			v := int(mood.Int64)
			row.Mood = &v
		}
		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &row.Tags); err != nil {
				row.Tags = nil
			}
		}
		if symptomsJSON.Valid && symptomsJSON.String != "" {
			if err := json.Unmarshal([]byte(symptomsJSON.String), &row.Symptoms); err != nil {
				row.Symptoms = nil
			}
		}
		if notes.Valid {
			row.Notes = notes.String
		}
		logs = append(logs, row)
	}
	return logs, rows.Err()
}
