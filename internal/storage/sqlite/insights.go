// ABOUTME: Delivered insight and weekly story storage operations for SQLite
// ABOUTME: Insights are keyed by (user, date); a rerun overwrites in place
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tracewell/tracewell/internal/models"
)

// InsightStore handles stored insight persistence
type InsightStore struct {
	db *DB
}

// NewInsightStore creates a new InsightStore
func NewInsightStore(db *DB) *InsightStore {
	return &InsightStore{db: db}
}

// Upsert writes one insight row per (user, date), updating in place on rerun
func (s *InsightStore) Upsert(rec *models.StoredInsightRecord) error {
	computedAt := rec.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO insights
			(user_id, date, payload, narrative, story, forecast, nudge_title, nudge_body,
			 source, failure_reason, prompt_tokens, completion_tokens, total_tokens,
			 latency_ms, pipeline_version, status, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			payload = excluded.payload,
			narrative = excluded.narrative,
			story = excluded.story,
			forecast = excluded.forecast,
			nudge_title = excluded.nudge_title,
			nudge_body = excluded.nudge_body,
			source = excluded.source,
			failure_reason = excluded.failure_reason,
			prompt_tokens = excluded.prompt_tokens,
			completion_tokens = excluded.completion_tokens,
			total_tokens = excluded.total_tokens,
			latency_ms = excluded.latency_ms,
			pipeline_version = excluded.pipeline_version,
			status = excluded.status,
			computed_at = excluded.computed_at
	`, rec.UserID, rec.Date, rec.Payload, rec.Narrative, rec.Story, rec.Forecast,
		rec.NudgeTitle, rec.NudgeBody, rec.Source, rec.FailureReason,
		rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens,
		rec.LatencyMS, rec.PipelineVersion, rec.Status, computedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert insight: %w", err)
	}
	return nil
}

// Get retrieves the insight for one (user, date), or nil if none exists
func (s *InsightStore) Get(userID, date string) (*models.StoredInsightRecord, error) {
	var (
		rec           models.StoredInsightRecord
		failureReason sql.NullString
		version       sql.NullString
	)
	err := s.db.QueryRow(`
		SELECT user_id, date, payload, narrative, story, forecast, nudge_title, nudge_body,
		       source, failure_reason, prompt_tokens, completion_tokens, total_tokens,
		       latency_ms, pipeline_version, status, computed_at
		FROM insights
		WHERE user_id = ? AND date = ?
	`, userID, date).Scan(&rec.UserID, &rec.Date, &rec.Payload, &rec.Narrative,
		&rec.Story, &rec.Forecast, &rec.NudgeTitle, &rec.NudgeBody,
		&rec.Source, &failureReason, &rec.PromptTokens, &rec.CompletionTokens,
		&rec.TotalTokens, &rec.LatencyMS, &version, &rec.Status, &rec.ComputedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insight: %w", err)
	}
	if failureReason.Valid {
		rec.FailureReason = failureReason.String
	}
	if version.Valid {
		rec.PipelineVersion = version.String
	}
	return &rec, nil
}

// CountForUser returns how many insight rows a user has (test helper surface)
func (s *InsightStore) CountForUser(userID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM insights WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count insights: %w", err)
	}
	return count, nil
}

// UpsertWeeklyStory writes the legacy weekly narrative projection
func (s *InsightStore) UpsertWeeklyStory(userID, weekStart, story string) error {
	_, err := s.db.Exec(`
		INSERT INTO weekly_stories (user_id, week_start, story, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, week_start) DO UPDATE SET
			story = excluded.story,
			updated_at = excluded.updated_at
	`, userID, weekStart, story, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert weekly story: %w", err)
	}
	return nil
}

// GetWeeklyStory returns the legacy weekly narrative for a week, or "" if none
func (s *InsightStore) GetWeeklyStory(userID, weekStart string) (string, error) {
	var story sql.NullString
	err := s.db.QueryRow(`
		SELECT story FROM weekly_stories WHERE user_id = ? AND week_start = ?
	`, userID, weekStart).Scan(&story)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get weekly story: %w", err)
	}
	return story.String, nil
}
