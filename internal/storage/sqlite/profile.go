// ABOUTME: User profile storage operations for SQLite
// ABOUTME: List fields are serialized as JSON text columns
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tracewell/tracewell/internal/models"
)

// ProfileStore handles user profile persistence
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new ProfileStore
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get retrieves a user's profile, returning nil if not found
func (s *ProfileStore) Get(userID string) (*models.Profile, error) {
	var (
		name           sql.NullString
		age            sql.NullInt64
		conditionsJSON sql.NullString
		goalsJSON      sql.NullString
		updatedAt      time.Time
	)

	err := s.db.QueryRow(`
		SELECT name, age, conditions, goals, updated_at
		FROM profiles
		WHERE user_id = ?
	`, userID).Scan(&name, &age, &conditionsJSON, &goalsJSON, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile := &models.Profile{
		UserID:    userID,
		UpdatedAt: updatedAt,
	}
	if name.Valid {
		profile.Name = name.String
	}
	if age.Valid {
		v := int(age.Int64)
		profile.Age = &v
	}
	if conditionsJSON.Valid && conditionsJSON.String != "" {
		if err := json.Unmarshal([]byte(conditionsJSON.String), &profile.Conditions); err != nil {
			profile.Conditions = []string{}
		}
	}
	if goalsJSON.Valid && goalsJSON.String != "" {
		if err := json.Unmarshal([]byte(goalsJSON.String), &profile.Goals); err != nil {
			profile.Goals = []string{}
		}
	}

	return profile, nil
}

// Save saves or updates a user's profile (upsert)
func (s *ProfileStore) Save(profile *models.Profile) error {
	conditionsJSON, err := json.Marshal(profile.Conditions)
	if err != nil {
		return fmt.Errorf("failed to marshal conditions: %w", err)
	}
	goalsJSON, err := json.Marshal(profile.Goals)
	if err != nil {
		return fmt.Errorf("failed to marshal goals: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO profiles (user_id, name, age, conditions, goals, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			age = excluded.age,
			conditions = excluded.conditions,
			goals = excluded.goals,
			updated_at = excluded.updated_at
	`, profile.UserID, profile.Name, profile.Age, string(conditionsJSON),
		string(goalsJSON), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
