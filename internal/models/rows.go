// ABOUTME: Raw store row types read from the tracking database
// ABOUTME: Flat records keyed by user ID and calendar date (YYYY-MM-DD)
package models

import "time"

// DateLayout is the calendar-date format used on all day-keyed records
const DateLayout = "2006-01-02"

// DailyLogRow is one raw tracking entry. A calendar day may have several rows;
// day-level consumers merge them (most recent non-null scalar, max severity).
type DailyLogRow struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	Date       string             `json:"date"`
	LoggedAt   time.Time          `json:"logged_at"`
	SleepHours *float64           `json:"sleep_hours,omitempty"`
	Mood       *int               `json:"mood,omitempty"`
	Tags       []string           `json:"tags,omitempty"`
	Symptoms   map[string]float64 `json:"symptoms,omitempty"`
	Notes      string             `json:"notes,omitempty"`
}

// MedicationRow is a medication on a user's regimen
type MedicationRow struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Intake status values
const (
	IntakeTaken   = "taken"
	IntakeSkipped = "skipped"
)

// MedicationIntakeRow records whether a medication was taken on a date.
// MedicationName is denormalized by the store's read query for convenience.
type MedicationIntakeRow struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	MedicationID   string `json:"medication_id"`
	MedicationName string `json:"medication_name"`
	Date           string `json:"date"`
	Status         string `json:"status"`
}

// ScoreRow is one day's computed wellness score with its legacy
// recommendation text (a write-through projection, not a source of truth).
type ScoreRow struct {
	UserID         string  `json:"user_id"`
	Date           string  `json:"date"`
	Score          float64 `json:"score"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// Cycle event kinds
const (
	CycleKindPeriod   = "period"
	CycleKindSpotting = "spotting"
)

// CycleEventRow is one cycle/bleeding event
type CycleEventRow struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Date   string `json:"date"`
	Kind   string `json:"kind"`
	Stage  string `json:"stage,omitempty"`
}

// Profile holds the user-level fields the insight pipeline reads
type Profile struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name,omitempty"`
	Age        *int      `json:"age,omitempty"`
	Conditions []string  `json:"conditions,omitempty"`
	Goals      []string  `json:"goals,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
