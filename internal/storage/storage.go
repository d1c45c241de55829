// ABOUTME: Store is the narrow read/write interface over the tracking database
// ABOUTME: Composes the per-table SQLite stores behind one facade
package storage

import (
	"fmt"

	"github.com/tracewell/tracewell/internal/models"
	"github.com/tracewell/tracewell/internal/storage/sqlite"
)

// Store manages all persistent data for the insight pipeline
type Store struct {
	db           *sqlite.DB
	logs         *sqlite.LogStore
	medications  *sqlite.MedicationStore
	correlations *sqlite.CorrelationStore
	scores       *sqlite.ScoreStore
	cycles       *sqlite.CycleStore
	profiles     *sqlite.ProfileStore
	insights     *sqlite.InsightStore
}

// NewStore opens the store at the given database path
func NewStore(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return newStore(db), nil
}

// NewStoreInMemory creates an in-memory store (for testing)
func NewStoreInMemory() (*Store, error) {
	db, err := sqlite.OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory store: %w", err)
	}
	return newStore(db), nil
}

func newStore(db *sqlite.DB) *Store {
	return &Store{
		db:           db,
		logs:         sqlite.NewLogStore(db),
		medications:  sqlite.NewMedicationStore(db),
		correlations: sqlite.NewCorrelationStore(db),
		scores:       sqlite.NewScoreStore(db),
		cycles:       sqlite.NewCycleStore(db),
		profiles:     sqlite.NewProfileStore(db),
		insights:     sqlite.NewInsightStore(db),
	}
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.db.Path()
}

// --- Daily logs ---

// SaveDailyLog persists a raw tracking entry
func (s *Store) SaveDailyLog(row *models.DailyLogRow) error {
	return s.logs.Save(row)
}

// DailyLogs returns a user's logs oldest first; since and limit are optional
func (s *Store) DailyLogs(userID, since string, limit int) ([]models.DailyLogRow, error) {
	return s.logs.ListByUser(userID, since, limit)
}

// LogsForDate returns all log rows for one calendar date
func (s *Store) LogsForDate(userID, date string) ([]models.DailyLogRow, error) {
	return s.logs.ListByDate(userID, date)
}

// CountLogDates returns the number of distinct dates a user has logged
func (s *Store) CountLogDates(userID string) (int, error) {
	return s.logs.CountDistinctDates(userID)
}

// ListEligibleUsers returns users with at least minDates distinct log dates
func (s *Store) ListEligibleUsers(minDates int) ([]string, error) {
	return s.logs.ListUsersWithMinDates(minDates)
}

// --- Medications ---

// SaveMedication persists a medication
func (s *Store) SaveMedication(med *models.MedicationRow) error {
	return s.medications.SaveMedication(med)
}

// SaveMedicationIntake persists an intake record
func (s *Store) SaveMedicationIntake(intake *models.MedicationIntakeRow) error {
	return s.medications.SaveIntake(intake)
}

// ActiveMedications returns a user's active medications
func (s *Store) ActiveMedications(userID string) ([]models.MedicationRow, error) {
	return s.medications.ListActive(userID)
}

// MedicationIntakes returns intake rows on or after since, name joined in
func (s *Store) MedicationIntakes(userID, since string) ([]models.MedicationIntakeRow, error) {
	return s.medications.ListIntakes(userID, since)
}

// --- Correlations ---

// ReplaceCorrelations atomically replaces all of a user's correlation records
func (s *Store) ReplaceCorrelations(userID string, records []models.CorrelationRecord) error {
	return s.correlations.ReplaceForUser(userID, records)
}

// CorrelationsByEffect returns correlations ordered by |effect size|, strongest first
func (s *Store) CorrelationsByEffect(userID string, limit int) ([]models.CorrelationRecord, error) {
	return s.correlations.ListByUser(userID, limit)
}

// --- Scores ---

// SaveScore persists a daily score row
func (s *Store) SaveScore(row *models.ScoreRow) error {
	return s.scores.Save(row)
}

// RecentScores returns the most recent score rows, newest first
func (s *Store) RecentScores(userID string, limit int) ([]models.ScoreRow, error) {
	return s.scores.ListRecent(userID, limit)
}

// ScoreForDate returns one date's score row, or nil if none exists
func (s *Store) ScoreForDate(userID, date string) (*models.ScoreRow, error) {
	return s.scores.GetForDate(userID, date)
}

// SetScoreRecommendation writes the legacy per-day recommendation text
func (s *Store) SetScoreRecommendation(userID, date, text string) error {
	return s.scores.SetRecommendation(userID, date, text)
}

// --- Cycle events ---

// SaveCycleEvent persists a cycle event
func (s *Store) SaveCycleEvent(event *models.CycleEventRow) error {
	return s.cycles.Save(event)
}

// CycleEvents returns cycle events on or after since, oldest first
func (s *Store) CycleEvents(userID, since string) ([]models.CycleEventRow, error) {
	return s.cycles.ListByUser(userID, since)
}

// --- Profiles ---

// Profile returns a user's profile, or nil if none exists
func (s *Store) Profile(userID string) (*models.Profile, error) {
	return s.profiles.Get(userID)
}

// SaveProfile saves or updates a user's profile
func (s *Store) SaveProfile(profile *models.Profile) error {
	return s.profiles.Save(profile)
}

// --- Insights ---

// UpsertInsight writes one insight row per (user, date)
func (s *Store) UpsertInsight(rec *models.StoredInsightRecord) error {
	return s.insights.Upsert(rec)
}

// GetInsight returns the stored insight for one (user, date), or nil
func (s *Store) GetInsight(userID, date string) (*models.StoredInsightRecord, error) {
	return s.insights.Get(userID, date)
}

// CountInsights returns how many insight rows a user has
func (s *Store) CountInsights(userID string) (int, error) {
	return s.insights.CountForUser(userID)
}

// UpsertWeeklyStory writes the legacy weekly narrative projection
func (s *Store) UpsertWeeklyStory(userID, weekStart, story string) error {
	return s.insights.UpsertWeeklyStory(userID, weekStart, story)
}

// GetWeeklyStory returns the legacy weekly narrative, or "" if none exists
func (s *Store) GetWeeklyStory(userID, weekStart string) (string, error) {
	return s.insights.GetWeeklyStory(userID, weekStart)
}
