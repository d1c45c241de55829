// ABOUTME: Medication and intake storage operations for SQLite
// ABOUTME: Intake reads join the medication name for factor derivation
package sqlite

import (
	"fmt"

	"github.com/tracewell/tracewell/internal/models"
)

// MedicationStore handles medication and intake persistence
type MedicationStore struct {
	db *DB
}

// NewMedicationStore creates a new MedicationStore
func NewMedicationStore(db *DB) *MedicationStore {
	return &MedicationStore{db: db}
}

// SaveMedication inserts or updates a medication
func (s *MedicationStore) SaveMedication(med *models.MedicationRow) error {
	active := 0
	if med.Active {
		active = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO medications (id, user_id, name, active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			active = excluded.active
	`, med.ID, med.UserID, med.Name, active)
	if err != nil {
		return fmt.Errorf("failed to save medication: %w", err)
	}
	return nil
}

// SaveIntake inserts or updates an intake record
func (s *MedicationStore) SaveIntake(intake *models.MedicationIntakeRow) error {
	_, err := s.db.Exec(`
		INSERT INTO medication_intakes (id, user_id, medication_id, date, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			status = excluded.status
	`, intake.ID, intake.UserID, intake.MedicationID, intake.Date, intake.Status)
	if err != nil {
		return fmt.Errorf("failed to save intake: %w", err)
	}
	return nil
}

// ListActive returns a user's active medications
func (s *MedicationStore) ListActive(userID string) ([]models.MedicationRow, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, active
		FROM medications
		WHERE user_id = ? AND active = 1
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var meds []models.MedicationRow
	for rows.Next() {
		var (
			med    models.MedicationRow
			active int
		)
		if err := rows.Scan(&med.ID, &med.UserID, &med.Name, &active); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		med.Active = active != 0
		meds = append(meds, med)
	}
	return meds, rows.Err()
}

// ListIntakes returns a user's intake rows on or after since, with the
// medication name joined in
func (s *MedicationStore) ListIntakes(userID, since string) ([]models.MedicationIntakeRow, error) {
	query := `
		SELECT i.id, i.user_id, i.medication_id, m.name, i.date, i.status
		FROM medication_intakes i
		JOIN medications m ON m.id = i.medication_id
		WHERE i.user_id = ?`
	args := []interface{}{userID}
	if since != "" {
		query += ` AND i.date >= ?`
		args = append(args, since)
	}
	query += ` ORDER BY i.date ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query intakes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var intakes []models.MedicationIntakeRow
	for rows.Next() {
		var intake models.MedicationIntakeRow
		if err := rows.Scan(&intake.ID, &intake.UserID, &intake.MedicationID,
			&intake.MedicationName, &intake.Date, &intake.Status); err != nil {
			return nil, fmt.Errorf("failed to scan intake: %w", err)
		}
		intakes = append(intakes, intake)
	}
	return intakes, rows.Err()
}
