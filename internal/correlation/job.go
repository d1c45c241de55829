// ABOUTME: Correlation batch runner, one transactional replace per user
// ABOUTME: Runs on its own cadence, independent of the insight pipeline
package correlation

import (
	"fmt"

	"github.com/tracewell/tracewell/internal/logging"
	"github.com/tracewell/tracewell/internal/storage"
)

// Report aggregates one correlation batch run
type Report struct {
	Users   int `json:"users"`
	Skipped int `json:"skipped"`
	Records int `json:"records"`
	Errors  int `json:"errors"`
}

// Runner executes correlation analysis across eligible users
type Runner struct {
	store       *storage.Store
	engine      *Engine
	minLogDates int
}

// NewRunner creates a correlation batch runner
func NewRunner(store *storage.Store, minLogDates int) *Runner {
	if minLogDates <= 0 {
		minLogDates = DefaultMinLogDates
	}
	return &Runner{
		store:       store,
		engine:      NewEngine(),
		minLogDates: minLogDates,
	}
}

// RunAll analyzes every eligible user. A single user's failure is counted
// and logged, never aborts the batch.
func (r *Runner) RunAll() (*Report, error) {
	log := logging.WithJob("correlation")

	tracked, err := r.store.ListEligibleUsers(1)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked users: %w", err)
	}
	users, err := r.store.ListEligibleUsers(r.minLogDates)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible users: %w", err)
	}

	report := &Report{Skipped: len(tracked) - len(users)}
	for _, userID := range users {
		count, err := r.RunForUser(userID)
		if err != nil {
			report.Errors++
			log.WithField("user_id", userID).WithError(err).Error("correlation run failed")
			continue
		}
		report.Users++
		report.Records += count
	}

	log.WithField("users", report.Users).
		WithField("skipped", report.Skipped).
		WithField("records", report.Records).
		WithField("errors", report.Errors).
		Info("correlation batch finished")
	return report, nil
}

// RunForUser builds day-vectors from the user's full history, mines them,
// and transactionally replaces the user's correlation records. Returns the
// number of records written.
func (r *Runner) RunForUser(userID string) (int, error) {
	logs, err := r.store.DailyLogs(userID, "", 0)
	if err != nil {
		return 0, fmt.Errorf("failed to read logs: %w", err)
	}
	intakes, err := r.store.MedicationIntakes(userID, "")
	if err != nil {
		return 0, fmt.Errorf("failed to read intakes: %w", err)
	}
	cycles, err := r.store.CycleEvents(userID, "")
	if err != nil {
		return 0, fmt.Errorf("failed to read cycle events: %w", err)
	}

	vectors := BuildDayVectors(logs, intakes, cycles)
	if len(vectors) < r.minLogDates {
		return 0, fmt.Errorf("user %s has %d tracked dates, need %d", userID, len(vectors), r.minLogDates)
	}

	records := r.engine.Analyze(userID, vectors)
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return 0, fmt.Errorf("invalid correlation record: %w", err)
		}
	}

	if err := r.store.ReplaceCorrelations(userID, records); err != nil {
		return 0, fmt.Errorf("failed to replace correlations: %w", err)
	}
	return len(records), nil
}
