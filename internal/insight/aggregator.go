// ABOUTME: Context aggregator assembling one InsightContext per (user, date)
// ABOUTME: Issues independent store reads concurrently, joins them, never writes
package insight

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tracewell/tracewell/internal/correlation"
	"github.com/tracewell/tracewell/internal/models"
	"github.com/tracewell/tracewell/internal/storage"
)

// Context window sizes
const (
	maxCorrelations     = 15
	scoreHistoryLimit   = 7
	recentLogRows       = 30
	maxRecentDays       = 14
	cycleWindowDays     = 90
	adherenceWindowDays = 30
)

// Aggregator builds read-only context snapshots from the store
type Aggregator struct {
	store *storage.Store
}

// NewAggregator creates a new Aggregator
func NewAggregator(store *storage.Store) *Aggregator {
	return &Aggregator{store: store}
}

// Gather assembles the InsightContext for one (user, date). Reads run
// concurrently; missing-but-optional data yields empty defaults, never an
// error. Store failures are returned to the caller.
func (a *Aggregator) Gather(userID, date string) (*models.InsightContext, error) {
	ictx := &models.InsightContext{
		UserID:       userID,
		Date:         date,
		Correlations: []models.CorrelationRecord{},
		Medications:  []models.MedicationAdherence{},
		RecentScores: []models.ScoreRow{},
		RecentLogs:   []models.DaySummary{},
		Cycle:        models.CycleSummary{PeriodDates: []string{}},
	}

	var g errgroup.Group

	g.Go(func() error {
		profile, err := a.store.Profile(userID)
		if err != nil {
			return fmt.Errorf("failed to read profile: %w", err)
		}
		ictx.Profile = profile
		return nil
	})

	g.Go(func() error {
		correlations, err := a.store.CorrelationsByEffect(userID, maxCorrelations)
		if err != nil {
			return fmt.Errorf("failed to read correlations: %w", err)
		}
		if correlations != nil {
			ictx.Correlations = correlations
		}
		return nil
	})

	g.Go(func() error {
		adherence, err := a.medicationAdherence(userID, date)
		if err != nil {
			return err
		}
		ictx.Medications = adherence
		return nil
	})

	g.Go(func() error {
		scores, err := a.store.RecentScores(userID, scoreHistoryLimit)
		if err != nil {
			return fmt.Errorf("failed to read scores: %w", err)
		}
		if scores != nil {
			ictx.RecentScores = scores
		}
		return nil
	})

	g.Go(func() error {
		days, err := a.recentDays(userID)
		if err != nil {
			return err
		}
		ictx.RecentLogs = days
		return nil
	})

	g.Go(func() error {
		cycle, err := a.cycleSummary(userID, date)
		if err != nil {
			return err
		}
		ictx.Cycle = cycle
		return nil
	})

	g.Go(func() error {
		today, err := a.todaySnapshot(userID, date)
		if err != nil {
			return err
		}
		ictx.Today = today
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ictx, nil
}

// medicationAdherence computes the trailing taken-rate for each active medication
func (a *Aggregator) medicationAdherence(userID, date string) ([]models.MedicationAdherence, error) {
	meds, err := a.store.ActiveMedications(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read medications: %w", err)
	}
	if len(meds) == 0 {
		return []models.MedicationAdherence{}, nil
	}

	intakes, err := a.store.MedicationIntakes(userID, shiftDate(date, -adherenceWindowDays))
	if err != nil {
		return nil, fmt.Errorf("failed to read intakes: %w", err)
	}

	taken := map[string]int{}
	total := map[string]int{}
	for _, intake := range intakes {
		total[intake.MedicationID]++
		if intake.Status == models.IntakeTaken {
			taken[intake.MedicationID]++
		}
	}

	adherence := make([]models.MedicationAdherence, 0, len(meds))
	for _, med := range meds {
		entry := models.MedicationAdherence{
			Name:        med.Name,
			DaysTracked: total[med.ID],
		}
		if entry.DaysTracked > 0 {
			entry.AdherencePct = float64(taken[med.ID]) / float64(entry.DaysTracked) * 100
		}
		adherence = append(adherence, entry)
	}
	return adherence, nil
}

// recentDays collapses the last raw log rows into at most maxRecentDays
// merged day summaries, oldest first
func (a *Aggregator) recentDays(userID string) ([]models.DaySummary, error) {
	logs, err := a.store.DailyLogs(userID, "", recentLogRows)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent logs: %w", err)
	}

	days := correlation.CollapseByDate(logs)
	if len(days) > maxRecentDays {
		days = days[len(days)-maxRecentDays:]
	}
	return days, nil
}

// cycleSummary reduces recent cycle events to period dates plus current stage
func (a *Aggregator) cycleSummary(userID, date string) (models.CycleSummary, error) {
	summary := models.CycleSummary{PeriodDates: []string{}}

	events, err := a.store.CycleEvents(userID, shiftDate(date, -cycleWindowDays))
	if err != nil {
		return summary, fmt.Errorf("failed to read cycle events: %w", err)
	}

	for _, event := range events {
		if event.Kind == models.CycleKindPeriod {
			summary.PeriodDates = append(summary.PeriodDates, event.Date)
		}
		if event.Stage != "" {
			// Events arrive oldest first, so the last non-empty stage wins
			summary.Stage = event.Stage
		}
	}
	sort.Strings(summary.PeriodDates)
	return summary, nil
}

// todaySnapshot reduces today's own logs and score to sleep, mood, and the
// top symptom by severity
func (a *Aggregator) todaySnapshot(userID, date string) (models.TodaySnapshot, error) {
	var snapshot models.TodaySnapshot

	logs, err := a.store.LogsForDate(userID, date)
	if err != nil {
		return snapshot, fmt.Errorf("failed to read today's logs: %w", err)
	}
	if len(logs) > 0 {
		merged := correlation.MergeDayLogs(date, logs)
		snapshot.SleepHours = merged.SleepHours
		snapshot.Mood = merged.Mood
		for symptom, severity := range merged.Symptoms {
			if severity > snapshot.TopSeverity ||
				(severity == snapshot.TopSeverity && snapshot.TopSymptom != "" && symptom < snapshot.TopSymptom) {
				snapshot.TopSymptom = symptom
				snapshot.TopSeverity = severity
			}
		}
	}

	score, err := a.store.ScoreForDate(userID, date)
	if err != nil {
		return snapshot, fmt.Errorf("failed to read today's score: %w", err)
	}
	if score != nil {
		v := score.Score
		snapshot.Score = &v
	}

	return snapshot, nil
}

// shiftDate moves a calendar date string by n days
func shiftDate(date string, n int) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(models.DateLayout)
}
