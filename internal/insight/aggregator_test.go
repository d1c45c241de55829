// ABOUTME: Tests for the context aggregator
// ABOUTME: Window caps, adherence rates, and the today snapshot from a seeded store
package insight

import (
	"fmt"
	"testing"
	"time"

	"github.com/tracewell/tracewell/internal/models"
)

func TestGather_EmptyUserYieldsUsableContext(t *testing.T) {
	store := newTestStore(t)
	ictx, err := NewAggregator(store).Gather("usr_none", "2026-08-30")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	if !ictx.IsEmpty() {
		t.Error("context for an unknown user should report empty")
	}
	if ictx.Correlations == nil || ictx.RecentScores == nil || ictx.RecentLogs == nil {
		t.Error("collections should be empty, never nil")
	}
	if ictx.Cycle.PeriodDates == nil {
		t.Error("cycle period dates should be empty, never nil")
	}
}

func TestGather_CapsCorrelationsAtFifteen(t *testing.T) {
	store := newTestStore(t)

	records := make([]models.CorrelationRecord, 0, 20)
	for i := 0; i < 20; i++ {
		records = append(records, models.CorrelationRecord{
			ID:                 fmt.Sprintf("cor_%d", i),
			UserID:             "usr_1",
			Factor:             fmt.Sprintf("factor_%d", i),
			Symptom:            "headache",
			Direction:          models.DirectionPositive,
			Confidence:         0.8,
			EffectSizePct:      float64(100 - i),
			Occurrences:        8,
			TotalOpportunities: 10,
			LagDays:            1,
			ComputedAt:         time.Now(),
		})
	}
	if err := store.ReplaceCorrelations("usr_1", records); err != nil {
		t.Fatalf("ReplaceCorrelations() error = %v", err)
	}

	ictx, err := NewAggregator(store).Gather("usr_1", "2026-08-30")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	if len(ictx.Correlations) != 15 {
		t.Fatalf("Correlations len = %d, want 15", len(ictx.Correlations))
	}
	// Strongest effect first
	if ictx.Correlations[0].Factor != "factor_0" {
		t.Errorf("first correlation = %s, want factor_0", ictx.Correlations[0].Factor)
	}
}

func TestGather_ScoreHistoryNewestFirstCappedAtSeven(t *testing.T) {
	store := newTestStore(t)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		row := &models.ScoreRow{
			UserID: "usr_1",
			Date:   start.AddDate(0, 0, i).Format(models.DateLayout),
			Score:  float64(60 + i),
		}
		if err := store.SaveScore(row); err != nil {
			t.Fatalf("SaveScore() error = %v", err)
		}
	}

	ictx, err := NewAggregator(store).Gather("usr_1", "2026-08-30")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	if len(ictx.RecentScores) != 7 {
		t.Fatalf("RecentScores len = %d, want 7", len(ictx.RecentScores))
	}
	if ictx.RecentScores[0].Date != "2026-08-10" {
		t.Errorf("newest score date = %s, want 2026-08-10", ictx.RecentScores[0].Date)
	}
}

func TestGather_MedicationAdherence(t *testing.T) {
	store := newTestStore(t)

	med := &models.MedicationRow{ID: "med_1", UserID: "usr_1", Name: "Magnesium", Active: true}
	if err := store.SaveMedication(med); err != nil {
		t.Fatalf("SaveMedication() error = %v", err)
	}

	start := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		status := models.IntakeTaken
		if i%5 == 0 {
			status = models.IntakeSkipped
		}
		intake := &models.MedicationIntakeRow{
			ID:           fmt.Sprintf("int_%d", i),
			UserID:       "usr_1",
			MedicationID: "med_1",
			Date:         start.AddDate(0, 0, i).Format(models.DateLayout),
			Status:       status,
		}
		if err := store.SaveMedicationIntake(intake); err != nil {
			t.Fatalf("SaveMedicationIntake() error = %v", err)
		}
	}

	ictx, err := NewAggregator(store).Gather("usr_1", "2026-08-30")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	if len(ictx.Medications) != 1 {
		t.Fatalf("Medications len = %d, want 1", len(ictx.Medications))
	}
	got := ictx.Medications[0]
	if got.Name != "Magnesium" {
		t.Errorf("Name = %q, want Magnesium", got.Name)
	}
	if got.DaysTracked != 10 {
		t.Errorf("DaysTracked = %d, want 10", got.DaysTracked)
	}
	if got.AdherencePct != 80 {
		t.Errorf("AdherencePct = %v, want 80", got.AdherencePct)
	}
}

func TestGather_TodaySnapshot(t *testing.T) {
	store := newTestStore(t)

	sleep := 5.5
	mood := 2
	logged := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	row := &models.DailyLogRow{
		ID:         "log_1",
		UserID:     "usr_1",
		Date:       "2026-08-30",
		LoggedAt:   logged,
		SleepHours: &sleep,
		Mood:       &mood,
		Symptoms:   map[string]float64{"headache": 3, "nausea": 5},
	}
	if err := store.SaveDailyLog(row); err != nil {
		t.Fatalf("SaveDailyLog() error = %v", err)
	}
	if err := store.SaveScore(&models.ScoreRow{UserID: "usr_1", Date: "2026-08-30", Score: 55}); err != nil {
		t.Fatalf("SaveScore() error = %v", err)
	}

	ictx, err := NewAggregator(store).Gather("usr_1", "2026-08-30")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	if ictx.Today.SleepHours == nil || *ictx.Today.SleepHours != 5.5 {
		t.Errorf("SleepHours = %v, want 5.5", ictx.Today.SleepHours)
	}
	if ictx.Today.Mood == nil || *ictx.Today.Mood != 2 {
		t.Errorf("Mood = %v, want 2", ictx.Today.Mood)
	}
	if ictx.Today.TopSymptom != "nausea" || ictx.Today.TopSeverity != 5 {
		t.Errorf("top symptom = %s/%v, want nausea/5", ictx.Today.TopSymptom, ictx.Today.TopSeverity)
	}
	if ictx.Today.Score == nil || *ictx.Today.Score != 55 {
		t.Errorf("Score = %v, want 55", ictx.Today.Score)
	}
}

func TestGather_CycleSummary(t *testing.T) {
	store := newTestStore(t)

	events := []models.CycleEventRow{
		{ID: "cyc_1", UserID: "usr_1", Date: "2026-08-20", Kind: models.CycleKindPeriod, Stage: "menstrual"},
		{ID: "cyc_2", UserID: "usr_1", Date: "2026-08-21", Kind: models.CycleKindPeriod},
		{ID: "cyc_3", UserID: "usr_1", Date: "2026-08-25", Kind: models.CycleKindSpotting, Stage: "follicular"},
	}
	for i := range events {
		if err := store.SaveCycleEvent(&events[i]); err != nil {
			t.Fatalf("SaveCycleEvent() error = %v", err)
		}
	}

	ictx, err := NewAggregator(store).Gather("usr_1", "2026-08-30")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	if len(ictx.Cycle.PeriodDates) != 2 {
		t.Fatalf("PeriodDates = %v, want 2 entries", ictx.Cycle.PeriodDates)
	}
	if ictx.Cycle.PeriodDates[0] != "2026-08-20" {
		t.Errorf("PeriodDates[0] = %s, want 2026-08-20", ictx.Cycle.PeriodDates[0])
	}
	if ictx.Cycle.Stage != "follicular" {
		t.Errorf("Stage = %q, want follicular (latest non-empty)", ictx.Cycle.Stage)
	}
}
