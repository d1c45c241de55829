// ABOUTME: Tests for prompt serialization
// ABOUTME: Verifies section presence and correlation phrasing
package llm

import (
	"strings"
	"testing"

	"github.com/tracewell/tracewell/internal/models"
)

func TestBuildUserPrompt_Sections(t *testing.T) {
	sleep := 7.5
	mood := 4
	ictx := &models.InsightContext{
		UserID: "usr_1",
		Date:   "2026-08-30",
		Profile: &models.Profile{
			UserID:     "usr_1",
			Name:       "Ada",
			Conditions: []string{"migraine"},
		},
		Correlations: []models.CorrelationRecord{
			{
				Factor:             models.FactorAlcohol,
				Symptom:            "headache",
				Direction:          models.DirectionPositive,
				Confidence:         0.8,
				EffectSizePct:      80,
				Occurrences:        8,
				TotalOpportunities: 10,
				LagDays:            2,
			},
		},
		Medications: []models.MedicationAdherence{
			{Name: "Magnesium", AdherencePct: 90, DaysTracked: 30},
		},
		RecentScores: []models.ScoreRow{{Date: "2026-08-29", Score: 72}},
		RecentLogs: []models.DaySummary{
			{Date: "2026-08-29", SleepHours: &sleep, Tags: []string{"workout"}},
		},
		Cycle: models.CycleSummary{PeriodDates: []string{"2026-08-25"}},
		Today: models.TodaySnapshot{SleepHours: &sleep, Mood: &mood, TopSymptom: "headache", TopSeverity: 3},
	}

	prompt := BuildUserPrompt(ictx)

	wantFragments := []string{
		"DATE: 2026-08-30",
		"PROFILE:",
		"Tracked conditions: migraine",
		"DISCOVERED RELATIONSHIPS",
		"drinking alcohol tends to increase headache 2 days later",
		"ACTIVE MEDICATIONS:",
		"Magnesium (adherence 90% over 30 days)",
		"RECENT SCORES",
		"RECENT DAYS:",
		"CYCLE:",
		"Period days: 2026-08-25",
		"TODAY:",
		"Top symptom: headache (severity 3)",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestBuildUserPrompt_EmptyContext(t *testing.T) {
	prompt := BuildUserPrompt(&models.InsightContext{UserID: "usr_1", Date: "2026-08-30"})

	if !strings.Contains(prompt, "DATE: 2026-08-30") {
		t.Error("prompt should always carry the date")
	}
	if !strings.Contains(prompt, "TODAY:") {
		t.Error("prompt should always carry the today section")
	}
	if strings.Contains(prompt, "DISCOVERED RELATIONSHIPS") {
		t.Error("empty context should not emit a relationships section")
	}
}

func TestDescribeCorrelation(t *testing.T) {
	tests := []struct {
		name string
		rec  models.CorrelationRecord
		want string
	}{
		{
			name: "negative same day",
			rec: models.CorrelationRecord{
				Factor: models.FactorExercised, Symptom: "fatigue",
				Direction: models.DirectionNegative, Confidence: 0.7,
				EffectSizePct: -40, Occurrences: 7, TotalOpportunities: 10, LagDays: 0,
			},
			want: "exercising tends to decrease fatigue same day",
		},
		{
			name: "single day lag",
			rec: models.CorrelationRecord{
				Factor: models.FactorCaffeine, Symptom: "insomnia",
				Direction: models.DirectionPositive, Confidence: 0.9,
				EffectSizePct: 120, Occurrences: 9, TotalOpportunities: 10, LagDays: 1,
			},
			want: "caffeine tends to increase insomnia 1 day later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DescribeCorrelation(&tt.rec)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("DescribeCorrelation() = %q, want prefix %q", got, tt.want)
			}
		})
	}
}
