// ABOUTME: Tests for the deterministic fallback generator
// ABOUTME: Schema completeness on empty input, templated content on rich input
package insight

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tracewell/tracewell/internal/models"
)

func richContext() *models.InsightContext {
	sleep := 7.5
	mood := 4
	return &models.InsightContext{
		UserID: "usr_1",
		Date:   "2026-08-30",
		Correlations: []models.CorrelationRecord{
			{
				Factor: models.FactorAlcohol, Symptom: "headache",
				Direction: models.DirectionPositive, Confidence: 0.8,
				EffectSizePct: 80, Occurrences: 8, TotalOpportunities: 10, LagDays: 2,
			},
			{
				Factor: models.FactorSleepOver7h, Symptom: "fatigue",
				Direction: models.DirectionNegative, Confidence: 0.7,
				EffectSizePct: -35, Occurrences: 7, TotalOpportunities: 10, LagDays: 0,
			},
		},
		RecentScores: []models.ScoreRow{
			{Date: "2026-08-29", Score: 80},
			{Date: "2026-08-28", Score: 74},
			{Date: "2026-08-27", Score: 70},
		},
		RecentLogs: []models.DaySummary{{Date: "2026-08-29"}},
		Today:      models.TodaySnapshot{SleepHours: &sleep, Mood: &mood, TopSymptom: "headache"},
	}
}

func TestGenerate_EmptyContextProducesFullSchema(t *testing.T) {
	ictx := &models.InsightContext{UserID: "usr_1", Date: "2026-08-30"}
	insight := NewFallbackGenerator().Generate(ictx)

	serialized, err := json.Marshal(insight)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(serialized, &asMap); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	wantKeys := []string{
		"correlation_insights", "daily_narrative", "weekly_story", "forecast",
		"insight_nudge", "helps_hurts", "contradictions", "symptom_guidance",
	}
	for _, key := range wantKeys {
		if _, ok := asMap[key]; !ok {
			t.Errorf("fallback output missing key %q", key)
		}
	}

	if insight.InsightNudge.Title != "Keep tracking" {
		t.Errorf("nudge title = %q, want %q", insight.InsightNudge.Title, "Keep tracking")
	}
	if insight.DailyNarrative != "" {
		t.Errorf("empty context should yield empty narrative, got %q", insight.DailyNarrative)
	}
	if len(insight.CorrelationInsights) != 0 {
		t.Errorf("empty context should yield no correlation insights, got %v", insight.CorrelationInsights)
	}
}

func TestGenerate_CorrelationSentences(t *testing.T) {
	insight := NewFallbackGenerator().Generate(richContext())

	if len(insight.CorrelationInsights) != 2 {
		t.Fatalf("CorrelationInsights len = %d, want 2", len(insight.CorrelationInsights))
	}
	want := "On days with drinking alcohol, you tend to report more headache within 2 days."
	if insight.CorrelationInsights[0] != want {
		t.Errorf("first sentence = %q, want %q", insight.CorrelationInsights[0], want)
	}
	if !strings.Contains(insight.CorrelationInsights[1], "less fatigue the same day") {
		t.Errorf("second sentence = %q, want mention of less fatigue the same day", insight.CorrelationInsights[1])
	}
}

func TestGenerate_HelpsHurtsAndContradictions(t *testing.T) {
	ictx := richContext()
	// A factor cutting both ways across symptoms
	ictx.Correlations = append(ictx.Correlations, models.CorrelationRecord{
		Factor: models.FactorAlcohol, Symptom: "anxiety",
		Direction: models.DirectionNegative, Confidence: 0.6,
		EffectSizePct: -20, Occurrences: 6, TotalOpportunities: 10, LagDays: 1,
	})

	insight := NewFallbackGenerator().Generate(ictx)

	if len(insight.HelpsHurts.Hurts) != 1 || insight.HelpsHurts.Hurts[0] != "drinking alcohol" {
		t.Errorf("Hurts = %v, want [drinking alcohol]", insight.HelpsHurts.Hurts)
	}
	foundAlcoholHelp := false
	for _, label := range insight.HelpsHurts.Helps {
		if label == "drinking alcohol" {
			foundAlcoholHelp = true
		}
	}
	if !foundAlcoholHelp {
		t.Errorf("Helps = %v, should include drinking alcohol", insight.HelpsHurts.Helps)
	}

	if len(insight.Contradictions) != 1 {
		t.Fatalf("Contradictions len = %d, want 1", len(insight.Contradictions))
	}
	if !strings.Contains(insight.Contradictions[0], "mixed effects") {
		t.Errorf("contradiction = %q, want mention of mixed effects", insight.Contradictions[0])
	}
}

func TestGenerate_SymptomGuidance(t *testing.T) {
	insight := NewFallbackGenerator().Generate(richContext())

	guidance, ok := insight.SymptomGuidance["headache"]
	if !ok {
		t.Fatalf("SymptomGuidance missing headache, got keys %v", keys(insight.SymptomGuidance))
	}
	if len(guidance.RelatedFactors) != 1 || guidance.RelatedFactors[0] != "drinking alcohol" {
		t.Errorf("RelatedFactors = %v, want [drinking alcohol]", guidance.RelatedFactors)
	}
	if len(guidance.Recommendations) == 0 {
		t.Error("guidance should carry at least one recommendation")
	}
}

func TestGenerate_NarrativeAndStory(t *testing.T) {
	insight := NewFallbackGenerator().Generate(richContext())

	if !strings.Contains(insight.DailyNarrative, "7.5 hours") {
		t.Errorf("narrative = %q, want sleep mention", insight.DailyNarrative)
	}
	if !strings.Contains(insight.WeeklyStory, "average score over the last 3 days") {
		t.Errorf("story = %q, want average mention", insight.WeeklyStory)
	}
	// Scores are newest first: 80 vs 70 means trending up
	if !strings.Contains(insight.WeeklyStory, "trending up") {
		t.Errorf("story = %q, want upward trend", insight.WeeklyStory)
	}
	if !strings.Contains(insight.Forecast, "headache") {
		t.Errorf("forecast = %q, want headache mention", insight.Forecast)
	}
	if insight.InsightNudge.Title != "Pattern worth watching" {
		t.Errorf("nudge title = %q, want %q", insight.InsightNudge.Title, "Pattern worth watching")
	}
}

func keys(m map[string]models.SymptomGuidance) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
