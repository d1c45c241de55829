// ABOUTME: Tests for the idempotent delivery agent and legacy projections
// ABOUTME: One row per (user, date), flagged-not-discarded, best-effort write-throughs
package insight

import (
	"errors"
	"strings"
	"testing"

	"github.com/tracewell/tracewell/internal/models"
	"github.com/tracewell/tracewell/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleInsight(narrative string) *models.Insight {
	ins := &models.Insight{
		DailyNarrative: narrative,
		WeeklyStory:    "A steady week overall.",
		InsightNudge:   models.Nudge{Title: "Keep tracking", Body: "Log your days regularly."},
	}
	ins.EnsureDefaults()
	return ins
}

func TestDeliver_IdempotentPerUserDate(t *testing.T) {
	store := newTestStore(t)
	agent := NewDeliveryAgent(store)

	prov := Provenance{Source: models.SourceReasoning, PipelineVersion: "v1"}

	if _, err := agent.Deliver("usr_1", "2026-08-30", sampleInsight("First run."), prov); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if _, err := agent.Deliver("usr_1", "2026-08-30", sampleInsight("Second run."), prov); err != nil {
		t.Fatalf("Deliver() second call error = %v", err)
	}

	count, err := store.CountInsights("usr_1")
	if err != nil {
		t.Fatalf("CountInsights() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountInsights() = %d, want 1 after repeated delivery", count)
	}

	rec, err := store.GetInsight("usr_1", "2026-08-30")
	if err != nil {
		t.Fatalf("GetInsight() error = %v", err)
	}
	if rec == nil || rec.Narrative != "Second run." {
		t.Errorf("stored narrative = %v, want the later delivery to win", rec)
	}
}

func TestDeliver_FlaggedInsightIsStoredNotDiscarded(t *testing.T) {
	store := newTestStore(t)
	agent := NewDeliveryAgent(store)

	ins := sampleInsight("Your data suggests you likely have a deficiency.")
	rec, err := agent.Deliver("usr_1", "2026-08-30", ins, Provenance{Source: models.SourceReasoning})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if rec.Status != models.StatusFlagged {
		t.Errorf("Status = %q, want %q", rec.Status, models.StatusFlagged)
	}

	stored, err := store.GetInsight("usr_1", "2026-08-30")
	if err != nil {
		t.Fatalf("GetInsight() error = %v", err)
	}
	if stored == nil {
		t.Fatal("flagged insight should still be persisted")
	}
	if stored.Status != models.StatusFlagged {
		t.Errorf("stored Status = %q, want %q", stored.Status, models.StatusFlagged)
	}
}

func TestDeliver_AppliesBudgetsBeforeStoring(t *testing.T) {
	store := newTestStore(t)
	agent := NewDeliveryAgent(store)

	ins := sampleInsight("One. Two. Three. Four.")
	ins.InsightNudge.Title = "one two three four five six seven"

	rec, err := agent.Deliver("usr_1", "2026-08-30", ins, Provenance{Source: models.SourceFallback})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if rec.Narrative != "One. Two." {
		t.Errorf("Narrative = %q, want %q", rec.Narrative, "One. Two.")
	}
	if got := len(strings.Fields(rec.NudgeTitle)); got != 6 {
		t.Errorf("NudgeTitle words = %d, want 6", got)
	}
}

func TestDeliver_ProjectionsWriteThrough(t *testing.T) {
	store := newTestStore(t)

	// The score row the recommendation projection writes into
	if err := store.SaveScore(&models.ScoreRow{UserID: "usr_1", Date: "2026-08-30", Score: 72}); err != nil {
		t.Fatalf("SaveScore() error = %v", err)
	}

	agent := NewDeliveryAgent(store, DefaultProjections(store)...)
	if _, err := agent.Deliver("usr_1", "2026-08-30", sampleInsight("A good day."), Provenance{Source: models.SourceReasoning}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	score, err := store.ScoreForDate("usr_1", "2026-08-30")
	if err != nil {
		t.Fatalf("ScoreForDate() error = %v", err)
	}
	if score == nil || score.Recommendation != "Log your days regularly." {
		t.Errorf("recommendation = %v, want nudge body written through", score)
	}

	story, err := store.GetWeeklyStory("usr_1", WeekStart("2026-08-30"))
	if err != nil {
		t.Fatalf("GetWeeklyStory() error = %v", err)
	}
	if story != "A steady week overall." {
		t.Errorf("weekly story = %q, want write-through", story)
	}
}

// failingProjection always errors to prove delivery survives it
type failingProjection struct{}

func (p *failingProjection) Name() string { return "failing" }
func (p *failingProjection) Apply(*models.StoredInsightRecord) error {
	return errors.New("legacy table unavailable")
}

func TestDeliver_ProjectionFailureIsSwallowed(t *testing.T) {
	store := newTestStore(t)
	agent := NewDeliveryAgent(store, &failingProjection{})

	if _, err := agent.Deliver("usr_1", "2026-08-30", sampleInsight("Fine."), Provenance{Source: models.SourceReasoning}); err != nil {
		t.Fatalf("Deliver() error = %v, projection failures must not surface", err)
	}

	rec, err := store.GetInsight("usr_1", "2026-08-30")
	if err != nil {
		t.Fatalf("GetInsight() error = %v", err)
	}
	if rec == nil {
		t.Error("insight should be stored despite the projection failure")
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-08-30", "2026-08-24"}, // Sunday -> prior Monday
		{"2026-08-24", "2026-08-24"}, // Monday maps to itself
		{"2026-08-26", "2026-08-24"}, // midweek
	}

	for _, tt := range tests {
		if got := WeekStart(tt.date); got != tt.want {
			t.Errorf("WeekStart(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
