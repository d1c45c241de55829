// ABOUTME: Safety and delivery agent persisting screened insights idempotently
// ABOUTME: Legacy projections are best-effort write-through shims, never fatal
package insight

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tracewell/tracewell/internal/logging"
	"github.com/tracewell/tracewell/internal/models"
	"github.com/tracewell/tracewell/internal/storage"
)

// Provenance carries generation metadata into the stored record
type Provenance struct {
	Source           string
	FailureReason    string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	LatencyMS        int64
	PipelineVersion  string
}

// Projection is a legacy write-through destination. Failures are logged and
// swallowed; projections are compatibility shims, not sources of truth.
type Projection interface {
	Name() string
	Apply(rec *models.StoredInsightRecord) error
}

// DeliveryAgent screens, truncates, and persists insights
type DeliveryAgent struct {
	store       *storage.Store
	projections []Projection
}

// NewDeliveryAgent creates a delivery agent with the given legacy projections
func NewDeliveryAgent(store *storage.Store, projections ...Projection) *DeliveryAgent {
	return &DeliveryAgent{store: store, projections: projections}
}

// DefaultProjections returns the standard legacy write-through set
func DefaultProjections(store *storage.Store) []Projection {
	return []Projection{
		&ScoreRecommendationProjection{store: store},
		&WeeklyStoryProjection{store: store},
	}
}

// Deliver screens the insight, enforces display budgets, and upserts one
// record per (user, date). Running it twice for the same key overwrites in
// place and never creates a second row.
func (d *DeliveryAgent) Deliver(userID, date string, ins *models.Insight, prov Provenance) (*models.StoredInsightRecord, error) {
	log := logging.WithUser(userID, date)

	ins.EnsureDefaults()

	status, matched := Screen(ins)
	if status == models.StatusFlagged {
		log.WithField("phrases", matched).Warn("insight flagged for prohibited language")
	}

	ApplyBudgets(ins)

	payload, err := json.Marshal(ins)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize insight: %w", err)
	}

	rec := &models.StoredInsightRecord{
		UserID:           userID,
		Date:             date,
		Payload:          string(payload),
		Narrative:        ins.DailyNarrative,
		Story:            ins.WeeklyStory,
		Forecast:         ins.Forecast,
		NudgeTitle:       ins.InsightNudge.Title,
		NudgeBody:        ins.InsightNudge.Body,
		Source:           prov.Source,
		FailureReason:    prov.FailureReason,
		PromptTokens:     prov.PromptTokens,
		CompletionTokens: prov.CompletionTokens,
		TotalTokens:      prov.TotalTokens,
		LatencyMS:        prov.LatencyMS,
		PipelineVersion:  prov.PipelineVersion,
		Status:           status,
		ComputedAt:       time.Now(),
	}

	if err := d.store.UpsertInsight(rec); err != nil {
		return nil, fmt.Errorf("failed to store insight: %w", err)
	}

	for _, projection := range d.projections {
		if err := projection.Apply(rec); err != nil {
			log.WithField("projection", projection.Name()).WithError(err).
				Warn("legacy projection write failed")
		}
	}

	return rec, nil
}

// ScoreRecommendationProjection copies the nudge text into the legacy
// recommendation field on the score-of-the-day row
type ScoreRecommendationProjection struct {
	store *storage.Store
}

// Name identifies the projection in logs
func (p *ScoreRecommendationProjection) Name() string { return "score_recommendation" }

// Apply writes the recommendation text for the record's date
func (p *ScoreRecommendationProjection) Apply(rec *models.StoredInsightRecord) error {
	text := rec.NudgeBody
	if text == "" {
		text = rec.Narrative
	}
	if text == "" {
		return nil
	}
	return p.store.SetScoreRecommendation(rec.UserID, rec.Date, text)
}

// WeeklyStoryProjection copies the weekly narrative into the legacy
// weekly-story table, keyed by the Monday of the record's week
type WeeklyStoryProjection struct {
	store *storage.Store
}

// Name identifies the projection in logs
func (p *WeeklyStoryProjection) Name() string { return "weekly_story" }

// Apply writes the weekly story for the record's week
func (p *WeeklyStoryProjection) Apply(rec *models.StoredInsightRecord) error {
	if rec.Story == "" {
		return nil
	}
	return p.store.UpsertWeeklyStory(rec.UserID, WeekStart(rec.Date), rec.Story)
}

// NoopProjection ignores every write; used when legacy destinations are retired
type NoopProjection struct{}

// Name identifies the projection in logs
func (p *NoopProjection) Name() string { return "noop" }

// Apply discards the record
func (p *NoopProjection) Apply(*models.StoredInsightRecord) error { return nil }

// WeekStart returns the Monday of the week containing date
func WeekStart(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(models.DateLayout)
}
