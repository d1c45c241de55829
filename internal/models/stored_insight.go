// ABOUTME: StoredInsightRecord is the persisted form of a delivered insight
// ABOUTME: One row per (user, date), upserted on every pipeline run
package models

import "time"

// Insight sources
const (
	SourceReasoning = "reasoning"
	SourceFallback  = "fallback"
)

// Insight statuses
const (
	StatusComplete = "complete"
	StatusFlagged  = "flagged"
)

// StoredInsightRecord holds the raw insight payload, derived display fields,
// and provenance metadata for one (user, date)
type StoredInsightRecord struct {
	UserID           string    `json:"user_id"`
	Date             string    `json:"date"`
	Payload          string    `json:"payload"`
	Narrative        string    `json:"narrative"`
	Story            string    `json:"story"`
	Forecast         string    `json:"forecast"`
	NudgeTitle       string    `json:"nudge_title"`
	NudgeBody        string    `json:"nudge_body"`
	Source           string    `json:"source"`
	FailureReason    string    `json:"failure_reason,omitempty"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	LatencyMS        int64     `json:"latency_ms"`
	PipelineVersion  string    `json:"pipeline_version"`
	Status           string    `json:"status"`
	ComputedAt       time.Time `json:"computed_at"`
}
