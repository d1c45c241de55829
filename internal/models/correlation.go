// ABOUTME: CorrelationRecord is a lagged, directional factor→symptom relationship
// ABOUTME: Fully replaced per user on each correlation run, no history retained
package models

import (
	"fmt"
	"math"
	"time"
)

// Correlation directions
const (
	DirectionPositive = "positive"
	DirectionNegative = "negative"
)

// CorrelationRecord describes how strongly a factor's presence predicts a
// symptom's presence lagDays later
type CorrelationRecord struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Factor             string    `json:"factor"`
	Symptom            string    `json:"symptom"`
	Direction          string    `json:"direction"`
	Confidence         float64   `json:"confidence"`
	EffectSizePct      float64   `json:"effect_size_pct"`
	Occurrences        int       `json:"occurrences"`
	TotalOpportunities int       `json:"total_opportunities"`
	LagDays            int       `json:"lag_days"`
	ComputedAt         time.Time `json:"computed_at"`
}

// Validate checks the record's internal consistency
func (r *CorrelationRecord) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("correlation record missing user ID")
	}
	if r.Factor == "" || r.Symptom == "" {
		return fmt.Errorf("correlation record missing factor or symptom")
	}
	if r.Direction != DirectionPositive && r.Direction != DirectionNegative {
		return fmt.Errorf("invalid direction %q", r.Direction)
	}
	if r.Occurrences > r.TotalOpportunities {
		return fmt.Errorf("occurrences %d exceeds opportunities %d", r.Occurrences, r.TotalOpportunities)
	}
	if r.TotalOpportunities > 0 {
		want := float64(r.Occurrences) / float64(r.TotalOpportunities)
		if math.Abs(r.Confidence-want) > 1e-9 {
			return fmt.Errorf("confidence %f does not equal occurrences/opportunities %f", r.Confidence, want)
		}
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %f out of range [0,1]", r.Confidence)
	}
	return nil
}
