// ABOUTME: Cross-correlation engine mining day-vectors for lagged factor→symptom relationships
// ABOUTME: Fixed candidate lags with support, consistency, and baseline-switch gates
package correlation

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tracewell/tracewell/internal/models"
)

// Significance gates and the baseline-rate switch. These values are tuned
// against the downstream narrative thresholds; do not adjust independently.
const (
	minOccurrences     = 5
	minConsistency     = 0.6
	baselineSwitchRate = 0.05
)

// DefaultMinLogDates is the default minimum distinct log dates for a user
// to be included in a correlation run
const DefaultMinLogDates = 14

// candidateLags are the day offsets searched between factor and symptom
var candidateLags = []int{0, 1, 2, 3, 5, 7}

// Engine computes correlation records from day-vectors
type Engine struct {
	now func() time.Time
}

// NewEngine creates a new correlation engine
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// lagStats accumulates counts for one (factor, symptom, lag) combination
type lagStats struct {
	occurrences        int
	totalOpportunities int
	symptomWithout     int
	daysWithout        int
}

// Analyze mines every observed (factor, symptom) pair for its strongest
// qualifying lag. Pairs with no qualifying lag produce no record.
func (e *Engine) Analyze(userID string, vectors map[string]models.DayVector) []models.CorrelationRecord {
	if len(vectors) == 0 {
		return nil
	}

	dates := make([]string, 0, len(vectors))
	factors := map[string]bool{}
	symptoms := map[string]bool{}
	for date, v := range vectors {
		dates = append(dates, date)
		for f := range v.Factors {
			factors[f] = true
		}
		for s := range v.Symptoms {
			symptoms[s] = true
		}
	}
	sort.Strings(dates)

	factorList := sortedKeys(factors)
	symptomList := sortedKeys(symptoms)

	computedAt := e.now()
	var records []models.CorrelationRecord

	for _, factor := range factorList {
		for _, symptom := range symptomList {
			if rec := e.analyzePair(userID, factor, symptom, dates, vectors, computedAt); rec != nil {
				records = append(records, *rec)
			}
		}
	}

	return records
}

// analyzePair evaluates every candidate lag for one pair and keeps the lag
// with the largest absolute effect size, or nil if no lag qualifies
func (e *Engine) analyzePair(userID, factor, symptom string, dates []string, vectors map[string]models.DayVector, computedAt time.Time) *models.CorrelationRecord {
	var best *models.CorrelationRecord

	for _, lag := range candidateLags {
		stats := collectLagStats(factor, symptom, lag, dates, vectors)

		if stats.totalOpportunities == 0 {
			continue
		}
		rateWith := float64(stats.occurrences) / float64(stats.totalOpportunities)

		// Support and within-group consistency gates
		if stats.occurrences < minOccurrences || rateWith < minConsistency {
			continue
		}

		var rateWithout float64
		if stats.daysWithout > 0 {
			rateWithout = float64(stats.symptomWithout) / float64(stats.daysWithout)
		}

		// Near-zero baselines switch to the absolute percentage-point
		// difference to avoid exploding relative ratios
		var effect float64
		if rateWithout > baselineSwitchRate {
			effect = (rateWith - rateWithout) / rateWithout * 100
		} else {
			effect = (rateWith - rateWithout) * 100
		}

		direction := models.DirectionNegative
		if rateWith > rateWithout {
			direction = models.DirectionPositive
		}

		// >= so the longest qualifying lag wins ties: consecutive tracking
		// days make short lags alias the true one with identical stats
		if best == nil || math.Abs(effect) >= math.Abs(best.EffectSizePct) {
			best = &models.CorrelationRecord{
				ID:                 uuid.New().String(),
				UserID:             userID,
				Factor:             factor,
				Symptom:            symptom,
				Direction:          direction,
				Confidence:         rateWith,
				EffectSizePct:      effect,
				Occurrences:        stats.occurrences,
				TotalOpportunities: stats.totalOpportunities,
				LagDays:            lag,
				ComputedAt:         computedAt,
			}
		}
	}

	return best
}

// collectLagStats counts symptom occurrences lag days after each
// factor-present and factor-absent date. A date with no data at the offset
// counts as symptom-absent.
func collectLagStats(factor, symptom string, lag int, dates []string, vectors map[string]models.DayVector) lagStats {
	var stats lagStats
	for _, date := range dates {
		v := vectors[date]
		target := addDays(date, lag)
		symptomPresent := vectors[target].Symptoms[symptom]

		if v.Factors[factor] {
			stats.totalOpportunities++
			if symptomPresent {
				stats.occurrences++
			}
		} else {
			stats.daysWithout++
			if symptomPresent {
				stats.symptomWithout++
			}
		}
	}
	return stats
}

// addDays shifts a calendar date string by n days
func addDays(date string, n int) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(models.DateLayout)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
