// ABOUTME: InsightContext is the per-user per-day snapshot fed to insight generation
// ABOUTME: Assembled on demand by the context aggregator, never persisted
package models

// MedicationAdherence is an active medication with its trailing adherence rate
type MedicationAdherence struct {
	Name         string  `json:"name"`
	AdherencePct float64 `json:"adherence_pct"`
	DaysTracked  int     `json:"days_tracked"`
}

// DaySummary is one calendar day's merged tracking data
type DaySummary struct {
	Date       string             `json:"date"`
	SleepHours *float64           `json:"sleep_hours,omitempty"`
	Mood       *int               `json:"mood,omitempty"`
	Tags       []string           `json:"tags"`
	Symptoms   map[string]float64 `json:"symptoms"`
}

// CycleSummary condenses recent cycle/bleeding events
type CycleSummary struct {
	PeriodDates []string `json:"period_dates"`
	Stage       string   `json:"stage,omitempty"`
}

// TodaySnapshot reduces today's own logs and score to the essentials
type TodaySnapshot struct {
	SleepHours  *float64 `json:"sleep_hours,omitempty"`
	Mood        *int     `json:"mood,omitempty"`
	TopSymptom  string   `json:"top_symptom,omitempty"`
	TopSeverity float64  `json:"top_severity,omitempty"`
	Score       *float64 `json:"score,omitempty"`
}

// InsightContext is the read-only snapshot for one (user, date)
type InsightContext struct {
	UserID       string                `json:"user_id"`
	Date         string                `json:"date"`
	Profile      *Profile              `json:"profile,omitempty"`
	Correlations []CorrelationRecord   `json:"correlations"`
	Medications  []MedicationAdherence `json:"medications"`
	RecentScores []ScoreRow            `json:"recent_scores"`
	RecentLogs   []DaySummary          `json:"recent_logs"`
	Cycle        CycleSummary          `json:"cycle"`
	Today        TodaySnapshot         `json:"today"`
}

// IsEmpty reports whether the context carries no usable signal at all
func (c *InsightContext) IsEmpty() bool {
	return len(c.Correlations) == 0 && len(c.RecentLogs) == 0 &&
		len(c.RecentScores) == 0 && c.Today.Score == nil &&
		c.Today.SleepHours == nil && c.Today.TopSymptom == ""
}
