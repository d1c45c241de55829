// ABOUTME: Insight is the generation output shared by the reasoning service and the fallback generator
// ABOUTME: Both sources must produce the same shape so downstream code is source-agnostic
package models

// Nudge is a short actionable suggestion
type Nudge struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// HelpsHurts lists factors that appear to help or hurt the user
type HelpsHurts struct {
	Helps []string `json:"helps"`
	Hurts []string `json:"hurts"`
}

// SymptomGuidance explains one symptom and what seems to drive it
type SymptomGuidance struct {
	Explanation     string   `json:"explanation"`
	Recommendations []string `json:"recommendations"`
	RelatedFactors  []string `json:"related_factors"`
}

// Insight is the full interpretation of a user's current state
type Insight struct {
	CorrelationInsights []string                   `json:"correlation_insights"`
	DailyNarrative      string                     `json:"daily_narrative"`
	WeeklyStory         string                     `json:"weekly_story"`
	Forecast            string                     `json:"forecast"`
	InsightNudge        Nudge                      `json:"insight_nudge"`
	HelpsHurts          HelpsHurts                 `json:"helps_hurts"`
	Contradictions      []string                   `json:"contradictions"`
	SymptomGuidance     map[string]SymptomGuidance `json:"symptom_guidance"`
}

// EnsureDefaults replaces nil collections with empty ones so every top-level
// key is present regardless of what the reasoning service returned
func (i *Insight) EnsureDefaults() {
	if i.CorrelationInsights == nil {
		i.CorrelationInsights = []string{}
	}
	if i.HelpsHurts.Helps == nil {
		i.HelpsHurts.Helps = []string{}
	}
	if i.HelpsHurts.Hurts == nil {
		i.HelpsHurts.Hurts = []string{}
	}
	if i.Contradictions == nil {
		i.Contradictions = []string{}
	}
	if i.SymptomGuidance == nil {
		i.SymptomGuidance = map[string]SymptomGuidance{}
	}
	for symptom, g := range i.SymptomGuidance {
		if g.Recommendations == nil {
			g.Recommendations = []string{}
		}
		if g.RelatedFactors == nil {
			g.RelatedFactors = []string{}
		}
		i.SymptomGuidance[symptom] = g
	}
}
