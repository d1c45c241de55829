// ABOUTME: Deterministic template-based insight generator, no external calls
// ABOUTME: Produces the same shape as the reasoning adapter so downstream code is source-agnostic
package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tracewell/tracewell/internal/models"
)

// FallbackGenerator builds insights from string templates driven only by the
// context snapshot. It is the pipeline's correctness backstop and must
// handle an empty context without failing.
type FallbackGenerator struct{}

// NewFallbackGenerator creates a new FallbackGenerator
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

// Generate produces an Insight with every required key populated
func (g *FallbackGenerator) Generate(ictx *models.InsightContext) *models.Insight {
	insight := &models.Insight{}
	insight.EnsureDefaults()

	g.addCorrelationInsights(insight, ictx)
	g.addHelpsHurts(insight, ictx)
	g.addSymptomGuidance(insight, ictx)
	g.addContradictions(insight)
	insight.DailyNarrative = g.dailyNarrative(ictx)
	insight.WeeklyStory = g.weeklyStory(ictx)
	insight.Forecast = g.forecast(ictx)
	insight.InsightNudge = g.nudge(ictx)

	return insight
}

func (g *FallbackGenerator) addCorrelationInsights(insight *models.Insight, ictx *models.InsightContext) {
	for i, c := range ictx.Correlations {
		if i >= 5 {
			break
		}
		verb := "more"
		if c.Direction == models.DirectionNegative {
			verb = "less"
		}
		when := "the same day"
		if c.LagDays == 1 {
			when = "the next day"
		} else if c.LagDays > 1 {
			when = fmt.Sprintf("within %d days", c.LagDays)
		}
		insight.CorrelationInsights = append(insight.CorrelationInsights,
			fmt.Sprintf("On days with %s, you tend to report %s %s %s.",
				models.FactorLabel(c.Factor), verb, c.Symptom, when))
	}
}

func (g *FallbackGenerator) addHelpsHurts(insight *models.Insight, ictx *models.InsightContext) {
	seenHelp := map[string]bool{}
	seenHurt := map[string]bool{}
	for _, c := range ictx.Correlations {
		label := models.FactorLabel(c.Factor)
		if c.Direction == models.DirectionNegative && !seenHelp[label] {
			seenHelp[label] = true
			insight.HelpsHurts.Helps = append(insight.HelpsHurts.Helps, label)
		}
		if c.Direction == models.DirectionPositive && !seenHurt[label] {
			seenHurt[label] = true
			insight.HelpsHurts.Hurts = append(insight.HelpsHurts.Hurts, label)
		}
	}
}

func (g *FallbackGenerator) addSymptomGuidance(insight *models.Insight, ictx *models.InsightContext) {
	bySymptom := map[string][]models.CorrelationRecord{}
	for _, c := range ictx.Correlations {
		bySymptom[c.Symptom] = append(bySymptom[c.Symptom], c)
	}

	for symptom, records := range bySymptom {
		var related []string
		var recommendations []string
		for _, c := range records {
			label := models.FactorLabel(c.Factor)
			related = append(related, label)
			if c.Direction == models.DirectionPositive {
				recommendations = append(recommendations,
					fmt.Sprintf("Consider noting how %s days line up with your %s.", label, symptom))
			} else {
				recommendations = append(recommendations,
					fmt.Sprintf("Days with %s appear gentler on your %s, which may be worth keeping up.", label, symptom))
			}
		}
		sort.Strings(related)
		insight.SymptomGuidance[symptom] = models.SymptomGuidance{
			Explanation: fmt.Sprintf("Your %s appears linked to %s in your tracked data.",
				symptom, strings.Join(related, " and ")),
			Recommendations: recommendations,
			RelatedFactors:  related,
		}
	}
}

// addContradictions flags factors that appear on both the helps and hurts lists
func (g *FallbackGenerator) addContradictions(insight *models.Insight) {
	hurts := map[string]bool{}
	for _, label := range insight.HelpsHurts.Hurts {
		hurts[label] = true
	}
	for _, label := range insight.HelpsHurts.Helps {
		if hurts[label] {
			insight.Contradictions = append(insight.Contradictions,
				fmt.Sprintf("%s shows mixed effects across your symptoms, so its impact may depend on other conditions.",
					capitalize(label)))
		}
	}
}

func (g *FallbackGenerator) dailyNarrative(ictx *models.InsightContext) string {
	var parts []string
	if ictx.Today.SleepHours != nil {
		parts = append(parts, fmt.Sprintf("you slept %.1f hours", *ictx.Today.SleepHours))
	}
	if ictx.Today.Mood != nil {
		parts = append(parts, fmt.Sprintf("your mood was %d", *ictx.Today.Mood))
	}
	if ictx.Today.TopSymptom != "" {
		parts = append(parts, fmt.Sprintf("%s was your strongest symptom", ictx.Today.TopSymptom))
	}
	if len(parts) == 0 {
		return ""
	}
	return capitalize(strings.Join(parts, ", ")) + "."
}

func (g *FallbackGenerator) weeklyStory(ictx *models.InsightContext) string {
	if len(ictx.RecentScores) == 0 {
		return ""
	}

	var sum float64
	for _, s := range ictx.RecentScores {
		sum += s.Score
	}
	avg := sum / float64(len(ictx.RecentScores))

	story := fmt.Sprintf("Your average score over the last %d days was %.0f.", len(ictx.RecentScores), avg)

	// Scores arrive newest first
	if len(ictx.RecentScores) >= 2 {
		newest := ictx.RecentScores[0].Score
		oldest := ictx.RecentScores[len(ictx.RecentScores)-1].Score
		switch {
		case newest > oldest:
			story += " Things have been trending up."
		case newest < oldest:
			story += " Things have been trending down slightly."
		default:
			story += " Things have been holding steady."
		}
	}
	return story
}

func (g *FallbackGenerator) forecast(ictx *models.InsightContext) string {
	for _, c := range ictx.Correlations {
		if c.Direction != models.DirectionPositive {
			continue
		}
		when := "the same day"
		if c.LagDays == 1 {
			when = "the following day"
		} else if c.LagDays > 1 {
			when = fmt.Sprintf("within %d days", c.LagDays)
		}
		return fmt.Sprintf("Based on your patterns, %s may show up %s after days with %s.",
			c.Symptom, when, models.FactorLabel(c.Factor))
	}
	if len(ictx.RecentLogs) > 0 {
		return "Keep logging consistently and clearer patterns should emerge over the coming days."
	}
	return ""
}

func (g *FallbackGenerator) nudge(ictx *models.InsightContext) models.Nudge {
	for _, c := range ictx.Correlations {
		if c.Direction == models.DirectionPositive {
			label := models.FactorLabel(c.Factor)
			return models.Nudge{
				Title: "Pattern worth watching",
				Body: fmt.Sprintf("Your data links %s with %s. Noting those days may help you stay ahead of it.",
					label, c.Symptom),
			}
		}
	}
	return models.Nudge{
		Title: "Keep tracking",
		Body:  "Log your days regularly so clearer patterns can emerge from your data.",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
