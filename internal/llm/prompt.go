// ABOUTME: Serializes an InsightContext into reasoning-service prompts
// ABOUTME: System prompt carries the strict JSON output contract and safety rules
package llm

import (
	"fmt"
	"strings"

	"github.com/tracewell/tracewell/internal/models"
)

// SystemPrompt is the instruction and output contract sent with every request
const SystemPrompt = `You are a health-tracking interpretation assistant. Given a user's tracked data, produce a short, supportive interpretation of their current state.

Return ONLY a raw JSON object with exactly these keys. No markdown, no code fences, no additional text.

{
  "correlation_insights": ["plain-language sentence per notable relationship"],
  "daily_narrative": "at most 2 sentences / 45 words about today",
  "weekly_story": "at most 3 sentences / 60 words about the week",
  "forecast": "at most 2 sentences / 40 words looking ahead",
  "insight_nudge": {"title": "at most 6 words", "body": "at most 30 words"},
  "helps_hurts": {"helps": ["factor"], "hurts": ["factor"]},
  "contradictions": ["sentence per conflicting pattern, if any"],
  "symptom_guidance": {"symptom": {"explanation": "...", "recommendations": ["..."], "related_factors": ["..."]}}
}

Rules:
- Never state or imply a medical diagnosis.
- Never instruct the user to start, stop, or change any medication.
- Describe patterns in the data, not causes. Use hedged language ("tends to", "appears to").
- If the data is sparse, say so briefly and encourage continued tracking.`

// BuildUserPrompt serializes the context snapshot into prompt sections
func BuildUserPrompt(ictx *models.InsightContext) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("DATE: %s", ictx.Date))

	if ictx.Profile != nil {
		var sb strings.Builder
		sb.WriteString("PROFILE:\n")
		if ictx.Profile.Name != "" {
			sb.WriteString(fmt.Sprintf("Name: %s\n", ictx.Profile.Name))
		}
		if ictx.Profile.Age != nil {
			sb.WriteString(fmt.Sprintf("Age: %d\n", *ictx.Profile.Age))
		}
		if len(ictx.Profile.Conditions) > 0 {
			sb.WriteString(fmt.Sprintf("Tracked conditions: %s\n", strings.Join(ictx.Profile.Conditions, ", ")))
		}
		if len(ictx.Profile.Goals) > 0 {
			sb.WriteString(fmt.Sprintf("Goals: %s\n", strings.Join(ictx.Profile.Goals, ", ")))
		}
		sections = append(sections, sb.String())
	}

	if len(ictx.Correlations) > 0 {
		var sb strings.Builder
		sb.WriteString("DISCOVERED RELATIONSHIPS (strongest first):\n")
		for _, c := range ictx.Correlations {
			sb.WriteString(fmt.Sprintf("- %s\n", DescribeCorrelation(&c)))
		}
		sections = append(sections, sb.String())
	}

	if len(ictx.Medications) > 0 {
		var sb strings.Builder
		sb.WriteString("ACTIVE MEDICATIONS:\n")
		for _, m := range ictx.Medications {
			sb.WriteString(fmt.Sprintf("- %s (adherence %.0f%% over %d days)\n", m.Name, m.AdherencePct, m.DaysTracked))
		}
		sections = append(sections, sb.String())
	}

	if len(ictx.RecentScores) > 0 {
		var sb strings.Builder
		sb.WriteString("RECENT SCORES (newest first):\n")
		for _, s := range ictx.RecentScores {
			sb.WriteString(fmt.Sprintf("- %s: %.1f\n", s.Date, s.Score))
		}
		sections = append(sections, sb.String())
	}

	if len(ictx.RecentLogs) > 0 {
		var sb strings.Builder
		sb.WriteString("RECENT DAYS:\n")
		for _, day := range ictx.RecentLogs {
			sb.WriteString(fmt.Sprintf("- %s:", day.Date))
			if day.SleepHours != nil {
				sb.WriteString(fmt.Sprintf(" sleep %.1fh", *day.SleepHours))
			}
			if day.Mood != nil {
				sb.WriteString(fmt.Sprintf(" mood %d", *day.Mood))
			}
			if len(day.Tags) > 0 {
				sb.WriteString(" tags " + strings.Join(day.Tags, ","))
			}
			for symptom, severity := range day.Symptoms {
				sb.WriteString(fmt.Sprintf(" %s=%.0f", symptom, severity))
			}
			sb.WriteString("\n")
		}
		sections = append(sections, sb.String())
	}

	if len(ictx.Cycle.PeriodDates) > 0 || ictx.Cycle.Stage != "" {
		var sb strings.Builder
		sb.WriteString("CYCLE:\n")
		if len(ictx.Cycle.PeriodDates) > 0 {
			sb.WriteString(fmt.Sprintf("Period days: %s\n", strings.Join(ictx.Cycle.PeriodDates, ", ")))
		}
		if ictx.Cycle.Stage != "" {
			sb.WriteString(fmt.Sprintf("Current stage: %s\n", ictx.Cycle.Stage))
		}
		sections = append(sections, sb.String())
	}

	var today strings.Builder
	today.WriteString("TODAY:\n")
	if ictx.Today.SleepHours != nil {
		today.WriteString(fmt.Sprintf("Sleep: %.1fh\n", *ictx.Today.SleepHours))
	}
	if ictx.Today.Mood != nil {
		today.WriteString(fmt.Sprintf("Mood: %d\n", *ictx.Today.Mood))
	}
	if ictx.Today.TopSymptom != "" {
		today.WriteString(fmt.Sprintf("Top symptom: %s (severity %.0f)\n", ictx.Today.TopSymptom, ictx.Today.TopSeverity))
	}
	if ictx.Today.Score != nil {
		today.WriteString(fmt.Sprintf("Score: %.1f\n", *ictx.Today.Score))
	}
	sections = append(sections, today.String())

	return strings.Join(sections, "\n")
}

// DescribeCorrelation renders one correlation as a plain-language line
func DescribeCorrelation(c *models.CorrelationRecord) string {
	verb := "increase"
	if c.Direction == models.DirectionNegative {
		verb = "decrease"
	}
	lag := "same day"
	if c.LagDays == 1 {
		lag = "1 day later"
	} else if c.LagDays > 1 {
		lag = fmt.Sprintf("%d days later", c.LagDays)
	}
	return fmt.Sprintf("%s tends to %s %s %s (effect %.0f%%, confidence %.0f%%, seen %d of %d times)",
		models.FactorLabel(c.Factor), verb, c.Symptom, lag,
		c.EffectSizePct, c.Confidence*100, c.Occurrences, c.TotalOpportunities)
}
