// ABOUTME: Day-vector builder turning raw tracking rows into per-day presence maps
// ABOUTME: Pure transform, shared merge rule with the context aggregator
package correlation

import (
	"sort"
	"strings"

	"github.com/tracewell/tracewell/internal/models"
)

// Sleep duration thresholds in hours
const (
	sleepUnderThreshold = 6.0
	sleepOverThreshold  = 7.0
)

// tagCategories maps raw context tags to canonical factor names
var tagCategories = map[string]string{
	"exercise":    models.FactorExercised,
	"exercised":   models.FactorExercised,
	"workout":     models.FactorExercised,
	"alcohol":     models.FactorAlcohol,
	"drinks":      models.FactorAlcohol,
	"caffeine":    models.FactorCaffeine,
	"coffee":      models.FactorCaffeine,
	"stress":      models.FactorHighStress,
	"high-stress": models.FactorHighStress,
	"high_stress": models.FactorHighStress,
	"social":      models.FactorSocial,
	"socialized":  models.FactorSocial,
}

// MergeDayLogs collapses multiple same-day log rows into one summary.
// Scalars take the most recently-seen non-null value, tags are unioned,
// and symptom severities are merged via max.
func MergeDayLogs(date string, rows []models.DailyLogRow) models.DaySummary {
	summary := models.DaySummary{
		Date:     date,
		Tags:     []string{},
		Symptoms: map[string]float64{},
	}

	sorted := make([]models.DailyLogRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LoggedAt.Before(sorted[j].LoggedAt)
	})

	seenTags := map[string]bool{}
	for _, row := range sorted {
		if row.SleepHours != nil {
			v := *row.SleepHours
			summary.SleepHours = &v
		}
		if row.Mood != nil {
			v := *row.Mood
			summary.Mood = &v
		}
		for _, tag := range row.Tags {
			normalized := strings.ToLower(strings.TrimSpace(tag))
			if normalized == "" || seenTags[normalized] {
				continue
			}
			seenTags[normalized] = true
			summary.Tags = append(summary.Tags, normalized)
		}
		for symptom, severity := range row.Symptoms {
			key := strings.ToLower(strings.TrimSpace(symptom))
			if key == "" {
				continue
			}
			if severity > summary.Symptoms[key] {
				summary.Symptoms[key] = severity
			}
		}
	}

	return summary
}

// CollapseByDate groups log rows by calendar date and merges each group,
// returning summaries ordered oldest first
func CollapseByDate(logs []models.DailyLogRow) []models.DaySummary {
	byDate := map[string][]models.DailyLogRow{}
	for _, row := range logs {
		byDate[row.Date] = append(byDate[row.Date], row)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	summaries := make([]models.DaySummary, 0, len(dates))
	for _, date := range dates {
		summaries = append(summaries, MergeDayLogs(date, byDate[date]))
	}
	return summaries
}

// BuildDayVectors turns raw log, intake, and cycle rows into per-day
// boolean factor/symptom presence maps keyed by date
func BuildDayVectors(logs []models.DailyLogRow, intakes []models.MedicationIntakeRow, cycles []models.CycleEventRow) map[string]models.DayVector {
	vectors := map[string]models.DayVector{}

	periodDates := map[string]bool{}
	for _, event := range cycles {
		if event.Kind == models.CycleKindPeriod {
			periodDates[event.Date] = true
		}
	}

	// Period days mark every tracked date, whether the vector comes from
	// a log row or an intake-only date
	vectorFor := func(date string) models.DayVector {
		v, ok := vectors[date]
		if !ok {
			v = models.NewDayVector(date)
			if periodDates[date] {
				v.Factors[models.FactorPeriodDay] = true
			}
			vectors[date] = v
		}
		return v
	}

	for _, summary := range CollapseByDate(logs) {
		v := vectorFor(summary.Date)

		if summary.SleepHours != nil {
			switch {
			case *summary.SleepHours < sleepUnderThreshold:
				v.Factors[models.FactorSleepUnder6h] = true
			case *summary.SleepHours >= sleepOverThreshold:
				v.Factors[models.FactorSleepOver7h] = true
			}
		}

		for _, tag := range summary.Tags {
			if factor, ok := tagCategories[tag]; ok {
				v.Factors[factor] = true
			}
		}

		for symptom, severity := range summary.Symptoms {
			if severity > 0 {
				v.Symptoms[symptom] = true
			}
		}
	}

	for _, intake := range intakes {
		if intake.Status != models.IntakeTaken {
			continue
		}
		v := vectorFor(intake.Date)
		v.Factors[MedFactorName(intake.MedicationName)] = true
	}

	return vectors
}

// MedFactorName derives a factor name from a medication name
func MedFactorName(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	return models.MedFactorPrefix + b.String()
}
