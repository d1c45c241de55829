// ABOUTME: DayVector is the boolean per-day presence map of factors and symptoms
// ABOUTME: Ephemeral intermediate built fresh on each correlation run, never persisted
package models

import "strings"

// Factor names derived from tracking data
const (
	FactorSleepUnder6h = "sleep_under_6h"
	FactorSleepOver7h  = "sleep_over_7h"
	FactorExercised    = "exercised"
	FactorAlcohol      = "alcohol"
	FactorCaffeine     = "caffeine"
	FactorHighStress   = "high_stress"
	FactorSocial       = "social"
	FactorPeriodDay    = "period_day"
)

// MedFactorPrefix prefixes factors derived from medication intakes
const MedFactorPrefix = "med_"

// DayVector holds which factors and symptoms were present on one calendar day
type DayVector struct {
	Date     string          `json:"date"`
	Factors  map[string]bool `json:"factors"`
	Symptoms map[string]bool `json:"symptoms"`
}

// NewDayVector creates an empty DayVector for a date
func NewDayVector(date string) DayVector {
	return DayVector{
		Date:     date,
		Factors:  make(map[string]bool),
		Symptoms: make(map[string]bool),
	}
}

// FactorLabel turns a factor name into readable text for narratives and prompts
func FactorLabel(factor string) string {
	if strings.HasPrefix(factor, MedFactorPrefix) {
		return "taking " + strings.ReplaceAll(strings.TrimPrefix(factor, MedFactorPrefix), "_", " ")
	}
	switch factor {
	case FactorSleepUnder6h:
		return "sleeping under 6 hours"
	case FactorSleepOver7h:
		return "sleeping over 7 hours"
	case FactorExercised:
		return "exercising"
	case FactorAlcohol:
		return "drinking alcohol"
	case FactorCaffeine:
		return "caffeine"
	case FactorHighStress:
		return "high stress"
	case FactorSocial:
		return "socializing"
	case FactorPeriodDay:
		return "period days"
	}
	return strings.ReplaceAll(factor, "_", " ")
}
