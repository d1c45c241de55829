// ABOUTME: Safety screen and word/sentence budget enforcement for insights
// ABOUTME: Flagging never discards a record, it only marks it for review
package insight

import (
	"encoding/json"
	"strings"

	"github.com/tracewell/tracewell/internal/models"
)

// prohibitedPhrases are scanned against the entire serialized insight.
// Diagnostic assertions, medication directives, and prescribing language.
var prohibitedPhrases = []string{
	"you have been diagnosed",
	"diagnosed with",
	"you are suffering from",
	"this indicates you have",
	"you likely have",
	"you probably have",
	"stop taking",
	"start taking",
	"increase your dose",
	"decrease your dose",
	"discontinue your",
	"you should take",
	"i prescribe",
	"prescription for",
}

// Display field budgets, enforced regardless of source since the reasoning
// service is not trusted to self-enforce its contract
const (
	dailyMaxSentences    = 2
	dailyMaxWords        = 45
	weeklyMaxSentences   = 3
	weeklyMaxWords       = 60
	forecastMaxSentences = 2
	forecastMaxWords     = 40
	nudgeTitleMaxWords   = 6
	nudgeBodyMaxWords    = 30
)

// Screen scans the serialized insight for prohibited medical language and
// returns the resulting status plus any matched phrases
func Screen(ins *models.Insight) (string, []string) {
	serialized, err := json.Marshal(ins)
	if err != nil {
		// Unserializable insight cannot be screened; flag for review
		return models.StatusFlagged, nil
	}

	text := strings.ToLower(string(serialized))
	var matched []string
	for _, phrase := range prohibitedPhrases {
		if strings.Contains(text, phrase) {
			matched = append(matched, phrase)
		}
	}

	if len(matched) > 0 {
		return models.StatusFlagged, matched
	}
	return models.StatusComplete, nil
}

// ApplyBudgets truncates the display fields to their word and sentence
// limits in place
func ApplyBudgets(ins *models.Insight) {
	ins.DailyNarrative = TruncateBudget(ins.DailyNarrative, dailyMaxSentences, dailyMaxWords)
	ins.WeeklyStory = TruncateBudget(ins.WeeklyStory, weeklyMaxSentences, weeklyMaxWords)
	ins.Forecast = TruncateBudget(ins.Forecast, forecastMaxSentences, forecastMaxWords)
	ins.InsightNudge.Title = TruncateWords(ins.InsightNudge.Title, nudgeTitleMaxWords)
	ins.InsightNudge.Body = TruncateWords(ins.InsightNudge.Body, nudgeBodyMaxWords)
}

// TruncateBudget applies a sentence cap then a word cap
func TruncateBudget(s string, maxSentences, maxWords int) string {
	return TruncateWords(TruncateSentences(s, maxSentences), maxWords)
}

// TruncateSentences keeps at most n sentences, splitting on terminal punctuation
func TruncateSentences(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	count := 0
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				return strings.TrimSpace(s[:i+1])
			}
		}
	}
	return s
}

// TruncateWords keeps at most n whitespace-separated words
func TruncateWords(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}
