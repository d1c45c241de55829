// ABOUTME: Tests for exponential backoff used by the reasoning client
// ABOUTME: Validates growth, the 30s cap, and jitter bounds
package util

import (
	"testing"
	"time"
)

func TestCalculateBackoff_ZeroAttempt(t *testing.T) {
	if result := CalculateBackoff(time.Second, 0); result != 0 {
		t.Errorf("expected 0 for attempt 0, got %v", result)
	}
}

func TestCalculateBackoff_NegativeAttemptReturnsZero(t *testing.T) {
	if result := CalculateBackoff(time.Second, -3); result != 0 {
		t.Errorf("expected 0 for negative attempt, got %v", result)
	}
}

func TestCalculateBackoff_ExponentialGrowth(t *testing.T) {
	baseDelay := 100 * time.Millisecond

	for attempt := 1; attempt <= 5; attempt++ {
		// Expected base: 2^attempt * 100ms, jitter keeps it within ±25%
		expectedBase := baseDelay * time.Duration(1<<uint(attempt))
		minExpected := expectedBase * 3 / 4
		maxExpected := expectedBase * 5 / 4

		result := CalculateBackoff(baseDelay, attempt)
		if result < minExpected || result > maxExpected {
			t.Errorf("attempt %d: expected backoff between %v and %v, got %v",
				attempt, minExpected, maxExpected, result)
		}
	}
}

func TestCalculateBackoff_CapsAt30Seconds(t *testing.T) {
	// Attempt 10 would give 2^10 * 1s = 1024s without the cap
	result := CalculateBackoff(time.Second, 10)

	maxAllowed := 37500 * time.Millisecond // 30s + 25% jitter
	if result > maxAllowed {
		t.Errorf("expected backoff <= %v, got %v", maxAllowed, result)
	}
}

func TestCalculateBackoff_HighAttemptDoesNotOverflow(t *testing.T) {
	result := CalculateBackoff(time.Millisecond, 200)

	maxAllowed := 37500 * time.Millisecond
	if result > maxAllowed {
		t.Errorf("expected backoff <= %v for high attempt, got %v", maxAllowed, result)
	}
	if result < 0 {
		t.Error("backoff should never be negative")
	}
}

func TestCalculateBackoff_JitterVaries(t *testing.T) {
	baseDelay := time.Second
	attempt := 2 // 4s base, jitter bounds 3s to 5s

	var results []time.Duration
	for i := 0; i < 100; i++ {
		results = append(results, CalculateBackoff(baseDelay, attempt))
	}

	allSame := true
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("jitter should produce varying results, but all samples were identical")
	}

	for i, r := range results {
		if r < 3*time.Second || r > 5*time.Second {
			t.Errorf("sample %d: expected between 3s and 5s, got %v", i, r)
		}
	}
}
