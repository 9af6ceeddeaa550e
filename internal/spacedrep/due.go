package spacedrep

import (
	"math"
	"time"
)

// MaxDueScore is the priority of a question never answered correctly.
const MaxDueScore = 1.0

// IntervalExponent scales mastery into the doubling exponent, so the
// optimal interval spans 1 day (mastery 0) to 32 days (mastery 1).
const IntervalExponent = 5.0

// OptimalIntervalDays returns the review interval for a mastery score.
func OptimalIntervalDays(mastery float64) float64 {
	if mastery < 0 {
		mastery = 0
	}
	if mastery > 1 {
		mastery = 1
	}
	return math.Pow(2, mastery*IntervalExponent)
}

// DueScore returns the review priority of a question. Higher means more
// overdue. A zero lastCorrect (never answered correctly) scores
// MaxDueScore; otherwise the score is elapsed days over the optimal
// interval, capped at MaxDueScore.
func DueScore(lastCorrect time.Time, mastery float64, now time.Time) float64 {
	if lastCorrect.IsZero() {
		return MaxDueScore
	}
	return min(Overdue(lastCorrect, mastery, now), MaxDueScore)
}

// Overdue returns elapsed days since lastCorrect over the optimal
// interval, uncapped. A question reviewed exactly on schedule scores 1.
func Overdue(lastCorrect time.Time, mastery float64, now time.Time) float64 {
	days := now.Sub(lastCorrect).Hours() / 24
	if days < 0 {
		days = 0
	}
	return days / OptimalIntervalDays(mastery)
}

// NextReview returns when a question answered correctly at lastCorrect
// becomes due for the given mastery.
func NextReview(lastCorrect time.Time, mastery float64) time.Time {
	interval := time.Duration(OptimalIntervalDays(mastery) * 24 * float64(time.Hour))
	return lastCorrect.Add(interval)
}
