package difficulty

import "math"

const (
	// BaseFactor is the unscaled step applied after every answer.
	BaseFactor = 0.1

	// StreakBonus is the per-answer amplification once a streak reaches
	// MinStreak.
	StreakBonus = 0.05

	// MinStreak is the streak length at which amplification starts.
	MinStreak = 2

	// AverageTimeSecs is the assumed average response time.
	AverageTimeSecs = 30.0

	// MaxSpeedBoost caps the speed multiplier for fast correct answers.
	MaxSpeedBoost = 2.0

	// MinSlowDamping floors the multiplier for slow incorrect answers.
	MinSlowDamping = 0.5
)

// Input is everything the adapter needs to compute the next target.
// Streak counters must already include the answer being adjusted for.
type Input struct {
	Current              float64
	Correct              bool
	Confidence           float64
	TimeSpentSecs        float64
	ConsecutiveCorrect   int
	ConsecutiveIncorrect int
}

// Adjust returns the next target difficulty in [0, 1].
func Adjust(in Input) float64 {
	return AdjustWith(in.Current, in.Correct, in.Confidence, in.TimeSpentSecs, in.ConsecutiveCorrect, in.ConsecutiveIncorrect)
}

// AdjustWith is Adjust with positional arguments.
func AdjustWith(current float64, correct bool, confidence, timeSpentSecs float64, consecutiveCorrect, consecutiveIncorrect int) float64 {
	factor := Factor(correct, confidence, timeSpentSecs, consecutiveCorrect, consecutiveIncorrect)
	current = clamp(current, 0, 1)
	if correct {
		return math.Min(current+factor, 1)
	}
	return math.Max(current-factor, 0)
}

// Factor computes the magnitude of the difficulty step.
func Factor(correct bool, confidence, timeSpentSecs float64, consecutiveCorrect, consecutiveIncorrect int) float64 {
	confidence = clamp(confidence, 0, 1)
	factor := BaseFactor

	streak := consecutiveIncorrect
	if correct {
		streak = consecutiveCorrect
	}
	if streak >= MinStreak {
		factor *= 1 + StreakBonus*float64(streak-1)
	}

	if correct {
		factor *= 0.5 + confidence*0.5
	} else {
		factor *= 0.5 + (1-confidence)*0.5
	}

	ratio := timeRatio(timeSpentSecs)
	switch {
	case correct && ratio > 1:
		factor *= math.Min(ratio, MaxSpeedBoost)
	case !correct && ratio < 1:
		factor *= math.Max(ratio, MinSlowDamping)
	}

	return factor
}

// timeRatio is AverageTimeSecs / timeSpent. Instant answers count as
// infinitely fast.
func timeRatio(timeSpentSecs float64) float64 {
	if timeSpentSecs <= 0 || math.IsNaN(timeSpentSecs) {
		return math.Inf(1)
	}
	return AverageTimeSecs / timeSpentSecs
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
