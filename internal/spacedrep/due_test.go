package spacedrep

import (
	"math"
	"testing"
	"time"
)

func TestOptimalIntervalDays(t *testing.T) {
	tests := []struct {
		mastery float64
		want    float64
	}{
		{0, 1},
		{0.2, 2},
		{0.5, math.Pow(2, 2.5)},
		{1, 32},
		{-1, 1},
		{2, 32},
	}
	for _, tt := range tests {
		got := OptimalIntervalDays(tt.mastery)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("OptimalIntervalDays(%v) = %v, want %v", tt.mastery, got, tt.want)
		}
	}
}

func TestDueScore_NeverCorrect(t *testing.T) {
	if got := DueScore(time.Time{}, 0.9, time.Now()); got != MaxDueScore {
		t.Errorf("DueScore(zero) = %v, want %v", got, MaxDueScore)
	}
}

func TestDueScore_Elapsed(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

	// mastery 0 → 1 day interval; 3 days elapsed → 3, capped at 1.
	if got := Overdue(now.Add(-72*time.Hour), 0, now); math.Abs(got-3) > 1e-9 {
		t.Errorf("Overdue = %v, want 3", got)
	}
	if got := DueScore(now.Add(-72*time.Hour), 0, now); got != MaxDueScore {
		t.Errorf("DueScore = %v, want %v", got, MaxDueScore)
	}

	// mastery 1 → 32 day interval; 8 days elapsed → 0.25.
	if got := DueScore(now.Add(-8*24*time.Hour), 1, now); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("DueScore = %v, want 0.25", got)
	}

	// Future stamps count as just reviewed.
	if got := DueScore(now.Add(time.Hour), 0.5, now); got != 0 {
		t.Errorf("DueScore(future) = %v, want 0", got)
	}
}

func TestDueScore_RecentCorrectBelowNeverCorrect(t *testing.T) {
	now := time.Now()
	recent := DueScore(now.Add(-time.Hour), 0.5, now)
	if recent >= MaxDueScore {
		t.Errorf("recently answered question scored %v, should be below never-answered", recent)
	}
}

func TestNextReview(t *testing.T) {
	last := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := NextReview(last, 0.2)
	want := last.Add(48 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("NextReview = %v, want %v", got, want)
	}
}
