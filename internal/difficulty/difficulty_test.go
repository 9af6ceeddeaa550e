package difficulty

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestAdjust_FastConfidentCorrect(t *testing.T) {
	// 0.1 * 1.0 * min(30/10, 2) = 0.2
	got := Adjust(Input{Current: 0.3, Correct: true, Confidence: 1.0, TimeSpentSecs: 10, ConsecutiveCorrect: 1})
	if math.Abs(got-0.5) > eps {
		t.Errorf("Adjust = %v, want 0.5", got)
	}
}

func TestAdjust_IncorrectStreakAmplifies(t *testing.T) {
	first := Factor(false, 0.5, 30, 0, 1)
	second := Factor(false, 0.5, 30, 0, 2)

	if math.Abs(first-0.075) > eps {
		t.Errorf("first factor = %v, want 0.075", first)
	}
	if math.Abs(second-0.07875) > eps {
		t.Errorf("second factor = %v, want 0.07875", second)
	}
	if second <= first {
		t.Error("second wrong answer should move difficulty further")
	}
}

func TestFactor(t *testing.T) {
	tests := []struct {
		name       string
		correct    bool
		confidence float64
		timeSecs   float64
		cc, ci     int
		want       float64
	}{
		{"neutral correct", true, 1.0, 30, 1, 0, 0.1},
		{"low confidence correct", true, 0.0, 30, 1, 0, 0.05},
		{"high confidence incorrect", false, 1.0, 30, 0, 1, 0.05},
		{"zero confidence incorrect", false, 0.0, 30, 0, 1, 0.1},
		{"speed boost capped", true, 1.0, 5, 1, 0, 0.2},
		{"moderate speed boost", true, 1.0, 20, 1, 0, 0.15},
		{"slow correct not scaled", true, 1.0, 120, 1, 0, 0.1},
		{"slow incorrect damped", false, 0.0, 45, 0, 1, 0.1 * (30.0 / 45.0)},
		{"very slow incorrect floored", false, 0.0, 600, 0, 1, 0.05},
		{"fast incorrect not scaled", false, 0.0, 5, 0, 1, 0.1},
		{"correct streak of three", true, 1.0, 30, 3, 0, 0.1 * 1.1},
		{"opposite streak ignored", true, 1.0, 30, 1, 5, 0.1},
		{"instant answer counts as fast", true, 1.0, 0, 1, 0, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Factor(tt.correct, tt.confidence, tt.timeSecs, tt.cc, tt.ci)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("Factor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjust_StaysInBounds(t *testing.T) {
	currents := []float64{-5, 0, 0.05, 0.5, 0.95, 1, 7}
	confidences := []float64{-1, 0, 0.5, 1, 3}
	times := []float64{-10, 0, 0.001, 30, 1e6}
	streaks := []int{0, 1, 2, 50, 1000}

	for _, c := range currents {
		for _, conf := range confidences {
			for _, ts := range times {
				for _, s := range streaks {
					for _, correct := range []bool{true, false} {
						got := AdjustWith(c, correct, conf, ts, s, s)
						if got < 0 || got > 1 || math.IsNaN(got) {
							t.Fatalf("AdjustWith(%v,%v,%v,%v,%d) = %v out of [0,1]", c, correct, conf, ts, s, got)
						}
					}
				}
			}
		}
	}
}

func TestAdjust_Direction(t *testing.T) {
	up := Adjust(Input{Current: 0.5, Correct: true, Confidence: 0.5, TimeSpentSecs: 30, ConsecutiveCorrect: 1})
	down := Adjust(Input{Current: 0.5, Correct: false, Confidence: 0.5, TimeSpentSecs: 30, ConsecutiveIncorrect: 1})
	if up <= 0.5 {
		t.Errorf("correct answer should raise difficulty, got %v", up)
	}
	if down >= 0.5 {
		t.Errorf("incorrect answer should lower difficulty, got %v", down)
	}
}
