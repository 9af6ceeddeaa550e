package learner

import (
	"context"
	"testing"

	"github.com/abhisek/adaptiq/internal/question"
	"github.com/abhisek/adaptiq/internal/session"
)

func mcq(id string, d float64) question.Question {
	return question.Question{
		ID:              id,
		Prompt:          id,
		Options:         []question.Option{{ID: "a", Text: "a"}, {ID: "b", Text: "b"}},
		CorrectOptionID: "a",
		Difficulty:      d,
	}
}

func TestExpectedAccuracy(t *testing.T) {
	l := New(Profile{Ability: 0.6}, 1)
	if got := l.ExpectedAccuracy(0.6); got != 0.5 {
		t.Errorf("even match accuracy = %v, want 0.5", got)
	}
	if l.ExpectedAccuracy(0.1) <= l.ExpectedAccuracy(0.9) {
		t.Error("easier questions should be more likely correct")
	}
}

func TestRespond_Deterministic(t *testing.T) {
	a := New(Profile{Ability: 0.5, Calibration: 0.7}, 42)
	b := New(Profile{Ability: 0.5, Calibration: 0.7}, 42)
	for i := range 50 {
		q := mcq("q", float64(i%10)/10)
		if x, y := a.Respond(q), b.Respond(q); x != y {
			t.Fatalf("response %d differs: %+v vs %+v", i, x, y)
		}
	}
}

func TestRespond_Ranges(t *testing.T) {
	l := New(Profile{Ability: 0.3}, 9)
	for i := range 200 {
		a := l.Respond(mcq("q", float64(i%11)/10))
		if a.Confidence < 0 || a.Confidence > 1 {
			t.Fatalf("confidence %v out of range", a.Confidence)
		}
		if a.TimeSpentSecs <= 0 {
			t.Fatalf("time spent %v should be positive", a.TimeSpentSecs)
		}
		if a.OptionID != "a" && a.OptionID != "b" {
			t.Fatalf("unknown option %q", a.OptionID)
		}
	}
}

func TestRespond_StrongLearnerMostlyRight(t *testing.T) {
	l := New(Profile{Ability: 1}, 3)
	right := 0
	for range 100 {
		if l.Respond(mcq("q", 0)).OptionID == "a" {
			right++
		}
	}
	if right < 95 {
		t.Errorf("strong learner got %d/100 easy questions right", right)
	}
}

func TestRun_Completes(t *testing.T) {
	bank := question.StaticSource{mcq("q1", 0.2), mcq("q2", 0.4), mcq("q3", 0.6), mcq("q4", 0.8)}
	l := New(Profile{Ability: 0.5}, 5)
	cfg := session.DefaultConfig()
	cfg.MaxQuestions = 3

	r, err := l.Run(context.Background(), bank, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if r.Answered() != 3 {
		t.Errorf("answered %d, want 3", r.Answered())
	}
	if r.Score > r.Answered() {
		t.Errorf("score %d exceeds answered %d", r.Score, r.Answered())
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := New(Profile{Ability: 0.5}, 5)
	if _, err := l.Run(ctx, question.FileSource{Path: "does-not-matter.json"}, session.DefaultConfig()); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}
