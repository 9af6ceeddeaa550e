package session

import (
	"context"

	"github.com/abhisek/adaptiq/internal/question"
)

// Phase represents the lifecycle stage of a session.
type Phase int

const (
	PhaseLoading  Phase = iota // Waiting for the question bank
	PhaseActive                // Serving questions
	PhaseComplete              // Terminal until Reset
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// BankSource supplies the question bank for a session. FetchBank is the
// only blocking call the controller makes.
type BankSource interface {
	FetchBank(ctx context.Context) ([]question.Question, error)
}

// BankSourceFunc adapts a function to BankSource.
type BankSourceFunc func(ctx context.Context) ([]question.Question, error)

// FetchBank calls f.
func (f BankSourceFunc) FetchBank(ctx context.Context) ([]question.Question, error) {
	return f(ctx)
}

// Config holds the per-session tunables.
type Config struct {
	// InitialDifficulty is the starting target difficulty.
	InitialDifficulty float64 `mapstructure:"initial_difficulty" validate:"gte=0,lte=1"`

	// MaxQuestions caps the number of answers in a session.
	MaxQuestions int `mapstructure:"max_questions" validate:"gte=1"`

	// SpacedRepetition prioritizes overdue questions over proximity sampling.
	SpacedRepetition bool `mapstructure:"spaced_repetition"`

	// AutoAdvance moves to the next question inside Submit.
	AutoAdvance bool `mapstructure:"auto_advance"`
}

const (
	DefaultInitialDifficulty = 0.5
	DefaultMaxQuestions      = 10
)

// DefaultConfig returns the standard session configuration.
func DefaultConfig() Config {
	return Config{
		InitialDifficulty: DefaultInitialDifficulty,
		MaxQuestions:      DefaultMaxQuestions,
		SpacedRepetition:  true,
	}
}

// normalized replaces out-of-range values with defaults.
func (c Config) normalized() Config {
	if c.InitialDifficulty < 0 || c.InitialDifficulty > 1 || c.InitialDifficulty != c.InitialDifficulty {
		c.InitialDifficulty = DefaultInitialDifficulty
	}
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = DefaultMaxQuestions
	}
	return c
}

// State is a snapshot of the mutable session fields.
type State struct {
	Phase Phase

	// Difficulty is the current target difficulty.
	Difficulty float64

	// Skill is the running skill estimate.
	Skill float64

	ConsecutiveCorrect   int
	ConsecutiveIncorrect int

	// Answered holds the IDs submitted this session.
	Answered map[string]bool

	// Mastery maps concept to mastery score.
	Mastery map[string]float64

	// Score is the count of correct answers.
	Score int

	// CurrentIndex indexes the sorted session bank; -1 when no question
	// is being served.
	CurrentIndex int
}

// Complete reports whether the session has finished.
func (s State) Complete() bool {
	return s.Phase == PhaseComplete
}
