package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/adaptiq/internal/difficulty"
	"github.com/abhisek/adaptiq/internal/ledger"
	"github.com/abhisek/adaptiq/internal/logging"
	"github.com/abhisek/adaptiq/internal/mastery"
	"github.com/abhisek/adaptiq/internal/question"
	"github.com/abhisek/adaptiq/internal/selector"
	"github.com/abhisek/adaptiq/internal/skill"
)

// ErrAlreadyLoaded is returned by Load once the bank has been received.
var ErrAlreadyLoaded = errors.New("session already loaded")

// Feedback is the per-answer outcome returned by Submit.
type Feedback struct {
	QuestionID      string
	AnswerID        string
	Correct         bool
	CorrectOptionID string
	Explanation     string

	// Difficulty and Skill are the values after the update.
	Difficulty float64
	Skill      float64

	// Mastery is the concept change, nil when the question has no concept.
	Mastery *mastery.Transition

	// Record is the ledger entry appended for this answer.
	Record ledger.AnsweredRecord

	// Complete is set when the answer ended the session (AutoAdvance only).
	Complete bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for timestamps and response timing.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithRandom sets the random source for weighted selection.
func WithRandom(r selector.RandomSource) Option {
	return func(c *Controller) { c.rand = r }
}

// WithLogger sets the logger for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithOnComplete registers the completion callback.
func WithOnComplete(fn func(Result)) Option {
	return func(c *Controller) { c.onComplete = fn }
}

// WithLearner tags results with a learner name.
func WithLearner(name string) Option {
	return func(c *Controller) { c.learner = name }
}

// WithStamps seeds LastCorrectAt for questions by ID when the bank loads.
func WithStamps(stamps map[string]time.Time) Option {
	return func(c *Controller) { c.stamps = stamps }
}

// Controller runs one adaptive assessment session. It is not safe for
// concurrent use; each session owns its own controller.
type Controller struct {
	cfg        Config
	now        func() time.Time
	rand       selector.RandomSource
	log        *slog.Logger
	onComplete func(Result)
	learner    string
	stamps     map[string]time.Time

	sel     *selector.Selector
	bank    []question.Question
	ledger  *ledger.Ledger
	skill   *skill.Estimator
	mastery *mastery.Tracker

	phase       Phase
	difficulty  float64
	streakRight int
	streakWrong int
	answered    map[string]bool
	score       int
	current     int

	sessionID     string
	startedAt     time.Time
	endedAt       time.Time
	questionStart time.Time
	notified      bool
}

// New creates a controller in the Loading phase.
func New(cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:     cfg.normalized(),
		now:     time.Now,
		phase:   PhaseLoading,
		current: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.Discard()
	}

	selOpts := []selector.Option{selector.WithClock(c.now)}
	if c.rand != nil {
		selOpts = append(selOpts, selector.WithRandom(c.rand))
	}
	c.sel = selector.New(selOpts...)
	c.ledger = ledger.New(c.now)
	c.skill = skill.NewEstimator(skill.DefaultEstimate)
	c.mastery = mastery.NewTracker()
	c.answered = make(map[string]bool)
	c.difficulty = c.cfg.InitialDifficulty
	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// SessionID returns the ID of the current run. It changes on Reset.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Load fetches the bank and starts the session. A fetch error leaves the
// session in the Loading phase so the caller may retry. An empty bank
// completes the session immediately.
func (c *Controller) Load(ctx context.Context, src BankSource) error {
	if c.phase != PhaseLoading {
		return ErrAlreadyLoaded
	}

	qs, err := src.FetchBank(ctx)
	if err != nil {
		return fmt.Errorf("fetch question bank: %w", err)
	}

	c.bank = question.CloneAll(qs)
	question.SortByDifficulty(c.bank)
	for i := range c.bank {
		if ts, ok := c.stamps[c.bank[i].ID]; ok {
			c.bank[i].LastCorrectAt = ts
		}
	}

	c.log.Debug("question bank loaded", "questions", len(c.bank))
	c.start()
	return nil
}

// start initializes a run over the loaded bank.
func (c *Controller) start() {
	c.sessionID = uuid.NewString()
	c.startedAt = c.now()
	c.endedAt = time.Time{}
	c.notified = false
	c.mastery.Reset(question.Concepts(c.bank)...)

	if len(c.bank) == 0 {
		c.complete("empty bank")
		return
	}

	c.phase = PhaseActive
	c.log.Debug("session active", "session_id", c.sessionID)
	c.selectNext()
}

// Submit answers the current question, timing it from when the question
// was served.
func (c *Controller) Submit(answerID string, confidence float64) (Feedback, bool) {
	return c.SubmitTimed(answerID, confidence, c.now().Sub(c.questionStart).Seconds())
}

// SubmitTimed answers the current question with an explicit response time.
// It returns false without changing state when the session is not active
// or the current question was already answered.
func (c *Controller) SubmitTimed(answerID string, confidence, timeSpentSecs float64) (Feedback, bool) {
	if c.phase != PhaseActive || c.current < 0 {
		return Feedback{}, false
	}
	q := &c.bank[c.current]
	if c.answered[q.ID] {
		c.log.Debug("duplicate submission ignored", "question_id", q.ID)
		return Feedback{}, false
	}

	confidence = clampUnit(confidence)
	correct := q.IsCorrect(answerID)
	rec := c.ledger.Record(q.ID, answerID, correct, timeSpentSecs, q.Difficulty, confidence)
	c.answered[q.ID] = true

	if correct {
		c.streakRight++
		c.streakWrong = 0
	} else {
		c.streakWrong++
		c.streakRight = 0
	}

	before := c.difficulty
	c.difficulty = difficulty.Adjust(difficulty.Input{
		Current:              c.difficulty,
		Correct:              correct,
		Confidence:           confidence,
		TimeSpentSecs:        rec.TimeSpentSecs,
		ConsecutiveCorrect:   c.streakRight,
		ConsecutiveIncorrect: c.streakWrong,
	})
	c.skill.Observe(correct, confidence)
	tx := c.mastery.Update(q.Concept, correct)

	if correct {
		q.LastCorrectAt = rec.AnsweredAt
		c.score++
	}

	c.log.Debug("answer recorded",
		"question_id", q.ID,
		"correct", correct,
		"difficulty_from", before,
		"difficulty_to", c.difficulty,
		"skill", c.skill.Value(),
	)

	fb := Feedback{
		QuestionID:      q.ID,
		AnswerID:        answerID,
		Correct:         correct,
		CorrectOptionID: q.CorrectOptionID,
		Explanation:     q.Explanation,
		Difficulty:      c.difficulty,
		Skill:           c.skill.Value(),
		Mastery:         tx,
		Record:          rec,
	}

	if c.cfg.AutoAdvance {
		fb.Complete = c.Advance() == PhaseComplete
	}
	return fb, true
}

// Advance moves past an answered question: it completes the session when
// the question limit is reached or nothing is left to serve, otherwise it
// serves the next question. It is a no-op unless the current question has
// been answered. It returns the resulting phase.
func (c *Controller) Advance() Phase {
	if c.phase != PhaseActive || c.current < 0 || !c.answered[c.bank[c.current].ID] {
		return c.phase
	}
	if len(c.answered) >= c.cfg.MaxQuestions {
		c.complete("question limit reached")
		return c.phase
	}
	c.selectNext()
	return c.phase
}

func (c *Controller) selectNext() {
	choice, ok := c.sel.Next(selector.Request{
		Bank:             c.bank,
		Answered:         c.answered,
		Target:           c.difficulty,
		Mastery:          c.mastery,
		SpacedRepetition: c.cfg.SpacedRepetition,
	})
	if !ok {
		c.complete("bank exhausted")
		return
	}
	c.current = choice.Index
	c.questionStart = c.now()
	c.log.Debug("question served",
		"question_id", c.bank[choice.Index].ID,
		"difficulty", c.bank[choice.Index].Difficulty,
		"target", c.difficulty,
		"reason", string(choice.Reason),
	)
}

func (c *Controller) complete(reason string) {
	c.phase = PhaseComplete
	c.current = -1
	c.endedAt = c.now()
	c.log.Debug("session complete", "session_id", c.sessionID, "reason", reason, "score", c.score)

	if c.onComplete != nil && !c.notified {
		c.notified = true
		c.onComplete(c.Result())
	}
}

// Reset reinitializes every session field to its start value, clears all
// LastCorrectAt stamps and starts a new run over the same bank. It has no
// effect before the bank is loaded.
func (c *Controller) Reset() {
	if c.phase == PhaseLoading {
		return
	}
	for i := range c.bank {
		c.bank[i].LastCorrectAt = time.Time{}
	}
	c.stamps = nil
	c.ledger.Reset()
	c.skill.Reset(skill.DefaultEstimate)
	c.difficulty = c.cfg.InitialDifficulty
	c.streakRight = 0
	c.streakWrong = 0
	c.answered = make(map[string]bool)
	c.score = 0
	c.current = -1

	c.log.Debug("session reset")
	c.start()
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// State returns a snapshot of the session fields.
func (c *Controller) State() State {
	answered := make(map[string]bool, len(c.answered))
	for id := range c.answered {
		answered[id] = true
	}
	return State{
		Phase:                c.phase,
		Difficulty:           c.difficulty,
		Skill:                c.skill.Value(),
		ConsecutiveCorrect:   c.streakRight,
		ConsecutiveIncorrect: c.streakWrong,
		Answered:             answered,
		Mastery:              c.mastery.Snapshot(),
		Score:                c.score,
		CurrentIndex:         c.current,
	}
}

// Current returns a copy of the question being served.
func (c *Controller) Current() (question.Question, bool) {
	if c.phase != PhaseActive || c.current < 0 {
		return question.Question{}, false
	}
	return c.bank[c.current].Clone(), true
}

// Progress returns the number of answers and the question limit.
func (c *Controller) Progress() (answered, limit int) {
	limit = min(c.cfg.MaxQuestions, len(c.bank))
	return len(c.answered), limit
}

// Bank returns a copy of the session's sorted bank.
func (c *Controller) Bank() []question.Question {
	return question.CloneAll(c.bank)
}

// Result builds the completion payload from the current state.
func (c *Controller) Result() Result {
	stamps := make(map[string]time.Time)
	for i := range c.bank {
		if !c.bank[i].LastCorrectAt.IsZero() {
			stamps[c.bank[i].ID] = c.bank[i].LastCorrectAt
		}
	}
	ended := c.endedAt
	if ended.IsZero() {
		ended = c.now()
	}
	return Result{
		SessionID:       c.sessionID,
		Learner:         c.learner,
		StartedAt:       c.startedAt,
		EndedAt:         ended,
		Config:          c.cfg,
		Score:           c.score,
		FinalDifficulty: c.difficulty,
		Skill:           c.skill.Value(),
		Records:         c.ledger.Records(),
		Mastery:         c.mastery.Snapshot(),
		Stamps:          stamps,
	}
}

func clampUnit(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
