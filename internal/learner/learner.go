// Package learner simulates a learner answering multiple-choice questions.
// It drives sessions in the simulate command and in engine tests.
package learner

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/abhisek/adaptiq/internal/question"
	"github.com/abhisek/adaptiq/internal/session"
)

const (
	// DefaultSteepness scales the ability/difficulty gap before the sigmoid.
	DefaultSteepness = 8.0

	// DefaultAverageSecs is the response time at an even match.
	DefaultAverageSecs = 30.0
)

// Profile describes a simulated learner.
type Profile struct {
	// Ability is the latent skill on the difficulty scale (0.0-1.0).
	Ability float64

	// Steepness controls how sharply accuracy falls with difficulty.
	Steepness float64

	// AverageSecs is the typical response time.
	AverageSecs float64

	// Calibration is how closely declared confidence follows the true
	// probability of being right (0 = random, 1 = exact).
	Calibration float64
}

// Answer is one simulated response.
type Answer struct {
	OptionID      string
	Confidence    float64
	TimeSpentSecs float64
}

// Learner answers questions according to a Profile.
type Learner struct {
	profile Profile
	rng     *rand.Rand
}

// New creates a learner with a deterministic random stream for seed.
func New(p Profile, seed uint64) *Learner {
	if p.Steepness <= 0 {
		p.Steepness = DefaultSteepness
	}
	if p.AverageSecs <= 0 {
		p.AverageSecs = DefaultAverageSecs
	}
	p.Calibration = math.Max(0, math.Min(1, p.Calibration))
	return &Learner{
		profile: p,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Profile returns the learner's profile.
func (l *Learner) Profile() Profile {
	return l.profile
}

// ExpectedAccuracy is the probability the learner answers a question of
// the given difficulty correctly.
func (l *Learner) ExpectedAccuracy(difficulty float64) float64 {
	x := (l.profile.Ability - difficulty) * l.profile.Steepness
	return 1.0 / (1.0 + math.Exp(-x))
}

// Respond produces an answer for q.
func (l *Learner) Respond(q question.Question) Answer {
	p := l.ExpectedAccuracy(q.Difficulty)
	correct := l.rng.Float64() < p

	optionID := q.CorrectOptionID
	if !correct || optionID == "" {
		optionID = l.wrongOption(q)
	}

	conf := l.profile.Calibration*p + (1-l.profile.Calibration)*l.rng.Float64()

	// Harder questions relative to ability take longer; jitter ±25%.
	secs := l.profile.AverageSecs * (1.5 - p) * (0.75 + 0.5*l.rng.Float64())

	return Answer{OptionID: optionID, Confidence: conf, TimeSpentSecs: secs}
}

func (l *Learner) wrongOption(q question.Question) string {
	var wrong []string
	for _, o := range q.Options {
		if o.ID != q.CorrectOptionID {
			wrong = append(wrong, o.ID)
		}
	}
	if len(wrong) == 0 {
		return ""
	}
	return wrong[l.rng.IntN(len(wrong))]
}

// Run loads src into a new controller and answers until it completes.
func (l *Learner) Run(ctx context.Context, src session.BankSource, cfg session.Config, opts ...session.Option) (session.Result, error) {
	cfg.AutoAdvance = false
	c := session.New(cfg, opts...)
	if err := c.Load(ctx, src); err != nil {
		return session.Result{}, err
	}
	for c.Phase() == session.PhaseActive {
		if err := ctx.Err(); err != nil {
			return c.Result(), err
		}
		q, ok := c.Current()
		if !ok {
			break
		}
		a := l.Respond(q)
		c.SubmitTimed(a.OptionID, a.Confidence, a.TimeSpentSecs)
		c.Advance()
	}
	return c.Result(), nil
}
