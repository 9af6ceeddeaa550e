package selector

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/adaptiq/internal/question"
	"github.com/abhisek/adaptiq/internal/spacedrep"
)

const (
	// Tolerance is the half-width of the candidate window around the
	// target difficulty (exclusive).
	Tolerance = 0.3

	// WeightSmoothing keeps weights finite for exact difficulty matches.
	WeightSmoothing = 0.1
)

// RandomSource produces uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// MasteryLookup returns the mastery score for a concept.
type MasteryLookup interface {
	Get(concept string) float64
}

// Request describes one selection.
type Request struct {
	// Bank is the session's question list in bank order.
	Bank []question.Question

	// Answered holds IDs already served this session.
	Answered map[string]bool

	// Target is the difficulty to aim for.
	Target float64

	// Mastery provides concept mastery for due scores. Nil means every
	// concept is at its default.
	Mastery MasteryLookup

	// SpacedRepetition prioritizes the most overdue candidate instead of
	// sampling by difficulty proximity.
	SpacedRepetition bool
}

// Reason explains why a question was chosen.
type Reason string

const (
	ReasonDue      Reason = "due"
	ReasonWeighted Reason = "weighted"
	ReasonFallback Reason = "closest"
)

// Choice is a selected question index with the rule that produced it.
type Choice struct {
	Index  int
	Reason Reason
}

// Selector picks the next question for a session.
type Selector struct {
	rand RandomSource
	now  func() time.Time
}

// Option configures a Selector.
type Option func(*Selector)

// WithRandom sets the random source for weighted sampling.
func WithRandom(r RandomSource) Option {
	return func(s *Selector) { s.rand = r }
}

// WithClock sets the clock used for due scores.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) { s.now = now }
}

// New creates a Selector. Without options it samples from a randomly
// seeded source and uses the wall clock.
func New(opts ...Option) *Selector {
	s := &Selector{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Next returns the chosen question. ok is false when every question has
// been answered, which callers treat as session completion.
func (s *Selector) Next(req Request) (choice Choice, ok bool) {
	candidates := Candidates(req.Bank, req.Answered, req.Target)

	if len(candidates) == 0 {
		idx := closestUnanswered(req.Bank, req.Answered, req.Target)
		if idx < 0 {
			return Choice{}, false
		}
		return Choice{Index: idx, Reason: ReasonFallback}, true
	}

	if req.SpacedRepetition {
		return Choice{Index: s.mostDue(req, candidates), Reason: ReasonDue}, true
	}
	return Choice{Index: s.weighted(req, candidates), Reason: ReasonWeighted}, true
}

// Candidates returns the bank indices of unanswered questions within
// Tolerance of target, in bank order.
func Candidates(bank []question.Question, answered map[string]bool, target float64) []int {
	var out []int
	for i := range bank {
		if answered[bank[i].ID] {
			continue
		}
		if math.Abs(bank[i].Difficulty-target) < Tolerance {
			out = append(out, i)
		}
	}
	return out
}

// Weight is the sampling weight of a question for target.
func Weight(difficulty, target float64) float64 {
	return 1 / (math.Abs(difficulty-target) + WeightSmoothing)
}

func closestUnanswered(bank []question.Question, answered map[string]bool, target float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i := range bank {
		if answered[bank[i].ID] {
			continue
		}
		if d := math.Abs(bank[i].Difficulty - target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// mostDue prefers the first never-correct candidate, then the reviewed
// candidate with the highest uncapped overdue ratio, then bank order.
func (s *Selector) mostDue(req Request, candidates []int) int {
	now := s.now()
	best := -1
	bestOverdue := math.Inf(-1)
	for _, idx := range candidates {
		q := &req.Bank[idx]
		if q.LastCorrectAt.IsZero() {
			return idx
		}
		overdue := spacedrep.Overdue(q.LastCorrectAt, conceptMastery(req.Mastery, q.Concept), now)
		if best < 0 || overdue > bestOverdue {
			best, bestOverdue = idx, overdue
		}
	}
	return best
}

func (s *Selector) weighted(req Request, candidates []int) int {
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, idx := range candidates {
		weights[i] = Weight(req.Bank[idx].Difficulty, req.Target)
		total += weights[i]
	}

	r := s.rand.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			return candidates[i]
		}
	}
	// Rounding can leave r == total; the wheel wraps to the last slot.
	return candidates[len(candidates)-1]
}

func conceptMastery(m MasteryLookup, concept string) float64 {
	if m == nil || concept == "" {
		return defaultMastery
	}
	return m.Get(concept)
}

const defaultMastery = 0.5
