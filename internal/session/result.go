package session

import (
	"sort"
	"time"

	"github.com/abhisek/adaptiq/internal/ledger"
	"github.com/abhisek/adaptiq/internal/mastery"
)

// Result is handed to the completion callback when a session ends.
type Result struct {
	SessionID string
	Learner   string
	StartedAt time.Time
	EndedAt   time.Time

	Config Config

	Score           int
	FinalDifficulty float64
	Skill           float64

	// Records is the full ledger in answer order.
	Records []ledger.AnsweredRecord

	// Mastery is the final concept mastery map.
	Mastery map[string]float64

	// Stamps holds LastCorrectAt for every question answered correctly
	// in this or an earlier session.
	Stamps map[string]time.Time
}

// ConceptResult is one concept's final standing.
type ConceptResult struct {
	Concept string
	Mastery float64
	Level   mastery.Level
}

// Answered returns the number of submitted answers.
func (r *Result) Answered() int {
	return len(r.Records)
}

// Accuracy returns Score over answers, or 0 for an empty session.
func (r *Result) Accuracy() float64 {
	if len(r.Records) == 0 {
		return 0
	}
	return float64(r.Score) / float64(len(r.Records))
}

// Duration returns the wall time between start and completion.
func (r *Result) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Concepts returns the mastery results sorted by concept name.
func (r *Result) Concepts() []ConceptResult {
	out := make([]ConceptResult, 0, len(r.Mastery))
	for c, v := range r.Mastery {
		out = append(out, ConceptResult{Concept: c, Mastery: v, Level: mastery.LevelFor(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Concept < out[j].Concept })
	return out
}
