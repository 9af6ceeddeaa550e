package mastery

import "sort"

const (
	// DefaultMastery is the score a concept starts at on first encounter.
	DefaultMastery = 0.5

	// Step is the per-answer adjustment.
	Step = 0.1
)

// Tracker maintains a mastery score (0.0-1.0) per concept tag.
type Tracker struct {
	concepts map[string]float64
}

// NewTracker creates a tracker seeded at DefaultMastery for each concept.
func NewTracker(concepts ...string) *Tracker {
	t := &Tracker{concepts: make(map[string]float64, len(concepts))}
	t.Seed(concepts...)
	return t
}

// Seed sets DefaultMastery for concepts not yet tracked.
func (t *Tracker) Seed(concepts ...string) {
	for _, c := range concepts {
		if c == "" {
			continue
		}
		if _, ok := t.concepts[c]; !ok {
			t.concepts[c] = DefaultMastery
		}
	}
}

// Update applies an answer for concept and returns the resulting
// transition. An empty concept is a no-op and returns nil.
func (t *Tracker) Update(concept string, correct bool) *Transition {
	if concept == "" {
		return nil
	}
	before, ok := t.concepts[concept]
	if !ok {
		before = DefaultMastery
	}
	after := Apply(before, correct)
	t.concepts[concept] = after

	return &Transition{
		Concept: concept,
		From:    before,
		To:      after,
	}
}

// Get returns the mastery for concept, or DefaultMastery if unknown.
func (t *Tracker) Get(concept string) float64 {
	if v, ok := t.concepts[concept]; ok {
		return v
	}
	return DefaultMastery
}

// Known reports whether concept has been seeded or updated.
func (t *Tracker) Known(concept string) bool {
	_, ok := t.concepts[concept]
	return ok
}

// Snapshot returns a copy of the concept→mastery map.
func (t *Tracker) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(t.concepts))
	for k, v := range t.concepts {
		out[k] = v
	}
	return out
}

// Concepts returns the tracked concept names sorted alphabetically.
func (t *Tracker) Concepts() []string {
	out := make([]string, 0, len(t.concepts))
	for k := range t.concepts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Reset clears all concepts and reseeds the given ones.
func (t *Tracker) Reset(concepts ...string) {
	t.concepts = make(map[string]float64, len(concepts))
	t.Seed(concepts...)
}

// Apply returns the mastery after one answer, clamped to [0, 1].
func Apply(current float64, correct bool) float64 {
	if correct {
		return clamp(current+Step, 0, 1)
	}
	return clamp(current-Step, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
