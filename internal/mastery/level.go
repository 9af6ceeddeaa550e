package mastery

// Level buckets a mastery score for display.
type Level string

const (
	LevelStruggling Level = "struggling"
	LevelLearning   Level = "learning"
	LevelProficient Level = "proficient"
	LevelMastered   Level = "mastered"
)

// LevelFor maps a mastery score into a display level.
func LevelFor(score float64) Level {
	switch {
	case score >= 0.9:
		return LevelMastered
	case score >= 0.7:
		return LevelProficient
	case score >= 0.4:
		return LevelLearning
	default:
		return LevelStruggling
	}
}

// Transition records a concept's mastery change from a single answer.
type Transition struct {
	Concept string
	From    float64
	To      float64
}

// LevelChanged reports whether the answer moved the concept across a
// display level boundary.
func (t *Transition) LevelChanged() bool {
	return LevelFor(t.From) != LevelFor(t.To)
}
