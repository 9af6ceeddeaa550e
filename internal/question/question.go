package question

import (
	"sort"
	"time"
)

// Option is a single selectable answer for a question.
type Option struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Question is a multiple-choice question served by an assessment session.
type Question struct {
	// ID uniquely identifies the question within a bank.
	ID string `json:"id" yaml:"id"`

	// Prompt is the question text shown to the learner.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Options are the answer choices in display order.
	Options []Option `json:"options" yaml:"options"`

	// CorrectOptionID is the ID of the correct entry in Options.
	CorrectOptionID string `json:"correct_option_id" yaml:"correct_option_id"`

	// Difficulty is the estimated hardness of the question (0.0-1.0).
	Difficulty float64 `json:"difficulty" yaml:"difficulty"`

	// Concept is the optional concept tag used for mastery tracking.
	Concept string `json:"concept,omitempty" yaml:"concept,omitempty"`

	// Tags are free-form labels (treated as a set).
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Explanation is an optional worked solution shown after answering.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`

	// LastCorrectAt is when the question was last answered correctly.
	// Zero means never. The session engine owns this field.
	LastCorrectAt time.Time `json:"-" yaml:"-"`
}

// IsCorrect reports whether optionID is the correct answer. A question
// without a correct option never accepts an answer.
func (q *Question) IsCorrect(optionID string) bool {
	return q.CorrectOptionID != "" && optionID == q.CorrectOptionID
}

// OptionIndex returns the position of optionID in Options, or -1.
func (q *Question) OptionIndex(optionID string) int {
	for i, o := range q.Options {
		if o.ID == optionID {
			return i
		}
	}
	return -1
}

// HasTag reports whether the question carries tag.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AnsweredCorrectly reports whether the question has a LastCorrectAt stamp.
func (q *Question) AnsweredCorrectly() bool {
	return !q.LastCorrectAt.IsZero()
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	c := q
	if q.Options != nil {
		c.Options = make([]Option, len(q.Options))
		copy(c.Options, q.Options)
	}
	if q.Tags != nil {
		c.Tags = make([]string, len(q.Tags))
		copy(c.Tags, q.Tags)
	}
	return c
}

// CloneAll deep-copies a slice of questions.
func CloneAll(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// SortByDifficulty orders questions by ascending difficulty, keeping the
// original order for equal difficulties.
func SortByDifficulty(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].Difficulty < qs[j].Difficulty
	})
}

// Concepts returns the distinct non-empty concept tags in first-seen order.
func Concepts(qs []Question) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range qs {
		if q.Concept == "" || seen[q.Concept] {
			continue
		}
		seen[q.Concept] = true
		out = append(out, q.Concept)
	}
	return out
}
