package ledger

import "time"

// AnsweredRecord captures one submitted answer. Records are immutable
// once appended.
type AnsweredRecord struct {
	QuestionID    string
	AnswerID      string
	Correct       bool
	TimeSpentSecs float64
	Difficulty    float64 // question difficulty at answer time
	Confidence    float64 // learner-declared confidence, 0.0-1.0
	AnsweredAt    time.Time
}

// Ledger is the append-only log of answers in a session.
type Ledger struct {
	records []AnsweredRecord
	now     func() time.Time
}

// New creates an empty ledger stamping records with now.
// A nil now uses time.Now.
func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Record appends an answer and returns the stored record. It performs no
// validation; callers must not record an already-answered question twice.
func (l *Ledger) Record(questionID, answerID string, correct bool, timeSpentSecs, difficulty, confidence float64) AnsweredRecord {
	if timeSpentSecs < 0 {
		timeSpentSecs = 0
	}
	r := AnsweredRecord{
		QuestionID:    questionID,
		AnswerID:      answerID,
		Correct:       correct,
		TimeSpentSecs: timeSpentSecs,
		Difficulty:    difficulty,
		Confidence:    confidence,
		AnsweredAt:    l.now(),
	}
	l.records = append(l.records, r)
	return r
}

// Records returns a copy of all records in answer order.
func (l *Ledger) Records() []AnsweredRecord {
	out := make([]AnsweredRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of recorded answers.
func (l *Ledger) Len() int {
	return len(l.records)
}

// CorrectCount returns the number of correct answers recorded.
func (l *Ledger) CorrectCount() int {
	n := 0
	for _, r := range l.records {
		if r.Correct {
			n++
		}
	}
	return n
}

// Accuracy returns the fraction of correct answers, or 0 for an empty ledger.
func (l *Ledger) Accuracy() float64 {
	if len(l.records) == 0 {
		return 0
	}
	return float64(l.CorrectCount()) / float64(len(l.records))
}

// AverageTime returns the mean time spent per answer in seconds.
func (l *Ledger) AverageTime() float64 {
	if len(l.records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range l.records {
		sum += r.TimeSpentSecs
	}
	return sum / float64(len(l.records))
}

// Reset discards all records.
func (l *Ledger) Reset() {
	l.records = nil
}
