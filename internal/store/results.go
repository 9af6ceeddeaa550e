package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/adaptiq/internal/ledger"
	"github.com/abhisek/adaptiq/internal/session"
)

// SessionRecord is a persisted session result.
type SessionRecord struct {
	ID      string
	Learner string
	Bank    string

	StartedAt time.Time
	EndedAt   time.Time

	Score        int
	Answered     int
	MaxQuestions int

	InitialDifficulty float64
	FinalDifficulty   float64
	Skill             float64
	SpacedRepetition  bool

	// Answers and Mastery are populated by Get, not by List.
	Answers []ledger.AnsweredRecord
	Mastery map[string]float64
}

// Accuracy returns Score over Answered, or 0 when nothing was answered.
func (r *SessionRecord) Accuracy() float64 {
	if r.Answered == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Answered)
}

// RecordFromResult converts a completed session into a SessionRecord.
func RecordFromResult(r session.Result, bank string) *SessionRecord {
	return &SessionRecord{
		ID:                r.SessionID,
		Learner:           r.Learner,
		Bank:              bank,
		StartedAt:         r.StartedAt,
		EndedAt:           r.EndedAt,
		Score:             r.Score,
		Answered:          r.Answered(),
		MaxQuestions:      r.Config.MaxQuestions,
		InitialDifficulty: r.Config.InitialDifficulty,
		FinalDifficulty:   r.FinalDifficulty,
		Skill:             r.Skill,
		SpacedRepetition:  r.Config.SpacedRepetition,
		Answers:           r.Records,
		Mastery:           r.Mastery,
	}
}

// ListOpts filters and paginates session listings.
type ListOpts struct {
	Learner string // empty = all learners
	Limit   int    // 0 = unlimited
}

// ConceptStat is a concept's latest mastery across a learner's sessions.
type ConceptStat struct {
	Concept  string
	Mastery  float64 // from the most recent session that touched it
	Sessions int     // sessions that recorded the concept
	LastSeen time.Time
}

// ResultRepo persists and queries session results.
type ResultRepo interface {
	// Save stores a session with its answers and mastery in one transaction.
	Save(ctx context.Context, rec *SessionRecord) error

	// List returns sessions newest first, without answers or mastery.
	List(ctx context.Context, opts ListOpts) ([]SessionRecord, error)

	// Get returns a full session by ID or unique ID prefix.
	Get(ctx context.Context, id string) (*SessionRecord, error)

	// ConceptSummary returns per-concept stats for a learner, sorted by concept.
	ConceptSummary(ctx context.Context, learner string) ([]ConceptStat, error)
}

type resultRepo struct {
	db *sql.DB
}

var sessionSelectColumns = []string{
	"id", "learner", "bank", "started_at", "ended_at", "score", "answered",
	"max_questions", "initial_difficulty", "final_difficulty", "skill", "spaced_repetition",
}

func (r *resultRepo) Save(ctx context.Context, rec *SessionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("save session: empty id")
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query, args := builder().Insert(tableSessions).
			Columns(sessionSelectColumns...).
			Values(rec.ID, rec.Learner, rec.Bank, rec.StartedAt.UTC(), rec.EndedAt.UTC(), rec.Score, rec.Answered,
				rec.MaxQuestions, rec.InitialDifficulty, rec.FinalDifficulty, rec.Skill, rec.SpacedRepetition).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		if len(rec.Answers) > 0 {
			ins := builder().Insert(tableAnswers).Columns(
				"session_id", "seq", "question_id", "answer_id", "correct",
				"time_spent_secs", "difficulty", "confidence", "answered_at",
			)
			for i, a := range rec.Answers {
				ins.Values(rec.ID, i, a.QuestionID, a.AnswerID, a.Correct,
					a.TimeSpentSecs, a.Difficulty, a.Confidence, a.AnsweredAt.UTC())
			}
			query, args := ins.Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert answers: %w", err)
			}
		}

		if len(rec.Mastery) > 0 {
			ins := builder().Insert(tableMastery).Columns("session_id", "concept", "mastery")
			for _, c := range sortedKeys(rec.Mastery) {
				ins.Values(rec.ID, c, rec.Mastery[c])
			}
			query, args := ins.Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert mastery: %w", err)
			}
		}
		return nil
	})
}

func (r *resultRepo) List(ctx context.Context, opts ListOpts) ([]SessionRecord, error) {
	sel := builder().Select(sessionSelectColumns...).
		From(entsql.Table(tableSessions)).
		OrderBy(entsql.Desc("started_at"))
	if opts.Learner != "" {
		sel.Where(entsql.EQ("learner", opts.Learner))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *resultRepo) Get(ctx context.Context, id string) (*SessionRecord, error) {
	query, args := builder().Select(sessionSelectColumns...).
		From(entsql.Table(tableSessions)).
		Where(entsql.HasPrefix("id", id)).
		Limit(2).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var matches []*SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		matches = append(matches, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
	case 1:
	default:
		return nil, fmt.Errorf("session %q: %w", id, ErrAmbiguous)
	}
	rec := matches[0]

	if rec.Answers, err = r.answers(ctx, rec.ID); err != nil {
		return nil, err
	}
	if rec.Mastery, err = r.mastery(ctx, rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *resultRepo) answers(ctx context.Context, sessionID string) ([]ledger.AnsweredRecord, error) {
	query, args := builder().Select(
		"question_id", "answer_id", "correct", "time_spent_secs", "difficulty", "confidence", "answered_at",
	).
		From(entsql.Table(tableAnswers)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("seq").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []ledger.AnsweredRecord
	for rows.Next() {
		var a ledger.AnsweredRecord
		if err := rows.Scan(&a.QuestionID, &a.AnswerID, &a.Correct, &a.TimeSpentSecs, &a.Difficulty, &a.Confidence, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *resultRepo) mastery(ctx context.Context, sessionID string) (map[string]float64, error) {
	query, args := builder().Select("concept", "mastery").
		From(entsql.Table(tableMastery)).
		Where(entsql.EQ("session_id", sessionID)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mastery: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var (
			concept string
			v       float64
		)
		if err := rows.Scan(&concept, &v); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		out[concept] = v
	}
	return out, rows.Err()
}

// conceptSummaryQuery joins mastery rows to their sessions, newest first.
// Both tables carry fixed aliases so the selected columns match the join.
func conceptSummaryQuery(learner string) (string, []any) {
	m := entsql.Table(tableMastery).As("m")
	s := entsql.Table(tableSessions).As("s")
	sel := builder().Select(m.C("concept"), m.C("mastery"), s.C("started_at")).
		From(m).
		Join(s).On(m.C("session_id"), s.C("id")).
		OrderBy(entsql.Desc(s.C("started_at")))
	if learner != "" {
		sel.Where(entsql.EQ(s.C("learner"), learner))
	}
	return sel.Query()
}

func (r *resultRepo) ConceptSummary(ctx context.Context, learner string) ([]ConceptStat, error) {
	query, args := conceptSummaryQuery(learner)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("concept summary: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ConceptStat)
	for rows.Next() {
		var (
			concept string
			v       float64
			started time.Time
		)
		if err := rows.Scan(&concept, &v, &started); err != nil {
			return nil, fmt.Errorf("scan concept summary: %w", err)
		}
		st, ok := stats[concept]
		if !ok {
			// Rows arrive newest first, so the first row per concept is latest.
			st = &ConceptStat{Concept: concept, Mastery: v, LastSeen: started}
			stats[concept] = st
		}
		st.Sessions++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]ConceptStat, 0, len(stats))
	for _, st := range stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Concept < out[j].Concept })
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*SessionRecord, error) {
	var rec SessionRecord
	err := row.Scan(&rec.ID, &rec.Learner, &rec.Bank, &rec.StartedAt, &rec.EndedAt, &rec.Score, &rec.Answered,
		&rec.MaxQuestions, &rec.InitialDifficulty, &rec.FinalDifficulty, &rec.Skill, &rec.SpacedRepetition)
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return &rec, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
