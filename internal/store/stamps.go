package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// StampRepo persists last-correct stamps per learner so spaced repetition
// can span sessions.
type StampRepo interface {
	// Load returns question ID → last correct time for learner.
	Load(ctx context.Context, learner string) (map[string]time.Time, error)

	// Save upserts stamps for learner. Zero times are skipped.
	Save(ctx context.Context, learner string, stamps map[string]time.Time) error

	// Clear deletes all stamps for learner.
	Clear(ctx context.Context, learner string) error
}

type stampRepo struct {
	db *sql.DB
}

func (r *stampRepo) Load(ctx context.Context, learner string) (map[string]time.Time, error) {
	query, args := builder().Select("question_id", "last_correct_at").
		From(entsql.Table(tableStamps)).
		Where(entsql.EQ("learner", learner)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load stamps: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var (
			id string
			ts time.Time
		)
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, fmt.Errorf("scan stamp: %w", err)
		}
		out[id] = ts
	}
	return out, rows.Err()
}

func (r *stampRepo) Save(ctx context.Context, learner string, stamps map[string]time.Time) error {
	ids := make([]string, 0, len(stamps))
	for id, ts := range stamps {
		if !ts.IsZero() {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)

	ins := builder().Insert(tableStamps).
		Columns("learner", "question_id", "last_correct_at")
	for _, id := range ids {
		ins.Values(learner, id, stamps[id].UTC())
	}
	ins.OnConflict(
		entsql.ConflictColumns("learner", "question_id"),
		entsql.ResolveWithNewValues(),
	)

	query, args := ins.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save stamps: %w", err)
	}
	return nil
}

func (r *stampRepo) Clear(ctx context.Context, learner string) error {
	query, args := builder().Delete(tableStamps).
		Where(entsql.EQ("learner", learner)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear stamps: %w", err)
	}
	return nil
}
