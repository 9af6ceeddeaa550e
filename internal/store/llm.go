package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// LLMRequest captures one LLM API call for cost tracking and debugging.
type LLMRequest struct {
	CreatedAt    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	CostUSD      float64
}

// LLMUsage aggregates logged requests.
type LLMUsage struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// LLMRequestRepo is the append-only LLM request log.
type LLMRequestRepo interface {
	AppendLLMRequest(ctx context.Context, req LLMRequest) error
	Usage(ctx context.Context, purpose string) (LLMUsage, error)
}

type llmRepo struct {
	db *sql.DB
}

func (r *llmRepo) AppendLLMRequest(ctx context.Context, req LLMRequest) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	query, args := builder().Insert(tableLLM).
		Columns("created_at", "provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "cost_usd").
		Values(req.CreatedAt.UTC(), req.Provider, req.Model, req.Purpose, req.InputTokens, req.OutputTokens,
			req.LatencyMs, req.Success, req.ErrorMessage, req.CostUSD).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append llm request: %w", err)
	}
	return nil
}

// Usage sums requests, optionally filtered by purpose.
func (r *llmRepo) Usage(ctx context.Context, purpose string) (LLMUsage, error) {
	sel := builder().Select("success", "input_tokens", "output_tokens", "cost_usd").
		From(entsql.Table(tableLLM))
	if purpose != "" {
		sel.Where(entsql.EQ("purpose", purpose))
	}
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return LLMUsage{}, fmt.Errorf("llm usage: %w", err)
	}
	defer rows.Close()

	var u LLMUsage
	for rows.Next() {
		var (
			ok      bool
			in, out int
			cost    float64
		)
		if err := rows.Scan(&ok, &in, &out, &cost); err != nil {
			return LLMUsage{}, fmt.Errorf("scan llm usage: %w", err)
		}
		u.Requests++
		if !ok {
			u.Failures++
		}
		u.InputTokens += in
		u.OutputTokens += out
		u.CostUSD += cost
	}
	return u, rows.Err()
}
