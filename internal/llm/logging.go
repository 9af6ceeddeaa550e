package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/adaptiq/internal/logging"
	"github.com/abhisek/adaptiq/internal/store"
)

// Recorder persists one row per LLM call.
type Recorder interface {
	AppendLLMRequest(ctx context.Context, req store.LLMRequest) error
}

// LoggingProvider logs every call and hands it to a Recorder with its
// latency, token counts and estimated cost.
type LoggingProvider struct {
	inner Provider
	log   *slog.Logger
	rec   Recorder
	now   func() time.Time
}

// WithLogging wraps p. Either of log or rec may be nil.
func WithLogging(p Provider, log *slog.Logger, rec Recorder) Provider {
	if log == nil {
		log = logging.Discard()
	}
	return &LoggingProvider{inner: p, log: log, rec: rec, now: time.Now}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)
	latency := l.now().Sub(start)

	entry := store.LLMRequest{
		CreatedAt: start,
		Provider:  l.inner.Name(),
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		if resp.Model != "" {
			entry.Model = resp.Model
		}
		entry.InputTokens = resp.Usage.InputTokens
		entry.OutputTokens = resp.Usage.OutputTokens
		if c := LookupCost(entry.Model); c != nil {
			entry.CostUSD = c.Cost(entry.InputTokens, entry.OutputTokens)
		}
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
		l.log.Warn("llm request failed",
			"provider", entry.Provider, "model", entry.Model, "purpose", entry.Purpose,
			"latency", latency, "err", err)
	} else {
		l.log.Debug("llm request",
			"provider", entry.Provider, "model", entry.Model, "purpose", entry.Purpose,
			"latency", latency, "input_tokens", entry.InputTokens, "output_tokens", entry.OutputTokens,
			"cost_usd", entry.CostUSD)
	}

	if l.rec != nil {
		if rerr := l.rec.AppendLLMRequest(ctx, entry); rerr != nil {
			l.log.Warn("record llm request", "err", rerr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) Name() string    { return l.inner.Name() }
func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
