package bankgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/adaptiq/internal/llm"
	"github.com/abhisek/adaptiq/internal/logging"
	"github.com/abhisek/adaptiq/internal/question"
)

// ErrShortfall is returned, with the questions gathered so far, when
// MaxRounds is spent before Count questions are accepted.
var ErrShortfall = errors.New("generated fewer questions than requested")

// Input describes the bank to draft.
type Input struct {
	Topic    string
	Count    int
	Concepts []string
	Audience string
}

// Generator drafts questions through an llm.Provider.
type Generator struct {
	provider llm.Provider
	config   Config
	log      *slog.Logger
	newID    func() string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger for dropped drafts and round summaries.
func WithLogger(log *slog.Logger) GeneratorOption {
	return func(g *Generator) { g.log = log }
}

// WithIDFunc replaces the question ID source.
func WithIDFunc(fn func() string) GeneratorOption {
	return func(g *Generator) { g.newID = fn }
}

// New returns a Generator. Zero limits in cfg take DefaultConfig values.
func New(provider llm.Provider, cfg Config, opts ...GeneratorOption) *Generator {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = def.MaxRounds
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.MinDifficulty < 0 || cfg.MaxDifficulty > 1 || cfg.MinDifficulty >= cfg.MaxDifficulty {
		cfg.MinDifficulty, cfg.MaxDifficulty = def.MinDifficulty, def.MaxDifficulty
	}

	g := &Generator{
		provider: provider,
		config:   cfg,
		log:      logging.Discard(),
		newID:    func() string { return uuid.NewString()[:8] },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate drafts in.Count questions whose difficulties cover the
// configured range. Rejected drafts are logged and replaced in later
// rounds. Provider errors abort the run.
func (g *Generator) Generate(ctx context.Context, in Input) ([]question.Question, error) {
	if strings.TrimSpace(in.Topic) == "" {
		return nil, errors.New("topic is required")
	}
	if in.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", in.Count)
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeBankGen)

	// Targets are consumed in order; a rejected draft's target is retried.
	pending := spread(in.Count, g.config.MinDifficulty, g.config.MaxDifficulty)
	var accepted []question.Question

	for round := 0; round < g.config.MaxRounds && len(pending) > 0; round++ {
		targets := pending[:min(g.config.BatchSize, len(pending))]

		drafts, err := g.requestBatch(ctx, in, targets, accepted)
		if err != nil {
			return accepted, err
		}

		admitted := 0
		for _, d := range drafts {
			if admitted == len(targets) {
				break
			}
			q := g.toQuestion(d, in)
			if verr := g.validate(&q, accepted); verr != nil {
				g.log.Info("draft rejected", "round", round, "prompt", q.Prompt, "reason", verr)
				continue
			}
			accepted = append(accepted, q)
			admitted++
		}
		pending = pending[admitted:]

		g.log.Debug("generation round",
			"round", round, "requested", len(targets), "received", len(drafts),
			"accepted", admitted, "remaining", len(pending))
	}

	if len(pending) > 0 {
		return accepted, fmt.Errorf("%w: %d of %d", ErrShortfall, len(accepted), in.Count)
	}
	return accepted, nil
}

func (g *Generator) requestBatch(ctx context.Context, in Input, targets []float64, accepted []question.Question) ([]draftOutput, error) {
	prior := make([]string, len(accepted))
	for i, q := range accepted {
		prior[i] = q.Prompt
	}

	req := llm.UserPrompt(systemPrompt, buildUserMessage(in, targets, prior, g.config))
	req.Schema = BatchSchema
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return out.Questions, nil
}

func (g *Generator) toQuestion(d draftOutput, in Input) question.Question {
	q := question.Question{
		ID:          g.newID(),
		Prompt:      strings.TrimSpace(d.Prompt),
		Difficulty:  d.Difficulty,
		Concept:     strings.ToLower(strings.TrimSpace(d.Concept)),
		Explanation: strings.TrimSpace(d.Explanation),
	}
	if q.Concept == "" && len(in.Concepts) == 1 {
		q.Concept = in.Concepts[0]
	}
	for i, text := range d.Options {
		q.Options = append(q.Options, question.Option{ID: optionID(i), Text: strings.TrimSpace(text)})
	}
	if d.CorrectIndex >= 0 && d.CorrectIndex < len(d.Options) {
		q.CorrectOptionID = optionID(d.CorrectIndex)
	}
	return q
}

func (g *Generator) validate(q *question.Question, accepted []question.Question) *ValidationError {
	c := Context{Accepted: accepted, Options: g.config.Options}
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, c); verr != nil {
			return verr
		}
	}
	return nil
}

// optionID labels options a, b, c, ... then a1, b1, ... past z.
func optionID(i int) string {
	id := string(rune('a' + i%26))
	if i >= 26 {
		id += fmt.Sprint(i / 26)
	}
	return id
}
