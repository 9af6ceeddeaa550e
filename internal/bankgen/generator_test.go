package bankgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/llm"
)

func draft(prompt string, difficulty float64) map[string]any {
	return map[string]any{
		"prompt":        prompt,
		"options":       []string{"one", "two", "three", "four"},
		"correct_index": 1,
		"difficulty":    difficulty,
		"concept":       " Arithmetic ",
		"explanation":   "Because.",
	}
}

func batch(drafts ...map[string]any) llm.MockResponse {
	return llm.MockJSON(map[string]any{"questions": drafts})
}

func sequentialIDs() GeneratorOption {
	n := 0
	return WithIDFunc(func() string {
		n++
		return fmt.Sprintf("q%d", n)
	})
}

func TestGenerate_SingleBatch(t *testing.T) {
	mock := llm.NewMockProvider(batch(
		draft("What is 1+1?", 0.1),
		draft("What is 12*12?", 0.5),
		draft("What is 17^2?", 0.9),
	))
	g := New(mock, DefaultConfig(), sequentialIDs())

	qs, err := g.Generate(context.Background(), Input{Topic: "arithmetic", Count: 3})
	require.NoError(t, err)
	require.Len(t, qs, 3)

	q := qs[0]
	assert.Equal(t, "q1", q.ID)
	assert.Equal(t, "arithmetic", q.Concept)
	assert.Equal(t, "b", q.CorrectOptionID)
	assert.Equal(t, []string{"a", "b", "c", "d"}, []string{q.Options[0].ID, q.Options[1].ID, q.Options[2].ID, q.Options[3].ID})
	assert.True(t, q.IsCorrect("b"))

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Same(t, BatchSchema, calls[0].Schema)
	msg := calls[0].Messages[0].Content
	assert.Contains(t, msg, "Topic: arithmetic")
	assert.Contains(t, msg, "Difficulty targets: 0.10 0.50 0.90")
	assert.Contains(t, msg, "Already accepted:\nNone")
}

func TestGenerate_ReplacesRejectedDrafts(t *testing.T) {
	bad := draft("Broken?", 0.5)
	bad["correct_index"] = 9

	mock := llm.NewMockProvider(
		batch(draft("What is 2+2?", 0.1), bad),
		batch(draft("what is 2 + 2", 0.5), draft("What is 3+3?", 0.9)),
	)
	cfg := DefaultConfig()
	cfg.BatchSize = 2
	g := New(mock, cfg, sequentialIDs())

	qs, err := g.Generate(context.Background(), Input{Topic: "arithmetic", Count: 2})
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "What is 2+2?", qs[0].Prompt)
	assert.Equal(t, "What is 3+3?", qs[1].Prompt)

	calls := mock.Calls()
	require.Len(t, calls, 2)
	second := calls[1].Messages[0].Content
	assert.Contains(t, second, "Questions: 1")
	assert.Contains(t, second, "1. What is 2+2?")
}

func TestGenerate_BatchesByTarget(t *testing.T) {
	mock := llm.NewMockProvider(
		batch(draft("A?", 0.1), draft("B?", 0.3)),
		batch(draft("C?", 0.5), draft("D?", 0.7)),
		batch(draft("E?", 0.9)),
	)
	cfg := DefaultConfig()
	cfg.BatchSize = 2
	g := New(mock, cfg)

	qs, err := g.Generate(context.Background(), Input{Topic: "letters", Count: 5})
	require.NoError(t, err)
	assert.Len(t, qs, 5)
	assert.Equal(t, 3, mock.CallCount())

	ids := make(map[string]bool)
	for _, q := range qs {
		assert.Len(t, q.ID, 8)
		ids[q.ID] = true
	}
	assert.Len(t, ids, 5, "generated IDs must be unique")
}

func TestGenerate_ExtraDraftsIgnored(t *testing.T) {
	mock := llm.NewMockProvider(batch(draft("A?", 0.1), draft("B?", 0.3), draft("C?", 0.5)))
	g := New(mock, DefaultConfig())

	qs, err := g.Generate(context.Background(), Input{Topic: "t", Count: 2})
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestGenerate_Shortfall(t *testing.T) {
	mock := llm.NewMockProvider(
		batch(draft("A?", 0.5)),
		batch(draft("A?", 0.5)),
	)
	cfg := DefaultConfig()
	cfg.MaxRounds = 2
	g := New(mock, cfg)

	qs, err := g.Generate(context.Background(), Input{Topic: "t", Count: 2})
	require.ErrorIs(t, err, ErrShortfall)
	assert.Len(t, qs, 1)
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	g := New(mock, DefaultConfig())

	_, err := g.Generate(context.Background(), Input{Topic: "t", Count: 1})
	var unavail *llm.ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
}

func TestGenerate_SchemaViolation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{"questions": []any{map[string]any{"prompt": "x"}}}))
	g := New(mock, DefaultConfig())

	_, err := g.Generate(context.Background(), Input{Topic: "t", Count: 1})
	var inv *llm.ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
}

func TestGenerate_InputValidation(t *testing.T) {
	g := New(llm.NewMockProvider(), DefaultConfig())

	_, err := g.Generate(context.Background(), Input{Count: 3})
	assert.Error(t, err)
	_, err = g.Generate(context.Background(), Input{Topic: "t"})
	assert.Error(t, err)
}

func TestGenerate_SingleConceptFallback(t *testing.T) {
	d := draft("A?", 0.5)
	d["concept"] = ""
	mock := llm.NewMockProvider(batch(d))
	g := New(mock, DefaultConfig())

	qs, err := g.Generate(context.Background(), Input{Topic: "t", Count: 1, Concepts: []string{"fractions"}})
	require.NoError(t, err)
	assert.Equal(t, "fractions", qs[0].Concept)
	assert.True(t, strings.Contains(mock.Calls()[0].Messages[0].Content, "Concepts: fractions"))
}

func TestNew_NormalizesConfig(t *testing.T) {
	g := New(llm.NewMockProvider(), Config{MinDifficulty: 0.8, MaxDifficulty: 0.2})
	def := DefaultConfig()
	assert.Equal(t, def.BatchSize, g.config.BatchSize)
	assert.Equal(t, def.MaxRounds, g.config.MaxRounds)
	assert.Equal(t, def.MinDifficulty, g.config.MinDifficulty)
	assert.Equal(t, def.MaxDifficulty, g.config.MaxDifficulty)
}

func TestOptionID(t *testing.T) {
	assert.Equal(t, "a", optionID(0))
	assert.Equal(t, "z", optionID(25))
	assert.Equal(t, "a1", optionID(26))
}
