package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/ledger"
	"github.com/abhisek/adaptiq/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

var t0 = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func sampleRecord(id, learner string, started time.Time, mastery map[string]float64) *SessionRecord {
	return &SessionRecord{
		ID:                id,
		Learner:           learner,
		Bank:              "fractions.yaml",
		StartedAt:         started,
		EndedAt:           started.Add(5 * time.Minute),
		Score:             2,
		Answered:          3,
		MaxQuestions:      10,
		InitialDifficulty: 0.5,
		FinalDifficulty:   0.62,
		Skill:             0.41,
		SpacedRepetition:  true,
		Answers: []ledger.AnsweredRecord{
			{QuestionID: "q1", AnswerID: "a", Correct: true, TimeSpentSecs: 12.5, Difficulty: 0.5, Confidence: 0.9, AnsweredAt: started.Add(time.Minute)},
			{QuestionID: "q2", AnswerID: "b", Correct: false, TimeSpentSecs: 40, Difficulty: 0.6, Confidence: 0.3, AnsweredAt: started.Add(2 * time.Minute)},
			{QuestionID: "q3", AnswerID: "a", Correct: true, TimeSpentSecs: 20, Difficulty: 0.55, Confidence: 0.7, AnsweredAt: started.Add(3 * time.Minute)},
		},
		Mastery: mastery,
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode reports "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+tt.pragma).Scan(&got))
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "adaptiq.db")
	require.NoError(t, EnsureDir(path))

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening migrates an existing schema without error.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestResults_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Results()

	rec := sampleRecord("11111111-aaaa-bbbb-cccc-000000000001", "ada", t0, map[string]float64{"fractions": 0.7, "ratios": 0.4})
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Learner, got.Learner)
	assert.Equal(t, rec.Bank, got.Bank)
	assert.True(t, rec.StartedAt.Equal(got.StartedAt), "started_at %v vs %v", rec.StartedAt, got.StartedAt)
	assert.Equal(t, 2, got.Score)
	assert.Equal(t, 3, got.Answered)
	assert.InDelta(t, 0.62, got.FinalDifficulty, 1e-9)
	assert.True(t, got.SpacedRepetition)
	assert.InDelta(t, 2.0/3.0, got.Accuracy(), 1e-9)

	require.Len(t, got.Answers, 3)
	assert.Equal(t, "q1", got.Answers[0].QuestionID)
	assert.True(t, got.Answers[0].Correct)
	assert.False(t, got.Answers[1].Correct)
	assert.InDelta(t, 12.5, got.Answers[0].TimeSpentSecs, 1e-9)
	assert.True(t, got.Answers[2].AnsweredAt.Equal(t0.Add(3*time.Minute)))

	assert.Equal(t, map[string]float64{"fractions": 0.7, "ratios": 0.4}, got.Mastery)
}

func TestResults_GetByPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Results()

	require.NoError(t, repo.Save(ctx, sampleRecord("abc12345-0000", "ada", t0, nil)))
	require.NoError(t, repo.Save(ctx, sampleRecord("abc99999-0000", "ada", t0.Add(time.Hour), nil)))

	got, err := repo.Get(ctx, "abc1")
	require.NoError(t, err)
	assert.Equal(t, "abc12345-0000", got.ID)

	_, err = repo.Get(ctx, "abc")
	assert.True(t, errors.Is(err, ErrAmbiguous), "got %v", err)

	_, err = repo.Get(ctx, "zzz")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestResults_SaveDuplicateRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Results()

	rec := sampleRecord("dup", "ada", t0, map[string]float64{"x": 0.5})
	require.NoError(t, repo.Save(ctx, rec))
	require.Error(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, "dup")
	require.NoError(t, err)
	assert.Len(t, got.Answers, 3, "failed save must not append answers")
}

func TestResults_ListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Results()

	for i := range 4 {
		learner := "ada"
		if i == 3 {
			learner = "grace"
		}
		require.NoError(t, repo.Save(ctx, sampleRecord(fmt.Sprintf("s%d", i), learner, t0.Add(time.Duration(i)*time.Hour), nil)))
	}

	all, err := repo.List(ctx, ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "s3", all[0].ID)
	assert.Nil(t, all[0].Answers)

	ada, err := repo.List(ctx, ListOpts{Learner: "ada", Limit: 2})
	require.NoError(t, err)
	require.Len(t, ada, 2)
	assert.Equal(t, "s2", ada[0].ID)
	assert.Equal(t, "s1", ada[1].ID)
}

func TestResults_ConceptSummary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Results()

	require.NoError(t, repo.Save(ctx, sampleRecord("old", "ada", t0, map[string]float64{"fractions": 0.3, "ratios": 0.5})))
	require.NoError(t, repo.Save(ctx, sampleRecord("new", "ada", t0.Add(24*time.Hour), map[string]float64{"fractions": 0.8})))
	require.NoError(t, repo.Save(ctx, sampleRecord("other", "grace", t0.Add(48*time.Hour), map[string]float64{"fractions": 0.1})))

	stats, err := repo.ConceptSummary(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "fractions", stats[0].Concept)
	assert.InDelta(t, 0.8, stats[0].Mastery, 1e-9)
	assert.Equal(t, 2, stats[0].Sessions)
	assert.True(t, stats[0].LastSeen.Equal(t0.Add(24*time.Hour)))

	assert.Equal(t, "ratios", stats[1].Concept)
	assert.Equal(t, 1, stats[1].Sessions)
}

func TestConceptSummaryQuery_AliasesMatchJoin(t *testing.T) {
	query, args := conceptSummaryQuery("ada")

	assert.Contains(t, query, "JOIN `sessions` AS `s`")
	assert.Contains(t, query, "`s`.`started_at`")
	assert.NotContains(t, query, "`sessions`.`started_at`")
	assert.Equal(t, []any{"ada"}, args)

	query, args = conceptSummaryQuery("")
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}

func TestResults_ConceptSummaryAllLearners(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Results()

	require.NoError(t, repo.Save(ctx, sampleRecord("a1", "ada", t0, map[string]float64{"fractions": 0.3})))
	require.NoError(t, repo.Save(ctx, sampleRecord("g1", "grace", t0.Add(time.Hour), map[string]float64{"fractions": 0.9})))

	stats, err := repo.ConceptSummary(ctx, "")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.InDelta(t, 0.9, stats[0].Mastery, 1e-9)
	assert.Equal(t, 2, stats[0].Sessions)
}

func TestRecordFromResult(t *testing.T) {
	r := session.Result{
		SessionID:       "id-1",
		Learner:         "ada",
		StartedAt:       t0,
		EndedAt:         t0.Add(time.Minute),
		Config:          session.DefaultConfig(),
		Score:           1,
		FinalDifficulty: 0.6,
		Skill:           0.3,
		Records:         []ledger.AnsweredRecord{{QuestionID: "q1", Correct: true}},
		Mastery:         map[string]float64{"x": 0.6},
	}
	rec := RecordFromResult(r, "bank.json")
	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, 1, rec.Answered)
	assert.Equal(t, 10, rec.MaxQuestions)
	assert.Equal(t, "bank.json", rec.Bank)
	assert.True(t, rec.SpacedRepetition)
}

func TestStamps_SaveLoadUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Stamps()

	require.NoError(t, repo.Save(ctx, "ada", map[string]time.Time{
		"q1": t0,
		"q2": t0.Add(time.Hour),
		"q3": {},
	}))
	require.NoError(t, repo.Save(ctx, "ada", map[string]time.Time{"q1": t0.Add(48 * time.Hour)}))
	require.NoError(t, repo.Save(ctx, "grace", map[string]time.Time{"q1": t0}))

	got, err := repo.Load(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got["q1"].Equal(t0.Add(48*time.Hour)), "q1 = %v", got["q1"])
	assert.True(t, got["q2"].Equal(t0.Add(time.Hour)))

	require.NoError(t, repo.Clear(ctx, "ada"))
	got, err = repo.Load(ctx, "ada")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.Load(ctx, "grace")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLLMRequests_Usage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.LLMRequests()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequest{Provider: "mock", Model: "m", Purpose: "bank-gen", InputTokens: 100, OutputTokens: 50, Success: true, CostUSD: 0.01}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequest{Provider: "mock", Model: "m", Purpose: "bank-gen", Success: false, ErrorMessage: "rate limited"}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequest{Provider: "mock", Model: "m", Purpose: "other", InputTokens: 7}))

	u, err := repo.Usage(ctx, "bank-gen")
	require.NoError(t, err)
	assert.Equal(t, 2, u.Requests)
	assert.Equal(t, 1, u.Failures)
	assert.Equal(t, 100, u.InputTokens)
	assert.InDelta(t, 0.01, u.CostUSD, 1e-12)

	all, err := repo.Usage(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Requests)
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Results().Save(ctx, sampleRecord("s1", "ada", t0, map[string]float64{"x": 0.5})))
	require.NoError(t, s.Stamps().Save(ctx, "ada", map[string]time.Time{"q1": t0}))
	require.NoError(t, s.LLMRequests().AppendLLMRequest(ctx, LLMRequest{Provider: "mock", Success: true}))

	require.NoError(t, s.Reset(ctx))

	for _, table := range []string{tableSessions, tableAnswers, tableMastery, tableStamps, tableLLM} {
		var n int
		require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, "table %s not empty", table)
	}
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()

	flag := filepath.Join(dir, "flag", "x.db")
	got, err := ResolveDBPath(flag)
	require.NoError(t, err)
	assert.Equal(t, flag, got)
	assert.DirExists(t, filepath.Dir(flag))

	t.Setenv("ADAPTIQ_DB", filepath.Join(dir, "env", "y.db"))
	got, err = ResolveDBPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env", "y.db"), got)

	t.Setenv("ADAPTIQ_DB", "")
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	got, err = ResolveDBPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "adaptiq", "adaptiq.db"), got)
}
