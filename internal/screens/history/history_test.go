package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/store"
)

type fakeRepo struct {
	sessions []store.SessionRecord
	gets     int
	opts     store.ListOpts
}

func (f *fakeRepo) List(_ context.Context, opts store.ListOpts) ([]store.SessionRecord, error) {
	f.opts = opts
	return f.sessions, nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*store.SessionRecord, error) {
	f.gets++
	for _, s := range f.sessions {
		if s.ID == id {
			rec := s
			rec.Mastery = map[string]float64{"fractions": 0.92}
			return &rec, nil
		}
	}
	return nil, store.ErrNotFound
}

func testRepo() *fakeRepo {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	return &fakeRepo{sessions: []store.SessionRecord{
		{ID: "s1", Learner: "ada", Bank: "math", StartedAt: start, EndedAt: start.Add(time.Minute), Score: 4, Answered: 5, FinalDifficulty: 0.7},
		{ID: "s2", Learner: "ada", Bank: "math", StartedAt: start, EndedAt: start.Add(time.Minute), Score: 1, Answered: 5, FinalDifficulty: 0.3},
	}}
}

func TestHistoryScreen_LoadsForLearner(t *testing.T) {
	repo := testRepo()
	s := New(repo, "ada")
	s.Update(s.Init()())

	if repo.opts.Learner != "ada" || repo.opts.Limit != listLimit {
		t.Errorf("List opts = %+v", repo.opts)
	}
	view := s.View(120, 30)
	if !strings.Contains(view, "4/5") || !strings.Contains(view, "80% accuracy") {
		t.Errorf("expected first session in view, got %q", view)
	}
}

func TestHistoryScreen_ExpandLoadsDetailOnce(t *testing.T) {
	repo := testRepo()
	s := New(repo, "ada")
	s.Update(s.Init()())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected detail load command")
	}
	s.Update(cmd())
	if !strings.Contains(s.View(120, 30), "fractions") {
		t.Error("expected concept detail in view")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("cached detail should not reload")
	}
	if repo.gets != 1 {
		t.Errorf("Get called %d times, want 1", repo.gets)
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&fakeRepo{}, "")
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 24), "No sessions yet") {
		t.Error("expected empty message")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter on empty list should do nothing")
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := New(testRepo(), "")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}
