package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptiq/internal/ledger"
	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/session"
)

func testResult() session.Result {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return session.Result{
		SessionID:       "s-1",
		Learner:         "ada",
		StartedAt:       start,
		EndedAt:         start.Add(2*time.Minute + 5*time.Second),
		Config:          session.DefaultConfig(),
		Score:           3,
		FinalDifficulty: 0.62,
		Skill:           0.7,
		Records:         make([]ledger.AnsweredRecord, 4),
		Mastery:         map[string]float64{"fractions": 0.95, "decimals": 0.2},
	}
}

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "" }
func (s *stubScreen) Title() string                           { return "Quiz" }

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testResult(), nil, nil)
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testResult(), nil, nil)
	view := s.View(100, 30)
	for _, want := range []string{"Questions: 4", "Correct: 3", "Accuracy: 75%", "0.50 → 0.62", "2:05", "fractions", "mastered", "struggling"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_Persist(t *testing.T) {
	var got session.Result
	persist := func(_ context.Context, r session.Result) error {
		got = r
		return nil
	}
	s := New(testResult(), persist, nil)

	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected persist command")
	}
	if !strings.Contains(s.View(100, 30), "Saving") {
		t.Error("expected saving status before completion")
	}
	s.Update(cmd())

	if got.SessionID != "s-1" {
		t.Errorf("persisted session = %q, want s-1", got.SessionID)
	}
	if !strings.Contains(s.View(100, 30), "Saved") {
		t.Error("expected saved status")
	}
}

func TestSummaryScreen_PersistError(t *testing.T) {
	s := New(testResult(), func(context.Context, session.Result) error {
		return errors.New("disk full")
	}, nil)
	s.Update(s.Init()())
	if !strings.Contains(s.View(100, 30), "disk full") {
		t.Error("expected save error in view")
	}
}

func TestSummaryScreen_NoPersist(t *testing.T) {
	s := New(testResult(), nil, nil)
	if s.Init() != nil {
		t.Error("expected no command without persist")
	}
}

func TestSummaryScreen_PlayAgain(t *testing.T) {
	calls := 0
	s := New(testResult(), nil, func() screen.Screen {
		calls++
		return &stubScreen{}
	})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if calls != 1 {
		t.Errorf("again called %d times, want 1", calls)
	}
}

func TestSummaryScreen_QuitShortcut(t *testing.T) {
	s := New(testResult(), nil, nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testResult(), nil, nil)
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}

func TestSummaryScreen_HistoryPushes(t *testing.T) {
	s := New(testResult(), nil, nil).WithHistory(func() screen.Screen { return &stubScreen{} })
	if len(s.menu.Items) != 2 || s.menu.Items[1].Label != "Quit" {
		t.Fatalf("menu = %+v, want History then Quit", s.menu.Items)
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Errorf("expected PushScreenMsg, got %T", cmd())
	}
}
