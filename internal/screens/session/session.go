// Package session is the quiz screen that drives a session controller.
package session

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/screens/summary"
	sess "github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/ui/components"
	"github.com/abhisek/adaptiq/internal/ui/layout"
)

const loadTimeout = 30 * time.Second

// SessionScreen implements screen.Screen for an active session.
type SessionScreen struct {
	ctrl    *sess.Controller
	src     sess.BankSource
	persist summary.PersistFunc
	history func() screen.Screen

	loading     bool
	loadErr     error
	questionID  string
	choice      components.MultiChoice
	confidence  components.Confidence
	feedback    *sess.Feedback
	confirmQuit bool
	finished    bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)
var _ screen.EscHandler = (*SessionScreen)(nil)

// New creates a SessionScreen over ctrl. src is used when ctrl has not
// loaded its bank yet. persist (optional) is handed to the summary.
func New(ctrl *sess.Controller, src sess.BankSource, persist summary.PersistFunc) *SessionScreen {
	return &SessionScreen{
		ctrl:       ctrl,
		src:        src,
		persist:    persist,
		confidence: components.NewConfidence(40),
	}
}

// WithHistory lets the summary open the screen built by fn.
func (s *SessionScreen) WithHistory(fn func() screen.Screen) *SessionScreen {
	s.history = fn
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.ctrl.Phase() != sess.PhaseLoading {
		return s.sync()
	}
	return s.load()
}

func (s *SessionScreen) load() tea.Cmd {
	s.loading = true
	s.loadErr = nil
	ctrl, src := s.ctrl, s.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return bankLoadedMsg{Err: ctrl.Load(ctx, src)}
	}
}

func (s *SessionScreen) Title() string {
	return "Session"
}

func (s *SessionScreen) HandlesEsc() bool {
	return true
}

func (s *SessionScreen) Status() string {
	if s.ctrl.Phase() == sess.PhaseLoading {
		return ""
	}
	answered, limit := s.ctrl.Progress()
	st := s.ctrl.State()
	return fmt.Sprintf("Q %d/%d  ·  Score %d  ", min(answered+1, limit), limit, st.Score)
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit"},
			{Key: "N", Description: "Keep going"},
		}
	case s.loadErr != nil:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Quit"},
		}
	case s.feedback != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	case s.loading:
		return nil
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Answer"},
		{Key: "←→", Description: "Confidence"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bankLoadedMsg:
		return s.handleLoaded(msg)
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleLoaded(msg bankLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil && s.ctrl.Phase() == sess.PhaseLoading {
		s.loadErr = msg.Err
		return s, nil
	}
	return s, s.sync()
}

// sync picks up the controller's current question, or moves to the
// summary once the session is complete.
func (s *SessionScreen) sync() tea.Cmd {
	s.feedback = nil
	if s.ctrl.Phase() == sess.PhaseComplete {
		return s.finish()
	}
	q, ok := s.ctrl.Current()
	if !ok {
		return nil
	}
	if q.ID != s.questionID {
		s.questionID = q.ID
		s.choice = components.NewMultiChoice(q.Options)
		s.confidence = components.NewConfidence(s.confidence.Width)
	}
	return nil
}

func (s *SessionScreen) finish() tea.Cmd {
	if s.finished {
		return nil
	}
	s.finished = true
	next := summary.New(s.ctrl.Result(), s.persist, s.playAgain).WithHistory(s.history)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *SessionScreen) playAgain() screen.Screen {
	s.ctrl.Reset()
	return New(s.ctrl, s.src, s.persist).WithHistory(s.history)
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, tea.Quit
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		if s.loadErr != nil {
			return s, tea.Quit
		}
		s.confirmQuit = true
		return s, nil
	}

	switch {
	case s.loadErr != nil:
		if key == "r" || key == "R" {
			return s, s.load()
		}
		return s, nil
	case s.loading:
		return s, nil
	case s.feedback != nil:
		if key == "enter" || key == "space" {
			// No-op when auto-advance already served the next question.
			s.ctrl.Advance()
			return s, s.sync()
		}
		return s, nil
	}

	switch key {
	case "left", "right":
		s.confidence, _ = s.confidence.Update(msg)
		return s, nil
	case "enter":
		return s, s.submit()
	}
	s.choice, _ = s.choice.Update(msg)
	return s, nil
}

func (s *SessionScreen) submit() tea.Cmd {
	fb, ok := s.ctrl.Submit(s.choice.ChosenID(), s.confidence.Value())
	if !ok {
		return nil
	}
	s.choice.Reveal(fb.CorrectOptionID)
	s.feedback = &fb
	return nil
}

// Feedback is the outcome of the last submission while it is shown.
func (s *SessionScreen) Feedback() (sess.Feedback, bool) {
	if s.feedback == nil {
		return sess.Feedback{}, false
	}
	return *s.feedback, true
}
