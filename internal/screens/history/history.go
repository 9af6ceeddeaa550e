// Package history lists a learner's past sessions.
package history

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/mastery"
	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/store"
	"github.com/abhisek/adaptiq/internal/ui/layout"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

const listLimit = 50

// Repo is the subset of store.ResultRepo the screen reads.
type Repo interface {
	List(ctx context.Context, opts store.ListOpts) ([]store.SessionRecord, error)
	Get(ctx context.Context, id string) (*store.SessionRecord, error)
}

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

type detailLoadedMsg struct {
	ID     string
	Record *store.SessionRecord
	Err    error
}

// HistoryScreen displays past sessions; Enter expands concept mastery.
type HistoryScreen struct {
	repo     Repo
	learner  string
	sessions []store.SessionRecord
	details  map[string]*store.SessionRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen for learner. An empty learner lists all.
func New(repo Repo, learner string) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		learner:  learner,
		details:  make(map[string]*store.SessionRecord),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, learner := s.repo, s.learner
	return func() tea.Msg {
		sessions, err := repo.List(context.Background(), store.ListOpts{Learner: learner, Limit: listLimit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case detailLoadedMsg:
		if msg.Err == nil {
			s.details[msg.ID] = msg.Record
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.sessions) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, s.loadDetail(s.sessions[s.selected].ID)
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadDetail(id string) tea.Cmd {
	if _, ok := s.details[id]; ok {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		rec, err := repo.Get(context.Background(), id)
		return detailLoadedMsg{ID: id, Record: rec, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.sessions {
		d := rec.EndedAt.Sub(rec.StartedAt)
		durationStr := fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %s  %-12s  %d/%d  %.0f%% accuracy  difficulty %.2f",
			prefix, rec.StartedAt.Local().Format("Jan 02, 2006"), durationStr, rec.Bank,
			rec.Score, rec.Answered, rec.Accuracy()*100, rec.FinalDifficulty)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderDetail(rec.ID, width))
		}
	}
	return b.String()
}

func (s *HistoryScreen) renderDetail(id string, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	rec, ok := s.details[id]
	if !ok {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    loading...")) + "\n"
	}
	if len(rec.Mastery) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No concepts this session")) + "\n"
	}

	concepts := make([]string, 0, len(rec.Mastery))
	for c := range rec.Mastery {
		concepts = append(concepts, c)
	}
	sort.Strings(concepts)

	var b strings.Builder
	for _, c := range concepts {
		level := mastery.LevelFor(rec.Mastery[c])
		line := fmt.Sprintf("    %-20s %.2f  %s", c, rec.Mastery[c], level)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.LevelColor(string(level))).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
