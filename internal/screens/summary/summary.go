// Package summary shows a finished session and persists its result.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/ui/components"
	"github.com/abhisek/adaptiq/internal/ui/layout"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

const persistTimeout = 5 * time.Second

// PersistFunc stores a completed session.
type PersistFunc func(ctx context.Context, r session.Result) error

// savedMsg reports the outcome of persisting the result.
type savedMsg struct {
	Err error
}

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	result  session.Result
	persist PersistFunc
	again   func() screen.Screen
	menu    components.Menu

	saving  bool
	saved   bool
	saveErr error
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. persist may be nil; again builds the
// screen for a fresh run and may be nil to hide "Play again".
func New(result session.Result, persist PersistFunc, again func() screen.Screen) *SummaryScreen {
	s := &SummaryScreen{result: result, persist: persist, again: again}

	var items []components.MenuItem
	if again != nil {
		items = append(items, components.MenuItem{Label: "Play again", Key: "p", Action: s.playAgain})
	}
	items = append(items, components.MenuItem{Label: "Quit", Key: "q", Action: func() tea.Cmd { return tea.Quit }})
	s.menu = components.NewMenu(items...)
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	if s.persist == nil {
		return nil
	}
	s.saving = true
	result, persist := s.result, s.persist
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		return savedMsg{Err: persist(ctx, result)}
	}
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saving = false
		s.saved = msg.Err == nil
		s.saveErr = msg.Err
		return s, nil
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SummaryScreen) playAgain() tea.Cmd {
	next := s.again()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// WithHistory adds a "History" item that pushes the screen built by fn.
func (s *SummaryScreen) WithHistory(fn func() screen.Screen) *SummaryScreen {
	if fn == nil {
		return s
	}
	item := components.MenuItem{Label: "History", Key: "h", Action: func() tea.Cmd {
		next := fn()
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}}
	last := len(s.menu.Items) - 1
	s.menu.Items = append(s.menu.Items[:last], item, s.menu.Items[last])
	return s
}

// Result is the summarized session.
func (s *SummaryScreen) Result() session.Result {
	return s.result
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Session complete!"))
	b.WriteString("\n\n")

	if r.Learner != "" {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), "Well played, "+r.Learner))
		b.WriteString("\n")
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Duration: "+formatDuration(r.Duration())))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %.0f%%",
		r.Answered(), r.Score, r.Accuracy()*100)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine))
	b.WriteString("\n")

	levelLine := fmt.Sprintf("Difficulty: %.2f → %.2f        Skill: %.2f",
		r.Config.InitialDifficulty, r.FinalDifficulty, r.Skill)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), levelLine))
	b.WriteString("\n\n")

	if concepts := r.Concepts(); len(concepts) > 0 {
		b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Concepts"), width))
		b.WriteString("\n")
		b.WriteString(layout.Centered(layout.Divider(width), width))
		b.WriteString("\n\n")

		labelWidth := 0
		for _, c := range concepts {
			labelWidth = max(labelWidth, lipgloss.Width(c.Concept))
		}
		barWidth := min(width-8, 60)
		for _, c := range concepts {
			bar := components.NewProgressBar(fmt.Sprintf("%-*s", labelWidth, c.Concept), c.Mastery, true, barWidth-12)
			bar.Fill = theme.LevelColor(string(c.Level))
			level := lipgloss.NewStyle().Foreground(theme.LevelColor(string(c.Level))).
				Render(fmt.Sprintf("  %-10s", c.Level))
			b.WriteString(layout.Centered(bar.View()+level, width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true), s.saveStatus()))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(s.menu.View(), width))
	return b.String()
}

func (s *SummaryScreen) saveStatus() string {
	switch {
	case s.persist == nil:
		return "Not saved"
	case s.saving:
		return "Saving…"
	case s.saveErr != nil:
		return "Save failed: " + s.saveErr.Error()
	case s.saved:
		return "Saved"
	}
	return ""
}

func formatDuration(d time.Duration) string {
	d = max(d, 0)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
