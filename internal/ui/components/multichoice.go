package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/question"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

// MultiChoice selects one option of a question. Options are labelled
// A, B, C... by position; the letter or digit keys jump straight to an
// option.
type MultiChoice struct {
	Options   []question.Option
	Selected  int
	Submitted bool

	// CorrectID is set by Reveal once the answer has been graded.
	CorrectID string
}

// NewMultiChoice returns a selector with the first option highlighted.
func NewMultiChoice(options []question.Option) MultiChoice {
	return MultiChoice{Options: options}
}

// Update handles navigation and submission. It ignores input after
// submission.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted || len(m.Options) == 0 {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up":
		m.Selected = max(m.Selected-1, 0)
	case "down":
		m.Selected = min(m.Selected+1, len(m.Options)-1)
	case "enter":
		m.Submitted = true
	default:
		if i, ok := labelIndex(key); ok && i < len(m.Options) {
			m.Selected = i
		}
	}
	return m, nil
}

// ChosenID is the selected option's ID.
func (m MultiChoice) ChosenID() string {
	if m.Selected < 0 || m.Selected >= len(m.Options) {
		return ""
	}
	return m.Options[m.Selected].ID
}

// Reveal marks the graded answer for display.
func (m *MultiChoice) Reveal(correctID string) {
	m.Submitted = true
	m.CorrectID = correctID
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt.Text)

		style := theme.Unselected
		switch {
		case m.Submitted && opt.ID == m.CorrectID:
			style = theme.Correct
		case m.Submitted && i == m.Selected:
			style = theme.Incorrect
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// Label is the display letter for option i.
func Label(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}

func labelIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= 'a' && c <= 'z':
		return int(c - 'a'), true
	case c >= '1' && c <= '9':
		return int(c - '1'), true
	}
	return 0, false
}
