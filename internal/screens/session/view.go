package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/mastery"
	"github.com/abhisek/adaptiq/internal/question"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	switch {
	case s.loadErr != nil:
		return renderError(width, s.loadErr.Error())
	case s.loading:
		return renderLoading(width)
	case s.confirmQuit:
		return renderQuitConfirm(width)
	}
	q, ok := s.currentQuestion()
	if !ok {
		return renderLoading(width)
	}
	return s.renderQuestion(q, width)
}

// currentQuestion is the question on screen. During feedback it is the
// answered one even if auto-advance has already served the next.
func (s *SessionScreen) currentQuestion() (question.Question, bool) {
	if s.feedback != nil {
		for _, q := range s.ctrl.Bank() {
			if q.ID == s.feedback.QuestionID {
				return q, true
			}
		}
	}
	return s.ctrl.Current()
}

func (s *SessionScreen) renderQuestion(q question.Question, width int) string {
	var b strings.Builder

	concept := q.Concept
	if concept == "" {
		concept = "general"
	}
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + concept)
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("difficulty %.2f", q.Difficulty))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	b.WriteString("\n")

	if s.feedback == nil {
		meter := s.confidence
		meter.Width = min(width-20, 50)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, meter.View()))
		return b.String()
	}
	b.WriteString(s.renderFeedback(width))
	return b.String()
}

func (s *SessionScreen) renderFeedback(width int) string {
	fb := s.feedback
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text) + "\n"
	}

	var b strings.Builder
	if fb.Correct {
		b.WriteString(center(theme.Correct, "Correct!"))
	} else {
		b.WriteString(center(theme.Incorrect, "Not quite."))
	}
	if fb.Explanation != "" {
		b.WriteString("\n")
		explanation := lipgloss.NewStyle().Foreground(theme.Text).Width(min(width-8, 70)).Render(fb.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, explanation) + "\n")
	}
	b.WriteString("\n")

	stats := fmt.Sprintf("Difficulty %.2f    Skill %.2f", fb.Difficulty, fb.Skill)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), stats))

	if t := fb.Mastery; t != nil {
		line := fmt.Sprintf("%s  %.2f → %.2f", t.Concept, t.From, t.To)
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if t.LevelChanged() {
			level := mastery.LevelFor(t.To)
			line += fmt.Sprintf("  (%s)", level)
			style = lipgloss.NewStyle().Foreground(theme.LevelColor(string(level))).Bold(true)
		}
		b.WriteString(center(style, line))
	}

	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Press enter to continue..."))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "Quit this session?"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Unfinished sessions are not saved."))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error), "[Y] Yes, quit"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Loading questions...")
}

// renderError renders a load failure.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press r to retry or esc to quit.", errMsg))
}
