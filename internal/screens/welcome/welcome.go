// Package welcome is the first screen: banner and learner name prompt.
package welcome

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/ui/components"
	"github.com/abhisek/adaptiq/internal/ui/layout"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

const maxNameLen = 32

// StartFunc builds the first session screen for learner.
type StartFunc func(learner string) (screen.Screen, error)

// WelcomeScreen asks for the learner's name, then replaces itself with
// the screen produced by start.
type WelcomeScreen struct {
	start    StartFunc
	bankName string
	input    components.TextInput
	err      string
	started  bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen with the name prefilled.
func New(learner, bankName string, start StartFunc) *WelcomeScreen {
	input := components.NewTextInput("Your name", learner, maxNameLen)
	input.Validate = validateName
	return &WelcomeScreen{
		start:    start,
		bankName: bankName,
		input:    input,
	}
}

func validateName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Please enter a name"
	}
	return ""
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return w.input.Init()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return w, w.submit()
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	if _, ok := msg.(tea.KeyPressMsg); ok {
		w.err = ""
	}
	return w, cmd
}

func (w *WelcomeScreen) submit() tea.Cmd {
	if w.started || !w.input.Submit() {
		return nil
	}
	next, err := w.start(w.input.Value())
	if err != nil {
		w.err = err.Error()
		return nil
	}
	w.started = true
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// Learner is the name currently entered.
func (w *WelcomeScreen) Learner() string {
	return w.input.Value()
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Adaptive practice that meets you where you are"),
	}
	if w.bankName != "" {
		sections = append(sections, theme.Subtitle.Render("Bank: "+w.bankName))
	}
	sections = append(sections,
		"",
		theme.Body.Render("Who's playing?"),
		w.input.View(),
	)
	if w.err != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Error).Render(w.err))
	}
	sections = append(sections, "", theme.Hint.Render("press enter to begin"))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
