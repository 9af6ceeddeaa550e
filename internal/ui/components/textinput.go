package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a validation message.
type TextInput struct {
	Model textinput.Model

	// Validate returns an error message for the trimmed value, or "".
	Validate func(string) string

	errMsg string
}

// NewTextInput creates a focused input limited to charLimit runes.
func NewTextInput(placeholder, initial string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(initial)
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Init starts the cursor blink.
func (t TextInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards msg to the underlying input and clears any stale
// validation message on edit.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		t.errMsg = ""
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Submit validates the value. It reports whether the value is acceptable
// and otherwise keeps the message for View.
func (t *TextInput) Submit() bool {
	if t.Validate == nil {
		return true
	}
	t.errMsg = t.Validate(t.Value())
	return t.errMsg == ""
}

// Value is the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// View renders the input and any validation message below it.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.errMsg != "" {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(t.errMsg)
	}
	return view
}
