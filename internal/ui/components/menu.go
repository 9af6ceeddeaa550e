package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/ui/theme"
)

// MenuItem is one entry in a Menu.
type MenuItem struct {
	Label  string
	Key    string // optional shortcut, e.g. "q"
	Action func() tea.Cmd
}

// Menu is a vertical list of actions.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu returns a menu with the first item selected.
func NewMenu(items ...MenuItem) Menu {
	return Menu{Items: items}
}

// Update handles arrows, shortcuts and Enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up":
		m.Selected = max(m.Selected-1, 0)
	case "down":
		m.Selected = min(m.Selected+1, len(m.Items)-1)
	case "enter":
		return m, m.run(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Key != "" && item.Key == key {
				m.Selected = i
				return m, m.run(i)
			}
		}
	}
	return m, nil
}

func (m Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) || m.Items[i].Action == nil {
		return nil
	}
	return m.Items[i].Action()
}

// View renders the menu.
func (m Menu) View() string {
	hint := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder
	for i, item := range m.Items {
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("▸ " + item.Label))
		} else {
			b.WriteString(theme.Unselected.Render("  " + item.Label))
		}
		if item.Key != "" {
			b.WriteString(hint.Render(" (" + item.Key + ")"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
