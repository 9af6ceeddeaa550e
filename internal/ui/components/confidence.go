package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/ui/theme"
)

// ConfidenceLevels are the steps offered by the confidence meter.
var ConfidenceLevels = []float64{0, 0.25, 0.5, 0.75, 1}

var confidenceNames = []string{"Guessing", "Unsure", "Maybe", "Fairly sure", "Certain"}

// Confidence is a left/right stepper over ConfidenceLevels.
type Confidence struct {
	Index int
	Width int
}

// NewConfidence starts at the middle step.
func NewConfidence(width int) Confidence {
	return Confidence{Index: len(ConfidenceLevels) / 2, Width: width}
}

// Update moves the meter with ←/→.
func (c Confidence) Update(msg tea.Msg) (Confidence, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}
	switch kmsg.String() {
	case "left":
		c.Index = max(c.Index-1, 0)
	case "right":
		c.Index = min(c.Index+1, len(ConfidenceLevels)-1)
	}
	return c, nil
}

// Value is the selected confidence in [0,1].
func (c Confidence) Value() float64 {
	return ConfidenceLevels[c.Index]
}

// View renders the meter with its label.
func (c Confidence) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("%-11s", confidenceNames[c.Index]))
	bar := NewProgressBar("Confidence", c.Value(), false, c.Width).View()
	return bar + "  " + label
}
