package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptiq/internal/question"
)

func options() []question.Option {
	return []question.Option{{ID: "x", Text: "one"}, {ID: "y", Text: "two"}, {ID: "z", Text: "three"}}
}

func TestMultiChoice_Navigation(t *testing.T) {
	m := NewMultiChoice(options())
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 0 {
		t.Errorf("up at top: Selected = %d, want 0", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Errorf("Selected = %d, want 2", m.Selected)
	}
	if m.ChosenID() != "z" {
		t.Errorf("ChosenID = %q, want z", m.ChosenID())
	}
}

func TestMultiChoice_LabelKeys(t *testing.T) {
	m := NewMultiChoice(options())
	m, _ = m.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	if m.ChosenID() != "y" {
		t.Errorf("after b: ChosenID = %q, want y", m.ChosenID())
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if m.ChosenID() != "z" {
		t.Errorf("after 3: ChosenID = %q, want z", m.ChosenID())
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if m.ChosenID() != "z" {
		t.Errorf("out of range label moved selection to %q", m.ChosenID())
	}
}

func TestMultiChoice_IgnoresInputAfterSubmit(t *testing.T) {
	m := NewMultiChoice(options())
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !m.Submitted {
		t.Fatal("expected Submitted after enter")
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 0 {
		t.Error("selection changed after submit")
	}
}

func TestMultiChoice_View(t *testing.T) {
	m := NewMultiChoice(options())
	view := m.View()
	for _, want := range []string{"A)", "B)", "C)", "three"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	m.Reveal("y")
	if m.CorrectID != "y" || !m.Submitted {
		t.Error("Reveal should mark the correct option and submit")
	}
}

func TestLabel(t *testing.T) {
	if Label(0) != "A" || Label(25) != "Z" || Label(26) != "27" {
		t.Errorf("labels = %q %q %q", Label(0), Label(25), Label(26))
	}
}

func TestConfidence_Steps(t *testing.T) {
	c := NewConfidence(40)
	if c.Value() != 0.5 {
		t.Errorf("initial confidence = %v, want 0.5", c.Value())
	}
	for range 5 {
		c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	}
	if c.Value() != 0 {
		t.Errorf("confidence = %v, want 0", c.Value())
	}
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if c.Value() != 0.25 {
		t.Errorf("confidence = %v, want 0.25", c.Value())
	}
	if !strings.Contains(c.View(), "Unsure") {
		t.Error("expected step name in view")
	}
}

func TestMenu_ShortcutRunsAction(t *testing.T) {
	ran := ""
	m := NewMenu(
		MenuItem{Label: "Again", Key: "p", Action: func() tea.Cmd { ran = "again"; return nil }},
		MenuItem{Label: "Quit", Key: "q", Action: func() tea.Cmd { ran = "quit"; return nil }},
	)
	m, _ = m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if ran != "quit" || m.Selected != 1 {
		t.Errorf("ran = %q selected = %d", ran, m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if ran != "again" {
		t.Errorf("enter ran %q, want again", ran)
	}
}

func TestProgressBar_ClampsPercent(t *testing.T) {
	over := NewProgressBar("", 1.7, true, 30).View()
	if !strings.Contains(over, "100%") {
		t.Errorf("expected 100%% for overfull bar, got %q", over)
	}
	under := NewProgressBar("", -1, true, 30).View()
	if !strings.Contains(under, "0%") {
		t.Errorf("expected 0%% for negative bar, got %q", under)
	}
}

func TestTextInput_Validate(t *testing.T) {
	in := NewTextInput("name", "  ", 10)
	in.Validate = func(v string) string {
		if v == "" {
			return "required"
		}
		return ""
	}
	if in.Submit() {
		t.Error("blank value should fail validation")
	}
	if !strings.Contains(in.View(), "required") {
		t.Error("expected validation message in view")
	}
	in.Model.SetValue("ada")
	if !in.Submit() || in.Value() != "ada" {
		t.Errorf("Submit failed for %q", in.Value())
	}
}
