package bankgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice questions for an adaptive assessment.

Rules:
- Each question has exactly the requested number of options and exactly one correct option.
- Distractors should reflect common misconceptions, not random values.
- Rate difficulty from 0 (anyone can answer) to 1 (only an expert can answer), and aim for the requested targets.
- Label each question with a short lowercase concept, reusing labels from the provided list when one fits.
- Questions must be self-contained and unambiguous.
- Do not repeat any question from the "already accepted" list.`

func buildUserMessage(in Input, targets []float64, prior []string, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	if in.Audience != "" {
		fmt.Fprintf(&b, "Audience: %s\n", in.Audience)
	}
	if len(in.Concepts) > 0 {
		fmt.Fprintf(&b, "Concepts: %s\n", strings.Join(in.Concepts, ", "))
	}
	fmt.Fprintf(&b, "Options per question: %d\n", cfg.Options)
	fmt.Fprintf(&b, "Questions: %d\n", len(targets))

	b.WriteString("Difficulty targets:")
	for _, d := range targets {
		fmt.Fprintf(&b, " %.2f", d)
	}
	b.WriteString("\n\nAlready accepted:\n")
	b.WriteString(buildDedup(prior, cfg.MaxPriorPrompts))
	return b.String()
}

// buildDedup lists the most recent max prompts, or "None".
func buildDedup(prompts []string, max int) string {
	if len(prompts) == 0 {
		return "None"
	}
	if max > 0 && len(prompts) > max {
		prompts = prompts[len(prompts)-max:]
	}
	var b strings.Builder
	for i, p := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}

// spread returns n difficulties evenly spaced over [lo, hi].
func spread(n int, lo, hi float64) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{(lo + hi) / 2}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	return out
}
