package bankgen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/abhisek/adaptiq/internal/question"
)

// Validator checks one drafted question.
type Validator interface {
	// Name is a short identifier for logs, e.g. "structural".
	Name() string

	// Validate returns nil if q may join the bank.
	Validate(q *question.Question, c Context) *ValidationError
}

// Context is what validators may consult besides the question itself.
type Context struct {
	// Accepted holds questions already admitted in this run.
	Accepted []question.Question

	// Options is the requested option count. Zero accepts any count of
	// two or more.
	Options int
}

// ValidationError explains why a draft was dropped.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

const (
	maxPromptLen      = 500
	maxOptionLen      = 200
	maxExplanationLen = 1000
)

// StructuralValidator checks field presence, lengths, option layout and
// difficulty range, then runs question.Lint on the result.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *question.Question, c Context) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	switch {
	case strings.TrimSpace(q.Prompt) == "":
		return fail("prompt is empty")
	case len(q.Prompt) > maxPromptLen:
		return fail("prompt exceeds %d characters", maxPromptLen)
	case len(q.Explanation) > maxExplanationLen:
		return fail("explanation exceeds %d characters", maxExplanationLen)
	case len(q.Options) < 2:
		return fail("need at least 2 options, got %d", len(q.Options))
	case c.Options > 0 && len(q.Options) != c.Options:
		return fail("expected %d options, got %d", c.Options, len(q.Options))
	}

	texts := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		t := normalize(o.Text)
		if t == "" {
			return fail("option %q is empty", o.ID)
		}
		if len(o.Text) > maxOptionLen {
			return fail("option %q exceeds %d characters", o.ID, maxOptionLen)
		}
		if texts[t] {
			return fail("duplicate option text %q", o.Text)
		}
		texts[t] = true
	}

	if issues := question.Lint([]question.Question{*q}); len(issues) > 0 {
		return fail("%s", issues[0].Message)
	}
	return nil
}

// DuplicateValidator rejects prompts already accepted, ignoring case,
// punctuation and spacing.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(q *question.Question, c Context) *ValidationError {
	p := normalize(q.Prompt)
	for _, a := range c.Accepted {
		if normalize(a.Prompt) == p {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("repeats %q", a.ID)}
		}
	}
	return nil
}

// normalize lowercases s and keeps only letters, digits and operators.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || isOperator(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isOperator keeps arithmetic symbols so "2+2" and "2-2" stay distinct.
func isOperator(r rune) bool {
	return strings.ContainsRune("+-*/=<>^%", r)
}
