// Package llm talks to hosted language models for question bank
// generation. Every vendor sits behind Provider; retry and request
// logging are layered on as decorators.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a single structured completion.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the provider asks for native structured output and the returned
	// Content has already been validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the vendor name, e.g. "anthropic".
	Name() string

	// ModelID is the configured model identifier.
	ModelID() string
}

// Request describes one completion call.
type Request struct {
	System   string
	Messages []Message

	// Schema constrains the output to JSON. Nil means free text, returned
	// as a JSON string.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is kebab-case, e.g. "question-batch". OpenAI uses it as the
	// response format name.
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is the output of one completion call.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Usage is token consumption for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func newUsage(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

type purposeKey struct{}

// Purpose labels used when recording requests.
const (
	PurposeBankGen = "bank-gen"
	PurposeUnknown = "unknown"
)

// WithPurpose labels calls made with ctx for request logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}

// finish validates content against req.Schema and assembles the response.
// Free-text content is wrapped as a JSON string.
func finish(req Request, content string, usage Usage, model, stop string) (*Response, error) {
	var raw json.RawMessage
	if req.Schema == nil {
		b, err := json.Marshal(content)
		if err != nil {
			return nil, &ErrInvalidResponse{Err: err}
		}
		raw = b
	} else {
		raw = json.RawMessage(content)
	}

	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: raw}
	}
	if err := validateResponse(req.Schema, raw); err != nil {
		return nil, err
	}
	return &Response{Content: raw, Usage: usage, Model: model, StopReason: stop}, nil
}
