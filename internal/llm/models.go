package llm

import "strings"

// Friendly model aliases per vendor. Unknown names pass through as
// literal model IDs.
var (
	anthropicModels = map[string]string{
		"claude-sonnet": "claude-sonnet-4-5-20250929",
		"claude-haiku":  "claude-haiku-4-5-20251001",
		"claude-opus":   "claude-opus-4-5-20251101",
	}
	openaiModels = map[string]string{
		"gpt-mini": "gpt-4.1-mini",
		"gpt-nano": "gpt-4.1-nano",
	}
	geminiModels = map[string]string{
		"gemini-flash":      "gemini-2.5-flash",
		"gemini-flash-lite": "gemini-2.5-flash-lite",
		"gemini-pro":        "gemini-2.5-pro",
	}
)

func resolveModel(name string, aliases map[string]string) string {
	name = strings.TrimSpace(name)
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
