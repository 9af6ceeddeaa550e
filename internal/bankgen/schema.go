package bankgen

import "github.com/abhisek/adaptiq/internal/llm"

// BatchSchema is the structured output requested from the model. Every
// field is required and extra fields are rejected, which strict OpenAI
// response formats demand.
var BatchSchema = &llm.Schema{
	Name:        "question-batch",
	Description: "A batch of multiple-choice assessment questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner",
						},
						"options": map[string]any{
							"type":        "array",
							"minItems":    2,
							"items":       map[string]any{"type": "string"},
							"description": "Answer choices in display order",
						},
						"correct_index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Zero-based index of the correct entry in options",
						},
						"difficulty": map[string]any{
							"type":        "number",
							"minimum":     0,
							"maximum":     1,
							"description": "Hardness from 0 (trivial) to 1 (expert)",
						},
						"concept": map[string]any{
							"type":        "string",
							"description": "Short concept label the question exercises",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct option is right, in two or three sentences",
						},
					},
					"required":             []any{"prompt", "options", "correct_index", "difficulty", "concept", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

type batchOutput struct {
	Questions []draftOutput `json:"questions"`
}

type draftOutput struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Difficulty   float64  `json:"difficulty"`
	Concept      string   `json:"concept"`
	Explanation  string   `json:"explanation"`
}
