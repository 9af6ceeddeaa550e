package question

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonBank = `{
  "format_version": "v1",
  "title": "Fractions warmup",
  "questions": [
    {
      "id": "f1",
      "prompt": "Which is larger: 3/4 or 2/3?",
      "options": [{"id": "a", "text": "3/4"}, {"id": "b", "text": "2/3"}],
      "correct_option_id": "a",
      "difficulty": 0.4,
      "concept": "fractions",
      "tags": ["compare"],
      "last_correct_at": "2026-01-02T03:04:05Z"
    }
  ]
}`

const yamlBank = `format_version: v1.2.0
questions:
  - id: d1
    prompt: What is 0.5 + 0.25?
    options:
      - id: a
        text: "0.75"
      - id: b
        text: "0.7"
    correct_option_id: a
    difficulty: 0.3
    concept: decimals
`

func TestParse_JSON(t *testing.T) {
	bank, err := Parse([]byte(jsonBank), false)
	require.NoError(t, err)

	assert.Equal(t, "Fractions warmup", bank.Title)
	require.Len(t, bank.Questions, 1)
	q := bank.Questions[0]
	assert.Equal(t, "f1", q.ID)
	assert.Equal(t, "fractions", q.Concept)
	assert.Len(t, q.Options, 2)
	assert.InDelta(t, 0.4, q.Difficulty, 1e-9)
	assert.True(t, q.LastCorrectAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestParse_YAML(t *testing.T) {
	bank, err := Parse([]byte(yamlBank), true)
	require.NoError(t, err)

	require.Len(t, bank.Questions, 1)
	assert.Equal(t, "d1", bank.Questions[0].ID)
	assert.Equal(t, "a", bank.Questions[0].CorrectOptionID)
	assert.False(t, bank.Questions[0].AnsweredCorrectly())
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing questions", `{"format_version": "v1"}`},
		{"difficulty above one", `{"format_version": "v1", "questions": [{"id": "x", "prompt": "p", "options": [{"id": "a", "text": ""}], "difficulty": 1.5}]}`},
		{"no options", `{"format_version": "v1", "questions": [{"id": "x", "prompt": "p", "options": [], "difficulty": 0.5}]}`},
		{"unknown field", `{"format_version": "v1", "questions": [], "extra": true}`},
		{"bad version string", `{"format_version": "one", "questions": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), false)
			assert.Error(t, err)
		})
	}
}

func TestParse_MissingCorrectOptionAllowed(t *testing.T) {
	doc := `{"format_version": "v1", "questions": [{"id": "x", "prompt": "p", "options": [{"id": "a", "text": "A"}], "difficulty": 0.5}]}`
	bank, err := Parse([]byte(doc), false)
	require.NoError(t, err)
	assert.Len(t, Lint(bank.Questions), 1)
}

func TestParse_UnsupportedMajorVersion(t *testing.T) {
	_, err := Parse([]byte(`{"format_version": "v2", "questions": []}`), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, name := range []string{"bank.json", "bank.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			stamp := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
			in := &Bank{
				Title: "Round trip",
				Questions: []Question{
					{ID: "q1", Prompt: "p1", Options: []Option{{ID: "a", Text: "A"}}, CorrectOptionID: "a", Difficulty: 0.25, Concept: "c", LastCorrectAt: stamp},
					{ID: "q2", Prompt: "p2", Options: []Option{{ID: "a", Text: "A"}}, CorrectOptionID: "a", Difficulty: 0.75, Tags: []string{"t"}},
				},
			}
			require.NoError(t, Save(path, in))

			out, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, FormatVersion, out.FormatVersion)
			require.Len(t, out.Questions, 2)
			assert.True(t, out.Questions[0].LastCorrectAt.Equal(stamp))
			assert.True(t, out.Questions[1].LastCorrectAt.IsZero())
			assert.Equal(t, []string{"t"}, out.Questions[1].Tags)
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonBank), 0o644))

	qs, err := FileSource{Path: path}.FetchBank(t.Context())
	require.NoError(t, err)
	assert.Len(t, qs, 1)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.FetchBank(t.Context())
	assert.Error(t, err)
}
