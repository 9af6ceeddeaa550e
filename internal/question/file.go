package question

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the bank file format written by Save.
const FormatVersion = "v1"

//go:embed bank.schema.json
var bankSchemaJSON []byte

// ErrUnsupportedFormat is returned for bank files whose format_version has
// a major version this build cannot read.
var ErrUnsupportedFormat = errors.New("unsupported bank format version")

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Bank is the on-disk representation of a question bank.
type Bank struct {
	FormatVersion string
	Title         string
	Questions     []Question
}

type bankFile struct {
	FormatVersion string         `json:"format_version" yaml:"format_version"`
	Title         string         `json:"title,omitempty" yaml:"title,omitempty"`
	Questions     []questionFile `json:"questions" yaml:"questions"`
}

type questionFile struct {
	Question      `yaml:",inline"`
	LastCorrectAt string `json:"last_correct_at,omitempty" yaml:"last_correct_at,omitempty"`
}

// Parse decodes and validates a bank document. YAML input is normalized
// to JSON before schema validation, so both formats obey the same rules.
func Parse(data []byte, yamlInput bool) (*Bank, error) {
	if yamlInput {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		normalized, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("normalize yaml: %w", err)
		}
		data = normalized
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	sch, err := bankSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("bank schema validation: %w", err)
	}

	var bf bankFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}
	if semver.Major(bf.FormatVersion) != semver.Major(FormatVersion) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, bf.FormatVersion)
	}

	bank := &Bank{
		FormatVersion: bf.FormatVersion,
		Title:         bf.Title,
		Questions:     make([]Question, 0, len(bf.Questions)),
	}
	for _, qf := range bf.Questions {
		q := qf.Question
		if qf.LastCorrectAt != "" {
			t, err := time.Parse(time.RFC3339, qf.LastCorrectAt)
			if err != nil {
				return nil, fmt.Errorf("question %q: last_correct_at: %w", q.ID, err)
			}
			q.LastCorrectAt = t
		}
		bank.Questions = append(bank.Questions, q)
	}
	return bank, nil
}

// Load reads a bank file from disk. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	bank, err := Parse(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bank, nil
}

// Save writes bank to path in the format implied by its extension.
func Save(path string, bank *Bank) error {
	bf := bankFile{
		FormatVersion: bank.FormatVersion,
		Title:         bank.Title,
		Questions:     make([]questionFile, len(bank.Questions)),
	}
	if bf.FormatVersion == "" {
		bf.FormatVersion = FormatVersion
	}
	for i, q := range bank.Questions {
		qf := questionFile{Question: q}
		if !q.LastCorrectAt.IsZero() {
			qf.LastCorrectAt = q.LastCorrectAt.UTC().Format(time.RFC3339)
		}
		bf.Questions[i] = qf
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(bf)
	} else {
		data, err = json.MarshalIndent(bf, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create bank dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// FileSource supplies a session with questions read from a bank file.
type FileSource struct {
	Path string
}

// FetchBank loads the bank file. The context is only checked before the
// read; local files do not block long enough to need cancellation.
func (f FileSource) FetchBank(ctx context.Context) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bank, err := Load(f.Path)
	if err != nil {
		return nil, err
	}
	return bank.Questions, nil
}

// StaticSource supplies a fixed set of questions.
type StaticSource []Question

// FetchBank returns a copy of the questions.
func (s StaticSource) FetchBank(_ context.Context) ([]Question, error) {
	return CloneAll(s), nil
}

func bankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(bankSchemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://bank.json"
		if err := c.AddResource(url, doc); err != nil {
			compileErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
