// Package bankgen drafts question banks with a language model.
package bankgen

// Config controls a Generator.
type Config struct {
	// Validators run in order on every drafted question; the first
	// failure drops it.
	Validators []Validator

	// BatchSize is how many questions one request asks for.
	BatchSize int

	// MaxRounds caps requests per Generate call.
	MaxRounds int

	// Options is the number of answer options per question.
	Options int

	MinDifficulty float64
	MaxDifficulty float64

	MaxTokens   int
	Temperature float64

	// MaxPriorPrompts limits how many already-accepted prompts are listed
	// in the request for deduplication.
	MaxPriorPrompts int
}

// DefaultConfig returns the stock validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DuplicateValidator{},
		},
		BatchSize:       8,
		MaxRounds:       6,
		Options:         4,
		MinDifficulty:   0.1,
		MaxDifficulty:   0.9,
		MaxTokens:       4096,
		Temperature:     0.7,
		MaxPriorPrompts: 20,
	}
}
