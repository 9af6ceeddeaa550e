package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/config"
	"github.com/abhisek/adaptiq/internal/session"
)

func addSessionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("max-questions", session.DefaultMaxQuestions, "Maximum questions per session")
	f.Float64("initial-difficulty", session.DefaultInitialDifficulty, "Starting target difficulty (0-1)")
	f.Bool("no-spaced", false, "Disable spaced repetition")
	f.Bool("auto-advance", false, "Move to the next question immediately after answering")
	f.Bool("remember", false, "Carry last-correct times across sessions")
}

// applySessionFlags overrides cfg with the session flags the user set and
// validates the result.
func applySessionFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("max-questions") {
		cfg.Session.MaxQuestions, _ = f.GetInt("max-questions")
	}
	if f.Changed("initial-difficulty") {
		cfg.Session.InitialDifficulty, _ = f.GetFloat64("initial-difficulty")
	}
	if f.Changed("no-spaced") {
		noSpaced, _ := f.GetBool("no-spaced")
		cfg.Session.SpacedRepetition = !noSpaced
	}
	if f.Changed("auto-advance") {
		cfg.Session.AutoAdvance, _ = f.GetBool("auto-advance")
	}
	if f.Changed("remember") {
		cfg.Remember, _ = f.GetBool("remember")
	}
	return config.Validate(cfg)
}
