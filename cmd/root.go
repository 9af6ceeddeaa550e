package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/config"
	"github.com/abhisek/adaptiq/internal/logging"
	"github.com/abhisek/adaptiq/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "adaptiq [bank-file]",
	Short: "Adaptive multiple-choice assessments in the terminal",
	Long: "adaptiq serves questions from a bank, adapting difficulty to each answer,\n" +
		"tracking a skill estimate and per-concept mastery, and revisiting questions\n" +
		"by spaced repetition.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runPlay(cmd, args[0])
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addGlobalFlags(rootCmd)
	addSessionFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// addGlobalFlags registers the persistent flags read by loadConfig.
func addGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides ADAPTIQ_DB env var)")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/adaptiq/config.yaml)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text, json")
	pf.String("learner", "", "Learner name")
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DB = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if v, _ := cmd.Flags().GetString("learner"); v != "" {
		cfg.Learner = v
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger. Output goes to w.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	log, err := logging.New(w, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return log, nil
}

// resolveDBPath returns the database path using --db / config (highest
// priority), then ADAPTIQ_DB env var, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	return store.ResolveDBPath(cfg.DB)
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// stderrLogger is the logger for non-interactive commands.
func stderrLogger(cfg *config.Config) (*slog.Logger, error) {
	return newLogger(cfg, os.Stderr)
}
