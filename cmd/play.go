package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/app"
	"github.com/abhisek/adaptiq/internal/config"
	"github.com/abhisek/adaptiq/internal/question"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/screens/history"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play <bank-file>",
	Short: "Start an interactive session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args[0])
	},
}

func init() {
	addSessionFlags(playCmd)
}

// runPlay opens the store, builds dependencies, and launches the TUI.
func runPlay(cmd *cobra.Command, bankPath string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applySessionFlags(cmd, cfg); err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	// The TUI owns the terminal, so logs go to a file beside the database.
	logFile, err := os.OpenFile(filepath.Join(filepath.Dir(dbPath), "adaptiq.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log, err := newLogger(cfg, logFile)
	if err != nil {
		return err
	}

	bankName := strings.TrimSuffix(filepath.Base(bankPath), filepath.Ext(bankPath))
	return app.Run(app.Options{
		Learner:       cfg.Learner,
		BankName:      bankName,
		Source:        question.FileSource{Path: bankPath},
		NewController: controllerFactory(cmd.Context(), cfg, st, log),
		Persist:       persistFunc(cfg, st, bankName, log),
		History: func(learner string) screen.Screen {
			return history.New(st.Results(), learner)
		},
	})
}

// controllerFactory builds a controller per learner, seeding stamps from
// earlier sessions when remember is on.
func controllerFactory(ctx context.Context, cfg *config.Config, st *store.Store, log *slog.Logger) func(string) (*session.Controller, error) {
	return func(learner string) (*session.Controller, error) {
		opts := []session.Option{
			session.WithLearner(learner),
			session.WithLogger(log.With("learner", learner)),
		}
		if cfg.Remember {
			stamps, err := st.Stamps().Load(ctx, learner)
			if err != nil {
				return nil, fmt.Errorf("load stamps: %w", err)
			}
			opts = append(opts, session.WithStamps(stamps))
		}
		return session.New(cfg.Session, opts...), nil
	}
}

// persistFunc saves a completed session and, when remember is on, its
// stamps.
func persistFunc(cfg *config.Config, st *store.Store, bankName string, log *slog.Logger) func(context.Context, session.Result) error {
	return func(ctx context.Context, r session.Result) error {
		if err := st.Results().Save(ctx, store.RecordFromResult(r, bankName)); err != nil {
			log.Error("save session failed", "session_id", r.SessionID, "error", err)
			return err
		}
		if cfg.Remember {
			if err := st.Stamps().Save(ctx, r.Learner, r.Stamps); err != nil {
				log.Error("save stamps failed", "learner", r.Learner, "error", err)
				return err
			}
		}
		log.Info("session saved", "session_id", r.SessionID, "score", r.Score, "answered", r.Answered())
		return nil
	}
}
