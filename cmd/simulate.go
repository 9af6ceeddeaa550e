package cmd

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/learner"
	"github.com/abhisek/adaptiq/internal/question"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/store"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <bank-file>",
	Short: "Run sessions with a simulated learner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applySessionFlags(cmd, cfg); err != nil {
			return err
		}
		log, err := stderrLogger(cfg)
		if err != nil {
			return err
		}

		runs, _ := cmd.Flags().GetInt("sessions")
		ability, _ := cmd.Flags().GetFloat64("ability")
		calibration, _ := cmd.Flags().GetFloat64("calibration")
		seed, _ := cmd.Flags().GetUint64("seed")
		save, _ := cmd.Flags().GetBool("save")

		bank, err := question.Load(args[0])
		if err != nil {
			return err
		}
		for _, issue := range question.Lint(bank.Questions) {
			log.Warn("bank issue", "issue", issue.String())
		}
		bankName := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))

		var st *store.Store
		if save {
			if st, err = openStore(cfg); err != nil {
				return err
			}
			defer st.Close()
		}

		name := cfg.Learner
		if !cmd.Flags().Changed("learner") {
			name = "simulated"
		}
		src := question.StaticSource(bank.Questions)
		sim := learner.New(learner.Profile{Ability: ability, Calibration: calibration}, seed)
		// Selection draws from its own seeded stream so runs are reproducible.
		pick := rand.New(rand.NewPCG(seed, ^seed))

		fmt.Printf("%-4s  %-8s  %-8s  %-9s  %-7s  %-6s\n", "Run", "Score", "Acc", "Final D", "Skill", "Secs")
		fmt.Println(strings.Repeat("─", 52))

		var totalAcc, totalDiff float64
		var prev *session.Result
		for i := range runs {
			opts := []session.Option{
				session.WithLearner(name),
				session.WithLogger(log),
				session.WithRandom(pick),
			}
			if cfg.Remember && prev != nil {
				opts = append(opts, session.WithStamps(prev.Stamps))
			}
			r, err := sim.Run(cmd.Context(), src, cfg.Session, opts...)
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			prev = &r

			var secs float64
			for _, rec := range r.Records {
				secs += rec.TimeSpentSecs
			}
			fmt.Printf("%-4d  %-8s  %-8s  %-9.2f  %-7.2f  %-6.0f\n",
				i+1, fmt.Sprintf("%d/%d", r.Score, r.Answered()), fmt.Sprintf("%.0f%%", r.Accuracy()*100),
				r.FinalDifficulty, r.Skill, secs)
			totalAcc += r.Accuracy()
			totalDiff += r.FinalDifficulty

			if st != nil {
				if err := st.Results().Save(cmd.Context(), store.RecordFromResult(r, bankName)); err != nil {
					return fmt.Errorf("save run %d: %w", i+1, err)
				}
			}
		}

		if runs > 0 {
			fmt.Println(strings.Repeat("─", 52))
			fmt.Printf("Mean accuracy %.0f%%, mean final difficulty %.2f (ability %.2f)\n",
				totalAcc/float64(runs)*100, totalDiff/float64(runs), ability)
		}
		return nil
	},
}

func init() {
	addSessionFlags(simulateCmd)
	f := simulateCmd.Flags()
	f.IntP("sessions", "n", 5, "Number of sessions to run")
	f.Float64("ability", 0.5, "Simulated learner ability (0-1)")
	f.Float64("calibration", 0.7, "How closely declared confidence tracks correctness (0-1)")
	f.Uint64("seed", 1, "Random seed for the simulated learner")
	f.Bool("save", false, "Persist simulated sessions")
}
