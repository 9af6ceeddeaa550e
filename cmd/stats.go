package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/mastery"
	"github.com/abhisek/adaptiq/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		learner := ""
		if all, _ := cmd.Flags().GetBool("all"); !all {
			learner = cfg.Learner
		}

		ctx := cmd.Context()
		sessions, err := st.Results().List(ctx, store.ListOpts{Learner: learner})
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		var answered, correct int
		var skill float64
		for _, s := range sessions {
			answered += s.Answered
			correct += s.Score
		}
		skill = sessions[0].Skill

		who := learner
		if who == "" {
			who = "all learners"
		}
		fmt.Printf("Learner:    %s\n", who)
		fmt.Printf("Sessions:   %d\n", len(sessions))
		fmt.Printf("Answers:    %d (%d correct, %.0f%%)\n", answered, correct, percent(correct, answered))
		fmt.Printf("Last skill: %.2f\n", skill)

		concepts, err := st.Results().ConceptSummary(ctx, learner)
		if err != nil {
			return err
		}
		if len(concepts) > 0 {
			fmt.Println()
			fmt.Printf("%-24s  %-22s  %-10s  %8s\n", "Concept", "Mastery", "Level", "Sessions")
			fmt.Println(strings.Repeat("─", 70))
			for _, c := range concepts {
				fmt.Printf("%-24s  %s %.2f  %-10s  %8d\n",
					truncate(c.Concept, 24), meter(c.Mastery, 16), c.Mastery, mastery.LevelFor(c.Mastery), c.Sessions)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("all", false, "Aggregate across all learners")
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// meter renders v (0..1) as a fixed-width text bar.
func meter(v float64, width int) string {
	filled := int(min(max(v, 0), 1)*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
