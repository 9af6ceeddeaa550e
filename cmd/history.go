package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List recent sessions or show one session's answers",
	Args:  cobra.MaximumNArgs(1),
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

		if len(args) == 1 {
			rec, err := st.Results().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSession(rec)
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		learner := ""
		if cmd.Flags().Changed("learner") {
			learner = cfg.Learner
		}
		sessions, err := st.Results().List(cmd.Context(), store.ListOpts{Learner: learner, Limit: limit})
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-8s  %-16s  %-14s  %-16s  %-7s  %-5s  %s\n",
			"ID", "Started", "Learner", "Bank", "Score", "Acc", "Final D")
		fmt.Println(strings.Repeat("─", 88))
		for _, s := range sessions {
			fmt.Printf("%-8s  %-16s  %-14s  %-16s  %-7s  %4.0f%%  %.2f\n",
				truncate(s.ID, 8),
				s.StartedAt.Local().Format("2006-01-02 15:04"),
				truncate(s.Learner, 14),
				truncate(s.Bank, 16),
				fmt.Sprintf("%d/%d", s.Score, s.Answered),
				s.Accuracy()*100,
				s.FinalDifficulty,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}

func printSession(rec *store.SessionRecord) {
	fmt.Printf("ID:          %s\n", rec.ID)
	fmt.Printf("Learner:     %s\n", rec.Learner)
	fmt.Printf("Bank:        %s\n", rec.Bank)
	fmt.Printf("Started:     %s\n", rec.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration:    %s\n", rec.EndedAt.Sub(rec.StartedAt).Round(time.Second))
	fmt.Printf("Score:       %d/%d (%.0f%%)\n", rec.Score, rec.Answered, rec.Accuracy()*100)
	fmt.Printf("Difficulty:  %.2f → %.2f\n", rec.InitialDifficulty, rec.FinalDifficulty)
	fmt.Printf("Skill:       %.2f\n", rec.Skill)

	if len(rec.Answers) > 0 {
		fmt.Println()
		fmt.Printf("%-3s  %-12s  %-6s  %-3s  %-6s  %-5s  %s\n", "#", "Question", "Answer", "OK", "Diff", "Conf", "Secs")
		fmt.Println(strings.Repeat("─", 56))
		for i, a := range rec.Answers {
			ok := "✓"
			if !a.Correct {
				ok = "✗"
			}
			fmt.Printf("%-3d  %-12s  %-6s  %-3s  %-6.2f  %-5.2f  %.1f\n",
				i+1, truncate(a.QuestionID, 12), truncate(a.AnswerID, 6), ok, a.Difficulty, a.Confidence, a.TimeSpentSecs)
		}
	}

	if len(rec.Mastery) > 0 {
		concepts := make([]string, 0, len(rec.Mastery))
		for c := range rec.Mastery {
			concepts = append(concepts, c)
		}
		sort.Strings(concepts)
		fmt.Println()
		for _, c := range concepts {
			fmt.Printf("%-24s  %s %.2f\n", truncate(c, 24), meter(rec.Mastery[c], 16), rec.Mastery[c])
		}
	}
}
