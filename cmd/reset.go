package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all recorded sessions, stamps and LLM usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		stampsOnly, _ := cmd.Flags().GetBool("stamps")
		yes, _ := cmd.Flags().GetBool("yes")

		what := "ALL recorded data"
		if stampsOnly {
			what = fmt.Sprintf("spaced-repetition stamps for %q", cfg.Learner)
		}
		if !yes {
			fmt.Printf("This will delete %s. Continue? [y/N] ", what)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if stampsOnly {
			err = st.Stamps().Clear(cmd.Context(), cfg.Learner)
		} else {
			err = st.Reset(cmd.Context())
		}
		if err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("stamps", false, "Only clear the learner's last-correct stamps")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
