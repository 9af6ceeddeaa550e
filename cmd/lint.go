package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/question"
)

var lintCmd = &cobra.Command{
	Use:   "lint <bank-file>...",
	Short: "Check bank files for malformed questions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			bank, err := question.Load(path)
			if err != nil {
				fmt.Printf("%s: %v\n", path, err)
				failed++
				continue
			}
			issues := question.Lint(bank.Questions)
			for _, issue := range issues {
				fmt.Printf("%s: %s\n", path, issue)
			}
			if len(issues) > 0 {
				failed++
				continue
			}
			fmt.Printf("%s: ok (%d questions, %d concepts)\n", path, len(bank.Questions), len(question.Concepts(bank.Questions)))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d bank files have problems", failed, len(args))
		}
		return nil
	},
}
