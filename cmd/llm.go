package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM configuration and usage",
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
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

		purpose, _ := cmd.Flags().GetString("purpose")
		u, err := st.LLMRequests().Usage(cmd.Context(), purpose)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if u.Requests == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Printf("Requests:  %d (%d failed)\n", u.Requests, u.Failures)
		fmt.Printf("Tokens:    %d in / %d out\n", u.InputTokens, u.OutputTokens)
		fmt.Printf("Cost:      %s (estimated)\n", formatCost(u.CostUSD))
		return nil
	},
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Show which LLM provider and model would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		llmCfg, ok := llm.Discover(cfg.LLM)
		if !ok {
			return fmt.Errorf("LLM provider not configured: %w", llmCfg.Validate())
		}
		p, err := llm.NewProvider(cmd.Context(), llmCfg)
		if err != nil {
			return err
		}
		fmt.Printf("Provider:  %s\n", p.Name())
		fmt.Printf("Model:     %s\n", p.ModelID())
		if cost := llm.LookupCost(p.ModelID()); cost != nil {
			fmt.Printf("Pricing:   $%.2f / $%.2f per 1M tokens in/out\n", cost.InputPerMTok, cost.OutputPerMTok)
		} else {
			fmt.Println("Pricing:   unknown")
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmStatsCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. bank-gen)")

	llmCmd.AddCommand(llmStatsCmd)
	llmCmd.AddCommand(llmCheckCmd)
}
