package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/bankgen"
	"github.com/abhisek/adaptiq/internal/llm"
	"github.com/abhisek/adaptiq/internal/question"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a question bank with an LLM",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := stderrLogger(cfg)
		if err != nil {
			return err
		}

		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		concepts, _ := cmd.Flags().GetStringSlice("concept")
		audience, _ := cmd.Flags().GetString("audience")
		out, _ := cmd.Flags().GetString("out")
		title, _ := cmd.Flags().GetString("title")
		force, _ := cmd.Flags().GetBool("force")
		if p, _ := cmd.Flags().GetString("provider"); p != "" {
			cfg.LLM.Provider = p
		}

		if !force {
			if _, err := os.Stat(out); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", out)
			}
		}

		llmCfg, ok := llm.Discover(cfg.LLM)
		if !ok {
			return fmt.Errorf("LLM provider not configured: %w", llmCfg.Validate())
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := llm.WithPurpose(cmd.Context(), llm.PurposeBankGen)
		provider, err := llm.NewProvider(ctx, llmCfg, llm.WithLogger(log), llm.WithRecorder(st.LLMRequests()))
		if err != nil {
			return err
		}

		gen := bankgen.New(provider, bankgen.DefaultConfig(), bankgen.WithLogger(log))
		qs, genErr := gen.Generate(ctx, bankgen.Input{
			Topic:    topic,
			Count:    count,
			Concepts: concepts,
			Audience: audience,
		})
		if genErr != nil && !(errors.Is(genErr, bankgen.ErrShortfall) && len(qs) > 0) {
			return genErr
		}

		if title == "" {
			title = topic
		}
		if err := question.Save(out, &question.Bank{FormatVersion: question.FormatVersion, Title: title, Questions: qs}); err != nil {
			return err
		}
		fmt.Printf("Wrote %d questions to %s (%s/%s)\n", len(qs), out, provider.Name(), provider.ModelID())
		if genErr != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (%d of %d)\n", genErr, len(qs), count)
		}

		usage, err := st.LLMRequests().Usage(ctx, llm.PurposeBankGen)
		if err == nil && usage.Requests > 0 {
			fmt.Printf("LLM usage to date: %d requests, %d in / %d out tokens, %s\n",
				usage.Requests, usage.InputTokens, usage.OutputTokens, formatCost(usage.CostUSD))
		}
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.String("topic", "", "Subject of the questions")
	f.IntP("count", "n", 10, "Number of questions")
	f.StringSlice("concept", nil, "Concept tags to cover (repeatable)")
	f.String("audience", "", "Who the questions are for, e.g. \"grade 5\"")
	f.StringP("out", "o", "", "Output bank file (.json or .yaml)")
	f.String("title", "", "Bank title (defaults to the topic)")
	f.String("provider", "", "LLM provider override: anthropic, openai, gemini, openrouter")
	f.Bool("force", false, "Overwrite an existing output file")
	_ = generateCmd.MarkFlagRequired("topic")
	_ = generateCmd.MarkFlagRequired("out")
}
