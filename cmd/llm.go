package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/llm"
	"github.com/anay/litquest/internal/locale"
	"github.com/anay/litquest/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect and test the LLM provider",
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured provider by generating a sample chapter plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("book")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		provider, err := llm.NewProviderFromEnv(ctx, store.NopEventRepo{})
		if err != nil {
			return fmt.Errorf("provider not configured: %w", err)
		}

		fmt.Printf("Model: %s\n", provider.ModelID())
		fmt.Printf("Generating a chapter plan for %q...\n\n", title)

		gen := course.NewGenerator(provider, course.DefaultConfig())
		prefs := course.UserPreferences{
			Goal:           course.GoalCasualReading,
			PriorKnowledge: course.KnowledgeNone,
		}
		chapters, err := gen.GeneratePlan(ctx, title, "", prefs, locale.Default)
		if err != nil {
			return fmt.Errorf("generate plan: %w", err)
		}

		for _, ch := range chapters {
			kinds := make([]string, len(ch.Activities))
			for i, k := range ch.Activities {
				kinds[i] = string(k)
			}
			fmt.Printf("%2d. %-40s  %s\n", ch.ID, ch.Title, strings.Join(kinds, ", "))
		}
		fmt.Printf("\nOK: %d chapters.\n", len(chapters))
		return nil
	},
}

func init() {
	llmCheckCmd.Flags().StringP("book", "b", "The Little Prince", "Book title to plan")

	llmCmd.AddCommand(llmCheckCmd)
}
