package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/anay/litquest/internal/progress"
	"github.com/anay/litquest/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading and LLM usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		repo := s.EventRepo()

		cs, err := repo.CourseStats(ctx)
		if err != nil {
			return fmt.Errorf("query course stats: %w", err)
		}
		ls, err := repo.LLMStats(ctx)
		if err != nil {
			return fmt.Errorf("query LLM stats: %w", err)
		}

		sep := strings.Repeat("─", 40)

		fmt.Println("Reading")
		fmt.Println(sep)
		fmt.Printf("%-24s %6d\n", "Courses started", cs.CoursesCreated)
		fmt.Printf("%-24s %6d\n", "Chapters entered", cs.ChaptersEntered)
		fmt.Printf("%-24s %6d\n", "Activities completed", cs.ActivitiesCompleted)
		fmt.Printf("%-24s %6d\n", "Lifetime XP", cs.TotalXP)
		fmt.Printf("%-24s %6d\n", "Lifetime level", progress.Level(cs.TotalXP))

		fmt.Println()
		fmt.Println("LLM Usage")
		fmt.Println(sep)
		fmt.Printf("%-24s %6d\n", "Requests", ls.Requests)
		fmt.Printf("%-24s %6d\n", "Failures", ls.Failures)
		fmt.Printf("%-24s %6d\n", "Input tokens", ls.InputTokens)
		fmt.Printf("%-24s %6d\n", "Output tokens", ls.OutputTokens)

		return nil
	},
}
