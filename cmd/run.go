package cmd

import (
	"fmt"
	"os"

	"github.com/anay/litquest/internal/app"
	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/engine"
	"github.com/anay/litquest/internal/llm"
	"github.com/anay/litquest/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, or OPENROUTER_API_KEY and try again.")
		return err
	}

	orch := engine.New(provider, course.DefaultConfig(), eventRepo)
	return app.Run(orch)
}
