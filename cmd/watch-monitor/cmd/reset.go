package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the seen set",
		Long: "Removes seen records for one source, or for every source when no\n" +
			"--source is given. The next cycle re-runs the observe-only\n" +
			"bootstrap for the affected sources: no notifications, seen set\n" +
			"rebuilt from what is currently listed.",
		Example: `  # Re-arm bootstrap for one source
  watch-monitor reset --source worldoftime

  # Full reset
  watch-monitor reset`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer func() { _ = st.Close() }()

			deleted, err := st.DeleteSeen(ctx, source)
			if err != nil {
				return fmt.Errorf("clearing seen set: %w", err)
			}

			if source != "" {
				fmt.Printf("Removed %d seen records for %s.\n", deleted, source)
			} else {
				fmt.Printf("Removed %d seen records.\n", deleted)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "only this source key")

	return cmd
}
