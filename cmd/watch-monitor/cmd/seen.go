package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/sfeuerstein/watch-monitor/internal/api/client"
)

func seenCmd() *cobra.Command {
	seenRoot := &cobra.Command{
		Use:   "seen",
		Short: "Inspect the seen set",
		Long: "Inspect the durable seen set: every (source, fingerprint) pair the\n" +
			"monitor has notified or bootstrapped. Records are insert-only and\n" +
			"survive restarts; reset removes them.",
	}

	seenRoot.AddCommand(seenListCmd())

	return seenRoot
}

func seenListCmd() *cobra.Command {
	var (
		source string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List seen records, newest first",
		Example: `  # Most recent records across all sources
  watch-monitor seen list

  # One source, with pagination
  watch-monitor seen list --source worldoftime --limit 20 --offset 40`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			resp, err := c.ListSeen(context.Background(), &apiclient.ListSeenParams{
				Source: source,
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}

			if len(resp.Seen) == 0 {
				fmt.Println("No seen records found.")
				return nil
			}

			fmt.Printf("Showing %d of %d seen records\n\n", len(resp.Seen), resp.Total)
			return printSeenTable(resp.Seen)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "filter by source key")
	cmd.Flags().IntVar(&limit, "limit", 50, "number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")

	return cmd
}
