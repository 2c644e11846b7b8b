package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func cyclesCmd() *cobra.Command {
	cyclesRoot := &cobra.Command{
		Use:   "cycles",
		Short: "View cycle history",
		Long: "View the execution history of monitor cycles. Each cycle records\n" +
			"status, per-source success counts, and how many listings were\n" +
			"scraped, new, and notified.",
	}

	cyclesRoot.AddCommand(cyclesListCmd())

	return cyclesRoot
}

func cyclesListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent cycles, newest first",
		Example: `  watch-monitor cycles list
  watch-monitor cycles list --limit 50 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			runs, err := c.ListCycles(context.Background(), limit)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(runs)
			}

			if len(runs) == 0 {
				fmt.Println("No cycles recorded.")
				return nil
			}

			return printCyclesTable(runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of cycles")

	return cmd
}
