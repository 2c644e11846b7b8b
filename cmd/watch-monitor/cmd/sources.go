package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func sourcesCmd() *cobra.Command {
	sourcesRoot := &cobra.Command{
		Use:   "sources",
		Short: "Inspect configured sources",
		Long: "Inspect the dealer sources the monitor polls. Each source shows\n" +
			"its seen-set size; a count of zero means the source has not\n" +
			"bootstrapped yet and its next cycle is observe-only.",
	}

	sourcesRoot.AddCommand(sourcesListCmd())

	return sourcesRoot
}

func sourcesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sources with seen counts",
		Example: `  watch-monitor sources list
  watch-monitor sources list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			sources, err := c.ListSources(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(sources)
			}

			if len(sources) == 0 {
				fmt.Println("No sources configured.")
				return nil
			}

			return printSourcesTable(sources)
		},
	}
}
