package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show monitor state",
		Long: "Shows an aggregate snapshot of the running monitor: configured\n" +
			"sources, seen-set size, recorded cycles, and the most recent cycle.",
		Example: `  watch-monitor state
  watch-monitor state --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			state, err := c.GetState(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(state)
			}

			return printStateDetail(state)
		},
	}
}
