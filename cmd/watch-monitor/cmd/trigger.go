package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func triggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Run a monitor cycle now",
		Long: "Asks the running monitor to execute a full cycle immediately and\n" +
			"waits for it to finish. Fails with HTTP 409 when a cycle is\n" +
			"already in flight.",
		Example: `  watch-monitor trigger`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			status, err := c.TriggerCycle(context.Background())
			if err != nil {
				return err
			}

			fmt.Println(status)
			return nil
		},
	}
}
