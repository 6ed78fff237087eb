package cmd

import (
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one stale-account sweep and drain the reset queue",
	Long: `Enumerate accounts whose last access exceeds the configured
threshold, queue each for credential reset, and process the queue. A
threshold of 0 disables the feature and makes this command a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()

		a.scheduler.Tick(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
