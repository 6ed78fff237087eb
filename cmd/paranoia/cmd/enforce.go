package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var enforceCmd = &cobra.Command{
	Use:   "enforce",
	Short: "Run one enforcement pass",
	Long: `Run one enforcement pass: deactivate every extension declared
disabled and strip restricted permissions from every role holding one.
Fired automatically at serve startup and on extension enable; this command
runs the same pass on demand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()

		notices, err := a.enforcement.Run(cmd.Context())
		for _, n := range notices {
			fmt.Println(n.Message)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(enforceCmd)
}
