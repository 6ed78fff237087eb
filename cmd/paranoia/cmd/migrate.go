package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paranoialabs/paranoia/internal/config"
)

var (
	legacyStorePath string
	migrateDryRun   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate legacy flat settings into the structured record",
	Long: `Earlier releases persisted settings as two entries in the host's
flat key-value store (paranoia_access_threshold and
paranoia_email_notification). This command moves those entries into the
settings section of the config file and removes them from the legacy
store. The migration is one-time: when the config file already has a
settings section, or the legacy keys are gone, nothing is changed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := cfgFile
		if target == "" {
			target = "paranoia.yaml"
		}

		if migrateDryRun {
			settings, found, err := config.MigrateLegacyFile(legacyStorePath)
			if err != nil {
				return err
			}
			if !found {
				fmt.Println("no legacy settings found, nothing to migrate")
				return nil
			}
			out, err := config.RenderSettings(settings)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		}

		settings, status, err := config.ApplyLegacyMigration(legacyStorePath, target)
		if err != nil {
			return err
		}
		switch status {
		case config.MigrationAlreadyDone:
			fmt.Printf("%s already has a settings record, nothing to do\n", target)
		case config.MigrationNothingToDo:
			fmt.Println("no legacy settings found, nothing to migrate")
		case config.MigrationApplied:
			fmt.Printf("migrated legacy settings into %s (threshold %d days, notification %v)\n",
				target, settings.AccessThresholdDays, settings.EmailNotification)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&legacyStorePath, "legacy-store", "variables.yaml", "path to the legacy flat key-value store")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "print the migrated settings without writing anything")
	rootCmd.AddCommand(migrateCmd)
}
