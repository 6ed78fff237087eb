// Package cmd provides the CLI commands for paranoia.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paranoialabs/paranoia/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "paranoia",
	Short: "paranoia - security hardening policy layer",
	Long: `paranoia is a security-hardening policy layer for a content
management host. Collaborating extensions declare what should be hidden,
disabled or locked; paranoia enforces those declarations at the host's
lifecycle events and resets the credentials of stale accounts.

Quick start:
  1. Create a config file: paranoia.yaml
  2. Run: paranoia serve

Configuration:
  Config is loaded from paranoia.yaml in the current directory,
  $HOME/.paranoia/, or /etc/paranoia/.

  Environment variables can override config values with the PARANOIA_
  prefix. Example: PARANOIA_SETTINGS_ACCESS_THRESHOLD=90

Commands:
  serve          Run the admin API and the periodic stale-account sweep
  enforce        Run one enforcement pass (disable extensions, strip permissions)
  sweep          Run one stale-account sweep and drain the reset queue
  migrate        Migrate legacy flat settings into the structured record
  hash-password  Generate an Argon2id hash for a password
  version        Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./paranoia.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
