package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paranoialabs/paranoia/internal/domain/account"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Generate an Argon2id hash for a password",
	Long: `Generate an Argon2id hash of a password in PHC format, suitable
for seeding account records.

Example:
  paranoia hash-password "correct horse battery staple"

Security note: The password will appear in shell history.
Consider clearing history after use or using an environment variable:
  paranoia hash-password "$MY_PASSWORD"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := account.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
