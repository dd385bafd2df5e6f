package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ajsalpv/Job-Applying/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage credentials in the OS keychain",
}

var secretSetCmd = &cobra.Command{
	Use:   "set <account>",
	Short: "Store a secret for the given keyring account",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, "Secret: ")
		value, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("reading secret: %w", err)
		}

		if err := secrets.Set(args[0], string(value)); err != nil {
			return fmt.Errorf("storing secret: %w", err)
		}
		fmt.Printf("stored secret for account %q\n", args[0])
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete <account>",
	Short: "Remove a secret from the keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := secrets.Delete(args[0]); err != nil {
			return fmt.Errorf("deleting secret: %w", err)
		}
		fmt.Printf("deleted secret for account %q\n", args[0])
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd, secretDeleteCmd)
	rootCmd.AddCommand(secretCmd)
}
