package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bilalammar/library-management-system/library"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a bcrypt hash for the raw SQL passcode",
	Long: `Prompts for a passcode twice (input is hidden) and prints the bcrypt
hash to store in LIBRARY_SECRET_HASH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompter := library.NewConsolePrompter(bufio.NewScanner(os.Stdin))

		secret, err := prompter.ReadSecret("Enter new passcode: ")
		if err != nil {
			return fmt.Errorf("failed to read passcode: %w", err)
		}
		if secret == "" {
			return fmt.Errorf("passcode cannot be empty")
		}
		confirm, err := prompter.ReadSecret("Confirm passcode: ")
		if err != nil {
			return fmt.Errorf("failed to read passcode: %w", err)
		}
		if secret != confirm {
			return fmt.Errorf("passcodes do not match")
		}

		hash, err := library.HashSecret(secret)
		if err != nil {
			return err
		}
		fmt.Println("Add this to your environment or .env file:")
		fmt.Printf("LIBRARY_SECRET_HASH='%s'\n", hash)
		return nil
	},
}
