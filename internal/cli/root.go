// Package cli wires configuration, storage, and the conversation loop into
// the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "librarian",
	Short: "Conversational library management assistant",
	Long: `Librarian is a conversational assistant for managing a library's
books, users, and rentals. It drives a chat model that operates the
catalogue through a fixed set of tools, with a passcode-protected
escape hatch for raw SQL.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(secretCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
