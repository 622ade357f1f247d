// Package commands contains the command line interface of the client.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pocketledger",
		Short:   "Offline-first client for the finance server",
		Long:    "pocketledger caches an account, its categories and transactions locally and keeps them in sync with the finance server. All settings are read from the environment.",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand(version))
	rootCmd.AddCommand(newSyncCommand())
	rootCmd.AddCommand(newUnsyncedCommand())

	return rootCmd
}
