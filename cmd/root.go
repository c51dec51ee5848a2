// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-stats-api",
	Short: "A backend proxy aggregating coding-profile statistics.",
	Long: `portfolio-stats-api serves LeetCode solve counts and cached GitHub
repository/commit/pull-request/star counts behind a uniform HTTP API.
The GitHub aggregate is stored in an embedded document store and
refreshed asynchronously on demand.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
