// Package cli implements the DrinkWise command-line interface using Cobra.
// Each subcommand maps to an engine capability (serve, log, stats, badges,
// challenges).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "drinkwise",
	Short: "DrinkWise - party logging and progression engine",
	Long: `DrinkWise tracks logged parties and turns them into stats, XP,
levels, badges, periodic challenges and group goals.

Run 'drinkwise serve' to start the HTTP API, or use the subcommands to
log and inspect directly against the local database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
