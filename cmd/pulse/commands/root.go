package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "tickerpulse - equity technical signal engine",
	Long: `tickerpulse Unified CLI

Technical analysis engine for US equities: indicator snapshots,
support/resistance levels, setup detection, sector rotation, and a
signal ledger with outcome tracking.

Usage:
  go run ./cmd/pulse [command]

Examples:
  go run ./cmd/pulse api
  go run ./cmd/pulse analyze AAPL
  go run ./cmd/pulse screen --min-score 60
  go run ./cmd/pulse sector rotation`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
