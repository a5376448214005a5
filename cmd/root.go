// =============================================================================
// Salescope - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// is the base command that the subcommands ('process', 'version') are
// attached to, and it owns the global flags and startup wiring:
//
//   salescope
//   ├── process   (run the analytics pipeline)
//   └── version   (display build information)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "salescope",
	Short: "Salescope - sales transaction analytics and reporting",
	Long: `Salescope ingests pipe-delimited sales transaction exports, validates and
optionally filters them, computes revenue, region, product, customer and
daily-trend analytics, enriches each transaction with remote product
catalog metadata, and emits both a machine-readable enriched dataset and
a human-readable report.

Example Usage:
  salescope process                          # Process the configured input file
  salescope process --input ./sales.txt      # Process a specific file
  salescope process --region North           # Keep only one region
  salescope process --interactive            # Prompt for filters
  salescope process --xlsx                   # Also export the XLSX workbook`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs the CLI.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the global flags and environment loading.
func init() {
	cobra.OnInitialize(func() {
		// A local .env may override catalog or path settings; its
		// absence is the normal case.
		_ = godotenv.Load()
	})

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
