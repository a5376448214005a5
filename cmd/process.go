// =============================================================================
// Salescope - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the full analytics
// pipeline over one sales data export.
//
// COMMAND USAGE:
//   salescope process [flags]
//
// FLAGS:
//   --input        : Process a specific file instead of the configured one
//   --region       : Keep only transactions from this region
//   --min-amount   : Keep only transactions with amount >= this value
//   --max-amount   : Keep only transactions with amount <= this value
//   --interactive  : Show the available filter options and prompt for them
//   --no-enrich    : Skip the product catalog fetch
//   --xlsx         : Also export the analytics as an XLSX workbook
//   --dry-run      : Compute everything but write no output files
//
// =============================================================================

package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"salescope/internal/config"
	"salescope/internal/pipeline"
	"salescope/internal/report"
	"salescope/internal/types"
)

// Command flags.
var (
	inputFile   string
	region      string
	minAmount   string
	maxAmount   string
	interactive bool
	noEnrich    bool
	exportXLSX  bool
	dryRun      bool
)

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a sales data export and generate the analytics report",
	Long: `The process command reads the configured sales data file, parses and
validates the transactions, applies the optional region and amount
filters, computes the analytics, enriches the data from the product
catalog and writes the enriched dataset plus the report.

Malformed lines are dropped during parsing; records that fail a business
rule are counted as invalid. Neither stops the run.

On success the enriched dataset and the report are written to their
configured locations, and the input file is archived when archival is
enabled. On failure nothing is archived and the command exits non-zero.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

// init registers the process command and its flags.
func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&inputFile, "input", "", "Path to the sales data file (overrides config)")
	processCmd.Flags().StringVar(&region, "region", "", "Keep only transactions from this region")
	processCmd.Flags().StringVar(&minAmount, "min-amount", "", "Keep only transactions with amount >= this value")
	processCmd.Flags().StringVar(&maxAmount, "max-amount", "", "Keep only transactions with amount <= this value")
	processCmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt for filter options")
	processCmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "Skip the product catalog fetch")
	processCmd.Flags().BoolVar(&exportXLSX, "xlsx", false, "Also export the analytics as an XLSX workbook")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute everything but write no output files")
}

// runProcess loads the configuration, resolves the filters and drives
// the pipeline.
func runProcess(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	p := pipeline.New(cfg, logger)

	filters, err := resolveFilters(p)
	if err != nil {
		return err
	}

	fmt.Println("=== Salescope ===")
	fmt.Println("Processing sales data...")

	result := p.Run(cmd.Context(), pipeline.Options{
		InputFile:      inputFile,
		Filters:        filters,
		SkipEnrichment: noEnrich,
		ExportXLSX:     exportXLSX,
		DryRun:         dryRun,
	})

	if result.Error != nil {
		return result.Error
	}

	printSummary(result)
	return nil
}

// resolveFilters builds the filter parameters from flags, or from the
// interactive prompt when --interactive is set. Flags still act as
// prompt defaults in interactive mode.
func resolveFilters(p *pipeline.Pipeline) (types.FilterParams, error) {
	if interactive {
		return promptFilters(p)
	}
	return parseFilterFlags(region, minAmount, maxAmount)
}

// parseFilterFlags converts the raw flag values. Empty strings mean "no
// filter on that dimension".
func parseFilterFlags(region, minStr, maxStr string) (types.FilterParams, error) {
	filters := types.FilterParams{Region: strings.TrimSpace(region)}

	if s := strings.TrimSpace(minStr); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return types.FilterParams{}, fmt.Errorf("invalid --min-amount %q: %w", s, err)
		}
		filters.MinAmount = &d
	}

	if s := strings.TrimSpace(maxStr); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return types.FilterParams{}, fmt.Errorf("invalid --max-amount %q: %w", s, err)
		}
		filters.MaxAmount = &d
	}

	return filters, nil
}

// promptFilters shows the available regions and the observed amount
// range, then reads the filter values from stdin. Blank answers skip a
// filter.
func promptFilters(p *pipeline.Pipeline) (types.FilterParams, error) {
	preview, err := p.LoadPreview(inputFile)
	if err != nil {
		return types.FilterParams{}, fmt.Errorf("failed to load filter options: %w", err)
	}

	fmt.Println("Filter Options Available:")
	fmt.Printf("Regions: %s\n", strings.Join(preview.Regions, ", "))
	fmt.Printf("Amount Range: %s - %s\n",
		report.FormatMoney(preview.MinAmount), report.FormatMoney(preview.MaxAmount))

	scanner := bufio.NewScanner(os.Stdin)

	answer := prompt(scanner, "Do you want to filter data? (y/n): ")
	if strings.ToLower(answer) != "y" {
		return types.FilterParams{}, nil
	}

	regionAnswer := prompt(scanner, "Enter region (or press Enter to skip): ")
	minAnswer := prompt(scanner, "Enter minimum amount (or press Enter to skip): ")
	maxAnswer := prompt(scanner, "Enter maximum amount (or press Enter to skip): ")

	return parseFilterFlags(regionAnswer, minAnswer, maxAnswer)
}

// prompt prints a question and returns the trimmed answer.
func prompt(scanner *bufio.Scanner, question string) string {
	fmt.Print(question)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// printSummary prints the run summary in the batch-report style.
func printSummary(result pipeline.Result) {
	s := result.Stats

	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Lines read:      %d\n", s.LinesRead)
	fmt.Printf("Parsed:          %d\n", s.Parsed)
	fmt.Printf("Valid:           %d | Invalid: %d\n", s.Summary.FinalCount, s.Invalid)
	if s.Summary.FilteredByRegion > 0 || s.Summary.FilteredByAmount > 0 {
		fmt.Printf("Filtered:        %d by region, %d by amount\n",
			s.Summary.FilteredByRegion, s.Summary.FilteredByAmount)
	}
	fmt.Printf("Total revenue:   %s\n", report.FormatMoney(result.Analysis.TotalRevenue))
	if len(result.Enriched) > 0 {
		rate := float64(s.EnrichedMatched) / float64(len(result.Enriched)) * 100
		fmt.Printf("Enriched:        %d/%d (%.1f%%)\n", s.EnrichedMatched, len(result.Enriched), rate)
	}
	fmt.Printf("Time elapsed:    %s\n", s.ProcessingTime)

	if result.ReportFile != "" {
		fmt.Printf("  ✓ report:   %s\n", result.ReportFile)
	}
	if result.WorkbookFile != "" {
		fmt.Printf("  ✓ workbook: %s\n", result.WorkbookFile)
	}
	if result.EnrichedFile != "" {
		fmt.Printf("  ✓ enriched: %s\n", result.EnrichedFile)
	}
	if result.ArchivedInput != "" {
		fmt.Printf("  ✓ archived: %s\n", result.ArchivedInput)
	}
}

// newLogger builds the application logger. --verbose forces debug level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if verbose {
		lvl = slog.LevelDebug
	} else {
		switch strings.ToLower(level) {
		case "debug":
			lvl = slog.LevelDebug
		case "warn":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		default:
			lvl = slog.LevelInfo
		}
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
