// =============================================================================
// Salescope - Pipeline Driver
// =============================================================================
//
// This module sequences the full run:
//
//   1. Read the input file (encoding fallback, header/blank stripping)
//   2. Parse raw lines into typed transactions
//   3. Validate and apply the optional filters
//   4. Run the seven aggregations over the valid set
//   5. Fetch the product catalog and enrich the valid set
//   6. Write the enriched dataset
//   7. Write the text report (and optionally the XLSX workbook)
//   8. Archive the input file
//
// Stages 1-4 are the core; 5-8 are boundary work and a failure there is
// reported but never corrupts the computed analytics. The aggregations in
// stage 4 are pure functions of the same immutable slice, so they run
// concurrently.
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"salescope/internal/analytics"
	"salescope/internal/catalog"
	"salescope/internal/config"
	"salescope/internal/parser"
	"salescope/internal/reader"
	"salescope/internal/report"
	"salescope/internal/types"
	"salescope/internal/validation"
	"salescope/pkg/utils"
)

// =============================================================================
// OPTIONS & RESULT
// =============================================================================

// Options control a single pipeline run.
type Options struct {
	// InputFile overrides the configured input file when non-empty.
	InputFile string

	// Filters are applied after validation.
	Filters types.FilterParams

	// SkipEnrichment disables the catalog fetch; the enriched dataset is
	// still written, with every record unmatched.
	SkipEnrichment bool

	// ExportXLSX additionally writes the analytics workbook.
	ExportXLSX bool

	// DryRun computes everything but writes no files and archives
	// nothing.
	DryRun bool
}

// Stats carries per-stage counters for the run summary.
type Stats struct {
	LinesRead       int
	Parsed          int
	Invalid         int
	Summary         types.FilterSummary
	CatalogProducts int
	EnrichedMatched int
	ProcessingTime  time.Duration
}

// Result is the outcome of a pipeline run, in the style of a batch job
// report: Success plus counters plus the produced artifact paths.
type Result struct {
	Success bool
	Error   error

	Stats Stats

	Analysis types.Analysis
	Valid    []types.Transaction
	Enriched []types.EnrichedTransaction

	ReportFile    string
	WorkbookFile  string
	EnrichedFile  string
	ArchivedInput string
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline owns the collaborators for a run. It holds no per-run state:
// every Run builds its dataset from scratch, so two runs over the same
// input produce identical results.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	catalog *catalog.Client
}

// New creates a Pipeline from the application configuration.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog.NewClient(cfg.CatalogURL, cfg.CatalogLimit, cfg.CatalogTimeout()),
	}
}

// Run executes the full pipeline and returns its Result. Run does not
// return an error: failures are recorded on the Result so callers get the
// stage counters gathered up to the failure as well.
func (p *Pipeline) Run(ctx context.Context, opts Options) Result {
	start := time.Now()
	result := Result{}

	inputFile := opts.InputFile
	if inputFile == "" {
		inputFile = p.cfg.InputFile
	}

	// ------------------------------------------------------------------
	// Stage 1+2: read and parse
	// ------------------------------------------------------------------
	lines, err := reader.ReadLines(inputFile, p.cfg.Encodings)
	if err != nil {
		result.Error = fmt.Errorf("failed to read sales data: %w", err)
		return result
	}
	result.Stats.LinesRead = len(lines)

	transactions := parser.Parse(lines)
	result.Stats.Parsed = len(transactions)

	// Parse-level drops are not part of the invalid count; surface the
	// delta in the log so the information is not lost.
	if dropped := len(lines) - len(transactions); dropped > 0 {
		p.logger.Debug("dropped malformed lines during parsing", "count", dropped)
	}

	// ------------------------------------------------------------------
	// Stage 3: validate and filter
	// ------------------------------------------------------------------
	valid, invalid, summary := validation.ValidateAndFilter(transactions, opts.Filters)
	result.Valid = valid
	result.Stats.Invalid = invalid
	result.Stats.Summary = summary

	p.logger.Info("validation complete",
		"input", summary.TotalInput,
		"invalid", summary.Invalid,
		"filtered_by_region", summary.FilteredByRegion,
		"filtered_by_amount", summary.FilteredByAmount,
		"final", summary.FinalCount)

	// ------------------------------------------------------------------
	// Stage 4: aggregations
	// ------------------------------------------------------------------
	result.Analysis = p.analyze(ctx, valid)

	// ------------------------------------------------------------------
	// Stage 5: catalog fetch and enrichment
	// ------------------------------------------------------------------
	mapping := p.fetchCatalog(ctx, opts, &result)
	result.Enriched = catalog.Enrich(valid, mapping)
	for _, etx := range result.Enriched {
		if etx.Matched {
			result.Stats.EnrichedMatched++
		}
	}

	// ------------------------------------------------------------------
	// Stages 6-8: outputs
	// ------------------------------------------------------------------
	if !opts.DryRun {
		if err := p.writeOutputs(&result, inputFile, opts); err != nil {
			result.Error = err
			return result
		}
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(start)
	return result
}

// analyze runs the seven aggregations concurrently. Each writes a
// distinct field of the Analysis and only reads the shared slice, so no
// locking is needed. A peak-day "no data" condition is local: it leaves
// PeakDay nil without disturbing the other aggregations.
func (p *Pipeline) analyze(ctx context.Context, valid []types.Transaction) types.Analysis {
	var a types.Analysis

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.TotalRevenue = analytics.TotalRevenue(valid)
		return nil
	})
	g.Go(func() error {
		a.Regions = analytics.RegionWiseSales(valid)
		return nil
	})
	g.Go(func() error {
		a.TopProducts = analytics.TopSellingProducts(valid, p.cfg.TopN)
		return nil
	})
	g.Go(func() error {
		a.Customers = analytics.CustomerAnalysis(valid)
		return nil
	})
	g.Go(func() error {
		a.DailyTrend = analytics.DailySalesTrend(valid)
		return nil
	})
	g.Go(func() error {
		a.LowPerformers = analytics.LowPerformingProducts(valid, p.cfg.LowPerformerThreshold)
		return nil
	})
	g.Go(func() error {
		peak, err := analytics.FindPeakSalesDay(valid)
		if err != nil {
			if errors.Is(err, analytics.ErrNoData) {
				p.logger.Warn("peak day undefined, valid set is empty")
				return nil
			}
			return err
		}
		a.PeakDay = &peak
		return nil
	})

	// The only possible error is ErrNoData, which is absorbed above.
	_ = g.Wait()

	return a
}

// fetchCatalog retrieves the catalog products unless enrichment is
// skipped. A fetch failure degrades to an empty mapping: analytics never
// depend on the catalog.
func (p *Pipeline) fetchCatalog(ctx context.Context, opts Options, result *Result) map[int]types.ProductInfo {
	if opts.SkipEnrichment {
		p.logger.Info("catalog enrichment skipped")
		return nil
	}

	products, err := p.catalog.FetchAllProducts(ctx)
	if err != nil {
		p.logger.Warn("catalog fetch failed, continuing unenriched", "error", err)
		return nil
	}

	result.Stats.CatalogProducts = len(products)
	p.logger.Info("fetched catalog products", "count", len(products))
	return catalog.BuildMapping(products)
}

// writeOutputs writes the enriched dataset, the report artifacts and
// archives the input file.
func (p *Pipeline) writeOutputs(result *Result, inputFile string, opts Options) error {
	if err := utils.EnsureDirectories(p.cfg.OutputDir, filepath.Dir(p.cfg.EnrichedFile)); err != nil {
		return err
	}

	if err := catalog.SaveEnriched(result.Enriched, p.cfg.EnrichedFile); err != nil {
		return err
	}
	result.EnrichedFile = p.cfg.EnrichedFile

	rep := report.New(result.Analysis, len(result.Valid), result.Enriched)

	reportPath := filepath.Join(p.cfg.OutputDir, utils.GenerateOutputFileName(p.cfg.ReportNameFormat))
	if err := rep.WriteFile(reportPath); err != nil {
		return err
	}
	result.ReportFile = reportPath

	if opts.ExportXLSX {
		workbookPath := trimExt(reportPath) + ".xlsx"
		if err := rep.WriteXLSX(workbookPath); err != nil {
			return err
		}
		result.WorkbookFile = workbookPath
	}

	if p.cfg.ArchiveOnSuccess {
		archived, err := utils.ArchiveInputFile(inputFile, p.cfg.ArchiveDir)
		if err != nil {
			// Archival is housekeeping; the run already produced its
			// artifacts.
			p.logger.Warn("failed to archive input file", "error", err)
		} else {
			result.ArchivedInput = archived
		}
	}

	return nil
}

// trimExt drops the file extension, if any.
func trimExt(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)]
}

// =============================================================================
// FILTER PREVIEW
// =============================================================================

// Preview summarizes the dataset for the interactive filter prompt:
// the distinct regions and the observed amount range over the parsed
// transactions.
type Preview struct {
	RecordCount int
	Regions     []string
	MinAmount   decimal.Decimal
	MaxAmount   decimal.Decimal
}

// LoadPreview reads and parses the input file to build the filter
// preview shown before prompting.
func (p *Pipeline) LoadPreview(inputFile string) (Preview, error) {
	if inputFile == "" {
		inputFile = p.cfg.InputFile
	}

	lines, err := reader.ReadLines(inputFile, p.cfg.Encodings)
	if err != nil {
		return Preview{}, err
	}

	transactions := parser.Parse(lines)

	pv := Preview{RecordCount: len(transactions)}

	seen := make(map[string]struct{})
	for i, tx := range transactions {
		if _, ok := seen[tx.Region]; !ok && tx.Region != "" {
			seen[tx.Region] = struct{}{}
			pv.Regions = append(pv.Regions, tx.Region)
		}

		amount := tx.Amount()
		if i == 0 {
			pv.MinAmount, pv.MaxAmount = amount, amount
			continue
		}
		if amount.LessThan(pv.MinAmount) {
			pv.MinAmount = amount
		}
		if amount.GreaterThan(pv.MaxAmount) {
			pv.MaxAmount = amount
		}
	}
	sort.Strings(pv.Regions)

	return pv, nil
}
