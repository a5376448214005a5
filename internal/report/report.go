// =============================================================================
// Salescope - Report Writer
// =============================================================================
//
// This module renders the computed analytics into the human-readable text
// report. It is a pure presentation layer: everything it prints was
// computed by the analytics package, and it never recomputes an aggregate
// from the raw transactions beyond simple counts.
//
// REPORT SECTIONS:
//   1. Header (run id, generation time, records processed)
//   2. Overall summary (revenue, transactions, average order, date range)
//   3. Region-wise performance
//   4. Top products
//   5. Top customers
//   6. Daily sales trend
//   7. Product performance (peak day, low performers)
//   8. Catalog enrichment summary
//
// =============================================================================

package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salescope/internal/types"
)

const (
	ruleHeavy = "============================================"
	ruleLight = "--------------------------------------------"

	// currency is the symbol used for all monetary values in the report.
	currency = "₹"
)

// Report carries everything the text and XLSX renderers need.
type Report struct {
	// RunID identifies this pipeline run in the report header and in the
	// exported workbook properties.
	RunID string

	// GeneratedAt is the report generation timestamp.
	GeneratedAt time.Time

	// Analysis holds the seven aggregation results.
	Analysis types.Analysis

	// TransactionCount is the size of the valid, filtered set.
	TransactionCount int

	// Enriched is the catalog-joined dataset, used only for the
	// enrichment summary section.
	Enriched []types.EnrichedTransaction
}

// New builds a Report for the given analytics results.
func New(analysis types.Analysis, transactionCount int, enriched []types.EnrichedTransaction) *Report {
	return &Report{
		RunID:            uuid.NewString(),
		GeneratedAt:      time.Now(),
		Analysis:         analysis,
		TransactionCount: transactionCount,
		Enriched:         enriched,
	}
}

// Generate renders the full text report.
func (r *Report) Generate() []byte {
	var b strings.Builder

	r.writeHeader(&b)
	r.writeOverallSummary(&b)
	r.writeRegionSection(&b)
	r.writeTopProducts(&b)
	r.writeTopCustomers(&b)
	r.writeDailyTrend(&b)
	r.writeProductPerformance(&b)
	r.writeEnrichmentSummary(&b)

	return []byte(b.String())
}

// WriteFile renders the report and writes it to the given path.
func (r *Report) WriteFile(path string) error {
	if err := os.WriteFile(path, r.Generate(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *Report) writeHeader(b *strings.Builder) {
	fmt.Fprintf(b, "%s\n", ruleHeavy)
	fmt.Fprintf(b, "         SALES ANALYTICS REPORT\n")
	fmt.Fprintf(b, "   Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(b, "   Run ID:    %s\n", r.RunID)
	fmt.Fprintf(b, "   Records Processed: %d\n", r.TransactionCount)
	fmt.Fprintf(b, "%s\n\n", ruleHeavy)
}

func (r *Report) writeOverallSummary(b *strings.Builder) {
	avg := decimal.Zero
	if r.TransactionCount > 0 {
		avg = r.Analysis.TotalRevenue.Div(decimal.NewFromInt(int64(r.TransactionCount))).Round(2)
	}

	startDate, endDate := "n/a", "n/a"
	if len(r.Analysis.DailyTrend) > 0 {
		startDate = r.Analysis.DailyTrend[0].Date
		endDate = r.Analysis.DailyTrend[len(r.Analysis.DailyTrend)-1].Date
	}

	fmt.Fprintf(b, "OVERALL SUMMARY\n%s\n", ruleLight)
	fmt.Fprintf(b, "Total Revenue:        %s%s\n", currency, FormatMoney(r.Analysis.TotalRevenue))
	fmt.Fprintf(b, "Total Transactions:   %d\n", r.TransactionCount)
	fmt.Fprintf(b, "Average Order Value:  %s%s\n", currency, FormatMoney(avg))
	fmt.Fprintf(b, "Date Range:           %s to %s\n\n", startDate, endDate)
}

func (r *Report) writeRegionSection(b *strings.Builder) {
	fmt.Fprintf(b, "REGION-WISE PERFORMANCE\n%s\n", ruleLight)
	fmt.Fprintf(b, "Region     Sales          %% of Total   Transactions\n")
	for _, st := range r.Analysis.Regions {
		fmt.Fprintf(b, "%-10s %s%-12s %6s%%      %d\n",
			st.Region,
			currency, FormatMoney(st.TotalSales),
			st.Percentage.StringFixed(2),
			st.TransactionCount,
		)
	}
	b.WriteString("\n")
}

func (r *Report) writeTopProducts(b *strings.Builder) {
	fmt.Fprintf(b, "TOP %d PRODUCTS\n%s\n", len(r.Analysis.TopProducts), ruleLight)
	fmt.Fprintf(b, "Rank  Product Name        Quantity   Revenue\n")
	for i, ps := range r.Analysis.TopProducts {
		fmt.Fprintf(b, "%-5d %-18s %-8d %s%s\n",
			i+1, ps.ProductName, ps.TotalQuantity, currency, FormatMoney(ps.TotalRevenue))
	}
	b.WriteString("\n")
}

func (r *Report) writeTopCustomers(b *strings.Builder) {
	customers := r.Analysis.Customers
	if len(customers) > 5 {
		customers = customers[:5]
	}

	fmt.Fprintf(b, "TOP %d CUSTOMERS\n%s\n", len(customers), ruleLight)
	fmt.Fprintf(b, "Rank  Customer ID   Total Spent     Orders\n")
	for i, cs := range customers {
		fmt.Fprintf(b, "%-5d %-12s %s%-12s  %d\n",
			i+1, cs.CustomerID, currency, FormatMoney(cs.TotalSpent), cs.PurchaseCount)
	}
	b.WriteString("\n")
}

func (r *Report) writeDailyTrend(b *strings.Builder) {
	fmt.Fprintf(b, "DAILY SALES TREND\n%s\n", ruleLight)
	fmt.Fprintf(b, "Date         Revenue        Transactions   Customers\n")
	for _, ds := range r.Analysis.DailyTrend {
		fmt.Fprintf(b, "%-12s %s%-12s  %-13d  %d\n",
			ds.Date, currency, FormatMoney(ds.Revenue), ds.TransactionCount, ds.UniqueCustomers)
	}
	b.WriteString("\n")
}

func (r *Report) writeProductPerformance(b *strings.Builder) {
	fmt.Fprintf(b, "PRODUCT PERFORMANCE ANALYSIS\n%s\n", ruleLight)

	if r.Analysis.PeakDay != nil {
		fmt.Fprintf(b, "Best Selling Day: %s (%s%s, %d transactions)\n\n",
			r.Analysis.PeakDay.Date,
			currency, FormatMoney(r.Analysis.PeakDay.Revenue),
			r.Analysis.PeakDay.TransactionCount)
	} else {
		fmt.Fprintf(b, "Best Selling Day: n/a (no data)\n\n")
	}

	if len(r.Analysis.LowPerformers) > 0 {
		fmt.Fprintf(b, "Low Performing Products:\n")
		for _, ps := range r.Analysis.LowPerformers {
			fmt.Fprintf(b, "- %s: %d units, %s%s\n",
				ps.ProductName, ps.TotalQuantity, currency, FormatMoney(ps.TotalRevenue))
		}
	} else {
		fmt.Fprintf(b, "No low performing products.\n")
	}
	b.WriteString("\n")
}

func (r *Report) writeEnrichmentSummary(b *strings.Builder) {
	matched := 0
	unmatched := make(map[string]struct{})
	for _, etx := range r.Enriched {
		if etx.Matched {
			matched++
		} else {
			unmatched[etx.ProductName] = struct{}{}
		}
	}

	rate := 0.0
	if len(r.Enriched) > 0 {
		rate = float64(matched) / float64(len(r.Enriched)) * 100
	}

	fmt.Fprintf(b, "CATALOG ENRICHMENT SUMMARY\n%s\n", ruleLight)
	fmt.Fprintf(b, "Total Records Enriched: %d\n", matched)
	fmt.Fprintf(b, "Success Rate: %.2f%%\n", rate)

	if len(unmatched) > 0 {
		fmt.Fprintf(b, "Products not enriched:\n")
		for _, name := range sortedKeys(unmatched) {
			fmt.Fprintf(b, "- %s\n", name)
		}
	} else {
		fmt.Fprintf(b, "All products enriched successfully.\n")
	}
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// FormatMoney renders a decimal with two places and thousands separators,
// e.g. 1234567.5 -> "1,234,567.50".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(",")
		}
		b.WriteRune(ch)
	}
	b.WriteString(".")
	b.WriteString(fracPart)

	return b.String()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
