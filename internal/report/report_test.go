package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"salescope/internal/types"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"5", "5.00"},
		{"999", "999.00"},
		{"1000", "1,000.00"},
		{"45000", "45,000.00"},
		{"1234567.5", "1,234,567.50"},
		{"1299.505", "1,299.51"},
		{"-1000", "-1,000.00"},
		{"-12.3", "-12.30"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := FormatMoney(decimal.RequireFromString(tt.in))
			if got != tt.want {
				t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// sampleAnalysis covers every section of the report.
func sampleAnalysis() types.Analysis {
	return types.Analysis{
		TotalRevenue: decimal.NewFromInt(91000),
		Regions: []types.RegionStat{
			{Region: "North", TotalSales: decimal.NewFromInt(46000), TransactionCount: 2, Percentage: decimal.RequireFromString("50.55")},
			{Region: "South", TotalSales: decimal.NewFromInt(45000), TransactionCount: 1, Percentage: decimal.RequireFromString("49.45")},
		},
		TopProducts: []types.ProductSales{
			{ProductName: "Mouse", TotalQuantity: 5, TotalRevenue: decimal.NewFromInt(1000)},
		},
		Customers: []types.CustomerStat{
			{CustomerID: "C001", TotalSpent: decimal.NewFromInt(46000), PurchaseCount: 2, AvgOrderValue: decimal.NewFromInt(23000)},
		},
		DailyTrend: []types.DailyStat{
			{Date: "2024-01-15", Revenue: decimal.NewFromInt(45000), TransactionCount: 1, UniqueCustomers: 1},
			{Date: "2024-01-16", Revenue: decimal.NewFromInt(46000), TransactionCount: 2, UniqueCustomers: 2},
		},
		PeakDay: &types.PeakDay{Date: "2024-01-16", Revenue: decimal.NewFromInt(46000), TransactionCount: 2},
		LowPerformers: []types.ProductSales{
			{ProductName: "Webcam", TotalQuantity: 3, TotalRevenue: decimal.NewFromInt(7500)},
		},
	}
}

func TestGenerateSections(t *testing.T) {
	enriched := []types.EnrichedTransaction{
		{Transaction: types.Transaction{TransactionID: "T1", ProductName: "Laptop"}, Matched: true},
		{Transaction: types.Transaction{TransactionID: "T2", ProductName: "Unknown Gadget"}},
	}

	r := New(sampleAnalysis(), 3, enriched)
	text := string(r.Generate())

	wantFragments := []string{
		"SALES ANALYTICS REPORT",
		"Run ID:    " + r.RunID,
		"Records Processed: 3",
		"OVERALL SUMMARY",
		"Total Revenue:        ₹91,000.00",
		"Date Range:           2024-01-15 to 2024-01-16",
		"REGION-WISE PERFORMANCE",
		"North",
		"50.55",
		"TOP 1 PRODUCTS",
		"Mouse",
		"TOP 1 CUSTOMERS",
		"C001",
		"DAILY SALES TREND",
		"PRODUCT PERFORMANCE ANALYSIS",
		"Best Selling Day: 2024-01-16",
		"Low Performing Products:",
		"- Webcam: 3 units,",
		"CATALOG ENRICHMENT SUMMARY",
		"Total Records Enriched: 1",
		"Success Rate: 50.00%",
		"- Unknown Gadget",
	}

	for _, fragment := range wantFragments {
		if !strings.Contains(text, fragment) {
			t.Errorf("report missing %q", fragment)
		}
	}
}

func TestGenerateEmptyAnalysis(t *testing.T) {
	r := New(types.Analysis{TotalRevenue: decimal.Zero}, 0, nil)
	text := string(r.Generate())

	wantFragments := []string{
		"Total Revenue:        ₹0.00",
		"Average Order Value:  ₹0.00",
		"Date Range:           n/a to n/a",
		"Best Selling Day: n/a (no data)",
		"No low performing products.",
		"Success Rate: 0.00%",
		"All products enriched successfully.",
	}

	for _, fragment := range wantFragments {
		if !strings.Contains(text, fragment) {
			t.Errorf("empty report missing %q", fragment)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	r := New(sampleAnalysis(), 3, nil)
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "SALES ANALYTICS REPORT") {
		t.Error("written report missing header")
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	r := New(sampleAnalysis(), 3, nil)
	if err := r.WriteXLSX(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("workbook not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("workbook is empty")
	}
}
