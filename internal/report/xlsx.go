// =============================================================================
// Salescope - XLSX Export
// =============================================================================
//
// Workbook export of the same analytics the text report renders, one
// sheet per section. Finance consumers pull these workbooks into their
// own models, so cells hold plain numbers (no currency strings) and every
// sheet starts with a header row.
//
// =============================================================================

package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salescope/internal/types"
)

// sheet names, in workbook order.
const (
	sheetSummary    = "Summary"
	sheetRegions    = "Regions"
	sheetProducts   = "Top Products"
	sheetCustomers  = "Customers"
	sheetDaily      = "Daily Trend"
	sheetLow        = "Low Performers"
	sheetEnrichment = "Enrichment"
)

// WriteXLSX renders the analytics into an XLSX workbook at the given
// path.
func (r *Report) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}

	if err := r.writeSummarySheet(f); err != nil {
		return err
	}
	if err := r.writeRegionSheet(f); err != nil {
		return err
	}
	if err := r.writeProductSheets(f); err != nil {
		return err
	}
	if err := r.writeCustomerSheet(f); err != nil {
		return err
	}
	if err := r.writeDailySheet(f); err != nil {
		return err
	}
	if err := r.writeEnrichmentSheet(f); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// setRow writes one row of values starting at column A.
func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func (r *Report) writeSummarySheet(f *excelize.File) error {
	avg := 0.0
	if r.TransactionCount > 0 {
		avg, _ = r.Analysis.TotalRevenue.
			Div(decimalFromInt(r.TransactionCount)).Round(2).Float64()
	}

	rows := [][]interface{}{
		{"Run ID", r.RunID},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Records Processed", r.TransactionCount},
		{"Total Revenue", r.Analysis.TotalRevenue.InexactFloat64()},
		{"Average Order Value", avg},
	}
	for i, row := range rows {
		if err := setRow(f, sheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) writeRegionSheet(f *excelize.File) error {
	if _, err := f.NewSheet(sheetRegions); err != nil {
		return err
	}
	if err := setRow(f, sheetRegions, 1, []interface{}{"Region", "Total Sales", "Transactions", "% of Total"}); err != nil {
		return err
	}
	for i, st := range r.Analysis.Regions {
		row := []interface{}{
			st.Region,
			st.TotalSales.InexactFloat64(),
			st.TransactionCount,
			st.Percentage.InexactFloat64(),
		}
		if err := setRow(f, sheetRegions, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) writeProductSheets(f *excelize.File) error {
	for _, section := range []struct {
		sheet    string
		products []productRow
	}{
		{sheetProducts, productRows(r.Analysis.TopProducts)},
		{sheetLow, productRows(r.Analysis.LowPerformers)},
	} {
		if _, err := f.NewSheet(section.sheet); err != nil {
			return err
		}
		if err := setRow(f, section.sheet, 1, []interface{}{"Rank", "Product Name", "Total Quantity", "Total Revenue"}); err != nil {
			return err
		}
		for i, p := range section.products {
			row := []interface{}{i + 1, p.name, p.quantity, p.revenue}
			if err := setRow(f, section.sheet, i+2, row); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Report) writeCustomerSheet(f *excelize.File) error {
	if _, err := f.NewSheet(sheetCustomers); err != nil {
		return err
	}
	if err := setRow(f, sheetCustomers, 1, []interface{}{"Customer ID", "Total Spent", "Orders", "Avg Order Value", "Distinct Products"}); err != nil {
		return err
	}
	for i, cs := range r.Analysis.Customers {
		row := []interface{}{
			cs.CustomerID,
			cs.TotalSpent.InexactFloat64(),
			cs.PurchaseCount,
			cs.AvgOrderValue.InexactFloat64(),
			len(cs.ProductsBought),
		}
		if err := setRow(f, sheetCustomers, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) writeDailySheet(f *excelize.File) error {
	if _, err := f.NewSheet(sheetDaily); err != nil {
		return err
	}
	if err := setRow(f, sheetDaily, 1, []interface{}{"Date", "Revenue", "Transactions", "Unique Customers"}); err != nil {
		return err
	}
	for i, ds := range r.Analysis.DailyTrend {
		row := []interface{}{
			ds.Date,
			ds.Revenue.InexactFloat64(),
			ds.TransactionCount,
			ds.UniqueCustomers,
		}
		if err := setRow(f, sheetDaily, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) writeEnrichmentSheet(f *excelize.File) error {
	if _, err := f.NewSheet(sheetEnrichment); err != nil {
		return err
	}
	if err := setRow(f, sheetEnrichment, 1, []interface{}{"Transaction ID", "Product ID", "Product Name", "Category", "Brand", "Rating", "Matched"}); err != nil {
		return err
	}
	for i, etx := range r.Enriched {
		row := []interface{}{
			etx.TransactionID,
			etx.ProductID,
			etx.ProductName,
			etx.Category,
			etx.Brand,
			etx.Rating,
			etx.Matched,
		}
		if err := setRow(f, sheetEnrichment, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SMALL HELPERS
// =============================================================================

type productRow struct {
	name     string
	quantity int
	revenue  float64
}

func productRows(products []types.ProductSales) []productRow {
	rows := make([]productRow, 0, len(products))
	for _, ps := range products {
		rows = append(rows, productRow{
			name:     ps.ProductName,
			quantity: ps.TotalQuantity,
			revenue:  ps.TotalRevenue.InexactFloat64(),
		})
	}
	return rows
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
