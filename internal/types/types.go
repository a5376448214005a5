// =============================================================================
// Salescope - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - parser
//   - validation
//   - analytics
//   - pipeline
//   - catalog
//   - report
//
// =============================================================================

package types

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TRANSACTION RECORD
// =============================================================================

// Transaction is one parsed sales record. A Transaction only exists if the
// raw line carried exactly eight fields and both numeric fields converted
// cleanly; anything else is dropped by the parser before this type is built.
type Transaction struct {
	// TransactionID is the record identifier (expected prefix "T").
	TransactionID string

	// Date is the calendar date kept as the raw token from the file.
	// The input format is ISO YYYY-MM-DD, so string ordering is calendar
	// ordering; grouping and min/max work directly on this field.
	Date string

	// ProductID is the product identifier (expected prefix "P"). The
	// numeric remainder is what the catalog lookup keys on.
	ProductID string

	// ProductName is the product display name. Embedded commas are
	// normalized to spaces during parsing.
	ProductName string

	// Quantity is the number of units sold.
	Quantity int

	// UnitPrice is the per-unit price.
	UnitPrice decimal.Decimal

	// CustomerID is the customer identifier (expected prefix "C").
	CustomerID string

	// Region is the sales region name.
	Region string
}

// Amount is the transaction value, always recomputed from quantity and
// unit price so the two can never drift apart.
func (t Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// =============================================================================
// VALIDATION & FILTERING
// =============================================================================

// FilterParams holds the optional filters applied after validation.
// A nil bound means unbounded on that side; an empty Region disables the
// region filter.
type FilterParams struct {
	Region    string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// FilterSummary accounts for every record that entered validation.
// Invalid counts business-rule rejections only; lines dropped during
// parsing never reach this stage and are not included.
type FilterSummary struct {
	TotalInput       int
	Invalid          int
	FilteredByRegion int
	FilteredByAmount int
	FinalCount       int
}

// =============================================================================
// AGGREGATE RESULT TYPES
// =============================================================================
// Read models produced by the analytics package. Each is built fresh from
// the valid transaction set on every run; none of them is cached.

// RegionStat is one region's slice of the overall revenue.
type RegionStat struct {
	Region           string
	TotalSales       decimal.Decimal
	TransactionCount int
	// Percentage of the overall total, rounded to 2 places. Defined as
	// zero when the overall total is zero.
	Percentage decimal.Decimal
}

// ProductSales is a product's aggregated volume and revenue. Used for both
// the top-seller ranking and the low-performer list.
type ProductSales struct {
	ProductName   string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
}

// CustomerStat is one customer's purchase profile.
type CustomerStat struct {
	CustomerID    string
	TotalSpent    decimal.Decimal
	PurchaseCount int
	// AvgOrderValue is TotalSpent / PurchaseCount rounded to 2 places,
	// zero when PurchaseCount is zero.
	AvgOrderValue decimal.Decimal
	// ProductsBought holds the distinct product names, sorted ascending.
	ProductsBought []string
}

// DailyStat is one calendar date's activity.
type DailyStat struct {
	Date             string
	Revenue          decimal.Decimal
	TransactionCount int
	UniqueCustomers  int
}

// PeakDay is the single date with the highest revenue.
type PeakDay struct {
	Date             string
	Revenue          decimal.Decimal
	TransactionCount int
}

// Analysis bundles the outputs of all seven aggregations for the report
// and export layers. PeakDay is nil when the valid set was empty.
type Analysis struct {
	TotalRevenue  decimal.Decimal
	Regions       []RegionStat
	TopProducts   []ProductSales
	Customers     []CustomerStat
	DailyTrend    []DailyStat
	PeakDay       *PeakDay
	LowPerformers []ProductSales
}

// =============================================================================
// ENRICHMENT
// =============================================================================

// ProductInfo is the catalog metadata joined onto a transaction.
type ProductInfo struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Rating   float64 `json:"rating"`
}

// EnrichedTransaction is a Transaction plus its catalog match, if any.
// When Matched is false the metadata fields are empty.
type EnrichedTransaction struct {
	Transaction

	Category string
	Brand    string
	Rating   float64
	Matched  bool
}
