// =============================================================================
// Salescope - Aggregation Engine
// =============================================================================
//
// Seven independent aggregations over the valid transaction set. Each one
// is a pure function: it owns its accumulator, does no I/O, never mutates
// its input, and can run concurrently with the others against the same
// slice.
//
// ORDERING:
//   Go map iteration order is randomized, so every aggregation that needs
//   a ranking accumulates into a map while tracking first-encountered key
//   order, then applies a stable sort. Equal keys therefore always rank in
//   original transaction order.
//
// MONEY:
//   All sums, percentages and averages are decimal.Decimal. Percentages
//   and averages round to 2 places; divisions with a zero divisor are
//   defined as zero rather than failing.
//
// =============================================================================

package analytics

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"salescope/internal/types"
)

// Defaults for the product rankings.
const (
	DefaultTopN         = 5
	DefaultLowThreshold = 10
)

// ErrNoData is returned by aggregations that are undefined on an empty
// set, such as FindPeakSalesDay. Callers treat it as a local condition:
// it never aborts the other aggregations.
var ErrNoData = errors.New("no transactions to analyze")

var hundred = decimal.NewFromInt(100)

// =============================================================================
// REVENUE
// =============================================================================

// TotalRevenue sums quantity x unit price over all transactions.
func TotalRevenue(transactions []types.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount())
	}
	return total
}

// =============================================================================
// REGION-WISE SALES
// =============================================================================

// RegionWiseSales aggregates per-region totals and transaction counts and
// assigns each region its percentage of the overall total, ordered by
// total sales descending. When the overall total is zero every percentage
// is zero.
func RegionWiseSales(transactions []types.Transaction) []types.RegionStat {
	stats := make(map[string]*types.RegionStat)
	order := make([]string, 0)
	overall := decimal.Zero

	for _, tx := range transactions {
		amount := tx.Amount()
		overall = overall.Add(amount)

		st, ok := stats[tx.Region]
		if !ok {
			st = &types.RegionStat{Region: tx.Region}
			stats[tx.Region] = st
			order = append(order, tx.Region)
		}
		st.TotalSales = st.TotalSales.Add(amount)
		st.TransactionCount++
	}

	result := make([]types.RegionStat, 0, len(order))
	for _, region := range order {
		st := *stats[region]
		if overall.IsPositive() {
			st.Percentage = st.TotalSales.Div(overall).Mul(hundred).Round(2)
		}
		result = append(result, st)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalSales.GreaterThan(result[j].TotalSales)
	})

	return result
}

// =============================================================================
// PRODUCT RANKINGS
// =============================================================================

// aggregateProducts builds per-product quantity and revenue totals in
// first-encountered order. Shared by the top-seller and low-performer
// rankings so both read the same aggregate view.
func aggregateProducts(transactions []types.Transaction) []types.ProductSales {
	totals := make(map[string]*types.ProductSales)
	order := make([]string, 0)

	for _, tx := range transactions {
		ps, ok := totals[tx.ProductName]
		if !ok {
			ps = &types.ProductSales{ProductName: tx.ProductName}
			totals[tx.ProductName] = ps
			order = append(order, tx.ProductName)
		}
		ps.TotalQuantity += tx.Quantity
		ps.TotalRevenue = ps.TotalRevenue.Add(tx.Amount())
	}

	result := make([]types.ProductSales, 0, len(order))
	for _, name := range order {
		result = append(result, *totals[name])
	}
	return result
}

// TopSellingProducts returns the n products with the highest total
// quantity, descending. n <= 0 falls back to DefaultTopN.
func TopSellingProducts(transactions []types.Transaction, n int) []types.ProductSales {
	if n <= 0 {
		n = DefaultTopN
	}

	products := aggregateProducts(transactions)
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].TotalQuantity > products[j].TotalQuantity
	})

	if len(products) > n {
		products = products[:n]
	}
	return products
}

// LowPerformingProducts returns products with a total quantity below the
// threshold, ascending by quantity. threshold <= 0 falls back to
// DefaultLowThreshold.
func LowPerformingProducts(transactions []types.Transaction, threshold int) []types.ProductSales {
	if threshold <= 0 {
		threshold = DefaultLowThreshold
	}

	products := aggregateProducts(transactions)

	low := make([]types.ProductSales, 0)
	for _, ps := range products {
		if ps.TotalQuantity < threshold {
			low = append(low, ps)
		}
	}

	sort.SliceStable(low, func(i, j int) bool {
		return low[i].TotalQuantity < low[j].TotalQuantity
	})

	return low
}

// =============================================================================
// CUSTOMER ANALYSIS
// =============================================================================

// customerAccumulator carries the per-customer state during the pass.
type customerAccumulator struct {
	totalSpent    decimal.Decimal
	purchaseCount int
	products      map[string]struct{}
}

// CustomerAnalysis aggregates spend, purchase count, average order value
// and distinct products per customer, ordered by total spent descending.
// The distinct product list is sorted for deterministic output.
func CustomerAnalysis(transactions []types.Transaction) []types.CustomerStat {
	accs := make(map[string]*customerAccumulator)
	order := make([]string, 0)

	for _, tx := range transactions {
		acc, ok := accs[tx.CustomerID]
		if !ok {
			acc = &customerAccumulator{products: make(map[string]struct{})}
			accs[tx.CustomerID] = acc
			order = append(order, tx.CustomerID)
		}
		acc.totalSpent = acc.totalSpent.Add(tx.Amount())
		acc.purchaseCount++
		acc.products[tx.ProductName] = struct{}{}
	}

	result := make([]types.CustomerStat, 0, len(order))
	for _, id := range order {
		acc := accs[id]

		avg := decimal.Zero
		if acc.purchaseCount > 0 {
			avg = acc.totalSpent.Div(decimal.NewFromInt(int64(acc.purchaseCount))).Round(2)
		}

		products := make([]string, 0, len(acc.products))
		for name := range acc.products {
			products = append(products, name)
		}
		sort.Strings(products)

		result = append(result, types.CustomerStat{
			CustomerID:     id,
			TotalSpent:     acc.totalSpent,
			PurchaseCount:  acc.purchaseCount,
			AvgOrderValue:  avg,
			ProductsBought: products,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalSpent.GreaterThan(result[j].TotalSpent)
	})

	return result
}

// =============================================================================
// DATE-BASED ANALYSIS
// =============================================================================

// dailyAccumulator carries the per-date state during the pass.
type dailyAccumulator struct {
	revenue   decimal.Decimal
	count     int
	customers map[string]struct{}
}

// aggregateDaily builds per-date revenue, transaction count and the
// distinct customer set, keyed by the raw date string.
func aggregateDaily(transactions []types.Transaction) map[string]*dailyAccumulator {
	days := make(map[string]*dailyAccumulator)
	for _, tx := range transactions {
		day, ok := days[tx.Date]
		if !ok {
			day = &dailyAccumulator{customers: make(map[string]struct{})}
			days[tx.Date] = day
		}
		day.revenue = day.revenue.Add(tx.Amount())
		day.count++
		day.customers[tx.CustomerID] = struct{}{}
	}
	return days
}

// DailySalesTrend aggregates revenue, transaction count and distinct
// customer count per date, ordered by date ascending. The dates are ISO
// formatted strings, so lexicographic order is chronological order.
func DailySalesTrend(transactions []types.Transaction) []types.DailyStat {
	days := aggregateDaily(transactions)

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	result := make([]types.DailyStat, 0, len(dates))
	for _, date := range dates {
		day := days[date]
		result = append(result, types.DailyStat{
			Date:             date,
			Revenue:          day.revenue,
			TransactionCount: day.count,
			UniqueCustomers:  len(day.customers),
		})
	}
	return result
}

// FindPeakSalesDay returns the date with the highest revenue. Revenue
// ties resolve to the earliest date. Returns ErrNoData on an empty set,
// where a maximum is undefined.
func FindPeakSalesDay(transactions []types.Transaction) (types.PeakDay, error) {
	if len(transactions) == 0 {
		return types.PeakDay{}, ErrNoData
	}

	days := aggregateDaily(transactions)

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	peak := types.PeakDay{Date: dates[0], Revenue: days[dates[0]].revenue, TransactionCount: days[dates[0]].count}
	for _, date := range dates[1:] {
		if days[date].revenue.GreaterThan(peak.Revenue) {
			peak = types.PeakDay{Date: date, Revenue: days[date].revenue, TransactionCount: days[date].count}
		}
	}

	return peak, nil
}
