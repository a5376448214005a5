package analytics

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"salescope/internal/types"
)

// tx is a compact transaction builder for aggregation tests.
func tx(id, date, product, customer, region string, qty int, price int64) types.Transaction {
	return types.Transaction{
		TransactionID: id,
		Date:          date,
		ProductID:     "P" + id[1:],
		ProductName:   product,
		Quantity:      qty,
		UnitPrice:     decimal.NewFromInt(price),
		CustomerID:    customer,
		Region:        region,
	}
}

func TestTotalRevenue(t *testing.T) {
	tests := []struct {
		name string
		txs  []types.Transaction
		want string
	}{
		{
			name: "empty set is zero",
			txs:  nil,
			want: "0",
		},
		{
			name: "single transaction",
			txs: []types.Transaction{
				tx("T1", "2024-01-01", "Mouse", "C1", "North", 5, 200),
			},
			want: "1000",
		},
		{
			name: "sums across transactions",
			txs: []types.Transaction{
				tx("T1", "2024-01-01", "Mouse", "C1", "North", 5, 200),
				tx("T2", "2024-01-02", "Laptop", "C2", "South", 2, 45000),
			},
			want: "91000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalRevenue(tt.txs)
			if got.String() != tt.want {
				t.Errorf("TotalRevenue = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRegionWiseSales(t *testing.T) {
	txs := []types.Transaction{
		tx("T1", "2024-01-01", "Mouse", "C1", "North", 5, 200),    // 1000
		tx("T2", "2024-01-01", "Laptop", "C2", "South", 1, 3000),  // 3000
		tx("T3", "2024-01-02", "Keyboard", "C3", "North", 2, 500), // 1000
	}

	got := RegionWiseSales(txs)

	if len(got) != 2 {
		t.Fatalf("got %d regions, want 2", len(got))
	}
	if got[0].Region != "South" || got[1].Region != "North" {
		t.Errorf("order = [%s, %s], want [South, North]", got[0].Region, got[1].Region)
	}
	if got[0].TotalSales.String() != "3000" || got[1].TotalSales.String() != "2000" {
		t.Errorf("totals = [%s, %s], want [3000, 2000]", got[0].TotalSales, got[1].TotalSales)
	}
	if got[0].TransactionCount != 1 || got[1].TransactionCount != 2 {
		t.Errorf("counts = [%d, %d], want [1, 2]", got[0].TransactionCount, got[1].TransactionCount)
	}
	if got[0].Percentage.String() != "60" || got[1].Percentage.String() != "40" {
		t.Errorf("percentages = [%s, %s], want [60, 40]", got[0].Percentage, got[1].Percentage)
	}

	sum := decimal.Zero
	for _, st := range got {
		sum = sum.Add(st.Percentage)
	}
	if !sum.Equal(decimal.NewFromInt(100)) {
		t.Errorf("percentages sum to %s, want 100", sum)
	}
}

func TestRegionWiseSalesSingleRegion(t *testing.T) {
	got := RegionWiseSales([]types.Transaction{
		tx("T1", "2024-01-01", "Mouse", "C1", "North", 5, 200),
	})

	if len(got) != 1 {
		t.Fatalf("got %d regions, want 1", len(got))
	}
	if got[0].Percentage.String() != "100" {
		t.Errorf("sole region percentage = %s, want 100", got[0].Percentage)
	}
}

func TestRegionWiseSalesTieKeepsInputOrder(t *testing.T) {
	got := RegionWiseSales([]types.Transaction{
		tx("T1", "2024-01-01", "Mouse", "C1", "West", 1, 500),
		tx("T2", "2024-01-01", "Mouse", "C2", "East", 1, 500),
	})

	if got[0].Region != "West" || got[1].Region != "East" {
		t.Errorf("tied regions reordered: [%s, %s]", got[0].Region, got[1].Region)
	}
}

func TestRegionWiseSalesEmpty(t *testing.T) {
	got := RegionWiseSales(nil)
	if len(got) != 0 {
		t.Errorf("got %d regions on empty input, want 0", len(got))
	}
}

func TestTopSellingProducts(t *testing.T) {
	txs := []types.Transaction{
		tx("T1", "2024-01-01", "Mouse", "C1", "North", 10, 200),
		tx("T2", "2024-01-01", "Laptop", "C2", "South", 2, 45000),
		tx("T3", "2024-01-02", "Mouse", "C3", "East", 5, 200),
		tx("T4", "2024-01-02", "Keyboard", "C1", "West", 8, 500),
	}

	got := TopSellingProducts(txs, 2)

	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].ProductName != "Mouse" || got[0].TotalQuantity != 15 {
		t.Errorf("top product = %s/%d, want Mouse/15", got[0].ProductName, got[0].TotalQuantity)
	}
	if got[1].ProductName != "Keyboard" || got[1].TotalQuantity != 8 {
		t.Errorf("second product = %s/%d, want Keyboard/8", got[1].ProductName, got[1].TotalQuantity)
	}
	if got[0].TotalRevenue.String() != "3000" {
		t.Errorf("Mouse revenue = %s, want 3000", got[0].TotalRevenue)
	}
}

func TestTopSellingProductsDefaultsN(t *testing.T) {
	txs := make([]types.Transaction, 0)
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, name := range names {
		txs = append(txs, tx("T1", "2024-01-01", name, "C1", "North", i+1, 100))
	}

	got := TopSellingProducts(txs, 0)
	if len(got) != DefaultTopN {
		t.Errorf("got %d products with n=0, want %d", len(got), DefaultTopN)
	}
}

func TestTopSellingProductsTieKeepsInputOrder(t *testing.T) {
	got := TopSellingProducts([]types.Transaction{
		tx("T1", "2024-01-01", "Zebra", "C1", "North", 5, 100),
		tx("T2", "2024-01-01", "Apple", "C2", "North", 5, 100),
	}, 5)

	if got[0].ProductName != "Zebra" || got[1].ProductName != "Apple" {
		t.Errorf("tied products reordered: [%s, %s]", got[0].ProductName, got[1].ProductName)
	}
}

func TestLowPerformingProducts(t *testing.T) {
	txs := []types.Transaction{
		tx("T1", "2024-01-01", "Mouse", "C1", "North", 15, 200),
		tx("T2", "2024-01-01", "Webcam", "C2", "South", 3, 2500),
		tx("T3", "2024-01-02", "Headset", "C3", "East", 9, 1800),
		tx("T4", "2024-01-02", "Dock", "C1", "West", 10, 7000),
	}

	got := LowPerformingProducts(txs, 10)

	// Strictly below the threshold: Dock at exactly 10 stays out.
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].ProductName != "Webcam" || got[1].ProductName != "Headset" {
		t.Errorf("order = [%s, %s], want [Webcam, Headset]", got[0].ProductName, got[1].ProductName)
	}
}

func TestCustomerAnalysis(t *testing.T) {
	txs := []types.Transaction{
		tx("T1", "2024-01-01", "Mouse", "C1", "North", 5, 200),    // 1000
		tx("T2", "2024-01-01", "Laptop", "C2", "South", 1, 3000),  // 3000
		tx("T3", "2024-01-02", "Keyboard", "C1", "North", 2, 250), // 500
	}

	got := CustomerAnalysis(txs)

	if len(got) != 2 {
		t.Fatalf("got %d customers, want 2", len(got))
	}

	if got[0].CustomerID != "C2" {
		t.Errorf("top spender = %s, want C2", got[0].CustomerID)
	}

	c1 := got[1]
	if c1.TotalSpent.String() != "1500" {
		t.Errorf("C1 total spent = %s, want 1500", c1.TotalSpent)
	}
	if c1.PurchaseCount != 2 {
		t.Errorf("C1 purchase count = %d, want 2", c1.PurchaseCount)
	}
	if c1.AvgOrderValue.String() != "750" {
		t.Errorf("C1 avg order value = %s, want 750", c1.AvgOrderValue)
	}
	if len(c1.ProductsBought) != 2 || c1.ProductsBought[0] != "Keyboard" || c1.ProductsBought[1] != "Mouse" {
		t.Errorf("C1 products = %v, want sorted [Keyboard Mouse]", c1.ProductsBought)
	}
}

func TestCustomerAnalysisDistinctProducts(t *testing.T) {
	txs := []types.Transaction{
		tx("T1", "2024-01-01", "Mouse", "C1", "North", 1, 200),
		tx("T2", "2024-01-02", "Mouse", "C1", "North", 2, 200),
	}

	got := CustomerAnalysis(txs)
	if len(got[0].ProductsBought) != 1 {
		t.Errorf("repeat purchases duplicated in product list: %v", got[0].ProductsBought)
	}
}

func TestDailySalesTrend(t *testing.T) {
	txs := []types.Transaction{
		tx("T1", "2024-01-02", "Mouse", "C1", "North", 1, 300),
		tx("T2", "2024-01-01", "Laptop", "C2", "South", 1, 5000),
		tx("T3", "2024-01-02", "Keyboard", "C1", "East", 1, 700),
		tx("T4", "2024-01-02", "Monitor", "C3", "West", 1, 9000),
	}

	got := DailySalesTrend(txs)

	if len(got) != 2 {
		t.Fatalf("got %d days, want 2", len(got))
	}
	if got[0].Date != "2024-01-01" || got[1].Date != "2024-01-02" {
		t.Errorf("dates not ascending: [%s, %s]", got[0].Date, got[1].Date)
	}

	second := got[1]
	if second.Revenue.String() != "10000" {
		t.Errorf("2024-01-02 revenue = %s, want 10000", second.Revenue)
	}
	if second.TransactionCount != 3 {
		t.Errorf("2024-01-02 transaction count = %d, want 3", second.TransactionCount)
	}
	if second.UniqueCustomers != 2 {
		t.Errorf("2024-01-02 unique customers = %d, want 2", second.UniqueCustomers)
	}
}

func TestFindPeakSalesDay(t *testing.T) {
	txs := []types.Transaction{
		tx("T1", "2024-01-01", "Mouse", "C1", "North", 1, 100),
		tx("T2", "2024-01-01", "Keyboard", "C2", "North", 1, 300),
		tx("T3", "2024-01-02", "Cable", "C3", "South", 1, 350),
	}

	got, err := FindPeakSalesDay(txs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date != "2024-01-01" {
		t.Errorf("peak date = %s, want 2024-01-01", got.Date)
	}
	if got.Revenue.String() != "400" {
		t.Errorf("peak revenue = %s, want 400", got.Revenue)
	}
	if got.TransactionCount != 2 {
		t.Errorf("peak transaction count = %d, want 2", got.TransactionCount)
	}
}

func TestFindPeakSalesDayTieResolvesToEarliest(t *testing.T) {
	txs := []types.Transaction{
		tx("T1", "2024-01-05", "Mouse", "C1", "North", 1, 500),
		tx("T2", "2024-01-03", "Mouse", "C2", "North", 1, 500),
	}

	got, err := FindPeakSalesDay(txs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date != "2024-01-03" {
		t.Errorf("tied peak date = %s, want earliest 2024-01-03", got.Date)
	}
}

func TestFindPeakSalesDayEmpty(t *testing.T) {
	_, err := FindPeakSalesDay(nil)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
}
