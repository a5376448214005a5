// =============================================================================
// Salescope - Product Catalog Client
// =============================================================================
//
// This module fetches product metadata from the remote catalog API and
// joins it onto validated transactions. The catalog is purely additive:
// a fetch failure or an unmatched product never changes the analytics,
// it only leaves the metadata columns empty in the enriched dataset.
//
// =============================================================================

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"salescope/internal/types"
)

// Client provides access to the product catalog API. It wraps an HTTP
// client configured with the catalog timeout.
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
}

// Product is one catalog entry as returned by the API.
type Product struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Rating   float64 `json:"rating"`
}

// productsResponse is the API envelope around the product list.
type productsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// NewClient creates a catalog client for the given base URL.
//
// Parameters:
//   - baseURL: API root, e.g. "https://dummyjson.com"
//   - limit: maximum number of products to fetch
//   - timeout: HTTP timeout for the fetch
func NewClient(baseURL string, limit int, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		limit:      limit,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchAllProducts retrieves the product list from the catalog API.
func (c *Client) FetchAllProducts(ctx context.Context) ([]Product, error) {
	url := fmt.Sprintf("%s/products?limit=%d", c.baseURL, c.limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	var response productsResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return response.Products, nil
}

// =============================================================================
// MAPPING & ENRICHMENT
// =============================================================================

// BuildMapping keys catalog products by their numeric id for the join.
func BuildMapping(products []Product) map[int]types.ProductInfo {
	mapping := make(map[int]types.ProductInfo, len(products))
	for _, p := range products {
		mapping[p.ID] = types.ProductInfo{
			Title:    p.Title,
			Category: p.Category,
			Brand:    p.Brand,
			Rating:   p.Rating,
		}
	}
	return mapping
}

// NumericProductID extracts the catalog key from a ProductID by stripping
// the "P" prefix ("P101" -> 101). The second return value is false when
// the remainder is not numeric; such records are simply unmatched.
func NumericProductID(productID string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimPrefix(productID, "P"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// Enrich joins catalog metadata onto each transaction, preserving order.
// Transactions without a catalog match come back with Matched false and
// empty metadata.
func Enrich(transactions []types.Transaction, mapping map[int]types.ProductInfo) []types.EnrichedTransaction {
	enriched := make([]types.EnrichedTransaction, 0, len(transactions))

	for _, tx := range transactions {
		etx := types.EnrichedTransaction{Transaction: tx}

		if id, ok := NumericProductID(tx.ProductID); ok {
			if info, found := mapping[id]; found {
				etx.Category = info.Category
				etx.Brand = info.Brand
				etx.Rating = info.Rating
				etx.Matched = true
			}
		}

		enriched = append(enriched, etx)
	}

	return enriched
}

// =============================================================================
// ENRICHED DATASET OUTPUT
// =============================================================================

// enrichedHeader is the column layout of the enriched dataset: the eight
// input columns followed by the four catalog columns.
var enrichedHeader = []string{
	"TransactionID", "Date", "ProductID", "ProductName",
	"Quantity", "UnitPrice", "CustomerID", "Region",
	"API_Category", "API_Brand", "API_Rating", "API_Match",
}

// SaveEnriched writes the enriched transactions as pipe-delimited text
// with a header row, mirroring the input file layout plus the catalog
// columns.
func SaveEnriched(enriched []types.EnrichedTransaction, filename string) error {
	var b strings.Builder

	b.WriteString(strings.Join(enrichedHeader, "|"))
	b.WriteString("\n")

	for _, etx := range enriched {
		rating := ""
		if etx.Matched {
			rating = strconv.FormatFloat(etx.Rating, 'f', -1, 64)
		}

		row := []string{
			etx.TransactionID,
			etx.Date,
			etx.ProductID,
			etx.ProductName,
			strconv.Itoa(etx.Quantity),
			etx.UnitPrice.String(),
			etx.CustomerID,
			etx.Region,
			etx.Category,
			etx.Brand,
			rating,
			strconv.FormatBool(etx.Matched),
		}

		b.WriteString(strings.Join(row, "|"))
		b.WriteString("\n")
	}

	if err := os.WriteFile(filename, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write enriched data: %w", err)
	}

	return nil
}
