// =============================================================================
// Salescope - Validation & Filtering
// =============================================================================
//
// This module applies the business rules to parsed transactions and then
// the optional region/amount filters to the survivors.
//
// VALIDATION STRATEGY:
//   Rules run in a fixed order and the first failing rule rejects the
//   record. Each record is counted at most once in the invalid total, no
//   matter how many rules it would have failed.
//
// ERROR HANDLING:
//   Rule violations are absorbed into counts, never raised. The function
//   cannot fail: bad input is the expected case, not the exceptional one.
//
// =============================================================================

package validation

import (
	"strings"

	"salescope/internal/types"
)

// Identifier prefixes required by the record schema.
const (
	TransactionPrefix = "T"
	ProductPrefix     = "P"
	CustomerPrefix    = "C"
)

// ValidateAndFilter partitions transactions into valid and invalid, then
// applies the optional filters to the valid set.
//
// RETURNS:
//   - The transactions surviving validation and all filters, in input order.
//   - The count of records that failed a business rule.
//   - A FilterSummary accounting for every record that entered.
//
// When no filters are set, len(valid) + invalid equals len(transactions).
func ValidateAndFilter(transactions []types.Transaction, filters types.FilterParams) ([]types.Transaction, int, types.FilterSummary) {
	valid := make([]types.Transaction, 0, len(transactions))
	invalid := 0

	for _, tx := range transactions {
		if isValid(tx) {
			valid = append(valid, tx)
		} else {
			invalid++
		}
	}

	summary := types.FilterSummary{
		TotalInput: len(transactions),
		Invalid:    invalid,
	}

	filtered := valid

	if filters.Region != "" {
		before := len(filtered)
		filtered = filterByRegion(filtered, filters.Region)
		summary.FilteredByRegion = before - len(filtered)
	}

	if filters.MinAmount != nil || filters.MaxAmount != nil {
		before := len(filtered)
		filtered = filterByAmount(filtered, filters)
		summary.FilteredByAmount = before - len(filtered)
	}

	summary.FinalCount = len(filtered)

	return filtered, invalid, summary
}

// isValid runs the business rules in order. The parser guarantees typed
// quantity and price, so the field-presence check here is a defensive
// re-check on the string fields.
func isValid(tx types.Transaction) bool {
	if tx.TransactionID == "" || tx.Date == "" || tx.ProductID == "" ||
		tx.ProductName == "" || tx.CustomerID == "" || tx.Region == "" {
		return false
	}
	if tx.Quantity <= 0 {
		return false
	}
	if !tx.UnitPrice.IsPositive() {
		return false
	}
	if !strings.HasPrefix(tx.TransactionID, TransactionPrefix) {
		return false
	}
	if !strings.HasPrefix(tx.ProductID, ProductPrefix) {
		return false
	}
	if !strings.HasPrefix(tx.CustomerID, CustomerPrefix) {
		return false
	}
	return true
}

// filterByRegion keeps only exact region matches.
func filterByRegion(transactions []types.Transaction, region string) []types.Transaction {
	kept := make([]types.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Region == region {
			kept = append(kept, tx)
		}
	}
	return kept
}

// filterByAmount keeps records whose amount lies within the inclusive
// bounds. A nil bound is unbounded on that side.
func filterByAmount(transactions []types.Transaction, filters types.FilterParams) []types.Transaction {
	kept := make([]types.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		amount := tx.Amount()
		if filters.MinAmount != nil && amount.LessThan(*filters.MinAmount) {
			continue
		}
		if filters.MaxAmount != nil && amount.GreaterThan(*filters.MaxAmount) {
			continue
		}
		kept = append(kept, tx)
	}
	return kept
}
