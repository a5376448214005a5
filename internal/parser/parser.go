// =============================================================================
// Salescope - Line Parser
// =============================================================================
//
// This module turns raw pipe-delimited lines into typed Transaction
// records. The wire format is fixed:
//
//   TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
//
// Malformed lines never become errors here. A line with the wrong field
// count, or with a quantity or unit price that does not convert, is
// dropped and the loop moves on. Rejections for business rules (negative
// quantity, bad prefixes and so on) are the validator's job and ARE
// counted there; parse-time drops are not.
//
// =============================================================================

package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"salescope/internal/types"
)

// Delimiter separates record fields in the sales data file.
const Delimiter = "|"

// FieldCount is the exact number of fields a well-formed line carries.
const FieldCount = 8

// Parse converts raw lines into Transactions. Lines that do not conform
// to the wire format are dropped silently; Parse never fails.
func Parse(rawLines []string) []types.Transaction {
	transactions := make([]types.Transaction, 0, len(rawLines))

	for _, line := range rawLines {
		tx, ok := parseLine(line)
		if !ok {
			continue
		}
		transactions = append(transactions, tx)
	}

	return transactions
}

// parseLine parses a single raw line. The second return value is false
// when the line must be dropped.
func parseLine(line string) (types.Transaction, bool) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != FieldCount {
		return types.Transaction{}, false
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	// Stray delimiters inside free-text product names arrive as commas
	// from the upstream export; normalize them to spaces.
	productName := strings.ReplaceAll(fields[3], ",", " ")

	// Numeric fields may carry thousands separators ("1,299").
	quantity, err := strconv.Atoi(strings.ReplaceAll(fields[4], ",", ""))
	if err != nil {
		return types.Transaction{}, false
	}

	unitPrice, err := decimal.NewFromString(strings.ReplaceAll(fields[5], ",", ""))
	if err != nil {
		return types.Transaction{}, false
	}

	return types.Transaction{
		TransactionID: fields[0],
		Date:          fields[1],
		ProductID:     fields[2],
		ProductName:   productName,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    fields[6],
		Region:        fields[7],
	}, true
}
