// =============================================================================
// Salescope - Line Source
// =============================================================================
//
// This module reads the raw sales data file and hands the pipeline a clean
// sequence of candidate lines. Exports from the upstream point-of-sale
// system are not reliably UTF-8, so a list of encodings is tried in
// preference order and the first one that decodes the whole file wins.
//
// The header row and blank lines are stripped here; everything downstream
// only ever sees candidate data lines.
//
// =============================================================================

package reader

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Errors reported by ReadLines. ErrNotFound wraps the underlying os error;
// ErrUndecodable means every configured encoding failed.
var (
	ErrNotFound    = errors.New("sales data file not found")
	ErrUndecodable = errors.New("unable to decode file with supported encodings")
)

// decoders maps the configuration encoding names to their x/text decoders.
// UTF-8 is handled separately since it needs validation, not conversion.
var decoders = map[string]*charmap.Charmap{
	"latin-1":      charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
}

// ReadLines reads the sales data file trying each encoding in order and
// returns the data lines with the header row and blank lines removed.
//
// The returned error is ErrNotFound (wrapped) when the file does not
// exist, ErrUndecodable when no encoding applies, or an I/O error.
func ReadLines(filename string, encodings []string) ([]string, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	text, err := decode(raw, encodings)
	if err != nil {
		return nil, err
	}

	return cleanLines(text), nil
}

// decode tries each encoding in order and returns the first clean decode.
func decode(raw []byte, encodings []string) (string, error) {
	for _, name := range encodings {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "utf-8", "utf8":
			if utf8.Valid(raw) {
				return string(raw), nil
			}
		default:
			cm, ok := decoders[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				continue
			}
			decoded, err := decodeCharmap(raw, cm.NewDecoder())
			if err != nil {
				continue
			}
			return decoded, nil
		}
	}

	return "", ErrUndecodable
}

// decodeCharmap converts a single-byte encoded buffer to UTF-8.
func decodeCharmap(raw []byte, dec *encoding.Decoder) (string, error) {
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// cleanLines splits the decoded text into lines, skips the header row and
// drops blank lines. Line endings from both Unix and Windows exports are
// handled by the surrounding trim.
func cleanLines(text string) []string {
	text = strings.TrimPrefix(text, "\uFEFF")

	all := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(all) <= 1 {
		return []string{}
	}

	cleaned := make([]string, 0, len(all)-1)
	for _, line := range all[1:] {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return cleaned
}

// HeaderFields is the expected header row, in wire order. The reader does
// not enforce it, but the enriched-data writer reuses it to keep the two
// file layouts in sync.
var HeaderFields = []string{
	"TransactionID", "Date", "ProductID", "ProductName",
	"Quantity", "UnitPrice", "CustomerID", "Region",
}
