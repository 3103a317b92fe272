package ingestion

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a money amount, tolerating a leading dollar sign and
// thousands separators as lenders often export them.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Replace(s, "$", "", 1)
	return decimal.NewFromString(strings.TrimSpace(s))
}

// optionalAmount is parseAmount for columns that may be blank; anything
// unparsable counts as zero.
func optionalAmount(row []string, idx int) decimal.Decimal {
	if idx < 0 || idx >= len(row) {
		return decimal.Zero
	}
	v, err := parseAmount(row[idx])
	if err != nil {
		return decimal.Zero
	}
	return v
}
