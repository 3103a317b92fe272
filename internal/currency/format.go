package currency

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Default is the currency amounts are shown in when none is configured.
const Default = money.USD

// lookup returns the currency for code, falling back to Default for unknown
// codes so formatting never fails.
func lookup(code string) *money.Currency {
	if c := money.GetCurrency(strings.ToUpper(code)); c != nil {
		return c
	}
	return money.GetCurrency(Default)
}

// Supported reports whether code is a known ISO 4217 currency.
func Supported(code string) bool {
	return money.GetCurrency(strings.ToUpper(code)) != nil
}

// Round rounds amount to the currency's minor unit.
func Round(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Round(int32(lookup(code).Fraction))
}

// Format renders amount the way the currency is conventionally written,
// e.g. "$2,000.00" or "-$50.00".
func Format(amount decimal.Decimal, code string) string {
	cur := lookup(code)
	minor := Round(amount, code).Shift(int32(cur.Fraction)).IntPart()
	return cur.Formatter().Format(minor)
}

// FormatSigned is Format with an explicit "+" on positive amounts and "-" for
// amounts that round to zero, for variance columns.
func FormatSigned(amount decimal.Decimal, code string) string {
	amount = Round(amount, code)
	switch {
	case amount.IsZero():
		return "-"
	case amount.IsPositive():
		return "+" + Format(amount, code)
	}
	return Format(amount, code)
}
