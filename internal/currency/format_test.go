package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"2000", "USD", "$2,000.00"},
		{"1516.955", "usd", "$1,516.96"},
		{"-50", "USD", "-$50.00"},
		{"0", "USD", "$0.00"},
		{"1234.5", "XYZ", "$1,234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.amount), tt.code))
		})
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+$50.00", FormatSigned(decimal.NewFromInt(50), "USD"))
	assert.Equal(t, "-$0.01", FormatSigned(decimal.RequireFromString("-0.01"), "USD"))
	assert.Equal(t, "-", FormatSigned(decimal.Zero, "USD"))
	assert.Equal(t, "-", FormatSigned(decimal.RequireFromString("0.004"), "USD"))
	assert.Equal(t, "-", FormatSigned(decimal.RequireFromString("-0.004"), "USD"))
	assert.Equal(t, "+$0.01", FormatSigned(decimal.RequireFromString("0.005"), "USD"))
}

func TestRoundAndSupported(t *testing.T) {
	assert.Equal(t, "10.13", Round(decimal.RequireFromString("10.125"), "USD").String())
	assert.Equal(t, "1013", Round(decimal.RequireFromString("1012.5"), "JPY").String())

	assert.True(t, Supported("usd"))
	assert.True(t, Supported("EUR"))
	assert.False(t, Supported("XYZ"))
}
