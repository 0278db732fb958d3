package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"1.234", "1.23"},
		{"1.235", "1.24"},
		{"2.675", "2.68"},
		{"0.005", "0.01"},
		{"-0.005", "-0.01"},
		{"-1.235", "-1.24"},
		{"-1.234", "-1.23"},
		{"0.0049", "0.00"},
		{"33.333333", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Quantize(dec(tt.in)).StringFixed(Places))
		})
	}
}

func TestQuantizeFloat(t *testing.T) {
	assert.Equal(t, "0.30", QuantizeFloat(0.1+0.2).StringFixed(Places))
	assert.Equal(t, "16.67", QuantizeFloat(50.0/3).StringFixed(Places))
	assert.Equal(t, "-10.00", QuantizeFloat(-10).StringFixed(Places))
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(1234), Cents(dec("12.34")))
	assert.Equal(t, int64(1235), Cents(dec("12.345")))
	assert.Equal(t, int64(-50), Cents(dec("-0.5")))
	assert.True(t, dec("12.34").Equal(FromCents(1234)))
}

func TestIsNegligible(t *testing.T) {
	assert.True(t, IsNegligible(dec("0")))
	assert.True(t, IsNegligible(dec("0.005")))
	assert.True(t, IsNegligible(dec("-0.0099")))
	assert.False(t, IsNegligible(dec("0.01")))
	assert.False(t, IsNegligible(dec("-0.01")))
	assert.False(t, IsNegligible(dec("12")))
}

func TestBalanceStatus(t *testing.T) {
	assert.Equal(t, StatusSettled, balance("a", "0.004").Status())
	assert.Equal(t, StatusCreditor, balance("a", "0.01").Status())
	assert.Equal(t, StatusDebtor, balance("a", "-3").Status())
	assert.Equal(t, "All settled", StatusSettled.String())
	assert.Equal(t, "Gets back", StatusCreditor.String())
	assert.Equal(t, "Owes", StatusDebtor.String())
}
