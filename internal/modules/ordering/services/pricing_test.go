package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceOrder(t *testing.T) {
	s := testSettings()

	tests := []struct {
		name       string
		price, qty float64
		want       Quote
	}{
		{"below threshold", 40, 20, Quote{Subtotal: 800, Discount: 0, Total: 800}},
		{"at threshold", 40, 50, Quote{Subtotal: 2000, Discount: 200, Total: 1800}},
		{"above threshold", 40, 60, Quote{Subtotal: 2400, Discount: 240, Total: 2160}},
		{"fractional quantity", 60, 7.5, Quote{Subtotal: 450, Discount: 0, Total: 450}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceOrder(tt.price, tt.qty, s)
			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tt.want.Discount, got.Discount, 1e-9)
			assert.InDelta(t, tt.want.Total, got.Total, 1e-9)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	valid := map[string]float64{
		"60":      60,
		"60kg":    60,
		"60 kg":   60,
		"60 KG":   60,
		"7,5":     7.5,
		" 12.25 ": 12.25,
		"8 kilos": 8,
	}
	for in, want := range valid {
		got, ok := parseQuantity(in)
		assert.True(t, ok, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}

	for _, in := range []string{"", "kg", "abc", "0", "-5", "NaN", "Inf", "1e400"} {
		_, ok := parseQuantity(in)
		assert.False(t, ok, in)
	}
}
