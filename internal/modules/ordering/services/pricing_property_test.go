//go:build property
// +build property

package services

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPriceOrderProperties(t *testing.T) {
	s := testSettings()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("total is subtotal minus discount", prop.ForAll(
		func(price, qty float64) bool {
			q := PriceOrder(price, qty, s)
			return math.Abs(q.Total-(q.Subtotal-q.Discount)) < 1e-6
		},
		gen.Float64Range(1, 500),
		gen.Float64Range(s.MinOrderKg, 1000),
	))

	properties.Property("discount applies exactly from the threshold", prop.ForAll(
		func(price, qty float64) bool {
			q := PriceOrder(price, qty, s)
			if qty >= s.BulkThresholdKg {
				return math.Abs(q.Discount-q.Subtotal*s.BulkDiscountRate) < 1e-6
			}
			return q.Discount == 0
		},
		gen.Float64Range(1, 500),
		gen.Float64Range(s.MinOrderKg, 1000),
	))

	properties.Property("total never exceeds subtotal", prop.ForAll(
		func(price, qty float64) bool {
			q := PriceOrder(price, qty, s)
			return q.Total <= q.Subtotal && q.Total > 0
		},
		gen.Float64Range(1, 500),
		gen.Float64Range(s.MinOrderKg, 1000),
	))

	properties.TestingRun(t)
}
