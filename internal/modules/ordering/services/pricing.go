package services

import (
	"math"
	"strconv"
	"strings"
)

// Quote is the price breakdown of a draft
type Quote struct {
	Subtotal float64
	Discount float64
	Total    float64
}

// PriceOrder applies the bulk discount from the threshold up:
// discount = subtotal * rate, zero below the threshold.
func PriceOrder(pricePerKg, quantityKg float64, s Settings) Quote {
	q := Quote{Subtotal: pricePerKg * quantityKg}
	if quantityKg >= s.BulkThresholdKg {
		q.Discount = q.Subtotal * s.BulkDiscountRate
	}
	q.Total = q.Subtotal - q.Discount
	return q
}

// parseQuantity reads "60", "60kg", "60 kg" or "7,5". ok is false for
// anything that is not a positive number.
func parseQuantity(text string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(text))
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(v, "kilos"), "kg"))
	v = strings.Replace(v, ",", ".", 1)
	if v == "" {
		return 0, false
	}
	q, err := strconv.ParseFloat(v, 64)
	if err != nil || q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, false
	}
	return q, true
}
