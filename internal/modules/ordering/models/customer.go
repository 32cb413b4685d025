package models

import "time"

// Customer is a row of the customer sheet, keyed by the canonical phone
type Customer struct {
	ID              string    `json:"id"`
	NormalizedPhone string    `json:"normalized_phone"`
	BusinessName    string    `json:"business_name"`
	ContactName     string    `json:"contact_name"`
	ContactPhone    string    `json:"contact_phone"`
	Email           string    `json:"email,omitempty"`
	Address         string    `json:"address"`
	District        string    `json:"district,omitempty"`
	City            string    `json:"city,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	RegisteredAt    time.Time `json:"registered_at"`
	LastOrderAt     time.Time `json:"last_order_at"`
	OrderCount      int       `json:"order_count"`
	TotalSpent      float64   `json:"total_spent"`
	TotalKg         float64   `json:"total_kg"`
}

// LoyaltyTier groups customers by how many orders they placed
type LoyaltyTier int

const (
	TierNone LoyaltyTier = iota
	TierRecurring
	TierFrequent
	TierVIP
)

// TierFor maps an order count to a tier: 10+ VIP, 5+ frequent, 2+ recurring.
func TierFor(orderCount int) LoyaltyTier {
	switch {
	case orderCount >= 10:
		return TierVIP
	case orderCount >= 5:
		return TierFrequent
	case orderCount >= 2:
		return TierRecurring
	default:
		return TierNone
	}
}
