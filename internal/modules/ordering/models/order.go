package models

import (
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
)

// Order types
const (
	OrderTypeNew     = "NUEVO"
	OrderTypeReorder = "REORDEN"
	OrderTypePromo   = "PROMOCION"

	DefaultPaymentMethod = "Transferencia bancaria"
)

// Order is a row of the order ledger
type Order struct {
	ID string `json:"id"`

	// SessionPhone is the canonical sender and the customer key. ContactPhone
	// is whatever the customer typed and is never used for lookups.
	SessionPhone string `json:"session_phone"`
	ContactPhone string `json:"contact_phone"`

	CustomerID   string `json:"customer_id,omitempty"`
	BusinessName string `json:"business_name"`
	ContactName  string `json:"contact_name"`
	Address      string `json:"address"`

	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Origin       string  `json:"origin,omitempty"`
	QuantityKg   float64 `json:"quantity_kg"`
	Subtotal     float64 `json:"subtotal"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`

	PaymentMethod   string                   `json:"payment_method"`
	Status          notification.OrderStatus `json:"status"`
	PaymentProofRef string                   `json:"payment_proof_ref,omitempty"`
	OrderType       string                   `json:"order_type"`
	Notes           string                   `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	// AgeUnknown is set when the stored timestamp could not be parsed and
	// CreatedAt was substituted with the read time.
	AgeUnknown bool `json:"age_unknown,omitempty"`

	// RowRef is the data-row position in the backing range, set on reads
	RowRef int `json:"-"`
}

// IsPromo reports whether the order is a free campaign sample
func (o *Order) IsPromo() bool {
	return o.OrderType == OrderTypePromo
}

// CustomerKey is the phone the order is filed under
func (o *Order) CustomerKey() string {
	return o.SessionPhone
}
