package services

import (
	"context"
	"log"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
)

// finalize writes the order, updates the customer and stock, and notifies
// operators. Only the order append is required: when it fails the draft stays
// in order_review for a retry. Later failures are logged.
func (m *StateMachine) finalize(t *turn) string {
	draft := t.state.EnsureDraft()
	order := m.orderFromDraft(t)

	id, err := m.deps.Orders.Append(t.ctx, order)
	if err != nil {
		log.Printf("❌ %v", &PersistenceFailure{Op: "order " + order.ID, Err: err})
		t.state.Step = models.StepOrderReview
		return persistenceRetryText(draft)
	}
	order.ID = id
	log.Printf("✅ Order %s registered for %s (%skg, %s)", order.ID, t.sender, formatKg(order.QuantityKg), formatPrice(m.settings.Currency, order.Total))

	customer, err := m.deps.Customers.Upsert(t.ctx, models.Customer{
		ID:              t.state.CustomerID,
		NormalizedPhone: string(t.sender),
		BusinessName:    order.BusinessName,
		ContactName:     order.ContactName,
		ContactPhone:    order.ContactPhone,
		Address:         order.Address,
		LastOrderAt:     order.CreatedAt,
		OrderCount:      1,
		TotalSpent:      order.Total,
		TotalKg:         order.QuantityKg,
	})
	if err != nil {
		log.Printf("⚠️ %v", &PersistenceFailure{Op: "customer " + string(t.sender), Err: err})
	} else if order.CustomerID == "" {
		order.CustomerID = customer.ID
	}

	if draft.Product != nil && draft.Product.Code != "" {
		if err := m.deps.Catalog.ReduceStock(t.ctx, draft.Product.Code, order.QuantityKg); err != nil {
			log.Printf("⚠️ %v", &PersistenceFailure{Op: "stock " + draft.Product.Code, Err: err})
		}
	}

	notifyCtx := context.WithoutCancel(t.ctx)
	m.deps.Notifier.NotifyOperators(notifyCtx, operatorOrderText(&order, m.settings))
	if order.QuantityKg >= m.settings.BulkThresholdKg {
		m.deps.Notifier.NotifyProduction(notifyCtx, productionText(&order))
	}

	text := receiptText(&order, m.settings)
	t.state.Reset(models.StepCompleted)
	return text
}

func (m *StateMachine) orderFromDraft(t *turn) models.Order {
	d := t.state.EnsureDraft()
	orderType := models.OrderTypeNew
	if d.IsReorder {
		orderType = models.OrderTypeReorder
	}
	o := models.Order{
		ID:              d.PendingOrderID,
		SessionPhone:    string(t.sender),
		ContactPhone:    d.ContactPhone,
		CustomerID:      t.state.CustomerID,
		BusinessName:    d.BusinessName,
		ContactName:     d.ContactName,
		Address:         d.Address,
		QuantityKg:      d.QuantityKg,
		Subtotal:        d.Subtotal,
		Discount:        d.Discount,
		Total:           d.Total,
		PaymentMethod:   models.DefaultPaymentMethod,
		Status:          notification.StatusPendingVerification,
		PaymentProofRef: d.ProofURL,
		OrderType:       orderType,
		CreatedAt:       m.now(),
	}
	if d.Product != nil {
		o.ProductName = d.Product.Name
		o.ProductPrice = d.Product.PricePerKg
		o.Origin = d.Product.Origin
	}
	if d.ProofURL == "" {
		o.Notes = "Cliente confirmó la transferencia por texto"
	}
	return o
}
