package services

import (
	"log"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
)

func (m *StateMachine) handleBrowsingCatalog(t *turn) (string, error) {
	product, ok := m.deps.Catalog.Find(t.ctx, t.word)
	if !ok {
		return "", &ValidationError{Prompt: invalidProductText(m.deps.Catalog.List(t.ctx))}
	}

	draft := t.state.EnsureDraft()
	previous := draft.Product
	if previous == nil || previous.Code != product.Code {
		draft.ClearPricing()
		draft.PendingOrderID = ""
		draft.IsReorder = false
	}
	draft.Product = product
	t.state.Step = models.StepProductSelected
	return productSelectedText(product, previous, m.settings), nil
}

func (m *StateMachine) handleProductSelected(t *turn) (string, error) {
	qty, ok := parseQuantity(t.text)
	if !ok {
		return "", &ValidationError{Prompt: invalidQuantityText(m.settings)}
	}
	if qty < m.settings.MinOrderKg {
		return "", &ValidationError{Prompt: belowMinimumText(qty, m.settings)}
	}

	draft := t.state.EnsureDraft()
	if draft.Product == nil {
		t.state.Step = models.StepBrowsingCatalog
		return catalogText(m.deps.Catalog.List(t.ctx), m.settings, nil), nil
	}
	current, ok := m.deps.Catalog.Find(t.ctx, draft.Product.Code)
	if !ok {
		// sold out since it was selected
		draft.Product = nil
		t.state.Step = models.StepBrowsingCatalog
		return catalogText(m.deps.Catalog.List(t.ctx), m.settings, nil), nil
	}
	if current.StockTracked && qty > current.StockKg {
		return "", &ValidationError{Prompt: insufficientStockText(current)}
	}
	m.applyQuantity(draft, qty)
	t.state.Step = models.StepQuantityEntered
	return orderSummaryText(draft, m.settings), nil
}

func (m *StateMachine) applyQuantity(d *models.Draft, qty float64) {
	quote := PriceOrder(d.Product.PricePerKg, qty, m.settings)
	d.QuantityKg = qty
	d.Subtotal = quote.Subtotal
	d.Discount = quote.Discount
	d.Total = quote.Total
}

func (m *StateMachine) handleQuantityEntered(t *turn) (string, error) {
	switch {
	case isYes(t.word) || t.word == "1":
		return m.enterOrderReview(t), nil
	case isNo(t.word) || t.word == "2":
		draft := t.state.Draft
		t.state.Reset(models.StepCancelled)
		return cancelledText(draft), nil
	}
	return "", &ValidationError{Prompt: quantityConfirmReprompt()}
}

// enterOrderReview looks the sender up and routes the confirmed draft:
// complete stored data goes to confirmation, anything else to collection.
// A failed lookup is treated as an unknown customer.
func (m *StateMachine) enterOrderReview(t *turn) string {
	t.state.Step = models.StepOrderReview
	draft := t.state.EnsureDraft()

	customer, err := m.deps.Customers.FindByPhone(t.ctx, t.sender)
	if err != nil {
		log.Printf("⚠️ %v", &LookupFailure{Op: "customer " + string(t.sender), Err: err})
		customer = nil
	}

	header := ""
	if customer != nil {
		t.state.CustomerKnown = true
		t.state.CustomerID = customer.ID
		t.state.OrderCount = customer.OrderCount
		fillMissing(&draft.BusinessName, customer.BusinessName)
		fillMissing(&draft.ContactName, customer.ContactName)
		fillMissing(&draft.ContactPhone, customer.ContactPhone)
		fillMissing(&draft.Address, customer.Address)
		header = loyaltyHeader(models.TierFor(customer.OrderCount), customer.ContactName)
	}

	if draft.HasCustomerData() {
		t.state.Step = models.StepConfirmKnownData
		return knownDataText(header, draft, m.settings)
	}

	step, prompt := nextMissing(draft)
	t.state.Step = step
	if step == models.StepCollectingBusinessName {
		return header + prompt
	}
	return header + "Para completar tu pedido necesitamos algunos datos.\n\n" + prompt
}

// handleOrderReview is where a draft rests after its order could not be
// written. "si" retries.
func (m *StateMachine) handleOrderReview(t *turn) (string, error) {
	draft := t.state.Draft
	if draft == nil || draft.Product == nil {
		t.state.Step = models.StepMainMenu
		return m.menu(t), nil
	}
	if isYes(t.word) {
		if !draft.HasCustomerData() {
			return m.enterOrderReview(t), nil
		}
		return m.finalize(t), nil
	}
	return "", &ValidationError{Prompt: orderReviewReprompt(draft)}
}

func fillMissing(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// nextMissing returns the collecting step of the first empty delivery field
func nextMissing(d *models.Draft) (models.Step, string) {
	switch {
	case d.BusinessName == "":
		return models.StepCollectingBusinessName, promptBusinessName()
	case d.ContactName == "":
		return models.StepCollectingContactName, promptContactName()
	case d.ContactPhone == "":
		return models.StepCollectingContactPhone, promptContactPhone()
	case d.Address == "":
		return models.StepCollectingAddress, promptAddress()
	}
	return "", ""
}
