package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
)

var greetings = map[string]bool{
	"hola": true, "holaa": true, "buenas": true, "buenos dias": true, "buenos días": true,
	"buenas tardes": true, "buenas noches": true, "hi": true, "hello": true, "inicio": true, "empezar": true,
}

var orderCodePattern = regexp.MustCompile(`(?i)^(?:CAF-?)?(\d{4,})$`)

func (m *StateMachine) handleStart(t *turn) (string, error) {
	switch {
	case greetings[t.word]:
		t.state.Step = models.StepMainMenu
		return m.menu(t), nil
	case t.word == "asesor":
		return m.enterAdvisor(t), nil
	case len(t.word) == 1 && t.word >= "1" && t.word <= "4":
		// options of the main menu are accepted before it was shown
		return m.handleMainMenu(t)
	}
	return welcomeText(m.settings), nil
}

func (m *StateMachine) handleMainMenu(t *turn) (string, error) {
	switch t.word {
	case "1", "catalogo", "catálogo":
		t.state.Step = models.StepBrowsingCatalog
		return catalogText(m.deps.Catalog.List(t.ctx), m.settings, t.state.Draft), nil
	case "2":
		t.state.Step = models.StepCheckingOrder
		active, err := m.deps.Orders.ListActive(t.ctx, t.sender)
		if err != nil {
			log.Printf("⚠️ %v", &LookupFailure{Op: "active orders", Err: err})
		}
		return checkOrderText(active, m.settings, m.now()), nil
	case "3", "info":
		t.state.Step = models.StepInfo
		return infoText(m.settings), nil
	case "4":
		if text, ok := m.enterReorder(t); ok {
			return text, nil
		}
	case "asesor":
		return m.enterAdvisor(t), nil
	}
	if greetings[t.word] {
		return m.menu(t), nil
	}
	return "", &ValidationError{Prompt: menuReprompt(m.hasHistory(t))}
}

// handleInfo sends any reply back to the menu, honoring a direct option
func (m *StateMachine) handleInfo(t *turn) (string, error) {
	t.state.Step = models.StepMainMenu
	if len(t.word) == 1 && t.word >= "1" && t.word <= "4" {
		return m.handleMainMenu(t)
	}
	return m.menu(t), nil
}

func (m *StateMachine) handleCheckingOrder(t *turn) (string, error) {
	match := orderCodePattern.FindStringSubmatch(strings.ReplaceAll(t.text, " ", ""))
	if match == nil {
		return "", reprompt("❌ Código inválido.\n\nIngresa tu código de pedido\n_Ejemplo: CAF-123456_\n\nEscribe *menu* para volver")
	}
	code := "CAF-" + match[1]

	order, err := m.deps.Orders.FindByID(t.ctx, code)
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		return "", &ValidationError{Prompt: orderNotFoundText(code)}
	case err != nil:
		log.Printf("⚠️ %v", &LookupFailure{Op: "order " + code, Err: err})
		return lookupUnavailableText(), nil
	}
	// someone else's order answers exactly like an unknown code
	if m.deps.Normalizer.Normalize(order.CustomerKey()) != t.sender {
		return "", &ValidationError{Prompt: orderNotFoundText(code)}
	}
	return orderStatusText(order, m.settings, m.now()), nil
}

func (m *StateMachine) enterAdvisor(t *turn) string {
	t.state.Step = models.StepContactAdvisor
	m.deps.Notifier.NotifyOperators(context.WithoutCancel(t.ctx), operatorAdvisorRequestText(string(t.sender), t.state))
	return advisorEntryText(m.settings)
}

// handleContactAdvisor answers with the LLM advisor when one is configured,
// otherwise forwards the message to the operators.
func (m *StateMachine) handleContactAdvisor(t *turn) (string, error) {
	if t.text == "" {
		return msgAdvisorFallback, nil
	}
	if m.deps.Advisor != nil && m.deps.Advisor.Enabled() {
		answer, err := m.deps.Advisor.GenerateResponse(t.ctx, m.advisorPrompt(t.ctx), t.text)
		if err == nil && strings.TrimSpace(answer) != "" {
			return strings.TrimSpace(answer) + "\n\n_Escribe *menu* para volver_", nil
		}
		if err != nil {
			log.Printf("⚠️ Advisor failed for %s: %v", t.sender, err)
		}
	}
	m.deps.Notifier.NotifyOperators(context.WithoutCancel(t.ctx), operatorAdvisorMessageText(string(t.sender), t.text))
	return msgAdvisorFallback, nil
}

// reorderChoices lists the orders offered for repetition
func (m *StateMachine) reorderChoices(t *turn) ([]models.Order, error) {
	return m.purchases(t, m.settings.ReorderChoices)
}

func (m *StateMachine) enterReorder(t *turn) (string, bool) {
	orders, err := m.reorderChoices(t)
	if err != nil {
		log.Printf("⚠️ %v", &LookupFailure{Op: "reorder history", Err: err})
		return "", false
	}
	if len(orders) == 0 {
		return "", false
	}
	t.state.Step = models.StepSelectingReorder
	return reorderListText(orders, m.settings), true
}

func (m *StateMachine) handleSelectingReorder(t *turn) (string, error) {
	orders, err := m.reorderChoices(t)
	if err != nil {
		return "", &LookupFailure{Op: "reorder history", Err: err}
	}
	n, err := strconv.Atoi(t.word)
	if err != nil || n < 1 || n > len(orders) {
		return "", &ValidationError{Prompt: invalidReorderText()}
	}
	past := orders[n-1]

	product, ok := m.deps.Catalog.FindByName(t.ctx, past.ProductName)
	if !ok {
		product = &models.Product{
			Name:       past.ProductName,
			PricePerKg: past.ProductPrice,
			Origin:     past.Origin,
			Available:  true,
		}
	}
	quote := PriceOrder(product.PricePerKg, past.QuantityKg, m.settings)

	t.state.Draft = &models.Draft{
		Product:      product,
		QuantityKg:   past.QuantityKg,
		Subtotal:     quote.Subtotal,
		Discount:     quote.Discount,
		Total:        quote.Total,
		BusinessName: past.BusinessName,
		ContactName:  past.ContactName,
		ContactPhone: past.ContactPhone,
		Address:      past.Address,
		IsReorder:    true,
	}
	if t.state.CustomerID == "" {
		t.state.CustomerID = past.CustomerID
	}
	return m.enterOrderReview(t), nil
}
