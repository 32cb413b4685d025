package services

import (
	"context"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
)

// promoTriggers start the free-sample campaign from any step
var promoTriggers = []string{"SOLICITO MUESTRA", "SOLICITAR MUESTRA", "MUESTRA GRATIS", "PROMOCAFE", "PROMO1KG"}

const promoSampleKg = 1

func isPromoTrigger(text string) bool {
	upper := strings.ToUpper(text)
	for _, trigger := range promoTriggers {
		if strings.Contains(upper, trigger) {
			return true
		}
	}
	return false
}

// enterPromo starts the campaign unless the sender already got a sample.
// A failed history lookup lets the request through; operators validate every
// sample before delivery.
func (m *StateMachine) enterPromo(t *turn) string {
	if m.hadPromo(t) {
		return promoAlreadyUsedText()
	}
	t.state.Reset(models.StepPromoBusinessName)
	t.state.EnsureDraft()
	return promoWelcomeText(m.settings)
}

func (m *StateMachine) hadPromo(t *turn) bool {
	orders, err := m.deps.Orders.ListBySender(t.ctx, t.sender, 0)
	if err != nil {
		log.Printf("⚠️ %v", &LookupFailure{Op: "promo history", Err: err})
		return false
	}
	for i := range orders {
		if orders[i].IsPromo() {
			return true
		}
	}
	return false
}

func (m *StateMachine) handlePromoBusinessName(t *turn) (string, error) {
	if utf8.RuneCountInString(t.text) < 3 {
		return "", &ValidationError{Prompt: promoNameReprompt()}
	}
	t.state.EnsureDraft().BusinessName = t.text
	t.state.Step = models.StepPromoAddress
	return promoAddressText(t.text), nil
}

func (m *StateMachine) handlePromoAddress(t *turn) (string, error) {
	if utf8.RuneCountInString(t.text) < 10 {
		return "", &ValidationError{Prompt: promoAddressReprompt()}
	}
	t.state.EnsureDraft().Address = t.text
	t.state.Step = models.StepPromoDistrict
	return promoDistrictText(m.settings), nil
}

// handlePromoDistrict takes a list number or a district name. The last
// option stands for every district outside the delivery area.
func (m *StateMachine) handlePromoDistrict(t *turn) (string, error) {
	districts := m.settings.PromoDistricts
	choice := -1
	if n, err := strconv.Atoi(t.word); err == nil {
		if n < 1 || n > len(districts)+1 {
			return "", &ValidationError{Prompt: promoDistrictReprompt(m.settings)}
		}
		choice = n - 1
	} else {
		for i, d := range districts {
			if strings.EqualFold(d, t.text) {
				choice = i
				break
			}
		}
		if choice < 0 {
			return "", &ValidationError{Prompt: promoDistrictReprompt(m.settings)}
		}
	}

	if choice == len(districts) {
		t.state.Reset(models.StepCancelled)
		return promoOutOfAreaText(), nil
	}
	district := districts[choice]
	t.state.EnsureDraft().District = district
	t.state.Step = models.StepPromoPhoto
	return promoPhotoText(district), nil
}

// handlePromoPhoto needs an image of the shop front. A photo that cannot be
// stored does not block the request.
func (m *StateMachine) handlePromoPhoto(t *turn) (string, error) {
	if t.msg.Media == nil || !t.msg.Media.IsImage() {
		return "", &ValidationError{Prompt: promoPhotoReprompt()}
	}
	if url, err := m.storeProof(t); err != nil {
		log.Printf("⚠️ Failed to store shop photo for %s: %v", t.sender, err)
	} else {
		t.state.EnsureDraft().ProofURL = url
	}
	t.state.Step = models.StepPromoContact
	return promoContactText(), nil
}

func (m *StateMachine) handlePromoContact(t *turn) (string, error) {
	if utf8.RuneCountInString(t.text) < 3 {
		return "", &ValidationError{Prompt: promoContactReprompt()}
	}
	t.state.EnsureDraft().ContactName = t.text
	return m.finalizePromo(t), nil
}

// finalizePromo files the sample as a zero-total PROMOCION order. A failed
// append keeps the step and the reserved id, so resending the name retries
// without a duplicate row.
func (m *StateMachine) finalizePromo(t *turn) string {
	draft := t.state.EnsureDraft()
	if draft.PendingOrderID == "" {
		draft.PendingOrderID = m.ids.Next("CAF-", 6, nil)
	}
	order := models.Order{
		ID:              draft.PendingOrderID,
		SessionPhone:    string(t.sender),
		ContactPhone:    string(t.sender),
		CustomerID:      t.state.CustomerID,
		BusinessName:    draft.BusinessName,
		ContactName:     draft.ContactName,
		Address:         draft.Address + ", " + draft.District,
		ProductName:     m.settings.PromoProduct,
		QuantityKg:      promoSampleKg,
		PaymentMethod:   "Sin costo",
		Status:          notification.StatusPendingVerification,
		PaymentProofRef: draft.ProofURL,
		OrderType:       models.OrderTypePromo,
		Notes:           "Muestra gratuita, validar cafetería",
		CreatedAt:       m.now(),
	}

	id, err := m.deps.Orders.Append(t.ctx, order)
	if err != nil {
		log.Printf("❌ %v", &PersistenceFailure{Op: "promo " + order.ID, Err: err})
		t.state.Step = models.StepPromoContact
		return promoRetryText(draft)
	}
	order.ID = id
	log.Printf("🎁 Sample request %s registered for %s (%s)", order.ID, t.sender, draft.District)

	// contact data only: a sample is not a purchase
	if _, err := m.deps.Customers.Upsert(t.ctx, models.Customer{
		ID:              t.state.CustomerID,
		NormalizedPhone: string(t.sender),
		BusinessName:    order.BusinessName,
		ContactName:     order.ContactName,
		ContactPhone:    order.ContactPhone,
		Address:         draft.Address,
		District:        draft.District,
		City:            "Lima",
		Notes:           "Muestra solicitada " + order.ID,
		LastOrderAt:     order.CreatedAt,
	}); err != nil {
		log.Printf("⚠️ %v", &PersistenceFailure{Op: "customer " + string(t.sender), Err: err})
	}

	m.deps.Notifier.NotifyOperators(context.WithoutCancel(t.ctx), operatorPromoText(&order))

	text := promoRegisteredText(&order, draft.District)
	t.state.Reset(models.StepCompleted)
	return text
}
