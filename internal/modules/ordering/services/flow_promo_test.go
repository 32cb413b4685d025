package services

import (
	"context"
	"errors"
	"testing"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) sendPhoto(sender string) Reply {
	h.t.Helper()
	reply, err := h.machine.Handle(context.Background(), &whatsapp.InboundMessage{
		Sender: sender,
		Media:  &whatsapp.Media{ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}},
	})
	require.NoError(h.t, err)
	return reply
}

// requestSample runs the campaign up to the contact step
func (h *harness) requestSample(sender string) Reply {
	h.t.Helper()
	h.sendAll(sender, "Hola, SOLICITO MUESTRA", "Café Aroma", "Calle Berlín 456, frente al parque", "1")
	return h.sendPhoto(sender)
}

func TestIsPromoTrigger(t *testing.T) {
	for text, want := range map[string]bool{
		"SOLICITO MUESTRA":              true,
		"hola, solicito muestra gratis": true,
		"promocafe":                     true,
		"Quiero el PROMO1KG":            true,
		"muestra":                       false,
		"hola":                          false,
	} {
		assert.Equal(t, want, isPromoTrigger(text), text)
	}
}

func TestStateMachine_PromoRegistersSample(t *testing.T) {
	h := newHarness(t)

	reply := h.send("5551", "SOLICITO MUESTRA")
	assert.Equal(t, models.StepPromoBusinessName, reply.Step)
	assert.Contains(t, reply.Text, "PASO 1 DE 5")

	reply = h.sendAll("5551", "Café Aroma", "Calle Berlín 456, frente al parque")
	assert.Equal(t, models.StepPromoDistrict, reply.Step)
	assert.Contains(t, reply.Text, "12. Otro distrito")

	reply = h.send("5551", "1")
	assert.Equal(t, models.StepPromoPhoto, reply.Step)
	assert.Contains(t, reply.Text, "Miraflores")

	reply = h.sendPhoto("5551")
	assert.Equal(t, models.StepPromoContact, reply.Step)
	require.Len(t, h.proofs.stored, 1)

	reply = h.send("5551", "Luis Quispe")
	assert.Equal(t, models.StepCompleted, reply.Step)
	assert.Contains(t, reply.Text, "SOLICITUD REGISTRADA")

	orders, err := h.orders.ListBySender(context.Background(), customer, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Contains(t, reply.Text, o.ID)
	assert.Equal(t, models.OrderTypePromo, o.OrderType)
	assert.Equal(t, "Café Aroma", o.BusinessName)
	assert.Equal(t, "Luis Quispe", o.ContactName)
	assert.Equal(t, "Calle Berlín 456, frente al parque, Miraflores", o.Address)
	assert.InDelta(t, 1.0, o.QuantityKg, 1e-9)
	assert.Zero(t, o.Total)
	assert.Equal(t, notification.StatusPendingVerification, o.Status)
	assert.Equal(t, "https://files.test/comprobantes/proof.jpg", o.PaymentProofRef)

	require.Len(t, h.notifier.operators, 1)
	assert.Contains(t, h.notifier.operators[0], "SOLICITUD DE MUESTRA")

	c, err := h.customers.FindByPhone(context.Background(), customer)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Miraflores", c.District)
	assert.Zero(t, c.OrderCount, "a sample is not a purchase")
}

func TestStateMachine_PromoOncePerNumber(t *testing.T) {
	h := newHarness(t)
	h.requestSample("5551")
	require.Equal(t, models.StepCompleted, h.send("5551", "Luis Quispe").Step)

	reply := h.send("5551", "PROMOCAFE")
	assert.Equal(t, promoAlreadyUsedText(), reply.Text)
	assert.Equal(t, models.StepStart, reply.Step)

	// another number in the same shop is a separate request
	reply = h.send("5552", "PROMOCAFE")
	assert.Equal(t, models.StepPromoBusinessName, reply.Step)
}

func TestStateMachine_PromoOutsideDeliveryArea(t *testing.T) {
	h := newHarness(t)
	h.sendAll("5551", "PROMO1KG", "Café Aroma", "Av. Primavera 1200, Surquillo")

	reply := h.send("5551", "12")
	assert.Equal(t, models.StepCancelled, reply.Step)
	assert.Equal(t, promoOutOfAreaText(), reply.Text)

	orders, err := h.orders.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStateMachine_PromoValidation(t *testing.T) {
	h := newHarness(t)
	h.send("5551", "PROMOCAFE")

	reply := h.send("5551", "Ab")
	assert.Equal(t, models.StepPromoBusinessName, reply.Step)
	assert.Equal(t, promoNameReprompt(), reply.Text)

	h.send("5551", "Café Aroma")
	reply = h.send("5551", "Calle 1")
	assert.Equal(t, models.StepPromoAddress, reply.Step)
	assert.Equal(t, promoAddressReprompt(), reply.Text)

	h.send("5551", "Calle Berlín 456, frente al parque")
	reply = h.send("5551", "13")
	assert.Equal(t, models.StepPromoDistrict, reply.Step)
	assert.Equal(t, promoDistrictReprompt(h.machine.Settings()), reply.Text)

	reply = h.send("5551", "jesús maría")
	assert.Equal(t, models.StepPromoPhoto, reply.Step)
	assert.Equal(t, "Jesús María", h.state(customer).Draft.District)

	reply = h.send("5551", "no tengo foto")
	assert.Equal(t, models.StepPromoPhoto, reply.Step)
	assert.Equal(t, promoPhotoReprompt(), reply.Text)
}

func TestStateMachine_PromoRetryAfterAppendFailure(t *testing.T) {
	h := newHarness(t)
	h.requestSample("5551")

	h.orders.failAppend = errors.New("sheets unavailable")
	reply := h.send("5551", "Luis Quispe")
	assert.Equal(t, models.StepPromoContact, reply.Step)
	pending := h.state(customer).Draft.PendingOrderID
	require.NotEmpty(t, pending)
	assert.Contains(t, reply.Text, pending)
	assert.Empty(t, h.notifier.operators)

	h.orders.failAppend = nil
	reply = h.send("5551", "Luis Quispe")
	assert.Equal(t, models.StepCompleted, reply.Step)
	assert.Contains(t, reply.Text, pending)

	orders, err := h.orders.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestStateMachine_SampleIsNotOfferedForReorder(t *testing.T) {
	h := newHarness(t)
	h.requestSample("5551")
	h.send("5551", "Luis Quispe")

	reply := h.send("5551", "hola")
	assert.Equal(t, models.StepMainMenu, reply.Step)
	assert.NotContains(t, reply.Text, "*4*", "no reorder option without purchases")
}
