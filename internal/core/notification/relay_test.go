package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	failures int
	attempts int
	sent     map[string][]string
}

func (s *recordingSender) SendMessage(to, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.failures > 0 {
		s.failures--
		return errors.New("transport down")
	}
	if s.sent == nil {
		s.sent = map[string][]string{}
	}
	s.sent[to] = append(s.sent[to], message)
	return nil
}

func newTestRelay(sender Sender) *Relay {
	return NewRelay(sender, RelayConfig{
		AdminPhone:      "+51900000001",
		AdminGroup:      "120363000000@g.us",
		ProductionGroup: "120363999999@g.us",
		RetryDelay:      time.Millisecond,
		FollowUpDelay:   time.Millisecond,
		CatalogMessage:  func() string { return "☕ CATÁLOGO" },
		Location:        time.UTC,
	})
}

func TestParseOrderStatus(t *testing.T) {
	cases := map[string]OrderStatus{
		"payment_verified":       StatusPaymentVerified,
		"Pago confirmado":        StatusPaymentVerified,
		"EN PREPARACIÓN":         StatusInPreparation,
		"en preparacion":         StatusInPreparation,
		"Listo para recoger":     StatusReadyForPickup,
		"Pendiente verificación": StatusPendingVerification,
		"  cancelled ":           StatusCancelled,
	}
	for in, want := range cases {
		got, err := ParseOrderStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOrderStatus("Verificado")
	assert.ErrorIs(t, err, ErrWrongVocabulary)
	_, err = ParseOrderStatus("shipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestParseApprovalStatus(t *testing.T) {
	got, err := ParseApprovalStatus("Verificado")
	require.NoError(t, err)
	assert.Equal(t, ApprovalVerified, got)

	got, err = ParseApprovalStatus("prospect")
	require.NoError(t, err)
	assert.Equal(t, ApprovalProspect, got)

	_, err = ParseApprovalStatus("Entregado")
	assert.ErrorIs(t, err, ErrWrongVocabulary)
	_, err = ParseApprovalStatus("completed")
	assert.ErrorIs(t, err, ErrWrongVocabulary)
}

func TestFormatOrderStatus(t *testing.T) {
	at := time.Date(2024, 5, 2, 14, 5, 0, 0, time.UTC)
	msg := FormatOrderStatus(OrderStatusChange{
		OrderID:    "CAF-123456",
		Product:    "Café Premium",
		QuantityKg: 60,
		Status:     StatusPaymentVerified,
		ChangedBy:  "Ana",
		At:         at,
	}, time.UTC)

	assert.Contains(t, msg, "Pedido: *#CAF-123456*")
	assert.Contains(t, msg, "Cantidad: 60 kg")
	assert.Contains(t, msg, "*Nuevo estado:* Pago confirmado")
	assert.Contains(t, msg, "✅ Tu pago ha sido confirmado. Pronto comenzaremos a preparar tu pedido.")
	assert.Contains(t, msg, "_Actualizado por: Ana_")
	assert.True(t, strings.HasSuffix(msg, "_02/05/2024 14:05:00_"))
}

func TestRelay_RetriesOnce(t *testing.T) {
	sender := &recordingSender{failures: 1}
	relay := newTestRelay(sender)

	relay.NotifyOrderStatus(context.Background(), "+51999888777", OrderStatusChange{OrderID: "CAF-1", Status: StatusDelivered})
	relay.Wait()

	assert.Equal(t, 2, sender.attempts)
	assert.Len(t, sender.sent["+51999888777"], 1)
}

func TestRelay_DropsAfterSecondFailure(t *testing.T) {
	sender := &recordingSender{failures: 2}
	relay := newTestRelay(sender)

	err := relay.deliver(context.Background(), "order_status", "+51999888777", "hola")

	var failure *TransportFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "+51999888777", failure.To)
	assert.Equal(t, 2, sender.attempts)
	assert.Empty(t, sender.sent)
}

func TestRelay_VerifiedCustomerGetsCatalog(t *testing.T) {
	sender := &recordingSender{}
	relay := newTestRelay(sender)

	relay.NotifyCustomerApproval(context.Background(), "+51999888777", ApprovalChange{
		CustomerID:   "CLI-00000001",
		BusinessName: "Café Central",
		Status:       ApprovalVerified,
	})
	relay.Wait()

	msgs := sender.sent["+51999888777"]
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "*APROBADO*")
	assert.Contains(t, msgs[0], "*Empresa:* Café Central")
	assert.Equal(t, "☕ CATÁLOGO", msgs[1])
}

func TestRelay_OperatorsAndProduction(t *testing.T) {
	sender := &recordingSender{}
	relay := newTestRelay(sender)

	relay.NotifyOperators(context.Background(), "nuevo pedido")
	relay.NotifyProduction(context.Background(), "pedido grande")
	relay.Wait()

	assert.Equal(t, []string{"nuevo pedido"}, sender.sent["+51900000001"])
	assert.Equal(t, []string{"nuevo pedido"}, sender.sent["120363000000@g.us"])
	assert.Equal(t, []string{"pedido grande"}, sender.sent["120363999999@g.us"])
}
