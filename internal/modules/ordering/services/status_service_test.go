package services

import (
	"context"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusHarness(t *testing.T) (*StatusService, *harness) {
	h := newHarness(t)
	return NewStatusService(h.orders, h.notifier, phone.NewNormalizer("51")), h
}

func TestStatusService_StatusChangeUpdatesLedgerAndNotifies(t *testing.T) {
	svc, h := newStatusHarness(t)
	id, err := h.orders.Append(context.Background(), models.Order{
		SessionPhone: "+51999888777",
		ProductName:  "Premium",
		QuantityKg:   12,
		Total:        600,
		Status:       notification.StatusPendingVerification,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)

	ev, err := DecodeStatusEvent([]byte(`{
		"tipo": "cambio_estado",
		"pedido": {"id": "` + id + `"},
		"estado": {"nuevo": "En camino", "anterior": "Pago confirmado"},
		"cliente": {"whatsapp": "whatsapp:+51999888777"},
		"metadata": {"modificadoPor": "ops@coffee.pe"}
	}`))
	require.NoError(t, err)

	res, err := svc.Apply(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, EventStatusChange, res.Tipo)
	assert.Equal(t, id, res.PedidoID)

	require.Len(t, h.notifier.statuses, 1)
	change := h.notifier.statuses[0]
	assert.Equal(t, notification.StatusInTransit, change.Status)
	assert.Equal(t, "Premium", change.Product, "filled from the ledger")
	assert.Equal(t, 12, change.QuantityKg)
	assert.Equal(t, "ops@coffee.pe", change.ChangedBy)
	assert.Equal(t, "+51999888777", h.notifier.recipients[0])

	stored, err := h.orders.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, notification.StatusInTransit, stored.Status)
}

func TestStatusService_UnknownOrderStillNotifies(t *testing.T) {
	svc, h := newStatusHarness(t)

	res, err := svc.Apply(context.Background(), StatusEvent{
		Tipo:    EventStatusChange,
		Pedido:  StatusOrder{ID: "CAF-404404", Producto: "Orgánico", Cantidad: 25},
		Estado:  StatusTransition{Nuevo: "payment_verified"},
		Cliente: StatusCustomer{WhatsApp: "999888777"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CAF-404404", res.PedidoID)
	require.Len(t, h.notifier.statuses, 1)
	assert.Equal(t, 25, h.notifier.statuses[0].QuantityKg)
}

func TestStatusService_CustomerApproval(t *testing.T) {
	svc, h := newStatusHarness(t)

	res, err := svc.Apply(context.Background(), StatusEvent{
		Tipo:    EventCustomerApproval,
		Estado:  StatusTransition{Nuevo: "Verificado"},
		Cliente: StatusCustomer{ID: "CLI-00000042", WhatsApp: "whatsapp:+51911222333", Empresa: "Café Sur"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CLI-00000042", res.ClienteID)
	assert.Empty(t, res.PedidoID)

	require.Len(t, h.notifier.approvals, 1)
	assert.Equal(t, notification.ApprovalVerified, h.notifier.approvals[0].Status)
	assert.Equal(t, "+51911222333", h.notifier.recipients[0])
}

func TestStatusService_RejectsBadEvents(t *testing.T) {
	svc, h := newStatusHarness(t)

	tests := []struct {
		name string
		ev   StatusEvent
	}{
		{"unknown type", StatusEvent{Tipo: "otro"}},
		{"status change without order id", StatusEvent{
			Tipo: EventStatusChange, Estado: StatusTransition{Nuevo: "Entregado"}, Cliente: StatusCustomer{WhatsApp: "999888777"},
		}},
		{"status change without phone", StatusEvent{
			Tipo: EventStatusChange, Pedido: StatusOrder{ID: "CAF-1"}, Estado: StatusTransition{Nuevo: "Entregado"},
		}},
		{"approval without customer id", StatusEvent{
			Tipo: EventCustomerApproval, Estado: StatusTransition{Nuevo: "Verificado"}, Cliente: StatusCustomer{WhatsApp: "999888777"},
		}},
		{"approval status on an order", StatusEvent{
			Tipo: EventStatusChange, Pedido: StatusOrder{ID: "CAF-1"}, Estado: StatusTransition{Nuevo: "Verificado"}, Cliente: StatusCustomer{WhatsApp: "999888777"},
		}},
		{"order status on a customer", StatusEvent{
			Tipo: EventCustomerApproval, Estado: StatusTransition{Nuevo: "Entregado"}, Cliente: StatusCustomer{ID: "CLI-1", WhatsApp: "999888777"},
		}},
		{"unusable phone", StatusEvent{
			Tipo: EventStatusChange, Pedido: StatusOrder{ID: "CAF-1"}, Estado: StatusTransition{Nuevo: "Entregado"}, Cliente: StatusCustomer{WhatsApp: "whatsapp:"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Apply(context.Background(), tt.ev)
			require.Error(t, err)
			assert.True(t, IsBadRequest(err), err.Error())
		})
	}
	assert.Empty(t, h.notifier.statuses)
	assert.Empty(t, h.notifier.approvals)
}

func TestDecodeStatusEvent_QuantityAsString(t *testing.T) {
	ev, err := DecodeStatusEvent([]byte(`{"tipo":"cambio_estado","pedido":{"id":"CAF-1","cantidad":"12,5"}}`))
	require.NoError(t, err)
	assert.InDelta(t, 12.5, float64(ev.Pedido.Cantidad), 1e-9)

	_, err = DecodeStatusEvent([]byte(`{"tipo":`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
