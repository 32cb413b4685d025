package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
)

// Event types sent by the operators' spreadsheet
const (
	EventStatusChange     = "cambio_estado"
	EventCustomerApproval = "aprobacion_cliente"
)

var ErrUnknownEventType = errors.New("unknown event type")

// StatusNotifier relays operator changes to customers.
// *notification.Relay satisfies it.
type StatusNotifier interface {
	NotifyOrderStatus(ctx context.Context, customerPhone string, change notification.OrderStatusChange)
	NotifyCustomerApproval(ctx context.Context, customerPhone string, change notification.ApprovalChange)
}

// StatusEvent is the body of the status webhook
type StatusEvent struct {
	Tipo     string           `json:"tipo"`
	Pedido   StatusOrder      `json:"pedido"`
	Estado   StatusTransition `json:"estado"`
	Cliente  StatusCustomer   `json:"cliente"`
	Metadata StatusMetadata   `json:"metadata"`
}

type StatusOrder struct {
	ID       string         `json:"id"`
	Empresa  string         `json:"empresa,omitempty"`
	Producto string         `json:"producto,omitempty"`
	Cantidad FlexibleNumber `json:"cantidad,omitempty"`
}

type StatusTransition struct {
	Nuevo    string `json:"nuevo"`
	Anterior string `json:"anterior,omitempty"`
}

type StatusCustomer struct {
	ID       string `json:"id,omitempty"`
	WhatsApp string `json:"whatsapp"`
	Empresa  string `json:"empresa,omitempty"`
	Contacto string `json:"contacto,omitempty"`
}

type StatusMetadata struct {
	ModificadoPor string `json:"modificadoPor,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// StatusResult is the webhook response body
type StatusResult struct {
	Success   bool   `json:"success"`
	Tipo      string `json:"tipo"`
	PedidoID  string `json:"pedido_id,omitempty"`
	ClienteID string `json:"cliente_id,omitempty"`
	Mensaje   string `json:"mensaje"`
}

// FlexibleNumber accepts a JSON number or a numeric string. Sheets send
// either depending on the cell format.
type FlexibleNumber float64

func (n *FlexibleNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return fmt.Errorf("cantidad: %w", err)
	}
	*n = FlexibleNumber(f)
	return nil
}

// StatusService applies operator changes and notifies the customer
type StatusService struct {
	orders     repositories.OrderRepo
	notifier   StatusNotifier
	normalizer *phone.Normalizer
	now        func() time.Time
}

func NewStatusService(orders repositories.OrderRepo, notifier StatusNotifier, normalizer *phone.Normalizer) *StatusService {
	return &StatusService{
		orders:     orders,
		notifier:   notifier,
		normalizer: normalizer,
		now:        time.Now,
	}
}

// Apply validates the event, records order status changes in the ledger and
// sends the customer notification. A ledger failure does not stop the
// notification.
func (s *StatusService) Apply(ctx context.Context, ev StatusEvent) (*StatusResult, error) {
	switch ev.Tipo {
	case EventStatusChange:
		return s.applyStatusChange(ctx, ev)
	case EventCustomerApproval:
		return s.applyApproval(ctx, ev)
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s, %s)", ErrUnknownEventType, ev.Tipo, EventStatusChange, EventCustomerApproval)
	}
}

func (s *StatusService) applyStatusChange(ctx context.Context, ev StatusEvent) (*StatusResult, error) {
	orderID := strings.TrimSpace(ev.Pedido.ID)
	if orderID == "" || strings.TrimSpace(ev.Estado.Nuevo) == "" || strings.TrimSpace(ev.Cliente.WhatsApp) == "" {
		return nil, fmt.Errorf("%w: required pedido.id, estado.nuevo, cliente.whatsapp", ErrInvalidPayload)
	}
	to, err := s.customerPhone(ev.Cliente.WhatsApp)
	if err != nil {
		return nil, err
	}
	status, err := notification.ParseOrderStatus(ev.Estado.Nuevo)
	if err != nil {
		return nil, err
	}

	change := notification.OrderStatusChange{
		OrderID:    orderID,
		Product:    ev.Pedido.Producto,
		QuantityKg: int(math.Round(float64(ev.Pedido.Cantidad))),
		Status:     status,
		ChangedBy:  ev.Metadata.ModificadoPor,
		At:         s.now(),
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		log.Printf("⚠️ Status change for unknown order %s, notifying anyway", orderID)
	case err != nil:
		log.Printf("⚠️ Failed to record status %s for order %s: %v", status, orderID, err)
	default:
		if change.Product == "" {
			change.Product = order.ProductName
		}
		if change.QuantityKg == 0 {
			change.QuantityKg = int(math.Round(order.QuantityKg))
		}
	}

	s.notifier.NotifyOrderStatus(context.WithoutCancel(ctx), string(to), change)
	log.Printf("📨 Order %s is now %s, notifying %s", orderID, status.Label(), to)

	return &StatusResult{
		Success:  true,
		Tipo:     EventStatusChange,
		PedidoID: orderID,
		Mensaje:  "Notificación de pedido enviada",
	}, nil
}

func (s *StatusService) applyApproval(ctx context.Context, ev StatusEvent) (*StatusResult, error) {
	customerID := strings.TrimSpace(ev.Cliente.ID)
	if customerID == "" || strings.TrimSpace(ev.Cliente.WhatsApp) == "" || strings.TrimSpace(ev.Estado.Nuevo) == "" {
		return nil, fmt.Errorf("%w: required cliente.id, cliente.whatsapp, estado.nuevo", ErrInvalidPayload)
	}
	to, err := s.customerPhone(ev.Cliente.WhatsApp)
	if err != nil {
		return nil, err
	}
	status, err := notification.ParseApprovalStatus(ev.Estado.Nuevo)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyCustomerApproval(context.WithoutCancel(ctx), string(to), notification.ApprovalChange{
		CustomerID:   customerID,
		BusinessName: ev.Cliente.Empresa,
		ContactName:  ev.Cliente.Contacto,
		Status:       status,
		At:           s.now(),
	})
	log.Printf("📨 Customer %s is now %s, notifying %s", customerID, status.Label(), to)

	return &StatusResult{
		Success:   true,
		Tipo:      EventCustomerApproval,
		ClienteID: customerID,
		Mensaje:   "Notificación de cliente enviada",
	}, nil
}

// customerPhone strips the Twilio "whatsapp:" prefix and normalizes
func (s *StatusService) customerPhone(raw string) (phone.Canonical, error) {
	c := s.normalizer.Normalize(raw)
	if !c.Valid() {
		return "", fmt.Errorf("%w: cliente.whatsapp %q is not a phone", ErrInvalidPayload, raw)
	}
	return c, nil
}

// IsBadRequest reports whether err comes from the caller's input (a status
// event or an order filter) rather than from the server
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrUnknownEventType) ||
		errors.Is(err, notification.ErrUnknownStatus) ||
		errors.Is(err, notification.ErrWrongVocabulary)
}

// DecodeStatusEvent parses a webhook body. Malformed JSON is an invalid payload.
func DecodeStatusEvent(body []byte) (StatusEvent, error) {
	var ev StatusEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return ev, nil
}
