package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/export"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
)

// OrderFilter narrows order listings. Empty fields match everything.
type OrderFilter struct {
	Phone      string
	Status     string
	ActiveOnly bool
}

// OrderService is the read side of the ledger used by the admin API
type OrderService struct {
	orders     repositories.OrderRepo
	normalizer *phone.Normalizer
	exporter   *export.Service
	settings   Settings
	now        func() time.Time
}

func NewOrderService(orders repositories.OrderRepo, normalizer *phone.Normalizer, exporter *export.Service, settings Settings) *OrderService {
	return &OrderService{
		orders:     orders,
		normalizer: normalizer,
		exporter:   exporter,
		settings:   settings.withDefaults(),
		now:        time.Now,
	}
}

// List returns the matching orders, newest first
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	var status notification.OrderStatus
	if f.Status != "" {
		st, err := notification.ParseOrderStatus(f.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	var (
		orders []models.Order
		err    error
	)
	if f.Phone != "" {
		c := s.normalizer.Normalize(f.Phone)
		if !c.Valid() {
			return nil, fmt.Errorf("%w: phone %q", ErrInvalidPayload, f.Phone)
		}
		if f.ActiveOnly {
			orders, err = s.orders.ListActive(ctx, c)
		} else {
			orders, err = s.orders.ListBySender(ctx, c, 0)
		}
	} else {
		orders, err = s.orders.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := orders[:0]
	for _, o := range orders {
		if status != "" && o.Status != status {
			continue
		}
		if f.ActiveOnly && s.orders.IsClosed(o.Status) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.FindByID(ctx, strings.TrimSpace(id))
}

// Export renders the filtered orders as an Excel or PDF report
func (s *OrderService) Export(ctx context.Context, f OrderFilter, format export.ExportFormat) (*export.File, error) {
	orders, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(s.report(orders), format)
}

func (s *OrderService) report(orders []models.Order) *export.ExportData {
	data := &export.ExportData{
		Title:       "Pedidos " + s.settings.BusinessName,
		Description: fmt.Sprintf("Generado el %s", s.now().In(s.settings.Location).Format("02/01/2006 15:04")),
		CreatedAt:   s.now(),
		FileName:    "pedidos",
		Headers:     []string{"ID", "Fecha", "Empresa", "Contacto", "WhatsApp", "Producto", "Kg", "Total", "Estado", "Tipo"},
		Style:       export.DefaultStyle(),
	}

	var totalKg, totalAmount float64
	for _, o := range orders {
		date := "-"
		if !o.AgeUnknown {
			date = o.CreatedAt.In(s.settings.Location).Format("02/01/2006")
		}
		data.Rows = append(data.Rows, []interface{}{
			o.ID, date, o.BusinessName, o.ContactName, o.SessionPhone, o.ProductName,
			formatKg(o.QuantityKg), formatPrice(s.settings.Currency, o.Total), o.Status.Label(), o.OrderType,
		})
		totalKg += o.QuantityKg
		totalAmount += o.Total
	}

	data.Summary = []export.SummaryLine{
		{Label: "Pedidos", Value: fmt.Sprintf("%d", len(orders))},
		{Label: "Total kg", Value: formatKg(totalKg)},
		{Label: "Monto total", Value: formatPrice(s.settings.Currency, totalAmount)},
	}
	return data
}

// AttachProof records a payment proof an operator received outside the chat
func (s *OrderService) AttachProof(ctx context.Context, id, proofURL string) error {
	proofURL = strings.TrimSpace(proofURL)
	if proofURL == "" {
		return fmt.Errorf("%w: proof url is empty", ErrInvalidPayload)
	}
	return s.orders.SetProof(ctx, strings.TrimSpace(id), proofURL)
}
