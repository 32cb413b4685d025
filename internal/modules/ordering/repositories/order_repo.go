package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/tabular"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepo interface {
	// Append writes the order and returns its id. When a row with the same id
	// and session phone exists it is returned without writing again; an id
	// used by another session, or a missing one, is replaced with a fresh one.
	Append(ctx context.Context, o models.Order) (string, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	// ListActive returns the sender's orders outside the closed set, newest first
	ListActive(ctx context.Context, canonical phone.Canonical) ([]models.Order, error)
	// ListBySender returns the sender's orders newest first. limit <= 0 means all.
	ListBySender(ctx context.Context, canonical phone.Canonical, limit int) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status notification.OrderStatus) (*models.Order, error)
	SetProof(ctx context.Context, id, proofURL string) error
	IsClosed(status notification.OrderStatus) bool
}

type orderRepo struct {
	store      tabular.Store
	schema     *tabular.Schema
	normalizer *phone.Normalizer
	ids        *IDGenerator
	opts       StoreOptions
	closed     map[notification.OrderStatus]bool
	now        func() time.Time

	mu sync.Mutex
}

// NewOrderRepo builds the ledger repository. closedStatuses accepts tokens or
// sheet labels ("completed", "Entregado").
func NewOrderRepo(store tabular.Store, schema *tabular.Schema, normalizer *phone.Normalizer, closedStatuses []string, opts StoreOptions) OrderRepo {
	closed := make(map[notification.OrderStatus]bool, len(closedStatuses))
	for _, s := range closedStatuses {
		closed[storedStatus(s)] = true
	}
	return &orderRepo{
		store:      store,
		schema:     schema,
		normalizer: normalizer,
		ids:        NewIDGenerator(),
		opts:       opts.withDefaults(),
		closed:     closed,
		now:        time.Now,
	}
}

func (r *orderRepo) Append(ctx context.Context, o models.Order) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.read(ctx)
	if err != nil {
		return "", err
	}

	// a row already filed under this id for the same session is a write
	// that went through even though the store reported an error
	if i, ok := r.findRow(rows, o.ID); ok {
		existing := r.normalizer.Normalize(r.schema.Get(rows[i], colSessionPhone))
		if existing.Valid() && existing == r.normalizer.Normalize(o.SessionPhone) {
			return strings.TrimSpace(r.schema.Get(rows[i], colOrderID)), nil
		}
	}

	taken := func(id string) bool {
		_, ok := r.findRow(rows, id)
		return ok
	}
	if o.ID == "" || taken(o.ID) {
		o.ID = r.ids.Next("CAF-", 6, taken)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.now()
	}

	wctx, cancel := r.opts.bound(ctx)
	defer cancel()
	if err := r.store.AppendRow(wctx, r.schema.RangeID, r.schema.Row(r.fields(&o))); err != nil {
		return "", fmt.Errorf("failed to append order %s: %w", o.ID, err)
	}
	return o.ID, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	rows, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	i, ok := r.findRow(rows, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return r.decode(rows[i], i), nil
}

func (r *orderRepo) ListActive(ctx context.Context, canonical phone.Canonical) ([]models.Order, error) {
	orders, err := r.ListBySender(ctx, canonical, 0)
	if err != nil {
		return nil, err
	}
	active := orders[:0]
	for _, o := range orders {
		if !r.IsClosed(o.Status) {
			active = append(active, o)
		}
	}
	return active, nil
}

func (r *orderRepo) ListBySender(ctx context.Context, canonical phone.Canonical, limit int) ([]models.Order, error) {
	if !canonical.Valid() {
		return nil, nil
	}
	rows, err := r.read(ctx)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	for i, row := range rows {
		if r.normalizer.Normalize(r.schema.Get(row, colSessionPhone)) != canonical {
			continue
		}
		orders = append(orders, *r.decode(row, i))
	}
	sortNewestFirst(orders)
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (r *orderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	rows, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(rows))
	for i, row := range rows {
		if r.schema.Get(row, colOrderID) == "" {
			continue
		}
		orders = append(orders, *r.decode(row, i))
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status notification.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.setCell(ctx, order.RowRef, colStatus, status.Label()); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

func (r *orderRepo) SetProof(ctx context.Context, id, proofURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return r.setCell(ctx, order.RowRef, colProofURL, proofURL)
}

// IsClosed reports whether status is in the closed set. An empty status is
// unknown, and unknown counts as active.
func (r *orderRepo) IsClosed(status notification.OrderStatus) bool {
	return status != "" && r.closed[status]
}

func (r *orderRepo) setCell(ctx context.Context, rowRef int, col, value string) error {
	idx, ok := r.schema.Index(col)
	if !ok {
		return fmt.Errorf("orders range has no %s column", col)
	}
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()
	if err := r.store.UpdateCell(ctx, r.schema.RangeID, rowRef, idx, value); err != nil {
		return fmt.Errorf("failed to update %s: %w", col, err)
	}
	return nil
}

func (r *orderRepo) read(ctx context.Context) ([][]string, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	rows, err := r.store.ReadRows(ctx, r.schema.RangeID)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func (r *orderRepo) findRow(rows [][]string, id string) (int, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1, false
	}
	for i, row := range rows {
		if strings.EqualFold(r.schema.Get(row, colOrderID), id) {
			return i, true
		}
	}
	return -1, false
}

func (r *orderRepo) decode(row []string, rowRef int) *models.Order {
	get := func(col string) string { return r.schema.Get(row, col) }

	o := &models.Order{
		ID:              get(colOrderID),
		SessionPhone:    string(r.normalizer.Normalize(get(colSessionPhone))),
		ContactPhone:    strings.TrimLeft(get(colContactPhone), "'"),
		CustomerID:      get(colCustomerID),
		BusinessName:    get(colBusiness),
		ContactName:     get(colContact),
		Address:         get(colAddress),
		ProductName:     get(colProduct),
		ProductPrice:    parseAmount(get(colUnitPrice)),
		QuantityKg:      parseAmount(get(colQuantityKg)),
		Subtotal:        parseAmount(get(colSubtotal)),
		Discount:        parseAmount(get(colDiscount)),
		Total:           parseAmount(get(colTotal)),
		PaymentMethod:   get(colPaymentMethod),
		Status:          storedStatus(get(colStatus)),
		PaymentProofRef: get(colProofURL),
		OrderType:       get(colOrderType),
		Notes:           get(colObservations),
		RowRef:          rowRef,
	}

	created, ok := parseTime(strings.TrimSpace(get(colOrderDate)+" "+get(colOrderTime)), r.opts.Location)
	if !ok {
		created, ok = parseTime(get(colOrderDate), r.opts.Location)
	}
	if !ok {
		created = r.now()
		o.AgeUnknown = true
	}
	o.CreatedAt = created
	return o
}

func (r *orderRepo) fields(o *models.Order) map[string]string {
	at := o.CreatedAt.In(r.opts.Location)
	return map[string]string{
		colOrderID:       o.ID,
		colOrderDate:     at.Format(dateLayout),
		colOrderTime:     at.Format(clockLayout),
		colBusiness:      o.BusinessName,
		colContact:       o.ContactName,
		colContactPhone:  o.ContactPhone,
		colAddress:       o.Address,
		colProduct:       o.ProductName,
		colQuantityKg:    formatQuantity(o.QuantityKg),
		colUnitPrice:     formatAmount(o.ProductPrice),
		colSubtotal:      formatAmount(o.Subtotal),
		colDiscount:      formatAmount(o.Discount),
		colTotal:         formatAmount(o.Total),
		colPaymentMethod: o.PaymentMethod,
		colStatus:        o.Status.Label(),
		colProofURL:      o.PaymentProofRef,
		colObservations:  o.Notes,
		colOrderType:     o.OrderType,
		colCustomerID:    o.CustomerID,
		colSessionPhone:  o.SessionPhone,
	}
}

// storedStatus maps a sheet cell to the status vocabulary. Labels nobody
// recognizes are kept verbatim so they still display.
func storedStatus(v string) notification.OrderStatus {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	st, err := notification.ParseOrderStatus(v)
	if err != nil {
		return notification.OrderStatus(v)
	}
	return st
}

func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
