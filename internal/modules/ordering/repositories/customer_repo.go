package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/tabular"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
)

type CustomerRepo interface {
	// FindByPhone returns nil, nil when no row matches
	FindByPhone(ctx context.Context, canonical phone.Canonical) (*models.Customer, error)
	// Upsert adds c's aggregates to an existing row, or creates one
	Upsert(ctx context.Context, c models.Customer) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
}

type customerRepo struct {
	store      tabular.Store
	schema     *tabular.Schema
	normalizer *phone.Normalizer
	ids        *IDGenerator
	opts       StoreOptions
	now        func() time.Time

	// serializes read-modify-write on the sheet
	mu sync.Mutex
}

func NewCustomerRepo(store tabular.Store, schema *tabular.Schema, normalizer *phone.Normalizer, opts StoreOptions) CustomerRepo {
	return &customerRepo{
		store:      store,
		schema:     schema,
		normalizer: normalizer,
		ids:        NewIDGenerator(),
		opts:       opts.withDefaults(),
		now:        time.Now,
	}
}

func (r *customerRepo) FindByPhone(ctx context.Context, canonical phone.Canonical) (*models.Customer, error) {
	if !canonical.Valid() {
		return nil, nil
	}
	rows, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	c, _ := r.find(rows, canonical)
	return c, nil
}

func (r *customerRepo) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, *r.decode(row))
	}
	return out, nil
}

func (r *customerRepo) Upsert(ctx context.Context, c models.Customer) (*models.Customer, error) {
	canonical := r.normalizer.Normalize(c.NormalizedPhone)
	if !canonical.Valid() {
		return nil, fmt.Errorf("customer phone %q is not a valid phone", c.NormalizedPhone)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.read(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	if c.LastOrderAt.IsZero() {
		c.LastOrderAt = now
	}

	existing, rowRef := r.find(rows, canonical)
	if existing == nil {
		created := c
		created.NormalizedPhone = string(canonical)
		created.ID = r.ids.Next("CLI-", 8, func(id string) bool { return r.idTaken(rows, id) })
		created.RegisteredAt = now
		if err := r.append(ctx, &created); err != nil {
			return nil, err
		}
		return &created, nil
	}

	merged := *existing
	merged.OrderCount += c.OrderCount
	merged.TotalSpent += c.TotalSpent
	merged.TotalKg += c.TotalKg
	merged.LastOrderAt = c.LastOrderAt
	overwrite(&merged.BusinessName, c.BusinessName)
	overwrite(&merged.ContactName, c.ContactName)
	overwrite(&merged.ContactPhone, c.ContactPhone)
	overwrite(&merged.Email, c.Email)
	overwrite(&merged.Address, c.Address)
	overwrite(&merged.District, c.District)
	overwrite(&merged.City, c.City)
	overwrite(&merged.Notes, c.Notes)

	if err := r.update(ctx, rowRef, existing, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// read returns the data rows, header excluded
func (r *customerRepo) read(ctx context.Context) ([][]string, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	rows, err := r.store.ReadRows(ctx, r.schema.RangeID)
	if err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func (r *customerRepo) find(rows [][]string, canonical phone.Canonical) (*models.Customer, int) {
	for i, row := range rows {
		if r.normalizer.Normalize(r.schema.Get(row, colCustWhatsApp)) == canonical {
			return r.decode(row), i
		}
	}
	return nil, -1
}

func (r *customerRepo) idTaken(rows [][]string, id string) bool {
	for _, row := range rows {
		if strings.EqualFold(r.schema.Get(row, colCustID), id) {
			return true
		}
	}
	return false
}

func (r *customerRepo) decode(row []string) *models.Customer {
	get := func(col string) string { return r.schema.Get(row, col) }

	c := &models.Customer{
		ID:              get(colCustID),
		NormalizedPhone: string(r.normalizer.Normalize(get(colCustWhatsApp))),
		BusinessName:    get(colCustBusiness),
		ContactName:     get(colCustContact),
		ContactPhone:    strings.TrimLeft(get(colCustPhone), "'"),
		Email:           get(colCustEmail),
		Address:         get(colCustAddress),
		District:        get(colCustDistrict),
		City:            get(colCustCity),
		Notes:           get(colCustNotes),
		TotalSpent:      parseAmount(get(colCustSpent)),
		TotalKg:         parseAmount(get(colCustKg)),
	}
	c.OrderCount, _ = strconv.Atoi(get(colCustOrders))
	c.RegisteredAt, _ = parseTime(get(colCustRegistered), r.opts.Location)
	c.LastOrderAt, _ = parseTime(get(colCustLastOrder), r.opts.Location)
	return c
}

func (r *customerRepo) fields(c *models.Customer) map[string]string {
	return map[string]string{
		colCustID:         c.ID,
		colCustWhatsApp:   c.NormalizedPhone,
		colCustBusiness:   c.BusinessName,
		colCustContact:    c.ContactName,
		colCustPhone:      c.ContactPhone,
		colCustEmail:      c.Email,
		colCustAddress:    c.Address,
		colCustDistrict:   c.District,
		colCustCity:       c.City,
		colCustRegistered: formatTime(c.RegisteredAt, r.opts.Location),
		colCustLastOrder:  formatTime(c.LastOrderAt, r.opts.Location),
		colCustOrders:     strconv.Itoa(c.OrderCount),
		colCustSpent:      formatAmount(c.TotalSpent),
		colCustKg:         formatQuantity(c.TotalKg),
		colCustNotes:      c.Notes,
	}
}

func (r *customerRepo) append(ctx context.Context, c *models.Customer) error {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	if err := r.store.AppendRow(ctx, r.schema.RangeID, r.schema.Row(r.fields(c))); err != nil {
		return fmt.Errorf("failed to append customer: %w", err)
	}
	return nil
}

// update writes only the cells that changed. The stored phone and
// registration date are left as they are.
func (r *customerRepo) update(ctx context.Context, rowRef int, before, after *models.Customer) error {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	old := r.fields(before)
	for col, value := range r.fields(after) {
		if col == colCustWhatsApp || col == colCustRegistered || col == colCustID {
			continue
		}
		if old[col] == value {
			continue
		}
		idx, ok := r.schema.Index(col)
		if !ok {
			continue
		}
		if err := r.store.UpdateCell(ctx, r.schema.RangeID, rowRef, idx, value); err != nil {
			return fmt.Errorf("failed to update customer %s: %w", col, err)
		}
	}
	return nil
}

// overwrite applies last-write-wins for non-empty values
func overwrite(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
