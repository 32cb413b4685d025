package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/tabular"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/rs/zerolog/log"
)

type CatalogRepo interface {
	// List returns the available products in menu order
	List(ctx context.Context) []models.Product
	Find(ctx context.Context, code string) (*models.Product, bool)
	// FindByName matches a product name, ignoring case
	FindByName(ctx context.Context, name string) (*models.Product, bool)
	// Refresh reloads the catalog range, keeping the previous catalog on error
	Refresh(ctx context.Context) error
	// ReduceStock takes kg off a tracked product's stock, never below zero.
	// A product that reaches zero leaves the menu. Untracked products are a
	// no-op.
	ReduceStock(ctx context.Context, code string, kg float64) error
}

type catalogRepo struct {
	store   tabular.Store
	rangeID string
	opts    StoreOptions

	mu       sync.RWMutex
	products []models.Product
	schema   *tabular.Schema
	// rowRefs maps a product code to its data row in the catalog range
	rowRefs  map[string]int
}

// NewCatalogRepo starts with the built-in catalog. store may be nil, in which
// case Refresh keeps the defaults.
func NewCatalogRepo(store tabular.Store, rangeID string, opts StoreOptions) CatalogRepo {
	return &catalogRepo{
		store:    store,
		rangeID:  rangeID,
		opts:     opts.withDefaults(),
		products: models.DefaultCatalog(),
	}
}

func (r *catalogRepo) List(ctx context.Context) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Available {
			out = append(out, p)
		}
	}
	return out
}

func (r *catalogRepo) Find(ctx context.Context, code string) (*models.Product, bool) {
	code = strings.TrimSpace(code)
	for _, p := range r.List(ctx) {
		if p.Code == code {
			found := p
			return &found, true
		}
	}
	return nil, false
}

func (r *catalogRepo) FindByName(ctx context.Context, name string) (*models.Product, bool) {
	name = strings.TrimSpace(name)
	for _, p := range r.List(ctx) {
		if strings.EqualFold(p.Name, name) {
			found := p
			return &found, true
		}
	}
	return nil, false
}

func (r *catalogRepo) Refresh(ctx context.Context) error {
	if r.store == nil || r.rangeID == "" {
		return nil
	}

	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	rows, err := r.store.ReadRows(ctx, r.rangeID)
	if errors.Is(err, tabular.ErrRangeNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(rows) < 2 {
		return nil
	}

	schema := tabular.NewSchema(r.rangeID, rows[0])
	if _, ok := schema.Index(colCatProduct); !ok {
		return fmt.Errorf("catalog range %s has no %s column", r.rangeID, colCatProduct)
	}

	products := make([]models.Product, 0, len(rows)-1)
	rowRefs := make(map[string]int, len(rows)-1)
	for i, row := range rows[1:] {
		name := schema.Get(row, colCatProduct)
		price := parseAmount(schema.Get(row, colCatPrice))
		if name == "" || price <= 0 {
			continue
		}
		code := schema.Get(row, colCatCode)
		if code == "" {
			code = strconv.Itoa(i + 1)
		}
		stock := schema.Get(row, colCatStock)
		p := models.Product{
			Code:         code,
			Name:         name,
			PricePerKg:   price,
			Origin:       schema.Get(row, colCatOrigin),
			Notes:        schema.Get(row, colCatNotes),
			Available:    parseBool(schema.Get(row, colCatAvailable)),
			StockKg:      parseAmount(stock),
			StockTracked: stock != "",
		}
		if p.StockTracked && p.StockKg <= 0 {
			p.Available = false
		}
		products = append(products, p)
		rowRefs[code] = i
	}
	if len(products) == 0 {
		log.Warn().Str("range", r.rangeID).Msg("catalog range has no usable rows, keeping current catalog")
		return nil
	}

	r.mu.Lock()
	r.products = products
	r.schema = schema
	r.rowRefs = rowRefs
	r.mu.Unlock()

	log.Info().Str("range", r.rangeID).Int("products", len(products)).Msg("catalog refreshed")
	return nil
}

func (r *catalogRepo) ReduceStock(ctx context.Context, code string, kg float64) error {
	code = strings.TrimSpace(code)
	if kg <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.products, func(p models.Product) bool { return p.Code == code })
	if i < 0 {
		return fmt.Errorf("product %s not in catalog", code)
	}
	p := &r.products[i]
	if !p.StockTracked {
		return nil
	}

	remaining := math.Max(0, p.StockKg-kg)
	if r.store != nil && r.schema != nil {
		idx, ok := r.schema.Index(colCatStock)
		rowRef, found := r.rowRefs[code]
		if ok && found {
			ctx, cancel := r.opts.bound(ctx)
			defer cancel()
			if err := r.store.UpdateCell(ctx, r.rangeID, rowRef, idx, formatQuantity(remaining)); err != nil {
				return fmt.Errorf("failed to update stock of %s: %w", code, err)
			}
		}
	}

	p.StockKg = remaining
	if remaining == 0 {
		p.Available = false
		log.Warn().Str("product", p.Name).Msg("product out of stock")
	}
	log.Info().Str("product", p.Name).Float64("stock_kg", remaining).Msg("stock reduced")
	return nil
}
