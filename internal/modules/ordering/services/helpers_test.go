package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/tabular"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/upload"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu         sync.Mutex
	operators  []string
	production []string
	statuses   []notification.OrderStatusChange
	approvals  []notification.ApprovalChange
	recipients []string
}

func (f *fakeNotifier) NotifyOperators(ctx context.Context, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.operators = append(f.operators, text)
}

func (f *fakeNotifier) NotifyProduction(ctx context.Context, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.production = append(f.production, text)
}

func (f *fakeNotifier) NotifyOrderStatus(ctx context.Context, customerPhone string, change notification.OrderStatusChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipients = append(f.recipients, customerPhone)
	f.statuses = append(f.statuses, change)
}

func (f *fakeNotifier) NotifyCustomerApproval(ctx context.Context, customerPhone string, change notification.ApprovalChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipients = append(f.recipients, customerPhone)
	f.approvals = append(f.approvals, change)
}

// flakyOrders fails Append while failAppend is set. failAfterWrite lets one
// append reach the ledger and still report an error.
type flakyOrders struct {
	repositories.OrderRepo
	failAppend     error
	failAfterWrite error
}

func (f *flakyOrders) Append(ctx context.Context, o models.Order) (string, error) {
	if f.failAppend != nil {
		return "", f.failAppend
	}
	id, err := f.OrderRepo.Append(ctx, o)
	if err == nil && f.failAfterWrite != nil {
		err, f.failAfterWrite = f.failAfterWrite, nil
		return "", err
	}
	return id, err
}

type panickingCatalog struct {
	repositories.CatalogRepo
}

func (panickingCatalog) Find(ctx context.Context, code string) (*models.Product, bool) {
	panic("catalog exploded")
}

type fakeProofStore struct {
	stored []upload.ProofMeta
}

func (f *fakeProofStore) StoreProof(ctx context.Context, data []byte, meta upload.ProofMeta) (upload.ProofRef, error) {
	f.stored = append(f.stored, meta)
	return upload.ProofRef{URL: "https://files.test/comprobantes/proof.jpg", PublicID: "comprobantes/proof"}, nil
}

type harness struct {
	t             *testing.T
	machine       *StateMachine
	conversations repositories.ConversationRepo
	orders        *flakyOrders
	customers     repositories.CustomerRepo
	notifier      *fakeNotifier
	proofs        *fakeProofStore
}

func testSettings() Settings {
	return Settings{
		BusinessName:     "Coffee Express",
		BusinessCity:     "Lima, Perú",
		BankBCPAccount:   "191-1234567-0-12",
		BankCCIAccount:   "002-191-001234567012-34",
		Currency:         "S/",
		MinOrderKg:       5,
		BulkThresholdKg:  50,
		BulkDiscountRate: 0.10,
		ReorderChoices:   5,
		Location:         time.UTC,
	}
}

func newHarness(t *testing.T, customize ...func(*MachineDeps)) *harness {
	t.Helper()
	ctx := context.Background()
	normalizer := phone.NewNormalizer("51")
	store := tabular.NewMemoryStore()
	opts := repositories.StoreOptions{Timeout: time.Second, Location: time.UTC}

	orderSchema, err := tabular.ResolveSchema(ctx, store, repositories.OrdersDefinition("Pedidos"))
	require.NoError(t, err)
	customerSchema, err := tabular.ResolveSchema(ctx, store, repositories.CustomersDefinition("Clientes"))
	require.NoError(t, err)

	h := &harness{
		t:             t,
		conversations: repositories.NewMemoryConversationRepo(),
		orders: &flakyOrders{OrderRepo: repositories.NewOrderRepo(store, orderSchema, normalizer,
			[]string{"completed", "delivered", "cancelled"}, opts)},
		customers: repositories.NewCustomerRepo(store, customerSchema, normalizer, opts),
		notifier:  &fakeNotifier{},
		proofs:    &fakeProofStore{},
	}

	deps := MachineDeps{
		Conversations:  h.conversations,
		Orders:         h.orders,
		Customers:      h.customers,
		Catalog:        repositories.NewCatalogRepo(nil, "", opts),
		Normalizer:     normalizer,
		Notifier:       h.notifier,
		Proofs:         h.proofs,
		Settings:       testSettings(),
		SessionTimeout: 30 * time.Minute,
	}
	for _, c := range customize {
		c(&deps)
	}
	h.machine = NewStateMachine(deps)
	return h
}

func (h *harness) send(sender, text string) Reply {
	h.t.Helper()
	reply, err := h.machine.Handle(context.Background(), &whatsapp.InboundMessage{Sender: sender, Text: text})
	require.NoError(h.t, err)
	return reply
}

func (h *harness) sendAll(sender string, texts ...string) Reply {
	h.t.Helper()
	var last Reply
	for _, text := range texts {
		last = h.send(sender, text)
	}
	return last
}

func (h *harness) state(sender string) *models.ConversationState {
	h.t.Helper()
	st, err := h.conversations.Get(context.Background(), sender)
	require.NoError(h.t, err)
	return st
}

// newCustomerFlow drives a first-time customer up to awaiting_proof
var newCustomerFlow = []string{
	"hola", "1", "2", "60", "si",
	"Cafetería Central", "Ana Torres", "987654321", "Av. Larco 123, Miraflores",
	"si",
}
