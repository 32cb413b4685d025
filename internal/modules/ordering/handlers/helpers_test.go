package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/export"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/tabular"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/upload"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cret"

type recordingInbound struct {
	mu   sync.Mutex
	msgs []*whatsapp.InboundMessage
}

func (r *recordingInbound) HandleInbound(msg *whatsapp.InboundMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

type recordingNotifier struct {
	mu         sync.Mutex
	operators  []string
	production []string
	statuses   []notification.OrderStatusChange
	approvals  []notification.ApprovalChange
	recipients []string
}

func (n *recordingNotifier) NotifyOperators(ctx context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.operators = append(n.operators, text)
}

func (n *recordingNotifier) NotifyProduction(ctx context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.production = append(n.production, text)
}

func (n *recordingNotifier) NotifyOrderStatus(ctx context.Context, customerPhone string, change notification.OrderStatusChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recipients = append(n.recipients, customerPhone)
	n.statuses = append(n.statuses, change)
}

func (n *recordingNotifier) NotifyCustomerApproval(ctx context.Context, customerPhone string, change notification.ApprovalChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recipients = append(n.recipients, customerPhone)
	n.approvals = append(n.approvals, change)
}

type fakeValidator struct {
	valid  bool
	url    string
	params map[string]string
}

func (f *fakeValidator) ValidateWebhook(url string, params map[string]string, signature string) bool {
	f.url = url
	f.params = params
	return f.valid && signature != ""
}

// jpegFetcher serves a tiny JPEG for every media download
type jpegFetcher struct{}

func (jpegFetcher) DownloadMedia(ctx context.Context, media *whatsapp.Media) ([]byte, error) {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, nil
}

type fakeWhatsApp struct{}

func (fakeWhatsApp) GenerateQR(sessionID string) ([]byte, error) {
	return []byte("\x89PNG\r\n"), nil
}
func (fakeWhatsApp) IsConnected() bool       { return true }
func (fakeWhatsApp) GetProviderName() string { return "fake" }

type testEnv struct {
	app       *fiber.App
	inbound   *recordingInbound
	notifier  *recordingNotifier
	validator *fakeValidator
	orders    repositories.OrderRepo
}

type envOptions struct {
	simulator bool
	twilio    bool
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	ctx := context.Background()
	normalizer := phone.NewNormalizer("51")
	store := tabular.NewMemoryStore()
	storeOpts := repositories.StoreOptions{Timeout: time.Second, Location: time.UTC}

	orderSchema, err := tabular.ResolveSchema(ctx, store, repositories.OrdersDefinition("PedidosWhatsApp"))
	require.NoError(t, err)
	customerSchema, err := tabular.ResolveSchema(ctx, store, repositories.CustomersDefinition("Clientes"))
	require.NoError(t, err)

	orders := repositories.NewOrderRepo(store, orderSchema, normalizer, []string{"completed", "delivered", "cancelled"}, storeOpts)
	customers := repositories.NewCustomerRepo(store, customerSchema, normalizer, storeOpts)

	local, err := upload.NewLocalProvider(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	settings := services.Settings{
		BusinessName:     "Coffee Express",
		BusinessCity:     "Lima, Perú",
		BankBCPAccount:   "191-1234567-0-12",
		BankCCIAccount:   "002-191-001234567012-34",
		Currency:         "S/",
		MinOrderKg:       5,
		BulkThresholdKg:  50,
		BulkDiscountRate: 0.10,
		Location:         time.UTC,
	}

	env := &testEnv{
		inbound:  &recordingInbound{},
		notifier: &recordingNotifier{},
		orders:   orders,
	}

	machine := services.NewStateMachine(services.MachineDeps{
		Conversations:  repositories.NewMemoryConversationRepo(),
		Orders:         orders,
		Customers:      customers,
		Catalog:        repositories.NewCatalogRepo(nil, "", storeOpts),
		Normalizer:     normalizer,
		Notifier:       env.notifier,
		Proofs:         upload.NewService(local),
		Media:          jpegFetcher{},
		Settings:       settings,
		SessionTimeout: 30 * time.Minute,
	})
	bot := services.NewBotService(machine, nil, repositories.NewMemoryMessageRepo(50))

	webhookOpts := WebhookOptions{CloudVerifyToken: "verify-me", PublicBaseURL: "https://bot.example.com"}
	if opts.twilio {
		env.validator = &fakeValidator{valid: true}
		webhookOpts.Twilio = env.validator
	}

	env.app = fiber.New()
	Routes{
		Health:          NewHealthHandler(fakeWhatsApp{}, "memory"),
		WhatsApp:        NewWhatsAppHandler(fakeWhatsApp{}),
		Webhook:         NewWebhookHandler(env.inbound, webhookOpts),
		Status:          NewStatusHandler(services.NewStatusService(orders, env.notifier, normalizer), testSecret),
		Orders:          NewOrderHandler(services.NewOrderService(orders, normalizer, export.NewService(), settings)),
		Conversation:    NewConversationHandler(bot, 50),
		EnableSimulator: opts.simulator,
	}.Register(env.app)
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func (e *testEnv) postJSON(t *testing.T, path, body string, headers ...string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return e.do(t, req)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

type simulateReply struct {
	To    string `json:"to"`
	Reply string `json:"reply"`
	Step  string `json:"step"`
}

func (e *testEnv) simulate(t *testing.T, sender string, texts ...string) simulateReply {
	t.Helper()
	var last simulateReply
	for _, text := range texts {
		payload, err := json.Marshal(SimulateRequest{Sender: sender, Text: text})
		require.NoError(t, err)
		resp, body := e.postJSON(t, "/simulate", string(payload))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		require.NoError(t, json.Unmarshal(body, &last))
	}
	return last
}

func decodeMap(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}
