package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/llm"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/upload"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
)

// ErrInvalidSender is returned for messages whose sender has no usable phone
var ErrInvalidSender = errors.New("invalid sender")

// Advisor answers free-text questions while the customer waits for a human.
// *llm.Service satisfies it.
type Advisor interface {
	Enabled() bool
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Notifier delivers operator messages. *notification.Relay satisfies it.
type Notifier interface {
	NotifyOperators(ctx context.Context, text string)
	NotifyProduction(ctx context.Context, text string)
}

// ProofStore keeps payment proof images. *upload.Service satisfies it.
type ProofStore interface {
	StoreProof(ctx context.Context, data []byte, meta upload.ProofMeta) (upload.ProofRef, error)
}

// MediaFetcher downloads inbound attachments. *whatsapp.Service satisfies it.
type MediaFetcher interface {
	DownloadMedia(ctx context.Context, media *whatsapp.Media) ([]byte, error)
}

// MachineDeps groups the collaborators of the state machine. Proofs, Media
// and Advisor are optional.
type MachineDeps struct {
	Conversations repositories.ConversationRepo
	Orders        repositories.OrderRepo
	Customers     repositories.CustomerRepo
	Catalog       repositories.CatalogRepo
	Normalizer    *phone.Normalizer
	Notifier      Notifier
	Proofs        ProofStore
	Media         MediaFetcher
	Advisor       Advisor
	Settings      Settings
	// SessionTimeout discards conversations idle for longer. Zero keeps them.
	SessionTimeout time.Duration
}

// Reply is the outcome of one inbound message
type Reply struct {
	To   phone.Canonical
	Text string
	Step models.Step
}

// turn is the context of one transition
type turn struct {
	ctx    context.Context
	sender phone.Canonical
	msg    *whatsapp.InboundMessage
	text   string
	word   string
	state  *models.ConversationState
}

type stepHandler func(t *turn) (string, error)

// StateMachine drives the ordering conversation of every sender. Messages of
// one sender are handled one at a time; different senders run in parallel.
type StateMachine struct {
	deps     MachineDeps
	settings Settings
	handlers map[models.Step]stepHandler
	ids      *repositories.IDGenerator
	now      func() time.Time
}

func NewStateMachine(deps MachineDeps) *StateMachine {
	m := &StateMachine{
		deps:     deps,
		settings: deps.Settings.withDefaults(),
		ids:      repositories.NewIDGenerator(),
		now:      time.Now,
	}
	m.handlers = map[models.Step]stepHandler{
		models.StepStart:                  m.handleStart,
		models.StepMainMenu:               m.handleMainMenu,
		models.StepInfo:                   m.handleInfo,
		models.StepCheckingOrder:          m.handleCheckingOrder,
		models.StepContactAdvisor:         m.handleContactAdvisor,
		models.StepSelectingReorder:       m.handleSelectingReorder,
		models.StepBrowsingCatalog:        m.handleBrowsingCatalog,
		models.StepProductSelected:        m.handleProductSelected,
		models.StepQuantityEntered:        m.handleQuantityEntered,
		models.StepOrderReview:            m.handleOrderReview,
		models.StepCollectingBusinessName: m.handleCollecting(models.FieldBusinessName),
		models.StepCollectingContactName:  m.handleCollecting(models.FieldContactName),
		models.StepCollectingContactPhone: m.handleCollecting(models.FieldContactPhone),
		models.StepCollectingAddress:      m.handleCollecting(models.FieldAddress),
		models.StepConfirmKnownData:       m.handleConfirmKnownData,
		models.StepSelectingField:         m.handleSelectingField,
		models.StepEditingField:           m.handleEditingField,
		models.StepPaymentPending:         m.handlePaymentPending,
		models.StepAwaitingProof:          m.handleAwaitingProof,
		models.StepPromoBusinessName:      m.handlePromoBusinessName,
		models.StepPromoAddress:           m.handlePromoAddress,
		models.StepPromoDistrict:          m.handlePromoDistrict,
		models.StepPromoPhoto:             m.handlePromoPhoto,
		models.StepPromoContact:           m.handlePromoContact,
	}
	return m
}

// Sender normalizes a raw transport address to the session key
func (m *StateMachine) Sender(raw string) phone.Canonical {
	return m.deps.Normalizer.Normalize(raw)
}

// Conversation returns the stored state of a sender
func (m *StateMachine) Conversation(ctx context.Context, sender phone.Canonical) (*models.ConversationState, error) {
	return m.deps.Conversations.Get(ctx, string(sender))
}

// CleanupExpired drops conversations idle for longer than the session timeout
func (m *StateMachine) CleanupExpired(ctx context.Context) (int, error) {
	if m.deps.SessionTimeout <= 0 {
		return 0, nil
	}
	return m.deps.Conversations.CleanupExpired(ctx, m.deps.SessionTimeout)
}

// Settings returns the effective business settings
func (m *StateMachine) Settings() Settings {
	return m.settings
}

// Handle runs one inbound message through the conversation. The returned
// error is only set when the sender cannot be identified; every other
// failure becomes a reply.
func (m *StateMachine) Handle(ctx context.Context, msg *whatsapp.InboundMessage) (Reply, error) {
	if msg == nil {
		return Reply{}, fmt.Errorf("%w: empty message", ErrInvalidSender)
	}
	sender := m.deps.Normalizer.Normalize(msg.Sender)
	if !sender.Valid() {
		return Reply{}, fmt.Errorf("%w: %q", ErrInvalidSender, msg.Sender)
	}

	unlock := m.deps.Conversations.Lock(string(sender))
	defer unlock()

	stored := m.load(ctx, sender)
	working := stored.Clone()

	t := &turn{
		ctx:    ctx,
		sender: sender,
		msg:    msg,
		text:   strings.TrimSpace(msg.Text),
		state:  working,
	}
	t.word = normalizeWord(t.text)

	text, err := m.run(t)
	final := working
	switch {
	case err == nil:
	case IsValidation(err):
		var ve *ValidationError
		errors.As(err, &ve)
		text = ve.Prompt
		final = stored
	default:
		log.Printf("❌ Step %s failed for %s: %v", stored.Step, sender, err)
		text = msgRetry
		final = stored
	}

	if serr := m.deps.Conversations.Save(ctx, final); serr != nil {
		log.Printf("⚠️ Failed to save conversation for %s: %v", sender, serr)
	}

	return Reply{To: sender, Text: text, Step: final.Step}, nil
}

// load returns the stored conversation, starting over when it is missing,
// unreadable, expired or finished.
func (m *StateMachine) load(ctx context.Context, sender phone.Canonical) *models.ConversationState {
	stored, err := m.deps.Conversations.Get(ctx, string(sender))
	if err != nil {
		log.Printf("⚠️ Failed to load conversation for %s, starting over: %v", sender, err)
		stored = nil
	}
	if stored == nil {
		return models.NewConversationState(string(sender))
	}
	if m.deps.SessionTimeout > 0 && !stored.UpdatedAt.IsZero() && m.now().Sub(stored.UpdatedAt) > m.deps.SessionTimeout {
		return models.NewConversationState(string(sender))
	}
	if stored.Step.Terminal() {
		stored.Reset(models.StepStart)
	}
	return stored
}

func (m *StateMachine) run(t *turn) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in step %s: %v", t.state.Step, r)
		}
	}()

	if reply, ok := m.globalCommand(t); ok {
		return reply, nil
	}
	if isPromoTrigger(t.text) {
		return m.enterPromo(t), nil
	}
	if t.msg.Media != nil && t.state.Step != models.StepAwaitingProof && t.state.Step != models.StepPromoPhoto {
		return msgProofNotExpected, nil
	}

	handler, ok := m.handlers[t.state.Step]
	if !ok {
		return "", fmt.Errorf("no handler for step %q", t.state.Step)
	}
	return handler(t)
}

// globalCommand handles the words that work from any step
func (m *StateMachine) globalCommand(t *turn) (string, bool) {
	switch t.word {
	case "menu", "menú":
		t.state.Step = models.StepMainMenu
		return m.menu(t), true
	case "cancel", "cancelar":
		draft := t.state.Draft
		t.state.Reset(models.StepStart)
		return cancelledText(draft), true
	}
	return "", false
}

// menu renders the main menu with the sender's active orders and draft
func (m *StateMachine) menu(t *turn) string {
	active, err := m.deps.Orders.ListActive(t.ctx, t.sender)
	if err != nil {
		log.Printf("⚠️ %v", &LookupFailure{Op: "active orders", Err: err})
		active = nil
	}
	return menuText(m.settings, active, t.state.Draft, m.hasHistory(t), m.now())
}

func (m *StateMachine) hasHistory(t *turn) bool {
	orders, err := m.purchases(t, 1)
	if err != nil {
		log.Printf("⚠️ %v", &LookupFailure{Op: "order history", Err: err})
		return false
	}
	return len(orders) > 0
}

// purchases returns the sender's orders newest first, free samples excluded
func (m *StateMachine) purchases(t *turn, limit int) ([]models.Order, error) {
	orders, err := m.deps.Orders.ListBySender(t.ctx, t.sender, 0)
	if err != nil {
		return nil, err
	}
	out := orders[:0]
	for _, o := range orders {
		if !o.IsPromo() {
			out = append(out, o)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *StateMachine) advisorPrompt(ctx context.Context) string {
	products := m.deps.Catalog.List(ctx)
	profile := &llm.BusinessProfile{
		Name:     m.settings.BusinessName,
		City:     m.settings.BusinessCity,
		Hours:    m.settings.BusinessHours,
		Phone:    m.settings.BusinessPhone,
		Currency: m.settings.Currency,
		MinKg:    int(m.settings.MinOrderKg),
		BulkKg:   int(m.settings.BulkThresholdKg),
		BulkRate: m.settings.BulkDiscountRate,
	}
	for _, p := range products {
		profile.Products = append(profile.Products, llm.Product{Name: p.Name, Origin: p.Origin, Price: p.PricePerKg})
	}
	return llm.BuildAdvisorPrompt(profile)
}

// normalizeWord lowercases and trims a reply for keyword matching
func normalizeWord(text string) string {
	w := strings.ToLower(strings.TrimSpace(text))
	w = strings.Trim(w, ".!¡?¿ ")
	return w
}

func isYes(word string) bool {
	switch word {
	case "si", "sí", "s", "yes", "ok", "confirmar", "confirmo", "dale":
		return true
	}
	return false
}

func isNo(word string) bool {
	switch word {
	case "no", "n":
		return true
	}
	return false
}
