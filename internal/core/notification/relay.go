package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Sender is the outbound transport. *whatsapp.Service satisfies it.
type Sender interface {
	SendMessage(to, message string) error
}

// TransportFailure is a send that failed after its retry
type TransportFailure struct {
	To  string
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("send to %s failed: %v", e.To, e.Err)
}

func (e *TransportFailure) Unwrap() error {
	return e.Err
}

// RelayConfig holds the operator destinations
type RelayConfig struct {
	AdminPhone      string
	AdminGroup      string
	ProductionGroup string
	SupportPhone    string
	Location        *time.Location
	RetryDelay      time.Duration
	// FollowUpDelay is how long after an approval the catalog is sent
	FollowUpDelay time.Duration
	// CatalogMessage renders the catalog sent to newly verified customers
	CatalogMessage func() string
}

// Relay formats and dispatches notifications. Every Notify call returns
// immediately and delivers in its own goroutine.
type Relay struct {
	sender Sender
	cfg    RelayConfig
	wg     sync.WaitGroup
}

func NewRelay(sender Sender, cfg RelayConfig) *Relay {
	if cfg.Location == nil {
		cfg.Location = LimaLocation()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.FollowUpDelay <= 0 {
		cfg.FollowUpDelay = 3 * time.Second
	}
	return &Relay{sender: sender, cfg: cfg}
}

// NotifyOrderStatus tells a customer their order moved to a new status
func (r *Relay) NotifyOrderStatus(ctx context.Context, customerPhone string, change OrderStatusChange) {
	r.dispatch(ctx, "order_status", customerPhone, FormatOrderStatus(change, r.cfg.Location))
}

// NotifyCustomerApproval tells a customer about their onboarding decision.
// Verified customers receive the catalog shortly after.
func (r *Relay) NotifyCustomerApproval(ctx context.Context, customerPhone string, change ApprovalChange) {
	text := FormatApproval(change, r.cfg.SupportPhone, r.cfg.Location)
	if change.Status != ApprovalVerified || r.cfg.CatalogMessage == nil {
		r.dispatch(ctx, "customer_approval", customerPhone, text)
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.deliver(ctx, "customer_approval", customerPhone, text); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.cfg.FollowUpDelay):
		}
		_ = r.deliver(ctx, "catalog_follow_up", customerPhone, r.cfg.CatalogMessage())
	}()
}

// NotifyOperators sends text to the admin number and the admin group
func (r *Relay) NotifyOperators(ctx context.Context, text string) {
	for _, to := range []string{r.cfg.AdminPhone, r.cfg.AdminGroup} {
		if to != "" {
			r.dispatch(ctx, "operators", to, text)
		}
	}
}

// NotifyProduction sends text to the production group
func (r *Relay) NotifyProduction(ctx context.Context, text string) {
	if r.cfg.ProductionGroup != "" {
		r.dispatch(ctx, "production", r.cfg.ProductionGroup, text)
	}
}

// Wait blocks until every in-flight notification finished
func (r *Relay) Wait() {
	r.wg.Wait()
}

func (r *Relay) dispatch(ctx context.Context, kind, to, text string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = r.deliver(ctx, kind, to, text)
	}()
}

// deliver sends once and retries once after RetryDelay
func (r *Relay) deliver(ctx context.Context, kind, to, text string) error {
	err := r.sender.SendMessage(to, text)
	if err == nil {
		return nil
	}

	log.Warn().Err(err).Str("kind", kind).Str("to", to).Msg("notification failed, retrying")
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-time.After(r.cfg.RetryDelay):
		err = r.sender.SendMessage(to, text)
	}
	if err == nil {
		return nil
	}

	failure := &TransportFailure{To: to, Err: err}
	log.Error().Err(failure).
		Str("event", "notification_dropped").
		Str("kind", kind).
		Str("to", to).
		Msg("notification dropped")
	return failure
}
