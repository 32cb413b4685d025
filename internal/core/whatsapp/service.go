// internal/core/whatsapp/service.go
package whatsapp

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// Default outbound rate shared by every recipient.
const (
	DefaultSendRate  = 20 // messages per second
	DefaultSendBurst = 5
	sendWaitTimeout  = 30 * time.Second
)

// Service wraps a WhatsApp provider and rate-limits outbound messages.
// This is the layer the application uses.
type Service struct {
	provider WhatsAppProvider
	limiter  *rate.Limiter
}

// NewService creates a service with the provider described by cfg
func NewService(cfg *ProviderConfig) (*Service, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	log.Printf("✅ Using WhatsApp provider: %s", provider.GetProviderName())
	return NewServiceWithProvider(provider), nil
}

// NewServiceWithProvider creates a service with a specific provider (for testing)
func NewServiceWithProvider(provider WhatsAppProvider) *Service {
	return &Service{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(DefaultSendRate), DefaultSendBurst),
	}
}

// SetRateLimit replaces the outbound limiter
func (s *Service) SetRateLimit(perSecond float64, burst int) {
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Connect starts the WhatsApp connection
func (s *Service) Connect() error {
	return s.provider.Connect()
}

// Disconnect closes the connection
func (s *Service) Disconnect() {
	s.provider.Disconnect()
}

// SendMessage sends a text message, waiting for the rate limiter first
func (s *Service) SendMessage(phoneNumber, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendWaitTimeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send rate limit: %w", err)
	}
	return s.provider.SendMessage(phoneNumber, message)
}

// StartListening registers the inbound message handler
func (s *Service) StartListening(handler func(msg *InboundMessage)) error {
	return s.provider.StartListening(handler)
}

// DownloadMedia fetches inbound media bytes. Media that already carries its
// bytes is returned as is.
func (s *Service) DownloadMedia(ctx context.Context, media *Media) ([]byte, error) {
	if media == nil {
		return nil, fmt.Errorf("no media")
	}
	if len(media.Data) > 0 {
		return media.Data, nil
	}
	return s.provider.DownloadMedia(ctx, media)
}

// GenerateQR generates a QR code for pairing
func (s *Service) GenerateQR(sessionID string) ([]byte, error) {
	return s.provider.GenerateQR(sessionID)
}

// IsConnected checks the connection status
func (s *Service) IsConnected() bool {
	return s.provider.IsConnected()
}

// StartKeepAlive maintains the session
func (s *Service) StartKeepAlive(ctx context.Context) {
	s.provider.StartKeepAlive(ctx)
}

// GetProviderName returns the provider in use
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}

// StartTyping shows typing indicator to the user
func (s *Service) StartTyping(phoneNumber string) error {
	return s.provider.StartTyping(phoneNumber)
}

// StopTyping stops/clears typing indicator
func (s *Service) StopTyping(phoneNumber string) error {
	return s.provider.StopTyping(phoneNumber)
}
