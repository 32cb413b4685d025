// internal/core/whatsapp/provider.go
package whatsapp

import (
	"context"
	"fmt"
	"os"
)

// WhatsAppProvider is implemented by every WhatsApp transport
type WhatsAppProvider interface {
	// Connect initializes the connection
	Connect() error

	// Disconnect closes the connection
	Disconnect()

	// SendMessage sends a text message. phoneNumber is a canonical "+<digits>" phone.
	SendMessage(phoneNumber, message string) error

	// StartListening registers a handler for inbound messages. Webhook-based
	// providers return nil and deliver through the HTTP handlers instead.
	StartListening(handler func(msg *InboundMessage)) error

	// DownloadMedia fetches the bytes of an inbound media reference
	DownloadMedia(ctx context.Context, media *Media) ([]byte, error)

	// GenerateQR returns a PNG QR code for pairing
	GenerateQR(sessionID string) ([]byte, error)

	// IsConnected reports whether the transport can send
	IsConnected() bool

	// StartKeepAlive maintains the session (no-op for HTTP providers)
	StartKeepAlive(ctx context.Context)

	// GetProviderName returns the provider name for logging
	GetProviderName() string

	// StartTyping shows typing indicator to the user
	StartTyping(phoneNumber string) error

	// StopTyping stops/clears typing indicator
	StopTyping(phoneNumber string) error
}

// ProviderType for the factory
type ProviderType string

const (
	ProviderWhatsmeow ProviderType = "whatsmeow"
	ProviderWAHA      ProviderType = "waha"
	ProviderCloudAPI  ProviderType = "cloudapi"
	ProviderTwilio    ProviderType = "twilio"
)

// ProviderConfig holds provider settings
type ProviderConfig struct {
	Type ProviderType

	// Whatsmeow
	StoreURL string

	// WAHA
	WAHABaseURL   string
	WAHAAPIKey    string
	WAHASessionID string

	// Cloud API
	CloudPhoneID     string
	CloudAccessToken string
	CloudAPIVersion  string
	CloudVerifyToken string

	// Twilio
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
}

// NewProvider creates a provider from config
func NewProvider(cfg *ProviderConfig) (WhatsAppProvider, error) {
	switch cfg.Type {
	case ProviderWhatsmeow:
		return NewWhatsmeowProvider(cfg.StoreURL), nil

	case ProviderWAHA:
		if cfg.WAHABaseURL == "" {
			return nil, fmt.Errorf("WAHA_BASE_URL is required")
		}
		return NewWAHAProvider(cfg.WAHABaseURL, cfg.WAHAAPIKey, cfg.WAHASessionID), nil

	case ProviderCloudAPI:
		return NewCloudAPIProvider(CloudAPIConfig{
			PhoneID:     cfg.CloudPhoneID,
			AccessToken: cfg.CloudAccessToken,
			APIVersion:  cfg.CloudAPIVersion,
		})

	case ProviderTwilio:
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "" {
			return nil, fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_NUMBER are required")
		}
		return NewTwilioProvider(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// LoadProviderFromEnv loads provider config from environment variables
func LoadProviderFromEnv() (*ProviderConfig, error) {
	providerType := os.Getenv("WHATSAPP_PROVIDER")
	if providerType == "" {
		providerType = "whatsmeow" // default
	}

	cfg := &ProviderConfig{
		Type:     ProviderType(providerType),
		StoreURL: os.Getenv("WHATSAPP_STORE_URL"),

		WAHABaseURL:   os.Getenv("WAHA_BASE_URL"),
		WAHAAPIKey:    os.Getenv("WAHA_API_KEY"),
		WAHASessionID: os.Getenv("WAHA_SESSION_ID"),

		CloudPhoneID:     os.Getenv("WHATSAPP_CLOUD_PHONE_ID"),
		CloudAccessToken: os.Getenv("WHATSAPP_CLOUD_ACCESS_TOKEN"),
		CloudAPIVersion:  os.Getenv("WHATSAPP_CLOUD_API_VERSION"),
		CloudVerifyToken: os.Getenv("WHATSAPP_CLOUD_VERIFY_TOKEN"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	}

	// Set defaults
	if cfg.WAHASessionID == "" {
		cfg.WAHASessionID = "default"
	}
	if cfg.CloudAPIVersion == "" {
		cfg.CloudAPIVersion = "v18.0"
	}

	return cfg, nil
}

// digits strips a leading "+" from a canonical phone
func digits(phoneNumber string) string {
	if len(phoneNumber) > 0 && phoneNumber[0] == '+' {
		return phoneNumber[1:]
	}
	return phoneNumber
}
