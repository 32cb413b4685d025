package whatsapp

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioClient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioProvider sends through the Twilio WhatsApp sender. Inbound messages
// are form posts to /webhook/twilio.
type TwilioProvider struct {
	client     *twilio.RestClient
	validator  twilioClient.RequestValidator
	accountSID string
	authToken  string
	from       string
	http       *http.Client
}

func NewTwilioProvider(accountSID, authToken, from string) *TwilioProvider {
	return &TwilioProvider{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		validator:  twilioClient.NewRequestValidator(authToken),
		accountSID: accountSID,
		authToken:  authToken,
		from:       whatsappAddress(from),
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *TwilioProvider) GetProviderName() string {
	return "Twilio"
}

func (t *TwilioProvider) Connect() error {
	log.Printf("✅ Twilio WhatsApp sender ready (%s)", t.from)
	return nil
}

func (t *TwilioProvider) Disconnect() {}

func (t *TwilioProvider) SendMessage(phoneNumber, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(whatsappAddress(phoneNumber))
	params.SetFrom(t.from)
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	if resp.Sid != nil {
		log.Printf("📤 Twilio message sent, SID: %s", *resp.Sid)
	}
	return nil
}

// StartListening is a no-op: Twilio posts to /webhook/twilio.
func (t *TwilioProvider) StartListening(handler func(msg *InboundMessage)) error {
	return nil
}

// DownloadMedia fetches a MediaUrlN with account basic auth
func (t *TwilioProvider) DownloadMedia(ctx context.Context, media *Media) ([]byte, error) {
	if media == nil || media.URL == "" {
		return nil, fmt.Errorf("media has no URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, media.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twilio returned status %d for media", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ValidateWebhook checks the X-Twilio-Signature of an inbound form post.
func (t *TwilioProvider) ValidateWebhook(url string, params map[string]string, signature string) bool {
	return t.validator.Validate(url, params, signature)
}

func (t *TwilioProvider) GenerateQR(sessionID string) ([]byte, error) {
	return nil, fmt.Errorf("twilio senders are registered in the Twilio console, not by QR")
}

func (t *TwilioProvider) IsConnected() bool {
	return true
}

func (t *TwilioProvider) StartKeepAlive(ctx context.Context) {}

// Twilio has no typing indicator
func (t *TwilioProvider) StartTyping(phoneNumber string) error { return nil }
func (t *TwilioProvider) StopTyping(phoneNumber string) error  { return nil }

func whatsappAddress(phone string) string {
	if strings.HasPrefix(phone, "whatsapp:") {
		return phone
	}
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	return "whatsapp:" + phone
}
