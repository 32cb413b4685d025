// internal/core/whatsapp/cloud_api.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

const defaultGraphURL = "https://graph.facebook.com"

// CloudAPIProvider implements the WhatsApp Cloud API (Official Business API).
// Documentation: https://developers.facebook.com/docs/whatsapp/cloud-api
type CloudAPIProvider struct {
	graphURL    string
	phoneID     string
	accessToken string
	apiVersion  string
	client      *http.Client
}

// CloudAPIConfig holds configuration for WhatsApp Cloud API
type CloudAPIConfig struct {
	PhoneID     string `json:"phone_id"`
	AccessToken string `json:"access_token"`
	APIVersion  string `json:"api_version"`
	// GraphURL overrides https://graph.facebook.com
	GraphURL string `json:"graph_url"`
}

// CloudWebhookPayload is the body Meta posts to the webhook.
type CloudWebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				MessagingProduct string            `json:"messaging_product"`
				Messages         []CloudAPIMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// CloudAPIMessage represents an incoming message from the webhook
type CloudAPIMessage struct {
	From      string                `json:"from"`
	ID        string                `json:"id"`
	Timestamp string                `json:"timestamp"`
	Type      string                `json:"type"`
	Text      *CloudAPITextMessage  `json:"text,omitempty"`
	Image     *CloudAPIMediaMessage `json:"image,omitempty"`
	Document  *CloudAPIMediaMessage `json:"document,omitempty"`
}

type CloudAPITextMessage struct {
	Body string `json:"body"`
}

type CloudAPIMediaMessage struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Messages flattens the payload into InboundMessages. Unsupported message
// types (stickers, reactions, locations) are skipped.
func (p *CloudWebhookPayload) Messages() []*InboundMessage {
	var out []*InboundMessage
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				if msg := m.toInbound(); msg != nil {
					out = append(out, msg)
				}
			}
		}
	}
	return out
}

func (m CloudAPIMessage) toInbound() *InboundMessage {
	msg := &InboundMessage{
		ID:        m.ID,
		Sender:    m.From,
		Timestamp: time.Now(),
	}
	if secs, err := strconv.ParseInt(m.Timestamp, 10, 64); err == nil {
		msg.Timestamp = time.Unix(secs, 0)
	}

	switch m.Type {
	case "text":
		if m.Text == nil {
			return nil
		}
		msg.Text = m.Text.Body
	case "image", "document":
		media := m.Image
		if media == nil {
			media = m.Document
		}
		if media == nil {
			return nil
		}
		msg.Text = media.Caption
		msg.Media = &Media{
			ID:          media.ID,
			ContentType: media.MimeType,
			Filename:    media.Filename,
		}
	default:
		return nil
	}
	return msg
}

// NewCloudAPIProvider creates a new WhatsApp Cloud API provider
func NewCloudAPIProvider(config CloudAPIConfig) (*CloudAPIProvider, error) {
	if config.PhoneID == "" {
		return nil, fmt.Errorf("phone_id is required")
	}
	if config.AccessToken == "" {
		return nil, fmt.Errorf("access_token is required")
	}
	if config.APIVersion == "" {
		config.APIVersion = "v18.0"
	}
	if config.GraphURL == "" {
		config.GraphURL = defaultGraphURL
	}

	return &CloudAPIProvider{
		graphURL:    config.GraphURL,
		phoneID:     config.PhoneID,
		accessToken: config.AccessToken,
		apiVersion:  config.APIVersion,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Connect is a no-op for Cloud API (always connected via HTTP)
func (p *CloudAPIProvider) Connect() error {
	log.Printf("✅ WhatsApp Cloud API initialized (Phone ID: %s)", p.phoneID)
	return nil
}

func (p *CloudAPIProvider) Disconnect() {}

// SendMessage sends a text message via Cloud API
func (p *CloudAPIProvider) SendMessage(to, message string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                digits(to),
		"type":              "text",
		"text": map[string]interface{}{
			"preview_url": false,
			"body":        message,
		},
	}

	return p.sendRequest(context.Background(), http.MethodPost, p.endpoint(p.phoneID+"/messages"), payload)
}

// Cloud API has no typing indicator for plain text sessions
func (p *CloudAPIProvider) StartTyping(phoneNumber string) error { return nil }
func (p *CloudAPIProvider) StopTyping(phoneNumber string) error  { return nil }

// StartListening is a no-op: messages arrive on the /webhook/cloud route.
func (p *CloudAPIProvider) StartListening(handler func(msg *InboundMessage)) error {
	return nil
}

func (p *CloudAPIProvider) GenerateQR(sessionID string) ([]byte, error) {
	return nil, fmt.Errorf("cloud API doesn't use QR codes, use phone number verification instead")
}

func (p *CloudAPIProvider) IsConnected() bool {
	return true
}

func (p *CloudAPIProvider) StartKeepAlive(ctx context.Context) {}

func (p *CloudAPIProvider) GetProviderName() string {
	return "WhatsApp Cloud API (Official)"
}

// GetMediaURL resolves a media ID to a short-lived download URL
func (p *CloudAPIProvider) GetMediaURL(ctx context.Context, mediaID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint(mediaID), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get media info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to get media URL: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.URL, nil
}

// DownloadMedia resolves the media ID and downloads the bytes
func (p *CloudAPIProvider) DownloadMedia(ctx context.Context, media *Media) ([]byte, error) {
	mediaURL := media.URL
	if mediaURL == "" {
		var err error
		if mediaURL, err = p.GetMediaURL(ctx, media.ID); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download media: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (p *CloudAPIProvider) endpoint(path string) string {
	return fmt.Sprintf("%s/%s/%s", p.graphURL, p.apiVersion, path)
}

func (p *CloudAPIProvider) sendRequest(ctx context.Context, method, url string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}
