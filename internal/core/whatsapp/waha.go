// internal/core/whatsapp/waha.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// WAHAProvider talks to a WAHA (WhatsApp HTTP API) server. Inbound messages
// are delivered by WAHA to the /webhook route.
type WAHAProvider struct {
	baseURL   string
	apiKey    string
	sessionID string
	client    *http.Client
	connected bool
}

func NewWAHAProvider(baseURL, apiKey, sessionID string) *WAHAProvider {
	return &WAHAProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		sessionID: sessionID,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *WAHAProvider) GetProviderName() string {
	return "WAHA"
}

func (w *WAHAProvider) Connect() error {
	if err := w.startSession(w.sessionID); err != nil {
		return err
	}

	status, err := w.sessionStatus(w.sessionID)
	if err != nil {
		log.Printf("⚠️ Failed to get session status: %v", err)
	} else {
		log.Printf("📱 WAHA session status: %s", status)
		if status == "SCAN_QR_CODE" || status == "STARTING" {
			log.Println("💡 Please scan QR code via /whatsapp/qr endpoint")
		}
	}

	w.connected = true
	return nil
}

func (w *WAHAProvider) Disconnect() {
	w.connected = false
	resp, err := w.do(context.Background(), http.MethodPost, fmt.Sprintf("/api/sessions/%s/stop", w.sessionID), nil)
	if err == nil {
		resp.Body.Close()
	}
	log.Println("🔌 WAHA provider disconnected")
}

// SendMessage sends text to "<digits>@c.us"
func (w *WAHAProvider) SendMessage(phoneNumber, message string) error {
	payload := map[string]interface{}{
		"session": w.sessionID,
		"chatId":  chatID(phoneNumber),
		"text":    message,
	}
	return w.post(context.Background(), "/api/sendText", payload)
}

// StartListening is a no-op: configure the WAHA webhook to POST /webhook.
func (w *WAHAProvider) StartListening(handler func(msg *InboundMessage)) error {
	log.Println("💡 WAHA delivers messages to the /webhook endpoint")
	return nil
}

// DownloadMedia fetches media.URL with the WAHA API key
func (w *WAHAProvider) DownloadMedia(ctx context.Context, media *Media) ([]byte, error) {
	if media == nil || media.URL == "" {
		return nil, fmt.Errorf("media has no URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, media.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if w.apiKey != "" {
		req.Header.Set("X-Api-Key", w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("WAHA returned status %d for media", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (w *WAHAProvider) GenerateQR(sessionID string) ([]byte, error) {
	if sessionID == "" {
		sessionID = w.sessionID
	}

	if status, err := w.sessionStatus(sessionID); err == nil && status == "WORKING" {
		return []byte(fmt.Sprintf("✅ Session '%s' is already authenticated and working. No QR code needed.", sessionID)), nil
	}

	if err := w.startSession(sessionID); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	resp, err := w.do(context.Background(), http.MethodGet, fmt.Sprintf("/api/%s/auth/qr?format=image", sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get QR: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("WAHA returned status %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

func (w *WAHAProvider) IsConnected() bool {
	return w.connected
}

// WAHA keeps its own session alive
func (w *WAHAProvider) StartKeepAlive(ctx context.Context) {}

func (w *WAHAProvider) StartTyping(phoneNumber string) error {
	return w.setPresence(chatID(phoneNumber), "typing")
}

func (w *WAHAProvider) StopTyping(phoneNumber string) error {
	return w.setPresence(chatID(phoneNumber), "paused")
}

func (w *WAHAProvider) setPresence(chat, presence string) error {
	payload := map[string]string{
		"chatId":   chat,
		"presence": presence,
	}
	return w.post(context.Background(), fmt.Sprintf("/api/%s/presence", w.sessionID), payload)
}

func (w *WAHAProvider) startSession(sessionID string) error {
	resp, err := w.do(context.Background(), http.MethodPost, "/api/sessions/start", map[string]string{"name": sessionID})
	if err != nil {
		return fmt.Errorf("failed to start WAHA session: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		log.Printf("✅ WAHA session '%s' started", sessionID)
		return nil
	case http.StatusConflict, http.StatusUnprocessableEntity:
		log.Printf("ℹ️ WAHA session '%s' already exists/started", sessionID)
		return nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("WAHA returned status %d: %s", resp.StatusCode, string(body))
	}
}

func (w *WAHAProvider) sessionStatus(sessionID string) (string, error) {
	resp, err := w.do(context.Background(), http.MethodGet, "/api/sessions/"+sessionID, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Status, nil
}

func (w *WAHAProvider) post(ctx context.Context, path string, payload interface{}) error {
	resp, err := w.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("WAHA returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (w *WAHAProvider) do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, w.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if w.apiKey != "" {
		req.Header.Set("X-Api-Key", w.apiKey)
	}
	return w.client.Do(req)
}

// chatID formats a phone as a WAHA chat id (628123456789@c.us)
func chatID(phoneNumber string) string {
	if strings.Contains(phoneNumber, "@") {
		return phoneNumber
	}
	return digits(phoneNumber) + "@c.us"
}
