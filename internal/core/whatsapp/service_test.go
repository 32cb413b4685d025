package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu       sync.Mutex
	sent     []string
	download []byte
}

func (f *fakeProvider) Connect() error { return nil }
func (f *fakeProvider) Disconnect()    {}
func (f *fakeProvider) SendMessage(phoneNumber, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, phoneNumber+": "+message)
	return nil
}
func (f *fakeProvider) StartListening(handler func(msg *InboundMessage)) error { return nil }
func (f *fakeProvider) DownloadMedia(ctx context.Context, media *Media) ([]byte, error) {
	return f.download, nil
}
func (f *fakeProvider) GenerateQR(sessionID string) ([]byte, error) { return nil, nil }
func (f *fakeProvider) IsConnected() bool                           { return true }
func (f *fakeProvider) StartKeepAlive(ctx context.Context)          {}
func (f *fakeProvider) GetProviderName() string                     { return "fake" }
func (f *fakeProvider) StartTyping(phoneNumber string) error        { return nil }
func (f *fakeProvider) StopTyping(phoneNumber string) error         { return nil }

func TestService_SendMessage(t *testing.T) {
	fake := &fakeProvider{}
	svc := NewServiceWithProvider(fake)
	svc.SetRateLimit(1000, 10)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.SendMessage("+51999888777", "hola"))
	}
	assert.Len(t, fake.sent, 3)
	assert.Equal(t, "+51999888777: hola", fake.sent[0])
}

func TestService_DownloadMedia(t *testing.T) {
	fake := &fakeProvider{download: []byte("from-provider")}
	svc := NewServiceWithProvider(fake)
	ctx := context.Background()

	data, err := svc.DownloadMedia(ctx, &Media{Data: []byte("inline")})
	require.NoError(t, err)
	assert.Equal(t, "inline", string(data))

	data, err = svc.DownloadMedia(ctx, &Media{ID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "from-provider", string(data))

	_, err = svc.DownloadMedia(ctx, nil)
	assert.Error(t, err)
}

func TestCloudWebhookPayload_Messages(t *testing.T) {
	body := `{
		"object": "whatsapp_business_account",
		"entry": [{"id": "1", "changes": [{"field": "messages", "value": {
			"messaging_product": "whatsapp",
			"messages": [
				{"from": "51999888777", "id": "wamid.1", "timestamp": "1700000000", "type": "text", "text": {"body": "hola"}},
				{"from": "51999888777", "id": "wamid.2", "timestamp": "1700000001", "type": "image", "image": {"id": "media-1", "mime_type": "image/jpeg", "caption": "voucher"}},
				{"from": "51999888777", "id": "wamid.3", "timestamp": "1700000002", "type": "sticker"}
			]
		}}]}]
	}`

	var payload CloudWebhookPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	msgs := payload.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hola", msgs[0].Text)
	assert.Equal(t, int64(1700000000), msgs[0].Timestamp.Unix())
	assert.False(t, msgs[0].HasMedia())

	require.True(t, msgs[1].HasMedia())
	assert.True(t, msgs[1].Media.IsImage())
	assert.Equal(t, "media-1", msgs[1].Media.ID)
	assert.Equal(t, "voucher", msgs[1].Text)
}

func TestCloudAPIProvider_SendAndDownload(t *testing.T) {
	var sentTo string
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/v18.0/phone-1/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		sentTo, _ = body["to"].(string)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v18.0/media-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"url": srv.URL + "/files/media-1"})
	})
	mux.HandleFunc("/files/media-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "jpeg-bytes")
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	p, err := NewCloudAPIProvider(CloudAPIConfig{PhoneID: "phone-1", AccessToken: "token-1", GraphURL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, p.SendMessage("+51999888777", "hola"))
	assert.Equal(t, "51999888777", sentTo)

	data, err := p.DownloadMedia(context.Background(), &Media{ID: "media-1"})
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestWhatsappAddress(t *testing.T) {
	assert.Equal(t, "whatsapp:+51999888777", whatsappAddress("+51999888777"))
	assert.Equal(t, "whatsapp:+51999888777", whatsappAddress("51999888777"))
	assert.Equal(t, "whatsapp:+14155238886", whatsappAddress("whatsapp:+14155238886"))
	assert.Equal(t, "51999888777@c.us", chatID("+51999888777"))
	assert.Equal(t, "51999888777@c.us", chatID("51999888777@c.us"))
}
