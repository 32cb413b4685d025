// internal/core/whatsapp/whatsmeow.go
package whatsapp

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image/png"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"
	qrcode "github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite"
)

// WhatsmeowProvider talks to WhatsApp directly over the multi-device protocol.
// Inbound messages arrive as events, so it is the only provider whose
// StartListening does real work.
type WhatsmeowProvider struct {
	client   *whatsmeow.Client
	storeURL string
}

func NewWhatsmeowProvider(storeURL string) *WhatsmeowProvider {
	return &WhatsmeowProvider{
		storeURL: storeURL,
	}
}

func (w *WhatsmeowProvider) GetProviderName() string {
	return "Whatsmeow"
}

// initStore opens the device store: postgres when a URL is configured,
// otherwise a local sqlite file.
func (w *WhatsmeowProvider) initStore(ctx context.Context) (*sqlstore.Container, error) {
	dbLog := waLog.Stdout("Database", "ERROR", true)

	if w.storeURL != "" {
		log.Println("🌐 Using PostgreSQL database for WhatsApp device store")
		container, err := sqlstore.New(ctx, "postgres", w.storeURL, dbLog)
		if err != nil {
			return nil, fmt.Errorf("failed to init PostgreSQL store: %w", err)
		}
		if err := container.Upgrade(ctx); err != nil {
			return nil, fmt.Errorf("failed to upgrade PostgreSQL schema: %w", err)
		}
		return container, nil
	}

	log.Println("💾 Using local SQLite device store (store.db)")
	rawDB, err := sql.Open("sqlite", "file:store.db?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if _, err = rawDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		log.Printf("⚠️ Failed to enable foreign_keys pragma: %v", err)
	}

	container := sqlstore.NewWithDB(rawDB, "sqlite", dbLog)
	if err := container.Upgrade(ctx); err != nil {
		return nil, fmt.Errorf("failed to upgrade SQLite schema: %w", err)
	}
	return container, nil
}

func (w *WhatsmeowProvider) newClient(ctx context.Context) (*whatsmeow.Client, error) {
	container, err := w.initStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}
	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "INFO", true)), nil
}

func (w *WhatsmeowProvider) Connect() error {
	ctx := context.Background()
	client, err := w.newClient(ctx)
	if err != nil {
		return err
	}
	w.client = client

	if w.client.Store.ID != nil {
		if err := w.client.Connect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
		log.Println("✅ Reconnected to WhatsApp")
		return nil
	}

	qrChan, _ := w.client.GetQRChannel(ctx)
	if err := w.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	for evt := range qrChan {
		switch evt.Event {
		case "code":
			log.Println("🔗 Scan this QR code in WhatsApp:", evt.Code)
			if err := qrcode.WriteFile(evt.Code, qrcode.Medium, 256, "whatsapp-qr.png"); err != nil {
				log.Printf("⚠️ Failed to write QR image: %v", err)
			} else {
				log.Println("🖼️ QR code saved to whatsapp-qr.png")
			}
		case "success":
			log.Println("✅ WhatsApp pairing successful")
			return nil
		case "timeout":
			return fmt.Errorf("QR code timeout")
		}
	}
	return nil
}

func (w *WhatsmeowProvider) Disconnect() {
	if w.client != nil {
		w.client.Disconnect()
		log.Println("🔌 Whatsmeow client disconnected")
	}
}

func (w *WhatsmeowProvider) SendMessage(phoneNumber, message string) error {
	if w.client == nil {
		return fmt.Errorf("client not initialized")
	}

	jid, err := toJID(phoneNumber)
	if err != nil {
		return err
	}
	msg := &waProto.Message{
		Conversation: proto.String(message),
	}

	_, err = w.client.SendMessage(context.Background(), jid, msg)
	return err
}

// StartListening converts whatsmeow message events into InboundMessages.
// Own messages, group chats and status broadcasts are ignored. Image bytes are
// downloaded eagerly because whatsmeow media keys are only valid on the event.
func (w *WhatsmeowProvider) StartListening(handler func(msg *InboundMessage)) error {
	if w.client == nil {
		return fmt.Errorf("client not initialized")
	}

	w.client.AddEventHandler(func(evt interface{}) {
		m, ok := evt.(*events.Message)
		if !ok || m.Info.IsFromMe || m.Info.IsGroup || m.Info.Chat.Server == types.BroadcastServer {
			return
		}

		msg := &InboundMessage{
			ID:        m.Info.ID,
			Sender:    m.Info.Sender.ToNonAD().String(),
			Timestamp: m.Info.Timestamp,
		}

		switch {
		case m.Message.GetConversation() != "":
			msg.Text = m.Message.GetConversation()
		case m.Message.GetExtendedTextMessage() != nil:
			msg.Text = m.Message.GetExtendedTextMessage().GetText()
		case m.Message.GetImageMessage() != nil:
			img := m.Message.GetImageMessage()
			data, err := w.client.Download(context.Background(), img)
			if err != nil {
				log.Printf("⚠️ Failed to download image %s: %v", m.Info.ID, err)
				return
			}
			msg.Text = img.GetCaption()
			msg.Media = &Media{
				ID:          m.Info.ID,
				ContentType: img.GetMimetype(),
				Data:        data,
			}
		default:
			return
		}

		handler(msg)
	})
	return nil
}

// DownloadMedia is only reached for media without bytes, which whatsmeow
// never produces.
func (w *WhatsmeowProvider) DownloadMedia(ctx context.Context, media *Media) ([]byte, error) {
	if media != nil && len(media.Data) > 0 {
		return media.Data, nil
	}
	return nil, fmt.Errorf("whatsmeow media must be downloaded when the event arrives")
}

// GenerateQR pairs a fresh client and returns the first QR code as PNG.
// whatsmeow holds a single session per store, so sessionID is ignored.
func (w *WhatsmeowProvider) GenerateQR(sessionID string) ([]byte, error) {
	ctx := context.Background()
	client, err := w.newClient(ctx)
	if err != nil {
		return nil, err
	}

	qrChan, _ := client.GetQRChannel(ctx)
	go func() {
		_ = client.Connect()
	}()

	for evt := range qrChan {
		switch evt.Event {
		case "code":
			img, err := qrcode.New(evt.Code, qrcode.Medium)
			if err != nil {
				client.Disconnect()
				return nil, fmt.Errorf("failed to generate QR: %w", err)
			}
			var buf bytes.Buffer
			if err := png.Encode(&buf, img.Image(256)); err != nil {
				client.Disconnect()
				return nil, fmt.Errorf("failed to encode QR png: %w", err)
			}

			go func(cli *whatsmeow.Client) {
				time.Sleep(5 * time.Minute)
				cli.Disconnect()
			}(client)
			return buf.Bytes(), nil
		case "timeout", "error":
			client.Disconnect()
			return nil, fmt.Errorf("QR generation failed: %s", evt.Event)
		}
	}

	return nil, fmt.Errorf("no QR generated")
}

func (w *WhatsmeowProvider) IsConnected() bool {
	return w.client != nil && w.client.IsConnected()
}

// StartKeepAlive sends an availability presence every minute until ctx ends.
func (w *WhatsmeowProvider) StartKeepAlive(ctx context.Context) {
	if w.client == nil {
		return
	}

	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	log.Println("🔄 Keep-alive started (ping every 60s)")
	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Keep-alive stopped")
			return
		case <-ticker.C:
			if !w.IsConnected() {
				continue
			}
			if err := w.client.SendPresence(ctx, types.PresenceAvailable); err != nil {
				log.Printf("⚠️ Keep-alive ping failed: %v", err)
			}
		}
	}
}

func (w *WhatsmeowProvider) StartTyping(phoneNumber string) error {
	return w.chatPresence(phoneNumber, types.ChatPresenceComposing)
}

func (w *WhatsmeowProvider) StopTyping(phoneNumber string) error {
	return w.chatPresence(phoneNumber, types.ChatPresencePaused)
}

func (w *WhatsmeowProvider) chatPresence(phoneNumber string, state types.ChatPresence) error {
	if !w.IsConnected() {
		return fmt.Errorf("whatsmeow client not connected")
	}
	jid, err := toJID(phoneNumber)
	if err != nil {
		return err
	}
	return w.client.SendChatPresence(context.Background(), jid, state, types.ChatPresenceMediaText)
}

// toJID accepts a canonical phone or a full JID such as a group id
func toJID(address string) (types.JID, error) {
	if strings.Contains(address, "@") {
		jid, err := types.ParseJID(address)
		if err != nil {
			return types.JID{}, fmt.Errorf("invalid JID %q: %w", address, err)
		}
		return jid, nil
	}
	return types.NewJID(digits(address), types.DefaultUserServer), nil
}
