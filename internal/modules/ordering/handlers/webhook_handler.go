package handlers

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/whatsapp"
	"github.com/gofiber/fiber/v2"
)

// InboundProcessor receives transport messages. *services.BotService
// satisfies it and processes each message in its own goroutine.
type InboundProcessor interface {
	HandleInbound(msg *whatsapp.InboundMessage)
}

// SignatureValidator checks Twilio request signatures.
// *whatsapp.TwilioProvider satisfies it.
type SignatureValidator interface {
	ValidateWebhook(url string, params map[string]string, signature string) bool
}

type WebhookHandler struct {
	inbound          InboundProcessor
	twilio           SignatureValidator
	cloudVerifyToken string
	publicBaseURL    string
}

// WebhookOptions configures the transport-specific checks. A nil Twilio
// validator disables signature checks.
type WebhookOptions struct {
	Twilio           SignatureValidator
	CloudVerifyToken string
	// PublicBaseURL is the externally visible scheme and host, used to
	// rebuild the URL Twilio signed when running behind a proxy
	PublicBaseURL string
}

func NewWebhookHandler(inbound InboundProcessor, opts WebhookOptions) *WebhookHandler {
	return &WebhookHandler{
		inbound:          inbound,
		twilio:           opts.Twilio,
		cloudVerifyToken: opts.CloudVerifyToken,
		publicBaseURL:    strings.TrimRight(opts.PublicBaseURL, "/"),
	}
}

// WAHAWebhookPayload represents incoming WAHA webhook message
type WAHAWebhookPayload struct {
	Event   string `json:"event"`
	Session string `json:"session"`
	Payload struct {
		ID        string `json:"id"`
		Timestamp int64  `json:"timestamp"`
		From      string `json:"from"` // Format: 51xxx@c.us
		FromMe    bool   `json:"fromMe"`
		Body      string `json:"body"`
		HasMedia  bool   `json:"hasMedia"`
		Media     *struct {
			URL      string `json:"url"`
			Mimetype string `json:"mimetype"`
			Filename string `json:"filename"`
		} `json:"media"`
	} `json:"payload"`
}

// ReceiveWebhook godoc
// @Summary WAHA webhook receiver
// @Description Receive message events from a WAHA server
// @Tags Webhook
// @Accept json
// @Produce json
// @Param payload body WAHAWebhookPayload true "WAHA event"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /webhook [post]
func (h *WebhookHandler) ReceiveWebhook(c *fiber.Ctx) error {
	var payload WAHAWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("❌ Failed to parse webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid payload",
		})
	}

	msg := payload.toInbound()
	if msg == nil {
		log.Printf("⏭️ Skipping event - Event: %s, FromMe: %v, From: %s",
			payload.Event, payload.Payload.FromMe, payload.Payload.From)
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	h.inbound.HandleInbound(msg)
	return c.JSON(fiber.Map{"status": "received"})
}

// toInbound returns nil for events that are not customer messages: acks,
// session events, our own messages, group chats and empty bodies.
func (p *WAHAWebhookPayload) toInbound() *whatsapp.InboundMessage {
	m := p.Payload
	if p.Event != "message" || m.FromMe || m.From == "" || strings.HasSuffix(m.From, "@g.us") {
		return nil
	}

	msg := &whatsapp.InboundMessage{
		ID:        m.ID,
		Sender:    m.From,
		Text:      m.Body,
		Timestamp: time.Now(),
	}
	if m.Timestamp > 0 {
		msg.Timestamp = time.Unix(m.Timestamp, 0)
	}
	if m.HasMedia && m.Media != nil && m.Media.URL != "" {
		msg.Media = &whatsapp.Media{
			URL:         m.Media.URL,
			ContentType: m.Media.Mimetype,
			Filename:    m.Media.Filename,
		}
	}
	if msg.Text == "" && msg.Media == nil {
		return nil
	}
	return msg
}

// ReceiveTwilio godoc
// @Summary Twilio webhook receiver
// @Description Receive WhatsApp messages posted by Twilio. Replies are sent through the REST API, so the TwiML response is empty.
// @Tags Webhook
// @Accept x-www-form-urlencoded
// @Produce xml
// @Param From formData string true "Sender (whatsapp:+51...)"
// @Param Body formData string false "Message text"
// @Param NumMedia formData int false "Attachment count"
// @Param MediaUrl0 formData string false "First attachment URL"
// @Param MediaContentType0 formData string false "First attachment content type"
// @Success 200 {string} string "<Response></Response>"
// @Failure 403 {object} map[string]interface{}
// @Router /webhook/twilio [post]
func (h *WebhookHandler) ReceiveTwilio(c *fiber.Ctx) error {
	params := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		params[string(key)] = string(value)
	})

	if h.twilio != nil {
		signature := c.Get("X-Twilio-Signature")
		if !h.twilio.ValidateWebhook(h.requestURL(c), params, signature) {
			log.Printf("⚠️ Rejected Twilio webhook with invalid signature from %s", c.IP())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "invalid signature",
			})
		}
	}

	msg := &whatsapp.InboundMessage{
		ID:        params["MessageSid"],
		Sender:    params["From"],
		Text:      params["Body"],
		Timestamp: time.Now(),
	}
	if n, _ := strconv.Atoi(params["NumMedia"]); n > 0 && params["MediaUrl0"] != "" {
		msg.Media = &whatsapp.Media{
			URL:         params["MediaUrl0"],
			ContentType: params["MediaContentType0"],
		}
	}

	if msg.Sender == "" || (msg.Text == "" && msg.Media == nil) {
		log.Printf("⏭️ Skipping Twilio post without sender or content")
	} else {
		h.inbound.HandleInbound(msg)
	}

	c.Set(fiber.HeaderContentType, "text/xml")
	return c.SendString("<Response></Response>")
}

func (h *WebhookHandler) requestURL(c *fiber.Ctx) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL + c.OriginalURL()
	}
	return c.BaseURL() + c.OriginalURL()
}

// VerifyCloud godoc
// @Summary Cloud API webhook verification
// @Description Answer the hub challenge Meta sends when the webhook is registered
// @Tags Webhook
// @Produce plain
// @Param hub.mode query string true "subscribe"
// @Param hub.verify_token query string true "Verify token"
// @Param hub.challenge query string true "Challenge to echo"
// @Success 200 {string} string
// @Failure 403 {object} map[string]interface{}
// @Router /webhook/cloud [get]
func (h *WebhookHandler) VerifyCloud(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")

	if mode != "subscribe" || h.cloudVerifyToken == "" || token != h.cloudVerifyToken {
		log.Printf("⚠️ Cloud API verification failed (mode: %s)", mode)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "verification failed",
		})
	}

	log.Println("✅ Cloud API webhook verified")
	return c.SendString(c.Query("hub.challenge"))
}

// ReceiveCloud godoc
// @Summary Cloud API webhook receiver
// @Description Receive message notifications from the WhatsApp Cloud API
// @Tags Webhook
// @Accept json
// @Produce json
// @Param payload body map[string]interface{} true "Cloud API notification"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /webhook/cloud [post]
func (h *WebhookHandler) ReceiveCloud(c *fiber.Ctx) error {
	var payload whatsapp.CloudWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("❌ Failed to parse Cloud API webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid payload",
		})
	}

	messages := payload.Messages()
	for _, msg := range messages {
		h.inbound.HandleInbound(msg)
	}

	return c.JSON(fiber.Map{"status": "received", "messages": len(messages)})
}
