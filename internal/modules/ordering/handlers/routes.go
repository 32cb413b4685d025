package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Routes groups the handlers of the bot API. Nil handlers are not mounted.
type Routes struct {
	Health       *HealthHandler
	WhatsApp     *WhatsAppHandler
	Webhook      *WebhookHandler
	Status       *StatusHandler
	Orders       *OrderHandler
	Conversation *ConversationHandler
	// EnableSimulator mounts POST /simulate
	EnableSimulator bool
}

func (r Routes) Register(app fiber.Router) {
	if r.Health != nil {
		app.Get("/health", r.Health.GetHealth)
	}

	// WhatsApp routes
	if r.WhatsApp != nil {
		app.Get("/whatsapp/qr", r.WhatsApp.GetQRCode)
		app.Get("/whatsapp/status", r.WhatsApp.GetStatus)
	}

	// Webhook routes
	if r.Webhook != nil {
		app.Post("/webhook", r.Webhook.ReceiveWebhook)
		app.Post("/webhook/twilio", r.Webhook.ReceiveTwilio)
		app.Get("/webhook/cloud", r.Webhook.VerifyCloud)
		app.Post("/webhook/cloud", r.Webhook.ReceiveCloud)
	}
	if r.Status != nil {
		app.Post("/webhook-estado", r.Status.ReceiveStatus)
	}

	// Order routes. /orders/export must be registered before /orders/:id.
	if r.Orders != nil {
		app.Get("/orders", r.Orders.ListOrders)
		app.Get("/orders/export", r.Orders.ExportOrders)
		app.Get("/orders/:id", r.Orders.GetOrder)
		app.Put("/orders/:id/proof", r.Orders.AttachProof)
	}

	// Conversation routes
	if r.Conversation != nil {
		app.Get("/conversations/:phone", r.Conversation.GetConversation)
		if r.EnableSimulator {
			app.Post("/simulate", r.Conversation.Simulate)
		}
	}
}
