package handlers

import (
	"log"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ConversationHandler struct {
	botService   *services.BotService
	historyLimit int
}

func NewConversationHandler(botService *services.BotService, historyLimit int) *ConversationHandler {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &ConversationHandler{
		botService:   botService,
		historyLimit: historyLimit,
	}
}

// GetConversation godoc
// @Summary Get conversation
// @Description Get the conversation state and recent messages of a WhatsApp number
// @Tags Conversations
// @Produce json
// @Param phone path string true "WhatsApp number"
// @Param limit query int false "Messages to return" default(50)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /conversations/{phone} [get]
func (h *ConversationHandler) GetConversation(c *fiber.Ctx) error {
	sender, ok := h.botService.Sender(c.Params("phone"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid phone number",
		})
	}

	state, err := h.botService.Conversation(c.UserContext(), sender)
	if err != nil {
		log.Printf("❌ Failed to load conversation for %s: %v", sender, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load conversation",
		})
	}

	limit := c.QueryInt("limit", h.historyLimit)
	history, err := h.botService.History(c.UserContext(), sender, limit)
	if err != nil {
		log.Printf("⚠️ Failed to load history for %s: %v", sender, err)
	}

	return c.JSON(fiber.Map{
		"phone":    sender,
		"state":    state,
		"messages": history,
	})
}

// SimulateRequest is a message typed into the dev simulator
type SimulateRequest struct {
	Sender   string `json:"sender"`
	Text     string `json:"text"`
	MediaURL string `json:"media_url,omitempty"`
	// MediaType defaults to image/jpeg when MediaURL is set
	MediaType string `json:"media_type,omitempty"`
}

// Simulate godoc
// @Summary Simulate a customer message
// @Description Run a message through the conversation and return the reply without sending it. Development only.
// @Tags Conversations
// @Accept json
// @Produce json
// @Param data body SimulateRequest true "Message"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /simulate [post]
func (h *ConversationHandler) Simulate(c *fiber.Ctx) error {
	var req SimulateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request",
		})
	}

	msg := &whatsapp.InboundMessage{
		ID:        "sim-" + uuid.NewString(),
		Sender:    req.Sender,
		Text:      req.Text,
		Timestamp: time.Now(),
	}
	if req.MediaURL != "" {
		contentType := req.MediaType
		if contentType == "" {
			contentType = "image/jpeg"
		}
		msg.Media = &whatsapp.Media{URL: req.MediaURL, ContentType: contentType}
	}

	reply, err := h.botService.Reply(c.UserContext(), msg)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"to":    reply.To,
		"reply": reply.Text,
		"step":  reply.Step,
	})
}
