package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// QRGenerator renders the pairing QR. *whatsapp.Service satisfies it.
type QRGenerator interface {
	GenerateQR(sessionID string) ([]byte, error)
	IsConnected() bool
	GetProviderName() string
}

type WhatsAppHandler struct {
	whatsappService QRGenerator
}

func NewWhatsAppHandler(whatsappService QRGenerator) *WhatsAppHandler {
	return &WhatsAppHandler{whatsappService: whatsappService}
}

// GetQRCode godoc
// @Summary Get WhatsApp QR Code
// @Description Generate QR code for WhatsApp authentication (whatsmeow and WAHA)
// @Tags WhatsApp
// @Produce image/png
// @Param session_id query string false "Session ID" default(default)
// @Success 200 {file} image/png
// @Failure 500 {object} map[string]interface{}
// @Router /whatsapp/qr [get]
func (h *WhatsAppHandler) GetQRCode(c *fiber.Ctx) error {
	sessionID := c.Query("session_id", "default")

	log.Printf("🔍 Generating QR for session: %s (provider: %s)", sessionID, h.whatsappService.GetProviderName())

	qr, err := h.whatsappService.GenerateQR(sessionID)
	if err != nil {
		log.Printf("❌ Failed to generate QR: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "image/png")
	c.Set("Content-Disposition", "inline; filename=whatsapp-qr.png")
	return c.Send(qr)
}

// GetStatus godoc
// @Summary WhatsApp connection status
// @Tags WhatsApp
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /whatsapp/status [get]
func (h *WhatsAppHandler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"provider":  h.whatsappService.GetProviderName(),
		"connected": h.whatsappService.IsConnected(),
	})
}
