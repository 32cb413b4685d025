package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// ProviderInfo is satisfied by the WhatsApp and tabular services
type ProviderInfo interface {
	GetProviderName() string
}

type HealthHandler struct {
	whatsapp ProviderInfo
	backend  string
}

func NewHealthHandler(whatsapp ProviderInfo, tabularBackend string) *HealthHandler {
	return &HealthHandler{whatsapp: whatsapp, backend: tabularBackend}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "cafe-order-bot",
		"provider": h.whatsapp.GetProviderName(),
		"tabular":  h.backend,
	})
}
