package handlers

import (
	"crypto/subtle"
	"log"
	"strings"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/services"
	"github.com/gofiber/fiber/v2"
)

// StatusHandler receives order and customer changes made by operators in
// the spreadsheet
type StatusHandler struct {
	statusService *services.StatusService
	secretToken   string
}

func NewStatusHandler(statusService *services.StatusService, secretToken string) *StatusHandler {
	if secretToken == "" {
		log.Println("⚠️ WEBHOOK_SECRET_TOKEN is empty, /webhook-estado will reject every request")
	}
	return &StatusHandler{
		statusService: statusService,
		secretToken:   secretToken,
	}
}

// ReceiveStatus godoc
// @Summary Status change webhook
// @Description Apply an order status change (cambio_estado) or a customer approval (aprobacion_cliente) and notify the customer on WhatsApp
// @Tags Webhook
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body services.StatusEvent true "Status event"
// @Success 200 {object} services.StatusResult
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /webhook-estado [post]
func (h *StatusHandler) ReceiveStatus(c *fiber.Ctx) error {
	if !h.authorized(c.Get(fiber.HeaderAuthorization)) {
		log.Printf("⚠️ Unauthorized status webhook from %s", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "No autorizado",
		})
	}

	ev, err := services.DecodeStatusEvent(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := h.statusService.Apply(c.UserContext(), ev)
	if err != nil {
		if services.IsBadRequest(err) {
			log.Printf("⚠️ Rejected status event %q: %v", ev.Tipo, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("❌ Failed to apply status event %q: %v", ev.Tipo, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(result)
}

func (h *StatusHandler) authorized(header string) bool {
	if h.secretToken == "" {
		return false
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(h.secretToken)) == 1
}
