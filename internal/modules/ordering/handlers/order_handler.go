package handlers

import (
	"errors"
	"log"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/export"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/services"
	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func orderFilter(c *fiber.Ctx) services.OrderFilter {
	return services.OrderFilter{
		Phone:      c.Query("phone"),
		Status:     c.Query("status"),
		ActiveOnly: c.QueryBool("active", false),
	}
}

// ListOrders godoc
// @Summary List orders
// @Description List orders from the ledger, newest first
// @Tags Orders
// @Produce json
// @Param phone query string false "Customer WhatsApp number"
// @Param status query string false "Order status (pending_verification, payment_verified, ...)"
// @Param active query bool false "Only orders that are not closed"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.List(c.UserContext(), orderFilter(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  len(orders),
	})
}

// GetOrder godoc
// @Summary Get order
// @Description Get one order by its CAF- id
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.orderService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(order)
}

// ExportOrders godoc
// @Summary Export orders
// @Description Download the filtered orders as an Excel or PDF report
// @Tags Orders
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param format query string false "excel or pdf" default(excel)
// @Param phone query string false "Customer WhatsApp number"
// @Param status query string false "Order status"
// @Param active query bool false "Only orders that are not closed"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Router /orders/export [get]
func (h *OrderHandler) ExportOrders(c *fiber.Ctx) error {
	format, ok := export.ParseFormat(c.Query("format", "excel"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "format must be excel or pdf",
		})
	}

	file, err := h.orderService.Export(c.UserContext(), orderFilter(c), format)
	if err != nil {
		return h.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+file.Name)
	return c.Send(file.Data)
}

// AttachProof godoc
// @Summary Attach payment proof
// @Description Record the URL of a payment proof received outside the chat
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param data body object{url=string} true "Proof URL"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /orders/{id}/proof [put]
func (h *OrderHandler) AttachProof(c *fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request",
		})
	}

	id := c.Params("id")
	if err := h.orderService.AttachProof(c.UserContext(), id, req.URL); err != nil {
		return h.fail(c, err)
	}

	log.Printf("📎 Proof attached to order %s", id)
	return c.JSON(fiber.Map{
		"success":  true,
		"order_id": id,
	})
}

func (h *OrderHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "order not found",
		})
	case services.IsBadRequest(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		log.Printf("❌ Order request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read orders",
		})
	}
}
