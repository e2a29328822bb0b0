package handler

import (
	"strconv"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OrderHandler struct {
	logger *zap.Logger
	orders service.OrderService
}

func NewOrderHandler(logger *zap.Logger, orders service.OrderService) *OrderHandler {
	return &OrderHandler{logger: logger, orders: orders}
}

func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	orders, err := h.orders.ListForUser(c.UserContext(), userID)
	if err != nil {
		applog.Error(c.UserContext(), h.logger, "failed to list orders", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"orders": orders})
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	order, err := h.orders.GetForUser(c.UserContext(), orderID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(order)
}

// ListAll is the back-office view of every order across customers.
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	orders, err := h.orders.ListAll(c.UserContext())
	if err != nil {
		applog.Error(c.UserContext(), h.logger, "failed to list all orders", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"orders": orders})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) SetStatus(c *fiber.Ctx) error {
	_, email, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	var req setStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	order, err := h.orders.SetStatus(c.UserContext(), email, orderID, req.Status)
	if err != nil {
		applog.Warn(c.UserContext(), h.logger, "status update rejected",
			zap.Int64("order_id", orderID), zap.String("status", req.Status), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(order)
}
