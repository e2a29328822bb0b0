package handler

import (
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/checkout"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	logger   *zap.Logger
	stash    checkout.Stash
	orders   service.OrderService
	validate *validator.Validate
}

func NewCheckoutHandler(logger *zap.Logger, stash checkout.Stash, orders service.OrderService) *CheckoutHandler {
	return &CheckoutHandler{
		logger:   logger,
		stash:    stash,
		orders:   orders,
		validate: validator.New(),
	}
}

// SaveForm stashes the delivery details collected on the checkout screen.
// The stash expires on its own if the order is never placed.
func (h *CheckoutHandler) SaveForm(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var form checkout.FormData
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validate.Struct(&form); err != nil {
		return respondError(c, err)
	}

	if err := h.stash.Put(c.UserContext(), userID, &form); err != nil {
		applog.Error(c.UserContext(), h.logger, "failed to stash checkout form", zap.Error(err))
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PlaceOrder finalizes the checkout. Resubmitting the same cart returns the
// order created the first time with a 200 instead of a 201.
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	userID, email, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	order, created, err := h.orders.Finalize(c.UserContext(), userID, email)
	if err != nil {
		applog.Warn(c.UserContext(), h.logger, "checkout failed",
			zap.Int64("user_id", userID), zap.Error(err))
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}

	return c.Status(status).JSON(order)
}
