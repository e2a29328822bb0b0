package handler

import (
	"strconv"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	logger        *zap.Logger
	subscriptions service.SubscriptionService
}

func NewSubscriptionHandler(logger *zap.Logger, subscriptions service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{logger: logger, subscriptions: subscriptions}
}

func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var in service.SubscriptionInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sub, err := h.subscriptions.Create(c.UserContext(), userID, &in)
	if err != nil {
		applog.Warn(c.UserContext(), h.logger, "subscription create failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *SubscriptionHandler) ListMine(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	subs, err := h.subscriptions.ListForUser(c.UserContext(), userID)
	if err != nil {
		applog.Error(c.UserContext(), h.logger, "failed to list subscriptions", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"subscriptions": subs})
}

func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid subscription id"})
	}

	sub, err := h.subscriptions.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	// Subscriptions are private; a foreign id looks like a missing one.
	if sub.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "subscription not found"})
	}

	return c.JSON(sub)
}

func (h *SubscriptionHandler) Update(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid subscription id"})
	}

	var in service.SubscriptionInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sub, err := h.subscriptions.Update(c.UserContext(), userID, id, &in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(sub)
}

func (h *SubscriptionHandler) Delete(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid subscription id"})
	}

	if err := h.subscriptions.Delete(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Roster lists subscriptions active on a given date, grouped by city quarter,
// for planning the day's delivery run.
func (h *SubscriptionHandler) Roster(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date query parameter is required"})
	}

	subs, err := h.subscriptions.Roster(c.UserContext(), date)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"date": date, "subscriptions": subs})
}
