package handler

import (
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/cart"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CartHandler struct {
	logger *zap.Logger
	carts  *cart.Store
	menu   service.MenuService
}

func NewCartHandler(logger *zap.Logger, carts *cart.Store, menu service.MenuService) *CartHandler {
	return &CartHandler{logger: logger, carts: carts, menu: menu}
}

// Get returns the cart contents together with the priced totals, so the
// client never computes money on its own.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	items := h.carts.Items(userID)

	return c.JSON(fiber.Map{
		"items":  items,
		"totals": domain.Totals(items),
	})
}

type addCartItemRequest struct {
	Category string `json:"category"`
	ID       string `json:"id"`
}

// Add puts one unit of a catalog item in the cart. The client only names the
// item; name and price come from the menu catalog, so a forged request body
// cannot change what the order will cost.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req addCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Category == "" || req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category and id are required"})
	}

	item, err := h.menu.Item(c.UserContext(), req.Category, req.ID)
	if err != nil {
		return respondError(c, err)
	}

	h.carts.Add(userID, domain.CartItem{
		ID:       item.ItemID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})

	items := h.carts.Items(userID)

	return c.JSON(fiber.Map{
		"items":  items,
		"totals": domain.Totals(items),
	})
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	itemID := c.Params("itemId")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "item id is required"})
	}

	h.carts.Remove(userID, itemID)

	items := h.carts.Items(userID)

	return c.JSON(fiber.Map{
		"items":  items,
		"totals": domain.Totals(items),
	})
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	h.carts.Clear(userID)

	return c.SendStatus(fiber.StatusNoContent)
}
