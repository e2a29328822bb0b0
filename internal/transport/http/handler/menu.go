package handler

import (
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type MenuHandler struct {
	logger *zap.Logger
	menu   service.MenuService
}

func NewMenuHandler(logger *zap.Logger, menu service.MenuService) *MenuHandler {
	return &MenuHandler{logger: logger, menu: menu}
}

func (h *MenuHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.menu.Categories(c.UserContext())
	if err != nil {
		applog.Error(c.UserContext(), h.logger, "failed to list categories", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"categories": categories})
}

func (h *MenuHandler) Items(c *fiber.Ctx) error {
	category := c.Params("category")
	if category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category is required"})
	}

	items, err := h.menu.Items(c.UserContext(), category)
	if err != nil {
		applog.Error(c.UserContext(), h.logger, "failed to list menu items",
			zap.String("category", category), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"category": category, "items": items})
}

type addCategoryRequest struct {
	Name string `json:"name"`
}

func (h *MenuHandler) AddCategory(c *fiber.Ctx) error {
	var req addCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category name is required"})
	}

	category, err := h.menu.AddCategory(c.UserContext(), req.Name)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *MenuHandler) RemoveCategory(c *fiber.Ctx) error {
	name := c.Params("category")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category is required"})
	}

	if err := h.menu.RemoveCategory(c.UserContext(), name); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type saveItemRequest struct {
	ItemID      string  `json:"itemId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

func (h *MenuHandler) SaveItem(c *fiber.Ctx) error {
	category := c.Params("category")
	if category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category is required"})
	}

	var req saveItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ItemID == "" || req.Name == "" || req.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "itemId, name and a non-negative price are required"})
	}

	item := &domain.MenuItem{
		Category:    category,
		ItemID:      req.ItemID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}

	if err := h.menu.SaveItem(c.UserContext(), item); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *MenuHandler) RemoveItem(c *fiber.Ctx) error {
	category := c.Params("category")
	itemID := c.Params("itemId")
	if category == "" || itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category and item id are required"})
	}

	if err := h.menu.RemoveItem(c.UserContext(), category, itemID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
