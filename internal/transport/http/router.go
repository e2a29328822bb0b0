package http

import (
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/transport/http/handler"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/transport/http/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Cart          *handler.CartHandler
	Checkout      *handler.CheckoutHandler
	Orders        *handler.OrderHandler
	Subscriptions *handler.SubscriptionHandler
	Menu          *handler.MenuHandler
}

// RegisterRoutes wires the public, authenticated and admin route groups.
func RegisterRoutes(app *fiber.App, h Handlers, authService service.AuthService) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.Refresh)
	authGroup.Post("/admin/register", h.Auth.RegisterAdmin)

	// The menu is browsable without an account.
	app.Get("/menu/categories", h.Menu.Categories)
	app.Get("/menu/categories/:category/items", h.Menu.Items)

	api := app.Group("/api", middleware.NewAuthMiddleware())

	api.Get("/cart", h.Cart.Get)
	api.Post("/cart/items", h.Cart.Add)
	api.Delete("/cart/items/:itemId", h.Cart.Remove)
	api.Delete("/cart", h.Cart.Clear)

	api.Put("/checkout/form", h.Checkout.SaveForm)
	api.Post("/checkout/order", h.Checkout.PlaceOrder)

	api.Get("/orders", h.Orders.ListMine)
	api.Get("/orders/:id", h.Orders.Get)

	api.Post("/subscriptions", h.Subscriptions.Create)
	api.Get("/subscriptions", h.Subscriptions.ListMine)
	api.Get("/subscriptions/:id", h.Subscriptions.Get)
	api.Put("/subscriptions/:id", h.Subscriptions.Update)
	api.Delete("/subscriptions/:id", h.Subscriptions.Delete)

	admin := api.Group("/admin", middleware.NewAdminMiddleware(authService))

	admin.Get("/orders", h.Orders.ListAll)
	admin.Patch("/orders/:id/status", h.Orders.SetStatus)

	admin.Get("/subscriptions/roster", h.Subscriptions.Roster)

	admin.Post("/menu/categories", h.Menu.AddCategory)
	admin.Delete("/menu/categories/:category", h.Menu.RemoveCategory)
	admin.Put("/menu/categories/:category/items", h.Menu.SaveItem)
	admin.Delete("/menu/categories/:category/items/:itemId", h.Menu.RemoveItem)
}
