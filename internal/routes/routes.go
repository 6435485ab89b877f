package routes

import (
	"toyland/internal/handlers"
	"toyland/internal/middleware"
	"toyland/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NewApp creates the Fiber app with the shared error handler.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "toyland",
		ErrorHandler: handlers.ErrorHandler,
	})
}

// Setup registers every route on app. Only the seller listing requires a token.
func Setup(
	app *fiber.App,
	tokens *services.TokenService,
	authHandler *handlers.AuthHandler,
	toyHandler *handlers.ToyHandler,
	healthHandler *handlers.HealthHandler,
) {
	healthHandler.RegisterRoutes(app)
	authHandler.RegisterRoutes(app)
	toyHandler.RegisterRoutes(app, middleware.AuthRequired(tokens))
}
