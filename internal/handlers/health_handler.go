package handlers

import (
	"time"

	"toyland/internal/dto"
	"toyland/internal/services"

	"github.com/gofiber/fiber/v2"
)

const statusText = "Toyland server is running."

// HealthHandler serves the liveness and store health routes.
type HealthHandler struct {
	toys *services.ToyService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(toys *services.ToyService) *HealthHandler {
	return &HealthHandler{toys: toys}
}

// RegisterRoutes registers the health routes with the Fiber app.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.Status)
	router.Get("/health", h.Check)
}

// Status answers with a plain text liveness string.
func (h *HealthHandler) Status(c *fiber.Ctx) error {
	return c.SendString(statusText)
}

// Check reports whether the store answers a ping.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, store := "healthy", "ok"
	code := fiber.StatusOK
	if err := h.toys.Ping(c.UserContext()); err != nil {
		status, store = "degraded", "unreachable: "+err.Error()
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.HealthResponse{
		Status: status,
		Time:   time.Now().UTC().Format(time.RFC3339),
		Store:  store,
	})
}
