package handlers

import (
	"fmt"
	"log/slog"
	"strings"

	"toyland/internal/dto"
	"toyland/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for token issuance.
type AuthHandler struct {
	tokens   *services.TokenService
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{
		tokens:   tokens,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the token route with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/jwt", h.HandleIssueToken)
}

// HandleIssueToken signs a token for the email in the request body.
// There is no credential check; the email is taken at face value.
func (h *AuthHandler) HandleIssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Debug("error parsing token request body", "error", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		var fields []string
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				fields = append(fields, fmt.Sprintf("field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
			}
		}
		return badRequest(c, "validation failed: "+strings.Join(fields, ", "))
	}

	token, err := h.tokens.Issue(req.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.TokenResponse{Token: token})
}
