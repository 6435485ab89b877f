package middleware

import (
	"log/slog"
	"strings"

	"toyland/internal/dto"
	"toyland/internal/services"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// UnauthorizedMessage is returned for every rejected token.
const UnauthorizedMessage = "unauthorized access"

// AuthRequired is a Fiber middleware that rejects requests without a valid
// bearer token. Claims of accepted tokens are stored in the request locals.
func AuthRequired(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c)
		}

		// Expected format: "Bearer <token>". The scheme is case-insensitive.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c)
		}

		claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			slog.Debug("jwt validation failed", "path", c.Path(), "error", err)
			return unauthorized(c)
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext returns the claims attached by AuthRequired.
func ClaimsFromContext(c *fiber.Ctx) (*services.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*services.Claims)
	return claims, ok && claims != nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: UnauthorizedMessage,
	})
}
