package handlers

import (
	"log/slog"
	"net/url"

	"toyland/internal/dto"
	"toyland/internal/middleware"
	"toyland/internal/models"
	"toyland/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ForbiddenMessage is returned when a token's email does not match the requested listing.
const ForbiddenMessage = "forbidden access"

// ToyHandler handles HTTP requests for toy listings.
type ToyHandler struct {
	service *services.ToyService
}

// NewToyHandler creates a new ToyHandler.
func NewToyHandler(service *services.ToyService) *ToyHandler {
	return &ToyHandler{
		service: service,
	}
}

// RegisterRoutes registers the toy routes. auth guards the seller listing.
func (h *ToyHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/alltoys", h.HandleGetAllToys)
	router.Get("/mytoys", auth, h.HandleGetMyToys)
	router.Get("/toys/:id", h.HandleGetToyByID)
	router.Get("/category/:category", h.HandleGetToysByCategory)
	router.Get("/searchToys/:name", h.HandleSearchToys)
	router.Post("/addToy", h.HandleAddToy)
	router.Patch("/toyUpdate/:id", h.HandleUpdateToy)
	router.Delete("/toyDelete/:id", h.HandleDeleteToy)
}

// HandleGetAllToys lists every toy.
func (h *ToyHandler) HandleGetAllToys(c *fiber.Ctx) error {
	toys, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toys)
}

// HandleGetMyToys lists the toys of the seller named by the email query
// parameter. The token's email must match it; otherwise no query is made.
func (h *ToyHandler) HandleGetMyToys(c *fiber.Ctx) error {
	email := c.Query("email")
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok || email == "" || claims.Email != email {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error:   true,
			Message: ForbiddenMessage,
		})
	}

	toys, err := h.service.ListBySeller(c.UserContext(), email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toys)
}

// HandleGetToyByID returns one toy, or an empty 200 response when none matches.
func (h *ToyHandler) HandleGetToyByID(c *fiber.Ctx) error {
	toy, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if toy == nil {
		return c.Status(fiber.StatusOK).Send(nil)
	}
	return c.JSON(toy)
}

// HandleGetToysByCategory lists the toys whose category matches exactly.
func (h *ToyHandler) HandleGetToysByCategory(c *fiber.Ctx) error {
	category, err := pathParam(c, "category")
	if err != nil {
		return badRequest(c, "invalid category")
	}
	toys, err := h.service.ListByCategory(c.UserContext(), category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toys)
}

// HandleSearchToys lists the toys whose name contains the path parameter.
func (h *ToyHandler) HandleSearchToys(c *fiber.Ctx) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return badRequest(c, "invalid search name")
	}
	toys, err := h.service.SearchByName(c.UserContext(), name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toys)
}

// HandleAddToy stores a new toy and returns the insert acknowledgment.
func (h *ToyHandler) HandleAddToy(c *fiber.Ctx) error {
	var toy models.Toy
	if err := c.BodyParser(&toy); err != nil {
		slog.Debug("error parsing add toy body", "error", err)
		return badRequest(c, "invalid request body")
	}

	res, err := h.service.Create(c.UserContext(), &toy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// HandleUpdateToy overwrites the listing fields of a toy and returns the update acknowledgment.
func (h *ToyHandler) HandleUpdateToy(c *fiber.Ctx) error {
	var toy models.Toy
	if err := c.BodyParser(&toy); err != nil {
		slog.Debug("error parsing update toy body", "error", err)
		return badRequest(c, "invalid request body")
	}

	res, err := h.service.Update(c.UserContext(), c.Params("id"), &toy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// HandleDeleteToy removes a toy and returns the delete acknowledgment.
func (h *ToyHandler) HandleDeleteToy(c *fiber.Ctx) error {
	res, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// pathParam returns the percent-decoded value of a route parameter, so an
// encoded slash stays inside the parameter.
func pathParam(c *fiber.Ctx, key string) (string, error) {
	return url.PathUnescape(c.Params(key))
}
