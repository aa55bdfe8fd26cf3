package category

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/categories", h.getCategories)
}

// getCategories returns the static list; it never touches the store.
func (h *Handler) getCategories(c *fiber.Ctx) error {
	return c.JSON(All)
}
