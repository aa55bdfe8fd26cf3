package historique

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pharmastock/inventory-api/internal/apperror"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/historique", h.getHistorique)
}

// getHistorique supports ?action=&type_produit=&limit=.
func (h *Handler) getHistorique(c *fiber.Ctx) error {
	f := Filter{
		Action: c.Query("action"),
		Kind:   c.Query("type_produit"),
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil {
			f.Limit = v
		}
	}
	entries, err := h.service.Query(c.UserContext(), f)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(entries)
}
