package statistique

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pharmastock/inventory-api/internal/apperror"
	"github.com/pharmastock/inventory-api/internal/category"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/statistiques/categories", h.getCategoryStats)
	router.Get("/alertes/categories", h.getAlerts)
	router.Get("/classes-therapeutiques", h.getTherapeuticClasses)
}

func (h *Handler) getCategoryStats(c *fiber.Ctx) error {
	stats, err := h.service.CategoryStats(c.UserContext())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(stats)
}

// getAlerts accepts ?categorie=A&categorie=B or ?categorie=A,B.
func (h *Handler) getAlerts(c *fiber.Ctx) error {
	var filter []category.Category
	for _, raw := range c.Context().QueryArgs().PeekMulti("categorie") {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				filter = append(filter, category.Category(v))
			}
		}
	}
	alerts, err := h.service.LowStockAlerts(c.UserContext(), filter)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(alerts)
}

func (h *Handler) getTherapeuticClasses(c *fiber.Ctx) error {
	classes, err := h.service.TherapeuticClasses(c.UserContext())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(classes)
}
