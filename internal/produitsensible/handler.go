package produitsensible

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
	router.Get("/produits-sensibles", h.list)
	router.Get("/produits-sensibles/:id", h.get)
	router.Post("/produits-sensibles", h.create)
	router.Put("/produits-sensibles/:id", h.update)
	router.Delete("/produits-sensibles/:id", h.delete)
}

func (h *Handler) list(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	p, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) create(c *fiber.Ctx) error {
	var in Payload
	if err := c.BodyParser(&in); err != nil {
		return apperror.Respond(c, apperror.Validation("Corps de requête invalide"))
	}
	created, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	var patch Payload
	if err := c.BodyParser(&patch); err != nil {
		return apperror.Respond(c, apperror.Validation("Corps de requête invalide"))
	}
	updated, err := h.service.Update(c.UserContext(), id, patch)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return apperror.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, apperror.Validation("Identifiant invalide")
	}
	return id, nil
}
