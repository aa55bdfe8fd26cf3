package produit

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
	router.Get("/produits", h.listProduits)
	router.Get("/produits/:id", h.getProduit)
	router.Post("/produits", h.createProduit)
	router.Put("/produits/:id", h.updateProduit)
	router.Delete("/produits/:id", h.deleteProduit)
}

func (h *Handler) listProduits(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) getProduit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperror.Respond(c, apperror.Validation("Identifiant invalide"))
	}
	p, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) createProduit(c *fiber.Ctx) error {
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

func (h *Handler) updateProduit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperror.Respond(c, apperror.Validation("Identifiant invalide"))
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

func (h *Handler) deleteProduit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperror.Respond(c, apperror.Validation("Identifiant invalide"))
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return apperror.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
