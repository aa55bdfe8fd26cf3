package stock

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterPublicRoutes(router fiber.Router) {
	router.Patch("/stock/change", h.changeStock)
}

type changeRequest struct {
	Items      json.RawMessage `json:"items"`
	CheckoutID json.RawMessage `json:"checkoutId"`
}

func (h *Handler) changeStock(c *fiber.Ctx) error {
	batch, ok := parseBatch(c.Body())
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid items payload"})
	}
	return c.JSON(h.engine.Apply(c.UserContext(), batch))
}

// parseBatch accepts any body whose items field is a JSON array. checkoutId
// may be a string or a number and is kept as text.
func parseBatch(body []byte) (Batch, bool) {
	var req changeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return Batch{}, false
	}
	raw := bytes.TrimSpace(req.Items)
	if len(raw) == 0 || raw[0] != '[' {
		return Batch{}, false
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return Batch{}, false
	}
	return Batch{Items: items, CheckoutID: parseCheckoutID(req.CheckoutID)}, true
}

func parseCheckoutID(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		v := n.String()
		return &v
	}
	return nil
}
