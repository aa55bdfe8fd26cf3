package stock

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	errProductNotFound   = "product not found"
	errInsufficientStock = "insufficient stock"

	processedMessage = "Stock updates processed"
)

// ProductRef is the productId of a batch item. Clients send numbers or
// strings; the raw value is echoed back unchanged in the result.
type ProductRef struct {
	raw   json.RawMessage
	id    int
	valid bool
}

// NewProductRef builds a reference to a numeric product id.
func NewProductRef(id int) ProductRef {
	return ProductRef{raw: json.RawMessage(strconv.Itoa(id)), id: id, valid: true}
}

func (r *ProductRef) UnmarshalJSON(b []byte) error {
	r.raw = append(r.raw[:0], b...)
	r.id, r.valid = 0, false

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		if id, err := strconv.Atoi(n.String()); err == nil {
			r.id, r.valid = id, true
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if id, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			r.id, r.valid = id, true
		}
	}
	return nil
}

func (r ProductRef) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(r.raw)) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// ID returns the numeric id and whether the reference could be parsed as one.
func (r ProductRef) ID() (int, bool) {
	return r.id, r.valid
}

func (r ProductRef) String() string {
	return string(r.raw)
}

// Item is one signed quantity change.
type Item struct {
	ProductID      ProductRef `json:"productId"`
	QuantityChange int        `json:"quantityChange"`
}

// Batch is the body of PATCH /stock/change. CheckoutID correlates the audit
// entries written for the batch.
type Batch struct {
	Items      []Item
	CheckoutID *string
}

// ItemResult is either a success with quantities or an error message.
type ItemResult struct {
	ProductID      ProductRef `json:"productId"`
	Success        bool       `json:"success,omitempty"`
	Error          string     `json:"error,omitempty"`
	OldQuantity    *int       `json:"oldQuantity,omitempty"`
	NewQuantity    *int       `json:"newQuantity,omitempty"`
	QuantityChange *int       `json:"quantityChange,omitempty"`
}

// Result is returned for every batch, whatever happened to its items.
type Result struct {
	Message    string       `json:"message"`
	CheckoutID *string      `json:"checkoutId"`
	Results    []ItemResult `json:"results"`
}
