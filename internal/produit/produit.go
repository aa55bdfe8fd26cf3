package produit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmastock/inventory-api/internal/apperror"
	"github.com/pharmastock/inventory-api/internal/category"
)

const (
	DefaultAlertThreshold = 10
	DefaultManufacturer   = "Fabricant Inconnu"
)

// ErrNotFound is returned for any lookup of a missing regular product.
var ErrNotFound = apperror.NotFound("Produit non trouvé")

// Product maps to the `produits` table. JSON tags keep the French field names
// of the public API.
type Product struct {
	ID                   int               `json:"id"`
	Name                 string            `json:"nom"`
	Description          *string           `json:"description"`
	Price                decimal.Decimal   `json:"prix"`
	Category             category.Category `json:"categorie"`
	SubCategory          *string           `json:"sous_categorie"`
	Quantity             int               `json:"quantite"`
	AlertThreshold       int               `json:"seuil_alerte"`
	ImageURL             string            `json:"image_url"`
	PrescriptionRequired bool              `json:"necessite_ordonnance"`
	TherapeuticClass     *string           `json:"classe_therapeutique"`
	Manufacturer         string            `json:"nom_fabricant"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// Payload is the request body of POST and PUT. A nil field was not sent.
type Payload struct {
	Name                 *string            `json:"nom"`
	Description          *string            `json:"description"`
	Price                *decimal.Decimal   `json:"prix"`
	Category             *category.Category `json:"categorie"`
	SubCategory          *string            `json:"sous_categorie"`
	Quantity             *int               `json:"quantite"`
	AlertThreshold       *int               `json:"seuil_alerte"`
	ImageURL             *string            `json:"image_url"`
	PrescriptionRequired *bool              `json:"necessite_ordonnance"`
	TherapeuticClass     *string            `json:"classe_therapeutique"`
	Manufacturer         *string            `json:"nom_fabricant"`
}

// apply copies every field set in p onto dst.
func (p Payload) apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = p.Description
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.SubCategory != nil {
		dst.SubCategory = p.SubCategory
	}
	if p.Quantity != nil {
		dst.Quantity = *p.Quantity
	}
	if p.AlertThreshold != nil {
		dst.AlertThreshold = *p.AlertThreshold
	}
	if p.ImageURL != nil {
		dst.ImageURL = *p.ImageURL
	}
	if p.PrescriptionRequired != nil {
		dst.PrescriptionRequired = *p.PrescriptionRequired
	}
	if p.TherapeuticClass != nil {
		dst.TherapeuticClass = p.TherapeuticClass
	}
	if p.Manufacturer != nil {
		dst.Manufacturer = *p.Manufacturer
	}
}
