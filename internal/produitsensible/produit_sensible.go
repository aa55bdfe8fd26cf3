package produitsensible

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmastock/inventory-api/internal/apperror"
	"github.com/pharmastock/inventory-api/internal/category"
)

// DangerLevel grades how hazardous a regulated product is.
type DangerLevel string

const (
	DangerHigh   DangerLevel = "Élevé"
	DangerMedium DangerLevel = "Moyen"
	DangerLow    DangerLevel = "Faible"
)

func (d DangerLevel) Valid() bool {
	switch d {
	case DangerHigh, DangerMedium, DangerLow:
		return true
	}
	return false
}

const (
	DefaultAlertThreshold     = 5
	DefaultLegalRestrictions  = "Produit soumis à prescription médicale obligatoire"
	defaultPrescriptionNeeded = true
)

var ErrNotFound = apperror.NotFound("Produit sensible non trouvé")

// Product maps to the `produits_sensibles` table.
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
	Lot                  *string           `json:"lot"`
	DangerLevel          DangerLevel       `json:"niveau_danger"`
	LegalRestrictions    *string           `json:"restrictions_legales"`
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
	Lot                  *string            `json:"lot"`
	DangerLevel          *DangerLevel       `json:"niveau_danger"`
	LegalRestrictions    *string            `json:"restrictions_legales"`
}

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
	if p.Lot != nil {
		dst.Lot = p.Lot
	}
	if p.DangerLevel != nil {
		dst.DangerLevel = *p.DangerLevel
	}
	if p.LegalRestrictions != nil {
		dst.LegalRestrictions = p.LegalRestrictions
	}
}
