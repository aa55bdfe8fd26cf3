package statistique

import (
	"github.com/shopspring/decimal"

	"github.com/pharmastock/inventory-api/internal/category"
)

// CategoryStat aggregates the regular products of one category.
type CategoryStat struct {
	Category      category.Category `json:"categorie"`
	Total         int               `json:"total"`
	TotalQuantity int               `json:"quantite_totale"`
	AveragePrice  decimal.Decimal   `json:"prix_moyen"`
}

// Alert is a product whose quantity is at or below its alert threshold.
type Alert struct {
	ID             int               `json:"id"`
	Name           string            `json:"nom"`
	Category       category.Category `json:"categorie"`
	Quantity       int               `json:"quantite"`
	AlertThreshold int               `json:"seuil_alerte"`
}

// averagePlaces is the number of decimals kept in prix_moyen.
const averagePlaces = 2
