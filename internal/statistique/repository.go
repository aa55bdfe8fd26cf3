package statistique

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pharmastock/inventory-api/internal/category"
	"github.com/pharmastock/inventory-api/internal/produit"
)

// Repository computes the read-only reports over the regular catalog.
type Repository interface {
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
	// LowStockAlerts restricts to the given categories when the list is not empty.
	LowStockAlerts(ctx context.Context, categories []category.Category) ([]Alert, error)
	TherapeuticClasses(ctx context.Context) ([]string, error)
}

// ProductSource is satisfied by produit.Repository.
type ProductSource interface {
	List(ctx context.Context) ([]produit.Product, error)
}

// InMemoryRepository derives the reports from a full product listing; used
// with STORE=memory and in tests.
type InMemoryRepository struct {
	source ProductSource
}

func NewInMemoryRepository(source ProductSource) *InMemoryRepository {
	return &InMemoryRepository{source: source}
}

func (r *InMemoryRepository) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	products, err := r.source.List(ctx)
	if err != nil {
		return nil, err
	}

	type acc struct {
		count    int
		quantity int
		prices   decimal.Decimal
	}
	byCategory := make(map[category.Category]*acc)
	for _, p := range products {
		a, ok := byCategory[p.Category]
		if !ok {
			a = &acc{}
			byCategory[p.Category] = a
		}
		a.count++
		a.quantity += p.Quantity
		a.prices = a.prices.Add(p.Price)
	}

	out := make([]CategoryStat, 0, len(byCategory))
	for c, a := range byCategory {
		out = append(out, CategoryStat{
			Category:      c,
			Total:         a.count,
			TotalQuantity: a.quantity,
			AveragePrice:  a.prices.Div(decimal.NewFromInt(int64(a.count))).Round(averagePlaces),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (r *InMemoryRepository) LowStockAlerts(ctx context.Context, categories []category.Category) ([]Alert, error) {
	products, err := r.source.List(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[category.Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	out := make([]Alert, 0)
	for _, p := range products {
		if p.Quantity > p.AlertThreshold {
			continue
		}
		if len(wanted) > 0 && !wanted[p.Category] {
			continue
		}
		out = append(out, Alert{
			ID:             p.ID,
			Name:           p.Name,
			Category:       p.Category,
			Quantity:       p.Quantity,
			AlertThreshold: p.AlertThreshold,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *InMemoryRepository) TherapeuticClasses(ctx context.Context) ([]string, error) {
	products, err := r.source.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		if p.TherapeuticClass == nil || strings.TrimSpace(*p.TherapeuticClass) == "" {
			continue
		}
		if _, ok := seen[*p.TherapeuticClass]; ok {
			continue
		}
		seen[*p.TherapeuticClass] = struct{}{}
		out = append(out, *p.TherapeuticClass)
	}
	sort.Strings(out)
	return out, nil
}
