package statistique

import (
	"context"

	"github.com/pharmastock/inventory-api/internal/apperror"
	"github.com/pharmastock/inventory-api/internal/category"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CategoryStats groups regular products by category, largest groups first.
func (s *Service) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	stats, err := s.repo.CategoryStats(ctx)
	if err != nil {
		return nil, apperror.Store("statistique.categories", err)
	}
	return stats, nil
}

// LowStockAlerts lists products at or below their threshold, ordered by
// category then quantity. An empty filter means every category.
func (s *Service) LowStockAlerts(ctx context.Context, categories []category.Category) ([]Alert, error) {
	alerts, err := s.repo.LowStockAlerts(ctx, categories)
	if err != nil {
		return nil, apperror.Store("statistique.alertes", err)
	}
	return alerts, nil
}

func (s *Service) TherapeuticClasses(ctx context.Context) ([]string, error) {
	classes, err := s.repo.TherapeuticClasses(ctx)
	if err != nil {
		return nil, apperror.Store("statistique.classes", err)
	}
	return classes, nil
}
