package produit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pharmastock/inventory-api/internal/apperror"
	"github.com/pharmastock/inventory-api/internal/historique"
	"github.com/pharmastock/inventory-api/internal/storage"
)

// AuditRecorder is satisfied by *historique.Service.
type AuditRecorder interface {
	Record(ctx context.Context, rec historique.Record) (historique.Entry, error)
}

// ListCache holds the result of List between mutations.
type ListCache interface {
	Get(ctx context.Context) ([]Product, bool)
	Set(ctx context.Context, products []Product)
	Invalidate(ctx context.Context)
}

type Service struct {
	repo   Repository
	tx     storage.Transactor
	audit  AuditRecorder
	cache  ListCache
	now    func() time.Time
	logger *zap.Logger

	// cacheMu orders Set against Invalidate; cacheGen counts invalidations.
	cacheMu  sync.Mutex
	cacheGen uint64
}

func NewService(repo Repository, tx storage.Transactor, audit AuditRecorder, logger *zap.Logger) *Service {
	if tx == nil {
		tx = storage.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		tx:     tx,
		audit:  audit,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// WithCache enables the read-through cache for List.
func (s *Service) WithCache(c ListCache) *Service {
	s.cache = c
	return s
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.Get(ctx); ok {
			return products, nil
		}
	}
	gen := s.cacheGeneration()
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Store("produit.list", err)
	}
	if s.cache != nil {
		s.cacheMu.Lock()
		// a mutation committed during the read; its list would be stale
		if s.cacheGen == gen {
			s.cache.Set(ctx, products)
		}
		s.cacheMu.Unlock()
	}
	return products, nil
}

func (s *Service) cacheGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.cacheGen
}

func (s *Service) Get(ctx context.Context, id int) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, apperror.Store("produit.get", err)
	}
	return p, nil
}

// Create validates the payload, applies defaults and stores the product
// together with its AJOUT audit entry.
func (s *Service) Create(ctx context.Context, in Payload) (Product, error) {
	if err := validateCreate(in); err != nil {
		return Product{}, err
	}

	now := s.now()
	p := Product{
		AlertThreshold: DefaultAlertThreshold,
		Manufacturer:   DefaultManufacturer,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	in.apply(&p)
	if strings.TrimSpace(p.Manufacturer) == "" {
		p.Manufacturer = DefaultManufacturer
	}

	var created Product
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, p)
		if err != nil {
			return err
		}
		return s.record(ctx, historique.ActionAdd, created, "Produit ajouté : "+created.Name)
	})
	if err != nil {
		return Product{}, apperror.Store("produit.create", err)
	}
	s.InvalidateList(ctx)
	s.logger.Info("produit created", zap.Int("id", created.ID), zap.String("nom", created.Name))
	return created, nil
}

// Update applies the fields present in the patch. Only the category
// enumeration is enforced, matching the table's CHECK constraint.
func (s *Service) Update(ctx context.Context, id int, patch Payload) (Product, error) {
	if patch.Category != nil && !patch.Category.Valid() {
		return Product{}, apperror.Validation(fmt.Sprintf("Catégorie invalide : %s", *patch.Category))
	}

	var updated Product
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		patch.apply(&current)
		current.UpdatedAt = s.now()
		updated, err = s.repo.Update(ctx, current)
		if err != nil {
			return err
		}
		return s.record(ctx, historique.ActionModification, updated, "Produit modifié : "+updated.Name)
	})
	if err != nil {
		return Product{}, apperror.Store("produit.update", err)
	}
	s.InvalidateList(ctx)
	s.logger.Info("produit updated", zap.Int("id", updated.ID))
	return updated, nil
}

// Delete reads the product first so the audit entry keeps its name.
func (s *Service) Delete(ctx context.Context, id int) error {
	var deleted Product
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.record(ctx, historique.ActionDeletion, deleted, "Produit supprimé : "+deleted.Name)
	})
	if err != nil {
		return apperror.Store("produit.delete", err)
	}
	s.InvalidateList(ctx)
	s.logger.Info("produit deleted", zap.Int("id", id), zap.String("nom", deleted.Name))
	return nil
}

// SetQuantity writes a new stock level without touching the audit log; the
// stock engine records its own entries.
func (s *Service) SetQuantity(ctx context.Context, id, quantity int) error {
	if err := s.repo.UpdateQuantity(ctx, id, quantity); err != nil {
		return apperror.Store("produit.set_quantity", err)
	}
	return nil
}

// InvalidateList drops the cached product list, if any.
func (s *Service) InvalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cacheGen++
	s.cache.Invalidate(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) CountCategories(ctx context.Context) (int, error) {
	return s.repo.CountCategories(ctx)
}

func (s *Service) record(ctx context.Context, action historique.Action, p Product, details string) error {
	if s.audit == nil {
		return nil
	}
	id := p.ID
	_, err := s.audit.Record(ctx, historique.Record{
		Action:      action,
		ProductID:   &id,
		ProductName: p.Name,
		Kind:        historique.KindNormal,
		Details:     details,
	})
	return err
}

func validateCreate(in Payload) error {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.Price == nil || in.Category == nil || *in.Category == "" {
		return apperror.Validation("Nom, prix et catégorie sont obligatoires")
	}
	if in.Price.IsNegative() {
		return apperror.Validation("Le prix doit être positif ou nul")
	}
	if !in.Category.Valid() {
		return apperror.Validation(fmt.Sprintf("Catégorie invalide : %s", *in.Category))
	}
	return nil
}

var _ AuditRecorder = (*historique.Service)(nil)
