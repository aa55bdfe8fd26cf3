package produitsensible

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pharmastock/inventory-api/internal/apperror"
	"github.com/pharmastock/inventory-api/internal/historique"
	"github.com/pharmastock/inventory-api/internal/storage"
)

type AuditRecorder interface {
	Record(ctx context.Context, rec historique.Record) (historique.Entry, error)
}

type Service struct {
	repo   Repository
	tx     storage.Transactor
	audit  AuditRecorder
	now    func() time.Time
	logger *zap.Logger
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

func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Store("produitsensible.list", err)
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id int) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, apperror.Store("produitsensible.get", err)
	}
	return p, nil
}

// Create requires nom, prix, categorie and nom_fabricant. Prescription is
// required unless the payload explicitly says false.
func (s *Service) Create(ctx context.Context, in Payload) (Product, error) {
	if err := validateCreate(in); err != nil {
		return Product{}, err
	}

	now := s.now()
	restrictions := DefaultLegalRestrictions
	p := Product{
		AlertThreshold:       DefaultAlertThreshold,
		PrescriptionRequired: defaultPrescriptionNeeded,
		DangerLevel:          DangerHigh,
		LegalRestrictions:    &restrictions,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	in.apply(&p)
	if p.LegalRestrictions == nil || strings.TrimSpace(*p.LegalRestrictions) == "" {
		p.LegalRestrictions = &restrictions
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
		return Product{}, apperror.Store("produitsensible.create", err)
	}
	s.logger.Info("produit sensible created",
		zap.Int("id", created.ID),
		zap.String("nom", created.Name),
		zap.String("categorie", string(created.Category)))
	return created, nil
}

// Update applies the fields present in the patch. The category and danger
// level enumerations are the only checks, as for the table constraints.
func (s *Service) Update(ctx context.Context, id int, patch Payload) (Product, error) {
	if err := validateEnums(patch); err != nil {
		return Product{}, err
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
		return Product{}, apperror.Store("produitsensible.update", err)
	}
	s.logger.Info("produit sensible updated", zap.Int("id", updated.ID))
	return updated, nil
}

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
		return s.record(ctx, historique.ActionDeletion, deleted, "Produit sensible supprimé : "+deleted.Name)
	})
	if err != nil {
		return apperror.Store("produitsensible.delete", err)
	}
	s.logger.Info("produit sensible deleted", zap.Int("id", id), zap.String("nom", deleted.Name))
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
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
		Kind:        historique.KindSensitive,
		Details:     details,
	})
	return err
}

func validateCreate(in Payload) error {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" ||
		in.Price == nil ||
		in.Category == nil || *in.Category == "" ||
		in.Manufacturer == nil || strings.TrimSpace(*in.Manufacturer) == "" {
		return apperror.Validation("Nom, prix, catégorie et nom du fabricant sont obligatoires")
	}
	if in.Price.IsNegative() {
		return apperror.Validation("Le prix doit être positif ou nul")
	}
	return validateEnums(in)
}

func validateEnums(in Payload) error {
	if in.Category != nil && !in.Category.IsSensitive() {
		return apperror.Validation(fmt.Sprintf("Catégorie invalide pour un produit sensible : %s", *in.Category))
	}
	if in.DangerLevel != nil && !in.DangerLevel.Valid() {
		return apperror.Validation(fmt.Sprintf("Niveau de danger invalide : %s", *in.DangerLevel))
	}
	return nil
}
