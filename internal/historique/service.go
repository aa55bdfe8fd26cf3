package historique

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pharmastock/inventory-api/internal/apperror"
)

const (
	maxNameLength    = 255
	maxDetailsLength = 2000
	maxActorLength   = 160
)

// Service writes and reads the audit trail.
type Service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Record appends one entry. Catalogs call it inside the same transaction as
// the mutation it describes, so a failure here aborts that mutation.
func (s *Service) Record(ctx context.Context, rec Record) (Entry, error) {
	entry := Entry{
		Action:     Action(sanitizeText(string(rec.Action), 120)),
		ProductID:  rec.ProductID,
		Actor:      sanitizeText(rec.Actor, maxActorLength),
		CheckoutID: rec.CheckoutID,
		CreatedAt:  s.now(),
	}
	if entry.Actor == "" {
		entry.Actor = DefaultActor
	}
	// the snapshot is kept exactly as the catalog stored it
	if rec.ProductName != "" {
		name := truncateRunes(rec.ProductName, maxNameLength)
		entry.ProductName = &name
	}
	if rec.Kind != "" {
		k := rec.Kind
		entry.Kind = &k
	}
	if details := sanitizeText(rec.Details, maxDetailsLength); details != "" {
		entry.Details = &details
	}

	saved, err := s.repo.Append(ctx, entry)
	if err != nil {
		s.logger.Warn("audit append failed",
			zap.String("action", string(entry.Action)),
			zap.Error(err))
		return Entry{}, apperror.Store("historique.append", err)
	}
	return saved, nil
}

// Query returns entries newest first. Limit defaults to DefaultLimit and is
// capped at MaxLimit.
func (s *Service) Query(ctx context.Context, f Filter) ([]Entry, error) {
	f.Action = strings.TrimSpace(f.Action)
	f.Kind = strings.TrimSpace(f.Kind)
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	entries, err := s.repo.Query(ctx, f)
	if err != nil {
		return nil, apperror.Store("historique.query", err)
	}
	return entries, nil
}

// sanitizeText trims input, drops control characters other than newline and
// tab, and truncates to limit characters.
func sanitizeText(input string, limit int) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	var b strings.Builder
	n := 0
	for _, r := range input {
		if r < 32 && r != '\n' && r != '\t' {
			continue
		}
		if n == limit {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func truncateRunes(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
