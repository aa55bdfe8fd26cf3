package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	checkTimeout = 2 * time.Second

	statusUp       = "Service Produits Médicaux en marche"
	statusDegraded = "Service Produits en marche"
	dbConnected    = "Connecté"
	dbError        = "Erreur connexion"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Counters struct {
	Products   func(ctx context.Context) (int, error)
	Sensitive  func(ctx context.Context) (int, error)
	Categories func(ctx context.Context) (int, error)
}

type Stats struct {
	TotalProducts   int `json:"total_produits"`
	TotalSensitive  int `json:"total_sensibles"`
	TotalCategories int `json:"total_categories"`
}

type Report struct {
	Status     string    `json:"status"`
	Database   string    `json:"database"`
	Statistics *Stats    `json:"statistiques,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type Handler struct {
	pinger   Pinger
	counters Counters
	now      func() time.Time
	logger   *zap.Logger
}

// NewHandler accepts a nil pinger for stores without a connection.
func NewHandler(pinger Pinger, counters Counters, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		pinger:   pinger,
		counters: counters,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

func (h *Handler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/health", h.check)
}

func (h *Handler) check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), checkTimeout)
	defer cancel()

	stats, err := h.collect(ctx)
	if err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(Report{
			Status:    statusDegraded,
			Database:  dbError,
			Error:     err.Error(),
			Timestamp: h.now(),
		})
	}
	return c.JSON(Report{
		Status:     statusUp,
		Database:   dbConnected,
		Statistics: &stats,
		Timestamp:  h.now(),
	})
}

func (h *Handler) collect(ctx context.Context) (Stats, error) {
	var s Stats
	if h.pinger != nil {
		if err := h.pinger.PingContext(ctx); err != nil {
			return s, err
		}
	}
	for _, step := range []struct {
		count func(context.Context) (int, error)
		dst   *int
	}{
		{h.counters.Products, &s.TotalProducts},
		{h.counters.Sensitive, &s.TotalSensitive},
		{h.counters.Categories, &s.TotalCategories},
	} {
		if step.count == nil {
			continue
		}
		n, err := step.count(ctx)
		if err != nil {
			return s, err
		}
		*step.dst = n
	}
	return s, nil
}
