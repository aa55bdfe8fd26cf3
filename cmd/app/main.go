package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pharmastock/inventory-api/internal/cache"
	"github.com/pharmastock/inventory-api/internal/category"
	"github.com/pharmastock/inventory-api/internal/config"
	"github.com/pharmastock/inventory-api/internal/database"
	"github.com/pharmastock/inventory-api/internal/health"
	"github.com/pharmastock/inventory-api/internal/historique"
	"github.com/pharmastock/inventory-api/internal/logging"
	"github.com/pharmastock/inventory-api/internal/produit"
	"github.com/pharmastock/inventory-api/internal/produitsensible"
	"github.com/pharmastock/inventory-api/internal/statistique"
	"github.com/pharmastock/inventory-api/internal/stock"
	"github.com/pharmastock/inventory-api/internal/storage"
)

const (
	productListCacheKey = "produits:list"
	shutdownTimeout     = 10 * time.Second
)

// repositories groups one backend's implementations.
type repositories struct {
	produits   produit.Repository
	sensibles  produitsensible.Repository
	historique historique.Repository
	stats      statistique.Repository
	tx         storage.Transactor
	pinger     health.Pinger
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Mode: cfg.LogMode, File: cfg.LogFile})
	defer func() { _ = logger.Sync() }()

	// prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repos repositories
	switch cfg.Store {
	case config.StoreMemory:
		repos = memoryRepositories()
		logger.Info("using in-memory store")
	default:
		db := mustOpenDB(ctx, cfg, logger)
		defer db.Close()
		repos = postgresRepositories(db)
	}

	audit := historique.NewService(repos.historique, logger)
	produitService := produit.NewService(repos.produits, repos.tx, audit, logger)
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("product list cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			produitService.WithCache(cache.NewValue[[]produit.Product](client, productListCacheKey, cfg.CacheTTL, logger))
			logger.Info("product list cache enabled", zap.String("redis", cfg.RedisAddr))
		}
	}
	sensibleService := produitsensible.NewService(repos.sensibles, repos.tx, audit, logger)
	engine := stock.NewEngine(repos.tx, produitService, audit, logger)

	logCounts(ctx, logger, produitService, sensibleService)

	app := fiber.New(fiber.Config{AppName: "inventory-api"})
	app.Use(recover.New())
	app.Use(logging.RequestID())
	app.Use(logging.Middleware(logger))
	setupCORS(app)

	health.NewHandler(repos.pinger, health.Counters{
		Products:   produitService.Count,
		Sensitive:  sensibleService.Count,
		Categories: produitService.CountCategories,
	}, logger).RegisterPublicRoutes(app)

	api := app.Group(cfg.APIPrefix)
	produit.NewHandler(produitService).RegisterPublicRoutes(api)
	produitsensible.NewHandler(sensibleService).RegisterPublicRoutes(api)
	stock.NewHandler(engine).RegisterPublicRoutes(api)
	historique.NewHandler(audit).RegisterPublicRoutes(api)
	statistique.NewHandler(statistique.NewService(repos.stats)).RegisterPublicRoutes(api)
	category.NewHandler().RegisterPublicRoutes(api)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("prefix", cfg.APIPrefix))
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders:  "Origin, Content-Type, Accept, " + logging.RequestIDHeader,
		ExposeHeaders: logging.RequestIDHeader,
	}))
}

func mustOpenDB(ctx context.Context, cfg config.Config, logger *zap.Logger) *sql.DB {
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}
	return db
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		produits:   produit.NewPostgresRepository(db),
		sensibles:  produitsensible.NewPostgresRepository(db),
		historique: historique.NewPostgresRepository(db),
		stats:      statistique.NewPostgresRepository(db),
		tx:         storage.NewSQLTransactor(db),
		pinger:     db,
	}
}

func memoryRepositories() repositories {
	produits := produit.NewInMemoryRepository(nil)
	return repositories{
		produits:   produits,
		sensibles:  produitsensible.NewInMemoryRepository(nil),
		historique: historique.NewInMemoryRepository(),
		stats:      statistique.NewInMemoryRepository(produits),
		tx:         storage.NoopTransactor{},
	}
}

func logCounts(ctx context.Context, logger *zap.Logger, produits *produit.Service, sensibles *produitsensible.Service) {
	normal, err := produits.Count(ctx)
	if err != nil {
		logger.Warn("could not count products", zap.Error(err))
		return
	}
	sensitive, err := sensibles.Count(ctx)
	if err != nil {
		logger.Warn("could not count sensitive products", zap.Error(err))
		return
	}
	logger.Info("catalog loaded", zap.Int("produits_normaux", normal), zap.Int("produits_sensibles", sensitive))
}
