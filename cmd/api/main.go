package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/api/handlers"
	"github.com/docvault/backend/internal/archive"
	rediscache "github.com/docvault/backend/internal/cache/redis"
	"github.com/docvault/backend/internal/extraction"
	blevegw "github.com/docvault/backend/internal/index/bleve"
	"github.com/docvault/backend/internal/ingestion"
	"github.com/docvault/backend/internal/metadata"
	"github.com/docvault/backend/internal/metrics"
	"github.com/docvault/backend/internal/middleware/ratelimit"
	"github.com/docvault/backend/internal/middleware/security"
	"github.com/docvault/backend/internal/middleware/validation"
	"github.com/docvault/backend/internal/search"
	"github.com/docvault/backend/internal/storage/sqlite"
	"github.com/docvault/backend/pkg/config"
	appLogger "github.com/docvault/backend/pkg/logger"
	"github.com/docvault/backend/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("starting document search API server")

	metrics.Init()

	store, err := sqlite.NewClient(cfg.Store.Path)
	if err != nil {
		appLogger.Fatal("failed to create record store", zap.Error(err))
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		appLogger.Fatal("failed to initialize record store schema", zap.Error(err))
	}

	indexClient, err := blevegw.NewClient(cfg.Index.Path)
	if err != nil {
		appLogger.Fatal("failed to open search index", zap.Error(err))
	}
	defer indexClient.Close()

	var cache *rediscache.Client
	if cfg.Redis.Enabled {
		dialCfg := retry.DefaultConfig()
		dialCfg.Logger = appLogger.Log
		err := retry.Do(context.Background(), dialCfg, func() error {
			var dialErr error
			cache, dialErr = rediscache.NewClient(context.Background(), cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
			return dialErr
		})
		if err != nil {
			appLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer cache.Close()
	}

	var archiveStore *archive.Store
	if cfg.Archive.Enabled {
		archiveStore, err = archive.NewStore(cfg.Archive.Location)
		if err != nil {
			appLogger.Fatal("failed to create upload archive", zap.Error(err))
		}
	}

	normalizer := metadata.NewNormalizer(metadata.DefaultCandidates())
	extractor := extraction.NewSniffer()

	var invalidator ingestion.SearchCache
	if cache != nil {
		invalidator = cache
	}
	processor := ingestion.NewProcessor(extractor, normalizer, store, indexClient, invalidator)

	var responseCache search.ResponseCache
	if cache != nil {
		responseCache = cache
	}
	searchService := search.NewService(indexClient, responseCache,
		time.Duration(cfg.Redis.TTLSec)*time.Second, cfg.Search.Limit)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{Logger: appLogger.Log})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	app.Use(validation.Middleware(validation.Config{
		MaxQueryLength: cfg.Search.MaxQueryLength,
		Logger:         appLogger.Log,
	}))

	documentHandler := handlers.NewDocumentHandler(processor, store, archiveStore)
	searchHandler := handlers.NewSearchHandler(searchService)

	api := app.Group("/api/v1")

	api.Post("/documents", documentHandler.UploadDocument)
	api.Get("/documents/:docId", documentHandler.GetDocument)

	api.Post("/search", searchHandler.HandleSearch)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("server stopped")
}
