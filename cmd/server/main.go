package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yourorg/market-snapshot-service/internal/cache"
	"github.com/yourorg/market-snapshot-service/internal/config"
	"github.com/yourorg/market-snapshot-service/internal/handler"
	"github.com/yourorg/market-snapshot-service/internal/metrics"
	"github.com/yourorg/market-snapshot-service/internal/middleware"
	"github.com/yourorg/market-snapshot-service/internal/model"
	"github.com/yourorg/market-snapshot-service/internal/provider"
	"github.com/yourorg/market-snapshot-service/internal/service"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Optional Redis snapshot cache
	var snapshotCache *cache.SnapshotCache
	if cfg.Cache.RedisURL != "" {
		snapshotCache, err = cache.New(cfg.Cache.RedisURL, cfg.Cache.TTL, logger)
		if err != nil {
			logger.Warn("Snapshot cache disabled", zap.Error(err))
			snapshotCache = nil
		} else {
			defer snapshotCache.Close()
		}
	}

	m := metrics.New()

	// Initialize provider adapters and the per-class fallback chains.
	// Keyed providers go first so a supplied API key buys full depth;
	// keyless spot sources come before the synthetic terminal step.
	registry := map[model.AssetClass][]provider.Provider{
		model.AssetCrypto: {
			provider.NewBinanceProvider(cfg.Providers.BinanceURL, logger),
		},
		model.AssetForex: {
			provider.NewAlphaVantageProvider(provider.AlphaVantageForex, cfg.Providers.AlphaVantageURL, cfg.Providers.AlphaVantageKey, logger),
			provider.NewFrankfurterProvider(cfg.Providers.FrankfurterURL, logger),
		},
		model.AssetCommodity: {
			provider.NewMetalsProvider(cfg.Providers.MetalsURL, logger),
		},
		model.AssetStock: {
			provider.NewAlphaVantageProvider(provider.AlphaVantageStock, cfg.Providers.AlphaVantageURL, cfg.Providers.AlphaVantageKey, logger),
			provider.NewYahooProvider(cfg.Providers.YahooURL, logger),
		},
	}

	// Initialize services
	orchestrator := service.NewOrchestrator(registry, provider.NewSyntheticGenerator(), cfg.Providers.Timeout, m, logger)
	snapshotService := service.NewSnapshotService(orchestrator, snapshotCache, m, logger)

	// Initialize handlers
	snapshotHandler := handler.NewSnapshotHandler(snapshotService, logger)

	// Set up HTTP server with Gin
	router := setupRouter(snapshotHandler, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func setupRouter(snapshotHandler *handler.SnapshotHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/snapshot", snapshotHandler.GetSnapshot)
	}

	return router
}
