package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/merchpilot/reco-console/api"
	"github.com/merchpilot/reco-console/config"
	"github.com/merchpilot/reco-console/internal/backend"
	"github.com/merchpilot/reco-console/internal/cache"
	"github.com/merchpilot/reco-console/internal/fixture"
	"github.com/merchpilot/reco-console/internal/metrics"
)

func main() {
	// Define command-line flags
	var (
		help    = flag.Bool("help", false, "Show help message")
		version = flag.Bool("version", false, "Show version information")
		port    = flag.String("port", "", "Port to run the server on (overrides PORT)")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Reco Console - admin dashboard for the recommendation platform\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nConfiguration comes from the environment (see .env support):\n")
		fmt.Printf("  BACKEND_BASE_URL   webhook backend base URL; empty serves fixture data\n")
		fmt.Printf("  BACKEND_API_KEY    X-API-Key for the webhook backend\n")
		fmt.Printf("  DEFAULT_TENANT     tenant used when requests name none\n")
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start on port 8080 with fixture data\n", os.Args[0])
		fmt.Printf("  %s --port 9000              # Start on port 9000\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Reco Console v1.0.0\n")
		fmt.Printf("Rules, catalog, ingestion and analytics over the recommendation backend\n")
		return
	}

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		settings.Port = *port
	}

	logger, err := newLogger(settings.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	deps := buildDeps(settings, logger, m)

	// Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware(logger))
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(settings.MaxRequestBytes))
	router.Use(api.RateLimitMiddleware(settings.RateLimitRPS, settings.RateLimitBurst))

	// Setup API routes
	api.SetupRoutes(router, deps, registry)

	// Start the server
	logger.Info("starting server",
		zap.String("port", settings.Port),
		zap.Bool("fixtures", settings.UseFixtures()),
		zap.String("tenant", settings.DefaultTenant))
	if err := router.Run(":" + settings.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// buildDeps wires the handler collaborators: fixture implementations
// when no backend is configured, otherwise webhook clients with the
// fixture dataset as standby for reads.
func buildDeps(settings *config.Settings, logger *zap.Logger, m *metrics.Metrics) api.Deps {
	fixtureRules := fixture.NewRuleStore()
	fixtureIngestion := fixture.NewIngestion()

	if settings.UseFixtures() {
		logger.Info("no backend configured, serving fixture dataset")
		return api.Deps{
			Rules:         fixtureRules,
			Catalog:       fixture.NewCatalog(),
			Reco:          fixture.NewRecommender(),
			Ingestion:     fixtureIngestion,
			Analytics:     fixture.NewAnalytics(),
			Health:        fixture.NewHealth(fixtureIngestion),
			Logger:        logger,
			DefaultTenant: settings.DefaultTenant,
		}
	}

	client := backend.NewClient(settings, logger, m)

	var recoCache cache.Cache = cache.NewMemory()
	if settings.RedisAddr != "" {
		recoCache = cache.NewRedis(redis.NewClient(&redis.Options{
			Addr:     settings.RedisAddr,
			Password: settings.RedisPassword,
			DB:       settings.RedisDB,
		}))
		logger.Info("using redis recommendation cache", zap.String("addr", settings.RedisAddr))
	}

	return api.Deps{
		Rules: backend.NewFallbackRuleStore(
			backend.NewRuleStore(client, settings.DefaultTenant),
			fixtureRules, logger, m),
		Catalog: backend.NewCatalog(client, settings.DefaultTenant, settings.LookupChunkSize),
		Reco: backend.NewCachedRecommender(
			backend.NewRecommender(client, settings.DefaultTenant),
			recoCache, settings.RecoCacheTTL, logger, m),
		Ingestion:     backend.NewIngestion(client, settings.DefaultTenant),
		Analytics:     backend.NewAnalytics(client, settings.DefaultTenant),
		Health:        backend.NewFallbackHealth(backend.NewHealth(client), logger, m),
		Logger:        logger,
		DefaultTenant: settings.DefaultTenant,
	}
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}
