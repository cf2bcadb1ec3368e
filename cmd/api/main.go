package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bargainly/bargainly-backend/api/controllers"
	"github.com/bargainly/bargainly-backend/api/routes"
	"github.com/bargainly/bargainly-backend/internal/bargaining"
	"github.com/bargainly/bargainly-backend/internal/catalog"
	"github.com/bargainly/bargainly-backend/internal/credentials"
	"github.com/bargainly/bargainly-backend/pkg/auth/session"
	"github.com/bargainly/bargainly-backend/pkg/config"
	"github.com/bargainly/bargainly-backend/pkg/db"
	"github.com/bargainly/bargainly-backend/pkg/logger"
	"github.com/bargainly/bargainly-backend/pkg/metrics"
	"github.com/bargainly/bargainly-backend/pkg/migrate"
	"github.com/bargainly/bargainly-backend/pkg/pubsub"
	"github.com/bargainly/bargainly-backend/pkg/redis"
	"github.com/bargainly/bargainly-backend/pkg/shopify"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	var pubsubClient *pubsub.Client
	var pubsubPinger controllers.Pinger
	var eventPublisher bargaining.EventPublisher
	if cfg.PubSub.Enabled {
		pubsubClient, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		pubsubPinger = pubsubClient
		eventPublisher = pubsubClient
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	syncMetrics := metrics.NewSyncMetrics(registry)

	shopifyClient := shopify.NewClient(cfg.Shopify, logg)

	credentialService, err := credentials.NewService(credentials.ServiceParams{
		CredentialRepo: credentials.NewRepository(dbClient.DB()),
		Shopify:        cfg.Shopify,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create credential service", err)
		os.Exit(1)
	}

	bargainingService, err := bargaining.NewService(bargaining.ServiceParams{
		PolicyRepo:  bargaining.NewRepository(dbClient.DB()),
		Credentials: credentialService,
		Catalog:     shopifyClient,
		Events:      eventPublisher,
		Metrics:     syncMetrics,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bargaining service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Credentials: credentialService,
		Catalog:     shopifyClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:            cfg,
			Logger:            logg,
			DB:                dbClient,
			Redis:             redisClient,
			PubSub:            pubsubPinger,
			Sessions:          sessionManager,
			SessionManager:    sessionManager,
			RateLimitStore:    redisClient,
			BargainingService: bargainingService,
			CatalogService:    catalogService,
			CredentialService: credentialService,
			MetricsRegistry:   registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdown
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
