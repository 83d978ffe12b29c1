package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/flipradar-backend/internal/deals"
	"github.com/angelmondragon/flipradar-backend/internal/jobs"
	"github.com/angelmondragon/flipradar-backend/internal/pricing"
	"github.com/angelmondragon/flipradar-backend/internal/quotes"
	"github.com/angelmondragon/flipradar-backend/pkg/config"
	"github.com/angelmondragon/flipradar-backend/pkg/db"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
	"github.com/angelmondragon/flipradar-backend/pkg/metrics"
	"github.com/angelmondragon/flipradar-backend/pkg/migrate"
	"github.com/angelmondragon/flipradar-backend/pkg/pubsub"
	"github.com/angelmondragon/flipradar-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "deal-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "deal-worker"

	logg = logger.New(logger.Options{
		ServiceName: "deal-worker",
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

	var publisher deals.EventPublisher
	if cfg.FeatureFlags.PublishDeals && cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		publisher, err = deals.NewPubSubPublisher(pubsubClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create deal publisher", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	pricingService, err := pricing.NewService(pricing.ServiceParams{
		Source: quotes.NewSimulatedSource(),
		Config: cfg.Pricing,
		Log:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	history, err := deals.NewRedisHistory(redisClient, cfg.Deals.HistoryLimit)
	if err != nil {
		logg.Error(context.Background(), "failed to create price history store", err)
		os.Exit(1)
	}

	dealService, err := deals.NewService(deals.ServiceParams{
		History:   history,
		Criteria:  deals.NewCriteriaRepository(dbClient.DB()),
		Deals:     deals.NewDealRepository(dbClient.DB()),
		Publisher: publisher,
		Config:    cfg.Deals,
		Metrics:   engineMetrics,
		Log:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create deal service", err)
		os.Exit(1)
	}

	scanJob, err := jobs.NewDealScanJob(jobs.DealScanJobParams{
		Pricing:  pricingService,
		Deals:    dealService,
		Products: cfg.Scan.Products,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create deal scan job", err)
		os.Exit(1)
	}
	expiryJob, err := jobs.NewDealExpiryJob(dealService)
	if err != nil {
		logg.Error(context.Background(), "failed to create deal expiry job", err)
		os.Exit(1)
	}

	lock, err := jobs.NewRedisLock(redisClient, redisClient.LockKey("deal-scan"), cfg.Scan.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create scan lock", err)
		os.Exit(1)
	}

	service, err := jobs.NewService(jobs.ServiceParams{
		Logger:   logg,
		Registry: jobs.NewRegistry(scanJob, expiryJob),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Scan.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scan service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting deal worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "deal worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "deal worker shutting down gracefully")
}
