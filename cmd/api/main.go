package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/flipradar-backend/api/controllers"
	"github.com/angelmondragon/flipradar-backend/api/routes"
	"github.com/angelmondragon/flipradar-backend/internal/arbitrage"
	"github.com/angelmondragon/flipradar-backend/internal/bidding"
	"github.com/angelmondragon/flipradar-backend/internal/deals"
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

	pingers := map[string]controllers.Pinger{
		"db":    dbClient,
		"redis": redisClient,
	}

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
		pingers["pubsub"] = pubsubClient
	}

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)

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

	biddingService, err := bidding.NewService(bidding.ServiceParams{
		Gateway:  bidding.NewSimulatedGateway(nil),
		Sessions: bidding.NewSessionRepository(dbClient.DB()),
		Config:   cfg.Bidding,
		Metrics:  engineMetrics,
		Log:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bidding service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			Pingers:         pingers,
			Pricing:         pricingService,
			Deals:           dealService,
			Scorer:          arbitrage.NewScorer(),
			Bidding:         biddingService,
			MetricsGatherer: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
