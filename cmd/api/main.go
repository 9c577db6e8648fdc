package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/routes"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/companies"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/credit"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/orders"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/users"
	shopifywebhook "github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/webhooks/shopify"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/wishlist"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/config"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/metrics"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/redis"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/shopify"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	shopifyClient, err := shopify.NewClient(context.Background(), cfg.Shopify, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap shopify client", err)
		os.Exit(1)
	}

	creditRepo := credit.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	companiesRepo := companies.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())

	creditCalc, err := credit.NewCalculator(creditRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create credit calculator", err)
		os.Exit(1)
	}

	creditEngine, err := credit.NewEngine(creditRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create credit engine", err)
		os.Exit(1)
	}

	companiesSvc, err := companies.NewService(companiesRepo, usersRepo, creditRepo, dbClient, shopifyClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create company service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(ordersRepo, usersRepo, creditEngine, dbClient, shopifyClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	wishlistSvc, err := wishlist.NewService(wishlistRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	webhookSvc, err := shopifywebhook.NewService(ordersSvc, webhookMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := shopifywebhook.NewIdempotencyGuard(redisClient, cfg.Webhook.EventTTL, "shopify-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			creditCalc,
			creditRepo,
			companiesSvc,
			ordersSvc,
			wishlistSvc,
			shopifyClient,
			webhookSvc,
			webhookGuard,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
