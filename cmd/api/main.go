package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spinwin/prizewheel-backend/api/routes"
	"github.com/spinwin/prizewheel-backend/internal/agents"
	authsvc "github.com/spinwin/prizewheel-backend/internal/auth"
	"github.com/spinwin/prizewheel-backend/internal/inventory"
	"github.com/spinwin/prizewheel-backend/internal/prizes"
	"github.com/spinwin/prizewheel-backend/internal/products"
	"github.com/spinwin/prizewheel-backend/internal/results"
	"github.com/spinwin/prizewheel-backend/internal/spins"
	"github.com/spinwin/prizewheel-backend/internal/stats"
	"github.com/spinwin/prizewheel-backend/pkg/config"
	"github.com/spinwin/prizewheel-backend/pkg/db"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"github.com/spinwin/prizewheel-backend/pkg/metrics"
	"github.com/spinwin/prizewheel-backend/pkg/migrate"
	"github.com/spinwin/prizewheel-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	registry := prometheus.NewRegistry()

	agentsRepo := agents.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	resultsRepo := results.NewRepository(dbClient.DB())
	statsRepo := stats.NewRepository(dbClient.DB())

	resolver, err := prizes.NewResolver(productsRepo)
	requireService(logg, "label resolver", err)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		AdminConfig: cfg.Admin,
		JWTConfig:   cfg.JWT,
		Logger:      logg,
	})
	requireService(logg, "auth service", err)

	agentService, err := agents.NewService(agentsRepo, logg)
	requireService(logg, "agent service", err)

	productService, err := products.NewService(productsRepo, logg)
	requireService(logg, "product service", err)

	inventoryService, err := inventory.NewService(inventoryRepo, dbClient, agentsRepo, productsRepo, logg)
	requireService(logg, "inventory service", err)

	resultsService, err := results.NewService(resultsRepo, logg)
	requireService(logg, "results service", err)

	statsService, err := stats.NewService(statsRepo, logg)
	requireService(logg, "stats service", err)

	spinService, err := spins.NewService(
		dbClient,
		inventoryRepo,
		resultsRepo,
		resolver,
		agentsRepo,
		productsRepo,
		metrics.NewSpinMetrics(registry),
		cfg.Spin,
		logg,
	)
	requireService(logg, "spin service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Registry:  registry,
			Auth:      authService,
			Spins:     spinService,
			Agents:    agentService,
			Products:  productService,
			Inventory: inventoryService,
			Results:   resultsService,
			Stats:     statsService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name, err)
	os.Exit(1)
}
