package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spinwin/prizewheel-backend/internal/agents"
	"github.com/spinwin/prizewheel-backend/internal/cron"
	"github.com/spinwin/prizewheel-backend/internal/inventory"
	"github.com/spinwin/prizewheel-backend/internal/products"
	"github.com/spinwin/prizewheel-backend/pkg/config"
	"github.com/spinwin/prizewheel-backend/pkg/db"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"github.com/spinwin/prizewheel-backend/pkg/metrics"
	"github.com/spinwin/prizewheel-backend/pkg/migrate"
	"github.com/spinwin/prizewheel-backend/pkg/redis"
)

const lockKeyFormat = "cron-worker:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockKey(cfg.App.Env)), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	lowStockJob, err := cron.NewLowStockJob(cron.LowStockJobParams{
		Logger:    logg,
		Inventory: inventory.NewRepository(dbClient.DB()),
		Agents:    agents.NewRepository(dbClient.DB()),
		Products:  products.NewRepository(dbClient.DB()),
		Metrics:   metrics.NewInventoryMetrics(prometheus.DefaultRegisterer),
		Threshold: cfg.Cron.LowStockThreshold,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create low stock job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(lowStockJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
