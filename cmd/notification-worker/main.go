package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/grambazaar/storefront-backend/internal/notifications"
	"github.com/grambazaar/storefront-backend/pkg/config"
	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/metrics"
	"github.com/grambazaar/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "notification-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "notification-worker",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sink := notifications.NewRouter(
		notifications.NewSMSSink(logg),
		notifications.NewEmailSink(cfg.SMTP, logg),
	)
	worker, err := notifications.NewWorker(
		redisClient,
		sink,
		cfg.Notifications.SendTimeout,
		logg,
		metrics.NewNotificationMetrics(prometheus.DefaultRegisterer),
	)
	if err != nil {
		logg.Error(ctx, "failed to create notification worker", err)
		os.Exit(1)
	}

	svc, err := NewService(ServiceParams{Logger: logg, Redis: redisClient, Worker: worker})
	if err != nil {
		logg.Error(ctx, "failed to create worker service", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "notification_worker.start")
	if err := svc.Run(ctx); err != nil {
		logg.Error(ctx, "notification worker exited", err)
		os.Exit(1)
	}
	logg.Info(ctx, "notification_worker.done")
}
