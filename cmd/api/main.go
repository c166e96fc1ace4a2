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
	"go.uber.org/multierr"

	"github.com/grambazaar/storefront-backend/api/controllers"
	"github.com/grambazaar/storefront-backend/api/routes"
	"github.com/grambazaar/storefront-backend/internal/address"
	"github.com/grambazaar/storefront-backend/internal/auth"
	"github.com/grambazaar/storefront-backend/internal/notifications"
	"github.com/grambazaar/storefront-backend/internal/orders"
	"github.com/grambazaar/storefront-backend/internal/products"
	"github.com/grambazaar/storefront-backend/internal/seed"
	"github.com/grambazaar/storefront-backend/internal/shops"
	"github.com/grambazaar/storefront-backend/internal/users"
	"github.com/grambazaar/storefront-backend/pkg/auth/reset"
	"github.com/grambazaar/storefront-backend/pkg/config"
	"github.com/grambazaar/storefront-backend/pkg/db"
	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/maps"
	"github.com/grambazaar/storefront-backend/pkg/metrics"
	"github.com/grambazaar/storefront-backend/pkg/migrate"
	"github.com/grambazaar/storefront-backend/pkg/pricing"
	"github.com/grambazaar/storefront-backend/pkg/redis"
	"github.com/grambazaar/storefront-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

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
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api exited", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	notificationMetrics := metrics.NewNotificationMetrics(registry)

	var dispatcher notifications.Dispatcher
	if cfg.Notifications.UsesRedis() {
		dispatcher, err = notifications.NewRedisQueue(redisClient)
		if err != nil {
			return err
		}
	} else {
		sink := notifications.NewRouter(
			notifications.NewSMSSink(logg),
			notifications.NewEmailSink(cfg.SMTP, logg),
		)
		async, asyncErr := notifications.NewAsyncDispatcher(sink, notifications.AsyncOptions{
			Workers:     cfg.Notifications.Workers,
			QueueSize:   cfg.Notifications.QueueSize,
			SendTimeout: cfg.Notifications.SendTimeout,
		}, logg, notificationMetrics)
		if asyncErr != nil {
			return asyncErr
		}
		defer func() {
			drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			err = multierr.Append(err, async.Shutdown(drainCtx))
		}()
		dispatcher = async
	}

	var geocoder orders.Geocoder
	if cfg.GoogleMaps.Enabled() {
		client, mapsErr := maps.NewClient(
			cfg.GoogleMaps.APIKey,
			maps.WithRegion(cfg.GoogleMaps.Region),
			maps.WithTimeout(cfg.GoogleMaps.Timeout),
		)
		if mapsErr != nil {
			return mapsErr
		}
		geocoder = client
	} else {
		logg.Warn(ctx, "google maps disabled, delivery distance falls back to the default")
	}

	shopService, err := shops.NewService(shops.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	productService, err := products.NewService(products.NewRepository(dbClient.DB()), logg)
	if err != nil {
		return err
	}
	orderService, err := orders.NewService(orders.Deps{
		Repo:          orders.NewRepository(dbClient.DB()),
		Tx:            dbClient,
		Dispatcher:    dispatcher,
		Geocoder:      geocoder,
		Schedule:      pricing.ScheduleFromConfig(cfg.Pricing),
		FallbackKm:    cfg.Pricing.FallbackDistanceKm,
		FallbackEmail: cfg.Notifications.FallbackTo,
		Logger:        logg,
		Metrics:       metrics.NewOrderMetrics(registry),
	})
	if err != nil {
		return err
	}
	addressService, err := address.NewService(address.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return err
	}
	resetTokens, err := reset.NewStore(redisClient, reset.DefaultTTL)
	if err != nil {
		return err
	}
	hasher := security.NewPasswordHasher(cfg.Password)
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:    users.NewRepository(dbClient.DB()),
		ResetTokens: resetTokens,
		Hasher:      hasher,
		Dispatcher:  dispatcher,
		JWTConfig:   cfg.JWT,
		Logger:      logg,
	})
	if err != nil {
		return err
	}

	var devSeeder controllers.Seeder
	if cfg.App.Env == config.AppEnvDev {
		seeder, err := seed.NewSeeder(dbClient, hasher, logg)
		if err != nil {
			return err
		}
		devSeeder = seeder
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"notifications": cfg.Notifications.Mode,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			shopService,
			productService,
			orderService,
			addressService,
			authService,
			devSeeder,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(serverCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
