package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grambazaar/storefront-backend/api/controllers"
	"github.com/grambazaar/storefront-backend/api/middleware"
	"github.com/grambazaar/storefront-backend/internal/address"
	"github.com/grambazaar/storefront-backend/internal/auth"
	"github.com/grambazaar/storefront-backend/internal/orders"
	"github.com/grambazaar/storefront-backend/internal/products"
	"github.com/grambazaar/storefront-backend/internal/shops"
	"github.com/grambazaar/storefront-backend/pkg/config"
	"github.com/grambazaar/storefront-backend/pkg/db"
	"github.com/grambazaar/storefront-backend/pkg/enums"
	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/redis"
)

// redisStore is the slice of the redis client the HTTP layer depends on.
type redisStore interface {
	redis.Pinger
	redis.IdempotencyStore
	redis.WindowLimiter
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient redisStore,
	gatherer prometheus.Gatherer,
	shopService shops.Service,
	productService products.Service,
	orderService orders.Service,
	addressService address.Service,
	authService auth.Service,
	devSeeder controllers.Seeder,
) http.Handler {
	r := chi.NewRouter()
	if cfg.App.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		0,
	)
	forgotPolicy := middleware.NewAuthRateLimitPolicy(
		"forgot_password",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	staff := middleware.RequireRole(logg, enums.UserRoleShopOwner, enums.UserRoleAdmin)
	admin := middleware.RequireRole(logg, enums.UserRoleAdmin)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisClient,
		}))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/shops", func(r chi.Router) {
			r.Get("/", controllers.ShopsList(shopService, logg))
			r.Get("/{id}", controllers.ShopGet(shopService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(productService, logg))
			r.With(middleware.Auth(cfg.JWT, logg), staff).Post("/stock", controllers.ProductAdjustStock(productService, logg))
			r.Get("/{id}", controllers.ProductGet(productService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(
				middleware.OptionalAuth(cfg.JWT, logg),
				middleware.Idempotency(redisClient, cfg.Idempotency.OrderCreateTTL, logg),
			).Post("/", controllers.OrderCreate(orderService, logg))
			r.Get("/user/{email}", controllers.OrdersByCustomer(orderService, logg))
			r.Get("/{id}", controllers.OrderGet(orderService, logg))
			r.With(middleware.Auth(cfg.JWT, logg), staff).Patch("/{id}/status", controllers.OrderUpdateStatus(orderService, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/user/{email}", controllers.AddressList(addressService, logg))
			r.Post("/", controllers.AddressCreate(addressService, logg))
			r.Put("/{id}", controllers.AddressUpdate(addressService, logg))
			r.Delete("/{id}", controllers.AddressDelete(addressService, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
			r.With(middleware.AuthRateLimit(forgotPolicy, redisClient, logg)).Post("/forgot-password", controllers.AuthForgotPassword(authService, logg))
			r.Post("/reset-password", controllers.AuthResetPassword(authService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Get("/profile", controllers.AuthProfile(authService, logg))
				r.Put("/profile", controllers.AuthUpdateProfile(authService, logg))
				r.With(admin).Get("/users", controllers.AuthListUsers(authService, logg))
			})
		})

		// Seeding wipes the catalogue, so it only exists in dev.
		if cfg.App.Env == config.AppEnvDev && devSeeder != nil {
			r.Post("/dev/seed", controllers.DevSeed(devSeeder, logg))
		}
	})

	return r
}
