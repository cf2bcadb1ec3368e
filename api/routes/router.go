package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bargainly/bargainly-backend/api/controllers"
	"github.com/bargainly/bargainly-backend/api/middleware"
	"github.com/bargainly/bargainly-backend/internal/bargaining"
	"github.com/bargainly/bargainly-backend/internal/catalog"
	"github.com/bargainly/bargainly-backend/internal/credentials"
	"github.com/bargainly/bargainly-backend/pkg/auth/session"
	"github.com/bargainly/bargainly-backend/pkg/config"
	"github.com/bargainly/bargainly-backend/pkg/db"
	"github.com/bargainly/bargainly-backend/pkg/logger"
)

// Throttling for the surfaces most exposed to abuse.
var (
	publicRatePolicy  = middleware.NewRateLimitPolicy("public", time.Minute, 120)
	refreshRatePolicy = middleware.NewRateLimitPolicy("refresh", time.Minute, 10)
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          controllers.Pinger
	PubSub         controllers.Pinger
	Sessions       session.AccessSessionChecker
	SessionManager controllers.SessionRotator
	RateLimitStore middleware.RateLimitStore

	BargainingService bargaining.Service
	CatalogService    catalog.Service
	CredentialService credentials.Service

	MetricsRegistry *prometheus.Registry
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis, params.PubSub))
	})

	if params.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Use(middleware.RateLimit(publicRatePolicy, params.RateLimitStore, logg))
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, params.Sessions, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(refreshRatePolicy, params.RateLimitStore, logg)).
				Post("/refresh", controllers.SessionRefresh(cfg.JWT, params.SessionManager, logg))
			r.Post("/logout", controllers.SessionLogout(params.SessionManager, logg))
		})

		r.Route("/v1/bargaining", func(r chi.Router) {
			r.Get("/details", controllers.BargainingDetails(params.BargainingService, logg))
			r.Post("/set-by-category", controllers.BargainingSetByCategory(params.BargainingService, logg))
			r.Post("/set-all-products", controllers.BargainingSetAllProducts(params.BargainingService, logg))
			r.Post("/set-by-product", controllers.BargainingSetByProduct(params.BargainingService, logg))
			r.Post("/set-min-price", controllers.BargainingSetMinPrice(params.BargainingService, logg))
			r.Delete("/{variantId}", controllers.BargainingDeactivate(params.BargainingService, logg))
		})

		r.Route("/v1/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(params.CatalogService, logg))
			r.Get("/collections", controllers.CatalogCollections(params.CatalogService, logg))
			r.Route("/credentials", func(r chi.Router) {
				r.Post("/", controllers.CredentialsSet(params.CredentialService, logg))
				r.Put("/", controllers.CredentialsSet(params.CredentialService, logg))
				r.Get("/", controllers.CredentialsGet(params.CredentialService, logg))
				r.Delete("/", controllers.CredentialsRemove(params.CredentialService, logg))
			})
		})
	})

	return r
}
