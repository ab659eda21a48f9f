package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fastchange/fastchange-backend/api/controllers"
	"github.com/fastchange/fastchange-backend/api/middleware"
	"github.com/fastchange/fastchange-backend/internal/catalog"
	"github.com/fastchange/fastchange-backend/pkg/config"
	"github.com/fastchange/fastchange-backend/pkg/logger"
	pkgredis "github.com/fastchange/fastchange-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	catalogService catalog.Service,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisPinger pkgredis.Pinger
	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		redisPinger = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(catalogService, cfg.Listing, logg))
		r.With(middleware.Idempotency(idempotencyStore, logg)).
			Post("/save", controllers.SaveProducts(catalogService, logg))
	})

	return r
}
