package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/inventory-backend/api/controllers"
	"github.com/angelmondragon/inventory-backend/api/middleware"
	productsvc "github.com/angelmondragon/inventory-backend/internal/products"
	"github.com/angelmondragon/inventory-backend/pkg/config"
	"github.com/angelmondragon/inventory-backend/pkg/db"
	"github.com/angelmondragon/inventory-backend/pkg/logger"
	"github.com/angelmondragon/inventory-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	state controllers.StartupState,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	productService productsvc.Service,
	limiter middleware.RateLimiterStore,
) http.Handler {
	r := chi.NewRouter()
	// Recoverer sits inside Logging and Metrics so a recovered panic is
	// still logged and counted as a 500.
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.CORS.Origins()),
	)

	r.Get("/", controllers.Index())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, state, dbP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/products", func(r chi.Router) {
		r.Use(middleware.RateLimit(middleware.RateLimitPolicy{
			Name:   "products",
			Limit:  cfg.RateLimit.Requests,
			Window: cfg.RateLimit.Window,
		}, limiter, logg))
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Post("/", controllers.CreateProduct(productService, logg))
		r.Get("/{id}", controllers.GetProduct(productService, logg))
		r.Put("/{id}", controllers.UpdateProduct(productService, logg))
		r.Delete("/{id}", controllers.DeleteProduct(productService, logg))
	})

	return r
}
