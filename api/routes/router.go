package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spinwin/prizewheel-backend/api/controllers"
	"github.com/spinwin/prizewheel-backend/api/middleware"
	agentsvc "github.com/spinwin/prizewheel-backend/internal/agents"
	authsvc "github.com/spinwin/prizewheel-backend/internal/auth"
	inventorysvc "github.com/spinwin/prizewheel-backend/internal/inventory"
	productsvc "github.com/spinwin/prizewheel-backend/internal/products"
	resultsvc "github.com/spinwin/prizewheel-backend/internal/results"
	spinsvc "github.com/spinwin/prizewheel-backend/internal/spins"
	statsvc "github.com/spinwin/prizewheel-backend/internal/stats"
	pkgauth "github.com/spinwin/prizewheel-backend/pkg/auth"
	"github.com/spinwin/prizewheel-backend/pkg/config"
	"github.com/spinwin/prizewheel-backend/pkg/db"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	pkgredis "github.com/spinwin/prizewheel-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs. Redis and the
// metrics registry may be nil in tests; the public spin route then runs
// without idempotency or rate limiting and /metrics is not mounted.
type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *pkgredis.Client
	Registry  *prometheus.Registry
	Auth      authsvc.Service
	Spins     spinsvc.Service
	Agents    agentsvc.Service
	Products  productsvc.Service
	Inventory inventorysvc.Service
	Results   resultsvc.Service
	Stats     statsvc.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var cache db.Pinger
	if p.Redis != nil {
		cache = p.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, cache, logg))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/wheel/{agentID}", controllers.SpinWheel(p.Spins, logg))
		r.Get("/availability/{agentID}/{productID}", controllers.InventoryAvailability(p.Inventory, logg))

		r.Group(func(r chi.Router) {
			if p.Redis != nil {
				r.Use(middleware.SpinRateLimit(cfg.SpinRateLimit, p.Redis, logg))
				r.Use(middleware.SpinIdempotency(p.Redis, cfg.Spin.IdempotencyTTL, logg))
			}
			r.Post("/spins", controllers.SpinSubmit(p.Spins, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(p.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(pkgauth.RoleAdmin, logg))

			r.Get("/ping", controllers.AdminPing())

			r.Route("/agents", func(r chi.Router) {
				r.Get("/", controllers.AgentsList(p.Agents, logg))
				r.Post("/", controllers.AgentCreate(p.Agents, logg))
				r.Get("/{agentID}", controllers.AgentGet(p.Agents, logg))
				r.Patch("/{agentID}", controllers.AgentUpdate(p.Agents, logg))
				r.Delete("/{agentID}", controllers.AgentDelete(p.Agents, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductsList(p.Products, logg))
				r.Post("/", controllers.ProductCreate(p.Products, logg))
				r.Get("/{productID}", controllers.ProductGet(p.Products, logg))
				r.Patch("/{productID}", controllers.ProductUpdate(p.Products, logg))
				r.Delete("/{productID}", controllers.ProductDelete(p.Products, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.InventoryList(p.Inventory, logg))
				r.Post("/", controllers.InventoryAssign(p.Inventory, logg))
				r.Get("/low-stock", controllers.InventoryLowStock(p.Inventory, cfg.Cron.LowStockThreshold, logg))
				r.Post("/restock", controllers.InventoryRestock(p.Inventory, logg))
				r.Patch("/adjust", controllers.InventoryAdjust(p.Inventory, logg))
				r.Get("/{agentID}/{productID}", controllers.InventoryGet(p.Inventory, logg))
			})

			r.Route("/results", func(r chi.Router) {
				r.Get("/", controllers.ResultsList(p.Results, logg))
				r.Delete("/", controllers.ResultsPurge(p.Results, logg))
				r.Get("/{resultID}", controllers.ResultGet(p.Results, logg))
				r.Delete("/{resultID}", controllers.ResultDelete(p.Results, logg))
			})

			r.Get("/stats/distribution", controllers.StatsDistribution(p.Stats, logg))
		})
	})

	return r
}
