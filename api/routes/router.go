package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/merchkit/storefront-backend/api/controllers"
	"github.com/merchkit/storefront-backend/api/middleware"
	"github.com/merchkit/storefront-backend/internal/auth"
	"github.com/merchkit/storefront-backend/internal/cart"
	products "github.com/merchkit/storefront-backend/internal/products"
	"github.com/merchkit/storefront-backend/internal/wishlist"
	"github.com/merchkit/storefront-backend/pkg/auth/session"
	"github.com/merchkit/storefront-backend/pkg/config"
	"github.com/merchkit/storefront-backend/pkg/logger"
	"github.com/merchkit/storefront-backend/pkg/metrics"
	"github.com/merchkit/storefront-backend/pkg/redis"
)

// Deps bundles everything the router needs to wire the HTTP surface.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.HTTPMetrics

	DB    controllers.Pinger
	Redis *redis.Client

	SessionChecker session.AccessSessionChecker

	AuthService     auth.Service
	RegisterService auth.RegisterService
	ProductService  products.Service
	CartService     cart.Service
	WishlistService wishlist.Service
	Importer        *products.Importer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewLoginRateLimitPolicy(
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)

	healthDeps := map[string]controllers.Pinger{}
	if deps.DB != nil {
		healthDeps["database"] = deps.DB
	}
	if deps.Redis != nil {
		healthDeps["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, healthDeps))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.LoginRateLimit(loginPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.ProductService, logg))
		r.Get("/slug/{slug}", controllers.ProductGetBySlug(deps.ProductService, logg))
		r.Get("/{productId}", controllers.ProductGet(deps.ProductService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.UserWriteRateLimit(cfg.RateLimit.WriteWindow, cfg.RateLimit.WriteUserLimit, deps.Redis, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/auth/logout", controllers.AuthLogout(deps.AuthService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Post("/", controllers.CartAddItem(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
			r.Patch("/{productId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/{productId}", controllers.CartRemoveItem(deps.CartService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(deps.WishlistService, logg))
			r.Get("/ids", controllers.WishlistIDs(deps.WishlistService, logg))
			r.Post("/", controllers.WishlistAddItem(deps.WishlistService, logg))
			r.Delete("/{productId}", controllers.WishlistRemoveItem(deps.WishlistService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(deps.ProductService, logg))
			r.Post("/import", controllers.AdminImportProducts(deps.Importer, cfg.Import.MaxUploadBytes, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.ProductService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.ProductService, logg))
			r.Put("/{productId}/stock", controllers.AdminSetProductStock(deps.ProductService, logg))
		})
	})

	return r
}
