package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/dashboard"
	"github.com/angelmondragon/storefront/internal/listing"
	"github.com/angelmondragon/storefront/internal/reviews"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/dummyjson"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

// Params carries everything the router mounts.
type Params struct {
	Config *config.Config
	Logger *logger.Logger

	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
	// Ready is pinged by /health/ready, keyed by dependency name.
	Ready map[string]controllers.Pinger
	// LoginLimiter throttles /auth/login; nil disables throttling.
	LoginLimiter middleware.Limiter

	Auth      auth.Service
	Cart      cart.Service
	Checkout  checkoutsvc.Service
	Catalog   catalog.Service
	Reviews   reviews.Service
	Dashboard dashboard.Service

	Posts    *listing.Listing[dummyjson.Post]
	Comments *listing.Listing[dummyjson.Comment]
	Products *listing.Listing[dummyjson.Product]
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, p.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)
	requireSession := middleware.RequireSession(p.Auth, logg)
	pageSize := cfg.Listing.PageSize

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Ready))
	})
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, p.LoginLimiter, logg)).Post("/login", controllers.AuthLogin(p.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(p.Auth, logg))
			r.Post("/register", controllers.AuthRegister(p.Auth, logg))
			r.With(requireSession).Get("/me", controllers.AuthMe(logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(p.Cart, logg))
			r.Delete("/", controllers.CartClear(p.Cart, logg))
			r.Post("/items", controllers.CartAddItem(p.Cart, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(p.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(p.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutPlaceOrder(p.Checkout, logg))
			r.Post("/format", controllers.CheckoutFormat(logg))
		})

		r.Route("/shop", func(r chi.Router) {
			r.Use(middleware.OptionalSession(p.Auth, logg))
			r.Get("/home", controllers.ShopHome(p.Catalog, logg))
			r.Get("/products", controllers.ShopProducts(p.Catalog, logg))
			r.Get("/products/{productId}", controllers.ShopProduct(p.Catalog, logg))
			r.Get("/products/{productId}/reviews", controllers.ProductReviews(p.Reviews, logg))
			r.Post("/products/{productId}/reviews", controllers.ProductReviewCreate(p.Reviews, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(requireSession)
		r.Get("/dashboard", controllers.AdminDashboard(p.Dashboard, logg))

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(p.Posts, pageSize, logg))
			r.Post("/", controllers.CreateRecord(p.Posts, logg))
			r.Put("/{id}", controllers.UpdateRecord(p.Posts, logg))
			r.Delete("/{id}", controllers.DeleteRecord(p.Posts, logg))
		})
		r.Route("/comments", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(p.Comments, pageSize, logg))
			r.Post("/", controllers.CreateRecord(p.Comments, logg))
			r.Put("/{id}", controllers.UpdateRecord(p.Comments, logg))
			r.Delete("/{id}", controllers.DeleteRecord(p.Comments, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(p.Products, pageSize, logg))
			r.Post("/", controllers.CreateRecord(p.Products, logg))
			r.Put("/{id}", controllers.UpdateRecord(p.Products, logg))
			r.Delete("/{id}", controllers.DeleteRecord(p.Products, logg))
		})
	})

	return r
}
