package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nexusmart/storefront-gateway/api/controllers"
	"github.com/nexusmart/storefront-gateway/api/middleware"
	"github.com/nexusmart/storefront-gateway/pkg/config"
	"github.com/nexusmart/storefront-gateway/pkg/enums"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
	pkgredis "github.com/nexusmart/storefront-gateway/pkg/redis"
)

// Deps carries every collaborator the router wires into handlers. The
// fields are interfaces so tests can run the full routing table over
// stubs.
type Deps struct {
	Auth       controllers.Authenticator
	Catalog    controllers.CatalogCache
	Inventory  controllers.InventoryAdmin
	Cart       controllers.CartService
	Checkout   controllers.CheckoutService
	CartLoader controllers.CartLoader
	Orders     controllers.OrderReader
	OrdersAll  controllers.OrderAdmin
	Shipments  controllers.ShipmentReader
	ShipAdmin  controllers.ShipmentAdmin
	Profile    controllers.ProfileService

	Limiter     middleware.RateLimiterStore
	Idempotency pkgredis.IdempotencyStore
	Registry    *prometheus.Registry
	Pingers     []controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers...))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Limiter, logg)).
			Post("/login", controllers.Login(deps.Auth, enums.ActorRoleCustomer, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Limiter, logg)).
			Post("/admin-login", controllers.Login(deps.Auth, enums.ActorRoleAdmin, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Limiter, logg),
			middleware.Idempotency(deps.Idempotency, logg),
		).Post("/register", controllers.Register(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Idempotency, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(deps.Catalog, logg))
			r.Post("/refresh", controllers.CatalogRefresh(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Delete("/items/{cartItemId}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Put("/items/{cartItemId}/quantity", controllers.CartUpdateQuantity(deps.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.Checkout, deps.CartLoader, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrdersGet(deps.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrdersCancel(deps.Orders, logg))
		})

		r.Get("/shipments/order/{orderId}", controllers.ShipmentByOrder(deps.Shipments, deps.Orders, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(deps.Profile, logg))
			r.Patch("/", controllers.ProfileUpdate(deps.Profile, logg))
			r.Post("/password", controllers.ProfileChangePassword(deps.Profile, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.ActorRoleAdmin, logg))

			r.Route("/inventory", func(r chi.Router) {
				r.Post("/", controllers.AdminInventoryCreate(deps.Inventory, deps.Catalog, logg))
				r.Put("/{inventoryId}", controllers.AdminInventoryUpdate(deps.Inventory, deps.Catalog, logg))
				r.Delete("/{inventoryId}", controllers.AdminInventoryDelete(deps.Inventory, deps.Catalog, logg))
			})

			r.Get("/orders", controllers.AdminOrdersList(deps.OrdersAll, logg))

			r.Route("/shipments", func(r chi.Router) {
				r.Get("/", controllers.AdminShipmentsList(deps.ShipAdmin, logg))
				r.Post("/", controllers.AdminShipmentsCreate(deps.ShipAdmin, logg))
				r.Get("/{shipmentId}", controllers.AdminShipmentsGet(deps.ShipAdmin, logg))
				r.Put("/{shipmentId}/status", controllers.AdminShipmentsUpdateStatus(deps.ShipAdmin, logg))
				r.Delete("/{shipmentId}", controllers.AdminShipmentsDelete(deps.ShipAdmin, logg))
				r.Post("/order/{orderId}/cancel", controllers.AdminShipmentsCancelByOrder(deps.ShipAdmin, logg))
			})
		})
	})

	return r
}
