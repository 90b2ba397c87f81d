package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelarsoto/storeops-backend/api/controllers"
	"github.com/avelarsoto/storeops-backend/api/middleware"
	"github.com/avelarsoto/storeops-backend/internal/inventory"
	"github.com/avelarsoto/storeops-backend/internal/orders"
	"github.com/avelarsoto/storeops-backend/internal/performance"
	"github.com/avelarsoto/storeops-backend/internal/products"
	"github.com/avelarsoto/storeops-backend/internal/stores"
	"github.com/avelarsoto/storeops-backend/internal/suppliers"
	"github.com/avelarsoto/storeops-backend/pkg/config"
	"github.com/avelarsoto/storeops-backend/pkg/db"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
	"github.com/avelarsoto/storeops-backend/pkg/logger"
	"github.com/avelarsoto/storeops-backend/pkg/metrics"
	pkgredis "github.com/avelarsoto/storeops-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	ordersService orders.Service,
	inventoryService inventory.Service,
	productsService products.Service,
	suppliersService suppliers.Service,
	storesService stores.Service,
	performanceService performance.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(logg))

		var idempotencyStore pkgredis.IdempotencyStore
		if redisClient != nil {
			idempotencyStore = redisClient
		}
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Idempotency, logg))

		// Master data management. Store scoping does not apply here.
		r.Route("/stores", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, enums.ActorRoleManager))
			r.Post("/", controllers.CreateStore(storesService, logg))
			r.Get("/", controllers.ListStores(storesService, logg))
			r.Get("/{storeId}", controllers.StoreDetail(storesService, logg))
			r.Patch("/{storeId}", controllers.UpdateStore(storesService, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, enums.ActorRoleManager))
				r.Post("/", controllers.CreateSupplier(suppliersService, logg))
				r.Patch("/{supplierId}", controllers.UpdateSupplier(suppliersService, logg))
			})
			r.Get("/", controllers.ListSuppliers(suppliersService, logg))
			r.Get("/{supplierId}", controllers.SupplierDetail(suppliersService, logg))
			r.Get("/{supplierId}/products", controllers.ListSupplierProducts(productsService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, enums.ActorRoleManager))
				r.Post("/", controllers.CreateProduct(productsService, logg))
				r.Patch("/{productId}", controllers.UpdateProduct(productsService, logg))
			})
			r.Get("/{productId}", controllers.ProductDetail(productsService, logg))
		})

		// Everything below acts on behalf of a single store.
		r.Group(func(r chi.Router) {
			r.Use(middleware.StoreContext(logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAnyRole(logg, enums.ActorRoleManager, enums.ActorRoleStaff))
					r.Post("/", controllers.PlaceOrder(ordersService, logg))
					r.Post("/{orderId}/cancel", controllers.CancelOrder(ordersService, logg))
					r.Post("/{orderId}/delivery", controllers.AcceptDelivery(ordersService, logg))
				})

				r.With(middleware.RequireAnyRole(logg, enums.ActorRoleSupplier)).
					Post("/{orderId}/decision", controllers.DecideOrder(ordersService, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.ListInventory(inventoryService, logg))
				r.Get("/{productId}", controllers.InventoryRecordDetail(inventoryService, logg))
				r.Get("/movements", controllers.ListMovements(inventoryService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAnyRole(logg, enums.ActorRoleManager, enums.ActorRoleStaff))
					r.Post("/movements", controllers.ApplyMovement(inventoryService, logg))
					r.Put("/{productId}/reorder-level", controllers.SetReorderLevel(inventoryService, logg))
				})
			})

			r.With(middleware.RequireAnyRole(logg, enums.ActorRoleManager)).
				Get("/performance/suppliers", controllers.SupplierPerformanceReport(performanceService, logg))
		})
	})

	return r
}
