package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/controllers"
	webhookcontrollers "github.com/BhavikPatel-dreamz/b2b-portal-backend/api/controllers/webhooks"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/middleware"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/companies"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/credit"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/orders"
	shopifywebhook "github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/webhooks/shopify"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/wishlist"
	pkgAuth "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/auth"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/config"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/redis"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/shopify"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	creditCalc *credit.Calculator,
	creditRepo credit.Repository,
	companiesSvc companies.Service,
	ordersSvc orders.Service,
	wishlistSvc wishlist.Service,
	shopifyClient *shopify.Client,
	webhookSvc *shopifywebhook.Service,
	webhookGuard *shopifywebhook.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/shopify", webhookcontrollers.ShopifyWebhook(webhookSvc, shopifyClient, webhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.ShopContext(logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreateDraft(ordersSvc, logg))
			r.Get("/mine", controllers.OrdersListMine(ordersSvc, logg))
			r.Get("/{orderId}", controllers.OrderGet(ordersSvc, logg))
		})

		r.Route("/companies", func(r chi.Router) {
			r.Post("/register", controllers.CompanyRegister(companiesSvc, logg))
			r.Get("/{companyId}", controllers.CompanyGet(companiesSvc, logg))
			r.Get("/{companyId}/credit", controllers.CompanyCreditSnapshot(creditCalc, logg))
			r.Get("/{companyId}/credit/users/{userId}", controllers.UserCreditSnapshot(creditCalc, logg))
			r.Get("/{companyId}/credit/ledger", controllers.CreditLedger(creditRepo, logg))
			r.Get("/{companyId}/orders", controllers.OrdersListByCompany(ordersSvc, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(wishlistSvc, logg))
			r.Post("/", controllers.WishlistAddItem(wishlistSvc, logg))
			r.Delete("/{variantId}", controllers.WishlistRemoveItem(wishlistSvc, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(pkgAuth.RoleAdmin, logg))

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", controllers.CompanyList(companiesSvc, logg))
			r.Post("/{companyId}/approve", controllers.CompanyApprove(companiesSvc, logg))
			r.Post("/{companyId}/reject", controllers.CompanyReject(companiesSvc, logg))
			r.Put("/{companyId}/credit-limit", controllers.CompanySetCreditLimit(companiesSvc, logg))
			r.Post("/{companyId}/users", controllers.CompanyAssignUser(companiesSvc, logg))
		})
	})

	return r
}
