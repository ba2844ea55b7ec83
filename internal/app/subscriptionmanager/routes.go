package subscriptionmanager

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/hirwa-dev/subscription-manager/internal/cache"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/auth/login"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/auth/logout"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/auth/profile"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/auth/profileupdate"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/auth/refresh"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/auth/register"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/auth/userremove"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/auth/users"
	catalogcreate "github.com/hirwa-dev/subscription-manager/internal/http/handlers/catalog/create"
	cataloglist "github.com/hirwa-dev/subscription-manager/internal/http/handlers/catalog/list"
	catalogread "github.com/hirwa-dev/subscription-manager/internal/http/handlers/catalog/read"
	catalogremove "github.com/hirwa-dev/subscription-manager/internal/http/handlers/catalog/remove"
	catalogupdate "github.com/hirwa-dev/subscription-manager/internal/http/handlers/catalog/update"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/geographic"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/health"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/report"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/subscription/bulkupdate"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/subscription/create"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/subscription/export"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/subscription/list"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/subscription/read"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/subscription/remove"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/subscription/search"
	"github.com/hirwa-dev/subscription-manager/internal/http/handlers/subscription/update"
	"github.com/hirwa-dev/subscription-manager/internal/http/middlewarectx"
	authservice "github.com/hirwa-dev/subscription-manager/internal/services/auth"
	catalogservice "github.com/hirwa-dev/subscription-manager/internal/services/catalog"
	reportservice "github.com/hirwa-dev/subscription-manager/internal/services/report"
	subservice "github.com/hirwa-dev/subscription-manager/internal/services/subscription"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

// Services bundles everything the router needs.
type Services struct {
	Auth          *authservice.AuthService
	Catalog       *catalogservice.CatalogService
	Subscriptions *subservice.SubscriptionService
	Reports       *reportservice.ReportService
	Storage       *repository.Storage
	Cache         *cache.Cache
}

// RegisterRoutes registers every route of the application.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(50), 100)
	geoHandler := geographic.New(logger)
	reportHandler := report.New(logger, s.Reports)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/refresh", refresh.New(logger, s.Auth).ServeHTTP)
		r.With(middlewarectx.RateLimitMiddleware(logger, limiter)).
			Get("/packages/active", cataloglist.New(logger, s.Catalog).ServeHTTP)

		// Public signup funnel and catalog browsing
		r.Route("/public", func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Get("/packages", cataloglist.New(logger, s.Catalog).ServeHTTP)
			r.Get("/districts", geoHandler.Districts)
			r.Get("/sectors/{district}", geoHandler.Sectors)
			r.Get("/cells/{district}/{sector}", geoHandler.Cells)
			r.Post("/subscriptions", create.NewPublic(logger, s.Subscriptions).ServeHTTP)
			r.Get("/subscriptions", list.New(logger, s.Subscriptions).ServeHTTP)
			r.Get("/subscriptions/stats", reportHandler.Stats)
		})

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Post("/auth/logout", logout.New(logger, s.Auth).ServeHTTP)
			r.Get("/auth/profile", profile.New(logger, s.Auth).ServeHTTP)
			r.Put("/auth/profile", profileupdate.New(logger, s.Auth).ServeHTTP)

			r.Post("/subscriptions", create.New(logger, s.Subscriptions).ServeHTTP)
			r.Get("/subscriptions", list.New(logger, s.Subscriptions).ServeHTTP)
			r.Get("/subscriptions/search", search.New(logger, s.Subscriptions).ServeHTTP)
			r.Get("/subscriptions/{uid}", read.New(logger, s.Subscriptions).ServeHTTP)
			r.Put("/subscriptions/{uid}", update.New(logger, s.Subscriptions).ServeHTTP)

			r.Get("/packages", cataloglist.New(logger, s.Catalog).ServeHTTP)
			r.Get("/packages/{uid}", catalogread.New(logger, s.Catalog).ServeHTTP)

			r.Get("/geographic/districts", geoHandler.Districts)
			r.Get("/geographic/sectors/{district}", geoHandler.Sectors)
			r.Get("/geographic/cells/{district}/{sector}", geoHandler.Cells)
			r.Get("/geographic/all", geoHandler.All)
			r.Post("/geographic/validate", geoHandler.Validate)

			r.Get("/reports/subscription-summary", reportHandler.Summary)
			r.Get("/reports/dashboard-stats", reportHandler.Stats)
			r.Get("/reports/monthly-trends", reportHandler.MonthlyTrends)
			r.Get("/reports/area-distribution", reportHandler.AreaDistribution)
			r.Get("/reports/package-popularity", reportHandler.PackagePopularity)
			r.Get("/reports/upcoming-renewals", reportHandler.UpcomingRenewals)

			// Admin endpoints
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(s.Auth, logger))

				r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
				r.Get("/auth/users", users.New(logger, s.Auth).ServeHTTP)
				r.Delete("/auth/users/{uid}", userremove.New(logger, s.Auth).ServeHTTP)

				r.Delete("/subscriptions/{uid}", remove.New(logger, s.Subscriptions).ServeHTTP)
				r.Put("/subscriptions/bulk-update", bulkupdate.New(logger, s.Subscriptions).ServeHTTP)
				r.Get("/subscriptions/export", export.New(logger, s.Subscriptions).ServeHTTP)

				r.Post("/packages", catalogcreate.New(logger, s.Catalog).ServeHTTP)
				r.Put("/packages/{uid}", catalogupdate.New(logger, s.Catalog).ServeHTTP)
				r.Delete("/packages/{uid}", catalogremove.New(logger, s.Catalog).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, s.Storage, s.Cache).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
