// Package subscriptionmanager assembles the HTTP application: storage,
// migrations, the token cache, the services and the router, and runs the
// server with graceful shutdown.
package subscriptionmanager

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/hirwa-dev/subscription-manager/internal/cache"
	"github.com/hirwa-dev/subscription-manager/internal/config"
	"github.com/hirwa-dev/subscription-manager/internal/lib/jwt"
	"github.com/hirwa-dev/subscription-manager/internal/migrations"
	authservice "github.com/hirwa-dev/subscription-manager/internal/services/auth"
	catalogservice "github.com/hirwa-dev/subscription-manager/internal/services/catalog"
	reportservice "github.com/hirwa-dev/subscription-manager/internal/services/report"
	subservice "github.com/hirwa-dev/subscription-manager/internal/services/subscription"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

// App holds the running HTTP server and its backing stores.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New builds the application: connects the stores, runs the migrations and
// wires the services into the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.AccessTTL, cfg.RefreshTTL)

	authService := authservice.NewAuthService(db, cacheRedis, jwtMaker, cfg.AccessTTL, logger)
	catalogService := catalogservice.NewCatalogService(db, logger)
	subscriptionService := subservice.NewSubscriptionService(db, catalogService, logger)
	reportService := reportservice.NewReportService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:          authService,
		Catalog:       catalogService,
		Subscriptions: subscriptionService,
		Reports:       reportService,
		Storage:       db,
		Cache:         cacheRedis,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		return err
	}
}
