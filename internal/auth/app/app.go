package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/tenantauth/internal/auth/http"
	"github.com/aussiebroadwan/tenantauth/internal/auth/metrics"
	"github.com/aussiebroadwan/tenantauth/internal/auth/service"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store/cache"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenantauth/pkg/clock"
	"github.com/aussiebroadwan/tenantauth/pkg/cryptox"
	"github.com/aussiebroadwan/tenantauth/pkg/httpx"
	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
	"github.com/aussiebroadwan/tenantauth/pkg/slogx"
)

// BuildVersion is overridden at build time with
// -ldflags "-X github.com/aussiebroadwan/tenantauth/internal/auth/app.BuildVersion=..."
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	codec   *jwtx.Codec
	metrics *metrics.Metrics

	// Services
	tokenService         *service.TokenService
	introspectionService *service.IntrospectionService
	clientService        *service.ClientService
	bootstrapService     *service.BootstrapService
	housekeepingService  *service.HousekeepingService

	shutdownTracing func(context.Context) error

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the service logger from the config.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "auth-service",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg:     cfg,
		logger:  NewLogger(cfg),
		metrics: metrics.New(),
	}

	// Set pepper path for secret hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	db, err := OpenStore(ctx, app.cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	codec, err := InitCodec(app.cfg, clock.Real{}, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.codec = codec

	app.shutdownTracing, err = initTracing(ctx, app.cfg.OTLPEndpoint, BuildVersion)
	if err != nil {
		// Tracing is optional; serve without it.
		app.logger.Warn("tracing disabled", "error", err)
		app.shutdownTracing = func(context.Context) error { return nil }
		app.cfg.OTLPEndpoint = ""
	}

	httpx.RejectHook = app.metrics.RateLimited
	httpx.TrustProxyHeaders = app.cfg.TrustProxyHeaders

	app.initServices()

	if _, err := app.bootstrapService.EnsureAdminClient(ctx, service.AdminClient{
		ClientID: app.cfg.AdminClientID,
		Secret:   app.cfg.AdminClientSecret,
		TenantID: app.cfg.AdminTenantID,
	}); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to bootstrap admin client: %w", err)
	}

	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired router, mainly for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
		"cache", app.cfg.RedisURL != "",
		"tracing", app.cfg.OTLPEndpoint != "",
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.shutdownTracing(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// Close releases the store without running the server. Used by one-shot CLI
// commands and tests.
func (app *Application) Close() error {
	return app.db.Close()
}

// OpenDatabase opens the configured driver without touching the schema.
func OpenDatabase(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		db, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return db, nil
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return db, nil
	}
}

// OpenStore opens the configured database, applies migrations and wraps it
// with the redis cache when AUTH_REDIS_URL is set.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (store.Store, error) {
	db, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)

	if cfg.RedisURL == "" {
		return db, nil
	}

	rdb, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		// Lookups work without the cache, so a missing redis is not fatal.
		logger.Warn("client cache disabled: redis unavailable", "error", err)
		return db, nil
	}
	logger.Info("client cache enabled", "ttl", cfg.ClientCacheTTL)
	return cache.New(db, rdb, cfg.ClientCacheTTL), nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Store:      app.db,
		Codec:      app.codec,
		Metrics:    app.metrics,
		DefaultTTL: app.cfg.TokenTTL,
	}
	app.introspectionService = &service.IntrospectionService{
		Codec:   app.codec,
		Metrics: app.metrics,
	}
	app.clientService = &service.ClientService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{Clients: app.clientService}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.metrics,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.codec, BuildVersion, app.db, app.logger)

	router.TokenService = app.tokenService
	router.IntrospectionService = app.introspectionService
	router.ClientService = app.clientService
	router.Metrics = app.metrics
	router.ScopesSupported = app.cfg.ScopesSupported
	router.Tracing = app.cfg.OTLPEndpoint != ""
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
