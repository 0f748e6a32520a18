package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	httpapi "github.com/aussiebroadwan/profiles/internal/profiles/http"
	"github.com/aussiebroadwan/profiles/internal/profiles/identity"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the profiles service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	table    store.Table
	verifier identity.Verifier

	// Services
	profileService *service.ProfileService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	if err := app.initTable(); err != nil {
		return nil, err
	}

	app.initServices()
	if err := app.initHTTP(); err != nil {
		_ = app.table.Close()
		return nil, err
	}

	return app, nil
}

// NewLogger builds the service logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "profiles-service",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// Handler exposes the routed HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("profiles service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store_driver", app.cfg.StoreDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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
	app.logger.Info("shutting down profiles service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.table.Close(); err != nil {
		app.logger.Error("error closing table", "error", err)
		return err
	}

	app.logger.Info("profiles service stopped")
	return nil
}

// initTable connects the storage driver. Embedded schemas (sqlite) are
// migrated on startup; the DynamoDB table is provisioned with the migrate
// command so the service itself only needs item-level permissions.
func (app *Application) initTable() error {
	ctx := context.Background()

	table, err := OpenTable(ctx, app.cfg)
	if err != nil {
		return err
	}
	app.table = table

	if app.cfg.StoreDriver == DriverDynamoDB {
		app.logger.Info("using dynamodb table", "table", app.cfg.UsersTable)
		return nil
	}

	if err := table.ApplyMigrations(ctx); err != nil {
		_ = table.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app.logger.Info("table migrations applied successfully", "driver", app.cfg.StoreDriver)
	return nil
}

// initServices initializes the verifier and business logic services
func (app *Application) initServices() {
	// Trust material is parsed lazily on the first request.
	app.verifier = identity.NewFirebaseVerifier(identity.FirebaseOptions{
		ProjectID:          app.cfg.FirebaseProjectID,
		ServiceAccountJSON: app.cfg.FirebaseServiceAccountJSON,
		CertsURL:           app.cfg.FirebaseCertsURL,
		Logger:             app.logger,
	})

	app.profileService = &service.ProfileService{
		Store: store.NewProfileStore(app.table),
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	metrics, err := httpapi.NewMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	router := httpapi.NewRouter(
		app.verifier,
		app.table,
		metrics,
		BuildVersion,
		app.logger,
	)
	router.ProfileService = app.profileService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
