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

	"github.com/openkms/tokend/internal/token/domain"
	httpapi "github.com/openkms/tokend/internal/token/http"
	"github.com/openkms/tokend/internal/token/realm"
	"github.com/openkms/tokend/internal/token/service"
	"github.com/openkms/tokend/internal/token/store"
	"github.com/openkms/tokend/internal/token/store/drivers/file"
	"github.com/openkms/tokend/internal/token/store/drivers/memory"
	"github.com/openkms/tokend/internal/token/store/drivers/sqlite"
	"github.com/openkms/tokend/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the token service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db store.Store

	// Services
	authenticator *realm.Authenticator
	issueService  *service.IssueService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tokend",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	if err := app.seedBootstrapToken(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("token service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
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
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down token service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Close the token store
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing token store", "error", err)
		return err
	}

	app.logger.Info("token service stopped")
	return nil
}

// initStore initializes the configured token store driver
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "memory":
		app.db = memory.New()

	case "file":
		st, err := file.New(app.cfg.TokensDir)
		if err != nil {
			return fmt.Errorf("failed to initialize file store: %w", err)
		}
		app.db = st

	case "sqlite":
		host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		st, err := sqlite.NewStore(host)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := st.ApplyMigrations(); err != nil {
			_ = st.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.db = st
		app.logger.Info("database migrations applied successfully")

	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}

	return nil
}

// seedBootstrapToken registers the configured bootstrap token, if any, as a
// non-expiring token with full permissions. A fresh deployment has no
// tokens, so without this there would be no way to mint the first one.
func (app *Application) seedBootstrapToken(ctx context.Context) error {
	if app.cfg.BootstrapToken == "" {
		return nil
	}

	existing, err := app.db.Find(ctx, app.cfg.BootstrapToken)
	if err != nil {
		return fmt.Errorf("failed to check bootstrap token: %w", err)
	}
	if existing != nil {
		return nil
	}

	rec := domain.TokenRecord{
		Credential: domain.TokenCredential{
			Value:     app.cfg.BootstrapToken,
			NotBefore: time.Now(),
		},
		Username:    "bootstrap",
		Permissions: []string{"*:*"},
	}
	if err := app.db.Add(ctx, rec); err != nil {
		return fmt.Errorf("failed to seed bootstrap token: %w", err)
	}

	app.logger.Info("bootstrap token seeded")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authenticator = &realm.Authenticator{Store: app.db}

	app.issueService = &service.IssueService{
		Store:        app.db,
		ExpiresAfter: app.cfg.TokenExpiry,
		RequireTLS:   app.cfg.RequireTLS,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.cfg.QueryTokenEnabled,
		app.logger,
	)

	// Wire services to router
	router.Authenticator = app.authenticator
	router.IssueService = app.issueService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
