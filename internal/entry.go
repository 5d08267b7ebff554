// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/pnx/internal/api"
	"github.com/starford/pnx/internal/appstore"
	"github.com/starford/pnx/internal/classifier"
	"github.com/starford/pnx/internal/inbox"
	"github.com/starford/pnx/internal/kv"
	"github.com/starford/pnx/internal/mcpserver"
	"github.com/starford/pnx/internal/models"
	"github.com/starford/pnx/internal/sse"
)

func newApplication(opts []Option, defaultLog io.Writer) (*application, *slog.Logger, error) {
	app := &application{version: "dev", logOutput: defaultLog}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return app, logger, nil
}

// openKV opens the configured storage backend. The returned close func is never nil.
func openKV(cfg StorageConfig) (kv.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Driver {
	case DriverMemory:
		return kv.NewMemory(), noop, nil
	case DriverSQLite:
		db, err := kv.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return db, db.Close, nil
	case DriverFS, "":
		fs, err := kv.NewFS(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return fs, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Run starts the HTTP server, the SSE broker and the optional inbox watcher.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts, os.Stdout)
	if err != nil {
		return err
	}
	cfg := app.config

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("storage_path", cfg.Storage.Path),
		slog.String("inbox_path", cfg.Inbox.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	backing, closeKV, err := openKV(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer closeKV()

	// SSE broker.
	broker := sse.NewBroker(cfg.App.RulesThrottle)
	defer broker.Close()

	cls := classifier.New(backing,
		classifier.WithLogger(logger),
		classifier.WithLearnHook(broker.PublishRulesChanged),
	)
	store := appstore.New(backing, cls, appstore.WithLogger(logger))
	unsubscribe := store.Subscribe(func() {
		broker.PublishChange(store.Revision())
	})
	defer unsubscribe()

	apiRouter := api.NewRouter(store, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Inbox.Enabled() {
		box, err := inbox.New(cfg.Inbox.Path, store, backing, logger)
		if err != nil {
			return fmt.Errorf("init inbox: %w", err)
		}
		logCapture := func(it models.Item) {
			logger.Info("inbox: captured",
				slog.String("item_id", it.ID),
				slog.String("file", it.FileName),
				slog.String("suggested", it.SuggestedCategoryID))
		}
		if _, err := box.Sync(logCapture); err != nil {
			logger.Warn("initial inbox sync failed", slog.String("error", err.Error()))
		}
		g.Go(func() error {
			return box.Watch(gCtx, logCapture)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		// Closing the broker ends open event streams so Shutdown does not wait on them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Unblocks the inbox watcher when shutdown came from a signal.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
func RunMCP(_ context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts, os.Stderr)
	if err != nil {
		return err
	}
	cfg := app.config

	backing, closeKV, err := openKV(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer closeKV()

	cls := classifier.New(backing, classifier.WithLogger(logger))
	store := appstore.New(backing, cls, appstore.WithLogger(logger))

	logger.Info("Starting MCP server",
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("version", app.version))
	return mcpserver.New(store, app.version).ServeStdio()
}
