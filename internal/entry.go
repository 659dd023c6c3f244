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

	"github.com/starford/skald/internal/api"
	"github.com/starford/skald/internal/deckservice"
	"github.com/starford/skald/internal/genai"
	"github.com/starford/skald/internal/images"
	"github.com/starford/skald/internal/index"
	"github.com/starford/skald/internal/sse"
	"github.com/starford/skald/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logOut := io.Writer(os.Stdout)
	if app.logOutput != nil {
		logOut = app.logOutput
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("library_path", cfg.Library.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("generation_enabled", cfg.LLM.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure library directory exists.
	if err := os.MkdirAll(cfg.Library.Path, 0o755); err != nil {
		return fmt.Errorf("create library dir: %w", err)
	}

	// Initialize storage.
	store, err := storage.NewFS(cfg.Library.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Initialize SQLite index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// Run initial sync.
	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// Deck generation is optional; without an API key the generate and
	// assistant endpoints return an error and everything else works.
	var gen *genai.Generator
	if cfg.LLM.Enabled() {
		gen, err = genai.NewGenerator(ctx, genai.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout(),
		}, logger)
		if err != nil {
			return fmt.Errorf("init generator: %w", err)
		}
	}

	fetcherOpts := []images.Option{images.WithLogger(logger)}
	if cfg.Images.BaseURL != "" {
		fetcherOpts = append(fetcherOpts, images.WithBaseURL(cfg.Images.BaseURL))
	}
	fetcher := images.NewFetcher(fetcherOpts...)

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Build deck service and API router.
	svc := deckservice.NewService(store, db, fetcher, gen, logger)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
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

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start library watcher with SSE callback.
	g.Go(func() error {
		err := index.Watch(gCtx, db, store, cfg.Library.Path, logger, func(kind, id string) {
			broker.PublishDeckEvent(kind, id)
		})
		if err != nil {
			logger.Warn("library watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

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

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
