package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/expense-ledger/pkg/aggregator"
	"github.com/chris/expense-ledger/pkg/api"
	"github.com/chris/expense-ledger/pkg/bootstrap"
	"github.com/chris/expense-ledger/pkg/config"
	"github.com/chris/expense-ledger/pkg/handlers"
	"github.com/chris/expense-ledger/pkg/ledger"
	"github.com/chris/expense-ledger/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("unable to open %s store: %v", cfg.StoreBackend, err)
	}
	defer closeStore()

	publisher, closePublisher, err := bootstrap.NewPublisher(ctx, cfg)
	if err != nil {
		log.Fatalf("unable to create %s publisher: %v", cfg.EventsBackend, err)
	}
	defer closePublisher()

	l := ledger.New(store, publisher, ledger.Config{
		MaxAttempts:  cfg.CommitMaxAttempts,
		Timeout:      cfg.CommitTimeout,
		RetryBackoff: cfg.CommitRetryBackoff,
	})
	agg := aggregator.New(store, 0)

	// Create our handler
	handler := handlers.NewApiHandler(l, agg, store)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)
	router.Get("/healthz", handlers.Healthz)

	// Every API route needs an acting user
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		api.HandlerWithOptions(handler, api.ChiServerOptions{
			BaseRouter:       r,
			ErrorHandlerFunc: handlers.InvalidParam,
		})
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server",
		"port", cfg.Port,
		"store", cfg.StoreBackend,
		"events", cfg.EventsBackend)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	slog.Info("server stopped")
}
