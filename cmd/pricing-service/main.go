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

	"github.com/joho/godotenv"

	"github.com/Cheertaboi/promo-pricing-service/internal/api"
	"github.com/Cheertaboi/promo-pricing-service/internal/config"
	"github.com/Cheertaboi/promo-pricing-service/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(lg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := buildApp(ctx, cfg, lg)
	if err != nil {
		lg.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: api.NewRouter(api.Dependencies{
			Offers:         deps.offers,
			Pricing:        deps.pricing,
			Logger:         lg,
			Gatherer:       deps.registry,
			RequestTimeout: cfg.HTTP.RequestTimeout,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("HTTP server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	lg.Info("starting pricing-service",
		"addr", cfg.HTTP.Addr,
		"storage", cfg.Storage.Driver,
		"cache", cfg.Cache.Driver,
		"events", cfg.Kafka.Enabled(),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Error("listen", "error", err)
		stop()
		deps.Close()
		os.Exit(1)
	}

	<-idleConnsClosed
	lg.Info("server stopped")
}
