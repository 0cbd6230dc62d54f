package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skypulse/flightcore/internal/api"
	"skypulse/flightcore/internal/config"
	"skypulse/flightcore/internal/db"
	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load(os.Getenv("SKYPULSE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("SkyPulse flight core starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	orm, err := db.InitORM(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logging.Fatal("Failed to open cache database (GORM)", "error", err)
	}
	sqlxDB, err := db.InitSQLX(cfg.Database.Driver, cfg.Database.DSN, orm)
	if err != nil {
		logging.Fatal("Failed to open cache database (sqlx)", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := api.InitDependencies(ctx, cfg, orm, sqlxDB, metrics.NewMetricsRegistry())
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           routes.RegisterRoutes(deps, sqlxDB, time.Now()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.HTTPPort, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("HTTP server shutdown failed", "error", err)
	}
	if err := deps.Close(); err != nil {
		logging.Error("Failed to release dependencies", "error", err)
	}
	if err := sqlxDB.Close(); err != nil {
		logging.Error("Failed to close cache database", "error", err)
	}
	logging.Info("Shutdown complete")
}
