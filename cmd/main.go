/**
 * @description
 * This is the main entry point for the billing-service.
 * It initializes and wires together all the components of the application:
 * configuration, database connection, repository, PayPal client, transition
 * engine, the HTTP router, and the periodic subscription sync job.
 * Finally, it starts the HTTP server to listen for incoming requests.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"github.com/careerforge/billing-service/internal/api"
	"github.com/careerforge/billing-service/internal/app"
	"github.com/careerforge/billing-service/internal/config"
	"github.com/careerforge/billing-service/internal/store"
	"github.com/careerforge/billing-service/pkg/paypalclient"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load application configuration from environment variables
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Establish connection to the PostgreSQL database with connection pool configuration
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = 50
	poolCfg.MinConns = 5
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// IMPORTANT: Disable prepared statements to work with PgBouncer transaction pooling
	// Use simple protocol to avoid statement cache errors (SQLSTATE 42P05)
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// Initialize application layers
	repository := store.NewPostgresRepository(dbpool)
	paypal := paypalclient.NewClient(cfg.PayPalAPIBaseURL, cfg.PayPalClientID, cfg.PayPalClientSecret)
	resolver := app.NewResolver(repository, cfg.InterviewPlanIDs(), cfg.ResumePlanIDs())
	service := app.NewService(repository, paypal, resolver)
	verifier := app.NewVerifier(paypal, cfg.PayPalWebhookID, cfg.SkipSignatureVerify)
	handler := api.NewHandler(service, verifier)
	router := api.NewRouter(handler, cfg.ClerkJWKSURL)

	// Periodic reconciliation: the convergence pass behind every soft
	// failure in the transition engine.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SyncCronSpec, func() {
		runID := uuid.NewString()
		logger.Info("starting periodic subscription sync", "run_id", runID)
		if err := service.SyncAllUsers(context.Background(), runID); err != nil {
			logger.Error("periodic subscription sync failed", "run_id", runID, "error", err)
			return
		}
		logger.Info("periodic subscription sync finished", "run_id", runID)
	}); err != nil {
		logger.Error("invalid sync cron spec", "spec", cfg.SyncCronSpec, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Configure and start the HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
