// Package main is the entry point for the meatledger API server.
// State is held in the in-memory store; an optional PostgreSQL snapshot
// database makes it durable across restarts.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"meatledger/internal/domain/activity"
	"meatledger/internal/domain/batch"
	"meatledger/internal/domain/disposition"
	"meatledger/internal/domain/ledger"
	"meatledger/internal/domain/order"
	"meatledger/internal/domain/reports"
	v1 "meatledger/internal/infrastructure/http/v1"
	"meatledger/internal/infrastructure/storage/memory"
	"meatledger/internal/infrastructure/storage/postgres"
	"meatledger/pkg/logger"
	"meatledger/pkg/numerator"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting meatledger server")

	// --- Store ---
	store := memory.NewStore()

	// --- Optional snapshot persistence ---
	var snapshotPool *pgxpool.Pool
	var snapshotStore *postgres.SnapshotStore
	if dsn := getEnv("SNAPSHOT_DATABASE_URL", ""); dsn != "" {
		snapshotPool, err = pgxpool.New(ctx, dsn)
		if err != nil {
			log.Fatalw("failed to connect to snapshot database", "error", err)
		}
		defer snapshotPool.Close()

		if err := snapshotPool.Ping(ctx); err != nil {
			log.Fatalw("failed to ping snapshot database", "error", err)
		}

		snapshotStore, err = postgres.NewSnapshotStore(snapshotPool)
		if err != nil {
			log.Fatalw("failed to create snapshot store", "error", err)
		}
		defer snapshotStore.Close()

		if err := snapshotStore.EnsureSchema(ctx); err != nil {
			log.Fatalw("failed to ensure snapshot schema", "error", err)
		}

		snap, err := snapshotStore.LoadSnapshot(ctx)
		if err != nil {
			log.Fatalw("failed to load snapshot", "error", err)
		}
		if snap != nil {
			if err := store.Restore(snap); err != nil {
				log.Fatalw("failed to restore snapshot", "error", err)
			}
			log.Infow("state restored from snapshot", "saved_at", snap.SavedAt)
		} else {
			log.Info("no snapshot found, starting empty")
		}
	} else {
		log.Info("snapshot persistence disabled, state is in-memory only")
	}

	// --- Repositories ---
	batchRepo := memory.NewBatchRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)
	dispositionRepo := memory.NewDispositionRepository(store)
	orderRepo := memory.NewOrderRepository(store)
	activityRepo := memory.NewActivityRepository(store)

	// --- Services ---
	numeratorService := numerator.New(store)
	activityService := activity.NewService(activityRepo, numeratorService)
	batchService := batch.NewService(batchRepo, store, numeratorService, activityService)
	ledgerService := ledger.NewService(ledgerRepo, batchRepo, store, activityService)
	dispositionService := disposition.NewService(
		dispositionRepo, ledgerService, batchRepo, store, numeratorService, activityService,
	)
	orderService := order.NewService(orderRepo, store, numeratorService, activityService)
	reportsService := reports.NewService(ledgerRepo, dispositionRepo, orderRepo, store)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:             log,
		SnapshotPool:       snapshotPool,
		BatchService:       batchService,
		LedgerService:      ledgerService,
		DispositionService: dispositionService,
		OrderService:       orderService,
		ActivityService:    activityService,
		ReportsService:     reportsService,
	})

	// --- Periodic snapshot flush ---
	flushDone := make(chan struct{})
	if snapshotStore != nil {
		interval := getEnvDuration("SNAPSHOT_INTERVAL", time.Minute)
		go func() {
			defer close(flushDone)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for range ticker.C {
				if err := snapshotStore.SaveSnapshot(ctx, store.Snapshot()); err != nil {
					log.Errorw("failed to save snapshot", "error", err)
				}
			}
		}()
	}

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	// Final snapshot so nothing recorded before shutdown is lost
	if snapshotStore != nil {
		if err := snapshotStore.SaveSnapshot(shutdownCtx, store.Snapshot()); err != nil {
			log.Errorw("failed to save final snapshot", "error", err)
		} else {
			log.Info("final snapshot saved")
		}
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
