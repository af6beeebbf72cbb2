// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"meatledger/internal/domain/activity"
	"meatledger/internal/domain/batch"
	"meatledger/internal/domain/disposition"
	"meatledger/internal/domain/ledger"
	"meatledger/internal/domain/order"
	"meatledger/internal/domain/reports"
	"meatledger/internal/infrastructure/http/v1/handlers"
	"meatledger/internal/infrastructure/http/v1/middleware"
	"meatledger/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// SnapshotPool is the optional snapshot database (health checks only)
	SnapshotPool *pgxpool.Pool

	BatchService       *batch.Service
	LedgerService      *ledger.Service
	DispositionService *disposition.Service
	OrderService       *order.Service
	ActivityService    *activity.Service
	ReportsService     *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.SnapshotPool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	{
		baseHandler := handlers.NewBaseHandler()

		batchHandler := handlers.NewBatchHandler(baseHandler, cfg.BatchService)
		batchHandler.RegisterRoutes(api.Group("/batches"))

		ledgerHandler := handlers.NewLedgerHandler(baseHandler, cfg.LedgerService)
		ledgerHandler.RegisterRoutes(api.Group("/allocations"))

		dispositionHandler := handlers.NewDispositionHandler(baseHandler, cfg.DispositionService)
		dispositionHandler.RegisterRoutes(api.Group("/dispositions"))

		orderHandler := handlers.NewOrderHandler(baseHandler, cfg.OrderService)
		orderHandler.RegisterRoutes(api.Group("/orders"))

		activityHandler := handlers.NewActivityHandler(baseHandler, cfg.ActivityService)
		activityHandler.RegisterRoutes(api.Group("/activity"))

		reportsHandler := handlers.NewReportsHandler(baseHandler, cfg.ReportsService)
		reportsHandler.RegisterRoutes(api.Group("/reports"))
	}

	return router
}
