package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler provides health check endpoints. The snapshot pool is
// optional: the service runs fully in-memory when persistence is disabled.
type HealthHandler struct {
	snapshotPool *pgxpool.Pool
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(snapshotPool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{snapshotPool: snapshotPool}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]string{
		"store": "healthy",
	}

	if h.snapshotPool != nil {
		if err := h.snapshotPool.Ping(c.Request.Context()); err != nil {
			checks["snapshot_db"] = "unhealthy: " + err.Error()
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"checks": checks,
			})
			return
		}
		checks["snapshot_db"] = "healthy"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": checks,
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"app":     "meatledger",
		"version": "0.1.0",
	}

	if h.snapshotPool != nil {
		stat := h.snapshotPool.Stat()
		info["snapshot_db"] = map[string]any{
			"total_conns":    stat.TotalConns(),
			"acquired_conns": stat.AcquiredConns(),
			"idle_conns":     stat.IdleConns(),
			"max_conns":      stat.MaxConns(),
		}
	}

	c.JSON(http.StatusOK, info)
}
