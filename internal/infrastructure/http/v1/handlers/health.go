package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdv/internal/infrastructure/storage/postgres"
)

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	pool     *postgres.Pool
	sessions Pinger
	version  string
}

// NewHealthHandler creates a new health handler. sessions may be nil.
func NewHealthHandler(pool *postgres.Pool, sessions Pinger, version string) *HealthHandler {
	return &HealthHandler{pool: pool, sessions: sessions, version: version}
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
	ctx := c.Request.Context()
	checks := map[string]string{}
	healthy := true

	if err := h.pool.Ping(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		healthy = false
	} else {
		checks["database"] = "healthy"
	}

	if h.sessions != nil {
		if err := h.sessions.Ping(ctx); err != nil {
			checks["sessions"] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			checks["sessions"] = "healthy"
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":      "pdv",
		"version":  h.version,
		"database": h.pool.Stats(),
	})
}
