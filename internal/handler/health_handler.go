package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Pinger checks a backing service.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler provides health endpoint.
type HealthHandler struct {
	db    Pinger
	redis Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// GetHealth responds with service, database and Redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := status(h.db.PingContext(ctx))
	redisStatus := status(h.redis.PingContext(ctx))

	code, overall := 200, "healthy"
	if dbStatus != "connected" {
		code, overall = 503, "unhealthy"
	} else if redisStatus != "connected" {
		overall = "degraded"
	}

	c.JSON(code, gin.H{
		"status":   overall,
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": dbStatus,
		"redis":    redisStatus,
	})
}

func status(err error) string {
	if err != nil {
		return "disconnected"
	}
	return "connected"
}
