package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/utils"
)

var startTime = time.Now()

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	db    Pinger
	redis Pinger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when Redis
// is not configured.
func NewHealthHandler(db Pinger, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// GetHealth responds with service, database and Redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "connected"
	if err := h.db.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("health check: database unreachable")
		dbStatus = "disconnected"
	}

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("health check: redis unreachable")
			redisStatus = "disconnected"
		}
	}

	data := gin.H{
		"status":   "healthy",
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": dbStatus,
		"redis":    redisStatus,
	}

	if dbStatus != "connected" {
		data["status"] = "unhealthy"
		c.JSON(503, utils.Response{
			Success: false,
			Code:    503,
			Message: "Service is unhealthy",
			Data:    data,
			Error:   &utils.ErrorInfo{Code: utils.CodeServiceUnavailable, Message: "Database is unreachable"},
			Meta:    utils.Meta{RequestID: c.GetString("request_id"), Timestamp: utils.NowISO()},
		})
		return
	}
	utils.Success(c, 200, "Service is healthy", data)
}
