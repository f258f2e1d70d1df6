package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	intconfig "projectdesk/internal/config"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "projectdesk is running"})
}

// DBCheck pings MySQL and, when configured, Redis.
func (h *Handler) DBCheck(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database not connected", "code": http.StatusServiceUnavailable})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := intconfig.PingDB(ctx, h.DB); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unreachable", "code": http.StatusServiceUnavailable})
		return
	}
	redisStatus := "disabled"
	if h.Redis != nil {
		redisStatus = "ok"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unreachable"
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "redis": redisStatus})
}

// Metrics exposes the default prometheus registry.
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
