package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DBCheck handles GET /api/db-check: pings both stores so deploys can
// verify connectivity before taking traffic.
func (h *Handler) DBCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := gin.H{"mysql": "ok", "mongo": "ok"}
	healthy := true

	if h.SQL == nil {
		status["mysql"] = "not configured"
		healthy = false
	} else if err := h.SQL.PingContext(ctx); err != nil {
		status["mysql"] = err.Error()
		healthy = false
	}

	if h.Mongo == nil {
		status["mongo"] = "not configured"
		healthy = false
	} else if err := h.Mongo.Ping(ctx, nil); err != nil {
		status["mongo"] = err.Error()
		healthy = false
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
