package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"speech-insight/internal/api/v1/dto"
	"speech-insight/internal/api/v1/services"
)

const healthPingTimeout = 2 * time.Second

// HealthInfo is the static part of the health response
type HealthInfo struct {
	AppName             string
	Version             string
	TranscriptionEngine string
	SentimentModel      string
}

// HealthHandler reports service and database health
type HealthHandler struct {
	checker services.HealthChecker
	info    HealthInfo
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker services.HealthChecker, info HealthInfo) *HealthHandler {
	return &HealthHandler{checker: checker, info: info}
}

// Check handles GET /health and GET /api/v1/health
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service and database healthy"
// @Failure 503 {object} dto.HealthResponse "Database unreachable"
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:              "healthy",
		AppName:             h.info.AppName,
		Version:             h.info.Version,
		TranscriptionEngine: h.info.TranscriptionEngine,
		SentimentModel:      h.info.SentimentModel,
		Database:            "connected",
		Timestamp:           time.Now().Unix(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()
	if err := h.checker.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
