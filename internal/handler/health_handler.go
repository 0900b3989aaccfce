package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cieges/room-agenda-api/internal/service"
)

// HealthHandler exposes the health/about endpoint.
type HealthHandler struct {
	service *service.HealthService
}

// NewHealthHandler creates a new handler.
func NewHealthHandler(svc *service.HealthService) *HealthHandler {
	return &HealthHandler{service: svc}
}

// Check godoc
// @Summary Application health
// @Description Returns application, memory and database status
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthData
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	data := h.service.Check(c.Request.Context())
	status := http.StatusOK
	if data.Status != "UP" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, data)
}
