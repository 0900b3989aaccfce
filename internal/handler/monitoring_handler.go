package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cieges/room-agenda-api/internal/dto"
	"github.com/cieges/room-agenda-api/internal/models"
	"github.com/cieges/room-agenda-api/internal/service"
	appErrors "github.com/cieges/room-agenda-api/pkg/errors"
	"github.com/cieges/room-agenda-api/pkg/response"
)

// MonitoringHandler exposes the audit log and export endpoints.
type MonitoringHandler struct {
	service *service.MonitoringService
}

// NewMonitoringHandler creates a new handler.
func NewMonitoringHandler(svc *service.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{service: svc}
}

// ListAuditLogs godoc
// @Summary List audit logs
// @Tags Monitoring
// @Produce json
// @Param userId query string false "Filter by user"
// @Param action query string false "Filter by action"
// @Param resource query string false "Filter by resource"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /monitoring/audit [get]
func (h *MonitoringHandler) ListAuditLogs(c *gin.Context) {
	filter := models.AuditFilter{
		UserID:   c.Query("userId"),
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from date"))
			return
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to date"))
			return
		}
		end := parsed.Add(24*time.Hour - time.Second)
		filter.To = &end
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	logsList, pagination, err := h.service.ListAuditLogs(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, logsList, pagination)
}

// Export godoc
// @Summary Export audit logs
// @Description Schedules an asynchronous CSV or PDF export of the audit log
// @Tags Monitoring
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /monitoring/export [post]
func (h *MonitoringHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	actorID := ""
	if claims := claimsFromContext(c); claims != nil {
		actorID = claims.UserID
	}

	job, err := h.service.Export(c.Request.Context(), req, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, job, nil)
}

// GetExportJob godoc
// @Summary Export job status
// @Tags Monitoring
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /monitoring/export/{id} [get]
func (h *MonitoringHandler) GetExportJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download export file
// @Description Streams a completed export referenced by a signed token
// @Tags Monitoring
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /monitoring/download/{token} [get]
func (h *MonitoringHandler) Download(c *gin.Context) {
	file, relPath, err := h.service.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(relPath)))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
