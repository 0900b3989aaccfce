package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cieges/room-agenda-api/internal/dto"
	"github.com/cieges/room-agenda-api/internal/models"
	"github.com/cieges/room-agenda-api/internal/service"
	appErrors "github.com/cieges/room-agenda-api/pkg/errors"
	"github.com/cieges/room-agenda-api/pkg/response"
)

// MeetingHandler exposes meeting booking endpoints.
type MeetingHandler struct {
	service *service.MeetingService
}

// NewMeetingHandler creates a new handler.
func NewMeetingHandler(svc *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{service: svc}
}

// List godoc
// @Summary List meetings
// @Tags Meetings
// @Produce json
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Param room query string false "Filter by room"
// @Param userId query string false "Filter by owner"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /meetings [get]
func (h *MeetingHandler) List(c *gin.Context) {
	filter := models.MeetingFilter{
		Room:   c.Query("room"),
		UserID: c.Query("userId"),
	}
	if from := c.Query("dateFrom"); from != "" {
		filter.DateFrom = &from
	}
	if to := c.Query("dateTo"); to != "" {
		filter.DateTo = &to
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "100"))

	meetings, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, meetings, pagination)
}

// Get godoc
// @Summary Get meeting by ID
// @Tags Meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /meetings/{id} [get]
func (h *MeetingHandler) Get(c *gin.Context) {
	meeting, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// Create godoc
// @Summary Book a meeting
// @Tags Meetings
// @Accept json
// @Produce json
// @Param payload body dto.CreateMeetingRequest true "Meeting payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /meetings [post]
func (h *MeetingHandler) Create(c *gin.Context) {
	var req dto.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid meeting payload"))
		return
	}

	meeting, err := h.service.Create(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, meeting)
}

// Update godoc
// @Summary Update a meeting
// @Tags Meetings
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param payload body dto.UpdateMeetingRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /meetings/{id} [put]
func (h *MeetingHandler) Update(c *gin.Context) {
	var req dto.UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid meeting payload"))
		return
	}

	meeting, err := h.service.Update(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, meeting, nil)
}

// Delete godoc
// @Summary Delete a meeting
// @Tags Meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /meetings/{id} [delete]
func (h *MeetingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
