package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cieges/room-agenda-api/internal/service"
	"github.com/cieges/room-agenda-api/pkg/response"
)

// CalendarHandler exposes the weekly and monthly occupancy grids.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler creates a new handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// Week godoc
// @Summary Weekly calendar grid
// @Description Returns the 7x48 half-hour occupancy grid for the week containing the anchor date
// @Tags Calendar
// @Produce json
// @Param anchor query string false "Anchor date (YYYY-MM-DD); defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/week [get]
func (h *CalendarHandler) Week(c *gin.Context) {
	grid, err := h.service.Week(c.Request.Context(), c.Query("anchor"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// Month godoc
// @Summary Monthly calendar overview
// @Description Returns one entry per day of the anchor's month with room color classification
// @Tags Calendar
// @Produce json
// @Param anchor query string false "Anchor date (YYYY-MM-DD); defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/month [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	grid, err := h.service.Month(c.Request.Context(), c.Query("anchor"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}
