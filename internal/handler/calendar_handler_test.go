package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cieges/room-agenda-api/internal/dto"
	"github.com/cieges/room-agenda-api/internal/models"
	"github.com/cieges/room-agenda-api/internal/service"
	"github.com/cieges/room-agenda-api/pkg/response"
)

type calendarRepoStub struct {
	meetings []models.Meeting
}

func (s *calendarRepoStub) ListBetween(ctx context.Context, from, to string) ([]models.Meeting, error) {
	return s.meetings, nil
}

func newCalendarHandler(meetings ...models.Meeting) *CalendarHandler {
	svc := service.NewCalendarService(&calendarRepoStub{meetings: meetings}, nil, time.Minute, zap.NewNop())
	return NewCalendarHandler(svc)
}

func TestCalendarWeekEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCalendarHandler(models.Meeting{
		ID: "m1", Title: "Planning", MeetingDate: "2025-01-06",
		TimeStart: "09:00", TimeEnd: "10:00", MeetingRoom: models.RoomApoio,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/calendar/week?anchor=2025-01-05", nil)
	c.Request = req

	handler.Week(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.WeekGridResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "2025-01-05", envelope.Data.WeekStart)
	require.Len(t, envelope.Data.Days, 7)
	require.Len(t, envelope.Data.Hours, 48)
	require.Equal(t, "00:00", envelope.Data.Hours[0])
	require.Equal(t, "23:30", envelope.Data.Hours[47])

	monday := envelope.Data.Days[1]
	require.True(t, monday.Cells[18].Occupied)
	require.NotNil(t, monday.Cells[18].Meeting)
	require.Equal(t, "m1", monday.Cells[18].Meeting.ID)
}

func TestCalendarWeekRejectsBadAnchor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCalendarHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/calendar/week?anchor=garbage", nil)
	c.Request = req

	handler.Week(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	require.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestCalendarMonthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCalendarHandler(models.Meeting{
		ID: "m1", MeetingDate: "2025-01-06", TimeStart: "09:00", TimeEnd: "10:00", MeetingRoom: models.RoomCieges,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/calendar/month?anchor=2025-01-15", nil)
	c.Request = req

	handler.Month(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.MonthGridResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "2025-01", envelope.Data.Month)
	require.Len(t, envelope.Data.Days, 31)
	require.Equal(t, models.RoomCieges, envelope.Data.Days[5].RoomClass)
}
