package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cieges/room-agenda-api/internal/middleware"
	"github.com/cieges/room-agenda-api/internal/models"
	"github.com/cieges/room-agenda-api/internal/service"
	"github.com/cieges/room-agenda-api/pkg/response"
)

type meetingRepoStub struct {
	meetings    map[string]*models.Meeting
	overlapping []models.Meeting
}

func newMeetingRepoStub() *meetingRepoStub {
	return &meetingRepoStub{meetings: make(map[string]*models.Meeting)}
}

func (s *meetingRepoStub) List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, int, error) {
	out := make([]models.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (s *meetingRepoStub) GetByID(ctx context.Context, id string) (*models.Meeting, error) {
	m, ok := s.meetings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *m
	return &copied, nil
}

func (s *meetingRepoStub) FindOverlapping(ctx context.Context, room, date, timeStart, timeEnd, excludeID string) ([]models.Meeting, error) {
	return s.overlapping, nil
}

func (s *meetingRepoStub) Create(ctx context.Context, m *models.Meeting) error {
	copied := *m
	s.meetings[m.ID] = &copied
	return nil
}

func (s *meetingRepoStub) Update(ctx context.Context, m *models.Meeting) error {
	copied := *m
	s.meetings[m.ID] = &copied
	return nil
}

func (s *meetingRepoStub) Delete(ctx context.Context, id string) error {
	delete(s.meetings, id)
	return nil
}

type auditStub struct{}

func (auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error { return nil }

type invalidatorStub struct{}

func (invalidatorStub) InvalidateWindows(ctx context.Context) {}

func newMeetingHandler(repo *meetingRepoStub) *MeetingHandler {
	svc := service.NewMeetingService(repo, auditStub{}, invalidatorStub{}, nil, zap.NewNop())
	return NewMeetingHandler(svc)
}

func authedContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Name: "Ana", Role: models.RoleUser})
	return c, w
}

func TestCreateMeetingEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newMeetingRepoStub()
	handler := newMeetingHandler(repo)

	body := []byte(`{"title":"Daily","meetingDate":"2025-01-06","timeStart":"09:00","timeEnd":"09:30","meetingRoom":"APOIO"}`)
	c, w := authedContext(t, http.MethodPost, "/meetings", body)

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data models.Meeting `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "Daily", envelope.Data.Title)
	require.Equal(t, "u1", envelope.Data.UserID)
	require.Equal(t, "Ana", envelope.Data.UserName)
	require.Len(t, repo.meetings, 1)
}

func TestCreateMeetingEndpointConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newMeetingRepoStub()
	repo.overlapping = []models.Meeting{{ID: "existing"}}
	handler := newMeetingHandler(repo)

	body := []byte(`{"title":"Clash","meetingDate":"2025-01-06","timeStart":"09:00","timeEnd":"10:00","meetingRoom":"APOIO"}`)
	c, w := authedContext(t, http.MethodPost, "/meetings", body)

	handler.Create(c)

	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	require.Equal(t, "ROOM_CONFLICT", envelope.Error.Code)
}

func TestCreateMeetingEndpointBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newMeetingHandler(newMeetingRepoStub())

	c, w := authedContext(t, http.MethodPost, "/meetings", []byte(`{"title":""`))

	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMeetingEndpointNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newMeetingHandler(newMeetingRepoStub())

	c, w := authedContext(t, http.MethodGet, "/meetings/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMeetingEndpointForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newMeetingRepoStub()
	repo.meetings["m1"] = &models.Meeting{ID: "m1", UserID: "someone-else", MeetingDate: "2025-01-06", TimeStart: "09:00", TimeEnd: "10:00"}
	handler := newMeetingHandler(repo)

	c, w := authedContext(t, http.MethodDelete, "/meetings/m1", nil)
	c.Params = gin.Params{{Key: "id", Value: "m1"}}

	handler.Delete(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Len(t, repo.meetings, 1)
}
