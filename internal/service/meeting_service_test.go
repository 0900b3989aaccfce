package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cieges/room-agenda-api/internal/dto"
	"github.com/cieges/room-agenda-api/internal/models"
	appErrors "github.com/cieges/room-agenda-api/pkg/errors"
)

type fakeMeetingRepo struct {
	meetings    map[string]*models.Meeting
	overlapping []models.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[string]*models.Meeting)}
}

func (f *fakeMeetingRepo) List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, int, error) {
	out := make([]models.Meeting, 0, len(f.meetings))
	for _, m := range f.meetings {
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (f *fakeMeetingRepo) GetByID(ctx context.Context, id string) (*models.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMeetingRepo) FindOverlapping(ctx context.Context, room, date, timeStart, timeEnd, excludeID string) ([]models.Meeting, error) {
	return f.overlapping, nil
}

func (f *fakeMeetingRepo) Create(ctx context.Context, m *models.Meeting) error {
	if m.ID == "" {
		m.ID = "generated"
	}
	copied := *m
	f.meetings[m.ID] = &copied
	return nil
}

func (f *fakeMeetingRepo) Update(ctx context.Context, m *models.Meeting) error {
	copied := *m
	f.meetings[m.ID] = &copied
	return nil
}

func (f *fakeMeetingRepo) Delete(ctx context.Context, id string) error {
	delete(f.meetings, id)
	return nil
}

type fakeAuditWriter struct {
	entries []models.AuditLog
}

func (f *fakeAuditWriter) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.entries = append(f.entries, *log)
	return nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) InvalidateWindows(ctx context.Context) { f.calls++ }

func TestCreateMeetingNormalizesInterval(t *testing.T) {
	repo := newFakeMeetingRepo()
	audit := &fakeAuditWriter{}
	inv := &fakeInvalidator{}
	svc := NewMeetingService(repo, audit, inv, nil, zap.NewNop())

	actor := models.UserInfo{ID: "u1", Name: "Ana", Role: models.RoleUser}
	m, err := svc.Create(context.Background(), dto.CreateMeetingRequest{
		Title:       "Daily",
		MeetingDate: "2025-01-06",
		TimeStart:   "7:30",
		TimeEnd:     "8:00",
		MeetingRoom: models.RoomApoio,
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, "07:30", m.TimeStart)
	assert.Equal(t, "08:00", m.TimeEnd)
	assert.Equal(t, "u1", m.UserID)
	assert.Equal(t, "Ana", m.UserName)
	assert.Equal(t, 1, inv.calls)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionMeetingCreate, audit.entries[0].Action)
}

func TestCreateMeetingRejectsRoomConflict(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.overlapping = []models.Meeting{{ID: "existing"}}
	svc := NewMeetingService(repo, &fakeAuditWriter{}, &fakeInvalidator{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateMeetingRequest{
		Title:       "Clash",
		MeetingDate: "2025-01-06",
		TimeStart:   "09:00",
		TimeEnd:     "10:00",
		MeetingRoom: models.RoomApoio,
	}, models.UserInfo{ID: "u1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRoomConflict.Code, appErrors.FromError(err).Code)
}

func TestCreateMeetingRejectsInvertedInterval(t *testing.T) {
	svc := NewMeetingService(newFakeMeetingRepo(), &fakeAuditWriter{}, &fakeInvalidator{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateMeetingRequest{
		Title:       "Backwards",
		MeetingDate: "2025-01-06",
		TimeStart:   "10:00",
		TimeEnd:     "09:00",
		MeetingRoom: models.RoomApoio,
	}, models.UserInfo{ID: "u1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateMeetingOwnership(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.meetings["m1"] = &models.Meeting{
		ID: "m1", Title: "Review", MeetingDate: "2025-01-06",
		TimeStart: "09:00", TimeEnd: "10:00", MeetingRoom: models.RoomApoio, UserID: "owner",
	}
	svc := NewMeetingService(repo, &fakeAuditWriter{}, &fakeInvalidator{}, nil, zap.NewNop())

	newTitle := "Review v2"
	_, err := svc.Update(context.Background(), "m1", dto.UpdateMeetingRequest{Title: &newTitle},
		models.UserInfo{ID: "intruder", Role: models.RoleUser})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	updated, err := svc.Update(context.Background(), "m1", dto.UpdateMeetingRequest{Title: &newTitle},
		models.UserInfo{ID: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Review v2", updated.Title)
}

func TestDeleteMeeting(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.meetings["m1"] = &models.Meeting{ID: "m1", UserID: "owner", MeetingDate: "2025-01-06", TimeStart: "09:00", TimeEnd: "10:00"}
	inv := &fakeInvalidator{}
	svc := NewMeetingService(repo, &fakeAuditWriter{}, inv, nil, zap.NewNop())

	err := svc.Delete(context.Background(), "m1", models.UserInfo{ID: "owner", Role: models.RoleUser})
	require.NoError(t, err)
	assert.Empty(t, repo.meetings)
	assert.Equal(t, 1, inv.calls)

	err = svc.Delete(context.Background(), "m1", models.UserInfo{ID: "owner", Role: models.RoleUser})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
