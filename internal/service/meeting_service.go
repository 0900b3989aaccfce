package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cieges/room-agenda-api/internal/dto"
	"github.com/cieges/room-agenda-api/internal/models"
	"github.com/cieges/room-agenda-api/internal/schedule"
	appErrors "github.com/cieges/room-agenda-api/pkg/errors"
)

type meetingRepository interface {
	List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, int, error)
	GetByID(ctx context.Context, id string) (*models.Meeting, error)
	FindOverlapping(ctx context.Context, room, date, timeStart, timeEnd, excludeID string) ([]models.Meeting, error)
	Create(ctx context.Context, m *models.Meeting) error
	Update(ctx context.Context, m *models.Meeting) error
	Delete(ctx context.Context, id string) error
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type calendarInvalidator interface {
	InvalidateWindows(ctx context.Context)
}

// MeetingService provides meeting booking use cases. Writes enforce the
// one-room-one-interval rule; overlapping bookings in the same room are
// rejected before they reach storage.
type MeetingService struct {
	repo        meetingRepository
	audit       auditWriter
	invalidator calendarInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewMeetingService constructs a MeetingService.
func NewMeetingService(repo meetingRepository, audit auditWriter, invalidator calendarInvalidator, validate *validator.Validate, logger *zap.Logger) *MeetingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MeetingService{repo: repo, audit: audit, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns meetings matching the filter with pagination metadata.
func (s *MeetingService) List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, *models.Pagination, error) {
	if filter.DateFrom != nil {
		if _, err := schedule.ParseDate(*filter.DateFrom); err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dateFrom")
		}
	}
	if filter.DateTo != nil {
		if _, err := schedule.ParseDate(*filter.DateTo); err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dateTo")
		}
	}

	meetings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list meetings")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	return meetings, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single meeting.
func (s *MeetingService) Get(ctx context.Context, id string) (*models.Meeting, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	return m, nil
}

// Create books a meeting for the authenticated user.
func (s *MeetingService) Create(ctx context.Context, req dto.CreateMeetingRequest, actor models.UserInfo) (*models.Meeting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}
	date, startClock, endClock, err := s.normalizeInterval(req.MeetingDate, req.TimeStart, req.TimeEnd)
	if err != nil {
		return nil, err
	}

	if err := s.checkConflicts(ctx, req.MeetingRoom, date, startClock, endClock, ""); err != nil {
		return nil, err
	}

	m := &models.Meeting{
		Title:       req.Title,
		MeetingDate: date,
		TimeStart:   startClock,
		TimeEnd:     endClock,
		MeetingRoom: req.MeetingRoom,
		UserID:      actor.ID,
		UserName:    actor.Name,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create meeting")
	}

	s.recordAudit(ctx, actor.ID, models.AuditActionMeetingCreate, m)
	s.invalidate(ctx)
	return m, nil
}

// Update reschedules or renames a meeting. Owners may edit their own
// meetings; admins may edit any.
func (s *MeetingService) Update(ctx context.Context, id string, req dto.UpdateMeetingRequest, actor models.UserInfo) (*models.Meeting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && m.UserID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "meeting belongs to another user")
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.MeetingDate != nil {
		m.MeetingDate = *req.MeetingDate
	}
	if req.TimeStart != nil {
		m.TimeStart = *req.TimeStart
	}
	if req.TimeEnd != nil {
		m.TimeEnd = *req.TimeEnd
	}
	if req.MeetingRoom != nil {
		m.MeetingRoom = *req.MeetingRoom
	}

	date, startClock, endClock, err := s.normalizeInterval(m.MeetingDate, m.TimeStart, m.TimeEnd)
	if err != nil {
		return nil, err
	}
	m.MeetingDate, m.TimeStart, m.TimeEnd = date, startClock, endClock

	if err := s.checkConflicts(ctx, m.MeetingRoom, date, startClock, endClock, m.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update meeting")
	}

	s.recordAudit(ctx, actor.ID, models.AuditActionMeetingUpdate, m)
	s.invalidate(ctx)
	return m, nil
}

// Delete removes a meeting with the same ownership rule as Update.
func (s *MeetingService) Delete(ctx context.Context, id string, actor models.UserInfo) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin && m.UserID != actor.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "meeting belongs to another user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete meeting")
	}
	s.recordAudit(ctx, actor.ID, models.AuditActionMeetingDelete, m)
	s.invalidate(ctx)
	return nil
}

// normalizeInterval validates the date and clock strings and returns them in
// canonical form (YYYY-MM-DD, zero-padded HH:MM, end strictly after start).
func (s *MeetingService) normalizeInterval(date, timeStart, timeEnd string) (string, string, string, error) {
	day, err := schedule.ParseDate(date)
	if err != nil {
		return "", "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meetingDate")
	}
	startMin, err := schedule.ParseClock(timeStart)
	if err != nil {
		return "", "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timeStart")
	}
	endMin, err := schedule.ParseClock(timeEnd)
	if err != nil {
		return "", "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timeEnd")
	}
	if endMin <= startMin {
		return "", "", "", appErrors.Clone(appErrors.ErrValidation, "timeEnd must be after timeStart")
	}
	return schedule.FormatDate(day), schedule.FormatClock(startMin), schedule.FormatClock(endMin), nil
}

func (s *MeetingService) checkConflicts(ctx context.Context, room, date, timeStart, timeEnd, excludeID string) error {
	overlapping, err := s.repo.FindOverlapping(ctx, room, date, timeStart, timeEnd, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room availability")
	}
	if len(overlapping) > 0 {
		return appErrors.Clone(appErrors.ErrRoomConflict, "")
	}
	return nil
}

func (s *MeetingService) recordAudit(ctx context.Context, actorID, action string, m *models.Meeting) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(m)
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "meetings",
		ResourceID: &m.ID,
		NewValues:  payload,
	}
	if actorID != "" {
		entry.UserID = &actorID
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to record meeting audit log", zap.Error(err))
	}
}

func (s *MeetingService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateWindows(ctx)
	}
}
