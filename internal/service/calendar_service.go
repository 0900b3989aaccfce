package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cieges/room-agenda-api/internal/dto"
	"github.com/cieges/room-agenda-api/internal/models"
	"github.com/cieges/room-agenda-api/internal/schedule"
	appErrors "github.com/cieges/room-agenda-api/pkg/errors"
)

type calendarMeetingRepository interface {
	ListBetween(ctx context.Context, from, to string) ([]models.Meeting, error)
}

type calendarCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheObserver interface {
	RecordCacheOperation(hit bool)
}

const calendarCachePrefix = "calendar:"

// CalendarService assembles the weekly and monthly occupancy views. Computed
// windows are cached; meeting writes blow the whole prefix away.
type CalendarService struct {
	repo     calendarMeetingRepository
	cache    calendarCache
	cacheTTL time.Duration
	logger   *zap.Logger
	metrics  cacheObserver
}

// NewCalendarService constructs a CalendarService. A nil cache disables
// caching entirely.
func NewCalendarService(repo calendarMeetingRepository, cache calendarCache, cacheTTL time.Duration, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// SetMetrics attaches a cache hit/miss observer.
func (s *CalendarService) SetMetrics(m cacheObserver) {
	s.metrics = m
}

func (s *CalendarService) observeCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit)
	}
}

// Week returns the 7x48 grid for the week containing the anchor date. An
// empty anchor means the current week.
func (s *CalendarService) Week(ctx context.Context, anchor string) (*dto.WeekGridResponse, error) {
	day, err := s.resolveAnchor(anchor)
	if err != nil {
		return nil, err
	}
	weekStart := schedule.StartOfWeek(day)
	weekEnd := weekStart.AddDate(0, 0, schedule.DaysPerWeek-1)

	cacheKey := calendarCachePrefix + "week:" + schedule.FormatDate(weekStart)
	if s.cache != nil {
		var cached dto.WeekGridResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.observeCache(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("calendar cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
		s.observeCache(false)
	}

	meetings, err := s.repo.ListBetween(ctx, schedule.FormatDate(weekStart), schedule.FormatDate(weekEnd))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meetings for week")
	}

	grid, verrs := schedule.ComputeWeekGrid(weekStart, meetings)
	resp := mapWeekGrid(grid, verrs)

	s.store(ctx, cacheKey, resp)
	return resp, nil
}

// Month returns the per-day view for the month containing the anchor date.
func (s *CalendarService) Month(ctx context.Context, anchor string) (*dto.MonthGridResponse, error) {
	day, err := s.resolveAnchor(anchor)
	if err != nil {
		return nil, err
	}
	first := schedule.StartOfMonth(day)
	last := first.AddDate(0, 0, schedule.DaysInMonth(first)-1)

	cacheKey := calendarCachePrefix + "month:" + first.Format("2006-01")
	if s.cache != nil {
		var cached dto.MonthGridResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.observeCache(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("calendar cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
		s.observeCache(false)
	}

	meetings, err := s.repo.ListBetween(ctx, schedule.FormatDate(first), schedule.FormatDate(last))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meetings for month")
	}

	grid, verrs := schedule.ComputeMonthGrid(first, meetings)
	resp := mapMonthGrid(grid, verrs)

	s.store(ctx, cacheKey, resp)
	return resp, nil
}

// InvalidateWindows drops every cached calendar window. Meeting writes call
// this so stale grids never outlive a booking change.
func (s *CalendarService) InvalidateWindows(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, calendarCachePrefix+"*"); err != nil {
		s.logger.Warn("calendar cache invalidation failed", zap.Error(err))
	}
}

func (s *CalendarService) resolveAnchor(anchor string) (time.Time, error) {
	if anchor == "" {
		return schedule.CurrentWeek(), nil
	}
	day, err := schedule.ParseDate(anchor)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("invalid anchor date %q, expected YYYY-MM-DD", anchor))
	}
	return day, nil
}

func (s *CalendarService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("calendar cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func mapWeekGrid(grid *schedule.WeekGrid, verrs []schedule.ValidationError) *dto.WeekGridResponse {
	resp := &dto.WeekGridResponse{
		WeekStart: schedule.FormatDate(grid.WeekStart),
		WeekEnd:   schedule.FormatDate(grid.Days[schedule.DaysPerWeek-1]),
		Hours:     schedule.SlotLabels(),
		Days:      make([]dto.WeekDay, schedule.DaysPerWeek),
		Errors:    mapGridErrors(verrs),
	}
	for di := range grid.Days {
		day := dto.WeekDay{
			Date:    schedule.FormatDate(grid.Days[di]),
			Weekday: grid.Days[di].Weekday().String(),
			Cells:   make([]dto.WeekCell, schedule.SlotsPerDay),
		}
		for si := range grid.Cells[di] {
			cell := grid.Cells[di][si]
			out := dto.WeekCell{
				Time:      schedule.SlotLabel(si),
				Occupied:  cell.Occupied,
				Rooms:     cell.Rooms,
				RoomClass: roomClass(cell.Mark),
				Conflict:  cell.Conflict,
				SpanSlots: cell.SpanSlots,
			}
			if cell.Start != nil {
				out.Meeting = meetingSlot(*cell.Start)
			}
			day.Cells[si] = out
		}
		resp.Days[di] = day
	}
	return resp
}

func mapMonthGrid(grid *schedule.MonthGrid, verrs []schedule.ValidationError) *dto.MonthGridResponse {
	resp := &dto.MonthGridResponse{
		Month:  grid.MonthStart.Format("2006-01"),
		Days:   make([]dto.MonthDay, len(grid.Days)),
		Errors: mapGridErrors(verrs),
	}
	for i := range grid.Days {
		day := grid.Days[i]
		out := dto.MonthDay{
			Date:      schedule.FormatDate(day.Date),
			RoomClass: roomClass(day.Mark),
			Conflict:  day.Conflict,
			Meetings:  make([]dto.MeetingSlot, 0, len(day.Meetings)),
		}
		for _, m := range day.Meetings {
			out.Meetings = append(out.Meetings, *meetingSlot(m))
		}
		resp.Days[i] = out
	}
	return resp
}

func mapGridErrors(verrs []schedule.ValidationError) []dto.GridError {
	if len(verrs) == 0 {
		return nil
	}
	out := make([]dto.GridError, len(verrs))
	for i, e := range verrs {
		out[i] = dto.GridError{MeetingID: e.MeetingID, Field: e.Field, Reason: e.Reason}
	}
	return out
}

func roomClass(mark schedule.RoomMark) string {
	switch mark.Kind {
	case schedule.RoomsSingle:
		return mark.Room
	case schedule.RoomsMixed:
		return dto.RoomClassMixed
	default:
		return ""
	}
}

func meetingSlot(m models.Meeting) *dto.MeetingSlot {
	return &dto.MeetingSlot{
		ID:          m.ID,
		Title:       m.Title,
		TimeStart:   m.TimeStart,
		TimeEnd:     m.TimeEnd,
		MeetingRoom: m.MeetingRoom,
		UserName:    m.UserName,
	}
}
