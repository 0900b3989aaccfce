package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cieges/room-agenda-api/internal/models"
)

// meetingColumns keeps dates and times in their canonical wire formats
// (YYYY-MM-DD / HH:MM) straight out of the database.
const meetingColumns = `m.id, m.title, to_char(m.meeting_date, 'YYYY-MM-DD') AS meeting_date,
to_char(m.time_start, 'HH24:MI') AS time_start, to_char(m.time_end, 'HH24:MI') AS time_end,
m.meeting_room, m.user_id, COALESCE(u.name, '') AS user_name, m.created_at, m.updated_at`

// MeetingRepository persists meetings.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository constructs a meeting repository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// List returns meetings matching the filter with a total count.
func (r *MeetingRepository) List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("m.meeting_date >= $%d::date", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("m.meeting_date <= $%d::date", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	if filter.Room != "" {
		where = append(where, fmt.Sprintf("m.meeting_room = $%d", len(args)+1))
		args = append(args, filter.Room)
	}
	if filter.UserID != "" {
		where = append(where, fmt.Sprintf("m.user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s
FROM meetings m LEFT JOIN users u ON u.id = m.user_id
WHERE %s ORDER BY m.meeting_date ASC, m.time_start ASC LIMIT %d OFFSET %d`, meetingColumns, whereClause, size, offset)
	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list meetings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM meetings m WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count meetings: %w", err)
	}
	return meetings, total, nil
}

// ListBetween returns every meeting whose date falls inside [from, to],
// ordered for deterministic grid placement. The calendar grids consume this.
func (r *MeetingRepository) ListBetween(ctx context.Context, from, to string) ([]models.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s
FROM meetings m LEFT JOIN users u ON u.id = m.user_id
WHERE m.meeting_date BETWEEN $1::date AND $2::date
ORDER BY m.meeting_date ASC, m.time_start ASC, m.created_at ASC`, meetingColumns)
	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, from, to); err != nil {
		return nil, fmt.Errorf("list meetings between %s and %s: %w", from, to, err)
	}
	return meetings, nil
}

// GetByID fetches a single meeting.
func (r *MeetingRepository) GetByID(ctx context.Context, id string) (*models.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings m LEFT JOIN users u ON u.id = m.user_id WHERE m.id = $1`, meetingColumns)
	var m models.Meeting
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// FindOverlapping returns meetings in the same room on the same date whose
// intervals intersect [timeStart, timeEnd). excludeID skips the meeting being
// updated.
func (r *MeetingRepository) FindOverlapping(ctx context.Context, room, date, timeStart, timeEnd, excludeID string) ([]models.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s
FROM meetings m LEFT JOIN users u ON u.id = m.user_id
WHERE m.meeting_room = $1 AND m.meeting_date = $2::date
  AND m.time_start < $4::time AND m.time_end > $3::time
  AND ($5 = '' OR m.id <> $5)
ORDER BY m.time_start ASC`, meetingColumns)
	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, room, date, timeStart, timeEnd, excludeID); err != nil {
		return nil, fmt.Errorf("find overlapping meetings: %w", err)
	}
	return meetings, nil
}

// Create inserts a meeting.
func (r *MeetingRepository) Create(ctx context.Context, m *models.Meeting) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	const query = `INSERT INTO meetings (id, title, meeting_date, time_start, time_end, meeting_room, user_id, created_at, updated_at)
VALUES (:id, :title, :meeting_date, :time_start, :time_end, :meeting_room, :user_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}
	return nil
}

// Update modifies a meeting.
func (r *MeetingRepository) Update(ctx context.Context, m *models.Meeting) error {
	m.UpdatedAt = time.Now().UTC()
	const query = `UPDATE meetings SET title = :title, meeting_date = :meeting_date, time_start = :time_start,
time_end = :time_end, meeting_room = :meeting_room, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}
	return nil
}

// Delete removes a meeting.
func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM meetings WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	return nil
}
