package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cieges/room-agenda-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func meetingRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "title", "meeting_date", "time_start", "time_end", "meeting_room", "user_id", "user_name", "created_at", "updated_at"}).
		AddRow("m1", "Planning", "2025-01-06", "09:00", "10:00", models.RoomApoio, "u1", "Ana", now, now)
}

func TestListBetween(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.meeting_date BETWEEN $1::date AND $2::date")).
		WithArgs("2025-01-05", "2025-01-11").
		WillReturnRows(meetingRows())

	meetings, err := repo.ListBetween(context.Background(), "2025-01-05", "2025-01-11")
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "2025-01-06", meetings[0].MeetingDate)
	assert.Equal(t, "09:00", meetings[0].TimeStart)
	assert.Equal(t, "Ana", meetings[0].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOverlapping(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("m.time_start < $4::time AND m.time_end > $3::time")).
		WithArgs(models.RoomApoio, "2025-01-06", "09:30", "10:30", "").
		WillReturnRows(meetingRows())

	meetings, err := repo.FindOverlapping(context.Background(), models.RoomApoio, "2025-01-06", "09:30", "10:30", "")
	require.NoError(t, err)
	assert.Len(t, meetings, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOverlappingNone(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("m.time_start < $4::time AND m.time_end > $3::time")).
		WithArgs(models.RoomCieges, "2025-01-06", "10:00", "11:00", "m1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "meeting_date", "time_start", "time_end", "meeting_room", "user_id", "user_name", "created_at", "updated_at"}))

	meetings, err := repo.FindOverlapping(context.Background(), models.RoomCieges, "2025-01-06", "10:00", "11:00", "m1")
	require.NoError(t, err)
	assert.Empty(t, meetings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMeeting(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectExec("INSERT INTO meetings").WillReturnResult(sqlmock.NewResult(1, 1))

	m := &models.Meeting{
		Title:       "Daily",
		MeetingDate: "2025-01-06",
		TimeStart:   "09:00",
		TimeEnd:     "09:30",
		MeetingRoom: models.RoomApoio,
		UserID:      "u1",
	}
	err := repo.Create(context.Background(), m)
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMeetingsWithFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("m.meeting_room = $1")).
		WithArgs(models.RoomApoio).
		WillReturnRows(meetingRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM meetings m")).
		WithArgs(models.RoomApoio).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	meetings, total, err := repo.List(context.Background(), models.MeetingFilter{Room: models.RoomApoio})
	require.NoError(t, err)
	assert.Len(t, meetings, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMeeting(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM meetings WHERE id = $1")).
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "m1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
