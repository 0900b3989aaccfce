package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cieges/room-agenda-api/internal/models"
)

func auditRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "action", "resource", "resource_id", "old_values", "new_values", "ip_address", "user_agent", "created_at"}).
		AddRow("a1", "u1", models.AuditActionMeetingCreate, "meetings", "m1", nil, []byte(`{}`), "127.0.0.1", "test", now)
}

func TestListAuditLogs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs WHERE 1=1 AND action = $1 ORDER BY created_at DESC LIMIT 50 OFFSET 0")).
		WithArgs(models.AuditActionMeetingCreate).
		WillReturnRows(auditRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audit_logs WHERE 1=1 AND action = $1")).
		WithArgs(models.AuditActionMeetingCreate).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	logs, total, err := repo.List(context.Background(), models.AuditFilter{Action: models.AuditActionMeetingCreate})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "meetings", logs[0].Resource)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeOlderThan(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM audit_logs WHERE created_at < $1")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	purged, err := repo.PurgeOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), purged)
	assert.NoError(t, mock.ExpectationsWereMet())
}
