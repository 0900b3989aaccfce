package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/cieges/room-agenda-api/internal/models"
)

// HealthService reports process and dependency health for the status screen.
type HealthService struct {
	db        *sqlx.DB
	appName   string
	version   string
	startedAt time.Time
	logger    *zap.Logger
}

// NewHealthService constructs a HealthService anchored at process start.
func NewHealthService(db *sqlx.DB, appName, version string, logger *zap.Logger) *HealthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthService{
		db:        db,
		appName:   appName,
		version:   version,
		startedAt: time.Now().UTC(),
		logger:    logger,
	}
}

// Check returns a health snapshot. A failing database ping degrades the
// overall status to DOWN instead of erroring, so monitors always get a body.
func (s *HealthService) Check(ctx context.Context) *models.HealthData {
	status := "UP"
	dbStatus := "UP"

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if s.db == nil {
		dbStatus = "DOWN"
		status = "DOWN"
	} else if err := s.db.PingContext(pingCtx); err != nil {
		s.logger.Warn("database ping failed", zap.Error(err))
		dbStatus = "DOWN"
		status = "DOWN"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return &models.HealthData{
		ApplicationName: s.appName,
		Version:         s.version,
		Status:          status,
		DatabaseStatus:  dbStatus,
		TotalMemory:     formatBytes(mem.Sys),
		FreeMemory:      formatBytes(mem.Sys - mem.Alloc),
		MaxMemory:       formatBytes(mem.HeapSys),
		Uptime:          time.Since(s.startedAt).Round(time.Second).String(),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}

func formatBytes(b uint64) string {
	const mb = 1 << 20
	return fmt.Sprintf("%d MB", b/mb)
}
