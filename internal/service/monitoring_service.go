package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cieges/room-agenda-api/internal/dto"
	"github.com/cieges/room-agenda-api/internal/models"
	appErrors "github.com/cieges/room-agenda-api/pkg/errors"
	"github.com/cieges/room-agenda-api/pkg/export"
	"github.com/cieges/room-agenda-api/pkg/jobs"
	"github.com/cieges/room-agenda-api/pkg/storage"
)

type auditRepository interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (io.ReadCloser, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportObserver interface {
	RecordExport(format, outcome string)
}

// MonitoringConfig tunes the export pipeline.
type MonitoringConfig struct {
	Workers         int
	Retries         int
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	AuditRetention  time.Duration
}

// MonitoringService backs the monitoring screen: it lists audit records and
// renders asynchronous CSV/PDF exports of them, handing back signed download
// tokens.
type MonitoringService struct {
	audit     auditRepository
	storage   exportStorage
	signer    *storage.SignedURLSigner
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       MonitoringConfig
	metrics   exportObserver

	queue *jobs.Queue

	mu      sync.RWMutex
	jobsMap map[string]*dto.ExportJob
}

type exportPayload struct {
	Request dto.ExportRequest
}

// NewMonitoringService constructs a MonitoringService with its own worker
// queue. Call Start before enqueueing exports and Stop on shutdown.
func NewMonitoringService(audit auditRepository, store exportStorage, signer *storage.SignedURLSigner, validate *validator.Validate, logger *zap.Logger, cfg MonitoringConfig) *MonitoringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}

	s := &MonitoringService{
		audit:     audit,
		storage:   store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		jobsMap:   make(map[string]*dto.ExportJob),
	}
	s.queue = jobs.NewQueue("audit-export", s.handleExport, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return s
}

// SetMetrics attaches an export outcome observer.
func (s *MonitoringService) SetMetrics(m exportObserver) {
	s.metrics = m
}

func (s *MonitoringService) recordOutcome(format, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordExport(format, outcome)
	}
}

// Start launches the export workers and the periodic file cleanup.
func (s *MonitoringService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	go s.cleanupLoop(ctx)
}

// Stop drains the worker pool.
func (s *MonitoringService) Stop() {
	s.queue.Stop()
}

// ListAuditLogs returns audit records matching the filter.
func (s *MonitoringService) ListAuditLogs(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, *models.Pagination, error) {
	logsList, total, err := s.audit.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return logsList, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Export schedules an asynchronous audit-log export and returns the pending
// job descriptor immediately.
func (s *MonitoringService) Export(ctx context.Context, req dto.ExportRequest, actorID string) (*dto.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}

	job := &dto.ExportJob{
		ID:          uuid.NewString(),
		Status:      dto.ExportStatusPending,
		Format:      req.Format,
		RequestedBy: actorID,
		CreatedAt:   time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobsMap[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "audit-export", Payload: exportPayload{Request: req}}); err != nil {
		s.setJobFailed(job.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	return job, nil
}

// GetJob returns the current state of an export job.
func (s *MonitoringService) GetJob(id string) (*dto.ExportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobsMap[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	copied := *job
	return &copied, nil
}

// Download validates a signed token and opens the referenced file.
func (s *MonitoringService) Download(token string) (io.ReadCloser, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	}
	return file, relPath, nil
}

func (s *MonitoringService) handleExport(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	s.setJobStatus(job.ID, dto.ExportStatusRunning)

	filter, err := auditFilterFromRequest(payload.Request)
	if err != nil {
		s.setJobFailed(job.ID, err)
		return nil
	}

	format := payload.Request.Format
	dataset, err := s.buildDataset(ctx, filter)
	if err != nil {
		s.setJobFailed(job.ID, err)
		s.recordOutcome(format, "error")
		return err
	}

	var rendered []byte
	title := "Audit Log Export"
	switch format {
	case dto.ExportFormatCSV:
		rendered, err = s.csv.Render(dataset)
	case dto.ExportFormatPDF:
		rendered, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		s.setJobFailed(job.ID, err)
		s.recordOutcome(format, "error")
		return err
	}

	filename := fmt.Sprintf("audit_%s.%s", time.Now().UTC().Format("20060102_150405"), format)
	relPath, err := s.storage.Save(filename, rendered)
	if err != nil {
		s.setJobFailed(job.ID, err)
		s.recordOutcome(format, "error")
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.setJobFailed(job.ID, err)
		s.recordOutcome(format, "error")
		return err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if stored, ok := s.jobsMap[job.ID]; ok {
		stored.Status = dto.ExportStatusCompleted
		stored.FileName = relPath
		stored.DownloadToken = token
		stored.ExpiresAt = &expiresAt
		stored.CompletedAt = &now
	}
	s.mu.Unlock()
	s.recordOutcome(format, "ok")
	return nil
}

func (s *MonitoringService) buildDataset(ctx context.Context, filter models.AuditFilter) (export.Dataset, error) {
	headers := []string{"Timestamp", "User ID", "Action", "Resource", "Resource ID", "IP Address"}
	rows := make([]map[string]string, 0)

	filter.PageSize = 200
	for page := 1; ; page++ {
		filter.Page = page
		logsList, total, err := s.audit.List(ctx, filter)
		if err != nil {
			return export.Dataset{}, err
		}
		for _, entry := range logsList {
			rows = append(rows, map[string]string{
				"Timestamp":   entry.CreatedAt.UTC().Format(time.RFC3339),
				"User ID":     strDeref(entry.UserID),
				"Action":      entry.Action,
				"Resource":    entry.Resource,
				"Resource ID": strDeref(entry.ResourceID),
				"IP Address":  entry.IPAddress,
			})
		}
		if len(rows) >= total || len(logsList) == 0 {
			break
		}
	}

	return export.Dataset{Headers: headers, Rows: rows}, nil
}

func (s *MonitoringService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL); err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
			} else if len(deleted) > 0 {
				s.logger.Info("expired export files removed", zap.Int("count", len(deleted)))
			}
			if s.cfg.AuditRetention > 0 {
				cutoff := time.Now().UTC().Add(-s.cfg.AuditRetention)
				if purged, err := s.audit.PurgeOlderThan(ctx, cutoff); err != nil {
					s.logger.Warn("audit purge failed", zap.Error(err))
				} else if purged > 0 {
					s.logger.Info("old audit records purged", zap.Int64("count", purged))
				}
			}
		}
	}
}

func (s *MonitoringService) setJobStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobsMap[id]; ok {
		job.Status = status
	}
}

func (s *MonitoringService) setJobFailed(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobsMap[id]; ok {
		job.Status = dto.ExportStatusFailed
		job.Error = err.Error()
	}
}

func auditFilterFromRequest(req dto.ExportRequest) (models.AuditFilter, error) {
	filter := models.AuditFilter{Action: req.Action}
	if req.From != "" {
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return filter, fmt.Errorf("invalid from date %q", req.From)
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return filter, fmt.Errorf("invalid to date %q", req.To)
		}
		// Include the whole end day.
		to = to.Add(24*time.Hour - time.Second)
		filter.To = &to
	}
	return filter, nil
}

func strDeref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
