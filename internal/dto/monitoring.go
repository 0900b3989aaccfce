package dto

import "time"

// Export job lifecycle states.
const (
	ExportStatusPending   = "PENDING"
	ExportStatusRunning   = "RUNNING"
	ExportStatusCompleted = "COMPLETED"
	ExportStatusFailed    = "FAILED"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportRequest asks for an audit-log export in the given format.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Action string `json:"action,omitempty"`
}

// ExportJob tracks an asynchronous audit-log export.
type ExportJob struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	Format        string     `json:"format"`
	RequestedBy   string     `json:"requested_by"`
	FileName      string     `json:"file_name,omitempty"`
	DownloadToken string     `json:"download_token,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}
