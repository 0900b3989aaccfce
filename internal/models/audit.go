package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin         = "LOGIN"
	AuditActionLogout        = "LOGOUT"
	AuditActionUserCreate    = "USER_CREATE"
	AuditActionUserUpdate    = "USER_UPDATE"
	AuditActionUserDelete    = "USER_DELETE"
	AuditActionMeetingCreate = "MEETING_CREATE"
	AuditActionMeetingUpdate = "MEETING_UPDATE"
	AuditActionMeetingDelete = "MEETING_DELETE"
	AuditActionExport        = "AUDIT_EXPORT"
)

// AuditLog represents a change-log record shown on the monitoring screen.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AuditFilter narrows down audit log listings.
type AuditFilter struct {
	UserID   string
	Action   string
	Resource string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
