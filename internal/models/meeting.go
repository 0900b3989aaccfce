package models

import "time"

// Known meeting rooms. MeetingRoom stays free text in storage so historical
// rows with other names keep rendering; these constants drive color coding.
const (
	RoomApoio  = "APOIO"
	RoomCieges = "CIEGES"
)

// Meeting occupies a single calendar day in one room. MeetingDate uses the
// canonical YYYY-MM-DD wire format and TimeStart/TimeEnd the zero-padded
// 24-hour HH:MM format; both are preserved end to end for compatibility with
// the consuming REST clients.
type Meeting struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	MeetingDate string    `db:"meeting_date" json:"meetingDate"`
	TimeStart   string    `db:"time_start" json:"timeStart"`
	TimeEnd     string    `db:"time_end" json:"timeEnd"`
	MeetingRoom string    `db:"meeting_room" json:"meetingRoom"`
	UserID      string    `db:"user_id" json:"userId"`
	UserName    string    `db:"user_name" json:"userName"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// MeetingFilter narrows down meeting listings.
type MeetingFilter struct {
	DateFrom *string
	DateTo   *string
	Room     string
	UserID   string
	Page     int
	PageSize int
}
