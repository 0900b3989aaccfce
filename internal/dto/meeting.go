package dto

// CreateMeetingRequest books a room for a contiguous interval inside one day.
// Date and times ride the same wire formats the calendar emits.
type CreateMeetingRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	MeetingDate string `json:"meetingDate" validate:"required"`
	TimeStart   string `json:"timeStart" validate:"required"`
	TimeEnd     string `json:"timeEnd" validate:"required"`
	MeetingRoom string `json:"meetingRoom" validate:"required"`
}

// UpdateMeetingRequest reschedules or renames an existing meeting.
type UpdateMeetingRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	MeetingDate *string `json:"meetingDate"`
	TimeStart   *string `json:"timeStart"`
	TimeEnd     *string `json:"timeEnd"`
	MeetingRoom *string `json:"meetingRoom"`
}
