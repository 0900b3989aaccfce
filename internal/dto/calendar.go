package dto

// RoomClassMixed marks cells where distinct rooms overlap; single-room cells
// carry the room name itself and free cells an empty class.
const RoomClassMixed = "MIXED"

// MeetingSlot is the label payload rendered inside a starting cell.
type MeetingSlot struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	TimeStart   string `json:"timeStart"`
	TimeEnd     string `json:"timeEnd"`
	MeetingRoom string `json:"meetingRoom"`
	UserName    string `json:"userName,omitempty"`
}

// WeekCell is one (day, slot) entry of the weekly grid response.
type WeekCell struct {
	Time      string       `json:"time"`
	Occupied  bool         `json:"occupied"`
	Rooms     []string     `json:"rooms,omitempty"`
	RoomClass string       `json:"roomClass,omitempty"`
	Conflict  bool         `json:"conflict,omitempty"`
	Meeting   *MeetingSlot `json:"meeting,omitempty"`
	SpanSlots int          `json:"spanSlots,omitempty"`
}

// WeekDay groups the 48 cells of a single day.
type WeekDay struct {
	Date    string     `json:"date"`
	Weekday string     `json:"weekday"`
	Cells   []WeekCell `json:"cells"`
}

// GridError surfaces a meeting record the engine had to skip.
type GridError struct {
	MeetingID string `json:"meetingId"`
	Field     string `json:"field"`
	Reason    string `json:"reason"`
}

// WeekGridResponse is the full weekly calendar payload.
type WeekGridResponse struct {
	WeekStart string      `json:"weekStart"`
	WeekEnd   string      `json:"weekEnd"`
	Hours     []string    `json:"hours"`
	Days      []WeekDay   `json:"days"`
	Errors    []GridError `json:"errors,omitempty"`
}

// MonthDay is one calendar day of the monthly view.
type MonthDay struct {
	Date      string        `json:"date"`
	RoomClass string        `json:"roomClass,omitempty"`
	Conflict  bool          `json:"conflict,omitempty"`
	Meetings  []MeetingSlot `json:"meetings"`
}

// MonthGridResponse is the full monthly calendar payload.
type MonthGridResponse struct {
	Month  string      `json:"month"`
	Days   []MonthDay  `json:"days"`
	Errors []GridError `json:"errors,omitempty"`
}
