// Package schedule maps meeting records onto fixed half-hour calendar grids.
// Everything in it is pure: identical inputs always yield identical grids,
// and malformed records surface as validation errors instead of aborting the
// computation.
package schedule

import (
	"fmt"
	"time"

	"github.com/cieges/room-agenda-api/internal/models"
)

// ValidationError reports a meeting record that could not be placed.
type ValidationError struct {
	MeetingID string `json:"meetingId"`
	Field     string `json:"field"`
	Reason    string `json:"reason"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("meeting %s: %s: %s", e.MeetingID, e.Field, e.Reason)
}

// RoomKind classifies which rooms occupy a cell.
type RoomKind int

const (
	RoomsNone RoomKind = iota
	RoomsSingle
	RoomsMixed
)

// RoomMark is the room-derived color classification for a cell: a single
// room keeps its own color, distinct rooms overlapping signal a visual
// conflict ("mixed"), an empty cell stays default.
type RoomMark struct {
	Kind RoomKind
	Room string
}

// ClassifyRooms derives the mark from the distinct rooms occupying a cell.
// Shared by the weekly and monthly grids so the color rules cannot diverge.
func ClassifyRooms(rooms []string) RoomMark {
	switch len(rooms) {
	case 0:
		return RoomMark{Kind: RoomsNone}
	case 1:
		return RoomMark{Kind: RoomsSingle, Room: rooms[0]}
	default:
		return RoomMark{Kind: RoomsMixed}
	}
}

// Cell is one (day, slot) entry of the weekly grid.
type Cell struct {
	Occupied  bool
	Rooms     []string
	Mark      RoomMark
	Conflict  bool
	Start     *models.Meeting
	SpanSlots int
}

// WeekGrid is the fully populated 7x48 weekly occupancy grid.
type WeekGrid struct {
	WeekStart time.Time
	Days      [DaysPerWeek]time.Time
	Cells     [DaysPerWeek][SlotsPerDay]Cell
}

// DayCell is one day of the monthly grid; no time-slot breakdown, only date
// equality and the shared room classification.
type DayCell struct {
	Date     time.Time
	Meetings []models.Meeting
	Mark     RoomMark
	Conflict bool
}

// MonthGrid holds one DayCell per day of the anchor's month.
type MonthGrid struct {
	MonthStart time.Time
	Days       []DayCell
}

// placement is a meeting whose date and times parsed cleanly.
type placement struct {
	meeting     models.Meeting
	date        string
	startMinute int
	endMinute   int
}

// ComputeWeekGrid places the given meetings onto the week containing anchor.
// The anchor may be any date; it is rounded down to Sunday. Records outside
// the window are ignored, malformed records are skipped and reported.
func ComputeWeekGrid(anchor time.Time, meetings []models.Meeting) (*WeekGrid, []ValidationError) {
	grid := &WeekGrid{WeekStart: StartOfWeek(anchor)}
	dayIndex := make(map[string]int, DaysPerWeek)
	for i := range grid.Days {
		grid.Days[i] = grid.WeekStart.AddDate(0, 0, i)
		dayIndex[FormatDate(grid.Days[i])] = i
	}

	var errs []ValidationError
	for _, m := range meetings {
		p, verr := parseMeeting(m)
		if verr != nil {
			errs = append(errs, *verr)
			continue
		}
		di, inWindow := dayIndex[p.date]
		if !inWindow {
			continue
		}

		// A slot is busy when its start instant falls inside
		// [startMinute, endMinute) — half-open, so a meeting ending
		// exactly on a boundary leaves that slot free.
		firstSlot := ceilDiv(p.startMinute, SlotMinutes)
		lastSlot := ceilDiv(p.endMinute, SlotMinutes)
		if lastSlot > SlotsPerDay {
			lastSlot = SlotsPerDay
		}
		for s := firstSlot; s < lastSlot; s++ {
			cell := &grid.Cells[di][s]
			cell.Occupied = true
			if containsRoom(cell.Rooms, p.meeting.MeetingRoom) {
				// Same room twice in one slot: a double booking
				// upstream should have prevented.
				cell.Conflict = true
			} else {
				cell.Rooms = append(cell.Rooms, p.meeting.MeetingRoom)
			}
		}

		// The label lives only in the cell whose boundary equals the
		// start time; ties resolve to the first record in input order.
		if p.startMinute%SlotMinutes == 0 {
			start := &grid.Cells[di][p.startMinute/SlotMinutes]
			if start.Start == nil {
				placed := p.meeting
				start.Start = &placed
				start.SpanSlots = SpanSlots(p.startMinute, p.endMinute)
			}
		}
	}

	for di := range grid.Cells {
		for s := range grid.Cells[di] {
			cell := &grid.Cells[di][s]
			cell.Mark = ClassifyRooms(cell.Rooms)
		}
	}
	return grid, errs
}

// ComputeMonthGrid buckets meetings by calendar day across the anchor's
// month, reusing the weekly grid's validation and room classification.
func ComputeMonthGrid(anchor time.Time, meetings []models.Meeting) (*MonthGrid, []ValidationError) {
	first := StartOfMonth(anchor)
	grid := &MonthGrid{
		MonthStart: first,
		Days:       make([]DayCell, DaysInMonth(first)),
	}
	dayIndex := make(map[string]int, len(grid.Days))
	for i := range grid.Days {
		grid.Days[i].Date = first.AddDate(0, 0, i)
		dayIndex[FormatDate(grid.Days[i].Date)] = i
	}

	var errs []ValidationError
	placed := make([][]placement, len(grid.Days))
	for _, m := range meetings {
		p, verr := parseMeeting(m)
		if verr != nil {
			errs = append(errs, *verr)
			continue
		}
		di, inWindow := dayIndex[p.date]
		if !inWindow {
			continue
		}
		day := &grid.Days[di]
		for _, other := range placed[di] {
			if other.meeting.MeetingRoom == p.meeting.MeetingRoom &&
				other.startMinute < p.endMinute && p.startMinute < other.endMinute {
				day.Conflict = true
			}
		}
		placed[di] = append(placed[di], p)
		day.Meetings = append(day.Meetings, p.meeting)
	}

	for i := range grid.Days {
		day := &grid.Days[i]
		rooms := make([]string, 0, 2)
		for _, m := range day.Meetings {
			if !containsRoom(rooms, m.MeetingRoom) {
				rooms = append(rooms, m.MeetingRoom)
			}
		}
		day.Mark = ClassifyRooms(rooms)
	}
	return grid, errs
}

// parseMeeting validates the record's date and times once, for both grids.
func parseMeeting(m models.Meeting) (placement, *ValidationError) {
	date, err := ParseDate(m.MeetingDate)
	if err != nil {
		return placement{}, &ValidationError{MeetingID: m.ID, Field: "meetingDate", Reason: err.Error()}
	}
	start, err := ParseClock(m.TimeStart)
	if err != nil {
		return placement{}, &ValidationError{MeetingID: m.ID, Field: "timeStart", Reason: err.Error()}
	}
	end, err := ParseClock(m.TimeEnd)
	if err != nil {
		return placement{}, &ValidationError{MeetingID: m.ID, Field: "timeEnd", Reason: err.Error()}
	}
	if end <= start {
		return placement{}, &ValidationError{MeetingID: m.ID, Field: "timeEnd", Reason: "end time must be after start time"}
	}
	return placement{
		meeting:     m,
		date:        FormatDate(date),
		startMinute: start,
		endMinute:   end,
	}, nil
}

func containsRoom(rooms []string, room string) bool {
	for _, r := range rooms {
		if r == room {
			return true
		}
	}
	return false
}
