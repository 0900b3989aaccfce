package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cieges/room-agenda-api/internal/models"
)

func meeting(id, date, start, end, room string) models.Meeting {
	return models.Meeting{
		ID:          id,
		Title:       "meeting " + id,
		MeetingDate: date,
		TimeStart:   start,
		TimeEnd:     end,
		MeetingRoom: room,
	}
}

// anchor inside the week of Sunday 2025-01-05.
var weekAnchor = time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

func TestComputeWeekGridSingleMeeting(t *testing.T) {
	grid, errs := ComputeWeekGrid(weekAnchor, []models.Meeting{
		meeting("m1", "2025-01-06", "09:00", "10:00", models.RoomApoio),
	})
	require.Empty(t, errs)
	assert.Equal(t, "2025-01-05", FormatDate(grid.WeekStart))

	// Monday is day index 1; 09:00 is slot 18.
	slot9, err := SlotIndex("09:00")
	require.NoError(t, err)

	start := grid.Cells[1][slot9]
	require.NotNil(t, start.Start)
	assert.Equal(t, "m1", start.Start.ID)
	assert.Equal(t, 2, start.SpanSlots)
	assert.True(t, start.Occupied)
	assert.Equal(t, RoomsSingle, start.Mark.Kind)
	assert.Equal(t, models.RoomApoio, start.Mark.Room)

	cont := grid.Cells[1][slot9+1]
	assert.True(t, cont.Occupied)
	assert.Nil(t, cont.Start, "label is shown only on the starting cell")

	// Half-open interval: the 10:00 slot is free again.
	after := grid.Cells[1][slot9+2]
	assert.False(t, after.Occupied)
	assert.Equal(t, RoomsNone, after.Mark.Kind)

	// No other day picked up the meeting.
	for di := 0; di < DaysPerWeek; di++ {
		if di == 1 {
			continue
		}
		for s := 0; s < SlotsPerDay; s++ {
			assert.False(t, grid.Cells[di][s].Occupied)
		}
	}
}

func TestComputeWeekGridPartialSlotRoundsUp(t *testing.T) {
	grid, errs := ComputeWeekGrid(weekAnchor, []models.Meeting{
		meeting("m1", "2025-01-06", "09:00", "09:45", models.RoomApoio),
	})
	require.Empty(t, errs)

	slot9, _ := SlotIndex("09:00")
	assert.Equal(t, 2, grid.Cells[1][slot9].SpanSlots, "45 minutes must span two cells, never truncate")
	assert.True(t, grid.Cells[1][slot9+1].Occupied)
	assert.False(t, grid.Cells[1][slot9+2].Occupied)
}

func TestComputeWeekGridUnpaddedTimesNormalize(t *testing.T) {
	grid, errs := ComputeWeekGrid(weekAnchor, []models.Meeting{
		meeting("m1", "2025-01-06", "7:30", "8:30", models.RoomApoio),
	})
	require.Empty(t, errs)

	slot, _ := SlotIndex("07:30")
	require.NotNil(t, grid.Cells[1][slot].Start, "7:30 and 07:30 must compare equal")
	assert.Equal(t, 2, grid.Cells[1][slot].SpanSlots)
}

func TestComputeWeekGridMixedRooms(t *testing.T) {
	grid, errs := ComputeWeekGrid(weekAnchor, []models.Meeting{
		meeting("m1", "2025-01-07", "14:00", "15:00", models.RoomApoio),
		meeting("m2", "2025-01-07", "14:30", "15:30", models.RoomCieges),
	})
	require.Empty(t, errs)

	slot1400, _ := SlotIndex("14:00")
	slot1430, _ := SlotIndex("14:30")
	slot1500, _ := SlotIndex("15:00")

	assert.Equal(t, RoomsSingle, grid.Cells[2][slot1400].Mark.Kind)
	assert.Equal(t, RoomsMixed, grid.Cells[2][slot1430].Mark.Kind)
	assert.False(t, grid.Cells[2][slot1430].Conflict, "distinct rooms overlap is mixed, not a conflict")
	assert.Equal(t, RoomsSingle, grid.Cells[2][slot1500].Mark.Kind)
	assert.Equal(t, models.RoomCieges, grid.Cells[2][slot1500].Mark.Room)
}

func TestComputeWeekGridSameRoomConflict(t *testing.T) {
	grid, errs := ComputeWeekGrid(weekAnchor, []models.Meeting{
		meeting("m1", "2025-01-07", "14:00", "15:00", models.RoomApoio),
		meeting("m2", "2025-01-07", "14:00", "14:30", models.RoomApoio),
	})
	require.Empty(t, errs)

	slot1400, _ := SlotIndex("14:00")
	cell := grid.Cells[2][slot1400]
	assert.True(t, cell.Conflict, "same-room overlap flags a data integrity problem")
	assert.Equal(t, RoomsSingle, cell.Mark.Kind, "one room keeps that room's classification")
	require.NotNil(t, cell.Start)
	assert.Equal(t, "m1", cell.Start.ID, "ties resolve to the first record in input order")
}

func TestComputeWeekGridOutOfWindowIgnored(t *testing.T) {
	grid, errs := ComputeWeekGrid(weekAnchor, []models.Meeting{
		meeting("m1", "2025-01-13", "09:00", "10:00", models.RoomApoio), // following week
		meeting("m2", "2024-12-30", "09:00", "10:00", models.RoomApoio), // preceding week
	})
	require.Empty(t, errs, "out-of-window records are expected, not errors")
	for di := 0; di < DaysPerWeek; di++ {
		for s := 0; s < SlotsPerDay; s++ {
			assert.False(t, grid.Cells[di][s].Occupied)
		}
	}
}

func TestComputeWeekGridMalformedRecords(t *testing.T) {
	grid, errs := ComputeWeekGrid(weekAnchor, []models.Meeting{
		meeting("bad-date", "06/01/2025", "09:00", "10:00", models.RoomApoio),
		meeting("bad-time", "2025-01-06", "9h00", "10:00", models.RoomApoio),
		meeting("inverted", "2025-01-06", "10:00", "09:00", models.RoomApoio),
		meeting("ok", "2025-01-06", "11:00", "11:30", models.RoomCieges),
	})

	require.Len(t, errs, 3, "one bad record must not blank the calendar")
	ids := make([]string, len(errs))
	for i, e := range errs {
		ids[i] = e.MeetingID
	}
	assert.ElementsMatch(t, []string{"bad-date", "bad-time", "inverted"}, ids)

	slot11, _ := SlotIndex("11:00")
	require.NotNil(t, grid.Cells[1][slot11].Start)
	assert.Equal(t, "ok", grid.Cells[1][slot11].Start.ID)

	// The inverted record is placed nowhere.
	for di := 0; di < DaysPerWeek; di++ {
		for s := 0; s < SlotsPerDay; s++ {
			if cell := grid.Cells[di][s]; cell.Start != nil {
				assert.NotEqual(t, "inverted", cell.Start.ID)
			}
		}
	}
}

func TestComputeWeekGridEmptyInput(t *testing.T) {
	grid, errs := ComputeWeekGrid(weekAnchor, nil)
	assert.Empty(t, errs)
	for di := 0; di < DaysPerWeek; di++ {
		for s := 0; s < SlotsPerDay; s++ {
			cell := grid.Cells[di][s]
			assert.False(t, cell.Occupied)
			assert.Nil(t, cell.Start)
			assert.Equal(t, RoomsNone, cell.Mark.Kind)
		}
	}
}

func TestComputeWeekGridDeterministic(t *testing.T) {
	meetings := []models.Meeting{
		meeting("m1", "2025-01-06", "09:00", "10:00", models.RoomApoio),
		meeting("m2", "2025-01-06", "09:30", "11:00", models.RoomCieges),
		meeting("m3", "2025-01-09", "16:00", "17:30", models.RoomApoio),
	}
	first, _ := ComputeWeekGrid(weekAnchor, meetings)
	second, _ := ComputeWeekGrid(weekAnchor, meetings)
	assert.Equal(t, first, second)
}

func TestComputeMonthGrid(t *testing.T) {
	anchor := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	grid, errs := ComputeMonthGrid(anchor, []models.Meeting{
		meeting("m1", "2025-01-06", "09:00", "10:00", models.RoomApoio),
		meeting("m2", "2025-01-06", "14:00", "15:00", models.RoomCieges),
		meeting("m3", "2025-01-20", "09:00", "10:00", models.RoomCieges),
		meeting("m4", "2025-02-01", "09:00", "10:00", models.RoomApoio), // next month
	})
	require.Empty(t, errs)
	require.Len(t, grid.Days, 31)

	jan6 := grid.Days[5]
	assert.Equal(t, "2025-01-06", FormatDate(jan6.Date))
	require.Len(t, jan6.Meetings, 2)
	assert.Equal(t, RoomsMixed, jan6.Mark.Kind)
	assert.False(t, jan6.Conflict, "different rooms never conflict")

	jan20 := grid.Days[19]
	require.Len(t, jan20.Meetings, 1)
	assert.Equal(t, RoomsSingle, jan20.Mark.Kind)
	assert.Equal(t, models.RoomCieges, jan20.Mark.Room)

	jan7 := grid.Days[6]
	assert.Empty(t, jan7.Meetings)
	assert.Equal(t, RoomsNone, jan7.Mark.Kind)
}

func TestComputeMonthGridSameRoomOverlapConflict(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	grid, errs := ComputeMonthGrid(anchor, []models.Meeting{
		meeting("m1", "2025-01-06", "09:00", "10:00", models.RoomApoio),
		meeting("m2", "2025-01-06", "09:30", "10:30", models.RoomApoio),
		meeting("m3", "2025-01-06", "10:00", "11:00", models.RoomCieges),
	})
	require.Empty(t, errs)

	jan6 := grid.Days[5]
	assert.True(t, jan6.Conflict)
	require.Len(t, jan6.Meetings, 3)
	assert.Equal(t, RoomsMixed, jan6.Mark.Kind)
}

func TestComputeMonthGridAdjacentMeetingsNoConflict(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	grid, errs := ComputeMonthGrid(anchor, []models.Meeting{
		meeting("m1", "2025-01-06", "09:00", "10:00", models.RoomApoio),
		meeting("m2", "2025-01-06", "10:00", "11:00", models.RoomApoio),
	})
	require.Empty(t, errs)
	assert.False(t, grid.Days[5].Conflict, "back-to-back bookings share a boundary, not time")
}
