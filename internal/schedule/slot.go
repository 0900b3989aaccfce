package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotMinutes is the single source of truth for grid granularity. Both the
// slot label generator and the duration-to-span conversion derive from it so
// the two can never drift apart.
const (
	SlotMinutes = 30
	SlotsPerDay = 24 * 60 / SlotMinutes
	DaysPerWeek = 7
)

// SlotLabels returns the ordered list of slot boundaries ("00:00" … "23:30").
func SlotLabels() []string {
	labels := make([]string, SlotsPerDay)
	for i := range labels {
		labels[i] = SlotLabel(i)
	}
	return labels
}

// SlotLabel converts a slot index into its canonical HH:MM boundary.
func SlotLabel(index int) string {
	return FormatClock(index * SlotMinutes)
}

// SlotIndex converts an exact slot boundary back into its index. Times that
// do not fall on a boundary are rejected.
func SlotIndex(label string) (int, error) {
	minute, err := ParseClock(label)
	if err != nil {
		return 0, err
	}
	if minute%SlotMinutes != 0 {
		return 0, fmt.Errorf("time %q is not a %d-minute boundary", label, SlotMinutes)
	}
	return minute / SlotMinutes, nil
}

// ParseClock parses an HH:MM time-of-day into minutes since midnight.
// Unpadded hours ("7:30") normalize to the same value as "07:30".
func ParseClock(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: non-numeric hour", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: non-numeric minute", raw)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time %q: hour out of range", raw)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: minute out of range", raw)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as zero-padded HH:MM.
func FormatClock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

// SpanSlots converts a duration in minutes into the number of grid cells a
// meeting label covers. Partial slots round up so the label is never
// truncated; the minimum span is one cell.
func SpanSlots(startMinute, endMinute int) int {
	span := ceilDiv(endMinute-startMinute, SlotMinutes)
	if span < 1 {
		span = 1
	}
	return span
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
