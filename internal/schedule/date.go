package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the canonical wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a canonical YYYY-MM-DD string into a naive calendar date
// pinned to UTC midnight. Keeping every date at UTC midnight makes day
// equality a plain comparison, immune to DST or zone skew.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return d, nil
}

// FormatDate renders a date as canonical YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// StartOfWeek rounds any date down to that week's Sunday at midnight.
func StartOfWeek(d time.Time) time.Time {
	day := normalize(d)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// NextWeek advances a week anchor by seven days.
func NextWeek(w time.Time) time.Time {
	return normalize(w).AddDate(0, 0, DaysPerWeek)
}

// PrevWeek moves a week anchor back by seven days.
func PrevWeek(w time.Time) time.Time {
	return normalize(w).AddDate(0, 0, -DaysPerWeek)
}

// CurrentWeek returns the Sunday anchor of the present week.
func CurrentWeek() time.Time {
	return StartOfWeek(time.Now().UTC())
}

// StartOfMonth rounds any date down to the first of its month.
func StartOfMonth(d time.Time) time.Time {
	day := normalize(d)
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonth advances a month anchor to the first of the following month.
func NextMonth(m time.Time) time.Time {
	return StartOfMonth(m).AddDate(0, 1, 0)
}

// PrevMonth moves a month anchor to the first of the preceding month.
func PrevMonth(m time.Time) time.Time {
	return StartOfMonth(m).AddDate(0, -1, 0)
}

// DaysInMonth reports how many days the anchor's month has.
func DaysInMonth(m time.Time) int {
	first := StartOfMonth(m)
	return first.AddDate(0, 1, -1).Day()
}

// normalize strips any clock component and pins the date to UTC.
func normalize(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
