package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2025-01-06", FormatDate(d))
}

func TestParseDateInvalid(t *testing.T) {
	cases := []string{"", "06-01-2025", "2025/01/06", "2025-02-30", "not-a-date"}
	for _, raw := range cases {
		_, err := ParseDate(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}
}

func TestStartOfWeekSnapsToSunday(t *testing.T) {
	// 2025-01-08 is a Wednesday; its week starts Sunday 2025-01-05.
	wednesday := time.Date(2025, 1, 8, 15, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	sunday := StartOfWeek(wednesday)
	assert.Equal(t, time.Weekday(time.Sunday), sunday.Weekday())
	assert.Equal(t, "2025-01-05", FormatDate(sunday))

	// A Sunday anchor is a fixed point.
	assert.Equal(t, sunday, StartOfWeek(sunday))
}

func TestWeekNavigationRoundTrip(t *testing.T) {
	w := StartOfWeek(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, w, PrevWeek(NextWeek(w)))
	assert.Equal(t, w, NextWeek(PrevWeek(w)))
	assert.Equal(t, w.AddDate(0, 0, 7), NextWeek(w))
}

func TestMonthNavigation(t *testing.T) {
	anchor := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	first := StartOfMonth(anchor)
	assert.Equal(t, "2025-01-01", FormatDate(first))
	assert.Equal(t, "2025-02-01", FormatDate(NextMonth(anchor)))
	assert.Equal(t, "2024-12-01", FormatDate(PrevMonth(anchor)))
	assert.Equal(t, first, PrevMonth(NextMonth(first)))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 28, DaysInMonth(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, DaysInMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, DaysInMonth(time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)))
}
