package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLabels(t *testing.T) {
	labels := SlotLabels()
	require.Len(t, labels, 48)
	assert.Equal(t, "00:00", labels[0])
	assert.Equal(t, "00:30", labels[1])
	assert.Equal(t, "12:00", labels[24])
	assert.Equal(t, "23:30", labels[47])
}

func TestSlotIndexLabelRoundTrip(t *testing.T) {
	for i := 0; i < SlotsPerDay; i++ {
		idx, err := SlotIndex(SlotLabel(i))
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
}

func TestSlotIndexRejectsNonBoundary(t *testing.T) {
	_, err := SlotIndex("09:15")
	assert.Error(t, err)
}

func TestParseClockNormalization(t *testing.T) {
	padded, err := ParseClock("07:30")
	require.NoError(t, err)
	unpadded, err := ParseClock("7:30")
	require.NoError(t, err)
	assert.Equal(t, padded, unpadded)
	assert.Equal(t, 450, padded)
}

func TestParseClockInvalid(t *testing.T) {
	cases := []string{"", "9", "9:5:0", "ab:cd", "24:00", "12:60", "-1:00"}
	for _, raw := range cases {
		_, err := ParseClock(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}
}

func TestFormatClockZeroPads(t *testing.T) {
	assert.Equal(t, "07:05", FormatClock(7*60+5))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "23:30", FormatClock(23*60+30))
}

func TestSpanSlots(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		want       int
	}{
		{"one hour", "09:00", "10:00", 2},
		{"single slot", "09:00", "09:30", 1},
		{"rounds up partial slot", "09:00", "09:45", 2},
		{"short meeting still spans one cell", "09:00", "09:10", 1},
		{"full day", "00:00", "23:30", 47},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, err := ParseClock(tc.start)
			require.NoError(t, err)
			end, err := ParseClock(tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, SpanSlots(start, end))
		})
	}
}
