package gtfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDaySeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00:00", 0},
		{"08:05:00", 8*3600 + 5*60},
		{"23:59:59", 23*3600 + 59*60 + 59},
		{"25:10:00", 25*3600 + 10*60}, // post-midnight service, same service day
		{"08:05", 8*3600 + 5*60},
		{" 08:05:00 ", 8*3600 + 5*60},
		{"", 0},
		{"garbage", 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseDaySeconds(tc.in), "input %q", tc.in)
	}
}

func TestFormatDaySeconds(t *testing.T) {
	assert.Equal(t, "08:05:00", FormatDaySeconds(8*3600+5*60))
	assert.Equal(t, "25:10:00", FormatDaySeconds(25*3600+10*60))
	assert.Equal(t, "00:00:00", FormatDaySeconds(-5))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"06:30:15", "24:00:00", "27:45:01"} {
		assert.Equal(t, s, FormatDaySeconds(ParseDaySeconds(s)))
	}
}

func TestDateKey(t *testing.T) {
	d := time.Date(2026, 9, 7, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "20260907", DateKey(d))
	assert.Equal(t, 14*3600+30*60, DaySecondsOf(d))
}

func TestCalendarRunsOn(t *testing.T) {
	c := Calendar{Monday: true, Saturday: true}
	assert.True(t, c.RunsOn(time.Monday))
	assert.True(t, c.RunsOn(time.Saturday))
	assert.False(t, c.RunsOn(time.Sunday))
	assert.False(t, c.RunsOn(time.Wednesday))
}

func TestRouteDisplayName(t *testing.T) {
	assert.Equal(t, "42", Route{ShortName: "42", LongName: "Harbour Loop"}.DisplayName())
	assert.Equal(t, "Harbour Loop", Route{LongName: "Harbour Loop"}.DisplayName())
}
