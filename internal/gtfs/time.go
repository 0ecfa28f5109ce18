package gtfs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDaySeconds parses HH:MM:SS possibly with hours >= 24, as GTFS uses
// for post-midnight service on the same logical service day.
func ParseDaySeconds(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	sec := 0
	if len(parts) > 2 {
		sec, _ = strconv.Atoi(parts[2])
	}
	total := h*3600 + m*60 + sec
	if total < 0 {
		total = 0
	}
	return total
}

// FormatDaySeconds renders seconds since service midnight as HH:MM:SS.
// Hours are not wrapped at 24.
func FormatDaySeconds(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec/60)%60, sec%60)
}

// DateKey returns the 8-digit YYYYMMDD key for a calendar date.
func DateKey(t time.Time) string {
	return t.Format("20060102")
}

// DaySecondsOf returns the clock-of-day second of t within its own day.
func DaySecondsOf(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
