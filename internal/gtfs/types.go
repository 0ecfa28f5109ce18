package gtfs

import "time"

type Stop struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

type Route struct {
	ID        string
	ShortName string
	LongName  string
	Color     string
	TextColor string
}

// DisplayName prefers the short name, falling back to the long name.
func (r Route) DisplayName() string {
	if r.ShortName != "" {
		return r.ShortName
	}
	return r.LongName
}

type Trip struct {
	ID          string
	RouteID     string
	ServiceID   string
	Headsign    string
	DirectionID int
}

type StopTime struct {
	TripID       string
	StopID       string
	StopSequence int
	ArrivalSec   int // seconds since service midnight (can exceed 24h)
	DepartureSec int // seconds since service midnight (can exceed 24h)
}

// Calendar is one weekly recurrence pattern, valid within
// [StartDate, EndDate] inclusive. Dates are YYYYMMDD keys.
type Calendar struct {
	ServiceID string
	StartDate string
	EndDate   string
	Monday    bool
	Tuesday   bool
	Wednesday bool
	Thursday  bool
	Friday    bool
	Saturday  bool
	Sunday    bool
}

// RunsOn reports whether the weekly pattern includes the given weekday.
func (c Calendar) RunsOn(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return c.Monday
	case time.Tuesday:
		return c.Tuesday
	case time.Wednesday:
		return c.Wednesday
	case time.Thursday:
		return c.Thursday
	case time.Friday:
		return c.Friday
	case time.Saturday:
		return c.Saturday
	case time.Sunday:
		return c.Sunday
	}
	return false
}

type ExceptionType int

const (
	ExceptionAdded   ExceptionType = 1
	ExceptionRemoved ExceptionType = 2
)

// CalendarDate is a date-specific service override. Exceptions always win
// over the weekly pattern.
type CalendarDate struct {
	ServiceID string
	Date      string // YYYYMMDD
	Exception ExceptionType
}
