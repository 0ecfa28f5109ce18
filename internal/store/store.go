package store

import (
	"context"
	"errors"

	"transit-search/internal/gtfs"
)

// ErrNotFound is returned by the ByID lookups when no row matches.
var ErrNotFound = errors.New("store: not found")

// ScheduleStore is the read-only query surface the search engine needs from
// a schedule snapshot. Implementations must keep result ordering stable so
// that repeated searches against an unchanged snapshot are deterministic.
type ScheduleStore interface {
	Stops(ctx context.Context) ([]gtfs.Stop, error)
	StopByID(ctx context.Context, id string) (gtfs.Stop, error)
	RouteByID(ctx context.Context, id string) (gtfs.Route, error)
	TripByID(ctx context.Context, id string) (gtfs.Trip, error)

	// CalendarsContaining returns calendar rows whose [start_date, end_date]
	// range contains the YYYYMMDD date key. Weekday filtering is left to the
	// caller.
	CalendarsContaining(ctx context.Context, dateKey string) ([]gtfs.Calendar, error)
	// CalendarDatesOn returns the date-specific exceptions for the date key.
	CalendarDatesOn(ctx context.Context, dateKey string) ([]gtfs.CalendarDate, error)

	// DeparturesFrom returns stop times at stopID departing at or after
	// afterSec, restricted to trips whose service is in services, ordered by
	// departure time ascending, at most limit rows.
	DeparturesFrom(ctx context.Context, stopID string, afterSec int, services []string, limit int) ([]gtfs.StopTime, error)
	// ArrivalsAt returns stop times at stopID arriving at or before
	// beforeSec, restricted to trips whose service is in services, ordered by
	// arrival time descending, at most limit rows.
	ArrivalsAt(ctx context.Context, stopID string, beforeSec int, services []string, limit int) ([]gtfs.StopTime, error)
	// StopTimesForTrip returns the full stop sequence of one trip, ordered by
	// stop_sequence ascending.
	StopTimesForTrip(ctx context.Context, tripID string) ([]gtfs.StopTime, error)
}
