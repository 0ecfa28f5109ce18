package store

import (
	"context"
	"fmt"
	"sort"

	"transit-search/internal/gtfs"
)

// Memory is an in-memory ScheduleStore, used as the test fixture and for
// small feeds loaded wholesale. It applies the same ordering and limit rules
// as the Postgres implementation.
type Memory struct {
	stops         []gtfs.Stop
	routes        map[string]gtfs.Route
	trips         map[string]gtfs.Trip
	calendars     []gtfs.Calendar
	calendarDates []gtfs.CalendarDate
	stopTimes     []gtfs.StopTime

	byTrip map[string][]gtfs.StopTime
	byStop map[string][]gtfs.StopTime
}

func NewMemory(stops []gtfs.Stop, routes []gtfs.Route, trips []gtfs.Trip,
	calendars []gtfs.Calendar, calendarDates []gtfs.CalendarDate, stopTimes []gtfs.StopTime) *Memory {

	m := &Memory{
		stops:         stops,
		routes:        make(map[string]gtfs.Route, len(routes)),
		trips:         make(map[string]gtfs.Trip, len(trips)),
		calendars:     calendars,
		calendarDates: calendarDates,
		stopTimes:     stopTimes,
		byTrip:        make(map[string][]gtfs.StopTime),
		byStop:        make(map[string][]gtfs.StopTime),
	}
	for _, r := range routes {
		m.routes[r.ID] = r
	}
	for _, t := range trips {
		m.trips[t.ID] = t
	}
	for _, st := range stopTimes {
		m.byTrip[st.TripID] = append(m.byTrip[st.TripID], st)
		m.byStop[st.StopID] = append(m.byStop[st.StopID], st)
	}
	for id := range m.byTrip {
		sts := m.byTrip[id]
		sort.SliceStable(sts, func(i, j int) bool { return sts[i].StopSequence < sts[j].StopSequence })
	}
	return m
}

func (m *Memory) Stops(ctx context.Context) ([]gtfs.Stop, error) {
	return append([]gtfs.Stop(nil), m.stops...), nil
}

func (m *Memory) StopByID(ctx context.Context, id string) (gtfs.Stop, error) {
	for _, s := range m.stops {
		if s.ID == id {
			return s, nil
		}
	}
	return gtfs.Stop{}, fmt.Errorf("stop %q: %w", id, ErrNotFound)
}

func (m *Memory) RouteByID(ctx context.Context, id string) (gtfs.Route, error) {
	r, ok := m.routes[id]
	if !ok {
		return gtfs.Route{}, fmt.Errorf("route %q: %w", id, ErrNotFound)
	}
	return r, nil
}

func (m *Memory) TripByID(ctx context.Context, id string) (gtfs.Trip, error) {
	t, ok := m.trips[id]
	if !ok {
		return gtfs.Trip{}, fmt.Errorf("trip %q: %w", id, ErrNotFound)
	}
	return t, nil
}

func (m *Memory) CalendarsContaining(ctx context.Context, dateKey string) ([]gtfs.Calendar, error) {
	var out []gtfs.Calendar
	for _, c := range m.calendars {
		// YYYYMMDD keys compare correctly as strings.
		if c.StartDate <= dateKey && dateKey <= c.EndDate {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) CalendarDatesOn(ctx context.Context, dateKey string) ([]gtfs.CalendarDate, error) {
	var out []gtfs.CalendarDate
	for _, cd := range m.calendarDates {
		if cd.Date == dateKey {
			out = append(out, cd)
		}
	}
	return out, nil
}

func (m *Memory) DeparturesFrom(ctx context.Context, stopID string, afterSec int, services []string, limit int) ([]gtfs.StopTime, error) {
	if len(services) == 0 {
		return nil, nil
	}
	svc := serviceSet(services)
	var out []gtfs.StopTime
	for _, st := range m.byStop[stopID] {
		if st.DepartureSec < afterSec {
			continue
		}
		trip, ok := m.trips[st.TripID]
		if !ok {
			continue
		}
		if _, active := svc[trip.ServiceID]; !active {
			continue
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DepartureSec != out[j].DepartureSec {
			return out[i].DepartureSec < out[j].DepartureSec
		}
		return out[i].TripID < out[j].TripID
	})
	return clip(out, limit), nil
}

func (m *Memory) ArrivalsAt(ctx context.Context, stopID string, beforeSec int, services []string, limit int) ([]gtfs.StopTime, error) {
	if len(services) == 0 {
		return nil, nil
	}
	svc := serviceSet(services)
	var out []gtfs.StopTime
	for _, st := range m.byStop[stopID] {
		if st.ArrivalSec > beforeSec {
			continue
		}
		trip, ok := m.trips[st.TripID]
		if !ok {
			continue
		}
		if _, active := svc[trip.ServiceID]; !active {
			continue
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ArrivalSec != out[j].ArrivalSec {
			return out[i].ArrivalSec > out[j].ArrivalSec
		}
		return out[i].TripID < out[j].TripID
	})
	return clip(out, limit), nil
}

func (m *Memory) StopTimesForTrip(ctx context.Context, tripID string) ([]gtfs.StopTime, error) {
	return append([]gtfs.StopTime(nil), m.byTrip[tripID]...), nil
}

func serviceSet(services []string) map[string]struct{} {
	set := make(map[string]struct{}, len(services))
	for _, s := range services {
		set[s] = struct{}{}
	}
	return set
}

func clip(sts []gtfs.StopTime, limit int) []gtfs.StopTime {
	if limit > 0 && len(sts) > limit {
		return sts[:limit]
	}
	return sts
}
