package search

import (
	"time"

	"transit-search/internal/gtfs"
	"transit-search/internal/store"
)

// Monday within every fixture calendar's validity range.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func at(clock string) time.Time {
	sec := gtfs.ParseDaySeconds(clock)
	return monday.Add(time.Duration(sec) * time.Second)
}

func st(trip, stop string, seq int, arr, dep string) gtfs.StopTime {
	return gtfs.StopTime{
		TripID:       trip,
		StopID:       stop,
		StopSequence: seq,
		ArrivalSec:   gtfs.ParseDaySeconds(arr),
		DepartureSec: gtfs.ParseDaySeconds(dep),
	}
}

func weekdayCal(service string) gtfs.Calendar {
	return gtfs.Calendar{
		ServiceID: service,
		StartDate: "20260101",
		EndDate:   "20261231",
		Monday:    true,
		Tuesday:   true,
		Wednesday: true,
		Thursday:  true,
		Friday:    true,
	}
}

// fixtureStops puts T geographically between S1 and S2 and X far away so
// transfer ranking picks T first.
func fixtureStops() []gtfs.Stop {
	return []gtfs.Stop{
		{ID: "S1", Name: "Harbour", Lat: 0, Lon: 0},
		{ID: "T", Name: "Midpoint", Lat: 0.5, Lon: 0},
		{ID: "S2", Name: "Station", Lat: 1, Lon: 0},
		{ID: "X", Name: "Outlier", Lat: 5, Lon: 5},
	}
}

func fixtureRoutes() []gtfs.Route {
	return []gtfs.Route{
		{ID: "R1", ShortName: "1", LongName: "Harbour Line"},
		{ID: "R2", ShortName: "2", LongName: "Station Line"},
	}
}

func newTestEngine(m *store.Memory, params Params) *Engine {
	return New(m, params, time.UTC, nil)
}

// directFixture has a single trip carrying both endpoints.
func directFixture() *store.Memory {
	return store.NewMemory(
		fixtureStops(),
		fixtureRoutes(),
		[]gtfs.Trip{{ID: "T1", RouteID: "R1", ServiceID: "WD", Headsign: "Station"}},
		[]gtfs.Calendar{weekdayCal("WD")},
		nil,
		[]gtfs.StopTime{
			st("T1", "S1", 1, "08:05:00", "08:05:00"),
			st("T1", "S2", 2, "08:15:00", "08:15:00"),
		},
	)
}

// transferFixture has no common trip and one plausible transfer stop T.
// The second-leg departure time is parameterized so the wait-window tests
// can reuse it.
func transferFixture(leg2Dep string) *store.Memory {
	return store.NewMemory(
		fixtureStops(),
		fixtureRoutes(),
		[]gtfs.Trip{
			{ID: "TB1", RouteID: "R1", ServiceID: "WD"},
			{ID: "TB2", RouteID: "R2", ServiceID: "WD"},
		},
		[]gtfs.Calendar{weekdayCal("WD")},
		nil,
		[]gtfs.StopTime{
			st("TB1", "S1", 1, "08:00:00", "08:00:00"),
			st("TB1", "T", 2, "08:10:00", "08:10:00"),
			st("TB2", "T", 1, leg2Dep, leg2Dep),
			st("TB2", "S2", 2, "08:30:00", "08:30:00"),
		},
	)
}
