package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit-search/internal/gtfs"
	"transit-search/internal/store"
)

func calendarEngine(calendars []gtfs.Calendar, exceptions []gtfs.CalendarDate) *Engine {
	m := store.NewMemory(fixtureStops(), nil, nil, calendars, exceptions, nil)
	return newTestEngine(m, DefaultParams())
}

func TestActiveServicesWeekdayPattern(t *testing.T) {
	e := calendarEngine([]gtfs.Calendar{weekdayCal("WD")}, nil)

	svc, err := e.activeServices(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"WD"}, svc)

	// Saturday: weekday pattern does not apply
	saturday := monday.AddDate(0, 0, 5)
	svc, err = e.activeServices(context.Background(), saturday)
	require.NoError(t, err)
	assert.Empty(t, svc)
}

func TestActiveServicesDateRange(t *testing.T) {
	expired := weekdayCal("OLD")
	expired.StartDate = "20250101"
	expired.EndDate = "20251231"
	e := calendarEngine([]gtfs.Calendar{expired}, nil)

	svc, err := e.activeServices(context.Background(), monday)
	require.NoError(t, err)
	assert.Empty(t, svc, "pattern outside [start,end] must not activate")
}

func TestActiveServicesRemovedException(t *testing.T) {
	e := calendarEngine(
		[]gtfs.Calendar{weekdayCal("WD")},
		[]gtfs.CalendarDate{{ServiceID: "WD", Date: "20260907", Exception: gtfs.ExceptionRemoved}},
	)

	svc, err := e.activeServices(context.Background(), monday)
	require.NoError(t, err)
	assert.Empty(t, svc, "REMOVED exception overrides the weekly pattern")

	// the next Monday is unaffected
	svc, err = e.activeServices(context.Background(), monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, []string{"WD"}, svc)
}

func TestActiveServicesAddedException(t *testing.T) {
	// EXTRA has no calendar row at all, only a date-specific exception.
	e := calendarEngine(
		[]gtfs.Calendar{weekdayCal("WD")},
		[]gtfs.CalendarDate{{ServiceID: "EXTRA", Date: "20260907", Exception: gtfs.ExceptionAdded}},
	)

	svc, err := e.activeServices(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"EXTRA", "WD"}, svc)
}

func TestActiveServicesEmptySchedule(t *testing.T) {
	e := calendarEngine(nil, nil)
	svc, err := e.activeServices(context.Background(), monday)
	require.NoError(t, err)
	assert.Empty(t, svc, "no matching data is not an error")
}

func TestActiveServicesDeterministicOrder(t *testing.T) {
	cals := []gtfs.Calendar{weekdayCal("B"), weekdayCal("A"), weekdayCal("C")}
	e := calendarEngine(cals, nil)
	svc, err := e.activeServices(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, svc)
}

func TestActiveServicesRebuiltPerCall(t *testing.T) {
	e := calendarEngine([]gtfs.Calendar{weekdayCal("WD")}, nil)
	for range [3]struct{}{} {
		svc, err := e.activeServices(context.Background(), monday)
		require.NoError(t, err)
		assert.Equal(t, []string{"WD"}, svc)
	}
}
