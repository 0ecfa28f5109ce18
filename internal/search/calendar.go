package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"transit-search/internal/gtfs"
)

// activeServices resolves the set of service ids operating on the given
// date: every calendar row whose range contains the date and whose weekday
// flag is set, then the date's exceptions applied on top. The base set is
// always built first so exceptions win regardless of row order. An empty
// result means no service runs that day, which is not an error.
//
// The set is rebuilt for every search; the schedule snapshot is only assumed
// stable within a single call.
func (e *Engine) activeServices(ctx context.Context, date time.Time) ([]string, error) {
	key := gtfs.DateKey(date)
	weekday := date.Weekday()

	cals, err := e.store.CalendarsContaining(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolve calendar for %s: %w", key, err)
	}
	active := make(map[string]struct{})
	for _, c := range cals {
		if c.RunsOn(weekday) {
			active[c.ServiceID] = struct{}{}
		}
	}

	excs, err := e.store.CalendarDatesOn(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolve calendar exceptions for %s: %w", key, err)
	}
	for _, x := range excs {
		switch x.Exception {
		case gtfs.ExceptionAdded:
			active[x.ServiceID] = struct{}{}
		case gtfs.ExceptionRemoved:
			delete(active, x.ServiceID)
		}
	}

	services := make([]string, 0, len(active))
	for id := range active {
		services = append(services, id)
	}
	sort.Strings(services)
	return services, nil
}
