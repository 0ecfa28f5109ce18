package store

import (
	"context"
	"sync/atomic"

	"transit-search/internal/gtfs"
)

// Switchable delegates to an inner ScheduleStore that can be swapped at
// runtime, used when a newer city import lands while the server is running.
// A search that is already in flight keeps the snapshot it started with for
// each individual query; consistency within one search is the engine's
// sequencing, a swap mid-search at worst surfaces as a NotFound.
type Switchable struct {
	inner atomic.Pointer[ScheduleStore]
}

func NewSwitchable(s ScheduleStore) *Switchable {
	sw := &Switchable{}
	sw.inner.Store(&s)
	return sw
}

// Swap replaces the delegate and returns the previous one so the caller can
// close it.
func (sw *Switchable) Swap(s ScheduleStore) ScheduleStore {
	old := sw.inner.Swap(&s)
	if old == nil {
		return nil
	}
	return *old
}

func (sw *Switchable) get() ScheduleStore { return *sw.inner.Load() }

func (sw *Switchable) Stops(ctx context.Context) ([]gtfs.Stop, error) {
	return sw.get().Stops(ctx)
}

func (sw *Switchable) StopByID(ctx context.Context, id string) (gtfs.Stop, error) {
	return sw.get().StopByID(ctx, id)
}

func (sw *Switchable) RouteByID(ctx context.Context, id string) (gtfs.Route, error) {
	return sw.get().RouteByID(ctx, id)
}

func (sw *Switchable) TripByID(ctx context.Context, id string) (gtfs.Trip, error) {
	return sw.get().TripByID(ctx, id)
}

func (sw *Switchable) CalendarsContaining(ctx context.Context, dateKey string) ([]gtfs.Calendar, error) {
	return sw.get().CalendarsContaining(ctx, dateKey)
}

func (sw *Switchable) CalendarDatesOn(ctx context.Context, dateKey string) ([]gtfs.CalendarDate, error) {
	return sw.get().CalendarDatesOn(ctx, dateKey)
}

func (sw *Switchable) DeparturesFrom(ctx context.Context, stopID string, afterSec int, services []string, limit int) ([]gtfs.StopTime, error) {
	return sw.get().DeparturesFrom(ctx, stopID, afterSec, services, limit)
}

func (sw *Switchable) ArrivalsAt(ctx context.Context, stopID string, beforeSec int, services []string, limit int) ([]gtfs.StopTime, error) {
	return sw.get().ArrivalsAt(ctx, stopID, beforeSec, services, limit)
}

func (sw *Switchable) StopTimesForTrip(ctx context.Context, tripID string) ([]gtfs.StopTime, error) {
	return sw.get().StopTimesForTrip(ctx, tripID)
}
