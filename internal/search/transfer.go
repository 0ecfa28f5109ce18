package search

import (
	"context"
	"fmt"

	"transit-search/internal/gtfs"
)

// findTransfers returns two-trip candidates joined at one of the given
// transfer stops, with the wait at the transfer stop bounded by
// [MinWaitMinutes, maxWaitSec]. The two legs must be on different trips. The
// per-stop searches are independent; they run sequentially so candidate
// discovery order, and therefore tie-breaking, stays deterministic.
func (e *Engine) findTransfers(ctx context.Context, originID, destID string, anchorSec int, services []string, dir Direction, transferStops []gtfs.Stop, maxWaitSec int) ([]candidate, error) {
	minWaitSec := e.params.MinWaitMinutes * 60

	if dir == DepartAfter {
		// First-leg departures are the same for every transfer stop.
		leg1Deps, err := e.store.DeparturesFrom(ctx, originID, anchorSec, services, e.params.StageRowLimit)
		if err != nil {
			return nil, fmt.Errorf("transfer search leg-1 departures: %w", err)
		}
		var out []candidate
		for _, ts := range transferStops {
			found, err := e.transfersVia(ctx, ts, leg1Deps, destID, services, minWaitSec, maxWaitSec)
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
		}
		return out, nil
	}

	// Arrive-before: anchor on second-leg arrivals at the destination and
	// walk backward through the transfer stop.
	leg2Arrs, err := e.store.ArrivalsAt(ctx, destID, anchorSec, services, e.params.StageRowLimit)
	if err != nil {
		return nil, fmt.Errorf("transfer search leg-2 arrivals: %w", err)
	}
	var out []candidate
	for _, ts := range transferStops {
		found, err := e.transfersViaReverse(ctx, ts, leg2Arrs, originID, anchorSec, services, minWaitSec, maxWaitSec)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// transfersVia expands first-leg departures through one transfer stop:
// same-trip arrival at the stop, then departures from it on a different trip
// within the wait window, then a same-trip arrival at the destination.
func (e *Engine) transfersVia(ctx context.Context, transferStop gtfs.Stop, leg1Deps []gtfs.StopTime, destID string, services []string, minWaitSec, maxWaitSec int) ([]candidate, error) {
	var out []candidate
	for _, dep1 := range leg1Deps {
		arr1, ok, err := e.laterStopOnTrip(ctx, dep1, transferStop.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		deps2, err := e.store.DeparturesFrom(ctx, transferStop.ID, arr1.ArrivalSec+minWaitSec, services, e.params.StageRowLimit)
		if err != nil {
			return nil, fmt.Errorf("transfer departures at %s: %w", transferStop.ID, err)
		}
		for _, dep2 := range deps2 {
			if dep2.TripID == dep1.TripID {
				continue
			}
			wait := dep2.DepartureSec - arr1.ArrivalSec
			if wait > maxWaitSec {
				break // departures are ascending, all further waits are longer
			}
			arr2, ok, err := e.laterStopOnTrip(ctx, dep2, destID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			out = append(out, candidate{
				legs: []legTimes{
					{tripID: dep1.TripID, from: dep1, to: arr1},
					{tripID: dep2.TripID, from: dep2, to: arr2},
				},
				transferStopID: transferStop.ID,
				waitSec:        wait,
			})
		}
	}
	return out, nil
}

// transfersViaReverse is the arrive-before mirror of transfersVia.
func (e *Engine) transfersViaReverse(ctx context.Context, transferStop gtfs.Stop, leg2Arrs []gtfs.StopTime, originID string, anchorSec int, services []string, minWaitSec, maxWaitSec int) ([]candidate, error) {
	var out []candidate
	for _, arr2 := range leg2Arrs {
		dep2, ok, err := e.earlierStopOnTrip(ctx, arr2, transferStop.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		arrs1, err := e.store.ArrivalsAt(ctx, transferStop.ID, dep2.DepartureSec-minWaitSec, services, e.params.StageRowLimit)
		if err != nil {
			return nil, fmt.Errorf("transfer arrivals at %s: %w", transferStop.ID, err)
		}
		for _, arr1 := range arrs1 {
			if arr1.TripID == arr2.TripID {
				continue
			}
			wait := dep2.DepartureSec - arr1.ArrivalSec
			if wait > maxWaitSec {
				break // arrivals are descending, all further waits are longer
			}
			dep1, ok, err := e.earlierStopOnTrip(ctx, arr1, originID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if dep1.DepartureSec > anchorSec {
				continue
			}
			out = append(out, candidate{
				legs: []legTimes{
					{tripID: arr1.TripID, from: dep1, to: arr1},
					{tripID: arr2.TripID, from: dep2, to: arr2},
				},
				transferStopID: transferStop.ID,
				waitSec:        wait,
			})
		}
	}
	return out, nil
}
