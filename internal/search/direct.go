package search

import (
	"context"
	"fmt"

	"transit-search/internal/gtfs"
)

// findDirect returns single-trip candidates between origin and destination.
//
// Depart-after anchors on origin departures at or after anchorSec and walks
// each trip forward looking for the destination at a later stop_sequence.
// Arrive-before mirrors it: destination arrivals at or before anchorSec,
// walking the trip backward for the origin. Matching is on stop_sequence,
// never on set membership, since a trip may in principle visit a stop twice.
func (e *Engine) findDirect(ctx context.Context, originID, destID string, anchorSec int, services []string, dir Direction) ([]candidate, error) {
	windowSec := e.params.SearchWindowMinutes * 60

	if dir == DepartAfter {
		deps, err := e.store.DeparturesFrom(ctx, originID, anchorSec, services, e.params.MaxOriginCandidates)
		if err != nil {
			return nil, fmt.Errorf("direct search departures: %w", err)
		}
		var out []candidate
		for _, dep := range deps {
			if windowSec > 0 && dep.DepartureSec > anchorSec+windowSec {
				break
			}
			arr, ok, err := e.laterStopOnTrip(ctx, dep, destID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			out = append(out, candidate{legs: []legTimes{{tripID: dep.TripID, from: dep, to: arr}}})
		}
		return out, nil
	}

	arrs, err := e.store.ArrivalsAt(ctx, destID, anchorSec, services, e.params.MaxOriginCandidates)
	if err != nil {
		return nil, fmt.Errorf("direct search arrivals: %w", err)
	}
	var out []candidate
	for _, arr := range arrs {
		if windowSec > 0 && arr.ArrivalSec < anchorSec-windowSec {
			break
		}
		dep, ok, err := e.earlierStopOnTrip(ctx, arr, originID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		// Malformed feeds can put the boarding time past the anchor.
		if dep.DepartureSec > anchorSec {
			continue
		}
		out = append(out, candidate{legs: []legTimes{{tripID: arr.TripID, from: dep, to: arr}}})
	}
	return out, nil
}

// laterStopOnTrip finds the first visit of stopID on from's trip with a
// stop_sequence greater than from's.
func (e *Engine) laterStopOnTrip(ctx context.Context, from gtfs.StopTime, stopID string) (gtfs.StopTime, bool, error) {
	sts, err := e.store.StopTimesForTrip(ctx, from.TripID)
	if err != nil {
		return gtfs.StopTime{}, false, fmt.Errorf("trip %s stop times: %w", from.TripID, err)
	}
	for _, st := range sts {
		if st.StopSequence > from.StopSequence && st.StopID == stopID {
			return st, true, nil
		}
	}
	return gtfs.StopTime{}, false, nil
}

// earlierStopOnTrip finds the last visit of stopID on to's trip with a
// stop_sequence smaller than to's.
func (e *Engine) earlierStopOnTrip(ctx context.Context, to gtfs.StopTime, stopID string) (gtfs.StopTime, bool, error) {
	sts, err := e.store.StopTimesForTrip(ctx, to.TripID)
	if err != nil {
		return gtfs.StopTime{}, false, fmt.Errorf("trip %s stop times: %w", to.TripID, err)
	}
	var found gtfs.StopTime
	ok := false
	for _, st := range sts {
		if st.StopSequence >= to.StopSequence {
			break
		}
		if st.StopID == stopID {
			found, ok = st, true
		}
	}
	return found, ok, nil
}
