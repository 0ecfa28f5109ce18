package search

import (
	"fmt"
	"sort"

	"transit-search/internal/gtfs"
	"transit-search/internal/store"
)

// coordDist2 is the sum of squared coordinate deltas, a planar proxy for
// distance. Values are only ever compared against each other, never used as
// a distance.
func coordDist2(aLat, aLon, bLat, bLon float64) float64 {
	dLat := aLat - bLat
	dLon := aLon - bLon
	return dLat*dLat + dLon*dLon
}

// nearestStop returns the stop minimizing coordDist2 to the coordinate.
// Ties go to the first occurrence in input order.
func nearestStop(stops []gtfs.Stop, lat, lon float64) (gtfs.Stop, error) {
	if len(stops) == 0 {
		return gtfs.Stop{}, fmt.Errorf("no stops loaded: %w", store.ErrNotFound)
	}
	best := stops[0]
	bestD := coordDist2(best.Lat, best.Lon, lat, lon)
	for _, s := range stops[1:] {
		if d := coordDist2(s.Lat, s.Lon, lat, lon); d < bestD {
			best, bestD = s, d
		}
	}
	return best, nil
}

// rankTransferStops picks the k stops minimizing d2(origin,s) + d2(s,dest),
// i.e. the stops most plausibly "between" the endpoints. The endpoints
// themselves are excluded. Sorting is stable so equal scores keep input
// order.
func rankTransferStops(stops []gtfs.Stop, origin, dest gtfs.Stop, k int) []gtfs.Stop {
	ranked := make([]gtfs.Stop, 0, len(stops))
	for _, s := range stops {
		if s.ID == origin.ID || s.ID == dest.ID {
			continue
		}
		ranked = append(ranked, s)
	}
	score := func(s gtfs.Stop) float64 {
		return coordDist2(origin.Lat, origin.Lon, s.Lat, s.Lon) +
			coordDist2(s.Lat, s.Lon, dest.Lat, dest.Lon)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return score(ranked[i]) < score(ranked[j]) })
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
