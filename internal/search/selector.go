package search

import "sort"

// selectBest merges the candidate pools and picks exactly one journey.
//
// Direct candidates are placed ahead of transfer candidates before the
// stable sort, so a direct journey wins any exact time tie. Depart-after
// picks the earliest departure at or after the anchor; arrive-before picks
// the latest arrival at or before it. If no candidate qualifies and
// bestEffort is set, the candidate nearest the anchor on the wrong side is
// returned instead of nothing.
func selectBest(direct, transfer []candidate, anchorSec int, dir Direction, bestEffort bool) (candidate, bool) {
	merged := make([]candidate, 0, len(direct)+len(transfer))
	merged = append(merged, direct...)
	merged = append(merged, transfer...)
	if len(merged) == 0 {
		return candidate{}, false
	}

	if dir == DepartAfter {
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].departSec() < merged[j].departSec()
		})
		for _, c := range merged {
			if c.departSec() >= anchorSec {
				return c, true
			}
		}
	} else {
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].arriveSec() > merged[j].arriveSec()
		})
		for _, c := range merged {
			if c.arriveSec() <= anchorSec {
				return c, true
			}
		}
	}
	if !bestEffort {
		return candidate{}, false
	}
	// All candidates are on the wrong side of the anchor; the sort order
	// puts the one nearest the anchor last.
	return merged[len(merged)-1], true
}
