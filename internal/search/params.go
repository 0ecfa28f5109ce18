package search

// Params are the search tuning knobs. All of them trade coverage for query
// volume, not correctness.
type Params struct {
	// MaxOriginCandidates bounds how many anchor-side stop times are
	// considered for direct matches.
	MaxOriginCandidates int
	// SearchWindowMinutes bounds how far from the anchor a direct candidate
	// may depart (or arrive).
	SearchWindowMinutes int
	// MaxTransferStops is how many ranked intermediate stops are tried.
	MaxTransferStops int
	// MinWaitMinutes and MaxWaitMinutes bound the wait at the transfer stop.
	MinWaitMinutes int
	MaxWaitMinutes int
	// WideWaitMinutes replaces MaxWaitMinutes when a request asks for the
	// widened transfer window.
	WideWaitMinutes int
	// StageRowLimit bounds rows fetched per transfer-search stage.
	StageRowLimit int
	// AllowBestEffort controls whether a search with no time-qualifying
	// candidate returns the nearest non-qualifying journey instead of
	// nothing.
	AllowBestEffort bool
}

func DefaultParams() Params {
	return Params{
		MaxOriginCandidates: 20,
		SearchWindowMinutes: 120,
		MaxTransferStops:    10,
		MinWaitMinutes:      1,
		MaxWaitMinutes:      15,
		WideWaitMinutes:     120,
		StageRowLimit:       20,
		AllowBestEffort:     true,
	}
}
