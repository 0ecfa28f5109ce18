package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"transit-search/internal/gtfs"
	"transit-search/internal/metrics"
	"transit-search/internal/store"
)

// Engine is the timetable journey search. It owns no schedule state; every
// search is a sequence of read queries against the injected store, so two
// concurrent searches are fully independent.
type Engine struct {
	store   store.ScheduleStore
	params  Params
	tz      *time.Location
	metrics *metrics.Collector
	log     zerolog.Logger
}

func New(st store.ScheduleStore, params Params, tz *time.Location, col *metrics.Collector) *Engine {
	if tz == nil {
		tz = time.Local
	}
	return &Engine{
		store:   st,
		params:  params,
		tz:      tz,
		metrics: col,
		log:     log.With().Str("component", "search").Logger(),
	}
}

// NearestStop resolves a coordinate to the closest known stop.
func (e *Engine) NearestStop(ctx context.Context, lat, lon float64) (gtfs.Stop, error) {
	stops, err := e.store.Stops(ctx)
	if err != nil {
		return gtfs.Stop{}, fmt.Errorf("load stops: %w", err)
	}
	return nearestStop(stops, lat, lon)
}

// Search computes the single best direct or one-transfer journey for the
// request. A valid search with no matching journey returns Success true with
// an explanatory message; only input mistakes and data-access failures
// return an error.
func (e *Engine) Search(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	if e.metrics != nil {
		e.metrics.SearchesStarted.Inc()
	}
	resp, err := e.search(ctx, req)
	if e.metrics != nil {
		e.metrics.SearchDuration.Observe(time.Since(start).Seconds())
		e.metrics.SearchResults.WithLabelValues(resultLabel(resp, err)).Inc()
	}
	return resp, err
}

func (e *Engine) search(ctx context.Context, req Request) (Response, error) {
	if req.When.IsZero() {
		return Response{}, fmt.Errorf("missing request time: %w", ErrInvalidInput)
	}

	stops, err := e.store.Stops(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("load stops: %w", err)
	}
	origin, err := e.resolveEndpoint(ctx, stops, req.OriginStopID, req.OriginCoord, "origin")
	if err != nil {
		return Response{}, err
	}
	dest, err := e.resolveEndpoint(ctx, stops, req.DestStopID, req.DestCoord, "destination")
	if err != nil {
		return Response{}, err
	}
	if origin.ID == dest.ID {
		return Response{}, fmt.Errorf("origin and destination are the same stop %q: %w", origin.ID, ErrInvalidInput)
	}

	resolved := ResolvedStops{Origin: summarize(origin), Destination: summarize(dest)}
	when := req.When.In(e.tz)
	anchorSec := gtfs.DaySecondsOf(when)
	dir := req.Direction()

	searchLog := e.log.With().
		Str("origin", origin.ID).
		Str("destination", dest.ID).
		Str("direction", dir.String()).
		Str("date", gtfs.DateKey(when)).
		Logger()

	services, err := e.activeServices(ctx, when)
	if err != nil {
		return Response{}, err
	}
	if len(services) == 0 {
		searchLog.Info().Msg("no active services")
		return Response{
			Success:       true,
			ResolvedStops: resolved,
			Message:       "no service operates on this date",
		}, nil
	}

	direct, err := e.findDirect(ctx, origin.ID, dest.ID, anchorSec, services, dir)
	if err != nil {
		return Response{}, err
	}

	maxWaitSec := e.params.MaxWaitMinutes * 60
	if req.WideTransferWindow {
		maxWaitSec = e.params.WideWaitMinutes * 60
	}
	transferStops := rankTransferStops(stops, origin, dest, e.params.MaxTransferStops)
	transfers, err := e.findTransfers(ctx, origin.ID, dest.ID, anchorSec, services, dir, transferStops, maxWaitSec)
	if err != nil {
		return Response{}, err
	}
	if e.metrics != nil {
		e.metrics.DirectCandidates.Observe(float64(len(direct)))
		e.metrics.TransferCandidates.Observe(float64(len(transfers)))
	}

	best, ok := selectBest(direct, transfers, anchorSec, dir, e.params.AllowBestEffort)
	if !ok {
		searchLog.Info().
			Int("direct", len(direct)).
			Int("transfer", len(transfers)).
			Msg("no journey found")
		return Response{
			Success:       true,
			ResolvedStops: resolved,
			Message:       "no direct or transfer route found",
		}, nil
	}

	journey, err := e.buildJourney(ctx, best, stops)
	if err != nil {
		return Response{}, err
	}
	searchLog.Info().
		Str("departure", journey.DepartureTime).
		Str("arrival", journey.ArrivalTime).
		Int("transfers", journey.TransferCount).
		Msg("journey selected")
	return Response{Success: true, Journey: journey, ResolvedStops: resolved}, nil
}

func (e *Engine) resolveEndpoint(ctx context.Context, stops []gtfs.Stop, stopID string, coord *Coordinate, name string) (gtfs.Stop, error) {
	switch {
	case stopID != "":
		s, err := e.store.StopByID(ctx, stopID)
		if errors.Is(err, store.ErrNotFound) {
			return gtfs.Stop{}, fmt.Errorf("unknown %s stop %q: %w", name, stopID, ErrInvalidInput)
		}
		if err != nil {
			return gtfs.Stop{}, fmt.Errorf("resolve %s stop: %w", name, err)
		}
		return s, nil
	case coord != nil:
		s, err := nearestStop(stops, coord.Lat, coord.Lon)
		if err != nil {
			return gtfs.Stop{}, fmt.Errorf("resolve %s coordinate: %w", name, err)
		}
		return s, nil
	default:
		return gtfs.Stop{}, fmt.Errorf("missing %s stop id or coordinate: %w", name, ErrInvalidInput)
	}
}

// buildJourney attaches route and stop metadata to the winning candidate.
// Metadata is only fetched for the selected journey, not for every
// candidate.
func (e *Engine) buildJourney(ctx context.Context, c candidate, stops []gtfs.Stop) (*Journey, error) {
	names := make(map[string]gtfs.Stop, len(stops))
	for _, s := range stops {
		names[s.ID] = s
	}

	j := &Journey{
		DepartureTime:   gtfs.FormatDaySeconds(c.departSec()),
		ArrivalTime:     gtfs.FormatDaySeconds(c.arriveSec()),
		DurationMinutes: (c.arriveSec() - c.departSec()) / 60,
		TransferCount:   0,
	}
	if c.transfer() {
		j.TransferCount = 1
		j.TransferWaitMin = c.waitSec / 60
	}
	for _, leg := range c.legs {
		trip, err := e.store.TripByID(ctx, leg.tripID)
		if err != nil {
			return nil, fmt.Errorf("journey trip: %w", err)
		}
		route, err := e.store.RouteByID(ctx, trip.RouteID)
		if err != nil {
			return nil, fmt.Errorf("journey route: %w", err)
		}
		j.Legs = append(j.Legs, Leg{
			TripID:        trip.ID,
			RouteID:       route.ID,
			RouteName:     route.DisplayName(),
			Headsign:      trip.Headsign,
			From:          summarize(stopOr(names, leg.from.StopID)),
			To:            summarize(stopOr(names, leg.to.StopID)),
			DepartureTime: gtfs.FormatDaySeconds(leg.from.DepartureSec),
			ArrivalTime:   gtfs.FormatDaySeconds(leg.to.ArrivalSec),
		})
	}
	return j, nil
}

func stopOr(stops map[string]gtfs.Stop, id string) gtfs.Stop {
	if s, ok := stops[id]; ok {
		return s
	}
	return gtfs.Stop{ID: id}
}

func resultLabel(resp Response, err error) string {
	switch {
	case err != nil:
		return "error"
	case resp.Journey == nil:
		return "none"
	case resp.Journey.TransferCount > 0:
		return "transfer"
	default:
		return "direct"
	}
}
