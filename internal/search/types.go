package search

import (
	"time"

	"transit-search/internal/gtfs"
)

// Direction is the time-direction policy of a search.
type Direction int

const (
	// DepartAfter finds the first journey leaving at or after the anchor.
	DepartAfter Direction = iota
	// ArriveBefore finds the last journey arriving at or before the anchor.
	ArriveBefore
)

func (d Direction) String() string {
	if d == ArriveBefore {
		return "arrive-before"
	}
	return "depart-after"
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Request describes one journey search. Each endpoint is given either as a
// stop id or as a coordinate to be resolved to the nearest stop.
type Request struct {
	OriginStopID string      `json:"originStopId,omitempty"`
	DestStopID   string      `json:"destStopId,omitempty"`
	OriginCoord  *Coordinate `json:"originCoordinate,omitempty"`
	DestCoord    *Coordinate `json:"destCoordinate,omitempty"`

	When        time.Time `json:"time"`
	IsDeparture bool      `json:"isDeparture"`

	// WideTransferWindow switches the transfer wait bound from the default
	// to the widened one, trading precision for coverage on sparse networks.
	WideTransferWindow bool `json:"wideTransferWindow,omitempty"`
}

func (r Request) Direction() Direction {
	if r.IsDeparture {
		return DepartAfter
	}
	return ArriveBefore
}

type StopSummary struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type Leg struct {
	TripID        string      `json:"tripId"`
	RouteID       string      `json:"routeId"`
	RouteName     string      `json:"routeName"`
	Headsign      string      `json:"headsign,omitempty"`
	From          StopSummary `json:"from"`
	To            StopSummary `json:"to"`
	DepartureTime string      `json:"departureTime"`
	ArrivalTime   string      `json:"arrivalTime"`
}

type Journey struct {
	DepartureTime   string `json:"departureTime"`
	ArrivalTime     string `json:"arrivalTime"`
	DurationMinutes int    `json:"durationMinutes"`
	TransferCount   int    `json:"transferCount"`
	TransferWaitMin int    `json:"transferWaitMinutes,omitempty"`
	Legs            []Leg  `json:"legs"`
}

type ResolvedStops struct {
	Origin      StopSummary `json:"origin"`
	Destination StopSummary `json:"destination"`
}

// Response is the search outcome. A search with no matching journey is still
// a success; Message explains why the journey is absent.
type Response struct {
	Success       bool          `json:"success"`
	Journey       *Journey      `json:"journey,omitempty"`
	ResolvedStops ResolvedStops `json:"resolvedStops"`
	Message       string        `json:"message,omitempty"`
}

// legTimes is one ride on one trip, by its boarding and alighting stop times.
type legTimes struct {
	tripID string
	from   gtfs.StopTime
	to     gtfs.StopTime
}

// candidate is a journey candidate before route/stop metadata is attached.
// Direct candidates have one leg, transfer candidates two.
type candidate struct {
	legs           []legTimes
	transferStopID string
	waitSec        int
}

func (c candidate) departSec() int { return c.legs[0].from.DepartureSec }
func (c candidate) arriveSec() int { return c.legs[len(c.legs)-1].to.ArrivalSec }
func (c candidate) transfer() bool { return len(c.legs) > 1 }

func summarize(s gtfs.Stop) StopSummary {
	return StopSummary{ID: s.ID, Name: s.Name, Lat: s.Lat, Lon: s.Lon}
}
