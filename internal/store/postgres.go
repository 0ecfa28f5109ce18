package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"transit-search/internal/gtfs"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres reads the schedule from a postgis-gtfs-importer database layout:
// stops, routes, trips, stop_times, calendar, calendar_dates.
type Postgres struct {
	db *sql.DB
}

func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Postgres{db: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) Stops(ctx context.Context) ([]gtfs.Stop, error) {
	q := `SELECT stop_id, COALESCE(stop_name, ''), COALESCE(stop_lat, 0), COALESCE(stop_lon, 0)
          FROM stops ORDER BY stop_id`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query stops: %w", err)
	}
	defer rows.Close()

	var stops []gtfs.Stop
	for rows.Next() {
		var s gtfs.Stop
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

func (p *Postgres) StopByID(ctx context.Context, id string) (gtfs.Stop, error) {
	q := `SELECT stop_id, COALESCE(stop_name, ''), COALESCE(stop_lat, 0), COALESCE(stop_lon, 0)
          FROM stops WHERE stop_id = $1`
	var s gtfs.Stop
	err := p.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Lat, &s.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return gtfs.Stop{}, fmt.Errorf("stop %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return gtfs.Stop{}, fmt.Errorf("query stop: %w", err)
	}
	return s, nil
}

func (p *Postgres) RouteByID(ctx context.Context, id string) (gtfs.Route, error) {
	q := `SELECT route_id, COALESCE(route_short_name, ''), COALESCE(route_long_name, ''),
                 COALESCE(route_color::text, ''), COALESCE(route_text_color::text, '')
          FROM routes WHERE route_id = $1`
	var r gtfs.Route
	err := p.db.QueryRowContext(ctx, q, id).Scan(&r.ID, &r.ShortName, &r.LongName, &r.Color, &r.TextColor)
	if errors.Is(err, sql.ErrNoRows) {
		return gtfs.Route{}, fmt.Errorf("route %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return gtfs.Route{}, fmt.Errorf("query route: %w", err)
	}
	return r, nil
}

func (p *Postgres) TripByID(ctx context.Context, id string) (gtfs.Trip, error) {
	q := `SELECT trip_id, route_id, service_id, COALESCE(trip_headsign, ''),
                 COALESCE(direction_id::int, 0)
          FROM trips WHERE trip_id = $1`
	var t gtfs.Trip
	err := p.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.RouteID, &t.ServiceID, &t.Headsign, &t.DirectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return gtfs.Trip{}, fmt.Errorf("trip %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return gtfs.Trip{}, fmt.Errorf("query trip: %w", err)
	}
	return t, nil
}

func (p *Postgres) CalendarsContaining(ctx context.Context, dateKey string) ([]gtfs.Calendar, error) {
	// Weekday flags may be stored as booleans, 0/1 or enum text depending on
	// the importer version, so normalise through ::text.
	q := `SELECT service_id,
                 to_char(start_date, 'YYYYMMDD'), to_char(end_date, 'YYYYMMDD'),
                 monday::text IN ('1','t','true','available'),
                 tuesday::text IN ('1','t','true','available'),
                 wednesday::text IN ('1','t','true','available'),
                 thursday::text IN ('1','t','true','available'),
                 friday::text IN ('1','t','true','available'),
                 saturday::text IN ('1','t','true','available'),
                 sunday::text IN ('1','t','true','available')
          FROM calendar
          WHERE start_date <= to_date($1, 'YYYYMMDD') AND end_date >= to_date($1, 'YYYYMMDD')
          ORDER BY service_id`
	rows, err := p.db.QueryContext(ctx, q, dateKey)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}
	defer rows.Close()

	var cals []gtfs.Calendar
	for rows.Next() {
		var c gtfs.Calendar
		if err := rows.Scan(&c.ServiceID, &c.StartDate, &c.EndDate,
			&c.Monday, &c.Tuesday, &c.Wednesday, &c.Thursday, &c.Friday, &c.Saturday, &c.Sunday); err != nil {
			return nil, err
		}
		cals = append(cals, c)
	}
	return cals, rows.Err()
}

func (p *Postgres) CalendarDatesOn(ctx context.Context, dateKey string) ([]gtfs.CalendarDate, error) {
	q := `SELECT service_id,
                 to_char(date, 'YYYYMMDD'),
                 CASE WHEN exception_type::text IN ('1','added') THEN 1 ELSE 2 END
          FROM calendar_dates
          WHERE date = to_date($1, 'YYYYMMDD')
          ORDER BY service_id`
	rows, err := p.db.QueryContext(ctx, q, dateKey)
	if err != nil {
		return nil, fmt.Errorf("query calendar_dates: %w", err)
	}
	defer rows.Close()

	var excs []gtfs.CalendarDate
	for rows.Next() {
		var cd gtfs.CalendarDate
		var et int
		if err := rows.Scan(&cd.ServiceID, &cd.Date, &et); err != nil {
			return nil, err
		}
		cd.Exception = gtfs.ExceptionType(et)
		excs = append(excs, cd)
	}
	return excs, rows.Err()
}

func (p *Postgres) DeparturesFrom(ctx context.Context, stopID string, afterSec int, services []string, limit int) ([]gtfs.StopTime, error) {
	if len(services) == 0 {
		return nil, nil
	}
	q := `SELECT st.trip_id, st.stop_id, st.stop_sequence,
                 COALESCE(st.arrival_time::text, ''), COALESCE(st.departure_time::text, '')
          FROM stop_times st
          JOIN trips t ON t.trip_id = st.trip_id
          WHERE st.stop_id = $1
            AND t.service_id = ANY($2)
            AND st.departure_time IS NOT NULL
            AND st.departure_time::interval >= make_interval(secs => $3)
          ORDER BY st.departure_time::interval, st.trip_id
          LIMIT $4`
	rows, err := p.db.QueryContext(ctx, q, stopID, pqArray(services), afterSec, limit)
	if err != nil {
		return nil, fmt.Errorf("query departures: %w", err)
	}
	defer rows.Close()
	return scanStopTimes(rows)
}

func (p *Postgres) ArrivalsAt(ctx context.Context, stopID string, beforeSec int, services []string, limit int) ([]gtfs.StopTime, error) {
	if len(services) == 0 {
		return nil, nil
	}
	q := `SELECT st.trip_id, st.stop_id, st.stop_sequence,
                 COALESCE(st.arrival_time::text, ''), COALESCE(st.departure_time::text, '')
          FROM stop_times st
          JOIN trips t ON t.trip_id = st.trip_id
          WHERE st.stop_id = $1
            AND t.service_id = ANY($2)
            AND st.arrival_time IS NOT NULL
            AND st.arrival_time::interval <= make_interval(secs => $3)
          ORDER BY st.arrival_time::interval DESC, st.trip_id
          LIMIT $4`
	rows, err := p.db.QueryContext(ctx, q, stopID, pqArray(services), beforeSec, limit)
	if err != nil {
		return nil, fmt.Errorf("query arrivals: %w", err)
	}
	defer rows.Close()
	return scanStopTimes(rows)
}

func (p *Postgres) StopTimesForTrip(ctx context.Context, tripID string) ([]gtfs.StopTime, error) {
	q := `SELECT trip_id, stop_id, stop_sequence,
                 COALESCE(arrival_time::text, ''), COALESCE(departure_time::text, '')
          FROM stop_times
          WHERE trip_id = $1
          ORDER BY stop_sequence`
	rows, err := p.db.QueryContext(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("query stop_times: %w", err)
	}
	defer rows.Close()
	return scanStopTimes(rows)
}

func scanStopTimes(rows *sql.Rows) ([]gtfs.StopTime, error) {
	var sts []gtfs.StopTime
	for rows.Next() {
		var st gtfs.StopTime
		var arr, dep string
		if err := rows.Scan(&st.TripID, &st.StopID, &st.StopSequence, &arr, &dep); err != nil {
			return nil, err
		}
		st.ArrivalSec = gtfs.ParseDaySeconds(arr)
		st.DepartureSec = gtfs.ParseDaySeconds(dep)
		sts = append(sts, st)
	}
	return sts, rows.Err()
}

func pqArray(a []string) any { return a }
