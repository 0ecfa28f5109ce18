package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"transit-search/internal/events"
	"transit-search/internal/search"
)

// Server is the thin HTTP wrapper around the search engine. All journey
// semantics live in internal/search; handlers only translate between HTTP
// and the engine's request/response types.
type Server struct {
	engine    *search.Engine
	publisher *events.Publisher
}

func NewServer(engine *search.Engine, publisher *events.Publisher) *Server {
	return &Server{engine: engine, publisher: publisher}
}

func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(NewLogger())

	v1 := app.Group("/v1")
	v1.Get("/health", s.health)
	v1.Get("/stops/nearest", s.nearestStop)
	v1.Post("/journey/search", s.searchJourney)

	return app
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) nearestStop(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{"error": "lat and lon must be decimal degrees"})
	}

	stop, err := s.engine.NearestStop(c.Context(), lat, lon)
	if err != nil {
		return s.searchError(c, err)
	}
	return c.JSON(search.StopSummary{ID: stop.ID, Name: stop.Name, Lat: stop.Lat, Lon: stop.Lon})
}

func (s *Server) searchJourney(c *fiber.Ctx) error {
	var req search.Request
	if err := c.BodyParser(&req); err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{"error": "malformed request body"})
	}

	resp, err := s.engine.Search(c.Context(), req)
	if err != nil {
		return s.searchError(c, err)
	}

	if s.publisher != nil {
		evt := events.SearchEvent{
			OriginStopID:  resp.ResolvedStops.Origin.ID,
			DestStopID:    resp.ResolvedStops.Destination.ID,
			Direction:     req.Direction().String(),
			RequestedTime: req.When,
			Found:         resp.Journey != nil,
			SearchedAt:    time.Now(),
		}
		if resp.Journey != nil {
			evt.TransferCount = resp.Journey.TransferCount
			evt.DurationMin = resp.Journey.DurationMinutes
		}
		// Fire-and-forget: event delivery never affects the response.
		_ = s.publisher.PublishSearch(evt)
	}

	return c.JSON(resp)
}

func (s *Server) searchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, search.ErrInvalidInput):
		c.Status(fiber.StatusBadRequest)
	case search.IsTimeout(err):
		c.Status(fiber.StatusGatewayTimeout)
	default:
		c.Status(fiber.StatusBadGateway)
	}
	return c.JSON(fiber.Map{"success": false, "error": err.Error()})
}
