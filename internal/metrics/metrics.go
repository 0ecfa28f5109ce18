package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Collector struct {
	reg *prometheus.Registry

	SearchesStarted prometheus.Counter
	SearchResults   *prometheus.CounterVec // result label: direct|transfer|none|error

	SearchDuration     prometheus.Histogram
	DirectCandidates   prometheus.Histogram
	TransferCandidates prometheus.Histogram

	StoreSwitches *prometheus.CounterVec // reason label: update|ping_failure

	EventsPublished   prometheus.Counter
	EventsPublishErrs prometheus.Counter
	EventsConnected   prometheus.Gauge
	PublishDuration   prometheus.Histogram

	SearchWindowMinutes prometheus.Gauge
	MaxTransferStops    prometheus.Gauge
	MaxWaitMinutes      prometheus.Gauge
}

func NewCollector(searchWindowMinutes, maxTransferStops, maxWaitMinutes int) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		SearchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journey_searches_started_total",
			Help: "Total journey searches started.",
		}),
		SearchResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journey_searches_completed_total",
			Help: "Total journey searches completed, by result kind.",
		}, []string{"result"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "journey_search_duration_seconds",
			Help:    "End-to-end duration of one journey search.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		DirectCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "journey_direct_candidates",
			Help:    "Direct candidates found per search.",
			Buckets: prometheus.LinearBuckets(0, 2, 12),
		}),
		TransferCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "journey_transfer_candidates",
			Help:    "Transfer candidates found per search.",
			Buckets: prometheus.LinearBuckets(0, 5, 12),
		}),
		StoreSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journey_store_switches_total",
			Help: "Number of schedule database switches.",
		}, []string{"reason"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journey_events_published_total",
			Help: "Total search events published.",
		}),
		EventsPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journey_events_publish_errors_total",
			Help: "Total search event publish errors.",
		}),
		EventsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_events_connected",
			Help: "1 if the event bus connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "journey_event_publish_duration_seconds",
			Help:    "Duration to marshal and publish a search event.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		SearchWindowMinutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_search_window_minutes",
			Help: "Configured direct search window in minutes.",
		}),
		MaxTransferStops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_max_transfer_stops",
			Help: "Configured number of transfer stops considered.",
		}),
		MaxWaitMinutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_max_transfer_wait_minutes",
			Help: "Configured maximum transfer wait in minutes.",
		}),
	}

	reg.MustRegister(
		c.SearchesStarted, c.SearchResults,
		c.SearchDuration, c.DirectCandidates, c.TransferCandidates,
		c.StoreSwitches,
		c.EventsPublished, c.EventsPublishErrs, c.EventsConnected, c.PublishDuration,
		c.SearchWindowMinutes, c.MaxTransferStops, c.MaxWaitMinutes,
	)

	c.SearchWindowMinutes.Set(float64(searchWindowMinutes))
	c.MaxTransferStops.Set(float64(maxTransferStops))
	c.MaxWaitMinutes.Set(float64(maxWaitMinutes))

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server error")
		}
	}()
	log.Info().Str("addr", addr).Msg("metrics listening")
	return srv
}
