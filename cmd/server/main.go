package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"transit-search/internal/api"
	"transit-search/internal/config"
	"transit-search/internal/events"
	"transit-search/internal/metrics"
	"transit-search/internal/search"
	"transit-search/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	// Root context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Resolve the latest city database if CITY is set; the importer records
	// each import in the cluster's meta DB (usually 'postgres').
	scheduleDB, currentDBName, err := openScheduleDB(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("schedule db error")
	}
	switchable := store.NewSwitchable(scheduleDB)

	// Metrics setup
	var mcol *metrics.Collector
	if cfg.MetricsAddr != "" {
		mcol = metrics.NewCollector(cfg.Search.SearchWindowMinutes, cfg.Search.MaxTransferStops, cfg.Search.MaxWaitMinutes)
		srv := mcol.Serve(cfg.MetricsAddr)
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Optional NATS search-event publisher
	var pub *events.Publisher
	if cfg.NATSURL != "" {
		pub, err = events.NewPublisher(cfg.NATSURL, cfg.LogNATSSubjects, wrapPublisherMetrics(mcol))
		if err != nil {
			log.Fatal().Err(err).Msg("nats error")
		}
		defer pub.Close()
	}

	engine := search.New(switchable, cfg.Search, cfg.Location, mcol)
	app := api.NewServer(engine, pub).App()
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()
	log.Info().Str("addr", cfg.HTTPAddr).Msg("api listening")

	// Periodically re-resolve the city's latest import and swap the store
	// when a new one lands.
	var done chan struct{}
	if cfg.City != "" {
		done = make(chan struct{})
		go func() {
			defer close(done)
			watchCityDB(ctx, cfg, switchable, scheduleDB, currentDBName, mcol)
		}()
	}

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	if done != nil {
		<-done
	}
	scheduleDB.Close()
	log.Info().Msg("shutdown complete")
}

func openScheduleDB(ctx context.Context, cfg *config.Config) (*store.Postgres, string, error) {
	if cfg.City == "" {
		db, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, "", err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, "", err
		}
		return db, "", nil
	}

	name, err := resolveCityDBName(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	dsn, err := store.WithDBName(cfg.DatabaseURL, name)
	if err != nil {
		return nil, "", err
	}
	log.Info().Str("db", name).Str("city", cfg.City).Msg("using city database")
	db, err := store.Open(dsn)
	if err != nil {
		return nil, "", err
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, "", err
	}
	return db, name, nil
}

func resolveCityDBName(ctx context.Context, cfg *config.Config) (string, error) {
	rootDSN, err := store.WithDBName(cfg.DatabaseURL, "postgres")
	if err != nil {
		return "", err
	}
	meta, err := store.Open(rootDSN)
	if err != nil {
		return "", err
	}
	defer meta.Close()
	if err := meta.Ping(ctx); err != nil {
		return "", err
	}
	return store.ResolveLatestImportDBName(ctx, meta, cfg.City)
}

func watchCityDB(ctx context.Context, cfg *config.Config, switchable *store.Switchable, current *store.Postgres, currentName string, mcol *metrics.Collector) {
	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		needSwitch := false
		if err := current.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("schedule db ping failed, re-resolving city DB")
			if mcol != nil {
				mcol.StoreSwitches.WithLabelValues("ping_failure").Inc()
			}
			needSwitch = true
		}

		newName, err := resolveCityDBName(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("resolve latest import error")
			continue
		}
		if newName != "" && newName != currentName {
			log.Info().Str("city", cfg.City).Str("from", currentName).Str("to", newName).Msg("detected updated city database")
			if mcol != nil {
				mcol.StoreSwitches.WithLabelValues("update").Inc()
			}
			needSwitch = true
		}

		if !needSwitch {
			continue
		}

		targetName := currentName
		if newName != "" {
			targetName = newName
		}
		dsn, err := store.WithDBName(cfg.DatabaseURL, targetName)
		if err != nil {
			log.Warn().Err(err).Msg("compose DSN error")
			continue
		}
		newDB, err := store.Open(dsn)
		if err != nil {
			log.Warn().Err(err).Msg("open new DB error")
			continue
		}
		if err := newDB.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("ping new DB error")
			newDB.Close()
			continue
		}

		old := switchable.Swap(newDB)
		if closer, ok := old.(*store.Postgres); ok {
			closer.Close()
		}
		current = newDB
		currentName = targetName
		log.Info().Str("db", currentName).Str("city", cfg.City).Msg("switched schedule database")
	}
}

// wrapPublisherMetrics adapts the Collector to the PublisherMetrics interface.
func wrapPublisherMetrics(c *metrics.Collector) events.PublisherMetrics {
	if c == nil {
		return nil
	}
	return &pubMetrics{c: c}
}

type pubMetrics struct{ c *metrics.Collector }

func (p *pubMetrics) PublishedInc()                  { p.c.EventsPublished.Inc() }
func (p *pubMetrics) PublishErrInc()                 { p.c.EventsPublishErrs.Inc() }
func (p *pubMetrics) PublishObserve(d time.Duration) { p.c.PublishDuration.Observe(d.Seconds()) }
func (p *pubMetrics) SetConnected(b bool) {
	if b {
		p.c.EventsConnected.Set(1)
	} else {
		p.c.EventsConnected.Set(0)
	}
}
