package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"transit-search/internal/search"
)

type Config struct {
	DatabaseURL string
	City        string

	HTTPAddr    string
	MetricsAddr string

	NATSURL         string
	LogNATSSubjects bool

	Search          search.Params
	Location        *time.Location
	RefreshInterval time.Duration // how often to re-resolve the city import DB
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	// Database URL (cluster DSN): prefer DATABASE_URL / PG_DSN, else build from PG* vars
	dsn := firstNonEmpty(
		os.Getenv("DATABASE_URL"),
		os.Getenv("PG_DSN"),
	)
	if dsn == "" {
		host := getenvDefault("PGHOST", "127.0.0.1")
		port := getenvDefault("PGPORT", "5432")
		user := getenvDefault("PGUSER", "postgres")
		pass := os.Getenv("PGPASSWORD")
		db := os.Getenv("PGDATABASE")
		// If CITY is provided, default base DB to 'postgres' when PGDATABASE is not set.
		if db == "" && os.Getenv("CITY") != "" {
			db = "postgres"
		}
		if db == "" {
			return nil, errors.New("PGDATABASE or DATABASE_URL must be set (set PGDATABASE=postgres when using CITY)")
		}
		sslmode := getenvDefault("PGSSLMODE", "disable")
		if pass != "" {
			cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", urlEscape(user), urlEscape(pass), host, port, db, sslmode)
		} else {
			cfg.DatabaseURL = fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s", urlEscape(user), host, port, db, sslmode)
		}
	} else {
		cfg.DatabaseURL = dsn
	}

	cfg.City = firstNonEmpty(os.Getenv("CITY"), os.Getenv("CITY_NAME"))
	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", ":8080")
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	cfg.NATSURL = os.Getenv("NATS_URL")
	cfg.LogNATSSubjects = boolEnv("LOG_NATS_SUBJECTS")

	p := search.DefaultParams()
	var err error
	if p.MaxOriginCandidates, err = intEnv("MAX_ORIGIN_CANDIDATES", p.MaxOriginCandidates); err != nil {
		return nil, err
	}
	if p.SearchWindowMinutes, err = intEnv("SEARCH_WINDOW_MIN", p.SearchWindowMinutes); err != nil {
		return nil, err
	}
	if p.MaxTransferStops, err = intEnv("MAX_TRANSFER_STOPS", p.MaxTransferStops); err != nil {
		return nil, err
	}
	if p.MinWaitMinutes, err = intEnv("MIN_TRANSFER_WAIT_MIN", p.MinWaitMinutes); err != nil {
		return nil, err
	}
	if p.MaxWaitMinutes, err = intEnv("MAX_TRANSFER_WAIT_MIN", p.MaxWaitMinutes); err != nil {
		return nil, err
	}
	if p.WideWaitMinutes, err = intEnv("WIDE_TRANSFER_WAIT_MIN", p.WideWaitMinutes); err != nil {
		return nil, err
	}
	if p.StageRowLimit, err = intEnv("STAGE_ROW_LIMIT", p.StageRowLimit); err != nil {
		return nil, err
	}
	if v := os.Getenv("ALLOW_BEST_EFFORT"); v != "" {
		p.AllowBestEffort = boolEnv("ALLOW_BEST_EFFORT")
	}
	if p.MinWaitMinutes > p.MaxWaitMinutes {
		return nil, fmt.Errorf("MIN_TRANSFER_WAIT_MIN (%d) exceeds MAX_TRANSFER_WAIT_MIN (%d)", p.MinWaitMinutes, p.MaxWaitMinutes)
	}
	cfg.Search = p

	// Refresh interval for re-resolving the latest city import (minutes)
	if v := os.Getenv("DB_REFRESH_INTERVAL_MIN"); v != "" {
		min, err := strconv.Atoi(v)
		if err != nil || min <= 0 {
			return nil, fmt.Errorf("invalid DB_REFRESH_INTERVAL_MIN: %q", v)
		}
		cfg.RefreshInterval = time.Duration(min) * time.Minute
	} else {
		cfg.RefreshInterval = 30 * time.Minute
	}

	// Time zone
	tzName := getenvDefault("TZ", "")
	if tzName == "" {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(tzName)
		if err != nil {
			return nil, fmt.Errorf("invalid TZ: %v", err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func intEnv(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", k, v)
	}
	return n, nil
}

func boolEnv(k string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}

func urlEscape(s string) string {
	// Minimal escape for DSN user/pass with special chars
	r := strings.NewReplacer("@", "%40", ":", "%3A", "/", "%2F", "?", "%3F", "#", "%23")
	return r.Replace(s)
}
