package store

import (
	"fmt"
	"net/url"
	"strings"
)

// WithDBName returns a DSN identical to the input but pointing at a different
// database. Supports postgres:// and postgresql:// schemes; a schemeless DSN
// is treated as postgres://.
func WithDBName(dsn, database string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("empty DSN")
	}
	if !strings.Contains(dsn, "://") {
		dsn = "postgres://" + dsn
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("unsupported DSN scheme %q", u.Scheme)
	}
	if strings.HasPrefix(database, "/") {
		u.Path = database
	} else {
		u.Path = "/" + database
	}
	return u.String(), nil
}
